package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/google/uuid"
)

// AdminRepository reads the identity tables owned by the auth provider.
//go:generate mockgen -source=admin_repository.go -destination=../mocks/repository_mocks/admin_repository_mock.go -package=repository_mocks

type AdminRepository interface {
	GetEmail(ctx context.Context, userID uuid.UUID) (string, error)
	IsProfileAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	RecordAudit(ctx context.Context, entry models.AuditEntry) error
}

type adminRepo struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) GetEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx, `SELECT email FROM profiles WHERE user_id = $1`, userID).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get email: %w", err)
	}
	return email, nil
}

func (r *adminRepo) IsProfileAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRowContext(ctx, `SELECT is_admin FROM profiles WHERE user_id = $1`, userID).Scan(&isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("profile admin flag: %w", err)
	}
	return isAdmin, nil
}

func (r *adminRepo) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)
	`, userID, role).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("has role: %w", err)
	}
	return ok, nil
}

func (r *adminRepo) RecordAudit(ctx context.Context, entry models.AuditEntry) error {
	return insertAudit(ctx, r.db, entry)
}
