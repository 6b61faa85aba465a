package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/repository"
	"github.com/a2sh3r/onagui-ledger/internal/supabase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=admin_resolver.go -destination=../mocks/service_mocks/admin_resolver_mock.go -package=service_mocks

type AdminResolver interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) bool
}

// AdminStrategy is one source of admin truth. A strategy that cannot answer
// returns an error and the resolver moves on to the next one.
type AdminStrategy interface {
	Name() string
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type adminResolver struct {
	strategies []AdminStrategy
}

// NewAdminResolver consults strategies in order; the first positive answer wins.
func NewAdminResolver(strategies ...AdminStrategy) AdminResolver {
	return &adminResolver{strategies: strategies}
}

func (r *adminResolver) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	cache := adminCacheFrom(ctx)
	if v, ok := cache.get(userID); ok {
		return v
	}

	result := false
	for _, s := range r.strategies {
		ok, err := s.IsAdmin(ctx, userID)
		if err != nil {
			logger.Log.Warn("admin strategy failed", zap.String("strategy", s.Name()), zap.String("user_id", userID.String()), zap.Error(err))
			continue
		}
		if ok {
			logger.Log.Debug("admin resolved", zap.String("strategy", s.Name()), zap.String("user_id", userID.String()))
			result = true
			break
		}
	}

	cache.set(userID, result)
	return result
}

type adminCacheKey struct{}
type knownEmailKey struct{}

type adminCache struct {
	mu sync.Mutex
	m  map[uuid.UUID]bool
}

func (c *adminCache) get(id uuid.UUID) (bool, bool) {
	if c == nil {
		return false, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[id]
	return v, ok
}

func (c *adminCache) set(id uuid.UUID, v bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.m[id] = v
	c.mu.Unlock()
}

// WithAdminCache scopes resolver results to one request.
func WithAdminCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminCacheKey{}, &adminCache{m: map[uuid.UUID]bool{}})
}

func adminCacheFrom(ctx context.Context) *adminCache {
	c, _ := ctx.Value(adminCacheKey{}).(*adminCache)
	return c
}

// WithKnownEmail records the email claim of the authenticated caller.
func WithKnownEmail(ctx context.Context, userID uuid.UUID, email string) context.Context {
	if email == "" {
		return ctx
	}
	return context.WithValue(ctx, knownEmailKey{}, knownEmail{userID: userID, email: email})
}

type knownEmail struct {
	userID uuid.UUID
	email  string
}

func knownEmailFor(ctx context.Context, userID uuid.UUID) (string, bool) {
	k, ok := ctx.Value(knownEmailKey{}).(knownEmail)
	if !ok || k.userID != userID {
		return "", false
	}
	return k.email, true
}

type WhitelistStrategy struct {
	emails map[string]struct{}
	repo   repository.AdminRepository
}

func NewWhitelistStrategy(emails []string, repo repository.AdminRepository) *WhitelistStrategy {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			set[e] = struct{}{}
		}
	}
	return &WhitelistStrategy{emails: set, repo: repo}
}

func (s *WhitelistStrategy) Name() string { return "whitelist" }

func (s *WhitelistStrategy) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	if len(s.emails) == 0 {
		return false, nil
	}
	email, ok := knownEmailFor(ctx, userID)
	if !ok {
		var err error
		email, err = s.repo.GetEmail(ctx, userID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	_, listed := s.emails[strings.ToLower(strings.TrimSpace(email))]
	return listed, nil
}

type RPCStrategy struct {
	client supabase.ClientInterface
}

func NewRPCStrategy(client supabase.ClientInterface) *RPCStrategy {
	return &RPCStrategy{client: client}
}

func (s *RPCStrategy) Name() string { return "rpc" }

func (s *RPCStrategy) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.client.IsAdminUser(ctx, userID)
}

type ProfileFlagStrategy struct {
	repo repository.AdminRepository
}

func NewProfileFlagStrategy(repo repository.AdminRepository) *ProfileFlagStrategy {
	return &ProfileFlagStrategy{repo: repo}
}

func (s *ProfileFlagStrategy) Name() string { return "profile_flag" }

func (s *ProfileFlagStrategy) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.IsProfileAdmin(ctx, userID)
}

type RoleStrategy struct {
	repo repository.AdminRepository
	role string
}

func NewRoleStrategy(repo repository.AdminRepository) *RoleStrategy {
	return &RoleStrategy{repo: repo, role: "admin"}
}

func (s *RoleStrategy) Name() string { return "role" }

func (s *RoleStrategy) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.HasRole(ctx, userID, s.role)
}
