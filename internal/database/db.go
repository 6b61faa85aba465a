package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/config"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"go.uber.org/zap"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func InitDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := Open(ctx, cfg.DatabaseURI)
	if err != nil {
		return nil, err
	}

	if err := MigrateUp(cfg.MigrationsPath, cfg.DatabaseURI); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Log.Info("Successfully connected to the database")
	return db, nil
}

// Open connects without touching the schema.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return db, nil
}

func MigrateUp(source, dsn string) error {
	return withMigrator(source, dsn, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		logger.Log.Info("Migrations completed successfully")
		return nil
	})
}

// MigrateDown rolls back the given number of steps.
func MigrateDown(source, dsn string, steps int) error {
	return withMigrator(source, dsn, func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		logger.Log.Info("Migrations rolled back", zap.Int("steps", steps))
		return nil
	})
}

func withMigrator(source, dsn string, fn func(m *migrate.Migrate) error) error {
	m, err := migrate.New(source, dsn)
	if err != nil {
		logger.Log.Error("failed to create migrate instance", zap.Error(err))
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func(m *migrate.Migrate) {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Log.Error("failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("db", dbErr))
		}
	}(m)

	return fn(m)
}
