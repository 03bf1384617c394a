package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/spec-kit/department-service/internal/config"
)

// SQLite owns the single process-wide database handle.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite opens (creating if needed) the database file and ensures the schema.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig, logger *zap.Logger) (*SQLite, error) {
	path := cfg.Path
	if path == "" {
		return nil, errors.New("sqlite path not provided")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers the same way a single embedded handle would.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	if err := EnsureSchema(ctx, sqlExecer{db}, config.DriverSQLite, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("opened sqlite", zap.String("path", path))
	return &SQLite{DB: db}, nil
}

// Close releases the handle.
func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}

// Ping verifies the handle is usable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("sqlite handle not configured")
	}
	return s.DB.PingContext(ctx)
}

type sqlExecer struct {
	db *sql.DB
}

func (e sqlExecer) ExecContext(ctx context.Context, query string) error {
	_, err := e.db.ExecContext(ctx, query)
	return err
}
