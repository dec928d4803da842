// Package store is the sqlite-backed archive of finished analysis reports.
// The analysis pipeline itself never touches it; reports are written once
// on completion and read by the API.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// reportCacheSize bounds the read-through cache in front of the reports
// table. Completed analyses are read immediately and repeatedly by pollers.
const reportCacheSize = 128

type Store struct {
	*sql.DB
	log   *logger.Logger
	cache *lru.Cache[string, models.AnalysisReport]
}

// Open opens the archive database at path, creating it if needed, and
// applies pending migrations.
func Open(path string) (*Store, error) {
	log := logger.Default().WithPrefix("store")

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening database: %s", path)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1) // SQLite best practice for single writer

	cache, err := lru.New[string, models.AnalysisReport](reportCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create report cache: %w", err)
	}

	s := &Store{DB: sqlDB, log: log, cache: cache}

	log.Debug("applying migrations")
	if err := s.applyMigrations(context.Background()); err != nil {
		log.Error("failed to apply migrations: %v", err)
		return nil, err
	}

	log.Info("database ready")
	return s, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	if _, err := s.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		version := entry.Name()
		applied, err := s.isMigrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			s.log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		s.log.Info("applying migration: %s", version)
		if _, err := s.ExecContext(ctx, string(sqlBytes)); err != nil {
			s.log.Error("migration %s failed: %v", version, err)
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := s.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return err
		}
		s.log.Info("migration %s applied successfully", version)
	}
	return nil
}

func (s *Store) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var v string
	err := s.QueryRowContext(ctx, `SELECT version FROM schema_migrations WHERE version = ?`, version).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
