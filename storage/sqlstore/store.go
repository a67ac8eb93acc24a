// Package sqlstore is the database/sql backed store for users, systems and
// campaigns. SQLite (modernc.org/sqlite) is the default driver; PostgreSQL is
// reached through pgx's database/sql adapter. The schema is applied with
// goose from migrations embedded in the binary.
package sqlstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const sqliteParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// Store owns the database handle and hands out the repositories bound to it.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  zerolog.Logger
}

// Open connects to the database named by driver and dsn and applies the
// embedded migrations. For sqlite, dsn is a file path and its directory is
// created when missing.
func Open(ctx context.Context, driver, dsn string, logger zerolog.Logger) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, errors.Wrap(err, "[Store Open]")
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("[Store Open] dsn is required")
	}

	if d == sqliteDialect {
		dsn, err = sqliteDSN(dsn)
		if err != nil {
			return nil, errors.Wrap(err, "[Store Open]")
		}
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "[Store Open] failed to open %s database", d.name)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "[Store Open] failed to reach %s database", d.name)
	}

	logger = logger.With().Str("component", "sqlstore").Logger()
	if err := migrate(ctx, db, d, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info().Str("driver", d.name).Msg("store ready")
	return &Store{db: db, dialect: d, logger: logger}, nil
}

func sqliteDSN(path string) (string, error) {
	if strings.Contains(path, "?") {
		return path, nil
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(err, "failed to create database directory")
		}
	}
	return cleanPath + "?" + sqliteParams, nil
}

// Users returns the user repository.
func (s *Store) Users() *UserRepo {
	return &UserRepo{q: s.db, dialect: s.dialect}
}

// Systems returns the systems repository.
func (s *Store) Systems() *SystemRepo {
	return &SystemRepo{q: s.db, dialect: s.dialect}
}

// Campaigns returns the campaign repository. It can run its writes inside a
// transaction.
func (s *Store) Campaigns() *CampaignRepo {
	return &CampaignRepo{db: s.db, q: s.db, dialect: s.dialect}
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
