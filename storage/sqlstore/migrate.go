package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// migrate applies the embedded schema for the dialect and logs every
// migration that ran.
func migrate(ctx context.Context, db *sql.DB, d dialect, logger zerolog.Logger) error {
	dir, err := fs.Sub(migrationsFS, "migrations/"+d.migrationsDir)
	if err != nil {
		return errors.Wrap(err, "[migrate] failed to open migrations")
	}

	provider, err := goose.NewProvider(d.gooseDialect, db, dir)
	if err != nil {
		return errors.Wrap(err, "[migrate] failed to create migration provider")
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return errors.Wrap(err, "[migrate] failed to apply migrations")
	}

	for _, result := range results {
		logger.Info().
			Str("driver", d.name).
			Int64("version", result.Source.Version).
			Str("file", result.Source.Path).
			Dur("duration", result.Duration).
			Msg("applied migration")
	}
	return nil
}
