package sqlstore

import (
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

type dialect struct {
	name          string
	driverName    string
	gooseDialect  goose.Dialect
	migrationsDir string
	numbered      bool // $1, $2 placeholders instead of ?
}

var (
	sqliteDialect = dialect{
		name:          "sqlite",
		driverName:    "sqlite",
		gooseDialect:  goose.DialectSQLite3,
		migrationsDir: "sqlite",
	}
	postgresDialect = dialect{
		name:          "postgres",
		driverName:    "pgx",
		gooseDialect:  goose.DialectPostgres,
		migrationsDir: "postgres",
		numbered:      true,
	}
)

func dialectFor(driver string) (dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case sqliteDialect.name:
		return sqliteDialect, nil
	case postgresDialect.name:
		return postgresDialect, nil
	default:
		return dialect{}, errors.Errorf("unsupported database driver %q", driver)
	}
}

// rebind rewrites ? placeholders for drivers that number their parameters.
// Queries in this package never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
