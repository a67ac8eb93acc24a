package sqlstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDialect_Rebind(t *testing.T) {
	query := `INSERT INTO gms (user_id, campaign_id) VALUES (?, ?)`

	require.Equal(t, query, sqliteDialect.rebind(query))
	require.Equal(t, `INSERT INTO gms (user_id, campaign_id) VALUES ($1, $2)`, postgresDialect.rebind(query))
}

func TestDialectFor(t *testing.T) {
	d, err := dialectFor(" SQLite ")
	require.NoError(t, err)
	require.Equal(t, sqliteDialect, d)

	d, err = dialectFor("postgres")
	require.NoError(t, err)
	require.Equal(t, "pgx", d.driverName)

	_, err = dialectFor("mysql")
	require.Error(t, err)
}

func TestMillis(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 123_000_000, time.FixedZone("X", 3600))
	require.True(t, at.Equal(fromMillis(toMillis(at))))
	require.Equal(t, time.UTC, fromMillis(toMillis(at)).Location())
}
