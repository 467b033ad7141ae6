package db_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/testutil"
)

func TestOpenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "voss.db")

	database, err := db.OpenDatabase(dbPath)
	require.NoError(t, err)
	defer database.Close()

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "database file should be created along with its directory")
	assert.Equal(t, db.SQLite, database.Dialect())

	var count int
	err = database.Conn().QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 7)

	var mode string
	require.NoError(t, database.Conn().QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenDatabaseIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "voss.db")

	first, err := db.OpenDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.OpenDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, db.IsPostgresDSN("postgres://user@localhost/crm"))
	assert.True(t, db.IsPostgresDSN("postgresql://user@localhost/crm?sslmode=disable"))
	assert.False(t, db.IsPostgresDSN("/home/me/.local/share/voss/voss.db"))
	assert.False(t, db.IsPostgresDSN(":memory:"))
}

func TestRebind(t *testing.T) {
	cases := map[string]string{
		"SELECT 1":                                  "SELECT 1",
		"SELECT * FROM t WHERE a = ? AND b = ?":     "SELECT * FROM t WHERE a = $1 AND b = $2",
		"UPDATE t SET s = '?' WHERE id = ?":         "UPDATE t SET s = '?' WHERE id = $1",
		"INSERT INTO t VALUES (?, ?, ?)":            "INSERT INTO t VALUES ($1, $2, $3)",
		"SELECT * FROM t WHERE a = 'it''s' AND b=?": "SELECT * FROM t WHERE a = 'it''s' AND b=$1",
	}
	for in, want := range cases {
		assert.Equal(t, want, db.Rebind(in), in)
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		c := testutil.NewContact()
		if err := db.NewContactRepository(tx).Create(ctx, &c); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	contacts, err := db.NewContactRepository(database.Conn()).List(ctx, db.ContactFilter{})
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestWithinTxCommits(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	err := database.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		c := testutil.NewContact()
		return db.NewContactRepository(tx).Create(ctx, &c)
	})
	require.NoError(t, err)

	contacts, err := db.NewContactRepository(database.Conn()).List(ctx, db.ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}
