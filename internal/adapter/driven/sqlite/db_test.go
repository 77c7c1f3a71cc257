package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_FileWithWAL(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "phonebook.db")

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var mode string
	require.NoError(t, db.Writer.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	require.NoError(t, db.Ping(ctx))
	assert.Equal(t, path, db.path)
}

func TestDB_PingAfterClose(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Ping(context.Background()))

	require.NoError(t, db.Close())
	err := db.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), db.path)
}
