package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitMigrationEnforcesCaseInsensitiveUniqueness(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	require.NoError(t, err)

	sql := string(data)
	assert.Contains(t, sql, "ON users (LOWER(username))")
	assert.Contains(t, sql, "ON users (LOWER(email))")
	assert.Contains(t, sql, "ON boards (LOWER(title))")
	assert.Contains(t, sql, "ON notes (board_id, LOWER(title))")
	assert.Contains(t, sql, "PRIMARY KEY (board_id, user_id)")
}
