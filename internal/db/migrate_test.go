package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/vortex?sslmode=disable", "pgx5://u:p@localhost:5432/vortex?sslmode=disable"},
		{"postgresql://localhost/vortex", "pgx5://localhost/vortex"},
		{"pgx5://localhost/vortex", "pgx5://localhost/vortex"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MigrationURL(tt.in))
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_kv_state.up.sql")
	assert.Contains(t, names, "000001_kv_state.down.sql")
}
