package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(embedMigrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		b, err := fs.ReadFile(embedMigrations, name)
		require.NoError(t, err)
		body := string(b)
		assert.Contains(t, body, "-- +goose Up", name)
		assert.Contains(t, body, "-- +goose Down", name)
	}
}

func TestCatalogMigrationDefinesSlugKey(t *testing.T) {
	b, err := fs.ReadFile(embedMigrations, "migrations/00001_catalog.sql")
	require.NoError(t, err)

	body := string(b)
	assert.True(t, strings.Contains(body, "GENERATED ALWAYS AS (doc->>'slug')"))
	assert.Contains(t, body, "projects_slug_key")
}
