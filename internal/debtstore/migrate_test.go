package debtstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selwyntheo/fund-services-architect/schema"
)

func TestMigrateResultsNoneBackend(t *testing.T) {
	err := MigrateResults(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateResultsUnsupportedBackend(t *testing.T) {
	err := MigrateResults(schema.DatabaseBackend("oracle"), "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestMigrateResultsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	// Up to latest, twice: the second run is a no-op, not an error
	require.NoError(t, MigrateResults(schema.SQLiteBackend, dbPath, -1))
	require.NoError(t, MigrateResults(schema.SQLiteBackend, dbPath, -1))

	// Store operations must work against the migrated schema
	store, err := NewResultStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.SaveResult(sampleResult("migrated", 1.0))
	require.NoError(t, err)
}
