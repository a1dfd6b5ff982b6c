package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreInsertFindOne(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	id, err := s.Insert(ctx, "customers", map[string]any{
		"tenant_id": "t-1",
		"source_id": "C-1",
		"name":      "Acme Concrete",
	})
	require.NoError(t, err)

	row, found, err := s.FindOne(ctx, "customers", map[string]any{"tenant_id": "t-1", "source_id": "C-1"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id.String(), row["id"])
	assert.Equal(t, "Acme Concrete", row["name"])

	_, found, err = s.FindOne(ctx, "customers", map[string]any{"source_id": "C-2"})
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = s.FindOne(ctx, "jobs", map[string]any{"source_id": "C-1"})
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, 1, s.Count("customers"))
}

func TestMatchesLooseEquality(t *testing.T) {
	row := map[string]any{"qty": float64(5), "name": "drill", "flag": true}
	assert.True(t, matches(row, map[string]any{"qty": "5", "name": "drill"}))
	assert.True(t, matches(row, map[string]any{"flag": true}))
	assert.False(t, matches(row, map[string]any{"qty": "6"}))
	assert.False(t, matches(row, map[string]any{"missing": "x"}))
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "migrate.db")

	s, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	id, err := s.Insert(ctx, "jobs", map[string]any{
		"tenant_id":  "t-1",
		"source_id":  "J-1",
		"job_number": "1001",
	})
	require.NoError(t, err)

	row, found, err := s.FindOne(ctx, "jobs", map[string]any{"tenant_id": "t-1", "source_id": "J-1"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id.String(), row["id"])
	assert.Equal(t, "1001", row["job_number"])

	_, found, err = s.FindOne(ctx, "jobs", map[string]any{"source_id": "J-404"})
	require.NoError(t, err)
	assert.False(t, found)
}
