package runstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(Run{
		StartedAt: base,
		Stage:     "fetch-transcripts",
		Target:    "@Example",
		Success:   10, Skipped: 3, Errors: 1,
		Duration: 90 * time.Second,
	}))
	require.NoError(t, store.Record(Run{
		StartedAt: base.Add(time.Hour),
		Stage:     "parse-questions",
		Target:    "@Example",
		Model:     "gpt-4o-mini",
		Success:   9, Errors: 1,
	}))

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "parse-questions", runs[0].Stage)
	assert.Equal(t, "gpt-4o-mini", runs[0].Model)
	assert.NotEmpty(t, runs[0].ID)
	assert.Equal(t, "fetch-transcripts", runs[1].Stage)
	assert.Equal(t, 10, runs[1].Success)
	assert.Equal(t, base, runs[1].StartedAt)
	assert.Equal(t, 90*time.Second, runs[1].Duration)
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(Run{Stage: "fetch-videos", Target: "@Example"}))
	}

	runs, err := store.Recent(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
