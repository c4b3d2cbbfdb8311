package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/cmdguard/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	return NewSQLiteStoreAt(filepath.Join(t.TempDir(), "history.db"))
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)

	entry := domain.HistoryEntry{
		ID:         "exec-1",
		Timestamp:  time.Now().Truncate(time.Second),
		Command:    "ls -la",
		Tier:       domain.TierLow,
		Decision:   domain.DecisionAllow,
		Warnings:   []string{domain.WarnFileOperation},
		UserAction: domain.ActionApprove,
		Execution: &domain.ExecutionResult{
			ExitCode:   0,
			Stdout:     "total 0\n",
			DurationMS: 12,
		},
	}
	require.NoError(t, store.Append(entry))

	entries, err := store.Entries(0, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.Command, got.Command)
	assert.Equal(t, entry.Tier, got.Tier)
	assert.Equal(t, entry.Decision, got.Decision)
	assert.Equal(t, entry.Warnings, got.Warnings)
	assert.Equal(t, entry.UserAction, got.UserAction)
	require.NotNil(t, got.Execution)
	assert.Equal(t, 0, got.Execution.ExitCode)
	assert.Equal(t, "total 0\n", got.Execution.Stdout)
	assert.Equal(t, int64(12), got.Execution.DurationMS)
}

func TestSQLiteStoreBlockedEntryHasNoExecution(t *testing.T) {
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Append(domain.HistoryEntry{
		ID:        "blocked-1",
		Timestamp: time.Now(),
		Command:   "rm -rf /",
		Tier:      domain.TierCritical,
		Decision:  domain.DecisionBlock,
		Reason:    domain.BlockCriticalRisk,
	}))

	entries, err := store.Entries(0, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Execution)
	assert.False(t, entries[0].Executed())
	assert.Equal(t, domain.BlockCriticalRisk, entries[0].Reason)
}

func TestSQLiteStoreSearchLimitAndOrder(t *testing.T) {
	store := newTestSQLiteStore(t)

	base := time.Now().Add(-time.Hour)
	commands := []string{"git status", "docker ps", "git log"}
	for i, cmd := range commands {
		require.NoError(t, store.Append(domain.HistoryEntry{
			ID:        cmd,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Command:   cmd,
			Tier:      domain.TierLow,
			Decision:  domain.DecisionAllow,
		}))
	}

	entries, err := store.Entries(2, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "git log", entries[0].Command, "newest first")

	entries, err = store.Entries(0, "git")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSQLiteStoreClearAndExport(t *testing.T) {
	dir := t.TempDir()
	store := NewSQLiteStoreAt(filepath.Join(dir, "history.db"))
	require.NoError(t, store.Append(domain.HistoryEntry{
		ID:        "x",
		Timestamp: time.Now(),
		Command:   "ls",
		Tier:      domain.TierLow,
		Decision:  domain.DecisionAllow,
	}))

	dest := filepath.Join(dir, "export.jsonl")
	require.NoError(t, store.ExportJSON(dest))
	exported := NewFileStoreAt(dest)
	entries, err := exported.Entries(0, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, store.Clear())
	entries, err = store.Entries(0, "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
