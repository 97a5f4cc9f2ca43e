package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/guardsh/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStoreAt(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreStartAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Start(ctx, "alice", "/home/alice/project", map[string]string{"LANG": "C"})
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, domain.SessionActive, sess.Status)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, "/home/alice/project", got.WorkingDir)
	assert.Equal(t, map[string]string{"LANG": "C"}, got.Environment)
}

func TestStoreGetMissingSession(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStoreAppendAndEntriesOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Start(ctx, "bob", "/tmp", nil)
	require.NoError(t, err)

	commands := []string{"ls -la", "git status", "df -h"}
	for i, cmd := range commands {
		err := store.Append(ctx, sess.ID, domain.CommandEntry{
			Command:           cmd,
			RiskLevel:         domain.RiskSafe,
			State:             domain.StateCompleted,
			AssessmentSummary: "safe",
			ExitCode:          0,
			Timestamp:         time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	entries, err := store.Entries(ctx, sess.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, len(commands))
	for i, entry := range entries {
		assert.Equal(t, commands[i], entry.Command, "entries must come back oldest first")
		assert.Equal(t, domain.StateCompleted, entry.State)
		assert.Equal(t, domain.RiskSafe, entry.RiskLevel)
	}

	limited, err := store.Entries(ctx, sess.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStoreAppendAdvancesActivity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Start(ctx, "carol", "/tmp", nil)
	require.NoError(t, err)

	later := time.Now().UTC().Add(time.Hour)
	require.NoError(t, store.Append(ctx, sess.ID, domain.CommandEntry{
		Command:   "echo hi",
		State:     domain.StateCompleted,
		Timestamp: later,
	}))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.LastActivityAt.After(got.StartedAt),
		"last activity should advance past session start")
}

func TestStoreTerminate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Start(ctx, "dave", "/tmp", nil)
	require.NoError(t, err)

	require.NoError(t, store.Terminate(ctx, sess.ID))
	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionTerminated, got.Status)

	assert.ErrorIs(t, store.Terminate(ctx, "no-such-id"), domain.ErrSessionNotFound)
}

func TestStoreClearIsScopedToSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Start(ctx, "erin", "/tmp", nil)
	require.NoError(t, err)
	second, err := store.Start(ctx, "erin", "/tmp", nil)
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, first.ID, domain.CommandEntry{Command: "ls", State: domain.StateCompleted}))
	require.NoError(t, store.Append(ctx, second.ID, domain.CommandEntry{Command: "pwd", State: domain.StateCompleted}))

	require.NoError(t, store.Clear(ctx, first.ID))

	cleared, err := store.Entries(ctx, first.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cleared)

	kept, err := store.Entries(ctx, second.ID, 0)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestStoreListHonorsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Start(ctx, "frank", "/tmp", nil)
		require.NoError(t, err)
	}

	sessions, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
