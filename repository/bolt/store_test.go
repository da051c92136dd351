package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/repository"
	"github.com/fastygo/taskpulse/repository/repotest"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "taskpulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestStoreContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store { return openTemp(t) })
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	user := &domain.User{Email: "persist@example.com", PasswordHash: "h"}
	require.NoError(t, s.Users().Create(ctx, user))
	task := &domain.Task{OwnerID: user.ID, Title: "keep me", Status: domain.StatusPending, Priority: domain.PriorityMedium}
	require.NoError(t, s.Tasks().Create(ctx, task))
	require.NoError(t, s.Close(ctx))

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close(ctx)

	got, err := s.Users().GetByEmail(ctx, "persist@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)

	gotTask, err := s.Tasks().GetByID(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, gotTask.Priority)
	require.NoError(t, s.Ping(ctx))
}

func TestStoreStats(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Ping(context.Background()))

	stats := s.Stats()
	assert.GreaterOrEqual(t, stats["readTx"], 1)
	assert.Equal(t, 0, stats["openReadTx"])
	assert.Contains(t, stats, "freePages")

	var closed *Store
	assert.Nil(t, closed.Stats())
}
