package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/internal/config"
)

func TestOpenMemory(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{URL: "memory://"}, config.MigrationsConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Driver())
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taskpulse.db")
	s, err := Open(context.Background(), config.StoreConfig{URL: "bolt://" + path}, config.MigrationsConfig{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	assert.Equal(t, "bolt", s.Driver())
	require.NoError(t, s.Ping(context.Background()))

	u := &domain.User{Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, s.Users().Create(context.Background(), u))
	assert.FileExists(t, path)
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{URL: "redis://localhost"}, config.MigrationsConfig{}, nil)
	assert.Error(t, err)
}
