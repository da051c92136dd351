package mongo

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fastygo/taskpulse/repository"
	"github.com/fastygo/taskpulse/repository/repotest"
)

// Runs against a live server only when TASKPULSE_TEST_MONGO_URL is set,
// e.g. mongodb://localhost:27017.
func TestStoreContract(t *testing.T) {
	url := os.Getenv("TASKPULSE_TEST_MONGO_URL")
	if url == "" {
		t.Skip("TASKPULSE_TEST_MONGO_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(url))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	repotest.Run(t, func(t *testing.T) repository.Store {
		name := "taskpulse_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		db := client.Database(name)
		t.Cleanup(func() { _ = db.Drop(context.Background()) })

		s := New(client, db)
		require.NoError(t, s.EnsureIndexes(context.Background()))
		return &sharedClientStore{Store: s}
	})
}

// sharedClientStore keeps per-test Close from disconnecting the shared client.
type sharedClientStore struct{ *Store }

func (s *sharedClientStore) Close(context.Context) error { return nil }
