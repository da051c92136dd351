package repository

import (
	"context"

	"github.com/google/uuid"
)

// Store is a credential and task store handle. It is constructed once at
// startup and passed to the use cases.
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	// Driver names the backend, e.g. "mongo" or "bolt".
	Driver() string
}

// StatsReporter is implemented by drivers that can describe their own
// internals on the health endpoint.
type StatsReporter interface {
	Stats() map[string]interface{}
}

// NewID returns a time-ordered opaque id, so ids created within the same
// clock tick still sort in creation order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
