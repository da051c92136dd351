package repository

import (
	"context"
	"sort"

	"github.com/fastygo/taskpulse/domain"
)

// MaxListLimit caps a single page of tasks.
const MaxListLimit = 500

type TaskFilter struct {
	OwnerID string
	Status  domain.Status
	Limit   int
	Offset  int
}

// TaskRepository stores tasks. Every method is scoped by owner: a task that
// exists but belongs to someone else is reported as domain.ErrTaskNotFound.
type TaskRepository interface {
	GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, ownerID, id string) error
}

// ClampLimit maps a requested page size to the effective one; 0 means all.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// SortTasks orders tasks newest first with id as the tie breaker. Drivers
// without a server-side sort use it so every backend lists identically.
func SortTasks(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
}

// Page applies filter offset and limit to an already sorted slice.
func Page(tasks []domain.Task, filter TaskFilter) []domain.Task {
	if filter.Offset >= len(tasks) {
		return []domain.Task{}
	}
	if filter.Offset > 0 {
		tasks = tasks[filter.Offset:]
	}
	if limit := ClampLimit(filter.Limit); len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks
}
