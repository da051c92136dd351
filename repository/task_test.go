package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/taskpulse/domain"
)

func TestSortTasksNewestFirstWithIDTieBreak(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{ID: "a", CreatedAt: base},
		{ID: "c", CreatedAt: base.Add(time.Minute)},
		{ID: "b", CreatedAt: base},
	}
	SortTasks(tasks)
	assert.Equal(t, []string{"c", "b", "a"}, ids(tasks))
}

func TestPage(t *testing.T) {
	tasks := []domain.Task{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	assert.Equal(t, []string{"1", "2", "3"}, ids(Page(tasks, TaskFilter{})))
	assert.Equal(t, []string{"2"}, ids(Page(tasks, TaskFilter{Offset: 1, Limit: 1})))
	assert.Empty(t, Page(tasks, TaskFilter{Offset: 3}))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, MaxListLimit, ClampLimit(0))
	assert.Equal(t, MaxListLimit, ClampLimit(MaxListLimit+1))
	assert.Equal(t, 10, ClampLimit(10))
}

func ids(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].ID
	}
	return out
}
