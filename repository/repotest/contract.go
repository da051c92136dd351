// Package repotest holds the behaviour every repository.Store driver must
// share. Driver packages call Run from their own tests.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/repository"
)

// Factory returns a fresh, empty store. Cleanup is registered on t.
type Factory func(t *testing.T) repository.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("UserCreateAndLookup", func(t *testing.T) { testUserCreateAndLookup(t, newStore(t)) })
	t.Run("UserDuplicateEmail", func(t *testing.T) { testUserDuplicateEmail(t, newStore(t)) })
	t.Run("UserNotFound", func(t *testing.T) { testUserNotFound(t, newStore(t)) })
	t.Run("TaskRoundTrip", func(t *testing.T) { testTaskRoundTrip(t, newStore(t)) })
	t.Run("TaskOwnershipScoping", func(t *testing.T) { testTaskOwnershipScoping(t, newStore(t)) })
	t.Run("TaskListOrderAndFilter", func(t *testing.T) { testTaskListOrderAndFilter(t, newStore(t)) })
	t.Run("TaskUpdate", func(t *testing.T) { testTaskUpdate(t, newStore(t)) })
	t.Run("TaskDeleteTwice", func(t *testing.T) { testTaskDeleteTwice(t, newStore(t)) })
	t.Run("UnknownIDs", func(t *testing.T) { testUnknownIDs(t, newStore(t)) })
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func newUser(t *testing.T, s repository.Store, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Name: "Test", PasswordHash: "$2a$04$hash"}
	require.NoError(t, s.Users().Create(ctx(t), u))
	require.NotEmpty(t, u.ID)
	return u
}

func newTask(t *testing.T, s repository.Store, owner, title string) *domain.Task {
	t.Helper()
	task := &domain.Task{
		OwnerID:  owner,
		Title:    title,
		Status:   domain.StatusPending,
		Priority: domain.PriorityLow,
	}
	require.NoError(t, s.Tasks().Create(ctx(t), task))
	require.NotEmpty(t, task.ID)
	return task
}

func testUserCreateAndLookup(t *testing.T, s repository.Store) {
	u := newUser(t, s, " Alice@Example.com ")
	assert.Equal(t, "alice@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := s.Users().GetByID(ctx(t), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
	assert.Equal(t, u.PasswordHash, byID.PasswordHash)
	assert.Equal(t, "Test", byID.Name)

	byEmail, err := s.Users().GetByEmail(ctx(t), "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func testUserDuplicateEmail(t *testing.T, s repository.Store) {
	newUser(t, s, "dup@example.com")
	err := s.Users().Create(ctx(t), &domain.User{Email: "DUP@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func testUserNotFound(t *testing.T, s repository.Store) {
	_, err := s.Users().GetByEmail(ctx(t), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = s.Users().GetByID(ctx(t), repository.NewID())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func testTaskRoundTrip(t *testing.T, s repository.Store) {
	owner := newUser(t, s, "owner@example.com")
	due := time.Date(2026, 12, 24, 18, 30, 0, 0, time.UTC)
	task := &domain.Task{
		OwnerID:     owner.ID,
		Title:       "Buy milk",
		Description: "two litres",
		Status:      domain.StatusPending,
		Priority:    domain.PriorityHigh,
		DueDate:     &due,
	}
	require.NoError(t, s.Tasks().Create(ctx(t), task))

	got, err := s.Tasks().GetByID(ctx(t), owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "two litres", got.Description)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	assert.False(t, got.CreatedAt.IsZero())
}

func testTaskOwnershipScoping(t *testing.T, s repository.Store) {
	a := newUser(t, s, "a@example.com")
	b := newUser(t, s, "b@example.com")
	task := newTask(t, s, a.ID, "private")

	_, err := s.Tasks().GetByID(ctx(t), b.ID, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	stolen := *task
	stolen.OwnerID = b.ID
	stolen.Title = "hijacked"
	assert.ErrorIs(t, s.Tasks().Update(ctx(t), &stolen), domain.ErrTaskNotFound)
	assert.ErrorIs(t, s.Tasks().Delete(ctx(t), b.ID, task.ID), domain.ErrTaskNotFound)

	list, err := s.Tasks().List(ctx(t), repository.TaskFilter{OwnerID: b.ID})
	require.NoError(t, err)
	assert.Empty(t, list)

	still, err := s.Tasks().GetByID(ctx(t), a.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", still.Title)
}

func testTaskListOrderAndFilter(t *testing.T, s repository.Store) {
	owner := newUser(t, s, "list@example.com")
	first := newTask(t, s, owner.ID, "first")
	time.Sleep(5 * time.Millisecond)
	second := newTask(t, s, owner.ID, "second")
	time.Sleep(5 * time.Millisecond)
	third := newTask(t, s, owner.ID, "third")

	third.Status = domain.StatusComplete
	require.NoError(t, s.Tasks().Update(ctx(t), third))

	list, err := s.Tasks().List(ctx(t), repository.TaskFilter{OwnerID: owner.ID})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, taskIDs(list))

	pending, err := s.Tasks().List(ctx(t), repository.TaskFilter{OwnerID: owner.ID, Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, taskIDs(pending))

	page, err := s.Tasks().List(ctx(t), repository.TaskFilter{OwnerID: owner.ID, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, taskIDs(page))
}

func testTaskUpdate(t *testing.T, s repository.Store) {
	owner := newUser(t, s, "upd@example.com")
	task := newTask(t, s, owner.ID, "draft")
	created := task.CreatedAt

	time.Sleep(5 * time.Millisecond)
	task.Title = "final"
	task.Status = domain.StatusComplete
	task.DueDate = nil
	require.NoError(t, s.Tasks().Update(ctx(t), task))
	assert.True(t, task.UpdatedAt.After(created) || task.UpdatedAt.Equal(created))

	got, err := s.Tasks().GetByID(ctx(t), owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, domain.StatusComplete, got.Status)
	assert.Nil(t, got.DueDate)
	assert.True(t, created.Equal(got.CreatedAt), "created %v got %v", created, got.CreatedAt)
}

func testTaskDeleteTwice(t *testing.T, s repository.Store) {
	owner := newUser(t, s, "del@example.com")
	task := newTask(t, s, owner.ID, "ephemeral")

	require.NoError(t, s.Tasks().Delete(ctx(t), owner.ID, task.ID))
	assert.ErrorIs(t, s.Tasks().Delete(ctx(t), owner.ID, task.ID), domain.ErrTaskNotFound)

	_, err := s.Tasks().GetByID(ctx(t), owner.ID, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func testUnknownIDs(t *testing.T, s repository.Store) {
	owner := newUser(t, s, "ids@example.com")
	for _, id := range []string{"", "not-an-id", "000000000000000000000000", repository.NewID()} {
		_, err := s.Tasks().GetByID(ctx(t), owner.ID, id)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound, "id %q", id)
		assert.ErrorIs(t, s.Tasks().Delete(ctx(t), owner.ID, id), domain.ErrTaskNotFound, "id %q", id)
	}
}

func taskIDs(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].ID
	}
	return out
}
