package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Complete ")
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, st)

	_, err = ParseStatus("archived")
	assert.True(t, IsDomainError(err, ErrCodeInvalidInput))
}

func TestParsePriority(t *testing.T) {
	for _, in := range []string{"low", "MEDIUM", "high"} {
		_, err := ParsePriority(in)
		assert.NoError(t, err, in)
	}
	_, err := ParsePriority("urgent")
	assert.True(t, IsDomainError(err, ErrCodeInvalidInput))
}

func TestTaskValidate(t *testing.T) {
	valid := Task{OwnerID: "u1", Title: "Buy milk", Status: StatusPending, Priority: PriorityLow}
	require.NoError(t, valid.Validate())

	cases := map[string]func(*Task){
		"no owner":     func(t *Task) { t.OwnerID = "" },
		"blank title":  func(t *Task) { t.Title = "   " },
		"long title":   func(t *Task) { t.Title = strings.Repeat("a", MaxTitleLength+1) },
		"long desc":    func(t *Task) { t.Description = strings.Repeat("d", MaxDescriptionLength+1) },
		"bad status":   func(t *Task) { t.Status = "archived" },
		"bad priority": func(t *Task) { t.Priority = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			task := valid
			mutate(&task)
			assert.True(t, IsDomainError(task.Validate(), ErrCodeInvalidInput))
		})
	}
}

func TestTaskCloneCopiesDueDate(t *testing.T) {
	due := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	orig := Task{DueDate: &due}
	cp := orig.Clone()
	*cp.DueDate = cp.DueDate.Add(time.Hour)
	assert.Equal(t, due, *orig.DueDate)
}

func TestErrorIsMatchesWrappedSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrTaskNotFound)
	assert.True(t, errors.Is(err, ErrTaskNotFound))
	assert.False(t, errors.Is(err, ErrUserNotFound))
	assert.Equal(t, ErrCodeNotFound, CodeOf(err))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("boom")))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}

func TestUserProfileOmitsHash(t *testing.T) {
	u := &User{ID: "1", Email: "a@x.com", Name: "A", PasswordHash: "secret"}
	p := u.Profile()
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "A", p.Name)
}
