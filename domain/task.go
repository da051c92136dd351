package domain

import (
	"strings"
	"time"
)

// Status is the completion state of a task. Both transitions are user driven.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
)

// Priority orders tasks by importance.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// ParseStatus normalizes s and reports whether it is an allowed status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusComplete:
		return st, nil
	default:
		return "", Invalid("status must be one of: pending, complete")
	}
}

// ParsePriority normalizes p and reports whether it is an allowed priority.
func ParsePriority(p string) (Priority, error) {
	switch pr := Priority(strings.ToLower(strings.TrimSpace(p))); pr {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return pr, nil
	default:
		return "", Invalid("priority must be one of: low, medium, high")
	}
}

// Task represents a user-owned activity item.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Touch stamps UpdatedAt, and CreatedAt on first save.
func (t *Task) Touch(now time.Time) {
	if t == nil {
		return
	}
	t.UpdatedAt = now
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
}

// Validate checks the invariants every stored task must satisfy.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if t.OwnerID == "" {
		return Invalid("task owner is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return Invalid("title is required")
	}
	if len([]rune(t.Title)) > MaxTitleLength {
		return Invalid("title must be at most %d characters", MaxTitleLength)
	}
	if len([]rune(t.Description)) > MaxDescriptionLength {
		return Invalid("description must be at most %d characters", MaxDescriptionLength)
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return err
	}
	if _, err := ParsePriority(string(t.Priority)); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy so stores never share DueDate pointers with callers.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
