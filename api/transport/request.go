package transport

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/fastygo/taskpulse/domain"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TaskCreateRequest ignores any client-supplied owner or id.
type TaskCreateRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description" validate:"max=2000"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	DueDate     NullableTime `json:"dueDate"`
}

// TaskPatchRequest is a partial update; absent fields stay unchanged.
type TaskPatchRequest struct {
	Title       *string      `json:"title" validate:"omitempty,max=200"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	DueDate     NullableTime `json:"dueDate"`
}

// NullableTime distinguishes an absent field from an explicit null. Accepts
// RFC 3339 timestamps and plain YYYY-MM-DD dates (midnight UTC).
type NullableTime struct {
	Set   bool
	Value *time.Time
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return domain.Invalid("dueDate must be a string or null")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		n.Value = nil
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			n.Value = &utc
			return nil
		}
	}
	return domain.Invalid("dueDate %q is not a valid date", raw)
}
