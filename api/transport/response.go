package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/pkg/httpcontext"
)

// InternalMessage is the only text clients see for INTERNAL errors.
const InternalMessage = "internal server error"

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
	}
}

// NewError returns an error envelope.
func NewError(code, message string) Envelope {
	return Envelope{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// Write encodes payload as the JSON response body and stamps the request id.
// If payload cannot be encoded a 500 INTERNAL envelope is written instead and
// the encoding error is returned.
func Write(ctx *fasthttp.RequestCtx, status int, payload Envelope) error {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(NewError(string(domain.ErrCodeInternal), InternalMessage))
	}
	httpcontext.RequestID(ctx)
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
	return err
}

type SessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      domain.Profile `json:"user"`
}

type ProfileResponse struct {
	User domain.Profile `json:"user"`
}

type TaskResponse struct {
	Task *domain.Task `json:"task"`
}

type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Count int           `json:"count"`
}

type DeletedResponse struct {
	ID string `json:"id"`
}

type Banner struct {
	Service string `json:"service"`
	Message string `json:"message"`
}
