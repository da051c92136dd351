package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskpulse/api/transport"
	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/pkg/httpcontext"
	appLogger "github.com/fastygo/taskpulse/pkg/logger"
)

const notAnObject = "body must be a JSON object"

var statusByCode = map[domain.ErrorCode]int{
	domain.ErrCodeInvalidInput:       http.StatusBadRequest,
	domain.ErrCodeUnauthorized:       http.StatusUnauthorized,
	domain.ErrCodeInvalidCredentials: http.StatusUnauthorized,
	domain.ErrCodeNotFound:           http.StatusNotFound,
	domain.ErrCodeDuplicateEmail:     http.StatusConflict,
	domain.ErrCodeTooManyAttempts:    http.StatusTooManyRequests,
	domain.ErrCodeInternal:           http.StatusInternalServerError,
}

type baseHandler struct {
	adapter  *httpcontext.Adapter
	validate *validator.Validate
	logger   *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return baseHandler{adapter: adapter, validate: validator.New(), logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

// decode unmarshals the body into dst and runs its validate tags. On failure
// it has already written a 400 response.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	body := ctx.PostBody()
	if len(body) == 0 {
		h.respondError(ctx, domain.Invalid("request body is required"))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var dErr *domain.Error
		if errors.As(err, &dErr) {
			h.respondError(ctx, dErr)
			return false
		}
		h.respondError(ctx, domain.Invalid("malformed JSON: %s", jsonProblem(err)))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.respondError(ctx, validationError(err))
		return false
	}
	return true
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	if err := transport.Write(ctx, status, payload); err != nil {
		h.scoped(ctx).Error("failed to encode response", zap.Error(err))
	}
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code, message := mapError(err)
	if status >= http.StatusInternalServerError {
		h.scoped(ctx).Error("request failed", zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, message))
}

// scoped returns a logger carrying the request and user ids.
func (h baseHandler) scoped(ctx *fasthttp.RequestCtx) *zap.Logger {
	stdCtx := appLogger.ContextWithRequestID(context.Background(), httpcontext.RequestID(ctx))
	if userID := httpcontext.UserID(ctx); userID != "" {
		stdCtx = appLogger.ContextWithUserID(stdCtx, userID)
	}
	return appLogger.WithRequestID(stdCtx, h.logger)
}

// mapError turns err into a status, code and client-safe message. Anything
// that is not a domain error is reported as INTERNAL without its text.
func mapError(err error) (int, string, string) {
	var dErr *domain.Error
	if !errors.As(err, &dErr) || dErr.Code == domain.ErrCodeInternal {
		return http.StatusInternalServerError, string(domain.ErrCodeInternal), transport.InternalMessage
	}
	status, ok := statusByCode[dErr.Code]
	if !ok {
		return http.StatusInternalServerError, string(domain.ErrCodeInternal), transport.InternalMessage
	}
	return status, string(dErr.Code), dErr.Message
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.ErrInvalidPayload
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			problems = append(problems, field+" is required")
		case "max":
			problems = append(problems, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			problems = append(problems, field+" is invalid")
		}
	}
	return domain.Invalid("%s", strings.Join(problems, "; "))
}

// jsonProblem describes a decode failure without decoder internals.
func jsonProblem(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field + " has the wrong type"
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "syntax error"
	}
	return notAnObject
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
