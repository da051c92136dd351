package transport

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/pkg/httpcontext"
)

func TestEnvelopeShape(t *testing.T) {
	ok, err := json.Marshal(NewSuccess(DeletedResponse{ID: "1"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"id":"1"}}`, string(ok))

	failed, err := json.Marshal(NewError("NOT_FOUND", "task not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"code":"NOT_FOUND","message":"task not found"}`, string(failed))
}

func TestNullableTime(t *testing.T) {
	var absent TaskPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &absent))
	assert.False(t, absent.DueDate.Set)

	var cleared TaskPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":null}`), &cleared))
	assert.True(t, cleared.DueDate.Set)
	assert.Nil(t, cleared.DueDate.Value)

	var dated TaskPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2026-05-04"}`), &dated))
	require.NotNil(t, dated.DueDate.Value)
	assert.True(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC).Equal(*dated.DueDate.Value))

	var stamped TaskPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2026-05-04T10:00:00+02:00"}`), &stamped))
	require.NotNil(t, stamped.DueDate.Value)
	assert.Equal(t, 8, stamped.DueDate.Value.Hour())

	var bad TaskPatchRequest
	err := json.Unmarshal([]byte(`{"dueDate":"next tuesday"}`), &bad)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.CodeOf(err))
	assert.Contains(t, err.Error(), "not a valid date")

	err = json.Unmarshal([]byte(`{"dueDate":42}`), &bad)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.CodeOf(err))
}

func newRequestCtx() *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.SetRequestURI("/")
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	return &ctx
}

func TestWrite(t *testing.T) {
	ctx := newRequestCtx()
	require.NoError(t, Write(ctx, http.StatusCreated, NewSuccess(DeletedResponse{ID: "7"})))

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
	assert.NotEmpty(t, string(ctx.Response.Header.Peek(httpcontext.HeaderRequestID)))
	assert.JSONEq(t, `{"success":true,"data":{"id":"7"}}`, string(ctx.Response.Body()))
}

func TestWriteUnencodablePayload(t *testing.T) {
	ctx := newRequestCtx()
	err := Write(ctx, http.StatusOK, NewSuccess(make(chan int)))
	require.Error(t, err)

	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"success":false,"code":"INTERNAL","message":"internal server error"}`, string(ctx.Response.Body()))
}
