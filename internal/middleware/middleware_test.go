package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/taskpulse/pkg/httpcontext"
)

type verifierFunc func(ctx context.Context, raw string) (string, error)

func (f verifierFunc) VerifyToken(ctx context.Context, raw string) (string, error) {
	return f(ctx, raw)
}

var acceptGood = verifierFunc(func(_ context.Context, raw string) (string, error) {
	if raw == "good" {
		return "user-1", nil
	}
	return "", errors.New("signature is invalid")
})

func newRequest(method, authorization string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI("/api/tasks")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	return &ctx
}

func TestBearerAuthRejects(t *testing.T) {
	gate := BearerAuth(acceptGood, nil, nil)

	for header, message := range map[string]string{
		"":             "missing bearer token",
		"Basic good":   "missing bearer token",
		"Bearer ":      "missing bearer token",
		"Bearer wrong": "invalid or expired token",
	} {
		called := false
		ctx := newRequest("GET", header)
		gate(func(*fasthttp.RequestCtx) { called = true })(ctx)

		assert.False(t, called, header)
		assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode(), header)
		var env struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
		assert.Equal(t, "UNAUTHORIZED", env.Code, header)
		assert.Equal(t, message, env.Message, header)
		assert.NotEmpty(t, string(ctx.Response.Header.Peek(httpcontext.HeaderRequestID)), header)
	}
}

func TestBearerAuthAccepts(t *testing.T) {
	gate := BearerAuth(acceptGood, nil, nil)

	for _, header := range []string{"Bearer good", "bearer good", "  BEARER   good "} {
		var seen string
		ctx := newRequest("GET", header)
		gate(func(ctx *fasthttp.RequestCtx) { seen = httpcontext.UserID(ctx) })(ctx)
		assert.Equal(t, "user-1", seen, header)
	}
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS()(func(ctx *fasthttp.RequestCtx) {
		called = true
		ctx.SetStatusCode(http.StatusTeapot)
	})

	preflight := newRequest("OPTIONS", "")
	h(preflight)
	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, preflight.Response.StatusCode())
	assert.Equal(t, "*", string(preflight.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin)))
	assert.Contains(t, string(preflight.Response.Header.Peek(fasthttp.HeaderAccessControlAllowHeaders)), "Authorization")

	get := newRequest("GET", "")
	h(get)
	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, get.Response.StatusCode())
	assert.Equal(t, "*", string(get.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin)))
}

func TestAccessLogLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := AccessLog(zap.New(core))

	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError} {
		ctx := newRequest("GET", "")
		log(func(ctx *fasthttp.RequestCtx) { ctx.SetStatusCode(status) })(ctx)
	}

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[2].ContextMap()["status"])
	assert.NotEmpty(t, entries[2].ContextMap()["request_id"])
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}

	h := Chain(func(*fasthttp.RequestCtx) { order = append(order, "handler") }, mark("outer"), mark("inner"))
	h(newRequest("GET", ""))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
