package middleware

import (
	"net/http"

	"github.com/valyala/fasthttp"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, X-Request-ID"
)

// CORS allows any origin and answers preflight requests itself.
func CORS() Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			h := &ctx.Response.Header
			h.Set(fasthttp.HeaderAccessControlAllowOrigin, "*")
			h.Set(fasthttp.HeaderAccessControlAllowMethods, corsAllowMethods)
			h.Set(fasthttp.HeaderAccessControlAllowHeaders, corsAllowHeaders)
			h.Set(fasthttp.HeaderAccessControlExposeHeaders, "X-Request-ID")
			h.Set(fasthttp.HeaderAccessControlMaxAge, "600")

			if ctx.IsOptions() {
				ctx.SetStatusCode(http.StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}
