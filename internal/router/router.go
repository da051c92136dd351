package router

import (
	"fmt"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskpulse/api/handler"
	"github.com/fastygo/taskpulse/api/transport"
	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/internal/middleware"
	"github.com/fastygo/taskpulse/pkg/httpcontext"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

// New builds the route table. Every task route is also reachable with a /gp
// suffix for older clients.
func New(handlers Handlers, authMiddleware middleware.Middleware, logger *zap.Logger) *router.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := router.New()
	r.RedirectTrailingSlash = false

	r.GET("/", handlers.Health.Index)
	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/user/register", handlers.Auth.Register)
	r.POST("/api/user/login", handlers.Auth.Login)

	// Protected routes
	r.GET("/api/user/me", authMiddleware(handlers.Profile.GetProfile))

	for _, suffix := range []string{"", "/gp"} {
		r.GET("/api/tasks"+suffix, authMiddleware(handlers.Task.GetTasks))
		r.POST("/api/tasks"+suffix, authMiddleware(handlers.Task.CreateTask))
		r.GET("/api/tasks/{id}"+suffix, authMiddleware(handlers.Task.GetTask))
		r.PUT("/api/tasks/{id}"+suffix, authMiddleware(handlers.Task.UpdateTask))
		r.PATCH("/api/tasks/{id}"+suffix, authMiddleware(handlers.Task.UpdateTask))
		r.DELETE("/api/tasks/{id}"+suffix, authMiddleware(handlers.Task.DeleteTask))
	}

	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		_ = transport.Write(ctx, http.StatusNotFound, transport.NewError(string(domain.ErrCodeNotFound), "route not found"))
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		_ = transport.Write(ctx, http.StatusMethodNotAllowed, transport.NewError("METHOD_NOT_ALLOWED", "method not allowed"))
	}
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, recovered interface{}) {
		logger.Error("panic recovered",
			zap.String("request_id", httpcontext.RequestID(ctx)),
			zap.ByteString("path", ctx.Path()),
			zap.String("panic", fmt.Sprint(recovered)),
			zap.Stack("stack"))
		_ = transport.Write(ctx, http.StatusInternalServerError, transport.NewError(string(domain.ErrCodeInternal), transport.InternalMessage))
	}

	return r
}

// Handler wraps the router with the middlewares every request passes through.
func Handler(r *router.Router, logger *zap.Logger) fasthttp.RequestHandler {
	return middleware.Chain(r.Handler, middleware.AccessLog(logger), middleware.CORS())
}
