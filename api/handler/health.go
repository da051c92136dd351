package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskpulse/api/transport"
	"github.com/fastygo/taskpulse/internal/infrastructure/monitor"
	"github.com/fastygo/taskpulse/pkg/httpcontext"
	"github.com/fastygo/taskpulse/repository"
)

// StatusSource reports dependency health.
type StatusSource interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusSource
	service string
	driver  string
	stats   repository.StatsReporter
}

// NewHealthHandler reports monitor status for store. Drivers implementing
// repository.StatsReporter also get their counters in the payload.
func NewHealthHandler(mon StatusSource, service string, store repository.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	h := &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		service:     service,
		driver:      store.Driver(),
	}
	if reporter, ok := store.(repository.StatsReporter); ok {
		h.stats = reporter
	}
	return h
}

// @Summary Service banner
// @Tags health
// @Router / [get]
func (h *HealthHandler) Index(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, transport.Banner{
		Service: h.service,
		Message: h.service + " API is running",
	})
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"store":      h.driver,
		"healthy":    status.Healthy,
		"lastCheck":  status.LastCheck,
		"components": status.Components,
	}
	if h.stats != nil {
		payload["storeStats"] = h.stats.Stats()
	}

	if status.Healthy {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	envelope := transport.NewError("DEGRADED", "dependencies unhealthy")
	envelope.Data = payload
	h.respondJSON(ctx, http.StatusServiceUnavailable, envelope)
}
