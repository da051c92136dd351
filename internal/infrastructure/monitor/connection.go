package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Check probes one dependency. Only required checks affect Healthy.
type Check struct {
	Name     string
	Required bool
	Ping     func(ctx context.Context) error
}

type Monitor struct {
	checks  []Check
	timeout time.Duration
	cron    *cron.Cron
	logger  *zap.Logger

	mu     sync.RWMutex
	status Status
}

func New(interval, timeout time.Duration, logger *zap.Logger, checks ...Check) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Monitor{
		checks:  checks,
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = m.cron.AddFunc(schedule, func() {
		m.Refresh(context.Background())
	})
	return m
}

// Start runs one probe synchronously so /health is meaningful immediately,
// then hands over to the scheduler.
func (m *Monitor) Start(ctx context.Context) {
	m.Refresh(ctx)
	m.cron.Start()
	m.logger.Info("health monitor started", zap.Int("checks", len(m.checks)))
}

// Stop waits for a running probe to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) error {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Healthy
}

// GetStatus returns a copy of the latest snapshot.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.status
	out.Components = make(map[string]ComponentStatus, len(m.status.Components))
	for k, v := range m.status.Components {
		out.Components[k] = v
	}
	return out
}

// Refresh probes every dependency concurrently and swaps in the new snapshot.
func (m *Monitor) Refresh(ctx context.Context) {
	results := make([]ComponentStatus, len(m.checks))

	g, gctx := errgroup.WithContext(ctx)
	for i, check := range m.checks {
		i, check := i, check
		g.Go(func() error {
			results[i] = m.probe(gctx, check)
			return nil
		})
	}
	_ = g.Wait()

	status := Status{
		Healthy:    true,
		Components: make(map[string]ComponentStatus, len(m.checks)),
		LastCheck:  time.Now().UTC(),
	}
	for i, check := range m.checks {
		res := results[i]
		status.Components[check.Name] = res
		if check.Required && !res.Online {
			status.Healthy = false
		}
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if previous.LastCheck.IsZero() || previous.Healthy != status.Healthy {
		m.logger.Info("health status changed", zap.Bool("healthy", status.Healthy))
	}
}

func (m *Monitor) probe(ctx context.Context, check Check) ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	started := time.Now()
	err := check.Ping(ctx)
	res := ComponentStatus{
		Online:   err == nil,
		Required: check.Required,
		Latency:  time.Since(started).Round(time.Microsecond).String(),
	}
	if err != nil {
		res.Error = err.Error()
		m.logger.Warn("dependency check failed", zap.String("component", check.Name), zap.Error(err))
	}
	return res
}
