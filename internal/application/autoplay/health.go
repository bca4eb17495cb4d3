package autoplay

import (
	"sync"
	"time"

	"github.com/aescanero/demoflow/pkg/domain"
	"go.uber.org/zap"
)

// HealthMonitor periodically logs the demo session status
type HealthMonitor struct {
	runner   *Runner
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// HealthStatus describes the runner and the session it drives
type HealthStatus struct {
	Running      bool             `json:"running"`
	PlayState    domain.PlayState `json:"playState"`
	SessionID    string           `json:"sessionId,omitempty"`
	CurrentStage int              `json:"currentStage"`
	TotalStages  int              `json:"totalStages"`
	Speed        float64          `json:"speed"`
	Timestamp    time.Time        `json:"timestamp"`
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor(runner *Runner, interval time.Duration, logger *zap.Logger) *HealthMonitor {
	return &HealthMonitor{
		runner:   runner,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the health monitor
func (h *HealthMonitor) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop stops the health monitor
func (h *HealthMonitor) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.stopCh)
}

// run is the main health monitoring loop
func (h *HealthMonitor) run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			h.checkHealth()
		}
	}
}

// checkHealth logs the current session status
func (h *HealthMonitor) checkHealth() {
	status := h.GetStatus()

	h.logger.Info("demo session health check",
		zap.Bool("running", status.Running),
		zap.String("play_state", string(status.PlayState)),
		zap.Int("current_stage", status.CurrentStage),
		zap.Int("total_stages", status.TotalStages),
		zap.Float64("speed", status.Speed))
}

// GetStatus returns the current runner and session status
func (h *HealthMonitor) GetStatus() *HealthStatus {
	state := h.runner.manager.State()

	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()

	return &HealthStatus{
		Running:      running,
		PlayState:    state.PlayState,
		SessionID:    state.SessionID,
		CurrentStage: state.CurrentStage,
		TotalStages:  len(state.Stages),
		Speed:        state.Speed,
		Timestamp:    time.Now(),
	}
}

// Status exposes the monitor's status through the runner
func (r *Runner) Status() *HealthStatus {
	return r.health.GetStatus()
}
