package prometheus

import (
	"time"

	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements ports.MetricsCollector using Prometheus
type Collector struct {
	actions          *prometheus.CounterVec
	actionsRejected  *prometheus.CounterVec
	sessionsStarted  prometheus.Counter
	sessionsStopped  prometheus.Counter
	sessionDuration  prometheus.Histogram
	stageAdvances    *prometheus.CounterVec
	snapshotWriteErr prometheus.Counter
	snapshotLoadErr  prometheus.Counter
	playState        *prometheus.GaugeVec
	currentStage     prometheus.Gauge
	connectedClients prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		actions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demoflow_actions_total",
				Help: "Total number of orchestration actions applied",
			},
			[]string{"action"},
		),
		actionsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demoflow_actions_rejected_total",
				Help: "Total number of orchestration actions rejected for invalid input",
			},
			[]string{"action"},
		),
		sessionsStarted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "demoflow_sessions_started_total",
				Help: "Total number of demo sessions started",
			},
		),
		sessionsStopped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "demoflow_sessions_stopped_total",
				Help: "Total number of demo sessions stopped",
			},
		),
		sessionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "demoflow_session_duration_seconds",
				Help:    "Demo session duration in seconds",
				Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 3600},
			},
		),
		stageAdvances: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demoflow_stage_advances_total",
				Help: "Total number of stage advances by scenario",
			},
			[]string{"scenario"},
		),
		snapshotWriteErr: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "demoflow_snapshot_write_failures_total",
				Help: "Total number of snapshot persistence failures",
			},
		),
		snapshotLoadErr: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "demoflow_snapshot_load_failures_total",
				Help: "Total number of snapshot restore failures",
			},
		),
		playState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "demoflow_play_state",
				Help: "Current play state (1 for the active state, 0 otherwise)",
			},
			[]string{"state"},
		),
		currentStage: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "demoflow_current_stage",
				Help: "Current stage cursor",
			},
		),
		connectedClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "demoflow_ws_clients",
				Help: "Number of connected WebSocket clients",
			},
		),
	}
}

// RecordAction increments the counter for an applied action
func (c *Collector) RecordAction(action string) {
	c.actions.WithLabelValues(action).Inc()
}

// RecordActionRejected increments the counter for a rejected action
func (c *Collector) RecordActionRejected(action string) {
	c.actionsRejected.WithLabelValues(action).Inc()
}

// RecordSessionStarted increments the started-session counter
func (c *Collector) RecordSessionStarted() {
	c.sessionsStarted.Inc()
}

// RecordSessionStopped records a finished session and its duration
func (c *Collector) RecordSessionStopped(duration time.Duration) {
	c.sessionsStopped.Inc()
	c.sessionDuration.Observe(duration.Seconds())
}

// RecordStageAdvanced increments the stage-advance counter for a scenario
func (c *Collector) RecordStageAdvanced(scenarioID string) {
	c.stageAdvances.WithLabelValues(scenarioID).Inc()
}

// RecordSnapshotWriteFailure increments the snapshot write failure counter
func (c *Collector) RecordSnapshotWriteFailure() {
	c.snapshotWriteErr.Inc()
}

// RecordSnapshotLoadFailure increments the snapshot load failure counter
func (c *Collector) RecordSnapshotLoadFailure() {
	c.snapshotLoadErr.Inc()
}

// SetPlayState flags the active play state gauge
func (c *Collector) SetPlayState(state domain.PlayState) {
	for _, s := range []domain.PlayState{domain.PlayStateStopped, domain.PlayStatePlaying, domain.PlayStatePaused} {
		value := 0.0
		if s == state {
			value = 1.0
		}
		c.playState.WithLabelValues(string(s)).Set(value)
	}
}

// SetCurrentStage sets the stage cursor gauge
func (c *Collector) SetCurrentStage(stage int) {
	c.currentStage.Set(float64(stage))
}

// SetConnectedClients sets the WebSocket client gauge
func (c *Collector) SetConnectedClients(count int) {
	c.connectedClients.Set(float64(count))
}
