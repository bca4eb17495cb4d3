package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/aescanero/demoflow/pkg/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager owns the canonical orchestration state and is the only mutation
// surface over it. Every action applies a pure transition from the domain
// package atomically, then persists a snapshot (when a store is configured),
// publishes an event and records metrics. Persistence and event failures
// never fail the action; the in-memory transition always commits.
type Manager struct {
	store    ports.SnapshotStore // nil disables persistence
	eventBus ports.EventBus
	metrics  ports.MetricsCollector
	logger   *zap.Logger

	mu    sync.RWMutex
	state domain.State

	now   func() time.Time
	newID func() string
}

// Option customizes a Manager, mainly for tests
type Option func(*Manager)

// WithClock overrides the session start-time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSessionIDs overrides the session id generator
func WithSessionIDs(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager creates a manager, restoring any persisted snapshot when a
// store is configured. A missing or malformed snapshot silently yields the
// default initial state.
func NewManager(
	store ports.SnapshotStore,
	eventBus ports.EventBus,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	opts ...Option,
) *Manager {
	m := &Manager{
		store:    store,
		eventBus: eventBus,
		metrics:  metrics,
		logger:   logger,
		state:    domain.NewState(),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}

	for _, opt := range opts {
		opt(m)
	}

	if store != nil {
		m.restore(context.Background())
	}

	m.metrics.SetPlayState(m.state.PlayState)
	m.metrics.SetCurrentStage(m.state.CurrentStage)

	return m
}

// restore loads, validates and applies the persisted snapshot
func (m *Manager) restore(ctx context.Context) {
	snapshot, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrSnapshotNotFound) {
			m.logger.Debug("no persisted snapshot, starting from defaults")
			return
		}
		m.logger.Warn("failed to load snapshot, starting from defaults", zap.Error(err))
		m.metrics.RecordSnapshotLoadFailure()
		return
	}

	if err := snapshot.Validate(); err != nil {
		m.logger.Warn("discarding malformed snapshot", zap.Error(err))
		m.metrics.RecordSnapshotLoadFailure()
		return
	}

	m.state = snapshot.Restore()
	m.logger.Info("restored orchestration state from snapshot",
		zap.String("play_state", string(m.state.PlayState)),
		zap.Float64("speed", m.state.Speed),
		zap.Int("current_stage", m.state.CurrentStage))
}

// State returns a deep copy of the current orchestration state
func (m *Manager) State() domain.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Play starts a new session from stopped or resumes a paused one
func (m *Manager) Play(ctx context.Context) domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	if prev.PlayState == domain.PlayStatePlaying {
		return prev.Clone()
	}

	next := domain.Play(prev, m.newID(), m.now())

	eventType := domain.EventTypeSessionResumed
	if prev.PlayState == domain.PlayStateStopped {
		eventType = domain.EventTypeSessionStarted
		m.metrics.RecordSessionStarted()
	}

	m.commit(ctx, "play", eventType, next)
	return next.Clone()
}

// Pause suspends a playing session; a no-op otherwise
func (m *Manager) Pause(ctx context.Context) domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.PlayState != domain.PlayStatePlaying {
		return m.state.Clone()
	}

	next := domain.Pause(m.state)
	m.commit(ctx, "pause", domain.EventTypeSessionPaused, next)
	return next.Clone()
}

// Stop ends the session from any state and rewinds to the first stage
func (m *Manager) Stop(ctx context.Context) domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	next := domain.Stop(prev)

	if prev.StartedAt != nil {
		m.metrics.RecordSessionStopped(m.now().Sub(*prev.StartedAt))
	}

	m.commit(ctx, "stop", domain.EventTypeSessionStopped, next)
	return next.Clone()
}

// SetSpeed replaces the playback multiplier; non-enumerated values are
// rejected and the state is left untouched
func (m *Manager) SetSpeed(ctx context.Context, speed float64) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := domain.SetSpeed(m.state, speed)
	if err != nil {
		m.metrics.RecordActionRejected("set_speed")
		return m.state.Clone(), err
	}

	m.commit(ctx, "set_speed", domain.EventTypeSpeedChanged, next)
	return next.Clone(), nil
}

// SelectScenario installs a scenario with a fresh stage list, terminating
// any in-flight session
func (m *Manager) SelectScenario(ctx context.Context, scenario domain.Scenario, plans []domain.StagePlan) (domain.State, error) {
	if scenario.StageCount < 1 {
		m.metrics.RecordActionRejected("select_scenario")
		return m.State(), domain.ErrInvalidScenario
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := domain.SelectScenario(m.state, scenario, plans)
	m.commit(ctx, "select_scenario", domain.EventTypeScenarioSelected, next)
	return next.Clone(), nil
}

// AdvanceStage completes the current stage and activates the next one;
// a no-op at the last stage
func (m *Manager) AdvanceStage(ctx context.Context) domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	next := domain.AdvanceStage(prev)
	if next.CurrentStage == prev.CurrentStage {
		return next.Clone()
	}

	if next.Scenario != nil {
		m.metrics.RecordStageAdvanced(next.Scenario.ID)
	}

	m.commit(ctx, "advance_stage", domain.EventTypeStageAdvanced, next)
	return next.Clone()
}

// JumpToStage moves the cursor to the given index, clamped to the stage list
func (m *Manager) JumpToStage(ctx context.Context, index int) domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := domain.JumpToStage(m.state, index)
	m.commit(ctx, "jump_to_stage", domain.EventTypeStageJumped, next)
	return next.Clone()
}

// TogglePlayPause pauses a playing session and plays otherwise
func (m *Manager) TogglePlayPause(ctx context.Context) domain.State {
	m.mu.RLock()
	playing := m.state.PlayState == domain.PlayStatePlaying
	m.mu.RUnlock()

	if playing {
		return m.Pause(ctx)
	}
	return m.Play(ctx)
}

// ResetDemo restores the default initial state and removes the persisted
// snapshot entirely, so a fresh start finds nothing and uses defaults
func (m *Manager) ResetDemo(ctx context.Context) domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := domain.Reset(m.state)
	m.state = next

	if m.store != nil {
		if err := m.store.Delete(ctx); err != nil {
			m.logger.Warn("failed to delete snapshot", zap.Error(err))
			m.metrics.RecordSnapshotWriteFailure()
		}
	}

	m.publish(ctx, domain.EventTypeDemoReset, next)
	m.metrics.RecordAction("reset_demo")
	m.metrics.SetPlayState(next.PlayState)
	m.metrics.SetCurrentStage(next.CurrentStage)

	return next.Clone()
}

// commit replaces the canonical state and performs the per-transition side
// effects. Callers hold the write lock.
func (m *Manager) commit(ctx context.Context, action string, eventType domain.EventType, next domain.State) {
	m.state = next

	if m.store != nil {
		if err := m.store.Save(ctx, domain.NewSnapshot(next)); err != nil {
			m.logger.Warn("failed to persist snapshot",
				zap.String("action", action),
				zap.Error(err))
			m.metrics.RecordSnapshotWriteFailure()
		}
	}

	m.publish(ctx, eventType, next)

	m.metrics.RecordAction(action)
	m.metrics.SetPlayState(next.PlayState)
	m.metrics.SetCurrentStage(next.CurrentStage)

	m.logger.Debug("transition applied",
		zap.String("action", action),
		zap.String("play_state", string(next.PlayState)),
		zap.Int("current_stage", next.CurrentStage))
}

// publish emits a transition event carrying the resulting state
func (m *Manager) publish(ctx context.Context, eventType domain.EventType, state domain.State) {
	event := ports.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		SessionID: state.SessionID,
		Timestamp: m.now(),
		Data: map[string]interface{}{
			"state": state,
		},
	}

	if err := m.eventBus.Publish(ctx, domain.TopicDemoEvents, event); err != nil {
		m.logger.Error("failed to publish event",
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}

// Shutdown writes a final snapshot when persistence is enabled
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("shutting down orchestrator manager")

	if m.store != nil {
		m.mu.RLock()
		snapshot := domain.NewSnapshot(m.state)
		m.mu.RUnlock()

		if err := m.store.Save(ctx, snapshot); err != nil {
			m.logger.Warn("failed to persist final snapshot", zap.Error(err))
		}
	}

	m.logger.Info("orchestrator manager shut down complete")
	return nil
}
