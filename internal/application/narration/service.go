package narration

import (
	"context"
	"encoding/json"

	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/aescanero/demoflow/pkg/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service turns stage transitions into presenter narration. It subscribes
// to the demo event stream and, whenever a new stage becomes active, asks
// the narrator for one line and publishes it on the narration topic.
// Narration is best-effort: failures are logged and dropped.
type Service struct {
	narrator ports.Narrator
	eventBus ports.EventBus
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a narration service
func NewService(narrator ports.Narrator, eventBus ports.EventBus, logger *zap.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		narrator: narrator,
		eventBus: eventBus,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the demo event stream
func (s *Service) Start() error {
	handler := func(ctx context.Context, event ports.Event) error {
		switch event.Type {
		case domain.EventTypeScenarioSelected,
			domain.EventTypeSessionStarted,
			domain.EventTypeStageAdvanced,
			domain.EventTypeStageJumped:
			go s.narrate(event)
		}
		return nil
	}

	if err := s.eventBus.Subscribe(s.ctx, domain.TopicDemoEvents, handler); err != nil {
		return err
	}

	s.logger.Info("narration service started")
	return nil
}

// narrate generates and publishes a narration line for the event's state
func (s *Service) narrate(event ports.Event) {
	state, ok := stateFromEvent(event)
	if !ok || state.Scenario == nil || len(state.Stages) == 0 {
		return
	}
	if state.CurrentStage >= len(state.Stages) {
		return
	}

	stage := state.Stages[state.CurrentStage]

	line, err := s.narrator.Narrate(s.ctx, *state.Scenario, stage)
	if err != nil {
		s.logger.Warn("narration failed",
			zap.String("scenario", state.Scenario.ID),
			zap.Int("stage", stage.Index),
			zap.Error(err))
		return
	}

	narrationEvent := ports.Event{
		ID:        uuid.New().String(),
		Type:      domain.EventTypeNarration,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		Data: map[string]interface{}{
			"scenarioId": state.Scenario.ID,
			"stageIndex": stage.Index,
			"text":       line,
		},
	}

	if err := s.eventBus.Publish(s.ctx, domain.TopicNarration, narrationEvent); err != nil {
		s.logger.Error("failed to publish narration", zap.Error(err))
	}
}

// stateFromEvent extracts the orchestration state an event carries. Events
// from the in-memory bus carry the struct directly; events read back from
// Redis carry a decoded JSON map, so fall back to a JSON round trip.
func stateFromEvent(event ports.Event) (domain.State, bool) {
	raw, ok := event.Data["state"]
	if !ok {
		return domain.State{}, false
	}

	if state, ok := raw.(domain.State); ok {
		return state, true
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return domain.State{}, false
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.State{}, false
	}

	return state, true
}

// Shutdown stops the service
func (s *Service) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down narration service")
	s.cancel()
	return nil
}
