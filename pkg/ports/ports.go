package ports

import (
	"context"
	"errors"
	"time"

	"github.com/aescanero/demoflow/pkg/domain"
)

// ErrSnapshotNotFound is returned by SnapshotStore.Load when no usable
// snapshot is stored. Malformed stored data is reported the same way.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists the orchestration snapshot under one well-known key
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *domain.Snapshot) error
	Load(ctx context.Context) (*domain.Snapshot, error)
	Delete(ctx context.Context) error
}

// Event is the wire form of an orchestration event
type Event struct {
	ID        string                 `json:"id"`
	Type      domain.EventType       `json:"type"`
	SessionID string                 `json:"sessionId,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// EventHandler processes a single event
type EventHandler func(ctx context.Context, event Event) error

// EventBus publishes and delivers orchestration events by topic
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Unsubscribe(ctx context.Context, topic string) error
	Close() error
}

// MetricsCollector records orchestration metrics
type MetricsCollector interface {
	RecordAction(action string)
	RecordActionRejected(action string)
	RecordSessionStarted()
	RecordSessionStopped(duration time.Duration)
	RecordStageAdvanced(scenarioID string)
	RecordSnapshotWriteFailure()
	RecordSnapshotLoadFailure()
	SetPlayState(state domain.PlayState)
	SetCurrentStage(stage int)
	SetConnectedClients(count int)
}

// Narrator produces one short presenter line for the active stage
type Narrator interface {
	Narrate(ctx context.Context, scenario domain.Scenario, stage domain.Stage) (string, error)
}
