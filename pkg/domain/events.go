package domain

// EventType identifies an orchestration event published on the bus
type EventType string

const (
	EventTypeSessionStarted   EventType = "demo.session.started"
	EventTypeSessionPaused    EventType = "demo.session.paused"
	EventTypeSessionResumed   EventType = "demo.session.resumed"
	EventTypeSessionStopped   EventType = "demo.session.stopped"
	EventTypeSpeedChanged     EventType = "demo.speed.changed"
	EventTypeScenarioSelected EventType = "demo.scenario.selected"
	EventTypeStageAdvanced    EventType = "demo.stage.advanced"
	EventTypeStageJumped      EventType = "demo.stage.jumped"
	EventTypeDemoReset        EventType = "demo.reset"
	EventTypeNarration        EventType = "demo.narration"
)

// Event topics
const (
	TopicDemoEvents = "demo.events"
	TopicNarration  = "demo.narration"
)
