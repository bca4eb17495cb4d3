package domain

import (
	"errors"
	"time"
)

// PlayState is the lifecycle state of a demo session
type PlayState string

const (
	PlayStateStopped PlayState = "stopped"
	PlayStatePlaying PlayState = "playing"
	PlayStatePaused  PlayState = "paused"
)

// Speeds is the enumerated set of allowed playback multipliers
var Speeds = []float64{0.5, 1, 2, 4}

// ErrInvalidSpeed is returned when a speed outside the enumerated set is requested
var ErrInvalidSpeed = errors.New("speed must be one of 0.5, 1, 2 or 4")

// ErrInvalidScenario is returned when a scenario does not supply a positive stage count
var ErrInvalidScenario = errors.New("scenario must supply a positive stage count")

// ValidSpeed reports whether v is one of the allowed multipliers
func ValidSpeed(v float64) bool {
	for _, s := range Speeds {
		if v == s {
			return true
		}
	}
	return false
}

// Scenario is a catalog entry selected to drive a demo session.
// The state machine only consumes StageCount; the rest is descriptive.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	StageCount  int    `json:"stageCount"`
}

// StagePlan is the per-stage metadata a scenario catalog supplies.
// It is carried into Stage records unmodified.
type StagePlan struct {
	TacticID     string   `json:"tacticId"`
	TacticName   string   `json:"tacticName"`
	TechniqueIDs []string `json:"techniqueIds"`
}

// Stage is one step in a scenario's progression
type Stage struct {
	Index        int      `json:"index"`
	TacticID     string   `json:"tacticId"`
	TacticName   string   `json:"tacticName"`
	TechniqueIDs []string `json:"techniqueIds"`
	Completed    bool     `json:"completed"`
	Active       bool     `json:"active"`
}

// State is the canonical orchestration state. It is owned by the
// orchestrator manager and only replaced through transitions.
type State struct {
	PlayState    PlayState  `json:"playState"`
	Speed        float64    `json:"speed"`
	Scenario     *Scenario  `json:"selectedScenario"`
	Stages       []Stage    `json:"stages"`
	CurrentStage int        `json:"currentStage"`
	SessionID    string     `json:"sessionId,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
}

// NewState returns the default initial state: stopped, speed 1, no
// scenario, no session.
func NewState() State {
	return State{
		PlayState: PlayStateStopped,
		Speed:     1,
		Stages:    []Stage{},
	}
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	next := s

	next.Stages = cloneStages(s.Stages)

	if s.Scenario != nil {
		sc := *s.Scenario
		next.Scenario = &sc
	}

	if s.StartedAt != nil {
		at := *s.StartedAt
		next.StartedAt = &at
	}

	return next
}

// cloneStages deep-copies a stage list including technique id slices
func cloneStages(stages []Stage) []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	for i := range out {
		if stages[i].TechniqueIDs != nil {
			out[i].TechniqueIDs = append([]string(nil), stages[i].TechniqueIDs...)
		}
	}
	return out
}
