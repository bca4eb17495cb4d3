package domain

import "fmt"

// Snapshot is the persisted subset of State. Session identity is never
// serialized and a playing state is written as its non-playing equivalent,
// so a reloaded dashboard can never resume straight into a running session.
type Snapshot struct {
	PlayState    PlayState `json:"playState"`
	Speed        float64   `json:"speed"`
	Scenario     *Scenario `json:"selectedScenario"`
	CurrentStage int       `json:"currentStage"`
	Stages       []Stage   `json:"stages"`
}

// NewSnapshot captures the persistable subset of a state. A playing state
// is recorded as paused.
func NewSnapshot(s State) *Snapshot {
	c := s.Clone()

	playState := c.PlayState
	if playState == PlayStatePlaying {
		playState = PlayStatePaused
	}

	return &Snapshot{
		PlayState:    playState,
		Speed:        c.Speed,
		Scenario:     c.Scenario,
		CurrentStage: c.CurrentStage,
		Stages:       c.Stages,
	}
}

// Validate checks the snapshot shape. Any mismatch means the snapshot is
// treated as absent; there is no partial recovery of individual fields.
func (sn *Snapshot) Validate() error {
	if sn == nil {
		return fmt.Errorf("snapshot is nil")
	}

	switch sn.PlayState {
	case PlayStateStopped, PlayStatePlaying, PlayStatePaused:
	default:
		return fmt.Errorf("unknown play state: %q", sn.PlayState)
	}

	if !ValidSpeed(sn.Speed) {
		return fmt.Errorf("invalid speed: %v", sn.Speed)
	}

	if sn.CurrentStage < 0 {
		return fmt.Errorf("negative stage cursor: %d", sn.CurrentStage)
	}

	if sn.Scenario == nil {
		if len(sn.Stages) != 0 {
			return fmt.Errorf("stages present without a scenario")
		}
		return nil
	}

	if sn.Scenario.ID == "" {
		return fmt.Errorf("scenario id is required")
	}
	if sn.Scenario.StageCount < 1 {
		return fmt.Errorf("scenario stage count must be positive: %d", sn.Scenario.StageCount)
	}
	if len(sn.Stages) != sn.Scenario.StageCount {
		return fmt.Errorf("stage list length %d does not match scenario stage count %d",
			len(sn.Stages), sn.Scenario.StageCount)
	}

	for i, stage := range sn.Stages {
		if stage.Index != i {
			return fmt.Errorf("stage %d has index %d", i, stage.Index)
		}
	}

	return nil
}

// Restore rebuilds an in-memory state from the snapshot. The result always
// starts stopped with no session, regardless of what was serialized; the
// cursor is clamped and stage flags are recomputed from it.
func (sn *Snapshot) Restore() State {
	state := NewState()
	state.Speed = sn.Speed

	if sn.Scenario == nil {
		return state
	}

	sc := *sn.Scenario
	state.Scenario = &sc
	state.Stages = cloneStages(sn.Stages)
	state.CurrentStage = clampStage(sn.CurrentStage, len(state.Stages))
	applyCursor(state.Stages, state.CurrentStage)

	return state
}
