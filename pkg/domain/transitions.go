package domain

import "time"

// Play starts or resumes a session. From stopped it adopts the provided
// session id and start time; from paused it resumes the existing session
// unchanged. Already playing is a no-op.
func Play(s State, sessionID string, startedAt time.Time) State {
	next := s.Clone()

	switch s.PlayState {
	case PlayStatePlaying:
		return next
	case PlayStatePaused:
		next.PlayState = PlayStatePlaying
		return next
	default:
		next.PlayState = PlayStatePlaying
		next.SessionID = sessionID
		at := startedAt
		next.StartedAt = &at
		return next
	}
}

// Pause suspends a playing session, keeping its identity. Any other state
// is a no-op.
func Pause(s State) State {
	next := s.Clone()
	if s.PlayState == PlayStatePlaying {
		next.PlayState = PlayStatePaused
	}
	return next
}

// Stop ends the session from any state: cursor back to the first stage,
// session identity cleared, stage flags reset.
func Stop(s State) State {
	next := s.Clone()
	next.PlayState = PlayStateStopped
	next.CurrentStage = 0
	next.SessionID = ""
	next.StartedAt = nil
	applyCursor(next.Stages, 0)
	return next
}

// SetSpeed replaces the playback multiplier. Values outside the
// enumerated set are rejected and leave the state untouched.
func SetSpeed(s State, speed float64) (State, error) {
	next := s.Clone()
	if !ValidSpeed(speed) {
		return next, ErrInvalidSpeed
	}
	next.Speed = speed
	return next, nil
}

// SelectScenario installs a scenario and a fresh stage list sized by its
// stage count, with the catalog's stage plans carried through unmodified.
// Switching scenarios terminates any in-flight session.
func SelectScenario(s State, scenario Scenario, plans []StagePlan) State {
	next := s.Clone()

	sc := scenario
	next.Scenario = &sc
	next.Stages = buildStages(scenario.StageCount, plans)
	next.CurrentStage = 0
	applyCursor(next.Stages, 0)

	next.PlayState = PlayStateStopped
	next.SessionID = ""
	next.StartedAt = nil

	return next
}

// AdvanceStage completes the current stage and activates the next one.
// At the last stage it is a no-op; progression never wraps.
func AdvanceStage(s State) State {
	next := s.Clone()
	if len(next.Stages) == 0 || next.CurrentStage >= len(next.Stages)-1 {
		return next
	}
	next.CurrentStage++
	applyCursor(next.Stages, next.CurrentStage)
	return next
}

// JumpToStage moves the cursor to the given index, clamped to the stage
// list. Stages before the target become completed, the target becomes the
// single active stage, later stages become pending.
func JumpToStage(s State, index int) State {
	next := s.Clone()
	if len(next.Stages) == 0 {
		return next
	}
	next.CurrentStage = clampStage(index, len(next.Stages))
	applyCursor(next.Stages, next.CurrentStage)
	return next
}

// TogglePlayPause pauses a playing session and plays otherwise
func TogglePlayPause(s State, sessionID string, startedAt time.Time) State {
	if s.PlayState == PlayStatePlaying {
		return Pause(s)
	}
	return Play(s, sessionID, startedAt)
}

// Reset restores the default initial state
func Reset(State) State {
	return NewState()
}

// buildStages creates a pending stage list of the given length, filling
// descriptive fields from the catalog plans where available
func buildStages(count int, plans []StagePlan) []Stage {
	if count < 0 {
		count = 0
	}
	stages := make([]Stage, count)
	for i := range stages {
		stages[i] = Stage{Index: i}
		if i < len(plans) {
			stages[i].TacticID = plans[i].TacticID
			stages[i].TacticName = plans[i].TacticName
			if plans[i].TechniqueIDs != nil {
				stages[i].TechniqueIDs = append([]string(nil), plans[i].TechniqueIDs...)
			}
		}
	}
	return stages
}

// applyCursor rewrites completed/active flags so stages before index are
// completed and the stage at index is the single active one
func applyCursor(stages []Stage, index int) {
	for i := range stages {
		stages[i].Completed = i < index
		stages[i].Active = i == index
	}
}

// clampStage clamps index into [0, count-1]
func clampStage(index, count int) int {
	if index < 0 {
		return 0
	}
	if index > count-1 {
		return count - 1
	}
	return index
}
