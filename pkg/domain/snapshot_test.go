package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot_RecordsPlayingAsPaused(t *testing.T) {
	scenario, plans := demoScenario(3)
	s := SelectScenario(NewState(), scenario, plans)
	s = Play(s, "session-1", testStart)

	sn := NewSnapshot(s)

	assert.Equal(t, PlayStatePaused, sn.PlayState)
	assert.Equal(t, s.Speed, sn.Speed)
	assert.Equal(t, s.CurrentStage, sn.CurrentStage)
	assert.Equal(t, s.Stages, sn.Stages)
}

func TestNewSnapshot_NeverSerializesSession(t *testing.T) {
	s := Play(NewState(), "session-1", testStart)

	raw, err := json.Marshal(NewSnapshot(s))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "session-1")
	assert.NotContains(t, string(raw), "sessionId")
	assert.NotContains(t, string(raw), "startedAt")
}

func TestSnapshot_RoundTrip(t *testing.T) {
	scenario, plans := demoScenario(8)
	s := SelectScenario(NewState(), scenario, plans)
	s, err := SetSpeed(s, 2)
	require.NoError(t, err)
	s = Play(s, "session-1", testStart)
	s = AdvanceStage(s)
	s = AdvanceStage(s)
	s = AdvanceStage(s)

	raw, err := json.Marshal(NewSnapshot(s))
	require.NoError(t, err)

	var loaded Snapshot
	require.NoError(t, json.Unmarshal(raw, &loaded))
	require.NoError(t, loaded.Validate())

	restored := loaded.Restore()

	assert.Equal(t, PlayStateStopped, restored.PlayState)
	assert.Empty(t, restored.SessionID)
	assert.Nil(t, restored.StartedAt)
	assert.Equal(t, float64(2), restored.Speed)
	assert.Equal(t, s.Scenario, restored.Scenario)
	assert.Equal(t, 3, restored.CurrentStage)
	assert.Equal(t, s.Stages, restored.Stages)

	requireInvariants(t, restored)
}

func TestSnapshot_RestoreOverridesStalePlayState(t *testing.T) {
	// A snapshot written by an older build may carry a playing state; the
	// restore path still must not resurrect a running session.
	raw := []byte(`{
		"playState": "playing",
		"speed": 4,
		"selectedScenario": {
			"id": "supply-chain",
			"name": "Supply Chain Compromise",
			"description": "",
			"category": "supply-chain",
			"stageCount": 5
		},
		"currentStage": 3,
		"stages": [
			{"index": 0, "tacticId": "", "tacticName": "", "techniqueIds": null, "completed": true, "active": false},
			{"index": 1, "tacticId": "", "tacticName": "", "techniqueIds": null, "completed": true, "active": false},
			{"index": 2, "tacticId": "", "tacticName": "", "techniqueIds": null, "completed": true, "active": false},
			{"index": 3, "tacticId": "", "tacticName": "", "techniqueIds": null, "completed": false, "active": true},
			{"index": 4, "tacticId": "", "tacticName": "", "techniqueIds": null, "completed": false, "active": false}
		]
	}`)

	var sn Snapshot
	require.NoError(t, json.Unmarshal(raw, &sn))
	require.NoError(t, sn.Validate())

	restored := sn.Restore()

	assert.Equal(t, PlayStateStopped, restored.PlayState)
	assert.Empty(t, restored.SessionID)
	assert.Nil(t, restored.StartedAt)
	assert.Equal(t, float64(4), restored.Speed)
	assert.Equal(t, 3, restored.CurrentStage)
	require.Len(t, restored.Stages, 5)
	assert.True(t, restored.Stages[3].Active)

	requireInvariants(t, restored)
}

func TestSnapshot_RestoreClampsCursor(t *testing.T) {
	scenario, plans := demoScenario(5)
	s := SelectScenario(NewState(), scenario, plans)

	sn := NewSnapshot(s)
	sn.CurrentStage = 100

	restored := sn.Restore()

	assert.Equal(t, 4, restored.CurrentStage)
	assert.True(t, restored.Stages[4].Active)
	for i := 0; i < 4; i++ {
		assert.True(t, restored.Stages[i].Completed)
	}

	requireInvariants(t, restored)
}

func TestSnapshot_RestoreWithoutScenario(t *testing.T) {
	sn := &Snapshot{PlayState: PlayStatePaused, Speed: 0.5}
	require.NoError(t, sn.Validate())

	restored := sn.Restore()

	assert.Equal(t, PlayStateStopped, restored.PlayState)
	assert.Equal(t, 0.5, restored.Speed)
	assert.Nil(t, restored.Scenario)
	assert.Empty(t, restored.Stages)

	requireInvariants(t, restored)
}

func TestSnapshot_Validate(t *testing.T) {
	scenario, plans := demoScenario(3)
	valid := func() *Snapshot {
		return NewSnapshot(SelectScenario(NewState(), scenario, plans))
	}

	tests := []struct {
		name    string
		mutate  func(*Snapshot)
		wantErr bool
	}{
		{name: "well formed", mutate: func(sn *Snapshot) {}},
		{
			name:   "stale playing state accepted",
			mutate: func(sn *Snapshot) { sn.PlayState = PlayStatePlaying },
		},
		{
			name:    "unknown play state",
			mutate:  func(sn *Snapshot) { sn.PlayState = "rewinding" },
			wantErr: true,
		},
		{
			name:    "invalid speed",
			mutate:  func(sn *Snapshot) { sn.Speed = 3 },
			wantErr: true,
		},
		{
			name:    "negative cursor",
			mutate:  func(sn *Snapshot) { sn.CurrentStage = -1 },
			wantErr: true,
		},
		{
			name:    "stages without scenario",
			mutate:  func(sn *Snapshot) { sn.Scenario = nil },
			wantErr: true,
		},
		{
			name:    "empty scenario id",
			mutate:  func(sn *Snapshot) { sn.Scenario.ID = "" },
			wantErr: true,
		},
		{
			name:    "non-positive stage count",
			mutate:  func(sn *Snapshot) { sn.Scenario.StageCount = 0 },
			wantErr: true,
		},
		{
			name:    "stage list length mismatch",
			mutate:  func(sn *Snapshot) { sn.Stages = sn.Stages[:2] },
			wantErr: true,
		},
		{
			name:    "misnumbered stage",
			mutate:  func(sn *Snapshot) { sn.Stages[1].Index = 7 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sn := valid()
			tt.mutate(sn)

			err := sn.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSnapshot_ValidateNil(t *testing.T) {
	var sn *Snapshot
	assert.Error(t, sn.Validate())
}

func TestClone_IsDeep(t *testing.T) {
	scenario, plans := demoScenario(2)
	s := SelectScenario(NewState(), scenario, plans)
	s = Play(s, "session-1", testStart)

	c := s.Clone()
	c.Scenario.Name = "mutated"
	c.Stages[0].Completed = true
	*c.StartedAt = testStart.Add(time.Hour)

	assert.Equal(t, "APT29 Espionage Emulation", s.Scenario.Name)
	assert.False(t, s.Stages[0].Completed)
	assert.Equal(t, testStart, *s.StartedAt)
}
