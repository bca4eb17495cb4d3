package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aescanero/demoflow/internal/application/catalog"
	"github.com/aescanero/demoflow/internal/application/orchestrator"
	eventsmemory "github.com/aescanero/demoflow/pkg/adapters/events/memory"
	storagememory "github.com/aescanero/demoflow/pkg/adapters/storage/memory"
	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopMetrics struct{}

func (nopMetrics) RecordAction(string)                {}
func (nopMetrics) RecordActionRejected(string)        {}
func (nopMetrics) RecordSessionStarted()              {}
func (nopMetrics) RecordSessionStopped(time.Duration) {}
func (nopMetrics) RecordStageAdvanced(string)         {}
func (nopMetrics) RecordSnapshotWriteFailure()        {}
func (nopMetrics) RecordSnapshotLoadFailure()         {}
func (nopMetrics) SetPlayState(domain.PlayState)      {}
func (nopMetrics) SetCurrentStage(int)                {}
func (nopMetrics) SetConnectedClients(int)            {}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	manager := orchestrator.NewManager(
		storagememory.NewSnapshotStore(),
		eventsmemory.NewEventBus(),
		nopMetrics{},
		zap.NewNop(),
	)

	return NewServer(&Config{
		Port:         0,
		Orchestrator: manager,
		Catalog:      catalog.New(),
		Logger:       zap.NewNop(),
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) domain.State {
	t.Helper()

	var state domain.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	return state
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleGetState_Initial(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/demo/state", nil)

	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, w)
	assert.Equal(t, domain.PlayStateStopped, state.PlayState)
	assert.Equal(t, float64(1), state.Speed)
	assert.Nil(t, state.Scenario)
	assert.Empty(t, state.SessionID)
}

func TestHandlePlayPauseStop(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/demo/play", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, w)
	assert.Equal(t, domain.PlayStatePlaying, state.PlayState)
	assert.NotEmpty(t, state.SessionID)
	sessionID := state.SessionID

	w = doJSON(t, s, http.MethodPost, "/api/v1/demo/pause", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeState(t, w)
	assert.Equal(t, domain.PlayStatePaused, state.PlayState)
	assert.Equal(t, sessionID, state.SessionID)

	w = doJSON(t, s, http.MethodPost, "/api/v1/demo/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeState(t, w)
	assert.Equal(t, domain.PlayStateStopped, state.PlayState)
	assert.Empty(t, state.SessionID)
}

func TestHandleToggle(t *testing.T) {
	s := newTestServer(t)

	state := decodeState(t, doJSON(t, s, http.MethodPost, "/api/v1/demo/toggle", nil))
	assert.Equal(t, domain.PlayStatePlaying, state.PlayState)

	state = decodeState(t, doJSON(t, s, http.MethodPost, "/api/v1/demo/toggle", nil))
	assert.Equal(t, domain.PlayStatePaused, state.PlayState)
}

func TestHandleSetSpeed(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/demo/speed", SpeedRequest{Speed: 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeState(t, w).Speed)

	w = doJSON(t, s, http.MethodPost, "/api/v1/demo/speed", SpeedRequest{Speed: 3})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "INVALID_SPEED", resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)

	// The rejected request left the speed untouched
	state := decodeState(t, doJSON(t, s, http.MethodGet, "/api/v1/demo/state", nil))
	assert.Equal(t, float64(2), state.Speed)
}

func TestHandleSelectScenario(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/demo/scenario", ScenarioRequest{ScenarioID: "apt29"})
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	require.NotNil(t, state.Scenario)
	assert.Equal(t, "apt29", state.Scenario.ID)
	require.Len(t, state.Stages, 8)
	assert.True(t, state.Stages[0].Active)
	assert.Equal(t, "TA0001", state.Stages[0].TacticID)
}

func TestHandleSelectScenario_Unknown(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/demo/scenario", ScenarioRequest{ScenarioID: "nope"})

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SCENARIO_NOT_FOUND", decodeError(t, w).Error.Code)
}

func TestHandleSelectScenario_MissingID(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/demo/scenario", map[string]string{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Error.Code)
}

func TestHandleAdvanceAndJump(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/v1/demo/scenario", ScenarioRequest{ScenarioID: "phishing"})

	state := decodeState(t, doJSON(t, s, http.MethodPost, "/api/v1/demo/advance", nil))
	assert.Equal(t, 1, state.CurrentStage)

	// Out-of-range jumps clamp to the stage list
	index := 100
	state = decodeState(t, doJSON(t, s, http.MethodPost, "/api/v1/demo/stage", StageRequest{Index: &index}))
	assert.Equal(t, 3, state.CurrentStage)

	// Stage zero must bind even though it is a zero value
	index = 0
	state = decodeState(t, doJSON(t, s, http.MethodPost, "/api/v1/demo/stage", StageRequest{Index: &index}))
	assert.Equal(t, 0, state.CurrentStage)
}

func TestHandleJumpToStage_MissingIndex(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/demo/stage", map[string]string{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Error.Code)
}

func TestHandleReset(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/v1/demo/scenario", ScenarioRequest{ScenarioID: "apt29"})
	doJSON(t, s, http.MethodPost, "/api/v1/demo/play", nil)

	w := doJSON(t, s, http.MethodPost, "/api/v1/demo/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	assert.Equal(t, domain.PlayStateStopped, state.PlayState)
	assert.Nil(t, state.Scenario)
	assert.Empty(t, state.Stages)
	assert.Empty(t, state.SessionID)
}

func TestHandleListScenarios(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/scenarios", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Scenarios []domain.Scenario `json:"scenarios"`
		Total     int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Total)
	assert.Len(t, resp.Scenarios, 5)
}

func TestHandleGetScenario(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/scenarios/ransomware", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ScenarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ransomware", resp.Scenario.ID)
	assert.Len(t, resp.Stages, resp.Scenario.StageCount)

	w = doJSON(t, s, http.MethodGet, "/api/v1/scenarios/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])

	checks, ok := resp["checks"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "disabled", checks["autoplay"])
}

func TestHandlers_WithoutOrchestrator(t *testing.T) {
	s := NewServer(&Config{
		Port:    0,
		Catalog: catalog.New(),
		Logger:  zap.NewNop(),
	})

	w := doJSON(t, s, http.MethodGet, "/api/v1/demo/state", nil)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SERVICE_NOT_READY", decodeError(t, w).Error.Code)
}
