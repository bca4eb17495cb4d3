package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aescanero/demoflow/internal/application/catalog"
	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SpeedRequest sets the playback multiplier
type SpeedRequest struct {
	Speed float64 `json:"speed"`
}

// StageRequest jumps to a stage. Index is a pointer so stage 0 binds.
type StageRequest struct {
	Index *int `json:"index" binding:"required"`
}

// ScenarioRequest selects a scenario from the catalog
type ScenarioRequest struct {
	ScenarioID string `json:"scenario_id" binding:"required"`
}

// ScenarioResponse is a catalog entry with its stage plans
type ScenarioResponse struct {
	Scenario domain.Scenario    `json:"scenario"`
	Stages   []domain.StagePlan `json:"stages"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// requireOrchestrator guards handlers against a server wired without a
// manager; that is a composition bug, not a user error
func (s *Server) requireOrchestrator(c *gin.Context) bool {
	if s.orchestrator == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: ErrorDetail{
				Code:    "SERVICE_NOT_READY",
				Message: "Orchestrator is not configured",
			},
		})
		return false
	}
	return true
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	checks := gin.H{
		"orchestrator": "ok",
	}

	if s.autoplay != nil {
		checks["autoplay"] = s.autoplay.Status()
	} else {
		checks["autoplay"] = "disabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleGetState returns the current orchestration state
func (s *Server) handleGetState(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}
	c.JSON(http.StatusOK, s.orchestrator.State())
}

// handlePlay starts or resumes the session
func (s *Server) handlePlay(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}
	c.JSON(http.StatusOK, s.orchestrator.Play(c.Request.Context()))
}

// handlePause pauses a playing session
func (s *Server) handlePause(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}
	c.JSON(http.StatusOK, s.orchestrator.Pause(c.Request.Context()))
}

// handleStop ends the session
func (s *Server) handleStop(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}
	c.JSON(http.StatusOK, s.orchestrator.Stop(c.Request.Context()))
}

// handleTogglePlayPause toggles between playing and paused
func (s *Server) handleTogglePlayPause(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}
	c.JSON(http.StatusOK, s.orchestrator.TogglePlayPause(c.Request.Context()))
}

// handleAdvanceStage advances to the next stage
func (s *Server) handleAdvanceStage(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}
	c.JSON(http.StatusOK, s.orchestrator.AdvanceStage(c.Request.Context()))
}

// handleSetSpeed sets the playback multiplier
func (s *Server) handleSetSpeed(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}

	var req SpeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	state, err := s.orchestrator.SetSpeed(c.Request.Context(), req.Speed)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSpeed) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    "INVALID_SPEED",
					Message: err.Error(),
					Details: domain.Speeds,
				},
			})
			return
		}
		s.logger.Error("failed to set speed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INTERNAL",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, state)
}

// handleJumpToStage moves the stage cursor; out-of-range indices are clamped
func (s *Server) handleJumpToStage(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}

	var req StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, s.orchestrator.JumpToStage(c.Request.Context(), *req.Index))
}

// handleSelectScenario installs a scenario from the catalog
func (s *Server) handleSelectScenario(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}

	var req ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	scenario, plans, err := s.catalog.Get(req.ScenarioID)
	if err != nil {
		if errors.Is(err, catalog.ErrScenarioNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: ErrorDetail{
					Code:    "SCENARIO_NOT_FOUND",
					Message: "Scenario not found",
				},
			})
			return
		}
		s.logger.Error("failed to look up scenario", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "CATALOG_ERROR",
				Message: "Failed to look up scenario",
			},
		})
		return
	}

	state, err := s.orchestrator.SelectScenario(c.Request.Context(), scenario, plans)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "SELECTION_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, state)
}

// handleResetDemo restores the default state and clears the snapshot
func (s *Server) handleResetDemo(c *gin.Context) {
	if !s.requireOrchestrator(c) {
		return
	}
	c.JSON(http.StatusOK, s.orchestrator.ResetDemo(c.Request.Context()))
}

// handleListScenarios lists the scenario catalog
func (s *Server) handleListScenarios(c *gin.Context) {
	scenarios := s.catalog.List()
	c.JSON(http.StatusOK, gin.H{
		"scenarios": scenarios,
		"total":     len(scenarios),
	})
}

// handleGetScenario returns one catalog entry with its stage plans
func (s *Server) handleGetScenario(c *gin.Context) {
	scenario, plans, err := s.catalog.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "SCENARIO_NOT_FOUND",
				Message: "Scenario not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, ScenarioResponse{
		Scenario: scenario,
		Stages:   plans,
	})
}
