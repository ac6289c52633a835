package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/themisvote/themis/backend/internal/logger"
	"github.com/themisvote/themis/backend/internal/models"
	"github.com/themisvote/themis/backend/internal/services"
)

type EligibilityHandler struct {
	gate      *services.EligibilityService
	elections services.ElectionContext
}

func NewEligibilityHandler(gate *services.EligibilityService, elections services.ElectionContext) *EligibilityHandler {
	return &EligibilityHandler{gate: gate, elections: elections}
}

func parseQueryID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(param), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

type eligibilityRequest struct {
	StudentID  string `json:"student_id" binding:"required"`
	ElectionID uint   `json:"election_id" binding:"required"`
}

// Check handles POST /api/v1/eligibility/check. The client address comes
// from the connection (trusted-proxy aware), never from the request body:
// a voter must not be able to claim a laboratory address they are not at.
func (h *EligibilityHandler) Check(c *gin.Context) {
	var req eligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.elections.Status(req.ElectionID)
	if err != nil {
		if errors.Is(err, services.ErrElectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "election not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store temporarily unavailable"})
		return
	}
	if status != models.ElectionOngoing {
		c.JSON(http.StatusConflict, gin.H{"error": "election is not ongoing"})
		return
	}

	decision, err := h.gate.CheckEligibility(req.StudentID, req.ElectionID, c.ClientIP())
	if err != nil {
		// the caller must retry or hard-fail the vote attempt, never guess
		logger.WithFields(map[string]interface{}{
			"student_id":  sanitizeForLog(req.StudentID),
			"election_id": req.ElectionID,
		}).WithError(err).Error("eligibility check unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "eligibility temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Assignment handles GET /api/v1/eligibility/assignment
func (h *EligibilityHandler) Assignment(c *gin.Context) {
	studentID := c.Query("student_id")
	electionID, ok := parseQueryID(c, "election_id")
	if studentID == "" || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_id and election_id are required"})
		return
	}

	precinct, err := h.gate.GetAssignment(studentID, electionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTemporarilyUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store temporarily unavailable"})
		case errors.Is(err, services.ErrAssignmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no precinct assignment"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, precinct)
}
