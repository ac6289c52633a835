package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/themisvote/themis/backend/internal/models"
	"github.com/themisvote/themis/backend/internal/services"
)

type PrecinctHandler struct {
	service *services.PrecinctService
}

func NewPrecinctHandler(db *gorm.DB) *PrecinctHandler {
	return &PrecinctHandler{
		service: services.NewPrecinctService(db),
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// registryError maps a service error onto the HTTP boundary. Outages are
// 503 so callers retry instead of misreading them as a miss.
func registryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store temporarily unavailable"})
	case errors.Is(err, services.ErrPrecinctNotFound),
		errors.Is(err, services.ErrRuleNotFound),
		errors.Is(err, services.ErrAssignmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidRuleKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// Create handles POST /api/v1/precincts
func (h *PrecinctHandler) Create(c *gin.Context) {
	var precinct models.Precinct
	if err := c.ShouldBindJSON(&precinct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.CreatePrecinct(&precinct); err != nil {
		registryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, precinct)
}

// List handles GET /api/v1/precincts
func (h *PrecinctHandler) List(c *gin.Context) {
	precincts, err := h.service.ListPrecincts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, precincts)
}

// Get handles GET /api/v1/precincts/:id
func (h *PrecinctHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	precinct, err := h.service.GetPrecinct(id)
	if err != nil {
		registryError(c, err)
		return
	}

	c.JSON(http.StatusOK, precinct)
}

// Delete handles DELETE /api/v1/precincts/:id
func (h *PrecinctHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePrecinct(id); err != nil {
		registryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddRule handles POST /api/v1/precincts/:id/rules
func (h *PrecinctHandler) AddRule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var spec models.RuleSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.service.AddRule(id, spec)
	if err != nil {
		registryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// ListRules handles GET /api/v1/precincts/:id/rules
func (h *PrecinctHandler) ListRules(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rules, err := h.service.ListActiveRules(id)
	if err != nil {
		registryError(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

// UpdateRule handles PUT /api/v1/rules/:id
func (h *PrecinctHandler) UpdateRule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var spec models.RuleSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.service.UpdateRule(id, spec)
	if err != nil {
		registryError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// DeactivateRule handles POST /api/v1/rules/:id/deactivate
func (h *PrecinctHandler) DeactivateRule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeactivateRule(id); err != nil {
		registryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteRule handles DELETE /api/v1/rules/:id
func (h *PrecinctHandler) DeleteRule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteRule(id); err != nil {
		registryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type assignCoursesRequest struct {
	Courses []string `json:"courses" binding:"required"`
}

// AssignCourses handles PUT /api/v1/elections/:id/precincts/:precinctID/courses.
// The body carries the complete desired course set; the previous set is
// replaced, not merged.
func (h *PrecinctHandler) AssignCourses(c *gin.Context) {
	electionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	precinctID, err := strconv.ParseUint(c.Param("precinctID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid precinct ID"})
		return
	}

	var req assignCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.service.AssignCourses(electionID, uint(precinctID), req.Courses)
	if err != nil {
		registryError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// ListAssignments handles GET /api/v1/elections/:id/assignments
func (h *PrecinctHandler) ListAssignments(c *gin.Context) {
	electionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	assignments, err := h.service.GetAssignments(electionID)
	if err != nil {
		registryError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}
