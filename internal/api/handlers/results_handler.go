package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/themisvote/themis/backend/internal/models"
	"github.com/themisvote/themis/backend/internal/services"
)

type ResultsHandler struct {
	verifier *services.ResultVerifyService
}

func NewResultsHandler(verifier *services.ResultVerifyService) *ResultsHandler {
	return &ResultsHandler{verifier: verifier}
}

type verifyBatchRequest struct {
	Records []models.EncryptedResultRecord `json:"records" binding:"required"`
}

// VerifyBatch handles POST /api/v1/results/verify. One result per input
// record, in input order; a malformed record never aborts the batch.
func (h *ResultsHandler) VerifyBatch(c *gin.Context) {
	var req verifyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": h.verifier.VerifyBatch(req.Records)})
}
