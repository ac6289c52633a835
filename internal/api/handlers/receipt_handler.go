package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/themisvote/themis/backend/internal/services"
)

type ReceiptHandler struct {
	minter    *services.ReceiptService
	elections services.ElectionContext
}

func NewReceiptHandler(minter *services.ReceiptService, elections services.ElectionContext) *ReceiptHandler {
	return &ReceiptHandler{minter: minter, elections: elections}
}

type mintRequest struct {
	ElectionID uint       `json:"election_id" binding:"required"`
	VoteToken  string     `json:"vote_token" binding:"required"`
	VoteDate   *time.Time `json:"vote_date,omitempty"`
}

// Mint handles POST /api/v1/receipts. The vote-casting flow calls this
// after the ballot write is durable; the token's provenance is that
// caller's responsibility.
func (h *ReceiptHandler) Mint(c *gin.Context) {
	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.elections.Title(req.ElectionID)
	if err != nil {
		if errors.Is(err, services.ErrElectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "election not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store temporarily unavailable"})
		return
	}

	voteDate := time.Now()
	if req.VoteDate != nil {
		voteDate = *req.VoteDate
	}

	c.JSON(http.StatusCreated, h.minter.Mint(title, voteDate, req.VoteToken))
}

// Code handles GET /api/v1/receipts/code/:token — recompute the
// verification code for a token, e.g. for offline auditing.
func (h *ReceiptHandler) Code(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification_code": h.minter.DeriveCode(token)})
}

type verifyCodeRequest struct {
	VoteToken string `json:"vote_token" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// Verify handles POST /api/v1/receipts/verify — check a presented code
// against the one the token derives to.
func (h *ReceiptHandler) Verify(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": h.minter.VerifyCode(req.VoteToken, req.Code)})
}
