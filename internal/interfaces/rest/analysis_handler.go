package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
)

// AnalysisService defines the interface for call analysis
type AnalysisService interface {
	AnalyzeCall(ctx context.Context, callID string, user *auth.UserSession) (*models.CallAnalysis, error)
}

// AnalysisHandler handles call analysis endpoints
type AnalysisHandler struct {
	svc    AnalysisService
	logger *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(svc AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, logger: logger}
}

// AnalyzeRequest is the body of POST /api/calls/analyze
type AnalyzeRequest struct {
	CallID string `json:"callId"`
}

// Analyze handles POST /api/calls/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if !BindJSON(c, h.logger, &req) {
		return
	}

	analysis, err := h.svc.AnalyzeCall(c.Request.Context(), req.CallID, GetUserFromContext(c))
	if err != nil {
		RespondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		constants.ResponseSuccess:  true,
		constants.ResponseAnalysis: analysis,
	})
}
