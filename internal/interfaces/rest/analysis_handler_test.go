package rest_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/internal/interfaces/rest"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	apperrors "github.com/awaisdevofficial/inbound2-sub001/pkg/errors"
)

func analyzeRequest(body string, user *auth.UserSession, svc *MockAnalysisService) *httptest.ResponseRecorder {
	handler := rest.NewAnalysisHandler(svc, zap.NewNop())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/calls/analyze", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if user != nil {
		c.Set(constants.ContextKeyUser, *user)
	}
	handler.Analyze(c)
	return w
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	user := &auth.UserSession{ID: "user-1"}

	t.Run("Success", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("AnalyzeCall", mock.Anything, "call-1", user).Return(&models.CallAnalysis{
			Summary:    "Asked about pricing",
			Sentiment:  "positive",
			LeadScore:  80,
			LeadStatus: "hot",
			KeyPoints:  []string{},
			NextSteps:  []string{},
		}, nil)

		w := analyzeRequest(`{"callId":"call-1"}`, user, svc)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
		assert.Contains(t, w.Body.String(), `"lead_status":"hot"`)
		svc.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("AnalyzeCall", mock.Anything, "missing", user).Return(nil, apperrors.NewNotFoundError("Call", "missing"))

		w := analyzeRequest(`{"callId":"missing"}`, user, svc)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Call with ID 'missing' not found","code":"NOT_FOUND"}`, w.Body.String())
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("AnalyzeCall", mock.Anything, "call-1", (*auth.UserSession)(nil)).
			Return(nil, apperrors.NewUpstreamError(http.StatusBadGateway, "", "Failed to analyze call: timeout", nil))

		w := analyzeRequest(`{"callId":"call-1"}`, nil, svc)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to analyze call: timeout")
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		svc := new(MockAnalysisService)

		w := analyzeRequest(`{callId`, user, svc)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid JSON body")
		svc.AssertNotCalled(t, "AnalyzeCall", mock.Anything, mock.Anything, mock.Anything)
	})
}
