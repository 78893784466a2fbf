package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/interfaces/middleware"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/errors"
)

// GetUserFromContext extracts the authenticated user from gin.Context.
// Returns nil when auth is disabled or the route is public.
func GetUserFromContext(c *gin.Context) *auth.UserSession {
	return middleware.UserFromContext(c)
}

// RespondAppError sends a standardised JSON error response using pkg/errors
func RespondAppError(c *gin.Context, logger *zap.Logger, err error) {
	code := errors.GetHTTPStatus(err)

	if code >= 500 {
		logger.Error("request failed",
			zap.Int("status", code),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(constants.ContextKeyRequestID)),
			zap.Error(err))
	}

	_ = c.Error(err)
	c.JSON(code, errors.ToResponse(err))
}

// BindJSON binds JSON and returns true if successful. If failed, it sends bad request error.
func BindJSON(c *gin.Context, logger *zap.Logger, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, logger, errors.NewValidationError("body", "Invalid JSON body"))
		return false
	}
	return true
}
