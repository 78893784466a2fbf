package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/application/services"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
)

// EmailService defines the interface for the SMTP relay
type EmailService interface {
	SendUserEmail(ctx context.Context, req services.SendEmailRequest, user *auth.UserSession) (*services.SendResult, error)
	SendCustomEmail(ctx context.Context, req services.CustomEmailRequest, user *auth.UserSession) (*services.SendResult, error)
	SendSystemEmail(ctx context.Context, req services.SystemEmailRequest, user *auth.UserSession) (*services.SendResult, error)
	SendContact(ctx context.Context, req services.ContactRequest) (*services.SendResult, error)
}

// EmailHandler handles the email relay endpoints
type EmailHandler struct {
	svc    EmailService
	logger *zap.Logger
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(svc EmailService, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{svc: svc, logger: logger}
}

// Contact handles POST /email
func (h *EmailHandler) Contact(c *gin.Context) {
	var req services.ContactRequest
	if !BindJSON(c, h.logger, &req) {
		return
	}
	h.respond(c)(h.svc.SendContact(c.Request.Context(), req))
}

// SendEmail handles POST /api/send-email
func (h *EmailHandler) SendEmail(c *gin.Context) {
	var req services.SendEmailRequest
	if !BindJSON(c, h.logger, &req) {
		return
	}
	h.respond(c)(h.svc.SendUserEmail(c.Request.Context(), req, GetUserFromContext(c)))
}

// SendCustomEmail handles POST /api/send-email-custom
func (h *EmailHandler) SendCustomEmail(c *gin.Context) {
	var req services.CustomEmailRequest
	if !BindJSON(c, h.logger, &req) {
		return
	}
	h.respond(c)(h.svc.SendCustomEmail(c.Request.Context(), req, GetUserFromContext(c)))
}

// SendSystemEmail handles POST /api/send-system-email
func (h *EmailHandler) SendSystemEmail(c *gin.Context) {
	var req services.SystemEmailRequest
	if !BindJSON(c, h.logger, &req) {
		return
	}
	h.respond(c)(h.svc.SendSystemEmail(c.Request.Context(), req, GetUserFromContext(c)))
}

func (h *EmailHandler) respond(c *gin.Context) func(*services.SendResult, error) {
	return func(result *services.SendResult, err error) {
		if err != nil {
			RespondAppError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			constants.ResponseSuccess:   true,
			constants.ResponseMessageID: result.MessageID,
		})
	}
}
