package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/ports"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/metrics"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	apperrors "github.com/awaisdevofficial/inbound2-sub001/pkg/errors"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/utils"
)

// SendEmailRequest sends mail through the caller's own mailbox.
type SendEmailRequest struct {
	From     string `json:"from"`
	Password string `json:"password"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
	HTML     string `json:"html"`
	FromName string `json:"fromName"`
	ReplyTo  string `json:"replyTo"`
}

// CustomEmailRequest adds explicit SMTP settings and copies.
type CustomEmailRequest struct {
	SendEmailRequest
	SMTPHost string `json:"smtpHost"`
	SMTPPort int    `json:"smtpPort"`
	Secure   *bool  `json:"secure"`
	Username string `json:"username"`
	Cc       string `json:"cc"`
	Bcc      string `json:"bcc"`
}

// SystemEmailRequest sends from the platform's own account, optionally
// rendering a named template.
type SystemEmailRequest struct {
	To       string                 `json:"to"`
	Subject  string                 `json:"subject"`
	Text     string                 `json:"text"`
	HTML     string                 `json:"html"`
	Template string                 `json:"template"`
	Data     map[string]interface{} `json:"data"`
}

// ContactRequest is the public landing-page contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// SendResult is returned for every delivered message.
type SendResult struct {
	MessageID string `json:"messageId"`
}

// EmailService validates and relays outbound email.
type EmailService struct {
	mailer    ports.Mailer
	logs      ports.EmailLogRepository
	providers *ProviderTable
	templates *TemplateRenderer
	leads     *LeadService
	system    config.SMTPConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewEmailService creates a new EmailService. logs and leads may be nil.
func NewEmailService(
	mailer ports.Mailer,
	logs ports.EmailLogRepository,
	providers *ProviderTable,
	templates *TemplateRenderer,
	leads *LeadService,
	system config.SMTPConfig,
	logger *zap.Logger,
) *EmailService {
	return &EmailService{
		mailer:    mailer,
		logs:      logs,
		providers: providers,
		templates: templates,
		leads:     leads,
		system:    system,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SendUserEmail relays a message through the sender's mailbox provider.
func (s *EmailService) SendUserEmail(ctx context.Context, req SendEmailRequest, user *auth.UserSession) (*SendResult, error) {
	msg, err := s.userMessage(req)
	if err != nil {
		return nil, err
	}
	settings := s.providers.Resolve(req.From)
	settings.Username = strings.TrimSpace(req.From)
	settings.Password = req.Password

	return s.deliver(ctx, constants.EmailKindUser, user, settings, msg)
}

// SendCustomEmail relays a message with caller-supplied SMTP settings.
// Host and port fall back to the provider table.
func (s *EmailService) SendCustomEmail(ctx context.Context, req CustomEmailRequest, user *auth.UserSession) (*SendResult, error) {
	msg, err := s.userMessage(req.SendEmailRequest)
	if err != nil {
		return nil, err
	}

	if req.Cc != "" {
		if msg.Cc, err = parseRecipients("cc", req.Cc); err != nil {
			return nil, err
		}
	}
	if req.Bcc != "" {
		if msg.Bcc, err = parseRecipients("bcc", req.Bcc); err != nil {
			return nil, err
		}
	}
	if n := len(msg.To) + len(msg.Cc) + len(msg.Bcc); n > constants.MaxEmailRecipients {
		return nil, apperrors.NewValidationError("to", fmt.Sprintf("Too many recipients (max %d)", constants.MaxEmailRecipients))
	}

	settings := s.providers.Resolve(req.From)
	if host := strings.TrimSpace(req.SMTPHost); host != "" {
		settings.Host = host
		settings.Port = defaultSMTPPort
		settings.SSL = false
	}
	if req.SMTPPort != 0 {
		if req.SMTPPort < 1 || req.SMTPPort > 65535 {
			return nil, apperrors.NewValidationError("smtpPort", "smtpPort must be between 1 and 65535")
		}
		settings.Port = req.SMTPPort
		settings.SSL = req.SMTPPort == 465
	}
	if req.Secure != nil {
		settings.SSL = *req.Secure
	}
	settings.Username = strings.TrimSpace(req.Username)
	if settings.Username == "" {
		settings.Username = strings.TrimSpace(req.From)
	}
	settings.Password = req.Password

	return s.deliver(ctx, constants.EmailKindCustom, user, settings, msg)
}

// SendSystemEmail sends from the configured system account.
func (s *EmailService) SendSystemEmail(ctx context.Context, req SystemEmailRequest, user *auth.UserSession) (*SendResult, error) {
	if !s.system.Configured() {
		return nil, systemNotConfigured()
	}

	to, err := parseRecipients("to", req.To)
	if err != nil {
		return nil, err
	}

	subject, text, body := strings.TrimSpace(req.Subject), req.Text, req.HTML
	if name := strings.TrimSpace(req.Template); name != "" {
		if !s.templates.Has(name) {
			return nil, apperrors.NewValidationError("template",
				fmt.Sprintf("Unknown email template: %s. Available: %s", name, strings.Join(s.templates.Names(), ", ")))
		}
		rendered, err := s.templates.Render(name, req.Data)
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to render email template", err)
		}
		if subject == "" {
			subject = rendered.Subject
		}
		body = rendered.HTML
	}

	if subject == "" {
		return nil, apperrors.NewValidationError("subject", "Missing required fields: subject")
	}
	if strings.TrimSpace(text) == "" && strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("text", "Either text or html content is required")
	}

	msg := &models.EmailMessage{
		From:     s.system.User,
		FromName: s.system.FromName,
		To:       to,
		Subject:  subject,
		Text:     text,
		HTML:     body,
	}
	return s.deliver(ctx, constants.EmailKindSystem, user, s.systemSettings(), msg)
}

// SendContact forwards a landing-page contact form to the team inbox and
// records the submitter as a lead.
func (s *EmailService) SendContact(ctx context.Context, req ContactRequest) (*SendResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if missing := missingFields(map[string]string{"name": req.Name, "email": req.Email, "message": req.Message}, "name", "email", "message"); missing != "" {
		return nil, apperrors.NewValidationError("", "Missing required fields: "+missing)
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, apperrors.NewValidationError("email", "Invalid email address")
	}
	if !s.system.Configured() {
		return nil, systemNotConfigured()
	}

	inbox := s.system.ContactTo
	if inbox == "" {
		inbox = s.system.User
	}

	msg := &models.EmailMessage{
		From:     s.system.User,
		FromName: s.system.FromName,
		To:       []string{inbox},
		ReplyTo:  req.Email,
		Subject:  "New contact form submission from " + req.Name,
		Text:     contactText(req),
		HTML:     contactHTML(req),
	}

	res, err := s.deliver(ctx, constants.EmailKindContact, nil, s.systemSettings(), msg)
	if err != nil {
		return nil, err
	}

	if s.leads != nil {
		if _, err := s.leads.CaptureLandingPage(ctx, models.LandingPageSubmission{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Company: req.Company,
			Message: req.Message,
		}); err != nil {
			s.logger.Warn("landing page lead capture failed", zap.Error(err))
		}
	}
	return res, nil
}

func (s *EmailService) userMessage(req SendEmailRequest) (*models.EmailMessage, error) {
	req.From = strings.TrimSpace(req.From)
	req.Subject = strings.TrimSpace(req.Subject)

	fields := map[string]string{"from": req.From, "password": req.Password, "to": strings.TrimSpace(req.To), "subject": req.Subject}
	if missing := missingFields(fields, "from", "password", "to", "subject"); missing != "" {
		return nil, apperrors.NewValidationError("", "Missing required fields: "+missing)
	}
	if strings.TrimSpace(req.Text) == "" && strings.TrimSpace(req.HTML) == "" {
		return nil, apperrors.NewValidationError("text", "Either text or html content is required")
	}
	if !utils.IsValidEmail(req.From) {
		return nil, apperrors.NewValidationError("from", "Invalid sender email address")
	}

	to, err := parseRecipients("to", req.To)
	if err != nil {
		return nil, err
	}

	replyTo := strings.TrimSpace(req.ReplyTo)
	if replyTo != "" && !utils.IsValidEmail(replyTo) {
		return nil, apperrors.NewValidationError("replyTo", "Invalid reply-to email address")
	}

	return &models.EmailMessage{
		From:     req.From,
		FromName: strings.TrimSpace(req.FromName),
		To:       to,
		ReplyTo:  replyTo,
		Subject:  req.Subject,
		Text:     req.Text,
		HTML:     req.HTML,
	}, nil
}

// deliver verifies the connection, sends, logs the attempt and maps failures
// to client-facing errors.
func (s *EmailService) deliver(ctx context.Context, kind string, user *auth.UserSession, settings models.SMTPSettings, msg *models.EmailMessage) (*SendResult, error) {
	logger := s.logger.With(
		zap.String("kind", kind),
		zap.String("host", settings.Host),
		zap.Int("port", settings.Port),
	)

	err := s.mailer.Verify(ctx, settings)
	var messageID string
	if err == nil {
		messageID, err = s.mailer.Send(ctx, settings, msg)
	}

	s.record(ctx, kind, user, settings, msg, messageID, err)

	if err != nil {
		metrics.RecordEmail(kind, settings.Host, "failed")
		mapped := mapDeliveryError(err)
		logger.Warn("email delivery failed",
			zap.String("code", apperrors.GetErrorCode(mapped)),
			zap.Error(err))
		return nil, mapped
	}

	metrics.RecordEmail(kind, settings.Host, "sent")
	logger.Info("email sent", zap.String("message_id", messageID), zap.Int("recipients", len(msg.To)))
	return &SendResult{MessageID: messageID}, nil
}

func (s *EmailService) record(ctx context.Context, kind string, user *auth.UserSession, settings models.SMTPSettings, msg *models.EmailMessage, messageID string, sendErr error) {
	if s.logs == nil {
		return
	}

	entry := &models.EmailLog{
		ID:           utils.GenerateID(),
		Kind:         kind,
		FromAddress:  msg.From,
		ToAddress:    utils.TruncateRunes(strings.Join(msg.To, ", "), 1000),
		Subject:      utils.TruncateRunes(msg.Subject, 500),
		ProviderHost: settings.Host,
		Status:       constants.EmailStatusSent,
		CreatedAt:    s.now(),
	}
	if user != nil && user.ID != "" {
		entry.UserID = &user.ID
	}
	if messageID != "" {
		entry.MessageID = &messageID
	}
	if sendErr != nil {
		entry.Status = constants.EmailStatusFailed
		reason := utils.TruncateRunes(sendErr.Error(), 1000)
		entry.Error = &reason
	}

	if err := s.logs.Insert(ctx, entry); err != nil {
		s.logger.Warn("failed to record email log", zap.Error(err))
	}
}

func (s *EmailService) systemSettings() models.SMTPSettings {
	settings := s.providers.Resolve(s.system.User)
	settings.Username = s.system.User
	settings.Password = s.system.Password
	return settings
}

func mapDeliveryError(err error) error {
	var delivery *models.DeliveryError
	if errors.As(err, &delivery) {
		switch delivery.Class {
		case constants.SMTPErrAuth:
			return apperrors.NewUpstreamError(http.StatusUnauthorized, constants.SMTPErrAuth,
				"Authentication failed. Check the email address and app password.", err)
		case constants.SMTPErrConnection:
			return apperrors.NewUpstreamError(http.StatusServiceUnavailable, constants.SMTPErrConnection,
				"Could not connect to the email server. Check the SMTP settings.", err)
		}
		return apperrors.NewUpstreamError(http.StatusInternalServerError, constants.SMTPErrSend,
			"Failed to send email: "+delivery.Err.Error(), err)
	}
	return apperrors.NewUpstreamError(http.StatusInternalServerError, constants.SMTPErrSend,
		"Failed to send email: "+err.Error(), err)
}

func systemNotConfigured() error {
	return apperrors.NewUpstreamError(http.StatusServiceUnavailable, "EMAIL_NOT_CONFIGURED", "System email is not configured", nil)
}

// parseRecipients splits and validates a recipient list.
func parseRecipients(field, list string) ([]string, error) {
	addrs := utils.SplitAddresses(list)
	if len(addrs) == 0 {
		return nil, apperrors.NewValidationError(field, "Missing required fields: "+field)
	}
	if len(addrs) > constants.MaxEmailRecipients {
		return nil, apperrors.NewValidationError(field, fmt.Sprintf("Too many recipients (max %d)", constants.MaxEmailRecipients))
	}
	for _, a := range addrs {
		if !utils.IsValidEmail(a) {
			return nil, apperrors.NewValidationError(field, "Invalid recipient email address: "+a)
		}
	}
	return addrs, nil
}

// missingFields lists empty values in the given order.
func missingFields(values map[string]string, order ...string) string {
	var missing []string
	for _, k := range order {
		if strings.TrimSpace(values[k]) == "" {
			missing = append(missing, k)
		}
	}
	return strings.Join(missing, ", ")
}
