package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	apperrors "github.com/awaisdevofficial/inbound2-sub001/pkg/errors"
)

type emailFixture struct {
	mailer *MockMailer
	logs   *fakeEmailLogs
	leads  *fakeLeadRepository
	svc    *EmailService
}

func newEmailFixture(t *testing.T, system config.SMTPConfig) *emailFixture {
	t.Helper()
	templates, err := NewTemplateRenderer("Inbound")
	require.NoError(t, err)

	f := &emailFixture{
		mailer: new(MockMailer),
		logs:   &fakeEmailLogs{},
		leads:  &fakeLeadRepository{},
	}
	f.svc = NewEmailService(f.mailer, f.logs, NewProviderTable(nil), templates, newTestLeadService(f.leads), system, zap.NewNop())
	return f
}

func validUserRequest() SendEmailRequest {
	return SendEmailRequest{
		From:     "owner@gmail.com",
		Password: "app-password",
		To:       "a@example.com, b@example.com",
		Subject:  "Hello",
		Text:     "Body",
	}
}

func TestProviderTable_Resolve(t *testing.T) {
	table := NewProviderTable(nil)

	tests := []struct {
		sender string
		want   models.SMTPSettings
	}{
		{"x@gmail.com", models.SMTPSettings{Host: "smtp.gmail.com", Port: 587}},
		{"x@HOTMAIL.com", models.SMTPSettings{Host: "smtp-mail.outlook.com", Port: 587}},
		{"x@live.com", models.SMTPSettings{Host: "smtp-mail.outlook.com", Port: 587}},
		{"x@yahoo.com", models.SMTPSettings{Host: "smtp.mail.yahoo.com", Port: 465, SSL: true}},
		{"x@acme.io", models.SMTPSettings{Host: "smtp.acme.io", Port: 587}},
	}
	for _, tt := range tests {
		t.Run(tt.sender, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Resolve(tt.sender))
		})
	}
}

func TestProviderTable_Override(t *testing.T) {
	table := NewProviderTable([]config.ProviderConfig{{Domains: []string{"Acme.io"}, Host: "mail.acme.io", Port: 2525}})
	assert.Equal(t, models.SMTPSettings{Host: "mail.acme.io", Port: 2525}, table.Resolve("x@acme.io"))
	assert.Equal(t, "smtp.gmail.com", table.Resolve("x@gmail.com").Host, "override replaces the defaults")
}

func TestSendUserEmail_Success(t *testing.T) {
	f := newEmailFixture(t, config.SMTPConfig{})

	want := models.SMTPSettings{Host: "smtp.gmail.com", Port: 587, Username: "owner@gmail.com", Password: "app-password"}
	f.mailer.On("Verify", mock.Anything, want).Return(nil)
	f.mailer.On("Send", mock.Anything, want, mock.MatchedBy(func(m *models.EmailMessage) bool {
		return len(m.To) == 2 && m.Subject == "Hello" && m.From == "owner@gmail.com"
	})).Return("<id@example>", nil)

	res, err := f.svc.SendUserEmail(context.Background(), validUserRequest(), &auth.UserSession{ID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "<id@example>", res.MessageID)

	require.Len(t, f.logs.entries, 1)
	entry := f.logs.entries[0]
	assert.Equal(t, constants.EmailKindUser, entry.Kind)
	assert.Equal(t, constants.EmailStatusSent, entry.Status)
	assert.Equal(t, "user-1", *entry.UserID)
	f.mailer.AssertExpectations(t)
}

func TestSendUserEmail_Validation(t *testing.T) {
	f := newEmailFixture(t, config.SMTPConfig{})

	tests := []struct {
		name   string
		modify func(r *SendEmailRequest)
		msg    string
	}{
		{"missing fields", func(r *SendEmailRequest) { r.From, r.Subject = "", "" }, "Missing required fields: from, subject"},
		{"no body", func(r *SendEmailRequest) { r.Text = "" }, "Either text or html content is required"},
		{"bad sender", func(r *SendEmailRequest) { r.From = "owner" }, "Invalid sender email address"},
		{"bad recipient", func(r *SendEmailRequest) { r.To = "a@example.com, nope" }, "Invalid recipient email address: nope"},
		{"bad reply-to", func(r *SendEmailRequest) { r.ReplyTo = "x@" }, "Invalid reply-to email address"},
		{"too many", func(r *SendEmailRequest) { r.To = strings.Repeat("a@example.com,", 51) }, "Too many recipients (max 50)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUserRequest()
			tt.modify(&req)
			_, err := f.svc.SendUserEmail(context.Background(), req, nil)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
	f.mailer.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestSendUserEmail_ErrorMapping(t *testing.T) {
	tests := []struct {
		class  string
		status int
		msg    string
	}{
		{constants.SMTPErrAuth, http.StatusUnauthorized, "Authentication failed. Check the email address and app password."},
		{constants.SMTPErrConnection, http.StatusServiceUnavailable, "Could not connect to the email server. Check the SMTP settings."},
		{constants.SMTPErrSend, http.StatusInternalServerError, "Failed to send email: mailbox full"},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			f := newEmailFixture(t, config.SMTPConfig{})
			f.mailer.On("Verify", mock.Anything, mock.Anything).
				Return(&models.DeliveryError{Class: tt.class, Err: errors.New("mailbox full")})

			_, err := f.svc.SendUserEmail(context.Background(), validUserRequest(), nil)
			assert.Equal(t, tt.status, apperrors.GetHTTPStatus(err))
			assert.Equal(t, tt.class, apperrors.GetErrorCode(err))
			assert.Equal(t, tt.msg, apperrors.PublicMessage(err))

			require.Len(t, f.logs.entries, 1)
			assert.Equal(t, constants.EmailStatusFailed, f.logs.entries[0].Status)
			f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSendCustomEmail_Overrides(t *testing.T) {
	f := newEmailFixture(t, config.SMTPConfig{})

	secure := false
	req := CustomEmailRequest{
		SendEmailRequest: validUserRequest(),
		SMTPHost:         "mail.custom.net",
		SMTPPort:         465,
		Secure:           &secure,
		Username:         "smtp-user",
		Cc:               "c@example.com",
		Bcc:              "d@example.com",
	}
	want := models.SMTPSettings{Host: "mail.custom.net", Port: 465, SSL: false, Username: "smtp-user", Password: "app-password"}
	f.mailer.On("Verify", mock.Anything, want).Return(nil)
	f.mailer.On("Send", mock.Anything, want, mock.MatchedBy(func(m *models.EmailMessage) bool {
		return len(m.Cc) == 1 && len(m.Bcc) == 1
	})).Return("<id>", nil)

	_, err := f.svc.SendCustomEmail(context.Background(), req, nil)
	require.NoError(t, err)
	f.mailer.AssertExpectations(t)
}

func TestSendCustomEmail_BadPort(t *testing.T) {
	f := newEmailFixture(t, config.SMTPConfig{})
	req := CustomEmailRequest{SendEmailRequest: validUserRequest(), SMTPPort: 70000}

	_, err := f.svc.SendCustomEmail(context.Background(), req, nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSendSystemEmail_NotConfigured(t *testing.T) {
	f := newEmailFixture(t, config.SMTPConfig{})

	_, err := f.svc.SendSystemEmail(context.Background(), SystemEmailRequest{To: "a@example.com", Subject: "s", Text: "t"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.GetHTTPStatus(err))
	assert.Equal(t, "System email is not configured", apperrors.PublicMessage(err))
}

func TestSendSystemEmail_Template(t *testing.T) {
	f := newEmailFixture(t, config.SMTPConfig{User: "noreply@yahoo.com", Password: "pw", FromName: "Inbound"})

	want := models.SMTPSettings{Host: "smtp.mail.yahoo.com", Port: 465, SSL: true, Username: "noreply@yahoo.com", Password: "pw"}
	f.mailer.On("Verify", mock.Anything, want).Return(nil)
	f.mailer.On("Send", mock.Anything, want, mock.MatchedBy(func(m *models.EmailMessage) bool {
		return m.Subject == "Your Inbound credits are running low" &&
			strings.Contains(m.HTML, "12 credits left") &&
			m.FromName == "Inbound"
	})).Return("<id>", nil)

	_, err := f.svc.SendSystemEmail(context.Background(), SystemEmailRequest{
		To:       "user@example.com",
		Template: "low_credits",
		Data:     map[string]interface{}{"credits": 12},
	}, nil)
	require.NoError(t, err)
	f.mailer.AssertExpectations(t)
}

func TestSendSystemEmail_UnknownTemplate(t *testing.T) {
	f := newEmailFixture(t, config.SMTPConfig{User: "noreply@example.com", Password: "pw"})

	_, err := f.svc.SendSystemEmail(context.Background(), SystemEmailRequest{To: "a@example.com", Template: "nope"}, nil)
	require.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Unknown email template: nope")
}

func TestSendContact(t *testing.T) {
	f := newEmailFixture(t, config.SMTPConfig{User: "noreply@example.com", Password: "pw", ContactTo: "team@example.com"})

	f.mailer.On("Verify", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.MatchedBy(func(m *models.EmailMessage) bool {
		return m.To[0] == "team@example.com" &&
			m.ReplyTo == "sam@example.com" &&
			strings.Contains(m.Text, "Company: Acme") &&
			strings.Contains(m.HTML, "Sam &lt;script&gt;")
	})).Return("<id>", nil)

	res, err := f.svc.SendContact(context.Background(), ContactRequest{
		Name:    "Sam <script>",
		Email:   "sam@example.com",
		Company: "Acme",
		Message: "Please call me",
	})
	require.NoError(t, err)
	assert.Equal(t, "<id>", res.MessageID)

	require.Len(t, f.leads.leads, 1)
	assert.Equal(t, constants.LeadSourceLandingPage, f.leads.leads[0].Source)
	assert.Equal(t, constants.EmailKindContact, f.logs.entries[0].Kind)
}

func TestSendContact_Validation(t *testing.T) {
	f := newEmailFixture(t, config.SMTPConfig{User: "noreply@example.com", Password: "pw"})

	_, err := f.svc.SendContact(context.Background(), ContactRequest{Email: "x@example.com"})
	require.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Missing required fields: name, message", err.Error())

	_, err = f.svc.SendContact(context.Background(), ContactRequest{Name: "n", Email: "bad", Message: "m"})
	assert.Equal(t, "Invalid email address", err.Error())
}

func TestTemplateRenderer(t *testing.T) {
	r, err := NewTemplateRenderer("Inbound")
	require.NoError(t, err)

	assert.Equal(t, []string{"invoice", "low_credits", "password_reset", "welcome"}, r.Names())

	out, err := r.Render("welcome", map[string]interface{}{"name": "Jo & Co", "dashboardUrl": "https://app.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Inbound", out.Subject)
	assert.Contains(t, out.HTML, "Welcome, Jo &amp; Co!")
	assert.Contains(t, out.HTML, `href="https://app.example.com"`)

	out, err = r.Render("invoice", map[string]interface{}{"invoiceNumber": "INV-7", "amount": "$49.00"})
	require.NoError(t, err)
	assert.Equal(t, "Inbound invoice INV-7", out.Subject)
	assert.Contains(t, out.HTML, "$49.00")

	_, err = r.Render("missing", nil)
	assert.Error(t, err)
}
