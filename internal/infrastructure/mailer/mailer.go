// Package mailer delivers email over SMTP with go-mail.
package mailer

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
)

// SMTPMailer implements ports.Mailer. Each call opens its own connection
// because settings differ per request.
type SMTPMailer struct {
	timeout time.Duration
	logger  *zap.Logger

	// tlsPolicy applies to STARTTLS connections (non-SSL settings).
	tlsPolicy mail.TLSPolicy
}

// New creates an SMTPMailer.
func New(timeout time.Duration, logger *zap.Logger) *SMTPMailer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPMailer{timeout: timeout, logger: logger, tlsPolicy: mail.TLSMandatory}
}

// Verify dials, authenticates and hangs up.
func (m *SMTPMailer) Verify(ctx context.Context, settings models.SMTPSettings) error {
	client, err := m.client(settings)
	if err != nil {
		return &models.DeliveryError{Class: constants.SMTPErrConnection, Err: err}
	}
	if err := client.DialWithContext(ctx); err != nil {
		return classify(err)
	}
	if err := client.Close(); err != nil {
		m.logger.Debug("smtp close after verify failed", zap.String("host", settings.Host), zap.Error(err))
	}
	return nil
}

// Send builds and delivers msg, returning the generated Message-ID.
func (m *SMTPMailer) Send(ctx context.Context, settings models.SMTPSettings, msg *models.EmailMessage) (string, error) {
	built, err := buildMessage(msg)
	if err != nil {
		return "", &models.DeliveryError{Class: constants.SMTPErrSend, Err: err}
	}

	client, err := m.client(settings)
	if err != nil {
		return "", &models.DeliveryError{Class: constants.SMTPErrConnection, Err: err}
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, built); err != nil {
		return "", classify(err)
	}

	m.logger.Debug("smtp message sent",
		zap.String("host", settings.Host),
		zap.Int("port", settings.Port),
		zap.Int("recipients", len(msg.To)+len(msg.Cc)+len(msg.Bcc)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return built.GetMessageID(), nil
}

func (m *SMTPMailer) client(settings models.SMTPSettings) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(settings.Port),
		mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		mail.WithUsername(settings.Username),
		mail.WithPassword(settings.Password),
		mail.WithTimeout(m.timeout),
	}
	if settings.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(m.tlsPolicy))
	}

	client, err := mail.NewClient(settings.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client, nil
}

func buildMessage(msg *models.EmailMessage) (*mail.Msg, error) {
	m := mail.NewMsg()

	if msg.FromName != "" {
		if err := m.FromFormat(msg.FromName, msg.From); err != nil {
			return nil, fmt.Errorf("invalid from address: %w", err)
		}
	} else if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}

	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if len(msg.Cc) > 0 {
		if err := m.Cc(msg.Cc...); err != nil {
			return nil, fmt.Errorf("invalid cc recipient: %w", err)
		}
	}
	if len(msg.Bcc) > 0 {
		if err := m.Bcc(msg.Bcc...); err != nil {
			return nil, fmt.Errorf("invalid bcc recipient: %w", err)
		}
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}

	m.Subject(msg.Subject)
	m.SetMessageID()

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}
	return m, nil
}

// classify maps a go-mail failure to EAUTH, ECONNECTION or ESEND.
// Transport failures are checked first so that TLS and DNS errors never
// surface as credential problems.
func classify(err error) error {
	var delivery *models.DeliveryError
	if errors.As(err, &delivery) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case isTransportError(err):
		return &models.DeliveryError{Class: constants.SMTPErrConnection, Err: err}
	case isAuthRejection(err, msg):
		return &models.DeliveryError{Class: constants.SMTPErrAuth, Err: err}
	case hasConnectionMarker(msg):
		return &models.DeliveryError{Class: constants.SMTPErrConnection, Err: err}
	default:
		return &models.DeliveryError{Class: constants.SMTPErrSend, Err: err}
	}
}

func isTransportError(err error) bool {
	var (
		netErr    net.Error
		certErr   *tls.CertificateVerificationError
		authority x509.UnknownAuthorityError
		hostname  x509.HostnameError
		invalid   x509.CertificateInvalidError
		recordErr tls.RecordHeaderError
		sendErr   *mail.SendError
	)
	switch {
	case errors.As(err, &netErr),
		errors.As(err, &certErr),
		errors.As(err, &authority),
		errors.As(err, &hostname),
		errors.As(err, &invalid),
		errors.As(err, &recordErr),
		errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.As(err, &sendErr):
		return sendErr.Reason == mail.ErrConnCheck
	}
	return false
}

// isAuthRejection reports an SMTP 534/535 reply to AUTH.
func isAuthRejection(err error, msg string) bool {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code == 534 || tpErr.Code == 535
	}
	// Enhanced status codes survive wrapping that drops the textproto error
	return strings.Contains(msg, "535 5.7.") || strings.Contains(msg, "534 5.7.")
}

func hasConnectionMarker(msg string) bool {
	for _, marker := range []string{"dial failed", "failed to dial", "connection refused", "no such host", "i/o timeout", "tls:", "eof", "connection reset"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
