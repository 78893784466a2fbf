package ports

import (
	"context"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
)

// Mailer delivers email over SMTP.
// Implementations wrap failures in *models.DeliveryError so callers can tell
// authentication and connection problems apart.
type Mailer interface {
	// Verify opens a connection, authenticates and closes it.
	Verify(ctx context.Context, settings models.SMTPSettings) error
	// Send delivers one message and returns its Message-ID.
	Send(ctx context.Context, settings models.SMTPSettings, msg *models.EmailMessage) (string, error)
}
