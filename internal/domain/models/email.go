package models

import "time"

// SMTPSettings describes one outbound SMTP connection.
type SMTPSettings struct {
	Host     string
	Port     int
	SSL      bool // implicit TLS (465); otherwise STARTTLS is required
	Username string
	Password string
}

// EmailMessage is one message handed to the mailer.
type EmailMessage struct {
	From     string
	FromName string
	To       []string
	Cc       []string
	Bcc      []string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
}

// EmailLog records one delivery attempt.
type EmailLog struct {
	ID           string    `db:"id"`
	UserID       *string   `db:"user_id"`
	Kind         string    `db:"kind"`
	FromAddress  string    `db:"from_address"`
	ToAddress    string    `db:"to_address"`
	Subject      string    `db:"subject"`
	ProviderHost string    `db:"provider_host"`
	Status       string    `db:"status"`
	MessageID    *string   `db:"message_id"`
	Error        *string   `db:"error"`
	CreatedAt    time.Time `db:"created_at"`
}

// DeliveryError classifies an SMTP failure as EAUTH, ECONNECTION or ESEND.
type DeliveryError struct {
	Class string
	Err   error
}

func (e *DeliveryError) Error() string {
	return e.Class + ": " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
