package models

import "time"

// Lead is a customer contact derived from call analysis or a landing-page form.
type Lead struct {
	ID              string     `db:"id" json:"id"`
	UserID          *string    `db:"user_id" json:"userId,omitempty"`
	BotID           *string    `db:"bot_id" json:"botId,omitempty"`
	CallID          *string    `db:"call_id" json:"callId,omitempty"`
	PhoneNumber     *string    `db:"phone_number" json:"phoneNumber,omitempty"`
	Name            *string    `db:"name" json:"name,omitempty"`
	Email           *string    `db:"email" json:"email,omitempty"`
	Status          string     `db:"status" json:"status"`
	Score           int        `db:"score" json:"score"`
	Source          string     `db:"source" json:"source"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	LastContactedAt *time.Time `db:"last_contacted_at" json:"lastContactedAt,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// LandingPageSubmission is a contact form posted from the public site.
type LandingPageSubmission struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Message string
}
