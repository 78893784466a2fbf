package models

import "time"

// Call is one voice-agent call as stored by the dashboard.
// Analysis columns stay NULL until the transcript has been analyzed.
type Call struct {
	ID              string     `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"userId"`
	BotID           *string    `db:"bot_id" json:"botId,omitempty"`
	PhoneNumber     *string    `db:"phone_number" json:"phoneNumber,omitempty"`
	Direction       *string    `db:"direction" json:"direction,omitempty"`
	Status          *string    `db:"status" json:"status,omitempty"`
	Transcript      *string    `db:"transcript" json:"transcript,omitempty"`
	DurationSeconds *int       `db:"duration_seconds" json:"durationSeconds,omitempty"`
	Summary         *string    `db:"summary" json:"summary,omitempty"`
	Sentiment       *string    `db:"sentiment" json:"sentiment,omitempty"`
	LeadScore       *int       `db:"lead_score" json:"leadScore,omitempty"`
	Intent          *string    `db:"intent" json:"intent,omitempty"`
	AnalyzedAt      *time.Time `db:"analyzed_at" json:"analyzedAt,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
}

// TranscriptText returns the transcript or "".
func (c *Call) TranscriptText() string {
	if c.Transcript == nil {
		return ""
	}
	return *c.Transcript
}

// Phone returns the counterpart phone number or "".
func (c *Call) Phone() string {
	if c.PhoneNumber == nil {
		return ""
	}
	return *c.PhoneNumber
}
