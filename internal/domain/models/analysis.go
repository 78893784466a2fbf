package models

import "time"

// CallAnalysis is the validated, structured result of analyzing a transcript.
type CallAnalysis struct {
	Summary           string   `json:"summary"`
	Sentiment         string   `json:"sentiment"`
	LeadScore         int      `json:"lead_score"`
	LeadStatus        string   `json:"lead_status"`
	Intent            string   `json:"intent"`
	CustomerName      string   `json:"customer_name,omitempty"`
	CustomerEmail     string   `json:"customer_email,omitempty"`
	KeyPoints         []string `json:"key_points"`
	NextSteps         []string `json:"next_steps"`
	AppointmentBooked bool     `json:"appointment_booked"`
	FollowUpRequired  bool     `json:"follow_up_required"`
	Model             string   `json:"model,omitempty"`
}

// RuleEnv exposes the analysis to lead classification rules.
func (a *CallAnalysis) RuleEnv() map[string]interface{} {
	return map[string]interface{}{
		"lead_score":         a.LeadScore,
		"sentiment":          a.Sentiment,
		"intent":             a.Intent,
		"appointment_booked": a.AppointmentBooked,
		"follow_up_required": a.FollowUpRequired,
		"has_email":          a.CustomerEmail != "",
		"has_name":           a.CustomerName != "",
	}
}

// CallAnalysisUpdate holds the analysis columns written back to a call.
type CallAnalysisUpdate struct {
	Summary    string
	Sentiment  string
	LeadScore  int
	Intent     string
	Analysis   string // JSON document
	AnalyzedAt time.Time
}
