package constants

// Call sentiment values
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Call status values the relay reads
const (
	CallStatusCompleted = "completed"
)

// Lead status values
const (
	LeadStatusNew       = "new"
	LeadStatusCold      = "cold"
	LeadStatusWarm      = "warm"
	LeadStatusHot       = "hot"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// IsTerminalLeadStatus reports whether a status is set by a human and must
// not be overwritten by automated analysis.
func IsTerminalLeadStatus(status string) bool {
	return status == LeadStatusConverted || status == LeadStatusLost
}

// Lead sources
const (
	LeadSourceCallAnalysis = "call_analysis"
	LeadSourceLandingPage  = "landing_page"
)

// Email kinds recorded in email_logs
const (
	EmailKindContact = "contact"
	EmailKindUser    = "user"
	EmailKindCustom  = "custom"
	EmailKindSystem  = "system"
)

// Email delivery status
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// SMTP error classes
const (
	SMTPErrAuth       = "EAUTH"
	SMTPErrConnection = "ECONNECTION"
	SMTPErrSend       = "ESEND"
)
