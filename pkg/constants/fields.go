package constants

// Column names - the snake_case names used in storage and SQL.
const (
	// Shared
	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldBotID     = "bot_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldStatus    = "status"

	// Calls
	FieldCallPhoneNumber     = "phone_number"
	FieldCallDirection       = "direction"
	FieldCallTranscript      = "transcript"
	FieldCallDurationSeconds = "duration_seconds"
	FieldCallSummary         = "summary"
	FieldCallSentiment       = "sentiment"
	FieldCallLeadScore       = "lead_score"
	FieldCallIntent          = "intent"
	FieldCallAnalysis        = "analysis"
	FieldCallAnalyzedAt      = "analyzed_at"

	// Leads
	FieldLeadCallID          = "call_id"
	FieldLeadPhoneNumber     = "phone_number"
	FieldLeadName            = "name"
	FieldLeadEmail           = "email"
	FieldLeadScore           = "score"
	FieldLeadSource          = "source"
	FieldLeadNotes           = "notes"
	FieldLeadLastContactedAt = "last_contacted_at"

	// Email logs
	FieldEmailKind         = "kind"
	FieldEmailFromAddress  = "from_address"
	FieldEmailToAddress    = "to_address"
	FieldEmailSubject      = "subject"
	FieldEmailProviderHost = "provider_host"
	FieldEmailMessageID    = "message_id"
	FieldEmailError        = "error"
)
