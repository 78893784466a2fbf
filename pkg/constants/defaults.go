package constants

// Limits and defaults for relay operations
const (
	MaxUploadBytes        = 50 << 20
	MaxTranscriptChars    = 48000
	MaxAnalysisListItems  = 10
	MaxLeadNotesChars     = 4000
	MaxEmailRecipients    = 50
	MinPhoneDigits        = 7
	DefaultSummary        = "No summary available"
	DefaultLLMTemperature = 0.2
	DefaultLLMMaxTokens   = 1200
)
