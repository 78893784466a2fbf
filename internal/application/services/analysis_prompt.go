package services

import (
	"strings"

	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/utils"
)

const analysisSystemPrompt = `You analyze phone call transcripts between an AI voice agent and a caller for a sales team.
Respond with a single JSON object and nothing else. Use exactly these keys:
{
  "summary": string, two to four sentences describing the call,
  "sentiment": "positive" | "neutral" | "negative", the caller's overall sentiment,
  "lead_score": integer 0-100, how likely the caller is to become a customer,
  "intent": string, the caller's main goal in a few words,
  "customer_name": string or null, only if the caller stated it,
  "customer_email": string or null, only if the caller stated it,
  "key_points": array of short strings,
  "next_steps": array of short strings,
  "appointment_booked": boolean, true only if a meeting or appointment was confirmed,
  "follow_up_required": boolean
}
Do not invent names, emails or facts that are not in the transcript.`

// buildAnalysisPrompt wraps the transcript for the user turn, keeping the
// head when it exceeds MaxTranscriptChars.
func buildAnalysisPrompt(transcript string) string {
	transcript = strings.TrimSpace(transcript)
	truncated := utils.TruncateRunes(transcript, constants.MaxTranscriptChars)

	var b strings.Builder
	b.WriteString("Analyze this call transcript.\n")
	if len(truncated) < len(transcript) {
		b.WriteString("The transcript was truncated; analyze the available part.\n")
	}
	b.WriteString("\nTRANSCRIPT:\n")
	b.WriteString(truncated)
	return b.String()
}
