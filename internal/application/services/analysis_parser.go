package services

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/utils"
)

var errInvalidAnalysis = errors.New("model output is not a JSON object")

var nullishNames = map[string]bool{
	"":             true,
	"unknown":      true,
	"n/a":          true,
	"na":           true,
	"none":         true,
	"null":         true,
	"nil":          true,
	"not provided": true,
	"not stated":   true,
	"caller":       true,
	"customer":     true,
}

// parseAnalysis reads the model's answer leniently and coerces every field
// into range. Only a missing or non-object body is an error.
func parseAnalysis(raw string) (*models.CallAnalysis, error) {
	body := jsonBody(raw)
	if body == "" || !gjson.Valid(body) {
		return nil, errInvalidAnalysis
	}
	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return nil, errInvalidAnalysis
	}

	a := &models.CallAnalysis{
		Summary:           strings.TrimSpace(doc.Get("summary").String()),
		Sentiment:         normalizeSentiment(doc.Get("sentiment").String()),
		LeadScore:         clampScore(doc.Get("lead_score")),
		Intent:            utils.TruncateRunes(strings.TrimSpace(doc.Get("intent").String()), 200),
		CustomerName:      cleanName(doc.Get("customer_name")),
		CustomerEmail:     cleanEmail(doc.Get("customer_email")),
		KeyPoints:         stringList(doc.Get("key_points")),
		NextSteps:         stringList(doc.Get("next_steps")),
		AppointmentBooked: truthy(doc.Get("appointment_booked")),
		FollowUpRequired:  truthy(doc.Get("follow_up_required")),
	}
	if a.Summary == "" {
		a.Summary = constants.DefaultSummary
	}
	return a, nil
}

// jsonBody strips Markdown code fences and any prose around the outermost object.
func jsonBody(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

func normalizeSentiment(s string) string {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case constants.SentimentPositive, constants.SentimentNeutral, constants.SentimentNegative:
		return v
	default:
		return constants.SentimentNeutral
	}
}

func clampScore(v gjson.Result) int {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func cleanName(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	name := strings.TrimSpace(v.Str)
	if nullishNames[strings.ToLower(name)] {
		return ""
	}
	return utils.TruncateRunes(name, 120)
}

func cleanEmail(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(v.Str))
	if !utils.IsValidEmail(email) {
		return ""
	}
	return email
}

func stringList(v gjson.Result) []string {
	out := []string{}
	add := func(s string) bool {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
		return len(out) < constants.MaxAnalysisListItems
	}

	switch {
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			if item.Type != gjson.String {
				return true
			}
			return add(item.Str)
		})
	case v.Type == gjson.String:
		add(v.Str)
	}
	return out
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.String:
		s := strings.ToLower(strings.TrimSpace(v.Str))
		return s == "true" || s == "yes"
	}
	return false
}
