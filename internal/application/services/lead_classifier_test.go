package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
)

func TestLeadClassifier_DefaultRules(t *testing.T) {
	c, err := NewLeadClassifier(nil, zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		name     string
		analysis models.CallAnalysis
		want     string
	}{
		{"appointment wins over score", models.CallAnalysis{LeadScore: 10, AppointmentBooked: true}, constants.LeadStatusQualified},
		{"hot", models.CallAnalysis{LeadScore: 70}, constants.LeadStatusHot},
		{"warm lower bound", models.CallAnalysis{LeadScore: 40}, constants.LeadStatusWarm},
		{"warm", models.CallAnalysis{LeadScore: 69}, constants.LeadStatusWarm},
		{"cold", models.CallAnalysis{LeadScore: 39}, constants.LeadStatusCold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(&tt.analysis))
		})
	}
}

func TestLeadClassifier_CustomRules(t *testing.T) {
	c, err := NewLeadClassifier([]config.LeadRuleConfig{
		{Status: constants.LeadStatusHot, When: `sentiment == "positive" && follow_up_required`},
		{Status: constants.LeadStatusWarm, When: `CONTAINS(intent, "pricing")`},
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, constants.LeadStatusHot, c.Classify(&models.CallAnalysis{Sentiment: "positive", FollowUpRequired: true}))
	assert.Equal(t, constants.LeadStatusWarm, c.Classify(&models.CallAnalysis{Intent: "Asked about Pricing"}))
	assert.Equal(t, constants.LeadStatusCold, c.Classify(&models.CallAnalysis{}), "no match falls back to cold")
}

func TestLeadClassifier_InvalidRuleFailsConstruction(t *testing.T) {
	_, err := NewLeadClassifier([]config.LeadRuleConfig{
		{Status: constants.LeadStatusHot, When: "lead_score >>= 3"},
	}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewLeadClassifier([]config.LeadRuleConfig{
		{Status: constants.LeadStatusHot, When: "unknown_field > 3"},
	}, zap.NewNop())
	assert.Error(t, err)
}
