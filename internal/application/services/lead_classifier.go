package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/expression"
)

// DefaultLeadRules is used when no lead_rules overlay is configured.
var DefaultLeadRules = []config.LeadRuleConfig{
	{Status: constants.LeadStatusQualified, When: "appointment_booked"},
	{Status: constants.LeadStatusHot, When: "lead_score >= 70"},
	{Status: constants.LeadStatusWarm, When: "lead_score >= 40"},
	{Status: constants.LeadStatusCold, When: "true"},
}

// LeadClassifier maps an analysis to a lead status using ordered rules.
// The first rule whose predicate holds wins.
type LeadClassifier struct {
	engine *expression.Engine
	rules  []config.LeadRuleConfig
	logger *zap.Logger
}

// NewLeadClassifier compiles every rule. An empty rule set means DefaultLeadRules.
func NewLeadClassifier(rules []config.LeadRuleConfig, logger *zap.Logger) (*LeadClassifier, error) {
	if len(rules) == 0 {
		rules = DefaultLeadRules
	}

	engine := expression.NewEngine()
	sample := (&models.CallAnalysis{}).RuleEnv()
	for i, r := range rules {
		if err := engine.CompileBool(r.When, sample); err != nil {
			return nil, fmt.Errorf("lead rule %d (%s): %w", i, r.Status, err)
		}
	}

	return &LeadClassifier{engine: engine, rules: rules, logger: logger}, nil
}

// Classify returns the status of the first matching rule, or cold.
func (c *LeadClassifier) Classify(a *models.CallAnalysis) string {
	env := a.RuleEnv()
	for _, r := range c.rules {
		ok, err := c.engine.EvaluateBool(r.When, env)
		if err != nil {
			c.logger.Warn("lead rule failed, skipping",
				zap.String("status", r.Status),
				zap.String("when", r.When),
				zap.Error(err))
			continue
		}
		if ok {
			return r.Status
		}
	}
	return constants.LeadStatusCold
}
