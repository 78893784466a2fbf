package services

import (
	"strings"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/utils"
)

const defaultSMTPPort = 587

// DefaultSMTPProviders maps well-known mailbox domains to their submission servers.
var DefaultSMTPProviders = []config.ProviderConfig{
	{Domains: []string{"gmail.com", "googlemail.com"}, Host: "smtp.gmail.com", Port: 587},
	{Domains: []string{"outlook.com", "hotmail.com", "live.com"}, Host: "smtp-mail.outlook.com", Port: 587},
	{Domains: []string{"yahoo.com"}, Host: "smtp.mail.yahoo.com", Port: 465, SSL: true},
}

// ProviderTable resolves a sender address to SMTP settings.
type ProviderTable struct {
	byDomain map[string]config.ProviderConfig
}

// NewProviderTable indexes providers by domain. An empty list means DefaultSMTPProviders.
func NewProviderTable(providers []config.ProviderConfig) *ProviderTable {
	if len(providers) == 0 {
		providers = DefaultSMTPProviders
	}
	t := &ProviderTable{byDomain: make(map[string]config.ProviderConfig)}
	for _, p := range providers {
		for _, d := range p.Domains {
			t.byDomain[strings.ToLower(strings.TrimSpace(d))] = p
		}
	}
	return t
}

// Resolve returns connection settings for the sender's domain. Unknown
// domains fall back to smtp.<domain>:587 with STARTTLS.
func (t *ProviderTable) Resolve(sender string) models.SMTPSettings {
	domain := utils.EmailDomain(sender)
	if p, ok := t.byDomain[domain]; ok {
		return models.SMTPSettings{Host: p.Host, Port: p.Port, SSL: p.SSL}
	}
	return models.SMTPSettings{Host: "smtp." + domain, Port: defaultSMTPPort}
}
