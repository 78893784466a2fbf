package ports

import (
	"context"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
)

// CallRepository reads calls and stores their analysis.
type CallRepository interface {
	GetByID(ctx context.Context, id string) (*models.Call, error)
	SaveAnalysis(ctx context.Context, id string, update models.CallAnalysisUpdate) error
	ListUnanalyzed(ctx context.Context, limit int) ([]models.Call, error)
}

// LeadKey identifies a lead within a tenant. Phone wins over Email when both are set.
// An empty UserID addresses tenant-less leads (landing-page submissions).
type LeadKey struct {
	UserID string
	Phone  string
	Email  string
}

// LeadMutation computes the lead to write from the current row (nil when absent).
// Returning a nil lead skips the write.
type LeadMutation func(existing *models.Lead) (*models.Lead, error)

// LeadRepository upserts leads atomically.
type LeadRepository interface {
	Upsert(ctx context.Context, key LeadKey, mutate LeadMutation) (lead *models.Lead, created bool, err error)
}

// EmailLogRepository records outbound email attempts.
type EmailLogRepository interface {
	Insert(ctx context.Context, entry *models.EmailLog) error
}
