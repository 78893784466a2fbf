package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/database"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
)

var callColumns = "id, user_id, bot_id, phone_number, direction, status, transcript, duration_seconds, " +
	"summary, sentiment, lead_score, intent, analyzed_at, created_at"

// CallRepository handles database operations for calls
type CallRepository struct {
	db *database.Connection
}

// NewCallRepository creates a new CallRepository
func NewCallRepository(db *database.Connection) *CallRepository {
	return &CallRepository{db: db}
}

// GetByID returns the call or nil when it does not exist.
func (r *CallRepository) GetByID(ctx context.Context, id string) (*models.Call, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1", callColumns, constants.TableCalls, constants.FieldID)

	var call models.Call
	if err := r.db.DB().GetContext(ctx, &call, r.db.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load call %s: %w", id, err)
	}
	return &call, nil
}

// SaveAnalysis writes the analysis columns of a call.
func (r *CallRepository) SaveAnalysis(ctx context.Context, id string, u models.CallAnalysisUpdate) error {
	query := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?",
		constants.TableCalls,
		constants.FieldCallSummary,
		constants.FieldCallSentiment,
		constants.FieldCallLeadScore,
		constants.FieldCallIntent,
		constants.FieldCallAnalysis,
		constants.FieldCallAnalyzedAt,
		constants.FieldID)

	res, err := r.db.DB().ExecContext(ctx, r.db.Rebind(query),
		u.Summary, u.Sentiment, u.LeadScore, u.Intent, u.Analysis, u.AnalyzedAt, id)
	if err != nil {
		return fmt.Errorf("failed to save analysis for call %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to save analysis for call %s: no rows updated", id)
	}
	return nil
}

// ListUnanalyzed returns completed calls with a transcript and no analysis, oldest first.
func (r *CallRepository) ListUnanalyzed(ctx context.Context, limit int) ([]models.Call, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ? AND %s IS NULL AND %s IS NOT NULL AND %s <> '' ORDER BY %s ASC LIMIT ?",
		callColumns, constants.TableCalls,
		constants.FieldStatus,
		constants.FieldCallAnalyzedAt,
		constants.FieldCallTranscript,
		constants.FieldCallTranscript,
		constants.FieldCreatedAt)

	var calls []models.Call
	if err := r.db.DB().SelectContext(ctx, &calls, r.db.Rebind(query), constants.CallStatusCompleted, limit); err != nil {
		return nil, fmt.Errorf("failed to list unanalyzed calls: %w", err)
	}
	return calls, nil
}
