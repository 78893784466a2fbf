package persistence

import (
	"context"
	"fmt"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/database"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
)

// EmailLogRepository records outbound email attempts
type EmailLogRepository struct {
	db *database.Connection
}

// NewEmailLogRepository creates a new EmailLogRepository
func NewEmailLogRepository(db *database.Connection) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

// Insert stores one delivery attempt.
func (r *EmailLogRepository) Insert(ctx context.Context, entry *models.EmailLog) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		constants.TableEmailLogs,
		constants.FieldID,
		constants.FieldUserID,
		constants.FieldEmailKind,
		constants.FieldEmailFromAddress,
		constants.FieldEmailToAddress,
		constants.FieldEmailSubject,
		constants.FieldEmailProviderHost,
		constants.FieldStatus,
		constants.FieldEmailMessageID,
		constants.FieldEmailError,
		constants.FieldCreatedAt)

	_, err := r.db.DB().ExecContext(ctx, r.db.Rebind(query),
		entry.ID, entry.UserID, entry.Kind, entry.FromAddress, entry.ToAddress, entry.Subject,
		entry.ProviderHost, entry.Status, entry.MessageID, entry.Error, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert email log: %w", err)
	}
	return nil
}
