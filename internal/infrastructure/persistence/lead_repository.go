package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/ports"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
)

var leadColumns = []string{
	constants.FieldID,
	constants.FieldUserID,
	constants.FieldBotID,
	constants.FieldLeadCallID,
	constants.FieldLeadPhoneNumber,
	constants.FieldLeadName,
	constants.FieldLeadEmail,
	constants.FieldStatus,
	constants.FieldLeadScore,
	constants.FieldLeadSource,
	constants.FieldLeadNotes,
	constants.FieldLeadLastContactedAt,
	constants.FieldCreatedAt,
	constants.FieldUpdatedAt,
}

// LeadRepository handles database operations for leads
type LeadRepository struct {
	tx *TransactionManager
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(tx *TransactionManager) *LeadRepository {
	return &LeadRepository{tx: tx}
}

// Upsert loads the lead matching key under a row lock, hands it to mutate and
// writes the result in the same transaction. mutate receives nil when no lead
// matches; returning nil skips the write.
//
// The row lock only serialises updates of an existing lead. Two concurrent
// first inserts for the same key are prevented by the caller's ports.Locker.
func (r *LeadRepository) Upsert(ctx context.Context, key ports.LeadKey, mutate ports.LeadMutation) (*models.Lead, bool, error) {
	var (
		result  *models.Lead
		created bool
	)

	err := r.tx.WithRetry(ctx, func(tx *sqlx.Tx) error {
		existing, err := r.findForUpdate(ctx, tx, key)
		if err != nil {
			return err
		}

		next, err := mutate(existing)
		if err != nil {
			return err
		}
		if next == nil {
			result = existing
			return nil
		}

		if existing == nil {
			created = true
			err = r.insert(ctx, tx, next)
		} else {
			next.ID = existing.ID
			err = r.update(ctx, tx, next)
		}
		result = next
		return err
	}, 3)
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (r *LeadRepository) findForUpdate(ctx context.Context, tx *sqlx.Tx, key ports.LeadKey) (*models.Lead, error) {
	var (
		where []string
		args  []interface{}
	)

	if key.UserID == "" {
		where = append(where, constants.FieldUserID+" IS NULL")
	} else {
		where = append(where, constants.FieldUserID+" = ?")
		args = append(args, key.UserID)
	}

	switch {
	case key.Phone != "":
		where = append(where, constants.FieldLeadPhoneNumber+" = ?")
		args = append(args, key.Phone)
	case key.Email != "":
		where = append(where, "LOWER("+constants.FieldLeadEmail+") = ?")
		args = append(args, strings.ToLower(key.Email))
	default:
		return nil, fmt.Errorf("lead key needs a phone number or email")
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s ASC LIMIT 1 FOR UPDATE",
		strings.Join(leadColumns, ", "), constants.TableLeads,
		strings.Join(where, " AND "), constants.FieldCreatedAt)

	var lead models.Lead
	if err := tx.GetContext(ctx, &lead, tx.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load lead: %w", err)
	}
	return &lead, nil
}

func (r *LeadRepository) insert(ctx context.Context, tx *sqlx.Tx, lead *models.Lead) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(leadColumns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		constants.TableLeads, strings.Join(leadColumns, ", "), placeholders)

	_, err := tx.ExecContext(ctx, tx.Rebind(query),
		lead.ID, lead.UserID, lead.BotID, lead.CallID, lead.PhoneNumber, lead.Name, lead.Email,
		lead.Status, lead.Score, lead.Source, lead.Notes, lead.LastContactedAt, lead.CreatedAt, lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) update(ctx context.Context, tx *sqlx.Tx, lead *models.Lead) error {
	query := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?",
		constants.TableLeads,
		constants.FieldBotID,
		constants.FieldLeadCallID,
		constants.FieldLeadPhoneNumber,
		constants.FieldLeadName,
		constants.FieldLeadEmail,
		constants.FieldStatus,
		constants.FieldLeadScore,
		constants.FieldLeadNotes,
		constants.FieldLeadLastContactedAt,
		constants.FieldUpdatedAt,
		constants.FieldID)

	_, err := tx.ExecContext(ctx, tx.Rebind(query),
		lead.BotID, lead.CallID, lead.PhoneNumber, lead.Name, lead.Email, lead.Status, lead.Score,
		lead.Notes, lead.LastContactedAt, lead.UpdatedAt, lead.ID)
	if err != nil {
		return fmt.Errorf("failed to update lead %s: %w", lead.ID, err)
	}
	return nil
}
