package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/ports"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/metrics"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/utils"
)

// LeadService creates and refreshes leads from analyzed calls and
// landing-page submissions.
type LeadService struct {
	leads  ports.LeadRepository
	locker ports.Locker
	logger *zap.Logger
	now    func() time.Time
}

// NewLeadService creates a new LeadService
func NewLeadService(leads ports.LeadRepository, locker ports.Locker, logger *zap.Logger) *LeadService {
	return &LeadService{
		leads:  leads,
		locker: locker,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// UpsertFromAnalysis records the caller of an analyzed call as a lead.
// Calls without a usable phone number are skipped and return nil.
func (s *LeadService) UpsertFromAnalysis(ctx context.Context, call *models.Call, analysis *models.CallAnalysis) (*models.Lead, error) {
	phone := utils.NormalizePhone(call.Phone())
	if utils.CountDigits(phone) < constants.MinPhoneDigits {
		metrics.RecordLeadUpsert(constants.LeadSourceCallAnalysis, "skipped")
		return nil, nil
	}

	key := ports.LeadKey{UserID: call.UserID, Phone: phone}
	now := s.now()
	note := datedNote(now, analysis.Summary)

	lead, created, err := s.upsert(ctx, key, func(existing *models.Lead) (*models.Lead, error) {
		if existing == nil {
			return &models.Lead{
				ID:              utils.GenerateID(),
				UserID:          optional(call.UserID),
				BotID:           call.BotID,
				CallID:          optional(call.ID),
				PhoneNumber:     optional(phone),
				Name:            optional(analysis.CustomerName),
				Email:           optional(analysis.CustomerEmail),
				Status:          analysis.LeadStatus,
				Score:           analysis.LeadScore,
				Source:          constants.LeadSourceCallAnalysis,
				Notes:           optional(note),
				LastContactedAt: &now,
				CreatedAt:       now,
				UpdatedAt:       now,
			}, nil
		}

		next := *existing
		if call.BotID != nil {
			next.BotID = call.BotID
		}
		next.CallID = optional(call.ID)
		next.PhoneNumber = optional(phone)
		if analysis.CustomerName != "" {
			next.Name = optional(analysis.CustomerName)
		}
		if analysis.CustomerEmail != "" {
			next.Email = optional(analysis.CustomerEmail)
		}
		if !constants.IsTerminalLeadStatus(existing.Status) {
			next.Status = analysis.LeadStatus
		}
		next.Score = analysis.LeadScore
		next.Notes = prependNote(existing.Notes, note)
		next.LastContactedAt = &now
		next.UpdatedAt = now
		return &next, nil
	})
	if err != nil {
		metrics.RecordLeadUpsert(constants.LeadSourceCallAnalysis, "error")
		return nil, err
	}

	metrics.RecordLeadUpsert(constants.LeadSourceCallAnalysis, upsertResult(created))
	s.logger.Info("lead upserted from call",
		zap.String("lead_id", lead.ID),
		zap.String("call_id", call.ID),
		zap.String("status", lead.Status),
		zap.Bool("created", created))
	return lead, nil
}

// CaptureLandingPage stores a contact-form submitter as a tenant-less lead.
// The phone number is the key when usable, otherwise the email address.
func (s *LeadService) CaptureLandingPage(ctx context.Context, sub models.LandingPageSubmission) (*models.Lead, error) {
	phone := utils.NormalizePhone(sub.Phone)
	if utils.CountDigits(phone) < constants.MinPhoneDigits {
		phone = ""
	}
	email := strings.ToLower(strings.TrimSpace(sub.Email))
	if !utils.IsValidEmail(email) {
		email = ""
	}
	if phone == "" && email == "" {
		metrics.RecordLeadUpsert(constants.LeadSourceLandingPage, "skipped")
		return nil, nil
	}

	key := ports.LeadKey{Phone: phone, Email: email}
	now := s.now()
	note := datedNote(now, landingPageNote(sub))
	name := strings.TrimSpace(sub.Name)

	lead, created, err := s.upsert(ctx, key, func(existing *models.Lead) (*models.Lead, error) {
		if existing == nil {
			return &models.Lead{
				ID:              utils.GenerateID(),
				PhoneNumber:     optional(phone),
				Name:            optional(name),
				Email:           optional(email),
				Status:          constants.LeadStatusNew,
				Source:          constants.LeadSourceLandingPage,
				Notes:           optional(note),
				LastContactedAt: &now,
				CreatedAt:       now,
				UpdatedAt:       now,
			}, nil
		}

		next := *existing
		if name != "" {
			next.Name = optional(name)
		}
		if email != "" {
			next.Email = optional(email)
		}
		if phone != "" {
			next.PhoneNumber = optional(phone)
		}
		next.Notes = prependNote(existing.Notes, note)
		next.LastContactedAt = &now
		next.UpdatedAt = now
		return &next, nil
	})
	if err != nil {
		metrics.RecordLeadUpsert(constants.LeadSourceLandingPage, "error")
		return nil, err
	}

	metrics.RecordLeadUpsert(constants.LeadSourceLandingPage, upsertResult(created))
	return lead, nil
}

// upsert holds the per-key lock around the repository transaction. The lock
// covers the first insert, which no row lock can.
func (s *LeadService) upsert(ctx context.Context, key ports.LeadKey, mutate ports.LeadMutation) (*models.Lead, bool, error) {
	lockKey := "lead:" + key.UserID + ":" + key.Phone
	if key.Phone == "" {
		lockKey = "lead:" + key.UserID + ":email:" + key.Email
	}

	unlock, err := s.locker.Lock(ctx, lockKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock lead: %w", err)
	}
	defer unlock()

	return s.leads.Upsert(ctx, key, mutate)
}

func upsertResult(created bool) string {
	if created {
		return "created"
	}
	return "updated"
}

func datedNote(at time.Time, text string) string {
	text = strings.TrimSpace(text)
	if text == "" || text == constants.DefaultSummary {
		return ""
	}
	return "[" + at.Format("2006-01-02") + "] " + text
}

// prependNote puts note above the existing notes, newest first, and bounds
// the result to MaxLeadNotesChars.
func prependNote(existing *string, note string) *string {
	if note == "" {
		return existing
	}
	combined := note
	if existing != nil && strings.TrimSpace(*existing) != "" {
		combined = note + "\n\n" + *existing
	}
	combined = utils.TruncateRunes(combined, constants.MaxLeadNotesChars)
	return &combined
}

func landingPageNote(sub models.LandingPageSubmission) string {
	var parts []string
	if c := strings.TrimSpace(sub.Company); c != "" {
		parts = append(parts, "Company: "+c)
	}
	if m := strings.TrimSpace(sub.Message); m != "" {
		parts = append(parts, m)
	}
	return strings.Join(parts, "\n")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
