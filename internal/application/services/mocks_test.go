package services

import (
	"context"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/ports"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/llm"
)

type MockCallRepository struct {
	mock.Mock
}

func (m *MockCallRepository) GetByID(ctx context.Context, id string) (*models.Call, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Call), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCallRepository) SaveAnalysis(ctx context.Context, id string, update models.CallAnalysisUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

func (m *MockCallRepository) ListUnanalyzed(ctx context.Context, limit int) ([]models.Call, error) {
	args := m.Called(ctx, limit)
	if c := args.Get(0); c != nil {
		return c.([]models.Call), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	args := m.Called(ctx, req)
	if c := args.Get(0); c != nil {
		return c.(*llm.Completion), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLLM) Provider() string { return "mock" }

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Verify(ctx context.Context, settings models.SMTPSettings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *MockMailer) Send(ctx context.Context, settings models.SMTPSettings, msg *models.EmailMessage) (string, error) {
	args := m.Called(ctx, settings, msg)
	return args.String(0), args.Error(1)
}

// fakeLeadRepository keeps leads in memory with the repository's upsert contract.
type fakeLeadRepository struct {
	mu    sync.Mutex
	leads []*models.Lead
	err   error
}

func (f *fakeLeadRepository) Upsert(ctx context.Context, key ports.LeadKey, mutate ports.LeadMutation) (*models.Lead, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}

	idx := -1
	for i, l := range f.leads {
		userID := ""
		if l.UserID != nil {
			userID = *l.UserID
		}
		if userID != key.UserID {
			continue
		}
		if key.Phone != "" && l.PhoneNumber != nil && *l.PhoneNumber == key.Phone {
			idx = i
			break
		}
		if key.Phone == "" && key.Email != "" && l.Email != nil && strings.EqualFold(*l.Email, key.Email) {
			idx = i
			break
		}
	}

	var existing *models.Lead
	if idx >= 0 {
		cp := *f.leads[idx]
		existing = &cp
	}
	next, err := mutate(existing)
	if err != nil {
		return nil, false, err
	}
	if next == nil {
		return existing, false, nil
	}
	if idx >= 0 {
		next.ID = f.leads[idx].ID
		f.leads[idx] = next
		return next, false, nil
	}
	f.leads = append(f.leads, next)
	return next, true, nil
}

type fakeEmailLogs struct {
	mu      sync.Mutex
	entries []*models.EmailLog
}

func (f *fakeEmailLogs) Insert(ctx context.Context, entry *models.EmailLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}
