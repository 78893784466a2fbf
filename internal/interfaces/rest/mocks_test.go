package rest_test

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/awaisdevofficial/inbound2-sub001/internal/application/services"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockAnalysisService is a mock implementation of the AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) AnalyzeCall(ctx context.Context, callID string, user *auth.UserSession) (*models.CallAnalysis, error) {
	args := m.Called(ctx, callID, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CallAnalysis), args.Error(1)
}

// MockEmailService is a mock implementation of the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) result(args mock.Arguments) (*services.SendResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SendResult), args.Error(1)
}

func (m *MockEmailService) SendUserEmail(ctx context.Context, req services.SendEmailRequest, user *auth.UserSession) (*services.SendResult, error) {
	return m.result(m.Called(ctx, req, user))
}

func (m *MockEmailService) SendCustomEmail(ctx context.Context, req services.CustomEmailRequest, user *auth.UserSession) (*services.SendResult, error) {
	return m.result(m.Called(ctx, req, user))
}

func (m *MockEmailService) SendSystemEmail(ctx context.Context, req services.SystemEmailRequest, user *auth.UserSession) (*services.SendResult, error) {
	return m.result(m.Called(ctx, req, user))
}

func (m *MockEmailService) SendContact(ctx context.Context, req services.ContactRequest) (*services.SendResult, error) {
	return m.result(m.Called(ctx, req))
}

// MockDocumentService is a mock implementation of the DocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Extract(ctx context.Context, fileName, declared string, r io.Reader) (*services.DocumentResult, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, fileName, declared, string(data))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DocumentResult), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}
