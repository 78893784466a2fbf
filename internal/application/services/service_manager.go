package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/ports"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/database"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/llm"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/persistence"
)

// Dependencies are the infrastructure adapters the services run on.
type Dependencies struct {
	DB     *database.Connection
	LLM    llm.Client // nil disables analysis
	Locker ports.Locker
	Mailer ports.Mailer
	Logger *zap.Logger
}

// ServiceManager orchestrates all services with dependency injection
type ServiceManager struct {
	db *database.Connection

	Analysis  *AnalysisService
	Leads     *LeadService
	Email     *EmailService
	Documents *DocumentService
	Scheduler *SchedulerService
}

// NewServiceManager creates a new service manager with all dependencies wired
func NewServiceManager(cfg *config.Config, deps Dependencies) (*ServiceManager, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	classifier, err := NewLeadClassifier(cfg.LeadRules, logger.Named("leads"))
	if err != nil {
		return nil, fmt.Errorf("failed to compile lead rules: %w", err)
	}
	templates, err := NewTemplateRenderer(cfg.SMTP.FromName)
	if err != nil {
		return nil, err
	}

	txManager := persistence.NewTransactionManager(deps.DB)
	callRepo := persistence.NewCallRepository(deps.DB)
	leadRepo := persistence.NewLeadRepository(txManager)
	emailLogRepo := persistence.NewEmailLogRepository(deps.DB)

	sm := &ServiceManager{db: deps.DB}

	// Initialize services in dependency order
	sm.Leads = NewLeadService(leadRepo, deps.Locker, logger.Named("leads"))
	sm.Analysis = NewAnalysisService(callRepo, deps.LLM, classifier, sm.Leads, logger.Named("analysis"))
	sm.Email = NewEmailService(
		deps.Mailer,
		emailLogRepo,
		NewProviderTable(cfg.Providers),
		templates,
		sm.Leads,
		cfg.SMTP,
		logger.Named("email"),
	)
	sm.Documents = NewDocumentService(logger.Named("documents"))
	sm.Scheduler = NewSchedulerService(sm.Analysis, cfg.Sweep, logger.Named("scheduler"))

	return sm, nil
}

// DB returns the shared connection, used by readiness checks.
func (sm *ServiceManager) DB() *database.Connection {
	return sm.db
}
