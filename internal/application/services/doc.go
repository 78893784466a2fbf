// Package services provides the business logic layer of the relay.
//
// This package contains:
//   - Call transcript analysis and the scheduled sweep (AnalysisService, SchedulerService)
//   - Lead upsert and rule-based classification (LeadService, LeadClassifier)
//   - SMTP relay with provider resolution and templates (EmailService)
//   - Document text extraction (DocumentService)
//
// Services receive their collaborators through constructors and depend on
// the ports interfaces, so they are tested with in-memory fakes.
package services
