package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/ports"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/llm"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/metrics"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	apperrors "github.com/awaisdevofficial/inbound2-sub001/pkg/errors"
)

// AnalysisService turns call transcripts into structured analysis and leads.
type AnalysisService struct {
	calls      ports.CallRepository
	llm        llm.Client
	classifier *LeadClassifier
	leads      *LeadService
	logger     *zap.Logger
	now        func() time.Time
}

// NewAnalysisService creates a new AnalysisService. client may be nil, in
// which case every analysis reports the model as unconfigured.
func NewAnalysisService(calls ports.CallRepository, client llm.Client, classifier *LeadClassifier, leads *LeadService, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		calls:      calls,
		llm:        client,
		classifier: classifier,
		leads:      leads,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// AnalyzeCall analyzes one call's transcript, stores the result on the call
// and refreshes the caller's lead. A nil user means a system caller that may
// read any tenant's calls.
func (s *AnalysisService) AnalyzeCall(ctx context.Context, callID string, user *auth.UserSession) (*models.CallAnalysis, error) {
	callID = strings.TrimSpace(callID)
	if callID == "" {
		return nil, apperrors.NewValidationError("callId", "callId is required")
	}
	if s.llm == nil {
		metrics.RecordAnalysis("unconfigured")
		return nil, apperrors.NewUpstreamError(http.StatusServiceUnavailable, "LLM_NOT_CONFIGURED", "AI analysis is not configured", nil)
	}

	call, err := s.calls.GetByID(ctx, callID)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load call", err)
	}
	if call == nil || (user != nil && call.UserID != user.ID) {
		metrics.RecordAnalysis("not_found")
		return nil, apperrors.NewNotFoundError("Call", callID)
	}

	transcript := call.TranscriptText()
	if strings.TrimSpace(transcript) == "" {
		metrics.RecordAnalysis("no_transcript")
		return nil, apperrors.NewUnprocessableError("Call has no transcript to analyze")
	}

	start := time.Now()
	completion, err := s.llm.Complete(ctx, llm.CompletionRequest{
		System:      analysisSystemPrompt,
		Prompt:      buildAnalysisPrompt(transcript),
		JSON:        true,
		Temperature: constants.DefaultLLMTemperature,
		MaxTokens:   constants.DefaultLLMMaxTokens,
	})
	metrics.ObserveLLM(s.llm.Provider(), err == nil, time.Since(start))
	if err != nil {
		metrics.RecordAnalysis("llm_error")
		s.logger.Error("llm completion failed", zap.String("call_id", callID), zap.Error(err))
		return nil, apperrors.NewUpstreamError(http.StatusBadGateway, "LLM_ERROR", "Failed to analyze call: "+err.Error(), err)
	}

	analysis, err := parseAnalysis(completion.Text)
	if err != nil {
		metrics.RecordAnalysis("invalid_output")
		s.logger.Warn("llm returned unparseable analysis",
			zap.String("call_id", callID),
			zap.Int("length", len(completion.Text)))
		return nil, apperrors.NewUpstreamError(http.StatusBadGateway, "LLM_INVALID_OUTPUT", "AI returned an invalid analysis", err)
	}
	analysis.Model = completion.Model
	analysis.LeadStatus = s.classifier.Classify(analysis)

	doc, err := json.Marshal(analysis)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to encode analysis", err)
	}

	if err := s.calls.SaveAnalysis(ctx, call.ID, models.CallAnalysisUpdate{
		Summary:    analysis.Summary,
		Sentiment:  analysis.Sentiment,
		LeadScore:  analysis.LeadScore,
		Intent:     analysis.Intent,
		Analysis:   string(doc),
		AnalyzedAt: s.now(),
	}); err != nil {
		metrics.RecordAnalysis("save_error")
		return nil, apperrors.NewInternalError("Failed to save analysis", err)
	}

	// Lead bookkeeping never fails the analysis
	if s.leads != nil {
		if _, err := s.leads.UpsertFromAnalysis(ctx, call, analysis); err != nil {
			s.logger.Warn("lead upsert failed",
				zap.String("call_id", call.ID),
				zap.Error(err))
		}
	}

	metrics.RecordAnalysis("success")
	s.logger.Info("call analyzed",
		zap.String("call_id", call.ID),
		zap.String("sentiment", analysis.Sentiment),
		zap.Int("lead_score", analysis.LeadScore),
		zap.String("lead_status", analysis.LeadStatus),
		zap.Int("total_tokens", completion.Usage.TotalTokens))
	return analysis, nil
}

// SweepResult counts the outcome of one sweep.
type SweepResult struct {
	Found    int
	Analyzed int
	Failed   int
}

// SweepPending analyzes up to batch completed calls that have a transcript but
// no analysis, at most concurrency at a time.
func (s *AnalysisService) SweepPending(ctx context.Context, batch, concurrency int) (SweepResult, error) {
	calls, err := s.calls.ListUnanalyzed(ctx, batch)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list unanalyzed calls: %w", err)
	}

	if concurrency < 1 {
		concurrency = 1
	}

	var analyzed, failed int32
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i := range calls {
		callID := calls[i].ID
		g.Go(func() error {
			if ctx.Err() != nil {
				atomic.AddInt32(&failed, 1)
				return nil
			}
			if _, err := s.AnalyzeCall(ctx, callID, nil); err != nil {
				atomic.AddInt32(&failed, 1)
				s.logger.Warn("sweep analysis failed", zap.String("call_id", callID), zap.Error(err))
				return nil
			}
			atomic.AddInt32(&analyzed, 1)
			return nil
		})
	}
	_ = g.Wait()

	return SweepResult{
		Found:    len(calls),
		Analyzed: int(analyzed),
		Failed:   int(failed),
	}, ctx.Err()
}
