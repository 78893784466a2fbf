package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/metrics"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	apperrors "github.com/awaisdevofficial/inbound2-sub001/pkg/errors"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/extract"
)

const (
	MsgFileTooLarge    = "File too large. Maximum size is 50MB"
	msgUnsupportedType = "Unsupported file type. Allowed: PDF, DOCX, DOC, TXT"
	msgNoText          = "No text could be extracted from the document"
	msgExtractFailed   = "Failed to extract text from the document"
)

// DocumentResult is the text extracted from one upload.
type DocumentResult struct {
	Text       string `json:"text"`
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	Characters int    `json:"characters"`
	Words      int    `json:"words"`
}

// DocumentService extracts text from uploaded knowledge-base documents.
type DocumentService struct {
	maxBytes int64
	logger   *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(logger *zap.Logger) *DocumentService {
	return &DocumentService{maxBytes: constants.MaxUploadBytes, logger: logger}
}

// Extract reads r fully (bounded by the upload limit) and returns its text.
// declared is the client's Content-Type, which may be empty or generic.
func (s *DocumentService) Extract(ctx context.Context, fileName, declared string, r io.Reader) (*DocumentResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to read upload", err)
	}
	if int64(len(data)) > s.maxBytes {
		metrics.RecordExtraction("unknown", "too_large")
		return nil, apperrors.NewPayloadTooLargeError(MsgFileTooLarge)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind, err := extract.Detect(data, declared)
	if err != nil {
		metrics.RecordExtraction("unknown", "unsupported")
		return nil, apperrors.NewUnsupportedMediaError(declared, msgUnsupportedType)
	}

	start := time.Now()
	res, err := extract.ExtractKind(kind, data)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) {
			metrics.RecordExtraction(string(kind), "empty")
			return nil, apperrors.NewUnprocessableError(msgNoText)
		}
		metrics.RecordExtraction(string(kind), "error")
		s.logger.Warn("document extraction failed",
			zap.String("file", fileName),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, apperrors.NewUnprocessableError(msgExtractFailed)
	}

	metrics.RecordExtraction(string(kind), "success")
	s.logger.Info("document extracted",
		zap.String("file", fileName),
		zap.String("kind", string(kind)),
		zap.Int("bytes", len(data)),
		zap.Int("characters", res.Characters),
		zap.Duration("elapsed", time.Since(start)))

	return &DocumentResult{
		Text:       res.Text,
		FileName:   filepath.Base(fileName),
		MimeType:   res.MimeType,
		Characters: res.Characters,
		Words:      res.Words,
	}, nil
}

// ExtractFile extracts a local file, typing it by extension before sniffing.
func (s *DocumentService) ExtractFile(ctx context.Context, path string, f io.Reader) (*DocumentResult, error) {
	res, err := s.Extract(ctx, path, mime.TypeByExtension(filepath.Ext(path)), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
