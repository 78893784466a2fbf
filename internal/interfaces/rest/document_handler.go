package rest

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/application/services"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/errors"
)

// multipartOverhead is allowed on top of the file limit for boundaries and headers.
const multipartOverhead = 1 << 20

// DocumentService defines the interface for document text extraction
type DocumentService interface {
	Extract(ctx context.Context, fileName, declared string, r io.Reader) (*services.DocumentResult, error)
}

// DocumentHandler handles document upload endpoints
type DocumentHandler struct {
	svc      DocumentService
	maxBytes int64
	logger   *zap.Logger
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(svc DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, maxBytes: constants.MaxUploadBytes, logger: logger}
}

// Extract handles POST /api/extract-document
func (h *DocumentHandler) Extract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile(constants.FormFieldFile)
	if err != nil && !isTooLarge(err) {
		header, err = c.FormFile(constants.FormFieldDocument)
	}
	if err != nil {
		if isTooLarge(err) {
			RespondAppError(c, h.logger, errors.NewPayloadTooLargeError(services.MsgFileTooLarge))
			return
		}
		RespondAppError(c, h.logger, errors.NewValidationError(constants.FormFieldFile, "No file uploaded"))
		return
	}
	if header.Size > h.maxBytes {
		RespondAppError(c, h.logger, errors.NewPayloadTooLargeError(services.MsgFileTooLarge))
		return
	}

	f, err := header.Open()
	if err != nil {
		RespondAppError(c, h.logger, errors.NewInternalError("Failed to read uploaded file", err))
		return
	}
	defer f.Close()

	result, err := h.svc.Extract(c.Request.Context(), header.Filename, header.Header.Get(constants.HeaderContentType), f)
	if err != nil {
		RespondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		constants.ResponseSuccess: true,
		"text":                    result.Text,
		"fileName":                result.FileName,
		"mimeType":                result.MimeType,
		"characters":              result.Characters,
		"words":                   result.Words,
	})
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr)
}
