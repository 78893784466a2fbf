package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the base interface for all application errors
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// NotFoundError represents a resource that was not found
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Code() string {
	return "NOT_FOUND"
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents invalid input.
// Message is returned to clients verbatim, so it is written as a sentence.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

func (e *ValidationError) Code() string {
	return "VALIDATION_ERROR"
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UnauthorizedError represents authentication failures
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unauthorized: %s", e.Reason)
	}
	return "unauthorized"
}

func (e *UnauthorizedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

func (e *UnauthorizedError) Code() string {
	return "UNAUTHORIZED"
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

// PayloadTooLargeError is returned when an upload exceeds its size limit
type PayloadTooLargeError struct {
	Message string
}

func (e *PayloadTooLargeError) Error() string {
	return e.Message
}

func (e *PayloadTooLargeError) HTTPStatus() int {
	return http.StatusRequestEntityTooLarge
}

func (e *PayloadTooLargeError) Code() string {
	return "PAYLOAD_TOO_LARGE"
}

// NewPayloadTooLargeError creates a new PayloadTooLargeError
func NewPayloadTooLargeError(message string) *PayloadTooLargeError {
	return &PayloadTooLargeError{Message: message}
}

// UnsupportedMediaError is returned for uploads of a type we cannot handle
type UnsupportedMediaError struct {
	MimeType string
	Message  string
}

func (e *UnsupportedMediaError) Error() string {
	return e.Message
}

func (e *UnsupportedMediaError) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

func (e *UnsupportedMediaError) Code() string {
	return "UNSUPPORTED_MEDIA_TYPE"
}

// NewUnsupportedMediaError creates a new UnsupportedMediaError
func NewUnsupportedMediaError(mimeType, message string) *UnsupportedMediaError {
	return &UnsupportedMediaError{MimeType: mimeType, Message: message}
}

// UnprocessableError represents well-formed input that cannot be acted on
type UnprocessableError struct {
	Message string
}

func (e *UnprocessableError) Error() string {
	return e.Message
}

func (e *UnprocessableError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

func (e *UnprocessableError) Code() string {
	return "UNPROCESSABLE"
}

// NewUnprocessableError creates a new UnprocessableError
func NewUnprocessableError(message string) *UnprocessableError {
	return &UnprocessableError{Message: message}
}

// RateLimitError is returned when a client exceeds its request budget
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) HTTPStatus() int {
	return http.StatusTooManyRequests
}

func (e *RateLimitError) Code() string {
	return "RATE_LIMITED"
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(message string) *RateLimitError {
	return &RateLimitError{Message: message}
}

// UpstreamError represents a failure of a third-party collaborator
// (LLM provider, SMTP server). Status and ErrCode are chosen by the caller
// so that e.g. SMTP authentication failures surface as EAUTH.
type UpstreamError struct {
	Status  int
	ErrCode string
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadGateway
	}
	return e.Status
}

func (e *UpstreamError) Code() string {
	if e.ErrCode == "" {
		return "UPSTREAM_ERROR"
	}
	return e.ErrCode
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(status int, code, message string, cause error) *UpstreamError {
	return &UpstreamError{Status: status, ErrCode: code, Message: message, Cause: cause}
}

// InternalError represents unexpected server errors
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s (caused by: %v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

func (e *InternalError) Code() string {
	return "INTERNAL_ERROR"
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{Message: message, Cause: cause}
}

// Helper functions for error checking

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

// GetHTTPStatus returns the HTTP status code for an error
// Returns 500 if the error doesn't implement AppError
func GetHTTPStatus(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error
// Returns "UNKNOWN_ERROR" if the error doesn't implement AppError
func GetErrorCode(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "UNKNOWN_ERROR"
}

// PublicMessage returns the text safe to show a client.
// Internal errors are collapsed so database details never leave the process.
func PublicMessage(err error) string {
	var internal *InternalError
	if errors.As(err, &internal) {
		return internal.Message
	}
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return "Internal server error"
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// ToResponse converts an error to an ErrorResponse
func ToResponse(err error) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   PublicMessage(err),
		Code:    GetErrorCode(err),
	}
}
