package constants

// HTTP and API constants
const (
	// Content types
	ContentTypeJSON = "application/json"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Auth
	BearerPrefix = "Bearer "

	// Response Keys
	ResponseError     = "error"
	ResponseSuccess   = "success"
	ResponseCode      = "code"
	ResponseAnalysis  = "analysis"
	ResponseMessageID = "messageId"
)

// Context Keys
const (
	ContextKeyUser      = "user"
	ContextKeyToken     = "token"
	ContextKeyRequestID = "request_id"
)

// Upload form fields
const (
	FormFieldFile     = "file"
	FormFieldDocument = "document"
)

// MIME types accepted by document extraction
const (
	MimePDF      = "application/pdf"
	MimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC      = "application/msword"
	MimeOLE      = "application/x-ole-storage"
	MimeText     = "text/plain"
	MimeTextUTF8 = "text/plain; charset=utf-8"
)
