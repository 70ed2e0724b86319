package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"

	FieldAttempt   = "attempt"
	FieldExtractor = "extractor"
	FieldRows      = "rows"
	FieldDropped   = "dropped"
	FieldAdded     = "added"
	FieldTotal     = "total"
	FieldWindow    = "window"
	FieldMode      = "mode"
	FieldPath      = "path"
	FieldBackend   = "backend"
	FieldTaskType  = "task-type"
)
