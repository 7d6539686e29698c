package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidDateError     = "invalid_date_format"
	HttpIncompleteRangeError = "incomplete_range"
	HttpInvalidRangeError    = "invalid_range"
	HttpUnauthorizedError    = "unauthorized"
	HttpMisconfiguredError   = "server_misconfigured"
	HttpQueryError           = "query_failed"
)

// ErrorResponse is the shared JSON error body for all endpoints.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
