package errors

const (
	HttpInternalError     = "internal_error"
	HttpViewNotFoundError = "view_not_found"
	HttpInvalidOrderError = "invalid_order"
	HttpExportError       = "export_failed"
)

// ErrorResponse is the error response body for report endpoints.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
