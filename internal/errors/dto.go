package errors

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the hint shown to staff, the sentinel code and any
// details the error was built WithReportableDetails.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Display string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
