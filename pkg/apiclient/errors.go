package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error codes the API reports in the "message" field of its problem bodies.
const (
	ErrorCodeValidation   = "error.validation"
	ErrorCodeEmailUsed    = "error.emailexists"
	ErrorCodeLoginUsed    = "error.userexists"
	ErrorCodeIDExists     = "error.idexists"
	ErrorCodeUnauthorized = "error.http.401"
	ErrorCodeForbidden    = "error.http.403"
	ErrorCodeNotFound     = "error.http.404"
	ErrorCodeServerError  = "error.http.500"
)

// APIError is a non-2xx answer from the API, normalized from whatever
// shape the server sent.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"status"`

	// Code is a stable machine-readable code, e.g. "error.validation" or
	// "error.http.401".
	Code string `json:"message"`

	// Message is the human-readable description.
	Message string `json:"detail"`

	// AlertKey is the translation key the server put in its
	// X-<app>-error header, if any.
	AlertKey string `json:"-"`

	// FieldErrors lists per-field validation failures.
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

// FieldError is one failed field of a validation problem.
type FieldError struct {
	ObjectName string `json:"objectName"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// problemResponse is the RFC 7807 style body the API returns on errors.
type problemResponse struct {
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Status      int          `json:"status"`
	Detail      string       `json:"detail"`
	Message     string       `json:"message"`
	FieldErrors []FieldError `json:"fieldErrors"`
}

// parseErrorResponse turns a non-2xx response into an *APIError.
// Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       fmt.Sprintf("error.http.%d", resp.StatusCode),
		Message:    fmt.Sprintf("Request failed with status code %d", resp.StatusCode),
		AlertKey:   headerWithSuffix(resp.Header, "-error"),
	}

	var problem problemResponse
	if err := json.Unmarshal(body, &problem); err == nil {
		if problem.Message != "" {
			apiErr.Code = problem.Message
		}
		switch {
		case problem.Detail != "":
			apiErr.Message = problem.Detail
		case problem.Title != "":
			apiErr.Message = problem.Title
		}
		apiErr.FieldErrors = problem.FieldErrors
	}

	return apiErr
}

// headerWithSuffix returns the first value of a header whose lowercase name
// ends in suffix. The API prefixes its alert headers with the application
// name, so only the suffix is stable.
func headerWithSuffix(h http.Header, suffix string) string {
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "x-") && strings.HasSuffix(lower, suffix) {
			return values[0]
		}
	}
	return ""
}
