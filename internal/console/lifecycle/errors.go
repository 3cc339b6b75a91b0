package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/console/pkg/apiclient"
)

// Codes assigned to failures that do not come from the API.
const (
	CodeCanceled = "error.canceled"
	CodeTimeout  = "error.timeout"
	CodePanic    = "error.panic"
)

// ErrPanicked wraps a panic recovered from an operation.
var ErrPanicked = errors.New("lifecycle: operation panicked")

// SerializedError is the stable failure shape every slice sees, whatever
// the transport produced.
type SerializedError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *SerializedError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Serialize normalizes err. A nil err yields nil. Timeouts, including an
// expired http.Client.Timeout, get CodeTimeout.
func Serialize(err error) *SerializedError {
	if err == nil {
		return nil
	}

	var se *SerializedError
	if errors.As(err, &se) {
		return &SerializedError{Message: se.Message, Code: se.Code}
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return &SerializedError{Message: apiErr.Message, Code: apiErr.Code}
	}

	var timeout interface{ Timeout() bool }
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &timeout) && timeout.Timeout():
		return &SerializedError{Message: err.Error(), Code: CodeTimeout}
	case errors.Is(err, context.Canceled):
		return &SerializedError{Message: err.Error(), Code: CodeCanceled}
	case errors.Is(err, ErrPanicked):
		return &SerializedError{Message: err.Error(), Code: CodePanic}
	}

	return &SerializedError{Message: err.Error()}
}
