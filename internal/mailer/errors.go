package mailer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the mailer API. Message carries the
// server's error string; Errors carries the field-keyed validation map that
// 422 responses include.
type APIError struct {
	Status  int                 `json:"-"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error (status %d)", e.Status)
}

// IsUnauthorized reports whether this is an authorization failure.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// IsValidation reports whether this is a validation failure with field errors.
func (e *APIError) IsValidation() bool {
	return e.Status == http.StatusUnprocessableEntity
}

// FieldErrors flattens the validation error map into one line per field,
// "email: The email field is required." Order is not specified.
func (e *APIError) FieldErrors() []string {
	var out []string
	for field, msgs := range e.Errors {
		for _, msg := range msgs {
			out = append(out, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	return out
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseAPIError builds an APIError from a non-2xx response body. Bodies that
// are not the standard envelope (proxies, panics) degrade to the raw text.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
		if len(body) > 0 && len(body) <= 512 {
			apiErr.Message = string(body)
		}
	}
	return apiErr
}
