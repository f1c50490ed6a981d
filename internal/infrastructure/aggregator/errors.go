package aggregator

import (
	"errors"
	"fmt"
)

// Error codes the application reacts to. Any other code is treated as a
// generic provider failure.
const (
	errCodeAdditionalConsent = "ADDITIONAL_CONSENT_REQUIRED"
	errCodeItemLoginRequired = "ITEM_LOGIN_REQUIRED"
)

// APIError is a structured error response from the aggregation API.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorType  string `json:"error_type"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"error_message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aggregator error %s (%s): %s", e.ErrorCode, e.ErrorType, e.Message)
}

// IsConsentRevoked reports whether err indicates the user must re-authorize
// the link before further syncs can succeed.
func IsConsentRevoked(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode == errCodeAdditionalConsent || apiErr.ErrorCode == errCodeItemLoginRequired
}
