package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a structured error response from the payments processor.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payments error %s: %s", e.Code, e.Message)
}

func decodeAPIError(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("payments request failed with status %d", resp.StatusCode)
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Code == "" {
		return fmt.Errorf("payments request failed with status %d: %s", resp.StatusCode, string(data))
	}
	return apiErr
}

func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}
