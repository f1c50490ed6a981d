package aggregator

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsConsentRevoked(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "additional consent required",
			err:  &APIError{StatusCode: 400, ErrorType: "ITEM_ERROR", ErrorCode: "ADDITIONAL_CONSENT_REQUIRED", Message: "consent expired"},
			want: true,
		},
		{
			name: "item login required",
			err:  &APIError{StatusCode: 400, ErrorType: "ITEM_ERROR", ErrorCode: "ITEM_LOGIN_REQUIRED", Message: "login required"},
			want: true,
		},
		{
			name: "wrapped consent error",
			err:  fmt.Errorf("syncing: %w", &APIError{ErrorCode: "ITEM_LOGIN_REQUIRED"}),
			want: true,
		},
		{
			name: "unrelated api error",
			err:  &APIError{StatusCode: 429, ErrorType: "RATE_LIMIT_EXCEEDED", ErrorCode: "TRANSACTIONS_LIMIT", Message: "slow down"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConsentRevoked(tt.err); got != tt.want {
				t.Errorf("IsConsentRevoked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 400, ErrorType: "ITEM_ERROR", ErrorCode: "ITEM_LOGIN_REQUIRED", Message: "the login details have changed"}
	want := "aggregator error ITEM_LOGIN_REQUIRED (ITEM_ERROR): the login details have changed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
