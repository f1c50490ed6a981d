package transaction

import (
	"testing"
)

func TestMapCategory_KnownCodes(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"FOOD_AND_DRINK", "Food and Drink"},
		{"TRAVEL", "Travel"},
		{"TRANSFER_IN", "Transfer"},
		{"TRANSFER_OUT", "Transfer"},
		{"BANK_FEES", "Bank Fees"},
		{"GENERAL_MERCHANDISE", "Shopping"},
		{"LOAN_PAYMENTS", "Payment"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := MapCategory(tt.code); got != tt.want {
				t.Errorf("MapCategory(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestMapCategory_UnknownFallsBack(t *testing.T) {
	for _, code := range []string{"SOMETHING_NEW", "garbage", "123"} {
		if got := MapCategory(code); got != FallbackCategory {
			t.Errorf("MapCategory(%q) = %q, want %q", code, got, FallbackCategory)
		}
	}
}

func TestMapCategory_EmptyFallsBack(t *testing.T) {
	if got := MapCategory(""); got != FallbackCategory {
		t.Errorf("MapCategory(\"\") = %q, want %q", got, FallbackCategory)
	}
}

func TestMapCategory_CaseAndWhitespaceInsensitive(t *testing.T) {
	if got := MapCategory(" food_and_drink "); got != "Food and Drink" {
		t.Errorf("MapCategory with lowercase/whitespace = %q, want %q", got, "Food and Drink")
	}
}
