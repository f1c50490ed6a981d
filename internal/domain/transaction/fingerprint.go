package transaction

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Fingerprint derives the stable dedup key for a transaction from its semantic
// attributes. It is deterministic: identical inputs always produce the same
// digest, which is what makes re-ingestion idempotent.
//
// The amount is canonicalized to a fixed two-decimal representation before
// hashing so 42 and 42.00 fingerprint identically. Missing fields are passed
// as empty strings rather than failing; a weaker fingerprint is preferable to
// a fatal error during ingestion.
func Fingerprint(amount float64, date, merchant, userID, senderBankID string) string {
	parts := []string{
		canonicalAmount(amount),
		strings.TrimSpace(date),
		strings.ToLower(strings.TrimSpace(merchant)),
		strings.TrimSpace(userID),
		strings.TrimSpace(senderBankID),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// canonicalAmount renders the amount with exactly two decimal places.
// decimal avoids float formatting surprises for values like 0.1+0.2.
func canonicalAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
