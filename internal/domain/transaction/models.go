package transaction

import (
	"time"
)

// Direction classifies a ledger transaction relative to the owning account.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// DirectionFromAmount normalizes a signed aggregator amount into a direction:
// negative amounts are debits, non-negative amounts are credits.
func DirectionFromAmount(amount float64) Direction {
	if amount < 0 {
		return Debit
	}
	return Credit
}

// LedgerTransaction is a persisted row in the per-user ledger.
// Rows are immutable once created; there is no update or delete path.
type LedgerTransaction struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Amount         float64   `json:"amount"` // always positive; Type carries the sign
	Type           Direction `json:"type"`
	SenderBankID   *string   `json:"senderBankId,omitempty"`
	ReceiverBankID *string   `json:"receiverBankId,omitempty"`
	UserID         string    `json:"userId"`
	Category       string    `json:"category"`
	Channel        string    `json:"channel"`
	Date           time.Time `json:"date"`
	Merchant       *string   `json:"merchant,omitempty"`
	LogoURL        *string   `json:"logoUrl,omitempty"`
	Website        *string   `json:"website,omitempty"`
	// AggregatorTransactionID is the provider's transaction id for
	// externally-sourced rows; nil for internal transfers.
	AggregatorTransactionID *string   `json:"aggregatorTransactionId,omitempty"`
	Fingerprint             string    `json:"fingerprint"`
	CreatedAt               time.Time `json:"createdAt"`
}

// CreateParams holds the fields needed to persist a new ledger transaction.
type CreateParams struct {
	Name                    string
	Amount                  float64
	Type                    Direction
	SenderBankID            *string
	ReceiverBankID          *string
	UserID                  string
	Category                string
	Channel                 string
	Date                    time.Time
	Merchant                *string
	LogoURL                 *string
	Website                 *string
	AggregatorTransactionID *string
	Fingerprint             string
}
