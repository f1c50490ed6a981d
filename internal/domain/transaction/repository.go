package transaction

import (
	"context"
	"errors"
)

// ErrDuplicateTransaction is returned by Create when a row with the same
// fingerprint already exists. Callers treat it as success-no-op, not a failure.
var ErrDuplicateTransaction = errors.New("duplicate transaction")

// Repository defines the ledger store contract.
// The store MUST enforce fingerprint uniqueness at the storage level; the
// engine's existence check before insert is only a fast path, two concurrent
// ingestions of the same external transaction both attempt the insert and the
// unique constraint guarantees at most one surviving row.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*LedgerTransaction, error)
	FindByFingerprint(ctx context.Context, fingerprint string) (*LedgerTransaction, error)
	// ListSenderDebits returns rows where the bank is the sender and the type
	// is debit, newest first.
	ListSenderDebits(ctx context.Context, bankID string) ([]*LedgerTransaction, error)
	// ListReceiverCredits returns rows where the bank is the receiver and the
	// type is credit, newest first.
	ListReceiverCredits(ctx context.Context, bankID string) ([]*LedgerTransaction, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]*LedgerTransaction, error)
}
