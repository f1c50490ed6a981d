package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/transaction"
	"horizon/internal/infrastructure/aggregator"
)

// Status summarizes how a reconciliation cycle went. The caller always gets
// a best-effort ledger alongside it.
type Status string

const (
	StatusComplete        Status = "complete"
	StatusError           Status = "error"
	StatusConsentRequired Status = "consent_required"
)

// Result is the outcome of reconciling one bank account.
type Result struct {
	Status       Status
	Transactions []*transaction.LedgerTransaction
	Errors       []string
	// AccessToken is set with StatusConsentRequired so the caller can start
	// re-authorization without loading the link again.
	AccessToken string
}

// CursorStore records sync progress for a bank link.
type CursorStore interface {
	UpdateSyncCursor(ctx context.Context, id, cursor string) error
}

// Engine produces the authoritative, time-ordered transaction list for one
// bank account: it ingests newly-synced external transactions exactly once,
// folds in transfer legs where the account is sender or receiver, and sorts
// the merged ledger by date descending.
type Engine struct {
	transactions transaction.Repository
	cursors      CursorStore
	walker       *Walker
}

func NewEngine(repo transaction.Repository, cursors CursorStore, walker *Walker) *Engine {
	return &Engine{
		transactions: repo,
		cursors:      cursors,
		walker:       walker,
	}
}

// Reconcile never fails outright: provider and persistence problems degrade
// the Status and are collected in Errors, and whatever ledger could be
// assembled is returned.
func (e *Engine) Reconcile(ctx context.Context, link *bank.BankLink) *Result {
	result := &Result{Status: StatusComplete}

	walk, err := e.walker.Walk(ctx, link.AccessToken, link.SyncCursor)
	switch {
	case errors.Is(err, ErrConsentRequired):
		result.Status = StatusConsentRequired
		result.AccessToken = link.AccessToken
		log.Printf("consent required for bank link %s", link.ID)
	case err != nil:
		result.Status = StatusError
		result.Errors = append(result.Errors, fmt.Sprintf("sync failed: %v", err))
		log.Printf("sync failed for bank link %s: %v", link.ID, err)
		walk = &WalkResult{}
	}

	ingested := e.ingest(ctx, link, walk.Transactions, result)

	merged := make([]*transaction.LedgerTransaction, 0, len(ingested))
	seen := make(map[string]bool)
	appendUnique := func(txs []*transaction.LedgerTransaction) {
		for _, tx := range txs {
			if tx == nil || seen[tx.ID] {
				continue
			}
			seen[tx.ID] = true
			merged = append(merged, tx)
		}
	}
	appendUnique(ingested)

	// Transfer legs plus previously persisted external rows. A row could
	// theoretically satisfy both predicates; the ID set keeps it single.
	debits, err := e.transactions.ListSenderDebits(ctx, link.ID)
	if err != nil {
		e.recordFailure(result, fmt.Sprintf("failed to list debits: %v", err))
	}
	credits, err := e.transactions.ListReceiverCredits(ctx, link.ID)
	if err != nil {
		e.recordFailure(result, fmt.Sprintf("failed to list credits: %v", err))
	}
	appendUnique(debits)
	appendUnique(credits)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	result.Transactions = merged

	// The cursor only advances after a fully completed walk, so an aborted
	// cycle re-fetches the same window next time and idempotent ingestion
	// absorbs the repeats.
	if result.Status == StatusComplete && walk.NextCursor != "" && walk.NextCursor != link.SyncCursor {
		if err := e.cursors.UpdateSyncCursor(ctx, link.ID, walk.NextCursor); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to persist cursor: %v", err))
			log.Printf("failed to persist cursor for bank link %s: %v", link.ID, err)
		}
	}

	return result
}

// ingest persists each external transaction at most once, keyed by
// fingerprint. Failures are per-transaction: a bad row is logged and skipped,
// the rest of the batch continues.
func (e *Engine) ingest(ctx context.Context, link *bank.BankLink, externals []aggregator.ExternalTransaction, result *Result) []*transaction.LedgerTransaction {
	ledger := make([]*transaction.LedgerTransaction, 0, len(externals))

	for _, ext := range externals {
		fp := transaction.Fingerprint(ext.Amount, ext.Date, ext.MerchantName, link.UserID, link.ID)

		existing, err := e.transactions.FindByFingerprint(ctx, fp)
		if err != nil {
			e.recordFailure(result, fmt.Sprintf("fingerprint lookup failed for %s: %v", ext.TransactionID, err))
			continue
		}
		if existing != nil {
			ledger = append(ledger, existing)
			continue
		}

		params, err := buildCreateParams(link, ext, fp)
		if err != nil {
			e.recordFailure(result, fmt.Sprintf("skipping %s: %v", ext.TransactionID, err))
			continue
		}

		created, err := e.transactions.Create(ctx, params)
		if errors.Is(err, transaction.ErrDuplicateTransaction) {
			// A concurrent ingestion won the insert race. Not an error.
			created, err = e.transactions.FindByFingerprint(ctx, fp)
		}
		if err != nil {
			e.recordFailure(result, fmt.Sprintf("failed to persist %s: %v", ext.TransactionID, err))
			continue
		}
		if created != nil {
			ledger = append(ledger, created)
		}
	}

	return ledger
}

func (e *Engine) recordFailure(result *Result, msg string) {
	if result.Status == StatusComplete {
		result.Status = StatusError
	}
	result.Errors = append(result.Errors, msg)
	log.Printf("reconcile: %s", msg)
}

func buildCreateParams(link *bank.BankLink, ext aggregator.ExternalTransaction, fp string) (transaction.CreateParams, error) {
	date, err := time.Parse("2006-01-02", ext.Date)
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("unparseable date %q: %w", ext.Date, err)
	}

	direction := transaction.DirectionFromAmount(ext.Amount)
	params := transaction.CreateParams{
		Name:                    ext.Name,
		Amount:                  math.Abs(ext.Amount),
		Type:                    direction,
		UserID:                  link.UserID,
		Category:                transaction.MapCategory(ext.Category.Primary),
		Channel:                 ext.PaymentChannel,
		Date:                    date,
		Merchant:                optional(ext.MerchantName),
		LogoURL:                 optional(ext.LogoURL),
		Website:                 optional(ext.Website),
		AggregatorTransactionID: optional(ext.TransactionID),
		Fingerprint:             fp,
	}

	// Exactly one side references the owning bank for external rows.
	bankID := link.ID
	if direction == transaction.Debit {
		params.SenderBankID = &bankID
	} else {
		params.ReceiverBankID = &bankID
	}

	return params, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
