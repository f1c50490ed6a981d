// Package ledger contains the ingestion pipeline: walking the aggregator's
// paginated transaction deltas, reconciling them into the persisted ledger,
// and aggregating linked accounts into a portfolio view.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"horizon/internal/infrastructure/aggregator"
)

// ErrConsentRequired signals that the aggregator refused the credential for
// insufficient authorization scope. Callers prompt the user to re-link
// instead of retrying.
var ErrConsentRequired = errors.New("consent required")

// maxSyncPages is a guard against a provider that never reports page
// exhaustion. Normal walks finish well under this.
const maxSyncPages = 50

// WalkResult is the accumulated output of one complete or partial walk.
type WalkResult struct {
	Transactions []aggregator.ExternalTransaction
	// NextCursor is the cursor after the last successfully fetched page.
	// Only safe to persist when the walk completed without error.
	NextCursor string
}

// Walker drives the aggregator's delta endpoint until it reports no more
// pages, folding modified and removed entries into the accumulated batch.
type Walker struct {
	client   aggregator.ClientInterface
	maxPages int
}

func NewWalker(client aggregator.ClientInterface) *Walker {
	return &Walker{client: client, maxPages: maxSyncPages}
}

// Walk fetches all pending transaction deltas starting from cursor. An empty
// cursor walks from the start of history.
//
// Within a single walk: added entries accumulate in page order, a modified
// entry overwrites an already-accumulated entry with the same transaction id
// (entries referring to rows persisted in earlier walks are skipped, the
// ledger is append-only), and removed entries are excluded from the result
// even when a page earlier in the same walk added them.
//
// On a consent rejection Walk returns what it accumulated so far together
// with ErrConsentRequired. Any other provider failure aborts the walk.
func (w *Walker) Walk(ctx context.Context, accessToken, cursor string) (*WalkResult, error) {
	var accumulated []aggregator.ExternalTransaction
	index := make(map[string]int) // transaction id -> position in accumulated
	removed := make(map[string]bool)

	for page := 0; ; page++ {
		if page >= w.maxPages {
			return nil, fmt.Errorf("sync exceeded %d pages without exhaustion", w.maxPages)
		}

		resp, err := w.client.SyncTransactions(ctx, accessToken, cursor)
		if err != nil {
			if aggregator.IsConsentRevoked(err) {
				result := &WalkResult{Transactions: prune(accumulated, removed)}
				return result, ErrConsentRequired
			}
			return nil, fmt.Errorf("failed to sync transactions: %w", err)
		}

		for _, tx := range resp.Added {
			if i, ok := index[tx.TransactionID]; ok {
				accumulated[i] = tx
				continue
			}
			index[tx.TransactionID] = len(accumulated)
			accumulated = append(accumulated, tx)
		}

		for _, tx := range resp.Modified {
			if i, ok := index[tx.TransactionID]; ok {
				accumulated[i] = tx
			}
		}

		for _, rm := range resp.Removed {
			removed[rm.TransactionID] = true
		}

		cursor = resp.NextCursor
		if !resp.HasMore {
			break
		}
	}

	return &WalkResult{
		Transactions: prune(accumulated, removed),
		NextCursor:   cursor,
	}, nil
}

func prune(transactions []aggregator.ExternalTransaction, removed map[string]bool) []aggregator.ExternalTransaction {
	if len(removed) == 0 {
		return transactions
	}
	kept := transactions[:0]
	for _, tx := range transactions {
		if !removed[tx.TransactionID] {
			kept = append(kept, tx)
		}
	}
	return kept
}
