package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"horizon/internal/domain/transaction"
)

const uniqueViolation = "23505"

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, name, amount, type, sender_bank_id, receiver_bank_id, user_id,
	       category, channel, transaction_date, merchant_name, logo_url, website,
	       aggregator_transaction_id, fingerprint, created_at`

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.LedgerTransaction, error) {
	query := `
		INSERT INTO transactions (id, name, amount, type, sender_bank_id, receiver_bank_id, user_id,
		                          category, channel, transaction_date, merchant_name, logo_url, website,
		                          aggregator_transaction_id, fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + transactionColumns

	tx := transaction.LedgerTransaction{}
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.New().String(), params.Name, params.Amount, params.Type,
		params.SenderBankID, params.ReceiverBankID, params.UserID,
		params.Category, params.Channel, params.Date,
		params.Merchant, params.LogoURL, params.Website,
		params.AggregatorTransactionID, params.Fingerprint,
	).Scan(scanTargets(&tx)...)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, transaction.ErrDuplicateTransaction
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &tx, nil
}

func (r *TransactionRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*transaction.LedgerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE fingerprint = $1
	`

	tx := transaction.LedgerTransaction{}
	err := r.db.QueryRowContext(ctx, query, fingerprint).Scan(scanTargets(&tx)...)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by fingerprint: %w", err)
	}

	return &tx, nil
}

func (r *TransactionRepository) ListSenderDebits(ctx context.Context, bankID string) ([]*transaction.LedgerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE sender_bank_id = $1 AND type = $2
		ORDER BY transaction_date DESC, created_at DESC
	`
	return r.list(ctx, query, bankID, transaction.Debit)
}

func (r *TransactionRepository) ListReceiverCredits(ctx context.Context, bankID string) ([]*transaction.LedgerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE receiver_bank_id = $1 AND type = $2
		ORDER BY transaction_date DESC, created_at DESC
	`
	return r.list(ctx, query, bankID, transaction.Credit)
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*transaction.LedgerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, userID, limit)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*transaction.LedgerTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.LedgerTransaction
	for rows.Next() {
		tx := transaction.LedgerTransaction{}
		if err := rows.Scan(scanTargets(&tx)...); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// scanTargets returns scan destinations in transactionColumns order.
func scanTargets(tx *transaction.LedgerTransaction) []any {
	return []any{
		&tx.ID, &tx.Name, &tx.Amount, &tx.Type,
		&tx.SenderBankID, &tx.ReceiverBankID, &tx.UserID,
		&tx.Category, &tx.Channel, &tx.Date,
		&tx.Merchant, &tx.LogoURL, &tx.Website,
		&tx.AggregatorTransactionID, &tx.Fingerprint, &tx.CreatedAt,
	}
}
