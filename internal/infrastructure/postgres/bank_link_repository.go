package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"horizon/internal/domain/bank"
)

type BankLinkRepository struct {
	db *DB
}

func NewBankLinkRepository(db *DB) *BankLinkRepository {
	return &BankLinkRepository{db: db}
}

const bankLinkColumns = `id, user_id, item_id, account_id, access_token, funding_source_url,
	       shareable_id, sync_cursor, created_at`

func (r *BankLinkRepository) Create(ctx context.Context, params bank.CreateParams) (*bank.BankLink, error) {
	query := `
		INSERT INTO bank_links (id, user_id, item_id, account_id, access_token, funding_source_url, shareable_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bankLinkColumns

	var row bankLinkRow
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.New().String(), params.UserID, params.ItemID, params.AccountID,
		params.AccessToken, params.FundingSourceURL, params.ShareableID,
	).Scan(row.scanTargets()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bank link: %w", err)
	}

	return row.toLink(), nil
}

func (r *BankLinkRepository) GetByID(ctx context.Context, id string) (*bank.BankLink, error) {
	return r.getOne(ctx, `SELECT `+bankLinkColumns+` FROM bank_links WHERE id = $1`, id)
}

func (r *BankLinkRepository) GetByAccountID(ctx context.Context, accountID string) (*bank.BankLink, error) {
	return r.getOne(ctx, `SELECT `+bankLinkColumns+` FROM bank_links WHERE account_id = $1`, accountID)
}

func (r *BankLinkRepository) GetByShareableID(ctx context.Context, shareableID string) (*bank.BankLink, error) {
	return r.getOne(ctx, `SELECT `+bankLinkColumns+` FROM bank_links WHERE shareable_id = $1`, shareableID)
}

func (r *BankLinkRepository) ListByUserID(ctx context.Context, userID string) ([]*bank.BankLink, error) {
	query := `
		SELECT ` + bankLinkColumns + `
		FROM bank_links
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank links: %w", err)
	}
	defer rows.Close()

	var links []*bank.BankLink
	for rows.Next() {
		var row bankLinkRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan bank link: %w", err)
		}
		links = append(links, row.toLink())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank links: %w", err)
	}

	return links, nil
}

func (r *BankLinkRepository) UpdateSyncCursor(ctx context.Context, id, cursor string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE bank_links SET sync_cursor = $1 WHERE id = $2`, cursor, id)
	if err != nil {
		return fmt.Errorf("failed to update sync cursor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check sync cursor update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bank link %s not found", id)
	}
	return nil
}

func (r *BankLinkRepository) getOne(ctx context.Context, query string, arg any) (*bank.BankLink, error) {
	var row bankLinkRow
	err := r.db.QueryRowContext(ctx, query, arg).Scan(row.scanTargets()...)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank link: %w", err)
	}
	return row.toLink(), nil
}

// bankLinkRow scans a bank_links row. sync_cursor is nullable: it stays NULL
// until the first completed walk advances it.
type bankLinkRow struct {
	link       bank.BankLink
	syncCursor sql.NullString
}

// scanTargets returns scan destinations in bankLinkColumns order.
func (r *bankLinkRow) scanTargets() []any {
	return []any{
		&r.link.ID, &r.link.UserID, &r.link.ItemID, &r.link.AccountID,
		&r.link.AccessToken, &r.link.FundingSourceURL,
		&r.link.ShareableID, &r.syncCursor, &r.link.CreatedAt,
	}
}

func (r *bankLinkRow) toLink() *bank.BankLink {
	if r.syncCursor.Valid {
		r.link.SyncCursor = r.syncCursor.String
	}
	return &r.link
}
