package bank

import "context"

// Repository persists bank links. Implementations return (nil, nil) when a
// lookup finds no row.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*BankLink, error)
	GetByID(ctx context.Context, id string) (*BankLink, error)
	GetByAccountID(ctx context.Context, accountID string) (*BankLink, error)
	GetByShareableID(ctx context.Context, shareableID string) (*BankLink, error)
	ListByUserID(ctx context.Context, userID string) ([]*BankLink, error)
	UpdateSyncCursor(ctx context.Context, id, cursor string) error
}
