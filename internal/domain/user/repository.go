package user

import "context"

// Repository persists users. Implementations return (nil, nil) when a lookup
// finds no row.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListIDs(ctx context.Context) ([]string, error)
	UpdateDeviceToken(ctx context.Context, id, deviceToken string) error
	ClearDeviceToken(ctx context.Context, deviceToken string) error
}
