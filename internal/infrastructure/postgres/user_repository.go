package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"horizon/internal/domain/user"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, address1, city, state,
	       postal_code, date_of_birth, customer_url, device_token, created_at`

func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, address1, city, state,
		                   postal_code, date_of_birth, customer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + userColumns

	var row userRow
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.New().String(), params.FirstName, params.LastName, params.Email, params.PasswordHash,
		params.Address1, params.City, params.State, params.PostalCode, params.DateOfBirth,
		params.CustomerURL,
	).Scan(row.scanTargets()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return row.toUser(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user ids: %w", err)
	}

	return ids, nil
}

func (r *UserRepository) UpdateDeviceToken(ctx context.Context, id, deviceToken string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET device_token = $1 WHERE id = $2`, deviceToken, id)
	if err != nil {
		return fmt.Errorf("failed to update device token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check device token update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

// ClearDeviceToken removes a device token wherever it is stored. Used when
// the push provider reports the token as no longer valid.
func (r *UserRepository) ClearDeviceToken(ctx context.Context, deviceToken string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET device_token = '' WHERE device_token = $1`, deviceToken)
	if err != nil {
		return fmt.Errorf("failed to clear device token: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var row userRow
	err := r.db.QueryRowContext(ctx, query, arg).Scan(row.scanTargets()...)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return row.toUser(), nil
}

// userRow scans a users row. device_token is nullable: it stays NULL until
// the user registers a device.
type userRow struct {
	user        user.User
	deviceToken sql.NullString
}

// scanTargets returns scan destinations in userColumns order.
func (r *userRow) scanTargets() []any {
	return []any{
		&r.user.ID, &r.user.FirstName, &r.user.LastName, &r.user.Email, &r.user.PasswordHash,
		&r.user.Address1, &r.user.City, &r.user.State, &r.user.PostalCode, &r.user.DateOfBirth,
		&r.user.CustomerURL, &r.deviceToken, &r.user.CreatedAt,
	}
}

func (r *userRow) toUser() *user.User {
	if r.deviceToken.Valid {
		r.user.DeviceToken = r.deviceToken.String
	}
	return &r.user
}
