package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"
)

// stubRowDriver serves one fixed row for any query, so repository scan paths
// can run against controlled column values without a live database.
type stubRowDriver struct {
	cols []string
	vals []driver.Value
}

func (d *stubRowDriver) Open(string) (driver.Conn, error) { return &stubRowConn{d: d}, nil }

type stubRowConn struct{ d *stubRowDriver }

func (c *stubRowConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("unsupported") }
func (c *stubRowConn) Close() error                        { return nil }
func (c *stubRowConn) Begin() (driver.Tx, error)           { return nil, errors.New("unsupported") }

func (c *stubRowConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return &stubRowRows{d: c.d}, nil
}

type stubRowRows struct {
	d    *stubRowDriver
	done bool
}

func (r *stubRowRows) Columns() []string { return r.d.cols }
func (r *stubRowRows) Close() error      { return nil }

func (r *stubRowRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	copy(dest, r.d.vals)
	r.done = true
	return nil
}

func openStubDB(t *testing.T, name string, cols []string, vals []driver.Value) *DB {
	t.Helper()
	sql.Register(name, &stubRowDriver{cols: cols, vals: vals})
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("failed to open stub database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &DB{DB: db}
}

func TestBankLinkGetByID_NullSyncCursor(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	db := openStubDB(t, "stub-bank-link-null-cursor",
		[]string{"id", "user_id", "item_id", "account_id", "access_token", "funding_source_url", "shareable_id", "sync_cursor", "created_at"},
		[]driver.Value{"link-1", "u1", "item-1", "acct-1", "enc-token", "https://pay.example/fs-1", "c2hhcmU", nil, created},
	)

	link, err := NewBankLinkRepository(db).GetByID(context.Background(), "link-1")
	if err != nil {
		t.Fatalf("GetByID() failed on a NULL sync_cursor: %v", err)
	}
	if link == nil {
		t.Fatal("GetByID() returned nil for an existing row")
	}
	if link.SyncCursor != "" {
		t.Errorf("SyncCursor = %q, want empty for a link that has never completed a walk", link.SyncCursor)
	}
	if link.ID != "link-1" || link.AccessToken != "enc-token" {
		t.Errorf("unexpected link fields: %+v", link)
	}
}

func TestBankLinkListByUserID_NullSyncCursor(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	db := openStubDB(t, "stub-bank-link-list-null-cursor",
		[]string{"id", "user_id", "item_id", "account_id", "access_token", "funding_source_url", "shareable_id", "sync_cursor", "created_at"},
		[]driver.Value{"link-1", "u1", "item-1", "acct-1", "enc-token", "https://pay.example/fs-1", "c2hhcmU", nil, created},
	)

	links, err := NewBankLinkRepository(db).ListByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUserID() failed on a NULL sync_cursor: %v", err)
	}
	if len(links) != 1 || links[0].SyncCursor != "" {
		t.Errorf("links = %+v, want one link with an empty cursor", links)
	}
}

func TestUserGetByID_NullDeviceToken(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	db := openStubDB(t, "stub-user-null-device-token",
		[]string{"id", "first_name", "last_name", "email", "password_hash", "address1", "city", "state", "postal_code", "date_of_birth", "customer_url", "device_token", "created_at"},
		[]driver.Value{"u1", "Ada", "Lovelace", "ada@example.com", "hash", "1 Main St", "Austin", "TX", "78701", "1990-01-01", "https://pay.example/customers/c1", nil, created},
	)

	u, err := NewUserRepository(db).GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID() failed on a NULL device_token: %v", err)
	}
	if u == nil {
		t.Fatal("GetByID() returned nil for an existing row")
	}
	if u.DeviceToken != "" {
		t.Errorf("DeviceToken = %q, want empty before a device registers", u.DeviceToken)
	}
	if u.Email != "ada@example.com" {
		t.Errorf("unexpected user fields: %+v", u)
	}
}
