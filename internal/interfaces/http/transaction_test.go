package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"horizon/internal/domain/transaction"
	"horizon/internal/shared/middleware"
)

type stubLedger struct {
	listed   []*transaction.LedgerTransaction
	gotLimit int
}

func (s *stubLedger) Create(ctx context.Context, params transaction.CreateParams) (*transaction.LedgerTransaction, error) {
	return nil, nil
}
func (s *stubLedger) FindByFingerprint(ctx context.Context, fp string) (*transaction.LedgerTransaction, error) {
	return nil, nil
}
func (s *stubLedger) ListSenderDebits(ctx context.Context, bankID string) ([]*transaction.LedgerTransaction, error) {
	return nil, nil
}
func (s *stubLedger) ListReceiverCredits(ctx context.Context, bankID string) ([]*transaction.LedgerTransaction, error) {
	return nil, nil
}
func (s *stubLedger) ListByUserID(ctx context.Context, userID string, limit int) ([]*transaction.LedgerTransaction, error) {
	s.gotLimit = limit
	return s.listed, nil
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "u1")
	return req.WithContext(ctx)
}

func TestHandleListTransactions(t *testing.T) {
	store := &stubLedger{listed: []*transaction.LedgerTransaction{
		{ID: "tx-1", Name: "Coffee", Amount: 4.5, Type: transaction.Debit, UserID: "u1", Date: time.Now()},
	}}
	handler := NewTransactionHandler(store)

	rec := httptest.NewRecorder()
	handler.HandleListTransactions(rec, authedRequest(http.MethodGet, "/api/transactions?limit=10"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.gotLimit != 10 {
		t.Errorf("limit = %d, want 10", store.gotLimit)
	}

	var body []transaction.LedgerTransaction
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response is not a JSON array: %v", err)
	}
	if len(body) != 1 || body[0].ID != "tx-1" {
		t.Errorf("body = %+v", body)
	}
}

func TestHandleListTransactions_DefaultLimit(t *testing.T) {
	store := &stubLedger{}
	handler := NewTransactionHandler(store)

	rec := httptest.NewRecorder()
	handler.HandleListTransactions(rec, authedRequest(http.MethodGet, "/api/transactions"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.gotLimit != defaultTransactionLimit {
		t.Errorf("limit = %d, want default %d", store.gotLimit, defaultTransactionLimit)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("empty ledger serialized as %q, want []", body)
	}
}

func TestHandleListTransactions_BadLimit(t *testing.T) {
	handler := NewTransactionHandler(&stubLedger{})

	for _, raw := range []string{"0", "-3", "many"} {
		rec := httptest.NewRecorder()
		handler.HandleListTransactions(rec, authedRequest(http.MethodGet, "/api/transactions?limit="+raw))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", raw, rec.Code)
		}
	}
}

func TestHandleListTransactions_RequiresAuth(t *testing.T) {
	handler := NewTransactionHandler(&stubLedger{})

	rec := httptest.NewRecorder()
	handler.HandleListTransactions(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
