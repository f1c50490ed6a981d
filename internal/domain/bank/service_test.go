package bank

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/payments"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

type mockRepository struct {
	CreateFunc           func(ctx context.Context, params CreateParams) (*BankLink, error)
	GetByIDFunc          func(ctx context.Context, id string) (*BankLink, error)
	GetByAccountIDFunc   func(ctx context.Context, accountID string) (*BankLink, error)
	GetByShareableIDFunc func(ctx context.Context, shareableID string) (*BankLink, error)
	ListByUserIDFunc     func(ctx context.Context, userID string) ([]*BankLink, error)
	UpdateSyncCursorFunc func(ctx context.Context, id, cursor string) error
}

func (m *mockRepository) Create(ctx context.Context, params CreateParams) (*BankLink, error) {
	return m.CreateFunc(ctx, params)
}
func (m *mockRepository) GetByID(ctx context.Context, id string) (*BankLink, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockRepository) GetByAccountID(ctx context.Context, accountID string) (*BankLink, error) {
	return m.GetByAccountIDFunc(ctx, accountID)
}
func (m *mockRepository) GetByShareableID(ctx context.Context, shareableID string) (*BankLink, error) {
	return m.GetByShareableIDFunc(ctx, shareableID)
}
func (m *mockRepository) ListByUserID(ctx context.Context, userID string) ([]*BankLink, error) {
	return m.ListByUserIDFunc(ctx, userID)
}
func (m *mockRepository) UpdateSyncCursor(ctx context.Context, id, cursor string) error {
	return m.UpdateSyncCursorFunc(ctx, id, cursor)
}

type mockAggregator struct {
	ExchangePublicTokenFunc  func(ctx context.Context, publicToken string) (*aggregator.ExchangeResponse, error)
	GetAccountsFunc          func(ctx context.Context, accessToken string) (*aggregator.AccountsResponse, error)
	CreateProcessorTokenFunc func(ctx context.Context, accessToken, accountID, processor string) (string, error)
	CreateLinkTokenFunc      func(ctx context.Context, userID, clientName string) (string, error)
}

func (m *mockAggregator) SyncTransactions(ctx context.Context, accessToken, cursor string) (*aggregator.SyncResponse, error) {
	return nil, errors.New("not implemented")
}
func (m *mockAggregator) GetAccounts(ctx context.Context, accessToken string) (*aggregator.AccountsResponse, error) {
	return m.GetAccountsFunc(ctx, accessToken)
}
func (m *mockAggregator) GetInstitution(ctx context.Context, institutionID string) (*aggregator.Institution, error) {
	return nil, errors.New("not implemented")
}
func (m *mockAggregator) CreateLinkToken(ctx context.Context, userID, clientName string) (string, error) {
	return m.CreateLinkTokenFunc(ctx, userID, clientName)
}
func (m *mockAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (*aggregator.ExchangeResponse, error) {
	return m.ExchangePublicTokenFunc(ctx, publicToken)
}
func (m *mockAggregator) CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error) {
	return m.CreateProcessorTokenFunc(ctx, accessToken, accountID, processor)
}

type mockPayments struct {
	CreateFundingSourceFunc func(ctx context.Context, customerURL, processorToken, name string) (string, error)
}

func (m *mockPayments) CreateCustomer(ctx context.Context, params payments.CustomerParams) (string, error) {
	return "", errors.New("not implemented")
}
func (m *mockPayments) CreateFundingSource(ctx context.Context, customerURL, processorToken, name string) (string, error) {
	return m.CreateFundingSourceFunc(ctx, customerURL, processorToken, name)
}
func (m *mockPayments) CreateTransfer(ctx context.Context, sourceURL, destinationURL string, amount decimal.Decimal) (string, error) {
	return "", errors.New("not implemented")
}

func newTestEncryptor(t *testing.T) *crypto.Encryptor {
	t.Helper()
	enc, err := crypto.NewEncryptor(testEncryptionKey)
	if err != nil {
		t.Fatalf("NewEncryptor() failed: %v", err)
	}
	return enc
}

func TestLink_PersistsEncryptedToken(t *testing.T) {
	enc := newTestEncryptor(t)

	var persisted CreateParams
	repo := &mockRepository{
		CreateFunc: func(ctx context.Context, params CreateParams) (*BankLink, error) {
			persisted = params
			return &BankLink{
				ID:          "link-1",
				UserID:      params.UserID,
				ItemID:      params.ItemID,
				AccountID:   params.AccountID,
				AccessToken: params.AccessToken,
				ShareableID: params.ShareableID,
			}, nil
		},
	}

	agg := &mockAggregator{
		ExchangePublicTokenFunc: func(ctx context.Context, publicToken string) (*aggregator.ExchangeResponse, error) {
			if publicToken != "public-abc" {
				t.Errorf("exchanged unexpected token %q", publicToken)
			}
			return &aggregator.ExchangeResponse{AccessToken: "access-xyz", ItemID: "item-1"}, nil
		},
		GetAccountsFunc: func(ctx context.Context, accessToken string) (*aggregator.AccountsResponse, error) {
			return &aggregator.AccountsResponse{
				Accounts: []aggregator.Account{{AccountID: "acct-1", Name: "Checking"}},
			}, nil
		},
		CreateProcessorTokenFunc: func(ctx context.Context, accessToken, accountID, processor string) (string, error) {
			if processor != "dwolla" {
				t.Errorf("processor = %q, want dwolla", processor)
			}
			return "processor-token", nil
		},
	}

	pay := &mockPayments{
		CreateFundingSourceFunc: func(ctx context.Context, customerURL, processorToken, name string) (string, error) {
			if name != "Checking" {
				t.Errorf("funding source name = %q, want Checking", name)
			}
			return "https://pay.example/funding-sources/fs-1", nil
		},
	}

	svc := NewService(repo, agg, pay, enc)

	link, err := svc.Link(context.Background(), LinkParams{
		UserID:      "user-1",
		CustomerURL: "https://pay.example/customers/c-1",
		PublicToken: "public-abc",
	})
	if err != nil {
		t.Fatalf("Link() failed: %v", err)
	}

	if persisted.AccessToken == "access-xyz" {
		t.Error("access token was persisted in plaintext")
	}
	decrypted, err := enc.Decrypt(persisted.AccessToken)
	if err != nil || decrypted != "access-xyz" {
		t.Errorf("persisted token does not decrypt to original: (%q, %v)", decrypted, err)
	}

	if link.AccessToken != "access-xyz" {
		t.Errorf("returned link has token %q, want plaintext access-xyz", link.AccessToken)
	}
	if persisted.ShareableID == "" {
		t.Error("shareable id was not set")
	}
}

func TestLink_NoAccounts(t *testing.T) {
	enc := newTestEncryptor(t)

	agg := &mockAggregator{
		ExchangePublicTokenFunc: func(ctx context.Context, publicToken string) (*aggregator.ExchangeResponse, error) {
			return &aggregator.ExchangeResponse{AccessToken: "access", ItemID: "item-1"}, nil
		},
		GetAccountsFunc: func(ctx context.Context, accessToken string) (*aggregator.AccountsResponse, error) {
			return &aggregator.AccountsResponse{}, nil
		},
	}

	svc := NewService(&mockRepository{}, agg, &mockPayments{}, enc)

	_, err := svc.Link(context.Background(), LinkParams{UserID: "user-1", PublicToken: "public"})
	if err == nil {
		t.Fatal("Link() succeeded with zero accounts")
	}
}

func TestGetByID_DecryptsToken(t *testing.T) {
	enc := newTestEncryptor(t)
	ciphertext, _ := enc.Encrypt("access-secret")

	repo := &mockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*BankLink, error) {
			return &BankLink{ID: id, AccessToken: ciphertext}, nil
		},
	}

	svc := NewService(repo, &mockAggregator{}, &mockPayments{}, enc)

	link, err := svc.GetByID(context.Background(), "link-1")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if link.AccessToken != "access-secret" {
		t.Errorf("AccessToken = %q, want decrypted value", link.AccessToken)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*BankLink, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, &mockAggregator{}, &mockPayments{}, newTestEncryptor(t))

	link, err := svc.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if link != nil {
		t.Errorf("GetByID() = %+v, want nil for missing link", link)
	}
}
