package bank

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/payments"
)

// processorName identifies the payments processor to the aggregator when
// minting processor tokens.
const processorName = "dwolla"

// Service owns the account-linking flow and access to stored links.
type Service struct {
	repo       Repository
	aggregator aggregator.ClientInterface
	payments   payments.ClientInterface
	encryptor  *crypto.Encryptor
}

func NewService(repo Repository, agg aggregator.ClientInterface, pay payments.ClientInterface, enc *crypto.Encryptor) *Service {
	return &Service{
		repo:       repo,
		aggregator: agg,
		payments:   pay,
		encryptor:  enc,
	}
}

// LinkParams carries everything needed to turn a public token from the link
// UI into a persisted bank link.
type LinkParams struct {
	UserID      string
	CustomerURL string
	PublicToken string
}

// CreateLinkToken mints a short-lived token for the client-side link flow.
func (s *Service) CreateLinkToken(ctx context.Context, userID, clientName string) (string, error) {
	token, err := s.aggregator.CreateLinkToken(ctx, userID, clientName)
	if err != nil {
		return "", fmt.Errorf("failed to create link token: %w", err)
	}
	return token, nil
}

// Link exchanges a public token for a permanent link: it resolves the
// account, attaches it to the user's payments customer as a funding source,
// and persists the link with the access token encrypted.
func (s *Service) Link(ctx context.Context, params LinkParams) (*BankLink, error) {
	exchange, err := s.aggregator.ExchangePublicToken(ctx, params.PublicToken)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange public token: %w", err)
	}

	accountsResp, err := s.aggregator.GetAccounts(ctx, exchange.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	if len(accountsResp.Accounts) == 0 {
		return nil, fmt.Errorf("no accounts returned for item %s", exchange.ItemID)
	}
	account := accountsResp.Accounts[0]

	processorToken, err := s.aggregator.CreateProcessorToken(ctx, exchange.AccessToken, account.AccountID, processorName)
	if err != nil {
		return nil, fmt.Errorf("failed to create processor token: %w", err)
	}

	fundingSourceURL, err := s.payments.CreateFundingSource(ctx, params.CustomerURL, processorToken, account.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create funding source: %w", err)
	}

	encryptedToken, err := s.encryptor.Encrypt(exchange.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	link, err := s.repo.Create(ctx, CreateParams{
		UserID:           params.UserID,
		ItemID:           exchange.ItemID,
		AccountID:        account.AccountID,
		AccessToken:      encryptedToken,
		FundingSourceURL: fundingSourceURL,
		ShareableID:      base64.StdEncoding.EncodeToString([]byte(account.AccountID)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist bank link: %w", err)
	}

	log.Printf("linked account %s for user %s", account.AccountID, params.UserID)

	link.AccessToken = exchange.AccessToken
	return link, nil
}

// GetByID returns a link with its access token decrypted.
func (s *Service) GetByID(ctx context.Context, id string) (*BankLink, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank link: %w", err)
	}
	if link == nil {
		return nil, nil
	}
	return s.decrypt(link)
}

// GetByAccountID returns the link owning an aggregator account id.
func (s *Service) GetByAccountID(ctx context.Context, accountID string) (*BankLink, error) {
	link, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank link by account: %w", err)
	}
	if link == nil {
		return nil, nil
	}
	return s.decrypt(link)
}

// GetByShareableID resolves the public shareable id used to receive transfers.
func (s *Service) GetByShareableID(ctx context.Context, shareableID string) (*BankLink, error) {
	link, err := s.repo.GetByShareableID(ctx, shareableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank link by shareable id: %w", err)
	}
	if link == nil {
		return nil, nil
	}
	return s.decrypt(link)
}

// ListByUserID returns all of a user's links with tokens decrypted.
func (s *Service) ListByUserID(ctx context.Context, userID string) ([]*BankLink, error) {
	links, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank links: %w", err)
	}
	for _, link := range links {
		if _, err := s.decrypt(link); err != nil {
			return nil, err
		}
	}
	return links, nil
}

// UpdateSyncCursor records sync progress for a link.
func (s *Service) UpdateSyncCursor(ctx context.Context, id, cursor string) error {
	if err := s.repo.UpdateSyncCursor(ctx, id, cursor); err != nil {
		return fmt.Errorf("failed to update sync cursor: %w", err)
	}
	return nil
}

func (s *Service) decrypt(link *BankLink) (*BankLink, error) {
	token, err := s.encryptor.Decrypt(link.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token for link %s: %w", link.ID, err)
	}
	link.AccessToken = token
	return link, nil
}
