package ledger

import (
	"context"
	"log"
	"sync"

	"horizon/internal/domain/bank"
	"horizon/internal/infrastructure/aggregator"
)

// maxConcurrentFetches bounds parallel balance lookups across a user's links.
const maxConcurrentFetches = 5

// LinkLister exposes a user's bank links with decrypted credentials.
type LinkLister interface {
	ListByUserID(ctx context.Context, userID string) ([]*bank.BankLink, error)
}

// Portfolio is the user's multi-account balance view. Totals cover only the
// accounts whose live fetch succeeded.
type Portfolio struct {
	Accounts            []bank.AccountSummary `json:"accounts"`
	TotalBanks          int                   `json:"totalBanks"`
	TotalCurrentBalance float64               `json:"totalCurrentBalance"`
}

// PortfolioService fans out live balance fetches across all of a user's
// linked accounts, tolerating per-account failures.
type PortfolioService struct {
	links      LinkLister
	aggregator aggregator.ClientInterface
}

func NewPortfolioService(links LinkLister, agg aggregator.ClientInterface) *PortfolioService {
	return &PortfolioService{links: links, aggregator: agg}
}

// GetPortfolio fetches balances for every linked account concurrently. A
// link whose fetch fails is excluded from the result and the totals; the
// rest of the portfolio is still returned. Zero links yields an empty
// portfolio, not an error.
func (s *PortfolioService) GetPortfolio(ctx context.Context, userID string) (*Portfolio, error) {
	links, err := s.links.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	portfolio := &Portfolio{Accounts: []bank.AccountSummary{}}
	if len(links) == 0 {
		return portfolio, nil
	}

	// Indexed slots keep account order stable regardless of fetch order.
	summaries := make([]*bank.AccountSummary, len(links))

	sem := make(chan struct{}, maxConcurrentFetches)
	var wg sync.WaitGroup
	for i, link := range links {
		wg.Add(1)
		go func(i int, link *bank.BankLink) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			summary, err := s.fetchAccount(ctx, link)
			if err != nil {
				log.Printf("excluding bank link %s from portfolio: %v", link.ID, err)
				return
			}
			summaries[i] = summary
		}(i, link)
	}
	wg.Wait()

	for _, summary := range summaries {
		if summary == nil {
			continue
		}
		portfolio.Accounts = append(portfolio.Accounts, *summary)
		portfolio.TotalBanks++
		portfolio.TotalCurrentBalance += summary.CurrentBalance
	}

	return portfolio, nil
}

func (s *PortfolioService) fetchAccount(ctx context.Context, link *bank.BankLink) (*bank.AccountSummary, error) {
	resp, err := s.aggregator.GetAccounts(ctx, link.AccessToken)
	if err != nil {
		return nil, err
	}

	for _, account := range resp.Accounts {
		if account.AccountID != link.AccountID {
			continue
		}

		// Best effort: a missing institution name does not exclude the
		// account from the portfolio.
		var institutionName string
		if inst, err := s.aggregator.GetInstitution(ctx, resp.Item.InstitutionID); err != nil {
			log.Printf("failed to resolve institution %s: %v", resp.Item.InstitutionID, err)
		} else {
			institutionName = inst.Name
		}

		return &bank.AccountSummary{
			LinkID:           link.ID,
			AccountID:        account.AccountID,
			AvailableBalance: account.Balances.Available,
			CurrentBalance:   account.Balances.Current,
			InstitutionID:    resp.Item.InstitutionID,
			InstitutionName:  institutionName,
			Name:             account.Name,
			OfficialName:     account.OfficialName,
			Mask:             account.Mask,
			Type:             account.Type,
			Subtype:          account.Subtype,
			ShareableID:      link.ShareableID,
		}, nil
	}

	return nil, &accountNotFoundError{accountID: link.AccountID}
}

type accountNotFoundError struct {
	accountID string
}

func (e *accountNotFoundError) Error() string {
	return "account " + e.accountID + " not present in provider response"
}
