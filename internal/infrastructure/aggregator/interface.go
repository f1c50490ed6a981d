package aggregator

import "context"

// ClientInterface abstracts the aggregation API so services can be tested
// without network access.
type ClientInterface interface {
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*SyncResponse, error)
	GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error)
	GetInstitution(ctx context.Context, institutionID string) (*Institution, error)
	CreateLinkToken(ctx context.Context, userID, clientName string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error)
}
