package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// ClientInterface abstracts the payments processor so services can be tested
// without network access.
type ClientInterface interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	CreateFundingSource(ctx context.Context, customerURL, processorToken, name string) (string, error)
	CreateTransfer(ctx context.Context, sourceURL, destinationURL string, amount decimal.Decimal) (string, error)
}
