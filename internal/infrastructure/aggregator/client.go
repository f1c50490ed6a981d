package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	sandboxURL    = "https://sandbox.aggregator.com"
	productionURL = "https://production.aggregator.com"

	defaultTimeout = 30 * time.Second

	transactionsSyncPath    = "/transactions/sync"
	accountsGetPath         = "/accounts/get"
	institutionsGetByIDPath = "/institutions/get_by_id"
	linkTokenCreatePath     = "/link/token/create"
	publicTokenExchangePath = "/item/public_token/exchange"
	processorTokenPath      = "/processor/token/create"
)

// Client handles communication with the bank-data aggregation API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new aggregator API client for the given environment.
func NewClient(environment, clientID, secret string) *Client {
	baseURL := sandboxURL
	if environment == "production" {
		baseURL = productionURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
	}
}

// ExternalTransaction is a transaction as reported by the aggregator.
// It exists only in memory for the duration of a sync cycle.
type ExternalTransaction struct {
	TransactionID  string         `json:"transaction_id"`
	AccountID      string         `json:"account_id"`
	Name           string         `json:"name"`
	Amount         float64        `json:"amount"` // signed: negative = debit
	Date           string         `json:"date"`   // ISO date (2006-01-02)
	PaymentChannel string         `json:"payment_channel"`
	Pending        bool           `json:"pending"`
	MerchantName   string         `json:"merchant_name,omitempty"`
	LogoURL        string         `json:"logo_url,omitempty"`
	Website        string         `json:"website,omitempty"`
	Category       CategoryDetail `json:"personal_finance_category"`
}

// CategoryDetail carries the aggregator's classification for a transaction.
type CategoryDetail struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed,omitempty"`
}

// RemovedTransaction identifies a transaction retracted by the aggregator.
type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

// SyncResponse is one page of the transactions delta endpoint.
type SyncResponse struct {
	Added      []ExternalTransaction `json:"added"`
	Modified   []ExternalTransaction `json:"modified"`
	Removed    []RemovedTransaction  `json:"removed"`
	HasMore    bool                  `json:"has_more"`
	NextCursor string                `json:"next_cursor"`
}

// Balances holds the balance fields the application depends on.
type Balances struct {
	Available float64 `json:"available"`
	Current   float64 `json:"current"`
}

// Account is an account as reported by the aggregator's balance endpoint.
type Account struct {
	AccountID    string   `json:"account_id"`
	Balances     Balances `json:"balances"`
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	Mask         string   `json:"mask"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
}

// Item describes the provider-side link the accounts belong to.
type Item struct {
	ItemID        string `json:"item_id"`
	InstitutionID string `json:"institution_id"`
}

// AccountsResponse is the response of the balance/account endpoint.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
	Item     Item      `json:"item"`
}

// Institution is the aggregator's record for a financial institution.
type Institution struct {
	InstitutionID string `json:"institution_id"`
	Name          string `json:"name"`
}

// ExchangeResponse is the result of exchanging a public token.
type ExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// LinkTokenUser identifies the end user to the link-token endpoint.
type LinkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

// SyncTransactions fetches one page of transaction deltas. An empty cursor
// means "start of history".
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string) (*SyncResponse, error) {
	body := map[string]any{
		"access_token": accessToken,
	}
	if cursor != "" {
		body["cursor"] = cursor
	}

	var resp SyncResponse
	if err := c.post(ctx, transactionsSyncPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccounts fetches current account and balance data for a link.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error) {
	body := map[string]any{
		"access_token": accessToken,
	}

	var resp AccountsResponse
	if err := c.post(ctx, accountsGetPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetInstitution fetches institution metadata by identifier.
func (c *Client) GetInstitution(ctx context.Context, institutionID string) (*Institution, error) {
	body := map[string]any{
		"institution_id": institutionID,
		"country_codes":  []string{"US"},
	}

	var resp struct {
		Institution Institution `json:"institution"`
	}
	if err := c.post(ctx, institutionsGetByIDPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Institution, nil
}

// CreateLinkToken creates a short-lived token the client UI uses to start the
// account-linking flow.
func (c *Client) CreateLinkToken(ctx context.Context, userID, clientName string) (string, error) {
	body := map[string]any{
		"user":          LinkTokenUser{ClientUserID: userID},
		"client_name":   clientName,
		"products":      []string{"auth", "transactions"},
		"language":      "en",
		"country_codes": []string{"US"},
	}

	var resp struct {
		LinkToken string `json:"link_token"`
	}
	if err := c.post(ctx, linkTokenCreatePath, body, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken exchanges the public token produced by the link flow
// for a long-lived access token and item id.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error) {
	body := map[string]any{
		"public_token": publicToken,
	}

	var resp ExchangeResponse
	if err := c.post(ctx, publicTokenExchangePath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateProcessorToken creates a token the payments processor can redeem to
// reference an account at the aggregator.
func (c *Client) CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error) {
	body := map[string]any{
		"access_token": accessToken,
		"account_id":   accountID,
		"processor":    processor,
	}

	var resp struct {
		ProcessorToken string `json:"processor_token"`
	}
	if err := c.post(ctx, processorTokenPath, body, &resp); err != nil {
		return "", err
	}
	return resp.ProcessorToken, nil
}

// post sends an authenticated JSON request and decodes the response into out.
// Non-200 responses are decoded into an *APIError so callers can inspect the
// machine-readable error code.
func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	body["client_id"] = c.clientID
	body["secret"] = c.secret

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil {
			return fmt.Errorf("aggregator request failed with status %d: %s", resp.StatusCode, string(data))
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
