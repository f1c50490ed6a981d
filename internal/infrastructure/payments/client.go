package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	sandboxAPIURL    = "https://api-sandbox.payments.com"
	productionAPIURL = "https://api.payments.com"

	defaultTimeout = 30 * time.Second
)

// ParseEnvironment validates the configured processor environment. Only
// "sandbox" and "production" are accepted.
func ParseEnvironment(env string) (string, error) {
	switch env {
	case "sandbox", "production":
		return env, nil
	default:
		return "", fmt.Errorf("invalid payments environment %q: must be sandbox or production", env)
	}
}

// Client handles communication with the payments processor API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	secret     string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a payments client. environment must already have been
// validated with ParseEnvironment.
func NewClient(environment, key, secret string) *Client {
	baseURL := sandboxAPIURL
	if environment == "production" {
		baseURL = productionAPIURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
		key:     key,
		secret:  secret,
	}
}

// CustomerParams are the fields required to register a verified customer.
type CustomerParams struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

// fundingSource is a bank account attached to a customer.
type fundingSource struct {
	Name  string `json:"name"`
	Links struct {
		Self struct {
			Href string `json:"href"`
		} `json:"self"`
	} `json:"_links"`
}

// CreateCustomer registers a customer with the processor and returns the
// customer resource URL.
func (c *Client) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	params.Type = "personal"
	location, err := c.postForLocation(ctx, "/customers", params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return location, nil
}

// CreateFundingSource attaches a bank account to a customer using a processor
// token and returns the funding source URL. If a funding source with the same
// name already exists on the customer its URL is returned instead, so linking
// the same bank twice does not fail.
func (c *Client) CreateFundingSource(ctx context.Context, customerURL, processorToken, name string) (string, error) {
	body := map[string]string{
		"plaidToken": processorToken,
		"name":       name,
	}

	location, err := c.postForLocation(ctx, customerPath(customerURL)+"/funding-sources", body)
	if err == nil {
		return location, nil
	}

	// A duplicate-resource response means the account is already attached.
	// Find it by name and reuse it.
	var apiErr *APIError
	if !asAPIError(err, &apiErr) || apiErr.Code != "DuplicateResource" {
		return "", fmt.Errorf("failed to create funding source: %w", err)
	}

	existing, lookupErr := c.listFundingSources(ctx, customerURL)
	if lookupErr != nil {
		return "", fmt.Errorf("failed to list funding sources: %w", lookupErr)
	}
	for _, fs := range existing {
		if fs.Name == name {
			return fs.Links.Self.Href, nil
		}
	}
	return "", fmt.Errorf("failed to create funding source: %w", err)
}

// CreateTransfer moves funds between two funding sources and returns the
// transfer resource URL.
func (c *Client) CreateTransfer(ctx context.Context, sourceURL, destinationURL string, amount decimal.Decimal) (string, error) {
	body := map[string]any{
		"_links": map[string]any{
			"source":      map[string]string{"href": sourceURL},
			"destination": map[string]string{"href": destinationURL},
		},
		"amount": map[string]string{
			"currency": "USD",
			"value":    amount.StringFixed(2),
		},
	}

	location, err := c.postForLocation(ctx, "/transfers", body)
	if err != nil {
		return "", fmt.Errorf("failed to create transfer: %w", err)
	}
	return location, nil
}

func (c *Client) listFundingSources(ctx context.Context, customerURL string) ([]fundingSource, error) {
	var resp struct {
		Embedded struct {
			FundingSources []fundingSource `json:"funding-sources"`
		} `json:"_embedded"`
	}
	if err := c.get(ctx, customerPath(customerURL)+"/funding-sources", &resp); err != nil {
		return nil, err
	}
	return resp.Embedded.FundingSources, nil
}

// token returns a valid OAuth access token, refreshing it when expired.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.key + ":" + c.secret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(data))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = tokenResp.AccessToken
	// refresh a minute before expiry
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

// postForLocation sends a JSON POST and returns the Location header of the
// created resource.
func (c *Client) postForLocation(ctx context.Context, path string, body any) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/vnd.dwolla.v1.hal+json")
	req.Header.Set("Accept", "application/vnd.dwolla.v1.hal+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", decodeAPIError(resp)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("response missing Location header")
	}
	return location, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.dwolla.v1.hal+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// customerPath strips the base URL from a full customer resource URL so it
// can be re-appended to the configured environment's base.
func customerPath(customerURL string) string {
	if idx := strings.Index(customerURL, "/customers/"); idx >= 0 {
		return customerURL[idx:]
	}
	return customerURL
}
