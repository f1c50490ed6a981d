package bank

import "time"

// BankLink connects a user to one account at a financial institution. The
// access token is stored encrypted and is only decrypted in memory when a
// provider call needs it.
type BankLink struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	ItemID           string    `json:"itemId"`
	AccountID        string    `json:"accountId"`
	AccessToken      string    `json:"-"`
	FundingSourceURL string    `json:"-"`
	ShareableID      string    `json:"shareableId"`
	// SyncCursor marks how far the transaction delta walk has progressed.
	// Empty means no sync has completed yet.
	SyncCursor string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateParams holds the fields needed to persist a new bank link.
type CreateParams struct {
	UserID           string
	ItemID           string
	AccountID        string
	AccessToken      string
	FundingSourceURL string
	ShareableID      string
}

// AccountSummary is a bank account enriched with live balance data from the
// aggregator, joined with the stored link.
type AccountSummary struct {
	LinkID           string  `json:"linkId"`
	AccountID        string  `json:"accountId"`
	AvailableBalance float64 `json:"availableBalance"`
	CurrentBalance   float64 `json:"currentBalance"`
	InstitutionID    string  `json:"institutionId"`
	InstitutionName  string  `json:"institutionName"`
	Name             string  `json:"name"`
	OfficialName     string  `json:"officialName"`
	Mask             string  `json:"mask"`
	Type             string  `json:"type"`
	Subtype          string  `json:"subtype"`
	ShareableID      string  `json:"shareableId"`
}
