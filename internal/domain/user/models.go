package user

import "time"

// User is an application account holder. The payments customer URL is set
// during registration and required before any transfer can be initiated.
type User struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Address1     string `json:"address1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	DateOfBirth  string `json:"dateOfBirth"`
	// CustomerURL is the user's resource URL at the payments processor.
	CustomerURL string `json:"-"`
	// DeviceToken is the push-notification registration token of the user's
	// most recent device. Empty when the user never registered a device.
	DeviceToken string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RegisterParams are the fields collected at sign-up. The SSN is forwarded
// to the payments processor for identity verification and is never stored;
// everything else, including the date of birth, is persisted with the user.
type RegisterParams struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

// CreateParams holds the fields persisted for a new user.
type CreateParams struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Address1     string
	City         string
	State        string
	PostalCode   string
	DateOfBirth  string
	CustomerURL  string
}
