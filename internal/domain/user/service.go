package user

import (
	"context"
	"errors"
	"fmt"
	"log"

	"horizon/internal/infrastructure/payments"
	"horizon/internal/shared/auth"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service owns registration, authentication and device management.
type Service struct {
	repo     Repository
	payments payments.ClientInterface
}

func NewService(repo Repository, pay payments.ClientInterface) *Service {
	return &Service{repo: repo, payments: pay}
}

// Register creates a user. The password is hashed before storage and a
// verified customer is created at the payments processor so the user can
// send and receive transfers.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customerURL, err := s.payments.CreateCustomer(ctx, payments.CustomerParams{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Address1:    params.Address1,
		City:        params.City,
		State:       params.State,
		PostalCode:  params.PostalCode,
		DateOfBirth: params.DateOfBirth,
		SSN:         params.SSN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payments customer: %w", err)
	}

	u, err := s.repo.Create(ctx, CreateParams{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		PasswordHash: hash,
		Address1:     params.Address1,
		City:         params.City,
		State:        params.State,
		PostalCode:   params.PostalCode,
		DateOfBirth:  params.DateOfBirth,
		CustomerURL:  customerURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("registered user %s", u.ID)
	return u, nil
}

// Login verifies credentials and returns the user.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID fetches a user by id.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ListIDs returns the ids of all users, used by the scheduled sync.
func (s *Service) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	return ids, nil
}

// RegisterDevice records the push token of the user's current device.
func (s *Service) RegisterDevice(ctx context.Context, userID, deviceToken string) error {
	if err := s.repo.UpdateDeviceToken(ctx, userID, deviceToken); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

// DeactivateDevice drops a push token the provider reported as invalid.
func (s *Service) DeactivateDevice(ctx context.Context, deviceToken string) error {
	if err := s.repo.ClearDeviceToken(ctx, deviceToken); err != nil {
		return fmt.Errorf("failed to deactivate device: %w", err)
	}
	return nil
}
