package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/transaction"
	"horizon/internal/infrastructure/payments"
)

var (
	ErrInvalidAmount = errors.New("transfer amount must be a positive number")
	ErrLinkNotFound  = errors.New("bank link not found")
	ErrNotLinkOwner  = errors.New("sender does not own this bank link")
	ErrSelfTransfer  = errors.New("sender and receiver accounts are the same")
)

// LinkResolver looks up bank links for the two ends of a transfer.
type LinkResolver interface {
	GetByID(ctx context.Context, id string) (*bank.BankLink, error)
	GetByShareableID(ctx context.Context, shareableID string) (*bank.BankLink, error)
}

// Service moves money between two linked accounts: it instructs the payments
// processor and records one debit leg on the sender's ledger and one credit
// leg on the receiver's.
type Service struct {
	links        LinkResolver
	transactions transaction.Repository
	payments     payments.ClientInterface
}

func NewService(links LinkResolver, repo transaction.Repository, pay payments.ClientInterface) *Service {
	return &Service{
		links:        links,
		transactions: repo,
		payments:     pay,
	}
}

// Create validates the endpoints, executes the processor transfer, then
// persists both ledger legs. Leg persistence failures after the processor
// call are reported, not rolled back; money movement is the source of truth
// and the legs can be re-created.
func (s *Service) Create(ctx context.Context, params Params) (*Transfer, error) {
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	sender, err := s.links.GetByID(ctx, params.SenderLinkID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender link: %w", err)
	}
	if sender == nil {
		return nil, ErrLinkNotFound
	}
	if sender.UserID != params.SenderUserID {
		return nil, ErrNotLinkOwner
	}

	receiver, err := s.links.GetByShareableID(ctx, params.ReceiverShareableID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve receiver link: %w", err)
	}
	if receiver == nil {
		return nil, ErrLinkNotFound
	}
	if receiver.ID == sender.ID {
		return nil, ErrSelfTransfer
	}

	transferURL, err := s.payments.CreateTransfer(ctx, sender.FundingSourceURL, receiver.FundingSourceURL, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to execute transfer: %w", err)
	}

	result := &Transfer{TransferURL: transferURL}
	value, _ := amount.Float64()
	date := time.Now().UTC().Truncate(24 * time.Hour)
	name := transferName(params.Note)

	result.Debit, err = s.createLeg(ctx, legParams{
		name:      name + " (sent)",
		amount:    value,
		direction: transaction.Debit,
		userID:    sender.UserID,
		sender:    sender,
		receiver:  receiver,
		date:      date,
	})
	if err != nil {
		log.Printf("transfer %s: failed to record debit leg: %v", transferURL, err)
	}

	result.Credit, err = s.createLeg(ctx, legParams{
		name:      name + " (received)",
		amount:    value,
		direction: transaction.Credit,
		userID:    receiver.UserID,
		sender:    sender,
		receiver:  receiver,
		date:      date,
	})
	if err != nil {
		log.Printf("transfer %s: failed to record credit leg: %v", transferURL, err)
	}

	return result, nil
}

type legParams struct {
	name      string
	amount    float64
	direction transaction.Direction
	userID    string
	sender    *bank.BankLink
	receiver  *bank.BankLink
	date      time.Time
}

func (s *Service) createLeg(ctx context.Context, p legParams) (*transaction.LedgerTransaction, error) {
	// The leg name feeds the merchant slot of the fingerprint so the two
	// legs of a self-to-self user transfer never collide.
	fp := transaction.Fingerprint(p.amount, p.date.Format("2006-01-02"), p.name, p.userID, p.sender.ID)

	leg, err := s.transactions.Create(ctx, transaction.CreateParams{
		Name:           p.name,
		Amount:         p.amount,
		Type:           p.direction,
		SenderBankID:   &p.sender.ID,
		ReceiverBankID: &p.receiver.ID,
		UserID:         p.userID,
		Category:       "Transfer",
		Channel:        "online",
		Date:           p.date,
		Fingerprint:    fp,
	})
	if errors.Is(err, transaction.ErrDuplicateTransaction) {
		return s.transactions.FindByFingerprint(ctx, fp)
	}
	return leg, err
}

func transferName(note string) string {
	if note == "" {
		return "Transfer"
	}
	return note
}
