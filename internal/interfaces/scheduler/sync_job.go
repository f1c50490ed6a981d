package scheduler

import (
	"context"
	"fmt"
	"log"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/ledger"
	"horizon/internal/domain/notification"
	"horizon/internal/domain/user"
)

// ReconcileJob syncs and reconciles every bank account a user has linked.
// When a link comes back needing re-consent the user gets a push prompt.
type ReconcileJob struct {
	userID    string
	banks     *bank.Service
	engine    *ledger.Engine
	users     *user.Service
	messenger notification.Messenger
}

// NewReconcileJob creates a reconcile job for one user. messenger may be nil
// when push notifications are not configured.
func NewReconcileJob(userID string, banks *bank.Service, engine *ledger.Engine, users *user.Service, messenger notification.Messenger) *ReconcileJob {
	return &ReconcileJob{
		userID:    userID,
		banks:     banks,
		engine:    engine,
		users:     users,
		messenger: messenger,
	}
}

// Execute reconciles each link independently; one bad link does not stop the
// others. The job fails only when every link failed or the links could not
// be listed at all.
func (j *ReconcileJob) Execute(ctx context.Context) error {
	links, err := j.banks.ListByUserID(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("failed to list bank links: %w", err)
	}
	if len(links) == 0 {
		return nil
	}

	failures := 0
	for _, link := range links {
		result := j.engine.Reconcile(ctx, link)

		switch result.Status {
		case ledger.StatusConsentRequired:
			j.promptReconsent(ctx, link)
		case ledger.StatusError:
			failures++
			log.Printf("reconcile errors for link %s: %v", link.ID, result.Errors)
		}
	}

	if failures == len(links) {
		return fmt.Errorf("all %d bank links failed to reconcile", failures)
	}
	return nil
}

// promptReconsent pushes a re-link prompt to the user's current device.
// Best effort: a user without a registered device just sees the consent
// state next time they open the app.
func (j *ReconcileJob) promptReconsent(ctx context.Context, link *bank.BankLink) {
	if j.messenger == nil {
		return
	}

	u, err := j.users.GetByID(ctx, j.userID)
	if err != nil || u == nil || u.DeviceToken == "" {
		return
	}

	title, body, data := notification.ConsentRequired(link.ID)
	if err := j.messenger.Send(ctx, u.DeviceToken, title, body, data); err != nil {
		log.Printf("failed to send re-consent prompt to user %s: %v", j.userID, err)
	}
}

func (j *ReconcileJob) UserID() string {
	return j.userID
}

func (j *ReconcileJob) Description() string {
	return fmt.Sprintf("ledger reconcile for user %s", j.userID)
}
