// Package notification defines how the application reaches users outside
// the app, currently push notifications for re-consent prompts.
package notification

import "context"

// Messenger delivers a push notification to a single device.
type Messenger interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// ConsentRequired builds the notification shown when a bank link needs the
// user to re-authorize data access.
func ConsentRequired(linkID string) (title, body string, data map[string]string) {
	title = "Action needed for your bank connection"
	body = "One of your linked banks needs you to renew its access. Open the app to reconnect."
	data = map[string]string{
		"type":   "consent_required",
		"linkId": linkID,
	}
	return title, body, data
}
