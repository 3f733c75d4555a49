// Package notify sends operator push alerts when scheduled syncs fail.
package notify

import "context"

// Messenger sends a push notification to a single device token.
// Implemented by the Firebase FCM client in the infrastructure layer.
type Messenger interface {
	Send(ctx context.Context, token string, title, body string, data map[string]string) error
}
