// Package notification turns domain events into outgoing email.
package notification

import "context"

// Email is one outgoing message
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Notifier delivers email. Implementations may queue rather than send.
type Notifier interface {
	Send(ctx context.Context, email Email) error
}
