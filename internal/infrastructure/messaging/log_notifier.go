package messaging

import (
	"context"

	"github.com/m77ag/backend/internal/application/notification"
	"github.com/m77ag/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogNotifier writes outgoing email to the log instead of sending it
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

// Send implements notification.Notifier
func (LogNotifier) Send(ctx context.Context, email notification.Email) error {
	logger.L(ctx).Info("mail not sent, no mail queue configured",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.Int("html_bytes", len(email.HTML)),
	)
	return nil
}

var _ notification.Notifier = LogNotifier{}
