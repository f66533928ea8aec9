package notifier

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Notifier is the notification collaborator: deliver a human-readable
// message with a subject line. Delivery mechanics (topics, subscriptions,
// endpoints) live entirely behind this interface.
type Notifier interface {
	Publish(ctx context.Context, message, subject string) error
}

// Noop is used when notifications are disabled in configuration.
type Noop struct{}

func (Noop) Publish(ctx context.Context, message, subject string) error {
	log.Debugf("notifications disabled, dropping %q", subject)
	return nil
}
