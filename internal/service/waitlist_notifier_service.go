package service

import (
	"context"

	"tutorly-be/internal/pkg/logger"
	"tutorly-be/internal/pkg/mailer"
	"tutorly-be/pkg/events"
	pktNats "tutorly-be/pkg/nats"
)

const notifierModule = "WaitlistNotifier"

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// WaitlistNotifier mails a confirmation for every WAITLIST_JOINED event.
type WaitlistNotifier struct {
	subscriber EventSubscriber
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewWaitlistNotifier(sub EventSubscriber, mail mailer.IEmailService, log logger.ILogger) *WaitlistNotifier {
	return &WaitlistNotifier{subscriber: sub, mailer: mail, logger: log}
}

// Start begins listening to the event bus.
func (n *WaitlistNotifier) Start(ctx context.Context) {
	if n.subscriber == nil || !n.mailer.Enabled() {
		n.logger.Info(notifierModule, "Waitlist confirmations disabled", map[string]interface{}{
			"bus":    n.subscriber != nil,
			"mailer": n.mailer.Enabled(),
		})
		return
	}

	subject := events.Subject(events.WaitlistJoined)
	if err := n.subscriber.Subscribe(ctx, subject, "waitlist-mailer", n.handleEvent); err != nil {
		n.logger.Error(notifierModule, "Failed to start waitlist subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	n.logger.Info(notifierModule, "Listening for waitlist signups", map[string]interface{}{"subject": subject})
}

func (n *WaitlistNotifier) handleEvent(ctx context.Context, event events.Event) error {
	if event.EventType() != events.WaitlistJoined {
		return nil
	}

	email := events.String(event, "email")
	if email == "" {
		// Email is optional on the signup form.
		return nil
	}

	if err := n.mailer.SendWaitlistConfirmation(email, events.String(event, "name")); err != nil {
		n.logger.Error(notifierModule, "Failed to send waitlist confirmation", map[string]interface{}{
			"entry_id": events.String(event, "entry_id"),
			"error":    err.Error(),
		})
		return err
	}

	n.logger.Info(notifierModule, "Waitlist confirmation sent", map[string]interface{}{"entry_id": events.String(event, "entry_id")})
	return nil
}
