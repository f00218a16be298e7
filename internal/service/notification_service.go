package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/config"
	"github.com/spec-kit/helpdesk-core/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-core/pkg/util"
)

// NotificationPayload is the outbound message synthesized from a change
// event. Private ticket content never appears here; only identifiers, the
// title, and the old/new field values carried by the event itself.
type NotificationPayload struct {
	Kind        domain.EventKind `json:"kind"`
	TicketID    string           `json:"ticket_id"`
	TicketTitle string           `json:"ticket_title"`
	CompanyID   string           `json:"company_id"`
	ActorID     string           `json:"actor_id,omitempty"`
	OldValue    string           `json:"old_value,omitempty"`
	NewValue    string           `json:"new_value,omitempty"`
}

// Sender delivers a payload to the external collaborator. The response is
// an opaque acknowledgment; implementations decide transport.
type Sender interface {
	Send(ctx context.Context, payload NotificationPayload) error
}

// NotificationDispatcher turns classified change events into outbound
// delivery requests. At-most-once per invocation; the feed may redeliver, so
// end-to-end the guarantee is at-least-once and recipients must tolerate
// duplicates.
type NotificationDispatcher struct {
	sender Sender
	logger *zap.Logger
}

// NewNotificationDispatcher creates the dispatcher.
func NewNotificationDispatcher(sender Sender, logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{sender: sender, logger: logger}
}

// Dispatch sends one event. Errors are reported to the caller for logging;
// there is no retry here.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, event domain.ChangeEvent) error {
	if d.sender == nil {
		d.logger.Debug("no sender configured; dropping event",
			zap.String("kind", string(event.Kind)),
			zap.String("ticket_id", event.TicketID))
		return nil
	}

	payload := NotificationPayload{
		Kind:        event.Kind,
		TicketID:    event.TicketID,
		TicketTitle: event.TicketTitle,
		CompanyID:   event.CompanyID,
		ActorID:     event.ActorID,
		OldValue:    event.OldValue,
		NewValue:    event.NewValue,
	}
	if err := d.sender.Send(ctx, payload); err != nil {
		return apperrors.NewDispatchError(err)
	}

	d.logger.Info("notification sent",
		zap.String("kind", string(event.Kind)),
		zap.String("ticket_id", event.TicketID),
		zap.String("company_id", event.CompanyID))
	return nil
}

// WebhookSender posts payloads to a configured webhook endpoint.
type WebhookSender struct {
	cfg config.NotificationConfig
}

// NewWebhookSender builds a sender, or nil when no webhook is configured.
func NewWebhookSender(cfg config.NotificationConfig) *WebhookSender {
	if cfg.WebhookURL == "" {
		return nil
	}
	return &WebhookSender{cfg: cfg}
}

// Send delivers the payload with a bounded timeout. The fiber Agent has no
// context hook, so cancellation is honored by checking ctx up front and
// clamping the timeout to the context deadline.
func (s *WebhookSender) Send(ctx context.Context, payload NotificationPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := s.cfg.Timeout()
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(s.cfg.WebhookURL)
	agent.Timeout(timeout)
	agent.JSON(payload)

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("webhook responded %d", code)
	}
	return nil
}
