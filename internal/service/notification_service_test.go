package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/config"
	"github.com/spec-kit/helpdesk-core/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-core/pkg/util"
)

func TestDispatchBuildsPayloadFromEvent(t *testing.T) {
	sender := &fakeSender{}
	dispatcher := NewNotificationDispatcher(sender, zap.NewNop())

	event := domain.ChangeEvent{
		Kind:        domain.EventStatusChanged,
		TicketID:    "ticket-001",
		TicketTitle: "printer down",
		CompanyID:   "company-1",
		ActorID:     "tech-1",
		OldValue:    "OPEN",
		NewValue:    "IN_PROGRESS",
	}
	require.NoError(t, dispatcher.Dispatch(context.Background(), event))

	require.Len(t, sender.sent, 1)
	payload := sender.sent[0]
	require.Equal(t, domain.EventStatusChanged, payload.Kind)
	require.Equal(t, "ticket-001", payload.TicketID)
	require.Equal(t, "printer down", payload.TicketTitle)
	require.Equal(t, "company-1", payload.CompanyID)
	require.Equal(t, "tech-1", payload.ActorID)
	require.Equal(t, "OPEN", payload.OldValue)
	require.Equal(t, "IN_PROGRESS", payload.NewValue)
}

func TestDispatchSenderFailure(t *testing.T) {
	sender := &fakeSender{failWith: errSendFailed}
	dispatcher := NewNotificationDispatcher(sender, zap.NewNop())

	err := dispatcher.Dispatch(context.Background(), domain.ChangeEvent{
		Kind:     domain.EventCreated,
		TicketID: "ticket-001",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDispatchFailed))
	require.ErrorIs(t, err, errSendFailed)
}

func TestWebhookSenderCancelledContext(t *testing.T) {
	sender := NewWebhookSender(config.NotificationConfig{WebhookURL: "http://localhost:0/hook", TimeoutSeconds: 5})
	require.NotNil(t, sender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, NotificationPayload{Kind: domain.EventCreated, TicketID: "ticket-001"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDispatchWithoutSenderDropsQuietly(t *testing.T) {
	dispatcher := NewNotificationDispatcher(nil, zap.NewNop())

	err := dispatcher.Dispatch(context.Background(), domain.ChangeEvent{
		Kind:     domain.EventCreated,
		TicketID: "ticket-001",
	})
	require.NoError(t, err)
}
