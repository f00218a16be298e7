package watch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/observability"
)

const (
	feedRetryMin = time.Second
	feedRetryMax = 30 * time.Second
)

// Dispatcher delivers a classified event to the outside world.
type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.ChangeEvent) error
}

// Watcher consumes the mutation feed, classifies each mutation, and hands
// classified events to the dispatcher. It runs alongside request handling,
// not inside it: a dispatch failure is logged and swallowed here and can
// never fail or roll back the mutation that produced the event.
type Watcher struct {
	feed       Feed
	dispatcher Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	retryMin   time.Duration
	retryMax   time.Duration
}

// NewWatcher constructs a watcher.
func NewWatcher(feed Feed, dispatcher Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *Watcher {
	return &Watcher{
		feed:       feed,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		retryMin:   feedRetryMin,
		retryMax:   feedRetryMax,
	}
}

// Run subscribes and processes mutations until ctx is cancelled. A dropped
// subscription is not fatal: the stream is reopened with backoff, so a
// database restart pauses notifications instead of killing them. Mutations
// during the gap are missed, which keeps end-to-end delivery at-least-once
// rather than exactly-once. Each mutation is handled independently; no state
// is shared across iterations beyond the event payload itself.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.feed.Close(); err != nil {
			w.logger.Warn("closing mutation feed", zap.Error(err))
		}
	}()

	retry := w.retryMin
	for {
		if err := w.feed.Subscribe(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("mutation feed subscribe failed",
				zap.Error(err),
				zap.Duration("retry_in", retry))
		} else {
			retry = w.retryMin
			if err := w.consume(ctx); err != nil {
				return err
			}
			w.metrics.RecordEvent("feed_dropped")
			w.logger.Warn("mutation feed dropped, resubscribing",
				zap.Duration("retry_in", retry))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
		if retry *= 2; retry > w.retryMax {
			retry = w.retryMax
		}
	}
}

// consume drains one subscription. Returns nil when the stream closes and
// ctx.Err() on cancellation.
func (w *Watcher) consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case mutation, ok := <-w.feed.Changes():
			if !ok {
				return nil
			}
			w.handle(ctx, mutation)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, mutation Mutation) {
	event, ok := Classify(mutation)
	if !ok {
		w.metrics.RecordEvent("dropped")
		return
	}
	w.metrics.RecordEvent(string(event.Kind))

	if err := w.dispatcher.Dispatch(ctx, event); err != nil {
		// Best effort: no retry, no propagation to the write path.
		w.logger.Warn("dispatch failed",
			zap.String("kind", string(event.Kind)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
		return
	}
	w.logger.Debug("event dispatched",
		zap.String("kind", string(event.Kind)),
		zap.String("ticket_id", event.TicketID))
}
