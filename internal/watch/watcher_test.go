package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/observability"
)

// fakeFeed serves one prepared channel per Subscribe call, mirroring the
// resubscription contract of the real feed.
type fakeFeed struct {
	mu      sync.Mutex
	streams []chan Mutation
	subs    int
	closed  bool
}

func newFakeFeed(streams ...chan Mutation) *fakeFeed {
	return &fakeFeed{streams: streams}
}

func (f *fakeFeed) Subscribe(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs < len(f.streams) {
		f.subs++
	}
	return nil
}

func (f *fakeFeed) Changes() <-chan Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streams[f.subs-1]
}

func (f *fakeFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeFeed) subscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs
}

func (f *fakeFeed) wasClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	fail   map[string]error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event domain.ChangeEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.fail[event.TicketID]; ok {
		return err
	}
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) dispatched() []domain.ChangeEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.ChangeEvent(nil), d.events...)
}

func (d *recordingDispatcher) waitFor(t *testing.T, count int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(d.dispatched()) >= count {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d dispatched events, got %d", count, len(d.dispatched()))
}

func startWatcher(t *testing.T, feed Feed, dispatcher Dispatcher, metrics *observability.Metrics) (chan error, context.CancelFunc) {
	t.Helper()
	watcher := NewWatcher(feed, dispatcher, zap.NewNop(), metrics)
	watcher.retryMin = time.Millisecond
	watcher.retryMax = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx)
	}()
	return done, cancel
}

func waitStopped(t *testing.T, done chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
		return nil
	}
}

func TestWatcherDispatchesClassifiedEvents(t *testing.T) {
	stream := make(chan Mutation, 16)
	feed := newFakeFeed(stream)
	dispatcher := &recordingDispatcher{}
	metrics := observability.NewMetrics()
	done, cancel := startWatcher(t, feed, dispatcher, metrics)

	before := &TicketRow{ID: "ticket-001", CompanyID: "company-1", Title: "printer down", Status: "OPEN"}
	after := &TicketRow{ID: "ticket-001", CompanyID: "company-1", Title: "printer down", Status: "IN_PROGRESS"}

	stream <- Mutation{Op: OpUpdate, Before: before, After: after}
	// Same row again with only a title edit: no event.
	retitled := &TicketRow{ID: "ticket-001", CompanyID: "company-1", Title: "printer jam", Status: "IN_PROGRESS"}
	stream <- Mutation{Op: OpUpdate, Before: after, After: retitled}

	dispatcher.waitFor(t, 1)
	cancel()
	require.ErrorIs(t, waitStopped(t, done), context.Canceled)
	require.True(t, feed.wasClosed())

	events := dispatcher.dispatched()
	require.Len(t, events, 1)
	require.Equal(t, domain.EventStatusChanged, events[0].Kind)
	require.Equal(t, int64(1), metrics.EventCount(string(domain.EventStatusChanged)))
	require.Equal(t, int64(1), metrics.EventCount("dropped"))
}

func TestWatcherSwallowsDispatchFailures(t *testing.T) {
	stream := make(chan Mutation, 16)
	feed := newFakeFeed(stream)
	dispatcher := &recordingDispatcher{fail: map[string]error{"ticket-bad": errors.New("webhook down")}}
	done, cancel := startWatcher(t, feed, dispatcher, observability.NewMetrics())

	bad := &TicketRow{ID: "ticket-bad", CompanyID: "company-1", Title: "a", Status: "OPEN"}
	good := &TicketRow{ID: "ticket-good", CompanyID: "company-1", Title: "b", Status: "OPEN"}

	stream <- Mutation{Op: OpInsert, After: bad}
	stream <- Mutation{Op: OpInsert, After: good}

	// The failed dispatch must not stop the loop.
	dispatcher.waitFor(t, 1)
	cancel()
	require.ErrorIs(t, waitStopped(t, done), context.Canceled)

	events := dispatcher.dispatched()
	require.Len(t, events, 1)
	require.Equal(t, "ticket-good", events[0].TicketID)
}

func TestWatcherResubscribesAfterFeedDrop(t *testing.T) {
	first := make(chan Mutation, 1)
	second := make(chan Mutation, 1)
	feed := newFakeFeed(first, second)
	dispatcher := &recordingDispatcher{}
	metrics := observability.NewMetrics()
	done, cancel := startWatcher(t, feed, dispatcher, metrics)

	first <- Mutation{Op: OpInsert, After: &TicketRow{ID: "ticket-001", CompanyID: "company-1", Title: "a", Status: "OPEN"}}
	close(first)

	// The drop must not end the loop; the next stream keeps delivering.
	dispatcher.waitFor(t, 1)
	second <- Mutation{Op: OpInsert, After: &TicketRow{ID: "ticket-002", CompanyID: "company-1", Title: "b", Status: "OPEN"}}

	dispatcher.waitFor(t, 2)
	require.GreaterOrEqual(t, feed.subscribeCount(), 2)
	require.Equal(t, int64(1), metrics.EventCount("feed_dropped"))

	cancel()
	require.ErrorIs(t, waitStopped(t, done), context.Canceled)
	require.True(t, feed.wasClosed())

	events := dispatcher.dispatched()
	require.Len(t, events, 2)
	require.Equal(t, "ticket-001", events[0].TicketID)
	require.Equal(t, "ticket-002", events[1].TicketID)
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	feed := newFakeFeed(make(chan Mutation))
	done, cancel := startWatcher(t, feed, &recordingDispatcher{}, observability.NewMetrics())

	cancel()
	require.ErrorIs(t, waitStopped(t, done), context.Canceled)
	require.True(t, feed.wasClosed())
}
