package watch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresFeed subscribes to the ticket mutation channel emitted by the
// tickets trigger, over a dedicated connection held for the lifetime of the
// subscription. If the connection drops, the stream closes and Subscribe may
// be called again to open a fresh one; mutations during the gap are lost at
// this layer, so overall delivery is at-least-once, not exactly-once.
type PostgresFeed struct {
	pool    *pgxpool.Pool
	channel string
	logger  *zap.Logger

	mu      sync.Mutex
	conn    *pgxpool.Conn
	changes chan Mutation
}

// NewPostgresFeed builds a feed over the given pool and notify channel.
func NewPostgresFeed(pool *pgxpool.Pool, channel string, logger *zap.Logger) *PostgresFeed {
	return &PostgresFeed{
		pool:    pool,
		channel: channel,
		logger:  logger,
		changes: make(chan Mutation, 64),
	}
}

// Subscribe acquires a connection, issues LISTEN, and starts pumping
// notifications until ctx is cancelled or the connection fails. Each call
// replaces the changes channel; the channel is closed when its pump stops,
// which is the signal to resubscribe.
func (f *PostgresFeed) Subscribe(ctx context.Context) error {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return err
	}

	listen := "LISTEN " + pgx.Identifier{f.channel}.Sanitize()
	if _, err := conn.Exec(ctx, listen); err != nil {
		conn.Release()
		return err
	}

	f.mu.Lock()
	f.conn = conn
	f.changes = make(chan Mutation, 64)
	changes := f.changes
	f.mu.Unlock()

	go f.pump(ctx, conn, changes)
	return nil
}

func (f *PostgresFeed) pump(ctx context.Context, conn *pgxpool.Conn, changes chan Mutation) {
	defer close(changes)
	defer conn.Release()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				f.logger.Warn("mutation feed interrupted", zap.Error(err))
			}
			return
		}

		var mutation Mutation
		if err := json.Unmarshal([]byte(notification.Payload), &mutation); err != nil {
			f.logger.Warn("malformed mutation payload", zap.Error(err))
			continue
		}

		select {
		case changes <- mutation:
		case <-ctx.Done():
			return
		}
	}
}

// Changes returns the current mutation stream. After a resubscribe this is
// a new channel, so callers must re-read it on every receive.
func (f *PostgresFeed) Changes() <-chan Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.changes
}

// Close releases the subscription connection if still held. Safe to call
// after the pump has already released it.
func (f *PostgresFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conn = nil
	return nil
}
