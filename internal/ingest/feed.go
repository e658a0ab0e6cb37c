// Package ingest appends trade events from a live WebSocket feed to an
// event store. The feed carries the same JSON records as the on-disk
// dataset, one object per message.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"power-band-lab/internal/dataset"
	"power-band-lab/internal/idhash"
	"power-band-lab/internal/observability"
	"power-band-lab/internal/storage"
)

// FeedConfig configures follower connection behavior.
type FeedConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
}

// DefaultFeedConfig returns default follower configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		PingInterval:      30 * time.Second,
	}
}

// Follower consumes a live event feed and appends decoded events to a store.
type Follower struct {
	endpoint string
	config   FeedConfig
	store    storage.EventStore
	logger   zerolog.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool
	seq    atomic.Int64 // feeds the deterministic event ID, seeded from the store

	done chan struct{}
	wg   sync.WaitGroup
}

// NewFollower creates a follower over the given endpoint and store.
func NewFollower(endpoint string, store storage.EventStore, logger zerolog.Logger, config *FeedConfig) *Follower {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}
	return &Follower{
		endpoint: endpoint,
		config:   cfg,
		store:    store,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Run connects to the feed and consumes messages until the context is
// canceled or Close is called. It reconnects with backoff on read errors.
func (f *Follower) Run(ctx context.Context) error {
	if err := f.seedSequence(ctx); err != nil {
		return err
	}

	reconnectDelay := f.config.ReconnectDelay

	for {
		if f.closed.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return nil
		default:
		}

		if err := f.connect(ctx); err != nil {
			f.logger.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("feed dial failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-f.done:
				return nil
			case <-time.After(reconnectDelay):
			}
			reconnectDelay = minDuration(reconnectDelay*2, f.config.MaxReconnectDelay)
			continue
		}
		reconnectDelay = f.config.ReconnectDelay
		f.logger.Info().Str("endpoint", f.endpoint).Msg("feed connected")

		f.startPingLoop()

		if err := f.readMessages(ctx); err != nil {
			if f.closed.Load() || errors.Is(err, context.Canceled) {
				return nil
			}
			f.logger.Warn().Err(err).Msg("feed read failed, reconnecting")
		}
	}
}

// seedSequence continues feed numbering after whatever the store already
// holds, so a restarted follower does not reuse sequence numbers from a
// previous session.
func (f *Follower) seedSequence(ctx context.Context) error {
	existing, err := f.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("seed feed sequence: %w", err)
	}
	f.seq.Store(int64(len(existing)))
	return nil
}

// connect establishes the WebSocket connection.
func (f *Follower) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	f.connMu.Lock()
	f.conn = conn
	f.connMu.Unlock()
	return nil
}

// readMessages consumes one connection until it fails.
func (f *Follower) readMessages(ctx context.Context) error {
	f.connMu.Lock()
	conn := f.conn
	f.connMu.Unlock()

	for {
		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			return err
		}

		var rec map[string]any
		if err := json.Unmarshal(data, &rec); err != nil {
			observability.DefaultMetrics.RecordDecodeErrors.WithLabelValues("json").Inc()
			f.logger.Warn().Err(err).Msg("feed message is not a JSON object, skipped")
			continue
		}

		event := dataset.DecodeRecord(rec, idhash.SourceFeed, int(f.seq.Add(1)))
		if err := f.store.Insert(ctx, event); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			conn.Close()
			return fmt.Errorf("store feed event: %w", err)
		}
		observability.RecordFeedEvent()
	}
}

// startPingLoop keeps the current connection alive.
func (f *Follower) startPingLoop() {
	f.connMu.Lock()
	conn := f.conn
	f.connMu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		ticker := time.NewTicker(f.config.PingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-f.done:
				return
			case <-ticker.C:
				f.connMu.Lock()
				if f.conn != conn {
					f.connMu.Unlock()
					return
				}
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
				f.connMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()
}

// Close stops the follower and closes the connection.
func (f *Follower) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	close(f.done)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		f.conn.Close()
	}
	f.connMu.Unlock()

	f.wg.Wait()
	return nil
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
