// Package viewer implements the presentation-consumer side of the relay:
// it dials the delivery WebSocket, decodes each payload into a reading and
// folds it through the vitals windowing engine.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/lakshayyy10/BioSync/internal/domain"
	"github.com/lakshayyy10/BioSync/internal/metrics"
	"github.com/lakshayyy10/BioSync/internal/vitals"
)

// Options configures a viewer client.
type Options struct {
	// WindowCapacity is the rolling-window size; 0 means the default (60).
	WindowCapacity int
	// Clock stamps samples; nil means the real clock.
	Clock clockwork.Clock
	// OnSample, if set, is called after each decoded reading is applied.
	OnSample func(domain.Sample)
}

// Client is one connected viewer.
type Client struct {
	conn     *websocket.Conn
	decoder  domain.Decoder
	onSample func(domain.Sample)

	mu    sync.Mutex
	state *vitals.State

	closeOnce sync.Once
}

// Dial connects to the relay's delivery endpoint.
func Dial(ctx context.Context, url string, opts Options) (*Client, error) {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	return &Client{
		conn:     conn,
		decoder:  domain.NewDecoder(),
		onSample: opts.OnSample,
		state:    vitals.NewState(opts.WindowCapacity, clock),
	}, nil
}

// Run consumes the delivery stream until the transport closes. A payload
// that does not decode is logged and skipped; it does not tear down the
// session. Returns nil on a normal close.
func (c *Client) Run() error {
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read delivery stream: %w", err)
		}

		reading, err := c.decoder.Decode(payload)
		if err != nil {
			metrics.ReadingDecodeFailuresTotal.Inc()
			slog.Warn("Skipping undecodable payload", "error", err)
			continue
		}

		c.mu.Lock()
		sample := c.state.Apply(reading)
		c.mu.Unlock()

		if c.onSample != nil {
			c.onSample(sample)
		}
	}
}

// Samples returns the current rolling window, oldest first.
func (c *Client) Samples() []domain.Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Window().Samples()
}

// Latest returns the most recent sample, or false before the first reading.
func (c *Client) Latest() (domain.Sample, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Window().Latest()
}

// Close tears down the transport; Run returns shortly after.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}
