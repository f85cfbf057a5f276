package ingest

import (
	"context"
	"fmt"

	"github.com/lakshayyy10/BioSync/internal/metrics"
)

// Feed is a single-topic pub/sub subscription producing raw payloads.
type Feed interface {
	// Messages yields payloads in arrival order. The channel is never
	// closed; consumers select on Done for termination.
	Messages() <-chan []byte
	// Done is closed when the feed fails or is closed.
	Done() <-chan struct{}
	// Err reports why the feed stopped; nil after a clean Close.
	Err() error
	// Close releases the subscription and the underlying connection.
	Close()
}

// Sink receives every consumed payload. Satisfied by broadcast.Broadcaster.
type Sink interface {
	Broadcast(payload []byte)
}

// Consume is the single ingest loop: it blocks on the feed and hands every
// payload to the sink untouched. Returns nil when ctx is cancelled and the
// feed's error when the feed dies. A dead feed is fatal to the caller; it
// is not restarted here.
func Consume(ctx context.Context, feed Feed, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-feed.Done():
			if err := feed.Err(); err != nil {
				metrics.FeedDisconnectsTotal.Inc()
				return fmt.Errorf("feed terminated: %w", err)
			}
			return nil
		case payload := <-feed.Messages():
			metrics.IngestMessagesTotal.Inc()
			metrics.IngestBytesTotal.Add(float64(len(payload)))
			sink.Broadcast(payload)
		}
	}
}
