package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lakshayyy10/BioSync/internal/domain"
)

// RedisFeed subscribes to one Redis pub/sub channel.
type RedisFeed struct {
	client *goredis.Client
	sub    *goredis.PubSub

	msgs      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// NewRedisFeed connects to Redis and subscribes to the topic channel.
func NewRedisFeed(ctx context.Context, redisURL, topic string) (*RedisFeed, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", opt.Addr, err)
	}

	sub := client.Subscribe(ctx, topic)
	// Confirm the subscription before declaring the feed live.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		_ = client.Close()
		return nil, fmt.Errorf("subscribe to %q: %w", topic, err)
	}

	f := &RedisFeed{
		client: client,
		sub:    sub,
		msgs:   make(chan []byte, 64),
		done:   make(chan struct{}),
	}
	go f.pump()

	slog.Info("Subscribed to feed topic", "backend", "redis", "addr", opt.Addr, "topic", topic)
	return f, nil
}

func (f *RedisFeed) pump() {
	ch := f.sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				f.fail(domain.ErrFeedClosed)
				return
			}
			select {
			case f.msgs <- []byte(msg.Payload):
			case <-f.done:
				return
			}
		case <-f.done:
			return
		}
	}
}

func (f *RedisFeed) Messages() <-chan []byte { return f.msgs }

func (f *RedisFeed) Done() <-chan struct{} { return f.done }

func (f *RedisFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close unsubscribes and releases the Redis connection. Safe to call more
// than once.
func (f *RedisFeed) Close() {
	f.closeOnce.Do(func() {
		close(f.done)
		_ = f.sub.Close()
		_ = f.client.Close()
		slog.Info("Disconnected from Redis feed")
	})
}

func (f *RedisFeed) fail(err error) {
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
	f.closeOnce.Do(func() {
		close(f.done)
		_ = f.sub.Close()
		_ = f.client.Close()
	})
}
