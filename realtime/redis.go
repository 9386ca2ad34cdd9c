package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultDialTimeout = 5 * time.Second

type RedisConfig struct {
	Addr     string
	DB       int
	Password string
	Timeout  time.Duration
}

// RedisBroker publishes over Redis pub/sub. The client is created on first
// use and dropped after an error so the next call dials again.
type RedisBroker struct {
	cfg RedisConfig
	log zerolog.Logger

	mu     sync.Mutex
	client *redis.Client
}

func NewRedisBroker(cfg RedisConfig, log zerolog.Logger) *RedisBroker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultDialTimeout
	}
	return &RedisBroker{cfg: cfg, log: log}
}

func (b *RedisBroker) acquire(ctx context.Context) (*redis.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		return b.client, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     b.cfg.Addr,
		DB:       b.cfg.DB,
		Password: b.cfg.Password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	b.log.Info().Str("addr", b.cfg.Addr).Msg("redis broker connected")
	b.client = client
	return client, nil
}

// release drops client if it is still the current one.
func (b *RedisBroker) release(client *redis.Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client == client {
		_ = client.Close()
		b.client = nil
	}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	client, err := b.acquire(ctx)
	if err != nil {
		return err
	}

	if err := client.Publish(ctx, channel, payload).Err(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			b.release(client)
		}
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, channels []string, handler Handler) error {
	client, err := b.acquire(ctx)
	if err != nil {
		return err
	}

	sub := client.Subscribe(ctx, channels...)
	defer sub.Close()

	// wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		b.release(client)
		return fmt.Errorf("redis subscribe: %w", err)
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errors.New("redis subscription closed")
			}
			handler(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (b *RedisBroker) Ping(ctx context.Context) error {
	client, err := b.acquire(ctx)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		b.release(client)
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (b *RedisBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client == nil {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	return err
}
