package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

var errBrokerClosed = errors.New("rabbitmq broker closed")

const (
	amqpHeartbeat = 10 * time.Second
	amqpLocale    = "en_US"
)

// AMQPBroker publishes to a RabbitMQ topic exchange, using the channel name as
// routing key. Each subscriber gets its own exclusive auto-deleted queue.
//
// The connection is dialled without holding mu. Callers arriving while a dial
// is in flight wait for it or for their own context, whichever ends first.
type AMQPBroker struct {
	url         string
	exchange    string
	dialTimeout time.Duration
	log         zerolog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	dialing chan struct{}
	closed  bool

	// serialises writes on ch
	pubMu sync.Mutex
}

func NewAMQPBroker(url, exchange string, log zerolog.Logger) *AMQPBroker {
	return &AMQPBroker{url: url, exchange: exchange, dialTimeout: defaultDialTimeout, log: log}
}

// session returns a live connection and publishing channel, dialling if needed.
func (b *AMQPBroker) session(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return nil, nil, errBrokerClosed
		}
		if b.conn != nil && !b.conn.IsClosed() && b.ch != nil && !b.ch.IsClosed() {
			conn, ch := b.conn, b.ch
			b.mu.Unlock()
			return conn, ch, nil
		}
		if wait := b.dialing; wait != nil {
			b.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			}
		}
		b.reset()
		done := make(chan struct{})
		b.dialing = done
		b.mu.Unlock()

		conn, ch, err := b.dial(ctx)

		b.mu.Lock()
		b.dialing = nil
		if err == nil && b.closed {
			_ = ch.Close()
			_ = conn.Close()
			conn, ch, err = nil, nil, errBrokerClosed
		}
		if err == nil {
			b.conn, b.ch = conn, ch
		}
		b.mu.Unlock()
		close(done)

		return conn, ch, err
	}
}

func (b *AMQPBroker) dial(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
	timeout := b.dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, nil, context.DeadlineExceeded
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	conn, err := amqp.DialConfig(b.url, amqp.Config{
		Heartbeat: amqpHeartbeat,
		Locale:    amqpLocale,
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(b.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare RabbitMQ exchange: %w", err)
	}

	b.log.Info().Str("exchange", b.exchange).Msg("rabbitmq broker connected")
	return conn, ch, nil
}

// reset must be called with mu held.
func (b *AMQPBroker) reset() {
	if b.ch != nil {
		_ = b.ch.Close()
		b.ch = nil
	}
	if b.conn != nil {
		_ = b.conn.Close()
		b.conn = nil
	}
}

// discard drops ch if it is still the current channel.
func (b *AMQPBroker) discard(ch *amqp.Channel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch == ch {
		b.reset()
	}
}

func (b *AMQPBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	_, ch, err := b.session(ctx)
	if err != nil {
		return err
	}

	b.pubMu.Lock()
	err = ch.PublishWithContext(ctx, b.exchange, channel, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        payload,
	})
	b.pubMu.Unlock()
	if err != nil {
		b.discard(ch)
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (b *AMQPBroker) Subscribe(ctx context.Context, channels []string, handler Handler) error {
	conn, _, err := b.session(ctx)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare RabbitMQ queue: %w", err)
	}
	for _, name := range channels {
		if err := ch.QueueBind(q.Name, name, b.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind RabbitMQ queue: %w", err)
		}
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume RabbitMQ queue: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq deliveries closed")
			}
			handler(d.RoutingKey, d.Body)
		}
	}
}

func (b *AMQPBroker) Ping(ctx context.Context) error {
	_, _, err := b.session(ctx)
	return err
}

func (b *AMQPBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.reset()
	return nil
}
