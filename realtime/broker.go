// Package realtime pushes new comments and votes to websocket clients, locally
// and across instances through a pub/sub broker.
package realtime

import (
	"context"
)

const (
	ChannelComments = "comments"
	ChannelVotes    = "votes"

	EventCommentAdded = "commentAdded"
	EventVoteAdded    = "voteAdded"
)

// Handler receives one broker message.
type Handler func(channel string, payload []byte)

// Broker is a pub/sub transport. Implementations connect lazily and
// reconnect on the next call after a failure.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe blocks delivering messages until ctx is done or the
	// subscription breaks.
	Subscribe(ctx context.Context, channels []string, handler Handler) error
	Ping(ctx context.Context) error
	Close() error
}

// NopBroker keeps fan-out local to the process.
type NopBroker struct{}

func (NopBroker) Publish(context.Context, string, []byte) error { return nil }

func (NopBroker) Subscribe(ctx context.Context, _ []string, _ Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (NopBroker) Ping(context.Context) error { return nil }

func (NopBroker) Close() error { return nil }
