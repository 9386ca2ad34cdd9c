package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Relay forwards broker messages published by other instances to this
// instance's websocket clients.
type Relay struct {
	broker     Broker
	hub        *Hub
	instanceID string
	log        zerolog.Logger

	MinBackoff time.Duration
	MaxBackoff time.Duration
}

func NewRelay(broker Broker, hub *Hub, instanceID string, log zerolog.Logger) *Relay {
	return &Relay{
		broker:     broker,
		hub:        hub,
		instanceID: instanceID,
		log:        log,
		MinBackoff: 500 * time.Millisecond,
		MaxBackoff: 30 * time.Second,
	}
}

// Run subscribes until ctx is cancelled, resubscribing with backoff whenever
// the broker connection breaks.
func (r *Relay) Run(ctx context.Context) {
	backoff := r.MinBackoff
	for {
		started := time.Now()
		err := r.broker.Subscribe(ctx, []string{ChannelComments, ChannelVotes}, r.handle)
		if ctx.Err() != nil {
			return
		}

		if time.Since(started) > r.MaxBackoff {
			backoff = r.MinBackoff
		}
		r.log.Warn().Err(err).Dur("retry_in", backoff).Msg("realtime subscription lost")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > r.MaxBackoff {
			backoff = r.MaxBackoff
		}
	}
}

func (r *Relay) handle(channel string, payload []byte) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		r.log.Warn().Err(err).Str("channel", channel).Msg("discarding malformed broker message")
		return
	}
	if env.Origin == r.instanceID {
		return
	}
	r.hub.Broadcast(Message{Event: env.Event, Data: env.Data})
}
