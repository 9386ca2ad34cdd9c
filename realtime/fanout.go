package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"blog-cms/metrics"
	"blog-cms/models"

	"github.com/rs/zerolog"
)

const defaultPublishTimeout = 3 * time.Second

// Envelope is the broker payload. Origin identifies the publishing instance so
// it can ignore its own messages when they come back.
type Envelope struct {
	Origin string          `json:"origin"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

// Fanout emits new records to local websocket clients and publishes them to
// the broker. Failures are logged and counted, never returned.
type Fanout struct {
	broker     Broker
	hub        *Hub
	instanceID string
	timeout    time.Duration
	log        zerolog.Logger

	wg sync.WaitGroup
}

func NewFanout(broker Broker, hub *Hub, instanceID string, log zerolog.Logger) *Fanout {
	return &Fanout{
		broker:     broker,
		hub:        hub,
		instanceID: instanceID,
		timeout:    defaultPublishTimeout,
		log:        log,
	}
}

func (f *Fanout) CommentAdded(_ context.Context, comment *models.Comment) {
	f.dispatch(ChannelComments, EventCommentAdded, comment)
}

func (f *Fanout) VoteAdded(_ context.Context, vote *models.Vote) {
	f.dispatch(ChannelVotes, EventVoteAdded, vote)
}

func (f *Fanout) dispatch(channel, event string, record interface{}) {
	data, err := json.Marshal(record)
	if err != nil {
		f.log.Error().Err(err).Str("event", event).Msg("failed to encode realtime record")
		return
	}

	f.hub.Broadcast(Message{Event: event, Data: data})

	payload, err := json.Marshal(Envelope{Origin: f.instanceID, Event: event, Data: data})
	if err != nil {
		f.log.Error().Err(err).Str("event", event).Msg("failed to encode broker envelope")
		return
	}

	// the request that triggered this has its own lifetime; publish on a detached context
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		if err := f.broker.Publish(ctx, channel, payload); err != nil {
			metrics.FanoutPublishTotal.WithLabelValues(channel, "error").Inc()
			f.log.Warn().Err(err).Str("channel", channel).Str("event", event).Msg("realtime publish failed")
			return
		}
		metrics.FanoutPublishTotal.WithLabelValues(channel, "ok").Inc()
	}()
}

// Wait blocks until in-flight publishes finish.
func (f *Fanout) Wait() {
	f.wg.Wait()
}
