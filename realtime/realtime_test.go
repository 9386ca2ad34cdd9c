package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"blog-cms/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBroker is an in-process Broker shared by several "instances".
type memoryBroker struct {
	mu      sync.Mutex
	subs    []chan [2]string
	fail    bool
	publish int
}

func (b *memoryBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publish++
	if b.fail {
		return errors.New("broker down")
	}
	for _, s := range b.subs {
		s <- [2]string{channel, string(payload)}
	}
	return nil
}

func (b *memoryBroker) Subscribe(ctx context.Context, _ []string, handler Handler) error {
	ch := make(chan [2]string, 16)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-ch:
			handler(m[0], []byte(m[1]))
		}
	}
}

func (b *memoryBroker) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *memoryBroker) published() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.publish
}

func (b *memoryBroker) Ping(context.Context) error { return nil }
func (b *memoryBroker) Close() error               { return nil }

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r)
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, hub *Hub, url string) *websocket.Conn {
	t.Helper()
	before := hub.ClientCount()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return hub.ClientCount() > before }, time.Second, 5*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHubBroadcast(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, hub, url)
	b := dial(t, hub, url)

	hub.Broadcast(Message{Event: EventCommentAdded, Data: json.RawMessage(`{"id":1}`)})

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		assert.Equal(t, EventCommentAdded, msg.Event)
		assert.JSONEq(t, `{"id":1}`, string(msg.Data))
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestFanoutEmitsLocallyAndPublishes(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url)
	broker := &memoryBroker{}
	fanout := NewFanout(broker, hub, "instance-a", zerolog.Nop())

	fanout.VoteAdded(context.Background(), &models.Vote{ID: 4, VoteType: models.VoteUp, IPAddress: "10.0.0.1", CommentID: 5})
	fanout.Wait()

	msg := readMessage(t, conn)
	assert.Equal(t, EventVoteAdded, msg.Event)
	var vote models.Vote
	require.NoError(t, json.Unmarshal(msg.Data, &vote))
	assert.Equal(t, uint(5), vote.CommentID)
	assert.Equal(t, 1, broker.published())
}

func TestFanoutSwallowsBrokerFailure(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url)
	broker := &memoryBroker{fail: true}
	fanout := NewFanout(broker, hub, "instance-a", zerolog.Nop())

	assert.NotPanics(t, func() {
		fanout.CommentAdded(context.Background(), &models.Comment{ID: 1, Content: "hi", ArticleID: 2})
	})
	fanout.Wait()

	msg := readMessage(t, conn)
	assert.Equal(t, EventCommentAdded, msg.Event)
	assert.Equal(t, 1, broker.published())
}

func TestRelayForwardsOtherInstances(t *testing.T) {
	broker := &memoryBroker{}

	hubA, urlA := startHub(t)
	hubB, urlB := startHub(t)
	connA := dial(t, hubA, urlA)
	connB := dial(t, hubB, urlB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewRelay(broker, hubA, "a", zerolog.Nop()).Run(ctx)
	go NewRelay(broker, hubB, "b", zerolog.Nop()).Run(ctx)
	require.Eventually(t, func() bool { return broker.subscribers() == 2 }, time.Second, 5*time.Millisecond)

	fanoutA := NewFanout(broker, hubA, "a", zerolog.Nop())
	fanoutA.CommentAdded(ctx, &models.Comment{ID: 7, Content: "cross", ArticleID: 1})
	fanoutA.Wait()

	// local emit on A, relayed on B
	assert.Equal(t, EventCommentAdded, readMessage(t, connA).Event)
	msg := readMessage(t, connB)
	assert.Equal(t, EventCommentAdded, msg.Event)
	assert.Contains(t, string(msg.Data), `"cross"`)

	// A must not see its own message twice
	require.NoError(t, connA.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := connA.ReadMessage()
	assert.Error(t, err)
}

type flakyBroker struct {
	NopBroker
	mu    sync.Mutex
	calls int
}

func (b *flakyBroker) Subscribe(ctx context.Context, channels []string, handler Handler) error {
	b.mu.Lock()
	b.calls++
	n := b.calls
	b.mu.Unlock()
	if n < 3 {
		return errors.New("connection refused")
	}
	return b.NopBroker.Subscribe(ctx, channels, handler)
}

func (b *flakyBroker) attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func TestRelayRetriesSubscribe(t *testing.T) {
	broker := &flakyBroker{}
	relay := NewRelay(broker, NewHub(zerolog.Nop()), "a", zerolog.Nop())
	relay.MinBackoff = time.Millisecond
	relay.MaxBackoff = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return broker.attempts() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
