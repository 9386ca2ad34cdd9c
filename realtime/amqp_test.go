package realtime

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// silentServer accepts TCP connections and never answers the AMQP handshake,
// like a broker behind a dropped route.
func silentServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()

	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestAMQPPublishHonoursDeadline(t *testing.T) {
	b := NewAMQPBroker(silentServer(t), "blog.test", zerolog.Nop())
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := b.Publish(ctx, ChannelComments, []byte(`{}`))
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAMQPWaitersDoNotQueueBehindDial(t *testing.T) {
	b := NewAMQPBroker(silentServer(t), "blog.test", zerolog.Nop())
	defer b.Close()

	dialing := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
		defer cancel()
		dialing <- b.Publish(ctx, ChannelVotes, []byte(`{}`))
	}()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := b.Ping(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	select {
	case err := <-dialing:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first publish did not give up at its deadline")
	}
}

func TestAMQPExpiredContext(t *testing.T) {
	b := NewAMQPBroker(silentServer(t), "blog.test", zerolog.Nop())
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Ping(ctx), context.Canceled)
}

func TestAMQPClosed(t *testing.T) {
	b := NewAMQPBroker(silentServer(t), "blog.test", zerolog.Nop())
	require.NoError(t, b.Close())

	err := b.Publish(context.Background(), ChannelComments, []byte(`{}`))
	assert.ErrorIs(t, err, errBrokerClosed)
}
