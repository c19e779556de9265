package inference

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"haircast-core/internal/codec"
	"haircast-core/internal/errors"

	pb "haircast-core/api/proto/inference"
)

// echoBackend echoes every frame back on the same stream.
type echoBackend struct {
	pb.UnimplementedInferenceServiceServer

	mu       sync.Mutex
	received []*pb.FramePacket
}

func (b *echoBackend) StreamFrames(stream grpc.BidiStreamingServer[pb.FramePacket, pb.FramePacket]) error {
	for {
		pkt, err := stream.Recv()
		if err != nil {
			return err
		}
		b.mu.Lock()
		b.received = append(b.received, pkt)
		b.mu.Unlock()
		if err := stream.Send(pkt); err != nil {
			return err
		}
	}
}

func startBackend(t *testing.T) (string, *echoBackend, func()) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	backend := &echoBackend{}
	srv := grpc.NewServer()
	pb.RegisterInferenceServiceServer(srv, backend)
	go srv.Serve(lis)

	return lis.Addr().String(), backend, srv.Stop
}

func testConfig(addr string) *Config {
	return &Config{
		Address:       addr,
		OpenTimeout:   2 * time.Second,
		MaxRetries:    2,
		RetryBackoff:  20 * time.Millisecond,
		QueueCapacity: 5,
		RecvBuffer:    16,
	}
}

func TestClient_EchoRoundTrip(t *testing.T) {
	addr, _, stop := startBackend(t)
	defer stop()

	c := NewClient(context.Background(), testConfig(addr))
	defer c.Close()

	ch, err := c.OpenChannel(context.Background(), "sess_echo")
	require.NoError(t, err)

	frame := &codec.Frame{
		SessionID: "sess_echo",
		Payload:   []byte("frame-bytes"),
		Format:    "jpeg",
		Timestamp: 1000,
	}
	require.NoError(t, ch.Send(frame))

	select {
	case got := <-ch.Recv():
		require.NotNil(t, got)
		assert.Equal(t, "sess_echo", got.SessionID)
		assert.Equal(t, frame.Payload, got.Payload)
		assert.Equal(t, "jpeg", got.Format)
		assert.Equal(t, int64(1000), got.Timestamp)
	case <-time.After(2 * time.Second):
		t.Fatal("no processed frame received")
	}
}

func TestClient_RoutesBySessionID(t *testing.T) {
	addr, _, stop := startBackend(t)
	defer stop()

	c := NewClient(context.Background(), testConfig(addr))
	defer c.Close()

	chA, err := c.OpenChannel(context.Background(), "sess_a")
	require.NoError(t, err)
	chB, err := c.OpenChannel(context.Background(), "sess_b")
	require.NoError(t, err)
	assert.Equal(t, 2, c.ChannelCount())

	require.NoError(t, chA.Send(&codec.Frame{SessionID: "sess_a", Payload: []byte("a"), Format: "jpeg"}))
	require.NoError(t, chB.Send(&codec.Frame{SessionID: "sess_b", Payload: []byte("b"), Format: "jpeg"}))

	for name, ch := range map[string]*Channel{"sess_a": chA, "sess_b": chB} {
		select {
		case got := <-ch.Recv():
			require.NotNil(t, got)
			assert.Equal(t, name, got.SessionID)
		case <-time.After(2 * time.Second):
			t.Fatalf("no frame for %s", name)
		}
	}
}

func TestClient_OrderingPreservedPerSession(t *testing.T) {
	addr, _, stop := startBackend(t)
	defer stop()

	c := NewClient(context.Background(), testConfig(addr))
	defer c.Close()

	ch, err := c.OpenChannel(context.Background(), "sess_order")
	require.NoError(t, err)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, ch.Send(&codec.Frame{
			SessionID: "sess_order", Payload: []byte{byte(i)}, Format: "jpeg", Timestamp: i,
		}))
	}

	var got []int64
	for len(got) < 3 {
		select {
		case f := <-ch.Recv():
			require.NotNil(t, f)
			got = append(got, f.Timestamp)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d frames", len(got))
		}
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestClient_OpenChannel_BackendUnreachable(t *testing.T) {
	cfg := testConfig("127.0.0.1:1")
	c := NewClient(context.Background(), cfg)
	defer c.Close()

	_, err := c.OpenChannel(context.Background(), "sess_fail")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrChannelUnavailable)
	assert.Equal(t, 0, c.ChannelCount())
}

func TestClient_OpenChannelBoundedByTimeout(t *testing.T) {
	// A listener that accepts TCP but never completes the gRPC
	// handshake keeps the connection in CONNECTING; the open must
	// still return within the configured timeout.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	cfg := testConfig(lis.Addr().String())
	cfg.OpenTimeout = 300 * time.Millisecond
	c := NewClient(context.Background(), cfg)
	defer c.Close()

	start := time.Now()
	_, err = c.OpenChannel(context.Background(), "sess_hang")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrChannelUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 0, c.ChannelCount())
}

func TestClient_DuplicateChannel(t *testing.T) {
	addr, _, stop := startBackend(t)
	defer stop()

	c := NewClient(context.Background(), testConfig(addr))
	defer c.Close()

	_, err := c.OpenChannel(context.Background(), "sess_dup")
	require.NoError(t, err)
	_, err = c.OpenChannel(context.Background(), "sess_dup")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDuplicateSession)
}

func TestClient_CloseChannelIdempotent(t *testing.T) {
	addr, _, stop := startBackend(t)
	defer stop()

	c := NewClient(context.Background(), testConfig(addr))
	defer c.Close()

	ch, err := c.OpenChannel(context.Background(), "sess_close")
	require.NoError(t, err)

	c.CloseChannel("sess_close")
	c.CloseChannel("sess_close")
	assert.Equal(t, 0, c.ChannelCount())

	// Recv reports end of stream.
	select {
	case _, ok := <-ch.Recv():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("receive channel not closed")
	}

	err = ch.Send(&codec.Frame{SessionID: "sess_close", Payload: []byte("x"), Format: "jpeg"})
	assert.ErrorIs(t, err, errors.ErrChannelClosed)
}

func TestChannel_SendQueueFull(t *testing.T) {
	// No send loop drains the queue here, so capacity is observable.
	c := NewClient(context.Background(), testConfig("127.0.0.1:1"))
	defer c.Close()

	ch := newChannel(context.Background(), c, "sess_q", 2, 1)
	defer ch.Close()

	frame := &codec.Frame{SessionID: "sess_q", Payload: []byte("x"), Format: "jpeg"}
	require.NoError(t, ch.Send(frame))
	require.NoError(t, ch.Send(frame))

	err := ch.Send(frame)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrQueueFull)
	assert.Equal(t, 2, ch.QueueDepth())
}

func TestClient_BackendLossClosesChannels(t *testing.T) {
	addr, _, stop := startBackend(t)

	c := NewClient(context.Background(), testConfig(addr))
	defer c.Close()

	ch, err := c.OpenChannel(context.Background(), "sess_loss")
	require.NoError(t, err)

	// Kill the backend; reconnect attempts exhaust against a dead
	// address and every channel sees end of stream.
	stop()

	select {
	case _, ok := <-ch.Recv():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not close after backend loss")
	}
	assert.Equal(t, 0, c.ChannelCount())
}
