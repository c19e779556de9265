package bridge

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haircast-core/internal/codec"
	"haircast-core/internal/errors"
	"haircast-core/internal/session"
)

// fakeChannel echoes sent frames back on its receive channel.
type fakeChannel struct {
	mu     sync.Mutex
	closed bool
	full   bool
	recv   chan *codec.Frame
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{recv: make(chan *codec.Frame, 32)}
}

func (f *fakeChannel) Send(frame *codec.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.NewChannelError("send", frame.SessionID, errors.ErrChannelClosed)
	}
	if f.full {
		return errors.NewChannelError("send", frame.SessionID, errors.ErrQueueFull)
	}
	select {
	case f.recv <- frame:
	default:
	}
	return nil
}

func (f *fakeChannel) Recv() <-chan *codec.Frame { return f.recv }

func (f *fakeChannel) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.recv)
	}
}

func (f *fakeChannel) setFull(full bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.full = full
}

type fakeProvider struct {
	mu       sync.Mutex
	channels map[string]*fakeChannel
	failOpen bool
	opened   int
	released int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{channels: make(map[string]*fakeChannel)}
}

func (p *fakeProvider) OpenChannel(ctx context.Context, sessionID string) (session.ChannelHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOpen {
		return nil, errors.WrapChannelUnavailable("backend down", nil)
	}
	ch := newFakeChannel()
	p.channels[sessionID] = ch
	p.opened++
	return ch, nil
}

func (p *fakeProvider) CloseChannel(sessionID string) {
	p.mu.Lock()
	ch := p.channels[sessionID]
	delete(p.channels, sessionID)
	if ch != nil {
		p.released++
	}
	p.mu.Unlock()
	if ch != nil {
		ch.Close()
	}
}

func (p *fakeProvider) channel(sessionID string) *fakeChannel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channels[sessionID]
}

func (p *fakeProvider) counts() (opened, released int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened, p.released
}

type testBridge struct {
	url      string
	registry *session.Registry
	provider *fakeProvider
	server   *Server
}

func newTestBridge(t *testing.T, cfg *Config, provider *fakeProvider) *testBridge {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	registry := session.NewRegistry(context.Background())
	t.Cleanup(func() { registry.Close() })

	srv := NewServer(context.Background(), cfg, registry, provider)
	t.Cleanup(func() { srv.Close() })

	router := mux.NewRouter()
	srv.RegisterRoutes(router)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &testBridge{
		url:      "ws" + strings.TrimPrefix(ts.URL, "http") + cfg.Path,
		registry: registry,
		provider: provider,
		server:   srv,
	}
}

func dial(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) codec.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := codec.Decode(raw)
	require.NoError(t, err)
	return msg
}

func awaitEstablished(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	msg := readMessage(t, conn)
	est, ok := msg.(codec.ConnectionEstablishedMessage)
	require.True(t, ok, "expected connection_established, got %T", msg)
	require.NotEmpty(t, est.SessionID)
	return est.SessionID
}

func videoFrame(payload []byte, ts int64) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"video_frame","data":{"frameData":%q,"format":"jpeg","timestamp":%d}}`,
		base64.StdEncoding.EncodeToString(payload), ts))
}

func TestBridge_EchoScenario(t *testing.T) {
	tb := newTestBridge(t, nil, newFakeProvider())
	conn := dial(t, tb.url, nil)

	id := awaitEstablished(t, conn)
	assert.True(t, strings.HasPrefix(id, "sess_"))
	assert.Equal(t, 1, tb.registry.Count())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, videoFrame([]byte("frame"), 1000)))

	msg := readMessage(t, conn)
	pf, ok := msg.(codec.ProcessedFrameMessage)
	require.True(t, ok, "expected processed_frame, got %T", msg)
	assert.Equal(t, id, pf.Frame.SessionID)
	assert.Equal(t, int64(1000), pf.Frame.Timestamp)
	assert.Equal(t, []byte("frame"), pf.Frame.Payload)
}

func TestBridge_PingPong(t *testing.T) {
	tb := newTestBridge(t, nil, newFakeProvider())
	conn := dial(t, tb.url, nil)
	awaitEstablished(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"ping","data":{"timestamp":42}}`)))

	msg := readMessage(t, conn)
	pong, ok := msg.(codec.PongMessage)
	require.True(t, ok, "expected pong, got %T", msg)
	assert.Equal(t, int64(42), pong.Timestamp)
}

func TestBridge_MalformedFrameKeepsSessionAlive(t *testing.T) {
	tb := newTestBridge(t, nil, newFakeProvider())
	conn := dial(t, tb.url, nil)
	awaitEstablished(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"video_frame","data":{"format":"jpeg"}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json at all`)))

	// The session survives and still answers pings.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"ping","data":{"timestamp":7}}`)))
	msg := readMessage(t, conn)
	_, ok := msg.(codec.PongMessage)
	require.True(t, ok)
	assert.Equal(t, 1, tb.registry.Count())
}

func TestBridge_ChannelOpenFailure(t *testing.T) {
	provider := newFakeProvider()
	provider.failOpen = true
	tb := newTestBridge(t, nil, provider)
	conn := dial(t, tb.url, nil)

	msg := readMessage(t, conn)
	errMsg, ok := msg.(codec.ErrorMessage)
	require.True(t, ok, "expected error, got %T", msg)
	assert.Equal(t, CodeChannelUnavailable, errMsg.Code)

	// Socket is closed after the error envelope.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	require.Eventually(t, func() bool { return tb.registry.Count() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestBridge_BackpressureDropsNewestFrame(t *testing.T) {
	provider := newFakeProvider()
	tb := newTestBridge(t, nil, provider)
	conn := dial(t, tb.url, nil)
	id := awaitEstablished(t, conn)

	provider.channel(id).setFull(true)

	for i := 0; i < 3; i++ {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, videoFrame([]byte("x"), int64(i))))
	}

	require.Eventually(t, func() bool {
		sess, err := tb.registry.Get(id)
		return err == nil && sess.DroppedFrames() == 3
	}, 2*time.Second, 10*time.Millisecond)

	// Dropping never closes the session.
	sess, err := tb.registry.Get(id)
	require.NoError(t, err)
	assert.Equal(t, session.StateActive, sess.State())
	assert.Equal(t, int64(0), sess.FramesSent())
}

func TestBridge_OrderingPreserved(t *testing.T) {
	tb := newTestBridge(t, nil, newFakeProvider())
	conn := dial(t, tb.url, nil)
	awaitEstablished(t, conn)

	for ts := int64(1); ts <= 3; ts++ {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, videoFrame([]byte{byte(ts)}, ts)))
	}

	var got []int64
	for len(got) < 3 {
		msg := readMessage(t, conn)
		pf, ok := msg.(codec.ProcessedFrameMessage)
		require.True(t, ok)
		got = append(got, pf.Frame.Timestamp)
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestBridge_NoResourceLeak(t *testing.T) {
	provider := newFakeProvider()
	tb := newTestBridge(t, nil, provider)

	for i := 0; i < 5; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(tb.url, nil)
		require.NoError(t, err)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err = conn.ReadMessage()
		require.NoError(t, err)
		conn.Close()
	}

	require.Eventually(t, func() bool { return tb.registry.Count() == 0 },
		2*time.Second, 10*time.Millisecond)
	opened, released := provider.counts()
	assert.Equal(t, 5, opened)
	assert.Equal(t, 5, released)
}

func TestBridge_ChannelLossNotifiesClient(t *testing.T) {
	provider := newFakeProvider()
	tb := newTestBridge(t, nil, provider)
	conn := dial(t, tb.url, nil)
	id := awaitEstablished(t, conn)

	// Backend loss shows up as the channel closing underneath the
	// session's receive pump.
	provider.channel(id).Close()

	msg := readMessage(t, conn)
	errMsg, ok := msg.(codec.ErrorMessage)
	require.True(t, ok, "expected error, got %T", msg)
	assert.Equal(t, CodeChannelUnavailable, errMsg.Code)

	require.Eventually(t, func() bool { return tb.registry.Count() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestBridge_AuthEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth = AuthConfig{Enabled: true, Secret: "s3cret"}
	tb := newTestBridge(t, cfg, newFakeProvider())

	// Missing token is rejected at the upgrade.
	_, resp, err := websocket.DefaultDialer.Dial(tb.url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A signed token passes.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	conn := dial(t, tb.url, http.Header{"Authorization": {"Bearer " + token}})
	awaitEstablished(t, conn)
}

func TestBridge_IdleEvictionReleasesChannel(t *testing.T) {
	provider := newFakeProvider()
	tb := newTestBridge(t, nil, provider)
	conn := dial(t, tb.url, nil)
	id := awaitEstablished(t, conn)

	// Simulate the sweeper handing back an idle session.
	sess := tb.registry.Remove(id)
	require.NotNil(t, sess)
	tb.server.EvictSession(sess)

	assert.Equal(t, session.StateClosed, sess.State())
	assert.Nil(t, provider.channel(id))
	_, released := provider.counts()
	assert.Equal(t, 1, released)

	// The client must observe the socket closing; a read loop still
	// answering after eviction means the connection leaked.
	_ = conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"ping","data":{"timestamp":99}}`))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var readErr error
	for readErr == nil {
		_, _, readErr = conn.ReadMessage()
	}
	var nerr net.Error
	isTimeout := errors.As(readErr, &nerr) && nerr.Timeout()
	assert.False(t, isTimeout, "socket still open after eviction: %v", readErr)
}
