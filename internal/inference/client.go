// Package inference maintains the bidirectional stream to the
// external inference backend and multiplexes per-session channels
// over it by session id.
package inference

import (
	"context"
	"io"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"

	"haircast-core/internal/codec"
	"haircast-core/internal/core/dispose"
	corelog "haircast-core/internal/core/log"
	"haircast-core/internal/core/metrics"
	"haircast-core/internal/errors"

	pb "haircast-core/api/proto/inference"
)

// Config controls the inference client.
type Config struct {
	Address       string        `yaml:"address"`
	OpenTimeout   time.Duration `yaml:"open_timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
	QueueCapacity int           `yaml:"queue_capacity"`
	RecvBuffer    int           `yaml:"recv_buffer"`
}

// DefaultConfig returns the default inference client configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:       "localhost:50051",
		OpenTimeout:   5 * time.Second,
		MaxRetries:    3,
		RetryBackoff:  200 * time.Millisecond,
		QueueCapacity: 5,
		RecvBuffer:    16,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = d.OpenTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = d.RetryBackoff
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = d.QueueCapacity
	}
	if c.RecvBuffer <= 0 {
		c.RecvBuffer = d.RecvBuffer
	}
}

// Client owns the physical gRPC connection and the one logical stream
// all sessions share. Per-session traffic is correlated by the
// session id carried in every packet.
type Client struct {
	*dispose.ManagerBase

	config *Config

	conn     *grpc.ClientConn
	stream   grpc.BidiStreamingClient[pb.FramePacket, pb.FramePacket]
	streamMu sync.RWMutex
	sendMu   sync.Mutex

	channels   map[string]*Channel
	channelsMu sync.RWMutex
}

// NewClient creates an inference client. No connection is made until
// Connect or the first OpenChannel.
func NewClient(parentCtx context.Context, config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	config.applyDefaults()

	c := &Client{
		ManagerBase: dispose.NewManager("InferenceClient", parentCtx),
		config:      config,
		channels:    make(map[string]*Channel),
	}

	c.AddCleanHandler(func() error {
		c.closeAllChannels()
		c.streamMu.Lock()
		if c.stream != nil {
			_ = c.stream.CloseSend()
			c.stream = nil
		}
		conn := c.conn
		c.conn = nil
		c.streamMu.Unlock()
		if conn != nil {
			return conn.Close()
		}
		return nil
	})
	return c
}

// Connect dials the backend and opens the shared stream, retrying
// with exponential backoff. Returns ErrChannelUnavailable once the
// retry budget is spent.
func (c *Client) Connect(ctx context.Context) error {
	c.streamMu.Lock()
	defer c.streamMu.Unlock()
	if c.stream != nil {
		return nil
	}
	return c.openStreamLocked(ctx)
}

// openStreamLocked establishes the connection and stream. Caller
// holds streamMu.
func (c *Client) openStreamLocked(ctx context.Context) error {
	if c.conn == nil {
		conn, err := grpc.NewClient(c.config.Address,
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return errors.WrapChannelUnavailable("dial backend", err)
		}
		c.conn = conn
	}

	var lastErr error
	backoff := c.config.RetryBackoff
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.WrapChannelUnavailable("open cancelled", ctx.Err())
			case <-c.Ctx().Done():
				return errors.NewChannelError("open", "client closed", errors.ErrChannelClosed)
			case <-time.After(backoff):
			}
			backoff *= 2
			metrics.IncrementChannelReconnects()
		}

		// Transport readiness is bounded by ctx; StreamFrames itself
		// fails fast once the connection is up or broken.
		if err := c.waitReady(ctx); err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return errors.WrapChannelUnavailable("open timeout", ctx.Err())
			}
			corelog.Warnf("InferenceClient: connect attempt %d/%d failed: %v",
				attempt+1, c.config.MaxRetries, err)
			continue
		}

		stream, err := pb.NewInferenceServiceClient(c.conn).StreamFrames(c.Ctx())
		if err != nil {
			lastErr = err
			corelog.Warnf("InferenceClient: stream open attempt %d/%d failed: %v",
				attempt+1, c.config.MaxRetries, err)
			continue
		}

		c.stream = stream
		go c.receiveLoop(stream)
		corelog.Infof("InferenceClient: stream established to %s", c.config.Address)
		return nil
	}
	return errors.WrapChannelUnavailable("retries exhausted", lastErr)
}

// waitReady drives the connection toward READY, bounded by ctx. A
// transient failure counts as one failed attempt so the caller's
// retry budget applies instead of gRPC's internal connect timeout.
func (c *Client) waitReady(ctx context.Context) error {
	c.conn.Connect()
	for {
		state := c.conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.TransientFailure, connectivity.Shutdown:
			return errors.WrapChannelUnavailable("backend connection "+state.String(), nil)
		}
		if !c.conn.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
	}
}

// OpenChannel attaches a session to the shared stream and returns its
// channel handle. Fails with ErrChannelUnavailable if the backend
// cannot be reached within the open timeout.
func (c *Client) OpenChannel(ctx context.Context, sessionID string) (*Channel, error) {
	openCtx, cancel := context.WithTimeout(ctx, c.config.OpenTimeout)
	defer cancel()

	if err := c.Connect(openCtx); err != nil {
		return nil, err
	}

	c.channelsMu.Lock()
	defer c.channelsMu.Unlock()
	if _, exists := c.channels[sessionID]; exists {
		return nil, errors.NewChannelError("open", sessionID, errors.ErrDuplicateSession)
	}

	ch := newChannel(c.Ctx(), c, sessionID, c.config.QueueCapacity, c.config.RecvBuffer)
	c.channels[sessionID] = ch
	go c.sendLoop(ch)

	corelog.Debugf("InferenceClient: opened channel for session %s (channels: %d)",
		sessionID, len(c.channels))
	return ch, nil
}

// CloseChannel releases a session's channel. Idempotent.
func (c *Client) CloseChannel(sessionID string) {
	c.channelsMu.RLock()
	ch := c.channels[sessionID]
	c.channelsMu.RUnlock()
	if ch != nil {
		ch.Close()
	}
}

// ChannelCount returns the number of attached sessions.
func (c *Client) ChannelCount() int {
	c.channelsMu.RLock()
	defer c.channelsMu.RUnlock()
	return len(c.channels)
}

// Connected reports whether the shared stream is up.
func (c *Client) Connected() bool {
	c.streamMu.RLock()
	defer c.streamMu.RUnlock()
	return c.stream != nil
}

func (c *Client) unregisterChannel(sessionID string) {
	c.channelsMu.Lock()
	defer c.channelsMu.Unlock()
	if _, exists := c.channels[sessionID]; exists {
		delete(c.channels, sessionID)
		corelog.Debugf("InferenceClient: released channel for session %s (channels: %d)",
			sessionID, len(c.channels))
	}
}

func (c *Client) closeAllChannels() {
	c.channelsMu.RLock()
	chans := make([]*Channel, 0, len(c.channels))
	for _, ch := range c.channels {
		chans = append(chans, ch)
	}
	c.channelsMu.RUnlock()
	for _, ch := range chans {
		ch.Close()
	}
}

// sendLoop drains one channel's outbound queue onto the shared
// stream. Send failures drop the frame; the stream error is handled
// by the receive loop's reconnect.
func (c *Client) sendLoop(ch *Channel) {
	for {
		select {
		case pkt := <-ch.sendChan:
			if err := c.sendPacket(pkt); err != nil {
				corelog.Warnf("InferenceClient: dropping in-flight frame for session %s: %v",
					ch.sessionID, err)
				metrics.IncrementFramesDropped()
				continue
			}
			metrics.IncrementFramesForwarded()
		case <-ch.Ctx().Done():
			return
		case <-c.Ctx().Done():
			return
		}
	}
}

func (c *Client) sendPacket(pkt *pb.FramePacket) error {
	c.streamMu.RLock()
	stream := c.stream
	c.streamMu.RUnlock()
	if stream == nil {
		return errors.ErrClientNotConnected
	}

	// gRPC streams allow one concurrent sender.
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return stream.Send(pkt)
}

// receiveLoop demultiplexes backend frames to their session channels.
// On stream failure it reconnects with the configured retry budget,
// preserving channels; frames in flight during the outage are lost.
func (c *Client) receiveLoop(stream grpc.BidiStreamingClient[pb.FramePacket, pb.FramePacket]) {
	for {
		select {
		case <-c.Ctx().Done():
			return
		default:
		}

		pkt, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				corelog.Infof("InferenceClient: backend closed the stream")
			} else {
				corelog.Errorf("InferenceClient: stream receive failed: %v", err)
			}
			c.handleStreamFailure(stream)
			return
		}
		c.route(pkt)
	}
}

// handleStreamFailure attempts to re-establish the stream. Exhausting
// the retry budget closes every channel, which surfaces end-of-stream
// to the per-session receive pumps.
func (c *Client) handleStreamFailure(failed grpc.BidiStreamingClient[pb.FramePacket, pb.FramePacket]) {
	c.streamMu.Lock()
	if c.stream != failed {
		// Another goroutine already replaced the stream.
		c.streamMu.Unlock()
		return
	}
	c.stream = nil

	if c.IsClosed() {
		c.streamMu.Unlock()
		return
	}

	corelog.Warnf("InferenceClient: stream lost, reconnecting to %s", c.config.Address)
	reconnectCtx, cancel := context.WithTimeout(c.Ctx(), c.config.OpenTimeout)
	err := c.openStreamLocked(reconnectCtx)
	cancel()
	c.streamMu.Unlock()

	if err != nil {
		corelog.Errorf("InferenceClient: reconnect failed, closing %d channel(s): %v",
			c.ChannelCount(), err)
		c.closeAllChannels()
	}
}

// route delivers one backend packet to its session's channel. Unknown
// session ids are dropped; the session was likely evicted or closed.
func (c *Client) route(pkt *pb.FramePacket) {
	c.channelsMu.RLock()
	defer c.channelsMu.RUnlock()

	ch, exists := c.channels[pkt.GetSessionId()]
	if !exists {
		corelog.Debugf("InferenceClient: dropping frame for unknown session %s", pkt.GetSessionId())
		return
	}
	ch.deliver(&codec.Frame{
		SessionID: pkt.GetSessionId(),
		Payload:   pkt.GetPayload(),
		Format:    pkt.GetFormat(),
		Timestamp: pkt.GetTimestamp(),
		Metadata:  pkt.GetMetadata(),
	})
}
