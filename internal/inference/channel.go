package inference

import (
	"context"
	"fmt"
	"time"

	"haircast-core/internal/codec"
	"haircast-core/internal/core/dispose"
	corelog "haircast-core/internal/core/log"
	"haircast-core/internal/errors"

	pb "haircast-core/api/proto/inference"
)

// Channel is one session's handle onto the multiplexed inference
// stream. The bridge writes via Send; the session's receive pump
// drains Recv. Closing is idempotent.
type Channel struct {
	*dispose.ManagerBase

	sessionID string
	client    *Client
	sendChan  chan *pb.FramePacket
	recvChan  chan *codec.Frame
	createdAt time.Time
}

func newChannel(parentCtx context.Context, client *Client, sessionID string, queueCap, recvBuf int) *Channel {
	ch := &Channel{
		ManagerBase: dispose.NewManager(fmt.Sprintf("Channel-%s", sessionID), parentCtx),
		sessionID:   sessionID,
		client:      client,
		sendChan:    make(chan *pb.FramePacket, queueCap),
		recvChan:    make(chan *codec.Frame, recvBuf),
		createdAt:   time.Now(),
	}

	ch.AddCleanHandler(func() error {
		client.unregisterChannel(sessionID)
		close(ch.recvChan)
		return nil
	})
	return ch
}

// SessionID returns the session this channel belongs to.
func (c *Channel) SessionID() string {
	return c.sessionID
}

// Send enqueues a frame for the backend without blocking. Returns
// ErrQueueFull when the outbound queue is at capacity and
// ErrChannelClosed once the channel is closed.
func (c *Channel) Send(frame *codec.Frame) error {
	if c.IsClosed() {
		return errors.NewChannelError("send", c.sessionID, errors.ErrChannelClosed)
	}

	pkt := &pb.FramePacket{
		SessionId: c.sessionID,
		Payload:   frame.Payload,
		Format:    frame.Format,
		Timestamp: frame.Timestamp,
		Metadata:  frame.Metadata,
	}

	select {
	case c.sendChan <- pkt:
		return nil
	case <-c.Ctx().Done():
		return errors.NewChannelError("send", c.sessionID, errors.ErrChannelClosed)
	default:
		return errors.NewChannelError("send", c.sessionID, errors.ErrQueueFull)
	}
}

// QueueDepth returns the number of frames waiting to be sent.
func (c *Channel) QueueDepth() int {
	return len(c.sendChan)
}

// Recv returns the processed-frame sequence for this session. The
// channel is closed (end of stream) when the handle closes.
func (c *Channel) Recv() <-chan *codec.Frame {
	return c.recvChan
}

// Close releases the channel. Safe to call multiple times.
func (c *Channel) Close() {
	c.ManagerBase.Close()
}

// deliver hands a processed frame to this session's receive pump.
// Never blocks the demux loop; drops when the pump is behind.
func (c *Channel) deliver(frame *codec.Frame) {
	if c.IsClosed() {
		return
	}
	select {
	case c.recvChan <- frame:
	case <-c.Ctx().Done():
	default:
		corelog.Warnf("Channel: receive buffer full for session %s, dropping processed frame", c.sessionID)
	}
}
