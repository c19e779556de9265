// Package session tracks client sessions and their inference channels.
package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"haircast-core/internal/codec"
	"haircast-core/internal/errors"
)

// State is the session lifecycle state.
type State int32

// Session states. Legal transitions: Connecting→Active→Closing→Closed,
// Connecting→Closed, Active→Closed.
const (
	StateConnecting State = iota
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateActive:
		return "ACTIVE"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(s))
	}
}

// ChannelHandle is the session's half of the inference stream. The
// bridge writes, the per-session receive pump reads.
type ChannelHandle interface {
	Send(frame *codec.Frame) error
	Recv() <-chan *codec.Frame
	Close()
}

// Session is one client's logical connection lifetime. The channel
// handle is non-nil exactly while the state is ACTIVE or CLOSING.
type Session struct {
	ID        string
	CreatedAt time.Time

	state          atomic.Int32
	lastActivityAt atomic.Int64 // unix nanos

	framesSent     atomic.Int64
	framesReceived atomic.Int64
	droppedFrames  atomic.Int64
	lastLatencyMs  atomic.Int64

	mu      sync.RWMutex
	channel ChannelHandle
}

// Stats is a point-in-time snapshot of one session.
type Stats struct {
	ID             string    `json:"sessionId"`
	State          string    `json:"state"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	FramesSent     int64     `json:"framesSent"`
	FramesReceived int64     `json:"framesReceived"`
	DroppedFrames  int64     `json:"droppedFrames"`
	FPS            float64   `json:"fps"`
	LastLatencyMs  int64     `json:"lastLatencyMs"`
}

// New creates a session in CONNECTING state.
func New(id string) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
	}
	s.state.Store(int32(StateConnecting))
	s.lastActivityAt.Store(now.UnixNano())
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Activate transitions CONNECTING→ACTIVE and attaches the channel.
func (s *Session) Activate(ch ChannelHandle) error {
	if ch == nil {
		return errors.NewSessionError(s.ID, "activate with nil channel", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.CompareAndSwap(int32(StateConnecting), int32(StateActive)) {
		return errors.NewSessionError(s.ID,
			fmt.Sprintf("cannot activate from state %s", s.State()), nil)
	}
	s.channel = ch
	return nil
}

// StartClosing transitions ACTIVE→CLOSING. Returns false if the
// session was not ACTIVE; the channel handle stays attached until
// MarkClosed.
func (s *Session) StartClosing() bool {
	return s.state.CompareAndSwap(int32(StateActive), int32(StateClosing))
}

// MarkClosed moves the session to CLOSED from any state and detaches
// the channel handle. The caller is responsible for actually closing
// the channel and the socket.
func (s *Session) MarkClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Store(int32(StateClosed))
	s.channel = nil
}

// Channel returns the attached channel handle, nil unless the state is
// ACTIVE or CLOSING.
func (s *Session) Channel() ChannelHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channel
}

// Touch records activity now.
func (s *Session) Touch() {
	s.lastActivityAt.Store(time.Now().UnixNano())
}

// LastActivity returns the time of the last observed frame.
func (s *Session) LastActivity() time.Time {
	return time.Unix(0, s.lastActivityAt.Load())
}

// IdleSince reports how long the session has seen no traffic.
func (s *Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.LastActivity())
}

// RecordSent counts a frame forwarded to the backend.
func (s *Session) RecordSent() {
	s.framesSent.Add(1)
	s.Touch()
}

// RecordReceived counts a processed frame delivered to the client.
func (s *Session) RecordReceived() {
	s.framesReceived.Add(1)
	s.Touch()
}

// RecordDropped counts a frame dropped under backpressure.
func (s *Session) RecordDropped() {
	s.droppedFrames.Add(1)
}

// FramesSent returns the forwarded-frame counter.
func (s *Session) FramesSent() int64 { return s.framesSent.Load() }

// FramesReceived returns the delivered-frame counter.
func (s *Session) FramesReceived() int64 { return s.framesReceived.Load() }

// DroppedFrames returns the dropped-frame counter.
func (s *Session) DroppedFrames() int64 { return s.droppedFrames.Load() }

// RecordLatency stores the most recent frame round-trip latency.
func (s *Session) RecordLatency(ms int64) {
	s.lastLatencyMs.Store(ms)
}

// LastLatencyMs returns the most recent frame round-trip latency.
func (s *Session) LastLatencyMs() int64 { return s.lastLatencyMs.Load() }

// Snapshot captures the session's stats. FPS is delivered frames
// over the session's lifetime so far.
func (s *Session) Snapshot() Stats {
	fps := 0.0
	if elapsed := time.Since(s.CreatedAt).Seconds(); elapsed > 0 {
		fps = float64(s.FramesReceived()) / elapsed
	}
	return Stats{
		ID:             s.ID,
		State:          s.State().String(),
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivity(),
		FramesSent:     s.FramesSent(),
		FramesReceived: s.FramesReceived(),
		DroppedFrames:  s.DroppedFrames(),
		FPS:            fps,
		LastLatencyMs:  s.LastLatencyMs(),
	}
}
