package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haircast-core/internal/codec"
)

type fakeChannel struct {
	closed bool
	recv   chan *codec.Frame
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{recv: make(chan *codec.Frame, 8)}
}

func (f *fakeChannel) Send(frame *codec.Frame) error { return nil }
func (f *fakeChannel) Recv() <-chan *codec.Frame     { return f.recv }
func (f *fakeChannel) Close()                        { f.closed = true }

func TestSession_LifecycleTransitions(t *testing.T) {
	s := New("sess_1")
	assert.Equal(t, StateConnecting, s.State())
	assert.Nil(t, s.Channel())

	ch := newFakeChannel()
	require.NoError(t, s.Activate(ch))
	assert.Equal(t, StateActive, s.State())
	assert.NotNil(t, s.Channel())

	// Activate is one-shot.
	assert.Error(t, s.Activate(newFakeChannel()))

	assert.True(t, s.StartClosing())
	assert.Equal(t, StateClosing, s.State())
	// Channel stays attached through CLOSING.
	assert.NotNil(t, s.Channel())
	assert.False(t, s.StartClosing())

	s.MarkClosed()
	assert.Equal(t, StateClosed, s.State())
	assert.Nil(t, s.Channel())
}

func TestSession_ConnectingToClosed(t *testing.T) {
	s := New("sess_2")
	s.MarkClosed()
	assert.Equal(t, StateClosed, s.State())
	assert.Nil(t, s.Channel())
}

func TestSession_ActivateRequiresChannel(t *testing.T) {
	s := New("sess_3")
	assert.Error(t, s.Activate(nil))
	assert.Equal(t, StateConnecting, s.State())
}

func TestSession_CountersAndActivity(t *testing.T) {
	s := New("sess_4")
	before := s.LastActivity()

	time.Sleep(time.Millisecond)
	s.RecordSent()
	s.RecordSent()
	s.RecordReceived()
	s.RecordDropped()

	assert.Equal(t, int64(2), s.FramesSent())
	assert.Equal(t, int64(1), s.FramesReceived())
	assert.Equal(t, int64(1), s.DroppedFrames())
	assert.True(t, s.LastActivity().After(before))

	snap := s.Snapshot()
	assert.Equal(t, "sess_4", snap.ID)
	assert.Equal(t, "CONNECTING", snap.State)
	assert.Equal(t, int64(2), snap.FramesSent)
	assert.Equal(t, int64(1), snap.DroppedFrames)
}
