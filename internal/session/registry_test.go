package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haircast-core/internal/errors"
)

func TestRegistry_CreateGetRemove(t *testing.T) {
	r := NewRegistry(context.Background())
	defer r.Close()

	s := New("sess_a")
	require.NoError(t, r.Create(s))
	assert.Equal(t, 1, r.Count())

	got, err := r.Get("sess_a")
	require.NoError(t, err)
	assert.Same(t, s, got)

	removed := r.Remove("sess_a")
	assert.Same(t, s, removed)
	assert.Equal(t, 0, r.Count())

	// Removing again is a no-op.
	assert.Nil(t, r.Remove("sess_a"))
}

func TestRegistry_DuplicateSession(t *testing.T) {
	r := NewRegistry(context.Background())
	defer r.Close()

	require.NoError(t, r.Create(New("sess_dup")))
	err := r.Create(New("sess_dup"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDuplicateSession)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_ExpiredVersusNotFound(t *testing.T) {
	r := NewRegistry(context.Background())
	defer r.Close()

	require.NoError(t, r.Create(New("sess_x")))
	r.Remove("sess_x")

	_, err := r.Get("sess_x")
	assert.ErrorIs(t, err, errors.ErrSessionExpired)

	_, err = r.Get("sess_never")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestRegistry_Touch(t *testing.T) {
	r := NewRegistry(context.Background())
	defer r.Close()

	s := New("sess_t")
	require.NoError(t, r.Create(s))
	before := s.LastActivity()

	time.Sleep(time.Millisecond)
	require.NoError(t, r.Touch("sess_t"))
	assert.True(t, s.LastActivity().After(before))

	assert.Error(t, r.Touch("sess_missing"))
}

func TestRegistry_SweepIdle(t *testing.T) {
	r := NewRegistry(context.Background())
	defer r.Close()

	idle := New("sess_idle")
	idle.lastActivityAt.Store(time.Now().Add(-10 * time.Minute).UnixNano())
	active := New("sess_active")

	require.NoError(t, r.Create(idle))
	require.NoError(t, r.Create(active))

	evicted := r.SweepIdle(5 * time.Minute)
	require.Len(t, evicted, 1)
	assert.Equal(t, "sess_idle", evicted[0].ID)
	assert.Equal(t, 1, r.Count())

	// The evicted id now reads as expired.
	_, err := r.Get("sess_idle")
	assert.ErrorIs(t, err, errors.ErrSessionExpired)

	_, err = r.Get("sess_active")
	assert.NoError(t, err)
}

func TestRegistry_SweeperEvictsInBackground(t *testing.T) {
	r := NewRegistry(context.Background())
	defer r.Close()

	idle := New("sess_bg")
	idle.lastActivityAt.Store(time.Now().Add(-time.Hour).UnixNano())
	require.NoError(t, r.Create(idle))

	evictedCh := make(chan *Session, 1)
	r.StartSweeper(10*time.Millisecond, 5*time.Minute, func(s *Session) {
		evictedCh <- s
	})

	select {
	case s := <-evictedCh:
		assert.Equal(t, "sess_bg", s.ID)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not evict idle session")
	}
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry(context.Background())
	defer r.Close()

	require.NoError(t, r.Create(New("sess_1")))
	require.NoError(t, r.Create(New("sess_2")))

	stats := r.Snapshot()
	require.Len(t, stats, 2)
	ids := map[string]bool{stats[0].ID: true, stats[1].ID: true}
	assert.True(t, ids["sess_1"])
	assert.True(t, ids["sess_2"])
}
