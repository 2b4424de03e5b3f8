package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenterExpiresToasts(t *testing.T) {
	c := NewCenter(time.Second)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Notify(LevelError, "Server error, please try again later")
	require.Len(t, c.Active(), 1)

	now = now.Add(500 * time.Millisecond)
	c.Notify(LevelInfo, "trip assigned")
	assert.Equal(t, 2, c.Prune())

	now = now.Add(600 * time.Millisecond)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "trip assigned", active[0].Message)

	now = now.Add(time.Second)
	assert.Equal(t, 0, c.Prune())
}

func TestCenterDismiss(t *testing.T) {
	c := NewCenter(0)
	c.Notify(LevelWarning, "first")
	c.Notify(LevelWarning, "second")

	active := c.Active()
	require.Len(t, active, 2)
	assert.NotEqual(t, active[0].ID, active[1].ID)

	c.Dismiss(active[0].ID)
	remaining := c.Active()
	require.Len(t, remaining, 1)
	assert.Equal(t, "second", remaining[0].Message)
}

func TestCenterSubscribe(t *testing.T) {
	c := NewCenter(0)
	ch := c.Subscribe()

	c.Notify(LevelError, "Resource not found")

	select {
	case toast := <-ch:
		assert.Equal(t, LevelError, toast.Level)
		assert.Equal(t, "Resource not found", toast.Message)
	case <-time.After(time.Second):
		t.Fatal("expected toast on subscription channel")
	}
}

func TestCenterSubscriberDoesNotBlock(t *testing.T) {
	c := NewCenter(0)
	_ = c.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			c.Notify(LevelInfo, "flood")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notify blocked on a full subscriber")
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder

	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(LevelError, "one")
	r.Notify(LevelError, "two")

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "two", last.Message)
	assert.Equal(t, 2, r.Len())
}
