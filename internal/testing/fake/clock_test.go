package fake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 5, 6, 30, 0, 0, time.UTC)

func TestClock_AdvanceFiresInDeadlineOrder(t *testing.T) {
	f := NewClock(epoch)

	var fired []string
	f.AfterFunc(3*time.Second, func() { fired = append(fired, "c") })
	f.AfterFunc(1*time.Second, func() { fired = append(fired, "a") })
	f.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })

	f.Advance(2500 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, epoch.Add(2500*time.Millisecond), f.Now())
	assert.Equal(t, 1, f.Pending())

	f.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
}

func TestClock_SameDeadlineKeepsRegistrationOrder(t *testing.T) {
	f := NewClock(epoch)

	var fired []int
	for i := 0; i < 5; i++ {
		i := i
		f.AfterFunc(time.Second, func() { fired = append(fired, i) })
	}
	f.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, fired)
}

func TestClock_StopPreventsFiring(t *testing.T) {
	f := NewClock(epoch)

	called := false
	timer := f.AfterFunc(time.Second, func() { called = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports already stopped")

	f.Advance(time.Minute)
	assert.False(t, called)
}

func TestClock_StopAfterFireReturnsFalse(t *testing.T) {
	f := NewClock(epoch)
	timer := f.AfterFunc(0, func() {})
	f.Advance(0)
	assert.False(t, timer.Stop())
}

func TestClock_TimersScheduledByCallbacks(t *testing.T) {
	f := NewClock(epoch)

	var fired []string
	f.AfterFunc(time.Second, func() {
		fired = append(fired, "first")
		f.AfterFunc(time.Second, func() { fired = append(fired, "second") })
	})

	f.Advance(3 * time.Second)
	assert.Equal(t, []string{"first", "second"}, fired)
}

func TestClock_SleepAutoAdvance(t *testing.T) {
	f := NewClock(epoch)
	f.SetAutoAdvance(true)

	fired := false
	f.AfterFunc(5*time.Second, func() { fired = true })

	require.NoError(t, f.Sleep(context.Background(), 10*time.Second))
	assert.True(t, fired)
	assert.Equal(t, epoch.Add(10*time.Second), f.Now())
}

func TestClock_SleepWaitsForAdvance(t *testing.T) {
	f := NewClock(epoch)

	done := make(chan error, 1)
	go func() { done <- f.Sleep(context.Background(), time.Second) }()

	require.Eventually(t, func() bool { return f.Pending() == 1 }, time.Second, time.Millisecond)
	f.Advance(time.Second)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sleep did not return after advance")
	}
}

func TestClock_SleepCancelled(t *testing.T) {
	f := NewClock(epoch)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.Sleep(ctx, time.Hour) }()

	require.Eventually(t, func() bool { return f.Pending() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sleep ignored cancellation")
	}
	assert.Equal(t, 0, f.Pending())
}
