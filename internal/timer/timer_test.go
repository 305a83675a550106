package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerTicksAndStops(t *testing.T) {
	updates := make(chan Tick, 10)
	tm := New(10*time.Millisecond, updates)
	defer tm.Close()

	start := time.Now().Add(-90 * time.Second)
	tm.Start(start)
	assert.True(t, tm.Running())

	first := <-updates
	assert.Equal(t, start, first.StartTime)
	assert.GreaterOrEqual(t, first.Elapsed, 90*time.Second)

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("expected a periodic tick")
	}

	tm.Stop()
	assert.False(t, tm.Running())

	// drain anything sent before Stop took effect, then expect silence
	time.Sleep(30 * time.Millisecond)
	for len(updates) > 0 {
		<-updates
	}
	select {
	case tick := <-updates:
		t.Fatalf("unexpected tick after Stop: %+v", tick)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimerRestartReplacesRun(t *testing.T) {
	updates := make(chan Tick, 10)
	tm := New(time.Hour, updates)
	defer tm.Close()

	a := time.Now().Add(-time.Minute)
	b := time.Now().Add(-time.Second)
	tm.Start(a)
	require.Equal(t, a, (<-updates).StartTime)
	tm.Start(b)
	require.Equal(t, b, (<-updates).StartTime)
}

func TestTimerClampsFutureStart(t *testing.T) {
	updates := make(chan Tick, 1)
	tm := New(time.Hour, updates)
	defer tm.Close()

	tm.Start(time.Now().Add(time.Hour))
	assert.Equal(t, time.Duration(0), (<-updates).Elapsed)
}
