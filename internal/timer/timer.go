// Package timer drives the elapsed-time display while an interruption is
// being tracked.
package timer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

// Tick carries the elapsed time since the tracked interruption started.
type Tick struct {
	StartTime time.Time
	Elapsed   time.Duration
}

// Timer emits a Tick right after Start and then once per interval until Stop.
// Starting again replaces the running ticker.
type Timer struct {
	interval time.Duration
	updates  chan<- Tick
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	running time.Time // start time of the active run, zero when stopped
	wg      conc.WaitGroup
}

func New(interval time.Duration, updates chan<- Tick) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{interval: interval, updates: updates, now: time.Now}
}

func (t *Timer) Start(startTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.running = startTime
	log.Printf("Timer started for interruption begun at %s", startTime.Format(time.Kitchen))

	t.wg.Go(func() { t.runLoop(ctx, startTime) })
}

// Stop cancels the active run, if any. It does not wait for the loop to exit.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.running.IsZero()
}

// Close stops the timer and waits for the loop goroutine to finish.
func (t *Timer) Close() {
	t.Stop()
	t.wg.Wait()
}

func (t *Timer) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
		t.running = time.Time{}
		log.Println("Timer stopped.")
	}
}

func (t *Timer) runLoop(ctx context.Context, startTime time.Time) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.send(ctx, startTime)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.send(ctx, startTime)
		}
	}
}

func (t *Timer) send(ctx context.Context, startTime time.Time) {
	if ctx.Err() != nil {
		return
	}
	elapsed := t.now().Sub(startTime)
	if elapsed < 0 {
		elapsed = 0
	}
	select {
	case t.updates <- Tick{StartTime: startTime, Elapsed: elapsed}:
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond): // never block the loop on a slow consumer
		log.Println("Warning: Timeout sending timer tick")
	}
}
