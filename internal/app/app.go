package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/multierr"

	"interruptlog/internal/config"
	"interruptlog/internal/export"
	"interruptlog/internal/popup"
	"interruptlog/internal/storage"
	"interruptlog/internal/timer"
	"interruptlog/internal/watcher"

	sqlitestore "interruptlog/internal/storage/sqlite"
)

// Result is what a front end needs after a command: the committed state and
// the UI effects it has to carry out.
type Result struct {
	State     popup.State
	Notices   []popup.Notice
	Confirms  []popup.Confirm
	Downloads []popup.Download
}

type App struct {
	cfg      *config.Config
	storage  storage.Storage
	defaults popup.Defaults
	layout   export.Layout
	now      func() time.Time

	// mu serialises commands and reloads, and guards state.
	mu    sync.RWMutex
	state popup.State

	timer        *timer.Timer
	ticks        chan timer.Tick
	timerEnabled bool
	timerStart   time.Time

	watcher *watcher.Watcher
	reloads chan popup.State

	wg     conc.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp opens the sqlite store at cfg.DatabasePath and recovers the state.
func NewApp(cfg *config.Config) (*App, error) {
	return NewWithStorage(cfg, sqlitestore.NewSQLiteStore(cfg.DatabasePath))
}

// NewWithStorage initialises store and recovers the state from it.
func NewWithStorage(cfg *config.Config, store storage.Storage) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		cfg:     cfg,
		storage: store,
		defaults: popup.Defaults{
			Categories: cfg.Defaults.Categories,
			TaskTypes:  cfg.Defaults.TaskTypes,
		},
		layout:  cfg.Layout(),
		now:     time.Now,
		ticks:   make(chan timer.Tick, 1),
		reloads: make(chan popup.State, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	a.timer = timer.New(cfg.TimerInterval(), a.ticks)

	if err := a.storage.Init(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	snap, err := storage.Load(ctx, a.storage)
	if err != nil {
		cancel()
		_ = a.storage.Close()
		return nil, err
	}
	a.state = popup.Restore(snap, a.defaults)
	log.Printf("State recovered: %s, %d logs, %d categories, %d task types",
		a.state.Lifecycle(), len(a.state.Logs), len(a.state.Categories), len(a.state.TaskTypes))

	return a, nil
}

func (a *App) State() popup.State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *App) Config() *config.Config {
	return a.cfg
}

// Env is the handler environment for an event happening now.
func (a *App) Env() popup.Env {
	return popup.Env{Now: a.now(), Layout: a.layout}
}

// Dispatch runs one command. Writes are acknowledged before the new state is
// committed; a failed write keeps the previous state, is reported as a notice
// and returned as the error.
func (a *App) Dispatch(ctx context.Context, cmd popup.Command) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, effects := a.state.Apply(cmd, a.Env())

	for _, e := range effects {
		p, ok := e.(popup.Persist)
		if !ok {
			continue
		}
		if err := storage.Put(ctx, a.storage, p.Values); err != nil {
			log.Printf("Error persisting %T: %v", cmd, err)
			return Result{
				State:   a.state,
				Notices: []popup.Notice{{Message: "Could not save: " + err.Error(), Err: err}},
			}, err
		}
	}

	a.state = next
	res := Result{State: next}
	for _, e := range effects {
		switch e := e.(type) {
		case popup.Notice:
			res.Notices = append(res.Notices, e)
		case popup.Confirm:
			res.Confirms = append(res.Confirms, e)
		case popup.Download:
			res.Downloads = append(res.Downloads, e)
		case popup.StartTimer:
			a.startTimerLocked(e.StartTime)
		case popup.StopTimer:
			a.stopTimerLocked()
		}
	}
	return res, nil
}

// Reload re-reads the store and merges it into the current state.
func (a *App) Reload(ctx context.Context) (popup.State, error) {
	snap, err := storage.Load(ctx, a.storage)
	if err != nil {
		return a.State(), err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = a.state.Reloaded(snap, a.defaults)
	a.syncTimerLocked()
	return a.state, nil
}

// Backup returns everything the store holds.
func (a *App) Backup(ctx context.Context) (storage.Snapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return storage.Load(ctx, a.storage)
}

// Restore replaces the stored keys with snap and recovers the state from it.
func (a *App) Restore(ctx context.Context, snap storage.Snapshot) (popup.State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := storage.Put(ctx, a.storage, snap.Values()); err != nil {
		return a.state, err
	}
	stored, err := storage.Load(ctx, a.storage)
	if err != nil {
		return a.state, err
	}
	a.state = popup.Restore(stored, a.defaults)
	a.syncTimerLocked()
	log.Printf("Store restored: %d logs", len(stored.Logs))
	return a.state, nil
}

// Ticks turns the elapsed timer on and returns its updates. Until then timer
// effects only record the start time.
func (a *App) Ticks() <-chan timer.Tick {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.timerEnabled {
		a.timerEnabled = true
		a.syncTimerLocked()
	}
	return a.ticks
}

// Watch starts reloading the state whenever another process writes the store.
// Reloaded states are delivered on the returned channel; a state that is not
// consumed is replaced by the next one. It returns nil when watching is
// disabled in the config.
func (a *App) Watch() (<-chan popup.State, error) {
	if !a.cfg.WatchStore {
		return nil, nil
	}
	a.mu.Lock()
	if a.watcher != nil {
		a.mu.Unlock()
		return a.reloads, nil
	}
	w, err := watcher.New(a.storage.Path())
	if err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("failed to watch store: %w", err)
	}
	a.watcher = w
	a.mu.Unlock()

	a.wg.Go(func() { a.watchLoop(w) })
	return a.reloads, nil
}

func (a *App) watchLoop(w *watcher.Watcher) {
	defer log.Println("Store watcher loop stopped.")
	for {
		select {
		case <-a.ctx.Done():
			return
		case _, ok := <-w.Changes():
			if !ok {
				return
			}
			state, err := a.Reload(a.ctx)
			if err != nil {
				log.Printf("Error reloading store: %v", err)
				continue
			}
			select {
			case <-a.reloads:
			default:
			}
			a.reloads <- state
		}
	}
}

func (a *App) startTimerLocked(start time.Time) {
	a.timerStart = start
	if a.timerEnabled {
		a.timer.Start(start)
	}
}

func (a *App) stopTimerLocked() {
	a.timerStart = time.Time{}
	a.timer.Stop()
}

// syncTimerLocked makes the timer follow a state that changed without a
// timer effect (reload, restore, first enable).
func (a *App) syncTimerLocked() {
	cur := a.state.Current
	if cur == nil {
		if !a.timerStart.IsZero() || a.timer.Running() {
			a.stopTimerLocked()
		}
		return
	}
	start := cur.Started()
	if !start.Equal(a.timerStart) || (a.timerEnabled && !a.timer.Running()) {
		a.startTimerLocked(start)
	}
}

// Close stops the background work and closes the store.
func (a *App) Close() error {
	log.Println("Running cleanup...")
	a.cancel()
	a.timer.Close()

	var err error
	a.mu.Lock()
	w := a.watcher
	a.watcher = nil
	a.mu.Unlock()
	if w != nil {
		err = multierr.Append(err, w.Close())
	}
	a.wg.Wait()

	if a.storage != nil {
		err = multierr.Append(err, a.storage.Close())
	}
	if err != nil {
		log.Printf("Error during cleanup: %v", err)
	}
	log.Println("Cleanup finished.")
	return err
}

// Truncate shortens s to maxLen runes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
