// Package ui implements the interactive popup: the main, tracking and settings
// views plus the picker, confirm, notice and save-as dialogs.
package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sourcegraph/conc"

	"interruptlog/internal/app"
	"interruptlog/internal/popup"
	"interruptlog/internal/timer"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Run shows the popup until the user quits.
func Run(a *app.App) error {
	reloads, err := a.Watch()
	if err != nil {
		return err
	}
	ticks := a.Ticks()

	ref := &programRef{}
	p := tea.NewProgram(NewModel(a), tea.WithAltScreen())
	ref.Set(p)

	ctx, cancel := context.WithCancel(context.Background())
	var wg conc.WaitGroup
	wg.Go(func() { forward(ctx, ref, ticks, reloads) })

	_, err = p.Run()
	ref.Clear()
	cancel()
	wg.Wait()
	return err
}

// forward relays timer ticks and store reloads into the program. A nil
// reloads channel never fires.
func forward(ctx context.Context, ref *programRef, ticks <-chan timer.Tick, reloads <-chan popup.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-ticks:
			if !ok {
				return
			}
			ref.Send(tickMsg(t))
		case s := <-reloads:
			ref.Send(reloadedMsg{state: s})
		}
	}
}
