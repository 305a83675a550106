package ui

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"interruptlog/internal/app"
	"interruptlog/internal/event"
	"interruptlog/internal/listedit"
	"interruptlog/internal/popup"
)

// Overlay constants.
const (
	overlayNone    = 0
	overlayPicker  = 1
	overlayConfirm = 2
	overlayNotice  = 3
	overlaySaveAs  = 4
	overlayAddItem = 5
)

// Model is the root Bubbletea model for the popup.
type Model struct {
	app   *app.App
	state popup.State

	width  int
	height int

	activeOverlay int
	status        string

	// Tracking view
	elapsed time.Duration
	memo    textinput.Model

	// Category picker
	pickCursor int

	// Settings view
	focusKind event.ListKind
	cursors   map[event.ListKind]int
	grab      *listedit.Handle
	addInput  textinput.Model

	// Dialogs
	notice  string
	confirm popup.Confirm
	saveAs  textinput.Model
	pending []byte
}

func NewModel(a *app.App) Model {
	memo := textinput.New()
	memo.Placeholder = "Memo"
	memo.CharLimit = 500
	memo.Width = 40

	add := textinput.New()
	add.CharLimit = 100
	add.Width = 30

	saveAs := textinput.New()
	saveAs.Width = 50

	m := Model{
		app:       a,
		memo:      memo,
		addInput:  add,
		saveAs:    saveAs,
		focusKind: event.KindCategory,
		cursors:   map[event.ListKind]int{},
	}
	m.setState(a.State())
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, globalKeys.Quit) {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case dispatchedMsg:
		cmd := m.applyResult(msg.result)
		return m, cmd

	case reloadedMsg:
		m.setState(msg.state)
		return m, nil

	case tickMsg:
		if cur := m.state.Current; cur != nil && cur.Started().Equal(msg.StartTime) {
			m.elapsed = msg.Elapsed
		}
		return m, nil

	case savedMsg:
		m.status = "Saved " + msg.path
		return m, clearStatusAfter(5 * time.Second)

	case errMsg:
		m.showNotice(msg.err.Error())
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	return m, nil
}

// setState adopts a committed state. Entering the tracking view loads the memo
// field from the stored interruption.
func (m *Model) setState(s popup.State) {
	wasTracking := m.state.View == popup.ViewTracking
	m.state = s
	if s.View == popup.ViewTracking && !wasTracking {
		m.memo.SetValue(s.Current.Memo)
		m.memo.CursorEnd()
		m.memo.Focus()
		m.elapsed = s.Elapsed(time.Now())
	}
	if s.View != popup.ViewTracking {
		m.memo.Blur()
		m.elapsed = 0
	}
	if s.View != popup.ViewSettings {
		m.grab = nil
	}
	for _, kind := range []event.ListKind{event.KindCategory, event.KindTaskType} {
		m.cursors[kind] = clampIndex(m.cursors[kind], len(s.List(kind)))
	}
	m.pickCursor = clampIndex(m.pickCursor, len(s.Categories))
}

// applyResult takes the outcome of a dispatched command and opens whatever
// dialog it asks for.
func (m *Model) applyResult(res app.Result) tea.Cmd {
	m.setState(res.State)
	for _, n := range res.Notices {
		m.showNotice(n.Message)
	}
	for _, c := range res.Confirms {
		m.confirm = c
		m.activeOverlay = overlayConfirm
	}
	if len(res.Downloads) == 0 {
		return nil
	}
	d := res.Downloads[0]
	m.pending = d.Data
	m.saveAs.SetValue(filepath.Join(m.app.Config().ExportDir, d.Filename))
	m.saveAs.CursorEnd()
	m.activeOverlay = overlaySaveAs
	return m.saveAs.Focus()
}

func (m *Model) showNotice(text string) {
	m.notice = text
	m.activeOverlay = overlayNotice
}

func (m Model) dispatch(cmd popup.Command) tea.Cmd {
	return dispatchCmd(m.app, cmd)
}

// saveMemo writes the memo field before the keystroke is handled further, so
// the store holds every edit even if the process dies right after.
func (m *Model) saveMemo() tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	res, err := m.app.Dispatch(ctx, popup.SetMemo{Value: m.memo.Value()})
	if err != nil {
		log.Printf("Error saving memo: %v", err)
	}
	return m.applyResult(res)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.activeOverlay {
	case overlayNotice:
		m.activeOverlay = overlayNone
		m.notice = ""
		return m, nil
	case overlayConfirm:
		return m.handleConfirmKey(msg)
	case overlaySaveAs:
		return m.handleSaveAsKey(msg)
	case overlayPicker:
		return m.handlePickerKey(msg)
	case overlayAddItem:
		return m.handleAddKey(msg)
	}

	switch m.state.View {
	case popup.ViewTracking:
		return m.handleTrackingKey(msg)
	case popup.ViewSettings:
		return m.handleSettingsKey(msg)
	default:
		return m.handleMainKey(msg)
	}
}

func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, mainKeys.Start):
		m.pickCursor = clampIndex(m.pickCursor, len(m.state.Categories))
		m.activeOverlay = overlayPicker
	case key.Matches(msg, mainKeys.Settings):
		return m, m.dispatch(popup.OpenSettings{})
	case key.Matches(msg, mainKeys.Export):
		return m, m.dispatch(popup.Export{})
	case key.Matches(msg, mainKeys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.state.Categories)
	switch {
	case key.Matches(msg, listKeys.Up):
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case key.Matches(msg, listKeys.Down):
		if m.pickCursor < n-1 {
			m.pickCursor++
		}
	case key.Matches(msg, listKeys.Select):
		m.activeOverlay = overlayNone
		if n == 0 {
			return m, nil
		}
		return m, m.dispatch(popup.Start{Category: m.state.Categories[m.pickCursor]})
	case key.Matches(msg, listKeys.Cancel):
		m.activeOverlay = overlayNone
	}
	return m, nil
}

func (m Model) handleTrackingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := m.state.Current
	if cur == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, trackingKeys.NextType):
		return m, m.cycleTaskType(1)
	case key.Matches(msg, trackingKeys.PrevType):
		return m, m.cycleTaskType(-1)
	case key.Matches(msg, trackingKeys.Complete):
		return m, m.dispatch(popup.Complete{})
	case key.Matches(msg, trackingKeys.Discard):
		return m, m.dispatch(popup.Discard{})
	}

	before := m.memo.Value()
	var cmd tea.Cmd
	m.memo, cmd = m.memo.Update(msg)
	if m.memo.Value() != before {
		save := m.saveMemo()
		return m, tea.Batch(cmd, save)
	}
	return m, cmd
}

func (m *Model) cycleTaskType(step int) tea.Cmd {
	types := m.state.TaskTypes
	if len(types) == 0 {
		return nil
	}
	i := listedit.IndexOf(types, m.state.Current.TaskType)
	switch {
	case i < 0 && step > 0:
		i = 0
	case i < 0:
		i = len(types) - 1
	default:
		i = (i + step + len(types)) % len(types)
	}
	return m.dispatch(popup.SetTaskType{Value: types[i]})
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.state.List(m.focusKind)
	cursor := m.cursors[m.focusKind]

	switch {
	case key.Matches(msg, settingsKeys.Back):
		if m.grab != nil {
			m.grab = nil
			return m, nil
		}
		return m, m.dispatch(popup.CloseSettings{})
	case key.Matches(msg, settingsKeys.Up):
		if cursor > 0 {
			m.cursors[m.focusKind] = cursor - 1
		}
	case key.Matches(msg, settingsKeys.Down):
		if cursor < len(list)-1 {
			m.cursors[m.focusKind] = cursor + 1
		}
	case key.Matches(msg, settingsKeys.Switch):
		if m.focusKind == event.KindCategory {
			m.focusKind = event.KindTaskType
		} else {
			m.focusKind = event.KindCategory
		}
	case key.Matches(msg, settingsKeys.Add):
		m.addInput.SetValue("")
		m.addInput.Placeholder = "New " + kindLabel(m.focusKind)
		m.activeOverlay = overlayAddItem
		focus := m.addInput.Focus()
		return m, focus
	case key.Matches(msg, settingsKeys.Delete):
		if len(list) == 0 {
			return m, nil
		}
		return m, m.dispatch(popup.RequestRemove{Kind: m.focusKind, Index: cursor})
	case key.Matches(msg, settingsKeys.Grab):
		if len(list) == 0 {
			return m, nil
		}
		target := listedit.Handle{Kind: m.focusKind, Index: cursor}
		if m.grab == nil {
			m.grab = &target
			return m, nil
		}
		src := *m.grab
		m.grab = nil
		if !target.Accepts(src) {
			log.Printf("Ignoring drop %+v -> %+v", src, target)
			return m, nil
		}
		return m, m.dispatch(popup.Drop{Source: src, Target: target})
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Submit):
		m.activeOverlay = overlayNone
		m.addInput.Blur()
		return m, m.dispatch(popup.AddItem{Kind: m.focusKind, Value: m.addInput.Value()})
	case key.Matches(msg, formKeys.Cancel):
		m.activeOverlay = overlayNone
		m.addInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, confirmKeys.Yes):
		m.activeOverlay = overlayNone
		return m, m.dispatch(m.confirm.OnConfirm)
	case key.Matches(msg, confirmKeys.No):
		m.activeOverlay = overlayNone
		m.confirm = popup.Confirm{}
	}
	return m, nil
}

func (m Model) handleSaveAsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Submit):
		path := m.saveAs.Value()
		data := m.pending
		m.activeOverlay = overlayNone
		m.pending = nil
		m.saveAs.Blur()
		if path == "" {
			return m, nil
		}
		return m, saveCmd(path, data)
	case key.Matches(msg, formKeys.Cancel):
		m.activeOverlay = overlayNone
		m.pending = nil
		m.saveAs.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.saveAs, cmd = m.saveAs.Update(msg)
	return m, cmd
}

func kindLabel(kind event.ListKind) string {
	if kind == event.KindTaskType {
		return "task type"
	}
	return "category"
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
