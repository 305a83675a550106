package ui

import (
	"interruptlog/internal/app"
	"interruptlog/internal/popup"
	"interruptlog/internal/timer"
)

// dispatchedMsg carries the outcome of a command run by the app.
type dispatchedMsg struct {
	result app.Result
	err    error
}

// tickMsg updates the elapsed-time display.
type tickMsg timer.Tick

// reloadedMsg carries state re-read after another process wrote the store.
type reloadedMsg struct {
	state popup.State
}

// savedMsg signals an export file was written.
type savedMsg struct {
	path string
}

// errMsg carries an error to show in a notice.
type errMsg struct {
	err error
}

// clearStatusMsg clears the status line.
type clearStatusMsg struct{}
