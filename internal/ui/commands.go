package ui

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"interruptlog/internal/app"
	"interruptlog/internal/export"
	"interruptlog/internal/popup"
)

const dispatchTimeout = 5 * time.Second

func dispatchCmd(a *app.App, cmd popup.Command) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		res, err := a.Dispatch(ctx, cmd)
		return dispatchedMsg{result: res, err: err}
	}
}

func saveCmd(path string, data []byte) tea.Cmd {
	return func() tea.Msg {
		written, err := export.Save(filepath.Dir(path), filepath.Base(path), data)
		if err != nil {
			return errMsg{err: err}
		}
		return savedMsg{path: written}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
