package popup

import (
	"time"

	"interruptlog/internal/storage"
)

// Effect is a side effect requested by a handler.
type Effect interface {
	effect()
}

// Persist asks for values to be written to the store. The new state is only
// valid once the write is acknowledged.
type Persist struct {
	Values storage.Values
}

// Notice is shown to the user; Err is the validation error behind it.
type Notice struct {
	Message string
	Err     error
}

// Confirm asks a yes/no question and runs OnConfirm on yes.
type Confirm struct {
	Message   string
	OnConfirm Command
}

// Download offers Data for saving under Filename.
type Download struct {
	Filename string
	Data     []byte
}

// StartTimer and StopTimer control the elapsed-time display.
type StartTimer struct {
	StartTime time.Time
}

type StopTimer struct{}

func (Persist) effect()    {}
func (Notice) effect()     {}
func (Confirm) effect()    {}
func (Download) effect()   {}
func (StartTimer) effect() {}
func (StopTimer) effect()  {}

func notice(err error) []Effect {
	return []Effect{Notice{Message: err.Error(), Err: err}}
}
