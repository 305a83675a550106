package popup

import (
	"errors"
	"fmt"
	"log"

	"interruptlog/internal/event"
	"interruptlog/internal/export"
	"interruptlog/internal/lifecycle"
	"interruptlog/internal/listedit"
	"interruptlog/internal/storage"
)

var (
	ErrSettingsWhileTracking = errors.New("settings are unavailable while an interruption is tracked")
	ErrUnknownList           = errors.New("unknown list")
)

// Command is a user intent handled by State.Apply.
type Command interface {
	command()
}

type (
	Start         struct{ Category string }
	SetTaskType   struct{ Value string }
	SetMemo       struct{ Value string }
	Complete      struct{}
	Discard       struct{}
	OpenSettings  struct{}
	CloseSettings struct{}
	AddItem       struct {
		Kind  event.ListKind
		Value string
	}
	// RequestRemove asks for confirmation before RemoveItem.
	RequestRemove struct {
		Kind  event.ListKind
		Index int
	}
	RemoveItem struct {
		Kind  event.ListKind
		Index int
	}
	// Drop finishes a drag of Source onto Target.
	Drop struct {
		Source listedit.Handle
		Target listedit.Handle
	}
	Export struct{}
)

func (Start) command()         {}
func (SetTaskType) command()   {}
func (SetMemo) command()       {}
func (Complete) command()      {}
func (Discard) command()       {}
func (OpenSettings) command()  {}
func (CloseSettings) command() {}
func (AddItem) command()       {}
func (RequestRemove) command() {}
func (RemoveItem) command()    {}
func (Drop) command()          {}
func (Export) command()        {}

// Apply handles one command. On a validation failure the returned state equals
// s and the only effect is a Notice.
func (s State) Apply(cmd Command, env Env) (State, []Effect) {
	switch c := cmd.(type) {
	case Start:
		cur, err := lifecycle.Start(s.Current, c.Category, s.TaskTypes, env.Now)
		if err != nil {
			return s, notice(err)
		}
		s.Current = cur
		s.View = ViewTracking
		return s, []Effect{
			Persist{Values: storage.Values{storage.KeyCurrent: cur}},
			StartTimer{StartTime: cur.Started()},
		}

	case SetTaskType:
		cur, err := lifecycle.EditTaskType(s.Current, c.Value)
		if err != nil {
			return s, notice(err)
		}
		s.Current = cur
		return s, []Effect{Persist{Values: storage.Values{storage.KeyCurrent: cur}}}

	case SetMemo:
		cur, err := lifecycle.EditMemo(s.Current, c.Value)
		if err != nil {
			return s, notice(err)
		}
		s.Current = cur
		return s, []Effect{Persist{Values: storage.Values{storage.KeyCurrent: cur}}}

	case Complete:
		entry, err := lifecycle.Complete(s.Current, env.Now)
		if err != nil {
			return s, notice(err)
		}
		logs := make([]event.LogEntry, 0, len(s.Logs)+1)
		logs = append(logs, s.Logs...)
		logs = append(logs, entry)

		s.Logs = logs
		s.Current = nil
		s.View = ViewMain
		return s, []Effect{
			Persist{Values: storage.Values{
				storage.KeyLogs:    logs,
				storage.KeyCurrent: (*event.CurrentInterruption)(nil),
			}},
			StopTimer{},
		}

	case Discard:
		if err := lifecycle.Discard(s.Current); err != nil {
			return s, notice(err)
		}
		s.Current = nil
		s.View = ViewMain
		return s, []Effect{
			Persist{Values: storage.Values{storage.KeyCurrent: (*event.CurrentInterruption)(nil)}},
			StopTimer{},
		}

	case OpenSettings:
		if s.Current != nil {
			return s, notice(ErrSettingsWhileTracking)
		}
		s.View = ViewSettings
		return s, nil

	case CloseSettings:
		if s.View == ViewSettings {
			s.View = ViewMain
		}
		return s, nil

	case AddItem:
		if !c.Kind.Valid() {
			return s, notice(fmt.Errorf("%w %q", ErrUnknownList, c.Kind))
		}
		list, err := listedit.Add(c.Kind, s.List(c.Kind), c.Value)
		if err != nil {
			return s, notice(err)
		}
		return s.withList(c.Kind, list), []Effect{persistList(c.Kind, list)}

	case RequestRemove:
		if !c.Kind.Valid() {
			return s, notice(fmt.Errorf("%w %q", ErrUnknownList, c.Kind))
		}
		list := s.List(c.Kind)
		if c.Index < 0 || c.Index >= len(list) {
			return s, notice(fmt.Errorf("remove %d: %w", c.Index, listedit.ErrIndexOutOfRange))
		}
		return s, []Effect{Confirm{
			Message:   removePrompt(c.Kind, list[c.Index]),
			OnConfirm: RemoveItem{Kind: c.Kind, Index: c.Index},
		}}

	case RemoveItem:
		if !c.Kind.Valid() {
			return s, notice(fmt.Errorf("%w %q", ErrUnknownList, c.Kind))
		}
		list, err := listedit.Remove(s.List(c.Kind), c.Index)
		if err != nil {
			return s, notice(err)
		}
		return s.withList(c.Kind, list), []Effect{persistList(c.Kind, list)}

	case Drop:
		if !c.Target.Kind.Valid() || !c.Target.Accepts(c.Source) {
			return s, nil
		}
		list, err := listedit.Reorder(s.List(c.Target.Kind), c.Source.Index, c.Target.Index)
		if err != nil {
			// stale indices from a list that changed under the drag
			log.Printf("Ignoring drop %+v -> %+v: %v", c.Source, c.Target, err)
			return s, nil
		}
		return s.withList(c.Target.Kind, list), []Effect{persistList(c.Target.Kind, list)}

	case Export:
		data, err := export.ToCSV(s.Logs, env.Layout, env.Now.Location())
		if err != nil {
			return s, notice(err)
		}
		return s, []Effect{Download{Filename: export.FileName(env.Now), Data: data}}
	}

	log.Printf("Warning: unknown command %T", cmd)
	return s, nil
}

func persistList(kind event.ListKind, list []string) Effect {
	return Persist{Values: storage.Values{listKey(kind): list}}
}

func removePrompt(kind event.ListKind, value string) string {
	if kind == event.KindTaskType {
		return fmt.Sprintf("Delete task type %q?", value)
	}
	return fmt.Sprintf("Delete category %q?", value)
}
