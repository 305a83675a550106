package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"interruptlog/internal/config"
	"interruptlog/internal/event"
	"interruptlog/internal/listedit"
	"interruptlog/internal/popup"
	"interruptlog/internal/storage"
)

// TestPropertyStoredListsMatchState drives random list edits through Dispatch
// on a sqlite store and checks after every step that the stored lists equal
// the in-memory ones and hold no duplicates.
func TestPropertyStoredListsMatchState(t *testing.T) {
	ctx := context.Background()
	kinds := []event.ListKind{event.KindCategory, event.KindTaskType}

	rapid.Check(t, func(rt *rapid.T) {
		cfg := &config.Config{
			DatabasePath:         filepath.Join(t.TempDir(), "test_interruptlog.db"),
			ExportDir:            t.TempDir(),
			Locale:               "en-US",
			TimerIntervalSeconds: 1,
			Defaults: config.DefaultsConfig{
				Categories: []string{"a", "b", "c"},
				TaskTypes:  []string{"x", "y"},
			},
		}
		a, err := NewApp(cfg)
		if err != nil {
			rt.Fatalf("open app: %v", err)
		}
		defer a.Close()

		ops := rapid.IntRange(1, 25).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			kind := rapid.SampledFrom(kinds).Draw(rt, fmt.Sprintf("kind%d", i))
			n := len(a.State().List(kind))

			var cmd popup.Command
			switch rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("op%d", i)) {
			case 0:
				v := rapid.StringMatching(` ?[a-dxy]{0,2} ?`).Draw(rt, fmt.Sprintf("value%d", i))
				cmd = popup.AddItem{Kind: kind, Value: v}
			case 1:
				idx := rapid.IntRange(-1, n).Draw(rt, fmt.Sprintf("remove%d", i))
				cmd = popup.RemoveItem{Kind: kind, Index: idx}
			case 2:
				from := rapid.IntRange(-1, n).Draw(rt, fmt.Sprintf("from%d", i))
				to := rapid.IntRange(0, n+1).Draw(rt, fmt.Sprintf("to%d", i))
				cmd = popup.Drop{
					Source: listedit.Handle{Kind: kind, Index: from},
					Target: listedit.Handle{Kind: kind, Index: to},
				}
			}
			if _, err := a.Dispatch(ctx, cmd); err != nil {
				rt.Fatalf("dispatch %#v: %v", cmd, err)
			}

			stored, err := storage.Load(ctx, a.storage)
			if err != nil {
				rt.Fatalf("load: %v", err)
			}
			s := a.State()
			if stored.HasCategories && !slices.Equal(stored.Categories, s.Categories) {
				rt.Fatalf("stored categories %v != in-memory %v", stored.Categories, s.Categories)
			}
			if stored.HasTaskTypes && !slices.Equal(stored.TaskTypes, s.TaskTypes) {
				rt.Fatalf("stored task types %v != in-memory %v", stored.TaskTypes, s.TaskTypes)
			}
			// a list never written still shows the defaults
			if !stored.HasCategories && !slices.Equal(s.Categories, cfg.Defaults.Categories) {
				rt.Fatalf("unsaved categories drifted: %v", s.Categories)
			}
			if !stored.HasTaskTypes && !slices.Equal(s.TaskTypes, cfg.Defaults.TaskTypes) {
				rt.Fatalf("unsaved task types drifted: %v", s.TaskTypes)
			}
			for _, kind := range kinds {
				seen := make(map[string]bool)
				for _, v := range s.List(kind) {
					if seen[v] {
						rt.Fatalf("duplicate %q in %s list %v", v, kind, s.List(kind))
					}
					seen[v] = true
				}
			}
		}
	})
}
