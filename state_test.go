package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Gleipnir-Technology/fastclick/ui"
)

func newTestManager(t *testing.T, configPath string) *pageManager {
	t.Helper()
	t.Setenv("FASTCLICK_BIND", "")
	t.Setenv("FASTCLICK_WINDOW_MS", "")
	mgr := newPageManager(defaultConfig(), configPath, newLogTail(1024))
	if err := mgr.rebuild(mgr.cfg); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	t.Cleanup(func() {
		mgr.page.close()
		mgr.queue.Close()
	})
	return mgr
}

func TestManagerToggleTouch(t *testing.T) {
	mgr := newTestManager(t, "")
	old := mgr.page
	mgr.handleEventUI(ui.Event{Type: ui.EventToggleTouch})
	if mgr.page == old {
		t.Fatal("page not rebuilt")
	}
	if mgr.cfg.Touch || mgr.page.doc.TouchCapable() {
		t.Error("touch still enabled")
	}
}

func TestManagerPointerWithoutTouch(t *testing.T) {
	mgr := newTestManager(t, "")
	mgr.handleEventUI(ui.Event{Type: ui.EventToggleTouch})
	mgr.handleEventUI(ui.Event{Type: ui.EventPointer, Phase: ui.PhaseDown, X: 50, Y: 50})
	mgr.handleEventUI(ui.Event{Type: ui.EventPointer, Phase: ui.PhaseUp, X: 50, Y: 50})
	mgr.page.drain()
	if got := mgr.page.snapshot().Elements[0].Taps; got != 1 {
		t.Errorf("got taps %d", got)
	}
}

func TestManagerExit(t *testing.T) {
	mgr := newTestManager(t, "")
	mgr.handleEventUI(ui.Event{Type: ui.EventExit})
	if mgr.isRunning {
		t.Error("still running")
	}
}

func TestManagerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fastclick.toml")
	mgr := newTestManager(t, path)
	data := []byte("window_ms = 900\n\n[[element]]\nname = \"only\"\nw = 10.0\nh = 10.0\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	mgr.handleReload()
	snap := mgr.page.snapshot()
	if len(snap.Elements) != 1 || snap.Elements[0].Name != "only" {
		t.Fatalf("got elements %+v", snap.Elements)
	}
	if snap.Window.Milliseconds() != 900 {
		t.Errorf("got window %s", snap.Window)
	}

	// A broken file keeps the current page.
	if err := os.WriteFile(path, []byte("window_ms = 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	current := mgr.page
	mgr.handleReload()
	if mgr.page != current {
		t.Error("page replaced by invalid config")
	}
}

func TestManagerPublishReplacesStaleSnapshot(t *testing.T) {
	mgr := newTestManager(t, "")
	mgr.publish()
	mgr.handleEventUI(ui.Event{Type: ui.EventToggleTouch})
	mgr.publish()
	s := <-mgr.chanUIState
	if s.Touch {
		t.Error("ui got the stale snapshot")
	}
	if len(mgr.chanWebserverChange) != 2 {
		t.Errorf("webserver got %d snapshots", len(mgr.chanWebserverChange))
	}
}
