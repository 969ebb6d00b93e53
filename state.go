package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Gleipnir-Technology/fastclick/loop"
	"github.com/Gleipnir-Technology/fastclick/notify"
	"github.com/Gleipnir-Technology/fastclick/state"
	"github.com/Gleipnir-Technology/fastclick/ui"
	"github.com/rs/zerolog/log"
)

// pageManager owns the live page. Its Run loop is the only goroutine that
// touches the document, so every dispatch, timer and reload goes through it.
type pageManager struct {
	cfg        Config
	configPath string
	emu        *emulator
	feed       *notify.SubscriptionManager[feedEvent]
	logTail    *logTail
	page       *page
	queue      *loop.Queue

	chanReload          chan struct{}
	chanSomethingDied   chan error
	chanUIEvents        chan ui.Event
	chanUIState         chan *state.Page
	chanWebserverChange chan *state.Page
	isRunning           bool
}

func newPageManager(cfg Config, configPath string, tail *logTail) *pageManager {
	return &pageManager{
		cfg:                 cfg,
		configPath:          configPath,
		feed:                notify.NewSubscriptionManagerSize[feedEvent](64),
		logTail:             tail,
		queue:               loop.NewQueue(64),
		chanReload:          make(chan struct{}, 1),
		chanSomethingDied:   make(chan error),
		chanUIEvents:        make(chan ui.Event),
		chanUIState:         make(chan *state.Page, 1),
		chanWebserverChange: make(chan *state.Page, 10),
		isRunning:           true,
	}
}

func (mgr *pageManager) Run(ctx context.Context, u ui.UI) error {
	// Create a context that we can cancel for signaling all goroutines to clean up
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer mgr.queue.Close()

	if err := mgr.rebuild(mgr.cfg); err != nil {
		return err
	}
	defer func() {
		mgr.page.close()
	}()

	if mgr.configPath != "" {
		watcher := Watcher{
			Debounce: 300 * time.Millisecond,
			OnChange: mgr.chanReload,
			Path:     mgr.configPath,
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				mgr.died(ctx, fmt.Errorf("watcher died: %w", err))
			}
		}()
	}

	ws := NewWebserver(mgr.chanWebserverChange, mgr.feed)
	go func() {
		if err := ws.Start(ctx, mgr.cfg.Bind); err != nil {
			mgr.died(ctx, fmt.Errorf("webserver died: %w", err))
		}
	}()

	go func() {
		if err := u.Run(ctx, mgr.chanUIEvents, mgr.chanUIState); err != nil {
			mgr.died(ctx, fmt.Errorf("ui died: %w", err))
		}
	}()

	// Buster records expire on their own, so redraw periodically.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var causeOfDeath error
	for mgr.isRunning {
		mgr.publish()
		select {
		case <-ctx.Done():
			mgr.isRunning = false
		case causeOfDeath = <-mgr.chanSomethingDied:
			log.Error().Err(causeOfDeath).Msg("something died")
			mgr.isRunning = false
		case <-mgr.chanReload:
			mgr.handleReload()
		case evt := <-mgr.chanUIEvents:
			mgr.handleEventUI(evt)
		case task := <-mgr.queue.C():
			task()
		case <-ticker.C:
		}
		mgr.page.drain()
	}
	log.Debug().Msg("exiting state run loop")
	if causeOfDeath != nil {
		return fmt.Errorf("Instadeath: %w", causeOfDeath)
	}
	return nil
}

func (mgr *pageManager) died(ctx context.Context, err error) {
	select {
	case mgr.chanSomethingDied <- err:
	case <-ctx.Done():
	}
}

// rebuild replaces the live page with one built from cfg. The old page stays
// when cfg does not build.
func (mgr *pageManager) rebuild(cfg Config) error {
	p, err := newPage(cfg, mgr.queue, mgr.feed)
	if err != nil {
		return fmt.Errorf("build page: %w", err)
	}
	if mgr.page != nil {
		mgr.page.close()
	}
	mgr.cfg = cfg
	mgr.page = p
	mgr.emu = newEmulator(p.doc, mgr.queue, cfg.ClickDelay())
	return nil
}

func (mgr *pageManager) handleReload() {
	cfg, err := loadConfig(mgr.configPath)
	if err != nil {
		log.Error().Err(err).Msg("config reload failed, keeping current page")
		return
	}
	// The touch toggle is a runtime choice and survives reloads.
	cfg.Touch = mgr.cfg.Touch
	if err := mgr.rebuild(cfg); err != nil {
		log.Error().Err(err).Msg("config reload failed, keeping current page")
		return
	}
	log.Info().Str("path", mgr.configPath).Msg("config reloaded")
}

func (mgr *pageManager) handleEventUI(evt ui.Event) {
	switch evt.Type {
	case ui.EventExit:
		log.Debug().Msg("exit requested")
		mgr.isRunning = false
	case ui.EventPointer:
		log.Debug().Stringer("phase", evt.Phase).Float64("x", evt.X).Float64("y", evt.Y).Msg("pointer")
		switch evt.Phase {
		case ui.PhaseDown:
			mgr.emu.Down(evt.X, evt.Y)
		case ui.PhaseMove:
			mgr.emu.Move(evt.X, evt.Y)
		case ui.PhaseUp:
			mgr.emu.Up(evt.X, evt.Y)
		}
	case ui.EventToggleTouch:
		cfg := mgr.cfg
		cfg.Touch = !cfg.Touch
		if err := mgr.rebuild(cfg); err != nil {
			log.Error().Err(err).Msg("toggle touch")
			return
		}
		log.Info().Bool("touch", cfg.Touch).Msg("touch support toggled")
	case ui.EventResize, ui.EventUpdate:
	default:
		log.Debug().Int("type", int(evt.Type)).Msg("unrecognized ui event")
	}
}

// publish hands the current snapshot to the UI and the webserver without
// waiting on either.
func (mgr *pageManager) publish() {
	s := mgr.page.snapshot()
	if mgr.logTail != nil {
		s.Log = mgr.logTail.Bytes()
	}
	select {
	case mgr.chanUIState <- s:
	default:
		// Replace a snapshot the UI has not picked up yet.
		select {
		case <-mgr.chanUIState:
		default:
		}
		select {
		case mgr.chanUIState <- s:
		default:
		}
	}
	select {
	case mgr.chanWebserverChange <- s:
	default:
	}
}
