package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Gleipnir-Technology/fastclick/notify"
	"github.com/Gleipnir-Technology/fastclick/state"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const maxReplayBytes = 1 << 20

type Webserver struct {
	chanStateChange <-chan *state.Page
	feed            *notify.SubscriptionManager[feedEvent]
	heartbeat       time.Duration

	mu     sync.RWMutex
	latest *state.Page
}

func NewWebserver(chanStateChange <-chan *state.Page, feed *notify.SubscriptionManager[feedEvent]) *Webserver {
	return &Webserver{
		chanStateChange: chanStateChange,
		feed:            feed,
		heartbeat:       15 * time.Second,
	}
}

func (ws *Webserver) Start(ctx context.Context, bind string) error {
	logger := log.Ctx(ctx)
	server := &http.Server{
		Addr:    bind,
		Handler: ws.routes(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	go ws.track(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("bind", bind).Msg("webserver starting")
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// track keeps the newest snapshot for /state.
func (ws *Webserver) track(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-ws.chanStateChange:
			ws.setLatest(s)
		}
	}
}

func (ws *Webserver) setLatest(s *state.Page) {
	ws.mu.Lock()
	ws.latest = s
	ws.mu.Unlock()
}

func (ws *Webserver) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/state", ws.handleState)
	r.Get("/events", ws.handleEvents)
	r.Post("/replay", handleReplay)
	return r
}

func (ws *Webserver) handleState(w http.ResponseWriter, r *http.Request) {
	ws.mu.RLock()
	s := ws.latest
	ws.mu.RUnlock()
	if s == nil {
		http.Error(w, "no page yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// handleEvents streams the activity feed as Server-Sent Events.
func (ws *Webserver) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	sub := ws.feed.Subscribe()
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	fmt.Fprintf(w, "event: connected\ndata: {\"time\": %q}\n\n", time.Now().Format(time.RFC3339))
	flusher.Flush()

	ticker := time.NewTicker(ws.heartbeat)
	defer ticker.Stop()
	done := r.Context().Done()
	for {
		select {
		case <-done:
			log.Debug().Msg("Client closed connection")
			return
		case t := <-ticker.C:
			fmt.Fprintf(w, ": heartbeat %s\n\n", t.Format(time.RFC3339))
			flusher.Flush()
		case ev := <-sub.C:
			data, err := json.Marshal(ev)
			if err != nil {
				log.Warn().Err(err).Msg("marshal feed event")
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", ev.ID, ev.Kind, data)
			flusher.Flush()
		}
	}
}

func handleReplay(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxReplayBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	script, err := parseReplay(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := runReplay(script)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}
