package main

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Gleipnir-Technology/fastclick/notify"
	"github.com/Gleipnir-Technology/fastclick/state"
)

func newTestWebserver() *Webserver {
	return NewWebserver(make(chan *state.Page), notify.NewSubscriptionManager[feedEvent]())
}

func TestStateBeforeFirstSnapshot(t *testing.T) {
	ws := newTestWebserver()
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("got status %d", rec.Code)
	}
}

func TestStateServesLatestSnapshot(t *testing.T) {
	ws := newTestWebserver()
	ws.setLatest(&state.Page{
		Touch:      true,
		Suppressed: 3,
		Elements:   []*state.Element{{Name: "save", Status: state.StatusTapCompleted, Taps: 2}},
	})
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var got struct {
		Touch      bool `json:"touch"`
		Suppressed int  `json:"suppressed"`
		Elements   []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
			Taps   int    `json:"taps"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Touch || got.Suppressed != 3 || len(got.Elements) != 1 {
		t.Fatalf("got %+v", got)
	}
	if e := got.Elements[0]; e.Name != "save" || e.Status != "tapped" || e.Taps != 2 {
		t.Errorf("got element %+v", e)
	}
}

func TestTrackUpdatesLatest(t *testing.T) {
	changes := make(chan *state.Page)
	ws := NewWebserver(changes, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ws.track(ctx)

	changes <- &state.Page{Cancelled: 1}
	changes <- &state.Page{Cancelled: 2}
	// The second send returns only after the first was stored.
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	if ws.latest == nil || ws.latest.Cancelled < 1 {
		t.Errorf("got %+v", ws.latest)
	}
}

func TestReplayEndpoint(t *testing.T) {
	ws := newTestWebserver()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/replay", strings.NewReader(ghostScript))
	ws.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	var got replayResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Events) != 4 || !got.Events[2].Prevented {
		t.Errorf("got events %+v", got.Events)
	}
}

func TestReplayEndpointRejectsBadScript(t *testing.T) {
	ws := newTestWebserver()
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/replay", strings.NewReader("nope")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d", rec.Code)
	}
}

func TestEventsStream(t *testing.T) {
	feed := notify.NewSubscriptionManager[feedEvent]()
	ws := NewWebserver(make(chan *state.Page), feed)
	server := httptest.NewServer(ws.routes())
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("got content type %q", ct)
	}

	// The connected event is flushed after the handler subscribed.
	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil || line != "event: connected\n" {
		t.Fatalf("got %q, %v", line, err)
	}
	for line != "\n" {
		if line, err = reader.ReadString('\n'); err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	feed.Publish(feedEvent{Kind: feedBust, X: 10, Y: 20}.stamped())

	var lines []string
	for len(lines) < 3 {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		line = strings.TrimSuffix(line, "\n")
		if strings.HasPrefix(line, "id: ") || strings.HasPrefix(line, "event: ") || strings.HasPrefix(line, "data: ") {
			lines = append(lines, line)
		}
	}
	if lines[1] != "event: bust" {
		t.Errorf("got %q", lines[1])
	}
	var ev feedEvent
	if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[2], "data: ")), &ev); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if ev.Kind != feedBust || ev.X != 10 || ev.Y != 20 {
		t.Errorf("got %+v", ev)
	}
}
