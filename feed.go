package main

import (
	"time"

	"github.com/google/uuid"
)

type feedKind string

const (
	feedBust   feedKind = "bust"
	feedCancel feedKind = "cancel"
	feedTap    feedKind = "tap"
)

// feedEvent is one entry of the activity stream served at /events.
type feedEvent struct {
	ID      string    `json:"id"`
	Kind    feedKind  `json:"kind"`
	Element string    `json:"element,omitempty"`
	Trigger string    `json:"trigger,omitempty"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Error   string    `json:"error,omitempty"`
	Time    time.Time `json:"time"`
}

func (e feedEvent) stamped() feedEvent {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	return e
}
