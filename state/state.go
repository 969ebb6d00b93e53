package state

import (
	"time"
)

type Page struct {
	Touch      bool          `json:"touch"`
	Window     time.Duration `json:"window"`
	Elements   []*Element    `json:"elements"`
	Records    []Record      `json:"records"`
	Suppressed int           `json:"suppressed"`
	Cancelled  int           `json:"cancelled"`
	// Log is the tail of the application log, ANSI colored.
	Log []byte `json:"-"`
}
type Element struct {
	Name   string         `json:"name"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	W      float64        `json:"w"`
	H      float64        `json:"h"`
	Expr   string         `json:"expr,omitempty"`
	Status StatusTap      `json:"status"`
	Taps   int            `json:"taps"`
	Values map[string]any `json:"values,omitempty"`
	Error  string         `json:"error,omitempty"`
}
type Record struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
type StatusTap int

const (
	StatusTapIdle StatusTap = iota
	StatusTapTouching
	StatusTapCompleted
	StatusTapCancelled
	StatusTapFailed
)

func StatusStringTap(s StatusTap) string {
	switch s {
	case StatusTapIdle:
		return "idle"
	case StatusTapTouching:
		return "touching"
	case StatusTapCompleted:
		return "tapped"
	case StatusTapCancelled:
		return "cancelled"
	case StatusTapFailed:
		return "failed"
	}
	return "unknown"
}

func (s StatusTap) MarshalText() ([]byte, error) {
	return []byte(StatusStringTap(s)), nil
}
