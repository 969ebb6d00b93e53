package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Gleipnir-Technology/fastclick/state"
	"github.com/rs/zerolog/log"
)

type uiFlat struct {
	last string
	out  io.Writer
}

func newUIFlat(out io.Writer) (*uiFlat, error) {
	return &uiFlat{
		out: out,
	}, nil
}
func (u *uiFlat) Close() {}
func (u *uiFlat) Run(ctx context.Context, chanOnEvent chan<- Event, chanNewState <-chan *state.Page) error {
	logger := log.Ctx(ctx).With().Caller().Logger()
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("context ended, exiting UI")
			return nil
		case s := <-chanNewState:
			u.dump(s)
		}
	}
}

// dump prints one line per distinct snapshot.
func (u *uiFlat) dump(s *state.Page) {
	if s == nil {
		return
	}
	line := summary(s)
	if line == u.last {
		return
	}
	u.last = line
	fmt.Fprintln(u.out, line)
}

func summary(s *state.Page) string {
	touch := "off"
	if s.Touch {
		touch = "on"
	}
	parts := []string{
		fmt.Sprintf("touch %s", touch),
		fmt.Sprintf("window %s", s.Window),
		fmt.Sprintf("records %d", len(s.Records)),
		fmt.Sprintf("suppressed %d", s.Suppressed),
		fmt.Sprintf("cancelled %d", s.Cancelled),
	}
	for _, e := range s.Elements {
		parts = append(parts, fmt.Sprintf("%s:%d/%s", e.Name, e.Taps, state.StatusStringTap(e.Status)))
	}
	return strings.Join(parts, "\t")
}
