package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Gleipnir-Technology/fastclick/dom"
	"github.com/Gleipnir-Technology/fastclick/loop"
	"github.com/Gleipnir-Technology/fastclick/notify"
	"github.com/Gleipnir-Technology/fastclick/state"
	"github.com/tidwall/gjson"
)

// Step types beyond the raw DOM events. Pointer steps go through the
// emulator and so produce the browser's delayed click on their own.
const (
	stepDown = "down"
	stepMove = "move"
	stepUp   = "up"
)

type replayStep struct {
	AtMS   int64
	Type   string
	X      float64
	Y      float64
	Target string
}

type replayScript struct {
	Config Config
	Steps  []replayStep
}

type replayEvent struct {
	AtMS      int64   `json:"at_ms"`
	Type      string  `json:"type"`
	Target    string  `json:"target"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Stopped   bool    `json:"stopped"`
	Prevented bool    `json:"prevented"`
}

type replayResult struct {
	Events []replayEvent `json:"events"`
	Feed   []feedEvent   `json:"feed"`
	Page   *state.Page   `json:"page"`
}

func parseReplay(data []byte) (replayScript, error) {
	script := replayScript{Config: defaultConfig()}
	if !gjson.ValidBytes(data) {
		return script, errors.New("replay script is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	cfg := &script.Config
	if v := root.Get("touch"); v.Exists() {
		cfg.Touch = v.Bool()
	}
	if v := root.Get("bubble"); v.Exists() {
		cfg.Bubble = v.Bool()
	}
	if v := root.Get("window_ms"); v.Exists() {
		cfg.WindowMS = int(v.Int())
	}
	if v := root.Get("click_delay_ms"); v.Exists() {
		cfg.ClickDelayMS = int(v.Int())
	}
	if v := root.Get("elements"); v.Exists() {
		cfg.Elements = nil
		for _, e := range v.Array() {
			cfg.Elements = append(cfg.Elements, ElementConfig{
				Name:  e.Get("name").String(),
				X:     e.Get("x").Float(),
				Y:     e.Get("y").Float(),
				W:     e.Get("w").Float(),
				H:     e.Get("h").Float(),
				Expr:  e.Get("expr").String(),
				Watch: stringArray(e.Get("watch")),
			})
		}
	}
	if err := cfg.validate(); err != nil {
		return script, err
	}

	var last int64
	for i, s := range root.Get("steps").Array() {
		step := replayStep{
			AtMS:   s.Get("at_ms").Int(),
			Type:   s.Get("type").String(),
			X:      s.Get("x").Float(),
			Y:      s.Get("y").Float(),
			Target: s.Get("target").String(),
		}
		switch step.Type {
		case dom.Click, dom.TouchStart, dom.TouchMove, dom.TouchEnd, stepDown, stepMove, stepUp:
		default:
			return script, fmt.Errorf("step %d: unknown type %q", i, step.Type)
		}
		if step.AtMS < last {
			return script, fmt.Errorf("step %d: at_ms %d goes back in time", i, step.AtMS)
		}
		last = step.AtMS
		script.Steps = append(script.Steps, step)
	}
	return script, nil
}

func stringArray(v gjson.Result) []string {
	var out []string
	for _, s := range v.Array() {
		out = append(out, s.String())
	}
	return out
}

// runReplay plays script against a fresh page on a virtual clock. After the
// last step the clock runs on until every delayed click has fired.
func runReplay(script replayScript) (*replayResult, error) {
	clock := loop.NewVirtual()
	feed := notify.NewSubscriptionManager[feedEvent]()
	sub := feed.Subscribe()
	defer sub.Close()

	p, err := newPage(script.Config, clock, feed)
	if err != nil {
		return nil, err
	}
	defer p.close()

	result := &replayResult{Events: []replayEvent{}, Feed: []feedEvent{}}
	collect := func() {
		p.drain()
		for {
			select {
			case ev := <-sub.C:
				result.Feed = append(result.Feed, ev)
			default:
				return
			}
		}
	}
	record := func(ev *dom.Event) {
		collect()
		result.Events = append(result.Events, replayEvent{
			AtMS:      clock.Now().Milliseconds(),
			Type:      ev.Type,
			Target:    ev.Target.Name,
			X:         ev.ClientX,
			Y:         ev.ClientY,
			Stopped:   ev.PropagationStopped(),
			Prevented: ev.DefaultPrevented(),
		})
	}
	emu := newEmulator(p.doc, clock, script.Config.ClickDelay())
	emu.onDispatch = record

	for i, step := range script.Steps {
		clock.AdvanceTo(time.Duration(step.AtMS) * time.Millisecond)
		switch step.Type {
		case stepDown:
			emu.Down(step.X, step.Y)
		case stepMove:
			emu.Move(step.X, step.Y)
		case stepUp:
			emu.Up(step.X, step.Y)
		default:
			target := p.doc.HitTest(step.X, step.Y)
			if step.Target != "" {
				if target = p.doc.Find(step.Target); target == nil {
					return nil, fmt.Errorf("step %d: no element %q", i, step.Target)
				}
			}
			var ev *dom.Event
			if step.Type == dom.Click {
				ev = dom.NewClick(step.X, step.Y)
			} else {
				ev = dom.NewTouch(step.Type, step.X, step.Y)
			}
			target.Dispatch(ev)
			record(ev)
		}
	}
	clock.Advance(script.Config.ClickDelay())
	collect()
	result.Page = p.snapshot()
	return result, nil
}

func runReplayFile(path string, out io.Writer) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}
	script, err := parseReplay(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	result, err := runReplay(script)
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
