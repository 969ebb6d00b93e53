package ui

import (
	"context"
	"fmt"
	"reflect"

	"github.com/Gleipnir-Technology/fastclick/state"
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	"github.com/rs/zerolog/log"
)

// logRows is the height of the log pane at the bottom of the screen.
const logRows = 8

type uiTcell struct {
	down   bool
	scale  Scale
	screen tcell.Screen
	title  string
}

func newUITcell(title string, scale Scale) (*uiTcell, error) {
	if scale.CellWidth <= 0 || scale.CellHeight <= 0 {
		return nil, fmt.Errorf("invalid cell scale %vx%v", scale.CellWidth, scale.CellHeight)
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}

	// Set default text style
	defStyle := tcell.StyleDefault.Background(color.Reset).Foreground(color.Reset)
	screen.SetStyle(defStyle)
	screen.EnableMouse(tcell.MouseDragEvents)

	screen.Clear()
	return &uiTcell{
		scale:  scale,
		screen: screen,
		title:  title,
	}, nil
}
func (u *uiTcell) Close() {
	u.screen.Fini()
}
func (u *uiTcell) Run(ctx context.Context, chanOnEvent chan<- Event, chanNewState <-chan *state.Page) error {
	logger := log.Ctx(ctx).With().Caller().Logger()
	logger.Info().Msg("Started ui loop")
	u.drawInitial()
	var last *state.Page
	for {
		u.screen.Show()
		select {
		case <-ctx.Done():
			logger.Debug().Msg("context ended, exiting UI")
			return nil
		case evt := <-u.screen.EventQ():
			e := u.convertEvent(evt)
			if e.Type == EventResize {
				u.screen.Sync()
				u.redraw(last)
			}
			if e.Type != EventNone {
				select {
				case chanOnEvent <- e:
				case <-ctx.Done():
					return nil
				}
			}
		case s := <-chanNewState:
			last = s
			u.redraw(s)
		}
	}
}
func (u *uiTcell) drawInitial() {
	u.drawText(0, 0, tcell.StyleDefault.Foreground(color.Yellow).Bold(true), "Starting up...")
}
func (u *uiTcell) redraw(s *state.Page) {
	if s == nil {
		return
	}
	u.screen.Clear()
	u.drawTitle(s)
	for _, e := range s.Elements {
		u.drawElement(e)
	}
	for _, r := range s.Records {
		col, row := u.toCell(r.X, r.Y)
		u.screen.SetContent(col, row, '×', nil, tcell.StyleDefault.Foreground(color.Red).Bold(true))
	}
	u.drawLog(s.Log)
	u.screen.Show()
}
func (u *uiTcell) drawTitle(s *state.Page) {
	style := tcell.StyleDefault.Foreground(color.Green).Bold(true)
	mode := "touch"
	if !s.Touch {
		style = tcell.StyleDefault.Foreground(color.Yellow).Bold(true)
		mode = "click-only"
	}
	u.drawText(0, 0, style, fmt.Sprintf("%s [%s]", u.title, mode))
	u.drawText(30, 0, tcell.StyleDefault.Foreground(color.White),
		fmt.Sprintf("window %s  live %d  busted %d  cancelled %d  (t: touch, q: quit)",
			s.Window, len(s.Records), s.Suppressed, s.Cancelled))
}
func (u *uiTcell) drawElement(e *state.Element) {
	c0, r0 := u.toCell(e.X, e.Y)
	c1, r1 := u.toCell(e.X+e.W, e.Y+e.H)
	c1--
	r1--
	if c1 <= c0 || r1 <= r0 {
		return
	}
	style := tcell.StyleDefault.Foreground(statusColor(e.Status))
	for c := c0 + 1; c < c1; c++ {
		u.screen.SetContent(c, r0, '─', nil, style)
		u.screen.SetContent(c, r1, '─', nil, style)
	}
	for r := r0 + 1; r < r1; r++ {
		u.screen.SetContent(c0, r, '│', nil, style)
		u.screen.SetContent(c1, r, '│', nil, style)
	}
	u.screen.SetContent(c0, r0, '┌', nil, style)
	u.screen.SetContent(c1, r0, '┐', nil, style)
	u.screen.SetContent(c0, r1, '└', nil, style)
	u.screen.SetContent(c1, r1, '┘', nil, style)
	u.drawText(c0+1, r0+1, style.Bold(true), e.Name)
	if r0+2 < r1 {
		u.drawText(c0+1, r0+2, style, fmt.Sprintf("%d %s", e.Taps, state.StatusStringTap(e.Status)))
	}
	if e.Error != "" && r0+3 < r1 {
		u.drawText(c0+1, r0+3, tcell.StyleDefault.Foreground(color.Red), e.Error)
	}
}
func statusColor(s state.StatusTap) color.Color {
	switch s {
	case state.StatusTapTouching:
		return color.Yellow
	case state.StatusTapCompleted:
		return color.Green
	case state.StatusTapCancelled:
		return color.Blue
	case state.StatusTapFailed:
		return color.Red
	}
	return color.White
}
func (u *uiTcell) drawLog(buf []byte) {
	if len(buf) == 0 {
		return
	}
	_, height := u.screen.Size()
	start := height - logRows
	if start < 2 {
		return
	}
	DrawBytesMultiline(u.screen, 0, start, buf)
}
func (u *uiTcell) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}

// toCell maps page pixels to a screen cell. Row 0 is the title bar.
func (u *uiTcell) toCell(x, y float64) (int, int) {
	return int(x / u.scale.CellWidth), 1 + int(y/u.scale.CellHeight)
}

// toPage maps a screen cell to the page pixel at its center.
func (u *uiTcell) toPage(col, row int) (float64, float64) {
	x := (float64(col) + 0.5) * u.scale.CellWidth
	y := (float64(row-1) + 0.5) * u.scale.CellHeight
	return x, y
}

func (u *uiTcell) convertEvent(evt tcell.Event) Event {
	logger := log.Logger
	switch ev := evt.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Str() == "q" {
			logger.Debug().Msg("exit requested")
			return Event{Type: EventExit}
		} else if ev.Str() == "t" {
			return Event{Type: EventToggleTouch}
		}
		return Event{Type: EventUpdate}
	case *tcell.EventMouse:
		return u.convertMouse(ev)
	case *tcell.EventResize:
		return Event{Type: EventResize}
	case *tcell.EventError:
		logger.Info().Msg("event error")
		return Event{Type: EventNone}
	case *tcell.EventFocus, *tcell.EventInterrupt, *tcell.EventPaste, *tcell.EventClipboard, *tcell.EventTime:
		return Event{Type: EventNone}
	default:
		t := reflect.TypeOf(evt)
		if t == nil {
			logger.Info().Msg("unrecognized nil event")
		} else {
			logger.Info().Str("type", t.String()).Msg("unrecognized event")
		}
		return Event{Type: EventNone}
	}
}

// convertMouse turns the button state stream into press, drag and release.
func (u *uiTcell) convertMouse(ev *tcell.EventMouse) Event {
	col, row := ev.Position()
	x, y := u.toPage(col, row)
	pressed := ev.Buttons()&tcell.Button1 != 0
	switch {
	case pressed && !u.down:
		u.down = true
		return Event{Type: EventPointer, Phase: PhaseDown, X: x, Y: y}
	case pressed && u.down:
		return Event{Type: EventPointer, Phase: PhaseMove, X: x, Y: y}
	case !pressed && u.down:
		u.down = false
		return Event{Type: EventPointer, Phase: PhaseUp, X: x, Y: y}
	}
	return Event{Type: EventNone}
}
