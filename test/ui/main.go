package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Gleipnir-Technology/fastclick/state"
	"github.com/Gleipnir-Technology/fastclick/ui"
)

func main() {
	u, err := ui.NewTUI("test", ui.Scale{CellWidth: 8, CellHeight: 16})
	if err != nil {
		fmt.Printf("new tui: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()

	on_ui := make(chan ui.Event)
	do_ui := make(chan *state.Page)
	// Start the UI in a goroutine
	go func() {
		err := u.Run(ctx, on_ui, do_ui)
		if err != nil {
			fmt.Printf("ui run: %v", err)
			os.Exit(3)
		}
	}()
	defer u.Close()

	ticker := time.NewTicker(1 * time.Second)
	counter := 0
	page := &state.Page{
		Touch:   true,
		Window:  2500 * time.Millisecond,
		Records: []state.Record{},
		Elements: []*state.Element{
			{Name: "save", X: 16, Y: 16, W: 160, H: 80},
			{Name: "delete", X: 208, Y: 16, W: 160, H: 80},
		},
	}
	is_running := true
	for is_running {
		select {
		case <-ticker.C:
			counter++
			e := page.Elements[counter%len(page.Elements)]
			e.Taps++
			e.Status = state.StatusTap(counter % (int(state.StatusTapFailed) + 1))
			page.Records = append(page.Records, state.Record{X: e.X + e.W/2, Y: e.Y + e.H/2})
			if len(page.Records) > 3 {
				page.Records = page.Records[1:]
			}
			page.Log = fmt.Appendf(page.Log, "\x1b[32mtick\x1b[0m %d %s\n", counter, e.Name)
			do_ui <- page
		case evt := <-on_ui:
			switch evt.Type {
			case ui.EventExit:
				is_running = false
			case ui.EventPointer:
				page.Log = fmt.Appendf(page.Log, "pointer %s %.0f,%.0f\n", evt.Phase, evt.X, evt.Y)
				do_ui <- page
			}
		}
	}
}
