package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Gleipnir-Technology/fastclick/dom"
	"github.com/Gleipnir-Technology/fastclick/fastclick"
	"github.com/Gleipnir-Technology/fastclick/loop"
)

// Taps a button on a touch device and lets the browser's delayed click
// arrive, showing that the handler runs once and the ghost click is busted.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	queue := loop.NewQueue(16)
	defer queue.Close()
	go queue.Run(ctx)

	doc := dom.NewDocument(true)
	button := doc.Append("button", dom.Rect{X: 0, Y: 0, W: 100, H: 40})
	module := fastclick.NewModule(doc, queue, fastclick.BusterOptions{Window: 500 * time.Millisecond})
	defer module.Close()
	busted := module.Buster().OnSuppress.Subscribe()
	defer busted.Close()

	err := queue.Do(ctx, func() {
		module.Bind(button, func(ev *dom.Event) (any, error) {
			fmt.Printf("handler ran on %s\n", ev.Type)
			return nil, nil
		})
		button.Dispatch(dom.NewTouch(dom.TouchStart, 50, 20))
		button.Dispatch(dom.NewTouch(dom.TouchEnd, 50, 20))
	})
	if err != nil {
		fmt.Printf("dispatch: %v\n", err)
		os.Exit(1)
	}

	// The native click the browser sends 300ms later.
	clicked := make(chan struct{})
	queue.Schedule(func() {
		ev := dom.NewClick(52, 21)
		button.Dispatch(ev)
		fmt.Printf("ghost click result: %s\n", ev.Result())
		close(clicked)
	}, 300*time.Millisecond)

	select {
	case <-clicked:
	case <-ctx.Done():
		fmt.Println("no ghost click arrived")
		os.Exit(1)
	}
	select {
	case s := <-busted.C:
		fmt.Printf("busted click at %.0f,%.0f near %.0f,%.0f\n", s.Click.X, s.Click.Y, s.Record.X, s.Record.Y)
	default:
		fmt.Println("ghost click was not busted")
		os.Exit(1)
	}
}
