package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan
	colorWhite

	colorBold     = 1
	colorDarkGray = 90

	unknownLevel = "???"
)

func setupLogging(out io.Writer) zerolog.Logger {
	if os.Getenv("FASTCLICK_VERBOSE") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	noColor := os.Getenv("NO_COLOR") != ""

	// Track start time for delta timestamps
	startTime := time.Now()

	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: "15:04:05", // placeholder, will be overridden
	}
	// Custom timestamp formatter showing elapsed time
	writer.FormatTimestamp = func(i any) string {
		elapsed := time.Since(startTime)

		hours := int(elapsed.Hours())
		minutes := int(elapsed.Minutes()) % 60
		seconds := int(elapsed.Seconds()) % 60
		millis := int(elapsed.Milliseconds()) % 1000

		return colorize(fmt.Sprintf("[+%02d:%02d:%02d.%03d]", hours, minutes, seconds, millis), colorDarkGray, noColor)
	}
	writer.FormatLevel = func(i any) string {
		return formatLevel(i, noColor)
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Caller().Logger()

	log.Debug().Msg("Running in verbose mode due to FASTCLICK_VERBOSE")
	return log.Logger
}

func formatLevel(i any, noColor bool) string {
	l, ok := i.(string)
	if !ok {
		return unknownLevel
	}
	switch l {
	case zerolog.LevelDebugValue:
		return colorize("DBG", colorMagenta, noColor)
	case zerolog.LevelInfoValue:
		return colorize("INF", colorGreen, noColor)
	case zerolog.LevelWarnValue:
		return colorize("WRN", colorYellow, noColor)
	case zerolog.LevelErrorValue:
		return colorize(colorize("ERR", colorRed, noColor), colorBold, noColor)
	case zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return colorize(colorize("FTL", colorRed, noColor), colorBold, noColor)
	}
	return unknownLevel
}

// colorize returns the string s wrapped in ANSI code c, unless disabled is true or c is 0.
func colorize(s interface{}, c int, disabled bool) string {
	if disabled || c == 0 {
		return fmt.Sprintf("%s", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

// logTail keeps the most recent output of the logger for the TUI log pane.
type logTail struct {
	mu   sync.Mutex
	buf  []byte
	size int
}

func newLogTail(size int) *logTail {
	return &logTail{size: size}
}

func (t *logTail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.size; over > 0 {
		cut := over
		// Drop whole lines so no escape sequence is cut in half.
		if i := bytes.IndexByte(t.buf[over:], '\n'); i >= 0 {
			cut = over + i + 1
		}
		t.buf = append([]byte(nil), t.buf[cut:]...)
	}
	return len(p), nil
}

func (t *logTail) Bytes() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.buf))
	copy(out, t.buf)
	return out
}
