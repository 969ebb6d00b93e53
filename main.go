package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gleipnir-Technology/fastclick/ui"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const logTailSize = 16 * 1024

func main() {
	os.Exit(run())
}

func run() int {
	bind := flag.String("bind", "", "Address to bind the webserver to, overrides the config")
	configPath := flag.String("config", "fastclick.toml", "Path to the TOML config file")
	flat := flag.Bool("flat", false, "Print state changes as lines instead of running the terminal UI")
	replayPath := flag.String("replay", "", "Run a JSON replay script ('-' for stdin), print the result and exit")
	flag.Parse()

	enableTUI := !*flat && *replayPath == "" && term.IsTerminal(int(os.Stdout.Fd()))

	var tail *logTail
	var logOut io.Writer = os.Stderr
	if enableTUI {
		logFile, err := os.OpenFile("fastclick.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			return 1
		}
		defer logFile.Close()
		tail = newLogTail(logTailSize)
		logOut = io.MultiWriter(logFile, tail)
	}
	logger := setupLogging(logOut)

	if *replayPath != "" {
		if err := runReplayFile(*replayPath, os.Stdout); err != nil {
			log.Error().Err(err).Msg("replay failed")
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return 1
	}
	if *bind != "" {
		cfg.Bind = *bind
	}

	var u ui.UI
	if enableTUI {
		u, err = ui.NewTUI("fastclick", ui.Scale{CellWidth: cfg.CellWidth, CellHeight: cfg.CellHeight})
	} else {
		u, err = ui.NewFlat(os.Stdout)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to create UI")
		return 1
	}
	defer u.Close()

	ctx, stop := signal.NotifyContext(logger.WithContext(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr := newPageManager(cfg, *configPath, tail)
	if err := mgr.Run(ctx, u); err != nil {
		log.Error().Err(err).Msg("exiting")
		return 1
	}
	return 0
}

// readInput reads path, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
