package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ElementConfig struct {
	Name string  `toml:"name"`
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`
	W    float64 `toml:"w"`
	H    float64 `toml:"h"`
	// Expr is the handler expression run on every logical click.
	Expr string `toml:"expr"`
	// Watch names the scope variables shown next to the element.
	Watch []string `toml:"watch"`
}

type Config struct {
	Bind         string          `toml:"bind"`
	WindowMS     int             `toml:"window_ms"`
	Touch        bool            `toml:"touch"`
	Bubble       bool            `toml:"bubble"`
	ClickDelayMS int             `toml:"click_delay_ms"`
	CellWidth    float64         `toml:"cell_width"`
	CellHeight   float64         `toml:"cell_height"`
	Elements     []ElementConfig `toml:"element"`
}

func defaultConfig() Config {
	return Config{
		Bind:         ":3000",
		WindowMS:     2500,
		Touch:        true,
		ClickDelayMS: 300,
		CellWidth:    8,
		CellHeight:   16,
		Elements: []ElementConfig{
			{Name: "save", X: 16, Y: 16, W: 160, H: 80, Expr: "saves = (saves or 0) + 1", Watch: []string{"saves"}},
			{Name: "delete", X: 208, Y: 16, W: 160, H: 80, Expr: "deletes = (deletes or 0) + 1", Watch: []string{"deletes"}},
			{Name: "last", X: 16, Y: 128, W: 352, H: 80, Expr: "last = event.type .. ' ' .. event.clientX .. ',' .. event.clientY", Watch: []string{"last"}},
		},
	}
}

func (c Config) Window() time.Duration {
	return time.Duration(c.WindowMS) * time.Millisecond
}

func (c Config) ClickDelay() time.Duration {
	return time.Duration(c.ClickDelayMS) * time.Millisecond
}

// loadConfig reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err == nil {
			if err := parseConfig(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func parseConfig(data []byte, cfg *Config) error {
	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return err
	}
	// Elements from the file replace the default page instead of merging
	// into it.
	if len(file.Elements) > 0 {
		cfg.Elements = nil
	}
	return toml.Unmarshal(data, cfg)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("FASTCLICK_BIND"); v != "" {
		c.Bind = v
	}
	if v := getenv("FASTCLICK_WINDOW_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FASTCLICK_WINDOW_MS: %w", err)
		}
		c.WindowMS = ms
	}
	return nil
}

func (c Config) validate() error {
	if c.WindowMS <= 0 {
		return errors.New("window_ms must be positive")
	}
	if c.ClickDelayMS < 0 {
		return errors.New("click_delay_ms must not be negative")
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return errors.New("cell_width and cell_height must be positive")
	}
	seen := make(map[string]struct{}, len(c.Elements))
	for i, e := range c.Elements {
		if e.Name == "" {
			return fmt.Errorf("element %d has no name", i)
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("duplicate element %q", e.Name)
		}
		seen[e.Name] = struct{}{}
		if e.W <= 0 || e.H <= 0 {
			return fmt.Errorf("element %q must have a positive size", e.Name)
		}
	}
	return nil
}
