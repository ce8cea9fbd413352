package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/termgfx/chafa-go/pkg/chafa"
)

// envPrefix prefixes every environment override, e.g. CHAFA_GO_SIZE.
const envPrefix = "CHAFA_GO_"

// Config is the CLI configuration. It is read from an optional YAML file,
// then overridden by CHAFA_GO_* environment variables and finally by flags.
type Config struct {
	// Size is the output box as WxH cells. Empty uses the terminal size.
	Size        string            `yaml:"size"`
	Mode        chafa.PixelMode   `yaml:"mode"`
	Colors      chafa.CanvasMode  `yaml:"colors"`
	Dither      chafa.DitherMode  `yaml:"dither"`
	ColorSpace  chafa.ColorSpace  `yaml:"color_space"`
	Passthrough chafa.Passthrough `yaml:"passthrough"`
	// Symbols is a selector string such as "block+border".
	Symbols    string   `yaml:"symbols"`
	FontRatio  float32  `yaml:"font_ratio"`
	WorkFactor *float32 `yaml:"work_factor"`
	Zoom       bool     `yaml:"zoom"`
	Stretch    bool     `yaml:"stretch"`
	Threads    *int     `yaml:"threads"`
	Debug      bool     `yaml:"debug"`
}

func defaultConfig() Config {
	return Config{
		Mode:      chafa.PixelModeSymbols,
		Colors:    chafa.CanvasModeTruecolor,
		FontRatio: chafa.DefaultFontRatio,
	}
}

// loadConfig reads path, if set, over the defaults and applies environment
// overrides looked up through getenv.
func loadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	text := func(key string, dst interface{ UnmarshalText([]byte) error }) error {
		if v := getenv(envPrefix + key); v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
		}
		return nil
	}
	for _, e := range []struct {
		key string
		dst interface{ UnmarshalText([]byte) error }
	}{
		{"MODE", &c.Mode},
		{"COLORS", &c.Colors},
		{"DITHER", &c.Dither},
		{"COLOR_SPACE", &c.ColorSpace},
		{"PASSTHROUGH", &c.Passthrough},
	} {
		if err := text(e.key, e.dst); err != nil {
			return err
		}
	}

	if v := getenv(envPrefix + "SIZE"); v != "" {
		c.Size = v
	}
	if v := getenv(envPrefix + "SYMBOLS"); v != "" {
		c.Symbols = v
	}
	if v := getenv(envPrefix + "THREADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sTHREADS: %w", envPrefix, err)
		}
		c.Threads = &n
	}
	if v := getenv(envPrefix + "FONT_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("%sFONT_RATIO: %w", envPrefix, err)
		}
		c.FontRatio = float32(f)
	}
	if v := getenv(envPrefix + "DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEBUG: %w", envPrefix, err)
		}
		c.Debug = b
	}
	return nil
}

func (c Config) validate() error {
	if _, _, err := c.size(); err != nil {
		return err
	}
	if c.FontRatio <= 0 {
		return fmt.Errorf("font_ratio %v must be positive", c.FontRatio)
	}
	return nil
}

// size returns the configured output box, or -1 for each side left to the
// terminal.
func (c Config) size() (w, h int, err error) {
	if c.Size == "" {
		return -1, -1, nil
	}
	return parseSize(c.Size)
}

// parseSize parses "WxH", "Wx" or "xH". A missing side is returned as -1.
func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok || (ws == "" && hs == "") {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	side := func(v string) (int, error) {
		if v == "" {
			return -1, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > chafa.MaxCanvasDimension {
			return 0, fmt.Errorf("size %q: side %q outside [1,%d]", s, v, chafa.MaxCanvasDimension)
		}
		return n, nil
	}
	if w, err = side(ws); err != nil {
		return 0, 0, err
	}
	if h, err = side(hs); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// canvasConfig builds the canvas description for a canvas of w by h cells.
func (c Config) canvasConfig(w, h int, symbols *chafa.SymbolMap) chafa.CanvasConfig {
	return chafa.CanvasConfig{
		Width:       w,
		Height:      h,
		CanvasMode:  c.Colors,
		PixelMode:   c.Mode,
		DitherMode:  c.Dither,
		ColorSpace:  c.ColorSpace,
		Passthrough: c.Passthrough,
		WorkFactor:  c.WorkFactor,
		Symbols:     symbols,
	}
}
