package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgfx/chafa-go/pkg/chafa"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chafa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, chafa.PixelModeSymbols, cfg.Mode)
	assert.Equal(t, chafa.CanvasModeTruecolor, cfg.Colors)
	assert.Equal(t, float32(chafa.DefaultFontRatio), cfg.FontRatio)
	assert.Nil(t, cfg.Threads)

	w, h, err := cfg.size()
	require.NoError(t, err)
	assert.Equal(t, -1, w)
	assert.Equal(t, -1, h)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, `
size: 60x20
mode: kitty
colors: 256
dither: ordered
color_space: din99d
passthrough: tmux
symbols: block+border
font_ratio: 0.45
work_factor: 0.8
zoom: true
threads: 2
`)
	cfg, err := loadConfig(path, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, chafa.PixelModeKitty, cfg.Mode)
	assert.Equal(t, chafa.CanvasModeIndexed256, cfg.Colors)
	assert.Equal(t, chafa.DitherModeOrdered, cfg.Dither)
	assert.Equal(t, chafa.ColorSpaceDIN99d, cfg.ColorSpace)
	assert.Equal(t, chafa.PassthroughTmux, cfg.Passthrough)
	assert.Equal(t, "block+border", cfg.Symbols)
	assert.InDelta(t, 0.45, cfg.FontRatio, 1e-6)
	require.NotNil(t, cfg.WorkFactor)
	assert.InDelta(t, 0.8, *cfg.WorkFactor, 1e-6)
	assert.True(t, cfg.Zoom)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 2, *cfg.Threads)

	w, h, err := cfg.size()
	require.NoError(t, err)
	assert.Equal(t, 60, w)
	assert.Equal(t, 20, h)
}

func TestLoadConfigRejectsBadFiles(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":   "colours: 256\n",
		"bad mode":      "mode: ascii-art\n",
		"bad size":      "size: big\n",
		"zero ratio":    "font_ratio: 0\n",
		"not a mapping": "- a\n- b\n",
	} {
		_, err := loadConfig(writeConfig(t, body), envMap(nil))
		assert.Error(t, err, name)
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), envMap(nil))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, ""), envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "mode: kitty\ncolors: 16\n")
	cfg, err := loadConfig(path, envMap(map[string]string{
		"CHAFA_GO_MODE":       "sixels",
		"CHAFA_GO_SIZE":       "x12",
		"CHAFA_GO_THREADS":    "-1",
		"CHAFA_GO_FONT_RATIO": "1",
		"CHAFA_GO_DEBUG":      "true",
		"CHAFA_GO_SYMBOLS":    "ascii",
	}))
	require.NoError(t, err)
	assert.Equal(t, chafa.PixelModeSixels, cfg.Mode)
	assert.Equal(t, chafa.CanvasModeIndexed16, cfg.Colors)
	assert.Equal(t, "x12", cfg.Size)
	assert.Equal(t, -1, *cfg.Threads)
	assert.Equal(t, float32(1), cfg.FontRatio)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "ascii", cfg.Symbols)
}

func TestEnvRejectsBadValues(t *testing.T) {
	for key, v := range map[string]string{
		"CHAFA_GO_COLORS":     "millions",
		"CHAFA_GO_THREADS":    "many",
		"CHAFA_GO_FONT_RATIO": "wide",
		"CHAFA_GO_DEBUG":      "maybe",
		"CHAFA_GO_SIZE":       "0x0",
	} {
		_, err := loadConfig("", envMap(map[string]string{key: v}))
		assert.Error(t, err, key)
	}
}

func TestParseSize(t *testing.T) {
	for in, want := range map[string][2]int{
		"80x24": {80, 24},
		"80X24": {80, 24},
		"40x":   {40, -1},
		"x10":   {-1, 10},
	} {
		w, h, err := parseSize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, [2]int{w, h}, in)
	}
	for _, in := range []string{"", "x", "80", "0x10", "-5x10", "80x99999", "axb"} {
		_, _, err := parseSize(in)
		assert.Error(t, err, in)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.applyFlags("20x10", "iterm2", "fgbg", "braille", true))
	assert.Equal(t, "20x10", cfg.Size)
	assert.Equal(t, chafa.PixelModeITerm2, cfg.Mode)
	assert.Equal(t, chafa.CanvasModeFgbg, cfg.Colors)
	assert.Equal(t, "braille", cfg.Symbols)
	assert.True(t, cfg.Debug)

	cfg = defaultConfig()
	require.NoError(t, cfg.applyFlags("", "", "", "", false))
	assert.Equal(t, defaultConfig(), cfg)

	assert.Error(t, cfg.applyFlags("", "png", "", "", false))
	assert.Error(t, cfg.applyFlags("", "", "4096", "", false))
	assert.Error(t, cfg.applyFlags("1x1x1", "", "", "", false))
}
