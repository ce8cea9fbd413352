package chafa

import (
	"math"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

// Limits enforced by CanvasConfig.Validate.
const (
	MaxCanvasDimension = 16384
	MaxCellDimension   = 1024
	MaxDitherIntensity = 10
	MaxColor           = 0xFFFFFF
)

// CanvasConfig describes a canvas. The zero value of every optional field
// keeps the native default; only Width and Height are required.
type CanvasConfig struct {
	// Width and Height are the canvas size in character cells.
	Width, Height int

	// CellWidth and CellHeight are the pixel size of one cell. Set both or
	// neither.
	CellWidth, CellHeight int

	CanvasMode     CanvasMode
	PixelMode      PixelMode
	ColorExtractor ColorExtractor
	ColorSpace     ColorSpace
	DitherMode     DitherMode
	Passthrough    Passthrough

	// DitherGrainWidth and DitherGrainHeight are 1, 2, 4 or 8. Set both or
	// neither.
	DitherGrainWidth, DitherGrainHeight int

	DitherIntensity *float32
	AlphaThreshold  *float32
	WorkFactor      *float32

	// FgColor and BgColor are packed 0xRRGGBB values used for the
	// foreground and background in FGBG modes and for alpha blending.
	FgColor *uint32
	BgColor *uint32

	Preprocessing *bool
	FgOnly        bool
	Optimizations *Optimizations

	// Symbols and FillSymbols are copied into the canvas at creation; the
	// maps stay owned by the caller and must be open.
	Symbols     *SymbolMap
	FillSymbols *SymbolMap
}

func validUnit(v *float32, upper float32, what string) error {
	if v == nil {
		return nil
	}
	f := float64(*v)
	if math.IsNaN(f) || math.IsInf(f, 0) || *v < 0 || *v > upper {
		return invalidf("%s %v outside [0,%v]", what, *v, upper)
	}
	return nil
}

func validGrain(n int) bool {
	switch n {
	case 1, 2, 4, 8:
		return true
	}
	return false
}

// Validate checks every field without touching the native library.
func (c CanvasConfig) Validate() error {
	if c.Width < 1 || c.Width > MaxCanvasDimension {
		return invalidf("canvas width %d outside [1,%d]", c.Width, MaxCanvasDimension)
	}
	if c.Height < 1 || c.Height > MaxCanvasDimension {
		return invalidf("canvas height %d outside [1,%d]", c.Height, MaxCanvasDimension)
	}
	if (c.CellWidth == 0) != (c.CellHeight == 0) {
		return invalidf("cell geometry %dx%d: set both dimensions or neither", c.CellWidth, c.CellHeight)
	}
	if c.CellWidth != 0 {
		if c.CellWidth < 1 || c.CellWidth > MaxCellDimension || c.CellHeight < 1 || c.CellHeight > MaxCellDimension {
			return invalidf("cell geometry %dx%d outside [1,%d]", c.CellWidth, c.CellHeight, MaxCellDimension)
		}
	}
	switch {
	case c.CanvasMode >= CanvasModeMax:
		return invalidf("canvas mode %d out of range", uint32(c.CanvasMode))
	case c.PixelMode >= PixelModeMax:
		return invalidf("pixel mode %d out of range", uint32(c.PixelMode))
	case c.ColorExtractor >= ColorExtractorMax:
		return invalidf("color extractor %d out of range", uint32(c.ColorExtractor))
	case c.ColorSpace >= ColorSpaceMax:
		return invalidf("color space %d out of range", uint32(c.ColorSpace))
	case c.DitherMode >= DitherModeMax:
		return invalidf("dither mode %d out of range", uint32(c.DitherMode))
	case c.Passthrough >= PassthroughMax:
		return invalidf("passthrough %d out of range", uint32(c.Passthrough))
	}
	if (c.DitherGrainWidth == 0) != (c.DitherGrainHeight == 0) {
		return invalidf("dither grain %dx%d: set both dimensions or neither", c.DitherGrainWidth, c.DitherGrainHeight)
	}
	if c.DitherGrainWidth != 0 && (!validGrain(c.DitherGrainWidth) || !validGrain(c.DitherGrainHeight)) {
		return invalidf("dither grain %dx%d: each side must be 1, 2, 4 or 8", c.DitherGrainWidth, c.DitherGrainHeight)
	}
	if err := validUnit(c.DitherIntensity, MaxDitherIntensity, "dither intensity"); err != nil {
		return err
	}
	if err := validUnit(c.AlphaThreshold, 1, "alpha threshold"); err != nil {
		return err
	}
	if err := validUnit(c.WorkFactor, 1, "work factor"); err != nil {
		return err
	}
	if c.FgColor != nil && *c.FgColor > MaxColor {
		return invalidf("foreground color %#x exceeds %#x", *c.FgColor, MaxColor)
	}
	if c.BgColor != nil && *c.BgColor > MaxColor {
		return invalidf("background color %#x exceeds %#x", *c.BgColor, MaxColor)
	}
	if c.Optimizations != nil && *c.Optimizations&^OptimizationAll != 0 {
		return invalidf("optimizations %#x carry unknown bits", uint32(*c.Optimizations))
	}
	return nil
}

// apply writes c into a native config. Optional fields left unset keep the
// native default and cost no call.
func (c CanvasConfig) apply(n backend.Native, cfg backend.Handle, symbols, fill backend.Handle) {
	n.CanvasConfigSetGeometry(cfg, int32(c.Width), int32(c.Height))
	if c.CellWidth != 0 {
		n.CanvasConfigSetCellGeometry(cfg, int32(c.CellWidth), int32(c.CellHeight))
	}
	n.CanvasConfigSetCanvasMode(cfg, uint32(c.CanvasMode))
	n.CanvasConfigSetPixelMode(cfg, uint32(c.PixelMode))
	n.CanvasConfigSetColorExtractor(cfg, uint32(c.ColorExtractor))
	n.CanvasConfigSetColorSpace(cfg, uint32(c.ColorSpace))
	n.CanvasConfigSetDitherMode(cfg, uint32(c.DitherMode))
	n.CanvasConfigSetPassthrough(cfg, uint32(c.Passthrough))
	if c.DitherGrainWidth != 0 {
		n.CanvasConfigSetDitherGrainSize(cfg, int32(c.DitherGrainWidth), int32(c.DitherGrainHeight))
	}
	if c.DitherIntensity != nil {
		n.CanvasConfigSetDitherIntensity(cfg, *c.DitherIntensity)
	}
	if c.AlphaThreshold != nil {
		n.CanvasConfigSetTransparencyThreshold(cfg, *c.AlphaThreshold)
	}
	if c.WorkFactor != nil {
		n.CanvasConfigSetWorkFactor(cfg, *c.WorkFactor)
	}
	if c.FgColor != nil {
		n.CanvasConfigSetFgColor(cfg, *c.FgColor)
	}
	if c.BgColor != nil {
		n.CanvasConfigSetBgColor(cfg, *c.BgColor)
	}
	if c.Preprocessing != nil {
		n.CanvasConfigSetPreprocessingEnabled(cfg, *c.Preprocessing)
	}
	if c.FgOnly {
		n.CanvasConfigSetFgOnlyEnabled(cfg, true)
	}
	if c.Optimizations != nil {
		n.CanvasConfigSetOptimizations(cfg, uint32(*c.Optimizations))
	}
	if symbols != nil {
		n.CanvasConfigSetSymbolMap(cfg, symbols)
	}
	if fill != nil {
		n.CanvasConfigSetFillSymbolMap(cfg, fill)
	}
}

// readConfig reads every field back from a native config. Symbol maps are
// not readable and stay nil.
func readConfig(n backend.Native, cfg backend.Handle) CanvasConfig {
	var c CanvasConfig
	w, h := n.CanvasConfigGetGeometry(cfg)
	c.Width, c.Height = int(w), int(h)
	cw, ch := n.CanvasConfigGetCellGeometry(cfg)
	c.CellWidth, c.CellHeight = int(cw), int(ch)
	c.CanvasMode = CanvasMode(n.CanvasConfigGetCanvasMode(cfg))
	c.PixelMode = PixelMode(n.CanvasConfigGetPixelMode(cfg))
	c.ColorExtractor = ColorExtractor(n.CanvasConfigGetColorExtractor(cfg))
	c.ColorSpace = ColorSpace(n.CanvasConfigGetColorSpace(cfg))
	c.DitherMode = DitherMode(n.CanvasConfigGetDitherMode(cfg))
	c.Passthrough = Passthrough(n.CanvasConfigGetPassthrough(cfg))
	gw, gh := n.CanvasConfigGetDitherGrainSize(cfg)
	c.DitherGrainWidth, c.DitherGrainHeight = int(gw), int(gh)

	intensity := n.CanvasConfigGetDitherIntensity(cfg)
	threshold := n.CanvasConfigGetTransparencyThreshold(cfg)
	work := n.CanvasConfigGetWorkFactor(cfg)
	fg := n.CanvasConfigGetFgColor(cfg)
	bg := n.CanvasConfigGetBgColor(cfg)
	pre := n.CanvasConfigGetPreprocessingEnabled(cfg)
	opt := Optimizations(n.CanvasConfigGetOptimizations(cfg))
	c.DitherIntensity = &intensity
	c.AlphaThreshold = &threshold
	c.WorkFactor = &work
	c.FgColor = &fg
	c.BgColor = &bg
	c.Preprocessing = &pre
	c.FgOnly = n.CanvasConfigGetFgOnlyEnabled(cfg)
	c.Optimizations = &opt
	return c
}
