package chafa

import (
	"fmt"
	"strings"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

func enumString[T ~uint32](v T, names []string) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%T(%d)", v, uint32(v))
}

func parseEnum[T ~uint32](s string, names []string, what string) (T, error) {
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return T(i), nil
		}
	}
	return 0, invalidf("unknown %s %q (want one of %s)", what, s, strings.Join(names, ", "))
}

type flagName struct {
	bit  uint32
	name string
}

func flagsString(v uint32, names []flagName) string {
	if v == 0 {
		return "none"
	}
	var parts []string
	for _, f := range names {
		if v&f.bit == f.bit && f.bit != 0 {
			parts = append(parts, f.name)
			v &^= f.bit
		}
	}
	if v != 0 {
		parts = append(parts, fmt.Sprintf("%#x", v))
	}
	return strings.Join(parts, "|")
}

// PixelType is the memory layout of a pixel buffer.
type PixelType uint32

const (
	PixelRGBA8Premultiplied PixelType = PixelType(backend.PixelRGBA8Premultiplied)
	PixelBGRA8Premultiplied PixelType = PixelType(backend.PixelBGRA8Premultiplied)
	PixelARGB8Premultiplied PixelType = PixelType(backend.PixelARGB8Premultiplied)
	PixelABGR8Premultiplied PixelType = PixelType(backend.PixelABGR8Premultiplied)
	PixelRGBA8Unassociated  PixelType = PixelType(backend.PixelRGBA8Unassociated)
	PixelBGRA8Unassociated  PixelType = PixelType(backend.PixelBGRA8Unassociated)
	PixelARGB8Unassociated  PixelType = PixelType(backend.PixelARGB8Unassociated)
	PixelABGR8Unassociated  PixelType = PixelType(backend.PixelABGR8Unassociated)
	PixelRGB8               PixelType = PixelType(backend.PixelRGB8)
	PixelBGR8               PixelType = PixelType(backend.PixelBGR8)
	PixelTypeMax            PixelType = PixelType(backend.PixelMax)
)

var pixelTypeNames = []string{
	"rgba8-premultiplied", "bgra8-premultiplied", "argb8-premultiplied", "abgr8-premultiplied",
	"rgba8-unassociated", "bgra8-unassociated", "argb8-unassociated", "abgr8-unassociated",
	"rgb8", "bgr8",
}

func (t PixelType) String() string { return enumString(t, pixelTypeNames) }

// BytesPerPixel returns 4 for the 32-bit layouts, 3 for RGB8 and BGR8 and
// 0 for unknown types.
func (t PixelType) BytesPerPixel() int { return backend.BytesPerPixel(uint32(t)) }

// CanvasMode selects the color palette of a canvas.
type CanvasMode uint32

const (
	CanvasModeTruecolor   CanvasMode = CanvasMode(backend.CanvasModeTruecolor)
	CanvasModeIndexed256  CanvasMode = CanvasMode(backend.CanvasModeIndexed256)
	CanvasModeIndexed240  CanvasMode = CanvasMode(backend.CanvasModeIndexed240)
	CanvasModeIndexed16   CanvasMode = CanvasMode(backend.CanvasModeIndexed16)
	CanvasModeFgbgBgfg    CanvasMode = CanvasMode(backend.CanvasModeFgbgBgfg)
	CanvasModeFgbg        CanvasMode = CanvasMode(backend.CanvasModeFgbg)
	CanvasModeIndexed8    CanvasMode = CanvasMode(backend.CanvasModeIndexed8)
	CanvasModeIndexed16_8 CanvasMode = CanvasMode(backend.CanvasModeIndexed16_8)
	CanvasModeMax         CanvasMode = CanvasMode(backend.CanvasModeMax)
)

var canvasModeNames = []string{"truecolor", "256", "240", "16", "fgbg-bgfg", "fgbg", "8", "16/8"}

func (m CanvasMode) String() string { return enumString(m, canvasModeNames) }

// Indexed reports whether cell colors are palette indices rather than
// packed RGB.
func (m CanvasMode) Indexed() bool { return m != CanvasModeTruecolor }

func (m *CanvasMode) UnmarshalText(text []byte) error {
	v, err := parseEnum[CanvasMode](string(text), canvasModeNames, "canvas mode")
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m CanvasMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ColorExtractor selects how cell colors are derived from pixels.
type ColorExtractor uint32

const (
	ColorExtractorAverage ColorExtractor = ColorExtractor(backend.ColorExtractorAverage)
	ColorExtractorMedian  ColorExtractor = ColorExtractor(backend.ColorExtractorMedian)
	ColorExtractorMax     ColorExtractor = ColorExtractor(backend.ColorExtractorMax)
)

var colorExtractorNames = []string{"average", "median"}

func (e ColorExtractor) String() string { return enumString(e, colorExtractorNames) }

func (e *ColorExtractor) UnmarshalText(text []byte) error {
	v, err := parseEnum[ColorExtractor](string(text), colorExtractorNames, "color extractor")
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ColorSpace is the space colors are compared in.
type ColorSpace uint32

const (
	ColorSpaceRGB    ColorSpace = ColorSpace(backend.ColorSpaceRGB)
	ColorSpaceDIN99d ColorSpace = ColorSpace(backend.ColorSpaceDIN99d)
	ColorSpaceMax    ColorSpace = ColorSpace(backend.ColorSpaceMax)
)

var colorSpaceNames = []string{"rgb", "din99d"}

func (s ColorSpace) String() string { return enumString(s, colorSpaceNames) }

func (s *ColorSpace) UnmarshalText(text []byte) error {
	v, err := parseEnum[ColorSpace](string(text), colorSpaceNames, "color space")
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// DitherMode selects the dithering algorithm.
type DitherMode uint32

const (
	DitherModeNone      DitherMode = DitherMode(backend.DitherModeNone)
	DitherModeOrdered   DitherMode = DitherMode(backend.DitherModeOrdered)
	DitherModeDiffusion DitherMode = DitherMode(backend.DitherModeDiffusion)
	DitherModeNoise     DitherMode = DitherMode(backend.DitherModeNoise)
	DitherModeMax       DitherMode = DitherMode(backend.DitherModeMax)
)

var ditherModeNames = []string{"none", "ordered", "diffusion", "noise"}

func (d DitherMode) String() string { return enumString(d, ditherModeNames) }

func (d *DitherMode) UnmarshalText(text []byte) error {
	v, err := parseEnum[DitherMode](string(text), ditherModeNames, "dither mode")
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// PixelMode selects symbol output or one of the terminal graphics protocols.
type PixelMode uint32

const (
	PixelModeSymbols PixelMode = PixelMode(backend.PixelModeSymbols)
	PixelModeSixels  PixelMode = PixelMode(backend.PixelModeSixels)
	PixelModeKitty   PixelMode = PixelMode(backend.PixelModeKitty)
	PixelModeITerm2  PixelMode = PixelMode(backend.PixelModeITerm2)
	PixelModeMax     PixelMode = PixelMode(backend.PixelModeMax)
)

var pixelModeNames = []string{"symbols", "sixels", "kitty", "iterm2"}

func (m PixelMode) String() string { return enumString(m, pixelModeNames) }

func (m *PixelMode) UnmarshalText(text []byte) error {
	v, err := parseEnum[PixelMode](string(text), pixelModeNames, "pixel mode")
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m PixelMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Passthrough wraps graphics output for terminal multiplexers.
type Passthrough uint32

const (
	PassthroughNone   Passthrough = Passthrough(backend.PassthroughNone)
	PassthroughScreen Passthrough = Passthrough(backend.PassthroughScreen)
	PassthroughTmux   Passthrough = Passthrough(backend.PassthroughTmux)
	PassthroughMax    Passthrough = Passthrough(backend.PassthroughMax)
)

var passthroughNames = []string{"none", "screen", "tmux"}

func (p Passthrough) String() string { return enumString(p, passthroughNames) }

func (p *Passthrough) UnmarshalText(text []byte) error {
	v, err := parseEnum[Passthrough](string(text), passthroughNames, "passthrough")
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Tuck is how a placement's image is resized to fit its area.
type Tuck uint32

const (
	TuckStretch     Tuck = Tuck(backend.TuckStretch)
	TuckFit         Tuck = Tuck(backend.TuckFit)
	TuckShrinkToFit Tuck = Tuck(backend.TuckShrinkToFit)
	TuckMax         Tuck = Tuck(backend.TuckMax)
)

var tuckNames = []string{"stretch", "fit", "shrink-to-fit"}

func (t Tuck) String() string { return enumString(t, tuckNames) }

// Align distributes the padding added by a tucking policy.
type Align uint32

const (
	AlignStart  Align = Align(backend.AlignStart)
	AlignEnd    Align = Align(backend.AlignEnd)
	AlignCenter Align = Align(backend.AlignCenter)
	AlignMax    Align = Align(backend.AlignMax)
)

var alignNames = []string{"start", "end", "center"}

func (a Align) String() string { return enumString(a, alignNames) }

// ParseResult is the outcome of TermInfo.ParseSeq.
type ParseResult uint32

const (
	ParseSuccess ParseResult = ParseResult(backend.ParseSuccess)
	ParseFailure ParseResult = ParseResult(backend.ParseFailure)
	ParseAgain   ParseResult = ParseResult(backend.ParseAgain)
)

var parseResultNames = []string{"success", "failure", "again"}

func (r ParseResult) String() string { return enumString(r, parseResultNames) }

// Optimizations are output size optimizations applied when printing.
type Optimizations uint32

const (
	OptimizationNone            Optimizations = Optimizations(backend.OptimizationNone)
	OptimizationReuseAttributes Optimizations = Optimizations(backend.OptimizationReuseAttributes)
	OptimizationSkipCells       Optimizations = Optimizations(backend.OptimizationSkipCells)
	OptimizationRepeatCells     Optimizations = Optimizations(backend.OptimizationRepeatCells)
	OptimizationAll             Optimizations = Optimizations(backend.OptimizationAll)
)

var optimizationNames = []flagName{
	{backend.OptimizationReuseAttributes, "reuse-attributes"},
	{backend.OptimizationSkipCells, "skip-cells"},
	{backend.OptimizationRepeatCells, "repeat-cells"},
}

func (o Optimizations) String() string {
	if o == OptimizationAll {
		return "all"
	}
	return flagsString(uint32(o), optimizationNames)
}

// Features are CPU features the native library can use.
type Features uint32

const (
	FeatureMMX    Features = Features(backend.FeatureMMX)
	FeatureSSE41  Features = Features(backend.FeatureSSE41)
	FeaturePopcnt Features = Features(backend.FeaturePopcnt)
	FeatureAVX2   Features = Features(backend.FeatureAVX2)
)

var featureNames = []flagName{
	{backend.FeatureMMX, "mmx"},
	{backend.FeatureSSE41, "sse4.1"},
	{backend.FeaturePopcnt, "popcnt"},
	{backend.FeatureAVX2, "avx2"},
}

func (f Features) String() string { return flagsString(uint32(f), featureNames) }

// TermQuirks are terminal behaviors the output has to work around.
type TermQuirks uint32

const TermQuirkSixelOvershoot TermQuirks = TermQuirks(backend.TermQuirkSixelOvershoot)

func (q TermQuirks) String() string {
	return flagsString(uint32(q), []flagName{{backend.TermQuirkSixelOvershoot, "sixel-overshoot"}})
}

// SymbolTags select groups of symbols for a SymbolMap.
type SymbolTags uint32

const (
	SymbolTagNone      SymbolTags = SymbolTags(backend.SymbolTagNone)
	SymbolTagSpace     SymbolTags = SymbolTags(backend.SymbolTagSpace)
	SymbolTagSolid     SymbolTags = SymbolTags(backend.SymbolTagSolid)
	SymbolTagStipple   SymbolTags = SymbolTags(backend.SymbolTagStipple)
	SymbolTagBlock     SymbolTags = SymbolTags(backend.SymbolTagBlock)
	SymbolTagBorder    SymbolTags = SymbolTags(backend.SymbolTagBorder)
	SymbolTagDiagonal  SymbolTags = SymbolTags(backend.SymbolTagDiagonal)
	SymbolTagDot       SymbolTags = SymbolTags(backend.SymbolTagDot)
	SymbolTagQuad      SymbolTags = SymbolTags(backend.SymbolTagQuad)
	SymbolTagHHalf     SymbolTags = SymbolTags(backend.SymbolTagHHalf)
	SymbolTagVHalf     SymbolTags = SymbolTags(backend.SymbolTagVHalf)
	SymbolTagHalf      SymbolTags = SymbolTags(backend.SymbolTagHalf)
	SymbolTagInverted  SymbolTags = SymbolTags(backend.SymbolTagInverted)
	SymbolTagBraille   SymbolTags = SymbolTags(backend.SymbolTagBraille)
	SymbolTagTechnical SymbolTags = SymbolTags(backend.SymbolTagTechnical)
	SymbolTagGeometric SymbolTags = SymbolTags(backend.SymbolTagGeometric)
	SymbolTagASCII     SymbolTags = SymbolTags(backend.SymbolTagASCII)
	SymbolTagAlpha     SymbolTags = SymbolTags(backend.SymbolTagAlpha)
	SymbolTagDigit     SymbolTags = SymbolTags(backend.SymbolTagDigit)
	SymbolTagAlnum     SymbolTags = SymbolTags(backend.SymbolTagAlnum)
	SymbolTagNarrow    SymbolTags = SymbolTags(backend.SymbolTagNarrow)
	SymbolTagWide      SymbolTags = SymbolTags(backend.SymbolTagWide)
	SymbolTagAmbiguous SymbolTags = SymbolTags(backend.SymbolTagAmbiguous)
	SymbolTagUgly      SymbolTags = SymbolTags(backend.SymbolTagUgly)
	SymbolTagLegacy    SymbolTags = SymbolTags(backend.SymbolTagLegacy)
	SymbolTagSextant   SymbolTags = SymbolTags(backend.SymbolTagSextant)
	SymbolTagWedge     SymbolTags = SymbolTags(backend.SymbolTagWedge)
	SymbolTagLatin     SymbolTags = SymbolTags(backend.SymbolTagLatin)
	SymbolTagImported  SymbolTags = SymbolTags(backend.SymbolTagImported)
	SymbolTagOctant    SymbolTags = SymbolTags(backend.SymbolTagOctant)
	SymbolTagExtra     SymbolTags = SymbolTags(backend.SymbolTagExtra)
	SymbolTagBad       SymbolTags = SymbolTags(backend.SymbolTagBad)
	SymbolTagAll       SymbolTags = SymbolTags(backend.SymbolTagAll)
)

// validSymbolTags is every bit a tag mask may carry.
const validSymbolTags = SymbolTagAll | SymbolTagExtra | SymbolTagBad

var symbolTagNames = []flagName{
	{backend.SymbolTagSpace, "space"},
	{backend.SymbolTagSolid, "solid"},
	{backend.SymbolTagStipple, "stipple"},
	{backend.SymbolTagBlock, "block"},
	{backend.SymbolTagBorder, "border"},
	{backend.SymbolTagDiagonal, "diagonal"},
	{backend.SymbolTagDot, "dot"},
	{backend.SymbolTagQuad, "quad"},
	{backend.SymbolTagHHalf, "hhalf"},
	{backend.SymbolTagVHalf, "vhalf"},
	{backend.SymbolTagInverted, "inverted"},
	{backend.SymbolTagBraille, "braille"},
	{backend.SymbolTagTechnical, "technical"},
	{backend.SymbolTagGeometric, "geometric"},
	{backend.SymbolTagASCII, "ascii"},
	{backend.SymbolTagAlpha, "alpha"},
	{backend.SymbolTagDigit, "digit"},
	{backend.SymbolTagNarrow, "narrow"},
	{backend.SymbolTagWide, "wide"},
	{backend.SymbolTagAmbiguous, "ambiguous"},
	{backend.SymbolTagUgly, "ugly"},
	{backend.SymbolTagLegacy, "legacy"},
	{backend.SymbolTagSextant, "sextant"},
	{backend.SymbolTagWedge, "wedge"},
	{backend.SymbolTagLatin, "latin"},
	{backend.SymbolTagImported, "imported"},
	{backend.SymbolTagOctant, "octant"},
	{backend.SymbolTagExtra, "extra"},
}

func (t SymbolTags) String() string {
	if t == SymbolTagAll {
		return "all"
	}
	return flagsString(uint32(t), symbolTagNames)
}

func (t SymbolTags) validate() error {
	if t&^validSymbolTags != 0 {
		return invalidf("symbol tags %#x carry unknown bits", uint32(t))
	}
	return nil
}

// TermSeq identifies a terminal control sequence.
type TermSeq = backend.TermSeq

const (
	SeqResetTerminalSoft          = backend.SeqResetTerminalSoft
	SeqResetTerminalHard          = backend.SeqResetTerminalHard
	SeqResetAttributes            = backend.SeqResetAttributes
	SeqClear                      = backend.SeqClear
	SeqInvertColors               = backend.SeqInvertColors
	SeqCursorToTopLeft            = backend.SeqCursorToTopLeft
	SeqCursorToBottomLeft         = backend.SeqCursorToBottomLeft
	SeqCursorToPos                = backend.SeqCursorToPos
	SeqCursorUp                   = backend.SeqCursorUp
	SeqCursorDown                 = backend.SeqCursorDown
	SeqCursorLeft                 = backend.SeqCursorLeft
	SeqCursorRight                = backend.SeqCursorRight
	SeqEnableCursor               = backend.SeqEnableCursor
	SeqDisableCursor              = backend.SeqDisableCursor
	SeqEnableWrap                 = backend.SeqEnableWrap
	SeqDisableWrap                = backend.SeqDisableWrap
	SeqSaveCursorPos              = backend.SeqSaveCursorPos
	SeqRestoreCursorPos           = backend.SeqRestoreCursorPos
	SeqResetScrollingRows         = backend.SeqResetScrollingRows
	SeqEnableBold                 = backend.SeqEnableBold
	SeqSetColorFgDirect           = backend.SeqSetColorFgDirect
	SeqSetColorBgDirect           = backend.SeqSetColorBgDirect
	SeqSetColorFgbgDirect         = backend.SeqSetColorFgbgDirect
	SeqSetColorFg256              = backend.SeqSetColorFg256
	SeqSetColorBg256              = backend.SeqSetColorBg256
	SeqSetColorFg16               = backend.SeqSetColorFg16
	SeqSetColorBg16               = backend.SeqSetColorBg16
	SeqBeginSixels                = backend.SeqBeginSixels
	SeqEndSixels                  = backend.SeqEndSixels
	SeqEnableSixelScrolling       = backend.SeqEnableSixelScrolling
	SeqDisableSixelScrolling      = backend.SeqDisableSixelScrolling
	SeqBeginKittyImmediateImageV1 = backend.SeqBeginKittyImmediateImageV1
	SeqEndKittyImage              = backend.SeqEndKittyImage
	SeqBeginITerm2Image           = backend.SeqBeginITerm2Image
	SeqEndITerm2Image             = backend.SeqEndITerm2Image
	SeqBeginScreenPassthrough     = backend.SeqBeginScreenPassthrough
	SeqEndScreenPassthrough       = backend.SeqEndScreenPassthrough
	SeqBeginTmuxPassthrough       = backend.SeqBeginTmuxPassthrough
	SeqEndTmuxPassthrough         = backend.SeqEndTmuxPassthrough
	SeqPrimaryDeviceAttributes    = backend.SeqPrimaryDeviceAttributes

	// SeqCount is the number of known sequences; it is not itself valid.
	SeqCount = backend.SeqCount
)

// Dimensions of the pixel grid behind one symbol cell.
const (
	SymbolWidthPixels  = backend.SymbolWidthPixels
	SymbolHeightPixels = backend.SymbolHeightPixels
)

// TermSeqLengthMax is the longest control sequence a TermInfo can store
// after argument substitution.
const TermSeqLengthMax = backend.TermSeqLengthMax
