package backend

// Native enum and flag values, as declared by the chafa headers. The cgo
// build checks these against the linked headers in Load.

const (
	PixelRGBA8Premultiplied uint32 = iota
	PixelBGRA8Premultiplied
	PixelARGB8Premultiplied
	PixelABGR8Premultiplied
	PixelRGBA8Unassociated
	PixelBGRA8Unassociated
	PixelARGB8Unassociated
	PixelABGR8Unassociated
	PixelRGB8
	PixelBGR8
	PixelMax
)

const (
	CanvasModeTruecolor uint32 = iota
	CanvasModeIndexed256
	CanvasModeIndexed240
	CanvasModeIndexed16
	CanvasModeFgbgBgfg
	CanvasModeFgbg
	CanvasModeIndexed8
	CanvasModeIndexed16_8
	CanvasModeMax
)

const (
	ColorExtractorAverage uint32 = iota
	ColorExtractorMedian
	ColorExtractorMax
)

const (
	ColorSpaceRGB uint32 = iota
	ColorSpaceDIN99d
	ColorSpaceMax
)

const (
	DitherModeNone uint32 = iota
	DitherModeOrdered
	DitherModeDiffusion
	DitherModeNoise
	DitherModeMax
)

const (
	PixelModeSymbols uint32 = iota
	PixelModeSixels
	PixelModeKitty
	PixelModeITerm2
	PixelModeMax
)

const (
	PassthroughNone uint32 = iota
	PassthroughScreen
	PassthroughTmux
	PassthroughMax
)

const (
	TuckStretch uint32 = iota
	TuckFit
	TuckShrinkToFit
	TuckMax
)

const (
	AlignStart uint32 = iota
	AlignEnd
	AlignCenter
	AlignMax
)

const (
	ParseSuccess uint32 = iota
	ParseFailure
	ParseAgain
)

const (
	OptimizationNone            uint32 = 0
	OptimizationReuseAttributes uint32 = 1 << 0
	OptimizationSkipCells       uint32 = 1 << 1
	OptimizationRepeatCells     uint32 = 1 << 2
	OptimizationAll             uint32 = 0x7fffffff
)

const (
	FeatureMMX    uint32 = 1 << 0
	FeatureSSE41  uint32 = 1 << 1
	FeaturePopcnt uint32 = 1 << 2
	FeatureAVX2   uint32 = 1 << 3
)

const TermQuirkSixelOvershoot uint32 = 1 << 0

const (
	SymbolTagNone      uint32 = 0
	SymbolTagSpace     uint32 = 1 << 0
	SymbolTagSolid     uint32 = 1 << 1
	SymbolTagStipple   uint32 = 1 << 2
	SymbolTagBlock     uint32 = 1 << 3
	SymbolTagBorder    uint32 = 1 << 4
	SymbolTagDiagonal  uint32 = 1 << 5
	SymbolTagDot       uint32 = 1 << 6
	SymbolTagQuad      uint32 = 1 << 7
	SymbolTagHHalf     uint32 = 1 << 8
	SymbolTagVHalf     uint32 = 1 << 9
	SymbolTagInverted  uint32 = 1 << 10
	SymbolTagBraille   uint32 = 1 << 11
	SymbolTagTechnical uint32 = 1 << 12
	SymbolTagGeometric uint32 = 1 << 13
	SymbolTagASCII     uint32 = 1 << 14
	SymbolTagAlpha     uint32 = 1 << 15
	SymbolTagDigit     uint32 = 1 << 16
	SymbolTagNarrow    uint32 = 1 << 17
	SymbolTagWide      uint32 = 1 << 18
	SymbolTagAmbiguous uint32 = 1 << 19
	SymbolTagUgly      uint32 = 1 << 20
	SymbolTagLegacy    uint32 = 1 << 21
	SymbolTagSextant   uint32 = 1 << 22
	SymbolTagWedge     uint32 = 1 << 23
	SymbolTagLatin     uint32 = 1 << 24
	SymbolTagImported  uint32 = 1 << 25
	SymbolTagOctant    uint32 = 1 << 26
	SymbolTagExtra     uint32 = 1 << 30

	SymbolTagHalf  = SymbolTagHHalf | SymbolTagVHalf
	SymbolTagAlnum = SymbolTagAlpha | SymbolTagDigit
	SymbolTagBad   = SymbolTagAmbiguous | SymbolTagUgly
	SymbolTagAll   = ^(SymbolTagExtra | SymbolTagBad)
)

const (
	SymbolWidthPixels  = 8
	SymbolHeightPixels = 8

	// TermSeqArgsMax bounds the argument array filled by parse_seq.
	TermSeqArgsMax = 24
	// TermSeqLengthMax is the longest formatted control sequence.
	TermSeqLengthMax = 96
)

// BytesPerPixel returns the storage size of one pixel of the given native
// pixel type, or 0 when the type is unknown.
func BytesPerPixel(pixelType uint32) int {
	switch {
	case pixelType <= PixelABGR8Unassociated:
		return 4
	case pixelType == PixelRGB8, pixelType == PixelBGR8:
		return 3
	default:
		return 0
	}
}
