package backend

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrNotBuilt reports that the native bindings were not linked into the
// current binary.
var ErrNotBuilt = errors.New("chafa/internal/backend: native bindings not built")

// ErrABIMismatch reports that the constants compiled into the Go side do not
// match the headers of the linked chafa library.
var ErrABIMismatch = errors.New("chafa/internal/backend: native ABI mismatch")

// Handle is an opaque native object pointer. It is never dereferenced on the
// Go side and a nil Handle always means the native call failed.
type Handle = unsafe.Pointer

// GError is a Go copy of a native GError. The native error is freed before
// the copy is returned.
type GError struct {
	Domain  uint32
	Code    int32
	Message string
}

func (e *GError) Error() string {
	return fmt.Sprintf("native error (domain %d, code %d): %s", e.Domain, e.Code, e.Message)
}

// Native is the raw interface to libchafa. Every method maps to exactly one C
// function; names follow the C names without the chafa_ prefix.
//
// Slices passed in are borrowed for the duration of the call only. Strings
// are copied into NUL-terminated native memory and freed after the call.
// Native-owned results are copied into Go memory and released before
// returning.
type Native interface {
	// Library-wide state.
	GetBuiltinFeatures() uint32
	GetSupportedFeatures() uint32
	DescribeFeatures(features uint32) (string, bool)
	GetNThreads() int32
	SetNThreads(n int32)
	GetNActualThreads() int32
	CalcCanvasGeometry(srcWidth, srcHeight int32, destWidth, destHeight *int32, fontRatio float32, zoom, stretch bool)

	// ChafaCanvasConfig.
	CanvasConfigNew() Handle
	CanvasConfigUnref(cfg Handle)
	CanvasConfigGetGeometry(cfg Handle) (width, height int32)
	CanvasConfigSetGeometry(cfg Handle, width, height int32)
	CanvasConfigGetCellGeometry(cfg Handle) (width, height int32)
	CanvasConfigSetCellGeometry(cfg Handle, width, height int32)
	CanvasConfigGetCanvasMode(cfg Handle) uint32
	CanvasConfigSetCanvasMode(cfg Handle, mode uint32)
	CanvasConfigGetPixelMode(cfg Handle) uint32
	CanvasConfigSetPixelMode(cfg Handle, mode uint32)
	CanvasConfigGetColorExtractor(cfg Handle) uint32
	CanvasConfigSetColorExtractor(cfg Handle, extractor uint32)
	CanvasConfigGetColorSpace(cfg Handle) uint32
	CanvasConfigSetColorSpace(cfg Handle, space uint32)
	CanvasConfigGetDitherMode(cfg Handle) uint32
	CanvasConfigSetDitherMode(cfg Handle, mode uint32)
	CanvasConfigGetDitherGrainSize(cfg Handle) (width, height int32)
	CanvasConfigSetDitherGrainSize(cfg Handle, width, height int32)
	CanvasConfigGetDitherIntensity(cfg Handle) float32
	CanvasConfigSetDitherIntensity(cfg Handle, intensity float32)
	CanvasConfigGetTransparencyThreshold(cfg Handle) float32
	CanvasConfigSetTransparencyThreshold(cfg Handle, threshold float32)
	CanvasConfigGetWorkFactor(cfg Handle) float32
	CanvasConfigSetWorkFactor(cfg Handle, factor float32)
	CanvasConfigGetFgColor(cfg Handle) uint32
	CanvasConfigSetFgColor(cfg Handle, rgb uint32)
	CanvasConfigGetBgColor(cfg Handle) uint32
	CanvasConfigSetBgColor(cfg Handle, rgb uint32)
	CanvasConfigGetPreprocessingEnabled(cfg Handle) bool
	CanvasConfigSetPreprocessingEnabled(cfg Handle, enabled bool)
	CanvasConfigGetFgOnlyEnabled(cfg Handle) bool
	CanvasConfigSetFgOnlyEnabled(cfg Handle, enabled bool)
	CanvasConfigGetOptimizations(cfg Handle) uint32
	CanvasConfigSetOptimizations(cfg Handle, optimizations uint32)
	CanvasConfigGetPassthrough(cfg Handle) uint32
	CanvasConfigSetPassthrough(cfg Handle, passthrough uint32)
	CanvasConfigSetSymbolMap(cfg, symbolMap Handle)
	CanvasConfigSetFillSymbolMap(cfg, symbolMap Handle)

	// ChafaCanvas.
	CanvasNew(cfg Handle) Handle
	CanvasUnref(canvas Handle)
	CanvasPeekConfig(canvas Handle) Handle
	CanvasDrawAllPixels(canvas Handle, pixelType uint32, pixels []byte, width, height, rowstride int32)
	CanvasPrint(canvas, termInfo Handle) (string, bool)
	CanvasPrintRowsStrv(canvas, termInfo Handle) ([]string, bool)
	CanvasGetCharAt(canvas Handle, x, y int32) uint32
	CanvasSetCharAt(canvas Handle, x, y int32, c uint32) int32
	CanvasGetColorsAt(canvas Handle, x, y int32) (fg, bg int32)
	CanvasSetColorsAt(canvas Handle, x, y, fg, bg int32)
	CanvasGetRawColorsAt(canvas Handle, x, y int32) (fg, bg int32)
	CanvasSetRawColorsAt(canvas Handle, x, y, fg, bg int32)
	CanvasSetPlacement(canvas, placement Handle)

	// ChafaSymbolMap.
	SymbolMapNew() Handle
	SymbolMapUnref(m Handle)
	SymbolMapAddByTags(m Handle, tags uint32)
	SymbolMapRemoveByTags(m Handle, tags uint32)
	SymbolMapAddByRange(m Handle, first, last uint32)
	SymbolMapRemoveByRange(m Handle, first, last uint32)
	SymbolMapApplySelectors(m Handle, selectors string) (bool, *GError)
	SymbolMapGetAllowBuiltinGlyphs(m Handle) bool
	SymbolMapSetAllowBuiltinGlyphs(m Handle, allow bool)
	SymbolMapAddGlyph(m Handle, codePoint, pixelType uint32, pixels []byte, width, height, rowstride int32)

	// ChafaFrame, ChafaImage, ChafaPlacement.
	FrameNew(pixels []byte, pixelType uint32, width, height, rowstride int32) Handle
	FrameUnref(frame Handle)
	ImageNew() Handle
	ImageUnref(image Handle)
	ImageSetFrame(image, frame Handle)
	PlacementNew(image Handle, id int32) Handle
	PlacementUnref(placement Handle)
	PlacementGetTuck(placement Handle) uint32
	PlacementSetTuck(placement Handle, tuck uint32)
	PlacementGetHAlign(placement Handle) uint32
	PlacementSetHAlign(placement Handle, align uint32)
	PlacementGetVAlign(placement Handle) uint32
	PlacementSetVAlign(placement Handle, align uint32)

	// ChafaTermInfo.
	TermInfoNew() Handle
	TermInfoUnref(ti Handle)
	TermInfoChain(outer, inner Handle) Handle
	TermInfoSupplement(ti, source Handle)
	TermInfoGetName(ti Handle) (string, bool)
	TermInfoSetName(ti Handle, name string)
	TermInfoGetQuirks(ti Handle) uint32
	TermInfoSetQuirks(ti Handle, quirks uint32)
	TermInfoGetSafeSymbolTags(ti Handle) uint32
	TermInfoSetSafeSymbolTags(ti Handle, tags uint32)
	TermInfoGetSeq(ti Handle, seq TermSeq) (string, bool)
	TermInfoSetSeq(ti Handle, seq TermSeq, str *string) (bool, *GError)
	TermInfoHaveSeq(ti Handle, seq TermSeq) bool
	TermInfoGetInheritSeq(ti Handle, seq TermSeq) bool
	TermInfoSetInheritSeq(ti Handle, seq TermSeq, inherit bool)
	TermInfoParseSeqVarargs(ti Handle, seq TermSeq, input []byte) (result uint32, consumed int32, args []uint32)

	// ChafaTermDb.
	TermDbNew() Handle
	TermDbUnref(db Handle)
	TermDbGetDefault() Handle
	TermDbDetect(db Handle, envp []string) Handle
	TermDbGetFallbackInfo(db Handle) Handle
}
