//go:build cgo && chafa

package backend

/*
#cgo pkg-config: chafa
#include <stdlib.h>
#include <chafa.h>

// g_string_free may be a macro depending on the GLib version.
static void chafa_go_string_free(GString *s) { g_string_free(s, TRUE); }
static gint chafa_go_strv_length(gchar **v) { return (gint) g_strv_length(v); }
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

var (
	loadOnce sync.Once
	loadErr  error
)

// Load verifies the compiled-in constants against the chafa headers once and
// returns the cgo-backed Native.
func Load() (Native, error) {
	loadOnce.Do(func() { loadErr = checkABI() })
	if loadErr != nil {
		return nil, loadErr
	}
	return cgoNative{}, nil
}

// Version returns the version of the chafa headers the bindings were built
// against.
func Version() string {
	return fmt.Sprintf("%d.%d.%d", int(C.CHAFA_MAJOR_VERSION), int(C.CHAFA_MINOR_VERSION), int(C.CHAFA_MICRO_VERSION))
}

type abiConst struct {
	name   string
	goVal  uint32
	native uint32
}

func checkABI() error {
	table := []abiConst{
		{"CHAFA_PIXEL_RGBA8_PREMULTIPLIED", PixelRGBA8Premultiplied, uint32(C.CHAFA_PIXEL_RGBA8_PREMULTIPLIED)},
		{"CHAFA_PIXEL_RGBA8_UNASSOCIATED", PixelRGBA8Unassociated, uint32(C.CHAFA_PIXEL_RGBA8_UNASSOCIATED)},
		{"CHAFA_PIXEL_ABGR8_UNASSOCIATED", PixelABGR8Unassociated, uint32(C.CHAFA_PIXEL_ABGR8_UNASSOCIATED)},
		{"CHAFA_PIXEL_RGB8", PixelRGB8, uint32(C.CHAFA_PIXEL_RGB8)},
		{"CHAFA_PIXEL_BGR8", PixelBGR8, uint32(C.CHAFA_PIXEL_BGR8)},
		{"CHAFA_PIXEL_MAX", PixelMax, uint32(C.CHAFA_PIXEL_MAX)},
		{"CHAFA_CANVAS_MODE_INDEXED_16_8", CanvasModeIndexed16_8, uint32(C.CHAFA_CANVAS_MODE_INDEXED_16_8)},
		{"CHAFA_CANVAS_MODE_MAX", CanvasModeMax, uint32(C.CHAFA_CANVAS_MODE_MAX)},
		{"CHAFA_COLOR_EXTRACTOR_MAX", ColorExtractorMax, uint32(C.CHAFA_COLOR_EXTRACTOR_MAX)},
		{"CHAFA_COLOR_SPACE_MAX", ColorSpaceMax, uint32(C.CHAFA_COLOR_SPACE_MAX)},
		{"CHAFA_DITHER_MODE_NOISE", DitherModeNoise, uint32(C.CHAFA_DITHER_MODE_NOISE)},
		{"CHAFA_DITHER_MODE_MAX", DitherModeMax, uint32(C.CHAFA_DITHER_MODE_MAX)},
		{"CHAFA_PIXEL_MODE_ITERM2", PixelModeITerm2, uint32(C.CHAFA_PIXEL_MODE_ITERM2)},
		{"CHAFA_PIXEL_MODE_MAX", PixelModeMax, uint32(C.CHAFA_PIXEL_MODE_MAX)},
		{"CHAFA_PASSTHROUGH_MAX", PassthroughMax, uint32(C.CHAFA_PASSTHROUGH_MAX)},
		{"CHAFA_TUCK_MAX", TuckMax, uint32(C.CHAFA_TUCK_MAX)},
		{"CHAFA_ALIGN_MAX", AlignMax, uint32(C.CHAFA_ALIGN_MAX)},
		{"CHAFA_PARSE_AGAIN", ParseAgain, uint32(C.CHAFA_PARSE_AGAIN)},
		{"CHAFA_OPTIMIZATION_REPEAT_CELLS", OptimizationRepeatCells, uint32(C.CHAFA_OPTIMIZATION_REPEAT_CELLS)},
		{"CHAFA_OPTIMIZATION_ALL", OptimizationAll, uint32(C.CHAFA_OPTIMIZATION_ALL)},
		{"CHAFA_FEATURE_AVX2", FeatureAVX2, uint32(C.CHAFA_FEATURE_AVX2)},
		{"CHAFA_TERM_QUIRK_SIXEL_OVERSHOOT", TermQuirkSixelOvershoot, uint32(C.CHAFA_TERM_QUIRK_SIXEL_OVERSHOOT)},
		{"CHAFA_SYMBOL_TAG_VHALF", SymbolTagVHalf, uint32(C.CHAFA_SYMBOL_TAG_VHALF)},
		{"CHAFA_SYMBOL_TAG_BRAILLE", SymbolTagBraille, uint32(C.CHAFA_SYMBOL_TAG_BRAILLE)},
		{"CHAFA_SYMBOL_TAG_OCTANT", SymbolTagOctant, uint32(C.CHAFA_SYMBOL_TAG_OCTANT)},
		{"CHAFA_SYMBOL_TAG_EXTRA", SymbolTagExtra, uint32(C.CHAFA_SYMBOL_TAG_EXTRA)},
		{"CHAFA_SYMBOL_WIDTH_PIXELS", SymbolWidthPixels, uint32(C.CHAFA_SYMBOL_WIDTH_PIXELS)},
		{"CHAFA_SYMBOL_HEIGHT_PIXELS", SymbolHeightPixels, uint32(C.CHAFA_SYMBOL_HEIGHT_PIXELS)},
		{"CHAFA_TERM_SEQ_ARGS_MAX", TermSeqArgsMax, uint32(C.CHAFA_TERM_SEQ_ARGS_MAX)},
		{"CHAFA_TERM_SEQ_LENGTH_MAX", TermSeqLengthMax, uint32(C.CHAFA_TERM_SEQ_LENGTH_MAX)},
	}
	for _, c := range table {
		if c.goVal != c.native {
			return fmt.Errorf("%w: %s is %d in headers, %d in Go", ErrABIMismatch, c.name, c.native, c.goVal)
		}
	}
	return nil
}

type cgoNative struct{}

func cbool(b bool) C.gboolean {
	if b {
		return C.gboolean(1)
	}
	return C.gboolean(0)
}

// bytesView points at Go memory for the duration of a single synchronous
// call. The pointer must not be retained by the native side.
func bytesView(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func goString(p *C.gchar) string {
	return C.GoString((*C.char)(unsafe.Pointer(p)))
}

// takeGError copies and frees a native GError.
func takeGError(err *C.GError) *GError {
	if err == nil {
		return nil
	}
	out := &GError{
		Domain:  uint32(err.domain),
		Code:    int32(err.code),
		Message: goString(err.message),
	}
	C.g_error_free(err)
	return out
}

func canvasConfig(h Handle) *C.ChafaCanvasConfig { return (*C.ChafaCanvasConfig)(h) }
func canvas(h Handle) *C.ChafaCanvas             { return (*C.ChafaCanvas)(h) }
func symbolMap(h Handle) *C.ChafaSymbolMap       { return (*C.ChafaSymbolMap)(h) }
func termInfo(h Handle) *C.ChafaTermInfo         { return (*C.ChafaTermInfo)(h) }
func placement(h Handle) *C.ChafaPlacement       { return (*C.ChafaPlacement)(h) }

// =====================
// Library-wide state
// =====================

func (cgoNative) GetBuiltinFeatures() uint32 {
	return uint32(C.chafa_get_builtin_features())
}

func (cgoNative) GetSupportedFeatures() uint32 {
	return uint32(C.chafa_get_supported_features())
}

func (cgoNative) DescribeFeatures(features uint32) (string, bool) {
	p := C.chafa_describe_features(C.ChafaFeatures(features))
	if p == nil {
		return "", false
	}
	defer C.g_free(C.gpointer(unsafe.Pointer(p)))
	return goString(p), true
}

func (cgoNative) GetNThreads() int32 { return int32(C.chafa_get_n_threads()) }

func (cgoNative) SetNThreads(n int32) { C.chafa_set_n_threads(C.gint(n)) }

func (cgoNative) GetNActualThreads() int32 { return int32(C.chafa_get_n_actual_threads()) }

func (cgoNative) CalcCanvasGeometry(srcWidth, srcHeight int32, destWidth, destHeight *int32, fontRatio float32, zoom, stretch bool) {
	w, h := C.gint(*destWidth), C.gint(*destHeight)
	C.chafa_calc_canvas_geometry(C.gint(srcWidth), C.gint(srcHeight), &w, &h,
		C.gfloat(fontRatio), cbool(zoom), cbool(stretch))
	*destWidth, *destHeight = int32(w), int32(h)
}

// =====================
// ChafaCanvasConfig
// =====================

func (cgoNative) CanvasConfigNew() Handle {
	return Handle(C.chafa_canvas_config_new())
}

func (cgoNative) CanvasConfigUnref(cfg Handle) {
	if cfg == nil {
		return
	}
	C.chafa_canvas_config_unref(canvasConfig(cfg))
}

func (cgoNative) CanvasConfigGetGeometry(cfg Handle) (int32, int32) {
	var w, h C.gint
	C.chafa_canvas_config_get_geometry(canvasConfig(cfg), &w, &h)
	return int32(w), int32(h)
}

func (cgoNative) CanvasConfigSetGeometry(cfg Handle, width, height int32) {
	C.chafa_canvas_config_set_geometry(canvasConfig(cfg), C.gint(width), C.gint(height))
}

func (cgoNative) CanvasConfigGetCellGeometry(cfg Handle) (int32, int32) {
	var w, h C.gint
	C.chafa_canvas_config_get_cell_geometry(canvasConfig(cfg), &w, &h)
	return int32(w), int32(h)
}

func (cgoNative) CanvasConfigSetCellGeometry(cfg Handle, width, height int32) {
	C.chafa_canvas_config_set_cell_geometry(canvasConfig(cfg), C.gint(width), C.gint(height))
}

func (cgoNative) CanvasConfigGetCanvasMode(cfg Handle) uint32 {
	return uint32(C.chafa_canvas_config_get_canvas_mode(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetCanvasMode(cfg Handle, mode uint32) {
	C.chafa_canvas_config_set_canvas_mode(canvasConfig(cfg), C.ChafaCanvasMode(mode))
}

func (cgoNative) CanvasConfigGetPixelMode(cfg Handle) uint32 {
	return uint32(C.chafa_canvas_config_get_pixel_mode(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetPixelMode(cfg Handle, mode uint32) {
	C.chafa_canvas_config_set_pixel_mode(canvasConfig(cfg), C.ChafaPixelMode(mode))
}

func (cgoNative) CanvasConfigGetColorExtractor(cfg Handle) uint32 {
	return uint32(C.chafa_canvas_config_get_color_extractor(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetColorExtractor(cfg Handle, extractor uint32) {
	C.chafa_canvas_config_set_color_extractor(canvasConfig(cfg), C.ChafaColorExtractor(extractor))
}

func (cgoNative) CanvasConfigGetColorSpace(cfg Handle) uint32 {
	return uint32(C.chafa_canvas_config_get_color_space(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetColorSpace(cfg Handle, space uint32) {
	C.chafa_canvas_config_set_color_space(canvasConfig(cfg), C.ChafaColorSpace(space))
}

func (cgoNative) CanvasConfigGetDitherMode(cfg Handle) uint32 {
	return uint32(C.chafa_canvas_config_get_dither_mode(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetDitherMode(cfg Handle, mode uint32) {
	C.chafa_canvas_config_set_dither_mode(canvasConfig(cfg), C.ChafaDitherMode(mode))
}

func (cgoNative) CanvasConfigGetDitherGrainSize(cfg Handle) (int32, int32) {
	var w, h C.gint
	C.chafa_canvas_config_get_dither_grain_size(canvasConfig(cfg), &w, &h)
	return int32(w), int32(h)
}

func (cgoNative) CanvasConfigSetDitherGrainSize(cfg Handle, width, height int32) {
	C.chafa_canvas_config_set_dither_grain_size(canvasConfig(cfg), C.gint(width), C.gint(height))
}

func (cgoNative) CanvasConfigGetDitherIntensity(cfg Handle) float32 {
	return float32(C.chafa_canvas_config_get_dither_intensity(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetDitherIntensity(cfg Handle, intensity float32) {
	C.chafa_canvas_config_set_dither_intensity(canvasConfig(cfg), C.gfloat(intensity))
}

func (cgoNative) CanvasConfigGetTransparencyThreshold(cfg Handle) float32 {
	return float32(C.chafa_canvas_config_get_transparency_threshold(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetTransparencyThreshold(cfg Handle, threshold float32) {
	C.chafa_canvas_config_set_transparency_threshold(canvasConfig(cfg), C.gfloat(threshold))
}

func (cgoNative) CanvasConfigGetWorkFactor(cfg Handle) float32 {
	return float32(C.chafa_canvas_config_get_work_factor(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetWorkFactor(cfg Handle, factor float32) {
	C.chafa_canvas_config_set_work_factor(canvasConfig(cfg), C.gfloat(factor))
}

func (cgoNative) CanvasConfigGetFgColor(cfg Handle) uint32 {
	return uint32(C.chafa_canvas_config_get_fg_color(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetFgColor(cfg Handle, rgb uint32) {
	C.chafa_canvas_config_set_fg_color(canvasConfig(cfg), C.guint32(rgb))
}

func (cgoNative) CanvasConfigGetBgColor(cfg Handle) uint32 {
	return uint32(C.chafa_canvas_config_get_bg_color(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetBgColor(cfg Handle, rgb uint32) {
	C.chafa_canvas_config_set_bg_color(canvasConfig(cfg), C.guint32(rgb))
}

func (cgoNative) CanvasConfigGetPreprocessingEnabled(cfg Handle) bool {
	return C.chafa_canvas_config_get_preprocessing_enabled(canvasConfig(cfg)) != 0
}

func (cgoNative) CanvasConfigSetPreprocessingEnabled(cfg Handle, enabled bool) {
	C.chafa_canvas_config_set_preprocessing_enabled(canvasConfig(cfg), cbool(enabled))
}

func (cgoNative) CanvasConfigGetFgOnlyEnabled(cfg Handle) bool {
	return C.chafa_canvas_config_get_fg_only_enabled(canvasConfig(cfg)) != 0
}

func (cgoNative) CanvasConfigSetFgOnlyEnabled(cfg Handle, enabled bool) {
	C.chafa_canvas_config_set_fg_only_enabled(canvasConfig(cfg), cbool(enabled))
}

func (cgoNative) CanvasConfigGetOptimizations(cfg Handle) uint32 {
	return uint32(C.chafa_canvas_config_get_optimizations(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetOptimizations(cfg Handle, optimizations uint32) {
	C.chafa_canvas_config_set_optimizations(canvasConfig(cfg), C.ChafaOptimizations(optimizations))
}

func (cgoNative) CanvasConfigGetPassthrough(cfg Handle) uint32 {
	return uint32(C.chafa_canvas_config_get_passthrough(canvasConfig(cfg)))
}

func (cgoNative) CanvasConfigSetPassthrough(cfg Handle, passthrough uint32) {
	C.chafa_canvas_config_set_passthrough(canvasConfig(cfg), C.ChafaPassthrough(passthrough))
}

func (cgoNative) CanvasConfigSetSymbolMap(cfg, m Handle) {
	C.chafa_canvas_config_set_symbol_map(canvasConfig(cfg), symbolMap(m))
}

func (cgoNative) CanvasConfigSetFillSymbolMap(cfg, m Handle) {
	C.chafa_canvas_config_set_fill_symbol_map(canvasConfig(cfg), symbolMap(m))
}

// =====================
// ChafaCanvas
// =====================

func (cgoNative) CanvasNew(cfg Handle) Handle {
	return Handle(C.chafa_canvas_new(canvasConfig(cfg)))
}

func (cgoNative) CanvasUnref(c Handle) {
	if c == nil {
		return
	}
	C.chafa_canvas_unref(canvas(c))
}

func (cgoNative) CanvasPeekConfig(c Handle) Handle {
	return Handle(unsafe.Pointer(C.chafa_canvas_peek_config(canvas(c))))
}

func (cgoNative) CanvasDrawAllPixels(c Handle, pixelType uint32, pixels []byte, width, height, rowstride int32) {
	C.chafa_canvas_draw_all_pixels(canvas(c), C.ChafaPixelType(pixelType),
		(*C.guint8)(bytesView(pixels)), C.gint(width), C.gint(height), C.gint(rowstride))
}

func (cgoNative) CanvasPrint(c, ti Handle) (string, bool) {
	s := C.chafa_canvas_print(canvas(c), termInfo(ti))
	if s == nil {
		return "", false
	}
	defer C.chafa_go_string_free(s)
	return C.GoStringN((*C.char)(unsafe.Pointer(s.str)), C.int(s.len)), true
}

func (cgoNative) CanvasPrintRowsStrv(c, ti Handle) ([]string, bool) {
	arr := C.chafa_canvas_print_rows_strv(canvas(c), termInfo(ti))
	if arr == nil {
		return nil, false
	}
	defer C.g_strfreev(arr)
	n := int(C.chafa_go_strv_length(arr))
	rows := make([]string, n)
	for i, p := range unsafe.Slice(arr, n) {
		rows[i] = goString(p)
	}
	return rows, true
}

func (cgoNative) CanvasGetCharAt(c Handle, x, y int32) uint32 {
	return uint32(C.chafa_canvas_get_char_at(canvas(c), C.gint(x), C.gint(y)))
}

func (cgoNative) CanvasSetCharAt(c Handle, x, y int32, ch uint32) int32 {
	return int32(C.chafa_canvas_set_char_at(canvas(c), C.gint(x), C.gint(y), C.gunichar(ch)))
}

func (cgoNative) CanvasGetColorsAt(c Handle, x, y int32) (int32, int32) {
	var fg, bg C.gint
	C.chafa_canvas_get_colors_at(canvas(c), C.gint(x), C.gint(y), &fg, &bg)
	return int32(fg), int32(bg)
}

func (cgoNative) CanvasSetColorsAt(c Handle, x, y, fg, bg int32) {
	C.chafa_canvas_set_colors_at(canvas(c), C.gint(x), C.gint(y), C.gint(fg), C.gint(bg))
}

func (cgoNative) CanvasGetRawColorsAt(c Handle, x, y int32) (int32, int32) {
	var fg, bg C.gint
	C.chafa_canvas_get_raw_colors_at(canvas(c), C.gint(x), C.gint(y), &fg, &bg)
	return int32(fg), int32(bg)
}

func (cgoNative) CanvasSetRawColorsAt(c Handle, x, y, fg, bg int32) {
	C.chafa_canvas_set_raw_colors_at(canvas(c), C.gint(x), C.gint(y), C.gint(fg), C.gint(bg))
}

func (cgoNative) CanvasSetPlacement(c, p Handle) {
	C.chafa_canvas_set_placement(canvas(c), placement(p))
}

// =====================
// ChafaSymbolMap
// =====================

func (cgoNative) SymbolMapNew() Handle {
	return Handle(C.chafa_symbol_map_new())
}

func (cgoNative) SymbolMapUnref(m Handle) {
	if m == nil {
		return
	}
	C.chafa_symbol_map_unref(symbolMap(m))
}

func (cgoNative) SymbolMapAddByTags(m Handle, tags uint32) {
	C.chafa_symbol_map_add_by_tags(symbolMap(m), C.ChafaSymbolTags(tags))
}

func (cgoNative) SymbolMapRemoveByTags(m Handle, tags uint32) {
	C.chafa_symbol_map_remove_by_tags(symbolMap(m), C.ChafaSymbolTags(tags))
}

func (cgoNative) SymbolMapAddByRange(m Handle, first, last uint32) {
	C.chafa_symbol_map_add_by_range(symbolMap(m), C.gunichar(first), C.gunichar(last))
}

func (cgoNative) SymbolMapRemoveByRange(m Handle, first, last uint32) {
	C.chafa_symbol_map_remove_by_range(symbolMap(m), C.gunichar(first), C.gunichar(last))
}

func (cgoNative) SymbolMapApplySelectors(m Handle, selectors string) (bool, *GError) {
	cs := C.CString(selectors)
	defer C.free(unsafe.Pointer(cs))
	var gerr *C.GError
	ok := C.chafa_symbol_map_apply_selectors(symbolMap(m), (*C.gchar)(unsafe.Pointer(cs)), &gerr)
	return ok != 0, takeGError(gerr)
}

func (cgoNative) SymbolMapGetAllowBuiltinGlyphs(m Handle) bool {
	return C.chafa_symbol_map_get_allow_builtin_glyphs(symbolMap(m)) != 0
}

func (cgoNative) SymbolMapSetAllowBuiltinGlyphs(m Handle, allow bool) {
	C.chafa_symbol_map_set_allow_builtin_glyphs(symbolMap(m), cbool(allow))
}

func (cgoNative) SymbolMapAddGlyph(m Handle, codePoint, pixelType uint32, pixels []byte, width, height, rowstride int32) {
	C.chafa_symbol_map_add_glyph(symbolMap(m), C.gunichar(codePoint), C.ChafaPixelType(pixelType),
		C.gpointer(bytesView(pixels)), C.gint(width), C.gint(height), C.gint(rowstride))
}

// =====================
// ChafaFrame, ChafaImage, ChafaPlacement
// =====================

func (cgoNative) FrameNew(pixels []byte, pixelType uint32, width, height, rowstride int32) Handle {
	return Handle(C.chafa_frame_new(C.gconstpointer(bytesView(pixels)), C.ChafaPixelType(pixelType),
		C.gint(width), C.gint(height), C.gint(rowstride)))
}

func (cgoNative) FrameUnref(f Handle) {
	if f == nil {
		return
	}
	C.chafa_frame_unref((*C.ChafaFrame)(f))
}

func (cgoNative) ImageNew() Handle {
	return Handle(C.chafa_image_new())
}

func (cgoNative) ImageUnref(img Handle) {
	if img == nil {
		return
	}
	C.chafa_image_unref((*C.ChafaImage)(img))
}

func (cgoNative) ImageSetFrame(img, f Handle) {
	C.chafa_image_set_frame((*C.ChafaImage)(img), (*C.ChafaFrame)(f))
}

func (cgoNative) PlacementNew(img Handle, id int32) Handle {
	return Handle(C.chafa_placement_new((*C.ChafaImage)(img), C.gint(id)))
}

func (cgoNative) PlacementUnref(p Handle) {
	if p == nil {
		return
	}
	C.chafa_placement_unref(placement(p))
}

func (cgoNative) PlacementGetTuck(p Handle) uint32 {
	return uint32(C.chafa_placement_get_tuck(placement(p)))
}

func (cgoNative) PlacementSetTuck(p Handle, tuck uint32) {
	C.chafa_placement_set_tuck(placement(p), C.ChafaTuck(tuck))
}

func (cgoNative) PlacementGetHAlign(p Handle) uint32 {
	return uint32(C.chafa_placement_get_halign(placement(p)))
}

func (cgoNative) PlacementSetHAlign(p Handle, align uint32) {
	C.chafa_placement_set_halign(placement(p), C.ChafaAlign(align))
}

func (cgoNative) PlacementGetVAlign(p Handle) uint32 {
	return uint32(C.chafa_placement_get_valign(placement(p)))
}

func (cgoNative) PlacementSetVAlign(p Handle, align uint32) {
	C.chafa_placement_set_valign(placement(p), C.ChafaAlign(align))
}

// =====================
// ChafaTermInfo
// =====================

func (cgoNative) TermInfoNew() Handle {
	return Handle(C.chafa_term_info_new())
}

func (cgoNative) TermInfoUnref(ti Handle) {
	if ti == nil {
		return
	}
	C.chafa_term_info_unref(termInfo(ti))
}

func (cgoNative) TermInfoChain(outer, inner Handle) Handle {
	return Handle(C.chafa_term_info_chain(termInfo(outer), termInfo(inner)))
}

func (cgoNative) TermInfoSupplement(ti, source Handle) {
	C.chafa_term_info_supplement(termInfo(ti), termInfo(source))
}

// TermInfoGetName copies the borrowed name; the native string stays owned by
// the term info.
func (cgoNative) TermInfoGetName(ti Handle) (string, bool) {
	p := C.chafa_term_info_get_name(termInfo(ti))
	if p == nil {
		return "", false
	}
	return goString(p), true
}

func (cgoNative) TermInfoSetName(ti Handle, name string) {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))
	C.chafa_term_info_set_name(termInfo(ti), (*C.gchar)(unsafe.Pointer(cs)))
}

func (cgoNative) TermInfoGetQuirks(ti Handle) uint32 {
	return uint32(C.chafa_term_info_get_quirks(termInfo(ti)))
}

func (cgoNative) TermInfoSetQuirks(ti Handle, quirks uint32) {
	C.chafa_term_info_set_quirks(termInfo(ti), C.ChafaTermQuirks(quirks))
}

func (cgoNative) TermInfoGetSafeSymbolTags(ti Handle) uint32 {
	return uint32(C.chafa_term_info_get_safe_symbol_tags(termInfo(ti)))
}

func (cgoNative) TermInfoSetSafeSymbolTags(ti Handle, tags uint32) {
	C.chafa_term_info_set_safe_symbol_tags(termInfo(ti), C.ChafaSymbolTags(tags))
}

// TermInfoGetSeq copies the borrowed sequence string; it is not freed.
func (cgoNative) TermInfoGetSeq(ti Handle, seq TermSeq) (string, bool) {
	cseq, ok := nativeSeq(seq)
	if !ok {
		return "", false
	}
	p := C.chafa_term_info_get_seq(termInfo(ti), cseq)
	if p == nil {
		return "", false
	}
	return C.GoString((*C.char)(unsafe.Pointer(p))), true
}

func (cgoNative) TermInfoSetSeq(ti Handle, seq TermSeq, str *string) (bool, *GError) {
	cseq, ok := nativeSeq(seq)
	if !ok {
		return false, nil
	}
	var cs *C.char
	if str != nil {
		cs = C.CString(*str)
		defer C.free(unsafe.Pointer(cs))
	}
	var gerr *C.GError
	res := C.chafa_term_info_set_seq(termInfo(ti), cseq, (*C.gchar)(unsafe.Pointer(cs)), &gerr)
	return res != 0, takeGError(gerr)
}

func (cgoNative) TermInfoHaveSeq(ti Handle, seq TermSeq) bool {
	cseq, ok := nativeSeq(seq)
	if !ok {
		return false
	}
	return C.chafa_term_info_have_seq(termInfo(ti), cseq) != 0
}

func (cgoNative) TermInfoGetInheritSeq(ti Handle, seq TermSeq) bool {
	cseq, ok := nativeSeq(seq)
	if !ok {
		return false
	}
	return C.chafa_term_info_get_inherit_seq(termInfo(ti), cseq) != 0
}

func (cgoNative) TermInfoSetInheritSeq(ti Handle, seq TermSeq, inherit bool) {
	cseq, ok := nativeSeq(seq)
	if !ok {
		return
	}
	C.chafa_term_info_set_inherit_seq(termInfo(ti), cseq, cbool(inherit))
}

// TermInfoParseSeqVarargs copies input into native memory because the
// native parser advances a pointer into it.
func (cgoNative) TermInfoParseSeqVarargs(ti Handle, seq TermSeq, input []byte) (uint32, int32, []uint32) {
	cseq, ok := nativeSeq(seq)
	if !ok || len(input) == 0 {
		return ParseFailure, 0, nil
	}
	buf := C.CBytes(input)
	defer C.free(buf)

	p := (*C.gchar)(buf)
	n := C.gint(len(input))
	var args [TermSeqArgsMax]C.guint
	var nArgs C.gint
	res := C.chafa_term_info_parse_seq_varargs(termInfo(ti), cseq, &p, &n, &args[0], &nArgs)

	count := int(nArgs)
	if count < 0 {
		count = 0
	}
	if count > TermSeqArgsMax {
		count = TermSeqArgsMax
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = uint32(args[i])
	}
	return uint32(res), int32(len(input)) - int32(n), out
}

// =====================
// ChafaTermDb
// =====================

func (cgoNative) TermDbNew() Handle {
	return Handle(C.chafa_term_db_new())
}

func (cgoNative) TermDbUnref(db Handle) {
	if db == nil {
		return
	}
	C.chafa_term_db_unref((*C.ChafaTermDb)(db))
}

func (cgoNative) TermDbGetDefault() Handle {
	return Handle(C.chafa_term_db_get_default())
}

func (cgoNative) TermDbDetect(db Handle, envp []string) Handle {
	cEnv := make([]*C.gchar, len(envp)+1)
	for i, kv := range envp {
		cs := C.CString(kv)
		defer C.free(unsafe.Pointer(cs))
		cEnv[i] = (*C.gchar)(unsafe.Pointer(cs))
	}
	return Handle(C.chafa_term_db_detect((*C.ChafaTermDb)(db), &cEnv[0]))
}

func (cgoNative) TermDbGetFallbackInfo(db Handle) Handle {
	return Handle(C.chafa_term_db_get_fallback_info((*C.ChafaTermDb)(db)))
}

// nativeSeq maps a TermSeq ordinal to the native constant.
func nativeSeq(s TermSeq) (C.ChafaTermSeq, bool) {
	switch s {
	case SeqResetTerminalSoft:
		return C.CHAFA_TERM_SEQ_RESET_TERMINAL_SOFT, true
	case SeqResetTerminalHard:
		return C.CHAFA_TERM_SEQ_RESET_TERMINAL_HARD, true
	case SeqResetAttributes:
		return C.CHAFA_TERM_SEQ_RESET_ATTRIBUTES, true
	case SeqClear:
		return C.CHAFA_TERM_SEQ_CLEAR, true
	case SeqInvertColors:
		return C.CHAFA_TERM_SEQ_INVERT_COLORS, true
	case SeqCursorToTopLeft:
		return C.CHAFA_TERM_SEQ_CURSOR_TO_TOP_LEFT, true
	case SeqCursorToBottomLeft:
		return C.CHAFA_TERM_SEQ_CURSOR_TO_BOTTOM_LEFT, true
	case SeqCursorToPos:
		return C.CHAFA_TERM_SEQ_CURSOR_TO_POS, true
	case SeqCursorUp:
		return C.CHAFA_TERM_SEQ_CURSOR_UP, true
	case SeqCursorDown:
		return C.CHAFA_TERM_SEQ_CURSOR_DOWN, true
	case SeqCursorLeft:
		return C.CHAFA_TERM_SEQ_CURSOR_LEFT, true
	case SeqCursorRight:
		return C.CHAFA_TERM_SEQ_CURSOR_RIGHT, true
	case SeqEnableCursor:
		return C.CHAFA_TERM_SEQ_ENABLE_CURSOR, true
	case SeqDisableCursor:
		return C.CHAFA_TERM_SEQ_DISABLE_CURSOR, true
	case SeqEnableWrap:
		return C.CHAFA_TERM_SEQ_ENABLE_WRAP, true
	case SeqDisableWrap:
		return C.CHAFA_TERM_SEQ_DISABLE_WRAP, true
	case SeqSaveCursorPos:
		return C.CHAFA_TERM_SEQ_SAVE_CURSOR_POS, true
	case SeqRestoreCursorPos:
		return C.CHAFA_TERM_SEQ_RESTORE_CURSOR_POS, true
	case SeqResetScrollingRows:
		return C.CHAFA_TERM_SEQ_RESET_SCROLLING_ROWS, true
	case SeqEnableBold:
		return C.CHAFA_TERM_SEQ_ENABLE_BOLD, true
	case SeqSetColorFgDirect:
		return C.CHAFA_TERM_SEQ_SET_COLOR_FG_DIRECT, true
	case SeqSetColorBgDirect:
		return C.CHAFA_TERM_SEQ_SET_COLOR_BG_DIRECT, true
	case SeqSetColorFgbgDirect:
		return C.CHAFA_TERM_SEQ_SET_COLOR_FGBG_DIRECT, true
	case SeqSetColorFg256:
		return C.CHAFA_TERM_SEQ_SET_COLOR_FG_256, true
	case SeqSetColorBg256:
		return C.CHAFA_TERM_SEQ_SET_COLOR_BG_256, true
	case SeqSetColorFg16:
		return C.CHAFA_TERM_SEQ_SET_COLOR_FG_16, true
	case SeqSetColorBg16:
		return C.CHAFA_TERM_SEQ_SET_COLOR_BG_16, true
	case SeqBeginSixels:
		return C.CHAFA_TERM_SEQ_BEGIN_SIXELS, true
	case SeqEndSixels:
		return C.CHAFA_TERM_SEQ_END_SIXELS, true
	case SeqEnableSixelScrolling:
		return C.CHAFA_TERM_SEQ_ENABLE_SIXEL_SCROLLING, true
	case SeqDisableSixelScrolling:
		return C.CHAFA_TERM_SEQ_DISABLE_SIXEL_SCROLLING, true
	case SeqBeginKittyImmediateImageV1:
		return C.CHAFA_TERM_SEQ_BEGIN_KITTY_IMMEDIATE_IMAGE_V1, true
	case SeqEndKittyImage:
		return C.CHAFA_TERM_SEQ_END_KITTY_IMAGE, true
	case SeqBeginITerm2Image:
		return C.CHAFA_TERM_SEQ_BEGIN_ITERM2_IMAGE, true
	case SeqEndITerm2Image:
		return C.CHAFA_TERM_SEQ_END_ITERM2_IMAGE, true
	case SeqBeginScreenPassthrough:
		return C.CHAFA_TERM_SEQ_BEGIN_SCREEN_PASSTHROUGH, true
	case SeqEndScreenPassthrough:
		return C.CHAFA_TERM_SEQ_END_SCREEN_PASSTHROUGH, true
	case SeqBeginTmuxPassthrough:
		return C.CHAFA_TERM_SEQ_BEGIN_TMUX_PASSTHROUGH, true
	case SeqEndTmuxPassthrough:
		return C.CHAFA_TERM_SEQ_END_TMUX_PASSTHROUGH, true
	case SeqPrimaryDeviceAttributes:
		return C.CHAFA_TERM_SEQ_PRIMARY_DEVICE_ATTRIBUTES, true
	default:
		return 0, false
	}
}
