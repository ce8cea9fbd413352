package mocklib

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

// Object kinds, as reported by Released and Live.
const (
	KindCanvasConfig = "canvas-config"
	KindCanvas       = "canvas"
	KindSymbolMap    = "symbol-map"
	KindFrame        = "frame"
	KindImage        = "image"
	KindPlacement    = "placement"
	KindTermInfo     = "term-info"
	KindTermDb       = "term-db"
)

// Error domains used for injected and simulated native errors.
const (
	DomainSymbolMap uint32 = 1
	DomainTermInfo  uint32 = 2
	DomainInjected  uint32 = 99
)

// BlockRune is drawn into every cell by CanvasDrawAllPixels.
const BlockRune = 0x2588

// Call is one recorded native call. Slice arguments are copied.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

type configState struct {
	width           int32
	height          int32
	cellWidth       int32
	cellHeight      int32
	canvasMode      uint32
	pixelMode       uint32
	colorExtractor  uint32
	colorSpace      uint32
	ditherMode      uint32
	grainWidth      int32
	grainHeight     int32
	ditherIntensity float32
	threshold       float32
	workFactor      float32
	fgColor         uint32
	bgColor         uint32
	preprocessing   bool
	fgOnly          bool
	optimizations   uint32
	passthrough     uint32
	symbolTags      uint32
	fillSymbolTags  uint32
}

func defaultConfig() configState {
	return configState{
		width:           80,
		height:          24,
		cellWidth:       8,
		cellHeight:      8,
		canvasMode:      backend.CanvasModeTruecolor,
		pixelMode:       backend.PixelModeSymbols,
		colorExtractor:  backend.ColorExtractorAverage,
		colorSpace:      backend.ColorSpaceRGB,
		ditherMode:      backend.DitherModeNone,
		grainWidth:      4,
		grainHeight:     4,
		ditherIntensity: 1.0,
		threshold:       0.5,
		workFactor:      0.5,
		fgColor:         0xffffff,
		bgColor:         0x000000,
		preprocessing:   true,
		optimizations:   backend.OptimizationAll,
		passthrough:     backend.PassthroughNone,
		symbolTags:      backend.SymbolTagBlock | backend.SymbolTagBorder | backend.SymbolTagSpace,
	}
}

type cell struct {
	ch           uint32
	fg, bg       int32
	rawFg, rawBg int32
}

type object struct {
	kind string
	refs int

	// canvas config and canvas
	cfg       configState
	peeked    backend.Handle
	cells     []cell
	placement backend.Handle

	// symbol map
	tags         uint32
	ranges       [][2]uint32
	allowBuiltin bool
	glyphs       map[uint32]int

	// frame, image, placement
	frameBytes int
	frame      backend.Handle
	image      backend.Handle
	id         int32
	tuck       uint32
	halign     uint32
	valign     uint32

	// term info
	name     string
	quirks   uint32
	safeTags uint32
	seqs     map[backend.TermSeq]string
	inherit  map[backend.TermSeq]bool

	borrowed bool
}

// Lib is a recording, stateful fake of the native library. It is safe for
// concurrent use.
type Lib struct {
	mu       sync.Mutex
	calls    []Call
	objects  map[backend.Handle]*object
	released map[string]int
	invalid  []string
	failing  map[string]bool

	builtin   uint32
	supported uint32
	threads   int32
	defaultDb backend.Handle
}

var _ backend.Native = (*Lib)(nil)

// New returns an empty Lib reporting MMX and SSE4.1 as builtin features and
// MMX as supported.
func New() *Lib {
	return &Lib{
		objects:   make(map[backend.Handle]*object),
		released:  make(map[string]int),
		failing:   make(map[string]bool),
		builtin:   backend.FeatureMMX | backend.FeatureSSE41,
		supported: backend.FeatureMMX,
		threads:   -1,
	}
}

// Fail makes every subsequent call to op fail until Recover is called.
func (l *Lib) Fail(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failing[op] = true
}

// Recover clears an injected failure.
func (l *Lib) Recover(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failing, op)
}

// Calls returns a copy of the recorded calls.
func (l *Lib) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// CallCount returns how many times op was called, or the total number of
// calls when op is empty.
func (l *Lib) CallCount(op string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if op == "" {
		return len(l.calls)
	}
	n := 0
	for _, c := range l.calls {
		if c.Name == op {
			n++
		}
	}
	return n
}

// LastCall returns the most recent call named op.
func (l *Lib) LastCall(op string) (Call, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.calls) - 1; i >= 0; i-- {
		if l.calls[i].Name == op {
			return l.calls[i], true
		}
	}
	return Call{}, false
}

// Released returns how many objects of kind reached a zero reference count.
func (l *Lib) Released(kind string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released[kind]
}

// Live returns the number of objects of kind still referenced. An empty kind
// counts every live object.
func (l *Lib) Live(kind string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, o := range l.objects {
		if o.borrowed {
			continue
		}
		if kind == "" || o.kind == kind {
			n++
		}
	}
	return n
}

// Invalid lists releases or uses of handles the fake did not know about,
// such as double unrefs.
func (l *Lib) Invalid() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.invalid))
	copy(out, l.invalid)
	return out
}

// Reset forgets recorded calls and release counters. Live objects stay.
func (l *Lib) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
	l.invalid = nil
	l.released = make(map[string]int)
}

func (l *Lib) record(name string, args ...any) bool {
	l.calls = append(l.calls, Call{Name: name, Args: args})
	return l.failing[name]
}

func (l *Lib) add(o *object) backend.Handle {
	o.refs = 1
	h := backend.Handle(unsafe.Pointer(o))
	l.objects[h] = o
	return h
}

func (l *Lib) get(op string, h backend.Handle, kind string) *object {
	o, ok := l.objects[h]
	if !ok || o.kind != kind {
		l.invalid = append(l.invalid, fmt.Sprintf("%s: unknown %s handle %p", op, kind, h))
		return nil
	}
	return o
}

func (l *Lib) unref(op string, h backend.Handle, kind string) {
	o := l.get(op, h, kind)
	if o == nil {
		return
	}
	if o.borrowed {
		l.invalid = append(l.invalid, fmt.Sprintf("%s: unref of borrowed %s", op, kind))
		return
	}
	o.refs--
	if o.refs > 0 {
		return
	}
	delete(l.objects, h)
	l.released[kind]++
	if o.peeked != nil {
		delete(l.objects, o.peeked)
	}
	if o.placement != nil {
		l.unref(op, o.placement, KindPlacement)
	}
	if o.image != nil {
		l.unref(op, o.image, KindImage)
	}
	if o.frame != nil {
		l.unref(op, o.frame, KindFrame)
	}
}

func injected(op string) *backend.GError {
	return &backend.GError{Domain: DomainInjected, Code: 1, Message: op + " failed"}
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// =====================
// Library-wide state
// =====================

func (l *Lib) GetBuiltinFeatures() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("GetBuiltinFeatures")
	return l.builtin
}

func (l *Lib) GetSupportedFeatures() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("GetSupportedFeatures")
	return l.supported
}

var featureNames = []struct {
	flag uint32
	name string
}{
	{backend.FeatureMMX, "mmx"},
	{backend.FeatureSSE41, "sse4.1"},
	{backend.FeaturePopcnt, "popcnt"},
	{backend.FeatureAVX2, "avx2"},
}

func (l *Lib) DescribeFeatures(features uint32) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("DescribeFeatures", features) {
		return "", false
	}
	var names []string
	for _, f := range featureNames {
		if features&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, " "), true
}

func (l *Lib) GetNThreads() int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("GetNThreads")
	return l.threads
}

func (l *Lib) SetNThreads(n int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("SetNThreads", n)
	l.threads = n
}

func (l *Lib) GetNActualThreads() int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("GetNActualThreads")
	if l.threads > 0 {
		return l.threads
	}
	return 4
}

// CalcCanvasGeometry fits the source aspect ratio into the destination box.
// A negative destination dimension is unconstrained.
func (l *Lib) CalcCanvasGeometry(srcWidth, srcHeight int32, destWidth, destHeight *int32, fontRatio float32, zoom, stretch bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CalcCanvasGeometry", srcWidth, srcHeight, *destWidth, *destHeight, fontRatio, zoom, stretch)

	w, h := *destWidth, *destHeight
	if srcWidth <= 0 || srcHeight <= 0 {
		*destWidth, *destHeight = 0, 0
		return
	}
	if w < 0 && h < 0 {
		w = srcWidth
	}
	if stretch && w > 0 && h > 0 {
		return
	}
	if !zoom {
		if w < 0 || w > srcWidth {
			w = srcWidth
		}
		if maxH := int32(float32(srcHeight)*fontRatio + 0.5); h < 0 || h > maxH {
			h = max(maxH, 1)
		}
	}

	ratio := float32(srcHeight) * fontRatio / float32(srcWidth)
	fitH := int32(float32(w)*ratio + 0.5)
	if w > 0 && (h < 0 || fitH <= h) {
		h = max(fitH, 1)
	} else {
		w = max(int32(float32(h)/ratio+0.5), 1)
	}
	*destWidth, *destHeight = w, h
}

// =====================
// ChafaCanvasConfig
// =====================

func (l *Lib) CanvasConfigNew() backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("CanvasConfigNew") {
		return nil
	}
	return l.add(&object{kind: KindCanvasConfig, cfg: defaultConfig()})
}

func (l *Lib) CanvasConfigUnref(cfg backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasConfigUnref")
	l.unref("CanvasConfigUnref", cfg, KindCanvasConfig)
}

// withConfig runs fn against the config state behind h, recording the call.
func (l *Lib) withConfig(op string, h backend.Handle, fn func(c *configState), args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(op, args...)
	if o := l.get(op, h, KindCanvasConfig); o != nil {
		fn(&o.cfg)
	}
}

func (l *Lib) CanvasConfigGetGeometry(cfg backend.Handle) (w, h int32) {
	l.withConfig("CanvasConfigGetGeometry", cfg, func(c *configState) { w, h = c.width, c.height })
	return
}

func (l *Lib) CanvasConfigSetGeometry(cfg backend.Handle, width, height int32) {
	l.withConfig("CanvasConfigSetGeometry", cfg, func(c *configState) { c.width, c.height = width, height }, width, height)
}

func (l *Lib) CanvasConfigGetCellGeometry(cfg backend.Handle) (w, h int32) {
	l.withConfig("CanvasConfigGetCellGeometry", cfg, func(c *configState) { w, h = c.cellWidth, c.cellHeight })
	return
}

func (l *Lib) CanvasConfigSetCellGeometry(cfg backend.Handle, width, height int32) {
	l.withConfig("CanvasConfigSetCellGeometry", cfg, func(c *configState) { c.cellWidth, c.cellHeight = width, height }, width, height)
}

func (l *Lib) CanvasConfigGetCanvasMode(cfg backend.Handle) (v uint32) {
	l.withConfig("CanvasConfigGetCanvasMode", cfg, func(c *configState) { v = c.canvasMode })
	return
}

func (l *Lib) CanvasConfigSetCanvasMode(cfg backend.Handle, mode uint32) {
	l.withConfig("CanvasConfigSetCanvasMode", cfg, func(c *configState) { c.canvasMode = mode }, mode)
}

func (l *Lib) CanvasConfigGetPixelMode(cfg backend.Handle) (v uint32) {
	l.withConfig("CanvasConfigGetPixelMode", cfg, func(c *configState) { v = c.pixelMode })
	return
}

func (l *Lib) CanvasConfigSetPixelMode(cfg backend.Handle, mode uint32) {
	l.withConfig("CanvasConfigSetPixelMode", cfg, func(c *configState) { c.pixelMode = mode }, mode)
}

func (l *Lib) CanvasConfigGetColorExtractor(cfg backend.Handle) (v uint32) {
	l.withConfig("CanvasConfigGetColorExtractor", cfg, func(c *configState) { v = c.colorExtractor })
	return
}

func (l *Lib) CanvasConfigSetColorExtractor(cfg backend.Handle, extractor uint32) {
	l.withConfig("CanvasConfigSetColorExtractor", cfg, func(c *configState) { c.colorExtractor = extractor }, extractor)
}

func (l *Lib) CanvasConfigGetColorSpace(cfg backend.Handle) (v uint32) {
	l.withConfig("CanvasConfigGetColorSpace", cfg, func(c *configState) { v = c.colorSpace })
	return
}

func (l *Lib) CanvasConfigSetColorSpace(cfg backend.Handle, space uint32) {
	l.withConfig("CanvasConfigSetColorSpace", cfg, func(c *configState) { c.colorSpace = space }, space)
}

func (l *Lib) CanvasConfigGetDitherMode(cfg backend.Handle) (v uint32) {
	l.withConfig("CanvasConfigGetDitherMode", cfg, func(c *configState) { v = c.ditherMode })
	return
}

func (l *Lib) CanvasConfigSetDitherMode(cfg backend.Handle, mode uint32) {
	l.withConfig("CanvasConfigSetDitherMode", cfg, func(c *configState) { c.ditherMode = mode }, mode)
}

func (l *Lib) CanvasConfigGetDitherGrainSize(cfg backend.Handle) (w, h int32) {
	l.withConfig("CanvasConfigGetDitherGrainSize", cfg, func(c *configState) { w, h = c.grainWidth, c.grainHeight })
	return
}

func (l *Lib) CanvasConfigSetDitherGrainSize(cfg backend.Handle, width, height int32) {
	l.withConfig("CanvasConfigSetDitherGrainSize", cfg, func(c *configState) { c.grainWidth, c.grainHeight = width, height }, width, height)
}

func (l *Lib) CanvasConfigGetDitherIntensity(cfg backend.Handle) (v float32) {
	l.withConfig("CanvasConfigGetDitherIntensity", cfg, func(c *configState) { v = c.ditherIntensity })
	return
}

func (l *Lib) CanvasConfigSetDitherIntensity(cfg backend.Handle, intensity float32) {
	l.withConfig("CanvasConfigSetDitherIntensity", cfg, func(c *configState) { c.ditherIntensity = intensity }, intensity)
}

func (l *Lib) CanvasConfigGetTransparencyThreshold(cfg backend.Handle) (v float32) {
	l.withConfig("CanvasConfigGetTransparencyThreshold", cfg, func(c *configState) { v = c.threshold })
	return
}

func (l *Lib) CanvasConfigSetTransparencyThreshold(cfg backend.Handle, threshold float32) {
	l.withConfig("CanvasConfigSetTransparencyThreshold", cfg, func(c *configState) { c.threshold = threshold }, threshold)
}

func (l *Lib) CanvasConfigGetWorkFactor(cfg backend.Handle) (v float32) {
	l.withConfig("CanvasConfigGetWorkFactor", cfg, func(c *configState) { v = c.workFactor })
	return
}

func (l *Lib) CanvasConfigSetWorkFactor(cfg backend.Handle, factor float32) {
	l.withConfig("CanvasConfigSetWorkFactor", cfg, func(c *configState) { c.workFactor = factor }, factor)
}

func (l *Lib) CanvasConfigGetFgColor(cfg backend.Handle) (v uint32) {
	l.withConfig("CanvasConfigGetFgColor", cfg, func(c *configState) { v = c.fgColor })
	return
}

func (l *Lib) CanvasConfigSetFgColor(cfg backend.Handle, rgb uint32) {
	l.withConfig("CanvasConfigSetFgColor", cfg, func(c *configState) { c.fgColor = rgb }, rgb)
}

func (l *Lib) CanvasConfigGetBgColor(cfg backend.Handle) (v uint32) {
	l.withConfig("CanvasConfigGetBgColor", cfg, func(c *configState) { v = c.bgColor })
	return
}

func (l *Lib) CanvasConfigSetBgColor(cfg backend.Handle, rgb uint32) {
	l.withConfig("CanvasConfigSetBgColor", cfg, func(c *configState) { c.bgColor = rgb }, rgb)
}

func (l *Lib) CanvasConfigGetPreprocessingEnabled(cfg backend.Handle) (v bool) {
	l.withConfig("CanvasConfigGetPreprocessingEnabled", cfg, func(c *configState) { v = c.preprocessing })
	return
}

func (l *Lib) CanvasConfigSetPreprocessingEnabled(cfg backend.Handle, enabled bool) {
	l.withConfig("CanvasConfigSetPreprocessingEnabled", cfg, func(c *configState) { c.preprocessing = enabled }, enabled)
}

func (l *Lib) CanvasConfigGetFgOnlyEnabled(cfg backend.Handle) (v bool) {
	l.withConfig("CanvasConfigGetFgOnlyEnabled", cfg, func(c *configState) { v = c.fgOnly })
	return
}

func (l *Lib) CanvasConfigSetFgOnlyEnabled(cfg backend.Handle, enabled bool) {
	l.withConfig("CanvasConfigSetFgOnlyEnabled", cfg, func(c *configState) { c.fgOnly = enabled }, enabled)
}

func (l *Lib) CanvasConfigGetOptimizations(cfg backend.Handle) (v uint32) {
	l.withConfig("CanvasConfigGetOptimizations", cfg, func(c *configState) { v = c.optimizations })
	return
}

func (l *Lib) CanvasConfigSetOptimizations(cfg backend.Handle, optimizations uint32) {
	l.withConfig("CanvasConfigSetOptimizations", cfg, func(c *configState) { c.optimizations = optimizations }, optimizations)
}

func (l *Lib) CanvasConfigGetPassthrough(cfg backend.Handle) (v uint32) {
	l.withConfig("CanvasConfigGetPassthrough", cfg, func(c *configState) { v = c.passthrough })
	return
}

func (l *Lib) CanvasConfigSetPassthrough(cfg backend.Handle, passthrough uint32) {
	l.withConfig("CanvasConfigSetPassthrough", cfg, func(c *configState) { c.passthrough = passthrough }, passthrough)
}

// CanvasConfigSetSymbolMap copies the map's tags, as the native config copies
// the map itself.
func (l *Lib) CanvasConfigSetSymbolMap(cfg, symbolMap backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasConfigSetSymbolMap")
	c := l.get("CanvasConfigSetSymbolMap", cfg, KindCanvasConfig)
	m := l.get("CanvasConfigSetSymbolMap", symbolMap, KindSymbolMap)
	if c != nil && m != nil {
		c.cfg.symbolTags = m.tags
	}
}

func (l *Lib) CanvasConfigSetFillSymbolMap(cfg, symbolMap backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasConfigSetFillSymbolMap")
	c := l.get("CanvasConfigSetFillSymbolMap", cfg, KindCanvasConfig)
	m := l.get("CanvasConfigSetFillSymbolMap", symbolMap, KindSymbolMap)
	if c != nil && m != nil {
		c.cfg.fillSymbolTags = m.tags
	}
}

// =====================
// ChafaCanvas
// =====================

func (l *Lib) CanvasNew(cfg backend.Handle) backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("CanvasNew") {
		return nil
	}
	state := defaultConfig()
	if cfg != nil {
		c := l.get("CanvasNew", cfg, KindCanvasConfig)
		if c == nil {
			return nil
		}
		state = c.cfg
	}
	if state.width <= 0 || state.height <= 0 {
		return nil
	}
	cells := make([]cell, int(state.width)*int(state.height))
	for i := range cells {
		cells[i] = cell{ch: ' ', fg: -1, bg: -1, rawFg: -1, rawBg: -1}
	}
	o := &object{kind: KindCanvas, cfg: state, cells: cells}
	// The peeked config is owned by the canvas and shares its state.
	peek := &object{kind: KindCanvasConfig, borrowed: true, cfg: state, refs: 1}
	o.peeked = backend.Handle(unsafe.Pointer(peek))
	l.objects[o.peeked] = peek
	return l.add(o)
}

func (l *Lib) CanvasUnref(canvas backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasUnref")
	l.unref("CanvasUnref", canvas, KindCanvas)
}

func (l *Lib) CanvasPeekConfig(canvas backend.Handle) backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasPeekConfig")
	o := l.get("CanvasPeekConfig", canvas, KindCanvas)
	if o == nil {
		return nil
	}
	return o.peeked
}

func (l *Lib) CanvasDrawAllPixels(canvas backend.Handle, pixelType uint32, pixels []byte, width, height, rowstride int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasDrawAllPixels", pixelType, copyBytes(pixels), width, height, rowstride)
	o := l.get("CanvasDrawAllPixels", canvas, KindCanvas)
	if o == nil {
		return
	}
	var rgb int32
	if len(pixels) >= 3 {
		rgb = int32(pixels[0])<<16 | int32(pixels[1])<<8 | int32(pixels[2])
	}
	for i := range o.cells {
		o.cells[i] = cell{ch: BlockRune, fg: rgb, bg: 0, rawFg: -1, rawBg: -1}
	}
}

func (l *Lib) rows(o *object) []string {
	w := int(o.cfg.width)
	rows := make([]string, o.cfg.height)
	for y := range rows {
		var b strings.Builder
		for _, c := range o.cells[y*w : (y+1)*w] {
			b.WriteRune(rune(c.ch))
		}
		rows[y] = b.String()
	}
	return rows
}

func (l *Lib) CanvasPrint(canvas, termInfo backend.Handle) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("CanvasPrint", termInfo != nil) {
		return "", false
	}
	o := l.get("CanvasPrint", canvas, KindCanvas)
	if o == nil {
		return "", false
	}
	if termInfo != nil && l.get("CanvasPrint", termInfo, KindTermInfo) == nil {
		return "", false
	}
	return strings.Join(l.rows(o), "\n"), true
}

func (l *Lib) CanvasPrintRowsStrv(canvas, termInfo backend.Handle) ([]string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("CanvasPrintRowsStrv", termInfo != nil) {
		return nil, false
	}
	o := l.get("CanvasPrintRowsStrv", canvas, KindCanvas)
	if o == nil {
		return nil, false
	}
	return l.rows(o), true
}

func (l *Lib) cellAt(op string, canvas backend.Handle, x, y int32) *cell {
	o := l.get(op, canvas, KindCanvas)
	if o == nil || x < 0 || y < 0 || x >= o.cfg.width || y >= o.cfg.height {
		return nil
	}
	return &o.cells[int(y)*int(o.cfg.width)+int(x)]
}

func (l *Lib) CanvasGetCharAt(canvas backend.Handle, x, y int32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasGetCharAt", x, y)
	if c := l.cellAt("CanvasGetCharAt", canvas, x, y); c != nil {
		return c.ch
	}
	return 0
}

func (l *Lib) CanvasSetCharAt(canvas backend.Handle, x, y int32, ch uint32) int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("CanvasSetCharAt", x, y, ch) {
		return 0
	}
	c := l.cellAt("CanvasSetCharAt", canvas, x, y)
	if c == nil {
		return 0
	}
	c.ch = ch
	return 1
}

func (l *Lib) CanvasGetColorsAt(canvas backend.Handle, x, y int32) (int32, int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasGetColorsAt", x, y)
	if c := l.cellAt("CanvasGetColorsAt", canvas, x, y); c != nil {
		return c.fg, c.bg
	}
	return -1, -1
}

func (l *Lib) CanvasSetColorsAt(canvas backend.Handle, x, y, fg, bg int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasSetColorsAt", x, y, fg, bg)
	if c := l.cellAt("CanvasSetColorsAt", canvas, x, y); c != nil {
		c.fg, c.bg = fg, bg
	}
}

func (l *Lib) CanvasGetRawColorsAt(canvas backend.Handle, x, y int32) (int32, int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasGetRawColorsAt", x, y)
	if c := l.cellAt("CanvasGetRawColorsAt", canvas, x, y); c != nil {
		return c.rawFg, c.rawBg
	}
	return -1, -1
}

func (l *Lib) CanvasSetRawColorsAt(canvas backend.Handle, x, y, fg, bg int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasSetRawColorsAt", x, y, fg, bg)
	if c := l.cellAt("CanvasSetRawColorsAt", canvas, x, y); c != nil {
		c.rawFg, c.rawBg = fg, bg
	}
}

// CanvasSetPlacement takes a reference on the placement, as the native
// canvas does.
func (l *Lib) CanvasSetPlacement(canvas, placement backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CanvasSetPlacement")
	o := l.get("CanvasSetPlacement", canvas, KindCanvas)
	p := l.get("CanvasSetPlacement", placement, KindPlacement)
	if o == nil || p == nil {
		return
	}
	p.refs++
	if o.placement != nil {
		l.unref("CanvasSetPlacement", o.placement, KindPlacement)
	}
	o.placement = placement
}

// =====================
// ChafaSymbolMap
// =====================

func (l *Lib) SymbolMapNew() backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("SymbolMapNew") {
		return nil
	}
	return l.add(&object{kind: KindSymbolMap, allowBuiltin: true, glyphs: make(map[uint32]int)})
}

func (l *Lib) SymbolMapUnref(m backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("SymbolMapUnref")
	l.unref("SymbolMapUnref", m, KindSymbolMap)
}

func (l *Lib) withSymbolMap(op string, h backend.Handle, fn func(o *object), args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(op, args...)
	if o := l.get(op, h, KindSymbolMap); o != nil {
		fn(o)
	}
}

func (l *Lib) SymbolMapAddByTags(m backend.Handle, tags uint32) {
	l.withSymbolMap("SymbolMapAddByTags", m, func(o *object) { o.tags |= tags }, tags)
}

func (l *Lib) SymbolMapRemoveByTags(m backend.Handle, tags uint32) {
	l.withSymbolMap("SymbolMapRemoveByTags", m, func(o *object) { o.tags &^= tags }, tags)
}

func (l *Lib) SymbolMapAddByRange(m backend.Handle, first, last uint32) {
	l.withSymbolMap("SymbolMapAddByRange", m, func(o *object) {
		o.ranges = append(o.ranges, [2]uint32{first, last})
	}, first, last)
}

func (l *Lib) SymbolMapRemoveByRange(m backend.Handle, first, last uint32) {
	l.withSymbolMap("SymbolMapRemoveByRange", m, func(o *object) {
		kept := o.ranges[:0]
		for _, r := range o.ranges {
			if r[0] != first || r[1] != last {
				kept = append(kept, r)
			}
		}
		o.ranges = kept
	}, first, last)
}

var selectorTags = map[string]uint32{
	"none":      backend.SymbolTagNone,
	"all":       backend.SymbolTagAll,
	"space":     backend.SymbolTagSpace,
	"solid":     backend.SymbolTagSolid,
	"stipple":   backend.SymbolTagStipple,
	"block":     backend.SymbolTagBlock,
	"border":    backend.SymbolTagBorder,
	"diagonal":  backend.SymbolTagDiagonal,
	"dot":       backend.SymbolTagDot,
	"quad":      backend.SymbolTagQuad,
	"half":      backend.SymbolTagHalf,
	"hhalf":     backend.SymbolTagHHalf,
	"vhalf":     backend.SymbolTagVHalf,
	"braille":   backend.SymbolTagBraille,
	"technical": backend.SymbolTagTechnical,
	"geometric": backend.SymbolTagGeometric,
	"ascii":     backend.SymbolTagASCII,
	"alpha":     backend.SymbolTagAlpha,
	"digit":     backend.SymbolTagDigit,
	"alnum":     backend.SymbolTagAlnum,
	"sextant":   backend.SymbolTagSextant,
	"wedge":     backend.SymbolTagWedge,
	"octant":    backend.SymbolTagOctant,
	"legacy":    backend.SymbolTagLegacy,
	"extra":     backend.SymbolTagExtra,
}

// SymbolMapApplySelectors understands a subset of the native selector
// grammar: tag names separated by '+', '-' or ',' with an optional leading
// sign. The map is unchanged on error.
func (l *Lib) SymbolMapApplySelectors(m backend.Handle, selectors string) (bool, *backend.GError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("SymbolMapApplySelectors", selectors) {
		return false, injected("SymbolMapApplySelectors")
	}
	o := l.get("SymbolMapApplySelectors", m, KindSymbolMap)
	if o == nil {
		return false, nil
	}

	tags := o.tags
	first := true
	for _, tok := range strings.FieldsFunc(selectors, func(r rune) bool { return r == ',' || r == ' ' }) {
		add, signed := true, false
		for len(tok) > 0 {
			switch tok[0] {
			case '+':
				add, signed, tok = true, true, tok[1:]
				continue
			case '-':
				add, signed, tok = false, true, tok[1:]
				continue
			}
			end := strings.IndexAny(tok, "+-")
			if end < 0 {
				end = len(tok)
			}
			name := strings.ToLower(tok[:end])
			tag, ok := selectorTags[name]
			if !ok {
				return false, &backend.GError{
					Domain:  DomainSymbolMap,
					Code:    0,
					Message: fmt.Sprintf("Unrecognized symbol tag '%s'.", name),
				}
			}
			// An unsigned leading selector replaces the current set.
			if first && !signed {
				tags = 0
			}
			first = false
			if add {
				tags |= tag
			} else {
				tags &^= tag
			}
			tok = tok[end:]
		}
	}
	o.tags = tags
	return true, nil
}

func (l *Lib) SymbolMapGetAllowBuiltinGlyphs(m backend.Handle) (v bool) {
	l.withSymbolMap("SymbolMapGetAllowBuiltinGlyphs", m, func(o *object) { v = o.allowBuiltin })
	return
}

func (l *Lib) SymbolMapSetAllowBuiltinGlyphs(m backend.Handle, allow bool) {
	l.withSymbolMap("SymbolMapSetAllowBuiltinGlyphs", m, func(o *object) { o.allowBuiltin = allow }, allow)
}

func (l *Lib) SymbolMapAddGlyph(m backend.Handle, codePoint, pixelType uint32, pixels []byte, width, height, rowstride int32) {
	l.withSymbolMap("SymbolMapAddGlyph", m, func(o *object) {
		o.glyphs[codePoint] = len(pixels)
	}, codePoint, pixelType, copyBytes(pixels), width, height, rowstride)
}

// Glyphs returns the code points added to the symbol map behind h.
func (l *Lib) Glyphs(h backend.Handle) []uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.objects[h]
	if !ok {
		return nil
	}
	out := make([]uint32, 0, len(o.glyphs))
	for cp := range o.glyphs {
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Tags returns the symbol tags currently selected by the map behind h.
func (l *Lib) Tags(h backend.Handle) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if o, ok := l.objects[h]; ok {
		return o.tags
	}
	return 0
}

// =====================
// ChafaFrame, ChafaImage, ChafaPlacement
// =====================

func (l *Lib) FrameNew(pixels []byte, pixelType uint32, width, height, rowstride int32) backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("FrameNew", copyBytes(pixels), pixelType, width, height, rowstride) {
		return nil
	}
	return l.add(&object{kind: KindFrame, frameBytes: len(pixels)})
}

func (l *Lib) FrameUnref(frame backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("FrameUnref")
	l.unref("FrameUnref", frame, KindFrame)
}

func (l *Lib) ImageNew() backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("ImageNew") {
		return nil
	}
	return l.add(&object{kind: KindImage})
}

// ImageUnref drops the image's reference on its frame when it is released.
func (l *Lib) ImageUnref(image backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("ImageUnref")
	l.unref("ImageUnref", image, KindImage)
}

func (l *Lib) ImageSetFrame(image, frame backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("ImageSetFrame")
	o := l.get("ImageSetFrame", image, KindImage)
	f := l.get("ImageSetFrame", frame, KindFrame)
	if o == nil || f == nil {
		return
	}
	f.refs++
	if o.frame != nil {
		l.unref("ImageSetFrame", o.frame, KindFrame)
	}
	o.frame = frame
}

func (l *Lib) PlacementNew(image backend.Handle, id int32) backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("PlacementNew", id) {
		return nil
	}
	img := l.get("PlacementNew", image, KindImage)
	if img == nil {
		return nil
	}
	img.refs++
	return l.add(&object{
		kind:   KindPlacement,
		image:  image,
		id:     id,
		tuck:   backend.TuckStretch,
		halign: backend.AlignStart,
		valign: backend.AlignStart,
	})
}

func (l *Lib) PlacementUnref(placement backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("PlacementUnref")
	l.unref("PlacementUnref", placement, KindPlacement)
}

func (l *Lib) withPlacement(op string, h backend.Handle, fn func(o *object), args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(op, args...)
	if o := l.get(op, h, KindPlacement); o != nil {
		fn(o)
	}
}

func (l *Lib) PlacementGetTuck(p backend.Handle) (v uint32) {
	l.withPlacement("PlacementGetTuck", p, func(o *object) { v = o.tuck })
	return
}

func (l *Lib) PlacementSetTuck(p backend.Handle, tuck uint32) {
	l.withPlacement("PlacementSetTuck", p, func(o *object) { o.tuck = tuck }, tuck)
}

func (l *Lib) PlacementGetHAlign(p backend.Handle) (v uint32) {
	l.withPlacement("PlacementGetHAlign", p, func(o *object) { v = o.halign })
	return
}

func (l *Lib) PlacementSetHAlign(p backend.Handle, align uint32) {
	l.withPlacement("PlacementSetHAlign", p, func(o *object) { o.halign = align }, align)
}

func (l *Lib) PlacementGetVAlign(p backend.Handle) (v uint32) {
	l.withPlacement("PlacementGetVAlign", p, func(o *object) { v = o.valign })
	return
}

func (l *Lib) PlacementSetVAlign(p backend.Handle, align uint32) {
	l.withPlacement("PlacementSetVAlign", p, func(o *object) { o.valign = align }, align)
}
