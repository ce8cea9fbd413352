package chafa

import (
	"io"
	"runtime"
	"unicode/utf8"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

// Canvas is a grid of character cells that pixel data is rendered into.
// Methods may be called from multiple goroutines; calls on one canvas are
// serialized.
type Canvas struct {
	h      handle
	width  int
	height int
	mode   CanvasMode
}

// NewCanvas validates cfg and creates a canvas from it. The native config
// built from cfg lives only for this call.
func NewCanvas(cfg CanvasConfig) (*Canvas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n, err := lib()
	if err != nil {
		return nil, err
	}

	ptrs, unlock, err := borrow(cfg.Symbols.handle(), cfg.FillSymbols.handle())
	if err != nil {
		return nil, err
	}
	defer unlock()

	ncfg := n.CanvasConfigNew()
	if ncfg == nil {
		return nil, allocError("chafa_canvas_config_new")
	}
	defer n.CanvasConfigUnref(ncfg)
	cfg.apply(n, ncfg, ptrs[0], ptrs[1])

	p := n.CanvasNew(ncfg)
	if p == nil {
		return nil, allocError("chafa_canvas_new")
	}

	c := &Canvas{width: cfg.Width, height: cfg.Height, mode: cfg.CanvasMode}
	c.h.adopt("canvas", n, p, backend.Native.CanvasUnref)
	runtime.SetFinalizer(c, func(c *Canvas) { c.h.finalize() })
	return c, nil
}

// Close releases the canvas. It is safe to call more than once.
func (c *Canvas) Close() error {
	if c == nil {
		return nil
	}
	runtime.SetFinalizer(c, nil)
	c.h.close()
	return nil
}

// Geometry returns the canvas size in cells.
func (c *Canvas) Geometry() (width, height int) {
	return c.width, c.height
}

func (c *Canvas) checkCell(x, y int) error {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return invalidf("cell (%d,%d) outside %dx%d canvas", x, y, c.width, c.height)
	}
	return nil
}

func checkColor(v int, upper int, what string) error {
	if v < -1 || v > upper {
		return invalidf("%s %d outside [-1,%d]", what, v, upper)
	}
	return nil
}

// DrawPixels replaces the canvas contents with p, scaled to fit. The pixel
// buffer is checked before the native call and is not retained.
func (c *Canvas) DrawPixels(p Pixels) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return c.h.use(func(n backend.Native, h backend.Handle) error {
		n.CanvasDrawAllPixels(h, uint32(p.Type), p.Data[:p.RequiredLen()],
			int32(p.Width), int32(p.Height), int32(p.Stride()))
		return nil
	})
}

// Print renders the canvas for the terminal described by ti. A nil ti uses
// the native fallback terminal.
func (c *Canvas) Print(ti *TermInfo) (string, error) {
	var out string
	err := c.withTermInfo(ti, func(n backend.Native, h, t backend.Handle) error {
		s, ok := n.CanvasPrint(h, t)
		if !ok {
			return opError("chafa_canvas_print", nil)
		}
		out = s
		return nil
	})
	return out, err
}

// PrintRows renders the canvas as one string per row, without line
// terminators.
func (c *Canvas) PrintRows(ti *TermInfo) ([]string, error) {
	var out []string
	err := c.withTermInfo(ti, func(n backend.Native, h, t backend.Handle) error {
		rows, ok := n.CanvasPrintRowsStrv(h, t)
		if !ok {
			return opError("chafa_canvas_print_rows_strv", nil)
		}
		out = rows
		return nil
	})
	return out, err
}

func (c *Canvas) withTermInfo(ti *TermInfo, fn func(n backend.Native, h, t backend.Handle) error) error {
	if ti == nil {
		return c.h.use(func(n backend.Native, h backend.Handle) error { return fn(n, h, nil) })
	}
	return c.h.useWith(&ti.h, fn)
}

// String renders the canvas with the fallback terminal. It returns an empty
// string if rendering fails.
func (c *Canvas) String() string {
	s, err := c.Print(nil)
	if err != nil {
		return ""
	}
	return s
}

// WriteTo writes the output of Print(nil) to w.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	s, err := c.Print(nil)
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, s)
	return int64(n), err
}

// CharAt returns the symbol at cell (x, y).
func (c *Canvas) CharAt(x, y int) (rune, error) {
	if err := c.checkCell(x, y); err != nil {
		return 0, err
	}
	var r rune
	err := c.h.use(func(n backend.Native, h backend.Handle) error {
		r = rune(n.CanvasGetCharAt(h, int32(x), int32(y)))
		return nil
	})
	return r, err
}

// SetCharAt places r at cell (x, y) and returns the number of cells it
// occupies, 1 or 2.
func (c *Canvas) SetCharAt(x, y int, r rune) (int, error) {
	if err := c.checkCell(x, y); err != nil {
		return 0, err
	}
	if r == 0 || !utf8.ValidRune(r) {
		return 0, invalidf("invalid symbol %U", r)
	}
	var cells int
	err := c.h.use(func(n backend.Native, h backend.Handle) error {
		cells = int(n.CanvasSetCharAt(h, int32(x), int32(y), uint32(r)))
		if cells == 0 {
			return opError("chafa_canvas_set_char_at", nil)
		}
		return nil
	})
	return cells, err
}

// ColorsAt returns the packed RGB colors of cell (x, y). -1 means
// transparent.
func (c *Canvas) ColorsAt(x, y int) (fg, bg int, err error) {
	if err := c.checkCell(x, y); err != nil {
		return 0, 0, err
	}
	err = c.h.use(func(n backend.Native, h backend.Handle) error {
		f, b := n.CanvasGetColorsAt(h, int32(x), int32(y))
		fg, bg = int(f), int(b)
		return nil
	})
	return fg, bg, err
}

// SetColorsAt sets the packed RGB colors of cell (x, y). -1 means
// transparent.
func (c *Canvas) SetColorsAt(x, y, fg, bg int) error {
	if err := c.checkCell(x, y); err != nil {
		return err
	}
	if err := checkColor(fg, MaxColor, "foreground color"); err != nil {
		return err
	}
	if err := checkColor(bg, MaxColor, "background color"); err != nil {
		return err
	}
	return c.h.use(func(n backend.Native, h backend.Handle) error {
		n.CanvasSetColorsAt(h, int32(x), int32(y), int32(fg), int32(bg))
		return nil
	})
}

// RawColorsAt returns the colors of cell (x, y) in the canvas mode's own
// representation: palette indices in indexed modes, packed RGB otherwise.
func (c *Canvas) RawColorsAt(x, y int) (fg, bg int, err error) {
	if err := c.checkCell(x, y); err != nil {
		return 0, 0, err
	}
	err = c.h.use(func(n backend.Native, h backend.Handle) error {
		f, b := n.CanvasGetRawColorsAt(h, int32(x), int32(y))
		fg, bg = int(f), int(b)
		return nil
	})
	return fg, bg, err
}

// SetRawColorsAt sets the colors of cell (x, y) without conversion. In
// indexed modes the values are palette indices up to 255.
func (c *Canvas) SetRawColorsAt(x, y, fg, bg int) error {
	if err := c.checkCell(x, y); err != nil {
		return err
	}
	upper := MaxColor
	if c.mode.Indexed() {
		upper = 255
	}
	if err := checkColor(fg, upper, "raw foreground color"); err != nil {
		return err
	}
	if err := checkColor(bg, upper, "raw background color"); err != nil {
		return err
	}
	return c.h.use(func(n backend.Native, h backend.Handle) error {
		n.CanvasSetRawColorsAt(h, int32(x), int32(y), int32(fg), int32(bg))
		return nil
	})
}

// SetPlacement renders p's image into the canvas. The canvas takes its own
// reference; p may be closed afterwards.
func (c *Canvas) SetPlacement(p *Placement) error {
	if p == nil {
		return invalidf("nil placement")
	}
	return c.h.useWith(&p.h, func(n backend.Native, h, ph backend.Handle) error {
		n.CanvasSetPlacement(h, ph)
		return nil
	})
}

// Config reads back the configuration the canvas was created with, with
// native defaults filled in. Symbol maps are not included.
func (c *Canvas) Config() (CanvasConfig, error) {
	var cfg CanvasConfig
	err := c.h.use(func(n backend.Native, h backend.Handle) error {
		peek := n.CanvasPeekConfig(h)
		if peek == nil {
			return opError("chafa_canvas_peek_config", nil)
		}
		cfg = readConfig(n, peek)
		return nil
	})
	return cfg, err
}
