package chafa

import (
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

// SymbolMap is a set of symbols a canvas may draw with. A canvas copies the
// map when it is created, so later changes do not affect existing canvases.
type SymbolMap struct {
	h handle
}

// NewSymbolMap returns an empty symbol map.
func NewSymbolMap() (*SymbolMap, error) {
	n, err := lib()
	if err != nil {
		return nil, err
	}
	p := n.SymbolMapNew()
	if p == nil {
		return nil, allocError("chafa_symbol_map_new")
	}
	m := &SymbolMap{}
	m.h.adopt("symbol map", n, p, backend.Native.SymbolMapUnref)
	runtime.SetFinalizer(m, func(m *SymbolMap) { m.h.finalize() })
	return m, nil
}

// Close releases the map. It is safe to call more than once.
func (m *SymbolMap) Close() error {
	if m == nil {
		return nil
	}
	runtime.SetFinalizer(m, nil)
	m.h.close()
	return nil
}

func (m *SymbolMap) handle() *handle {
	if m == nil {
		return nil
	}
	return &m.h
}

func (m *SymbolMap) AddByTags(tags SymbolTags) error {
	if err := tags.validate(); err != nil {
		return err
	}
	return m.h.use(func(n backend.Native, h backend.Handle) error {
		n.SymbolMapAddByTags(h, uint32(tags))
		return nil
	})
}

func (m *SymbolMap) RemoveByTags(tags SymbolTags) error {
	if err := tags.validate(); err != nil {
		return err
	}
	return m.h.use(func(n backend.Native, h backend.Handle) error {
		n.SymbolMapRemoveByTags(h, uint32(tags))
		return nil
	})
}

func checkRange(first, last rune) error {
	if !utf8.ValidRune(first) || !utf8.ValidRune(last) {
		return invalidf("invalid code point range %U..%U", first, last)
	}
	if first > last {
		return invalidf("code point range %U..%U is reversed", first, last)
	}
	return nil
}

// AddByRange adds the code points first through last, inclusive.
func (m *SymbolMap) AddByRange(first, last rune) error {
	if err := checkRange(first, last); err != nil {
		return err
	}
	return m.h.use(func(n backend.Native, h backend.Handle) error {
		n.SymbolMapAddByRange(h, uint32(first), uint32(last))
		return nil
	})
}

// RemoveByRange removes the code points first through last, inclusive.
func (m *SymbolMap) RemoveByRange(first, last rune) error {
	if err := checkRange(first, last); err != nil {
		return err
	}
	return m.h.use(func(n backend.Native, h backend.Handle) error {
		n.SymbolMapRemoveByRange(h, uint32(first), uint32(last))
		return nil
	})
}

// ApplySelectors parses a selector string such as "block+border-diagonal"
// and applies it to the map. On error the map is left unchanged and the
// returned *OperationError carries the native message.
func (m *SymbolMap) ApplySelectors(selectors string) error {
	if selectors == "" {
		return invalidf("empty selector string")
	}
	if strings.IndexByte(selectors, 0) >= 0 {
		return invalidf("selector string contains NUL")
	}
	return m.h.use(func(n backend.Native, h backend.Handle) error {
		ok, gerr := n.SymbolMapApplySelectors(h, selectors)
		if !ok || gerr != nil {
			return opError("chafa_symbol_map_apply_selectors", gerr)
		}
		return nil
	})
}

// AllowBuiltinGlyphs reports whether the map may use the library's built-in
// glyph bitmaps.
func (m *SymbolMap) AllowBuiltinGlyphs() (bool, error) {
	var allow bool
	err := m.h.use(func(n backend.Native, h backend.Handle) error {
		allow = n.SymbolMapGetAllowBuiltinGlyphs(h)
		return nil
	})
	return allow, err
}

func (m *SymbolMap) SetAllowBuiltinGlyphs(allow bool) error {
	return m.h.use(func(n backend.Native, h backend.Handle) error {
		n.SymbolMapSetAllowBuiltinGlyphs(h, allow)
		return nil
	})
}

// AddGlyph registers a bitmap for r, typically rendered from the terminal's
// font. The pixels are copied by the native library.
func (m *SymbolMap) AddGlyph(r rune, p Pixels) error {
	if r == 0 || !utf8.ValidRune(r) {
		return invalidf("invalid code point %U", r)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return m.h.use(func(n backend.Native, h backend.Handle) error {
		n.SymbolMapAddGlyph(h, uint32(r), uint32(p.Type), p.Data[:p.RequiredLen()],
			int32(p.Width), int32(p.Height), int32(p.Stride()))
		return nil
	})
}
