package chafa

import (
	"runtime"
	"strings"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

// TermInfo describes the control sequences and quirks of one terminal.
type TermInfo struct {
	h handle
}

func newTermInfo(n backend.Native, p backend.Handle) *TermInfo {
	ti := &TermInfo{}
	ti.h.adopt("term info", n, p, backend.Native.TermInfoUnref)
	runtime.SetFinalizer(ti, func(ti *TermInfo) { ti.h.finalize() })
	return ti
}

// NewTermInfo returns a term info with no sequences.
func NewTermInfo() (*TermInfo, error) {
	n, err := lib()
	if err != nil {
		return nil, err
	}
	p := n.TermInfoNew()
	if p == nil {
		return nil, allocError("chafa_term_info_new")
	}
	return newTermInfo(n, p), nil
}

// ChainTermInfo returns a new term info that takes sequences from outer and
// falls back to inner. Both inputs stay owned by the caller.
func ChainTermInfo(outer, inner *TermInfo) (*TermInfo, error) {
	if outer == nil || inner == nil {
		return nil, invalidf("nil term info")
	}
	n, err := lib()
	if err != nil {
		return nil, err
	}
	ptrs, unlock, err := borrow(&outer.h, &inner.h)
	if err != nil {
		return nil, err
	}
	p := n.TermInfoChain(ptrs[0], ptrs[1])
	unlock()
	if p == nil {
		return nil, allocError("chafa_term_info_chain")
	}
	return newTermInfo(n, p), nil
}

// Close releases the term info. It is safe to call more than once.
func (ti *TermInfo) Close() error {
	if ti == nil {
		return nil
	}
	runtime.SetFinalizer(ti, nil)
	ti.h.close()
	return nil
}

// Supplement copies every sequence ti lacks from source.
func (ti *TermInfo) Supplement(source *TermInfo) error {
	if source == nil {
		return invalidf("nil term info")
	}
	return ti.h.useWith(&source.h, func(n backend.Native, h, src backend.Handle) error {
		n.TermInfoSupplement(h, src)
		return nil
	})
}

// Name returns the terminal name, or "" when none is set.
func (ti *TermInfo) Name() (string, error) {
	var name string
	err := ti.h.use(func(n backend.Native, h backend.Handle) error {
		name, _ = n.TermInfoGetName(h)
		return nil
	})
	return name, err
}

func (ti *TermInfo) SetName(name string) error {
	if strings.IndexByte(name, 0) >= 0 {
		return invalidf("terminal name contains NUL")
	}
	return ti.h.use(func(n backend.Native, h backend.Handle) error {
		n.TermInfoSetName(h, name)
		return nil
	})
}

func (ti *TermInfo) Quirks() (TermQuirks, error) {
	var q TermQuirks
	err := ti.h.use(func(n backend.Native, h backend.Handle) error {
		q = TermQuirks(n.TermInfoGetQuirks(h))
		return nil
	})
	return q, err
}

func (ti *TermInfo) SetQuirks(q TermQuirks) error {
	if q&^TermQuirkSixelOvershoot != 0 {
		return invalidf("terminal quirks %#x carry unknown bits", uint32(q))
	}
	return ti.h.use(func(n backend.Native, h backend.Handle) error {
		n.TermInfoSetQuirks(h, uint32(q))
		return nil
	})
}

// SafeSymbolTags returns the symbols the terminal is known to render
// correctly.
func (ti *TermInfo) SafeSymbolTags() (SymbolTags, error) {
	var tags SymbolTags
	err := ti.h.use(func(n backend.Native, h backend.Handle) error {
		tags = SymbolTags(n.TermInfoGetSafeSymbolTags(h))
		return nil
	})
	return tags, err
}

func (ti *TermInfo) SetSafeSymbolTags(tags SymbolTags) error {
	if err := tags.validate(); err != nil {
		return err
	}
	return ti.h.use(func(n backend.Native, h backend.Handle) error {
		n.TermInfoSetSafeSymbolTags(h, uint32(tags))
		return nil
	})
}

func checkSeq(seq TermSeq) error {
	if !seq.Valid() {
		return invalidf("unknown terminal sequence %d", int(seq))
	}
	return nil
}

// Seq returns the template stored for seq. ok is false when the terminal
// has no such sequence.
func (ti *TermInfo) Seq(seq TermSeq) (tmpl string, ok bool, err error) {
	if err := checkSeq(seq); err != nil {
		return "", false, err
	}
	err = ti.h.use(func(n backend.Native, h backend.Handle) error {
		tmpl, ok = n.TermInfoGetSeq(h, seq)
		return nil
	})
	return tmpl, ok, err
}

// SetSeq stores a sequence template. Arguments are written %1 through %9
// and a literal percent sign as %%. Malformed templates are rejected by the
// native library with an *OperationError.
func (ti *TermInfo) SetSeq(seq TermSeq, tmpl string) error {
	if err := checkSeq(seq); err != nil {
		return err
	}
	if strings.IndexByte(tmpl, 0) >= 0 {
		return invalidf("sequence template contains NUL")
	}
	if len(tmpl) > TermSeqLengthMax {
		return invalidf("sequence template of %d bytes exceeds %d", len(tmpl), TermSeqLengthMax)
	}
	return ti.setSeq(seq, &tmpl)
}

// ClearSeq removes seq from the terminal.
func (ti *TermInfo) ClearSeq(seq TermSeq) error {
	if err := checkSeq(seq); err != nil {
		return err
	}
	return ti.setSeq(seq, nil)
}

func (ti *TermInfo) setSeq(seq TermSeq, tmpl *string) error {
	return ti.h.use(func(n backend.Native, h backend.Handle) error {
		ok, gerr := n.TermInfoSetSeq(h, seq, tmpl)
		if !ok || gerr != nil {
			return opError("chafa_term_info_set_seq", gerr)
		}
		return nil
	})
}

func (ti *TermInfo) HaveSeq(seq TermSeq) (bool, error) {
	if err := checkSeq(seq); err != nil {
		return false, err
	}
	var have bool
	err := ti.h.use(func(n backend.Native, h backend.Handle) error {
		have = n.TermInfoHaveSeq(h, seq)
		return nil
	})
	return have, err
}

// InheritSeq reports whether seq is taken from the inner term info when
// ti is the outer side of a chain.
func (ti *TermInfo) InheritSeq(seq TermSeq) (bool, error) {
	if err := checkSeq(seq); err != nil {
		return false, err
	}
	var inherit bool
	err := ti.h.use(func(n backend.Native, h backend.Handle) error {
		inherit = n.TermInfoGetInheritSeq(h, seq)
		return nil
	})
	return inherit, err
}

func (ti *TermInfo) SetInheritSeq(seq TermSeq, inherit bool) error {
	if err := checkSeq(seq); err != nil {
		return err
	}
	return ti.h.use(func(n backend.Native, h backend.Handle) error {
		n.TermInfoSetInheritSeq(h, seq, inherit)
		return nil
	})
}

// ParseSeq matches the start of input against the template for seq. On
// ParseSuccess, consumed is the length of the match and args holds the
// decoded arguments. ParseAgain means input is a prefix of a match.
func (ti *TermInfo) ParseSeq(seq TermSeq, input []byte) (res ParseResult, consumed int, args []uint, err error) {
	if err := checkSeq(seq); err != nil {
		return ParseFailure, 0, nil, err
	}
	if len(input) == 0 {
		return ParseFailure, 0, nil, invalidf("empty input")
	}
	err = ti.h.use(func(n backend.Native, h backend.Handle) error {
		r, c, raw := n.TermInfoParseSeqVarargs(h, seq, input)
		res, consumed = ParseResult(r), int(c)
		if res == ParseSuccess {
			args = make([]uint, len(raw))
			for i, v := range raw {
				args[i] = uint(v)
			}
		}
		return nil
	})
	return res, consumed, args, err
}
