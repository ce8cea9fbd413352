package mocklib

import (
	"strings"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

func newTermInfo(name string) *object {
	return &object{
		kind:     KindTermInfo,
		name:     name,
		safeTags: backend.SymbolTagASCII | backend.SymbolTagBlock | backend.SymbolTagBorder | backend.SymbolTagSpace,
		seqs:     make(map[backend.TermSeq]string),
		inherit:  make(map[backend.TermSeq]bool),
	}
}

func (l *Lib) TermInfoNew() backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("TermInfoNew") {
		return nil
	}
	return l.add(newTermInfo(""))
}

func (l *Lib) TermInfoUnref(ti backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("TermInfoUnref")
	l.unref("TermInfoUnref", ti, KindTermInfo)
}

// TermInfoChain returns a new term info whose sequences come from outer,
// falling back to inner where outer has none or marks a sequence inherited.
func (l *Lib) TermInfoChain(outer, inner backend.Handle) backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("TermInfoChain") {
		return nil
	}
	o := l.get("TermInfoChain", outer, KindTermInfo)
	i := l.get("TermInfoChain", inner, KindTermInfo)
	if o == nil || i == nil {
		return nil
	}
	chained := newTermInfo(o.name + "+" + i.name)
	chained.quirks = o.quirks | i.quirks
	chained.safeTags = o.safeTags & i.safeTags
	for seq, s := range i.seqs {
		chained.seqs[seq] = s
	}
	for seq, s := range o.seqs {
		if !o.inherit[seq] {
			chained.seqs[seq] = s
		}
	}
	return l.add(chained)
}

// TermInfoSupplement copies sequences from source that ti lacks.
func (l *Lib) TermInfoSupplement(ti, source backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("TermInfoSupplement")
	t := l.get("TermInfoSupplement", ti, KindTermInfo)
	s := l.get("TermInfoSupplement", source, KindTermInfo)
	if t == nil || s == nil {
		return
	}
	for seq, str := range s.seqs {
		if _, ok := t.seqs[seq]; !ok {
			t.seqs[seq] = str
		}
	}
}

func (l *Lib) withTermInfo(op string, h backend.Handle, fn func(o *object), args ...any) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	failing := l.record(op, args...)
	if o := l.get(op, h, KindTermInfo); o != nil && !failing {
		fn(o)
		return true
	}
	return false
}

func (l *Lib) TermInfoGetName(ti backend.Handle) (name string, ok bool) {
	l.withTermInfo("TermInfoGetName", ti, func(o *object) { name, ok = o.name, o.name != "" })
	return
}

func (l *Lib) TermInfoSetName(ti backend.Handle, name string) {
	l.withTermInfo("TermInfoSetName", ti, func(o *object) { o.name = name }, name)
}

func (l *Lib) TermInfoGetQuirks(ti backend.Handle) (v uint32) {
	l.withTermInfo("TermInfoGetQuirks", ti, func(o *object) { v = o.quirks })
	return
}

func (l *Lib) TermInfoSetQuirks(ti backend.Handle, quirks uint32) {
	l.withTermInfo("TermInfoSetQuirks", ti, func(o *object) { o.quirks = quirks }, quirks)
}

func (l *Lib) TermInfoGetSafeSymbolTags(ti backend.Handle) (v uint32) {
	l.withTermInfo("TermInfoGetSafeSymbolTags", ti, func(o *object) { v = o.safeTags })
	return
}

func (l *Lib) TermInfoSetSafeSymbolTags(ti backend.Handle, tags uint32) {
	l.withTermInfo("TermInfoSetSafeSymbolTags", ti, func(o *object) { o.safeTags = tags }, tags)
}

func (l *Lib) TermInfoGetSeq(ti backend.Handle, seq backend.TermSeq) (s string, ok bool) {
	l.withTermInfo("TermInfoGetSeq", ti, func(o *object) { s, ok = o.seqs[seq] }, seq)
	return
}

// TermInfoSetSeq stores str after checking its argument references. A nil
// str clears the sequence.
func (l *Lib) TermInfoSetSeq(ti backend.Handle, seq backend.TermSeq, str *string) (bool, *backend.GError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var arg any
	if str != nil {
		arg = *str
	}
	if l.record("TermInfoSetSeq", seq, arg) {
		return false, injected("TermInfoSetSeq")
	}
	o := l.get("TermInfoSetSeq", ti, KindTermInfo)
	if o == nil {
		return false, nil
	}
	if str == nil {
		delete(o.seqs, seq)
		return true, nil
	}
	if gerr := checkSeqTemplate(*str); gerr != nil {
		return false, gerr
	}
	o.seqs[seq] = *str
	return true, nil
}

func checkSeqTemplate(s string) *backend.GError {
	if len(s) > backend.TermSeqLengthMax {
		return &backend.GError{Domain: DomainTermInfo, Code: 1, Message: "Control sequence too long"}
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+1 >= len(s) {
			return &backend.GError{Domain: DomainTermInfo, Code: 0, Message: "Control sequence ends with '%'"}
		}
		i++
		if s[i] != '%' && (s[i] < '1' || s[i] > '9') {
			return &backend.GError{Domain: DomainTermInfo, Code: 0, Message: "Bad control sequence argument"}
		}
	}
	return nil
}

func (l *Lib) TermInfoHaveSeq(ti backend.Handle, seq backend.TermSeq) (v bool) {
	l.withTermInfo("TermInfoHaveSeq", ti, func(o *object) { _, v = o.seqs[seq] }, seq)
	return
}

func (l *Lib) TermInfoGetInheritSeq(ti backend.Handle, seq backend.TermSeq) (v bool) {
	l.withTermInfo("TermInfoGetInheritSeq", ti, func(o *object) { v = o.inherit[seq] }, seq)
	return
}

func (l *Lib) TermInfoSetInheritSeq(ti backend.Handle, seq backend.TermSeq, inherit bool) {
	l.withTermInfo("TermInfoSetInheritSeq", ti, func(o *object) { o.inherit[seq] = inherit }, seq, inherit)
}

// TermInfoParseSeqVarargs matches input against the stored template. Each
// %N consumes a run of decimal digits as one argument.
func (l *Lib) TermInfoParseSeqVarargs(ti backend.Handle, seq backend.TermSeq, input []byte) (uint32, int32, []uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("TermInfoParseSeqVarargs", seq, copyBytes(input)) {
		return backend.ParseFailure, 0, nil
	}
	o := l.get("TermInfoParseSeqVarargs", ti, KindTermInfo)
	if o == nil {
		return backend.ParseFailure, 0, nil
	}
	tmpl, ok := o.seqs[seq]
	if !ok {
		return backend.ParseFailure, 0, nil
	}
	return matchSeq(tmpl, input)
}

func matchSeq(tmpl string, input []byte) (uint32, int32, []uint32) {
	var args []uint32
	pos := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '%' && i+1 < len(tmpl) && tmpl[i+1] != '%' {
			i++
			start := pos
			var v uint32
			for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
				v = v*10 + uint32(input[pos]-'0')
				pos++
			}
			if pos == len(input) {
				return backend.ParseAgain, 0, nil
			}
			if pos == start {
				return backend.ParseFailure, 0, nil
			}
			if len(args) < backend.TermSeqArgsMax {
				args = append(args, v)
			}
			continue
		}
		if tmpl[i] == '%' {
			i++
		}
		if pos == len(input) {
			return backend.ParseAgain, 0, nil
		}
		if input[pos] != tmpl[i] {
			return backend.ParseFailure, 0, nil
		}
		pos++
	}
	return backend.ParseSuccess, int32(pos), args
}

// =====================
// ChafaTermDb
// =====================

func (l *Lib) TermDbNew() backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("TermDbNew") {
		return nil
	}
	return l.add(&object{kind: KindTermDb})
}

func (l *Lib) TermDbUnref(db backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("TermDbUnref")
	l.unref("TermDbUnref", db, KindTermDb)
}

// TermDbGetDefault returns a process-wide database that must never be
// unreferenced; doing so is reported by Invalid.
func (l *Lib) TermDbGetDefault() backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("TermDbGetDefault") {
		return nil
	}
	if l.defaultDb == nil {
		l.defaultDb = l.add(&object{kind: KindTermDb, borrowed: true})
	}
	return l.defaultDb
}

// TermDbDetect names the returned term info after TERM, or "vt100" when the
// environment has none.
func (l *Lib) TermDbDetect(db backend.Handle, envp []string) backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	env := make([]string, len(envp))
	copy(env, envp)
	if l.record("TermDbDetect", env) {
		return nil
	}
	if l.get("TermDbDetect", db, KindTermDb) == nil {
		return nil
	}
	name := "vt100"
	for _, kv := range envp {
		if v, ok := strings.CutPrefix(kv, "TERM="); ok && v != "" {
			name = v
		}
	}
	ti := newTermInfo(name)
	ti.seqs[backend.SeqResetAttributes] = "\x1b[0m"
	ti.seqs[backend.SeqCursorToPos] = "\x1b[%2;%1H"
	if strings.Contains(name, "256") || strings.Contains(name, "kitty") {
		ti.seqs[backend.SeqSetColorFg256] = "\x1b[38;5;%1m"
		ti.seqs[backend.SeqSetColorBg256] = "\x1b[48;5;%1m"
	}
	return l.add(ti)
}

func (l *Lib) TermDbGetFallbackInfo(db backend.Handle) backend.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record("TermDbGetFallbackInfo") {
		return nil
	}
	if l.get("TermDbGetFallbackInfo", db, KindTermDb) == nil {
		return nil
	}
	ti := newTermInfo("vt100")
	ti.seqs[backend.SeqResetAttributes] = "\x1b[0m"
	return l.add(ti)
}
