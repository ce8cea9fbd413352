package chafa

import (
	"os"
	"runtime"
	"strings"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

// TermDb maps environments to terminal descriptions.
type TermDb struct {
	h        handle
	borrowed bool
}

func NewTermDb() (*TermDb, error) {
	n, err := lib()
	if err != nil {
		return nil, err
	}
	p := n.TermDbNew()
	if p == nil {
		return nil, allocError("chafa_term_db_new")
	}
	db := &TermDb{}
	db.h.adopt("term db", n, p, backend.Native.TermDbUnref)
	runtime.SetFinalizer(db, func(db *TermDb) { db.h.finalize() })
	return db, nil
}

// DefaultTermDb returns the process-wide database. It is owned by the native
// library and its Close does nothing.
func DefaultTermDb() (*TermDb, error) {
	n, err := lib()
	if err != nil {
		return nil, err
	}
	var p backend.Handle
	if err := global(func(n backend.Native) error {
		p = n.TermDbGetDefault()
		return nil
	}); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, allocError("chafa_term_db_get_default")
	}
	db := &TermDb{borrowed: true}
	db.h.adopt("default term db", n, p, nil)
	return db, nil
}

// Close releases the database. It is safe to call more than once.
func (db *TermDb) Close() error {
	if db == nil || db.borrowed {
		return nil
	}
	runtime.SetFinalizer(db, nil)
	db.h.close()
	return nil
}

// Detect builds a term info for the environment env, given as KEY=value
// pairs. A nil env uses the current process environment.
func (db *TermDb) Detect(env []string) (*TermInfo, error) {
	if env == nil {
		env = os.Environ()
	}
	for _, kv := range env {
		if strings.IndexByte(kv, 0) >= 0 {
			return nil, invalidf("environment entry contains NUL")
		}
	}
	var ti *TermInfo
	err := db.h.use(func(n backend.Native, h backend.Handle) error {
		p := n.TermDbDetect(h, env)
		if p == nil {
			return allocError("chafa_term_db_detect")
		}
		ti = newTermInfo(n, p)
		return nil
	})
	return ti, err
}

// FallbackInfo returns a term info with the sequences every terminal is
// assumed to support.
func (db *TermDb) FallbackInfo() (*TermInfo, error) {
	var ti *TermInfo
	err := db.h.use(func(n backend.Native, h backend.Handle) error {
		p := n.TermDbGetFallbackInfo(h)
		if p == nil {
			return allocError("chafa_term_db_get_fallback_info")
		}
		ti = newTermInfo(n, p)
		return nil
	})
	return ti, err
}
