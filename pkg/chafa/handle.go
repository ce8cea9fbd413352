package chafa

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

var handleSeq atomic.Uint64

// handle is the ownership core shared by every wrapper: one native pointer,
// released exactly once, with calls serialized by mu.
type handle struct {
	mu      sync.Mutex
	id      uint64
	kind    string
	lib     backend.Native
	ptr     backend.Handle
	release func(n backend.Native, p backend.Handle)
}

// adopt takes ownership of p. Wrappers embed handle by value and call adopt
// once before the wrapper is shared.
func (h *handle) adopt(kind string, n backend.Native, p backend.Handle, release func(backend.Native, backend.Handle)) {
	h.id = handleSeq.Add(1)
	h.kind = kind
	h.lib = n
	h.ptr = p
	h.release = release
	logger().Debug(context.Background(), "native handle created", "kind", kind)
}

func (h *handle) closedErr() error {
	return fmt.Errorf("%w: %s", ErrClosed, h.kind)
}

// use runs fn with the handle locked and open.
func (h *handle) use(fn func(n backend.Native, p backend.Handle) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ptr == nil {
		return h.closedErr()
	}
	return fn(h.lib, h.ptr)
}

// useWith runs fn with h and a borrowed argument locked, in creation order
// so that concurrent calls on the same pair cannot deadlock. A closed
// borrowed argument is an invalid argument.
func (h *handle) useWith(arg *handle, fn func(n backend.Native, p, a backend.Handle) error) error {
	if arg == h {
		return h.use(func(n backend.Native, p backend.Handle) error { return fn(n, p, p) })
	}

	first, second := h, arg
	if arg.id < h.id {
		first, second = arg, h
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if h.ptr == nil {
		return h.closedErr()
	}
	if arg.ptr == nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, arg.closedErr())
	}
	return fn(h.lib, h.ptr, arg.ptr)
}

// close releases the native object once. Later calls are no-ops.
func (h *handle) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ptr == nil {
		return
	}
	if h.release != nil {
		h.release(h.lib, h.ptr)
	}
	h.ptr = nil
	logger().Debug(context.Background(), "native handle released", "kind", h.kind)
}

// finalize is the garbage collector path for wrappers never closed.
func (h *handle) finalize() {
	h.mu.Lock()
	open := h.ptr != nil
	h.mu.Unlock()
	if open {
		logger().Warn(context.Background(), "native handle leaked; releasing from finalizer", "kind", h.kind)
	}
	h.close()
}

func (h *handle) isOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ptr != nil
}

// borrow locks the given handles in creation order and returns their native
// pointers, index for index. Nil entries yield nil pointers and duplicates
// are locked once. A closed handle is an invalid argument.
func borrow(hs ...*handle) ([]backend.Handle, func(), error) {
	ordered := make([]*handle, 0, len(hs))
	for _, h := range hs {
		if h != nil && !slices.Contains(ordered, h) {
			ordered = append(ordered, h)
		}
	}
	slices.SortFunc(ordered, func(a, b *handle) int { return cmp.Compare(a.id, b.id) })
	for _, h := range ordered {
		h.mu.Lock()
	}
	unlock := func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].mu.Unlock()
		}
	}

	ptrs := make([]backend.Handle, len(hs))
	for i, h := range hs {
		if h == nil {
			continue
		}
		if h.ptr == nil {
			unlock()
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidArgument, h.closedErr())
		}
		ptrs[i] = h.ptr
	}
	return ptrs, unlock, nil
}
