package chafa

import (
	"context"
	"errors"
	"fmt"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

var (
	// ErrInvalidArgument reports a value rejected before any native call.
	ErrInvalidArgument = errors.New("chafa: invalid argument")
	// ErrAllocationFailed reports that a native constructor returned no object.
	ErrAllocationFailed = errors.New("chafa: native allocation failed")
	// ErrBufferTooSmall reports a pixel buffer shorter than its declared
	// geometry requires. No native call is made.
	ErrBufferTooSmall = errors.New("chafa: buffer too small")
	// ErrOperationFailed is matched by every *OperationError.
	ErrOperationFailed = errors.New("chafa: native operation failed")
	// ErrClosed reports use of a handle after Close.
	ErrClosed = errors.New("chafa: handle has been closed")
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("chafa: library already initialized")
)

// Re-exported from the raw layer so callers can match them with errors.Is.
var (
	ErrNotBuilt    = backend.ErrNotBuilt
	ErrABIMismatch = backend.ErrABIMismatch
)

// OperationError describes a native call that reported failure. Code and
// Domain carry the native error code when the library supplied one; Code is
// -1 otherwise.
type OperationError struct {
	Op      string
	Code    int32
	Domain  uint32
	Message string
}

func (e *OperationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chafa: %s failed (code %d)", e.Op, e.Code)
	}
	return fmt.Sprintf("chafa: %s failed (code %d): %s", e.Op, e.Code, e.Message)
}

// Is makes errors.Is(err, ErrOperationFailed) true for every OperationError.
func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}

// RemapError converts raw layer errors to public API errors.
func RemapError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *backend.GError
	if errors.As(err, &gerr) {
		return &OperationError{Code: gerr.Code, Domain: gerr.Domain, Message: gerr.Message}
	}
	return err
}

// opError builds the error for a failed native call. gerr may be nil when
// the native function only signals failure through its return value.
func opError(op string, gerr *backend.GError) error {
	e := &OperationError{Op: op, Code: -1}
	if gerr != nil {
		e.Code, e.Domain, e.Message = gerr.Code, gerr.Domain, gerr.Message
	}
	logger().Debug(context.Background(), "native operation failed", "op", op, "code", e.Code)
	return e
}

func allocError(op string) error {
	return fmt.Errorf("%w: %s returned no object", ErrAllocationFailed, op)
}

func invalidBuffer(have, need int) error {
	return fmt.Errorf("%w: have %d bytes, need %d", ErrBufferTooSmall, have, need)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
