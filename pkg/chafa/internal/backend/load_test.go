//go:build !cgo || !chafa

package backend_test

import (
	"errors"
	"testing"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

func TestLoadReturnsNotBuilt(t *testing.T) {
	n, err := backend.Load()
	if !errors.Is(err, backend.ErrNotBuilt) {
		t.Fatalf("unexpected error from Load: %v", err)
	}
	if n != nil {
		t.Fatalf("expected nil Native, got %T", n)
	}
	if v := backend.Version(); v != "" {
		t.Fatalf("expected empty version, got %q", v)
	}
}
