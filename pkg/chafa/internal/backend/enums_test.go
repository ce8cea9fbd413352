package backend_test

import (
	"testing"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

func TestBytesPerPixel(t *testing.T) {
	tests := []struct {
		name      string
		pixelType uint32
		want      int
	}{
		{"RGBA8Premultiplied", backend.PixelRGBA8Premultiplied, 4},
		{"BGRA8Unassociated", backend.PixelBGRA8Unassociated, 4},
		{"ABGR8Unassociated", backend.PixelABGR8Unassociated, 4},
		{"RGB8", backend.PixelRGB8, 3},
		{"BGR8", backend.PixelBGR8, 3},
		{"Max", backend.PixelMax, 0},
		{"OutOfRange", 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := backend.BytesPerPixel(tt.pixelType); got != tt.want {
				t.Errorf("BytesPerPixel(%d) = %d, want %d", tt.pixelType, got, tt.want)
			}
		})
	}
}

func TestSymbolTagComposites(t *testing.T) {
	if backend.SymbolTagAll&backend.SymbolTagExtra != 0 {
		t.Fatalf("SymbolTagAll must not include SymbolTagExtra")
	}
	if backend.SymbolTagAll&backend.SymbolTagBad != 0 {
		t.Fatalf("SymbolTagAll must not include SymbolTagBad")
	}
	if backend.SymbolTagAll&backend.SymbolTagBlock == 0 {
		t.Fatalf("SymbolTagAll must include SymbolTagBlock")
	}
	if backend.SymbolTagHalf != backend.SymbolTagHHalf|backend.SymbolTagVHalf {
		t.Fatalf("unexpected SymbolTagHalf %#x", backend.SymbolTagHalf)
	}
}

func TestTermSeqNames(t *testing.T) {
	seen := make(map[string]backend.TermSeq, backend.SeqCount)
	for s := backend.TermSeq(0); s < backend.SeqCount; s++ {
		name := s.String()
		if name == "" || name == "unknown" {
			t.Fatalf("sequence %d has no name", s)
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("sequences %d and %d share name %q", prev, s, name)
		}
		seen[name] = s
	}

	for _, s := range []backend.TermSeq{-1, backend.SeqCount, backend.SeqCount + 7} {
		if s.Valid() {
			t.Errorf("TermSeq(%d).Valid() = true", s)
		}
		if got := s.String(); got != "unknown" {
			t.Errorf("TermSeq(%d).String() = %q, want unknown", s, got)
		}
	}
}

func TestGErrorMessage(t *testing.T) {
	err := &backend.GError{Domain: 3, Code: 1, Message: "bad selector"}
	want := "native error (domain 3, code 1): bad selector"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
