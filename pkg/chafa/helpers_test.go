package chafa_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/termgfx/chafa-go/pkg/chafa"
	"github.com/termgfx/chafa-go/pkg/chafa/internal/mocklib"
)

// newMock installs a fresh recording backend for the duration of t.
func newMock(t *testing.T) *mocklib.Lib {
	t.Helper()
	lib := mocklib.New()
	t.Cleanup(chafa.SetNativeForTest(lib))
	return lib
}

// solidRGBA returns a packed RGBA buffer filled with one color.
func solidRGBA(w, h int, r, g, b byte) chafa.Pixels {
	data := make([]byte, w*h*4)
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = r, g, b, 0xff
	}
	return chafa.Pixels{Data: data, Type: chafa.PixelRGBA8Unassociated, Width: w, Height: h}
}

func mustCanvas(t *testing.T, cfg chafa.CanvasConfig) *chafa.Canvas {
	t.Helper()
	c, err := chafa.NewCanvas(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func ptr[T any](v T) *T { return &v }
