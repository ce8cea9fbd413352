//go:build !cgo || !chafa

package chafa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgfx/chafa-go/pkg/chafa"
	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

func TestConstructorsReturnNotBuilt(t *testing.T) {
	t.Cleanup(chafa.ResetForTest(backend.Load))

	c, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 10, Height: 5})
	require.ErrorIs(t, err, chafa.ErrNotBuilt)
	assert.Nil(t, c)

	_, err = chafa.DefaultTermDb()
	require.ErrorIs(t, err, chafa.ErrNotBuilt)
}

func TestVersionFallback(t *testing.T) {
	assert.Equal(t, chafa.NativePinned, chafa.NativeVersion())
	assert.Equal(t, chafa.Version, chafa.WrapperVersion())
}
