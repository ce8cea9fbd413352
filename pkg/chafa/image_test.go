package chafa_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgfx/chafa-go/pkg/chafa"
	"github.com/termgfx/chafa-go/pkg/chafa/internal/mocklib"
)

func TestNewFrameCopiesPixels(t *testing.T) {
	lib := newMock(t)
	px := solidRGBA(3, 2, 1, 2, 3)

	f, err := chafa.NewFrame(px)
	require.NoError(t, err)
	call, ok := lib.LastCall("FrameNew")
	require.True(t, ok)
	assert.Equal(t, []any{px.Data, uint32(chafa.PixelRGBA8Unassociated), int32(3), int32(2), int32(12)}, call.Args)

	// The caller may reuse the buffer at once.
	px.Data[0] = 0xee
	assert.Equal(t, byte(1), call.Args[0].([]byte)[0])

	require.NoError(t, f.Close())
	assert.Equal(t, 1, lib.Released(mocklib.KindFrame))
}

func TestNewFrameValidatesBeforeNativeCall(t *testing.T) {
	lib := newMock(t)

	_, err := chafa.NewFrame(chafa.Pixels{Data: make([]byte, 5), Type: chafa.PixelRGB8, Width: 2, Height: 1})
	require.ErrorIs(t, err, chafa.ErrBufferTooSmall)
	_, err = chafa.NewFrame(chafa.Pixels{Type: chafa.PixelTypeMax, Width: 1, Height: 1, Data: make([]byte, 4)})
	require.ErrorIs(t, err, chafa.ErrInvalidArgument)
	assert.Zero(t, lib.CallCount(""))
}

func TestImageSetFrame(t *testing.T) {
	lib := newMock(t)
	img, err := chafa.NewImage()
	require.NoError(t, err)
	f, err := chafa.NewFrame(solidRGBA(2, 2, 0, 0, 0))
	require.NoError(t, err)

	require.NoError(t, img.SetFrame(f))
	require.ErrorIs(t, img.SetFrame(nil), chafa.ErrInvalidArgument)

	require.NoError(t, f.Close())
	assert.Equal(t, 1, lib.Live(mocklib.KindFrame))
	require.NoError(t, img.Close())
	assert.Zero(t, lib.Live(""))

	require.ErrorIs(t, img.SetFrame(f), chafa.ErrClosed)
}

func TestImageSetClosedFrame(t *testing.T) {
	lib := newMock(t)
	img, err := chafa.NewImage()
	require.NoError(t, err)
	defer img.Close()
	f, err := chafa.NewFrame(solidRGBA(2, 2, 0, 0, 0))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = img.SetFrame(f)
	require.ErrorIs(t, err, chafa.ErrInvalidArgument)
	require.ErrorIs(t, err, chafa.ErrClosed)
	assert.Zero(t, lib.CallCount("ImageSetFrame"))
}

func TestPlacementAlignment(t *testing.T) {
	lib := newMock(t)
	img, err := chafa.NewImage()
	require.NoError(t, err)
	defer img.Close()

	pl, err := chafa.NewPlacement(img, 7)
	require.NoError(t, err)
	defer pl.Close()
	call, ok := lib.LastCall("PlacementNew")
	require.True(t, ok)
	assert.Equal(t, []any{int32(7)}, call.Args)

	require.NoError(t, pl.SetTuck(chafa.TuckShrinkToFit))
	require.NoError(t, pl.SetHAlign(chafa.AlignCenter))
	require.NoError(t, pl.SetVAlign(chafa.AlignEnd))

	tuck, err := pl.Tuck()
	require.NoError(t, err)
	assert.Equal(t, chafa.TuckShrinkToFit, tuck)
	h, err := pl.HAlign()
	require.NoError(t, err)
	assert.Equal(t, chafa.AlignCenter, h)
	v, err := pl.VAlign()
	require.NoError(t, err)
	assert.Equal(t, chafa.AlignEnd, v)

	lib.Reset()
	require.ErrorIs(t, pl.SetTuck(chafa.TuckMax), chafa.ErrInvalidArgument)
	require.ErrorIs(t, pl.SetHAlign(chafa.AlignMax), chafa.ErrInvalidArgument)
	require.ErrorIs(t, pl.SetVAlign(chafa.Align(42)), chafa.ErrInvalidArgument)
	assert.Zero(t, lib.CallCount(""))
}

func TestNewPlacementArguments(t *testing.T) {
	lib := newMock(t)

	_, err := chafa.NewPlacement(nil, 0)
	require.ErrorIs(t, err, chafa.ErrInvalidArgument)

	img, err := chafa.NewImage()
	require.NoError(t, err)
	tooBig := math.MaxInt32
	tooBig++
	_, err = chafa.NewPlacement(img, tooBig)
	require.ErrorIs(t, err, chafa.ErrInvalidArgument)

	require.NoError(t, img.Close())
	_, err = chafa.NewPlacement(img, -1)
	require.ErrorIs(t, err, chafa.ErrInvalidArgument)
	require.ErrorIs(t, err, chafa.ErrClosed)
	assert.Zero(t, lib.CallCount("PlacementNew"))
}

func TestPlacementOutlivesImageHandle(t *testing.T) {
	lib := newMock(t)
	img, err := chafa.NewImage()
	require.NoError(t, err)
	pl, err := chafa.NewPlacement(img, 0)
	require.NoError(t, err)

	require.NoError(t, img.Close())
	assert.Equal(t, 1, lib.Live(mocklib.KindImage), "placement holds the image")
	require.NoError(t, pl.Close())
	assert.Zero(t, lib.Live(""))
	assert.Empty(t, lib.Invalid())
}
