package chafa_test

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/termgfx/chafa-go/pkg/chafa"
)

func Example() {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 8), B: 0x80, A: 0xff})
		}
	}

	px, err := chafa.PixelsFromImage(img)
	if err != nil {
		fmt.Println(err)
		return
	}
	w, h, err := chafa.CalcCanvasGeometry(chafa.GeometryRequest{
		SrcWidth: px.Width, SrcHeight: px.Height, DestWidth: 40, DestHeight: -1,
	})
	if errors.Is(err, chafa.ErrNotBuilt) {
		fmt.Println("library unavailable")
		return
	} else if err != nil {
		fmt.Println(err)
		return
	}

	canvas, err := chafa.NewCanvas(chafa.CanvasConfig{
		Width:      w,
		Height:     h,
		CanvasMode: chafa.CanvasModeIndexed256,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer canvas.Close()

	if err := canvas.DrawPixels(px); err != nil {
		fmt.Println(err)
		return
	}
	_, _ = canvas.WriteTo(os.Stdout)
}

func ExampleSymbolMap_ApplySelectors() {
	symbols, err := chafa.NewSymbolMap()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer symbols.Close()

	if err := symbols.ApplySelectors("block+border-diagonal"); err != nil {
		fmt.Println(err)
		return
	}
	canvas, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 20, Height: 10, Symbols: symbols})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer canvas.Close()
}
