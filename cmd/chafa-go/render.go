package main

import (
	"fmt"
	"image"
	"io"
	"os"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"go.uber.org/zap"

	"github.com/termgfx/chafa-go/pkg/chafa"
)

type renderer struct {
	cfg        Config
	term       *chafa.TermInfo
	destWidth  int
	destHeight int
	log        *zap.Logger
}

func (r *renderer) renderFile(path string, w io.Writer) error {
	f, err := os.Open(path) // #nosec G304 -- paths come from the command line
	if err != nil {
		return err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	r.log.Debug("decoded image", zap.String("path", path), zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return r.render(img, w)
}

// render draws img on a canvas fitted to the output box and writes the
// terminal output to w.
func (r *renderer) render(img image.Image, w io.Writer) error {
	px, err := chafa.PixelsFromImage(img)
	if err != nil {
		return err
	}

	width, height, err := chafa.CalcCanvasGeometry(chafa.GeometryRequest{
		SrcWidth:   px.Width,
		SrcHeight:  px.Height,
		DestWidth:  r.destWidth,
		DestHeight: r.destHeight,
		FontRatio:  r.cfg.FontRatio,
		Zoom:       r.cfg.Zoom,
		Stretch:    r.cfg.Stretch,
	})
	if err != nil {
		return err
	}

	var symbols *chafa.SymbolMap
	if r.cfg.Symbols != "" {
		symbols, err = chafa.NewSymbolMap()
		if err != nil {
			return err
		}
		defer symbols.Close()
		if err := symbols.ApplySelectors(r.cfg.Symbols); err != nil {
			return err
		}
	}

	canvas, err := chafa.NewCanvas(r.cfg.canvasConfig(width, height, symbols))
	if err != nil {
		return err
	}
	defer canvas.Close()

	if err := canvas.DrawPixels(px); err != nil {
		return err
	}
	out, err := canvas.Print(r.term)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}
