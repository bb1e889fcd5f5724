// Package export writes rendered frames as PNG, WebP and animated GIF and
// batch-resizes finished outputs for sharing.
package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"time"

	"gradient-relighter/internal/frame"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// DefaultFrameDelay is the display time of one GIF frame.
const DefaultFrameDelay = 50 * time.Millisecond

// WritePNG encodes f as an opaque RGB PNG.
func WritePNG(path string, f frame.Frame) error {
	return writeFile(path, func(out *os.File) error {
		return png.Encode(out, f.NRGBA())
	})
}

// WriteWebP encodes f as lossless WebP.
func WriteWebP(path string, f frame.Frame) error {
	return writeFile(path, func(out *os.File) error {
		return nativewebp.Encode(out, f.NRGBA(), nil)
	})
}

// WriteGIF assembles frames, in order, into a looping animation. delay is
// rounded to GIF's 10 ms resolution; zero uses DefaultFrameDelay.
func WriteGIF(path string, frames []frame.Frame, delay time.Duration) error {
	if len(frames) == 0 {
		return fmt.Errorf("export: %s: no frames", path)
	}
	images := make([]image.Image, len(frames))
	for i, f := range frames {
		images[i] = f.NRGBA()
	}
	return writeGIF(path, images, uniformDelays(len(frames), delay))
}

func uniformDelays(n int, delay time.Duration) []int {
	if delay <= 0 {
		delay = DefaultFrameDelay
	}
	cs := int((delay + 5*time.Millisecond) / (10 * time.Millisecond))
	if cs < 1 {
		cs = 1
	}
	delays := make([]int, n)
	for i := range delays {
		delays[i] = cs
	}
	return delays
}

// writeGIF quantises each image to the Plan9 palette with Floyd-Steinberg
// dithering. delays are in 100ths of a second.
func writeGIF(path string, images []image.Image, delays []int) error {
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(images)),
		Delay:     delays,
		LoopCount: 0,
	}
	for _, img := range images {
		pimg := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), img, img.Bounds().Min)
		out.Image = append(out.Image, pimg)
	}
	return writeFile(path, func(f *os.File) error {
		return gif.EncodeAll(f, out)
	})
}

func writeFile(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	if err := encode(f); err != nil {
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	return f.Close()
}
