package export

import (
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/draw"
)

// FitWithin scales img so its longer side is maxSide, keeping the aspect
// ratio. Images already within bounds are returned as an NRGBA copy.
func FitWithin(img image.Image, maxSide int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	scale := float64(maxSide) / float64(max(w, h))
	nw, nh := max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ResizeDir shrinks every PNG and GIF in inDir to fit maxSide and writes the
// result under the same name in outDir. GIF frame timing is preserved.
// It returns the names written, sorted.
func ResizeDir(inDir, outDir string, maxSide int) ([]string, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("export: read %s: %w", inDir, err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	var written []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		in, out := filepath.Join(inDir, name), filepath.Join(outDir, name)

		switch strings.ToLower(filepath.Ext(name)) {
		case ".png":
			err = resizePNG(in, out, maxSide)
		case ".gif":
			err = resizeGIF(in, out, maxSide)
		default:
			continue
		}
		if err != nil {
			return written, err
		}
		written = append(written, name)
	}
	sort.Strings(written)
	return written, nil
}

func resizePNG(in, out string, maxSide int) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("export: open %s: %w", in, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("export: decode %s: %w", in, err)
	}
	resized := FitWithin(img, maxSide)
	return writeFile(out, func(dst *os.File) error {
		return png.Encode(dst, resized)
	})
}

func resizeGIF(in, out string, maxSide int) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("export: open %s: %w", in, err)
	}
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	if err != nil {
		return fmt.Errorf("export: decode %s: %w", in, err)
	}
	if len(anim.Image) == 0 {
		return fmt.Errorf("export: %s: no frames", in)
	}

	// Frames may cover only part of the canvas; composite before scaling.
	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() {
		bounds = anim.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(bounds)

	frames := make([]image.Image, len(anim.Image))
	for i, p := range anim.Image {
		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		frames[i] = FitWithin(canvas, maxSide)
	}

	delays := anim.Delay
	if len(delays) != len(frames) {
		delays = uniformDelays(len(frames), DefaultFrameDelay)
	}
	return writeGIF(out, frames, delays)
}
