package demosaic

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gradient-relighter/internal/frame"
	"gradient-relighter/internal/imageio"
)

// Load reads an image file and returns float RGB in [0,1] at native
// resolution. Single-channel files (PGM, grey TIFF/PNG) are treated as Bayer
// mosaics with DefaultPattern; colour files are converted directly.
func Load(path string) (frame.Image, error) {
	return LoadPattern(path, DefaultPattern)
}

// LoadPattern is Load with an explicit colour filter layout.
func LoadPattern(path string, p Pattern) (frame.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return frame.Image{}, fmt.Errorf("demosaic: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pgm", ".pnm":
		raw, err := ReadPGM(bytes.NewReader(data))
		if err != nil {
			return frame.Image{}, fmt.Errorf("demosaic: %s: %w", path, err)
		}
		return Bilinear(raw.Pix, raw.Width, raw.Height, 65535, p)
	}

	src, err := imageio.Decode(path, data)
	if err != nil {
		return frame.Image{}, fmt.Errorf("demosaic: decode %s: %w", path, err)
	}
	return FromImage(src, p)
}

// FromImage converts a decoded image. Grey images are demosaiced.
func FromImage(src image.Image, p Pattern) (frame.Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch g := src.(type) {
	case *image.Gray16:
		raw := make([]uint16, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				raw[y*w+x] = g.Gray16At(b.Min.X+x, b.Min.Y+y).Y
			}
		}
		return Bilinear(raw, w, h, 65535, p)
	case *image.Gray:
		raw := make([]uint16, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				raw[y*w+x] = uint16(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return Bilinear(raw, w, h, 255, p)
	}

	img := frame.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			i := (y*w + x) * 3
			img.Pix[i] = float32(c.R) / 65535
			img.Pix[i+1] = float32(c.G) / 65535
			img.Pix[i+2] = float32(c.B) / 65535
		}
	}
	return img, nil
}
