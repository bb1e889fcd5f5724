// Package mask loads subject masks produced by an external segmenter and
// cleans them up.
package mask

import (
	"fmt"
	"image"
	"image/color"

	"gradient-relighter/internal/frame"
	"gradient-relighter/internal/imageio"

	"golang.org/x/image/draw"
)

// Load reads a segmentation image and returns a binary mask of exactly
// width×height. Any non-zero luminance selects the pixel. The image is
// resampled nearest-neighbour so labels never blend.
func Load(path string, width, height int) (frame.Mask, error) {
	src, err := imageio.ReadFile(path)
	if err != nil {
		return frame.Mask{}, fmt.Errorf("mask: %w", err)
	}
	return FromImage(src, width, height)
}

// FromImage binarises src and resamples it to width×height.
func FromImage(src image.Image, width, height int) (frame.Mask, error) {
	if width <= 0 || height <= 0 {
		return frame.Mask{}, fmt.Errorf("mask: bad target size %dx%d", width, height)
	}

	b := src.Bounds()
	bin := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if color.Gray16Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16).Y > 0 {
				bin.Pix[y*bin.Stride+x] = 255
			}
		}
	}

	dst := bin
	if b.Dx() != width || b.Dy() != height {
		dst = image.NewGray(image.Rect(0, 0, width, height))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), bin, bin.Bounds(), draw.Src, nil)
	}

	m := frame.NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if dst.Pix[y*dst.Stride+x] != 0 {
				m.Pix[y*width+x] = 1
			}
		}
	}
	return m, nil
}

// Image renders m as an 8-bit grey image, 255 where selected.
func Image(m frame.Mask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] != 0 {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return img
}
