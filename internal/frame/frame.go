// Package frame holds the per-pixel buffers shared by the photometry, light
// estimation and shading stages. All buffers are flat, row-major slices.
package frame

import (
	"errors"
	"fmt"
	"image"
)

// ErrShapeMismatch is returned when operands disagree in width or height.
var ErrShapeMismatch = errors.New("frame: shape mismatch")

// Image is an H×W×3 RGB image with nominal values in [0,1].
type Image struct {
	Width  int
	Height int
	Pix    []float32 // RGB interleaved, len = W*H*3
}

// NewImage allocates a zeroed image.
func NewImage(w, h int) Image {
	return Image{Width: w, Height: h, Pix: make([]float32, w*h*3)}
}

// At returns channel c of pixel (x, y).
func (im Image) At(x, y, c int) float32 {
	return im.Pix[(y*im.Width+x)*3+c]
}

// Set writes channel c of pixel (x, y).
func (im Image) Set(x, y, c int, v float32) {
	im.Pix[(y*im.Width+x)*3+c] = v
}

// Clone returns a deep copy.
func (im Image) Clone() Image {
	out := Image{Width: im.Width, Height: im.Height, Pix: make([]float32, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// Mask selects the subject region. Values are 0 or 1.
type Mask struct {
	Width  int
	Height int
	Pix    []float32 // len = W*H
}

// NewMask allocates an all-zero mask.
func NewMask(w, h int) Mask {
	return Mask{Width: w, Height: h, Pix: make([]float32, w*h)}
}

// FullMask returns a mask selecting every pixel.
func FullMask(w, h int) Mask {
	m := NewMask(w, h)
	for i := range m.Pix {
		m.Pix[i] = 1
	}
	return m
}

// Count returns the number of selected pixels.
func (m Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v == 1 {
			n++
		}
	}
	return n
}

// NormalMap holds one unit (or zero) 3-vector per pixel.
type NormalMap struct {
	Width  int
	Height int
	Pix    []float64 // xyz interleaved, len = W*H*3
}

// NewNormalMap allocates a zero normal map.
func NewNormalMap(w, h int) NormalMap {
	return NormalMap{Width: w, Height: h, Pix: make([]float64, w*h*3)}
}

// Normal returns the normal at flat pixel index i.
func (n NormalMap) Normal(i int) [3]float64 {
	return [3]float64{n.Pix[i*3], n.Pix[i*3+1], n.Pix[i*3+2]}
}

// AlbedoMap is a relative, unbounded, non-negative reflectance per pixel.
type AlbedoMap struct {
	Width  int
	Height int
	Pix    []float64
}

// NewAlbedoMap allocates a zero albedo map.
func NewAlbedoMap(w, h int) AlbedoMap {
	return AlbedoMap{Width: w, Height: h, Pix: make([]float64, w*h)}
}

// DotField is the per-pixel N·L of a normal map against one light direction.
type DotField struct {
	Width  int
	Height int
	Pix    []float64
}

// NewDotField allocates a zero field.
func NewDotField(w, h int) DotField {
	return DotField{Width: w, Height: h, Pix: make([]float64, w*h)}
}

// Frame is a rendered 8-bit RGB image.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8 // RGB interleaved, len = W*H*3
}

// NewFrame allocates a black frame.
func NewFrame(w, h int) Frame {
	return Frame{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
}

// NRGBA converts the frame to an opaque *image.NRGBA for the encoders.
func (f Frame) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	n := f.Width * f.Height
	for i := 0; i < n; i++ {
		img.Pix[i*4] = f.Pix[i*3]
		img.Pix[i*4+1] = f.Pix[i*3+1]
		img.Pix[i*4+2] = f.Pix[i*3+2]
		img.Pix[i*4+3] = 255
	}
	return img
}

// FrameFromImage converts any image to an RGB frame, dropping alpha.
func FrameFromImage(src image.Image) Frame {
	b := src.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*f.Width + x) * 3
			f.Pix[i] = uint8(r >> 8)
			f.Pix[i+1] = uint8(g >> 8)
			f.Pix[i+2] = uint8(bl >> 8)
		}
	}
	return f
}

// Size is a width/height pair used for shape checks.
type Size struct{ W, H int }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Sizer is implemented by every buffer in this package.
type Sizer interface {
	Size() Size
}

func (im Image) Size() Size { return Size{im.Width, im.Height} }
func (m Mask) Size() Size { return Size{m.Width, m.Height} }
func (n NormalMap) Size() Size { return Size{n.Width, n.Height} }
func (a AlbedoMap) Size() Size { return Size{a.Width, a.Height} }
func (d DotField) Size() Size { return Size{d.Width, d.Height} }
func (f Frame) Size() Size { return Size{f.Width, f.Height} }

// CheckShape returns ErrShapeMismatch when any operand differs from the first.
func CheckShape(first Sizer, rest ...Sizer) error {
	want := first.Size()
	for _, s := range rest {
		if got := s.Size(); got != want {
			return fmt.Errorf("%w: %s vs %s", ErrShapeMismatch, want, got)
		}
	}
	return nil
}
