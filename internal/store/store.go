// Package store persists reconstructions between the reconstruct and render
// steps: normals and albedo as gonum dense matrices, the mask as a PNG.
package store

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"

	"gradient-relighter/internal/frame"
	"gradient-relighter/internal/mask"

	"gonum.org/v1/gonum/mat"
)

// File names inside a results directory.
const (
	NormalsFile       = "normals.mat"
	AlbedoFile        = "albedo.mat"
	MaskFile          = "mask.png"
	NormalPreviewFile = "normal_map.png"
)

// SaveNormals writes normals as an H×3W matrix.
func SaveNormals(path string, n frame.NormalMap) error {
	if n.Width == 0 || n.Height == 0 {
		return fmt.Errorf("store: save %s: empty normal map", path)
	}
	return writeDense(path, mat.NewDense(n.Height, n.Width*3, n.Pix))
}

// LoadNormals reads a matrix written by SaveNormals.
func LoadNormals(path string) (frame.NormalMap, error) {
	d, err := readDense(path)
	if err != nil {
		return frame.NormalMap{}, err
	}
	r, c := d.Dims()
	if c%3 != 0 {
		return frame.NormalMap{}, fmt.Errorf("store: %s: %d columns is not a normal map", path, c)
	}
	n := frame.NewNormalMap(c/3, r)
	copyRows(n.Pix, d)
	return n, nil
}

// SaveAlbedo writes albedo as an H×W matrix.
func SaveAlbedo(path string, a frame.AlbedoMap) error {
	if a.Width == 0 || a.Height == 0 {
		return fmt.Errorf("store: save %s: empty albedo map", path)
	}
	return writeDense(path, mat.NewDense(a.Height, a.Width, a.Pix))
}

// LoadAlbedo reads a matrix written by SaveAlbedo.
func LoadAlbedo(path string) (frame.AlbedoMap, error) {
	d, err := readDense(path)
	if err != nil {
		return frame.AlbedoMap{}, err
	}
	r, c := d.Dims()
	a := frame.NewAlbedoMap(c, r)
	copyRows(a.Pix, d)
	return a, nil
}

// SaveMask writes m as an 8-bit grey PNG (0 or 255).
func SaveMask(path string, m frame.Mask) error {
	return writePNG(path, mask.Image(m))
}

// LoadMask reads a mask PNG at its native size.
func LoadMask(path string) (frame.Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return frame.Mask{}, fmt.Errorf("store: open %s: %w", path, err)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return frame.Mask{}, fmt.Errorf("store: decode %s: %w", path, err)
	}
	b := src.Bounds()
	return mask.FromImage(src, b.Dx(), b.Dy())
}

// SaveNormalPreview writes (n+1)/2 scaled to 8 bits, x/y/z as R/G/B.
func SaveNormalPreview(path string, n frame.NormalMap) error {
	img := image.NewNRGBA(image.Rect(0, 0, n.Width, n.Height))
	for i := 0; i < n.Width*n.Height; i++ {
		for c := 0; c < 3; c++ {
			v := (n.Pix[i*3+c] + 1) / 2 * 255
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			img.Pix[i*4+c] = uint8(v)
		}
		img.Pix[i*4+3] = 255
	}
	return writePNG(path, img)
}

func writeDense(path string, d *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := d.MarshalBinaryTo(w); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return f.Close()
}

func readDense(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	defer f.Close()

	var d mat.Dense
	if _, err := d.UnmarshalBinaryFrom(bufio.NewReader(f)); err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	return &d, nil
}

func copyRows(dst []float64, d *mat.Dense) {
	r, c := d.Dims()
	for i := 0; i < r; i++ {
		copy(dst[i*c:(i+1)*c], d.RawRowView(i))
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}
	return f.Close()
}
