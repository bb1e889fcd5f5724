// Package imageio decodes capture and mask files by extension.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Decode decodes data using the decoder named by path's extension.
// image.Decode is never used: tga registers an empty magic string that
// claims every input once the package is linked.
func Decode(path string, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".tif", ".tiff":
		return tiff.Decode(r)
	case ".webp":
		return webp.Decode(r)
	case ".tga":
		return tga.Decode(r)
	default:
		return nil, fmt.Errorf("imageio: unsupported extension %q", ext)
	}
}

// ReadFile reads and decodes the image at path.
func ReadFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: read %s: %w", path, err)
	}
	img, err := Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, nil
}
