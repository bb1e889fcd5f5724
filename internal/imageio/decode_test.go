package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/tiff"
)

func TestDecode_ByExtension(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = 200
	}

	encoders := map[string]func(*bytes.Buffer) error{
		"a.png":  func(b *bytes.Buffer) error { return png.Encode(b, src) },
		"b.JPG":  func(b *bytes.Buffer) error { return jpeg.Encode(b, src, nil) },
		"c.tiff": func(b *bytes.Buffer) error { return tiff.Encode(b, src, nil) },
		"d.tga":  func(b *bytes.Buffer) error { return tga.Encode(b, src) },
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := enc(&buf); err != nil {
				t.Fatal(err)
			}
			img, err := Decode(name, buf.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
				t.Errorf("unexpected bounds %v", img.Bounds())
			}
		})
	}
}

// The tga decoder is linked into this package; PNG must still go to png.
func TestReadFile_PNGWithTGALinked(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(1, 2, color.Gray{Y: 255})
	path := filepath.Join(t.TempDir(), "mask.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	img, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	g, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray, got %T", img)
	}
	if g.GrayAt(1, 2).Y != 255 || g.GrayAt(0, 0).Y != 0 {
		t.Error("pixel values not preserved")
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode("x.bmp", nil); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := Decode("x.png", []byte("not a png")); err == nil {
		t.Error("expected error for corrupt data")
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
