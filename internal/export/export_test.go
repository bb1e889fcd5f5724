package export

import (
	"image"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gradient-relighter/internal/frame"
)

func solidFrame(w, h int, rgb [3]uint8) frame.Frame {
	f := frame.NewFrame(w, h)
	for i := 0; i < w*h; i++ {
		copy(f.Pix[i*3:i*3+3], rgb[:])
	}
	return f
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame_000.png")
	if err := WritePNG(path, solidFrame(3, 2, [3]uint8{10, 20, 30})); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	got := frame.FrameFromImage(img)
	if got.Pix[0] != 10 || got.Pix[1] != 20 || got.Pix[2] != 30 {
		t.Errorf("unexpected pixel %v", got.Pix[:3])
	}
}

func TestWriteWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame_000.webp")
	if err := WriteWebP(path, solidFrame(4, 4, [3]uint8{200, 100, 0})); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty WebP file")
	}
}

func TestWriteGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relight.gif")
	frames := []frame.Frame{
		solidFrame(4, 3, [3]uint8{0, 0, 0}),
		solidFrame(4, 3, [3]uint8{255, 255, 255}),
		solidFrame(4, 3, [3]uint8{255, 0, 0}),
	}
	if err := WriteGIF(path, frames, 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(anim.Image))
	}
	for i, d := range anim.Delay {
		if d != 5 {
			t.Errorf("frame %d: expected delay 5, got %d", i, d)
		}
	}
	r, g, b, _ := anim.Image[1].At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("expected white second frame, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	if err := WriteGIF(path, nil, 0); err == nil {
		t.Error("expected error for empty frame list")
	}
}

func TestUniformDelays(t *testing.T) {
	tests := []struct {
		delay time.Duration
		want  int
	}{
		{0, 5},
		{50 * time.Millisecond, 5},
		{100 * time.Millisecond, 10},
		{time.Millisecond, 1},
		{34 * time.Millisecond, 3},
	}
	for _, tt := range tests {
		if got := uniformDelays(2, tt.delay); got[0] != tt.want || got[1] != tt.want {
			t.Errorf("delay %v: expected %d, got %v", tt.delay, tt.want, got)
		}
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"landscape", 1000, 500, 500, 500, 250},
		{"portrait", 300, 900, 450, 150, 450},
		{"already small", 40, 30, 500, 40, 30},
		{"no limit", 40, 30, 0, 40, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := FitWithin(src, tt.max)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("expected %dx%d, got %v", tt.wantW, tt.wantH, got.Bounds())
			}
		})
	}
}

func TestResizeDir(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	if err := WritePNG(filepath.Join(in, "still.png"), solidFrame(200, 100, [3]uint8{1, 2, 3})); err != nil {
		t.Fatal(err)
	}
	frames := []frame.Frame{solidFrame(120, 60, [3]uint8{}), solidFrame(120, 60, [3]uint8{255, 255, 255})}
	if err := WriteGIF(filepath.Join(in, "anim.gif"), frames, 100*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}

	written, err := ResizeDir(in, out, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 || written[0] != "anim.gif" || written[1] != "still.png" {
		t.Fatalf("unexpected outputs %v", written)
	}

	f, err := os.Open(filepath.Join(out, "still.png"))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(f)
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("expected 50x25 PNG, got %dx%d", cfg.Width, cfg.Height)
	}

	g, err := os.Open(filepath.Join(out, "anim.gif"))
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	anim, err := gif.DecodeAll(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 2 || anim.Delay[0] != 10 {
		t.Errorf("expected 2 frames at delay 10, got %d frames delays %v", len(anim.Image), anim.Delay)
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("expected 50x25 GIF frames, got %v", b)
	}
}
