package shading

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gradient-relighter/internal/frame"
	"gradient-relighter/internal/mathutil"
)

// flatScene builds a w×h surface with one normal and one reference colour.
func flatScene(w, h int, n mathutil.Vec3, rgb [3]float32, refDot float64) (frame.NormalMap, frame.Image, frame.DotField) {
	nm := frame.NewNormalMap(w, h)
	img := frame.NewImage(w, h)
	field := frame.NewDotField(w, h)
	for i := 0; i < w*h; i++ {
		copy(nm.Pix[i*3:i*3+3], n[:])
		copy(img.Pix[i*3:i*3+3], rgb[:])
		field.Pix[i] = refDot
	}
	return nm, img, field
}

func TestDiffuseRatio(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		dot    float64
		refDot float64
		want   float64
	}{
		{"equal response", 0.5, 0.5, 1},
		{"capped near-grazing reference", 1, 0.1, 5},
		{"reference floor", 0.04, -0.3, 0.8},
		{"incidence floor", -0.7, 0.5, 2e-4},
		{"dot above one", 1.5, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffuseRatio(tt.dot, tt.refDot, cfg)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestRender_RatioClamp(t *testing.T) {
	// Normal incidence under the new light, near-grazing reference: the ratio
	// 1/0.1 = 10 is capped at 5, so a 0.1 reference renders as 0.5.
	nm, ref, refDot := flatScene(1, 1, mathutil.Vec3{0, 0, 1}, [3]float32{0.1, 0.1, 0.1}, 0.1)
	cfg := DefaultConfig()
	cfg.Ks = 0

	f, err := Render(nm, ref, mathutil.Vec3{0, 0, 1}, refDot, frame.FullMask(1, 1), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for c := 0; c < 3; c++ {
		if f.Pix[c] != 127 {
			t.Errorf("channel %d: expected 127 (ratio 5), got %d", c, f.Pix[c])
		}
	}
}

func TestRender_UnitRatioReproducesReference(t *testing.T) {
	nm, ref, refDot := flatScene(2, 2, mathutil.Vec3{0, 0, 1}, [3]float32{0.25, 0.5, 0.75}, 1)
	cfg := DefaultConfig()
	cfg.Ks = 0

	f, err := Render(nm, ref, mathutil.Vec3{0, 0, 2}, refDot, frame.FullMask(2, 2), cfg)
	if err != nil {
		t.Fatal(err)
	}
	// |L| + 1e-6 normalisation leaves the response a hair under 1.
	want := [3]uint8{63, 127, 191}
	for i := 0; i < 4; i++ {
		for c := 0; c < 3; c++ {
			if f.Pix[i*3+c] != want[c] {
				t.Errorf("pixel %d channel %d: expected %d, got %d", i, c, want[c], f.Pix[i*3+c])
			}
		}
	}
}

func TestRender_SpecularHighlight(t *testing.T) {
	// Light and view both on +z: N·H = 1, so the specular term adds ks.
	nm, ref, refDot := flatScene(1, 1, mathutil.Vec3{0, 0, 1}, [3]float32{0, 0, 0}, 1)
	cfg := DefaultConfig()

	f, err := Render(nm, ref, mathutil.Vec3{0, 0, 1}, refDot, frame.FullMask(1, 1), cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := uint8(0.2 * 255)
	for c := 0; c < 3; c++ {
		if f.Pix[c] != want {
			t.Errorf("channel %d: expected %d, got %d", c, want, f.Pix[c])
		}
	}
}

func TestRender_MetallicBranch(t *testing.T) {
	gold := GoldColor
	cfg := DefaultConfig()
	cfg.Kd = 0
	cfg.Ks = 0.1
	cfg.Ambient = 0.1
	cfg.Shininess = 1
	cfg.Material = &gold

	nm, ref, refDot := flatScene(1, 1, mathutil.Vec3{0, 0, 1}, [3]float32{0.9, 0.9, 0.9}, 1)
	f, err := Render(nm, ref, mathutil.Vec3{0, 0, 1}, refDot, frame.FullMask(1, 1), cfg)
	if err != nil {
		t.Fatal(err)
	}

	// facing ≈ 1, boost ≈ 3: ambient 0.1·m + specular 0.1·m·3 = 0.4·m.
	for c := 0; c < 3; c++ {
		want := 0.4 * gold[c] * 255
		if math.Abs(float64(f.Pix[c])-want) > 1.01 {
			t.Errorf("channel %d: expected ~%.1f, got %d", c, want, f.Pix[c])
		}
	}
	if f.Pix[0] <= f.Pix[1] || f.Pix[1] <= f.Pix[2] {
		t.Errorf("expected gold tint ordering R > G > B, got %v", f.Pix[:3])
	}
}

func TestRender_MetallicIgnoresGain(t *testing.T) {
	nm, ref, refDot := flatScene(1, 1, mathutil.Vec3{0, 0, 1}, [3]float32{0.3, 0.3, 0.3}, 1)
	base, _ := Preset("gold")
	boosted := base
	boosted.Gain = 3

	a, err := Render(nm, ref, mathutil.Vec3{0, 1, 0}, refDot, frame.FullMask(1, 1), base)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(nm, ref, mathutil.Vec3{0, 1, 0}, refDot, frame.FullMask(1, 1), boosted)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("gain changed metallic output: %v vs %v", a.Pix, b.Pix)
		}
	}
}

func randomScene(rng *rand.Rand, w, h int) (frame.NormalMap, frame.Image, frame.DotField, frame.Mask) {
	nm := frame.NewNormalMap(w, h)
	img := frame.NewImage(w, h)
	field := frame.NewDotField(w, h)
	mask := frame.NewMask(w, h)
	for i := 0; i < w*h; i++ {
		n := mathutil.Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}.Normalize()
		copy(nm.Pix[i*3:i*3+3], n[:])
		for c := 0; c < 3; c++ {
			img.Pix[i*3+c] = float32(rng.Float64() * 1.2)
		}
		field.Pix[i] = rng.Float64()*2 - 1
		if rng.Intn(4) != 0 {
			mask.Pix[i] = 1
		}
	}
	return nm, img, field, mask
}

func TestRender_RangeAndMasking(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nm, ref, refDot, mask := randomScene(rng, 8, 6)

	for _, name := range PresetNames() {
		cfg, err := Preset(name)
		if err != nil {
			t.Fatal(err)
		}
		cfg.Gain = 4
		for k := 0; k < 5; k++ {
			dir := mathutil.Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
			f, err := Render(nm, ref, dir, refDot, mask, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if len(f.Pix) != 8*6*3 {
				t.Fatalf("%s: unexpected frame size %d", name, len(f.Pix))
			}
			for i, m := range mask.Pix {
				if m == 0 && (f.Pix[i*3] != 0 || f.Pix[i*3+1] != 0 || f.Pix[i*3+2] != 0) {
					t.Errorf("%s: pixel %d outside mask is not black", name, i)
				}
			}
		}
	}
}

func TestRender_EmptyMaskIsBlack(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	nm, ref, refDot, _ := randomScene(rng, 5, 5)
	for _, name := range PresetNames() {
		cfg, _ := Preset(name)
		f, err := Render(nm, ref, mathutil.Vec3{0, 1, 1}, refDot, frame.NewMask(5, 5), cfg)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range f.Pix {
			if v != 0 {
				t.Fatalf("%s: byte %d = %d, expected 0", name, i, v)
			}
		}
	}
}

func TestRender_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	nm, ref, refDot, mask := randomScene(rng, 7, 4)
	cfg, _ := Preset("silver")
	dir := mathutil.Vec3{0.2, 0.7, 0.4}

	a, err := Render(nm, ref, dir, refDot, mask, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(nm, ref, dir, refDot, mask, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("byte %d differs between identical calls", i)
		}
	}
}

func TestRender_OpposedLightAndView(t *testing.T) {
	// L = -V makes the half-vector degenerate; the specular term must vanish
	// instead of producing NaN.
	nm, ref, refDot := flatScene(1, 1, mathutil.Vec3{0, 0, -1}, [3]float32{0, 0, 0}, 1)
	f, err := Render(nm, ref, mathutil.Vec3{0, 0, -1}, refDot, frame.FullMask(1, 1), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for c := 0; c < 3; c++ {
		if f.Pix[c] != 0 {
			t.Errorf("channel %d: expected 0, got %d", c, f.Pix[c])
		}
	}
}

func TestRender_ShapeMismatch(t *testing.T) {
	nm, ref, refDot := flatScene(2, 2, mathutil.Vec3{0, 0, 1}, [3]float32{}, 1)
	_, err := Render(nm, ref, mathutil.Vec3{0, 0, 1}, refDot, frame.FullMask(3, 2), DefaultConfig())
	if !errors.Is(err, frame.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestPreset(t *testing.T) {
	face, err := Preset("face")
	if err != nil {
		t.Fatal(err)
	}
	if face.Ks != 0.15 || face.Shininess != 96 || face.Metallic() {
		t.Errorf("unexpected face preset %+v", face)
	}

	gold, err := Preset("gold")
	if err != nil {
		t.Fatal(err)
	}
	if !gold.Metallic() || *gold.Material != GoldColor || gold.ViewDir() != (mathutil.Vec3{0, -1, 0}) {
		t.Errorf("unexpected gold preset %+v", gold)
	}

	// Presets hand out independent copies.
	gold.Material[0] = 0
	again, _ := Preset("gold")
	if again.Material[0] != GoldColor[0] {
		t.Error("preset material shared between calls")
	}

	if _, err := Preset("chrome"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestRender_RatioFollowsRawIncidence(t *testing.T) {
	nm, ref, refDot := flatScene(1, 1, mathutil.Vec3{0, 0, 1}, [3]float32{0.2, 0.2, 0.2}, 0.1)
	cfg := DefaultConfig()
	cfg.Ks = 0

	for _, deg := range []float64{0, 30, 60, 89, 95, 150, 180} {
		phi := deg * math.Pi / 180
		dir := mathutil.Vec3{0, math.Sin(phi), math.Cos(phi)}
		f, err := Render(nm, ref, dir, refDot, frame.FullMask(1, 1), cfg)
		if err != nil {
			t.Fatal(err)
		}
		raw := mathutil.Vec3{0, 0, 1}.Dot(dir.NormalizeEps(dirEpsilon))
		want := quantize(float64(float32(0.2)) * DiffuseRatio(raw, 0.1, cfg))
		if f.Pix[0] != want {
			t.Errorf("%v°: expected %d, got %d", deg, want, f.Pix[0])
		}
	}
}
