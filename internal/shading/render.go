package shading

import (
	"fmt"
	"math"

	"gradient-relighter/internal/frame"
	"gradient-relighter/internal/mathutil"
)

// dirEpsilon guards the light and view normalisation.
const dirEpsilon = 1e-6

// shader holds the per-frame constants of one render call.
type shader struct {
	cfg      Config
	light    mathutil.Vec3
	half     mathutil.Vec3 // Blinn-Phong half-vector
	material mathutil.Vec3
}

func newShader(lightDir mathutil.Vec3, cfg Config) shader {
	light := lightDir.NormalizeEps(dirEpsilon)
	view := cfg.ViewDir().NormalizeEps(dirEpsilon)
	s := shader{
		cfg:   cfg,
		light: light,
		half:  light.Add(view).Normalize(),
	}
	if cfg.Material != nil {
		s.material = *cfg.Material
	}
	return s
}

// incidence clamps a raw N·L to [IncidenceFloor, 1].
func incidence(dot float64, cfg Config) float64 {
	return mathutil.Clamp(dot, cfg.IncidenceFloor, 1.0)
}

// DiffuseRatio is the new-to-reference light response ratio for one pixel.
// dot is the raw N·L of the new light and refDot the reference N·L.
func DiffuseRatio(dot, refDot float64, cfg Config) float64 {
	return ratioOf(incidence(dot, cfg), refDot, cfg)
}

func ratioOf(incident, refDot float64, cfg Config) float64 {
	return mathutil.Clamp(incident/math.Max(refDot, cfg.RefDotFloor), 0, cfg.RatioCap)
}

// shade returns the unclamped linear colour of one pixel.
func (s *shader) shade(n, ref mathutil.Vec3, refDot float64) mathutil.Vec3 {
	cfg := &s.cfg

	dot := incidence(n.Dot(s.light), *cfg)
	ratio := ratioOf(dot, refDot, *cfg)

	spec := math.Pow(mathutil.Clamp(n.Dot(s.half), 0, 1), cfg.Shininess)

	if !cfg.Metallic() {
		diffuse := ref.Scale(cfg.Kd * ratio * cfg.Gain)
		return diffuse.Add(mathutil.Vec3{cfg.Ks * spec, cfg.Ks * spec, cfg.Ks * spec})
	}

	boost := 1 + cfg.FacingBoost*dot
	specular := s.material.Scale(cfg.Ks * spec * boost)
	ambient := s.material.Scale(cfg.Ambient)
	diffuse := ref.Scale(cfg.Kd * ratio)
	return ambient.Add(diffuse).Add(specular)
}

// Render shades every pixel of normals under lightDir, scaling the observed
// reference colour by the ratio of the new light response to refDot. Pixels
// outside mask are black. Render has no side effects.
func Render(normals frame.NormalMap, ref frame.Image, lightDir mathutil.Vec3, refDot frame.DotField, mask frame.Mask, cfg Config) (frame.Frame, error) {
	if err := frame.CheckShape(normals, ref, refDot, mask); err != nil {
		return frame.Frame{}, fmt.Errorf("shading: render: %w", err)
	}

	s := newShader(lightDir, cfg)
	out := frame.NewFrame(normals.Width, normals.Height)

	for i, m := range mask.Pix {
		if m == 0 {
			continue
		}
		n := mathutil.Vec3{normals.Pix[i*3], normals.Pix[i*3+1], normals.Pix[i*3+2]}
		r := mathutil.Vec3{float64(ref.Pix[i*3]), float64(ref.Pix[i*3+1]), float64(ref.Pix[i*3+2])}

		c := s.shade(n, r, refDot.Pix[i]).Scale(float64(m))
		out.Pix[i*3] = quantize(c[0])
		out.Pix[i*3+1] = quantize(c[1])
		out.Pix[i*3+2] = quantize(c[2])
	}

	return out, nil
}

// quantize maps [0,1] to [0,255], truncating like a float-to-uint8 cast.
func quantize(v float64) uint8 {
	v *= 255
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
