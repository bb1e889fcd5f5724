// Package photometry recovers per-pixel normals and albedo from a pair of
// gradient-illuminated images.
package photometry

import (
	"fmt"
	"math"

	"gradient-relighter/internal/frame"
)

// SumEpsilon keeps the normalised difference finite where both images are dark.
const SumEpsilon = 1e-6

// albedoScale is the 2/3 factor applied to the gradient difference vector.
const albedoScale = 2.0 / 3.0

// Axes selects which image channel drives each axis of the two derived vectors.
type Axes struct {
	Normal frame.ChannelToAxisMap
	Albedo frame.ChannelToAxisMap
}

// DefaultAxes uses channel order for the normal candidate and the BGR
// ordering for the albedo gradient vector.
var DefaultAxes = Axes{Normal: frame.RGBAxes, Albedo: frame.BGRAxes}

// Estimate computes the normal and albedo maps of a gradient pair under mask.
// img2 must already be registered onto img1's pixel grid.
func Estimate(img1, img2 frame.Image, mask frame.Mask) (frame.NormalMap, frame.AlbedoMap, error) {
	return EstimateWithAxes(img1, img2, mask, DefaultAxes)
}

// EstimateWithAxes is Estimate with an explicit channel-to-axis convention.
func EstimateWithAxes(img1, img2 frame.Image, mask frame.Mask, axes Axes) (frame.NormalMap, frame.AlbedoMap, error) {
	if err := frame.CheckShape(img1, img2, mask); err != nil {
		return frame.NormalMap{}, frame.AlbedoMap{}, fmt.Errorf("photometry: estimate: %w", err)
	}
	if !axes.Normal.Valid() || !axes.Albedo.Valid() {
		return frame.NormalMap{}, frame.AlbedoMap{}, fmt.Errorf("photometry: invalid axis map %v", axes)
	}

	w, h := img1.Width, img1.Height
	normals := frame.NewNormalMap(w, h)
	albedo := frame.NewAlbedoMap(w, h)

	for i := 0; i < w*h; i++ {
		m := float64(mask.Pix[i])

		var a, b [3]float64
		for c := 0; c < 3; c++ {
			a[c] = float64(img1.Pix[i*3+c]) * m
			b[c] = float64(img2.Pix[i*3+c]) * m
		}

		var n, g [3]float64
		for axis := 0; axis < 3; axis++ {
			c := axes.Normal[axis]
			n[axis] = (a[c] - b[c]) / (a[c] + b[c] + SumEpsilon)

			c = axes.Albedo[axis]
			g[axis] = albedoScale * (a[c] - b[c])
		}

		l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if l == 0 {
			l = 1
		}
		normals.Pix[i*3] = n[0] / l
		normals.Pix[i*3+1] = n[1] / l
		normals.Pix[i*3+2] = n[2] / l

		albedo.Pix[i] = math.Sqrt(g[0]*g[0] + g[1]*g[1] + g[2]*g[2])
	}

	return normals, albedo, nil
}
