package photometry

import (
	"fmt"
	"slices"

	"gradient-relighter/internal/frame"
)

// MatchExposure scales img1 so that its median matches img2's median and
// clamps the result into [0,1]. It returns the corrected image and the
// applied scale.
func MatchExposure(img1, img2 frame.Image) (frame.Image, float64, error) {
	if err := frame.CheckShape(img1, img2); err != nil {
		return frame.Image{}, 0, fmt.Errorf("photometry: match exposure: %w", err)
	}

	scale := median(img2.Pix) / (median(img1.Pix) + SumEpsilon)

	out := frame.NewImage(img1.Width, img1.Height)
	for i, v := range img1.Pix {
		s := float64(v) * scale
		if s < 0 {
			s = 0
		} else if s > 1 {
			s = 1
		}
		out.Pix[i] = float32(s)
	}
	return out, scale, nil
}

// median averages the two middle values for even-length input.
func median(pix []float32) float64 {
	if len(pix) == 0 {
		return 0
	}
	sorted := slices.Clone(pix)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}
