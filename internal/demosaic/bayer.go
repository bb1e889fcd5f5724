// Package demosaic turns raw sensor captures into normalised float RGB images.
package demosaic

import (
	"fmt"

	"gradient-relighter/internal/frame"
)

// neighbours is the 8-connected ring around a site. Each colour a site lacks
// is the mean of the ring samples filtered with that colour.
var neighbours = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// Bilinear interpolates a single-channel Bayer mosaic into RGB.
// raw holds w*h samples; each is divided by maxVal. Borders are mirrored about
// the edge pixel.
func Bilinear(raw []uint16, w, h int, maxVal float64, p Pattern) (frame.Image, error) {
	if len(raw) != w*h {
		return frame.Image{}, fmt.Errorf("demosaic: %d samples for %dx%d", len(raw), w, h)
	}
	cells, err := p.channels()
	if err != nil {
		return frame.Image{}, err
	}

	// sample returns the value and filter colour at (x, y), mirroring
	// out-of-range coordinates about the edge pixel so parity survives.
	sample := func(x, y int) (float64, int) {
		x, y = reflect(x, w), reflect(y, h)
		return float64(raw[y*w+x]), cells[(y&1)*2+(x&1)]
	}

	img := frame.NewImage(w, h)
	inv := 1 / maxVal

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v, own := sample(x, y)
			var rgb [3]float64
			rgb[own] = v

			var sum [3]float64
			var cnt [3]int
			for _, d := range neighbours {
				nv, c := sample(x+d[0], y+d[1])
				sum[c] += nv
				cnt[c]++
			}
			for c := 0; c < 3; c++ {
				if c != own && cnt[c] > 0 {
					rgb[c] = sum[c] / float64(cnt[c])
				}
			}

			for c := 0; c < 3; c++ {
				img.Pix[(y*w+x)*3+c] = float32(rgb[c] * inv)
			}
		}
	}

	return img, nil
}

func reflect(i, n int) int {
	if i < 0 {
		i = -i
	}
	if i >= n {
		i = 2*(n-1) - i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
