package demosaic

import "fmt"

// Pattern names the colour filter at (0,0), (1,0), (0,1), (1,1) of each
// 2×2 sensor cell, reading the top row first.
type Pattern string

const (
	RGGB Pattern = "RGGB"
	BGGR Pattern = "BGGR"
	GRBG Pattern = "GRBG"
	GBRG Pattern = "GBRG"
)

// DefaultPattern matches OpenCV's BayerRG layout, which puts red at (1,1).
const DefaultPattern = BGGR

// channels returns the RGB channel index of each cell position, indexed by
// (y&1)*2 + (x&1).
func (p Pattern) channels() ([4]int, error) {
	if len(p) != 4 {
		return [4]int{}, fmt.Errorf("demosaic: bad pattern %q", p)
	}
	var out [4]int
	var seen [3]int
	for i, r := range p {
		switch r {
		case 'R':
			out[i] = 0
		case 'G':
			out[i] = 1
		case 'B':
			out[i] = 2
		default:
			return [4]int{}, fmt.Errorf("demosaic: bad pattern %q", p)
		}
		seen[out[i]]++
	}
	// Greens sit on one diagonal, red and blue on the other.
	diagonal := (out[0] == 1 && out[3] == 1) || (out[1] == 1 && out[2] == 1)
	if seen != [3]int{1, 2, 1} || !diagonal {
		return [4]int{}, fmt.Errorf("demosaic: bad pattern %q", p)
	}
	return out, nil
}
