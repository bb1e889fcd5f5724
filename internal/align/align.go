// Package align registers one capture onto another's pixel grid.
package align

import "gradient-relighter/internal/frame"

// Aligner warps target into ref's pixel grid. When registration fails it
// returns target unchanged.
type Aligner interface {
	Align(ref, target frame.Image) frame.Image
}

// Identity leaves the target where it is.
type Identity struct{}

// Align returns a copy of target.
func (Identity) Align(_, target frame.Image) frame.Image {
	return target.Clone()
}
