package light

import (
	"errors"
	"fmt"
	"math"

	"gradient-relighter/internal/mathutil"
)

// ErrTooFewFrames is returned for paths shorter than two frames.
var ErrTooFewFrames = errors.New("light: path needs at least 2 frames")

// Path is an equatorial light sweep in the Y-Z plane. Frame i sits at
// phi = 2π·turns·i/(frames-1), direction (0, sin phi, cos phi).
// The zero value is not usable; build one with NewPath.
type Path struct {
	frames int
	turns  int
}

// NewPath validates the parameters of an equatorial sweep.
func NewPath(frames, turns int) (Path, error) {
	if frames < 2 {
		return Path{}, fmt.Errorf("%w: got %d", ErrTooFewFrames, frames)
	}
	return Path{frames: frames, turns: turns}, nil
}

// Len returns the number of frames.
func (p Path) Len() int { return p.frames }

// Turns returns the number of full revolutions.
func (p Path) Turns() int { return p.turns }

// Phase returns the azimuth of frame i in radians.
func (p Path) Phase(i int) float64 {
	t := float64(i) / float64(p.frames-1)
	return 2 * math.Pi * float64(p.turns) * t
}

// At returns the unit light direction of frame i.
func (p Path) At(i int) mathutil.Vec3 {
	phi := p.Phase(i)
	return mathutil.Vec3{0, math.Sin(phi), math.Cos(phi)}
}

// Directions materialises the whole path.
func (p Path) Directions() []mathutil.Vec3 {
	dirs := make([]mathutil.Vec3, p.frames)
	for i := range dirs {
		dirs[i] = p.At(i)
	}
	return dirs
}

// EquatorialPath returns the light directions of an n-frame, turns-revolution sweep.
func EquatorialPath(frames, turns int) ([]mathutil.Vec3, error) {
	p, err := NewPath(frames, turns)
	if err != nil {
		return nil, err
	}
	return p.Directions(), nil
}
