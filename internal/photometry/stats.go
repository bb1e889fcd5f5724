package photometry

import (
	"gradient-relighter/internal/frame"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises a reconstruction for logging.
type Stats struct {
	NormalMean [3]float64 // per axis, over every pixel
	NormalMin  float64
	NormalMax  float64
	AlbedoMin  float64
	AlbedoMax  float64
}

// Summarize computes Stats over the whole map, masked-out pixels included.
func Summarize(normals frame.NormalMap, albedo frame.AlbedoMap) Stats {
	var s Stats
	if len(normals.Pix) > 0 {
		n := len(normals.Pix) / 3
		axis := make([]float64, n)
		for a := 0; a < 3; a++ {
			for i := 0; i < n; i++ {
				axis[i] = normals.Pix[i*3+a]
			}
			s.NormalMean[a] = stat.Mean(axis, nil)
		}
		s.NormalMin = floats.Min(normals.Pix)
		s.NormalMax = floats.Max(normals.Pix)
	}
	if len(albedo.Pix) > 0 {
		s.AlbedoMin = floats.Min(albedo.Pix)
		s.AlbedoMax = floats.Max(albedo.Pix)
	}
	return s
}
