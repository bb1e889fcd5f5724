package batch

import (
	"encoding/json"
	"os"

	"gradient-relighter/internal/mathutil"
	"gradient-relighter/internal/shading"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index     int           `json:"index"`
	Direction mathutil.Vec3 `json:"light_dir"`
	Image     string        `json:"image,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Manifest describes one relighting sweep.
type Manifest struct {
	Preset       string          `json:"preset"`
	Shading      shading.Config  `json:"shading"`
	RefLightDir  mathutil.Vec3   `json:"ref_light_dir"`
	Turns        int             `json:"turns"`
	Animation    string          `json:"animation,omitempty"`
	FrameDelayMS int             `json:"frame_delay_ms"`
	Frames       []ManifestEntry `json:"frames"`
}

// NewManifest lists results in frame order.
func NewManifest(results []Result) Manifest {
	m := Manifest{Frames: make([]ManifestEntry, len(results))}
	for i, r := range results {
		m.Frames[i] = ManifestEntry{
			Index:     r.Index,
			Direction: r.Direction,
			Image:     r.File,
			Error:     r.Error,
		}
	}
	return m
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
