// Package shading re-lights a reconstructed surface under a new light
// direction with a Blinn-Phong model driven by the photometric ratio between
// the new and the reference light response.
package shading

import (
	"encoding/json"

	"gradient-relighter/internal/mathutil"
)

// Config holds the shading coefficients and the tuned clamps of the model.
type Config struct {
	Gain      float64 `json:"gain" yaml:"gain"`
	Kd        float64 `json:"kd" yaml:"kd"`
	Ks        float64 `json:"ks" yaml:"ks"`
	Shininess float64 `json:"shininess" yaml:"shininess"`
	Ambient   float64 `json:"ambient" yaml:"ambient"` // metallic mode only

	// Material switches to the metallic branch when set.
	Material *mathutil.Vec3 `json:"material_color,omitempty" yaml:"material_color,omitempty"`
	// View defaults to the camera axis (0,0,1).
	View *mathutil.Vec3 `json:"view_dir,omitempty" yaml:"view_dir,omitempty"`

	RatioCap       float64 `json:"ratio_cap" yaml:"ratio_cap"`
	RefDotFloor    float64 `json:"ref_dot_floor" yaml:"ref_dot_floor"`
	IncidenceFloor float64 `json:"incidence_floor" yaml:"incidence_floor"`
	FacingBoost    float64 `json:"facing_boost" yaml:"facing_boost"`
}

// DefaultConfig returns the plain (non-metallic) shading defaults.
func DefaultConfig() Config {
	return Config{
		Gain:           1.0,
		Kd:             1.0,
		Ks:             0.2,
		Shininess:      32,
		Ambient:        0.0,
		RatioCap:       5.0,
		RefDotFloor:    0.05,
		IncidenceFloor: 1e-4,
		FacingBoost:    2.0,
	}
}

// plainConfig has Config's fields without its decoding methods.
type plainConfig Config

// UnmarshalJSON decodes over DefaultConfig, so omitted fields keep their
// defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	p := plainConfig(DefaultConfig())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON.
func (c *Config) UnmarshalYAML(unmarshal func(any) error) error {
	p := plainConfig(DefaultConfig())
	if err := unmarshal(&p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

// Metallic reports whether the metallic branch is active.
func (c Config) Metallic() bool {
	return c.Material != nil
}

// ViewDir returns the configured view direction or the camera axis.
func (c Config) ViewDir() mathutil.Vec3 {
	if c.View == nil {
		return mathutil.Vec3{0, 0, 1}
	}
	return *c.View
}
