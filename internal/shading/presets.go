package shading

import (
	"errors"
	"fmt"
	"sort"

	"gradient-relighter/internal/mathutil"
)

// ErrUnknownPreset is returned by Preset for names it does not know.
var ErrUnknownPreset = errors.New("shading: unknown preset")

var (
	// GoldColor is the metallic tint of the gold preset.
	GoldColor = mathutil.Vec3{1.00, 0.72, 0.06}
	// SilverColor is the metallic tint of the silver preset.
	SilverColor = mathutil.Vec3{0.972, 0.960, 0.915}
)

// Preset returns a named shading configuration.
func Preset(name string) (Config, error) {
	build, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownPreset, name, PresetNames())
	}
	return build(), nil
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var presets = map[string]func() Config{
	"default": DefaultConfig,
	"face": func() Config {
		c := DefaultConfig()
		c.Ks = 0.15
		c.Shininess = 96
		return c
	},
	"gold": func() Config {
		return metal(GoldColor)
	},
	"silver": func() Config {
		return metal(SilverColor)
	},
}

// metal is the low-diffuse, strong-specular look lit from below the camera.
func metal(color mathutil.Vec3) Config {
	c := DefaultConfig()
	c.Kd = 0.01
	c.Ks = 1.6
	c.Shininess = 64
	c.Ambient = 0.01
	c.Material = &color
	c.View = &mathutil.Vec3{0, -1, 0}
	return c
}
