package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gradient-relighter/internal/demosaic"
	"gradient-relighter/internal/shading"

	"gopkg.in/yaml.v2"
)

// Config holds all configurable paths and relighting settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir" yaml:"base_dir"`
	Gradient1  string `json:"gradient1" yaml:"gradient1"`
	Gradient2  string `json:"gradient2" yaml:"gradient2"`
	Reference  string `json:"reference" yaml:"reference"`
	Mask       string `json:"mask" yaml:"mask"` // segmentation image
	ResultsDir string `json:"results_dir" yaml:"results_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`

	// Reconstruction settings
	Pattern        string  `json:"bayer_pattern" yaml:"bayer_pattern"`
	SkipAlign      bool    `json:"skip_align" yaml:"skip_align"`
	MatchExposure  bool    `json:"match_exposure" yaml:"match_exposure"`
	MinIslandRatio float64 `json:"min_island_ratio" yaml:"min_island_ratio"`

	// Render settings
	Frames       int             `json:"frames" yaml:"frames"`
	Turns        *int            `json:"turns,omitempty" yaml:"turns,omitempty"` // nil means 2; 0 holds the light still
	Preset       string          `json:"preset" yaml:"preset"`
	Shading      *shading.Config `json:"shading,omitempty" yaml:"shading,omitempty"`
	FrameDelayMS int             `json:"frame_delay_ms" yaml:"frame_delay_ms"`
	WebP         bool            `json:"webp" yaml:"webp"`
	Workers      int             `json:"workers" yaml:"workers"`
}

// Load reads a JSON or YAML config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Preset != "" {
		c.Preset = flags.Preset
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Turns != nil {
		turns := *flags.Turns
		c.Turns = &turns
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.WebP {
		c.WebP = true
	}

	// Defaults for render settings
	if c.Preset == "" {
		c.Preset = "face"
	}
	if c.Frames <= 0 {
		c.Frames = 60
	}
	if c.Turns == nil {
		turns := 2
		c.Turns = &turns
	}
	if c.FrameDelayMS <= 0 {
		c.FrameDelayMS = 50
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Pattern == "" {
		c.Pattern = string(demosaic.DefaultPattern)
	}
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.ResultsDir, "relight_"+c.Preset)
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		for _, p := range []*string{&c.Gradient1, &c.Gradient2, &c.Reference, &c.Mask, &c.ResultsDir, &c.OutputDir} {
			if *p != "" && !filepath.IsAbs(*p) {
				*p = filepath.Join(c.BaseDir, *p)
			}
		}
	}
}

// ShadingConfig returns the explicit shading block, or the named preset.
// Fields omitted from an explicit block hold shading.DefaultConfig values.
func (c Config) ShadingConfig() (shading.Config, error) {
	if c.Shading == nil {
		return shading.Preset(c.Preset)
	}
	return *c.Shading, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir   string
	OutputDir string
	Preset    string
	Frames    int
	Turns     *int // nil leaves the config value
	Workers   int
	WebP      bool
}
