package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"gradient-relighter/internal/batch"
	"gradient-relighter/internal/export"
	"gradient-relighter/internal/frame"
	"gradient-relighter/internal/light"
	"gradient-relighter/internal/mathutil"
	"gradient-relighter/internal/shading"
)

// RelightInputs is a stored reconstruction plus the reference capture whose
// lighting the sweep starts from.
type RelightInputs struct {
	Reconstruction
	Reference frame.Image
}

// RelightOptions configures one light sweep.
type RelightOptions struct {
	Preset     string // recorded in the manifest and animation name
	Shading    shading.Config
	Frames     int
	Turns      int
	OutputDir  string // empty renders in memory only
	Workers    int
	WebP       bool
	FrameDelay time.Duration
	Progress   io.Writer
}

// RelightResult is the outcome of a sweep.
type RelightResult struct {
	RefLightDir mathutil.Vec3
	Results     []batch.Result
	Animation   string // path of the GIF, when written
	Manifest    string
}

// Relight estimates the reference light, then renders one frame per
// direction of an equatorial path and assembles the successful frames, in
// order, into an animation.
func Relight(ctx context.Context, in RelightInputs, opts RelightOptions) (RelightResult, error) {
	refDir, err := light.EstimateDirection(in.Normals, in.Reference, in.Mask)
	if err != nil {
		return RelightResult{}, fmt.Errorf("pipeline: %w", err)
	}
	refDot := light.DotField(in.Normals, refDir)

	dirs, err := light.EquatorialPath(opts.Frames, opts.Turns)
	if err != nil {
		return RelightResult{}, fmt.Errorf("pipeline: %w", err)
	}

	job := batch.Job{
		Normals:    in.Normals,
		Reference:  in.Reference,
		RefDot:     refDot,
		Mask:       in.Mask,
		Shading:    opts.Shading,
		Directions: dirs,
	}
	results, err := batch.Run(ctx, job, batch.Options{
		OutputDir: opts.OutputDir,
		Workers:   opts.Workers,
		WebP:      opts.WebP,
		Progress:  opts.Progress,
	})
	out := RelightResult{RefLightDir: refDir, Results: results}
	if err != nil {
		return out, err
	}
	if opts.OutputDir == "" {
		return out, nil
	}

	delay := opts.FrameDelay
	if delay <= 0 {
		delay = export.DefaultFrameDelay
	}

	name := "relight.gif"
	if opts.Preset != "" {
		name = "relight_" + opts.Preset + ".gif"
	}
	if frames := batch.Frames(results); len(frames) > 0 {
		out.Animation = filepath.Join(opts.OutputDir, name)
		if err := export.WriteGIF(out.Animation, frames, delay); err != nil {
			return out, err
		}
	}

	m := batch.NewManifest(results)
	m.Preset = opts.Preset
	m.Shading = opts.Shading
	m.RefLightDir = refDir
	m.Turns = opts.Turns
	m.FrameDelayMS = int(delay / time.Millisecond)
	if out.Animation != "" {
		m.Animation = name
	}
	out.Manifest = filepath.Join(opts.OutputDir, "manifest.json")
	if err := batch.WriteManifest(out.Manifest, m); err != nil {
		return out, fmt.Errorf("pipeline: manifest: %w", err)
	}
	return out, nil
}
