package main

import (
	"fmt"
	"os"
	"time"

	"gradient-relighter/internal/config"
	"gradient-relighter/internal/demosaic"
	"gradient-relighter/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	renderFlags     config.Flags
	renderReference string
	renderResults   string
	renderTurns     int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Relight a stored reconstruction along an equatorial light path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if renderReference != "" {
			cfg.Reference = renderReference
		}
		if renderResults != "" {
			cfg.ResultsDir = renderResults
		}
		flags := renderFlags
		flags.BaseDir = baseDir
		if cmd.Flags().Changed("turns") {
			flags.Turns = &renderTurns
		}
		cfg.Resolve(flags)

		return runRender(cmd, cfg)
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderReference, "reference", "", "Reference capture (default: gradient1 from config)")
	f.StringVar(&renderResults, "results", "", "Directory written by reconstruct (default: results)")
	f.StringVarP(&renderFlags.OutputDir, "output", "o", "", "Output directory (default: <results>/relight_<preset>)")
	f.StringVarP(&renderFlags.Preset, "preset", "p", "", "Shading preset: default, face, gold, silver (default: face)")
	f.IntVarP(&renderFlags.Frames, "frames", "n", 0, "Number of frames (default: 60)")
	f.IntVar(&renderTurns, "turns", 2, "Revolutions of the light, 0 for a static light")
	f.IntVarP(&renderFlags.Workers, "workers", "w", 0, "Number of worker goroutines (default: NumCPU)")
	f.BoolVar(&renderFlags.WebP, "webp", false, "Also write lossless WebP frames")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, cfg config.Config) error {
	ref := cfg.Reference
	if ref == "" {
		ref = cfg.Gradient1
	}
	if ref == "" {
		return fmt.Errorf("reference image is required (--reference or config)")
	}

	shade, err := cfg.ShadingConfig()
	if err != nil {
		return err
	}

	r, err := pipeline.LoadReconstruction(cfg.ResultsDir)
	if err != nil {
		return err
	}
	refImg, err := demosaic.LoadPattern(ref, demosaic.Pattern(cfg.Pattern))
	if err != nil {
		return err
	}

	fmt.Printf("Relighting %s (%s) with preset %q\n", cfg.ResultsDir, r.Normals.Size(), cfg.Preset)
	fmt.Printf("Frames: %d, Turns: %d, Workers: %d\n", cfg.Frames, *cfg.Turns, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	printRule()

	start := time.Now()
	res, err := pipeline.Relight(cmd.Context(), pipeline.RelightInputs{Reconstruction: r, Reference: refImg}, pipeline.RelightOptions{
		Preset:     cfg.Preset,
		Shading:    shade,
		Frames:     cfg.Frames,
		Turns:      *cfg.Turns,
		OutputDir:  cfg.OutputDir,
		Workers:    cfg.Workers,
		WebP:       cfg.WebP,
		FrameDelay: time.Duration(cfg.FrameDelayMS) * time.Millisecond,
		Progress:   os.Stderr,
	})
	if res.Results == nil && err != nil {
		return err
	}

	d := res.RefLightDir
	fmt.Printf("Reference light: (%.3f, %.3f, %.3f)\n", d[0], d[1], d[2])
	printRule()
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	success, failed := 0, 0
	var failures []string
	for _, fr := range res.Results {
		if fr.Success {
			success++
		} else {
			failed++
			failures = append(failures, fmt.Sprintf("  frame %d: %s", fr.Index, fr.Error))
		}
	}
	fmt.Printf("Rendered: %d/%d\n", success, len(res.Results))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(failures) < limit {
			limit = len(failures)
		}
		for _, f := range failures[:limit] {
			fmt.Println(f)
		}
	}
	if res.Animation != "" {
		fmt.Printf("Animation: %s\n", res.Animation)
	}
	if res.Manifest != "" {
		fmt.Printf("Manifest: %s\n", res.Manifest)
	}

	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d frames failed", failed)
	}
	return nil
}
