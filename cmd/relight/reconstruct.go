package main

import (
	"fmt"
	"time"

	"gradient-relighter/internal/align"
	"gradient-relighter/internal/align/orb"
	"gradient-relighter/internal/config"
	"gradient-relighter/internal/demosaic"
	"gradient-relighter/internal/pipeline"

	"github.com/spf13/cobra"
)

var reconstructOpts struct {
	gradient1, gradient2 string
	mask                 string
	results              string
	pattern              string
	skipAlign            bool
	matchExposure        bool
	minIslandRatio       float64
}

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct",
	Short: "Estimate normals and albedo from a gradient pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		o := reconstructOpts
		for _, s := range []struct {
			flag string
			dst  *string
			val  string
		}{
			{"g1", &cfg.Gradient1, o.gradient1},
			{"g2", &cfg.Gradient2, o.gradient2},
			{"mask", &cfg.Mask, o.mask},
			{"results", &cfg.ResultsDir, o.results},
			{"pattern", &cfg.Pattern, o.pattern},
		} {
			if cmd.Flags().Changed(s.flag) {
				*s.dst = s.val
			}
		}
		if cmd.Flags().Changed("skip-align") {
			cfg.SkipAlign = o.skipAlign
		}
		if cmd.Flags().Changed("match-exposure") {
			cfg.MatchExposure = o.matchExposure
		}
		if cmd.Flags().Changed("min-island") {
			cfg.MinIslandRatio = o.minIslandRatio
		}
		cfg.Resolve(config.Flags{BaseDir: baseDir})

		return runReconstruct(cmd, cfg)
	},
}

func init() {
	f := reconstructCmd.Flags()
	f.StringVar(&reconstructOpts.gradient1, "g1", "", "First gradient capture")
	f.StringVar(&reconstructOpts.gradient2, "g2", "", "Second (complementary) gradient capture")
	f.StringVar(&reconstructOpts.mask, "mask", "", "Segmentation image")
	f.StringVar(&reconstructOpts.results, "results", "", "Results directory (default: results)")
	f.StringVar(&reconstructOpts.pattern, "pattern", "", "Bayer layout of single-channel captures (default: BGGR)")
	f.BoolVar(&reconstructOpts.skipAlign, "skip-align", false, "Assume the captures are already registered")
	f.BoolVar(&reconstructOpts.matchExposure, "match-exposure", false, "Scale the first capture to the second's median")
	f.Float64Var(&reconstructOpts.minIslandRatio, "min-island", 0, "Drop mask regions below this fraction of the mask area")
	rootCmd.AddCommand(reconstructCmd)
}

func runReconstruct(cmd *cobra.Command, cfg config.Config) error {
	if cfg.Gradient1 == "" || cfg.Gradient2 == "" || cfg.Mask == "" {
		return fmt.Errorf("gradient1, gradient2 and mask are required (flags or config)")
	}

	var aligner align.Aligner = align.Identity{}
	if !cfg.SkipAlign {
		aligner = orb.New()
	}

	fmt.Println("Gradient photometric stereo")
	fmt.Printf("Inputs: %s, %s\n", cfg.Gradient1, cfg.Gradient2)
	fmt.Printf("Mask: %s\n", cfg.Mask)
	fmt.Printf("Results: %s\n", cfg.ResultsDir)
	printRule()

	start := time.Now()
	r, err := pipeline.Reconstruct(cmd.Context(), pipeline.ReconstructInputs{
		Gradient1: cfg.Gradient1,
		Gradient2: cfg.Gradient2,
		Mask:      cfg.Mask,
		Pattern:   demosaic.Pattern(cfg.Pattern),
		Options: pipeline.ReconstructOptions{
			MatchExposure:  cfg.MatchExposure,
			MinIslandRatio: cfg.MinIslandRatio,
		},
	}, aligner)
	if err != nil {
		return err
	}

	if cfg.MatchExposure {
		fmt.Printf("Exposure scale: %.4f\n", r.ExposureScale)
	}
	fmt.Printf("Size: %s, masked pixels: %d\n", r.Normals.Size(), r.Mask.Count())
	s := r.Stats
	fmt.Printf("Normals: mean (%.3f, %.3f, %.3f), range [%.3f, %.3f]\n",
		s.NormalMean[0], s.NormalMean[1], s.NormalMean[2], s.NormalMin, s.NormalMax)
	fmt.Printf("Albedo: range [%.3f, %.3f]\n", s.AlbedoMin, s.AlbedoMax)

	if err := pipeline.SaveReconstruction(cfg.ResultsDir, r); err != nil {
		return err
	}
	printRule()
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())
	return nil
}
