// Package pipeline composes the reconstruction and relighting stages.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gradient-relighter/internal/align"
	"gradient-relighter/internal/demosaic"
	"gradient-relighter/internal/frame"
	"gradient-relighter/internal/mask"
	"gradient-relighter/internal/photometry"
	"gradient-relighter/internal/store"
)

// ReconstructInputs names the captures of one subject.
type ReconstructInputs struct {
	Gradient1 string
	Gradient2 string
	Mask      string // segmentation image, resampled to the capture size
	Pattern   demosaic.Pattern
	Options   ReconstructOptions
}

// ReconstructOptions tunes the in-memory stages.
type ReconstructOptions struct {
	MatchExposure  bool
	MinIslandRatio float64 // 0 keeps every island
}

// Reconstruction is the per-subject result reused across relighting sweeps.
type Reconstruction struct {
	Normals       frame.NormalMap
	Albedo        frame.AlbedoMap
	Mask          frame.Mask
	ExposureScale float64 // 1 when exposure matching is off
	Stats         photometry.Stats
}

// Reconstruct loads the gradient pair and mask from disk and runs
// ReconstructImages. ctx is checked between stages.
func Reconstruct(ctx context.Context, in ReconstructInputs, aligner align.Aligner) (Reconstruction, error) {
	p := in.Pattern
	if p == "" {
		p = demosaic.DefaultPattern
	}

	img1, err := demosaic.LoadPattern(in.Gradient1, p)
	if err != nil {
		return Reconstruction{}, err
	}
	img2, err := demosaic.LoadPattern(in.Gradient2, p)
	if err != nil {
		return Reconstruction{}, err
	}

	m, err := mask.Load(in.Mask, img1.Width, img1.Height)
	if err != nil {
		return Reconstruction{}, err
	}
	if err := ctx.Err(); err != nil {
		return Reconstruction{}, err
	}

	return ReconstructImages(img1, img2, m, aligner, in.Options)
}

// ReconstructImages registers img2 onto img1, cleans the mask and estimates
// normals and albedo.
func ReconstructImages(img1, img2 frame.Image, m frame.Mask, aligner align.Aligner, opts ReconstructOptions) (Reconstruction, error) {
	if aligner == nil {
		aligner = align.Identity{}
	}

	r := Reconstruction{ExposureScale: 1}
	if opts.MatchExposure {
		var err error
		img1, r.ExposureScale, err = photometry.MatchExposure(img1, img2)
		if err != nil {
			return Reconstruction{}, fmt.Errorf("pipeline: %w", err)
		}
	}

	aligned := aligner.Align(img1, img2)

	if opts.MinIslandRatio > 0 {
		m = mask.RemoveSmallIslands(m, opts.MinIslandRatio)
	}
	r.Mask = m

	normals, albedo, err := photometry.Estimate(img1, aligned, m)
	if err != nil {
		return Reconstruction{}, fmt.Errorf("pipeline: %w", err)
	}
	r.Normals, r.Albedo = normals, albedo
	r.Stats = photometry.Summarize(normals, albedo)
	return r, nil
}

// SaveReconstruction writes normals, albedo, mask and a normal-map preview
// into dir.
func SaveReconstruction(dir string, r Reconstruction) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := store.SaveNormals(filepath.Join(dir, store.NormalsFile), r.Normals); err != nil {
		return err
	}
	if err := store.SaveAlbedo(filepath.Join(dir, store.AlbedoFile), r.Albedo); err != nil {
		return err
	}
	if err := store.SaveMask(filepath.Join(dir, store.MaskFile), r.Mask); err != nil {
		return err
	}
	return store.SaveNormalPreview(filepath.Join(dir, store.NormalPreviewFile), r.Normals)
}

// LoadReconstruction reads what SaveReconstruction wrote.
func LoadReconstruction(dir string) (Reconstruction, error) {
	normals, err := store.LoadNormals(filepath.Join(dir, store.NormalsFile))
	if err != nil {
		return Reconstruction{}, err
	}
	albedo, err := store.LoadAlbedo(filepath.Join(dir, store.AlbedoFile))
	if err != nil {
		return Reconstruction{}, err
	}
	m, err := store.LoadMask(filepath.Join(dir, store.MaskFile))
	if err != nil {
		return Reconstruction{}, err
	}
	if err := frame.CheckShape(normals, albedo, m); err != nil {
		return Reconstruction{}, fmt.Errorf("pipeline: %s: %w", dir, err)
	}
	return Reconstruction{
		Normals:       normals,
		Albedo:        albedo,
		Mask:          m,
		ExposureScale: 1,
		Stats:         photometry.Summarize(normals, albedo),
	}, nil
}
