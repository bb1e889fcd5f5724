package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gradient-relighter/internal/export"
	"gradient-relighter/internal/frame"
	"gradient-relighter/internal/mathutil"
	"gradient-relighter/internal/shading"

	"github.com/schollz/progressbar/v3"
)

// Job holds the read-only inputs shared by every frame of a sweep.
type Job struct {
	Normals    frame.NormalMap
	Reference  frame.Image
	RefDot     frame.DotField
	Mask       frame.Mask
	Shading    shading.Config
	Directions []mathutil.Vec3
}

// Options controls where and how frames are written.
type Options struct {
	OutputDir string // empty keeps frames in memory only
	Workers   int    // default: NumCPU
	WebP      bool   // also write frame_%03d.webp
	Progress  io.Writer
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Index     int
	Direction mathutil.Vec3
	File      string
	Frame     frame.Frame
	Success   bool
	Error     string
}

// FrameName returns the file stem of frame i.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%03d", i)
}

// Run renders every direction of job with a worker pool. Results are indexed
// by frame, independent of completion order. A cancelled context stops
// dispatch; frames not started are reported as failed and ctx.Err() is
// returned alongside the partial results.
func Run(ctx context.Context, job Job, opts Options) ([]Result, error) {
	if err := frame.CheckShape(job.Normals, job.Reference, job.RefDot, job.Mask); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("batch: %w", err)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	total := len(job.Directions)
	results := make([]Result, total)
	for i, d := range job.Directions {
		results[i] = Result{Index: i, Direction: d, Error: "not rendered"}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Relighting"),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionShowCount(),
	)

	// Worker pool
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = processFrame(job, opts, idx)
				bar.Add(1)
			}
		}()
	}

	// Send work
	var err error
dispatch:
	for i := range job.Directions {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case frameChan <- i:
		}
	}
	close(frameChan)

	wg.Wait()
	bar.Finish()
	fmt.Fprintln(progress)

	return results, err
}

func processFrame(job Job, opts Options, idx int) Result {
	dir := job.Directions[idx]
	res := Result{Index: idx, Direction: dir}

	f, err := shading.Render(job.Normals, job.Reference, dir, job.RefDot, job.Mask, job.Shading)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Frame = f

	if opts.OutputDir != "" {
		name := FrameName(idx)
		res.File = name + ".png"
		if err := export.WritePNG(filepath.Join(opts.OutputDir, res.File), f); err != nil {
			res.Error = err.Error()
			return res
		}
		if opts.WebP {
			if err := export.WriteWebP(filepath.Join(opts.OutputDir, name+".webp"), f); err != nil {
				res.Error = fmt.Sprintf("WebP encode: %v", err)
				return res
			}
		}
	}

	res.Success = true
	return res
}

// Frames returns the rendered frames of successful results, in frame order.
func Frames(results []Result) []frame.Frame {
	frames := make([]frame.Frame, 0, len(results))
	for _, r := range results {
		if r.Success {
			frames = append(frames, r.Frame)
		}
	}
	return frames
}
