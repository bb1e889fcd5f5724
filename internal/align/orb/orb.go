// Package orb registers captures with OpenCV feature matching. It needs
// cgo and an OpenCV install, so only the command links it.
package orb

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"os"
	"sort"

	"gradient-relighter/internal/align"
	"gradient-relighter/internal/frame"

	"gocv.io/x/gocv"
)

// Aligner aligns with ORB features, cross-checked Hamming matching and a
// RANSAC homography.
type Aligner struct {
	Features        int
	MinMatches      int
	ReprojThreshold float64
	Quiet           bool
}

var _ align.Aligner = (*Aligner)(nil)

// New returns an aligner with 1000 features, a 4-match minimum and a
// 5 px reprojection threshold.
func New() *Aligner {
	return &Aligner{Features: 1000, MinMatches: 4, ReprojThreshold: 5.0}
}

// Align warps target onto ref, or returns a copy of target when fewer than
// MinMatches correspondences are found or no homography fits.
func (o *Aligner) Align(ref, target frame.Image) frame.Image {
	h, ok := o.homography(ref, target)
	if !ok {
		o.logf(os.Stderr, "Warning: not enough matches, skipping alignment\n")
		return target.Clone()
	}
	defer h.Close()

	warped, err := warp(target, h, ref.Width, ref.Height)
	if err != nil {
		o.logf(os.Stderr, "Warning: warp failed, skipping alignment: %v\n", err)
		return target.Clone()
	}
	o.logf(os.Stdout, "Alignment successful\n")
	return warped
}

func (o *Aligner) homography(ref, target frame.Image) (gocv.Mat, bool) {
	gray1 := grayMat(ref)
	defer gray1.Close()
	gray2 := grayMat(target)
	defer gray2.Close()

	detector := gocv.NewORBWithParams(o.Features, 1.2, 8, 31, 0, 2, gocv.ORBScoreTypeHarris, 31, 20)
	defer detector.Close()

	noMask := gocv.NewMat()
	defer noMask.Close()

	kp1, des1 := detector.DetectAndCompute(gray1, noMask)
	defer des1.Close()
	kp2, des2 := detector.DetectAndCompute(gray2, noMask)
	defer des2.Close()

	if des1.Empty() || des2.Empty() {
		o.logf(os.Stdout, "ORB matches found: 0\n")
		return gocv.Mat{}, false
	}

	bf := gocv.NewBFMatcherWithParams(gocv.NormHamming, true)
	defer bf.Close()

	matches := bf.Match(des1, des2)
	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	o.logf(os.Stdout, "ORB matches found: %d\n", len(matches))

	if len(matches) < o.MinMatches {
		return gocv.Mat{}, false
	}

	refPts := make([]gocv.Point2f, len(matches))
	tgtPts := make([]gocv.Point2f, len(matches))
	for i, m := range matches {
		refPts[i] = gocv.Point2f{X: float32(kp1[m.QueryIdx].X), Y: float32(kp1[m.QueryIdx].Y)}
		tgtPts[i] = gocv.Point2f{X: float32(kp2[m.TrainIdx].X), Y: float32(kp2[m.TrainIdx].Y)}
	}

	srcVec := gocv.NewPoint2fVectorFromPoints(tgtPts)
	defer srcVec.Close()
	dstVec := gocv.NewPoint2fVectorFromPoints(refPts)
	defer dstVec.Close()

	src := gocv.NewMatFromPoint2fVector(srcVec, true)
	defer src.Close()
	dst := gocv.NewMatFromPoint2fVector(dstVec, true)
	defer dst.Close()

	inliers := gocv.NewMat()
	defer inliers.Close()

	h := gocv.FindHomography(src, &dst, gocv.HomographyMethodRANSAC, o.ReprojThreshold, &inliers, 2000, 0.995)
	if h.Empty() {
		h.Close()
		return gocv.Mat{}, false
	}
	return h, true
}

func (o *Aligner) logf(w *os.File, format string, args ...any) {
	if o.Quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}

// grayMat quantises img to 8 bits and converts it to a single channel.
func grayMat(img frame.Image) gocv.Mat {
	buf := make([]byte, len(img.Pix))
	for i, v := range img.Pix {
		buf[i] = uint8(math.Max(0, math.Min(255, float64(v)*255)))
	}
	rgb, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, buf)
	if err != nil {
		return gocv.NewMat()
	}
	defer rgb.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(rgb, &gray, gocv.ColorRGBToGray)
	return gray
}

// warp applies h to the float image and resamples it at w×hgt.
func warp(img frame.Image, h gocv.Mat, w, hgt int) (frame.Image, error) {
	buf := make([]byte, len(img.Pix)*4)
	for i, v := range img.Pix {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	src, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV32FC3, buf)
	if err != nil {
		return frame.Image{}, fmt.Errorf("orb: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpPerspective(src, &dst, h, image.Pt(w, hgt))

	data, err := dst.DataPtrFloat32()
	if err != nil {
		return frame.Image{}, fmt.Errorf("orb: %w", err)
	}
	out := frame.NewImage(w, hgt)
	if len(data) != len(out.Pix) {
		return frame.Image{}, fmt.Errorf("orb: warped %d samples, want %d", len(data), len(out.Pix))
	}
	copy(out.Pix, data)
	return out, nil
}
