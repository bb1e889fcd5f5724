// Package light estimates the dominant light of a photograph from a normal
// map and generates synthetic light paths.
package light

import (
	"fmt"
	"math"

	"gradient-relighter/internal/frame"
	"gradient-relighter/internal/mathutil"

	"gonum.org/v1/gonum/mat"
)

// CameraAxis is returned when the fit produces no usable direction.
var CameraAxis = mathutil.Vec3{0, 0, 1}

// EstimateDirection fits N·L ≈ I over the mask-selected pixels, where I is the
// per-pixel channel mean of ref, and returns L normalised. Rank-deficient
// systems use the minimum-norm solution; an empty or all-dark selection
// yields CameraAxis.
func EstimateDirection(normals frame.NormalMap, ref frame.Image, mask frame.Mask) (mathutil.Vec3, error) {
	if err := frame.CheckShape(normals, ref, mask); err != nil {
		return mathutil.Vec3{}, fmt.Errorf("light: estimate direction: %w", err)
	}

	var rows, rhs []float64
	for i, m := range mask.Pix {
		if m != 1 {
			continue
		}
		rows = append(rows, normals.Pix[i*3], normals.Pix[i*3+1], normals.Pix[i*3+2])
		sum := float64(ref.Pix[i*3]) + float64(ref.Pix[i*3+1]) + float64(ref.Pix[i*3+2])
		rhs = append(rhs, sum/3)
	}

	l := solveMinNorm(rows, rhs)
	dir := l.Normalize()
	if dir == (mathutil.Vec3{}) || !finite(dir) {
		return CameraAxis, nil
	}
	return dir, nil
}

// solveMinNorm solves the n×3 system in the least-squares sense via SVD,
// cutting singular values below eps·max(n,3) of the largest.
func solveMinNorm(rows, rhs []float64) mathutil.Vec3 {
	n := len(rhs)
	if n == 0 {
		return mathutil.Vec3{}
	}

	a := mat.NewDense(n, 3, rows)
	b := mat.NewVecDense(n, rhs)

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return mathutil.Vec3{}
	}
	rcond := 0x1p-52 * float64(max(n, 3))
	rank := svd.Rank(rcond)
	if rank == 0 {
		return mathutil.Vec3{}
	}

	var x mat.VecDense
	svd.SolveVecTo(&x, b, rank)
	return mathutil.Vec3{x.AtVec(0), x.AtVec(1), x.AtVec(2)}
}

// DotField returns the per-pixel dot product of normals with dir.
func DotField(normals frame.NormalMap, dir mathutil.Vec3) frame.DotField {
	out := frame.NewDotField(normals.Width, normals.Height)
	for i := range out.Pix {
		out.Pix[i] = normals.Pix[i*3]*dir[0] + normals.Pix[i*3+1]*dir[1] + normals.Pix[i*3+2]*dir[2]
	}
	return out
}

func finite(v mathutil.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
