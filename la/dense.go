// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package la implements DenseMatrix: a square matrix stored
// column-major, with optional column labels identifying the variable
// whose partial derivative occupies each column, row operations, and
// closed-form or Gauss-Jordan inversion.
//
// Grounded in the teacher library's own la.Matrix / la.MatInv (used
// throughout num/nlsolver.go's dense solve path) for the API shape,
// and in original_source/src/mvcalc/nxn.rs's NxN type (identity,
// from_cols, scale_row, add_to_row, get_row, invert_2x2/3x3/4x4/nxn)
// for the exact inversion formulas and elimination order.
package la

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned by Invert when the matrix has zero
// determinant (N<=4) or a zero pivot is encountered (N>=5).
var ErrSingular = errors.New("la: matrix is singular")

// ErrShape is returned when constructing a matrix from columns of
// mismatched length, or performing an operation with a mismatched
// vector length.
var ErrShape = errors.New("la: shape mismatch")

// Dense is a square matrix stored as N columns of N reals, with an
// optional column label per column.
type Dense struct {
	size    int
	cols    [][]float64 // cols[c][r]
	labels  []string
	hasLbls bool
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Dense {
	cols := make([][]float64, n)
	for c := 0; c < n; c++ {
		col := make([]float64, n)
		col[c] = 1
		cols[c] = col
	}
	return &Dense{size: n, cols: cols}
}

// FromColumns builds a Dense matrix from column-major data. labels may
// be nil; if non-nil it must have the same length as cols.
func FromColumns(cols [][]float64, labels []string) (*Dense, error) {
	n := len(cols)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrShape)
	}
	for _, c := range cols {
		if len(c) != n {
			return nil, fmt.Errorf("%w: column length %d != matrix size %d", ErrShape, len(c), n)
		}
	}
	d := &Dense{size: n, cols: make([][]float64, n)}
	for i, c := range cols {
		cc := make([]float64, n)
		copy(cc, c)
		d.cols[i] = cc
	}
	if labels != nil {
		if len(labels) != n {
			return nil, fmt.Errorf("%w: %d labels for size %d matrix", ErrShape, len(labels), n)
		}
		d.labels = append([]string(nil), labels...)
		d.hasLbls = true
	}
	return d, nil
}

// Size returns the matrix dimension N.
func (d *Dense) Size() int { return d.size }

// Get returns the element at (row, col).
func (d *Dense) Get(row, col int) float64 { return d.cols[col][row] }

// Set assigns the element at (row, col).
func (d *Dense) Set(row, col int, v float64) { d.cols[col][row] = v }

// Columns returns a read-only view of the matrix's columns.
func (d *Dense) Columns() [][]float64 { return d.cols }

// Labels returns the column labels and whether any are set.
func (d *Dense) Labels() ([]string, bool) { return d.labels, d.hasLbls }

// LabelIndex returns the column index for the given label, or -1 if
// not found or the matrix has no labels.
func (d *Dense) LabelIndex(name string) int {
	if !d.hasLbls {
		return -1
	}
	for i, l := range d.labels {
		if l == name {
			return i
		}
	}
	return -1
}

// ScaleRow multiplies row r by k.
func (d *Dense) ScaleRow(r int, k float64) {
	for c := 0; c < d.size; c++ {
		d.cols[c][r] *= k
	}
}

// AddToRow adds a length-N vector across row r.
func (d *Dense) AddToRow(r int, vec []float64) error {
	if len(vec) != d.size {
		return fmt.Errorf("%w: vector length %d != matrix size %d", ErrShape, len(vec), d.size)
	}
	for c := 0; c < d.size; c++ {
		d.cols[c][r] += vec[c]
	}
	return nil
}

// GetRow returns a copy of row r.
func (d *Dense) GetRow(r int) []float64 {
	res := make([]float64, d.size)
	for c := 0; c < d.size; c++ {
		res[c] = d.cols[c][r]
	}
	return res
}

// MulVec returns the matrix-vector product A*x (column-major: column
// c of A contributes to the component labeled by column c).
func (d *Dense) MulVec(x []float64) ([]float64, error) {
	if len(x) != d.size {
		return nil, fmt.Errorf("%w: vector length %d != matrix size %d", ErrShape, len(x), d.size)
	}
	res := make([]float64, d.size)
	for i := 0; i < d.size; i++ {
		var sum float64
		for c := 0; c < d.size; c++ {
			sum += d.cols[c][i] * x[c]
		}
		res[i] = sum
	}
	return res, nil
}

// Invert inverts the matrix in place. N=2,3,4 use closed-form
// cofactor/determinant formulas; N>=5 uses Gauss-Jordan elimination.
func (d *Dense) Invert() error {
	switch d.size {
	case 2:
		return d.invert2x2()
	case 3:
		return d.invert3x3()
	case 4:
		return d.invert4x4()
	default:
		return d.invertNxN()
	}
}

func (d *Dense) invert2x2() error {
	m11, m12 := d.cols[0][0], d.cols[1][0]
	m21, m22 := d.cols[0][1], d.cols[1][1]
	det := m11*m22 - m12*m21
	if det == 0 {
		return ErrSingular
	}
	d.cols = [][]float64{
		{m22 / det, -m21 / det},
		{-m12 / det, m11 / det},
	}
	return nil
}

func (d *Dense) invert3x3() error {
	m := d.cols
	m11, m12, m13 := m[0][0], m[1][0], m[2][0]
	m21, m22, m23 := m[0][1], m[1][1], m[2][1]
	m31, m32, m33 := m[0][2], m[1][2], m[2][2]

	det := m11*m22*m33 + m21*m32*m13 + m31*m12*m23 - m11*m32*m23 - m31*m22*m13 - m21*m12*m33
	if det == 0 {
		return ErrSingular
	}

	d.cols = [][]float64{
		{(m22*m33 - m23*m32) / det, (m23*m31 - m21*m33) / det, (m21*m32 - m22*m31) / det},
		{(m13*m32 - m12*m33) / det, (m11*m33 - m13*m31) / det, (m12*m31 - m11*m32) / det},
		{(m12*m23 - m13*m22) / det, (m13*m21 - m11*m23) / det, (m11*m22 - m12*m21) / det},
	}
	return nil
}

func (d *Dense) invert4x4() error {
	m := d.cols
	a11, a12, a13, a14 := m[0][0], m[1][0], m[2][0], m[3][0]
	a21, a22, a23, a24 := m[0][1], m[1][1], m[2][1], m[3][1]
	a31, a32, a33, a34 := m[0][2], m[1][2], m[2][2], m[3][2]
	a41, a42, a43, a44 := m[0][3], m[1][3], m[2][3], m[3][3]

	det := a11*a22*a33*a44 + a11*a23*a34*a42 + a11*a24*a32*a43 +
		a12*a21*a34*a43 + a12*a23*a31*a44 + a12*a24*a33*a41 +
		a13*a21*a32*a44 + a13*a22*a34*a41 + a13*a24*a31*a42 +
		a14*a21*a33*a42 + a14*a22*a34*a43 + a14*a23*a32*a41 -
		a11*a22*a34*a43 - a11*a23*a32*a44 - a11*a24*a33*a42 -
		a12*a21*a33*a44 - a12*a23*a34*a41 - a12*a24*a31*a43 -
		a13*a21*a34*a42 - a13*a22*a31*a44 - a13*a24*a32*a41 -
		a14*a21*a32*a43 - a14*a22*a33*a41 - a14*a23*a31*a42

	if det == 0 {
		return ErrSingular
	}

	b11 := (a22*a33*a44 + a23*a34*a42 + a24*a32*a43 - a22*a34*a43 - a23*a32*a44 - a24*a33*a42) / det
	b12 := (a12*a34*a43 + a13*a32*a44 + a14*a33*a42 - a12*a33*a44 - a13*a34*a42 - a14*a32*a43) / det
	b13 := (a12*a23*a44 + a13*a24*a42 + a14*a22*a43 - a12*a24*a43 - a13*a22*a44 - a14*a23*a42) / det
	b14 := (a12*a24*a33 + a13*a22*a34 + a14*a23*a32 - a12*a23*a34 - a13*a24*a32 - a14*a22*a33) / det
	b21 := (a21*a34*a43 + a23*a31*a44 + a24*a33*a41 - a21*a33*a44 - a23*a34*a41 - a24*a31*a43) / det
	b22 := (a11*a33*a44 + a13*a34*a41 + a14*a31*a43 - a11*a34*a43 - a13*a31*a44 - a14*a33*a41) / det
	b23 := (a11*a24*a43 + a13*a21*a44 + a14*a23*a41 - a11*a23*a44 - a13*a24*a41 - a14*a21*a43) / det
	b24 := (a11*a23*a34 + a13*a24*a31 + a14*a21*a33 - a11*a24*a33 - a13*a21*a34 - a14*a23*a31) / det
	b31 := (a21*a32*a44 + a22*a34*a41 + a24*a31*a42 - a21*a34*a42 - a22*a31*a44 - a24*a32*a41) / det
	b32 := (a11*a34*a42 + a12*a31*a44 + a14*a32*a41 - a11*a32*a44 - a12*a34*a41 - a14*a31*a42) / det
	b33 := (a11*a22*a44 + a12*a24*a41 + a14*a21*a42 - a11*a24*a42 - a12*a21*a44 - a14*a22*a41) / det
	b34 := (a11*a24*a32 + a12*a21*a34 + a14*a22*a31 - a11*a22*a34 - a12*a24*a31 - a14*a21*a32) / det
	b41 := (a21*a33*a42 + a22*a31*a43 + a23*a32*a41 - a21*a32*a43 - a22*a33*a41 - a23*a31*a42) / det
	b42 := (a11*a32*a43 + a12*a33*a41 + a13*a31*a42 - a11*a33*a42 - a12*a31*a43 - a13*a32*a41) / det
	b43 := (a11*a23*a42 + a12*a21*a43 + a13*a22*a41 - a11*a22*a43 - a12*a23*a41 - a13*a21*a42) / det
	b44 := (a11*a22*a33 + a12*a23*a31 + a13*a21*a32 - a11*a23*a32 - a12*a21*a33 - a13*a22*a31) / det

	d.cols = [][]float64{
		{b11, b21, b31, b41},
		{b12, b22, b32, b42},
		{b13, b23, b33, b43},
		{b14, b24, b34, b44},
	}
	return nil
}

func scaleVec(v []float64, k float64) []float64 {
	res := make([]float64, len(v))
	for i, x := range v {
		res[i] = x * k
	}
	return res
}

func (d *Dense) invertNxN() error {
	n := d.size
	inv := Identity(n)

	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			if c == r {
				continue
			}
			if d.cols[c][c] == 0 {
				return ErrSingular
			}
			scalar := -d.cols[c][r] / d.cols[c][c]
			v := scaleVec(d.GetRow(c), scalar)
			vi := scaleVec(inv.GetRow(c), scalar)
			if err := d.AddToRow(r, v); err != nil {
				return err
			}
			if err := inv.AddToRow(r, vi); err != nil {
				return err
			}
		}
	}

	for i := 0; i < n; i++ {
		if d.cols[i][i] == 0 {
			return ErrSingular
		}
		scalar := 1.0 / d.cols[i][i]
		d.ScaleRow(i, scalar)
		inv.ScaleRow(i, scalar)
	}

	d.cols = inv.cols
	return nil
}

// ToGonum converts the matrix to a dense gonum matrix (row-major, as
// gonum expects), used by Cond and by num.CheckJacobian.
func (d *Dense) ToGonum() *mat.Dense {
	data := make([]float64, d.size*d.size)
	for r := 0; r < d.size; r++ {
		for c := 0; c < d.size; c++ {
			data[r*d.size+c] = d.cols[c][r]
		}
	}
	return mat.NewDense(d.size, d.size, data)
}

// Cond returns the Frobenius-norm condition number of the matrix,
// computed via gonum.org/v1/gonum/mat -- a verbose-mode diagnostic
// grounded in the teacher's own NlSolver.CheckJ, which calls
// la.MatCondNum(Jmat, "F") before accepting a Jacobian. This never
// changes Invert's pass/fail behavior; it is surfaced only in the
// solver's -v diagnostics.
func (d *Dense) Cond() float64 {
	return mat.Cond(d.ToGonum(), mat.NormFrob)
}
