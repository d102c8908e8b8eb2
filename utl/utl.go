// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package utl implements small numeric helper functions shared across
// the module, in the style of the teacher library's own utl package.
package utl

// Max returns the larger of a and b.
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// LinSpace returns n equally spaced points from start to stop, inclusive.
func LinSpace(start, stop float64, n int) []float64 {
	if n < 2 {
		return []float64{start}
	}
	res := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := 0; i < n; i++ {
		res[i] = start + float64(i)*step
	}
	return res
}

// SumAbs returns the sum of the absolute values of vals.
func SumAbs(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		if v < 0 {
			s -= v
		} else {
			s += v
		}
	}
	return s
}
