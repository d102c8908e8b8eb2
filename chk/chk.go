// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chk implements auxiliary functions for error checking,
// printing assertion messages and panicking with formatted messages.
package chk

import (
	"fmt"
	"math"
	"os"
	"testing"
)

// Verbose turns on the output of PrintTitle.
var Verbose = false

// Panic prints a formatted error message to stderr and panics. No
// package in this module calls it; solver-internal and user-input
// errors are reported with ordinary Go errors.
func Panic(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "chk.Panic: "+msg+"\n", args...)
	panic(fmt.Sprintf(msg, args...))
}

// PrintTitle prints a title banner. Useful for separating test output
// visually; a no-op unless running verbosely.
func PrintTitle(title string) {
	if !Verbose {
		return
	}
	fmt.Printf("\n=== %s %s\n", title, dashes(60-len(title)))
}

func dashes(n int) string {
	if n < 0 {
		n = 0
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '='
	}
	return string(b)
}

// PrintAnaNum compares an analytical and a numerical value, printing
// the comparison (marked FAIL when they differ by more than tol) if
// verbose is set, and returns their absolute difference.
func PrintAnaNum(msg string, tol, ana, num float64, verbose bool) (diff float64) {
	diff = math.Abs(ana - num)
	if verbose {
		mark := "ok"
		if diff > tol {
			mark = "FAIL"
		}
		fmt.Printf("%-40s ana=%23.15e num=%23.15e diff=%8.3e %s\n", msg, ana, num, diff, mark)
	}
	return diff
}

// Array compares two float64 slices elementwise within tol, failing t
// if any element differs by more than tol or the lengths mismatch. A
// nil expected slice is treated as "all zeros" -- matching the
// teacher's convention of writing chk.Array(tst, label, tol, fx, nil)
// to assert a residual vector is (numerically) zero.
func Array(t *testing.T, msg string, tol float64, got, expected []float64) {
	t.Helper()
	if expected == nil {
		expected = make([]float64, len(got))
	}
	if len(got) != len(expected) {
		t.Fatalf("%s: length mismatch: got %d, expected %d", msg, len(got), len(expected))
		return
	}
	for i := range got {
		if math.Abs(got[i]-expected[i]) > tol {
			t.Fatalf("%s: index %d: got %v, expected %v (tol=%v)", msg, i, got[i], expected[i], tol)
		}
	}
}
