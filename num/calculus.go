// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package num implements NumericCalculus (forward-difference
// derivatives, partial derivatives, numerical Jacobians) and
// RootFinder (univariate Newton-Raphson, golden-section search,
// multivariate Newton), grounded in the teacher library's own
// num/nlsolver.go (NlSolver: bundled tolerances, Init-then-Solve
// shape, CheckJ diagnostic) and in
// original_source/src/mvcalc/mod.rs + src/algos/mod.rs for the exact
// forward-difference step size and iteration formulas.
package num

import (
	"fmt"

	"github.com/ForceOverArea/nexsys-go/fun"
	"github.com/ForceOverArea/nexsys-go/la"
	"github.com/ForceOverArea/nexsys-go/variable"
)

// ErrIllConstrained is returned by Jacobian when the system size does
// not match the guess vector size -- this indicates an internal bug
// (a mis-assembled block), not a user-input error.
var ErrIllConstrained = fmt.Errorf("num: system is not properly constrained")

// forward-difference step, fixed per spec.md 4.C.
const h = 1e-7

// DDx returns the forward-difference derivative of f at x.
func DDx(f func(float64) float64, x float64) float64 {
	return (f(x+h) - f(x)) / h
}

// PartialDDx builds a single-argument function that overrides
// env[target] and evaluates expr, then takes its forward-difference
// derivative at the target variable's current value. Because
// Variable.Assign clamps, perturbations that would cross a domain
// boundary are silently clipped -- this is intentional: derivatives
// taken near a bound are single-sided, matching
// original_source/src/mvcalc/mod.rs's partial_d_dx.
func PartialDDx(expr string, env map[string]variable.Variable, target string) (float64, error) {
	v0, ok := env[target]
	if !ok {
		return 0, fmt.Errorf("num: target variable %q not present in environment", target)
	}

	var evalErr error
	g := func(t float64) float64 {
		tmp := make(fun.Env, len(env))
		vv := v0
		vv.Assign(t)
		for k, vr := range env {
			if k == target {
				tmp[k] = vv.Value()
			} else {
				tmp[k] = vr.Value()
			}
		}
		r, err := fun.Eval(expr, tmp)
		if err != nil {
			evalErr = err
			return 0
		}
		return r
	}

	d := DDx(g, v0.Value())
	if evalErr != nil {
		return 0, evalErr
	}
	return d, nil
}

// Jacobian builds the numerical N x N Jacobian of system at guess.
// Column order follows the stable enumeration order of names (the
// caller-supplied variable ordering); the returned matrix's column
// label at position k equals names[k]. Fails with ErrIllConstrained if
// len(system) != len(names).
func Jacobian(system []string, names []string, guess map[string]variable.Variable) (*la.Dense, error) {
	if len(system) != len(names) {
		return nil, ErrIllConstrained
	}
	n := len(names)
	cols := make([][]float64, n)
	for c, name := range names {
		col := make([]float64, n)
		for i, eq := range system {
			d, err := PartialDDx(eq, guess, name)
			if err != nil {
				return nil, err
			}
			col[i] = d
		}
		cols[c] = col
	}
	return la.FromColumns(cols, names)
}
