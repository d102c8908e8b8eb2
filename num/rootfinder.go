// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package num

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/ForceOverArea/nexsys-go/fun"
	"github.com/ForceOverArea/nexsys-go/variable"
	"gonum.org/v1/gonum/diff/fd"
)

// ErrDivByZero is returned by Newton when the derivative vanishes.
var ErrDivByZero = errors.New("num: derivative is zero")

// ErrNonConvergent is the sentinel a caller compares against with
// errors.Is when a root finder's NonConverged result must be treated
// as a hard failure rather than recorded and accepted. num itself
// never returns this error -- it only ever returns a NonConverged
// Result -- the decision to escalate that into an error belongs to
// the caller's convergence policy (solve.Driver's AllowNonconvergence
// flag).
var ErrNonConvergent = errors.New("num: failed to converge")

// Status tags the outcome of a root-finding attempt.
type Status int

const (
	// Converged indicates the residual fell below tolerance.
	Converged Status = iota
	// NonConverged indicates the iteration cap was exceeded.
	NonConverged
)

// Result is the outcome of a univariate root-finding call: the tagged
// {Converged(T), NonConverged(T)} union from spec.md 9, rendered as a
// Go struct instead of a sum type (no virtual dispatch required, per
// spec.md's design note on polymorphism).
type Result struct {
	Status Status
	Name   string
	Value  variable.Variable
}

// MVResult is the multivariate analogue of Result.
type MVResult struct {
	Status Status
	Values map[string]variable.Variable
}

// Solver bundles the tolerance and iteration cap shared by every
// root-finding entrypoint, in the same spirit as the teacher's
// NlSolver struct bundling its own tolerances and auxiliary buffers
// into one receiver.
type Solver struct {
	Tol     float64
	MaxIter int
}

// New returns a Solver with the given tolerance and iteration cap.
func New(tol float64, maxIter int) Solver {
	return Solver{Tol: tol, MaxIter: maxIter}
}

func absF(expr string, env fun.Env) (float64, error) {
	v, err := fun.Eval(expr, env)
	if err != nil {
		return 0, err
	}
	return math.Abs(v), nil
}

// Newton performs univariate Newton-Raphson on expr, treating name as
// the only free variable (v0 carries its starting value/domain).
// ctx is checked once per iteration; a cancelled context yields
// NonConverged with the latest iterate rather than a partial update.
func (s Solver) Newton(ctx context.Context, expr, name string, v0 variable.Variable) (Result, error) {
	xi := v0
	f := func(x float64) (float64, error) {
		return absF(expr, fun.Env{name: x})
	}

	count := 0
	for {
		fx, err := f(xi.Value())
		if err != nil {
			return Result{}, err
		}
		if fx <= s.Tol {
			return Result{Status: Converged, Name: name, Value: xi}, nil
		}
		if ctxDone(ctx) {
			return Result{Status: NonConverged, Name: name, Value: xi}, nil
		}

		var derivErr error
		roc := DDx(func(x float64) float64 {
			v, err := f(x)
			if err != nil {
				derivErr = err
			}
			return v
		}, xi.Value())
		if derivErr != nil {
			return Result{}, derivErr
		}
		if roc == 0 {
			return Result{}, ErrDivByZero
		}

		xi.Step(-fx / roc)
		count++
		if count > s.MaxIter {
			return Result{Status: NonConverged, Name: name, Value: xi}, nil
		}
	}
}

// Golden performs golden-section search on expr for name, using v0's
// domain as the search bracket (or [-1e20, 1e20] if v0 has none).
func (s Solver) Golden(ctx context.Context, expr, name string, v0 variable.Variable) (Result, error) {
	const phi = 1.618033988749895 // (1+sqrt(5))/2

	a, d := -1e20, 1e20
	if dom, ok := v0.GetDomain(); ok {
		a, d = dom.Lo, dom.Hi
	}

	f := func(x float64) (float64, error) {
		return absF(expr, fun.Env{name: x})
	}

	b := d - (d-a)/phi
	c := a + (d-a)/phi

	for math.Abs(d-a) > s.Tol {
		if ctxDone(ctx) {
			break
		}
		fb, err := f(b)
		if err != nil {
			return Result{}, err
		}
		fc, err := f(c)
		if err != nil {
			return Result{}, err
		}
		if math.IsNaN(fb) {
			fb = math.MaxFloat64
		}
		if math.IsNaN(fc) {
			fc = math.MaxFloat64
		}
		if fb < fc {
			d = c
		} else {
			a = b
		}
		b = d - (d-a)/phi
		c = a + (d-a)/phi
	}

	xi := v0
	xi.Assign((d + a) / 2)
	fx, err := f(xi.Value())
	if err != nil {
		return Result{}, err
	}
	if fx > s.Tol {
		return Result{Status: NonConverged, Name: name, Value: xi}, nil
	}
	return Result{Status: Converged, Name: name, Value: xi}, nil
}

func ctxDone(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// MVNewton performs multivariate Newton's method on system, solving
// for the variables named in guess. Each iteration rebuilds the
// numerical Jacobian, inverts it, and steps every variable by the
// corresponding component of -J^-1 * f(x).
func (s Solver) MVNewton(ctx context.Context, system []string, guess map[string]variable.Variable) (MVResult, error) {
	names := make([]string, 0, len(guess))
	for k := range guess {
		names = append(names, k)
	}
	sort.Strings(names) // stable enumeration order, matching spec.md 4.C's requirement

	cur := make(map[string]variable.Variable, len(guess))
	for k, v := range guess {
		cur[k] = v
	}

	count := 0
	for {
		j, err := Jacobian(system, names, cur)
		if err != nil {
			return MVResult{}, err
		}
		if err := j.Invert(); err != nil {
			return MVResult{}, err
		}

		env := make(fun.Env, len(cur))
		for k, v := range cur {
			env[k] = v.Value()
		}
		fx := make([]float64, len(system))
		for i, eq := range system {
			v, err := fun.Eval(eq, env)
			if err != nil {
				return MVResult{}, err
			}
			fx[i] = v
		}

		delta, err := j.MulVec(fx)
		if err != nil {
			return MVResult{}, err
		}
		for i, name := range names {
			v := cur[name]
			v.Step(-delta[i])
			cur[name] = v
		}

		var residual float64
		env = make(fun.Env, len(cur))
		for k, v := range cur {
			env[k] = v.Value()
		}
		for _, eq := range system {
			v, err := fun.Eval(eq, env)
			if err != nil {
				return MVResult{}, err
			}
			residual += math.Abs(v)
		}

		if residual < s.Tol {
			return MVResult{Status: Converged, Values: cur}, nil
		}
		if count > s.MaxIter || ctxDone(ctx) {
			return MVResult{Status: NonConverged, Values: cur}, nil
		}
		count++
	}
}

// CheckJacobian is a verbose-mode diagnostic, grounded directly in the
// teacher's NlSolver.CheckJ: it recomputes the Jacobian using
// gonum.org/v1/gonum/diff/fd's central-difference formula and reports
// the max elementwise difference against this package's own
// forward-difference Jacobian. It never participates in convergence
// decisions -- callers surface its result purely as an audit aid.
func CheckJacobian(system []string, names []string, guess map[string]variable.Variable) (maxDiff float64, err error) {
	ours, err := Jacobian(system, names, guess)
	if err != nil {
		return 0, err
	}

	x := make([]float64, len(names))
	for i, name := range names {
		x[i] = guess[name].Value()
	}

	for i, eq := range system {
		expr := eq
		fi := func(x []float64) float64 {
			env := make(fun.Env, len(names))
			for k, name := range names {
				env[name] = x[k]
			}
			v, evalErr := fun.Eval(expr, env)
			if evalErr != nil {
				return math.NaN()
			}
			return v
		}
		grad := fd.Gradient(nil, fi, x, &fd.Settings{Formula: fd.Central})
		for c := range names {
			diff := math.Abs(grad[c] - ours.Get(i, c))
			if diff > maxDiff {
				maxDiff = diff
			}
		}
	}
	return maxDiff, nil
}
