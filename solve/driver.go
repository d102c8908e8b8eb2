// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve implements SolverDriver: the substitution loop that
// alternates light passes (equations with exactly one unknown) and
// heavy passes (properly-constrained multi-unknown blocks), treating
// each newly discovered value as a constant for the next pass, until
// neither pass can advance.
//
// Grounded in original_source/src/solver.rs's
// Nexsys::solve/light_work/heavy_work for the pass structure and
// original_source/src/algos/structs.rs for the NonConverged/
// AllowNonconvergence interplay, rendered in the teacher's idiom of a
// config-and-state struct with a single top-level entrypoint (compare
// num/nlsolver.go's NlSolver.Solve).
package solve

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/ForceOverArea/nexsys-go/block"
	"github.com/ForceOverArea/nexsys-go/eqn"
	"github.com/ForceOverArea/nexsys-go/num"
	"github.com/ForceOverArea/nexsys-go/variable"
)

// identRE mirrors eqn's identifier grammar; used to substitute known
// values into a residual expression by whole-token match only, so
// that substituting a variable named x does not corrupt exp(x).
var identRE = regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9_]*\b`)

// Driver owns the one mutable solution map for a solve; every other
// package receives values from it by copy or read-only snapshot.
type Driver struct {
	equations []eqn.Equation
	guess     map[string]float64
	domain    map[string]variable.Domain

	solution map[string]variable.Variable
	log      []string

	tol                 float64
	maxIter             int
	allowNonconvergence bool
}

// New builds a Driver over the given equations, with guess and domain
// maps supplying defaults for variables not already seeded. tol and
// maxIter are passed through to every num.Solver call; allowNonconv
// controls whether a NonConverged result is recorded and accepted (true)
// or escalated to num.ErrNonConvergent (false).
func New(equations []eqn.Equation, guess map[string]float64, domain map[string]variable.Domain, tol float64, maxIter int, allowNonconv bool) *Driver {
	return &Driver{
		equations:           equations,
		guess:               guess,
		domain:              domain,
		solution:            map[string]variable.Variable{},
		tol:                 tol,
		maxIter:             maxIter,
		allowNonconvergence: allowNonconv,
	}
}

// Seed pre-populates the solution map with a known value, bypassing
// root-finding for that variable. Grounded in
// original_source/src/solver.rs's Nexsys::edit.
func (d *Driver) Seed(name string, value float64) {
	d.solution[name] = variable.New(value, d.domainFor(name))
}

// SeedAll seeds every name/value pair in values. Grounded in
// original_source/src/solver.rs's Nexsys::mass_add_edits.
func (d *Driver) SeedAll(values map[string]float64) {
	for name, v := range values {
		d.Seed(name, v)
	}
}

// Solution returns a snapshot of the current solution map.
func (d *Driver) Solution() map[string]variable.Variable {
	out := make(map[string]variable.Variable, len(d.solution))
	for k, v := range d.solution {
		out[k] = v
	}
	return out
}

// Log returns a snapshot of the step log accumulated so far.
func (d *Driver) Log() []string {
	return append([]string(nil), d.log...)
}

func (d *Driver) domainFor(name string) *variable.Domain {
	if dom, ok := d.domain[name]; ok {
		dd := dom
		return &dd
	}
	return nil
}

// hasDomain reports whether name has a finite search bracket, the
// precondition for falling back to golden-section search.
func (d *Driver) hasDomain(name string) bool {
	_, ok := d.domain[name]
	return ok
}

func (d *Driver) guessValue(name string) float64 {
	if v, ok := d.guess[name]; ok {
		return v
	}
	return 1.0
}

func (d *Driver) seedVar(name string) variable.Variable {
	return variable.New(d.guessValue(name), d.domainFor(name))
}

// substitute replaces every identifier in expr that is already in the
// solution map with its parenthesized literal value, preserving every
// other identifier untouched.
func (d *Driver) substitute(expr string) string {
	return identRE.ReplaceAllStringFunc(expr, func(tok string) string {
		v, ok := d.solution[tok]
		if !ok {
			return tok
		}
		return fmt.Sprintf("(%v)", v.Value())
	})
}

// Solve runs the substitution loop to completion: alternating light
// and heavy passes until neither advances. Returns the final solution
// map and step log. Solve does not check ctx itself; it passes ctx to
// every root-finder call, which checks it once per iteration.
func (d *Driver) Solve(ctx context.Context) (map[string]variable.Variable, []string, error) {
	for {
		advanced, err := d.lightPass(ctx)
		if err != nil {
			return nil, nil, err
		}
		if advanced {
			continue
		}

		advanced, err = d.heavyPass(ctx)
		if err != nil {
			return nil, nil, err
		}
		if advanced {
			continue
		}

		break
	}
	return d.Solution(), d.Log(), nil
}

// lightPass solves every equation with exactly one unknown relative
// to the current solution, in equation order. It tries Newton first;
// if Newton hits a zero derivative or fails to converge and the
// target has a finite domain, it retries with golden-section search
// over that domain before giving up. Returns true if at least one
// equation was solved this pass.
func (d *Driver) lightPass(ctx context.Context) (bool, error) {
	solved := false
	solver := num.New(d.tol, d.maxIter)

	for _, e := range d.equations {
		unknowns := e.Unknowns(d.solution)
		if len(unknowns) != 1 {
			continue
		}
		name := unknowns[0]

		residual := d.substitute(e.ResidualExpr())
		v0 := d.seedVar(name)

		res, err := solver.Newton(ctx, residual, name, v0)
		if err != nil && errors.Is(err, num.ErrDivByZero) && d.hasDomain(name) {
			res, err = solver.Golden(ctx, residual, name, v0)
		} else if err == nil && res.Status == num.NonConverged && d.hasDomain(name) {
			res, err = solver.Golden(ctx, residual, name, v0)
		}
		if err != nil {
			return false, fmt.Errorf("solve: %q: %w", e.Text(), err)
		}
		if res.Status == num.NonConverged {
			if !d.allowNonconvergence {
				return false, fmt.Errorf("solve: %q: %w", e.Text(), num.ErrNonConvergent)
			}
			d.log = append(d.log, fmt.Sprintf("timed out solving %q for %s", e.Text(), name))
		}

		d.solution[name] = res.Value
		d.log = append(d.log, fmt.Sprintf("solved %q for %s", e.Text(), name))
		solved = true
	}
	return solved, nil
}

// heavyPass classifies every equation into a block.Manager (which
// skips and counts the fully known ones), extracts the
// properly-constrained blocks, and solves each with multivariate
// Newton. Returns true if at least one block was solved this pass.
func (d *Driver) heavyPass(ctx context.Context) (bool, error) {
	mgr := block.New()
	for _, e := range d.equations {
		mgr.Add(e, d.solution)
	}

	blocks := mgr.ExtractConstrained()
	stats := mgr.Stats()
	d.log = append(d.log, fmt.Sprintf("classified %d equation(s), %d fully known, into %d block(s)", stats.Seen, stats.Skipped, len(blocks)))
	if len(blocks) == 0 {
		return false, nil
	}

	solver := num.New(d.tol, d.maxIter)
	solvedAny := false

	for _, b := range blocks {
		system := make([]string, len(b.Equations))
		for i, expr := range b.Equations {
			system[i] = d.substitute(expr)
		}

		guess := make(map[string]variable.Variable, len(b.Unknowns))
		for _, name := range b.Unknowns {
			guess[name] = d.seedVar(name)
		}

		res, err := solver.MVNewton(ctx, system, guess)
		if err != nil {
			return false, fmt.Errorf("solve: block %v: %w", b.Unknowns, err)
		}
		if res.Status == num.NonConverged {
			if !d.allowNonconvergence {
				return false, fmt.Errorf("solve: block %v: %w", b.Unknowns, num.ErrNonConvergent)
			}
			d.log = append(d.log, fmt.Sprintf("timed out solving block %v", sortedCopy(b.Unknowns)))
		}

		for name, v := range res.Values {
			d.solution[name] = v
		}
		d.log = append(d.log, fmt.Sprintf("solved system %v for %v", b.Equations, sortedCopy(b.Unknowns)))
		solvedAny = true
	}

	return solvedAny, nil
}

func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// ErrUnsolved is never returned by Solve -- an incomplete solution is
// not an error per spec.md 4.G's termination rule (the step log
// records what was solved; the caller decides whether the residue of
// unsolved variables matters). It exists for callers that want to
// assert full coverage themselves.
var ErrUnsolved = errors.New("solve: one or more variables remain unsolved")

// Unsolved returns the equation-declared variable names that never
// made it into the solution map.
func (d *Driver) Unsolved() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range d.equations {
		for _, v := range e.Vars() {
			if _, ok := d.solution[v]; ok || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
