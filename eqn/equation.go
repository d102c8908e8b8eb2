// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eqn implements Equation: an immutable parsed text equation
// that knows its own variables and can report its unknown count
// relative to a known-value map.
//
// Grounded in original_source/src/algos/structs.rs's Equation struct
// (text/vars/n fields, as_expr/unknowns/n_unknowns methods) and
// original_source/nexsys-core/src/equation.rs.
package eqn

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ForceOverArea/nexsys-go/fun"
	"github.com/ForceOverArea/nexsys-go/variable"
)

// ErrMalformed is returned when an equation's text does not contain
// exactly one '='.
var ErrMalformed = errors.New("eqn: equation must contain exactly one '='")

var identRE = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_]*`)

// Equation is an immutable parsed equation: its original text and the
// sorted sequence of distinct variable identifiers it references.
type Equation struct {
	text string
	vars []string
}

// Parse splits text on its single '=', extracts and sorts its
// variable identifiers, and returns the Equation. Fails with
// ErrMalformed if zero or more than one '=' is present.
func Parse(text string) (Equation, error) {
	if strings.Count(text, "=") != 1 {
		return Equation{}, fmt.Errorf("%w: %q", ErrMalformed, text)
	}

	seen := map[string]bool{}
	var vars []string
	for _, m := range identRE.FindAllString(text, -1) {
		if fun.IsReservedName(m) {
			continue
		}
		if !seen[m] {
			seen[m] = true
			vars = append(vars, m)
		}
	}
	sort.Strings(vars)

	return Equation{text: text, vars: vars}, nil
}

// Text returns the original equation text.
func (e Equation) Text() string { return e.text }

// Vars returns the sorted, deduplicated variable identifiers in the equation.
func (e Equation) Vars() []string { return append([]string(nil), e.vars...) }

// ResidualExpr returns "(LHS) - (RHS)", the expression that evaluates
// to 0 when the equation is satisfied.
func (e Equation) ResidualExpr() string {
	parts := strings.SplitN(e.text, "=", 2)
	return fmt.Sprintf("(%s) - (%s)", strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
}

// NUnknowns returns the number of e's variables not present in known.
func (e Equation) NUnknowns(known map[string]variable.Variable) int {
	n := 0
	for _, v := range e.vars {
		if _, ok := known[v]; !ok {
			n++
		}
	}
	return n
}

// Unknowns returns the subset of e's variables not present in known,
// in e's (sorted) order.
func (e Equation) Unknowns(known map[string]variable.Variable) []string {
	var res []string
	for _, v := range e.vars {
		if _, ok := known[v]; !ok {
			res = append(res, v)
		}
	}
	return res
}
