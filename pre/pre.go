// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pre implements the Preprocessor: a fixed-order stream of
// string-to-string transforms turning raw Nexsys source text into a
// newline-separated list of equations ready for eqn.Parse, plus the
// guess and domain maps the directives declared along the way.
//
// Grounded in original_source/src/parsing/mod.rs (comments, consts,
// conversions, domains, guess_values, compile) and
// original_source/src/parsing/conditionals.rs (format_conditional,
// conditional's comparator codes, fixed-point rewriting of nested
// conditionals). The directive syntax itself (colon/else/end blocks)
// follows spec.md's surface grammar rather than the original's
// bracket-delimited one; only the semantics are ported.
package pre

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ForceOverArea/nexsys-go/fun"
	"github.com/ForceOverArea/nexsys-go/units"
	"github.com/ForceOverArea/nexsys-go/variable"
)

// ErrUnknownConstant is returned when a #NAME token or a const binding
// references a name absent from the constants table.
var ErrUnknownConstant = errors.New("pre: unknown constant")

// ErrBadConversion is returned when a [from->to] literal names an
// unknown unit or two units from different quantities.
var ErrBadConversion = errors.New("pre: bad unit conversion")

// ErrBadComparator is returned when a conditional header uses a
// malformed comparator such as "=<" or "=>".
var ErrBadComparator = errors.New("pre: bad comparator")

// ErrMalformedConditional is returned when an if/else/end block cannot
// be parsed (unbalanced end markers or a missing else). A line with no
// recognized comparator is not taken as a header at all.
var ErrMalformedConditional = errors.New("pre: malformed conditional")

// Result is the output of Compile: the fully-lowered equation text,
// and the guess/domain maps extracted along the way.
type Result struct {
	Text   string
	Guess  map[string]float64
	Domain map[string]variable.Domain
}

var (
	commentRE    = regexp.MustCompile(`//.*`)
	constTokenRE = regexp.MustCompile(`#[A-Za-z_][A-Za-z0-9_]*`)
	conversionRE = regexp.MustCompile(`\[[A-Za-z0-9_^/-]+->[A-Za-z0-9_^/-]+\]`)
	constBindRE  = regexp.MustCompile(`(?m)^[ \t]*const[ \t]+([A-Za-z][A-Za-z0-9_]*)[ \t]*=[ \t]*(.+?)[ \t]*$`)
	domainRE     = regexp.MustCompile(`(?mi)^[ \t]*keep[ \t]+([A-Za-z][A-Za-z0-9_]*)[ \t]+on[ \t]+\[[ \t]*(-?[0-9.]+)[ \t]*,[ \t]*(-?[0-9.]+)[ \t]*\][ \t]*$`)
	guessRE      = regexp.MustCompile(`(?mi)^[ \t]*guess[ \t]+(-?[0-9.]+)[ \t]+for[ \t]+([A-Za-z][A-Za-z0-9_]*)[ \t]*$`)
	condHeaderRE = regexp.MustCompile(`^if[ \t]+(.+?)[ \t]*(==|<=|>=|!=|<|>)[ \t]*(.+?):$`)
)

var comparatorCodes = map[string]int{
	"==": 1,
	"<=": 2,
	">=": 3,
	"<":  4,
	">":  5,
	"!=": 6,
}

// Compile runs every transform in spec order and returns the lowered
// equation text along with the guess and domain maps it collected.
func Compile(code string) (Result, error) {
	text := stripComments(code)

	text, err := expandConstants(text)
	if err != nil {
		return Result{}, err
	}

	text, err = expandConversions(text)
	if err != nil {
		return Result{}, err
	}

	text, constEnv, err := extractConstBindings(text)
	if err != nil {
		return Result{}, err
	}
	text, err = expandConstEnv(text, constEnv)
	if err != nil {
		return Result{}, err
	}

	text, domain := extractDomains(text)
	text, guess := extractGuesses(text)

	text, err = rewriteConditionals(text)
	if err != nil {
		return Result{}, err
	}

	return Result{Text: strings.TrimSpace(text), Guess: guess, Domain: domain}, nil
}

func stripComments(text string) string {
	return commentRE.ReplaceAllString(text, "")
}

func expandConstants(text string) (string, error) {
	var outerErr error
	out := constTokenRE.ReplaceAllStringFunc(text, func(tok string) string {
		v, err := units.Const(tok[1:])
		if err != nil {
			outerErr = fmt.Errorf("%w: %q", ErrUnknownConstant, tok)
			return tok
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	})
	if outerErr != nil {
		return "", outerErr
	}
	return out, nil
}

func expandConversions(text string) (string, error) {
	var outerErr error
	out := conversionRE.ReplaceAllStringFunc(text, func(tok string) string {
		inner := strings.Trim(tok, "[]")
		parts := strings.SplitN(inner, "->", 2)
		if len(parts) != 2 {
			outerErr = fmt.Errorf("%w: %q", ErrBadConversion, tok)
			return tok
		}
		f, err := units.Convert(parts[0], parts[1])
		if err != nil {
			outerErr = fmt.Errorf("%w: %q: %v", ErrBadConversion, tok, err)
			return tok
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	})
	if outerErr != nil {
		return "", outerErr
	}
	return out, nil
}

// extractConstBindings evaluates each `const NAME = expr` line in
// document order, allowing later bindings to reference earlier ones,
// and removes the binding lines from the text.
func extractConstBindings(text string) (string, fun.Env, error) {
	env := fun.Env{}
	matches := constBindRE.FindAllStringSubmatch(text, -1)
	for _, m := range matches {
		name, expr := m[1], m[2]
		v, err := fun.Eval(expr, env)
		if err != nil {
			return "", nil, fmt.Errorf("%w: const %s: %v", ErrUnknownConstant, name, err)
		}
		env[name] = v
	}
	return constBindRE.ReplaceAllString(text, ""), env, nil
}

// expandConstEnv substitutes every bound const name as a whole-token
// identifier with its literal value, so the remaining pipeline and
// the final equation list never need to carry a separate constant
// environment downstream.
func expandConstEnv(text string, env fun.Env) (string, error) {
	if len(env) == 0 {
		return text, nil
	}
	identRE := regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9_]*\b`)
	out := identRE.ReplaceAllStringFunc(text, func(tok string) string {
		if v, ok := env[tok]; ok {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
		return tok
	})
	return out, nil
}

func extractDomains(text string) (string, map[string]variable.Domain) {
	out := map[string]variable.Domain{}
	for _, m := range domainRE.FindAllStringSubmatch(text, -1) {
		lo, _ := strconv.ParseFloat(m[2], 64)
		hi, _ := strconv.ParseFloat(m[3], 64)
		out[m[1]] = variable.Domain{Lo: lo, Hi: hi}
	}
	return domainRE.ReplaceAllString(text, ""), out
}

func extractGuesses(text string) (string, map[string]float64) {
	out := map[string]float64{}
	for _, m := range guessRE.FindAllStringSubmatch(text, -1) {
		v, _ := strconv.ParseFloat(m[1], 64)
		out[m[2]] = v
	}
	return guessRE.ReplaceAllString(text, ""), out
}

// rewriteConditionals repeatedly finds and lowers the innermost
// if/else/end block -- one with no nested header inside its own span
// -- until none remain. This is the fixed-point iteration described
// in spec.md 4.H: nested conditionals resolve from the inside out,
// because an already-lowered inner block becomes a single `cond(...)
// = 0` line indistinguishable from any other equation.
func rewriteConditionals(text string) (string, error) {
	for {
		out, changed, err := rewriteOneConditional(text)
		if err != nil {
			return "", err
		}
		if !changed {
			return out, nil
		}
		text = out
	}
}

// blockSpan locates the else and matching end lines for the header at
// headerIdx, tracking nesting depth so an inner if/else/end pair does
// not get mistaken for the header's own else/end.
func blockSpan(lines []string, headerIdx int) (elseIdx, endIdx int, err error) {
	depth := 1
	elseIdx, endIdx = -1, -1
	for i := headerIdx + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case condHeaderRE.MatchString(trimmed):
			depth++
		case trimmed == "end":
			depth--
			if depth == 0 {
				endIdx = i
			}
		case trimmed == "else:" && depth == 1:
			elseIdx = i
		}
		if endIdx != -1 {
			break
		}
	}
	if endIdx == -1 || elseIdx == -1 {
		return 0, 0, fmt.Errorf("%w: unbalanced if/else/end", ErrMalformedConditional)
	}
	return elseIdx, endIdx, nil
}

// rewriteOneConditional finds the innermost if/else/end block -- the
// first header whose span contains no header of its own -- and
// collapses it to a single cond(...) = 0 line. Outer blocks become
// leaves themselves once every block they nest is collapsed in turn.
func rewriteOneConditional(text string) (string, bool, error) {
	lines := strings.Split(text, "\n")

	var headerIdxs []int
	for i, line := range lines {
		if condHeaderRE.MatchString(strings.TrimSpace(line)) {
			headerIdxs = append(headerIdxs, i)
		}
	}
	if len(headerIdxs) == 0 {
		return text, false, nil
	}

	var headerIdx, elseIdx, endIdx int
	found := false
	for _, h := range headerIdxs {
		e, n, err := blockSpan(lines, h)
		if err != nil {
			return "", false, err
		}
		leaf := true
		for i := h + 1; i < n; i++ {
			if i != e && condHeaderRE.MatchString(strings.TrimSpace(lines[i])) {
				leaf = false
				break
			}
		}
		if leaf {
			headerIdx, elseIdx, endIdx = h, e, n
			found = true
			break
		}
	}
	if !found {
		return "", false, fmt.Errorf("%w: could not resolve nested conditional structure", ErrMalformedConditional)
	}

	m := condHeaderRE.FindStringSubmatch(strings.TrimSpace(lines[headerIdx]))
	lhs, cmp, rhs := strings.TrimSpace(m[1]), m[2], strings.TrimSpace(m[3])

	if cmp == "<" && strings.Contains(lines[headerIdx], "=<") {
		return "", false, fmt.Errorf("%w: \"=<\" is not a valid comparator", ErrBadComparator)
	}
	if cmp == ">" && strings.Contains(lines[headerIdx], "=>") {
		return "", false, fmt.Errorf("%w: \"=>\" is not a valid comparator", ErrBadComparator)
	}
	code, ok := comparatorCodes[cmp]
	if !ok {
		return "", false, fmt.Errorf("%w: unrecognized comparator %q", ErrBadComparator, cmp)
	}

	body1 := residualize(strings.Join(lines[headerIdx+1:elseIdx], "\n"))
	body2 := residualize(strings.Join(lines[elseIdx+1:endIdx], "\n"))

	replacement := fmt.Sprintf("cond(%s, %d, %s, %s, %s) = 0", lhs, code, rhs, body1, body2)

	var out []string
	out = append(out, lines[:headerIdx]...)
	out = append(out, replacement)
	out = append(out, lines[endIdx+1:]...)
	return strings.Join(out, "\n"), true, nil
}

// residualize trims a conditional body and, if it is itself an
// equation, rewrites it to residual form; bodies without '=' are used
// verbatim (matching the original's treatment of non-equation bodies).
func residualize(body string) string {
	body = strings.TrimSpace(body)
	if !strings.Contains(body, "=") {
		return body
	}
	parts := strings.SplitN(body, "=", 2)
	return fmt.Sprintf("%s - (%s)", strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
}
