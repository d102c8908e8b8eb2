// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package variable implements the Variable value type: a real number
// optionally clamped to a closed interval, with copy (not reference)
// semantics so that sharing a Variable between components never
// aliases mutation.
//
// Grounded in original_source/src/algos/structs.rs's Variable struct
// (fields value/domain, methods new/change/change_domain/step/as_f64),
// translated from Rust's explicit ownership into Go's plain value
// semantics: methods that mutate take a pointer receiver, everything
// else is passed and returned by value.
package variable

// Domain is a closed interval [Lo, Hi].
type Domain struct {
	Lo, Hi float64
}

// Variable is a real value with an optional clamped Domain.
type Variable struct {
	value  float64
	domain *Domain
}

// New creates a Variable with the given value and optional domain. A
// value outside the domain is clamped immediately, matching Assign's
// contract.
func New(value float64, domain *Domain) Variable {
	v := Variable{value: value, domain: domain}
	v.Assign(value)
	return v
}

// Value returns the current value.
func (v Variable) Value() float64 {
	return v.value
}

// HasDomain reports whether v carries a domain restriction.
func (v Variable) HasDomain() bool {
	return v.domain != nil
}

// GetDomain returns the variable's domain and whether one is set.
func (v Variable) GetDomain() (Domain, bool) {
	if v.domain == nil {
		return Domain{}, false
	}
	return *v.domain, true
}

// WithDomain returns a copy of v with its domain replaced (or cleared,
// if d is nil). This mirrors change_domain in the original, but keeps
// Variable's copy semantics instead of mutating in place.
func (v Variable) WithDomain(d *Domain) Variable {
	v.domain = d
	v.Assign(v.value)
	return v
}

// Assign sets the value, clamping to the domain (if any): an
// out-of-range value snaps to the nearest bound. Invariant: after
// Assign, Lo <= Value() <= Hi whenever a domain is set.
func (v *Variable) Assign(qty float64) {
	if v.domain == nil {
		v.value = qty
		return
	}
	v.value = clamp(qty, v.domain.Lo, v.domain.Hi)
}

// Step adds delta to the value, clamping to the domain (if any) the
// same way Assign does. With or without a domain, Step has the same
// effect as v.Assign(v.Value() + delta); the two are separate methods
// that do not call each other.
func (v *Variable) Step(delta float64) {
	if v.domain == nil {
		v.value += delta
		return
	}
	v.value = clamp(v.value+delta, v.domain.Lo, v.domain.Hi)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
