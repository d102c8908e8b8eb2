// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package units provides the static unit-conversion and named-constant
// tables consumed by the Preprocessor: a two-level quantity-to-unit
// table (quantity -> unit -> factor relative to that quantity's base
// unit), with derived quantities (area, volume, velocity, frequency,
// volumetric flow, power, pressure, dynamic viscosity, energy, spring
// rate) generated at package-init time as products and quotients of
// the base quantities -- and a flat name-to-value constants table.
//
// Grounded in original_source/src/units/mod.rs's raw_unit_data,
// unit_data, generate_num_denom_units, generate_fact_fact_units,
// generate_volume_units, convert, and const_data.
package units

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
)

//go:embed units.json
var rawUnitsJSON []byte

//go:embed consts.json
var rawConstsJSON []byte

// ErrUnknownUnit is returned by Convert when either side names a unit
// absent from every quantity table.
var ErrUnknownUnit = errors.New("units: unknown unit")

// ErrIncompatibleQuantities is returned by Convert when the two units
// named belong to no common quantity.
var ErrIncompatibleQuantities = errors.New("units: units belong to different quantities")

// ErrUnknownConstant is returned by Const when name is absent from the
// constants table.
var ErrUnknownConstant = errors.New("units: unknown constant")

type quantityTable map[string]map[string]float64

var table quantityTable
var constTable map[string]float64

type constEntry struct {
	Doc   string  `json:"doc"`
	Value float64 `json:"value"`
}

func init() {
	var raw quantityTable
	if err := json.Unmarshal(rawUnitsJSON, &raw); err != nil {
		panic(fmt.Sprintf("units: failed to parse units.json: %v", err))
	}
	table = generate(raw)

	var rawConsts map[string]constEntry
	if err := json.Unmarshal(rawConstsJSON, &rawConsts); err != nil {
		panic(fmt.Sprintf("units: failed to parse consts.json: %v", err))
	}
	constTable = make(map[string]float64, len(rawConsts))
	for name, e := range rawConsts {
		constTable[name] = e.Value
	}
}

// generate extends raw with the derived quantities, mirroring the
// fixed call order in original_source/src/units/mod.rs's unit_data.
func generate(data quantityTable) quantityTable {
	data = factFact(data, "AREA", "LENGTH", "LENGTH")
	data = factFact(data, "VISCOSITY-DYNAMIC", "PRESSURE", "TIME")
	data = factFact(data, "ENERGY", "FORCE", "LENGTH")
	data = volume(data)

	data = numDenom(data, "VELOCITY", "LENGTH", "TIME")
	data = numDenom(data, "FREQUENCY", "NON DIMENSIONAL", "TIME")
	data = numDenom(data, "VOLUMETRIC FLOW", "VOLUME", "TIME")
	data = numDenom(data, "POWER", "ENERGY", "TIME")
	data = numDenom(data, "PRESSURE", "FORCE", "AREA")
	data = numDenom(data, "SPRING FORCE", "FORCE", "LENGTH")

	return data
}

// numDenom adds, for every pair of units in num and denom, a
// "<num>/<denom>" unit to qty whose factor is the quotient of the two
// source factors. Mirrors generate_num_denom_units.
func numDenom(data quantityTable, qty, num, denom string) quantityTable {
	dst, ok := data[qty]
	if !ok {
		return data
	}
	for ni, nf := range data[num] {
		for di, df := range data[denom] {
			dst[fmt.Sprintf("%s/%s", ni, di)] = nf / df
		}
	}
	return data
}

// factFact adds, for every pair of units across fc1 and fc2, a
// "<a>-<b>" unit (and its "<b>-<a>" mirror when fc1 != fc2) to qty
// whose factor is the product of the two source factors. When fc1 ==
// fc2 it instead adds a single "<u>^2" unit per source unit. Mirrors
// generate_fact_fact_units.
func factFact(data quantityTable, qty, fc1, fc2 string) quantityTable {
	dst, ok := data[qty]
	if !ok {
		return data
	}
	if fc1 == fc2 {
		for u, f := range data[fc1] {
			dst[fmt.Sprintf("%s^2", u)] = f * f
		}
		return data
	}
	for ai, af := range data[fc1] {
		for bi, bf := range data[fc2] {
			v := af * bf
			dst[fmt.Sprintf("%s-%s", ai, bi)] = v
			dst[fmt.Sprintf("%s-%s", bi, ai)] = v
		}
	}
	return data
}

// volume adds a "<u>^3" unit to VOLUME for every LENGTH unit, with
// factor equal to the square of that unit's length factor -- matching
// original_source/src/units/mod.rs's generate_volume_units exactly,
// cube-in-name but square-in-factor quirk included.
func volume(data quantityTable) quantityTable {
	dst, ok := data["VOLUME"]
	if !ok {
		return data
	}
	for u, f := range data["LENGTH"] {
		dst[fmt.Sprintf("%s^3", u)] = f * f
	}
	return data
}

// Convert returns the factor f such that a quantity measured as
// `x fro` equals `x*f to`. Fails with ErrUnknownUnit if either name is
// absent from every quantity, or ErrIncompatibleQuantities if no
// single quantity contains both.
func Convert(fro, to string) (float64, error) {
	var factor float64
	matches := 0
	fromSeen, toSeen := false, false

	for _, units := range table {
		ff, fok := units[fro]
		tf, tok := units[to]
		if fok {
			fromSeen = true
		}
		if tok {
			toSeen = true
		}
		if fok && tok {
			factor = ff / tf
			matches++
		}
	}

	if !fromSeen || !toSeen {
		return 0, fmt.Errorf("%w: %q / %q", ErrUnknownUnit, fro, to)
	}
	if matches != 1 {
		return 0, fmt.Errorf("%w: %q -> %q", ErrIncompatibleQuantities, fro, to)
	}
	return factor, nil
}

// Const returns the value of a named physical constant.
func Const(name string) (float64, error) {
	v, ok := constTable[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownConstant, name)
	}
	return v, nil
}
