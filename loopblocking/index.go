// Copyright 2026 The NN-Dataflow Authors. SPDX-License-Identifier: Apache-2.0

package loopblocking

import (
	"iter"

	"github.com/Huster-SC/nn-dataflow/types/loops"
)

// Index is one global iteration point, indexed by loops.LoopKind: the ifm,
// ofm and bat indices of a single innermost iteration.
type Index [loops.NumLoopKinds]int

// Indices returns the sequence of (ifm, ofm, bat) index triples in the exact
// order a real execution of the blocked nested loops visits them. It yields
// one triple per global iteration, tip*top*tbp in total, covering the full
// rectangular range with no gaps or repeats.
//
// The sequence is empty if the scheme is invalid. It is lazy and single-pass;
// ranging over it again restarts from the beginning.
func (s *Scheme) Indices() iter.Seq[Index] {
	return func(yield func(Index) bool) {
		if !s.valid {
			return
		}

		// One sub-sequence per tile level, outermost first. The innermost
		// level has no order choice left: its fixed order runs the ifm
		// loop innermost.
		gbuf := levelIndices(s.levelFactors(0), s.orders[loops.BlockGbuf])
		regf := levelIndices(s.levelFactors(1), s.orders[loops.BlockRegf])
		inner := levelIndices(s.levelFactors(2), loops.MakeOrder(0, 1, 2))

		// A level's counter advances in strides of the factors inside it.
		var stride [NumTileLevels][loops.NumLoopKinds]int
		for lvl := 0; lvl < NumTileLevels; lvl++ {
			for k := loops.LoopKind(0); k < loops.NumLoopKinds; k++ {
				stride[lvl][k] = s.innerProd(k, lvl)
			}
		}

		for i0 := range gbuf {
			for i1 := range regf {
				for i2 := range inner {
					var idx Index
					for k := loops.LoopKind(0); k < loops.NumLoopKinds; k++ {
						idx[k] = i0[k]*stride[0][k] + i1[k]*stride[1][k] + i2[k]*stride[2][k]
					}
					if !yield(idx) {
						return
					}
				}
			}
		}
	}
}

// levelFactors returns the three tiling factors of one tile level, indexed
// by loop kind.
func (s *Scheme) levelFactors(lvl int) [loops.NumLoopKinds]int {
	var t [loops.NumLoopKinds]int
	for k := loops.LoopKind(0); k < loops.NumLoopKinds; k++ {
		t[k] = s.t[k][lvl]
	}
	return t
}

// levelIndices enumerates the loop counters of a single tile level in the
// nesting order given: the loop at the highest position varies slowest. The
// sequence restarts on every range.
func levelIndices(t [loops.NumLoopKinds]int, order loops.Order) iter.Seq[Index] {
	outer := order.KindAt(2)
	mid := order.KindAt(1)
	inner := order.KindAt(0)
	return func(yield func(Index) bool) {
		var idx Index
		for a := 0; a < t[outer]; a++ {
			idx[outer] = a
			for b := 0; b < t[mid]; b++ {
				idx[mid] = b
				for c := 0; c < t[inner]; c++ {
					idx[inner] = c
					if !yield(idx) {
						return
					}
				}
			}
		}
	}
}
