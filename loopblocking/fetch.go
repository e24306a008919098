// Copyright 2026 The NN-Dataflow Authors. SPDX-License-Identifier: Apache-2.0

package loopblocking

import (
	"github.com/Huster-SC/nn-dataflow/pkg/support/xslices"
	"github.com/Huster-SC/nn-dataflow/types/loops"
)

// innerProd returns the product of the tiling factors of loop kind k at all
// tile levels strictly inside lvl (closer to compute).
func (s *Scheme) innerProd(k loops.LoopKind, lvl int) int {
	return xslices.Prod(s.t[k][lvl+1:])
}

// outerProd returns the product of the tiling factors of loop kind k at the
// tile levels [0, lvl), outermost first.
func (s *Scheme) outerProd(k loops.LoopKind, lvl int) int {
	return xslices.Prod(s.t[k][:lvl])
}

// setUnitCnt fills the buffered unit counts for all data categories at both
// blocking levels.
//
// A buffer at a level must hold every unit touched by the loops strictly
// inside it before the next refill from outside, so the unit count of a
// category is the product of the inner factors of its two related loops.
func (s *Scheme) setUnitCnt() {
	for bl := loops.BlockLevel(0); bl < loops.NumBlockLevels; bl++ {
		lvl := int(bl)
		for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
			rel := c.Loops()
			s.unitCnt[bl][c] = s.innerProd(rel[0], lvl) * s.innerProd(rel[1], lvl)
		}
	}
}

// setFetch fills the data fetch counts for all data categories at both
// blocking levels. The fetch count at a level counts transfers from the next
// outer hierarchy level: fetches at the GBUF level access DRAM, fetches at
// the REGF level access GBUF.
//
// The GBUF level must be computed first: when a level introduces no new data
// for a category, its fetch count is inherited from the outer level.
func (s *Scheme) setFetch() {
	s.fetchLevel(loops.BlockGbuf)
	s.fetchLevel(loops.BlockRegf)
}

// fetchLevel computes the fetch counts at one blocking level, assuming the
// outer level (if any) is already done.
//
// Each category has two related loops and one unrelated loop. When the
// unrelated loop is the innermost non-trivial loop at this level, its
// consecutive iterations reuse the category's data while it stays buffered,
// so this level's own unrelated factor does not multiply the fetch count.
// When a related loop moves innermost instead, the data changes under every
// unrelated iteration and the factor does count as outer repetition.
func (s *Scheme) fetchLevel(bl loops.BlockLevel) {
	lvl := int(bl)
	innermost, hasNontrivial := s.innermostNontrivialLoop(bl)

	for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
		rel := c.Loops()
		unrel := c.UnrelatedLoop()

		if s.t[rel[0]][lvl]*s.t[rel[1]][lvl] == 1 {
			// This level introduces no new data for the category; the
			// fetch count carries over from the outer level.
			if bl > 0 {
				s.fetch[bl][c] = s.fetch[bl-1][c]
			} else {
				s.fetch[bl][c] = 1
			}
			continue
		}

		stop := lvl
		if !hasNontrivial || innermost != unrel {
			stop = lvl + 1
		}
		prod := s.outerProd(unrel, stop)

		if c == loops.DataOfm {
			// Output accumulation is a read-modify-write per repetition,
			// except the very first read which a zero-initialization
			// replaces.
			s.fetch[bl][c] = 2*prod - 1
		} else {
			s.fetch[bl][c] = prod
		}
	}
}

// innermostNontrivialLoop returns the loop kind with the smallest nesting
// position at the given blocking level among loops whose factor there is
// greater than 1. Loops with factor 1 contribute no real nesting. The second
// result is false when all three factors are 1.
func (s *Scheme) innermostNontrivialLoop(bl loops.BlockLevel) (loops.LoopKind, bool) {
	lvl := int(bl)
	order := s.orders[bl]
	found := false
	var best loops.LoopKind
	for k := loops.LoopKind(0); k < loops.NumLoopKinds; k++ {
		if s.t[k][lvl] == 1 {
			continue
		}
		if !found || order.Position(k) < order.Position(best) {
			best = k
			found = true
		}
	}
	return best, found
}
