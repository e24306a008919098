// Copyright 2026 The NN-Dataflow Authors. SPDX-License-Identifier: Apache-2.0

package loopblocking

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Huster-SC/nn-dataflow/model"
	"github.com/Huster-SC/nn-dataflow/types/loops"
)

// totalUnits returns the total number of data units of each category across
// the whole layer: the product of the total iteration counts of the
// category's two related loops.
func (s *Scheme) totalUnits() [loops.NumDataCategories]int {
	var tu [loops.NumDataCategories]int
	for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
		rel := c.Loops()
		tu[c] = s.tp[rel[0]] * s.tp[rel[1]]
	}
	return tu
}

// finalizeStats computes the lazy statistics exactly once. After the first
// call the statistics are immutable and safe for concurrent readers.
func (s *Scheme) finalizeStats() {
	s.statsOnce.Do(func() {
		totalUnits := s.totalUnits()
		lcnt := s.tp[loops.LoopIfm] * s.tp[loops.LoopOfm] * s.tp[loops.LoopBat]

		s.ops = s.unitOps * float64(lcnt) * s.partOcc
		// Time is a static pipeline cost, not scaled by occupancy.
		s.time = s.unitTime * float64(lcnt)

		// REGF accesses happen once per iteration for Fil and Ifm, and
		// twice for Ofm (read-modify-write accumulation).
		rmw := [loops.NumDataCategories]float64{
			loops.DataFil: 1, loops.DataIfm: 1, loops.DataOfm: 2}
		for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
			s.access[loops.MemRegf][c] = s.unitAccess[loops.MemRegf][c] *
				float64(lcnt) * s.partOcc * rmw[c]

			s.access[loops.MemItcn][c] = s.unitAccess[loops.MemItcn][c] *
				float64(totalUnits[c]) * float64(s.fetch[loops.BlockRegf][c])

			if s.storedInGbuf[c] {
				s.access[loops.MemGbuf][c] = s.unitAccess[loops.MemGbuf][c] *
					float64(totalUnits[c]) * float64(s.fetch[loops.BlockRegf][c])
			}

			s.access[loops.MemDRAM][c] = s.unitAccess[loops.MemDRAM][c] *
				float64(totalUnits[c]) * float64(s.fetch[loops.BlockGbuf][c])
		}

		s.finalized.Store(true)
	})
}

// Access returns the number of accesses of each data category to each memory
// hierarchy level, or nil if the scheme is invalid. The returned table is a
// copy.
func (s *Scheme) Access() *[loops.NumMemLevels][loops.NumDataCategories]float64 {
	if !s.valid {
		return nil
	}
	s.finalizeStats()
	access := s.access
	return &access
}

// TopLevelFetch returns the per-category fetch counts at the boundary to
// DRAM, the outermost and most expensive hierarchy level, or nil if the
// scheme is invalid.
func (s *Scheme) TopLevelFetch() *[loops.NumDataCategories]int {
	if !s.valid {
		return nil
	}
	s.finalizeStats()
	fetch := s.fetch[loops.BlockGbuf]
	return &fetch
}

// Cost returns the total cost of the scheme under the given cost model, or
// +Inf if the scheme is invalid.
func (s *Scheme) Cost(cost model.Cost) float64 {
	if !s.valid {
		return math.Inf(1)
	}
	s.finalizeStats()

	c := s.ops * cost.MacOp
	for lvl := loops.MemLevel(0); lvl < loops.NumMemLevels; lvl++ {
		levelTotal := 0.0
		for cat := loops.DataCategory(0); cat < loops.NumDataCategories; cat++ {
			levelTotal += s.access[lvl][cat]
		}
		c += cost.MemHier[lvl] * levelTotal
	}
	c += s.time * cost.UnitStatic
	return c
}

// Summary is a structured snapshot of a finalized scheme.
type Summary struct {
	Ops    float64
	Time   float64
	Access [loops.NumMemLevels][loops.NumDataCategories]float64
	Fetch  [loops.NumBlockLevels][loops.NumDataCategories]int

	Size     [loops.NumBlockLevels][loops.NumDataCategories]int
	UnitSize [loops.NumBlockLevels][loops.NumDataCategories]int
	UnitCnt  [loops.NumBlockLevels][loops.NumDataCategories]int

	PartOcc float64

	TI     [NumTileLevels]int
	TO     [NumTileLevels]int
	TB     [NumTileLevels]int
	Orders [loops.NumBlockLevels]loops.Order
}

// Summary finalizes the statistics and returns their snapshot, or nil if the
// scheme is invalid.
func (s *Scheme) Summary() *Summary {
	if !s.valid {
		return nil
	}
	s.finalizeStats()

	sum := &Summary{
		Ops:      s.ops,
		Time:     s.time,
		Access:   s.access,
		Fetch:    s.fetch,
		UnitSize: s.unitSize,
		UnitCnt:  s.unitCnt,
		PartOcc:  s.partOcc,
		TI:       s.t[loops.LoopIfm],
		TO:       s.t[loops.LoopOfm],
		TB:       s.t[loops.LoopBat],
		Orders:   s.orders,
	}
	for bl := loops.BlockLevel(0); bl < loops.NumBlockLevels; bl++ {
		for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
			sum.Size[bl][c] = s.DataSizeOf(bl, c)
		}
	}
	return sum
}

// String renders the summary for humans, one blocking level per line.
func (sum *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ops=%s time=%s occ=%g\n",
		humanize.SIWithDigits(sum.Ops, 3, ""), humanize.SIWithDigits(sum.Time, 3, ""), sum.PartOcc)
	fmt.Fprintf(&b, "ti=%v to=%v tb=%v\n", sum.TI, sum.TO, sum.TB)
	for bl := loops.BlockLevel(0); bl < loops.NumBlockLevels; bl++ {
		size := 0
		for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
			size += sum.Size[bl][c]
		}
		fmt.Fprintf(&b, "%s: order=%s size=%s fetch=%v\n",
			bl, sum.Orders[bl], humanize.Comma(int64(size)), sum.Fetch[bl])
	}
	for lvl := loops.MemLevel(0); lvl < loops.NumMemLevels; lvl++ {
		total := 0.0
		for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
			total += sum.Access[lvl][c]
		}
		fmt.Fprintf(&b, "access[%s]=%s\n", lvl, humanize.SIWithDigits(total, 3, ""))
	}
	return b.String()
}
