// Copyright 2026 The NN-Dataflow Authors. SPDX-License-Identifier: Apache-2.0

// Package loopblocking evaluates one candidate loop blocking scheme of a
// neural-network layer mapped onto an accelerator with a DRAM → GBUF → REGF
// memory hierarchy.
//
// A scheme tiles the three logical loops of a layer (input feature maps,
// output feature maps, batch) into three blocking factors each, one per
// boundary of the hierarchy, and picks a loop nesting order at each on-chip
// blocking level:
//
//	for ti[0]/to[0]/tb[0]
//	  // The loop order above determines the accesses to DRAM.
//	  // ------ boundary of DRAM and GBUF levels ------
//	  // Data ranges below are buffered in GBUF.
//	  for ti[1]/to[1]/tb[1]
//	    // The loop order above determines the accesses to GBUF.
//	    // ------ boundary of GBUF and REGF levels ------
//	    // Data ranges below are buffered in REGF.
//	    for ti[2]/to[2]/tb[2]
//
// New constructs a Scheme and resolves capacity feasibility and GBUF
// residency; statistics (operations, time, per-level accesses, cost) are then
// computed lazily and memoized. Capacity infeasibility is a normal outcome,
// never an error: an invalid Scheme answers every query with a cheap sentinel
// (nil tables, +Inf cost, empty index sequence) so a search driver can
// discard it without branching on errors. Malformed inputs, by contrast, are
// caller bugs and panic.
//
// A Scheme is immutable after construction except for the one-shot partition
// occupancy and the memoized statistics, so distinct Schemes sharing the same
// input records can be evaluated concurrently.
package loopblocking

import (
	"sync"
	"sync/atomic"

	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/Huster-SC/nn-dataflow/model"
	"github.com/Huster-SC/nn-dataflow/pkg/support/xslices"
	"github.com/Huster-SC/nn-dataflow/types/loops"
)

// NumTileLevels is the number of tiling factors per loop kind: one per
// on-chip blocking level plus the innermost (REGF to compute) level.
const NumTileLevels = loops.NumBlockLevels + 1

// Scheme is one candidate loop blocking scheme, with its derived buffering,
// fetch and cost figures. Create it with New.
type Scheme struct {
	// t are the tiling factors, indexed by loop kind then tile level
	// (outermost first).
	t [loops.NumLoopKinds][NumTileLevels]int
	// orders are the loop nesting orders at the two on-chip blocking levels.
	orders [loops.NumBlockLevels]loops.Order
	// tp is the per-kind product of all tiling factors, i.e. the total
	// iteration count of the loop kind.
	tp [loops.NumLoopKinds]int

	unitSize [loops.NumBlockLevels][loops.NumDataCategories]int
	unitCnt  [loops.NumBlockLevels][loops.NumDataCategories]int
	fetch    [loops.NumBlockLevels][loops.NumDataCategories]int

	// storedInGbuf is monotonic: a category may flip from bypassed to
	// resident when fetch counts show residency reduces DRAM traffic,
	// never back.
	storedInGbuf [loops.NumDataCategories]bool

	valid bool

	unitOps    float64
	unitTime   float64
	unitAccess [loops.NumMemLevels][loops.NumDataCategories]float64

	// partOcc scales op counts and REGF accesses only. Settable until the
	// statistics are finalized.
	partOcc float64

	statsOnce sync.Once
	finalized atomic.Bool
	ops       float64
	time      float64
	access    [loops.NumMemLevels][loops.NumDataCategories]float64
}

// New constructs the loop blocking scheme with tiling factors ti, to and tb
// for the ifm, ofm and bat loops, and the given loop orders at the two
// on-chip blocking levels.
//
// Each factor sequence has NumTileLevels elements, outermost first, and its
// product must cover the descriptor's required iteration count (factors may
// overprovision when the count does not divide evenly). Violations of these
// contracts panic: they indicate a bug in the candidate generator.
//
// Capacity infeasibility does not panic; it yields a Scheme whose IsValid
// reports false.
func New(desc *model.NestedLoopDesc, ti, to, tb []int,
	orders [loops.NumBlockLevels]loops.Order,
	res model.Resource, opts model.Options) *Scheme {
	s := &Scheme{partOcc: 1}

	factors := [loops.NumLoopKinds][]int{
		loops.LoopIfm: ti, loops.LoopOfm: to, loops.LoopBat: tb}
	for k := loops.LoopKind(0); k < loops.NumLoopKinds; k++ {
		tx := factors[k]
		if len(tx) != NumTileLevels {
			exceptions.Panicf("loopblocking: wrong number of %s tiling factors: got %d, want %d",
				k, len(tx), NumTileLevels)
		}
		copy(s.t[k][:], tx)
		s.tp[k] = xslices.Prod(tx)
		if s.tp[k] < desc.LoopCnt[k] {
			exceptions.Panicf("loopblocking: invalid blocking for %s: factors %v cover %d < %d iterations",
				k, tx, s.tp[k], desc.LoopCnt[k])
		}
	}

	for bl := loops.BlockLevel(0); bl < loops.NumBlockLevels; bl++ {
		if err := orders[bl].Check(); err != nil {
			exceptions.Panicf("loopblocking: order at %s level: %v", bl, err)
		}
		s.orders[bl] = orders[bl]
		s.unitSize[bl] = desc.Usize(bl)
	}

	s.setUnitCnt()

	// Conservative residency: bypass-eligible categories start excluded
	// from GBUF sizing, the rest are always resident.
	for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
		s.storedInGbuf[c] = !opts.SwGbufBypass[c]
	}

	if s.DataSize(loops.BlockRegf) > res.SizeRegf ||
		s.DataSize(loops.BlockGbuf) > res.SizeGbuf {
		klog.V(2).Infof("loopblocking: scheme infeasible on first capacity check: "+
			"regf %d/%d, gbuf %d/%d",
			s.DataSize(loops.BlockRegf), res.SizeRegf,
			s.DataSize(loops.BlockGbuf), res.SizeGbuf)
		s.valid = false
		return s
	}
	s.valid = true

	s.setFetch()

	// With the fetch counts known, a bypass-eligible category becomes
	// resident iff residency strictly reduces traffic to DRAM.
	for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
		if s.storedInGbuf[c] {
			continue
		}
		if s.fetch[loops.BlockGbuf][c] < s.fetch[loops.BlockRegf][c] {
			s.storedInGbuf[c] = true
			klog.V(2).Infof("loopblocking: storing %s in gbuf: %d gbuf fetches < %d regf fetches",
				c, s.fetch[loops.BlockGbuf][c], s.fetch[loops.BlockRegf][c])
		}
	}

	// Residency grew GBUF usage; recheck.
	if s.DataSize(loops.BlockRegf) > res.SizeRegf ||
		s.DataSize(loops.BlockGbuf) > res.SizeGbuf {
		klog.V(2).Infof("loopblocking: scheme infeasible after residency resolution: "+
			"regf %d/%d, gbuf %d/%d",
			s.DataSize(loops.BlockRegf), res.SizeRegf,
			s.DataSize(loops.BlockGbuf), res.SizeGbuf)
		s.valid = false
		return s
	}

	s.unitOps = desc.UnitOps
	s.unitTime = desc.UnitTime
	s.unitAccess = desc.UnitAccess

	return s
}

// IsValid reports whether the scheme fits the hardware buffer capacities.
// An invalid scheme answers every other query with a sentinel.
func (s *Scheme) IsValid() bool {
	return s.valid
}

// DataSizeOf returns the buffered data size of one category at the given
// blocking level. A bypassed category occupies no GBUF space.
func (s *Scheme) DataSizeOf(bl loops.BlockLevel, c loops.DataCategory) int {
	size := s.unitCnt[bl][c] * s.unitSize[bl][c]
	if bl == loops.BlockGbuf && !s.storedInGbuf[c] {
		return 0
	}
	return size
}

// DataSize returns the total buffered data size at the given blocking level,
// summed over all data categories.
func (s *Scheme) DataSize(bl loops.BlockLevel) int {
	total := 0
	for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
		total += s.DataSizeOf(bl, c)
	}
	return total
}

// StoredInGbuf reports whether the category is resident in GBUF. Residency
// is monotonic: a category bypassed at construction may become resident
// during residency resolution, never the reverse.
func (s *Scheme) StoredInGbuf(c loops.DataCategory) bool {
	return s.storedInGbuf[c]
}

// SetPartitionOccupancy sets the compute occupancy under the external
// partitioning scheme, in (0, 1]. Occupancy scales op counts and REGF
// accesses only.
//
// It is a no-op on an invalid scheme. Calling it after the statistics have
// been finalized, or with a value outside (0, 1], is a programmer error and
// panics.
func (s *Scheme) SetPartitionOccupancy(occ float64) {
	if !s.valid {
		return
	}
	if s.finalized.Load() {
		exceptions.Panicf("loopblocking: SetPartitionOccupancy(%g) after statistics were finalized", occ)
	}
	if !(occ > 0 && occ <= 1) {
		exceptions.Panicf("loopblocking: partition occupancy must be in (0, 1], got %g", occ)
	}
	s.partOcc = occ
}

// PartitionOccupancy returns the current occupancy, 1 unless set.
func (s *Scheme) PartitionOccupancy() float64 {
	return s.partOcc
}
