// Copyright 2026 The NN-Dataflow Authors. SPDX-License-Identifier: Apache-2.0

// Package model defines the external input records of the loop blocking
// evaluation: the per-layer nested loop descriptor, the hardware resource
// descriptor, the search options and the cost model.
//
// All records are plain read-only values, safe to share across any number of
// concurrently evaluated schemes. The loopblocking package treats them as
// opaque: it never mutates them and never parses anything into them.
package model

import (
	"github.com/pkg/errors"

	"github.com/Huster-SC/nn-dataflow/types/loops"
)

// NestedLoopDesc describes the nested loops of one layer and the unit costs
// of one innermost loop iteration.
type NestedLoopDesc struct {
	// LoopCnt is the required iteration count per loop kind.
	LoopCnt [loops.NumLoopKinds]int

	// UsizeGbuf and UsizeRegf are the buffered data sizes of a single unit
	// per data category, at the GBUF and REGF levels respectively, in the
	// same capacity units as Resource.
	UsizeGbuf [loops.NumDataCategories]int
	UsizeRegf [loops.NumDataCategories]int

	// UnitOps is the number of arithmetic operations of one unit.
	UnitOps float64
	// UnitTime is the execution time of one unit.
	UnitTime float64

	// UnitAccess is the number of accesses of one unit to each memory
	// hierarchy level, per data category.
	UnitAccess [loops.NumMemLevels][loops.NumDataCategories]float64
}

// NewNestedLoopDesc returns a descriptor after validating that all loop
// counts are positive and all unit sizes non-negative.
func NewNestedLoopDesc(loopCnt [loops.NumLoopKinds]int,
	usizeGbuf, usizeRegf [loops.NumDataCategories]int,
	unitOps, unitTime float64,
	unitAccess [loops.NumMemLevels][loops.NumDataCategories]float64) (*NestedLoopDesc, error) {
	for k := loops.LoopKind(0); k < loops.NumLoopKinds; k++ {
		if loopCnt[k] <= 0 {
			return nil, errors.Errorf("model: loop count of %s must be positive, got %d", k, loopCnt[k])
		}
	}
	for c := loops.DataCategory(0); c < loops.NumDataCategories; c++ {
		if usizeGbuf[c] < 0 || usizeRegf[c] < 0 {
			return nil, errors.Errorf("model: unit size of %s must be non-negative, got gbuf=%d regf=%d",
				c, usizeGbuf[c], usizeRegf[c])
		}
	}
	if unitOps < 0 || unitTime < 0 {
		return nil, errors.Errorf("model: unit ops (%g) and unit time (%g) must be non-negative", unitOps, unitTime)
	}
	return &NestedLoopDesc{
		LoopCnt:    loopCnt,
		UsizeGbuf:  usizeGbuf,
		UsizeRegf:  usizeRegf,
		UnitOps:    unitOps,
		UnitTime:   unitTime,
		UnitAccess: unitAccess,
	}, nil
}

// Usize returns the per-category unit buffer sizes at the given blocking
// level.
func (d *NestedLoopDesc) Usize(bl loops.BlockLevel) [loops.NumDataCategories]int {
	switch bl {
	case loops.BlockGbuf:
		return d.UsizeGbuf
	case loops.BlockRegf:
		return d.UsizeRegf
	}
	panic("model: invalid BlockLevel")
}

// Resource describes the on-chip buffer capacities of the accelerator, in
// the same units as the descriptor's unit sizes.
type Resource struct {
	SizeGbuf int
	SizeRegf int
}

// Options holds the search options that affect scheme evaluation.
type Options struct {
	// SwGbufBypass permits, per data category, bypassing the GBUF so the
	// category streams straight from DRAM to REGF.
	SwGbufBypass [loops.NumDataCategories]bool
}

// Cost is the cost weighting model applied to a finished scheme.
type Cost struct {
	// MacOp is the cost of one arithmetic operation.
	MacOp float64
	// MemHier is the cost of one access to each memory hierarchy level.
	MemHier [loops.NumMemLevels]float64
	// UnitStatic is the static cost per unit execution time.
	UnitStatic float64
}

// NewCost returns a cost model after validating that all weights are
// non-negative.
func NewCost(macOp float64, memHier [loops.NumMemLevels]float64, unitStatic float64) (Cost, error) {
	if macOp < 0 || unitStatic < 0 {
		return Cost{}, errors.Errorf("model: cost weights must be non-negative, got macOp=%g unitStatic=%g",
			macOp, unitStatic)
	}
	for lvl := loops.MemLevel(0); lvl < loops.NumMemLevels; lvl++ {
		if memHier[lvl] < 0 {
			return Cost{}, errors.Errorf("model: access cost at %s must be non-negative, got %g", lvl, memHier[lvl])
		}
	}
	return Cost{MacOp: macOp, MemHier: memHier, UnitStatic: unitStatic}, nil
}
