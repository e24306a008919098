// Copyright 2026 The NN-Dataflow Authors. SPDX-License-Identifier: Apache-2.0

package loops

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Order assigns each loop kind a nesting position at one blocking level.
// It is indexed by LoopKind, and position 0 is the innermost loop: smaller
// position means the loop moves faster.
//
// An Order must be a permutation of 0..NumLoopKinds-1, so it is a
// bidirectional mapping: Position goes from loop kind to position, KindAt
// from position back to loop kind.
type Order [NumLoopKinds]int

// MakeOrder returns the Order with the given positions for the ifm, ofm and
// bat loops. It panics if the positions are not a permutation of
// 0..NumLoopKinds-1; use CheckOrder to validate untrusted input first.
func MakeOrder(ifmPos, ofmPos, batPos int) Order {
	o := Order{LoopIfm: ifmPos, LoopOfm: ofmPos, LoopBat: batPos}
	if err := o.Check(); err != nil {
		exceptions.Panicf("loops.MakeOrder(%d, %d, %d): %v", ifmPos, ofmPos, batPos, err)
	}
	return o
}

// Check returns an error if the order is not a permutation of
// 0..NumLoopKinds-1.
func (o Order) Check() error {
	// Format positions as a plain array: String() needs a valid permutation.
	var seen [NumLoopKinds]bool
	for k := LoopKind(0); k < NumLoopKinds; k++ {
		pos := o[k]
		if pos < 0 || pos >= NumLoopKinds {
			return errors.Errorf("order %v: position %d of loop %s out of range", [NumLoopKinds]int(o), pos, k)
		}
		if seen[pos] {
			return errors.Errorf("order %v: position %d assigned twice", [NumLoopKinds]int(o), pos)
		}
		seen[pos] = true
	}
	return nil
}

// Position returns the nesting position of the given loop kind.
// Position 0 is innermost.
func (o Order) Position(k LoopKind) int {
	return o[k]
}

// KindAt returns the loop kind at the given nesting position, the inverse
// of Position. It panics if the order is not a permutation.
func (o Order) KindAt(pos int) LoopKind {
	for k := LoopKind(0); k < NumLoopKinds; k++ {
		if o[k] == pos {
			return k
		}
	}
	exceptions.Panicf("loops.Order(%v).KindAt(%d): no loop at position", [NumLoopKinds]int(o), pos)
	panic("unreachable")
}

// String lists the loops from outermost to innermost, e.g. "Bat>Ofm>Ifm".
func (o Order) String() string {
	parts := make([]string, 0, NumLoopKinds)
	for pos := NumLoopKinds - 1; pos >= 0; pos-- {
		parts = append(parts, o.KindAt(pos).String())
	}
	return strings.Join(parts, ">")
}

// GoString implements fmt.GoStringer for readable test failures.
func (o Order) GoString() string {
	return fmt.Sprintf("loops.MakeOrder(%d, %d, %d)", o[LoopIfm], o[LoopOfm], o[LoopBat])
}
