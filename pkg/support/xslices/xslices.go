// Copyright 2026 The NN-Dataflow Authors. SPDX-License-Identifier: Apache-2.0

// Package xslices provides generic slice helpers missing from the standard
// slices package.
package xslices

import (
	"runtime"
	"sync"

	"golang.org/x/exp/constraints"
)

// Prod returns the product of the elements of the slice. It returns 1 for an
// empty slice, so Prod(s[:0]) is a usable neutral element when accumulating
// blocking factors over a prefix of levels.
func Prod[T constraints.Integer | constraints.Float](slice []T) T {
	p := T(1)
	for _, v := range slice {
		p *= v
	}
	return p
}

// Sum returns the sum of the elements of the slice, zero if empty.
func Sum[T constraints.Integer | constraints.Float](slice []T) T {
	var s T
	for _, v := range slice {
		s += v
	}
	return s
}

// Map executes the given function sequentially for every element on in, and returns a mapped slice.
func Map[In, Out any](in []In, fn func(e In) Out) (out []Out) {
	out = make([]Out, len(in))
	for ii, e := range in {
		out[ii] = fn(e)
	}
	return
}

// MapParallel executes the given function for every element of `in` with at most `runtime.NumCPU` goroutines. The
// execution order is not guaranteed, but in the end `out[ii] = fn(in[ii])` for every element.
func MapParallel[In, Out any](in []In, fn func(e In) Out) (out []Out) {
	if len(in) <= 1 {
		return Map(in, fn)
	}
	out = make([]Out, len(in))
	goroutines := runtime.NumCPU()
	if goroutines > len(in) {
		goroutines = len(in)
	}
	indices := make(chan int, goroutines)
	var wg sync.WaitGroup
	for ii := 0; ii < goroutines; ii++ {
		wg.Add(1)
		go func() {
			for ii := range indices {
				out[ii] = fn(in[ii])
			}
			wg.Done()
		}()
	}
	for ii := 0; ii < len(in); ii++ {
		indices <- ii
	}
	close(indices)
	wg.Wait()
	return
}
