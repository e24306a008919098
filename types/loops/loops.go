// Copyright 2026 The NN-Dataflow Authors. SPDX-License-Identifier: Apache-2.0

// Package loops defines the closed enumerations of the loop blocking domain:
// the three logical loop dimensions of a convolutional layer (LoopKind), the
// three data categories moved through the memory hierarchy (DataCategory),
// the memory hierarchy levels (MemLevel), the two on-chip blocking levels
// (BlockLevel), and the per-level loop nesting Order.
//
// The hierarchy is fixed: DRAM is external memory, GBUF is the intermediate
// on-chip buffer, REGF is the compute-local register file. Exactly two
// blocking levels exist; several formulas in the loopblocking package depend
// on that, so BlockLevel is a closed two-member enum rather than a list.
package loops

// LoopKind identifies one of the three logical loop dimensions of a layer.
type LoopKind int

//go:generate go tool enumer -type=LoopKind -trimprefix=Loop -output=gen_loopkind_enumer.go loops.go

const (
	// LoopIfm iterates over input feature maps.
	LoopIfm LoopKind = iota
	// LoopOfm iterates over output feature maps.
	LoopOfm
	// LoopBat iterates over batch samples.
	LoopBat
)

// NumLoopKinds is the number of loop kinds. Valid LoopKind values are
// 0 to NumLoopKinds-1.
const NumLoopKinds = 3

// DataCategory identifies one of the three data categories of a layer.
type DataCategory int

//go:generate go tool enumer -type=DataCategory -trimprefix=Data -output=gen_datacategory_enumer.go loops.go

const (
	// DataFil is the filter (weight) data.
	DataFil DataCategory = iota
	// DataIfm is the input feature map data.
	DataIfm
	// DataOfm is the output feature map data.
	DataOfm
)

// NumDataCategories is the number of data categories.
const NumDataCategories = 3

// Loops returns the two loop kinds a data category depends on: a buffered
// unit of the category is addressed by exactly these two loop indices.
func (d DataCategory) Loops() [2]LoopKind {
	switch d {
	case DataFil:
		return [2]LoopKind{LoopIfm, LoopOfm}
	case DataIfm:
		return [2]LoopKind{LoopIfm, LoopBat}
	case DataOfm:
		return [2]LoopKind{LoopOfm, LoopBat}
	}
	panic("loops: invalid DataCategory")
}

// UnrelatedLoop returns the one loop kind a data category does not depend
// on. Iterating that loop revisits the same data of the category.
func (d DataCategory) UnrelatedLoop() LoopKind {
	switch d {
	case DataFil:
		return LoopBat
	case DataIfm:
		return LoopOfm
	case DataOfm:
		return LoopIfm
	}
	panic("loops: invalid DataCategory")
}

// MemLevel identifies a memory hierarchy level, outermost first.
type MemLevel int

//go:generate go tool enumer -type=MemLevel -trimprefix=Mem -output=gen_memlevel_enumer.go loops.go

const (
	// MemDRAM is the external memory.
	MemDRAM MemLevel = iota
	// MemGbuf is the on-chip global buffer.
	MemGbuf
	// MemItcn is the interconnect between the global buffer and the
	// register files.
	MemItcn
	// MemRegf is the compute-local register file.
	MemRegf
)

// NumMemLevels is the number of memory hierarchy levels.
const NumMemLevels = 4

// BlockLevel identifies an on-chip loop blocking level. There are exactly
// two: BlockGbuf sits at the DRAM/GBUF boundary and BlockRegf at the
// GBUF/REGF boundary. BlockGbuf is outer, BlockRegf inner.
type BlockLevel int

//go:generate go tool enumer -type=BlockLevel -trimprefix=Block -output=gen_blocklevel_enumer.go loops.go

const (
	// BlockGbuf is the blocking level whose loop body is buffered in GBUF.
	BlockGbuf BlockLevel = iota
	// BlockRegf is the blocking level whose loop body is buffered in REGF.
	BlockRegf
)

// NumBlockLevels is the number of on-chip blocking levels.
const NumBlockLevels = 2
