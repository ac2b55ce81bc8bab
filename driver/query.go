// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// QueryType identifies the kind of query a QueryPool collects.
type QueryType int

// Query types.
const (
	QueryTimestamp QueryType = iota
	QueryOcclusion
	QueryPipelineStats
)

// QueryPool is the interface that defines a pool of GPU
// queries, as created by GPU.NewQueryPool. Timestamp pools
// allocate two slots per requested count (begin at 2i, end at
// 2i+1); the other kinds allocate one slot per count.
type QueryPool interface {
	Destroyer

	// Type returns the kind of query the pool collects.
	Type() QueryType

	// Count returns the query count the pool was created
	// with, not the number of slots backing it.
	Count() int

	// Results reads back the results of the query slots
	// [start, start+count); for timestamp pools the valid
	// range is [0, 2*Count()). It blocks until the results
	// are available.
	Results(start, count int) ([]uint64, error)
}

// SigKind identifies the argument layout a CommandSignature
// describes.
type SigKind int

// Indirect-argument kinds.
const (
	SigDraw SigKind = iota
	SigDrawIndexed
	SigDispatch
)

// CommandSignature describes the layout of a single indirect
// draw/dispatch argument, used by CmdBuffer.DrawIndirectCount.
type CommandSignature struct {
	Kind SigKind

	// Stride is rounded up to 16 bytes unless Packed is set.
	Stride int
	Packed bool
}
