// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// Limits exposes the subset of implementation limits that
// callers need to size their own allocations and descriptor
// writes correctly. It is immutable for the lifetime of a GPU.
type Limits struct {
	MaxTextureSize2D   int
	MaxTextureSize3D   int
	MaxTextureLayers   int
	MaxColorAttachments int
	MaxSamples          int

	MinUniformBufOffsetAlign int64
	MinStorageBufOffsetAlign int64
	MaxBufferRange           int64
	MaxUniformBufRange       int64
	MaxStorageBufRange       int64

	MaxDescSets           int
	MaxBoundDescSets       int
	MaxPerStageResources   int
	MaxPushConstantSize    int

	MaxVertexAttribs   int
	MaxVertexBindings  int
	MaxViewports       int

	MaxComputeWorkGroupSize  [3]int
	MaxComputeWorkGroupCount [3]int

	TimestampPeriod float32
}
