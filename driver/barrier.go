// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// ResourceState is a bitset describing how a resource is about to be
// used. It replaces separately specifying a pipeline-synchronization
// scope, a memory-access scope and an image layout: each is derived
// from the bitset by AccessFor/LayoutFor/StageFor.
type ResourceState int

// Resource states.
const (
	StateUndefined ResourceState = 0
	StateCopySrc   ResourceState = 1 << iota
	StateCopyDst
	StateVertexAndConstant
	StateIndex
	StateUnorderedAccess
	StateIndirectArgument
	StateRenderTarget
	StateDepthWrite
	StateDepthRead
	StateShaderResource
	StatePresent
	StateShadingRateSource
	StateAccelStructRead
	StateAccelStructWrite
	StateCommon
)

// Sync is the type of a synchronization scope, derived from a
// ResourceState by StageFor but also usable directly by callers that
// already know the exact pipeline stages they need (e.g. a pure
// compute-to-compute hazard). Vulkan's pipeline-stage flags double as
// shader-stage tags, so Sync is also the type of ShaderFunc.Stages:
// SVertex/SFragment/.../SCompute name the stage a shader entry point
// runs at, while the remaining bits name a barrier's wait/signal
// scope.
type Sync int

// Shader stages.
const (
	SVertex Sync = 1 << iota
	SFragment
	SGeometry
	STessCtrl
	STessEval
	SCompute

	// Synchronization scopes.
	SVertexInput
	SVertexShading
	SFragmentShading
	SComputeShading
	SColorOutput
	SDSOutput
	SDraw
	SResolve
	SCopy
	SGraphics
	SAll
	SNone Sync = 0
)

// Access is the type of a memory access scope, derived from a
// ResourceState by AccessFor.
type Access int

// Memory access scopes.
const (
	AVertexBufRead Access = 1 << iota
	AIndexBufRead
	AColorRead
	AColorWrite
	ADSRead
	ADSWrite
	AResolveRead
	AResolveWrite
	ACopyRead
	ACopyWrite
	AShaderRead
	AShaderWrite
	AIndirectRead
	AAccelRead
	AAccelWrite
	AAnyRead
	AAnyWrite
	ANone Access = 0
)

// Layout is the type of an image layout, derived from a
// ResourceState by LayoutFor.
type Layout int

// Image layouts.
const (
	LUndefined Layout = iota
	LCommon
	LColorTarget
	LDSTarget
	LDSRead
	LResolveSrc
	LResolveDst
	LCopySrc
	LCopyDst
	LShaderRead
	LPresent
	LShadingRate
)

// AccessFor returns the union of the per-bit Vulkan-style access
// flags implied by s.
func AccessFor(s ResourceState) Access {
	var a Access
	if s&StateCopySrc != 0 {
		a |= ACopyRead
	}
	if s&StateCopyDst != 0 {
		a |= ACopyWrite
	}
	if s&StateVertexAndConstant != 0 {
		a |= AVertexBufRead
	}
	if s&StateIndex != 0 {
		a |= AIndexBufRead
	}
	if s&StateUnorderedAccess != 0 {
		a |= AShaderRead | AShaderWrite
	}
	if s&StateIndirectArgument != 0 {
		a |= AIndirectRead
	}
	if s&StateRenderTarget != 0 {
		a |= AColorRead | AColorWrite
	}
	if s&StateDepthWrite != 0 {
		a |= ADSRead | ADSWrite
	}
	if s&StateDepthRead != 0 {
		a |= ADSRead
	}
	if s&StateShaderResource != 0 {
		a |= AShaderRead
	}
	if s&StateAccelStructRead != 0 {
		a |= AAccelRead
	}
	if s&StateAccelStructWrite != 0 {
		a |= AAccelWrite
	}
	return a
}

// LayoutFor picks the first matching state bit in priority order and
// returns its associated image layout. Priority order follows the
// source exactly: COPY_SRC, COPY_DST, RENDER_TARGET, DEPTH_WRITE,
// DEPTH_READ, UNORDERED_ACCESS, SHADER_RESOURCE, PRESENT, COMMON,
// SHADING_RATE_SOURCE.
func LayoutFor(s ResourceState) Layout {
	switch {
	case s&StateCopySrc != 0:
		return LCopySrc
	case s&StateCopyDst != 0:
		return LCopyDst
	case s&StateRenderTarget != 0:
		return LColorTarget
	case s&StateDepthWrite != 0:
		return LDSTarget
	case s&StateDepthRead != 0:
		return LDSRead
	case s&StateUnorderedAccess != 0:
		return LCommon
	case s&StateShaderResource != 0:
		return LShaderRead
	case s&StatePresent != 0:
		return LPresent
	case s&StateCommon != 0:
		return LCommon
	case s&StateShadingRateSource != 0:
		return LShadingRate
	default:
		return LUndefined
	}
}

// StageFor derives the pipeline stages implied by a set of access
// flags for the given queue type. Transfer queues always escalate to
// SAll; compute queues that see graphics-only access flags (color or
// depth/stencil read/write) also escalate; graphics queues union the
// per-flag stage; an empty access set yields SNone (== top-of-pipe).
func StageFor(qt QueueType, a Access) Sync {
	if qt == QueueTransfer {
		return SAll
	}
	graphicsOnly := a&(AColorRead|AColorWrite|ADSRead|ADSWrite) != 0
	if qt == QueueCompute && graphicsOnly {
		return SAll
	}
	var s Sync
	if a&(AVertexBufRead|AIndexBufRead) != 0 {
		s |= SVertexInput
	}
	if a&AColorRead != 0 || a&AColorWrite != 0 {
		s |= SColorOutput
	}
	if a&ADSRead != 0 || a&ADSWrite != 0 {
		s |= SDSOutput
	}
	if a&(AResolveRead|AResolveWrite) != 0 {
		s |= SResolve
	}
	if a&(ACopyRead|ACopyWrite) != 0 {
		s |= SCopy
	}
	if a&(AShaderRead|AShaderWrite) != 0 {
		s |= SComputeShading | SFragmentShading
	}
	if a&AIndirectRead != 0 {
		s |= SDraw
	}
	return s
}

// Barrier represents a synchronization barrier with no layout
// transition, typically a buffer hazard or the UAV-to-UAV same-state
// case (StateBefore == StateAfter == StateUnorderedAccess), which is
// special-cased by implementations into a single memory barrier with
// SHADER_WRITE -> SHADER_WRITE|SHADER_READ.
type Barrier struct {
	StateBefore ResourceState
	StateAfter  ResourceState
}

// Transition represents a layout transition on a specific image
// subresource. Acquire and Release must not both be set. The Vulkan
// backend's Transition does not read them: the only queue-family
// transfers it records are the ones between the rendering and
// presentation queues for swapchain views.
type Transition struct {
	Barrier

	LayoutBefore Layout
	LayoutAfter  Layout
	IView        ImageView

	Acquire bool
	Release bool
}
