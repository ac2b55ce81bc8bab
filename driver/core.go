// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines a set of interfaces encompassing
// common GPU functionality.
// It is designed to allow platform-specific APIs to be
// implemented in a mostly straightforward manner.
package driver

// GPU is the main interface to an underlying driver
// implementation. It represents one Renderer (spec's data model):
// one logical device, its allocator, its queues.
// It is used to create other types and to execute commands.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// Commit commits a work item's command buffers to the GPU for
	// execution. Wait operations defined in a command buffer apply
	// to the item as a whole, so the order of command buffers in
	// wk.Work is meaningful.
	// wk is sent back over ch when every command buffer in it has
	// finished executing; the command buffers cannot be used for
	// recording again until then. wk.Err carries any submission
	// error.
	Commit(wk *WorkItem, ch chan<- *WorkItem) error

	// NewCmdBuffer creates a new command buffer.
	NewCmdBuffer() (CmdBuffer, error)

	// NewRenderPass creates a new render pass (legacy path, used
	// only when dynamic rendering is unsupported).
	NewRenderPass(att []Attachment, sub []Subpass) (RenderPass, error)

	// NewShaderCode creates a new shader code.
	NewShaderCode(data []byte) (ShaderCode, error)

	// NewRootSignature reflects shaders into an immutable binding
	// layout.
	NewRootSignature(shaders []ShaderFunc, desc *RootSignatureDesc) (RootSignature, error)

	// NewDescHeap creates a new descriptor heap.
	NewDescHeap(ds []Descriptor) (DescHeap, error)

	// NewDescTable creates a new descriptor table bound to rs's
	// per-frequency layout, allocating one DescHeap per frequency
	// set internally.
	NewDescTable(rs RootSignature) (DescTable, error)

	// NewPipeline creates a new pipeline.
	// The state parameter must be a pointer to a GraphState or
	// a pointer to a CompState.
	NewPipeline(state any, cache PipelineCache) (Pipeline, error)

	// NewPipelineCache creates a new, optionally pre-populated
	// pipeline cache.
	NewPipelineCache(data []byte) (PipelineCache, error)

	// NewBuffer creates a new buffer.
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// NewImage creates a new image.
	NewImage(pf PixelFmt, size Dim3D, layers, levels, samples int, usg Usage) (Image, error)

	// NewSampler creates a new Sampler.
	NewSampler(spln *Sampling) (Sampler, error)

	// NewQueryPool creates a new query pool.
	NewQueryPool(typ QueryType, count int) (QueryPool, error)

	// NewResourceHeap creates a block of device memory that buffers
	// and images can be placed into at a declared offset.
	NewResourceHeap(size int64, visible bool) (ResourceHeap, error)

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits
}

// WorkItem bundles the command buffers committed together, plus a
// caller-defined Custom value and, after the item completes, any
// error that occurred during submission or execution.
type WorkItem struct {
	Work   []CmdBuffer
	Custom any
	Err    error
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// Namer is implemented by resources that can be given a debug name,
// routed through VK_EXT_debug_utils when present and
// VK_EXT_debug_marker otherwise.
type Namer interface {
	SetName(name string)
}

// ColorTarget describes one color attachment of a render pass.
type ColorTarget struct {
	View    ImageView
	Resolve ImageView
	Load    LoadOp
	Store   StoreOp
	Clear   ClearValue
}

// DSTarget describes the depth/stencil attachment of a render
// pass.
type DSTarget struct {
	DS      ImageView
	Resolve ImageView
	LoadD   LoadOp
	StoreD  StoreOp
	ClearD  float32
	LoadS   LoadOp
	StoreS  StoreOp
	ClearS  uint32
	ReadOnly bool
}

// CmdBuffer is the interface that defines a command buffer.
// Commands are recorded into command buffers and later
// committed to the GPU for execution. Recording is separate
// into logical blocks containing either rendering, compute
// or copy commands. Multiple logical blocks can be recorded
// into a single command buffer. The usage is as follows:
// First, call Begin to prepare the command buffer for
// recording. Then, if it succeeds:
//
// To record rendering commands:
//	1. call BeginPass
//	2. call Set* methods to configure rendering state
//	3. call Draw* commands
//	4. call EndPass
//
// On devices advertising VK_KHR_dynamic_rendering, BeginPass
// records a VkRenderingInfo directly; otherwise it synthesizes
// a VkRenderPass/VkFramebuffer pair from the declared targets,
// using the per-caller render-pass cache. Either way the
// caller's view of CmdBuffer is the same.
//
// To record compute commands:
//	1. call BeginWork
//	2. call Set* methods to configure compute state
//	3. call Dispatch commands
//	4. repeat 2-3 as needed
//	5. call EndWork
//
// To record copy commands:
//	1. call BeginBlit
//	2. call Copy*/Fill commands
//	3. call EndBlit
//
// Finally, call End and, if it succeeds, GPU.Commit.
// Note that Begin* commands must not be nested, and
// must always be ended before another call to Begin*
// and prior to the final End call.
type CmdBuffer interface {
	Destroyer
	Namer

	// Begin prepares the command buffer for recording.
	// This method must be called before any command
	// is recorded in the command buffer. It needs to
	// be called again if the command buffer is
	// executed or reset.
	Begin() error

	// BeginPass begins a render pass of the given pixel
	// dimensions and layer count. On devices without
	// VK_KHR_dynamic_rendering this synthesizes a cached
	// VkRenderPass/VkFramebuffer pair from color/ds instead.
	BeginPass(width, height, layers int, color []ColorTarget, ds *DSTarget)

	// EndPass ends the current render pass.
	EndPass()

	// BeginWork begins compute work.
	// If wait is set, compute work only starts when
	// all previous commands recorded in the same
	// command buffer are done executing.
	// Dispatch commands may run in parallel.
	BeginWork(wait bool)

	// EndWork ends the current compute work.
	EndWork()

	// BeginBlit begins data transfer.
	// If wait is set, data transfer only starts when
	// all previous commands recorded in the same
	// command buffer are done executing.
	// Copy/fill commands may run in parallel.
	BeginBlit(wait bool)

	// EndBlit ends the current data transfer.
	EndBlit()

	// SetPipeline sets the pipeline.
	// There is a separate binding point for each
	// type of pipeline.
	SetPipeline(pl Pipeline)

	// SetViewport sets the bounds of one or more
	// viewports.
	SetViewport(vp []Viewport)

	// SetScissor sets the rectangles of one or more
	// viewport scissors.
	SetScissor(sciss []Scissor)

	// SetBlendColor sets the constant blend color.
	SetBlendColor(r, g, b, a float32)

	// SetStencilRef sets the stencil reference value.
	SetStencilRef(value uint32)

	// SetDepthBounds sets the dynamic depth-bounds test range.
	SetDepthBounds(min, max float32)

	// SetVertexBuf sets one or more vertex buffers.
	// off must be aligned to the size of the data
	// format as specified in the vertex input of
	// the bound graphics pipeline.
	SetVertexBuf(start int, buf []Buffer, off []int64)

	// SetIndexBuf sets the index buffer.
	// off must be aligned to 4 bytes.
	SetIndexBuf(format IndexFmt, buf Buffer, off int64)

	// SetDescTableGraph sets a descriptor table
	// range for graphics pipelines.
	SetDescTableGraph(table DescTable, start int, heapCopy []int)

	// SetDescTableComp sets a descriptor table
	// range for compute pipelines.
	SetDescTableComp(table DescTable, start int, heapCopy []int)

	// Draw draws primitives.
	// It must only be called during a render pass.
	Draw(vertCount, instCount, baseVert, baseInst int)

	// DrawIndexed draws indexed primitives.
	// It must only be called during a render pass.
	DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int)

	// DrawIndirectCount issues an indirect-count draw: argBuf/argOff
	// addresses an array of draw arguments, countBuf/countOff
	// addresses a uint32 draw count capped at maxCount. Uses
	// VK_KHR_draw_indirect_count when present; the AMD variant is
	// not used. Otherwise falls back to a software loop of
	// single-draw indirects whose count is read on the host at
	// record time from a host-visible count buffer, or is maxCount
	// when the count buffer is not host-visible.
	DrawIndirectCount(sig CommandSignature, argBuf Buffer, argOff int64, countBuf Buffer, countOff int64, maxCount int)

	// Dispatch dispatches compute thread groups.
	// It must only be called during compute work.
	Dispatch(grpCountX, grpCountY, grpCountZ int)

	// CopyBuffer copies data between buffers.
	// It must only be called during data transfer.
	CopyBuffer(param *BufferCopy)

	// CopyImage copies data between images.
	// It must only be called during data transfer.
	CopyImage(param *ImageCopy)

	// CopyBufToImg copies data from a buffer to
	// an image.
	// It must only be called during data transfer.
	CopyBufToImg(param *BufImgCopy)

	// CopyImgToBuf copies data from an image to
	// a buffer.
	// It must only be called during data transfer.
	CopyImgToBuf(param *BufImgCopy)

	// Fill fills a buffer range with copies of
	// a byte value.
	// It must only be called during data transfer.
	// off and size must be aligned to 4 bytes.
	Fill(buf Buffer, off int64, value byte, size int64)

	// Barrier inserts a number of global barriers
	// in the command buffer.
	Barrier(b []Barrier)

	// Transition inserts a number of image layout
	// transitions in the command buffer.
	Transition(t []Transition)

	// WriteTimestamp writes a GPU timestamp into q at index.
	WriteTimestamp(q QueryPool, index int)

	// BeginQuery begins an occlusion or pipeline-statistics query.
	BeginQuery(q QueryPool, index int)

	// EndQuery ends the query begun with BeginQuery.
	EndQuery(q QueryPool, index int)

	// ResolveQuery is a documented no-op: query results are pulled
	// host-side via QueryPool.Results.
	ResolveQuery(q QueryPool, start, count int)

	// PushMarker opens a named, colored debug region.
	PushMarker(name string, color [3]float32)

	// PopMarker closes the region opened by the matching PushMarker.
	PopMarker()

	// InsertMarker inserts a single named, colored debug marker.
	// No Aftermath checkpoint is written.
	InsertMarker(name string, color [3]float32)

	// End ends command recording and prepares the
	// command buffer for execution.
	// New recordings are not allowed until the
	// command buffer is executed or reset.
	// Upon failure, the command buffer is reset.
	End() error

	// Reset discards all recorded commands from the
	// command buffer.
	Reset() error
}

// BufferCopy describes the parameters of a copy command
// that copies data from one buffer to another.
type BufferCopy struct {
	From    Buffer
	FromOff int64
	To      Buffer
	ToOff   int64
	Size    int64
}

// ImageCopy describes the parameters of a copy command
// that copies data from one image to another.
type ImageCopy struct {
	From      Image
	FromOff   Off3D
	FromLayer int
	FromLevel int
	To        Image
	ToOff     Off3D
	ToLayer   int
	ToLevel   int
	Size      Dim3D
	Layers    int
}

// BufImgCopy describes the parameters of a copy command
// that copies data between a buffer and an image.
// BufOff must be aligned to 512 bytes.
// Stride[0] must be aligned to 256 bytes.
type BufImgCopy struct {
	Buf    Buffer
	BufOff int64
	// Stride specifies the addressing of image data
	// in the buffer. It is given in pixels.
	// Stride[0] refers to the row length and Stride[1]
	// refers to the image height.
	Stride [2]int64
	Img    Image
	ImgOff Off3D
	Layer  int
	Level  int
	Size   Dim3D
	// DepthCopy selects either the depth or stencil
	// aspects to copy. It is only used if Img has a
	// combined depth/stencil format.
	DepthCopy bool
}
