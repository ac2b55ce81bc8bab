// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// VertexFmt identifies the data format of a single vertex
// input attribute.
type VertexFmt int

// Vertex input formats.
const (
	Float32 VertexFmt = iota
	Float32x2
	Float32x3
	Float32x4
	Int32
	Int32x2
	Int32x3
	Int32x4
	Uint32
	Uint32x2
	Uint32x3
	Uint32x4
	Uint8Normx4
	Int8Normx4
)

// VertexIn describes a single vertex input attribute. If
// Stride is left at zero, it is auto-derived as the maximum of
// Offset+size(Format) across every attribute bound to the same
// buffer number.
type VertexIn struct {
	Format   VertexFmt
	Offset   int
	Stride   int
	Nr       int
	Instance bool
}

// Topology identifies the primitive topology used when
// assembling vertices into primitives.
type Topology int

// Primitive topologies.
const (
	TPoint Topology = iota
	TLine
	TLineStrip
	TTriangle
	TTriangleStrip
)

// IndexFmt identifies the data format of index buffer
// elements.
type IndexFmt int

// Index formats.
const (
	Index16 IndexFmt = iota
	Index32
)

// Viewport describes a single viewport transform.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	ZMin, ZMax    float32
}

// Scissor describes a single scissor rectangle.
type Scissor struct {
	X, Y          int
	Width, Height int
}

// CullMode identifies which primitive faces to cull.
type CullMode int

// Cull modes.
const (
	CNone CullMode = iota
	CFront
	CBack
)

// FillMode identifies how primitives are rasterized.
type FillMode int

// Fill modes.
const (
	FFill FillMode = iota
	FLine
	FPoint
)

// RasterState describes the fixed-function rasterization
// state of a graphics pipeline.
type RasterState struct {
	Discard   bool
	Clockwise bool
	Cull      CullMode
	Fill      FillMode
	DepthBias bool
	DepthBiasConstant float32
	DepthBiasClamp    float32
	DepthBiasSlope    float32
	// ProgrammableSampleLocations chains
	// VkPipelineSampleLocationsStateCreateInfoEXT and appends
	// sample-locations to the pipeline's dynamic state.
	ProgrammableSampleLocations bool
}

// CmpFunc identifies a comparison function used by depth and
// stencil tests, and by samplers.
type CmpFunc int

// Comparison functions.
const (
	CNever CmpFunc = iota
	CLess
	CEqual
	CLessEqual
	CGreater
	CNotEqual
	CGreaterEqual
	CAlways
)

// StencilOp identifies a stencil-buffer update operation.
type StencilOp int

// Stencil operations.
const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrClamp
	StencilDecrClamp
	StencilInvert
	StencilIncrWrap
	StencilDecrWrap
)

// StencilT groups the stencil operations and comparison
// function used for a single triangle facing (front/back).
type StencilT struct {
	Func   CmpFunc
	SFail  StencilOp
	DPFail StencilOp
	DPPass StencilOp
	RdMask uint32
	WrMask uint32
}

// DSState describes the fixed-function depth/stencil state of
// a graphics pipeline.
type DSState struct {
	DepthTest   bool
	DepthWrite  bool
	DepthFunc   CmpFunc
	DepthBounds bool
	StencilTest bool
	Front       StencilT
	Back        StencilT
}

// BlendOp identifies a color/alpha blending operation.
type BlendOp int

// Blend operations.
const (
	BAdd BlendOp = iota
	BSubtract
	BRevSubtract
	BMin
	BMax
)

// BlendFac identifies a blend factor.
type BlendFac int

// Blend factors.
const (
	BZero BlendFac = iota
	BOne
	BSrcColor
	BInvSrcColor
	BSrcAlpha
	BInvSrcAlpha
	BDstColor
	BInvDstColor
	BDstAlpha
	BInvDstAlpha
	BBlendColor
	BInvBlendColor
)

// ColorMask identifies which color channels a ColorBlend
// writes to.
type ColorMask int

// Color write mask bits.
const (
	CR ColorMask = 1 << iota
	CG
	CB
	CA
	CAll = CR | CG | CB | CA
)

// ColorBlend describes the per-render-target blending state.
type ColorBlend struct {
	Blend     bool
	WriteMask ColorMask
	SrcFacRGB BlendFac
	DstFacRGB BlendFac
	OpRGB     BlendOp
	SrcFacA   BlendFac
	DstFacA   BlendFac
	OpA       BlendOp
}

// BlendState describes the fixed-function blending state of a
// graphics pipeline.
type BlendState struct {
	Color            []ColorBlend
	AlphaToCoverage  bool
	IndependentBlend bool
}

// GraphState describes the full fixed-function and
// programmable state of a graphics pipeline.
type GraphState struct {
	VertFunc ShaderFunc
	FragFunc ShaderFunc
	RootSig  RootSignature
	Input    []VertexIn
	Topology Topology
	Raster   RasterState
	DS       DSState
	Blend    BlendState
	Samples  int
	// ColorFmt/DSFmt describe the render-pass attachment
	// signature the pipeline is compiled against (dynamic
	// rendering or a dummy VkRenderPass on the legacy path).
	ColorFmt []PixelFmt
	DSFmt    PixelFmt
}

// CompState describes the state of a compute pipeline.
type CompState struct {
	Shader  ShaderFunc
	RootSig RootSignature
}

// Pipeline is the interface that defines a graphics or compute
// pipeline, as created by GPU.NewPipeline.
type Pipeline interface {
	Destroyer
	Namer
}

// PipelineCache is the interface that defines an opaque blob
// cache used to speed up repeated pipeline compilation.
type PipelineCache interface {
	Destroyer

	// Data returns the cache contents for persisting to disk.
	Data() ([]byte, error)

	// Merge folds the contents of other caches into this one.
	Merge(other ...PipelineCache) error
}
