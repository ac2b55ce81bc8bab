// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// Usage is a bitset describing the ways a Buffer or Image may
// be used.
type Usage int

// Resource usage flags.
const (
	UCopySrc Usage = 1 << iota
	UCopyDst
	UVertexData
	UIndexData
	UShaderConst
	UShaderWrite
	UShaderSample
	URenderTarget
	UDepthStencil
	UIndirectArgs
	UShadingRate
	// UTransient marks a resource as transient. The Vulkan
	// backend does not read it: no lazily-allocated (memoryless)
	// heap is requested.
	UTransient
)

// Buffer is the interface that defines a GPU buffer resource.
type Buffer interface {
	Destroyer
	Namer

	// Size returns the buffer's size in bytes.
	Size() int64

	// Bytes returns the buffer's mapped memory range.
	// It returns an empty slice if the buffer is not host-visible.
	Bytes() []byte
}

// Dim3D describes the extent of an image in texels.
type Dim3D struct {
	Width, Height, Depth int
}

// Off3D describes an offset into an image, in texels.
type Off3D struct {
	X, Y, Z int
}

// PixelFmt identifies the format of pixel data.
type PixelFmt int

// Pixel formats.
const (
	FInvalid PixelFmt = iota
	RGBA8un
	RGBA8SRGB
	BGRA8un
	BGRA8SRGB
	RGBA16f
	RGBA32f
	RG8un
	RG16f
	RG32f
	R8un
	R16f
	R32f
	RGB10A2un
	D16un
	D32f
	D24unS8ui
	D32fS8ui
	S8ui
	BC1un
	BC3un
	BC4un
	BC5un
	BC6Hsf
	BC7un
)

// Size returns the number of bytes a single texel occupies for
// uncompressed formats. It panics for block-compressed formats,
// whose size is only meaningful per-block.
func (f PixelFmt) Size() int64 {
	switch f {
	case R8un, S8ui:
		return 1
	case RG8un, R16f, D16un:
		return 2
	case RGBA8un, RGBA8SRGB, BGRA8un, BGRA8SRGB, RG16f, R32f, RGB10A2un, D32f, D24unS8ui:
		return 4
	case RGBA16f, RG32f, D32fS8ui:
		return 8
	case RGBA32f:
		return 16
	default:
		panic("driver: Size is undefined for block-compressed formats")
	}
}

// IsInternal reports whether f is a depth/stencil format,
// which cannot be used as a shader-resource view without an
// aspect mask.
func (f PixelFmt) IsInternal() bool {
	switch f {
	case D16un, D32f, D24unS8ui, D32fS8ui, S8ui:
		return true
	default:
		return false
	}
}

// TextureDesc lists image options beyond NewImage's plain
// parameter list: forced dimensionality, multi-planar/cubemap/VR
// flags. GPU.NewImage takes no TextureDesc, and no code in this
// module reads one.
type TextureDesc struct {
	Force2D     bool
	Force3D     bool
	Cube        bool
	VRMultiview bool
	// PlaneCount > 1 requests a multi-planar format with
	// VK_IMAGE_CREATE_MUTABLE_FORMAT_BIT and an attached
	// format-list struct.
	PlaneCount int
}

// Image is the interface that defines a GPU image resource.
type Image interface {
	Destroyer
	Namer

	// Format returns the image's pixel format.
	Format() PixelFmt

	// Size returns the image's extent in texels.
	Size() Dim3D

	// NewView creates a new image view over a subresource
	// range of the image.
	NewView(typ ViewType, layer, layerCount, level, levelCount int) (ImageView, error)
}

// ViewType identifies the dimensionality/array-ness of an
// ImageView.
type ViewType int

// Image view types.
const (
	IView1D ViewType = iota
	IView1DArray
	IView2D
	IView2DArray
	IView3D
	IViewCube
	IViewCubeArray
)

// ImageView is the interface that defines a view into an
// Image's subresource range, as created by Image.NewView.
type ImageView interface {
	Destroyer
}

// Filter identifies a sampler's texel filtering mode.
type Filter int

// Texel filters.
const (
	FNearest Filter = iota
	FLinear
)

// MipFilter identifies a sampler's mipmap selection mode.
type MipFilter int

// Mipmap filters.
const (
	FNoMipmap MipFilter = iota
	FNearestMipmap
	FLinearMipmap
)

// AddrMode identifies a sampler's texture coordinate wrapping
// mode.
type AddrMode int

// Address modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
	ABorder
	AMirrorClampToEdge
)

// Sampler is the interface that defines a texture sampler, as
// created by GPU.NewSampler.
type Sampler interface {
	Destroyer
}

// Sampling describes the parameters of a texture sampler.
type Sampling struct {
	Min, Mag            Filter
	Mipmap              MipFilter
	AddrU, AddrV, AddrW AddrMode
	MaxAnisotropy       float32
	Compare             bool
	CompareFunc         CmpFunc
	MinLOD, MaxLOD      float32
	LODBias             float32
}

// AllocObjectType classifies an allocation for the allocator's
// tracking callback.
type AllocObjectType int

// Allocation object types.
const (
	AllocBuffer AllocObjectType = iota
	AllocImage
	AllocHeap
)

// ResourceHeap is the interface that defines a block of device
// memory that buffers and images can be placed into at a
// caller-chosen offset, bypassing the allocator's own
// suballocation.
type ResourceHeap interface {
	Destroyer

	// Size returns the heap's size in bytes.
	Size() int64
}

// Allocator is the interface that defines the sub-allocator
// used by a GPU to back Buffer/Image/ResourceHeap creation.
// Implementations typically wrap a per-memory-type freelist or
// a third-party allocator such as VMA.
type Allocator interface {
	// Stats returns a human-readable allocator usage summary.
	Stats() string
}
