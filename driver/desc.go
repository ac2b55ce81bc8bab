// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// UpdateFreq classifies how often the contents of a descriptor
// set are expected to change, and thus which set index within
// a root signature's layout it is assigned to.
type UpdateFreq int

// Update-frequency sets, increasing in expected churn.
const (
	FreqNone UpdateFreq = iota
	FreqPerFrame
	FreqPerBatch
	FreqPerDraw

	FreqCount
)

// DescType identifies the kind of resource a Descriptor/
// DescriptorData entry refers to.
type DescType int

// Descriptor types.
const (
	DConstant DescType = iota
	DConstantDynamic
	DBuffer
	DBufferDynamic
	DTexture
	DRWImage
	DTypedBuf
	DRWTypedBuf
	DSampler
	DInputAttachment
	DAccelStruct
)

// Descriptor describes a single binding slot: its type, the
// shader stages that reference it, its register/binding number
// and how many consecutive array elements it spans.
type Descriptor struct {
	Type   DescType
	Stages Sync
	Nr     int
	Len    int
}

// DescHeap is the interface that defines a descriptor pool
// sized to back a given set of Descriptor kinds.
type DescHeap interface {
	Destroyer

	// New pre-allocates n copies of the heap's descriptor set.
	New(n int) error

	// SetBuffer writes buffer descriptors into copy cpy of
	// binding nr, starting at array index idx.
	SetBuffer(cpy, nr, idx int, buf []Buffer, off, size []int64) error

	// SetImage writes image-view descriptors into copy cpy of
	// binding nr, starting at array index idx.
	SetImage(cpy, nr, idx int, views []ImageView) error

	// SetSampler writes sampler descriptors into copy cpy of
	// binding nr, starting at array index idx.
	SetSampler(cpy, nr, idx int, splr []Sampler) error
}

// StaticSampler binds an immutable sampler directly into the
// root signature at the given resource name.
type StaticSampler struct {
	Name    string
	Sampler Sampler
}

// RootSignatureDesc configures NewRootSignature beyond what
// shader reflection already provides.
type RootSignatureDesc struct {
	StaticSamplers []StaticSampler
	// RootCBVSuffix names the convention a uniform buffer name
	// must match to be promoted to a dynamic (root-CBV) binding
	// when its array size is 1. Defaults to "_rootcbv" when empty.
	RootCBVSuffix string
}

// RootSignature is the interface that defines an immutable,
// reflected binding layout merged from one or more ShaderFuncs.
type RootSignature interface {
	Destroyer

	// Name returns the handle index assigned to the named
	// resource, and whether it was found.
	Name(name string) (index int, ok bool)
}

// DescriptorData identifies one descriptor write, addressed by
// handle index (preferred) or by name (resolved against the
// owning DescTable's RootSignature).
type DescriptorData struct {
	Index int
	Name  string

	Buffers  []Buffer
	Offsets  []int64
	Sizes    []int64
	Views    []ImageView
	Samplers []Sampler

	// BindStencilResource asks for the stencil aspect of a
	// combined depth/stencil texture SRV. The Vulkan backend's
	// DescTable.Update does not read it; the view is written as is.
	BindStencilResource bool
	// BindMipChain asks for one descriptor per mip level of
	// Views[0]'s image. The Vulkan backend's DescTable.Update
	// does not read it; the views are written as given.
	BindMipChain bool
}

// DescTable is the interface that defines a set of live
// descriptor sets bound together at draw/dispatch time.
type DescTable interface {
	Destroyer

	// New pre-allocates n set slots, sized from the owning
	// RootSignature's per-frequency descriptor counts. The new
	// slots are not initialized with default (null) descriptors.
	New(n int) error

	// Update batches a number of descriptor writes into a
	// single set slot.
	Update(index int, data []DescriptorData) error
}
