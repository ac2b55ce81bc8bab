// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// LoadOp identifies the load operation to use for a given
// attachment at the start of a subpass.
type LoadOp int

// Load operations.
const (
	LLoad LoadOp = iota
	LClear
	LDontCare
)

// StoreOp identifies the store operation to use for a given
// attachment at the end of a subpass.
type StoreOp int

// Store operations.
const (
	SStore StoreOp = iota
	SDontCare
	SResolveStore
	SResolveDontCare
)

// Attachment describes a render pass attachment (legacy path).
type Attachment struct {
	Format  PixelFmt
	Samples int
	Load    LoadOp
	Store   StoreOp
	// LoadSC/StoreSC apply to the stencil aspect of a
	// depth/stencil attachment; they are ignored otherwise.
	LoadSC  LoadOp
	StoreSC StoreOp
}

// Subpass describes the attachment references used in a
// given subpass (legacy path).
type Subpass struct {
	ColorIdx   []int
	ResolveIdx []int
	DSIdx      int
	// HasDS selects whether DSIdx is valid.
	HasDS bool
}

// RenderPass is the interface that defines a legacy render
// pass, used whenever VK_KHR_dynamic_rendering is unavailable.
type RenderPass interface {
	Destroyer

	// NewFB creates a new framebuffer compatible with
	// the render pass.
	NewFB(width, height, layers int, color, ds []ImageView) (Framebuf, error)
}

// Framebuf is the interface that defines a framebuffer, used
// together with a RenderPass (legacy path).
type Framebuf interface {
	Destroyer
}

// ClearValue is a single clear color to use when starting a
// render pass/dynamic-rendering attachment whose LoadOp is
// LClear.
type ClearValue struct {
	Color [4]float32
}

// ClearFloat32 builds a ClearValue from four float32 color
// channels.
func ClearFloat32(r, g, b, a float32) ClearValue {
	return ClearValue{Color: [4]float32{r, g, b, a}}
}
