// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

// #include <stdlib.h>
// #include <proc.h>
import "C"

import (
	"errors"
	"unsafe"

	"github.com/ConfettiFX/forge-vulkan/driver"
)

// renderPass implements driver.RenderPass. It backs the legacy path,
// used whenever VK_KHR_dynamic_rendering is unavailable.
type renderPass struct {
	d    *Driver
	pass C.VkRenderPass
	// Aspect of each attachment, needed when clearing.
	aspect []C.VkImageAspectFlags
	// Number of color attachments in the (single) subpass.
	ncolor int
}

// NewRenderPass creates a new render pass.
func (d *Driver) NewRenderPass(att []driver.Attachment, sub []driver.Subpass) (driver.RenderPass, error) {
	if len(sub) == 0 {
		return nil, errors.New("vk: render pass needs at least one subpass")
	}

	var patt *C.VkAttachmentDescription
	if len(att) > 0 {
		patt = (*C.VkAttachmentDescription)(C.malloc(C.size_t(len(att)) * C.sizeof_VkAttachmentDescription))
		defer C.free(unsafe.Pointer(patt))
		satt := unsafe.Slice(patt, len(att))
		for i := range satt {
			satt[i] = C.VkAttachmentDescription{
				format:         convPixelFmt(att[i].Format),
				samples:        convSamples(att[i].Samples),
				loadOp:         convLoadOp(att[i].Load),
				storeOp:        convStoreOp(att[i].Store),
				stencilLoadOp:  convLoadOp(att[i].LoadSC),
				stencilStoreOp: convStoreOp(att[i].StoreSC),
				initialLayout:  C.VK_IMAGE_LAYOUT_GENERAL,
				finalLayout:    C.VK_IMAGE_LAYOUT_GENERAL,
			}
		}
	}

	psub := (*C.VkSubpassDescription)(C.malloc(C.size_t(len(sub)) * C.sizeof_VkSubpassDescription))
	defer C.free(unsafe.Pointer(psub))
	ssub := unsafe.Slice(psub, len(sub))

	// References for every subpass are laid out contiguously: color
	// refs, then resolve refs (one per color, VK_ATTACHMENT_UNUSED
	// where absent), then an optional depth/stencil ref.
	type subRefs struct {
		color   []C.VkAttachmentReference
		resolve []C.VkAttachmentReference
		ds      C.VkAttachmentReference
		hasDS   bool
	}
	refs := make([]subRefs, len(sub))
	for i := range sub {
		s := &sub[i]
		r := &refs[i]
		r.color = make([]C.VkAttachmentReference, len(s.ColorIdx))
		for j, idx := range s.ColorIdx {
			r.color[j] = C.VkAttachmentReference{
				attachment: C.uint32_t(idx),
				layout:     C.VK_IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL,
			}
		}
		if len(s.ResolveIdx) > 0 {
			r.resolve = make([]C.VkAttachmentReference, len(s.ResolveIdx))
			for j, idx := range s.ResolveIdx {
				if idx < 0 {
					r.resolve[j] = C.VkAttachmentReference{
						attachment: C.VK_ATTACHMENT_UNUSED,
						layout:     C.VK_IMAGE_LAYOUT_UNDEFINED,
					}
				} else {
					r.resolve[j] = C.VkAttachmentReference{
						attachment: C.uint32_t(idx),
						layout:     C.VK_IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL,
					}
				}
			}
		}
		if s.HasDS {
			r.hasDS = true
			r.ds = C.VkAttachmentReference{
				attachment: C.uint32_t(s.DSIdx),
				layout:     C.VK_IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL,
			}
		}

		var pclr, pres, pds *C.VkAttachmentReference
		if len(r.color) > 0 {
			pclr = &r.color[0]
		}
		if len(r.resolve) > 0 {
			pres = &r.resolve[0]
		}
		if r.hasDS {
			pds = &r.ds
		}
		ssub[i] = C.VkSubpassDescription{
			pipelineBindPoint:       C.VK_PIPELINE_BIND_POINT_GRAPHICS,
			colorAttachmentCount:    C.uint32_t(len(r.color)),
			pColorAttachments:       pclr,
			pResolveAttachments:     pres,
			pDepthStencilAttachment: pds,
		}
	}

	// A single external dependency covers the whole render pass; it
	// is conservative but correct, and subpasses beyond the first are
	// expected to be rare outside the MSAA-resolve case.
	const srcStg = C.VK_PIPELINE_STAGE_ALL_COMMANDS_BIT
	const dstStg = C.VK_PIPELINE_STAGE_ALL_COMMANDS_BIT
	const srcAcc = C.VK_ACCESS_MEMORY_WRITE_BIT
	const dstAcc = C.VK_ACCESS_MEMORY_WRITE_BIT | C.VK_ACCESS_MEMORY_READ_BIT
	dep := C.VkSubpassDependency{
		srcSubpass:    C.VK_SUBPASS_EXTERNAL,
		dstSubpass:    0,
		srcStageMask:  srcStg,
		dstStageMask:  dstStg,
		srcAccessMask: srcAcc,
		dstAccessMask: dstAcc,
	}

	info := C.VkRenderPassCreateInfo{
		sType:           C.VK_STRUCTURE_TYPE_RENDER_PASS_CREATE_INFO,
		attachmentCount: C.uint32_t(len(att)),
		pAttachments:    patt,
		subpassCount:    C.uint32_t(len(sub)),
		pSubpasses:      psub,
		dependencyCount: 1,
		pDependencies:   &dep,
	}
	var pass C.VkRenderPass
	if err := checkResult(C.vkCreateRenderPass(d.dev, &info, nil, &pass)); err != nil {
		return nil, err
	}

	aspect := make([]C.VkImageAspectFlags, len(att))
	for i := range aspect {
		aspect[i] = aspectOf(att[i].Format)
	}
	return &renderPass{
		d:      d,
		pass:   pass,
		aspect: aspect,
		ncolor: len(sub[0].ColorIdx),
	}, nil
}

// Destroy destroys the render pass.
func (p *renderPass) Destroy() {
	if p == nil {
		return
	}
	if p.d != nil {
		C.vkDestroyRenderPass(p.d.dev, p.pass, nil)
	}
	*p = renderPass{}
}

// framebuf implements driver.Framebuf.
type framebuf struct {
	p      *renderPass
	fb     C.VkFramebuffer
	width  int
	height int
}

// NewFB creates a new framebuffer compatible with the render pass.
func (p *renderPass) NewFB(width, height, layers int, color, ds []driver.ImageView) (driver.Framebuf, error) {
	views := make([]C.VkImageView, 0, len(color)+len(ds))
	for _, iv := range color {
		v, ok := iv.(*imageView)
		if !ok || v == nil {
			return nil, errors.New("vk: nil color image view")
		}
		views = append(views, v.view)
	}
	for _, iv := range ds {
		v, ok := iv.(*imageView)
		if !ok || v == nil {
			return nil, errors.New("vk: nil depth/stencil image view")
		}
		views = append(views, v.view)
	}
	var pview *C.VkImageView
	if len(views) > 0 {
		pview = &views[0]
	}
	info := C.VkFramebufferCreateInfo{
		sType:           C.VK_STRUCTURE_TYPE_FRAMEBUFFER_CREATE_INFO,
		renderPass:      p.pass,
		attachmentCount: C.uint32_t(len(views)),
		pAttachments:    pview,
		width:           C.uint32_t(width),
		height:          C.uint32_t(height),
		layers:          C.uint32_t(layers),
	}
	var fb C.VkFramebuffer
	if err := checkResult(C.vkCreateFramebuffer(p.d.dev, &info, nil, &fb)); err != nil {
		return nil, err
	}
	return &framebuf{
		p:      p,
		fb:     fb,
		width:  width,
		height: height,
	}, nil
}

// Destroy destroys the framebuffer.
func (f *framebuf) Destroy() {
	if f == nil {
		return
	}
	if f.p != nil {
		C.vkDestroyFramebuffer(f.p.d.dev, f.fb, nil)
	}
	*f = framebuf{}
}

// convLoadOp converts a driver.LoadOp to a VkAttachmentLoadOp.
func convLoadOp(op driver.LoadOp) C.VkAttachmentLoadOp {
	switch op {
	case driver.LDontCare:
		return C.VK_ATTACHMENT_LOAD_OP_DONT_CARE
	case driver.LClear:
		return C.VK_ATTACHMENT_LOAD_OP_CLEAR
	case driver.LLoad:
		return C.VK_ATTACHMENT_LOAD_OP_LOAD
	}

	// Expected to be unreachable.
	return ^C.VkAttachmentLoadOp(0)
}

// convStoreOp converts a driver.StoreOp to a VkAttachmentStoreOp.
func convStoreOp(op driver.StoreOp) C.VkAttachmentStoreOp {
	switch op {
	case driver.SDontCare, driver.SResolveDontCare:
		return C.VK_ATTACHMENT_STORE_OP_DONT_CARE
	case driver.SStore, driver.SResolveStore:
		return C.VK_ATTACHMENT_STORE_OP_STORE
	}

	// Expected to be unreachable.
	return ^C.VkAttachmentStoreOp(0)
}
