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

// convDescType converts a driver.DescType to a VkDescriptorType.
func convDescType(typ driver.DescType) C.VkDescriptorType {
	switch typ {
	case driver.DConstant:
		return C.VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER
	case driver.DConstantDynamic:
		return C.VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER_DYNAMIC
	case driver.DBuffer:
		return C.VK_DESCRIPTOR_TYPE_STORAGE_BUFFER
	case driver.DBufferDynamic:
		return C.VK_DESCRIPTOR_TYPE_STORAGE_BUFFER_DYNAMIC
	case driver.DTexture:
		return C.VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE
	case driver.DRWImage:
		return C.VK_DESCRIPTOR_TYPE_STORAGE_IMAGE
	case driver.DTypedBuf:
		return C.VK_DESCRIPTOR_TYPE_UNIFORM_TEXEL_BUFFER
	case driver.DRWTypedBuf:
		return C.VK_DESCRIPTOR_TYPE_STORAGE_TEXEL_BUFFER
	case driver.DSampler:
		return C.VK_DESCRIPTOR_TYPE_SAMPLER
	case driver.DInputAttachment:
		return C.VK_DESCRIPTOR_TYPE_INPUT_ATTACHMENT
	case driver.DAccelStruct:
		return C.VK_DESCRIPTOR_TYPE_ACCELERATION_STRUCTURE_KHR
	default:
		panic("vk: invalid DescType")
	}
}

// convShaderStage converts the shader-stage bits of a driver.Sync to a
// VkShaderStageFlags.
func convShaderStage(s driver.Sync) (flags C.VkShaderStageFlags) {
	if s&driver.SVertex != 0 {
		flags |= C.VK_SHADER_STAGE_VERTEX_BIT
	}
	if s&driver.SFragment != 0 {
		flags |= C.VK_SHADER_STAGE_FRAGMENT_BIT
	}
	if s&driver.SGeometry != 0 {
		flags |= C.VK_SHADER_STAGE_GEOMETRY_BIT
	}
	if s&driver.STessCtrl != 0 {
		flags |= C.VK_SHADER_STAGE_TESSELLATION_CONTROL_BIT
	}
	if s&driver.STessEval != 0 {
		flags |= C.VK_SHADER_STAGE_TESSELLATION_EVALUATION_BIT
	}
	if s&driver.SCompute != 0 {
		flags |= C.VK_SHADER_STAGE_COMPUTE_BIT
	}
	return
}

// descHeap implements driver.DescHeap.
type descHeap struct {
	d      *Driver
	layout C.VkDescriptorSetLayout
	pool   C.VkDescriptorPool
	sets   []C.VkDescriptorSet
	ds     []driver.Descriptor
}

// createSetLayout builds a VkDescriptorSetLayout from ds. Shared by
// NewDescHeap and rootSignature's own pipeline-layout construction;
// two VkDescriptorSetLayout objects built from the same Descriptor
// list are pipeline-layout compatible in Vulkan even though they are
// distinct handles, so callers need not share the handle itself.
func createSetLayout(d *Driver, ds []driver.Descriptor) (C.VkDescriptorSetLayout, error) {
	p := (*C.VkDescriptorSetLayoutBinding)(C.malloc(C.size_t(len(ds)) * C.sizeof_VkDescriptorSetLayoutBinding))
	defer C.free(unsafe.Pointer(p))
	binds := unsafe.Slice(p, len(ds))

	for i := range ds {
		// Descriptor.Nr is the binding number in Vulkan, which must
		// be unique within a descriptor set.
		for j := i + 1; j < len(ds); j++ {
			if ds[i].Nr == ds[j].Nr {
				return nil, errors.New("vk: descriptor number is not unique")
			}
		}
		binds[i].binding = C.uint32_t(ds[i].Nr)
		binds[i].descriptorType = convDescType(ds[i].Type)
		binds[i].descriptorCount = C.uint32_t(ds[i].Len)
		binds[i].stageFlags = convShaderStage(ds[i].Stages)
		binds[i].pImmutableSamplers = nil
	}

	info := C.VkDescriptorSetLayoutCreateInfo{
		sType:        C.VK_STRUCTURE_TYPE_DESCRIPTOR_SET_LAYOUT_CREATE_INFO,
		bindingCount: C.uint32_t(len(binds)),
		pBindings:    p,
	}
	var layout C.VkDescriptorSetLayout
	err := checkResult(C.vkCreateDescriptorSetLayout(d.dev, &info, nil, &layout))
	return layout, err
}

// NewDescHeap creates a new descriptor heap sized to back ds.
func (d *Driver) NewDescHeap(ds []driver.Descriptor) (driver.DescHeap, error) {
	layout, err := createSetLayout(d, ds)
	if err != nil {
		return nil, err
	}
	// Pool creation and descriptor set allocation is deferred to New
	// to avoid consuming memory before the caller knows how many
	// copies it needs.
	return &descHeap{
		d:      d,
		layout: layout,
		ds:     ds,
	}, nil
}

// New pre-allocates n copies of the heap's descriptor set.
func (h *descHeap) New(n int) error {
	switch {
	case n == len(h.sets):
		return nil
	case len(h.sets) == 0:
		// Nothing to destroy/free.
	default:
		C.vkDestroyDescriptorPool(h.d.dev, h.pool, nil)
		C.free(unsafe.Pointer(&h.sets[0]))
		h.sets = nil
		if n == 0 {
			return nil
		}
	}

	sizes := make(map[C.VkDescriptorType]C.uint32_t)
	for i := range h.ds {
		sizes[convDescType(h.ds[i].Type)] += C.uint32_t(h.ds[i].Len * n)
	}
	if len(sizes) == 0 {
		h.sets = make([]C.VkDescriptorSet, n)
		return nil
	}
	p := (*C.VkDescriptorPoolSize)(C.malloc(C.size_t(len(sizes)) * C.sizeof_VkDescriptorPoolSize))
	defer C.free(unsafe.Pointer(p))
	ps := unsafe.Slice(p, len(sizes))
	i := 0
	for typ, cnt := range sizes {
		ps[i]._type = typ
		ps[i].descriptorCount = cnt
		i++
	}

	info := C.VkDescriptorPoolCreateInfo{
		sType:         C.VK_STRUCTURE_TYPE_DESCRIPTOR_POOL_CREATE_INFO,
		maxSets:       C.uint32_t(n),
		poolSizeCount: C.uint32_t(len(ps)),
		pPoolSizes:    p,
	}
	var pool C.VkDescriptorPool
	err := checkResult(C.vkCreateDescriptorPool(h.d.dev, &info, nil, &pool))
	if err != nil {
		return err
	}

	sp := (*C.VkDescriptorSet)(C.malloc(C.size_t(n) * C.sizeof_VkDescriptorSet))
	lp := (*C.VkDescriptorSetLayout)(C.malloc(C.size_t(n) * C.sizeof_VkDescriptorSetLayout))
	defer C.free(unsafe.Pointer(lp))
	layouts := unsafe.Slice(lp, n)
	for i := range layouts {
		layouts[i] = h.layout
	}

	sinfo := C.VkDescriptorSetAllocateInfo{
		sType:              C.VK_STRUCTURE_TYPE_DESCRIPTOR_SET_ALLOCATE_INFO,
		descriptorPool:     pool,
		descriptorSetCount: C.uint32_t(n),
		pSetLayouts:        lp,
	}
	err = checkResult(C.vkAllocateDescriptorSets(h.d.dev, &sinfo, sp))
	if err != nil {
		C.vkDestroyDescriptorPool(h.d.dev, pool, nil)
		C.free(unsafe.Pointer(sp))
		return err
	}
	h.pool = pool
	h.sets = unsafe.Slice(sp, n)
	return nil
}

// typeOf returns the VkDescriptorType of the binding identified by
// the binding number descNr.
func (h *descHeap) typeOf(descNr int) C.VkDescriptorType {
	for i := range h.ds {
		if h.ds[i].Nr == descNr {
			return convDescType(h.ds[i].Type)
		}
	}
	panic("vk: unknown descriptor binding number")
}

// SetBuffer writes buffer descriptors into copy cpy of binding nr,
// starting at array index idx.
func (h *descHeap) SetBuffer(cpy, nr, idx int, buf []driver.Buffer, off, size []int64) error {
	if cpy < 0 || cpy >= len(h.sets) {
		return errors.New("vk: descriptor heap copy out of range")
	}
	p := (*C.VkDescriptorBufferInfo)(C.malloc(C.size_t(len(buf)) * C.sizeof_VkDescriptorBufferInfo))
	defer C.free(unsafe.Pointer(p))
	s := unsafe.Slice(p, len(buf))
	for i := range s {
		s[i] = C.VkDescriptorBufferInfo{
			buffer: buf[i].(*buffer).buf,
			offset: C.VkDeviceSize(off[i]),
			_range: C.VkDeviceSize(size[i]),
		}
	}
	write := C.VkWriteDescriptorSet{
		sType:           C.VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET,
		dstSet:          h.sets[cpy],
		dstBinding:      C.uint32_t(nr),
		dstArrayElement: C.uint32_t(idx),
		descriptorCount: C.uint32_t(len(buf)),
		descriptorType:  h.typeOf(nr),
		pBufferInfo:     p,
	}
	C.vkUpdateDescriptorSets(h.d.dev, 1, &write, 0, nil)
	return nil
}

// SetImage writes image-view descriptors into copy cpy of binding
// nr, starting at array index idx.
func (h *descHeap) SetImage(cpy, nr, idx int, views []driver.ImageView) error {
	if cpy < 0 || cpy >= len(h.sets) {
		return errors.New("vk: descriptor heap copy out of range")
	}
	p := (*C.VkDescriptorImageInfo)(C.malloc(C.size_t(len(views)) * C.sizeof_VkDescriptorImageInfo))
	defer C.free(unsafe.Pointer(p))
	s := unsafe.Slice(p, len(views))
	typ := h.typeOf(nr)
	var lay C.VkImageLayout
	if typ == C.VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE || typ == C.VK_DESCRIPTOR_TYPE_INPUT_ATTACHMENT {
		lay = C.VK_IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL
	} else {
		lay = C.VK_IMAGE_LAYOUT_GENERAL
	}
	for i := range s {
		s[i] = C.VkDescriptorImageInfo{
			imageView:   views[i].(*imageView).view,
			imageLayout: lay,
		}
	}
	write := C.VkWriteDescriptorSet{
		sType:           C.VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET,
		dstSet:          h.sets[cpy],
		dstBinding:      C.uint32_t(nr),
		dstArrayElement: C.uint32_t(idx),
		descriptorCount: C.uint32_t(len(views)),
		descriptorType:  typ,
		pImageInfo:      p,
	}
	C.vkUpdateDescriptorSets(h.d.dev, 1, &write, 0, nil)
	return nil
}

// SetSampler writes sampler descriptors into copy cpy of binding
// nr, starting at array index idx.
func (h *descHeap) SetSampler(cpy, nr, idx int, splr []driver.Sampler) error {
	if cpy < 0 || cpy >= len(h.sets) {
		return errors.New("vk: descriptor heap copy out of range")
	}
	p := (*C.VkDescriptorImageInfo)(C.malloc(C.size_t(len(splr)) * C.sizeof_VkDescriptorImageInfo))
	defer C.free(unsafe.Pointer(p))
	s := unsafe.Slice(p, len(splr))
	for i := range s {
		s[i] = C.VkDescriptorImageInfo{
			sampler: splr[i].(*sampler).splr,
		}
	}
	write := C.VkWriteDescriptorSet{
		sType:           C.VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET,
		dstSet:          h.sets[cpy],
		dstBinding:      C.uint32_t(nr),
		dstArrayElement: C.uint32_t(idx),
		descriptorCount: C.uint32_t(len(splr)),
		descriptorType:  h.typeOf(nr),
		pImageInfo:      p,
	}
	C.vkUpdateDescriptorSets(h.d.dev, 1, &write, 0, nil)
	return nil
}

// Destroy destroys the descriptor heap.
func (h *descHeap) Destroy() {
	if h == nil {
		return
	}
	if h.d != nil {
		C.vkDestroyDescriptorSetLayout(h.d.dev, h.layout, nil)
		// h.pool is never cleared by New, just replaced.
		if len(h.sets) != 0 && h.pool != nil {
			C.vkDestroyDescriptorPool(h.d.dev, h.pool, nil)
			C.free(unsafe.Pointer(&h.sets[0]))
		}
	}
	*h = descHeap{}
}

// descTable implements driver.DescTable. It holds one descHeap per
// update frequency that has bindings, behind a single
// VkPipelineLayout. DescriptorData writes are not batched: Update
// issues one vkUpdateDescriptorSets call per entry.
type descTable struct {
	d      *Driver
	rs     *rootSignature
	heaps  []*descHeap // one per UpdateFreq that has bindings
	layout C.VkPipelineLayout
}

// NewDescTable creates a new descriptor table bound to rs's
// per-frequency layout.
func (d *Driver) NewDescTable(rs driver.RootSignature) (driver.DescTable, error) {
	r := rs.(*rootSignature)
	heaps := make([]*descHeap, 0, len(r.freqDescs))
	setLayouts := make([]C.VkDescriptorSetLayout, 0, len(r.freqDescs))
	for _, freq := range r.freqOrder {
		descs := r.freqDescs[freq]
		if len(descs) == 0 {
			continue
		}
		h, err := d.NewDescHeap(descs)
		if err != nil {
			for _, prev := range heaps {
				prev.Destroy()
			}
			return nil, err
		}
		dh := h.(*descHeap)
		heaps = append(heaps, dh)
		setLayouts = append(setLayouts, dh.layout)
	}

	var p *C.VkDescriptorSetLayout
	if len(setLayouts) > 0 {
		p = &setLayouts[0]
	}
	var ranges []C.VkPushConstantRange
	for _, pc := range r.pushConstants {
		ranges = append(ranges, C.VkPushConstantRange{
			stageFlags: convShaderStage(pc.Stages),
			offset:     C.uint32_t(pc.Offset),
			size:       C.uint32_t(pc.Size),
		})
	}
	var pr *C.VkPushConstantRange
	if len(ranges) > 0 {
		pr = &ranges[0]
	}
	info := C.VkPipelineLayoutCreateInfo{
		sType:                  C.VK_STRUCTURE_TYPE_PIPELINE_LAYOUT_CREATE_INFO,
		setLayoutCount:         C.uint32_t(len(setLayouts)),
		pSetLayouts:            p,
		pushConstantRangeCount: C.uint32_t(len(ranges)),
		pPushConstantRanges:    pr,
	}
	var layout C.VkPipelineLayout
	err := checkResult(C.vkCreatePipelineLayout(d.dev, &info, nil, &layout))
	if err != nil {
		for _, h := range heaps {
			h.Destroy()
		}
		return nil, err
	}
	return &descTable{
		d:      d,
		rs:     r,
		heaps:  heaps,
		layout: layout,
	}, nil
}

// New pre-allocates n set slots across every per-frequency heap.
func (t *descTable) New(n int) error {
	for _, h := range t.heaps {
		if err := h.New(n); err != nil {
			return err
		}
	}
	return nil
}

// Update writes the entries of data into set slot index. Each entry
// goes through its heap's SetBuffer, SetImage or SetSampler, so every
// entry is a separate vkUpdateDescriptorSets call; writes are not
// batched across entries.
func (t *descTable) Update(index int, data []driver.DescriptorData) error {
	for i := range data {
		d := &data[i]
		name := d.Name
		idx := d.Index
		if name != "" {
			n, ok := t.rs.Name(name)
			if !ok {
				return errors.New("vk: unknown root signature resource: " + name)
			}
			idx = n
		}
		bind, ok := t.rs.binds[idx]
		if !ok {
			return errors.New("vk: descriptor handle out of range")
		}
		heap := t.heapFor(bind.freq)
		if heap == nil {
			return errors.New("vk: descriptor table has no heap for this binding's frequency")
		}
		switch {
		case len(d.Buffers) > 0:
			if err := heap.SetBuffer(index, bind.nr, 0, d.Buffers, d.Offsets, d.Sizes); err != nil {
				return err
			}
		case len(d.Views) > 0:
			if err := heap.SetImage(index, bind.nr, 0, d.Views); err != nil {
				return err
			}
		case len(d.Samplers) > 0:
			if err := heap.SetSampler(index, bind.nr, 0, d.Samplers); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *descTable) heapFor(freq driver.UpdateFreq) *descHeap {
	i := 0
	for _, f := range t.rs.freqOrder {
		if len(t.rs.freqDescs[f]) == 0 {
			continue
		}
		if f == freq {
			return t.heaps[i]
		}
		i++
	}
	return nil
}

// Destroy destroys the descriptor table and its per-frequency heaps.
func (t *descTable) Destroy() {
	if t == nil {
		return
	}
	if t.d != nil {
		C.vkDestroyPipelineLayout(t.d.dev, t.layout, nil)
		for _, h := range t.heaps {
			h.Destroy()
		}
	}
	*t = descTable{}
}
