// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

// #include <proc.h>
import "C"

import (
	"errors"

	"github.com/ConfettiFX/forge-vulkan/driver"
)

// resourceHeap implements driver.ResourceHeap.
type resourceHeap struct {
	d    *Driver
	mem  C.VkDeviceMemory
	size int64
	heap int
}

// NewResourceHeap creates a block of device memory that buffers and
// images can be placed into at a declared offset, bypassing the
// allocator's own suballocation.
func (d *Driver) NewResourceHeap(size int64, visible bool) (driver.ResourceHeap, error) {
	if size <= 0 {
		return nil, errors.New("vk: invalid resource heap size")
	}
	var prop C.VkMemoryPropertyFlags = C.VK_MEMORY_PROPERTY_DEVICE_LOCAL_BIT
	if visible {
		prop |= C.VK_MEMORY_PROPERTY_HOST_VISIBLE_BIT | C.VK_MEMORY_PROPERTY_HOST_COHERENT_BIT
	}
	// No specific resource backs this allocation, so every memory
	// type is a candidate as far as typeBits goes.
	const allTypes = ^uint(0)
	typ := d.selectMemory(allTypes, prop)
	if typ == -1 {
		prop &^= C.VK_MEMORY_PROPERTY_DEVICE_LOCAL_BIT
		typ = d.selectMemory(allTypes, prop)
	}
	if typ == -1 {
		return nil, errors.New("vk: no suitable memory type found")
	}

	info := C.VkMemoryAllocateInfo{
		sType:           C.VK_STRUCTURE_TYPE_MEMORY_ALLOCATE_INFO,
		allocationSize:  C.VkDeviceSize(size),
		memoryTypeIndex: C.uint32_t(typ),
	}
	var mem C.VkDeviceMemory
	if err := checkResult(C.vkAllocateMemory(d.dev, &info, nil, &mem)); err != nil {
		return nil, err
	}
	heap := int(d.mprop.memoryTypes[typ].heapIndex)
	d.mused[heap] += size

	return &resourceHeap{
		d:    d,
		mem:  mem,
		size: size,
		heap: heap,
	}, nil
}

// Size returns the heap's size in bytes.
func (h *resourceHeap) Size() int64 { return h.size }

// Destroy destroys the resource heap.
func (h *resourceHeap) Destroy() {
	if h == nil {
		return
	}
	if h.d != nil {
		C.vkFreeMemory(h.d.dev, h.mem, nil)
		h.d.mused[h.heap] -= h.size
	}
	*h = resourceHeap{}
}
