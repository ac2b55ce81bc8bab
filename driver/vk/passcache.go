// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

// #include <proc.h>
import "C"

import (
	"hash/maphash"
	"sync"
	"unsafe"

	"github.com/ConfettiFX/forge-vulkan/driver"
)

// maxPassAttachments bounds the number of color attachments a
// cached legacy render pass/framebuffer pair can describe. It
// matches the limit enforced by most desktop/mobile Vulkan
// implementations' maxColorAttachments.
const maxPassAttachments = 8

// passCacheShards is the number of independent lock/map pairs the
// cache is split into. BeginPass runs concurrently from many
// goroutines (one cmdBuffer per recording goroutine is typical), so
// a single mutex/map would serialize unrelated render passes; Go has
// no notion of per-thread storage, so sharding by key hash is the
// idiomatic substitute for the per-thread cache used elsewhere.
const passCacheShards = 16

// colorKey identifies the shape of one color attachment.
type colorKey struct {
	format  driver.PixelFmt
	samples int
	load    driver.LoadOp
	store   driver.StoreOp
	resolve bool
}

// dsKey identifies the shape of a depth/stencil attachment.
type dsKey struct {
	used              bool
	format            driver.PixelFmt
	samples           int
	loadD             driver.LoadOp
	storeD            driver.StoreOp
	loadS             driver.LoadOp
	storeS            driver.StoreOp
	resolve, readOnly bool
}

// passKey identifies a legacy render pass by the shape of its
// attachments. BeginPass calls that describe the same shape, even
// with different backing images, share a VkRenderPass.
type passKey struct {
	ncolor int
	color  [maxPassAttachments]colorKey
	ds     dsKey
}

// fbKey identifies a legacy framebuffer: the exact set of image
// views bound to a specific cached render pass, at a specific size.
// Unlike passKey, this is necessarily per-image-view and so yields
// far less reuse; it still saves the vkCreateFramebuffer call
// whenever the same render target set is reused across frames,
// which is the common case for e.g. a G-buffer or shadow map.
type fbKey struct {
	pass                  C.VkRenderPass
	width, height, layers int
	nviews                int
	views                 [2*maxPassAttachments + 1]C.VkImageView
}

type passShard struct {
	mu sync.Mutex
	m  map[passKey]*renderPass
}

type fbShard struct {
	mu sync.Mutex
	m  map[fbKey]*framebuf
}

// passCache caches the legacy VkRenderPass/VkFramebuffer objects
// synthesized by BeginPass on devices without
// VK_KHR_dynamic_rendering. Entries are never evicted: the set of
// distinct attachment shapes and render target combinations used by
// an application is bounded and typically small relative to its
// frame count, so this trades a little memory for never recreating
// the same pass/framebuffer twice.
type passCache struct {
	seed       maphash.Seed
	passShards [passCacheShards]passShard
	fbShards   [passCacheShards]fbShard
}

// newPassCache creates an empty cache.
func newPassCache() *passCache {
	pc := &passCache{seed: maphash.MakeSeed()}
	for i := range pc.passShards {
		pc.passShards[i].m = make(map[passKey]*renderPass)
	}
	for i := range pc.fbShards {
		pc.fbShards[i].m = make(map[fbKey]*framebuf)
	}
	return pc
}

// hashBytes hashes an arbitrary fixed-layout value's raw bytes.
func (pc *passCache) hashBytes(p unsafe.Pointer, n uintptr) uint64 {
	var h maphash.Hash
	h.SetSeed(pc.seed)
	h.Write(unsafe.Slice((*byte)(p), n))
	return h.Sum64()
}

// passFor returns the cached render pass for key, creating it via
// make if absent.
func (pc *passCache) passFor(key passKey, make func() (*renderPass, error)) (*renderPass, error) {
	h := pc.hashBytes(unsafe.Pointer(&key), unsafe.Sizeof(key))
	s := &pc.passShards[h%passCacheShards]
	s.mu.Lock()
	defer s.mu.Unlock()
	if rp, ok := s.m[key]; ok {
		return rp, nil
	}
	rp, err := make()
	if err != nil {
		return nil, err
	}
	s.m[key] = rp
	return rp, nil
}

// fbFor returns the cached framebuffer for key, creating it via
// make if absent.
func (pc *passCache) fbFor(key fbKey, make func() (*framebuf, error)) (*framebuf, error) {
	h := pc.hashBytes(unsafe.Pointer(&key), unsafe.Sizeof(key))
	s := &pc.fbShards[h%passCacheShards]
	s.mu.Lock()
	defer s.mu.Unlock()
	if fb, ok := s.m[key]; ok {
		return fb, nil
	}
	fb, err := make()
	if err != nil {
		return nil, err
	}
	s.m[key] = fb
	return fb, nil
}

// getPassCache lazily creates d's cache on first use, since most
// drivers in practice advertise VK_KHR_dynamic_rendering and will
// never need one.
func (d *Driver) getPassCache() *passCache {
	d.passCacheMu.Lock()
	defer d.passCacheMu.Unlock()
	if d.passCache == nil {
		d.passCache = newPassCache()
	}
	return d.passCache
}
