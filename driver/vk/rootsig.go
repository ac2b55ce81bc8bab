// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

// #include <stdlib.h>
// #include <proc.h>
import "C"

import (
	"github.com/ConfettiFX/forge-vulkan/driver"
)

// rootSignature implements driver.RootSignature. It merges the
// reflection data of every ShaderFunc passed to NewRootSignature
// into one binding layout, grouped by update frequency: resources
// that already name a Freq keep it, the rest are assigned from
// their reflected Set number modulo the number of frequency
// classes, so that descriptor sets with a higher declared set
// index land in the higher-churn buckets.
type rootSignature struct {
	d *Driver

	// freqOrder lists every frequency in binding order
	// (FreqNone..FreqPerDraw); freqDescs may hold an empty slice
	// for a frequency with no resources.
	freqOrder []driver.UpdateFreq
	freqDescs map[driver.UpdateFreq][]driver.Descriptor

	// binds maps a flat handle index (as returned by Name, and as
	// referenced by DescriptorData.Index) to the binding number and
	// frequency it resolves to.
	binds map[int]rootBind

	names map[string]int

	pushConstants []driver.PushConstantRange

	// layout is a VkPipelineLayout built from the same per-frequency
	// bindings as any DescTable derived from this signature, used to
	// create pipelines without requiring a live DescTable up front.
	layout C.VkPipelineLayout
}

type rootBind struct {
	nr   int
	freq driver.UpdateFreq
}

const defaultRootCBVSuffix = "_rootcbv"

// NewRootSignature merges shader reflection into an immutable
// binding layout, assigning every reflected resource a binding
// number unique within its update-frequency set and a flat handle
// index unique across the whole signature.
func (d *Driver) NewRootSignature(shaders []driver.ShaderFunc, desc *driver.RootSignatureDesc) (driver.RootSignature, error) {
	suffix := defaultRootCBVSuffix
	var staticSamplers []driver.StaticSampler
	if desc != nil {
		if desc.RootCBVSuffix != "" {
			suffix = desc.RootCBVSuffix
		}
		staticSamplers = desc.StaticSamplers
	}

	type merged struct {
		name  string
		typ   driver.DescType
		set   int
		count int
		freq  driver.UpdateFreq
		stage driver.Sync
	}
	byKey := make(map[[2]int]*merged)
	var order [][2]int

	for i := range shaders {
		r := &shaders[i].Reflection
		for j := range r.Resources {
			res := &r.Resources[j]
			key := [2]int{res.Set, res.Register}
			m, ok := byKey[key]
			if !ok {
				m = &merged{
					name:  res.Name,
					typ:   res.Type,
					set:   res.Set,
					count: res.Count,
					freq:  res.Freq,
				}
				byKey[key] = m
				order = append(order, key)
			}
			m.stage |= shaders[i].Stages
		}
	}

	// Merge push-constant ranges, unioning stages for identically
	// named ranges (the same range declared in more than one stage).
	pcByName := make(map[string]*driver.PushConstantRange)
	var pcOrder []string
	for i := range shaders {
		for j := range shaders[i].Reflection.PushConstants {
			pc := shaders[i].Reflection.PushConstants[j]
			if p, ok := pcByName[pc.Name]; ok {
				p.Stages |= pc.Stages
				continue
			}
			cp := pc
			pcByName[pc.Name] = &cp
			pcOrder = append(pcOrder, pc.Name)
		}
	}
	pushConstants := make([]driver.PushConstantRange, len(pcOrder))
	for i, name := range pcOrder {
		pushConstants[i] = *pcByName[name]
	}

	freqDescs := map[driver.UpdateFreq][]driver.Descriptor{
		driver.FreqNone:     nil,
		driver.FreqPerFrame: nil,
		driver.FreqPerBatch: nil,
		driver.FreqPerDraw:  nil,
	}
	binds := make(map[int]rootBind)
	names := make(map[string]int)
	handle := 0

	assign := func(name string, typ driver.DescType, freq driver.UpdateFreq, count int, stage driver.Sync) {
		nr := len(freqDescs[freq])
		freqDescs[freq] = append(freqDescs[freq], driver.Descriptor{
			Type:   typ,
			Stages: stage,
			Nr:     nr,
			Len:    count,
		})
		binds[handle] = rootBind{nr: nr, freq: freq}
		if name != "" {
			names[name] = handle
		}
		handle++
	}

	for _, key := range order {
		m := byKey[key]
		freq := m.freq
		if freq == driver.FreqNone && m.set != 0 {
			freq = driver.UpdateFreq(m.set % int(driver.FreqCount))
		}
		typ := m.typ
		if typ == driver.DConstant && m.count == 1 && len(m.name) >= len(suffix) &&
			m.name[len(m.name)-len(suffix):] == suffix {
			typ = driver.DConstantDynamic
		}
		assign(m.name, typ, freq, m.count, m.stage)
	}

	for i := range staticSamplers {
		assign(staticSamplers[i].Name, driver.DSampler, driver.FreqNone, 1, driver.SVertex|driver.SFragment|driver.SCompute)
	}

	freqOrder := []driver.UpdateFreq{
		driver.FreqNone,
		driver.FreqPerFrame,
		driver.FreqPerBatch,
		driver.FreqPerDraw,
	}

	var setLayouts []C.VkDescriptorSetLayout
	for _, freq := range freqOrder {
		descs := freqDescs[freq]
		if len(descs) == 0 {
			continue
		}
		sl, err := createSetLayout(d, descs)
		if err != nil {
			for _, prev := range setLayouts {
				C.vkDestroyDescriptorSetLayout(d.dev, prev, nil)
			}
			return nil, err
		}
		setLayouts = append(setLayouts, sl)
	}
	defer func() {
		for _, sl := range setLayouts {
			C.vkDestroyDescriptorSetLayout(d.dev, sl, nil)
		}
	}()

	var pSetLayouts *C.VkDescriptorSetLayout
	if len(setLayouts) > 0 {
		pSetLayouts = &setLayouts[0]
	}
	var ranges []C.VkPushConstantRange
	for i := range pushConstants {
		ranges = append(ranges, C.VkPushConstantRange{
			stageFlags: convShaderStage(pushConstants[i].Stages),
			offset:     C.uint32_t(pushConstants[i].Offset),
			size:       C.uint32_t(pushConstants[i].Size),
		})
	}
	var pRanges *C.VkPushConstantRange
	if len(ranges) > 0 {
		pRanges = &ranges[0]
	}
	info := C.VkPipelineLayoutCreateInfo{
		sType:                  C.VK_STRUCTURE_TYPE_PIPELINE_LAYOUT_CREATE_INFO,
		setLayoutCount:         C.uint32_t(len(setLayouts)),
		pSetLayouts:            pSetLayouts,
		pushConstantRangeCount: C.uint32_t(len(ranges)),
		pPushConstantRanges:    pRanges,
	}
	var layout C.VkPipelineLayout
	if err := checkResult(C.vkCreatePipelineLayout(d.dev, &info, nil, &layout)); err != nil {
		return nil, err
	}

	return &rootSignature{
		d:             d,
		freqOrder:     freqOrder,
		freqDescs:     freqDescs,
		binds:         binds,
		names:         names,
		pushConstants: pushConstants,
		layout:        layout,
	}, nil
}

// pipelineLayout returns the VkPipelineLayout built for this root
// signature, for use by pipeline creation.
func (rs *rootSignature) pipelineLayout() C.VkPipelineLayout {
	return rs.layout
}

// Name returns the handle index assigned to the named resource.
func (rs *rootSignature) Name(name string) (int, bool) {
	idx, ok := rs.names[name]
	return idx, ok
}

// Destroy releases the root signature's pipeline layout. DescTables
// and their DescHeaps derived from it own independent, structurally
// compatible layouts and are unaffected.
func (rs *rootSignature) Destroy() {
	if rs == nil {
		return
	}
	if rs.d != nil {
		C.vkDestroyPipelineLayout(rs.d.dev, rs.layout, nil)
	}
	*rs = rootSignature{}
}
