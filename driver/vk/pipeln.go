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

// pipeline implements driver.Pipeline.
type pipeline struct {
	d     *Driver
	pl    C.VkPipeline
	bindp C.VkPipelineBindPoint
	name  string
}

// NewPipeline creates a new pipeline from a *driver.GraphState or a
// *driver.CompState, optionally reading from/writing to cache.
func (d *Driver) NewPipeline(state any, cache driver.PipelineCache) (driver.Pipeline, error) {
	var vkCache C.VkPipelineCache
	if cache != nil {
		vkCache = cache.(*pipelineCache).cache
	}
	switch t := state.(type) {
	case *driver.GraphState:
		return d.newGraphics(t, vkCache)
	case *driver.CompState:
		return d.newCompute(t, vkCache)
	}
	return nil, errors.New("vk: unknown pipeline state type")
}

// newGraphics creates a new graphics pipeline. Pipelines are always
// compiled against a VkPipelineRenderingCreateInfo derived from
// gs.ColorFmt/gs.DSFmt; on devices without VK_KHR_dynamic_rendering
// this chain is still accepted (VK_KHR_dynamic_rendering is required
// for pipeline creation even when a cached legacy VkRenderPass is
// used for the actual draw).
func (d *Driver) newGraphics(gs *driver.GraphState, cache C.VkPipelineCache) (driver.Pipeline, error) {
	var layout C.VkPipelineLayout
	if gs.RootSig != nil {
		layout = gs.RootSig.(*rootSignature).pipelineLayout()
	}

	ncolor := len(gs.ColorFmt)
	cfmts := make([]C.VkFormat, ncolor)
	for i, pf := range gs.ColorFmt {
		cfmts[i] = convPixelFmt(pf)
	}
	var pcfmts *C.VkFormat
	if ncolor > 0 {
		pcfmts = &cfmts[0]
	}
	rendering := C.VkPipelineRenderingCreateInfo{
		sType:                   C.VK_STRUCTURE_TYPE_PIPELINE_RENDERING_CREATE_INFO,
		colorAttachmentCount:    C.uint32_t(ncolor),
		pColorAttachmentFormats: pcfmts,
	}
	if gs.DSFmt != driver.FInvalid {
		fmt := convPixelFmt(gs.DSFmt)
		if gs.DSFmt == driver.S8ui {
			rendering.stencilAttachmentFormat = fmt
		} else {
			rendering.depthAttachmentFormat = fmt
			if aspectOf(gs.DSFmt)&C.VK_IMAGE_ASPECT_STENCIL_BIT != 0 {
				rendering.stencilAttachmentFormat = fmt
			}
		}
	}

	info := C.VkGraphicsPipelineCreateInfo{
		sType:             C.VK_STRUCTURE_TYPE_GRAPHICS_PIPELINE_CREATE_INFO,
		pNext:             unsafe.Pointer(&rendering),
		layout:            layout,
		basePipelineIndex: -1,
	}
	free := [...]func(){
		setGraphStages(gs, &info),
		setGraphInput(gs, &info),
		setGraphIA(gs, &info),
		setGraphTess(gs, &info),
		setGraphViewport(gs, &info),
		setGraphRaster(gs, &info),
		setGraphMS(gs, &info),
		setGraphDS(gs, &info),
		setGraphBlend(gs, &info, ncolor),
		setGraphDynamic(gs, &info, ncolor),
	}
	var pl C.VkPipeline
	err := checkResult(C.vkCreateGraphicsPipelines(d.dev, cache, 1, &info, nil, &pl))
	for _, f := range free {
		f()
	}
	if err != nil {
		return nil, err
	}
	return &pipeline{d: d, pl: pl, bindp: C.VK_PIPELINE_BIND_POINT_GRAPHICS}, nil
}

// setGraphStages sets the shader stages for graphics pipeline creation.
func setGraphStages(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo) (free func()) {
	nstg := 2
	pstg := (*C.VkPipelineShaderStageCreateInfo)(C.malloc(C.size_t(nstg) * C.sizeof_VkPipelineShaderStageCreateInfo))
	*pstg = C.VkPipelineShaderStageCreateInfo{
		sType:  C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO,
		stage:  C.VK_SHADER_STAGE_VERTEX_BIT,
		module: gs.VertFunc.Code.(*shaderCode).mod,
		pName:  C.CString(gs.VertFunc.Name),
	}
	if gs.FragFunc.Code == nil {
		nstg--
		free = func() {
			C.free(unsafe.Pointer(pstg.pName))
			C.free(unsafe.Pointer(pstg))
		}
	} else {
		fstg := (*C.VkPipelineShaderStageCreateInfo)(unsafe.Add(unsafe.Pointer(pstg), C.sizeof_VkPipelineShaderStageCreateInfo))
		*fstg = C.VkPipelineShaderStageCreateInfo{
			sType:  C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO,
			stage:  C.VK_SHADER_STAGE_FRAGMENT_BIT,
			module: gs.FragFunc.Code.(*shaderCode).mod,
			pName:  C.CString(gs.FragFunc.Name),
		}
		free = func() {
			C.free(unsafe.Pointer(pstg.pName))
			C.free(unsafe.Pointer(fstg.pName))
			C.free(unsafe.Pointer(pstg))
		}
	}
	info.stageCount = C.uint32_t(nstg)
	info.pStages = pstg
	return
}

// setGraphInput sets the vertex input state for graphics pipeline
// creation. Each attribute maps to its own binding number (vertex
// data is non-interleaved); a zero Stride is auto-derived as the
// attribute's own offset+size, since with one binding per attribute
// there is nothing else in the binding to span.
func setGraphInput(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo) (free func()) {
	pin := (*C.VkPipelineVertexInputStateCreateInfo)(C.malloc(C.sizeof_VkPipelineVertexInputStateCreateInfo))
	info.pVertexInputState = pin
	nin := len(gs.Input)
	if nin > 0 {
		pbind := (*C.VkVertexInputBindingDescription)(C.malloc(C.size_t(nin) * C.sizeof_VkVertexInputBindingDescription))
		sbind := unsafe.Slice(pbind, nin)
		pattr := (*C.VkVertexInputAttributeDescription)(C.malloc(C.size_t(nin) * C.sizeof_VkVertexInputAttributeDescription))
		sattr := unsafe.Slice(pattr, nin)
		for i := range sbind {
			in := &gs.Input[i]
			stride := in.Stride
			if stride == 0 {
				stride = in.Offset + vertexFmtSize(in.Format)
			}
			rate := C.VkVertexInputRate(C.VK_VERTEX_INPUT_RATE_VERTEX)
			if in.Instance {
				rate = C.VK_VERTEX_INPUT_RATE_INSTANCE
			}
			sbind[i] = C.VkVertexInputBindingDescription{
				binding:   C.uint32_t(i),
				stride:    C.uint32_t(stride),
				inputRate: rate,
			}
			sattr[i] = C.VkVertexInputAttributeDescription{
				location: C.uint32_t(in.Nr),
				binding:  C.uint32_t(i),
				format:   convVertexFmt(in.Format),
				offset:   C.uint32_t(in.Offset),
			}
		}
		*pin = C.VkPipelineVertexInputStateCreateInfo{
			sType:                           C.VK_STRUCTURE_TYPE_PIPELINE_VERTEX_INPUT_STATE_CREATE_INFO,
			vertexBindingDescriptionCount:   C.uint32_t(nin),
			pVertexBindingDescriptions:      pbind,
			vertexAttributeDescriptionCount: C.uint32_t(nin),
			pVertexAttributeDescriptions:    pattr,
		}
		free = func() {
			C.free(unsafe.Pointer(pbind))
			C.free(unsafe.Pointer(pattr))
			C.free(unsafe.Pointer(pin))
		}
	} else {
		*pin = C.VkPipelineVertexInputStateCreateInfo{
			sType: C.VK_STRUCTURE_TYPE_PIPELINE_VERTEX_INPUT_STATE_CREATE_INFO,
		}
		free = func() {
			C.free(unsafe.Pointer(pin))
		}
	}
	return
}

// vertexFmtSize returns the byte size of a single driver.VertexFmt value.
func vertexFmtSize(vf driver.VertexFmt) int {
	switch vf {
	case driver.Uint8Normx4, driver.Int8Normx4:
		return 4
	case driver.Float32, driver.Int32, driver.Uint32:
		return 4
	case driver.Float32x2, driver.Int32x2, driver.Uint32x2:
		return 8
	case driver.Float32x3, driver.Int32x3, driver.Uint32x3:
		return 12
	case driver.Float32x4, driver.Int32x4, driver.Uint32x4:
		return 16
	}
	return 0
}

// setGraphIA sets the input assembly state for graphics pipeline creation.
func setGraphIA(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo) (free func()) {
	pia := (*C.VkPipelineInputAssemblyStateCreateInfo)(C.malloc(C.sizeof_VkPipelineInputAssemblyStateCreateInfo))
	*pia = C.VkPipelineInputAssemblyStateCreateInfo{
		sType:    C.VK_STRUCTURE_TYPE_PIPELINE_INPUT_ASSEMBLY_STATE_CREATE_INFO,
		topology: convTopology(gs.Topology),
	}
	info.pInputAssemblyState = pia
	return func() {
		C.free(unsafe.Pointer(pia))
	}
}

// setGraphTess sets the tessellation state for graphics pipeline creation.
func setGraphTess(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo) (free func()) {
	// Tessellation is not supported currently.
	info.pTessellationState = nil
	return func() {}
}

// setGraphViewport sets the viewport state for graphics pipeline creation.
// Viewport and scissor are always dynamic state, set at draw time.
func setGraphViewport(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo) (free func()) {
	pvp := (*C.VkPipelineViewportStateCreateInfo)(C.malloc(C.sizeof_VkPipelineViewportStateCreateInfo))
	*pvp = C.VkPipelineViewportStateCreateInfo{
		sType:         C.VK_STRUCTURE_TYPE_PIPELINE_VIEWPORT_STATE_CREATE_INFO,
		viewportCount: 1,
		scissorCount:  1,
	}
	info.pViewportState = pvp
	return func() {
		C.free(unsafe.Pointer(pvp))
	}
}

// setGraphRaster sets the rasterization state for graphics pipeline creation.
func setGraphRaster(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo) (free func()) {
	var frontFace C.VkFrontFace
	if gs.Raster.Clockwise {
		frontFace = C.VK_FRONT_FACE_CLOCKWISE
	} else {
		frontFace = C.VK_FRONT_FACE_COUNTER_CLOCKWISE
	}
	var depthBias, discard C.VkBool32
	if gs.Raster.DepthBias {
		depthBias = C.VK_TRUE
	}
	if gs.Raster.Discard {
		discard = C.VK_TRUE
	}
	prz := (*C.VkPipelineRasterizationStateCreateInfo)(C.malloc(C.sizeof_VkPipelineRasterizationStateCreateInfo))
	*prz = C.VkPipelineRasterizationStateCreateInfo{
		sType:                   C.VK_STRUCTURE_TYPE_PIPELINE_RASTERIZATION_STATE_CREATE_INFO,
		rasterizerDiscardEnable: discard,
		polygonMode:             convFillMode(gs.Raster.Fill),
		cullMode:                convCullMode(gs.Raster.Cull),
		frontFace:               frontFace,
		depthBiasEnable:         depthBias,
		depthBiasConstantFactor: C.float(gs.Raster.DepthBiasConstant),
		depthBiasClamp:          C.float(gs.Raster.DepthBiasClamp),
		depthBiasSlopeFactor:    C.float(gs.Raster.DepthBiasSlope),
		lineWidth:               1.0,
	}
	info.pRasterizationState = prz
	return func() {
		C.free(unsafe.Pointer(prz))
	}
}

// setGraphMS sets the multisample state for graphics pipeline creation.
func setGraphMS(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo) (free func()) {
	pms := (*C.VkPipelineMultisampleStateCreateInfo)(C.malloc(C.sizeof_VkPipelineMultisampleStateCreateInfo))
	*pms = C.VkPipelineMultisampleStateCreateInfo{
		sType:                C.VK_STRUCTURE_TYPE_PIPELINE_MULTISAMPLE_STATE_CREATE_INFO,
		rasterizationSamples: convSamples(gs.Samples),
	}
	if gs.Blend.AlphaToCoverage {
		pms.alphaToCoverageEnable = C.VK_TRUE
	}
	info.pMultisampleState = pms
	return func() {
		C.free(unsafe.Pointer(pms))
	}
}

// setGraphDS sets the depth/stencil state for graphics pipeline creation.
func setGraphDS(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo) (free func()) {
	pds := (*C.VkPipelineDepthStencilStateCreateInfo)(C.malloc(C.sizeof_VkPipelineDepthStencilStateCreateInfo))
	*pds = C.VkPipelineDepthStencilStateCreateInfo{
		sType: C.VK_STRUCTURE_TYPE_PIPELINE_DEPTH_STENCIL_STATE_CREATE_INFO,
	}
	if gs.DS.DepthTest {
		pds.depthTestEnable = C.VK_TRUE
		if gs.DS.DepthWrite {
			pds.depthWriteEnable = C.VK_TRUE
		}
		pds.depthCompareOp = convCmpFunc(gs.DS.DepthFunc)
	}
	if gs.DS.DepthBounds {
		pds.depthBoundsTestEnable = C.VK_TRUE
		pds.maxDepthBounds = 1
	}
	if gs.DS.StencilTest {
		pds.stencilTestEnable = C.VK_TRUE
		pds.front = convStencilState(&gs.DS.Front)
		pds.back = convStencilState(&gs.DS.Back)
	}
	info.pDepthStencilState = pds
	return func() {
		C.free(unsafe.Pointer(pds))
	}
}

// convStencilState converts a driver.StencilT to a VkStencilOpState.
func convStencilState(s *driver.StencilT) C.VkStencilOpState {
	return C.VkStencilOpState{
		failOp:      convStencilOp(s.SFail),
		passOp:      convStencilOp(s.DPPass),
		depthFailOp: convStencilOp(s.DPFail),
		compareOp:   convCmpFunc(s.Func),
		compareMask: C.uint32_t(s.RdMask),
		writeMask:   C.uint32_t(s.WrMask),
	}
}

// setGraphBlend sets the color blend state for graphics pipeline creation.
func setGraphBlend(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo, ncolor int) (free func()) {
	if ncolor == 0 {
		info.pColorBlendState = nil
		return func() {}
	}
	pba := (*C.VkPipelineColorBlendAttachmentState)(C.malloc(C.size_t(ncolor) * C.sizeof_VkPipelineColorBlendAttachmentState))
	sba := unsafe.Slice(pba, ncolor)
	if gs.Blend.IndependentBlend {
		// gs.Blend.Color has one entry per color attachment.
		for i := range sba {
			sba[i] = convColorBlend(&gs.Blend.Color[i])
		}
	} else {
		// gs.Blend.Color[0] applies to every color attachment.
		sba[0] = convColorBlend(&gs.Blend.Color[0])
		for i := 1; i < ncolor; i++ {
			sba[i] = sba[0]
		}
	}
	pbs := (*C.VkPipelineColorBlendStateCreateInfo)(C.malloc(C.sizeof_VkPipelineColorBlendStateCreateInfo))
	var alphaToCoverage C.VkBool32
	if gs.Blend.AlphaToCoverage {
		alphaToCoverage = C.VK_TRUE
	}
	_ = alphaToCoverage // setGraphMS applies gs.Blend.AlphaToCoverage itself.
	*pbs = C.VkPipelineColorBlendStateCreateInfo{
		sType:           C.VK_STRUCTURE_TYPE_PIPELINE_COLOR_BLEND_STATE_CREATE_INFO,
		attachmentCount: C.uint32_t(ncolor),
		pAttachments:    pba,
	}
	info.pColorBlendState = pbs
	return func() {
		C.free(unsafe.Pointer(pba))
		C.free(unsafe.Pointer(pbs))
	}
}

// convColorBlend converts a driver.ColorBlend to a
// VkPipelineColorBlendAttachmentState.
func convColorBlend(cb *driver.ColorBlend) C.VkPipelineColorBlendAttachmentState {
	var blend C.VkBool32
	if cb.Blend {
		blend = C.VK_TRUE
	}
	return C.VkPipelineColorBlendAttachmentState{
		blendEnable:         blend,
		srcColorBlendFactor: convBlendFac(cb.SrcFacRGB),
		dstColorBlendFactor: convBlendFac(cb.DstFacRGB),
		colorBlendOp:        convBlendOp(cb.OpRGB),
		srcAlphaBlendFactor: convBlendFac(cb.SrcFacA),
		dstAlphaBlendFactor: convBlendFac(cb.DstFacA),
		alphaBlendOp:        convBlendOp(cb.OpA),
		colorWriteMask:      convColorMask(cb.WriteMask),
	}
}

// setGraphDynamic sets the dynamic state for graphics pipeline
// creation: viewport/scissor are always dynamic; blend constants
// are added when any color attachment is present; stencil reference
// is added when the stencil test is enabled; sample locations are
// added when the raster state requests them.
func setGraphDynamic(gs *driver.GraphState, info *C.VkGraphicsPipelineCreateInfo, ncolor int) (free func()) {
	const dmax = 5
	pd := (*C.VkDynamicState)(C.malloc(dmax * C.sizeof_VkDynamicState))
	sd := unsafe.Slice(pd, dmax)
	sd[0] = C.VK_DYNAMIC_STATE_VIEWPORT
	sd[1] = C.VK_DYNAMIC_STATE_SCISSOR
	nd := 2
	if ncolor > 0 {
		sd[nd] = C.VK_DYNAMIC_STATE_BLEND_CONSTANTS
		nd++
	}
	if gs.DS.StencilTest {
		sd[nd] = C.VK_DYNAMIC_STATE_STENCIL_REFERENCE
		nd++
	}
	if gs.Raster.ProgrammableSampleLocations {
		sd[nd] = C.VK_DYNAMIC_STATE_SAMPLE_LOCATIONS_EXT
		nd++
	}
	pdyn := (*C.VkPipelineDynamicStateCreateInfo)(C.malloc(C.sizeof_VkPipelineDynamicStateCreateInfo))
	*pdyn = C.VkPipelineDynamicStateCreateInfo{
		sType:             C.VK_STRUCTURE_TYPE_PIPELINE_DYNAMIC_STATE_CREATE_INFO,
		dynamicStateCount: C.uint32_t(nd),
		pDynamicStates:    pd,
	}
	info.pDynamicState = pdyn
	return func() {
		C.free(unsafe.Pointer(pd))
		C.free(unsafe.Pointer(pdyn))
	}
}

// newCompute creates a new compute pipeline.
func (d *Driver) newCompute(cs *driver.CompState, cache C.VkPipelineCache) (driver.Pipeline, error) {
	var layout C.VkPipelineLayout
	if cs.RootSig != nil {
		layout = cs.RootSig.(*rootSignature).pipelineLayout()
	}
	info := C.VkComputePipelineCreateInfo{
		sType: C.VK_STRUCTURE_TYPE_COMPUTE_PIPELINE_CREATE_INFO,
		stage: C.VkPipelineShaderStageCreateInfo{
			sType:  C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO,
			stage:  C.VK_SHADER_STAGE_COMPUTE_BIT,
			module: cs.Shader.Code.(*shaderCode).mod,
			pName:  C.CString(cs.Shader.Name),
		},
		layout:            layout,
		basePipelineIndex: -1,
	}
	defer C.free(unsafe.Pointer(info.stage.pName))
	var pl C.VkPipeline
	err := checkResult(C.vkCreateComputePipelines(d.dev, cache, 1, &info, nil, &pl))
	if err != nil {
		return nil, err
	}
	return &pipeline{d: d, pl: pl, bindp: C.VK_PIPELINE_BIND_POINT_COMPUTE}, nil
}

// SetName sets the pipeline's debug name.
func (p *pipeline) SetName(name string) {
	p.name = name
	p.d.setObjectName(C.VK_OBJECT_TYPE_PIPELINE, uint64(uintptr(unsafe.Pointer(p.pl))), name)
}

// Destroy destroys the pipeline.
func (p *pipeline) Destroy() {
	if p == nil {
		return
	}
	if p.d != nil {
		C.vkDestroyPipeline(p.d.dev, p.pl, nil)
	}
	*p = pipeline{}
}

// pipelineCache implements driver.PipelineCache.
type pipelineCache struct {
	d     *Driver
	cache C.VkPipelineCache
}

// NewPipelineCache creates a new, optionally pre-populated pipeline
// cache.
func (d *Driver) NewPipelineCache(data []byte) (driver.PipelineCache, error) {
	var pdata unsafe.Pointer
	if len(data) > 0 {
		pdata = C.CBytes(data)
		defer C.free(pdata)
	}
	info := C.VkPipelineCacheCreateInfo{
		sType:           C.VK_STRUCTURE_TYPE_PIPELINE_CACHE_CREATE_INFO,
		initialDataSize: C.size_t(len(data)),
		pInitialData:    pdata,
	}
	var cache C.VkPipelineCache
	err := checkResult(C.vkCreatePipelineCache(d.dev, &info, nil, &cache))
	if err != nil {
		return nil, err
	}
	return &pipelineCache{d: d, cache: cache}, nil
}

// Data returns the cache contents for persisting to disk.
func (c *pipelineCache) Data() ([]byte, error) {
	var n C.size_t
	err := checkResult(C.vkGetPipelineCacheData(c.d.dev, c.cache, &n, nil))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	err = checkResult(C.vkGetPipelineCacheData(c.d.dev, c.cache, &n, unsafe.Pointer(&buf[0])))
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Merge folds the contents of other caches into this one.
func (c *pipelineCache) Merge(other ...driver.PipelineCache) error {
	if len(other) == 0 {
		return nil
	}
	srcs := make([]C.VkPipelineCache, len(other))
	for i := range other {
		srcs[i] = other[i].(*pipelineCache).cache
	}
	return checkResult(C.vkMergePipelineCaches(c.d.dev, c.cache, C.uint32_t(len(srcs)), &srcs[0]))
}

// Destroy destroys the pipeline cache.
func (c *pipelineCache) Destroy() {
	if c == nil {
		return
	}
	if c.d != nil {
		C.vkDestroyPipelineCache(c.d.dev, c.cache, nil)
	}
	*c = pipelineCache{}
}

// convVertexFmt converts from a driver.VertexFmt to a VkFormat.
func convVertexFmt(vf driver.VertexFmt) C.VkFormat {
	switch vf {
	case driver.Float32:
		return C.VK_FORMAT_R32_SFLOAT
	case driver.Float32x2:
		return C.VK_FORMAT_R32G32_SFLOAT
	case driver.Float32x3:
		return C.VK_FORMAT_R32G32B32_SFLOAT
	case driver.Float32x4:
		return C.VK_FORMAT_R32G32B32A32_SFLOAT
	case driver.Int32:
		return C.VK_FORMAT_R32_SINT
	case driver.Int32x2:
		return C.VK_FORMAT_R32G32_SINT
	case driver.Int32x3:
		return C.VK_FORMAT_R32G32B32_SINT
	case driver.Int32x4:
		return C.VK_FORMAT_R32G32B32A32_SINT
	case driver.Uint32:
		return C.VK_FORMAT_R32_UINT
	case driver.Uint32x2:
		return C.VK_FORMAT_R32G32_UINT
	case driver.Uint32x3:
		return C.VK_FORMAT_R32G32B32_UINT
	case driver.Uint32x4:
		return C.VK_FORMAT_R32G32B32A32_UINT
	case driver.Uint8Normx4:
		return C.VK_FORMAT_R8G8B8A8_UNORM
	case driver.Int8Normx4:
		return C.VK_FORMAT_R8G8B8A8_SNORM
	}

	// Expected to be unreachable.
	return C.VK_FORMAT_UNDEFINED
}

// convTopology converts a driver.Topology to a VkPrimitiveTopology.
func convTopology(top driver.Topology) C.VkPrimitiveTopology {
	switch top {
	case driver.TPoint:
		return C.VK_PRIMITIVE_TOPOLOGY_POINT_LIST
	case driver.TLine:
		return C.VK_PRIMITIVE_TOPOLOGY_LINE_LIST
	case driver.TLineStrip:
		return C.VK_PRIMITIVE_TOPOLOGY_LINE_STRIP
	case driver.TTriangle:
		return C.VK_PRIMITIVE_TOPOLOGY_TRIANGLE_LIST
	case driver.TTriangleStrip:
		return C.VK_PRIMITIVE_TOPOLOGY_TRIANGLE_STRIP
	}

	// Expected to be unreachable.
	return ^C.VkPrimitiveTopology(0)
}

// convCullMode converts a driver.CullMode to a VkCullModeFlags.
func convCullMode(cm driver.CullMode) C.VkCullModeFlags {
	switch cm {
	case driver.CNone:
		return C.VK_CULL_MODE_NONE
	case driver.CFront:
		return C.VK_CULL_MODE_FRONT_BIT
	case driver.CBack:
		return C.VK_CULL_MODE_BACK_BIT
	}

	// Expected to be unreachable.
	return ^C.VkCullModeFlags(0)
}

// convFillMode converts a driver.FillMode to a VkPolygonMode.
func convFillMode(fm driver.FillMode) C.VkPolygonMode {
	switch fm {
	case driver.FFill:
		return C.VK_POLYGON_MODE_FILL
	case driver.FLine:
		return C.VK_POLYGON_MODE_LINE
	case driver.FPoint:
		return C.VK_POLYGON_MODE_POINT
	}

	// Expected to be unreachable.
	return ^C.VkPolygonMode(0)
}

// convStencilOp converts a driver.StencilOp to a VkStencilOp.
func convStencilOp(op driver.StencilOp) C.VkStencilOp {
	switch op {
	case driver.StencilKeep:
		return C.VK_STENCIL_OP_KEEP
	case driver.StencilZero:
		return C.VK_STENCIL_OP_ZERO
	case driver.StencilReplace:
		return C.VK_STENCIL_OP_REPLACE
	case driver.StencilIncrClamp:
		return C.VK_STENCIL_OP_INCREMENT_AND_CLAMP
	case driver.StencilDecrClamp:
		return C.VK_STENCIL_OP_DECREMENT_AND_CLAMP
	case driver.StencilInvert:
		return C.VK_STENCIL_OP_INVERT
	case driver.StencilIncrWrap:
		return C.VK_STENCIL_OP_INCREMENT_AND_WRAP
	case driver.StencilDecrWrap:
		return C.VK_STENCIL_OP_DECREMENT_AND_WRAP
	}

	// Expected to be unreachable.
	return ^C.VkStencilOp(0)
}

// convBlendOp converts a driver.BlendOp to a VkBlendOp.
func convBlendOp(op driver.BlendOp) C.VkBlendOp {
	switch op {
	case driver.BAdd:
		return C.VK_BLEND_OP_ADD
	case driver.BSubtract:
		return C.VK_BLEND_OP_SUBTRACT
	case driver.BRevSubtract:
		return C.VK_BLEND_OP_REVERSE_SUBTRACT
	case driver.BMin:
		return C.VK_BLEND_OP_MIN
	case driver.BMax:
		return C.VK_BLEND_OP_MAX
	}

	// Expected to be unreachable.
	return ^C.VkBlendOp(0)
}

// convBlendFac converts a driver.BlendFac to a VkBlendFactor.
func convBlendFac(fac driver.BlendFac) C.VkBlendFactor {
	switch fac {
	case driver.BZero:
		return C.VK_BLEND_FACTOR_ZERO
	case driver.BOne:
		return C.VK_BLEND_FACTOR_ONE
	case driver.BSrcColor:
		return C.VK_BLEND_FACTOR_SRC_COLOR
	case driver.BInvSrcColor:
		return C.VK_BLEND_FACTOR_ONE_MINUS_SRC_COLOR
	case driver.BSrcAlpha:
		return C.VK_BLEND_FACTOR_SRC_ALPHA
	case driver.BInvSrcAlpha:
		return C.VK_BLEND_FACTOR_ONE_MINUS_SRC_ALPHA
	case driver.BDstColor:
		return C.VK_BLEND_FACTOR_DST_COLOR
	case driver.BInvDstColor:
		return C.VK_BLEND_FACTOR_ONE_MINUS_DST_COLOR
	case driver.BDstAlpha:
		return C.VK_BLEND_FACTOR_DST_ALPHA
	case driver.BInvDstAlpha:
		return C.VK_BLEND_FACTOR_ONE_MINUS_DST_ALPHA
	case driver.BBlendColor:
		return C.VK_BLEND_FACTOR_CONSTANT_COLOR
	case driver.BInvBlendColor:
		return C.VK_BLEND_FACTOR_ONE_MINUS_CONSTANT_COLOR
	}

	// Expected to be unreachable.
	return ^C.VkBlendFactor(0)
}

// convColorMask converts a driver.ColorMask to a VkColorComponentFlags.
func convColorMask(cm driver.ColorMask) (flags C.VkColorComponentFlags) {
	if cm&driver.CR != 0 {
		flags |= C.VK_COLOR_COMPONENT_R_BIT
	}
	if cm&driver.CG != 0 {
		flags |= C.VK_COLOR_COMPONENT_G_BIT
	}
	if cm&driver.CB != 0 {
		flags |= C.VK_COLOR_COMPONENT_B_BIT
	}
	if cm&driver.CA != 0 {
		flags |= C.VK_COLOR_COMPONENT_A_BIT
	}
	return
}
