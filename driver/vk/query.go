// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

// #include <proc.h>
import "C"

import (
	"errors"
	"unsafe"

	"github.com/ConfettiFX/forge-vulkan/driver"
)

// queryPool implements driver.QueryPool.
type queryPool struct {
	d     *Driver
	pool  C.VkQueryPool
	typ   driver.QueryType
	count int // Requested query count (see driver.QueryPool).
}

// NewQueryPool creates a new query pool.
func (d *Driver) NewQueryPool(typ driver.QueryType, count int) (driver.QueryPool, error) {
	if count <= 0 {
		return nil, errors.New("vk: invalid query count")
	}
	slots := count
	var vkTyp C.VkQueryType
	var pipeStats C.VkQueryPipelineStatisticFlags
	switch typ {
	case driver.QueryTimestamp:
		vkTyp = C.VK_QUERY_TYPE_TIMESTAMP
		slots = count * 2
	case driver.QueryOcclusion:
		vkTyp = C.VK_QUERY_TYPE_OCCLUSION
	case driver.QueryPipelineStats:
		vkTyp = C.VK_QUERY_TYPE_PIPELINE_STATISTICS
		pipeStats = C.VK_QUERY_PIPELINE_STATISTIC_INPUT_ASSEMBLY_VERTICES_BIT |
			C.VK_QUERY_PIPELINE_STATISTIC_INPUT_ASSEMBLY_PRIMITIVES_BIT |
			C.VK_QUERY_PIPELINE_STATISTIC_VERTEX_SHADER_INVOCATIONS_BIT |
			C.VK_QUERY_PIPELINE_STATISTIC_CLIPPING_INVOCATIONS_BIT |
			C.VK_QUERY_PIPELINE_STATISTIC_CLIPPING_PRIMITIVES_BIT |
			C.VK_QUERY_PIPELINE_STATISTIC_FRAGMENT_SHADER_INVOCATIONS_BIT |
			C.VK_QUERY_PIPELINE_STATISTIC_COMPUTE_SHADER_INVOCATIONS_BIT
	default:
		return nil, errors.New("vk: unknown query type")
	}

	info := C.VkQueryPoolCreateInfo{
		sType:              C.VK_STRUCTURE_TYPE_QUERY_POOL_CREATE_INFO,
		queryType:          vkTyp,
		queryCount:         C.uint32_t(slots),
		pipelineStatistics: pipeStats,
	}
	var pool C.VkQueryPool
	if err := checkResult(C.vkCreateQueryPool(d.dev, &info, nil, &pool)); err != nil {
		return nil, err
	}
	if err := d.resetQueryPool(pool, slots); err != nil {
		C.vkDestroyQueryPool(d.dev, pool, nil)
		return nil, err
	}
	return &queryPool{d: d, pool: pool, typ: typ, count: count}, nil
}

// resetQueryPool resets every slot in pool using a short-lived command
// buffer, since every query slot must be reset before its first use and
// there is no CmdBuffer in scope at pool-creation time.
func (d *Driver) resetQueryPool(pool C.VkQueryPool, slots int) error {
	cbi, err := d.newCmdBuffer(d.qfam)
	if err != nil {
		return err
	}
	cb := cbi.(*cmdBuffer)
	defer cb.Destroy()
	if err := cb.Begin(); err != nil {
		return err
	}
	C.vkCmdResetQueryPool(cb.cb, pool, 0, C.uint32_t(slots))
	if err := cb.End(); err != nil {
		return err
	}
	subInfo := C.VkSubmitInfo2{
		sType:                  C.VK_STRUCTURE_TYPE_SUBMIT_INFO_2,
		commandBufferInfoCount: 1,
		pCommandBufferInfos: &C.VkCommandBufferSubmitInfo{
			sType:         C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_SUBMIT_INFO,
			commandBuffer: cb.cb,
		},
	}
	d.qmus[d.qfam].Lock()
	res := C.vkQueueSubmit2(d.ques[d.qfam], 1, &subInfo, nil)
	d.qmus[d.qfam].Unlock()
	if err := checkResult(res); err != nil {
		return err
	}
	return checkResult(C.vkQueueWaitIdle(d.ques[d.qfam]))
}

// Type returns the kind of query the pool collects.
func (q *queryPool) Type() driver.QueryType { return q.typ }

// Count returns the query count the pool was created with.
func (q *queryPool) Count() int { return q.count }

// slots returns the actual number of VkQueryPool slots backing q.
func (q *queryPool) slots() int {
	if q.typ == driver.QueryTimestamp {
		return q.count * 2
	}
	return q.count
}

// Results reads back the results of the query slots [start, start+count).
func (q *queryPool) Results(start, count int) ([]uint64, error) {
	if count == 0 {
		return nil, nil
	}
	if start < 0 || count < 0 || start+count > q.slots() {
		return nil, errors.New("vk: query range out of bounds")
	}
	res := make([]uint64, count)
	const flags = C.VK_QUERY_RESULT_64_BIT | C.VK_QUERY_RESULT_WAIT_BIT
	err := checkResult(C.vkGetQueryPoolResults(
		q.d.dev, q.pool, C.uint32_t(start), C.uint32_t(count),
		C.size_t(count)*C.size_t(unsafe.Sizeof(res[0])),
		unsafe.Pointer(&res[0]), C.VkDeviceSize(unsafe.Sizeof(res[0])),
		C.VkQueryResultFlags(flags)))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Destroy destroys the query pool.
func (q *queryPool) Destroy() {
	if q == nil {
		return
	}
	if q.d != nil {
		C.vkDestroyQueryPool(q.d.dev, q.pool, nil)
	}
	*q = queryPool{}
}
