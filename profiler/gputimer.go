// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import (
	"fmt"
	"sync"

	"github.com/ConfettiFX/forge-vulkan/driver"
)

// GPUTimer binds GPU timestamp queries to the profiler's log
// entries. A GPU scope logged with EnterGPU/LeaveGPU carries a
// query index instead of a tick; Flip resolves the previous
// ring slot's queries once its fence has signaled, and FlipGPU
// substitutes the real tick values before folding the scope into
// TimerStat the same way a CPU scope is.
type GPUTimer struct {
	gpu  driver.GPU
	pool driver.QueryPool

	bufs   [GPUFrames]driver.CmdBuffer
	refBuf driver.CmdBuffer
	ch     chan *driver.WorkItem

	mu          sync.Mutex
	pending     map[int]*driver.WorkItem
	frame       uint64
	put         uint32
	submitted   [GPUFrames]int
	results     []uint64
	resultValid []bool

	freq      float64 // GPU ticks per second
	cpuOffset uint64  // cpuTick - gpuTickNanos at calibration time
	calibrated bool
}

// frameQueries is the per-ring-slot query budget.
const frameQueries = GPUMaxQueries / GPUFrames

// referenceQuery is the dedicated calibration query slot, one past
// the budget used by regular scopes.
const referenceQuery = GPUMaxQueries

// NewGPUTimer allocates the query pool and command buffers a
// profiled GPU queue needs. freq is the number of GPU timestamp
// ticks per second, as reported by the backend's device limits.
func NewGPUTimer(gpu driver.GPU, freq float64) (*GPUTimer, error) {
	pool, err := gpu.NewQueryPool(driver.QueryTimestamp, GPUMaxQueries+1)
	if err != nil {
		return nil, err
	}
	t := &GPUTimer{
		gpu:         gpu,
		pool:        pool,
		ch:          make(chan *driver.WorkItem, GPUFrames+1),
		pending:     make(map[int]*driver.WorkItem),
		results:     make([]uint64, GPUMaxQueries+1),
		resultValid: make([]bool, GPUMaxQueries+1),
		freq:        freq,
	}
	for i := range t.bufs {
		cmd, err := gpu.NewCmdBuffer()
		if err != nil {
			t.Shutdown()
			return nil, err
		}
		t.bufs[i] = cmd
	}
	cmd, err := gpu.NewCmdBuffer()
	if err != nil {
		t.Shutdown()
		return nil, err
	}
	t.refBuf = cmd
	return t, nil
}

// insert bumps the current ring slot's query counter and writes a
// timestamp command into cmd, returning the global query index, or
// -1 if the slot's per-frame budget is exhausted (the write is
// dropped; unlike the CPU ring, no overflow flag is set).
func (t *GPUTimer) insert(cmd driver.CmdBuffer) int {
	t.mu.Lock()
	local := t.put
	t.put++
	t.mu.Unlock()
	if local >= frameQueries {
		return -1
	}
	slot := int(t.frame % GPUFrames)
	idx := slot*frameQueries + int(local)
	cmd.WriteTimestamp(t.pool, idx)
	return idx
}

// EnterGPU records the start of a GPU scope on cmd, logging the
// query index assigned to it on tl's GPU ring. It returns
// InvalidTick if tok's group is disabled or the frame's query
// budget is exhausted.
func EnterGPU(t *GPUTimer, tl *ThreadLog, tok Token, cmd driver.CmdBuffer) uint64 {
	if t == nil || tl == nil || tok.GroupMask()&EnabledMask() == 0 {
		return InvalidTick
	}
	idx := t.insert(cmd)
	if idx < 0 {
		return InvalidTick
	}
	tl.putGPU(MakeLogEntry(LogEnter, tok.TimerIndex(), uint64(idx)))
	return uint64(idx)
}

// LeaveGPU closes a scope opened with EnterGPU. enterIdx must be
// exactly the value EnterGPU returned.
func LeaveGPU(t *GPUTimer, tl *ThreadLog, tok Token, cmd driver.CmdBuffer, enterIdx uint64) {
	if t == nil || tl == nil || enterIdx == InvalidTick {
		return
	}
	idx := t.insert(cmd)
	if idx < 0 {
		return
	}
	tl.putGPU(MakeLogEntry(LogLeave, tok.TimerIndex(), uint64(idx)))
}

// Flip submits the current ring slot's "frame" timestamp, advances
// to the next slot, and resolves the query results of the slot that
// was submitted GPUFrameDelay flips earlier (the slot the next frame
// reuses), after waiting for its work to complete. It must be
// called exactly once per application frame, after all of that
// frame's GPU scopes have been recorded.
func (t *GPUTimer) Flip() error {
	slot := int(t.frame % GPUFrames)
	cmd := t.bufs[slot]

	if err := cmd.Begin(); err != nil {
		return err
	}
	cmd.BeginBlit(false)
	idx := t.insert(cmd)
	cmd.EndBlit()
	if err := cmd.End(); err != nil {
		return err
	}

	wk := &driver.WorkItem{Work: []driver.CmdBuffer{cmd}, Custom: slot}
	if err := t.gpu.Commit(wk, t.ch); err != nil {
		return err
	}

	t.mu.Lock()
	if idx >= 0 {
		t.submitted[slot] = idx - slot*frameQueries + 1
	} else {
		// Budget exhausted: every query of the slot was written.
		t.submitted[slot] = frameQueries
	}
	t.put = 0
	t.frame++
	frame := t.frame
	t.mu.Unlock()

	if frame < GPUFrames {
		return nil
	}
	resolveSlot := int((frame - GPUFrames) % GPUFrames)
	if err := t.waitSlot(resolveSlot); err != nil {
		return err
	}
	return t.resolveSlot(resolveSlot)
}

// waitSlot blocks until the WorkItem submitted for slot has
// completed, draining the shared completion channel (which may
// deliver other slots' items first, since commits are not strictly
// FIFO once queued).
func (t *GPUTimer) waitSlot(slot int) error {
	t.mu.Lock()
	wk, done := t.pending[slot]
	t.mu.Unlock()
	for !done {
		wk = <-t.ch
		got := wk.Custom.(int)
		if got == slot {
			break
		}
		t.mu.Lock()
		t.pending[got] = wk
		t.mu.Unlock()
	}
	t.mu.Lock()
	delete(t.pending, slot)
	t.mu.Unlock()
	return wk.Err
}

// resolveSlot reads back the query results a slot's command buffer
// wrote, if it wrote any.
func (t *GPUTimer) resolveSlot(slot int) error {
	t.mu.Lock()
	n := t.submitted[slot]
	t.mu.Unlock()
	if n <= 0 {
		return nil
	}
	start := slot * frameQueries
	res, err := t.pool.Results(start, n)
	if err != nil {
		return err
	}
	t.mu.Lock()
	for i, v := range res {
		t.results[start+i] = v
		t.resultValid[start+i] = true
	}
	t.mu.Unlock()
	return nil
}

// Calibrate performs a one-shot reference query establishing the
// (CPU tick, GPU tick) pair used to convert resolved query results
// into the same tick domain CPU scopes use. It must complete before
// GetTimeStamp returns meaningful values.
func (t *GPUTimer) Calibrate() error {
	if err := t.refBuf.Begin(); err != nil {
		return err
	}
	t.refBuf.BeginBlit(false)
	t.refBuf.WriteTimestamp(t.pool, referenceQuery)
	t.refBuf.EndBlit()
	if err := t.refBuf.End(); err != nil {
		return err
	}
	ch := make(chan *driver.WorkItem, 1)
	wk := &driver.WorkItem{Work: []driver.CmdBuffer{t.refBuf}}
	if err := t.gpu.Commit(wk, ch); err != nil {
		return err
	}
	wk = <-ch
	if wk.Err != nil {
		return wk.Err
	}
	cpuTick := nowTick()

	res, err := t.pool.Results(referenceQuery, 1)
	if err != nil {
		return err
	}
	gpuNanos := uint64(float64(res[0]) * (1e9 / t.freq))

	t.mu.Lock()
	t.cpuOffset = cpuTick - (gpuNanos & logTickMask)
	t.calibrated = true
	t.mu.Unlock()
	return nil
}

// GetTimeStamp returns the calibrated CPU-domain tick for a
// resolved query index, or ok=false if it has not resolved yet.
func (t *GPUTimer) GetTimeStamp(idx int) (tick uint64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.results) || !t.resultValid[idx] || !t.calibrated {
		return 0, false
	}
	nanos := uint64(float64(t.results[idx]) * (1e9 / t.freq))
	return (nanos + t.cpuOffset) & logTickMask, true
}

// Shutdown waits for the last submitted frame's work to complete
// before releasing the query pool and command buffers, so no
// in-flight GPU work references them when they are destroyed.
func (t *GPUTimer) Shutdown() {
	if t.frame > 0 {
		last := int((t.frame - 1) % GPUFrames)
		_ = t.waitSlot(last)
	}
	for _, cmd := range t.bufs {
		if cmd != nil {
			cmd.Destroy()
		}
	}
	if t.refBuf != nil {
		t.refBuf.Destroy()
	}
	if t.pool != nil {
		t.pool.Destroy()
	}
	*t = GPUTimer{}
}

// FlipGPU walks every registered ThreadLog's unread GPU-ring
// entries, substituting each logged query index with its resolved,
// calibrated tick via t.GetTimeStamp, and folds completed (ENTER,
// LEAVE) pairs into the returned per-timer statistics exactly as
// FlipProfiler does for CPU scopes. Entries whose query has not
// resolved yet are left unconsumed for the next call.
func FlipGPU(t *GPUTimer) []TimerStat {
	threadRegistry.mu.Lock()
	logs := make([]*ThreadLog, 0, len(threadRegistry.set))
	for tl := range threadRegistry.set {
		logs = append(logs, tl)
	}
	threadRegistry.mu.Unlock()

	frame := make(map[int]*TimerStat)
	for _, tl := range logs {
		flipThreadLogGPU(t, tl, frame)
	}
	out := make([]TimerStat, 0, len(frame))
	for _, s := range frame {
		out = append(out, *s)
	}
	return out
}

func flipThreadLogGPU(t *GPUTimer, tl *ThreadLog, frame map[int]*TimerStat) {
	put := int(tl.gpuPut.Load())
	get := int(tl.gpuGet.Load())
	size := len(tl.gpuBuf)

	consumed := get
	for _, r := range GetRange(put, get, size) {
		for i := r.Start; i < r.End; i++ {
			entry := tl.gpuBuf[i]
			tick, ok := t.GetTimeStamp(int(entry.Tick()))
			if !ok {
				// Not resolved yet: stop here, leave the rest
				// (including this entry) for the next call.
				tl.gpuGet.Store(uint32(consumed))
				return
			}
			switch entry.Type() {
			case LogEnter:
				if tl.gpuStackPos < StackMax {
					tl.gpuStack[tl.gpuStackPos] = stackFrame{
						timer:     entry.Index(),
						enterTick: tick,
					}
					tl.gpuStackPos++
				}
			case LogLeave:
				if tl.gpuStackPos > 0 {
					tl.gpuStackPos--
					top := tl.gpuStack[tl.gpuStackPos]
					ticks := TickDifference(top.enterTick, tick)
					s := statFor(frame, top.timer)
					s.Ticks += ticks
					s.ExclusiveTicks += ticks - top.childTicks
					s.Count++
					if s.MinTicks == 0 || ticks < s.MinTicks {
						s.MinTicks = ticks
					}
					if ticks > s.MaxTicks {
						s.MaxTicks = ticks
					}
					if tl.gpuStackPos > 0 {
						tl.gpuStack[tl.gpuStackPos-1].childTicks += ticks
					}
				}
			}
			consumed = (i + 1) % size
		}
	}
	tl.gpuGet.Store(uint32(consumed))
}

// String renders a TimerStat the way a log line would.
func (s TimerStat) String() string {
	return fmt.Sprintf("%s: %dns (excl %dns) x%d", s.Name, s.Ticks, s.ExclusiveTicks, s.Count)
}
