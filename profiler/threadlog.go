// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import (
	"sync"
	"sync/atomic"
	"time"
)

// ThreadLog is a single-producer/single-consumer ring of packed log
// entries, owned by exactly one goroutine between RegisterThread and
// UnregisterThread. The owning goroutine is the only writer (via
// Enter/Leave/Label/Meta); FlipProfiler is the only reader, and only
// touches a ThreadLog's ring while the owner is not calling any of
// the write methods concurrently with a flip — the same constraint
// the source places on its per-thread logs.
type ThreadLog struct {
	name string
	buf  []LogEntry
	nPut atomic.Uint32
	nGet atomic.Uint32

	// gpuBuf is a separate ring for EnterGPU/LeaveGPU entries.
	// GPU scopes are kept apart from the CPU ring because their
	// tick fields hold a query index awaiting resolution, not a
	// directly comparable tick, and they are folded by FlipGPU
	// instead of FlipProfiler.
	gpuBuf []LogEntry
	gpuPut atomic.Uint32
	gpuGet atomic.Uint32

	// Call-stack state, touched only by FlipProfiler/FlipGPU while
	// walking this log's entries; never by the owning goroutine.
	stack      [StackMax]stackFrame
	stackPos   int
	gpuStack   [StackMax]stackFrame
	gpuStackPos int
	groupTicks [MaxGroups]uint64
}

type stackFrame struct {
	timer      int
	enterTick  uint64
	childTicks uint64
}

var overflowed atomic.Bool

// Overflowed reports whether any ThreadLog has ever dropped an entry
// because its ring was full, and clears the flag.
func Overflowed() bool { return overflowed.Swap(false) }

var threadRegistry struct {
	mu  sync.Mutex
	set map[*ThreadLog]struct{}
}

func init() {
	threadRegistry.set = make(map[*ThreadLog]struct{})
}

// RegisterThread allocates a ThreadLog for the calling goroutine and
// makes it visible to FlipProfiler. The caller must keep the
// returned value for as long as it records scopes, and must call
// UnregisterThread before the goroutine exits.
func RegisterThread(name string) *ThreadLog {
	tl := &ThreadLog{
		name:   name,
		buf:    make([]LogEntry, PerThreadBufferSize),
		gpuBuf: make([]LogEntry, PerThreadGPUBufferSize),
	}
	threadRegistry.mu.Lock()
	defer threadRegistry.mu.Unlock()
	if len(threadRegistry.set) >= MaxThreads {
		panic("profiler: too many registered threads")
	}
	threadRegistry.set[tl] = struct{}{}
	return tl
}

// UnregisterThread removes tl from the registry. tl must not be used
// again afterward.
func UnregisterThread(tl *ThreadLog) {
	threadRegistry.mu.Lock()
	delete(threadRegistry.set, tl)
	threadRegistry.mu.Unlock()
}

// nowTick returns the current tick value, truncated to the 48 bits a
// LogEntry can hold. Ticks are wall-clock nanoseconds since the Unix epoch, so a
// TickDifference between two ticks taken less than ~78 hours apart
// is always correct even across a single wraparound.
func nowTick() uint64 {
	return uint64(time.Now().UnixNano()) & logTickMask
}

// put writes entry into tl's ring. It returns false, without
// advancing nPut, if the ring is full (the reader has not caught up
// yet) — a dropped entry rather than a blocked producer, matching
// the overflow-tolerant behavior of the source.
func (tl *ThreadLog) put(entry LogEntry) bool {
	pos := tl.nPut.Load()
	next := (pos + 1) % uint32(len(tl.buf))
	if next == tl.nGet.Load() {
		overflowed.Store(true)
		return false
	}
	tl.buf[pos] = entry
	tl.nPut.Store(next)
	return true
}

// putGPU writes entry into tl's GPU ring, with the same overflow-
// drop behavior as put.
func (tl *ThreadLog) putGPU(entry LogEntry) bool {
	pos := tl.gpuPut.Load()
	next := (pos + 1) % uint32(len(tl.gpuBuf))
	if next == tl.gpuGet.Load() {
		overflowed.Store(true)
		return false
	}
	tl.gpuBuf[pos] = entry
	tl.gpuPut.Store(next)
	return true
}

// Enter records the start of tok's scope on tl and returns the tick
// taken, or InvalidTick if tok's group is currently disabled (in
// which case the matching Leave call must be skipped, since no entry
// was written for it to pair with). tl may be nil, in which case
// Enter is a no-op returning InvalidTick — callers on goroutines that
// never registered a log still see correctly-shaped code.
func Enter(tl *ThreadLog, tok Token) uint64 {
	if tl == nil || tok.GroupMask()&EnabledMask() == 0 {
		return InvalidTick
	}
	tick := nowTick()
	tl.put(MakeLogEntry(LogEnter, tok.TimerIndex(), tick))
	return tick
}

// Leave records the end of a scope previously opened with Enter.
// enterTick must be exactly the value Enter returned; if it is
// InvalidTick, Leave is a no-op.
func Leave(tl *ThreadLog, tok Token, enterTick uint64) {
	if tl == nil || enterTick == InvalidTick {
		return
	}
	tl.put(MakeLogEntry(LogLeave, tok.TimerIndex(), nowTick()))
}

// Meta records a lightweight counter-style event against the timer
// currently on top of the call stack at flip time; it carries no
// payload beyond the tick it was recorded at.
func Meta(tl *ThreadLog, tok Token) {
	if tl == nil || tok.GroupMask()&EnabledMask() == 0 {
		return
	}
	tl.put(MakeLogEntry(LogMeta, tok.TimerIndex(), nowTick()))
}
