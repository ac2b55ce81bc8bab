// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import "sync"

// TimerStat is one timer's accumulated statistics for either the
// most recent frame or the rolling aggregate window.
type TimerStat struct {
	Name           string
	Ticks          uint64
	ExclusiveTicks uint64
	Count          int
	MetaCount      int
	MinTicks       uint64
	MaxTicks       uint64
}

var flipState struct {
	mu     sync.Mutex
	frame  map[int]*TimerStat
	accum  map[int]*TimerStat
	flips  uint64
	// AggregateFlips is the number of FlipProfiler calls folded
	// into Accum before it is reported and cleared; 0 disables
	// aggregation and every flip reports only its own frame.
	aggregateFlips uint64
}

func init() {
	flipState.frame = make(map[int]*TimerStat)
	flipState.accum = make(map[int]*TimerStat)
	flipState.aggregateFlips = 60
}

// SetAggregateInterval sets the number of frames folded into the
// aggregate window that FlipProfiler returns before it rolls over.
func SetAggregateInterval(flips uint64) {
	flipState.mu.Lock()
	flipState.aggregateFlips = flips
	flipState.mu.Unlock()
}

// FlipProfiler walks every registered ThreadLog's unread entries,
// reconstructing each log's call stack from the ENTER/LEAVE sequence
// to compute inclusive and exclusive time per timer, then returns
// the per-timer statistics for the entries it consumed. Every
// SetAggregateInterval-th call instead returns the statistics
// accumulated over the whole window, its own entries included, and
// starts a new window. It is meant
// to be called once per application frame.
func FlipProfiler() []TimerStat {
	threadRegistry.mu.Lock()
	logs := make([]*ThreadLog, 0, len(threadRegistry.set))
	for tl := range threadRegistry.set {
		logs = append(logs, tl)
	}
	threadRegistry.mu.Unlock()

	frame := make(map[int]*TimerStat)
	for _, tl := range logs {
		flipThreadLog(tl, frame)
	}

	flipState.mu.Lock()
	flipState.frame = frame
	flipState.flips++
	for idx, s := range frame {
		a, ok := flipState.accum[idx]
		if !ok {
			a = &TimerStat{Name: s.Name, MinTicks: s.MinTicks}
			flipState.accum[idx] = a
		}
		a.Ticks += s.Ticks
		a.ExclusiveTicks += s.ExclusiveTicks
		a.Count += s.Count
		a.MetaCount += s.MetaCount
		if a.MinTicks == 0 || s.MinTicks < a.MinTicks {
			a.MinTicks = s.MinTicks
		}
		if s.MaxTicks > a.MaxTicks {
			a.MaxTicks = s.MaxTicks
		}
	}
	var out []TimerStat
	if flipState.aggregateFlips != 0 && flipState.flips%flipState.aggregateFlips == 0 {
		out = make([]TimerStat, 0, len(flipState.accum))
		for _, a := range flipState.accum {
			out = append(out, *a)
		}
		flipState.accum = make(map[int]*TimerStat)
	} else {
		out = make([]TimerStat, 0, len(frame))
		for _, s := range frame {
			out = append(out, *s)
		}
	}
	flipState.mu.Unlock()
	return out
}

// flipThreadLog walks tl's unread range, updating frame with every
// completed (ENTER, LEAVE) pair, and advances tl.nGet past what it
// consumed.
func flipThreadLog(tl *ThreadLog, frame map[int]*TimerStat) {
	put := int(tl.nPut.Load())
	get := int(tl.nGet.Load())
	size := len(tl.buf)

	for _, r := range GetRange(put, get, size) {
		for i := r.Start; i < r.End; i++ {
			entry := tl.buf[i]
			switch entry.Type() {
			case LogEnter:
				if tl.stackPos < StackMax {
					tl.stack[tl.stackPos] = stackFrame{
						timer:     entry.Index(),
						enterTick: entry.Tick(),
					}
					tl.stackPos++
				}
			case LogLeave:
				if tl.stackPos == 0 {
					continue
				}
				tl.stackPos--
				top := tl.stack[tl.stackPos]
				ticks := TickDifference(top.enterTick, entry.Tick())
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
				if tl.stackPos > 0 {
					tl.stack[tl.stackPos-1].childTicks += ticks
				}
			case LogMeta:
				if tl.stackPos > 0 {
					top := tl.stack[tl.stackPos-1].timer
					statFor(frame, top).MetaCount++
				}
			}
		}
	}
	tl.nGet.Store(uint32(put))
}

func statFor(frame map[int]*TimerStat, timer int) *TimerStat {
	s, ok := frame[timer]
	if !ok {
		s = &TimerStat{Name: TimerName(timer)}
		frame[timer] = s
	}
	return s
}
