// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import "testing"

func TestFlipProfilerNesting(t *testing.T) {
	tl := RegisterThread("test-flip")
	defer UnregisterThread(tl)

	outer := GetToken("test-flip-group", "outer", AutoColor, KindCPU)
	inner := GetToken("test-flip-group", "inner", AutoColor, KindCPU)

	// Synthesize a nested ENTER outer / ENTER inner / LEAVE inner /
	// LEAVE outer sequence with known tick deltas, bypassing the
	// real clock so the exclusive-time split is deterministic.
	tl.put(MakeLogEntry(LogEnter, outer.TimerIndex(), 0))
	tl.put(MakeLogEntry(LogEnter, inner.TimerIndex(), 10))
	tl.put(MakeLogEntry(LogLeave, inner.TimerIndex(), 30))
	tl.put(MakeLogEntry(LogLeave, outer.TimerIndex(), 50))

	stats := FlipProfiler()
	var gotOuter, gotInner *TimerStat
	for i := range stats {
		switch stats[i].Name {
		case "outer":
			gotOuter = &stats[i]
		case "inner":
			gotInner = &stats[i]
		}
	}
	if gotOuter == nil || gotInner == nil {
		t.Fatalf("FlipProfiler: missing stats, have %v", stats)
	}
	if gotInner.Ticks != 20 || gotInner.ExclusiveTicks != 20 {
		t.Errorf("inner: ticks=%d excl=%d, want 20/20", gotInner.Ticks, gotInner.ExclusiveTicks)
	}
	if gotOuter.Ticks != 50 || gotOuter.ExclusiveTicks != 30 {
		t.Errorf("outer: ticks=%d excl=%d, want 50/30", gotOuter.Ticks, gotOuter.ExclusiveTicks)
	}
	if tl.nGet.Load() != tl.nPut.Load() {
		t.Errorf("FlipProfiler left entries unconsumed: nGet=%d nPut=%d", tl.nGet.Load(), tl.nPut.Load())
	}
}

func TestFlipProfilerUnbalancedLeave(t *testing.T) {
	tl := RegisterThread("test-flip-unbalanced")
	defer UnregisterThread(tl)
	tok := GetToken("test-flip-unbalanced-group", "scope", AutoColor, KindCPU)

	// A LEAVE with no matching ENTER must be ignored rather than
	// panicking on an empty stack.
	tl.put(MakeLogEntry(LogLeave, tok.TimerIndex(), 5))
	stats := FlipProfiler()
	for _, s := range stats {
		if s.Name == "scope" {
			t.Errorf("unmatched LEAVE produced a stat: %v", s)
		}
	}
}
