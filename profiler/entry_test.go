// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import "testing"

func TestLogEntryPacking(t *testing.T) {
	cases := [...]struct {
		typ   EntryType
		index int
		tick  uint64
	}{
		{LogLeave, 0, 0},
		{LogEnter, 1, 1},
		{LogMeta, 8191, 0xffffffffffff},
		{LogLabel, 42, 123456789},
		{LogGPUExtra, 1, 8192},
		{LogLabelLiteral, 0, 1},
	}
	for _, c := range cases {
		e := MakeLogEntry(c.typ, c.index, c.tick)
		if x := e.Type(); x != c.typ {
			t.Errorf("MakeLogEntry(%v, %d, %d).Type()\nhave %v\nwant %v", c.typ, c.index, c.tick, x, c.typ)
		}
		if x := e.Index(); x != c.index {
			t.Errorf("MakeLogEntry(%v, %d, %d).Index()\nhave %d\nwant %d", c.typ, c.index, c.tick, x, c.index)
		}
		if x := e.Tick(); x != c.tick {
			t.Errorf("MakeLogEntry(%v, %d, %d).Tick()\nhave %d\nwant %d", c.typ, c.index, c.tick, x, c.tick)
		}
	}
}

func TestLogEntryWithTick(t *testing.T) {
	e := MakeLogEntry(LogGPUExtra, 7, 10)
	e2 := e.WithTick(99)
	if e2.Tick() != 99 {
		t.Errorf("e.WithTick(99).Tick()\nhave %d\nwant 99", e2.Tick())
	}
	if e2.Type() != e.Type() || e2.Index() != e.Index() {
		t.Errorf("e.WithTick(99) changed Type/Index: have (%v,%d), want (%v,%d)", e2.Type(), e2.Index(), e.Type(), e.Index())
	}
}

func TestTickDifference(t *testing.T) {
	cases := [...]struct {
		enter, leave, want uint64
	}{
		{0, 100, 100},
		{100, 100, 0},
		// Wraparound: leave's tick rolled past the 48-bit limit.
		{logTickMask - 10, 5, 16},
	}
	for _, c := range cases {
		if x := TickDifference(c.enter, c.leave); x != c.want {
			t.Errorf("TickDifference(%d, %d)\nhave %d\nwant %d", c.enter, c.leave, x, c.want)
		}
	}
}
