// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import "testing"

func TestRegisterUnregisterThread(t *testing.T) {
	tl := RegisterThread("test-thread")
	if tl == nil {
		t.Fatal("RegisterThread: have nil, want non-nil")
	}
	threadRegistry.mu.Lock()
	_, ok := threadRegistry.set[tl]
	threadRegistry.mu.Unlock()
	if !ok {
		t.Error("RegisterThread: log not present in registry")
	}
	UnregisterThread(tl)
	threadRegistry.mu.Lock()
	_, ok = threadRegistry.set[tl]
	threadRegistry.mu.Unlock()
	if ok {
		t.Error("UnregisterThread: log still present in registry")
	}
}

func TestEnterLeaveDisabledGroup(t *testing.T) {
	tl := RegisterThread("test-disabled")
	defer UnregisterThread(tl)

	tok := GetToken("test-disabled-group", "scope", AutoColor, KindCPU)
	SetGroupEnabled("test-disabled-group", false)
	defer SetGroupEnabled("test-disabled-group", true)

	tick := Enter(tl, tok)
	if tick != InvalidTick {
		t.Errorf("Enter on disabled group\nhave %d\nwant InvalidTick", tick)
	}
	Leave(tl, tok, tick)
	if put := tl.nPut.Load(); put != 0 {
		t.Errorf("Enter+Leave on disabled group wrote an entry: nPut\nhave %d\nwant 0", put)
	}
}

func TestEnterLeaveEnabledGroup(t *testing.T) {
	tl := RegisterThread("test-enabled")
	defer UnregisterThread(tl)

	tok := GetToken("test-enabled-group", "scope", AutoColor, KindCPU)
	tick := Enter(tl, tok)
	if tick == InvalidTick {
		t.Fatal("Enter on enabled group: have InvalidTick, want valid tick")
	}
	Leave(tl, tok, tick)
	if put := tl.nPut.Load(); put != 2 {
		t.Errorf("Enter+Leave: nPut\nhave %d\nwant 2", put)
	}
}

func TestThreadLogOverflow(t *testing.T) {
	tl := &ThreadLog{buf: make([]LogEntry, 4)}
	tok := GetToken("test-overflow-group", "scope", AutoColor, KindCPU)
	// The ring holds len(buf)-1 live entries; one more write must
	// be dropped rather than corrupt the unread range.
	for i := 0; i < 3; i++ {
		if !tl.put(MakeLogEntry(LogEnter, tok.TimerIndex(), uint64(i))) {
			t.Fatalf("put #%d: have false, want true", i)
		}
	}
	if tl.put(MakeLogEntry(LogEnter, tok.TimerIndex(), 99)) {
		t.Error("put on a full ring: have true, want false")
	}
	if !Overflowed() {
		t.Error("Overflowed(): have false, want true after a dropped write")
	}
}
