// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import "testing"

func TestCounter(t *testing.T) {
	tok := GetCounterToken("test.counter.memory")
	if tok2 := GetCounterToken("test.counter.memory"); tok2 != tok {
		t.Errorf("GetCounterToken: interning failed, have %d, want %d", tok2, tok)
	}
	CounterAdd(tok, 100)
	CounterAdd(tok, 50)
	CounterSetLimit(tok, 1000, CounterBytes)

	var found *CounterValue
	for _, c := range CounterSnapshot() {
		if c.Name == "test.counter.memory" {
			c := c
			found = &c
		}
	}
	if found == nil {
		t.Fatal("CounterSnapshot: counter not found")
	}
	if found.Value != 150 {
		t.Errorf("counter value\nhave %d\nwant 150", found.Value)
	}
	if found.Limit != 1000 || found.Format != CounterBytes {
		t.Errorf("counter limit/format\nhave %d/%v\nwant 1000/%v", found.Limit, found.Format, CounterBytes)
	}

	CounterSet(tok, 7)
	for _, c := range CounterSnapshot() {
		if c.Name == "test.counter.memory" && c.Value != 7 {
			t.Errorf("CounterSet: have %d, want 7", c.Value)
		}
	}
}
