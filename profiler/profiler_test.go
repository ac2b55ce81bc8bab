// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import "testing"

func TestMakeToken(t *testing.T) {
	tok := MakeToken(1<<5, 42)
	if tok.GroupMask() != 1<<5 {
		t.Errorf("Token.GroupMask()\nhave %d\nwant %d", tok.GroupMask(), uint64(1<<5))
	}
	if tok.TimerIndex() != 42 {
		t.Errorf("Token.TimerIndex()\nhave %d\nwant 42", tok.TimerIndex())
	}
}

func TestGetTokenInterning(t *testing.T) {
	a := GetToken("test-registry-group", "timer-a", AutoColor, KindCPU)
	b := GetToken("test-registry-group", "timer-a", AutoColor, KindCPU)
	if a != b {
		t.Errorf("GetToken: not interned, have %d and %d", a, b)
	}
	c := GetToken("test-registry-group", "timer-c", AutoColor, KindCPU)
	if a.GroupMask() != c.GroupMask() {
		t.Errorf("timers in the same group have different group masks: %d vs %d", a.GroupMask(), c.GroupMask())
	}
	if a.TimerIndex() == c.TimerIndex() {
		t.Error("distinct timer names were assigned the same index")
	}

	if tok, ok := FindToken("test-registry-group", "timer-a"); !ok || tok != a {
		t.Errorf("FindToken(existing)\nhave %v, %v\nwant %v, true", tok, ok, a)
	}
	if _, ok := FindToken("test-registry-group", "no-such-timer"); ok {
		t.Error("FindToken(missing): have true, want false")
	}
}

func TestGetTokenMixedKindPanics(t *testing.T) {
	GetToken("test-mixed-kind-group", "cpu-timer", AutoColor, KindCPU)
	defer func() {
		if recover() == nil {
			t.Error("GetToken with mismatched kind: want panic, got none")
		}
	}()
	GetToken("test-mixed-kind-group", "gpu-timer", AutoColor, KindGPU)
}

func TestForceEnableDisableGroup(t *testing.T) {
	tok := GetToken("test-force-group", "scope", AutoColor, KindCPU)
	SetGroupEnabled("test-force-group", false)
	defer SetGroupEnabled("test-force-group", true)

	if EnabledMask()&tok.GroupMask() != 0 {
		t.Fatal("group unexpectedly enabled before ForceEnableGroup")
	}
	ForceEnableGroup("test-force-group")
	if EnabledMask()&tok.GroupMask() == 0 {
		t.Error("ForceEnableGroup: group still disabled")
	}
	ForceDisableGroup("test-force-group")
	if EnabledMask()&tok.GroupMask() != 0 {
		t.Error("ForceDisableGroup: group still enabled")
	}
}
