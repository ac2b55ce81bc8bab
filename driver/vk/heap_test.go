// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"fmt"
	"testing"
)

func TestResourceHeap(t *testing.T) {
	cases := [...]struct {
		size    int64
		visible bool
	}{
		{1, false},
		{1, true},
		{4096, false},
		{4096, true},
		{1 << 20, false},
		{1 << 20, true},
		{64 << 20, true},
	}
	zh := resourceHeap{}
	for _, c := range cases {
		call := fmt.Sprintf("tDrv.NewResourceHeap(%d, %t)", c.size, c.visible)
		if h, err := tDrv.NewResourceHeap(c.size, c.visible); err == nil {
			if h == nil {
				t.Errorf("%s\nhave nil, nil\nwant non-nil, nil", call)
				continue
			}
			h := h.(*resourceHeap)
			if h.d != &tDrv {
				t.Errorf("%s: h.d\nhave %p\nwant %p", call, h.d, &tDrv)
			}
			if h.mem == zh.mem {
				t.Errorf("%s: h.mem\nhave %v\nwant valid handle", call, h.mem)
			}
			if h.size < c.size {
				t.Errorf("%s: h.size\nhave %d\nwant at least %d", call, h.size, c.size)
			}
			if n := h.Size(); n != h.size {
				t.Errorf("h.Size()\nhave %d\nwant %d", n, h.size)
			}
			if h.heap < 0 || h.heap >= int(tDrv.mprop.memoryHeapCount) {
				t.Errorf("%s: h.heap\nhave %d\nwant valid index", call, h.heap)
			}
			// Destroy.
			h.Destroy()
			if *h != zh {
				t.Errorf("h.Destroy(): h\nhave %v\nwant %v", h, zh)
			}
		} else if h != nil {
			t.Errorf("%s\nhave %p, %v\nwant nil, %v", call, h, err, err)
		} else {
			t.Logf("(error) %s: %v", call, err)
		}
	}
}

func TestResourceHeapInvalidSize(t *testing.T) {
	if h, err := tDrv.NewResourceHeap(0, false); err == nil || h != nil {
		t.Errorf("tDrv.NewResourceHeap(0, false)\nhave %v, %v\nwant nil, non-nil", h, err)
	}
	if h, err := tDrv.NewResourceHeap(-1, false); err == nil || h != nil {
		t.Errorf("tDrv.NewResourceHeap(-1, false)\nhave %v, %v\nwant nil, non-nil", h, err)
	}
}
