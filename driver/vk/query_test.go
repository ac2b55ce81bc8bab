// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"fmt"
	"testing"

	"github.com/ConfettiFX/forge-vulkan/driver"
)

func TestQueryPool(t *testing.T) {
	cases := [...]struct {
		typ   driver.QueryType
		count int
	}{
		{driver.QueryTimestamp, 1},
		{driver.QueryTimestamp, 8},
		{driver.QueryOcclusion, 1},
		{driver.QueryOcclusion, 16},
		{driver.QueryPipelineStats, 1},
		{driver.QueryPipelineStats, 4},
	}
	zq := queryPool{}
	for _, c := range cases {
		call := fmt.Sprintf("tDrv.NewQueryPool(%v, %d)", c.typ, c.count)
		if q, err := tDrv.NewQueryPool(c.typ, c.count); err == nil {
			if q == nil {
				t.Errorf("%s\nhave nil, nil\nwant non-nil, nil", call)
				continue
			}
			q := q.(*queryPool)
			if q.d != &tDrv {
				t.Errorf("%s: q.d\nhave %p\nwant %p", call, q.d, &tDrv)
			}
			if q.pool == zq.pool {
				t.Errorf("%s: q.pool\nhave %v\nwant valid handle", call, q.pool)
			}
			if x := q.Type(); x != c.typ {
				t.Errorf("q.Type()\nhave %v\nwant %v", x, c.typ)
			}
			if n := q.Count(); n != c.count {
				t.Errorf("q.Count()\nhave %d\nwant %d", n, c.count)
			}
			// Results should report a value for every requested slot
			// right after creation, since new pools are reset up front.
			if res, err := q.Results(0, c.count); err != nil {
				t.Errorf("q.Results(0, %d): %v", c.count, err)
			} else if len(res) != c.count {
				t.Errorf("q.Results(0, %d)\nhave len %d\nwant %d", c.count, len(res), c.count)
			}
			// Results indexes query slots; timestamp pools have two
			// slots per query.
			if _, err := q.Results(0, q.slots()+1); err == nil {
				t.Errorf("q.Results(0, %d)\nhave nil error\nwant non-nil", q.slots()+1)
			}
			if _, err := q.Results(-1, 1); err == nil {
				t.Errorf("q.Results(-1, 1)\nhave nil error\nwant non-nil")
			}
			if res, err := q.Results(0, 0); err != nil || res != nil {
				t.Errorf("q.Results(0, 0)\nhave %v, %v\nwant nil, nil", res, err)
			}
			// Destroy.
			q.Destroy()
			if *q != zq {
				t.Errorf("q.Destroy(): q\nhave %v\nwant %v", q, zq)
			}
		} else if q != nil {
			t.Errorf("%s\nhave %p, %v\nwant nil, %v", call, q, err, err)
		} else {
			t.Logf("(error) %s: %v", call, err)
		}
	}
}

func TestQueryPoolInvalidCount(t *testing.T) {
	if q, err := tDrv.NewQueryPool(driver.QueryTimestamp, 0); err == nil || q != nil {
		t.Errorf("tDrv.NewQueryPool(driver.QueryTimestamp, 0)\nhave %v, %v\nwant nil, non-nil", q, err)
	}
	if q, err := tDrv.NewQueryPool(driver.QueryTimestamp, -1); err == nil || q != nil {
		t.Errorf("tDrv.NewQueryPool(driver.QueryTimestamp, -1)\nhave %v, %v\nwant nil, non-nil", q, err)
	}
}
