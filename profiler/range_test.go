// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import (
	"reflect"
	"testing"
)

func TestGetRange(t *testing.T) {
	cases := [...]struct {
		put, get, size int
		want           []Range
	}{
		{0, 0, 16, nil},
		{5, 0, 16, []Range{{0, 5}}},
		{0, 5, 16, []Range{{5, 16}, {0, 0}}},
		{3, 10, 16, []Range{{10, 16}, {0, 3}}},
	}
	for _, c := range cases {
		got := GetRange(c.put, c.get, c.size)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("GetRange(%d, %d, %d)\nhave %v\nwant %v", c.put, c.get, c.size, got, c.want)
		}
	}
}
