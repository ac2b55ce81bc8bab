// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

// Range is a contiguous [Start, End) span of ring-buffer indices.
type Range struct {
	Start, End int
}

// GetRange splits the ring indices between get (oldest unread) and
// put (newest written), modulo size, into at most two contiguous
// ranges: a single range if put has not wrapped past get, or two
// ranges (tail then head) if it has.
func GetRange(put, get, size int) []Range {
	if put == get {
		return nil
	}
	if put > get {
		return []Range{{get, put}}
	}
	return []Range{{get, size}, {0, put}}
}
