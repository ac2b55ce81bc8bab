// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build !linux && !windows

package vk

// platformInstanceExts returns the windowing instance extensions used on
// unix platforms that are neither Linux nor Android (e.g., BSDs), which
// rely on XCB.
func platformInstanceExts() extInfo {
	return extInfo{optional: []extension{extSurface, extXCBSurface}}
}

// platformDeviceExts returns the windowing device extensions for this
// platform.
func platformDeviceExts(d *Driver) extInfo {
	if d.exts[extSurface] && d.exts[extXCBSurface] {
		return extInfo{optional: []extension{extSwapchain}}
	}
	return extInfo{}
}
