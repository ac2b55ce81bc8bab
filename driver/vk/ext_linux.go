// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build !android

package vk

import (
	"github.com/ConfettiFX/forge-vulkan/wsi"
)

// platformInstanceExts returns the Linux windowing instance extensions,
// selected according to the WSI backend that is currently in use.
func platformInstanceExts() extInfo {
	switch wsi.PlatformInUse() {
	case wsi.Wayland:
		return extInfo{optional: []extension{extSurface, extWaylandSurface}}
	case wsi.XCB:
		return extInfo{optional: []extension{extSurface, extXCBSurface}}
	}
	return extInfo{}
}

// platformDeviceExts returns the Linux windowing device extensions.
func platformDeviceExts(d *Driver) extInfo {
	if d.exts[extSurface] {
		return extInfo{optional: []extension{extSwapchain}}
	}
	return extInfo{}
}
