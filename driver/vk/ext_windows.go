// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

// platformInstanceExts returns the Win32 windowing instance extensions.
func platformInstanceExts() extInfo {
	return extInfo{optional: []extension{extSurface, extWin32Surface}}
}

// platformDeviceExts returns the Win32 windowing device extensions.
func platformDeviceExts(d *Driver) extInfo {
	if d.exts[extSurface] && d.exts[extWin32Surface] {
		return extInfo{optional: []extension{extSwapchain}}
	}
	return extInfo{}
}
