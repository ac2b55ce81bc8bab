// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

// platformInstanceExts returns the Android windowing instance extensions.
func platformInstanceExts() extInfo {
	return extInfo{
		optional: []extension{extSurface, extAndroidSurface},
	}
}

// platformDeviceExts returns the Android windowing device extensions.
func platformDeviceExts(d *Driver) extInfo {
	if d.exts[extSurface] && d.exts[extAndroidSurface] {
		return extInfo{optional: []extension{extSwapchain}}
	}
	return extInfo{}
}
