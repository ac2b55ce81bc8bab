// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

// #include <proc.h>
import "C"

import (
	"unsafe"

	"github.com/ConfettiFX/forge-vulkan/driver"
)

// setObjectName routes a debug name through VK_EXT_debug_utils. It
// is a no-op when the extension was not negotiated (buffer.go,
// image.go and pipeln.go's SetName methods all call through here,
// so only this function needs to know whether naming is available).
func (d *Driver) setObjectName(objType C.VkObjectType, handle uint64, name string) {
	if name == "" || !d.exts[extDebugUtils] || C.vkSetDebugUtilsObjectNameEXT == nil {
		return
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	info := C.VkDebugUtilsObjectNameInfoEXT{
		sType:        C.VK_STRUCTURE_TYPE_DEBUG_UTILS_OBJECT_NAME_INFO_EXT,
		objectType:   objType,
		objectHandle: C.uint64_t(handle),
		pObjectName:  cname,
	}
	C.vkSetDebugUtilsObjectNameEXT(d.dev, &info)
}

// pushMarker opens a named, colored debug region on cb, preferring
// VK_EXT_debug_utils and falling back to VK_EXT_debug_marker.
func (d *Driver) pushMarker(cb C.VkCommandBuffer, name string, color [3]float32) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	switch {
	case d.exts[extDebugUtils] && C.vkCmdBeginDebugUtilsLabelEXT != nil:
		label := C.VkDebugUtilsLabelEXT{
			sType:      C.VK_STRUCTURE_TYPE_DEBUG_UTILS_LABEL_EXT,
			pLabelName: cname,
			color:      [4]C.float{C.float(color[0]), C.float(color[1]), C.float(color[2]), 1},
		}
		C.vkCmdBeginDebugUtilsLabelEXT(cb, &label)
	case d.exts[extDebugMarker] && C.vkCmdDebugMarkerBeginEXT != nil:
		info := C.VkDebugMarkerMarkerInfoEXT{
			sType:       C.VK_STRUCTURE_TYPE_DEBUG_MARKER_MARKER_INFO_EXT,
			pMarkerName: cname,
			color:       [4]C.float{C.float(color[0]), C.float(color[1]), C.float(color[2]), 1},
		}
		C.vkCmdDebugMarkerBeginEXT(cb, &info)
	}
}

// popMarker closes the region opened by pushMarker.
func (d *Driver) popMarker(cb C.VkCommandBuffer) {
	switch {
	case d.exts[extDebugUtils] && C.vkCmdEndDebugUtilsLabelEXT != nil:
		C.vkCmdEndDebugUtilsLabelEXT(cb)
	case d.exts[extDebugMarker] && C.vkCmdDebugMarkerEndEXT != nil:
		C.vkCmdDebugMarkerEndEXT(cb)
	}
}

// insertMarker inserts a single named, colored debug marker into cb,
// preferring VK_EXT_debug_utils and falling back to
// VK_EXT_debug_marker. It records no device-fault checkpoint:
// dumpDeviceFault reports only the driver's fault description and
// counts, not the markers.
func (d *Driver) insertMarker(cb C.VkCommandBuffer, name string, color [3]float32) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	switch {
	case d.exts[extDebugUtils] && C.vkCmdInsertDebugUtilsLabelEXT != nil:
		label := C.VkDebugUtilsLabelEXT{
			sType:      C.VK_STRUCTURE_TYPE_DEBUG_UTILS_LABEL_EXT,
			pLabelName: cname,
			color:      [4]C.float{C.float(color[0]), C.float(color[1]), C.float(color[2]), 1},
		}
		C.vkCmdInsertDebugUtilsLabelEXT(cb, &label)
	case d.exts[extDebugMarker] && C.vkCmdDebugMarkerInsertEXT != nil:
		info := C.VkDebugMarkerMarkerInfoEXT{
			sType:       C.VK_STRUCTURE_TYPE_DEBUG_MARKER_MARKER_INFO_EXT,
			pMarkerName: cname,
			color:       [4]C.float{C.float(color[0]), C.float(color[1]), C.float(color[2]), 1},
		}
		C.vkCmdDebugMarkerInsertEXT(cb, &info)
	}
}

// dumpDeviceFault logs the implementation's VK_EXT_device_fault
// summary after a device-lost error. It is read-only and best-
// effort: some drivers report zero counts even on a genuine crash,
// so this never replaces onDeviceLost's plain log line, only adds to
// it.
func (d *Driver) dumpDeviceFault() {
	if C.vkGetDeviceFaultInfoEXT == nil {
		return
	}
	var counts C.VkDeviceFaultCountsEXT
	counts.sType = C.VK_STRUCTURE_TYPE_DEVICE_FAULT_COUNTS_EXT
	if C.vkGetDeviceFaultInfoEXT(d.dev, &counts, nil) != C.VK_SUCCESS {
		return
	}
	var info C.VkDeviceFaultInfoEXT
	info.sType = C.VK_STRUCTURE_TYPE_DEVICE_FAULT_INFO_EXT
	if C.vkGetDeviceFaultInfoEXT(d.dev, &counts, &info) != C.VK_SUCCESS {
		return
	}
	driver.Logf(driver.LError, "vkdevice", "fault: %s (vendor=%d, addr=%d, vendorBinary=%d)",
		C.GoString(&info.description[0]), counts.vendorInfoCount, counts.addressInfoCount, counts.vendorBinarySize)
}
