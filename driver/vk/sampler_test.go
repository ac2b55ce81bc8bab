// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"fmt"
	"testing"

	"github.com/ConfettiFX/forge-vulkan/driver"
)

func TestSampler(t *testing.T) {
	cases := [...]driver.Sampling{
		{Min: driver.FNearest, Mag: driver.FNearest, Mipmap: driver.FNoMipmap, MaxAnisotropy: 1, MinLOD: 0, MaxLOD: 0.25, AddrU: driver.AWrap, AddrV: driver.AWrap, AddrW: driver.AWrap, CompareFunc: driver.CNever},
		{Min: driver.FLinear, Mag: driver.FLinear, Mipmap: driver.FNoMipmap, MaxAnisotropy: 1, MinLOD: 0, MaxLOD: 0.25, AddrU: driver.AWrap, AddrV: driver.AMirror, AddrW: driver.AClamp, CompareFunc: driver.CLess},
		{Min: driver.FLinear, Mag: driver.FLinear, Mipmap: driver.FLinearMipmap, MaxAnisotropy: 1, MinLOD: 0, MaxLOD: 10, AddrU: driver.AMirror, AddrV: driver.AWrap, AddrW: driver.AWrap, CompareFunc: driver.CEqual, Compare: true},
		{Min: driver.FLinear, Mag: driver.FNearest, Mipmap: driver.FNearestMipmap, MaxAnisotropy: 1, MinLOD: 0, MaxLOD: 11, AddrU: driver.AClamp, AddrV: driver.AWrap, AddrW: driver.AClamp, CompareFunc: driver.CLessEqual, Compare: true},
		{Min: driver.FNearest, Mag: driver.FLinear, Mipmap: driver.FNearestMipmap, MaxAnisotropy: 1, MinLOD: 0, MaxLOD: 12, AddrU: driver.AMirror, AddrV: driver.AMirror, AddrW: driver.AMirror, CompareFunc: driver.CGreater, Compare: true},
		{Min: driver.FNearest, Mag: driver.FNearest, Mipmap: driver.FNearestMipmap, MaxAnisotropy: 1, MinLOD: 0, MaxLOD: 0, AddrU: driver.AClamp, AddrV: driver.AMirror, AddrW: driver.AWrap, CompareFunc: driver.CNotEqual},
		{Min: driver.FNearest, Mag: driver.FNearest, Mipmap: driver.FLinearMipmap, MaxAnisotropy: 4, MinLOD: 0, MaxLOD: 1, AddrU: driver.AWrap, AddrV: driver.AWrap, AddrW: driver.AWrap, CompareFunc: driver.CGreaterEqual},
		{Min: driver.FLinear, Mag: driver.FLinear, Mipmap: driver.FLinearMipmap, MaxAnisotropy: 16, MinLOD: 0, MaxLOD: 2, AddrU: driver.AClamp, AddrV: driver.AClamp, AddrW: driver.AClamp, CompareFunc: driver.CAlways},
	}
	zs := sampler{}
	for _, c := range cases {
		call := fmt.Sprintf("tDrv.NewSampler(%v)", c)
		// NewSampler.
		if s, err := tDrv.NewSampler(&c); err == nil {
			if s == nil {
				t.Errorf("%s\nhave nil, nil\nwant non-nil, nil", call)
			}
			s := s.(*sampler)
			if s.d != &tDrv {
				t.Errorf("%s: s.d\nhave %p\nwant %p", call, s, &tDrv)
			}
			if s.splr == zs.splr {
				t.Errorf("%s: s.splr\nhave %v\nwant valid handle", call, s.splr)
			}
			// Destroy.
			s.Destroy()
			if *s != zs {
				t.Errorf("s.Destroy(): s\nhave %v\nwant %v", s, zs)
			}
		} else if s != nil {
			t.Errorf("%s\nhave %p, %v\nwant nil, %v", call, s, err, err)
		} else {
			t.Logf("(error) %s: %v", s, err)
		}
	}
}
