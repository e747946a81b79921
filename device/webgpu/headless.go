// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Headless is a device requested without a surface
type Headless struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
}

// NewHeadless requests an adapter and a device with default limits
func NewHeadless() (*Headless, error) {
	h := &Headless{
		instance: wgpu.CreateInstance(nil),
	}

	adapter, err := h.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		h.Release()
		return nil, err
	}
	h.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Doteki Device",
	})
	if err != nil {
		h.Release()
		return nil, err
	}
	h.device = device
	return h, nil
}

// Device returns the requested device
func (h *Headless) Device() *wgpu.Device {
	return h.device
}

// Compiler returns a shader compiler on the device
func (h *Headless) Compiler() *Compiler {
	return NewCompiler(h.device)
}

// Release frees the device, adapter and instance
func (h *Headless) Release() {
	if h.device != nil {
		h.device.Release()
		h.device = nil
	}
	if h.adapter != nil {
		h.adapter.Release()
		h.adapter = nil
	}
	if h.instance != nil {
		h.instance.Release()
		h.instance = nil
	}
}
