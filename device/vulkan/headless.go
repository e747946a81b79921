// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"
)

// DefaultApplicationInfo describes the tools to the driver
var DefaultApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   "Doteki tools\x00",
	PEngineName:        "Doteki\x00",
}

// Headless is an instance and a logical device without a surface,
// enough to create shader modules.
type Headless struct {
	instance       vk.Instance
	physicalDevice vk.PhysicalDevice
	device         vk.Device
}

// NewHeadless creates a headless device on the first physical
// device that has a graphics queue.
func NewHeadless(appInfo *vk.ApplicationInfo) (*Headless, error) {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, errors.New("vk.SetDefaultGetInstanceProcAddr(): " + err.Error())
	}
	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}

	h := &Headless{}
	instanceInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &h.instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	if err := vk.InitInstance(h.instance); err != nil {
		h.Destroy()
		return nil, errors.New("vk.InitInstance(): " + err.Error())
	}

	devices, err := enumerateDevices(h.instance)
	if err != nil {
		h.Destroy()
		return nil, err
	}

	for _, pd := range devices {
		if family, ok := graphicsQueueFamily(pd); ok {
			h.physicalDevice = pd
			if err := h.createDevice(family); err != nil {
				h.Destroy()
				return nil, err
			}
			return h, nil
		}
	}
	h.Destroy()
	return nil, errors.New("vulkan error: could not find a device with a graphics queue")
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, errors.New("vk.EnumeratePhysicalDevices(): " + err.Error())
	}
	devices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, devices)); err != nil {
		return nil, errors.New("vk.EnumeratePhysicalDevices(): " + err.Error())
	}
	return devices, nil
}

func graphicsQueueFamily(pd vk.PhysicalDevice) (uint32, bool) {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, queueFamilies)

	for i := uint32(0); i < queueFamilyCount; i++ {
		queueFamilies[i].Deref()
		if queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			return i, true
		}
	}
	return 0, false
}

func (h *Headless) createDevice(queueFamily uint32) error {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: queueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{1},
	}}
	dci := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queueInfos)),
		PQueueCreateInfos:    queueInfos,
	}
	if err := vk.Error(vk.CreateDevice(h.physicalDevice, &dci, nil, &h.device)); err != nil {
		return errors.New("vk.CreateDevice(): " + err.Error())
	}
	return nil
}

// Device returns the logical device
func (h *Headless) Device() vk.Device {
	return h.device
}

// Compiler returns a shader compiler on the logical device
func (h *Headless) Compiler() *Compiler {
	return NewCompiler(h.device)
}

// Destroy destroys the device and the instance
func (h *Headless) Destroy() {
	if h == nil {
		return
	}
	if h.device != nil {
		vk.DestroyDevice(h.device, nil)
		h.device = nil
	}
	if h.instance != nil {
		vk.DestroyInstance(h.instance, nil)
		h.instance = nil
	}
}
