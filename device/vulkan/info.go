// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	vk "github.com/vulkan-go/vulkan"
)

// PhysicalDeviceInfo describes the device shader modules are created on
type PhysicalDeviceInfo struct {
	Name          string
	DeviceID      uint32
	VendorID      uint32
	DriverVersion vk.Version
	Memory        vk.DeviceSize
	Extensions    []string
}

// PhysicalDeviceInfo queries the properties of the selected physical device
func (h *Headless) PhysicalDeviceInfo() PhysicalDeviceInfo {
	var info PhysicalDeviceInfo

	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(h.physicalDevice, &properties)
	properties.Deref()
	info.Name = vk.ToString(properties.DeviceName[:])
	info.DeviceID = properties.DeviceID
	info.VendorID = properties.VendorID
	info.DriverVersion = vk.Version(properties.DriverVersion)

	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(h.physicalDevice, &memoryProperties)
	memoryProperties.Deref()
	for i := uint32(0); i < memoryProperties.MemoryHeapCount; i++ {
		memoryProperties.MemoryHeaps[i].Deref()
		info.Memory += memoryProperties.MemoryHeaps[i].Size
	}

	var count uint32
	if vk.EnumerateDeviceExtensionProperties(h.physicalDevice, "", &count, nil) != vk.Success {
		return info
	}
	extensions := make([]vk.ExtensionProperties, count)
	if vk.EnumerateDeviceExtensionProperties(h.physicalDevice, "", &count, extensions) != vk.Success {
		return info
	}
	for _, ext := range extensions {
		ext.Deref()
		info.Extensions = append(info.Extensions, vk.ToString(ext.ExtensionName[:]))
	}
	return info
}
