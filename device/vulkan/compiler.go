// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vulkan creates shader modules from SPIR-V on a Vulkan device.
package vulkan

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/devblok/doteki/resource"
	vk "github.com/vulkan-go/vulkan"
)

// ErrCodeSize is returned for SPIR-V code not made of whole 32-bit words
var ErrCodeSize = errors.New("spir-v code size is not a multiple of 4")

// Compiler implements resource.ShaderCompiler for a logical device
type Compiler struct {
	Device vk.Device
}

// NewCompiler creates a Compiler for device
func NewCompiler(device vk.Device) *Compiler {
	return &Compiler{
		Device: device,
	}
}

// Language implements resource.ShaderCompiler
func (c *Compiler) Language() resource.Language {
	return resource.LanguageSPIRV
}

// CreateShaderModule implements resource.ShaderCompiler
func (c *Compiler) CreateShaderModule(src resource.ShaderSource) (resource.ShaderModule, error) {
	if src.Language != resource.LanguageSPIRV {
		return nil, fmt.Errorf("%w: %s", resource.ErrLanguage, src.Language)
	}
	if len(src.Code) == 0 || len(src.Code)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCodeSize, len(src.Code))
	}

	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(src.Code)),
		PCode:    repackUint32(src.Code),
	}

	var shader vk.ShaderModule
	if err := vk.Error(vk.CreateShaderModule(c.Device, &smci, nil, &shader)); err != nil {
		return nil, fmt.Errorf("vk.CreateShaderModule(%s): %s", src.Name, err.Error())
	}

	return &Module{
		name:   src.Name,
		device: c.Device,
		shader: shader,
	}, nil
}

// Module is a Vulkan shader module
type Module struct {
	name   string
	device vk.Device
	shader vk.ShaderModule
}

// Name implements resource.ShaderModule
func (m *Module) Name() string {
	return m.name
}

// Handle is an accessor to the internal vk.ShaderModule
func (m *Module) Handle() vk.ShaderModule {
	return m.shader
}

// Release implements resource.ShaderModule
func (m *Module) Release() {
	vk.DestroyShaderModule(m.device, m.shader, nil)
}

type sliceHeader struct {
	Data uintptr
	Len  int
	Cap  int
}

// repackUint32 copies bytes into a uint32 slice, that is used
// to submit vulkan shaders for processing
func repackUint32(data []byte) []uint32 {
	buf := make([]uint32, len(data)/4)
	vk.Memcopy(unsafe.Pointer((*sliceHeader)(unsafe.Pointer(&buf)).Data), data)
	return buf
}
