// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package webgpu creates shader modules from WGSL on a WebGPU device.
package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/devblok/doteki/resource"
)

// Compiler implements resource.ShaderCompiler for a WebGPU device
type Compiler struct {
	Device *wgpu.Device
}

// NewCompiler creates a Compiler for device
func NewCompiler(device *wgpu.Device) *Compiler {
	return &Compiler{
		Device: device,
	}
}

// Language implements resource.ShaderCompiler
func (c *Compiler) Language() resource.Language {
	return resource.LanguageWGSL
}

// CreateShaderModule implements resource.ShaderCompiler. Syntax errors
// in the source are reported by the device.
func (c *Compiler) CreateShaderModule(src resource.ShaderSource) (resource.ShaderModule, error) {
	if src.Language != resource.LanguageWGSL {
		return nil, fmt.Errorf("%w: %s", resource.ErrLanguage, src.Language)
	}
	module, err := c.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          src.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: string(src.Code)},
	})
	if err != nil {
		return nil, err
	}
	return &Module{
		name:   src.Name,
		module: module,
	}, nil
}

// Module is a WebGPU shader module
type Module struct {
	name   string
	module *wgpu.ShaderModule
}

// Name implements resource.ShaderModule
func (m *Module) Name() string {
	return m.name
}

// Handle returns the underlying module for pipeline descriptors
func (m *Module) Handle() *wgpu.ShaderModule {
	return m.module
}

// Release implements resource.ShaderModule
func (m *Module) Release() {
	m.module.Release()
}
