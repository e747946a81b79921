// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Language is a shading language a compiler accepts
type Language int

// Supported shader source languages
const (
	LanguageWGSL Language = iota
	LanguageSPIRV
)

func (l Language) String() string {
	switch l {
	case LanguageWGSL:
		return "wgsl"
	case LanguageSPIRV:
		return "spirv"
	default:
		return fmt.Sprintf("language(%d)", int(l))
	}
}

// Extension returns the file extension used for sources in l,
// including the leading dot.
func (l Language) Extension() string {
	switch l {
	case LanguageSPIRV:
		return ".spv"
	default:
		return ".wgsl"
	}
}

// ShaderSource is the request handed to a ShaderCompiler.
// Code is the file contents exactly as read.
type ShaderSource struct {
	Name     string
	Language Language
	Code     []byte
}

// ShaderModule is a compiled, or pending, shader owned by a device
type ShaderModule interface {
	// Name returns the name the module was created with
	Name() string

	// Release frees the module on the device
	Release()
}

// ShaderCompiler turns source into modules. Usually a graphics device.
type ShaderCompiler interface {
	// Language returns the only source language the compiler accepts
	Language() Language

	// CreateShaderModule submits src for compilation
	CreateShaderModule(src ShaderSource) (ShaderModule, error)
}

// LoadShaderModule reads the shader file at path whole and submits it
// to compiler in the compiler's language. Returns a nil module when
// the file can't be opened; diagnostics about the code itself
// are left to the compiler.
func LoadShaderModule(path string, compiler ShaderCompiler) (ShaderModule, error) {
	if compiler == nil {
		return nil, ErrNoCompiler
	}
	code, err := ReadShaderSource(path)
	if err != nil {
		return nil, err
	}
	return compile(compiler, shaderName(path), code)
}

// ReadShaderSource returns the exact contents of the file at path,
// read in a single pass into a buffer of the file's size.
func ReadShaderSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	code := make([]byte, info.Size())
	if _, err := io.ReadFull(f, code); err != nil {
		return nil, fmt.Errorf("reading shader %s: %w", path, err)
	}
	return code, nil
}

func compile(compiler ShaderCompiler, name string, code []byte) (ShaderModule, error) {
	module, err := compiler.CreateShaderModule(ShaderSource{
		Name:     name,
		Language: compiler.Language(),
		Code:     code,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, name, err)
	}
	return module, nil
}

// shaderName strips the directory and the language extension,
// so "shaders/triangle.vert.wgsl" becomes "triangle.vert".
func shaderName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
