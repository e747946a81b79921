// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package resource loads the startup resources of a renderer: point/index
// geometry from a small sectioned text format, and shader sources that
// are handed whole to a device's shader compiler.
//
// Geometry files look like this:
//
//	[points]
//	# x y r g b
//	0.0 0.0 1.0 0.0 0.0
//	1.0 0.0 0.0 1.0 0.0
//	0.0 1.0 0.0 0.0 1.0
//	[indices]
//	0 1 2
//
// Points are emitted into one flat float32 buffer and indices into one
// flat uint16 buffer. Interpreting their stride is up to the caller.
package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/devblok/doteki/utility/kar"
	"github.com/gobuffalo/packr"
	log "github.com/sirupsen/logrus"
)

// package errors
var (
	ErrOpen            = errors.New("resource could not be opened")
	ErrDimensions      = errors.New("point dimensions must be positive")
	ErrMalformedRecord = errors.New("malformed geometry record")
	ErrCompile         = errors.New("shader module creation failed")
	ErrNoCompiler      = errors.New("no shader compiler given")
	ErrUnknownShader   = errors.New("shader not in library")
	ErrLanguage        = errors.New("shader language not accepted by compiler")
)

// Source opens named resources for reading
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// Dir is a Source reading files below a directory.
// Absolute names are opened as they are.
type Dir string

// Open implements Source
func (d Dir) Open(name string) (io.ReadCloser, error) {
	if filepath.IsAbs(name) {
		return os.Open(name)
	}
	return os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
}

// BoxSource serves resources packed into the binary with packr
type BoxSource struct {
	Box packr.Box
}

// Open implements Source
func (b BoxSource) Open(name string) (io.ReadCloser, error) {
	data, err := b.Box.Find(name)
	if err != nil {
		return nil, err
	}
	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

// ArchiveSource serves resources from a kar archive
type ArchiveSource struct {
	Archive *kar.Archive
}

// Open implements Source
func (a ArchiveSource) Open(name string) (io.ReadCloser, error) {
	return a.Archive.Open(name)
}

// Loader reads geometry and shaders through a Source.
type Loader struct {
	Source  Source
	Lenient bool
	Log     log.FieldLogger
}

// NewLoader creates a Loader reading from source
func NewLoader(source Source) *Loader {
	return &Loader{
		Source: source,
	}
}

// Geometry decodes the named geometry resource, see LoadGeometry.
func (l *Loader) Geometry(name string, points *[]float32, indices *[]uint16, dimensions int) error {
	if dimensions < 1 {
		return fmt.Errorf("%w: %d", ErrDimensions, dimensions)
	}
	r, err := l.Source.Open(name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpen, name, err)
	}
	defer r.Close()

	dec := GeometryDecoder{
		Dimensions: dimensions,
		Lenient:    l.Lenient,
		Log:        l.logger().WithField("resource", name),
	}
	return dec.Decode(r, points, indices)
}

// ShaderModule reads the named shader resource whole and submits it
// to compiler, see LoadShaderModule.
func (l *Loader) ShaderModule(name string, compiler ShaderCompiler) (ShaderModule, error) {
	if compiler == nil {
		return nil, ErrNoCompiler
	}
	r, err := l.Source.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, name, err)
	}
	defer r.Close()

	code, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading shader %s: %w", name, err)
	}
	l.logger().WithFields(log.Fields{
		"resource": name,
		"bytes":    len(code),
	}).Debug("shader source read")
	return compile(compiler, shaderName(name), code)
}

func (l *Loader) logger() log.FieldLogger {
	if l.Log != nil {
		return l.Log
	}
	return log.StandardLogger()
}
