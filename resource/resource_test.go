// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/devblok/doteki/resource"
	"github.com/devblok/doteki/utility/kar"
	"github.com/gobuffalo/packr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testResources = packr.NewBox("./testdata")

func archiveSource(t *testing.T, names ...string) resource.ArchiveSource {
	t.Helper()
	builder, err := kar.NewBuilder(kar.Header{Author: "devblok", Version: 1})
	require.NoError(t, err)
	defer builder.Close()

	for _, name := range names {
		f, err := os.Open("testdata/" + name)
		require.NoError(t, err)
		err = builder.Add(name, f)
		f.Close()
		require.NoError(t, err)
	}

	buf := bytes.NewBuffer([]byte{})
	_, err = builder.WriteTo(buf)
	require.NoError(t, err)

	ar, err := kar.Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return resource.ArchiveSource{Archive: ar}
}

func TestLoaderSourcesAgree(t *testing.T) {
	var (
		want        []float32
		wantIndices []uint16
	)
	require.NoError(t, resource.LoadGeometry("testdata/pyramid.txt", &want, &wantIndices, 3))

	for name, source := range map[string]resource.Source{
		"dir":     resource.Dir("testdata"),
		"box":     resource.BoxSource{Box: testResources},
		"archive": archiveSource(t, "pyramid.txt"),
	} {
		t.Run(name, func(t *testing.T) {
			var (
				points  []float32
				indices []uint16
			)
			loader := resource.NewLoader(source)
			require.NoError(t, loader.Geometry("pyramid.txt", &points, &indices, 3))
			assert.Equal(t, want, points)
			assert.Equal(t, wantIndices, indices)
		})
	}
}

func TestLoaderMissingResource(t *testing.T) {
	for name, source := range map[string]resource.Source{
		"dir":     resource.Dir("testdata"),
		"box":     resource.BoxSource{Box: testResources},
		"archive": archiveSource(t, "triangle.txt"),
	} {
		t.Run(name, func(t *testing.T) {
			points := []float32{1}
			indices := []uint16{2}
			loader := resource.NewLoader(source)

			err := loader.Geometry("missing.txt", &points, &indices, 2)
			assert.True(t, errors.Is(err, resource.ErrOpen), "got %v", err)
			assert.Equal(t, []float32{1}, points)
			assert.Equal(t, []uint16{2}, indices)

			module, err := loader.ShaderModule("missing.wgsl", &testCompiler{})
			assert.Nil(t, module)
			assert.True(t, errors.Is(err, resource.ErrOpen), "got %v", err)
		})
	}
}

func TestLoaderLenient(t *testing.T) {
	var (
		points  []float32
		indices []uint16
	)
	loader := resource.NewLoader(resource.Dir("testdata"))

	err := loader.Geometry("short.txt", &points, &indices, 2)
	assert.True(t, errors.Is(err, resource.ErrMalformedRecord))

	loader.Lenient = true
	require.NoError(t, loader.Geometry("short.txt", &points, &indices, 2))
	assert.Len(t, points, 10)
}

func TestLoaderShaderModule(t *testing.T) {
	for name, source := range map[string]resource.Source{
		"box":     resource.BoxSource{Box: testResources},
		"archive": archiveSource(t, "triangle.wgsl"),
	} {
		t.Run(name, func(t *testing.T) {
			compiler := &testCompiler{language: resource.LanguageWGSL}
			module, err := resource.NewLoader(source).ShaderModule("triangle.wgsl", compiler)
			require.NoError(t, err)
			assert.Equal(t, "triangle", module.Name())
			assert.Equal(t, "@vertex fn vs_main() {}", string(compiler.Sources()[0].Code))
		})
	}
}
