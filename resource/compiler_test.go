// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource_test

import (
	"errors"
	"strings"
	"sync"

	"github.com/devblok/doteki/resource"
)

var errRejected = errors.New("rejected by test compiler")

// testCompiler records every source it is handed. Code containing
// the reject marker fails compilation.
type testCompiler struct {
	language resource.Language
	reject   string

	mutex    sync.Mutex
	sources  []resource.ShaderSource
	released []string
}

func (c *testCompiler) Language() resource.Language {
	return c.language
}

func (c *testCompiler) CreateShaderModule(src resource.ShaderSource) (resource.ShaderModule, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sources = append(c.sources, src)
	if c.reject != "" && strings.Contains(string(src.Code), c.reject) {
		return nil, errRejected
	}
	return &testModule{compiler: c, name: src.Name, code: string(src.Code)}, nil
}

func (c *testCompiler) Sources() []resource.ShaderSource {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]resource.ShaderSource(nil), c.sources...)
}

func (c *testCompiler) Released() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]string(nil), c.released...)
}

type testModule struct {
	compiler *testCompiler
	name     string
	code     string
}

func (m *testModule) Name() string {
	return m.name
}

func (m *testModule) Release() {
	m.compiler.mutex.Lock()
	defer m.compiler.mutex.Unlock()
	m.compiler.released = append(m.compiler.released, m.name)
}
