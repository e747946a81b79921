// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ShaderStage is the pipeline stage a shader file is meant for
type ShaderStage int

// Identifies shader files with their stages. StageModule is a
// source holding several entry points, like most WGSL files do.
const (
	StageModule ShaderStage = iota
	StageVertex
	StageFragment
	StageCompute
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vert"
	case StageFragment:
		return "frag"
	case StageCompute:
		return "comp"
	default:
		return "module"
	}
}

// ShaderFile is a shader source found on disk
type ShaderFile struct {
	Path     string
	Name     string
	Stage    ShaderStage
	Language Language
}

// FindShaders returns the shader sources directly in dir,
// subdirectories are not searched.
// A file name has at most three dot separated parts: the name
// of the shader, the optional stage (vert, frag, comp) and the
// language extension (wgsl, spv). SPIR-V files must name a stage.
// Everything else is skipped.
func FindShaders(dir string) ([]ShaderFile, error) {
	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var shaders []ShaderFile
	for _, f := range infos {
		if f.IsDir() {
			continue
		}
		if shader, ok := classifyShader(filepath.Join(dir, f.Name())); ok {
			shaders = append(shaders, shader)
		}
	}
	return shaders, nil
}

func classifyShader(path string) (ShaderFile, bool) {
	file := ShaderFile{Path: path}

	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, LanguageWGSL.Extension()):
		file.Language = LanguageWGSL
	case strings.HasSuffix(base, LanguageSPIRV.Extension()):
		file.Language = LanguageSPIRV
	default:
		return file, false
	}
	file.Name = strings.TrimSuffix(base, file.Language.Extension())

	nodes := strings.Split(file.Name, ".")
	switch len(nodes) {
	case 1:
		if file.Language == LanguageSPIRV || nodes[0] == "" {
			return file, false
		}
		file.Stage = StageModule
	case 2:
		switch nodes[1] {
		case "vert":
			file.Stage = StageVertex
		case "frag":
			file.Stage = StageFragment
		case "comp":
			file.Stage = StageCompute
		default:
			return file, false
		}
	default:
		return file, false
	}
	return file, true
}

// ShaderLibrary holds the compiled modules of a shader directory,
// keyed by file name without the language extension.
// It is safe for concurrent use.
type ShaderLibrary struct {
	compiler ShaderCompiler
	log      log.FieldLogger

	mutex   sync.RWMutex
	files   map[string]ShaderFile
	modules map[string]ShaderModule
}

// LoadShaderLibrary compiles every shader in dir written in the
// compiler's language. Files in other languages are ignored. The first
// failure releases everything compiled so far and is returned.
func LoadShaderLibrary(dir string, compiler ShaderCompiler, logger log.FieldLogger) (*ShaderLibrary, error) {
	if compiler == nil {
		return nil, ErrNoCompiler
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	files, err := FindShaders(dir)
	if err != nil {
		return nil, err
	}

	lib := &ShaderLibrary{
		compiler: compiler,
		log:      logger.WithField("dir", dir),
		files:    make(map[string]ShaderFile),
		modules:  make(map[string]ShaderModule),
	}
	for _, file := range files {
		if file.Language != compiler.Language() {
			lib.log.WithField("file", file.Path).Debug("skipping shader in foreign language")
			continue
		}
		module, err := lib.compileFile(file)
		if err != nil {
			lib.Release()
			return nil, err
		}
		lib.files[file.Name] = file
		lib.modules[file.Name] = module
	}
	lib.log.WithField("shaders", len(lib.modules)).Debug("shader library loaded")
	return lib, nil
}

func (lib *ShaderLibrary) compileFile(file ShaderFile) (ShaderModule, error) {
	code, err := ReadShaderSource(file.Path)
	if err != nil {
		return nil, err
	}
	return compile(lib.compiler, file.Name, code)
}

// Module returns the module compiled from the named file
func (lib *ShaderLibrary) Module(name string) (ShaderModule, bool) {
	lib.mutex.RLock()
	defer lib.mutex.RUnlock()
	module, ok := lib.modules[name]
	return module, ok
}

// File returns the source file information for the named module
func (lib *ShaderLibrary) File(name string) (ShaderFile, bool) {
	lib.mutex.RLock()
	defer lib.mutex.RUnlock()
	file, ok := lib.files[name]
	return file, ok
}

// Names returns the sorted names of all modules in the library
func (lib *ShaderLibrary) Names() []string {
	lib.mutex.RLock()
	defer lib.mutex.RUnlock()
	names := make([]string, 0, len(lib.modules))
	for name := range lib.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload compiles the shader at path again and swaps it in, releasing
// the previous module. The old module stays in place if compilation
// fails. Returns the module name.
func (lib *ShaderLibrary) Reload(path string) (string, error) {
	file, ok := classifyShader(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownShader, path)
	}
	if file.Language != lib.compiler.Language() {
		return file.Name, fmt.Errorf("%w: %s is %s", ErrLanguage, path, file.Language)
	}

	module, err := lib.compileFile(file)
	if err != nil {
		return file.Name, err
	}

	lib.mutex.Lock()
	old, existed := lib.modules[file.Name]
	lib.modules[file.Name] = module
	lib.files[file.Name] = file
	lib.mutex.Unlock()

	if existed {
		old.Release()
	}
	lib.log.WithField("shader", file.Name).Debug("shader reloaded")
	return file.Name, nil
}

// Release frees every module in the library
func (lib *ShaderLibrary) Release() {
	lib.mutex.Lock()
	defer lib.mutex.Unlock()
	for name, module := range lib.modules {
		module.Release()
		delete(lib.modules, name)
	}
	lib.files = make(map[string]ShaderFile)
}
