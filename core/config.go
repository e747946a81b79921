// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfiguration
const (
	ResourceDirectoryKey = "DOTEKI_RESOURCE_DIR"
	ArchiveKey           = "DOTEKI_ARCHIVE"
	DimensionsKey        = "DOTEKI_DIMENSIONS"
	LenientKey           = "DOTEKI_LENIENT"
	ShaderDirectoryKey   = "DOTEKI_SHADER_DIR"
	LogLevelKey          = "DOTEKI_LOG_LEVEL"
)

// DefaultConfiguration is used for everything the environment leaves unset
var DefaultConfiguration = Configuration{
	Resources: ResourceConfiguration{
		Directory:       ".",
		Dimensions:      2,
		ShaderDirectory: "./shaders",
	},
	Log: LogConfiguration{
		Level: "info",
	},
}

// Configuration defines a global configuration setting
type Configuration struct {
	Resources ResourceConfiguration
	Log       LogConfiguration
}

// ResourceConfiguration is used to configure resource loading
type ResourceConfiguration struct {
	// Directory geometry and shaders are read from,
	// unless Archive is set
	Directory string

	// Archive is a kar archive to read resources from
	Archive string

	// Dimensions is the count of position scalars per point
	Dimensions int

	// Lenient zero-fills malformed geometry records
	// instead of failing the load
	Lenient bool

	ShaderDirectory string
}

// LogConfiguration is used to configure logging
type LogConfiguration struct {
	// Level is a logrus level name
	Level string
}

// LoadConfiguration loads the given .env files into the environment,
// later files overriding earlier ones, and reads the configuration
// from it. Missing values fall back to DefaultConfiguration.
func LoadConfiguration(files ...string) (Configuration, error) {
	if len(files) > 0 {
		if err := godotenv.Overload(files...); err != nil {
			return Configuration{}, err
		}
		envy.Reload()
	}

	cfg := DefaultConfiguration
	cfg.Resources.Directory = envy.Get(ResourceDirectoryKey, cfg.Resources.Directory)
	cfg.Resources.Archive = envy.Get(ArchiveKey, cfg.Resources.Archive)
	cfg.Resources.ShaderDirectory = envy.Get(ShaderDirectoryKey, cfg.Resources.ShaderDirectory)
	cfg.Log.Level = envy.Get(LogLevelKey, cfg.Log.Level)

	if raw := envy.Get(DimensionsKey, ""); raw != "" {
		dims, err := strconv.Atoi(raw)
		if err != nil || dims < 1 {
			return Configuration{}, fmt.Errorf("%s: invalid dimensions %q", DimensionsKey, raw)
		}
		cfg.Resources.Dimensions = dims
	}
	if raw := envy.Get(LenientKey, ""); raw != "" {
		lenient, err := strconv.ParseBool(raw)
		if err != nil {
			return Configuration{}, fmt.Errorf("%s: %v", LenientKey, err)
		}
		cfg.Resources.Lenient = lenient
	}
	return cfg, nil
}
