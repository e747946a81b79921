// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/devblok/doteki/core"
	"github.com/devblok/doteki/device/vulkan"
	"github.com/devblok/doteki/device/webgpu"
	"github.com/devblok/doteki/resource"
	log "github.com/sirupsen/logrus"
	"github.com/xlab/closer"
)

var (
	envFile = flag.String("env", "", "Load configuration from the given .env file")
	dir     = flag.String("dir", "", "Shader directory, overrides the configuration")
	backend = flag.String("backend", "webgpu", "Device to compile with: webgpu or vulkan")
)

func newCompiler(name string, logger log.FieldLogger) (resource.ShaderCompiler, func(), error) {
	switch name {
	case "webgpu":
		h, err := webgpu.NewHeadless()
		if err != nil {
			return nil, nil, err
		}
		return h.Compiler(), h.Release, nil
	case "vulkan":
		h, err := vulkan.NewHeadless(vulkan.DefaultApplicationInfo)
		if err != nil {
			return nil, nil, err
		}
		info := h.PhysicalDeviceInfo()
		logger.WithFields(log.Fields{
			"device":     info.Name,
			"vendor":     fmt.Sprintf("%x", info.VendorID),
			"driver":     info.DriverVersion,
			"memory":     info.Memory,
			"extensions": len(info.Extensions),
		}).Info("using vulkan device")
		return h.Compiler(), h.Destroy, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
}

func main() {
	defer closer.Close()
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := core.LoadConfiguration(files...)
	if err != nil {
		log.Fatalln(err)
	}
	if *dir != "" {
		cfg.Resources.ShaderDirectory = *dir
	}
	logger, err := core.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalln(err)
	}

	compiler, release, err := newCompiler(*backend, logger)
	if err != nil {
		logger.WithError(err).Fatal("could not create device")
	}

	lib, err := resource.LoadShaderLibrary(cfg.Resources.ShaderDirectory, compiler, logger)
	if err != nil {
		release()
		logger.WithError(err).Fatal("could not load shaders")
	}
	for _, name := range lib.Names() {
		file, _ := lib.File(name)
		logger.WithFields(log.Fields{
			"shader": name,
			"stage":  file.Stage,
		}).Info("shader loaded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	watcher, err := resource.NewWatcher(ctx, cfg.Resources.ShaderDirectory, lib, func(name string, err error) {
		if err == nil {
			logger.WithField("shader", name).Info("shader reloaded")
		}
	})
	if err != nil {
		cancel()
		lib.Release()
		release()
		logger.WithError(err).Fatal("could not watch shaders")
	}

	closer.Bind(func() {
		cancel()
		watcher.Close()
		lib.Release()
		release()
		logger.Info("Bye!")
	})
	logger.WithField("dir", cfg.Resources.ShaderDirectory).Info("watching shaders")
	<-ctx.Done()
}
