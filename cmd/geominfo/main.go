// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/devblok/doteki/core"
	"github.com/devblok/doteki/model"
	log "github.com/sirupsen/logrus"
	"github.com/xlab/tablewriter"
)

var (
	envFile    = flag.String("env", "", "Load configuration from the given .env file")
	dimensions = flag.Int("dims", 0, "Position scalars per point, overrides the configuration")
	lenient    = flag.Bool("lenient", false, "Zero-fill malformed records instead of failing")
	archive    = flag.String("archive", "", "Read geometry from a kar archive")
	dir        = flag.String("dir", "", "Read geometry relative to this directory")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: geominfo [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := core.LoadConfiguration(files...)
	if err != nil {
		log.Fatalln(err)
	}
	if *dimensions != 0 {
		cfg.Resources.Dimensions = *dimensions
	}
	if *lenient {
		cfg.Resources.Lenient = true
	}
	if *archive != "" {
		cfg.Resources.Archive = *archive
	}
	if *dir != "" {
		cfg.Resources.Directory = *dir
	}

	logger, err := core.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalln(err)
	}
	loader, closer, err := core.NewLoader(cfg.Resources, logger)
	if err != nil {
		logger.WithError(err).Fatal("could not open resources")
	}
	defer closer.Close()

	table := tablewriter.CreateTable()
	table.UTF8Box()
	table.AddTitle(fmt.Sprintf("GEOMETRY (%d DIMENSIONS)", cfg.Resources.Dimensions))
	table.AddRow("File", "Points", "Triangles", "Stride", "Min", "Max", "Status")

	failed := false
	for _, name := range flag.Args() {
		mesh, err := model.LoadMesh(loader, name, cfg.Resources.Dimensions)
		if err != nil {
			failed = true
			logger.WithError(err).WithField("file", name).Error("could not load geometry")
			table.AddRow(name, "-", "-", "-", "-", "-", "load failed")
			continue
		}

		status := "ok"
		if err := mesh.Validate(); err != nil {
			failed = true
			status = err.Error()
		}
		min, max := mesh.Bounds()
		table.AddRow(name, mesh.VertexCount(), mesh.TriangleCount(), mesh.Stride(),
			formatVec(min[:]), formatVec(max[:]), status)
	}
	fmt.Println(table.Render())

	if failed {
		closer.Close()
		os.Exit(1)
	}
}

func formatVec(v []float32) string {
	return fmt.Sprintf("%.3g %.3g %.3g", v[0], v[1], v[2])
}
