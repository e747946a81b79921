// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"io"

	"github.com/devblok/doteki/resource"
	"github.com/devblok/doteki/utility/kar"
	log "github.com/sirupsen/logrus"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLoader creates the resource loader described by cfg: reading
// from the archive when one is set, from the directory otherwise.
// Close the returned closer once the loader isn't needed anymore.
func NewLoader(cfg ResourceConfiguration, logger log.FieldLogger) (*resource.Loader, io.Closer, error) {
	var (
		source resource.Source
		closer io.Closer = nopCloser{}
	)
	if cfg.Archive != "" {
		ar, err := kar.OpenFile(cfg.Archive)
		if err != nil {
			return nil, nil, err
		}
		source = resource.ArchiveSource{Archive: ar}
		closer = ar
	} else {
		source = resource.Dir(cfg.Directory)
	}

	loader := resource.NewLoader(source)
	loader.Lenient = cfg.Lenient
	loader.Log = logger
	return loader, closer, nil
}
