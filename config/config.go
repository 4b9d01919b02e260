// Package config holds the settings of one generator run.
package config

import (
	"github.com/lixenwraith/palettegen/csource"
	"github.com/lixenwraith/palettegen/palette"
)

// Default paths, relative to the working directory
const (
	DefaultInputPath     = "from_wled/src/wled_palettes.h"
	DefaultPackedOutPath = "lib/libesp32/berry_animation/src/dsl/all_wled_palettes.be"
	DefaultTupleOutPath  = "lib/libesp32/berry_animation/src/dsl/all_wled_palettes.anim"
)

// Config is the full set of inputs for a run
type Config struct {
	InputPath     string
	PackedOutPath string
	TupleOutPath  string

	Dialect csource.Dialect
	Naming  palette.Naming
}

// Default returns the WLED layout
func Default() Config {
	return Config{
		InputPath:     DefaultInputPath,
		PackedOutPath: DefaultPackedOutPath,
		TupleOutPath:  DefaultTupleOutPath,
		Dialect:       csource.DefaultDialect(),
		Naming:        palette.DefaultNaming(),
	}
}

// WithPaths overrides non-empty paths
func (c Config) WithPaths(input, packedOut, tupleOut string) Config {
	if input != "" {
		c.InputPath = input
	}
	if packedOut != "" {
		c.PackedOutPath = packedOut
	}
	if tupleOut != "" {
		c.TupleOutPath = tupleOut
	}
	return c
}
