// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package agent

import (
	"errors"
	"fmt"
	"log"

	"github.com/BurntSushi/toml"
	"github.com/emer/htmrl/condense"
	"github.com/emer/htmrl/critic"
	"github.com/emer/htmrl/encode"
	"github.com/emer/htmrl/rl"
	"github.com/emer/htmrl/spatial"
)

// ReplayParams control the replay chain and rehearsal.
type ReplayParams struct {
	MaxChain int               `def:"600" min:"1" desc:"maximum number of transitions kept in the replay chain"`
	Rehearse rl.RehearseParams `view:"inline" desc:"rehearsal passes and minibatch size"`
}

func (rp *ReplayParams) Defaults() {
	rp.MaxChain = 600
	rp.Rehearse.Defaults()
}

// Config is the construction-time configuration of an Agent.
type Config struct {
	InputWidth  int             `min:"1" desc:"width of the sensory frame, in cells"`
	InputHeight int             `min:"1" desc:"height of the sensory frame, in cells"`
	NActions    int             `min:"1" desc:"number of discrete actions"`
	Encode      encode.Params   `view:"inline" desc:"population code encoding of the sensory frame"`
	Condense    condense.Params `view:"inline" desc:"block size for condensing the final stage output"`
	Critic      critic.Params   `view:"inline" desc:"value estimator construction parameters"`
	Regions     []spatial.Desc  `desc:"feature hierarchy regions, bottom-up -- each takes the output shape of the one below"`
	Replay      ReplayParams    `view:"inline" desc:"replay chain and rehearsal"`
}

func (cf *Config) Defaults() {
	cf.InputWidth = 4
	cf.InputHeight = 4
	cf.NActions = 4
	cf.Encode.Defaults()
	cf.Condense.Defaults()
	cf.Critic.Defaults()
	cf.Replay.Defaults()
	cf.Regions = nil
}

// AddRegion appends a region with default parameters of the given shape
// and returns it for further configuration.
func (cf *Config) AddRegion(name string, width, height int) *spatial.Desc {
	ds := spatial.Desc{}
	ds.Defaults()
	ds.Name = name
	ds.Width = width
	ds.Height = height
	cf.Regions = append(cf.Regions, ds)
	return &cf.Regions[len(cf.Regions)-1]
}

// DotsSize returns the shape of the encoded dot grid.
func (cf *Config) DotsSize() (width, height int) {
	return cf.Encode.Size(cf.InputWidth, cf.InputHeight)
}

// Validate checks the shapes and sizes that do not depend on the stages.
func (cf *Config) Validate() error {
	var errs []error
	if cf.InputWidth < 1 || cf.InputHeight < 1 {
		errs = append(errs, fmt.Errorf("input shape %d x %d must be positive", cf.InputWidth, cf.InputHeight))
	}
	if cf.Encode.DotsX < 1 || cf.Encode.DotsY < 1 {
		errs = append(errs, fmt.Errorf("dots per cell %d x %d must be positive", cf.Encode.DotsX, cf.Encode.DotsY))
	}
	if cf.Encode.BlobRadius < 0 {
		errs = append(errs, fmt.Errorf("blob radius %d must not be negative", cf.Encode.BlobRadius))
	}
	if cf.Condense.Width < 1 || cf.Condense.Height < 1 {
		errs = append(errs, fmt.Errorf("condense block %d x %d must be positive", cf.Condense.Width, cf.Condense.Height))
	}
	if cf.NActions < 1 {
		errs = append(errs, fmt.Errorf("NActions %d must be at least 1", cf.NActions))
	}
	if cf.Replay.MaxChain < 1 {
		errs = append(errs, fmt.Errorf("MaxChain %d must be at least 1", cf.Replay.MaxChain))
	}
	if cf.Replay.Rehearse.Minibatch < 1 {
		errs = append(errs, fmt.Errorf("Minibatch %d must be at least 1", cf.Replay.Rehearse.Minibatch))
	}
	if cf.Replay.Rehearse.Passes < 0 {
		errs = append(errs, fmt.Errorf("Passes %d must not be negative", cf.Replay.Rehearse.Passes))
	}
	return errors.Join(errs...)
}

// OpenTOML loads the config from a TOML file, on top of the current values.
// [[Regions]] entries are applied in order over the regions already in cf,
// keeping any value the file does not set; entries beyond those start from
// spatial.Desc defaults.
func (cf *Config) OpenTOML(filename string) error {
	var probe struct {
		Regions []map[string]interface{}
	}
	if _, err := toml.DecodeFile(filename, &probe); err != nil {
		return fmt.Errorf("agent.Config.OpenTOML: %w", err)
	}
	for len(cf.Regions) < len(probe.Regions) {
		cf.AddRegion(fmt.Sprintf("Region%d", len(cf.Regions)), 16, 16)
	}
	md, err := toml.DecodeFile(filename, cf)
	if err != nil {
		return fmt.Errorf("agent.Config.OpenTOML: %w", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		log.Printf("agent.Config.OpenTOML: %s: ignoring unknown keys: %v\n", filename, und)
	}
	return nil
}
