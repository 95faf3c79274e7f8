// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config of the ConvertPrecision transformation, as loaded from a YAML file. Example:
//
//	precisions:
//	  - {from: i64, to: i32}
//	  - {from: f16, to: f32}
//	convert_elimination: false
//
// The dtypes can be spelled by any of the names in dtypes.MapOfNames.
type Config struct {
	Precisions []Pair `yaml:"precisions"`

	// ConvertElimination, if set, configures ConvertPrecision.WithConvertElimination. Default is true.
	ConvertElimination *bool `yaml:"convert_elimination,omitempty"`
}

// ParseConfig parses a YAML configuration. Unknown fields are an error.
func ParseConfig(data []byte) (*Config, error) {
	config := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty ConvertPrecision configuration")
		}
		return nil, errors.Wrap(err, "failed to parse ConvertPrecision configuration")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig reads and parses the YAML configuration file in path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read ConvertPrecision configuration from %q", path)
	}
	config, err := ParseConfig(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "configuration file %q", path)
	}
	return config, nil
}

// Validate checks that the configuration has at least one precision pair, and that all dtypes are valid.
func (c *Config) Validate() error {
	if len(c.Precisions) == 0 {
		return errors.New("ConvertPrecision configuration has no precision pairs")
	}
	for ii, pair := range c.Precisions {
		if !pair.From.Ok() || !pair.To.Ok() {
			return errors.Errorf("precision pair #%d (%s) has an invalid dtype", ii, pair)
		}
	}
	return nil
}

// Build creates the ConvertPrecision transformation described by the configuration, with the given
// additional fuse map (it can be nil).
func (c *Config) Build(additional FuseMap) (*ConvertPrecision, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cp := NewWithPrecisions(NewPrecisions(c.Precisions...)).WithFuseMap(additional)
	if c.ConvertElimination != nil {
		cp.WithConvertElimination(*c.ConvertElimination)
	}
	return cp, nil
}
