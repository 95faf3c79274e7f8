// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/graph"
	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	config := must.M1(ParseConfig([]byte(`
precisions:
  - {from: i64, to: i32}
  - from: Float16
    to: F32
convert_elimination: false
`)))
	assert.Equal(t, []Pair{{From: dtypes.Int64, To: dtypes.Int32}, {From: dtypes.Float16, To: dtypes.Float32}}, config.Precisions)
	require.NotNil(t, config.ConvertElimination)
	assert.False(t, *config.ConvertElimination)

	cp := must.M1(config.Build(nil))
	assert.False(t, cp.convertElimination)
	assert.Equal(t, "[Int64->Int32, Float16->Float32]", cp.Precisions().String())

	config = must.M1(ParseConfig([]byte("precisions: [{from: bool, to: u8}]")))
	assert.Nil(t, config.ConvertElimination)
	assert.True(t, must.M1(config.Build(nil)).convertElimination)
}

func TestParseConfigErrors(t *testing.T) {
	for name, data := range map[string]string{
		"empty":         "",
		"unknown field": "precisions: [{from: i64, to: i32}]\nconvert_elimnation: false\n",
		"unknown dtype": "precisions: [{from: i64, to: int7}]",
		"invalid dtype": "precisions: [{from: i64, to: InvalidDType}]",
		"no pairs":      "precisions: []",
		"not yaml":      "precisions: {from: [",
	} {
		_, err := ParseConfig([]byte(data))
		assert.Errorf(t, err, "configuration %q should fail", name)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convert_precision.yaml")
	require.NoError(t, os.WriteFile(path, []byte("precisions: [{from: i64, to: i32}]\n"), 0o644))
	config := must.M1(LoadConfig(path))

	// The built transformation honors the additional fuse map.
	cp := must.M1(config.Build(FuseMap{ops.OpTypeParameter: nil}))
	g := graph.New("from_config")
	x := g.Parameter("x", dtypes.Int64, 3)
	require.NoError(t, g.SetOutputs(x))
	require.True(t, must.M1(cp.Run(g)))
	assert.Equal(t, dtypes.Int64, g.Shape(x).DType)
	assert.Equal(t, dtypes.Int32, g.Shape(g.Outputs()[0]).DType)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
