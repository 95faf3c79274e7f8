// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"testing"

	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrecisions(t *testing.T) {
	precisions := must.M1(ParsePrecisions(" i64:i32, F16 : Float32,,bool:u8 "))
	assert.Equal(t, []Pair{
		{From: dtypes.Int64, To: dtypes.Int32},
		{From: dtypes.Float16, To: dtypes.Float32},
		{From: dtypes.Bool, To: dtypes.Uint8},
	}, precisions.Pairs())
	assert.Equal(t, "[Int64->Int32, Float16->Float32, Bool->Uint8]", precisions.String())

	for _, text := range []string{"", " , ", "i64", "i64:int7", "u4:i32"} {
		_, err := ParsePrecisions(text)
		assert.Errorf(t, err, "ParsePrecisions(%q) should fail", text)
	}
}

func TestResolve(t *testing.T) {
	precisions := NewPrecisions(
		Pair{From: dtypes.Int64, To: dtypes.Int32},
		Pair{From: dtypes.Int64, To: dtypes.Int16},
		Pair{From: dtypes.Uint8, To: dtypes.Uint8},
		Pair{From: dtypes.Uint8, To: dtypes.Int32},
	)
	to, found := precisions.Resolve(dtypes.Int64)
	require.True(t, found)
	assert.Equal(t, dtypes.Int32, to, "the first matching pair wins")

	_, found = precisions.Resolve(dtypes.Uint8)
	assert.False(t, found, "a pair with the same from and to shadows the later ones")
	_, found = precisions.Resolve(dtypes.Float32)
	assert.False(t, found)

	assert.Equal(t, dtypes.SetWith(dtypes.Int64), precisions.FromSet())
	assert.Equal(t, 4, precisions.Len())

	// Pairs returns a copy.
	pairs := precisions.Pairs()
	pairs[0].To = dtypes.Int8
	to, _ = precisions.Resolve(dtypes.Int64)
	assert.Equal(t, dtypes.Int32, to)
}
