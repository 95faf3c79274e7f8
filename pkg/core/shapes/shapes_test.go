// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(dtypes.Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Len(t, shape0.Dimensions, 0)
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, 8, int(shape0.Memory()))
	require.Equal(t, "(Float64)", shape0.String())

	shape1 := Make(dtypes.Int64, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Equal(t, 24, shape1.Size())
	require.Equal(t, 4*3*2*8, int(shape1.Memory()))
	require.Equal(t, 2, shape1.Dim(-1))
	require.Equal(t, "(Int64)[4 3 2]", shape1.String())

	shape2 := shape1.WithDType(dtypes.Int32)
	require.Equal(t, dtypes.Int64, shape1.DType, "WithDType must not change the original")
	require.True(t, shape2.EqualDimensions(shape1))
	require.False(t, shape2.Equal(shape1))
	require.True(t, shape2.Equal(Make(dtypes.Int32, 4, 3, 2)))

	shape3 := shape1.Clone()
	shape3.Dimensions[0] = 7
	require.Equal(t, 4, shape1.Dimensions[0], "Clone must be a deep copy")
}

func TestMakeInvalidDimensions(t *testing.T) {
	err := exceptions.TryCatch[error](func() { Make(dtypes.Float32, 2, 0) })
	require.Error(t, err)
	err = exceptions.TryCatch[error](func() { Make(dtypes.Float32, 2).Dim(1) })
	require.Error(t, err)
}
