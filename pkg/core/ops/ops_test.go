// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpTypeNames(t *testing.T) {
	for _, opType := range OpTypeValues() {
		name := opType.String()
		require.NotEmpty(t, name, "OpType %d has no name", int(opType))
		parsed, err := OpTypeString(name)
		require.NoError(t, err)
		assert.Equal(t, opType, parsed)
	}
	parsed, err := OpTypeString("logicaland")
	require.NoError(t, err)
	assert.Equal(t, OpTypeLogicalAnd, parsed)
	_, err = OpTypeString("Convolve")
	assert.Error(t, err)
	assert.True(t, OpTypeCustom.IsAOpType())
	assert.False(t, OpType(1000).IsAOpType())
	assert.Equal(t, "OpType(1000)", OpType(1000).String())
}

func TestNumInputs(t *testing.T) {
	assert.Equal(t, 0, OpTypeParameter.NumInputs())
	assert.Equal(t, 1, OpTypeTopK.NumInputs())
	assert.Equal(t, 2, OpTypeBucketize.NumInputs())
	assert.Equal(t, 3, OpTypeWhere.NumInputs())
	assert.Equal(t, Variadic, OpTypeConcatenate.NumInputs())
	assert.True(t, OpTypeTopK.IsMultiOutput())
	assert.False(t, OpTypeAdd.IsMultiOutput())
}

func TestInputKindOf(t *testing.T) {
	assert.Equal(t, InputPassthrough, InputKindOf(OpTypeConvertDType, 0))
	assert.Equal(t, InputPassthrough, InputKindOf(OpTypeBitcast, 0))
	assert.Equal(t, InputBoolean, InputKindOf(OpTypeLogicalAnd, 1))
	assert.Equal(t, InputBoolean, InputKindOf(OpTypeWhere, 0))
	assert.Equal(t, InputCoupled, InputKindOf(OpTypeWhere, 2))
	assert.Equal(t, InputCoupled, InputKindOf(OpTypeGather, 0))
	assert.Equal(t, InputIndices, InputKindOf(OpTypeGather, 1))
	assert.Equal(t, InputIndependent, InputKindOf(OpTypeBucketize, 1))
	assert.Equal(t, InputOpaque, InputKindOf(OpTypeCustom, 0))
	assert.Equal(t, InputCoupled, InputKindOf(OpTypeAdd, 0))
	assert.Equal(t, InputCoupled, InputKindOf(OpTypeTopK, 0))
	assert.Equal(t, "Indices", InputIndices.String())
}

func TestFamilies(t *testing.T) {
	assert.True(t, OpTypeReduceLogicalOr.IsLogical())
	assert.False(t, OpTypeEqual.IsLogical())
	assert.True(t, OpTypeLessOrEqual.IsComparison())
	assert.True(t, OpTypeWhere.IsTypeParametric())
	assert.False(t, OpTypeTopK.IsTypeParametric())
	assert.False(t, OpTypeConvertDType.IsTypeParametric())
}
