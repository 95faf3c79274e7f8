// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"testing"

	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/graph"
	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/gomlx/precision/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestBuiltinFuseMap(t *testing.T) {
	fuseMap := BuiltinFuseMap()
	for _, opType := range []ops.OpType{ops.OpTypeParameter, ops.OpTypeConstant, ops.OpTypeConvertDType, ops.OpTypeShapeOf,
		ops.OpTypeRange, ops.OpTypeTopK, ops.OpTypeNonMaxSuppression, ops.OpTypeNonZero, ops.OpTypeBucketize,
		ops.OpTypeLogicalAnd, ops.OpTypeReduceLogicalOr, ops.OpTypeLessOrEqual, ops.OpTypeAdd, ops.OpTypeWhere} {
		assert.NotNilf(t, fuseMap[opType], "missing built-in fuse for %s", opType)
	}
	for _, opType := range []ops.OpType{ops.OpTypeBitcast, ops.OpTypeCustom} {
		_, found := fuseMap[opType]
		assert.Falsef(t, found, "%s shouldn't be fusable", opType)
	}

	// It's a copy: changing it doesn't affect the transformation.
	delete(fuseMap, ops.OpTypeParameter)
	assert.NotNil(t, fuseRegistry{}.lookup(ops.OpTypeParameter))
}

func TestFuseParameter(t *testing.T) {
	g := graph.New("parameters")
	fits := g.ParameterWithRange("fits", graph.ValueRange{Min: -100, Max: 100}, dtypes.Int64, 2)
	overflows := g.ParameterWithRange("overflows", graph.ValueRange{Min: -1, Max: 1 << 33}, dtypes.Int64, 2)
	half := g.Parameter("half", dtypes.Float16, 2)

	narrow := g.Parameter("narrow", dtypes.Int32, 2)
	unsigned := g.Parameter("unsigned", dtypes.Uint16, 2)

	// Only narrowing to Int32 is supported, even if the values would fit a smaller type.
	assert.False(t, fuseParameter(g, g.Node(fits.Node), dtypes.Int8, 0))
	assert.False(t, fuseParameter(g, g.Node(fits.Node), dtypes.Uint8, 0))
	assert.False(t, fuseParameter(g, g.Node(narrow.Node), dtypes.Int16, 0))
	assert.Equal(t, dtypes.Int64, g.Shape(fits).DType)
	assert.Equal(t, dtypes.Int32, g.Shape(narrow).DType)
	assert.True(t, fuseParameter(g, g.Node(fits.Node), dtypes.Int32, 0))
	assert.Equal(t, dtypes.Int32, g.Shape(fits).DType)
	assert.True(t, fuseParameter(g, g.Node(unsigned.Node), dtypes.Int32, 0))
	assert.False(t, fuseParameter(g, g.Node(overflows.Node), dtypes.Int32, 0))
	assert.False(t, fuseParameter(g, g.Node(overflows.Node), dtypes.Uint64, 0))
	assert.Equal(t, dtypes.Int64, g.Shape(overflows).DType)
	assert.False(t, fuseParameter(g, g.Node(half.Node), dtypes.Float64, 0), "only Float16->Float32 is supported")
	assert.True(t, fuseParameter(g, g.Node(half.Node), dtypes.Float32, 0))
	assert.Equal(t, dtypes.Float32, g.Node(half.Node).Attrs().(*graph.ParameterAttrs).Shape.DType)
}

func TestFuseConstant(t *testing.T) {
	g := graph.New("constants")
	small := g.Constant([]uint64{0, 7, 255}, 3)
	large := g.Constant([]uint64{1 << 40})
	negative := g.Constant([]int64{-1})
	half := g.Constant([]float16.Float16{float16.Fromfloat32(1.5), float16.Fromfloat32(-2)}, 2)

	assert.False(t, fuseConstant(g, g.Node(small.Node), dtypes.Uint8, 0))
	require.True(t, fuseConstant(g, g.Node(small.Node), dtypes.Int32, 0))
	assert.Equal(t, []int32{0, 7, 255}, g.Node(small.Node).Attrs().(*graph.ConstantAttrs).Flat)
	require.NoError(t, g.InferNode(small.Node), "payload and shape must stay consistent")

	assert.False(t, fuseConstant(g, g.Node(large.Node), dtypes.Int32, 0))
	assert.Equal(t, []uint64{1 << 40}, g.Node(large.Node).Attrs().(*graph.ConstantAttrs).Flat)
	assert.False(t, fuseConstant(g, g.Node(negative.Node), dtypes.Uint32, 0))
	assert.False(t, fuseConstant(g, g.Node(negative.Node), dtypes.Int8, 0))
	assert.True(t, fuseConstant(g, g.Node(negative.Node), dtypes.Int32, 0))
	assert.Equal(t, []int32{-1}, g.Node(negative.Node).Attrs().(*graph.ConstantAttrs).Flat)

	require.True(t, fuseConstant(g, g.Node(half.Node), dtypes.Float32, 0))
	assert.Equal(t, []float32{1.5, -2}, g.Node(half.Node).Attrs().(*graph.ConstantAttrs).Flat)
	require.NoError(t, g.InferNode(half.Node))
	assert.False(t, fuseConstant(g, g.Node(half.Node), dtypes.Int32, 0))
}

func TestFuseConvertAndShapeOf(t *testing.T) {
	g := graph.New("convert_and_shape")
	x := g.Parameter("x", dtypes.Float32, 3, 200)
	converted := g.ConvertDType(x, dtypes.Int64)
	toInt16 := g.ConvertDType(x, dtypes.Int16)
	shape := g.ShapeOf(x, dtypes.Int64)
	huge := g.Parameter("huge", dtypes.Float32, 3_000_000_000)
	hugeShape := g.ShapeOf(huge, dtypes.Int64)
	rank4Shape := g.ShapeOf(g.Parameter("rank4", dtypes.Float32, 1, 2, 3, 4), dtypes.Uint32)

	assert.False(t, fuseConvertDType(g, g.Node(converted.Node), dtypes.Int16, 0))
	assert.True(t, fuseConvertDType(g, g.Node(converted.Node), dtypes.Int32, 0))
	assert.Equal(t, dtypes.Int32, g.Shape(converted).DType)
	assert.False(t, fuseConvertDType(g, g.Node(converted.Node), dtypes.Float16, 0))
	assert.False(t, fuseConvertDType(g, g.Node(toInt16.Node), dtypes.Int8, 0))
	assert.Equal(t, dtypes.Int16, g.Shape(toInt16).DType)

	assert.False(t, fuseShapeOf(g, g.Node(shape.Node), dtypes.Uint8, 0), "only Int32 is a supported target")
	assert.True(t, fuseShapeOf(g, g.Node(shape.Node), dtypes.Int32, 0))
	assert.Equal(t, dtypes.Int32, g.Node(shape.Node).Attrs().(*graph.DTypeAttrs).DType)
	assert.False(t, fuseShapeOf(g, g.Node(hugeShape.Node), dtypes.Int32, 0), "dimension 3e9 doesn't fit Int32")
	assert.Equal(t, dtypes.Int64, g.Shape(hugeShape).DType)

	// The rank, the length of the result, must fit as well.
	assert.True(t, fuseShapeOf(g, g.Node(rank4Shape.Node), dtypes.Int32, 0))
	assert.True(t, shapes.Make(dtypes.Int32, 4).Equal(g.Shape(rank4Shape)))
}

func TestFuseRange(t *testing.T) {
	g := graph.New("ranges")
	small := g.Range(0, 10, 1, dtypes.Int64)
	large := g.Range(0, 1e10, 1e9, dtypes.Int64)
	signed := g.Range(-5, 5, 1, dtypes.Int64)
	require.NoError(t, g.SetOutputs(small, large, signed))

	require.True(t, must.M1(New(dtypes.Int64, dtypes.Int32).Run(g)))
	assert.Equal(t, dtypes.Int32, g.Node(small.Node).DType())
	assert.Equal(t, dtypes.Int64, g.Node(large.Node).DType(), "9e9 doesn't fit Int32")
	assert.Equal(t, dtypes.Int32, g.Shape(g.Outputs()[1]).DType, "the graph output is converted instead")
	assert.Equal(t, dtypes.Int32, g.Node(signed.Node).DType())

	g = graph.New("narrow_ranges")
	signed = g.Range(-5, 5, 1, dtypes.Int64)
	assert.False(t, fuseRange(g, g.Node(signed.Node), dtypes.Uint8, 0))
	assert.False(t, fuseRange(g, g.Node(signed.Node), dtypes.Int8, 0), "only Int32 is a supported target")
	assert.True(t, fuseRange(g, g.Node(signed.Node), dtypes.Int32, 0))
}

func TestFuseIndexOperations(t *testing.T) {
	g := graph.New("index_operations")
	x := g.Parameter("x", dtypes.Float32, 4, 10)
	values, indices := g.TopK(x, 3, 1, dtypes.Int64)
	boxes := g.Parameter("boxes", dtypes.Float32, 1, 10, 4)
	scores := g.Parameter("scores", dtypes.Float32, 1, 2, 10)
	selected, selectedScores := g.NonMaxSuppression(boxes, scores, 5, dtypes.Int64)
	buckets := g.Constant([]float32{0, 1, 2}, 3)
	bucketized := g.Bucketize(x, buckets, dtypes.Int64)
	require.NoError(t, g.SetOutputs(values, indices, selected, selectedScores, bucketized))

	require.True(t, must.M1(New(dtypes.Int64, dtypes.Int32).Run(g)))
	assert.Equal(t, 0, countOps(g, ops.OpTypeConvertDType))
	assert.Equal(t, dtypes.Float32, g.Shape(values).DType)
	assert.Equal(t, dtypes.Int32, g.Shape(indices).DType)
	assert.Equal(t, dtypes.Int32, g.Node(indices.Node).Attrs().(*graph.TopKAttrs).IndexDType)
	assert.Equal(t, dtypes.Int32, g.Shape(selected).DType)
	assert.Equal(t, dtypes.Float32, g.Shape(selectedScores).DType)
	assert.Equal(t, dtypes.Int32, g.Shape(bucketized).DType)

	// Index outputs can only be narrowed to Int32 (or Int64).
	g = graph.New("topk_int16")
	x = g.Parameter("x", dtypes.Float32, 10)
	_, indices = g.TopK(x, 3, 0, dtypes.Int64)
	require.NoError(t, g.SetOutputs(indices))
	require.True(t, must.M1(New(dtypes.Int64, dtypes.Int16).Run(g)))
	assert.Equal(t, dtypes.Int64, g.Node(indices.Node).OutputShape(1).DType)
	assert.Equal(t, 1, countOps(g, ops.OpTypeConvertDType))
	assert.False(t, fuseTopK(g, g.Node(indices.Node), dtypes.Int32, 0), "the values output is never changed")

	// Dimensions whose indices don't fit.
	g = graph.New("huge")
	x = g.Parameter("x", dtypes.Float32, 3_000_000_000)
	_, indices = g.TopK(x, 1, 0, dtypes.Int64)
	nonZero := g.NonZero(x, dtypes.Int64)
	assert.False(t, fuseTopK(g, g.Node(indices.Node), dtypes.Int32, 1))
	assert.False(t, fuseNonZero(g, g.Node(nonZero.Node), dtypes.Int32, 0))
	assert.True(t, fuseNonZero(g, g.Node(nonZero.Node), dtypes.Int64, 0))
}

func TestFuseBooleanOutputs(t *testing.T) {
	g := graph.New("booleans")
	x := g.Parameter("x", dtypes.Int32, 2, 3)
	positive := g.GreaterThan(x, g.Constant([]int32{0}))
	anyPositive := g.ReduceLogicalOr(positive, 1)
	require.NoError(t, g.SetOutputs(anyPositive))

	require.True(t, must.M1(New(dtypes.Bool, dtypes.Int32).Run(g)))
	assert.Equal(t, dtypes.Int32, g.Shape(positive).DType)
	assert.True(t, shapes.Make(dtypes.Int32, 2).Equal(g.Shape(anyPositive)))
	assert.False(t, fuseBooleanOutput(g, g.Node(positive.Node), dtypes.Int64, 0), "Int64 is not boolean-like")
	assert.False(t, fuseReduceLogical(g, g.Node(anyPositive.Node), dtypes.Uint16, 0))
}

func TestFuseTypeParametric(t *testing.T) {
	g := graph.New("type_parametric")
	x := g.Parameter("x", dtypes.Float16, 2)
	y := g.Parameter("y", dtypes.Float16, 2)
	negated := g.Neg(x)
	sum := g.Add(x, y)

	// Widen only x: Neg now infers Float32, but Add can't.
	require.True(t, fuseParameter(g, g.Node(x.Node), dtypes.Float32, 0))
	assert.Equal(t, dtypes.Float16, g.Shape(negated).DType, "not re-inferred yet")
	assert.True(t, fuseTypeParametric(g, g.Node(negated.Node), dtypes.Float32, 0))
	assert.Equal(t, dtypes.Float32, g.Shape(negated).DType)
	assert.False(t, fuseTypeParametric(g, g.Node(sum.Node), dtypes.Float32, 0))
	assert.Equal(t, dtypes.Float16, g.Shape(sum).DType)
	assert.False(t, fuseTypeParametric(g, g.Node(sum.Node), dtypes.Float64, 0))
}
