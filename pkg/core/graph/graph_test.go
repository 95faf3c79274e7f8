// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/gomlx/precision/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphBuilding(t *testing.T) {
	g := New("test")
	x := g.Parameter("x", dtypes.Int64, 2, 3)
	c := g.Constant([]int64{1})
	sum := g.Add(x, c)
	values, indices := g.TopK(sum, 2, 1, dtypes.Int64)
	require.NoError(t, g.SetOutputs(values, indices))

	assert.Equal(t, 4, g.NumNodes())
	assert.Equal(t, ops.OpTypeAdd, g.Node(sum.Node).OpType())
	assert.True(t, shapes.Make(dtypes.Int64, 2, 2).Equal(g.Shape(indices)))
	assert.Equal(t, 2, g.Node(values.Node).NumOutputs())
	assert.Nil(t, g.Node(100))
	assert.False(t, g.Shape(Value{Node: 3, Output: 2}).Ok())

	want := `Graph "test": 4 nodes, 2 outputs
	#0	Parameter{name="x"}() -> (Int64)[2 3]
	#1	Constant{8 B}() -> (Int64)
	#2	Add(#0, #1) -> (Int64)[2 3]
	#3	TopK{k=2, axis=1, indices=Int64}(#2) -> (Int64)[2 2], (Int64)[2 2]
	outputs: #3, #3:1
`
	assert.Equal(t, want, g.String())
	require.NoError(t, g.Validate())
	assert.Equal(t, []NodeId{0, 1, 2, 3}, must.M1(g.TopologicalOrder()))
}

func TestGraphBuildingMisuse(t *testing.T) {
	g := New("misuse")
	x := g.Parameter("x", dtypes.Float32, 2, 3)
	y := g.Parameter("y", dtypes.Float16, 2, 3)
	require.Error(t, exceptions.TryCatch[error](func() { g.Add(x, y) }))
	require.Error(t, exceptions.TryCatch[error](func() { g.Constant([]string{"a"}) }))
	require.Error(t, exceptions.TryCatch[error](func() { g.Constant([]int32{1, 2}, 3) }))
	require.Error(t, exceptions.TryCatch[error](func() { g.Parameter("z", dtypes.Float32, 0) }))
	require.Error(t, exceptions.TryCatch[error](func() { g.LogicalAnd(x, x) }))

	_, err := g.AddNode(ops.OpTypeAdd, nil, x)
	require.Error(t, err)
	_, err = g.AddNode(ops.OpTypeAdd, nil, x, Value{Node: 7})
	require.Error(t, err)
	_, err = g.AddNode(ops.OpTypeConvertDType, nil, x)
	require.Error(t, err, "missing attributes")
	_, err = g.AddNode(ops.OpTypeInvalid, nil)
	require.Error(t, err)
	assert.Equal(t, 2, g.NumNodes(), "failed AddNode calls must not add nodes")
}

func TestRewiring(t *testing.T) {
	g := New("rewiring")
	x := g.Parameter("x", dtypes.Int64, 4)
	y := g.Neg(x)
	z := g.Mul(x, x)
	w := g.Add(y, z)
	require.NoError(t, g.SetOutputs(w))
	assert.Equal(t, []Input{{Node: y.Node, Index: 0}, {Node: z.Node, Index: 0}, {Node: z.Node, Index: 1}}, g.Consumers(x))

	// Rewire z to read from a conversion of x appended at the end.
	converted := g.ConvertDType(x, dtypes.Int32)
	require.NoError(t, g.SetInput(Input{Node: z.Node, Index: 0}, converted))
	require.NoError(t, g.SetInput(Input{Node: z.Node, Index: 1}, converted))
	assert.Equal(t, []NodeId{0, 1, 4, 2, 3}, must.M1(g.TopologicalOrder()))

	// Shapes are only updated after inference, and then Add fails since the dtypes don't match.
	assert.Equal(t, dtypes.Int64, g.Shape(z).DType)
	require.NoError(t, g.InferNode(z.Node))
	assert.Equal(t, dtypes.Int32, g.Shape(z).DType)
	require.Error(t, g.InferShapes())

	require.Error(t, g.SetInput(Input{Node: z.Node, Index: 2}, x))
	require.Error(t, g.SetInput(Input{Node: 100, Index: 0}, x))
	require.Error(t, g.SetInput(Input{Node: z.Node, Index: 0}, Value{Node: x.Node, Output: 1}))
	require.Error(t, g.SetOutput(1, x))
	require.NoError(t, g.SetOutput(0, converted))
	assert.Equal(t, []Value{converted}, g.Outputs())
}

func TestValidateCycle(t *testing.T) {
	g := New("cycle")
	x := g.Parameter("x", dtypes.Float32, 4)
	y := g.Neg(x)
	z := g.Abs(y)
	require.NoError(t, g.Validate())
	require.NoError(t, g.SetInput(Input{Node: y.Node, Index: 0}, z))
	_, err := g.TopologicalOrder()
	require.Error(t, err)
	require.Error(t, g.Validate())
	require.Error(t, g.InferShapes())
}

func TestRTInfo(t *testing.T) {
	g := New("rtinfo")
	x := g.Parameter("x", dtypes.Float32, 4)
	y := g.Exp(x)
	assert.Nil(t, g.NodeRTInfo(y.Node))

	g.SetNodeRTInfo(x.Node, "origin", "input_layer")
	g.SetNodeRTInfo(y.Node, "fused", true)
	assert.Equal(t, RTInfo{"origin": "input_layer"}, g.NodeRTInfo(x.Node))
	assert.Equal(t, RTInfo{"fused": true}, g.NodeRTInfo(y.Node))

	assert.Empty(t, g.RTInfo())
	g.RTInfo()["version"] = 2
	assert.Equal(t, RTInfo{"version": 2}, g.RTInfo())

	in := Input{Node: y.Node, Index: 0}
	g.SetInputRTInfo(in, "tag", 7)
	require.NoError(t, g.SetInput(in, g.Abs(x)))
	assert.Equal(t, RTInfo{"tag": 7}, g.InputRTInfo(in), "input metadata survives rewiring")
}

func TestIndexOperations(t *testing.T) {
	g := New("indices")
	boxes := g.Parameter("boxes", dtypes.Float32, 1, 6, 4)
	scores := g.Parameter("scores", dtypes.Float32, 1, 2, 6)
	selected, selectedScores := g.NonMaxSuppression(boxes, scores, 3, dtypes.Int64)
	assert.True(t, shapes.Make(dtypes.Int64, 6, 3).Equal(g.Shape(selected)))
	assert.True(t, shapes.Make(dtypes.Float32, 6, 3).Equal(g.Shape(selectedScores)))

	nonZero := g.NonZero(scores, dtypes.Int64)
	assert.True(t, shapes.Make(dtypes.Int64, 3, 12).Equal(g.Shape(nonZero)))
	buckets := g.Bucketize(scores, g.Constant([]float32{0.25, 0.5, 0.75}, 3), dtypes.Int32)
	assert.True(t, shapes.Make(dtypes.Int32, 1, 2, 6).Equal(g.Shape(buckets)))
	gathered := g.Gather(boxes, g.Range(0, 3, 1, dtypes.Int64), 1)
	assert.True(t, shapes.Make(dtypes.Float32, 1, 3, 4).Equal(g.Shape(gathered)))
	shapeOf := g.ShapeOf(boxes, dtypes.Int64)
	assert.True(t, shapes.Make(dtypes.Int64, 3).Equal(g.Shape(shapeOf)))
	reduced := g.ReduceLogicalOr(g.GreaterThan(scores, g.Constant([]float32{0.5})))
	assert.True(t, shapes.Make(dtypes.Bool).Equal(g.Shape(reduced)))

	outputs := g.Custom("my_op", []shapes.Shape{shapes.Make(dtypes.Uint8, 2), shapes.Make(dtypes.Float16)}, boxes)
	require.Len(t, outputs, 2)
	assert.Equal(t, dtypes.Float16, g.Shape(outputs[1]).DType)
	require.NoError(t, g.Validate())
	require.NoError(t, g.InferShapes())
}
