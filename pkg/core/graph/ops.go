// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/gomlx/precision/pkg/core/shapes"
	"github.com/pkg/errors"
)

// This file holds the graph building methods: they add one node and return its output(s),
// and panic (with an error) on misuse.

// addNode is like AddNode, but panics on error.
func (g *Graph) addNode(opType ops.OpType, attrs any, inputs ...Value) *Node {
	node, err := g.AddNode(opType, attrs, inputs...)
	if err != nil {
		panic(errors.WithMessagef(err, "graph %q", g.name))
	}
	return node
}

// Parameter adds an input to the graph with the given name and shape.
func (g *Graph) Parameter(name string, dtype dtypes.DType, dimensions ...int) Value {
	return g.addNode(ops.OpTypeParameter, &ParameterAttrs{Name: name, Shape: shapes.Make(dtype, dimensions...)}).Output(0)
}

// ParameterWithRange adds an input to the graph with the given name and shape, declaring that the values
// fed to it are within valueRange.
func (g *Graph) ParameterWithRange(name string, valueRange ValueRange, dtype dtypes.DType, dimensions ...int) Value {
	return g.addNode(ops.OpTypeParameter, &ParameterAttrs{
		Name:       name,
		Shape:      shapes.Make(dtype, dimensions...),
		ValueRange: &valueRange,
	}).Output(0)
}

// Constant adds a constant to the graph. flat must be a slice of a supported Go type (see dtypes.Supported),
// with as many elements as the given dimensions require (1 for a scalar).
func (g *Graph) Constant(flat any, dimensions ...int) Value {
	dtype, length := dtypes.FromFlat(flat)
	if dtype == dtypes.InvalidDType {
		exceptions.Panicf("Constant() requires a slice of a supported type, got %T", flat)
	}
	shape := shapes.Make(dtype, dimensions...)
	if shape.Size() != length {
		exceptions.Panicf("Constant() of shape %s requires %d values, got %d", shape, shape.Size(), length)
	}
	return g.addNode(ops.OpTypeConstant, &ConstantAttrs{Shape: shape, Flat: flat}).Output(0)
}

// ConvertDType converts x to the given dtype.
func (g *Graph) ConvertDType(x Value, dtype dtypes.DType) Value {
	return g.addNode(ops.OpTypeConvertDType, &DTypeAttrs{DType: dtype}, x).Output(0)
}

// Bitcast reinterprets the bits of x as dtype, which must have the same size.
func (g *Graph) Bitcast(x Value, dtype dtypes.DType) Value {
	return g.addNode(ops.OpTypeBitcast, &DTypeAttrs{DType: dtype}, x).Output(0)
}

// ShapeOf returns the dimensions of x as a vector of the given integer dtype.
func (g *Graph) ShapeOf(x Value, dtype dtypes.DType) Value {
	return g.addNode(ops.OpTypeShapeOf, &DTypeAttrs{DType: dtype}, x).Output(0)
}

// Range generates the values start, start+delta, ... up to limit (exclusive).
func (g *Graph) Range(start, limit, delta float64, dtype dtypes.DType) Value {
	return g.addNode(ops.OpTypeRange, &RangeAttrs{Start: start, Limit: limit, Delta: delta, DType: dtype}).Output(0)
}

// TopK returns the k largest values of x along the axis, and their indices, of dtype indexDType.
func (g *Graph) TopK(x Value, k, axis int, indexDType dtypes.DType) (values, indices Value) {
	node := g.addNode(ops.OpTypeTopK, &TopKAttrs{K: k, Axis: axis, IndexDType: indexDType}, x)
	return node.Output(0), node.Output(1)
}

// NonMaxSuppression selects boxes (shaped [batch, numBoxes, 4]) by their scores (shaped [batch, numClasses, numBoxes]).
// It returns the selected indices (of dtype indexDType) and their scores, both shaped [numSelected, 3].
func (g *Graph) NonMaxSuppression(boxes, scores Value, maxOutputBoxes int, indexDType dtypes.DType) (indices, selectedScores Value) {
	node := g.addNode(ops.OpTypeNonMaxSuppression,
		&NonMaxSuppressionAttrs{MaxOutputBoxes: maxOutputBoxes, IndexDType: indexDType}, boxes, scores)
	return node.Output(0), node.Output(1)
}

// NonZero returns the indices of the non-zero elements of x, shaped [rank, size].
func (g *Graph) NonZero(x Value, dtype dtypes.DType) Value {
	return g.addNode(ops.OpTypeNonZero, &DTypeAttrs{DType: dtype}, x).Output(0)
}

// Bucketize returns, for each element of x, the index of the bucket it falls into, given the sorted
// bucket boundaries.
func (g *Graph) Bucketize(x, buckets Value, dtype dtypes.DType) Value {
	return g.addNode(ops.OpTypeBucketize, &DTypeAttrs{DType: dtype}, x, buckets).Output(0)
}

// LogicalAnd returns the element-wise "and" of two boolean-like values, as a Bool.
func (g *Graph) LogicalAnd(lhs, rhs Value) Value {
	return g.addNode(ops.OpTypeLogicalAnd, &DTypeAttrs{DType: dtypes.Bool}, lhs, rhs).Output(0)
}

// LogicalOr returns the element-wise "or" of two boolean-like values, as a Bool.
func (g *Graph) LogicalOr(lhs, rhs Value) Value {
	return g.addNode(ops.OpTypeLogicalOr, &DTypeAttrs{DType: dtypes.Bool}, lhs, rhs).Output(0)
}

// LogicalXor returns the element-wise "xor" of two boolean-like values, as a Bool.
func (g *Graph) LogicalXor(lhs, rhs Value) Value {
	return g.addNode(ops.OpTypeLogicalXor, &DTypeAttrs{DType: dtypes.Bool}, lhs, rhs).Output(0)
}

// LogicalNot returns the element-wise negation of a boolean-like value, as a Bool.
func (g *Graph) LogicalNot(x Value) Value {
	return g.addNode(ops.OpTypeLogicalNot, &DTypeAttrs{DType: dtypes.Bool}, x).Output(0)
}

// ReduceLogicalAnd reduces x over the given axes (all if none given) with "and".
func (g *Graph) ReduceLogicalAnd(x Value, axes ...int) Value {
	axes = g.allAxesIfEmpty(x, axes)
	return g.addNode(ops.OpTypeReduceLogicalAnd, &ReduceLogicalAttrs{Axes: axes, DType: dtypes.Bool}, x).Output(0)
}

// ReduceLogicalOr reduces x over the given axes (all if none given) with "or".
func (g *Graph) ReduceLogicalOr(x Value, axes ...int) Value {
	axes = g.allAxesIfEmpty(x, axes)
	return g.addNode(ops.OpTypeReduceLogicalOr, &ReduceLogicalAttrs{Axes: axes, DType: dtypes.Bool}, x).Output(0)
}

func (g *Graph) allAxesIfEmpty(x Value, axes []int) []int {
	if len(axes) > 0 {
		return slices.Clone(axes)
	}
	rank := g.Shape(x).Rank()
	axes = make([]int, rank)
	for axis := range rank {
		axes[axis] = axis
	}
	return axes
}

func (g *Graph) comparison(opType ops.OpType, lhs, rhs Value) Value {
	return g.addNode(opType, &DTypeAttrs{DType: dtypes.Bool}, lhs, rhs).Output(0)
}

// Equal returns the element-wise lhs == rhs, as a Bool.
func (g *Graph) Equal(lhs, rhs Value) Value { return g.comparison(ops.OpTypeEqual, lhs, rhs) }

// NotEqual returns the element-wise lhs != rhs, as a Bool.
func (g *Graph) NotEqual(lhs, rhs Value) Value { return g.comparison(ops.OpTypeNotEqual, lhs, rhs) }

// GreaterThan returns the element-wise lhs > rhs, as a Bool.
func (g *Graph) GreaterThan(lhs, rhs Value) Value { return g.comparison(ops.OpTypeGreaterThan, lhs, rhs) }

// GreaterOrEqual returns the element-wise lhs >= rhs, as a Bool.
func (g *Graph) GreaterOrEqual(lhs, rhs Value) Value {
	return g.comparison(ops.OpTypeGreaterOrEqual, lhs, rhs)
}

// LessThan returns the element-wise lhs < rhs, as a Bool.
func (g *Graph) LessThan(lhs, rhs Value) Value { return g.comparison(ops.OpTypeLessThan, lhs, rhs) }

// LessOrEqual returns the element-wise lhs <= rhs, as a Bool.
func (g *Graph) LessOrEqual(lhs, rhs Value) Value { return g.comparison(ops.OpTypeLessOrEqual, lhs, rhs) }

// Add returns the element-wise lhs + rhs, with broadcasting.
func (g *Graph) Add(lhs, rhs Value) Value { return g.addNode(ops.OpTypeAdd, nil, lhs, rhs).Output(0) }

// Sub returns the element-wise lhs - rhs, with broadcasting.
func (g *Graph) Sub(lhs, rhs Value) Value { return g.addNode(ops.OpTypeSub, nil, lhs, rhs).Output(0) }

// Mul returns the element-wise lhs * rhs, with broadcasting.
func (g *Graph) Mul(lhs, rhs Value) Value { return g.addNode(ops.OpTypeMul, nil, lhs, rhs).Output(0) }

// Div returns the element-wise lhs / rhs, with broadcasting.
func (g *Graph) Div(lhs, rhs Value) Value { return g.addNode(ops.OpTypeDiv, nil, lhs, rhs).Output(0) }

// Max returns the element-wise maximum of lhs and rhs.
func (g *Graph) Max(lhs, rhs Value) Value { return g.addNode(ops.OpTypeMax, nil, lhs, rhs).Output(0) }

// Min returns the element-wise minimum of lhs and rhs.
func (g *Graph) Min(lhs, rhs Value) Value { return g.addNode(ops.OpTypeMin, nil, lhs, rhs).Output(0) }

// Neg returns -x.
func (g *Graph) Neg(x Value) Value { return g.addNode(ops.OpTypeNeg, nil, x).Output(0) }

// Abs returns the absolute value of x.
func (g *Graph) Abs(x Value) Value { return g.addNode(ops.OpTypeAbs, nil, x).Output(0) }

// Exp returns e^x.
func (g *Graph) Exp(x Value) Value { return g.addNode(ops.OpTypeExp, nil, x).Output(0) }

// Identity returns x unchanged.
func (g *Graph) Identity(x Value) Value { return g.addNode(ops.OpTypeIdentity, nil, x).Output(0) }

// Reshape x to the given dimensions, which must have the same size.
func (g *Graph) Reshape(x Value, dimensions ...int) Value {
	return g.addNode(ops.OpTypeReshape, &ReshapeAttrs{Dimensions: slices.Clone(dimensions)}, x).Output(0)
}

// Concatenate values along the given axis.
func (g *Graph) Concatenate(axis int, values ...Value) Value {
	return g.addNode(ops.OpTypeConcatenate, &AxisAttrs{Axis: axis}, values...).Output(0)
}

// ReduceSum reduces x over the given axes (all if none given) with a sum.
func (g *Graph) ReduceSum(x Value, axes ...int) Value {
	return g.addNode(ops.OpTypeReduceSum, &ReduceAttrs{Axes: g.allAxesIfEmpty(x, axes)}, x).Output(0)
}

// ReduceMax reduces x over the given axes (all if none given) with max.
func (g *Graph) ReduceMax(x Value, axes ...int) Value {
	return g.addNode(ops.OpTypeReduceMax, &ReduceAttrs{Axes: g.allAxesIfEmpty(x, axes)}, x).Output(0)
}

// Gather slices of x along axis, at the positions given by the integer indices.
func (g *Graph) Gather(x, indices Value, axis int) Value {
	return g.addNode(ops.OpTypeGather, &AxisAttrs{Axis: axis}, x, indices).Output(0)
}

// Where selects element-wise from onTrue or onFalse, according to the boolean-like condition.
func (g *Graph) Where(condition, onTrue, onFalse Value) Value {
	return g.addNode(ops.OpTypeWhere, nil, condition, onTrue, onFalse).Output(0)
}

// Custom adds an opaque operation named name, with the declared output shapes.
// It returns one value per output.
func (g *Graph) Custom(name string, outputShapes []shapes.Shape, inputs ...Value) []Value {
	node := g.addNode(ops.OpTypeCustom, &CustomAttrs{Name: name, OutputShapes: slices.Clone(outputShapes)}, inputs...)
	values := make([]Value, node.NumOutputs())
	for ii := range values {
		values[ii] = node.Output(ii)
	}
	return values
}
