// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/graph"
	"github.com/gomlx/precision/pkg/core/shapeinference"
)

// Built-in fuse functions: each one checks all its conditions before changing anything.

func fuseParameter(_ *graph.Graph, node *graph.Node, to dtypes.DType, _ int) bool {
	attrs, ok := node.Attrs().(*graph.ParameterAttrs)
	if !ok {
		return false
	}
	from := attrs.Shape.DType
	switch {
	case isNarrowingPair(from, to):
		if r := attrs.ValueRange; r != nil && !(to.ContainsFloat(r.Min) && to.ContainsFloat(r.Max)) {
			return false
		}
	case isHalfPair(from, to):
	default:
		return false
	}
	attrs.Shape = attrs.Shape.WithDType(to)
	node.SetOutputShape(0, attrs.Shape.Clone())
	return true
}

func fuseConstant(_ *graph.Graph, node *graph.Node, to dtypes.DType, _ int) bool {
	attrs, ok := node.Attrs().(*graph.ConstantAttrs)
	if !ok {
		return false
	}
	from := attrs.Shape.DType
	var flat any
	switch {
	case isNarrowingPair(from, to):
		flat, ok = convertIntegerPayload(attrs.Flat, to)
	case isHalfPair(from, to):
		flat, ok = widenFloat16Payload(attrs.Flat)
	default:
		ok = false
	}
	if !ok {
		return false
	}
	attrs.Flat = flat
	attrs.Shape = attrs.Shape.WithDType(to)
	node.SetOutputShape(0, attrs.Shape.Clone())
	return true
}

func fuseConvertDType(_ *graph.Graph, node *graph.Node, to dtypes.DType, _ int) bool {
	attrs, ok := node.Attrs().(*graph.DTypeAttrs)
	if !ok || !(isNarrowingPair(attrs.DType, to) || isHalfPair(attrs.DType, to)) {
		return false
	}
	attrs.DType = to
	node.SetOutputShape(0, node.OutputShape(0).WithDType(to))
	return true
}

func fuseShapeOf(g *graph.Graph, node *graph.Node, to dtypes.DType, _ int) bool {
	attrs, ok := node.Attrs().(*graph.DTypeAttrs)
	if !ok || !isNarrowingPair(attrs.DType, to) {
		return false
	}
	operand := g.Shape(node.Input(0))
	if !to.ContainsInt(int64(operand.Rank())) {
		return false
	}
	for _, dim := range operand.Dimensions {
		if !to.ContainsInt(int64(dim)) {
			return false
		}
	}
	attrs.DType = to
	node.SetOutputShape(0, node.OutputShape(0).WithDType(to))
	return true
}

func fuseRange(_ *graph.Graph, node *graph.Node, to dtypes.DType, _ int) bool {
	attrs, ok := node.Attrs().(*graph.RangeAttrs)
	if !ok {
		return false
	}
	switch {
	case isNarrowingPair(attrs.DType, to):
		length := shapeinference.RangeLength(attrs.Start, attrs.Limit, attrs.Delta)
		last := attrs.Start + float64(length-1)*attrs.Delta
		if !to.ContainsFloat(attrs.Start) || !to.ContainsFloat(last) {
			return false
		}
	case isHalfPair(attrs.DType, to):
	default:
		return false
	}
	attrs.DType = to
	node.SetOutputShape(0, node.OutputShape(0).WithDType(to))
	return true
}

// fitsIndices returns whether all indices into an axis of dimension dim are representable in dtype.
func fitsIndices(dtype dtypes.DType, dim int) bool {
	return dtype.ContainsInt(int64(dim) - 1)
}

// fuseTopK only changes the indices output (#1): the values output keeps the operand dtype.
func fuseTopK(g *graph.Graph, node *graph.Node, to dtypes.DType, outputIdx int) bool {
	attrs, ok := node.Attrs().(*graph.TopKAttrs)
	if !ok || outputIdx != 1 || !isIndexDType(to) || !isIntegralPair(attrs.IndexDType, to) {
		return false
	}
	operand := g.Shape(node.Input(0))
	if attrs.Axis < 0 || attrs.Axis >= operand.Rank() || !fitsIndices(to, operand.Dimensions[attrs.Axis]) {
		return false
	}
	attrs.IndexDType = to
	node.SetOutputShape(1, node.OutputShape(1).WithDType(to))
	return true
}

// fuseNonMaxSuppression only changes the selected indices output (#0): each selected index is a triplet
// (batch, class, box).
func fuseNonMaxSuppression(g *graph.Graph, node *graph.Node, to dtypes.DType, outputIdx int) bool {
	attrs, ok := node.Attrs().(*graph.NonMaxSuppressionAttrs)
	if !ok || outputIdx != 0 || !isIndexDType(to) || !isIntegralPair(attrs.IndexDType, to) {
		return false
	}
	scores := g.Shape(node.Input(1))
	for _, dim := range scores.Dimensions {
		if !fitsIndices(to, dim) {
			return false
		}
	}
	attrs.IndexDType = to
	node.SetOutputShape(0, node.OutputShape(0).WithDType(to))
	return true
}

func fuseNonZero(g *graph.Graph, node *graph.Node, to dtypes.DType, _ int) bool {
	attrs, ok := node.Attrs().(*graph.DTypeAttrs)
	if !ok || !isIndexDType(to) || !isIntegralPair(attrs.DType, to) {
		return false
	}
	for _, dim := range g.Shape(node.Input(0)).Dimensions {
		if !fitsIndices(to, dim) {
			return false
		}
	}
	attrs.DType = to
	node.SetOutputShape(0, node.OutputShape(0).WithDType(to))
	return true
}

func fuseBucketize(g *graph.Graph, node *graph.Node, to dtypes.DType, _ int) bool {
	attrs, ok := node.Attrs().(*graph.DTypeAttrs)
	if !ok || !isIndexDType(to) || !isIntegralPair(attrs.DType, to) {
		return false
	}
	// Bucket indices go from 0 to the number of boundaries, inclusive.
	numBuckets := g.Shape(node.Input(1)).Size()
	if !to.ContainsInt(int64(numBuckets)) {
		return false
	}
	attrs.DType = to
	node.SetOutputShape(0, node.OutputShape(0).WithDType(to))
	return true
}

// fuseBooleanOutput is used by logical and comparison operations: their 0/1 results are simply retagged.
func fuseBooleanOutput(_ *graph.Graph, node *graph.Node, to dtypes.DType, _ int) bool {
	attrs, ok := node.Attrs().(*graph.DTypeAttrs)
	if !ok || !isBoolPair(attrs.DType, to) {
		return false
	}
	attrs.DType = to
	node.SetOutputShape(0, node.OutputShape(0).WithDType(to))
	return true
}

func fuseReduceLogical(_ *graph.Graph, node *graph.Node, to dtypes.DType, _ int) bool {
	attrs, ok := node.Attrs().(*graph.ReduceLogicalAttrs)
	if !ok || !isBoolPair(attrs.DType, to) {
		return false
	}
	attrs.DType = to
	node.SetOutputShape(0, node.OutputShape(0).WithDType(to))
	return true
}

// fuseTypeParametric accepts the change if, given the current dtype of its inputs, the node already
// infers the output as to: that is the case once its Float16 inputs were widened.
func fuseTypeParametric(g *graph.Graph, node *graph.Node, to dtypes.DType, outputIdx int) bool {
	if !isHalfPair(node.OutputShape(outputIdx).DType, to) {
		return false
	}
	outputShapes, err := g.InferOutputShapes(node.Id())
	if err != nil || outputShapes[outputIdx].DType != to {
		return false
	}
	node.SetOutputShape(outputIdx, outputShapes[outputIdx])
	return true
}
