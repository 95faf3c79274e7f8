// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/gomlx/precision/pkg/core/shapeinference"
	"github.com/gomlx/precision/pkg/core/shapes"
	"github.com/pkg/errors"
)

// InferNode re-infers the output shapes of the node from the current shapes of its inputs and its attributes.
//
// The number of outputs of a node cannot change.
func (g *Graph) InferNode(id NodeId) error {
	node := g.Node(id)
	if node == nil {
		return errors.Errorf("InferNode(#%d): node doesn't exist in graph %q", id, g.name)
	}
	outputShapes, err := g.InferOutputShapes(id)
	if err != nil {
		return err
	}
	if len(outputShapes) != len(node.outputShapes) {
		return errors.Errorf("InferNode(#%d): %s changed its number of outputs from %d to %d",
			id, node.opType, len(node.outputShapes), len(outputShapes))
	}
	node.outputShapes = outputShapes
	return nil
}

// InferOutputShapes returns the output shapes the node would have given the current shapes of its inputs
// and its attributes, without changing the node.
func (g *Graph) InferOutputShapes(id NodeId) ([]shapes.Shape, error) {
	node := g.Node(id)
	if node == nil {
		return nil, errors.Errorf("InferOutputShapes(#%d): node doesn't exist in graph %q", id, g.name)
	}
	for ii, input := range node.inputs {
		if err := g.checkValue(input); err != nil {
			return nil, errors.WithMessagef(err, "InferOutputShapes(#%d): input #%d", id, ii)
		}
	}
	outputShapes, err := g.inferOutputShapes(node)
	if err != nil {
		return nil, errors.WithMessagef(err, "InferOutputShapes(#%d)", id)
	}
	return outputShapes, nil
}

// InferShapes re-infers the output shapes of every node of the graph, in topological order.
//
// It returns an error if the graph has a cycle, or if any node is inconsistent with its inputs.
func (g *Graph) InferShapes() error {
	order, err := g.TopologicalOrder()
	if err != nil {
		return err
	}
	for _, id := range order {
		if err := g.InferNode(id); err != nil {
			return errors.WithMessagef(err, "InferShapes() of graph %q", g.name)
		}
	}
	return nil
}

// attrsAs casts the attributes of the node to T, or returns an error.
func attrsAs[T any](node *Node) (attrs T, err error) {
	var ok bool
	attrs, ok = node.attrs.(T)
	if !ok {
		err = errors.Errorf("%s requires attributes of type %T, got %T", node.opType, attrs, node.attrs)
	}
	return
}

// inferOutputShapes dispatches to the shapeinference function corresponding to the node operation type.
func (g *Graph) inferOutputShapes(node *Node) ([]shapes.Shape, error) {
	inputs := make([]shapes.Shape, len(node.inputs))
	for ii, input := range node.inputs {
		inputs[ii] = g.Shape(input)
	}
	single := func(shape shapes.Shape, err error) ([]shapes.Shape, error) {
		if err != nil {
			return nil, err
		}
		return []shapes.Shape{shape}, nil
	}
	pair := func(first, second shapes.Shape, err error) ([]shapes.Shape, error) {
		if err != nil {
			return nil, err
		}
		return []shapes.Shape{first, second}, nil
	}

	opType := node.opType
	switch {
	case opType == ops.OpTypeParameter:
		attrs, err := attrsAs[*ParameterAttrs](node)
		if err != nil {
			return nil, err
		}
		if !attrs.Shape.Ok() {
			return nil, errors.Errorf("Parameter %q has an invalid shape %s", attrs.Name, attrs.Shape)
		}
		if attrs.ValueRange != nil && attrs.ValueRange.Min > attrs.ValueRange.Max {
			return nil, errors.Errorf("Parameter %q has an invalid value range [%g, %g]", attrs.Name, attrs.ValueRange.Min, attrs.ValueRange.Max)
		}
		return []shapes.Shape{attrs.Shape.Clone()}, nil

	case opType == ops.OpTypeConstant:
		attrs, err := attrsAs[*ConstantAttrs](node)
		if err != nil {
			return nil, err
		}
		dtype, length := dtypes.FromFlat(attrs.Flat)
		if dtype != attrs.Shape.DType || length != attrs.Shape.Size() {
			return nil, errors.Errorf("Constant of shape %s has a payload of %d elements of %s", attrs.Shape, length, dtype)
		}
		return []shapes.Shape{attrs.Shape.Clone()}, nil

	case shapeinference.StandardUnaryOperations.Has(opType):
		return single(shapeinference.UnaryOp(opType, inputs[0]))

	case shapeinference.StandardBinaryOperations.Has(opType):
		return single(shapeinference.BinaryOp(opType, inputs[0], inputs[1]))

	case shapeinference.LogicalOperations.Has(opType):
		attrs, err := attrsAs[*DTypeAttrs](node)
		if err != nil {
			return nil, err
		}
		return single(shapeinference.LogicalOp(opType, attrs.DType, inputs...))

	case shapeinference.ComparisonOperations.Has(opType):
		attrs, err := attrsAs[*DTypeAttrs](node)
		if err != nil {
			return nil, err
		}
		return single(shapeinference.ComparisonOp(opType, inputs[0], inputs[1], attrs.DType))

	case opType == ops.OpTypeReduceLogicalAnd || opType == ops.OpTypeReduceLogicalOr:
		attrs, err := attrsAs[*ReduceLogicalAttrs](node)
		if err != nil {
			return nil, err
		}
		return single(shapeinference.ReduceLogicalOp(inputs[0], attrs.Axes, attrs.DType))
	}

	switch opType {
	case ops.OpTypeConvertDType, ops.OpTypeBitcast, ops.OpTypeShapeOf, ops.OpTypeNonZero, ops.OpTypeBucketize:
		attrs, err := attrsAs[*DTypeAttrs](node)
		if err != nil {
			return nil, err
		}
		switch opType {
		case ops.OpTypeConvertDType:
			return single(shapeinference.ConvertDTypeOp(inputs[0], attrs.DType))
		case ops.OpTypeBitcast:
			return single(shapeinference.BitcastOp(inputs[0], attrs.DType))
		case ops.OpTypeShapeOf:
			return single(shapeinference.ShapeOfOp(inputs[0], attrs.DType))
		case ops.OpTypeNonZero:
			return single(shapeinference.NonZeroOp(inputs[0], attrs.DType))
		default:
			return single(shapeinference.BucketizeOp(inputs[0], inputs[1], attrs.DType))
		}

	case ops.OpTypeRange:
		attrs, err := attrsAs[*RangeAttrs](node)
		if err != nil {
			return nil, err
		}
		return single(shapeinference.RangeOp(attrs.Start, attrs.Limit, attrs.Delta, attrs.DType))

	case ops.OpTypeTopK:
		attrs, err := attrsAs[*TopKAttrs](node)
		if err != nil {
			return nil, err
		}
		return pair(shapeinference.TopKOp(inputs[0], attrs.K, attrs.Axis, attrs.IndexDType))

	case ops.OpTypeNonMaxSuppression:
		attrs, err := attrsAs[*NonMaxSuppressionAttrs](node)
		if err != nil {
			return nil, err
		}
		return pair(shapeinference.NonMaxSuppressionOp(inputs[0], inputs[1], attrs.MaxOutputBoxes, attrs.IndexDType))

	case ops.OpTypeReshape:
		attrs, err := attrsAs[*ReshapeAttrs](node)
		if err != nil {
			return nil, err
		}
		return single(shapeinference.ReshapeOp(inputs[0], attrs.Dimensions))

	case ops.OpTypeConcatenate:
		attrs, err := attrsAs[*AxisAttrs](node)
		if err != nil {
			return nil, err
		}
		return single(shapeinference.ConcatenateOp(inputs, attrs.Axis))

	case ops.OpTypeReduceSum, ops.OpTypeReduceMax:
		attrs, err := attrsAs[*ReduceAttrs](node)
		if err != nil {
			return nil, err
		}
		return single(shapeinference.ReduceOp(inputs[0], attrs.Axes))

	case ops.OpTypeGather:
		attrs, err := attrsAs[*AxisAttrs](node)
		if err != nil {
			return nil, err
		}
		return single(shapeinference.GatherOp(inputs[0], inputs[1], attrs.Axis))

	case ops.OpTypeWhere:
		return single(shapeinference.WhereOp(inputs[0], inputs[1], inputs[2]))

	case ops.OpTypeCustom:
		attrs, err := attrsAs[*CustomAttrs](node)
		if err != nil {
			return nil, err
		}
		if len(attrs.OutputShapes) == 0 {
			return nil, errors.Errorf("Custom operation %q must declare at least one output", attrs.Name)
		}
		outputShapes := make([]shapes.Shape, len(attrs.OutputShapes))
		for ii, shape := range attrs.OutputShapes {
			if !shape.Ok() {
				return nil, errors.Errorf("Custom operation %q declares an invalid shape for output #%d", attrs.Name, ii)
			}
			outputShapes[ii] = shape.Clone()
		}
		return outputShapes, nil
	}
	return nil, errors.Errorf("shape inference for %s not implemented", opType)
}
