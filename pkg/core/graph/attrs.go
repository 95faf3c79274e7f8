// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/shapes"
)

// ValueRange is an optional declaration of the minimum and maximum values a Parameter may hold.
type ValueRange struct {
	Min, Max float64
}

// ParameterAttrs are the attributes of ops.OpTypeParameter.
type ParameterAttrs struct {
	Name  string
	Shape shapes.Shape

	// ValueRange, if set, is the declared range of the values fed to the parameter.
	ValueRange *ValueRange
}

func (a *ParameterAttrs) String() string {
	if a.ValueRange == nil {
		return fmt.Sprintf("name=%q", a.Name)
	}
	return fmt.Sprintf("name=%q, range=[%g, %g]", a.Name, a.ValueRange.Min, a.ValueRange.Max)
}

// ConstantAttrs are the attributes of ops.OpTypeConstant.
type ConstantAttrs struct {
	Shape shapes.Shape

	// Flat holds the values of the constant as a slice of the Go type corresponding to Shape.DType
	// (e.g.: []int64 for dtypes.Int64), in row-major order.
	Flat any
}

func (a *ConstantAttrs) String() string {
	return humanize.Bytes(uint64(a.Shape.Memory()))
}

// DTypeAttrs are the attributes of operations whose only parameter is their output dtype:
// ops.OpTypeConvertDType, ops.OpTypeBitcast, ops.OpTypeShapeOf, ops.OpTypeNonZero, ops.OpTypeBucketize,
// the logical operations and the comparison operations.
type DTypeAttrs struct {
	DType dtypes.DType
}

func (a *DTypeAttrs) String() string {
	return fmt.Sprintf("dtype=%s", a.DType)
}

// RangeAttrs are the attributes of ops.OpTypeRange: it generates the values start, start+delta, ...
// up to limit (exclusive).
type RangeAttrs struct {
	Start, Limit, Delta float64
	DType               dtypes.DType
}

func (a *RangeAttrs) String() string {
	return fmt.Sprintf("start=%g, limit=%g, delta=%g, dtype=%s", a.Start, a.Limit, a.Delta, a.DType)
}

// TopKAttrs are the attributes of ops.OpTypeTopK.
type TopKAttrs struct {
	K, Axis    int
	IndexDType dtypes.DType
}

func (a *TopKAttrs) String() string {
	return fmt.Sprintf("k=%d, axis=%d, indices=%s", a.K, a.Axis, a.IndexDType)
}

// NonMaxSuppressionAttrs are the attributes of ops.OpTypeNonMaxSuppression.
type NonMaxSuppressionAttrs struct {
	MaxOutputBoxes int
	IndexDType     dtypes.DType
}

func (a *NonMaxSuppressionAttrs) String() string {
	return fmt.Sprintf("max_boxes=%d, indices=%s", a.MaxOutputBoxes, a.IndexDType)
}

// ReshapeAttrs are the attributes of ops.OpTypeReshape.
type ReshapeAttrs struct {
	Dimensions []int
}

func (a *ReshapeAttrs) String() string {
	return fmt.Sprintf("dims=%v", a.Dimensions)
}

// AxisAttrs are the attributes of ops.OpTypeConcatenate and ops.OpTypeGather.
type AxisAttrs struct {
	Axis int
}

func (a *AxisAttrs) String() string {
	return fmt.Sprintf("axis=%d", a.Axis)
}

// ReduceAttrs are the attributes of ops.OpTypeReduceSum and ops.OpTypeReduceMax.
type ReduceAttrs struct {
	Axes []int
}

func (a *ReduceAttrs) String() string {
	return fmt.Sprintf("axes=%v", a.Axes)
}

// ReduceLogicalAttrs are the attributes of ops.OpTypeReduceLogicalAnd and ops.OpTypeReduceLogicalOr.
type ReduceLogicalAttrs struct {
	Axes  []int
	DType dtypes.DType
}

func (a *ReduceLogicalAttrs) String() string {
	return fmt.Sprintf("axes=%v, dtype=%s", a.Axes, a.DType)
}

// CustomAttrs are the attributes of ops.OpTypeCustom: an opaque operation with the declared output shapes.
type CustomAttrs struct {
	Name         string
	OutputShapes []shapes.Shape
}

func (a *CustomAttrs) String() string {
	return fmt.Sprintf("name=%q", a.Name)
}
