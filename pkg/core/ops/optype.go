// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ops defines OpType, the operation kind of a graph node, and static per-kind information:
// the number of inputs and outputs, and how each input relates to the dtype of the node.
package ops

// OpType is an enum of all operations supported by a graph.Graph.
//
// It is used as the stable, hashable key when dispatching per operation kind, for instance
// to find the fuse function of a node in convertprecision.
type OpType int

//go:generate go tool enumer -type=OpType -trimprefix=OpType -output=gen_optype_enumer.go optype.go

const (
	OpTypeInvalid OpType = iota
	OpTypeParameter
	OpTypeConstant
	OpTypeIdentity
	OpTypeConvertDType
	OpTypeBitcast
	OpTypeShapeOf
	OpTypeRange

	// Index producing operations.

	OpTypeTopK
	OpTypeNonMaxSuppression
	OpTypeNonZero
	OpTypeBucketize

	// Logical operations.

	OpTypeLogicalAnd
	OpTypeLogicalOr
	OpTypeLogicalXor
	OpTypeLogicalNot
	OpTypeReduceLogicalAnd
	OpTypeReduceLogicalOr

	// Comparison operations.

	OpTypeEqual
	OpTypeNotEqual
	OpTypeGreaterThan
	OpTypeGreaterOrEqual
	OpTypeLessThan
	OpTypeLessOrEqual

	// Arithmetic operations.

	OpTypeAdd
	OpTypeSub
	OpTypeMul
	OpTypeDiv
	OpTypeMax
	OpTypeMin
	OpTypeNeg
	OpTypeAbs
	OpTypeExp

	// Structural operations.

	OpTypeReshape
	OpTypeConcatenate
	OpTypeReduceSum
	OpTypeReduceMax
	OpTypeGather
	OpTypeWhere

	// OpTypeCustom is an opaque operation with user declared output shapes.
	OpTypeCustom

	// OpTypeLast should always be kept the last, it is used as a counter/marker for OpType.
	OpTypeLast
)
