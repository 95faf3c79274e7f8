// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/graph"
	"github.com/gomlx/precision/pkg/core/ops"
)

// FuseFunc changes the dtype of the output #outputIdx of node to the dtype to, by changing the node
// itself (its attributes and output shape), instead of converting the output with a new ConvertDType node.
//
// The current dtype of the output is the one being converted (the From of the precision pair).
//
// It must either apply the change fully and return true, or leave the node untouched and return false:
// e.g. if changing the dtype would overflow the values produced by the node.
type FuseFunc func(g *graph.Graph, node *graph.Node, to dtypes.DType, outputIdx int) bool

// FuseMap maps operation types to the function used to fuse the dtype change into nodes of that type.
//
// A nil FuseFunc disables fusing for the operation type.
type FuseMap map[ops.OpType]FuseFunc

// BuiltinFuseMap returns a copy of the fuse functions used by default, for each supported operation type.
//
// The supported precision pairs are:
//
//   - Uint8, Uint16, Uint32, Uint64 or Int64 to Int32: Parameter, Constant, ConvertDType, ShapeOf and Range.
//     The change is rejected if the values produced by the node may not be representable in Int32.
//   - Integer indices to Int32 or Int64: TopK, NonMaxSuppression, NonZero and Bucketize, if the largest
//     index is representable.
//   - Float16 to Float32: Parameter, Constant, ConvertDType, Range and every type-parametric operation
//     (see ops.OpType.IsTypeParametric).
//   - Bool to Uint8 or Int32: logical and comparison operations.
func BuiltinFuseMap() FuseMap {
	fuseMap := FuseMap{
		ops.OpTypeParameter:         fuseParameter,
		ops.OpTypeConstant:          fuseConstant,
		ops.OpTypeConvertDType:      fuseConvertDType,
		ops.OpTypeShapeOf:           fuseShapeOf,
		ops.OpTypeRange:             fuseRange,
		ops.OpTypeTopK:              fuseTopK,
		ops.OpTypeNonMaxSuppression: fuseNonMaxSuppression,
		ops.OpTypeNonZero:           fuseNonZero,
		ops.OpTypeBucketize:         fuseBucketize,
	}
	for _, opType := range ops.OpTypeValues() {
		switch {
		case opType == ops.OpTypeReduceLogicalAnd || opType == ops.OpTypeReduceLogicalOr:
			fuseMap[opType] = fuseReduceLogical
		case opType.IsLogical() || opType.IsComparison():
			fuseMap[opType] = fuseBooleanOutput
		case opType.IsTypeParametric():
			fuseMap[opType] = fuseTypeParametric
		}
	}
	return fuseMap
}

// builtinFuseMap is shared by all runs, and never modified.
var builtinFuseMap = BuiltinFuseMap()

// fuseRegistry looks up the fuse function for an operation type: the additional map has priority over the
// built-in one.
type fuseRegistry struct {
	additional FuseMap
}

// lookup returns the fuse function for opType, or nil if there is none.
func (r fuseRegistry) lookup(opType ops.OpType) FuseFunc {
	if fn, found := r.additional[opType]; found {
		return fn
	}
	return builtinFuseMap[opType]
}

// isIntegralPair returns whether the conversion is between integer types.
func isIntegralPair(from, to dtypes.DType) bool {
	return from.IsInt() && to.IsInt()
}

// narrowedToInt32 are the integer dtypes that the built-in fuse functions can narrow (or reinterpret) to Int32.
var narrowedToInt32 = dtypes.SetWith(dtypes.Uint8, dtypes.Uint16, dtypes.Uint32, dtypes.Uint64, dtypes.Int64)

// isNarrowingPair returns whether the conversion is one of the integer pairs supported by the built-in catalog.
func isNarrowingPair(from, to dtypes.DType) bool {
	return to == dtypes.Int32 && from.In(narrowedToInt32)
}

// isHalfPair returns whether the conversion is the Float16 to Float32 widening.
func isHalfPair(from, to dtypes.DType) bool {
	return from == dtypes.Float16 && to == dtypes.Float32
}

// isBoolPair returns whether the conversion is from Bool to one of the integer types used to represent it.
func isBoolPair(from, to dtypes.DType) bool {
	return from == dtypes.Bool && (to == dtypes.Uint8 || to == dtypes.Int32)
}

// isIndexDType returns whether dtype can be used for indices by the index producing operations.
func isIndexDType(dtype dtypes.DType) bool {
	return dtype == dtypes.Int32 || dtype == dtypes.Int64
}
