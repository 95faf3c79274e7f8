// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ops

// Variadic is returned by NumInputs for operations that take any number of inputs.
const Variadic = -1

// NumInputs returns the number of inputs an operation of the given type takes, or Variadic.
func (opType OpType) NumInputs() int {
	switch opType {
	case OpTypeParameter, OpTypeConstant, OpTypeRange:
		return 0
	case OpTypeIdentity, OpTypeConvertDType, OpTypeBitcast, OpTypeShapeOf, OpTypeTopK, OpTypeNonZero,
		OpTypeLogicalNot, OpTypeReduceLogicalAnd, OpTypeReduceLogicalOr,
		OpTypeNeg, OpTypeAbs, OpTypeExp, OpTypeReshape, OpTypeReduceSum, OpTypeReduceMax:
		return 1
	case OpTypeNonMaxSuppression, OpTypeBucketize,
		OpTypeLogicalAnd, OpTypeLogicalOr, OpTypeLogicalXor,
		OpTypeEqual, OpTypeNotEqual, OpTypeGreaterThan, OpTypeGreaterOrEqual, OpTypeLessThan, OpTypeLessOrEqual,
		OpTypeAdd, OpTypeSub, OpTypeMul, OpTypeDiv, OpTypeMax, OpTypeMin, OpTypeGather:
		return 2
	case OpTypeWhere:
		return 3
	case OpTypeConcatenate, OpTypeCustom:
		return Variadic
	}
	return 0
}

// IsMultiOutput returns whether operations of this type may have more than one output.
// The actual number of outputs is given by the node.
func (opType OpType) IsMultiOutput() bool {
	return opType == OpTypeTopK || opType == OpTypeNonMaxSuppression || opType == OpTypeCustom
}

// InputKind describes how the dtype of one input of an operation relates to the rest of the operation.
type InputKind int

const (
	// InputPassthrough inputs accept any dtype, and their dtype doesn't affect the semantics of the
	// operation outputs: e.g.: the operand of ConvertDType or ShapeOf.
	InputPassthrough InputKind = iota

	// InputBoolean inputs accept any boolean-like dtype (Bool, Uint8 or Int32) and read it as 0/1.
	InputBoolean

	// InputIndices are integer indices, of any integer dtype.
	InputIndices

	// InputCoupled inputs must share the dtype with the other coupled inputs of the operation, and
	// usually the output follows the same dtype.
	InputCoupled

	// InputIndependent inputs have a dtype that doesn't need to match any other input or output.
	InputIndependent

	// InputOpaque inputs belong to operations whose requirements are unknown (ops.OpTypeCustom).
	InputOpaque
)

var inputKindNames = [...]string{
	InputPassthrough: "Passthrough",
	InputBoolean:     "Boolean",
	InputIndices:     "Indices",
	InputCoupled:     "Coupled",
	InputIndependent: "Independent",
	InputOpaque:      "Opaque",
}

// String implements fmt.Stringer.
func (kind InputKind) String() string {
	if kind < 0 || int(kind) >= len(inputKindNames) {
		return "InputKind(?)"
	}
	return inputKindNames[kind]
}

// InputKindOf returns the kind of the input #inputIdx of an operation of type opType.
func InputKindOf(opType OpType, inputIdx int) InputKind {
	switch opType {
	case OpTypeConvertDType, OpTypeShapeOf, OpTypeBitcast:
		return InputPassthrough
	case OpTypeLogicalAnd, OpTypeLogicalOr, OpTypeLogicalXor, OpTypeLogicalNot,
		OpTypeReduceLogicalAnd, OpTypeReduceLogicalOr:
		return InputBoolean
	case OpTypeWhere:
		if inputIdx == 0 {
			return InputBoolean
		}
		return InputCoupled
	case OpTypeGather:
		if inputIdx == 1 {
			return InputIndices
		}
		return InputCoupled
	case OpTypeNonZero, OpTypeBucketize:
		return InputIndependent
	case OpTypeCustom:
		return InputOpaque
	}
	return InputCoupled
}

// IsLogical returns whether opType is one of the logical operations, including its reductions.
func (opType OpType) IsLogical() bool {
	switch opType {
	case OpTypeLogicalAnd, OpTypeLogicalOr, OpTypeLogicalXor, OpTypeLogicalNot,
		OpTypeReduceLogicalAnd, OpTypeReduceLogicalOr:
		return true
	}
	return false
}

// IsComparison returns whether opType is one of the relational operations: their output is a
// boolean-like value.
func (opType OpType) IsComparison() bool {
	switch opType {
	case OpTypeEqual, OpTypeNotEqual, OpTypeGreaterThan, OpTypeGreaterOrEqual, OpTypeLessThan, OpTypeLessOrEqual:
		return true
	}
	return false
}

// IsTypeParametric returns whether the output dtype of the operation follows the dtype of its
// coupled inputs: elementwise arithmetic, reshapes, concatenation, reductions, gather, where and identity.
func (opType OpType) IsTypeParametric() bool {
	switch opType {
	case OpTypeIdentity,
		OpTypeAdd, OpTypeSub, OpTypeMul, OpTypeDiv, OpTypeMax, OpTypeMin, OpTypeNeg, OpTypeAbs, OpTypeExp,
		OpTypeReshape, OpTypeConcatenate, OpTypeReduceSum, OpTypeReduceMax, OpTypeGather, OpTypeWhere:
		return true
	}
	return false
}
