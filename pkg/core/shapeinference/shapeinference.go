// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapeinference calculates the shape resulting from operations and validates its inputs.
//
// It is used by graph.Graph when adding nodes, and again whenever the inputs of a node are rewired,
// to re-infer the output shapes.
//
// It defines a BinaryOp function for shape inference for the arithmetic binary functions, using the standard
// broadcasting rules. The unary functions don't change the shape.
//
// For the remainder ops, it defines one function per OpType.
package shapeinference

import (
	"math"
	"slices"

	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/gomlx/precision/pkg/core/ops"
	"github.com/gomlx/precision/pkg/core/shapes"
	"github.com/gomlx/precision/pkg/support/sets"
	"github.com/pkg/errors"
)

var (
	// BooleanLikeDTypes can be used as booleans by the logical operations and as the condition of Where:
	// Bool itself, or the integer types used to represent 0/1 values.
	BooleanLikeDTypes = dtypes.SetWith(dtypes.Bool, dtypes.Uint8, dtypes.Int32)

	// LogicalOperations take boolean-like values as input.
	LogicalOperations = sets.MakeWith(
		ops.OpTypeLogicalAnd,
		ops.OpTypeLogicalOr,
		ops.OpTypeLogicalXor,
		ops.OpTypeLogicalNot,
	)

	// ComparisonOperations include all operations that take two inputs and returns booleans with the results of
	// a comparison.
	ComparisonOperations = sets.MakeWith(
		ops.OpTypeEqual,
		ops.OpTypeNotEqual,
		ops.OpTypeGreaterThan,
		ops.OpTypeGreaterOrEqual,
		ops.OpTypeLessThan,
		ops.OpTypeLessOrEqual,
	)

	// StandardBinaryOperations include all arithmetic operations that have two operands usually named
	// lhs (left-hand-side) and rhs (right-hand-side).
	StandardBinaryOperations = sets.MakeWith(
		ops.OpTypeAdd,
		ops.OpTypeSub,
		ops.OpTypeMul,
		ops.OpTypeDiv,
		ops.OpTypeMax,
		ops.OpTypeMin,
	)

	// StandardUnaryOperations include all operations that have a single operand as input, and the return shape is the
	// same as the input (so no reductions).
	StandardUnaryOperations = sets.MakeWith(
		ops.OpTypeIdentity,
		ops.OpTypeNeg,
		ops.OpTypeAbs,
		ops.OpTypeExp,
	)

	SignedNumberOperations = sets.MakeWith(
		ops.OpTypeNeg,
	)

	// FloatOrComplexOperations operates only on float or complex numbers and won't work on integer or boolean values.
	FloatOrComplexOperations = sets.MakeWith(
		ops.OpTypeExp,
	)
)

// IsBooleanLike returns whether dtype can be read as a boolean (0/1) value.
func IsBooleanLike(dtype dtypes.DType) bool {
	return dtype.In(BooleanLikeDTypes)
}

// BinaryOp returns the expected output shape for ops in the StandardBinaryOperations set.
//
// It returns an error if the data type (shape.DType) is invalid for the operation -- e.g.: non-matching
// dtypes, or booleans given to arithmetic operations.
func BinaryOp(opType ops.OpType, lhsShape, rhsShape shapes.Shape) (output shapes.Shape, err error) {
	if !StandardBinaryOperations.Has(opType) {
		err = errors.Errorf("operations %s is not in the StandardBinaryOperations set, cannot process it with BinaryOp", opType)
		return
	}
	if !lhsShape.Ok() || !rhsShape.Ok() {
		err = errors.Errorf("invalid shape for %s or %s for BinaryOp %s", lhsShape, rhsShape, opType)
		return
	}
	if lhsShape.DType != rhsShape.DType {
		err = errors.Errorf("data types (DType) for BinaryOp %s must match, got %s and %s", opType, lhsShape, rhsShape)
		return
	}
	if !lhsShape.DType.IsNumber() {
		err = errors.Errorf("numeric BinaryOp %s must have a number (Int32, Float32, Complex64, ...) data type as input, got %s", opType, lhsShape)
		return
	}
	return binaryOpImpl(opType, lhsShape, rhsShape)
}

func binaryOpImpl(opType ops.OpType, lhsShape, rhsShape shapes.Shape) (output shapes.Shape, err error) {
	// Trivial cases: if one of the sides is a scalar, return the other side shape.
	if lhsShape.IsScalar() {
		return rhsShape.Clone(), nil
	}
	if rhsShape.IsScalar() {
		return lhsShape.Clone(), nil
	}

	// Other cases, either the dimensions match or one of them is 1.
	if lhsShape.Rank() != rhsShape.Rank() {
		err = errors.Errorf("if operands are not scalars, their rank must match for %s, got shapes %s and %s",
			opType, lhsShape, rhsShape)
		return
	}
	output = lhsShape.Clone()
	for axis := range output.Rank() {
		lhsDim := lhsShape.Dimensions[axis]
		rhsDim := rhsShape.Dimensions[axis]
		if lhsDim != 1 && rhsDim != 1 && lhsDim != rhsDim {
			err = errors.Errorf("dimension of axis #%d doesn't match and cannot be broadcast for %s, got shapes %s and %s",
				axis, opType, lhsShape, rhsShape)
			return
		}
		output.Dimensions[axis] = max(lhsDim, rhsDim)
	}
	return
}

// LogicalOp returns the output shape of the logical operations (LogicalAnd, LogicalOr, LogicalXor and LogicalNot).
//
// The operands can be of any boolean-like dtype, not necessarily the same, and are broadcast like with BinaryOp.
// The output has the given outputDType, which must also be boolean-like.
func LogicalOp(opType ops.OpType, outputDType dtypes.DType, operands ...shapes.Shape) (output shapes.Shape, err error) {
	if !LogicalOperations.Has(opType) {
		err = errors.Errorf("operation %s is not in the LogicalOperations set, cannot process it with LogicalOp", opType)
		return
	}
	numOperands := 2
	if opType == ops.OpTypeLogicalNot {
		numOperands = 1
	}
	if len(operands) != numOperands {
		err = errors.Errorf("%s takes %d operands, got %d", opType, numOperands, len(operands))
		return
	}
	for ii, operand := range operands {
		if !IsBooleanLike(operand.DType) {
			err = errors.Errorf("logical operation %s must have boolean-like (Bool, Uint8 or Int32) data types as input, got %s for operand #%d",
				opType, operand, ii)
			return
		}
	}
	if !IsBooleanLike(outputDType) {
		err = errors.Errorf("logical operation %s output dtype must be boolean-like (Bool, Uint8 or Int32), got %s", opType, outputDType)
		return
	}
	if numOperands == 1 {
		output = operands[0].Clone()
	} else {
		output, err = binaryOpImpl(opType, operands[0], operands[1])
		if err != nil {
			return
		}
	}
	output.DType = outputDType
	return
}

// ComparisonOp returns the broadcast shape with dtype set to outputDType (usually Bool), for comparison operations
// (Equal, LessThan, GreaterOrEqual, etc.)
func ComparisonOp(opType ops.OpType, lhsShape, rhsShape shapes.Shape, outputDType dtypes.DType) (output shapes.Shape, err error) {
	if !ComparisonOperations.Has(opType) {
		err = errors.Errorf("operation %s is not in the ComparisonOperations set, cannot process it with ComparisonOp", opType)
		return
	}
	if !lhsShape.Ok() || !rhsShape.Ok() {
		err = errors.Errorf("invalid shape for %s or %s for ComparisonOp %s", lhsShape, rhsShape, opType)
		return
	}
	if lhsShape.DType != rhsShape.DType {
		err = errors.Errorf("data types (DType) for ComparisonOp %s must match, got %s and %s", opType, lhsShape, rhsShape)
		return
	}
	isEquality := opType == ops.OpTypeEqual || opType == ops.OpTypeNotEqual
	if !lhsShape.DType.IsNumber() && !(isEquality && lhsShape.DType == dtypes.Bool) {
		err = errors.Errorf("ComparisonOp %s requires numeric operands, got %s", opType, lhsShape)
		return
	}
	if !IsBooleanLike(outputDType) {
		err = errors.Errorf("ComparisonOp %s output dtype must be boolean-like (Bool, Uint8 or Int32), got %s", opType, outputDType)
		return
	}
	output, err = binaryOpImpl(opType, lhsShape, rhsShape)
	if err != nil {
		return
	}
	output.DType = outputDType
	return
}

// UnaryOp checks the validity of the data type for StandardUnaryOperations and returns either an error or
// the output shape, which is the same as the operand.
func UnaryOp(opType ops.OpType, operand shapes.Shape) (output shapes.Shape, err error) {
	if !StandardUnaryOperations.Has(opType) {
		err = errors.Errorf("operation %s is not in the StandardUnaryOperations set, cannot process it with UnaryOp", opType)
		return
	}
	if !operand.Ok() {
		err = errors.Errorf("invalid shape %s for UnaryOp %s", operand, opType)
		return
	}
	if SignedNumberOperations.Has(opType) && (operand.DType.IsUnsigned() || !operand.DType.IsNumber()) {
		err = errors.Errorf("signed UnaryOp %s must have a signed data type as input, got %s", opType, operand)
		return
	}
	if FloatOrComplexOperations.Has(opType) && !(operand.DType.IsFloat() || operand.DType.IsComplex()) {
		err = errors.Errorf("float/complex UnaryOp %s must have a float or complex (Float32, Complex64, ...) data type as input, got %s", opType, operand)
		return
	}
	if opType == ops.OpTypeAbs && !operand.DType.IsNumber() {
		err = errors.Errorf("UnaryOp %s must have a number data type as input, got %s", opType, operand)
		return
	}
	output = operand.Clone()
	return
}

// WhereOp returns the shape resulting from the Where operation.
//
// Shape constraints for the operation:
//
//  1. The onTrue and onFalse must have the same dtype, and the exact same dimensions, or one can be a scalar.
//  2. The condition must either be a scalar or match the shape of onTrue or onFalse, except for the DType that
//     must be boolean-like.
func WhereOp(condition, onTrue, onFalse shapes.Shape) (output shapes.Shape, err error) {
	if !IsBooleanLike(condition.DType) {
		err = errors.Errorf("condition for Where() must be a boolean-like (Bool, Uint8 or Int32), got %s instead", condition)
		return
	}
	if !onTrue.Ok() || onTrue.DType != onFalse.DType {
		err = errors.Errorf("onTrue (%s) and onFalse (%s) values for Where() must have the same dtype", onTrue, onFalse)
		return
	}
	if !onTrue.IsScalar() && !onFalse.IsScalar() && !onTrue.Equal(onFalse) {
		err = errors.Errorf("onTrue (%s) and onFalse (%s) values for Where() must either be scalar or match each other's shape",
			onTrue, onFalse)
		return
	}

	output = onTrue.Clone()
	if output.IsScalar() {
		output = onFalse.Clone()
		if output.IsScalar() && !condition.IsScalar() {
			output = condition.WithDType(onTrue.DType)
		}
	}

	if !condition.IsScalar() && !slices.Equal(condition.Dimensions, output.Dimensions) {
		err = errors.Errorf("condition for Where() must either be a scalar or match the output shape (not the DType), instead got shapes condition=%s, onTrue=%s and onFalse=%s",
			condition, onTrue, onFalse)
		return
	}
	return
}

// ReshapeOp to the given dimensions: trivial output shape, but this function also checks
// that the sizes are the same.
func ReshapeOp(operand shapes.Shape, dims []int) (output shapes.Shape, err error) {
	if !operand.Ok() {
		return shapes.Invalid(), errors.Errorf("invalid shape %s for Reshape()", operand)
	}
	for _, dim := range dims {
		if dim <= 0 {
			return shapes.Invalid(), errors.Errorf("Reshape() requires positive dimensions, got %v", dims)
		}
	}
	output = shapes.Make(operand.DType, dims...)
	if operand.Size() != output.Size() {
		err = errors.Errorf("Reshape() cannot reshape %s to dimensions %v, their size don't match",
			operand, dims)
		return shapes.Invalid(), err
	}
	return
}

// ReduceOp works for the ReduceSum and ReduceMax ops.
func ReduceOp(operand shapes.Shape, axes []int) (output shapes.Shape, err error) {
	if !operand.Ok() || !operand.DType.IsNumber() {
		return shapes.Invalid(), errors.Errorf("Reduce operation requires a numeric operand, got %s", operand)
	}
	return reduceDimensions(operand, axes)
}

// ReduceLogicalOp works for the ReduceLogicalAnd and ReduceLogicalOr ops: the operand must be boolean-like,
// and the output has the given outputDType.
func ReduceLogicalOp(operand shapes.Shape, axes []int, outputDType dtypes.DType) (output shapes.Shape, err error) {
	if !IsBooleanLike(operand.DType) || !IsBooleanLike(outputDType) {
		return shapes.Invalid(), errors.Errorf("logical Reduce operation requires boolean-like operand and output dtype, got %s and %s",
			operand, outputDType)
	}
	output, err = reduceDimensions(operand, axes)
	if err != nil {
		return
	}
	output.DType = outputDType
	return
}

func reduceDimensions(operand shapes.Shape, axes []int) (output shapes.Shape, err error) {
	if len(axes) == 0 {
		return operand.Clone(), nil
	}
	for _, axis := range axes {
		if axis < 0 || axis >= operand.Rank() {
			return shapes.Invalid(), errors.Errorf("Reduce operation require each axis to be 0 <= axis < rank, but got invalid axis %d for shape %s", axis, operand)
		}
	}
	output = shapes.Make(operand.DType)
	axesSet := sets.MakeWith(axes...)
	for axis, dim := range operand.Dimensions {
		if !axesSet.Has(axis) {
			output.Dimensions = append(output.Dimensions, dim)
		}
	}
	return
}

// ConcatenateOp calculates the output shape of a Concatenate operation.
// It takes a slice of input shapes and the dimension along which to concatenate.
func ConcatenateOp(inputs []shapes.Shape, axis int) (output shapes.Shape, err error) {
	if len(inputs) == 0 {
		return shapes.Invalid(), errors.Errorf("ConcatenateOp requires at least one input shape")
	}

	// Initialize output dimensions with the first shape.
	firstShape := inputs[0]
	dtype := firstShape.DType
	rank := firstShape.Rank()
	output = firstShape.Clone()
	if dtype == dtypes.InvalidDType {
		return shapes.Invalid(), errors.Errorf("invalid shape %s for first input of ConcatenateOp", firstShape)
	}
	if axis < 0 || axis >= rank {
		return shapes.Invalid(), errors.Errorf("invalid concatenation axis %d for shapes with rank %d", axis, rank)
	}

	// Validate further inputs and accumulate the concatenation axis size.
	for i := 1; i < len(inputs); i++ {
		currentShape := inputs[i]
		if currentShape.DType != dtype {
			return shapes.Invalid(), errors.Errorf("mismatched DTypes for ConcatenateOp: input #0 has %s, input #%d has %s",
				dtype, i, currentShape.DType)
		}
		if currentShape.Rank() != rank {
			return shapes.Invalid(), errors.Errorf("mismatched ranks for ConcatenateOp: input #0 has rank %d, input #%d has rank %d",
				rank, i, currentShape.Rank())
		}
		for d := range rank {
			if d == axis {
				output.Dimensions[d] += currentShape.Dimensions[d]
			} else if currentShape.Dimensions[d] != output.Dimensions[d] {
				return shapes.Invalid(), errors.Errorf("mismatched dimensions for ConcatenateOp at axis %d (non-concatenation axis): input #0 has %d, input #%d has %d",
					d, output.Dimensions[d], i, currentShape.Dimensions[d])
			}
		}
	}
	return output, nil
}

// GatherOp returns the output shape of gathering slices of operand along axis, at the positions given by indices.
//
// The output dimensions are operand's dimensions with the gathered axis replaced by the dimensions of indices.
func GatherOp(operand, indices shapes.Shape, axis int) (output shapes.Shape, err error) {
	if !operand.Ok() || operand.Rank() == 0 {
		return shapes.Invalid(), errors.Errorf("Gather requires a non-scalar operand, got %s", operand)
	}
	if !indices.DType.IsInt() {
		return shapes.Invalid(), errors.Errorf("Gather indices must be an integer type, got %s", indices)
	}
	if axis < 0 || axis >= operand.Rank() {
		return shapes.Invalid(), errors.Errorf("Gather axis %d is out of range for operand %s", axis, operand)
	}
	dims := make([]int, 0, operand.Rank()-1+indices.Rank())
	dims = append(dims, operand.Dimensions[:axis]...)
	dims = append(dims, indices.Dimensions...)
	dims = append(dims, operand.Dimensions[axis+1:]...)
	return shapes.Make(operand.DType, dims...), nil
}

// ConvertDTypeOp returns the operand shape with the dtype changed.
func ConvertDTypeOp(operand shapes.Shape, dtype dtypes.DType) (output shapes.Shape, err error) {
	if !operand.Ok() || !dtype.Ok() {
		return shapes.Invalid(), errors.Errorf("ConvertDType from %s to %s is not valid", operand, dtype)
	}
	return operand.WithDType(dtype), nil
}

// BitcastOp reinterprets the operand bits as dtype, which must have the same number of bits.
func BitcastOp(operand shapes.Shape, dtype dtypes.DType) (output shapes.Shape, err error) {
	if !operand.Ok() || !dtype.Ok() || operand.DType.Bits() != dtype.Bits() {
		return shapes.Invalid(), errors.Errorf("Bitcast from %s to %s requires dtypes with the same number of bits", operand, dtype)
	}
	return operand.WithDType(dtype), nil
}

// ShapeOfOp returns the shape of the ShapeOf operation: a vector with the operand dimensions as dtype.
func ShapeOfOp(operand shapes.Shape, dtype dtypes.DType) (output shapes.Shape, err error) {
	if !dtype.IsInt() {
		return shapes.Invalid(), errors.Errorf("ShapeOf output dtype must be an integer type, got %s", dtype)
	}
	if !operand.Ok() || operand.Rank() == 0 {
		return shapes.Invalid(), errors.Errorf("ShapeOf requires a non-scalar operand, got %s", operand)
	}
	return shapes.Make(dtype, operand.Rank()), nil
}

// RangeLength returns the number of elements generated by a range from start to limit (exclusive) with the
// given delta, or 0 if the range is empty or invalid.
func RangeLength(start, limit, delta float64) int {
	if delta == 0 || math.IsNaN(start) || math.IsNaN(limit) || math.IsNaN(delta) {
		return 0
	}
	length := math.Ceil((limit - start) / delta)
	if length <= 0 || math.IsInf(length, 0) || length > math.MaxInt32 {
		return 0
	}
	return int(length)
}

// RangeOp returns the shape of a Range operation: a vector with RangeLength(start, limit, delta) elements.
func RangeOp(start, limit, delta float64, dtype dtypes.DType) (output shapes.Shape, err error) {
	if !dtype.IsInt() && !dtype.IsFloat() {
		return shapes.Invalid(), errors.Errorf("Range dtype must be an integer or float, got %s", dtype)
	}
	if dtype.IsInt() && (math.Trunc(start) != start || math.Trunc(delta) != delta) {
		return shapes.Invalid(), errors.Errorf("Range(start=%g, delta=%g) for integer dtype %s requires integer values",
			start, delta, dtype)
	}
	length := RangeLength(start, limit, delta)
	if length == 0 {
		return shapes.Invalid(), errors.Errorf("Range(start=%g, limit=%g, delta=%g) is empty", start, limit, delta)
	}
	return shapes.Make(dtype, length), nil
}

// TopKOp returns the shapes of the values and indices outputs of the TopK operation over the given axis.
func TopKOp(operand shapes.Shape, k, axis int, indexDType dtypes.DType) (values, indices shapes.Shape, err error) {
	if !operand.Ok() || !operand.DType.IsNumber() || operand.Rank() == 0 {
		err = errors.Errorf("TopK requires a non-scalar numeric operand, got %s", operand)
		return
	}
	if axis < 0 || axis >= operand.Rank() {
		err = errors.Errorf("TopK axis %d is out of range for operand %s", axis, operand)
		return
	}
	if k <= 0 || k > operand.Dimensions[axis] {
		err = errors.Errorf("TopK k=%d must be between 1 and the dimension of axis %d of %s", k, axis, operand)
		return
	}
	if !indexDType.IsInt() {
		err = errors.Errorf("TopK index dtype must be an integer type, got %s", indexDType)
		return
	}
	values = operand.Clone()
	values.Dimensions[axis] = k
	indices = values.WithDType(indexDType)
	return
}

// NonMaxSuppressionOp returns the shapes of the selected indices and selected scores outputs of the
// NonMaxSuppression operation.
//
// boxes must be shaped [batch, numBoxes, 4], and scores [batch, numClasses, numBoxes]. Both outputs are shaped
// [batch * numClasses * min(numBoxes, maxOutputBoxes), 3].
func NonMaxSuppressionOp(boxes, scores shapes.Shape, maxOutputBoxes int, indexDType dtypes.DType) (indices, selectedScores shapes.Shape, err error) {
	if !boxes.DType.IsFloat() || boxes.Rank() != 3 || boxes.Dimensions[2] != 4 {
		err = errors.Errorf("NonMaxSuppression boxes must be a float shaped [batch, numBoxes, 4], got %s", boxes)
		return
	}
	if scores.DType != boxes.DType || scores.Rank() != 3 ||
		scores.Dimensions[0] != boxes.Dimensions[0] || scores.Dimensions[2] != boxes.Dimensions[1] {
		err = errors.Errorf("NonMaxSuppression scores must be shaped [batch, numClasses, numBoxes] with the boxes dtype, got boxes=%s and scores=%s",
			boxes, scores)
		return
	}
	if maxOutputBoxes <= 0 {
		err = errors.Errorf("NonMaxSuppression maxOutputBoxes must be positive, got %d", maxOutputBoxes)
		return
	}
	if !indexDType.IsInt() {
		err = errors.Errorf("NonMaxSuppression index dtype must be an integer type, got %s", indexDType)
		return
	}
	numSelected := scores.Dimensions[0] * scores.Dimensions[1] * min(boxes.Dimensions[1], maxOutputBoxes)
	indices = shapes.Make(indexDType, numSelected, 3)
	selectedScores = shapes.Make(scores.DType, numSelected, 3)
	return
}

// NonZeroOp returns the shape of the NonZero operation: [rank, size] indices of dtype, where size is the
// upper bound of the number of non-zero elements.
func NonZeroOp(operand shapes.Shape, dtype dtypes.DType) (output shapes.Shape, err error) {
	if !operand.Ok() || operand.Rank() == 0 {
		return shapes.Invalid(), errors.Errorf("NonZero requires a non-scalar operand, got %s", operand)
	}
	if !dtype.IsInt() {
		return shapes.Invalid(), errors.Errorf("NonZero output dtype must be an integer type, got %s", dtype)
	}
	return shapes.Make(dtype, operand.Rank(), operand.Size()), nil
}

// BucketizeOp returns the shape of the Bucketize operation: the operand dimensions, with the given dtype.
// buckets must be a vector of boundaries.
func BucketizeOp(operand, buckets shapes.Shape, dtype dtypes.DType) (output shapes.Shape, err error) {
	if !operand.Ok() || !(operand.DType.IsInt() || operand.DType.IsFloat()) {
		return shapes.Invalid(), errors.Errorf("Bucketize requires an integer or float operand, got %s", operand)
	}
	if buckets.Rank() != 1 || !(buckets.DType.IsInt() || buckets.DType.IsFloat()) {
		return shapes.Invalid(), errors.Errorf("Bucketize buckets must be an integer or float vector, got %s", buckets)
	}
	if !dtype.IsInt() {
		return shapes.Invalid(), errors.Errorf("Bucketize output dtype must be an integer type, got %s", dtype)
	}
	return operand.WithDType(dtype), nil
}
