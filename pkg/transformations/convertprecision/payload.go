// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convertprecision

import (
	"github.com/gomlx/precision/pkg/core/dtypes"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// convertIntegerPayload converts a flat slice of integers to a slice of the Go type of the integer dtype to.
// It returns false if flat is not a slice of integers, or if any of its values is not representable in to.
func convertIntegerPayload(flat any, to dtypes.DType) (any, bool) {
	switch to {
	case dtypes.Int8:
		return convertIntegersTo[int8](flat, to)
	case dtypes.Int16:
		return convertIntegersTo[int16](flat, to)
	case dtypes.Int32:
		return convertIntegersTo[int32](flat, to)
	case dtypes.Int64:
		return convertIntegersTo[int64](flat, to)
	case dtypes.Uint8:
		return convertIntegersTo[uint8](flat, to)
	case dtypes.Uint16:
		return convertIntegersTo[uint16](flat, to)
	case dtypes.Uint32:
		return convertIntegersTo[uint32](flat, to)
	case dtypes.Uint64:
		return convertIntegersTo[uint64](flat, to)
	}
	return nil, false
}

func convertIntegersTo[T constraints.Integer](flat any, to dtypes.DType) (any, bool) {
	switch src := flat.(type) {
	case []int8:
		return convertIntegers[T](src, to)
	case []int16:
		return convertIntegers[T](src, to)
	case []int32:
		return convertIntegers[T](src, to)
	case []int64:
		return convertIntegers[T](src, to)
	case []int:
		return convertIntegers[T](src, to)
	case []uint8:
		return convertIntegers[T](src, to)
	case []uint16:
		return convertIntegers[T](src, to)
	case []uint32:
		return convertIntegers[T](src, to)
	case []uint64:
		return convertIntegers[T](src, to)
	}
	return nil, false
}

func convertIntegers[T, S constraints.Integer](src []S, to dtypes.DType) ([]T, bool) {
	dst := make([]T, len(src))
	for ii, v := range src {
		if !integerFits(v, to) {
			return nil, false
		}
		dst[ii] = T(v)
	}
	return dst, true
}

// integerFits returns whether v is representable in the dtype to.
func integerFits[S constraints.Integer](v S, to dtypes.DType) bool {
	var zero S
	if ^zero < 0 {
		// Signed integer.
		return to.ContainsInt(int64(v))
	}
	return to.ContainsUint(uint64(v))
}

// widenFloat16Payload converts a flat slice of float16.Float16 to []float32.
func widenFloat16Payload(flat any) (any, bool) {
	src, ok := flat.([]float16.Float16)
	if !ok {
		return nil, false
	}
	dst := make([]float32, len(src))
	for ii, v := range src {
		dst[ii] = v.Float32()
	}
	return dst, true
}
