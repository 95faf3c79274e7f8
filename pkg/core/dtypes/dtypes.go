// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes includes the DType enum for the element types carried by graph edges.
//
// A DType is a plain value type: it can be compared, ordered and tested for membership in a Set.
// It carries no conversion logic: which dtype is converted into which is decided elsewhere (see
// package convertprecision).
//
// It also includes the range queries (ContainsInt, ContainsUint, ContainsFloat) used to decide whether
// a value can be represented in a dtype without overflowing, and converters from Go types.
package dtypes

import (
	"cmp"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/precision/pkg/support/sets"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// panicf panics with the formatted description.
//
// It is only used for "bugs in the code" -- when parameters are out of their valid range.
func panicf(format string, args ...any) {
	panic(errors.Errorf(format, args...))
}

func init() {
	// Only works for 32 and 64 bits platforms.
	if strconv.IntSize != 32 && strconv.IntSize != 64 {
		panicf("cannot use int of %d bits -- only platforms with int32 or int64 are supported", strconv.IntSize)
	}

	// Add a mapping to the lower-case version of dtypes.
	keys := slices.Collect(maps.Keys(MapOfNames))
	for _, key := range keys {
		lowerKey := strings.ToLower(key)
		if lowerKey == key {
			continue
		}
		if _, found := MapOfNames[lowerKey]; found {
			continue
		}
		MapOfNames[lowerKey] = MapOfNames[key]
	}
}

// String implements fmt.Stringer.
func (dtype DType) String() string {
	if dtype < 0 || dtype >= lastDType {
		return "DType(" + strconv.Itoa(int(dtype)) + ")"
	}
	return dtypeNames[dtype]
}

// FromName returns the DType for the given name or alias (see MapOfNames), or an error if unknown.
func FromName(name string) (DType, error) {
	dtype, found := MapOfNames[name]
	if !found {
		dtype, found = MapOfNames[strings.ToLower(name)]
	}
	if !found {
		return InvalidDType, errors.Errorf("unknown dtype %q", name)
	}
	return dtype, nil
}

// MarshalText implements encoding.TextMarshaler, so dtypes can be spelled by name in configuration files.
func (dtype DType) MarshalText() ([]byte, error) {
	if dtype <= InvalidDType || dtype >= lastDType {
		return nil, errors.Errorf("cannot marshal invalid dtype %d", int32(dtype))
	}
	return []byte(dtype.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts any of the names in MapOfNames.
func (dtype *DType) UnmarshalText(text []byte) error {
	parsed, err := FromName(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*dtype = parsed
	return nil
}

// Compare returns -1, 0 or +1 depending on whether a is ordered before, equal to or after b.
//
// The order is the enum order: it is total, but carries no meaning about the precision of the types.
func Compare(a, b DType) int {
	return cmp.Compare(a, b)
}

// Less reports whether a is ordered before b. See Compare.
func Less(a, b DType) bool {
	return a < b
}

// Set of dtypes.
type Set = sets.Set[DType]

// SetWith returns a Set with the given dtypes.
func SetWith(dtypes ...DType) Set {
	return sets.MakeWith(dtypes...)
}

// In returns whether dtype is an element of set.
func (dtype DType) In(set Set) bool {
	return set.Has(dtype)
}

// Ok returns whether dtype is one of the valid dtypes.
func (dtype DType) Ok() bool {
	return dtype > InvalidDType && dtype < lastDType
}

var dtypeBits = [lastDType]int{
	Bool:       8,
	Int8:       8,
	Int16:      16,
	Int32:      32,
	Int64:      64,
	Uint8:      8,
	Uint16:     16,
	Uint32:     32,
	Uint64:     64,
	Float16:    16,
	Float32:    32,
	Float64:    64,
	BFloat16:   16,
	Complex64:  64,
	Complex128: 128,
}

// Bits returns the number of bits used to store one element of the given DType.
// Bool is stored in one byte.
func (dtype DType) Bits() int {
	if !dtype.Ok() {
		return 0
	}
	return dtypeBits[dtype]
}

// Size returns the number of bytes for the given DType.
func (dtype DType) Size() int {
	return dtype.Bits() / 8
}

// SizeForDimensions returns the size in bytes used for the given dimensions.
// It works also for scalar (one element) shapes where the list of dimensions is empty.
func (dtype DType) SizeForDimensions(dimensions ...int) int {
	numElements := 1
	for _, dim := range dimensions {
		if dim < 0 {
			panicf("dim cannot be negative for SizeForDimensions, got %v", dimensions)
		}
		numElements *= dim
	}
	return numElements * dtype.Size()
}

// IsFloat returns whether dtype is a float. It returns false for complex numbers.
func (dtype DType) IsFloat() bool {
	return dtype == Float32 || dtype == Float64 || dtype == Float16 || dtype == BFloat16
}

// IsFloat16 returns whether dtype is a float with 16 bits: [Float16] or [BFloat16].
func (dtype DType) IsFloat16() bool {
	return dtype == Float16 || dtype == BFloat16
}

// IsComplex returns whether dtype is a complex number type.
func (dtype DType) IsComplex() bool {
	return dtype == Complex64 || dtype == Complex128
}

// IsInt returns whether dtype is an integer type, signed or unsigned.
func (dtype DType) IsInt() bool {
	return dtype == Int64 || dtype == Int32 || dtype == Int16 || dtype == Int8 ||
		dtype == Uint8 || dtype == Uint16 || dtype == Uint32 || dtype == Uint64
}

// IsUnsigned returns whether dtype is one of the unsigned integer types.
func (dtype DType) IsUnsigned() bool {
	return dtype == Uint8 || dtype == Uint16 || dtype == Uint32 || dtype == Uint64
}

// IsNumber returns whether dtype is an integer, a float or a complex number.
func (dtype DType) IsNumber() bool {
	return dtype.IsInt() || dtype.IsFloat() || dtype.IsComplex()
}

// intRange returns the lowest and highest values of a signed integer dtype.
func (dtype DType) intRange() (lowest, highest int64) {
	switch dtype {
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Int32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

// uintHighest returns the highest value of an unsigned integer dtype.
func (dtype DType) uintHighest() uint64 {
	switch dtype {
	case Uint8:
		return math.MaxUint8
	case Uint16:
		return math.MaxUint16
	case Uint32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// floatHighest returns the largest finite value of a float dtype.
func (dtype DType) floatHighest() float64 {
	switch dtype {
	case Float16:
		return float64(float16.Frombits(0x7bff).Float32()) // 65504
	case BFloat16, Float32:
		return math.MaxFloat32
	default:
		return math.MaxFloat64
	}
}

// ContainsInt returns whether the integer value v can be represented in dtype without overflowing.
//
// For floats it only checks the magnitude, precision may still be lost. Bool only contains 0 and 1.
func (dtype DType) ContainsInt(v int64) bool {
	switch {
	case dtype == Bool:
		return v == 0 || v == 1
	case dtype.IsUnsigned():
		return v >= 0 && uint64(v) <= dtype.uintHighest()
	case dtype.IsInt():
		lowest, highest := dtype.intRange()
		return v >= lowest && v <= highest
	case dtype.IsFloat() || dtype.IsComplex():
		return math.Abs(float64(v)) <= dtype.RealDType().floatHighest()
	}
	return false
}

// ContainsUint returns whether the unsigned integer value v can be represented in dtype without overflowing.
func (dtype DType) ContainsUint(v uint64) bool {
	switch {
	case dtype == Bool:
		return v <= 1
	case dtype.IsUnsigned():
		return v <= dtype.uintHighest()
	case dtype.IsInt():
		_, highest := dtype.intRange()
		return v <= uint64(highest)
	case dtype.IsFloat() || dtype.IsComplex():
		return float64(v) <= dtype.RealDType().floatHighest()
	}
	return false
}

// ContainsFloat returns whether the value v is within the range of dtype.
//
// For integer dtypes, v must be within the lowest and highest integer values (fractional parts are not
// checked). Infinities and NaN are only contained in float dtypes.
func (dtype DType) ContainsFloat(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return dtype.IsFloat() || dtype.IsComplex()
	}
	switch {
	case dtype == Bool:
		return v == 0 || v == 1
	case dtype.IsUnsigned():
		// float64(MaxUint64) rounds up to 2^64, hence the strict comparison.
		return v >= 0 && v < float64(dtype.uintHighest())+1
	case dtype.IsInt():
		lowest, highest := dtype.intRange()
		return v >= float64(lowest) && v < float64(highest)+1
	case dtype.IsFloat() || dtype.IsComplex():
		return math.Abs(v) <= dtype.RealDType().floatHighest()
	}
	return false
}

// RealDType returns the real component of complex dtypes.
// For float dtypes, it returns itself. It returns InvalidDType for the other dtypes.
func (dtype DType) RealDType() DType {
	if dtype.IsFloat() {
		return dtype
	}
	switch dtype {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return InvalidDType
	}
}

// Pre-generate constant reflect.TypeOf for convenience.
var float16Type = reflect.TypeOf(float16.Float16(0))

// FromGoType returns the DType for the given "reflect.Type", or InvalidDType if not supported.
func FromGoType(t reflect.Type) DType {
	if t == float16Type {
		return Float16
	}
	switch t.Kind() {
	case reflect.Int:
		if strconv.IntSize == 32 {
			return Int32
		}
		return Int64
	case reflect.Int64:
		return Int64
	case reflect.Int32:
		return Int32
	case reflect.Int16:
		return Int16
	case reflect.Int8:
		return Int8

	case reflect.Uint64:
		return Uint64
	case reflect.Uint32:
		return Uint32
	case reflect.Uint16:
		return Uint16
	case reflect.Uint8:
		return Uint8

	case reflect.Bool:
		return Bool

	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64

	case reflect.Complex64:
		return Complex64
	case reflect.Complex128:
		return Complex128
	default:
		return InvalidDType
	}
}

// FromAny introspects the underlying type of value and returns the corresponding DType.
// Non-scalar types, or unsupported types return InvalidDType.
func FromAny(value any) DType {
	return FromGoType(reflect.TypeOf(value))
}

// FromFlat returns the DType of the elements of the flat slice, and its length.
// It returns InvalidDType if flat is not a slice of a supported type.
func FromFlat(flat any) (DType, int) {
	flatType := reflect.TypeOf(flat)
	if flatType == nil || flatType.Kind() != reflect.Slice {
		return InvalidDType, 0
	}
	return FromGoType(flatType.Elem()), reflect.ValueOf(flat).Len()
}

// Supported lists the Go types that have a corresponding DType.
// Used as traits for generics.
//
// Notice Go's `int` type is not portable, since it may translate to dtypes Int32 or Int64 depending
// on the platform.
type Supported interface {
	bool | float16.Float16 | float32 | float64 | int | int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 | complex64 | complex128
}
