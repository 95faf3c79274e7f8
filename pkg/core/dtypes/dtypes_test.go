// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import (
	"math"
	"testing"

	"github.com/x448/float16"
)

func TestMapOfNames(t *testing.T) {
	for name, want := range map[string]DType{
		"Float16": Float16,
		"float16": Float16,
		"F16":     Float16,
		"f16":     Float16,
		"i64":     Int64,
		"S64":     Int64,
		"int64":   Int64,
		"u8":      Uint8,
		"bool":    Bool,
		"pred":    Bool,
	} {
		if MapOfNames[name] != want {
			t.Fatalf("expected MapOfNames[%q] to be %s, got %s", name, want, MapOfNames[name])
		}
	}
}

func TestFromName(t *testing.T) {
	dtype, err := FromName("I32")
	if err != nil || dtype != Int32 {
		t.Fatalf("expected FromName(\"I32\") to be Int32, got %s (err=%v)", dtype, err)
	}
	if _, err = FromName("int7"); err == nil {
		t.Fatal("expected an error for an unknown dtype name")
	}
}

func TestTextMarshaling(t *testing.T) {
	text, err := Uint16.MarshalText()
	if err != nil || string(text) != "Uint16" {
		t.Fatalf("unexpected MarshalText result %q (err=%v)", text, err)
	}
	var dtype DType
	if err = dtype.UnmarshalText([]byte(" f16 ")); err != nil || dtype != Float16 {
		t.Fatalf("expected UnmarshalText to parse Float16, got %s (err=%v)", dtype, err)
	}
	if _, err = InvalidDType.MarshalText(); err == nil {
		t.Fatal("expected an error marshaling InvalidDType")
	}
}

func TestOrderingAndSets(t *testing.T) {
	if Compare(Int32, Int32) != 0 || Compare(Bool, Int64) != -1 || Compare(Float32, Uint8) != 1 {
		t.Fatal("Compare doesn't follow the enum order")
	}
	if !Less(Int8, Int16) || Less(Int16, Int8) {
		t.Fatal("Less doesn't follow the enum order")
	}
	integral := SetWith(Uint8, Uint16, Uint32, Uint64, Int64)
	if !Uint32.In(integral) || Int32.In(integral) {
		t.Fatal("set membership is wrong")
	}
}

func TestBits(t *testing.T) {
	if Float16.Bits() != 16 || Int64.Size() != 8 || Bool.Size() != 1 || InvalidDType.Bits() != 0 {
		t.Fatal("unexpected number of bits")
	}
	if Int32.SizeForDimensions(2, 3) != 24 || Float64.SizeForDimensions() != 8 {
		t.Fatal("unexpected SizeForDimensions")
	}
}

func TestContains(t *testing.T) {
	if !Int32.ContainsInt(math.MaxInt32) || Int32.ContainsInt(math.MaxInt32+1) || Int32.ContainsInt(math.MinInt32-1) {
		t.Fatal("Int32.ContainsInt bounds are wrong")
	}
	if Uint8.ContainsInt(-1) || !Uint8.ContainsInt(255) || Uint8.ContainsInt(256) {
		t.Fatal("Uint8.ContainsInt bounds are wrong")
	}
	if Int64.ContainsUint(math.MaxUint64) || !Int64.ContainsUint(math.MaxInt64) || !Uint64.ContainsUint(math.MaxUint64) {
		t.Fatal("ContainsUint bounds are wrong")
	}
	if !Int32.ContainsFloat(-2147483648) || Int32.ContainsFloat(2147483648) || Int32.ContainsFloat(math.Inf(1)) {
		t.Fatal("Int32.ContainsFloat bounds are wrong")
	}
	if !Float16.ContainsFloat(65504) || Float16.ContainsFloat(70000) || !Float16.ContainsFloat(math.Inf(-1)) {
		t.Fatal("Float16.ContainsFloat bounds are wrong")
	}
	if !Bool.ContainsInt(1) || Bool.ContainsInt(2) {
		t.Fatal("Bool only contains 0 and 1")
	}
}

func TestFromAny(t *testing.T) {
	if FromAny(int64(7)) != Int64 {
		t.Fatalf("expected FromAny(int64(7)) to be Int64, got %v", FromAny(int64(7)))
	}
	if FromAny(float16.Fromfloat32(3.0)) != Float16 {
		t.Fatalf("expected FromAny(float16.Fromfloat32(3.0)) to be Float16, got %v", FromAny(float16.Fromfloat32(3.0)))
	}
	if FromAny("string") != InvalidDType {
		t.Fatal("expected strings to have no dtype")
	}
	dtype, length := FromFlat([]uint16{1, 2, 3})
	if dtype != Uint16 || length != 3 {
		t.Fatalf("expected FromFlat to return (Uint16, 3), got (%s, %d)", dtype, length)
	}
	if dtype, _ = FromFlat(7); dtype != InvalidDType {
		t.Fatal("expected FromFlat of a non-slice to be invalid")
	}
}
