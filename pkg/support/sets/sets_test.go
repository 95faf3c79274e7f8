// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	ids := Make[int]()
	assert.Empty(t, ids)
	ids.Insert(4, 4, 1)
	assert.Equal(t, Set[int]{1: {}, 4: {}}, ids)

	reserved := Make[string](8)
	assert.Empty(t, reserved)
	reserved.Insert("a")
	assert.True(t, reserved.Has("a"))
}

func TestMakeWith(t *testing.T) {
	names := MakeWith("Int64", "Int32", "Int64")
	assert.Len(t, names, 2)
	assert.True(t, names.Has("Int32"))
	assert.False(t, names.Has("Int16"))

	assert.Empty(t, MakeWith[int]())
}

func TestHasOnNilSet(t *testing.T) {
	var ids Set[int]
	assert.False(t, ids.Has(0))
	assert.Panics(t, func() { ids.Insert(0) }, "inserting requires an initialized set")
}
