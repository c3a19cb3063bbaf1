// Copyright 2024 The Aurac Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/layout"
	"github.com/ashleyj/aurac/target"
)

func engines(t *testing.T) (e32, e64 *layout.Engine) {
	t.Helper()
	t32, err := target.Parse("i386-unknown-linux")
	require.NoError(t, err)
	t64, err := target.Parse("x86_64-unknown-linux")
	require.NoError(t, err)
	return layout.New(t32), layout.New(t64)
}

// Scenario 1: alloc size, 32-bit Linux.
func TestAllocSize32Bit(t *testing.T) {
	e32, _ := engines(t)
	types := ir.NewTypes()

	s := types.AnonStruct(false,
		ir.Field{Name: "a", Type: types.Int32},
		ir.Field{Name: "b", Type: types.Int16},
		ir.Field{Name: "c", Type: types.Int8},
	)
	assert.Equal(t, 8, e32.AllocSize(s))
	assert.Equal(t, 4, e32.AllocSize(types.Pointer(types.Int8)))
}

// Scenario 2: alloc size, 64-bit Linux.
func TestAllocSize64Bit(t *testing.T) {
	_, e64 := engines(t)
	types := ir.NewTypes()
	assert.Equal(t, 8, e64.AllocSize(types.Pointer(types.Int8)))
}

// Scenario 3: store size.
func TestStoreSize(t *testing.T) {
	e32, e64 := engines(t)
	types := ir.NewTypes()

	s := types.AnonStruct(false,
		ir.Field{Name: "a", Type: types.Int32},
		ir.Field{Name: "b", Type: types.Int16},
		ir.Field{Name: "c", Type: types.Int8},
	)
	assert.Equal(t, 4, e32.StoreSize(types.Pointer(types.Int8)))
	assert.Equal(t, 8, e32.StoreSize(s))
	assert.Equal(t, 8, e64.StoreSize(types.Pointer(types.Int8)))
}

// Scenario 4: alignment.
func TestAlignment(t *testing.T) {
	e32, e64 := engines(t)
	types := ir.NewTypes()

	s1 := types.AnonStruct(false, ir.Field{Name: "a", Type: types.Int8}, ir.Field{Name: "b", Type: types.Int32})
	assert.Equal(t, 4, e32.Alignment(types.Int64))
	assert.Equal(t, 4, e32.Alignment(s1))

	s2 := types.AnonStruct(false, ir.Field{Name: "a", Type: types.Int8}, ir.Field{Name: "b", Type: types.Int64})
	assert.Equal(t, 8, e64.Alignment(types.Int64))
	assert.Equal(t, 8, e64.Alignment(types.Double))
	assert.Equal(t, 8, e64.Alignment(s2))
}

// Invariant 1: alloc-size >= store-size and alloc-size is a multiple of
// alignment, across a representative sample of types and both widths.
func TestAllocSizeInvariant(t *testing.T) {
	e32, e64 := engines(t)
	types := ir.NewTypes()

	sample := []ir.Type{
		types.Bool, types.Int8, types.Int16, types.Int32, types.Int64,
		types.Float, types.Double, types.Pointer(types.Int32),
		types.AnonStruct(false, ir.Field{Name: "a", Type: types.Int8}, ir.Field{Name: "b", Type: types.Int64}),
	}
	for _, e := range []*layout.Engine{e32, e64} {
		for _, ty := range sample {
			alloc := e.AllocSize(ty)
			store := e.StoreSize(ty)
			align := e.Alignment(ty)
			assert.GreaterOrEqual(t, alloc, store, ty.TypeName())
			assert.Zero(t, alloc%align, "%s: alloc %d not a multiple of align %d", ty.TypeName(), alloc, align)
		}
	}
}

// Invariant 2: alignment(S) = max(alignment(f_i)), with max{} = 1.
func TestEmptyStructAlignmentIsOne(t *testing.T) {
	e32, _ := engines(t)
	types := ir.NewTypes()
	empty := types.AnonStruct(false)
	assert.Equal(t, 1, e32.Alignment(empty))
	assert.Equal(t, 0, e32.StoreSize(empty))
}

func TestPackedStructHasNoImplicitPadding(t *testing.T) {
	e32, _ := engines(t)
	types := ir.NewTypes()

	packed := types.AnonStruct(true, ir.Field{Name: "a", Type: types.Int8}, ir.Field{Name: "b", Type: types.Int32})
	assert.Equal(t, 5, e32.StoreSize(packed))

	offset, err := e32.FieldOffset(packed, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, offset)
}

func TestFieldOffsetNaturalPadding(t *testing.T) {
	e32, _ := engines(t)
	types := ir.NewTypes()

	natural := types.AnonStruct(false, ir.Field{Name: "a", Type: types.Int8}, ir.Field{Name: "b", Type: types.Int32})
	offset, err := e32.FieldOffset(natural, "b")
	require.NoError(t, err)
	assert.Equal(t, 4, offset, "b is padded up to its own 4-byte alignment")
}
