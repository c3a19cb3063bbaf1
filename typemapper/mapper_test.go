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

package typemapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/managed"
	"github.com/ashleyj/aurac/target"
	"github.com/ashleyj/aurac/typemapper"
)

func descriptor(t *testing.T, s string) *managed.Descriptor {
	t.Helper()
	d, err := managed.ParseDescriptor(s)
	require.NoError(t, err)
	return d
}

func methodDescriptor(t *testing.T, s string) *managed.MethodDescriptor {
	t.Helper()
	d, err := managed.ParseMethodDescriptor(s)
	require.NoError(t, err)
	return d
}

func newMapper(t *testing.T, triple string, classes managed.ClassTable) *typemapper.Mapper {
	t.Helper()
	tr, err := target.Parse(triple)
	require.NoError(t, err)
	return typemapper.New(ir.NewTypes(), tr, classes)
}

// Scenario 5: method signatures.
func TestMethodSignatureInstance(t *testing.T) {
	m := newMapper(t, "x86_64-unknown-linux", nil)
	method := managed.Method{Descriptor: methodDescriptor(t, "(II)V")}
	sig := m.MethodSignature(method)

	require.Len(t, sig.Params, 4)
	assert.True(t, ir.IsPointer(sig.Params[0]), "EnvPtr")
	assert.True(t, ir.IsPointer(sig.Params[1]), "receiver ObjectPtr")
	assert.Equal(t, m.Types.Int32, sig.Params[2])
	assert.Equal(t, m.Types.Void, sig.Return)
}

func TestMethodSignatureStatic(t *testing.T) {
	m := newMapper(t, "x86_64-unknown-linux", nil)
	method := managed.Method{Descriptor: methodDescriptor(t, "(II)V"), Static: true}
	sig := m.MethodSignature(method)

	require.Len(t, sig.Params, 3)
	assert.True(t, ir.IsPointer(sig.Params[0]), "EnvPtr")
	assert.Equal(t, m.Types.Int32, sig.Params[1])
	assert.Equal(t, m.Types.Int32, sig.Params[2])
}

func TestMethodSignatureStaticNative(t *testing.T) {
	m := newMapper(t, "x86_64-unknown-linux", nil)
	method := managed.Method{Descriptor: methodDescriptor(t, "(II)V"), Static: true, Native: true}
	sig := m.MethodSignature(method)

	require.Len(t, sig.Params, 4)
	assert.True(t, ir.IsPointer(sig.Params[0]), "EnvPtr")
	assert.True(t, ir.IsPointer(sig.Params[1]), "static-native class handle")
	assert.Equal(t, m.Types.Int32, sig.Params[2])
	assert.Equal(t, m.Types.Int32, sig.Params[3])
}

// Scenario 6: field sort, 32-bit non-ARM target.
func TestFieldSortOrder(t *testing.T) {
	m := newMapper(t, "i386-unknown-linux", nil)
	fields := []managed.Field{
		{Name: "a", Descriptor: descriptor(t, "I")},
		{Name: "b", Descriptor: descriptor(t, "Ljava/lang/Object;")},
		{Name: "c", Descriptor: descriptor(t, "J")},
		{Name: "d", Descriptor: descriptor(t, "B")},
	}
	sorted := m.SortFields(fields)
	names := make([]string, len(sorted))
	for i, f := range sorted {
		names[i] = f.Field.Name
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, names)
}

// Invariant 5: sort is idempotent under permutation / re-sorting.
func TestFieldSortIsIdempotent(t *testing.T) {
	m := newMapper(t, "i386-unknown-linux", nil)
	fields := []managed.Field{
		{Name: "a", Descriptor: descriptor(t, "I")},
		{Name: "b", Descriptor: descriptor(t, "Ljava/lang/Object;")},
		{Name: "c", Descriptor: descriptor(t, "J")},
		{Name: "d", Descriptor: descriptor(t, "B")},
	}
	once := m.SortFields(fields)
	onceNames := fieldNames(once)

	reordered := []managed.Field{fields[3], fields[1], fields[2], fields[0]}
	twice := m.SortFields(reordered)
	assert.Equal(t, onceNames, fieldNames(twice))

	var alreadySorted []managed.Field
	for _, f := range once {
		alreadySorted = append(alreadySorted, f.Field)
	}
	thrice := m.SortFields(alreadySorted)
	assert.Equal(t, onceNames, fieldNames(thrice))
}

func fieldNames(fs []typemapper.MappedField) []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Field.Name
	}
	return names
}

// Scenario 7: ARM 32-bit long alignment override.
func TestARM32LongAlignmentOverride(t *testing.T) {
	m := newMapper(t, "arm-apple-ios", nil)
	assert.Equal(t, 8, m.Engine.Alignment(m.Types.Int64), "Int64 aligns to 8 on 32-bit ARM, not the generic 32-bit rule's 4")
	assert.Equal(t, 8, m.Engine.Alignment(m.Types.Double), "Double aligns to 8 on 32-bit ARM too")

	fields := []managed.Field{
		{Name: "flag", Descriptor: descriptor(t, "Z")},
		{Name: "count", Descriptor: descriptor(t, "J")},
	}
	sorted := m.SortFields(fields)
	for _, f := range sorted {
		if f.Field.Name == "count" {
			assert.Equal(t, 8, f.Alignment)
		}
	}
}

// The override must also be visible on a built InstanceLayout/StaticLayout
// through Engine.Alignment, not just on the transient MappedField computed
// while sorting - this is what cmd/aurac's layout subcommand actually
// prints, and what FieldOffset uses to place a later struct field.
func TestARM32LongAlignmentOverridePropagatesToBuiltLayouts(t *testing.T) {
	classes := managed.ClassTable{
		"game/Base": {
			InternalName: "game/Base",
			Fields: []managed.Field{
				{Name: "flag", Descriptor: &managed.Descriptor{Kind: managed.Boolean}},
			},
		},
		"game/Derived": {
			InternalName: "game/Derived",
			Superclass:   "game/Base",
			Fields: []managed.Field{
				{Name: "amount", Descriptor: &managed.Descriptor{Kind: managed.Long}},
				{Name: "score", Descriptor: &managed.Descriptor{Kind: managed.Double}, Static: true},
			},
		},
	}
	m := newMapper(t, "arm-apple-ios", classes)

	inst, err := m.InstanceLayout(classes["game/Derived"])
	require.NoError(t, err)
	assert.Equal(t, 8, m.Engine.Alignment(inst), "direct long/double field forces instance alignment to 8 on ARM32")

	base, err := m.InstanceLayout(classes["game/Base"])
	require.NoError(t, err)
	assert.Equal(t, 1, m.Engine.Alignment(base), "the base class alone has no long/double field")

	static, err := m.StaticLayout(classes["game/Derived"])
	require.NoError(t, err)
	assert.Equal(t, 8, m.Engine.Alignment(static), "a static double field forces the {header, statics} wrapper's alignment to 8 too")
}

// A long/double field folded in only via __base must still force the
// child's own alignment to 8 on ARM32 - the override has to survive one
// level of struct nesting, not just flat field placement.
func TestARM32LongAlignmentOverridePropagatesThroughBase(t *testing.T) {
	classes := managed.ClassTable{
		"game/Base": {
			InternalName: "game/Base",
			Fields: []managed.Field{
				{Name: "amount", Descriptor: &managed.Descriptor{Kind: managed.Long}},
			},
		},
		"game/Derived": {
			InternalName: "game/Derived",
			Superclass:   "game/Base",
			Fields: []managed.Field{
				{Name: "flag", Descriptor: &managed.Descriptor{Kind: managed.Boolean}},
			},
		},
	}
	m := newMapper(t, "arm-apple-ios", classes)

	derived, err := m.InstanceLayout(classes["game/Derived"])
	require.NoError(t, err)
	assert.Equal(t, 8, m.Engine.Alignment(derived), "the parent's folded-in long field still forces 8-byte alignment")

	offset, err := m.InstanceFieldOffset(classes["game/Derived"], "flag")
	require.NoError(t, err)
	assert.Equal(t, 8, offset, "flag starts after the base's long, padded to its own alignment")
}

func classTableWithShape() managed.ClassTable {
	return managed.ClassTable{
		"game/Base": {
			InternalName: "game/Base",
			Fields: []managed.Field{
				{Name: "id", Descriptor: &managed.Descriptor{Kind: managed.Int}},
			},
		},
		"game/Derived": {
			InternalName: "game/Derived",
			Superclass:   "game/Base",
			Fields: []managed.Field{
				{Name: "value", Descriptor: &managed.Descriptor{Kind: managed.Long}},
				{Name: "flag", Descriptor: &managed.Descriptor{Kind: managed.Boolean}},
			},
		},
	}
}

func TestInstanceLayoutFoldsParentAndPads(t *testing.T) {
	classes := classTableWithShape()
	m := newMapper(t, "x86_64-unknown-linux", classes)

	layout, err := m.InstanceLayout(classes["game/Derived"])
	require.NoError(t, err)
	assert.True(t, layout.Packed())

	baseOffset, err := m.Engine.FieldOffset(layout, "__base")
	require.NoError(t, err)
	assert.Zero(t, baseOffset)

	idOffset, err := m.InstanceFieldOffset(classes["game/Derived"], "id")
	require.NoError(t, err)
	assert.Zero(t, idOffset)

	valueOffset, err := m.InstanceFieldOffset(classes["game/Derived"], "value")
	require.NoError(t, err)
	assert.Equal(t, 8, valueOffset, "long must start at an 8-byte boundary after the 4-byte base")

	size := m.Engine.StoreSize(layout)
	assert.Zero(t, size%m.Engine.Alignment(layout), "instance layout's own size is a multiple of its alignment")
}

func TestInstanceLayoutIsInterned(t *testing.T) {
	classes := classTableWithShape()
	m := newMapper(t, "x86_64-unknown-linux", classes)

	a, err := m.InstanceLayout(classes["game/Derived"])
	require.NoError(t, err)
	b, err := m.InstanceLayout(classes["game/Derived"])
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestStaticLayoutWrapsClassHeader(t *testing.T) {
	classes := managed.ClassTable{
		"game/Counters": {
			InternalName: "game/Counters",
			Fields: []managed.Field{
				{Name: "total", Descriptor: &managed.Descriptor{Kind: managed.Int}, Static: true},
				{Name: "instance", Descriptor: &managed.Descriptor{Kind: managed.Int}},
			},
		},
	}
	m := newMapper(t, "x86_64-unknown-linux", classes)

	wrapper, err := m.StaticLayout(classes["game/Counters"])
	require.NoError(t, err)
	require.Len(t, wrapper.Fields(), 2)
	assert.Equal(t, "header", wrapper.Fields()[0].Name)
	assert.Equal(t, "statics", wrapper.Fields()[1].Name)

	statics := wrapper.Fields()[1].Type.(*ir.StructType)
	assert.Equal(t, 1, len(statics.Fields()), "only the static field, the instance field is excluded")
}

func TestStaticLayoutEmitPackedForcesWrapperPacked(t *testing.T) {
	classes := managed.ClassTable{
		"game/Counters": {
			InternalName: "game/Counters",
			Fields: []managed.Field{
				{Name: "total", Descriptor: &managed.Descriptor{Kind: managed.Int}, Static: true},
			},
		},
	}
	m := newMapper(t, "x86_64-unknown-linux", classes)
	assert.False(t, m.EmitPacked, "packed emission is opt-in")

	natural, err := m.StaticLayout(classes["game/Counters"])
	require.NoError(t, err)
	assert.False(t, natural.Packed())

	m2 := newMapper(t, "x86_64-unknown-linux", classes)
	m2.EmitPacked = true
	packed, err := m2.StaticLayout(classes["game/Counters"])
	require.NoError(t, err)
	assert.True(t, packed.Packed(), "EmitPacked forces the {header, statics} wrapper itself to be packed")
}

func TestSizeOfAndOffsetOfExprResolve(t *testing.T) {
	m := newMapper(t, "x86_64-unknown-linux", nil)
	s := m.Types.AnonStruct(false, ir.Field{Name: "a", Type: m.Types.Int8}, ir.Field{Name: "b", Type: m.Types.Int32})

	size, err := m.Resolve(typemapper.SizeOf(s))
	require.NoError(t, err)
	assert.Equal(t, m.Engine.AllocSize(s), size)

	offset, err := m.Resolve(typemapper.OffsetOf(s, 1))
	require.NoError(t, err)
	assert.Equal(t, 4, offset)
}
