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

package trampoline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleyj/aurac"
	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/managed"
	"github.com/ashleyj/aurac/target"
	"github.com/ashleyj/aurac/trampoline"
	"github.com/ashleyj/aurac/typemapper"
)

func methodDesc(t *testing.T, s string) *managed.MethodDescriptor {
	t.Helper()
	d, err := managed.ParseMethodDescriptor(s)
	require.NoError(t, err)
	return d
}

func fieldDesc(t *testing.T, s string) *managed.Descriptor {
	t.Helper()
	d, err := managed.ParseDescriptor(s)
	require.NoError(t, err)
	return d
}

func TestNewInvokeRejectsMissingMethodDescriptor(t *testing.T) {
	_, err := trampoline.NewInvoke(trampoline.InvokeVirtual, "a/Caller", "a/Target", "run", nil, false)
	require.Error(t, err)
	assert.True(t, aurac.Is(err, aurac.TrampolineMisuse))
}

func TestNewInvokeKeepsMethodName(t *testing.T) {
	tr, err := trampoline.NewInvoke(trampoline.InvokeStatic, "a/Caller", "a/Target", "run", methodDesc(t, "()V"), true)
	require.NoError(t, err)
	assert.Equal(t, "run", tr.MethodName)
}

func TestNewFieldAccessDerivesStaticFromKind(t *testing.T) {
	tr, err := trampoline.NewFieldAccess(trampoline.GetStatic, "a/Caller", "a/Target", "counter", fieldDesc(t, "I"))
	require.NoError(t, err)
	assert.True(t, tr.Static)

	_, err = trampoline.NewFieldAccess(trampoline.GetStatic, "", "a/Target", "counter", fieldDesc(t, "I"))
	require.Error(t, err)
	assert.True(t, aurac.Is(err, aurac.TrampolineMisuse))
}

func TestNewClassRefLeavesMemberFieldsEmpty(t *testing.T) {
	tr, err := trampoline.NewCheckcast("a/Caller", "a/Target")
	require.NoError(t, err)
	assert.Equal(t, "", tr.MethodName)
	assert.Nil(t, tr.FieldDescriptor)
}

// Scenario 8: two BridgeCall trampolines with identical calling/target
// classes order by (method-name, method-descriptor).
func TestCompareOrdersByMemberWhenClassesMatch(t *testing.T) {
	a, err := trampoline.NewBridgeCall("a/Caller", "a/Target", "alpha", methodDesc(t, "()V"), false)
	require.NoError(t, err)
	b, err := trampoline.NewBridgeCall("a/Caller", "a/Target", "beta", methodDesc(t, "()V"), false)
	require.NoError(t, err)

	assert.True(t, trampoline.Less(a, b))
	assert.False(t, trampoline.Less(b, a))
}

func TestCompareOrdersByKindFirst(t *testing.T) {
	inv, err := trampoline.NewInvoke(trampoline.InvokeVirtual, "a/Caller", "a/Target", "z", methodDesc(t, "()V"), false)
	require.NoError(t, err)
	field, err := trampoline.NewFieldAccess(trampoline.GetField, "a/Caller", "a/Target", "a", fieldDesc(t, "I"))
	require.NoError(t, err)

	assert.True(t, trampoline.Less(inv, field), "InvokeVirtual sorts before GetField")
}

func TestEqualComparesByValueNotPointer(t *testing.T) {
	a, err := trampoline.NewInvoke(trampoline.InvokeStatic, "a/Caller", "a/Target", "run", methodDesc(t, "()V"), true)
	require.NoError(t, err)
	b, err := trampoline.NewInvoke(trampoline.InvokeStatic, "a/Caller", "a/Target", "run", methodDesc(t, "()V"), true)
	require.NoError(t, err)

	assert.True(t, trampoline.Equal(a, b), "distinct *MethodDescriptor values with equal content are still Equal")
}

// Invariant 7: mangling is injective.
func TestMangleIsInjectiveAcrossKindsAndClasses(t *testing.T) {
	cases := []trampoline.Trampoline{}
	add := func(tr trampoline.Trampoline, err error) {
		require.NoError(t, err)
		cases = append(cases, tr)
	}
	add(trampoline.NewInvoke(trampoline.InvokeVirtual, "a/C", "a/T", "run", methodDesc(t, "()V"), false))
	add(trampoline.NewInvoke(trampoline.InvokeSpecial, "a/C", "a/T", "run", methodDesc(t, "()V"), false))
	add(trampoline.NewInvoke(trampoline.InvokeStatic, "a/C", "a/T", "run", methodDesc(t, "()V"), true))
	add(trampoline.NewFieldAccess(trampoline.GetField, "a/C", "a/T", "run", fieldDesc(t, "I")))
	add(trampoline.NewFieldAccess(trampoline.PutField, "a/C", "a/T", "run", fieldDesc(t, "I")))
	add(trampoline.NewCheckcast("a/C", "a/T"))
	add(trampoline.NewCheckcast("a/C_", "a/T"))
	add(trampoline.NewCheckcast("a/C", "a/T_"))
	add(trampoline.NewBridgeCall("a/C", "a/T", "ru_n", methodDesc(t, "()V"), false))
	add(trampoline.NewBridgeCall("a/C", "a/T", "ru__n", methodDesc(t, "()V"), false))

	seen := map[string]int{}
	for i, c := range cases {
		sym := trampoline.Mangle(c)
		if prev, ok := seen[sym]; ok {
			t.Fatalf("mangle collision between case %d and case %d: %q", prev, i, sym)
		}
		seen[sym] = i
	}
}

func TestMangleIsStableAndSymbolSafe(t *testing.T) {
	tr, err := trampoline.NewInvoke(trampoline.InvokeVirtual, "game/Foo", "game/Bar", "tick", methodDesc(t, "(I)V"), false)
	require.NoError(t, err)

	a := trampoline.Mangle(tr)
	b := trampoline.Mangle(tr)
	assert.Equal(t, a, b)
	for _, r := range a {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '$'
		assert.True(t, ok, "character %q is not a valid linker symbol character", r)
	}
}

// Invariant 6: adding the same trampoline twice leaves the set unchanged.
func TestSetAddIsIdempotent(t *testing.T) {
	s := trampoline.NewSet()
	a, err := trampoline.NewInvoke(trampoline.InvokeVirtual, "a/C", "a/T", "run", methodDesc(t, "()V"), false)
	require.NoError(t, err)

	sym1 := s.Add(a)
	sym2 := s.Add(a)
	assert.Equal(t, sym1, sym2)
	assert.Equal(t, 1, s.Len())

	b, err := trampoline.NewInvoke(trampoline.InvokeVirtual, "a/C", "a/T", "run", methodDesc(t, "()V"), false)
	require.NoError(t, err)
	s.Add(b)
	assert.Equal(t, 1, s.Len(), "value-equal trampoline constructed separately still dedupes")
}

func TestSetSortedIsDeterministic(t *testing.T) {
	s := trampoline.NewSet()
	b, err := trampoline.NewBridgeCall("a/C", "a/T", "beta", methodDesc(t, "()V"), false)
	require.NoError(t, err)
	a, err := trampoline.NewBridgeCall("a/C", "a/T", "alpha", methodDesc(t, "()V"), false)
	require.NoError(t, err)
	s.Add(b)
	s.Add(a)

	sorted := s.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "alpha", sorted[0].MethodName)
	assert.Equal(t, "beta", sorted[1].MethodName)
}

func TestSetLookupBySymbol(t *testing.T) {
	s := trampoline.NewSet()
	tr, err := trampoline.NewCheckcast("a/C", "a/T")
	require.NoError(t, err)
	sym := s.Add(tr)

	got, ok := s.Lookup(sym)
	require.True(t, ok)
	assert.True(t, trampoline.Equal(tr, got))
}

func TestFunctionTypeInvokeMatchesMethodSignature(t *testing.T) {
	tri, err := target.Parse("x86_64-unknown-linux")
	require.NoError(t, err)
	m := typemapper.New(ir.NewTypes(), tri, nil)

	tr, err := trampoline.NewInvoke(trampoline.InvokeVirtual, "a/C", "a/T", "tick", methodDesc(t, "(I)V"), false)
	require.NoError(t, err)

	ft := trampoline.FunctionType(m, tr)
	require.Len(t, ft.Signature.Params, 3)
	assert.True(t, ir.IsPointer(ft.Signature.Params[0]))
	assert.True(t, ir.IsPointer(ft.Signature.Params[1]))
	assert.Equal(t, m.Types.Int32, ft.Signature.Params[2])
}

func TestFunctionTypeBridgeCallIncludesHandleEvenWhenStatic(t *testing.T) {
	tri, err := target.Parse("x86_64-unknown-linux")
	require.NoError(t, err)
	m := typemapper.New(ir.NewTypes(), tri, nil)

	tr, err := trampoline.NewBridgeCall("a/C", "a/T", "tick", methodDesc(t, "()V"), true)
	require.NoError(t, err)

	ft := trampoline.FunctionType(m, tr)
	require.Len(t, ft.Signature.Params, 2)
	assert.True(t, ir.IsPointer(ft.Signature.Params[0]), "EnvPtr")
	assert.True(t, ir.IsPointer(ft.Signature.Params[1]), "class handle, present despite Static")
}

func TestFunctionTypeCheckcastAndInstanceof(t *testing.T) {
	tri, err := target.Parse("x86_64-unknown-linux")
	require.NoError(t, err)
	m := typemapper.New(ir.NewTypes(), tri, nil)

	cc, err := trampoline.NewCheckcast("a/C", "a/T")
	require.NoError(t, err)
	ccType := trampoline.FunctionType(m, cc)
	assert.True(t, ir.IsPointer(ccType.Signature.Return))

	io, err := trampoline.NewInstanceof("a/C", "a/T")
	require.NoError(t, err)
	ioType := trampoline.FunctionType(m, io)
	assert.Equal(t, m.Types.Int32, ioType.Signature.Return)
}
