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

// Package ir implements the closed algebra of low-level assembly types that
// the rest of aurac lowers managed (class-file) types onto: integers of
// fixed width, floating point, pointers, opaque/structure aggregates and
// function signatures.
//
// Values are pure: construction never performs I/O, and two Type values with
// the same tag and payload are interchangeable. Named structures and
// function signatures are interned by a Types registry so that
// self-referential (cyclic) layouts - a class holding a pointer to its own
// type - can be expressed without an owning reference cycle: edges between
// aggregate types carry a *StructType pointer into the registry's arena, not
// a value copy.
package ir

import (
	"fmt"
	"strings"
)

// Kind discriminates the variants of the IR type algebra. It is the "stable
// token derived from the tag" referred to by the field-ordering tie-break
// rule in typemapper: its String() form, not any Go reflect.Type name, is
// the canonical spelling used wherever a type needs a short, stable name.
type Kind int

const (
	Void Kind = iota
	IntegerKind
	FloatKind
	DoubleKind
	PointerKind
	OpaqueKind
	StructKind
	FunctionKind
	ArrayKind
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case IntegerKind:
		return "integer"
	case FloatKind:
		return "float"
	case DoubleKind:
		return "double"
	case PointerKind:
		return "pointer"
	case OpaqueKind:
		return "opaque"
	case StructKind:
		return "struct"
	case FunctionKind:
		return "function"
	case ArrayKind:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Type is a value in the IR type algebra. All Type implementations live in
// this package: the unexported sizeInBits method keeps the set of variants
// closed, exactly as core/codegen's Type interface does for its llvmTy()
// method.
type Type interface {
	fmt.Stringer

	// Kind reports which algebra variant this value is.
	Kind() Kind

	// TypeName is the canonical name used in mangling and diagnostics.
	TypeName() string

	// sizeInBits returns the natural scalar bit width, or 0 for a
	// target-dependent or aggregate type (pointers, structures, functions,
	// arrays) whose size can only be answered by a layout.Engine.
	sizeInBits() int
}

// VoidType is the type of a value that carries no data.
type VoidType struct{}

func (VoidType) Kind() Kind        { return Void }
func (VoidType) TypeName() string  { return "void" }
func (VoidType) String() string    { return "void" }
func (VoidType) sizeInBits() int   { return 0 }

// IntegerType is a two's-complement integer of a fixed bit width. Signedness
// is not part of the IR type algebra (spec.md §3): it is a property of the
// operation performed on the value, decided by typemapper when widening
// sub-word managed types.
type IntegerType struct {
	Bits int
}

func (t IntegerType) Kind() Kind       { return IntegerKind }
func (t IntegerType) TypeName() string { return fmt.Sprintf("i%d", t.Bits) }
func (t IntegerType) String() string   { return t.TypeName() }
func (t IntegerType) sizeInBits() int  { return t.Bits }

// FloatType is an IEEE-754 32-bit float.
type FloatType struct{}

func (FloatType) Kind() Kind       { return FloatKind }
func (FloatType) TypeName() string { return "float" }
func (FloatType) String() string   { return "float" }
func (FloatType) sizeInBits() int  { return 32 }

// DoubleType is an IEEE-754 64-bit float.
type DoubleType struct{}

func (DoubleType) Kind() Kind       { return DoubleKind }
func (DoubleType) TypeName() string { return "double" }
func (DoubleType) String() string   { return "double" }
func (DoubleType) sizeInBits() int  { return 64 }

// PointerType points to values of Elem. Pointer carries its pointee so that
// type predicates (IsPointer, the Elem itself) can round-trip without a
// separate side table, mirroring core/codegen's Pointer{Element Type}.
type PointerType struct {
	Elem Type
}

func (t PointerType) Kind() Kind       { return PointerKind }
func (t PointerType) TypeName() string { return "*" + t.Elem.TypeName() }
func (t PointerType) String() string   { return "*" + t.Elem.String() }
func (t PointerType) sizeInBits() int  { return 0 } // target-dependent; see layout.Engine

// ArrayType is a fixed-length sequence of Elem.
type ArrayType struct {
	Elem  Type
	Count int
}

func (t ArrayType) Kind() Kind       { return ArrayKind }
func (t ArrayType) TypeName() string { return fmt.Sprintf("%s[%d]", t.Elem.TypeName(), t.Count) }
func (t ArrayType) String() string   { return t.TypeName() }
func (t ArrayType) sizeInBits() int  { return 0 }

// Field is one member of a StructType, in declaration order.
type Field struct {
	Name string
	Type Type
}

// StructType is a named or anonymous aggregate. A StructType with a nil
// Fields slice is "declared but not defined" (spec.md's Opaque(name)): its
// Kind reports OpaqueKind until SetBody binds a field list, at which point
// the same pointer's Kind reports StructKind. This is how a class can hold
// a pointer to its own type: the forward declaration is handed out before
// the field list - which may include a PointerType pointing right back at
// this StructType - is known.
//
// When Packed is true no inter-field padding is inserted automatically by
// anything that walks this type; layout.Engine still reports each field's
// natural alignment, but a packed structure's own store size is simply the
// sum of its field sizes plus whatever pad fields the caller spliced in
// as explicit fields (see typemapper's instance-layout builder).
type StructType struct {
	name   string
	fields []Field
	packed bool
}

func (t *StructType) Kind() Kind {
	if t.fields == nil {
		return OpaqueKind
	}
	return StructKind
}

func (t *StructType) TypeName() string {
	if t.name != "" {
		return t.name
	}
	return fmt.Sprintf("anon%p", t)
}

func (t *StructType) String() string {
	if t.Kind() == OpaqueKind {
		return fmt.Sprintf("opaque %s", t.TypeName())
	}
	parts := make([]string, len(t.fields))
	for i, f := range t.fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.TypeName())
	}
	kw := "struct"
	if t.packed {
		kw = "packed struct"
	}
	return fmt.Sprintf("%s %s{%s}", kw, t.TypeName(), strings.Join(parts, ", "))
}

func (t *StructType) sizeInBits() int { return 0 }

// Name returns the structure's declared name, or "" for an anonymous struct.
func (t *StructType) Name() string { return t.name }

// Packed reports whether this structure suppresses automatic padding.
func (t *StructType) Packed() bool { return t.packed }

// Fields returns the structure's field list. It is nil until SetBody is
// called (i.e. while the structure is still an opaque forward declaration).
func (t *StructType) Fields() []Field { return t.fields }

// FieldIndex returns the index of the named field, or -1 if absent.
func (t *StructType) FieldIndex(name string) int {
	for i, f := range t.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// SetBody binds the field list of a previously-declared structure. It may
// only be called once: redefinition with a different body is a programmer
// error and panics, matching core/codegen's struct_ redeclaration check.
func (t *StructType) SetBody(packed bool, fields ...Field) *StructType {
	if t.fields != nil {
		panic(fmt.Errorf("ir: structure %q already defined", t.TypeName()))
	}
	for i, f := range fields {
		if f.Type == nil {
			panic(fmt.Errorf("ir: field %q (%d) of %q has a nil type", f.Name, i, t.TypeName()))
		}
	}
	t.packed = packed
	t.fields = fields
	if t.fields == nil {
		t.fields = []Field{}
	}
	return t
}

// Signature describes a function's calling shape, independent of any
// particular *FunctionType instance - used both as the payload of
// FunctionType and as the mangling/trampoline projection target.
type Signature struct {
	Params   []Type
	Return   Type
	Variadic bool
}

func (s Signature) key() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.TypeName()
	}
	variadic := ""
	if s.Variadic {
		variadic = ", ..."
	}
	ret := "void"
	if s.Return != nil {
		ret = s.Return.TypeName()
	}
	return fmt.Sprintf("(%s%s)%s", strings.Join(parts, ", "), variadic, ret)
}

func (s Signature) String() string { return s.key() }

// FunctionType is the type of a function value or trampoline stub.
type FunctionType struct {
	Signature Signature
}

func (t *FunctionType) Kind() Kind       { return FunctionKind }
func (t *FunctionType) TypeName() string { return t.Signature.key() }
func (t *FunctionType) String() string   { return t.Signature.key() }
func (t *FunctionType) sizeInBits() int  { return 0 }

// IsInteger reports whether ty is an IntegerType.
func IsInteger(ty Type) bool { _, ok := ty.(IntegerType); return ok }

// IsPointer reports whether ty is a PointerType.
func IsPointer(ty Type) bool { _, ok := ty.(PointerType); return ok }

// IsStruct reports whether ty is a (possibly still opaque) *StructType.
func IsStruct(ty Type) bool { _, ok := ty.(*StructType); return ok }

// IsFloatingPoint reports whether ty is Float or Double.
func IsFloatingPoint(ty Type) bool {
	switch ty.(type) {
	case FloatType, DoubleType:
		return true
	default:
		return false
	}
}

// Equal reports whether a and b are the same type under spec.md's
// structural-equality invariant: equal tag, equal payload, recursively, with
// named structures compared by name (not by recursing into their bodies)
// once they carry one - this is what makes Equal safe to call on
// self-referential structures without looping forever.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case VoidType:
		return true
	case IntegerType:
		return av.Bits == b.(IntegerType).Bits
	case FloatType, DoubleType:
		return true
	case PointerType:
		return Equal(av.Elem, b.(PointerType).Elem)
	case ArrayType:
		bv := b.(ArrayType)
		return av.Count == bv.Count && Equal(av.Elem, bv.Elem)
	case *StructType:
		bv := b.(*StructType)
		if av == bv {
			return true
		}
		if av.name != "" || bv.name != "" {
			return av.name == bv.name
		}
		if len(av.fields) != len(bv.fields) || av.packed != bv.packed {
			return false
		}
		for i := range av.fields {
			if av.fields[i].Name != bv.fields[i].Name || !Equal(av.fields[i].Type, bv.fields[i].Type) {
				return false
			}
		}
		return true
	case *FunctionType:
		bv := b.(*FunctionType)
		if av == bv {
			return true
		}
		return av.Signature.key() == bv.Signature.key()
	default:
		return false
	}
}
