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

// Package layout is the Data Layout Engine: given a target triple, it
// answers store-size, alloc-size and alignment for any ir.Type. It plays the
// role core/codegen/datalayout.go plays for the teacher's LLVM-backed types,
// but computes the three quantities directly instead of emitting an LLVM
// datalayout string for an external backend to interpret - this core has no
// LLVM context to hand that string to (see ir's package doc).
package layout

import (
	"fmt"

	"github.com/ashleyj/aurac"
	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/target"
)

// Engine computes sizes and alignments for one fixed target triple. All of
// its methods are pure functions of their ir.Type argument and the triple
// fixed at construction (spec.md §5): an *Engine is trivially safe to share
// read-only across goroutines.
type Engine struct {
	triple target.Triple
}

// New builds a layout Engine for triple.
func New(triple target.Triple) *Engine {
	return &Engine{triple: triple}
}

// Triple returns the target triple this engine was constructed for.
func (e *Engine) Triple() target.Triple { return e.triple }

// StoreSize returns the number of bytes a naive load or store of a value of
// this type touches.
func (e *Engine) StoreSize(ty ir.Type) int {
	switch t := ty.(type) {
	case ir.VoidType:
		return 0
	case ir.IntegerType:
		return (t.Bits + 7) / 8
	case ir.FloatType:
		return 4
	case ir.DoubleType:
		return 8
	case ir.PointerType:
		return e.triple.PointerBytes()
	case ir.ArrayType:
		return e.AllocSize(t.Elem) * t.Count
	case *ir.StructType:
		return e.structSize(t)
	case *ir.FunctionType:
		aurac.Fail("layout: function type %q has no storage size", t.TypeName())
	default:
		aurac.Fail("layout: unknown IR type tag %T", ty)
	}
	panic("unreachable")
}

// AllocSize returns the store size rounded up to this type's alignment: the
// spacing between consecutive elements of an array of this type.
func (e *Engine) AllocSize(ty ir.Type) int {
	size := e.StoreSize(ty)
	align := e.Alignment(ty)
	if align <= 1 {
		return size
	}
	return roundUp(size, align)
}

// Alignment returns the byte boundary a value of this type must start on.
// On 32-bit ARM, Integer(64) and Double are forced to 8-byte alignment
// instead of the generic 32-bit rule's 4 (spec.md §4.3.3's ARM exception).
// Because structAlignment and structSize derive a structure's own alignment
// and field offsets from this method, the override propagates transitively
// through any nesting depth - direct fields, __base-folded parent fields,
// and fields of a field's own struct type all see the same 8-byte rule
// without each caller having to know about it.
func (e *Engine) Alignment(ty ir.Type) int {
	switch t := ty.(type) {
	case ir.VoidType:
		return 1
	case ir.IntegerType:
		return e.integerAlignment(t.Bits)
	case ir.FloatType:
		return 4
	case ir.DoubleType:
		if e.triple.LongLongAlignOnARM32() {
			return 8
		}
		if e.triple.Is32Bit() {
			return 4
		}
		return 8
	case ir.PointerType:
		return e.triple.PointerBytes()
	case ir.ArrayType:
		return e.Alignment(t.Elem)
	case *ir.StructType:
		return e.structAlignment(t)
	case *ir.FunctionType:
		aurac.Fail("layout: function type %q has no alignment", t.TypeName())
	default:
		aurac.Fail("layout: unknown IR type tag %T", ty)
	}
	panic("unreachable")
}

func (e *Engine) integerAlignment(bits int) int {
	switch bits {
	case 1, 8:
		return 1
	case 16:
		return 2
	case 32:
		return 4
	case 64:
		if e.triple.LongLongAlignOnARM32() {
			return 8
		}
		if e.triple.Is32Bit() {
			return 4
		}
		return 8
	default:
		// Unusual bit widths (e.g. a packed bitfield) align to their
		// smallest containing byte count, capped at the pointer width.
		bytes := (bits + 7) / 8
		if bytes > e.triple.PointerBytes() {
			return e.triple.PointerBytes()
		}
		return bytes
	}
}

// structAlignment is the maximum alignment of any field, or 1 for an empty
// structure (spec.md §8 invariant 2). A packed structure's declared
// alignment is still its field's natural maximum: Packed only suppresses
// automatic padding, it does not change what alignment the aggregate
// itself requires.
func (e *Engine) structAlignment(t *ir.StructType) int {
	align := 1
	for _, f := range t.Fields() {
		if a := e.Alignment(f.Type); a > align {
			align = a
		}
	}
	return align
}

// structSize walks the fields in declared order. For a natural (unpacked)
// structure each field is pre-padded to its own alignment and a trailing pad
// brings the total to a multiple of the structure's alignment (spec.md
// §4.2). For a packed structure no automatic padding is inserted at all:
// the caller is expected to have spliced explicit byte-pad fields (as
// typemapper's instance/static layout builders do), so structSize simply
// sums field store sizes.
func (e *Engine) structSize(t *ir.StructType) int {
	if t.Kind() == ir.OpaqueKind {
		aurac.Fail("layout: structure %q is declared but not defined", t.TypeName())
	}
	if t.Packed() {
		size := 0
		for _, f := range t.Fields() {
			size += e.StoreSize(f.Type)
		}
		return size
	}
	offset := 0
	for _, f := range t.Fields() {
		offset = roundUp(offset, e.Alignment(f.Type))
		offset += e.StoreSize(f.Type)
	}
	return roundUp(offset, e.structAlignment(t))
}

// FieldOffset returns the byte offset of the named field within t, applying
// the same natural-layout padding rule as structSize. Calling FieldOffset on
// a packed structure returns the raw cumulative sum of preceding field store
// sizes, since a packed structure carries no implicit padding to account
// for.
func (e *Engine) FieldOffset(t *ir.StructType, name string) (int, error) {
	idx := t.FieldIndex(name)
	if idx < 0 {
		return 0, fmt.Errorf("layout: structure %q has no field %q", t.TypeName(), name)
	}
	offset := 0
	for i, f := range t.Fields() {
		if !t.Packed() {
			offset = roundUp(offset, e.Alignment(f.Type))
		}
		if i == idx {
			return offset, nil
		}
		offset += e.StoreSize(f.Type)
	}
	panic("unreachable")
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}
