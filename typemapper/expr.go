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

package typemapper

import (
	"fmt"

	"github.com/ashleyj/aurac"
	"github.com/ashleyj/aurac/ir"
)

// ExprKind discriminates the symbolic constant expressions SizeOf, OffsetOf
// and FieldPointer build.
type ExprKind int

const (
	// SizeOfExpr is the "null pointer indexing" trick: ptrtoint(getelementptr
	// Type, Type* null, i32 1) - the size of Type as a link-time constant.
	SizeOfExpr ExprKind = iota
	// OffsetOfExpr is ptrtoint(getelementptr Type, Type* null, i32 0, idx...)
	// - the byte offset of a nested field as a link-time constant.
	OffsetOfExpr
	// FieldPointerExpr is bitcast base to i8*; gep by byte-offset; bitcast to
	// field-ty* - a three-instruction address computation.
	FieldPointerExpr
)

// Expr is a deferred address or size computation expressed symbolically,
// the way gapil's codegen builds a GEP-against-null expression instead of
// computing an offset on the host and baking in the resulting number
// (spec.md §4.3.6). Resolving an Expr to a host-side int (via Resolve) is
// provided for tests and diagnostics; the backend
// that actually emits code is expected to lower the Expr to real IR
// instructions without ever needing the host number, which is the whole
// point of keeping these as symbolic constants rather than plain ints.
type Expr struct {
	Kind      ExprKind
	Type      ir.Type
	Indices   []int
	FieldType ir.Type // only set for FieldPointerExpr
}

// SizeOf builds the symbolic size-of expression for ty.
func SizeOf(ty ir.Type) Expr {
	return Expr{Kind: SizeOfExpr, Type: ty}
}

// OffsetOf builds the symbolic offset-of expression for the field path
// indices within ty (a structure, possibly nested via further structure
// fields).
func OffsetOf(ty ir.Type, indices ...int) Expr {
	return Expr{Kind: OffsetOfExpr, Type: ty, Indices: indices}
}

// FieldPointer builds the symbolic field-pointer expression: starting from
// a value of type base, step to the field at indices and produce a pointer
// of type fieldTy to it.
func FieldPointer(base ir.Type, indices []int, fieldTy ir.Type) Expr {
	return Expr{Kind: FieldPointerExpr, Type: base, Indices: indices, FieldType: fieldTy}
}

// Resolve evaluates e against m's layout engine, returning the host-side
// integer it denotes. This is a convenience for tests: it does not
// participate in the compiled output, which carries the unresolved Expr
// forward to the (out-of-scope) code generator instead.
func (m *Mapper) Resolve(e Expr) (int, error) {
	switch e.Kind {
	case SizeOfExpr:
		return m.Engine.AllocSize(e.Type), nil
	case OffsetOfExpr:
		return m.resolveOffset(e.Type, e.Indices)
	case FieldPointerExpr:
		byteOffset, err := m.resolveOffset(e.Type, e.Indices)
		if err != nil {
			return 0, err
		}
		return byteOffset, nil
	default:
		aurac.Fail("typemapper: unknown expr kind %d", int(e.Kind))
		panic("unreachable")
	}
}

func (m *Mapper) resolveOffset(ty ir.Type, indices []int) (int, error) {
	offset := 0
	cur := ty
	for _, idx := range indices {
		s, ok := cur.(*ir.StructType)
		if !ok {
			return 0, fmt.Errorf("typemapper: offset index into non-structure type %q", cur.TypeName())
		}
		fields := s.Fields()
		if idx < 0 || idx >= len(fields) {
			return 0, fmt.Errorf("typemapper: field index %d out of range for %q", idx, s.TypeName())
		}
		fieldOffset, err := m.Engine.FieldOffset(s, fields[idx].Name)
		if err != nil {
			return 0, err
		}
		offset += fieldOffset
		cur = fields[idx].Type
	}
	return offset, nil
}
