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
	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/managed"
)

// classHeaderType is the shared structure every class object begins with.
// Its exact contents are not dictated by spec.md - the runtime that
// consumes it is explicitly out of this core's scope (spec.md §1) - but a
// concrete shape is needed to make static layout computable end to end, so
// this one carries the minimum a native runtime needs to resolve a class at
// a pointer: a vtable slot, a pointer to the class's own name (for
// diagnostics and reflection-adjacent native calls), and the instance size
// the allocator should use. It is interned once and shared by every class's
// static layout.
func (m *Mapper) classHeaderType() *ir.StructType {
	const name = "ClassHeader"
	if existing, ok := m.Types.LookupStruct(name); ok && existing.Kind() == ir.StructKind {
		return existing
	}
	return m.Types.Struct(name, true,
		ir.Field{Name: "vtable", Type: m.ObjectPointer()},
		ir.Field{Name: "name", Type: m.Types.Pointer(m.Types.Int8)},
		ir.Field{Name: "instanceSize", Type: m.Types.Int32},
	)
}

// StaticLayout computes the packed static (class-side) field structure for
// c using the same ordering and padding rules as InstanceLayout but without
// a parent chain (spec.md §4.3.4), then wraps it in a two-field structure
// {ClassHeader, statics} so every emitted class object begins with the
// shared header. The wrapper itself uses natural (non-packed) layout by
// default, so the layout engine inserts whatever padding the packed header
// leaves before statics (the header's size is not always a multiple of
// statics' alignment) without explicit splicing. Setting
// m.EmitPacked switches the wrapper to packed layout too, for diffing
// against the natural-layout dump.
func (m *Mapper) StaticLayout(c *managed.Class) (*ir.StructType, error) {
	staticsName := c.InternalName + "$Static"
	var statics *ir.StructType
	if existing, ok := m.Types.LookupStruct(staticsName); ok && existing.Kind() == ir.StructKind {
		statics = existing
	} else {
		sorted := m.SortFields(c.StaticFields())
		fields, _, _ := m.packedLayout(nil, sorted)
		if fields == nil {
			fields = []ir.Field{}
		}
		statics = m.Types.Struct(staticsName, true, fields...)
	}

	wrapperName := c.InternalName + "$Class"
	if existing, ok := m.Types.LookupStruct(wrapperName); ok && existing.Kind() == ir.StructKind {
		return existing, nil
	}
	return m.Types.Struct(wrapperName, m.EmitPacked,
		ir.Field{Name: "header", Type: m.classHeaderType()},
		ir.Field{Name: "statics", Type: statics},
	), nil
}
