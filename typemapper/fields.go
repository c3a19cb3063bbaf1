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
	"sort"

	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/managed"
)

// MappedField pairs a managed field with the IR storage type and field
// alignment it was mapped to, so that both the sorter and the layout
// builders can work from one value instead of recomputing the mapping.
type MappedField struct {
	Field     managed.Field
	Type      ir.Type
	Alignment int
}

// fieldAlignment is the alignment a field contributes to a class layout. It
// defers entirely to the layout engine, which already applies 32-bit ARM's
// Integer(64)/Double override (spec.md §4.3.3): computing the override here
// too, separately from layout.Engine.Alignment, is what let the two fall
// out of sync and made a built InstanceLayout/StaticLayout report the wrong
// alignment on ARM even though field sorting saw the right one.
func (m *Mapper) fieldAlignment(ty ir.Type) int {
	return m.Engine.Alignment(ty)
}

// mapFields maps each field's descriptor to its IR storage type and
// alignment, without sorting.
func (m *Mapper) mapFields(fields []managed.Field) []MappedField {
	out := make([]MappedField, len(fields))
	for i, f := range fields {
		ty := m.StorageType(f.Descriptor)
		out[i] = MappedField{Field: f, Type: ty, Alignment: m.fieldAlignment(ty)}
	}
	return out
}

// SortFields maps and orders fields per spec.md §4.3.2's canonical field
// order: references first, then by descending alignment, then by
// descending size, then ascending type-tag name, and finally ascending
// field name. The sort is stable, and is itself idempotent under repeated
// application (spec.md §8 invariant 5): sorting an already-sorted slice
// reproduces the same order.
func (m *Mapper) SortFields(fields []managed.Field) []MappedField {
	mapped := m.mapFields(fields)
	sort.SliceStable(mapped, func(i, j int) bool {
		return m.less(mapped[i], mapped[j])
	})
	return mapped
}

func (m *Mapper) less(a, b MappedField) bool {
	aRef, bRef := ir.IsPointer(a.Type), ir.IsPointer(b.Type)
	if aRef != bRef {
		return aRef // references sort first
	}
	if a.Alignment != b.Alignment {
		return a.Alignment > b.Alignment // higher alignment first
	}
	aSize, bSize := m.Engine.StoreSize(a.Type), m.Engine.StoreSize(b.Type)
	if aSize != bSize {
		return aSize > bSize // larger size first
	}
	aTag, bTag := a.Type.Kind().String(), b.Type.Kind().String()
	if aTag != bTag {
		return aTag < bTag // type-tag name ascending
	}
	return a.Field.Name < b.Field.Name // field name ascending
}
