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
	"github.com/ashleyj/aurac/managed"
)

// InstanceLayout computes the packed instance structure for c, recursing up
// the superclass chain first so that each level's fields are appended after
// its parent's full layout, tail-padded to the new level's most strict
// field (spec.md §4.3.3). The structure is named "<internal-name>$Instance"
// and interned in m.Types, so requesting the same class's layout twice
// returns the same *ir.StructType.
func (m *Mapper) InstanceLayout(c *managed.Class) (*ir.StructType, error) {
	name := c.InternalName + "$Instance"
	if existing, ok := m.Types.LookupStruct(name); ok && existing.Kind() == ir.StructKind {
		return existing, nil
	}

	var lead *ir.Field
	if c.Superclass != "" {
		parent, ok := m.Classes.Lookup(c.Superclass)
		if !ok {
			return nil, aurac.Newf(aurac.UnsupportedType, c.InternalName,
				"superclass %q not found in class table", c.Superclass)
		}
		parentLayout, err := m.InstanceLayout(parent)
		if err != nil {
			return nil, err
		}
		lead = &ir.Field{Name: "__base", Type: parentLayout}
	}

	sorted := m.SortFields(c.InstanceFields())
	fields, _, _ := m.packedLayout(lead, sorted)
	if len(fields) == 0 {
		// An empty packed structure is legal (spec.md §8 invariant 2: its
		// alignment is 1). SetBody already turns a nil field slice into an
		// empty one; the empty, non-nil slice here just makes that explicit.
		fields = []ir.Field{}
	}
	return m.Types.Struct(name, true, fields...), nil
}

// InstanceFieldOffset returns the byte offset of field within c's instance
// layout, computed relative to the whole object (including any parent
// fields folded in via __base). An error is returned if field is not an
// instance field of c or any ancestor.
func (m *Mapper) InstanceFieldOffset(c *managed.Class, field string) (int, error) {
	layout, err := m.InstanceLayout(c)
	if err != nil {
		return 0, err
	}
	return m.resolveNestedOffset(layout, field)
}

// resolveNestedOffset searches a packed layout structure for field,
// descending into a "__base" field (the folded-in parent layout) when the
// field is not found at this level, and accumulating offsets along the way.
func (m *Mapper) resolveNestedOffset(s *ir.StructType, field string) (int, error) {
	offset, err := m.Engine.FieldOffset(s, field)
	if err == nil {
		return offset, nil
	}
	base := s.FieldIndex("__base")
	if base < 0 {
		return 0, fmt.Errorf("typemapper: field %q not found in %q", field, s.TypeName())
	}
	baseOffset, err := m.Engine.FieldOffset(s, "__base")
	if err != nil {
		return 0, err
	}
	nested, ok := s.Fields()[base].Type.(*ir.StructType)
	if !ok {
		return 0, fmt.Errorf("typemapper: %q's __base field is not a structure", s.TypeName())
	}
	inner, err := m.resolveNestedOffset(nested, field)
	if err != nil {
		return 0, err
	}
	return baseOffset + inner, nil
}
