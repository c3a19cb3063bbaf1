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

// IsEnum reports whether c's direct superclass is the managed enum root
// (spec.md §4.3.6). Delegates to managed.IsEnum; exposed here too since
// typemapper is where callers otherwise reach for class predicates.
func (m *Mapper) IsEnum(c *managed.Class) bool { return managed.IsEnum(c) }

// IsNativeObject reports whether c transitively extends the native-object
// marker class (spec.md §4.3.6).
func (m *Mapper) IsNativeObject(c *managed.Class) bool {
	return managed.IsNativeObject(m.Classes, c)
}

// IsStruct reports whether c transitively extends the value-struct marker
// class (spec.md §4.3.6).
func (m *Mapper) IsStruct(c *managed.Class) bool {
	return managed.IsStruct(m.Classes, c)
}

// EnumUnderlyingType returns the IR type an enum class's ordinal is stored
// as. Enum support is a supplemented feature (SPEC_FULL.md): the distilled
// spec names is-enum as a predicate but leaves the mapping implicit, so
// this follows gapil/compiler/types.go's handling of *semantic.Enum, which
// maps an enum straight through to its underlying numeric type rather than
// giving it an aggregate representation of its own.
func (m *Mapper) EnumUnderlyingType(c *managed.Class) ir.Type {
	return m.Types.Int32
}
