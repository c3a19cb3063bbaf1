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

// Package typemapper is the Managed-to-IR Type Mapper: it turns managed
// descriptors and managed.Class views into ir.Type values, sorts and lays
// out a class's fields into concrete packed structures, and builds the
// function signature for a method descriptor including its implicit
// leading parameters. It is the largest component of the core (spec.md §2
// budgets it at roughly 45% of the implementation), mirroring the span of
// gapil/compiler/types.go and gapil/compiler/storagetypes.go in the teacher.
package typemapper

import (
	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/layout"
	"github.com/ashleyj/aurac/managed"
	"github.com/ashleyj/aurac/target"
)

// Mapper ties together the IR type registry, the layout engine for one
// target triple, and the class table, the way gapil/compiler's Types struct
// ties codegen.Types to a device.ABI and a semantic.API set.
type Mapper struct {
	Types   *ir.Types
	Engine  *layout.Engine
	Triple  target.Triple
	Classes managed.ClassTable

	// EmitPacked forces StaticLayout's {header, statics} wrapper to use
	// packed layout rules too, instead of the natural layout it otherwise
	// defaults to. cmd/aurac's layout subcommand sets it from its
	// --emit-packed flag; left false gives the wrapper's natural-layout
	// behavior.
	EmitPacked bool

	object *ir.StructType
}

// New builds a Mapper for one target triple and one class table. classes may
// be nil for callers that only need descriptor-to-IR mapping and have no
// class hierarchy to resolve (e.g. a CLI subcommand dumping a bare
// descriptor).
func New(types *ir.Types, triple target.Triple, classes managed.ClassTable) *Mapper {
	return &Mapper{
		Types:   types,
		Engine:  layout.New(triple),
		Triple:  triple,
		Classes: classes,
	}
}

// objectType returns the canonical, intentionally-opaque "managed object"
// structure that every reference and array descriptor maps a pointer to.
// Its body is never defined here: a managed object's true layout is decided
// by the instance-layout builder per concrete class, and an unresolved
// reference (spec.md §9's open question) only ever needs a pointer *to*
// something, never the pointee's size.
func (m *Mapper) objectType() *ir.StructType {
	if m.object == nil {
		m.object = m.Types.DeclareStruct("Object")
	}
	return m.object
}

// ObjectPointer returns Pointer(Object), the IR type every managed
// reference and array value maps to.
func (m *Mapper) ObjectPointer() ir.Type {
	return m.Types.Pointer(m.objectType())
}

// StorageType returns the IR type used to store a value of descriptor d in
// a field: sub-word primitives keep their narrow width (spec.md §4.3.1).
func (m *Mapper) StorageType(d *managed.Descriptor) ir.Type {
	switch d.Kind {
	case managed.Boolean, managed.Byte:
		return m.Types.Int8
	case managed.Short, managed.Char:
		return m.Types.Int16
	case managed.Int:
		return m.Types.Int32
	case managed.Long:
		return m.Types.Int64
	case managed.Float:
		return m.Types.Float
	case managed.Double:
		return m.Types.Double
	case managed.Void:
		return m.Types.Void
	case managed.Reference, managed.Array:
		return m.ObjectPointer()
	default:
		return m.Types.Void
	}
}

// LocalType returns the IR type used for a value of descriptor d on the
// evaluation stack or in a local slot: Boolean, Byte, Short and Char widen
// to Integer(32) (spec.md §4.3.1); everything else matches StorageType.
func (m *Mapper) LocalType(d *managed.Descriptor) ir.Type {
	switch d.Kind {
	case managed.Boolean, managed.Byte, managed.Short, managed.Char:
		return m.Types.Int32
	default:
		return m.StorageType(d)
	}
}

// SignExtend reports whether loading a local value of descriptor d from
// storage is a sign extension. Char is the only unsigned primitive (spec.md
// §4.3.1): it zero-extends, while Boolean, Byte and Short sign-extend. The
// result is meaningless (and false) for a descriptor that does not widen.
func SignExtend(d *managed.Descriptor) bool {
	switch d.Kind {
	case managed.Char:
		return false
	case managed.Boolean, managed.Byte, managed.Short:
		return true
	default:
		return false
	}
}
