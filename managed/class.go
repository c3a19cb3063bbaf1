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

package managed

// Field is a managed field record: spec.md §3's
// (owner-class, name, type-descriptor, static?, final?, volatile?) tuple.
type Field struct {
	OwnerClass string
	Name       string
	Descriptor *Descriptor
	Static     bool
	Final      bool
	Volatile   bool
}

// Method is a managed method record, carrying enough of a method's
// signature and modifiers for typemapper to build both its managed and
// native function types (spec.md §4.3.5).
type Method struct {
	OwnerClass string
	Name       string
	Descriptor *MethodDescriptor
	Static     bool
	Native     bool
}

// Class is a read-only view of one entry in the front end's class table:
// spec.md §3's (internal-name, superclass?, fields) tuple, extended with
// the method list typemapper needs to build signatures. Superclass is ""
// for a class with no superclass (only java/lang/Object and the handful of
// interfaces reachable from it should have no superclass in a well formed
// hierarchy; the mapper treats an empty Superclass as the root).
type Class struct {
	InternalName string
	Superclass   string
	Fields       []Field
	Methods      []Method
}

// InstanceFields returns the subset of c.Fields that are not static.
func (c *Class) InstanceFields() []Field {
	var out []Field
	for _, f := range c.Fields {
		if !f.Static {
			out = append(out, f)
		}
	}
	return out
}

// StaticFields returns the subset of c.Fields that are static.
func (c *Class) StaticFields() []Field {
	var out []Field
	for _, f := range c.Fields {
		if f.Static {
			out = append(out, f)
		}
	}
	return out
}

// ClassTable is a read-only lookup from internal name to Class, standing in
// for the front end's class table (spec.md §3). Lookup walks it to answer
// superclass-chain questions (is-enum, is-native-object, is-struct,
// instance-layout's parent walk) without needing every caller to thread a
// map argument through.
type ClassTable map[string]*Class

// Lookup returns the class named name, and whether it was found.
func (t ClassTable) Lookup(name string) (*Class, bool) {
	c, ok := t[name]
	return c, ok
}

// EnumRootClass is the well-known internal name of the managed enum base
// class. is-enum (spec.md §4.3.6) tests direct inheritance from exactly
// this name, one level only - a class whose superclass's superclass is the
// enum root is not itself considered an enum by this rule.
const EnumRootClass = "java/lang/Enum"

// IsEnum reports whether c's direct superclass is EnumRootClass.
func IsEnum(c *Class) bool {
	return c.Superclass == EnumRootClass
}

// isMarked walks the superclass chain of c looking for markerClass,
// transitively. It is the shared implementation behind IsNativeObject and
// IsStruct, which differ only in which marker class name they look for.
func isMarked(classes ClassTable, c *Class, markerClass string) bool {
	seen := map[string]bool{}
	for c != nil {
		if c.InternalName == markerClass {
			return true
		}
		if c.Superclass == markerClass {
			return true
		}
		if seen[c.InternalName] {
			// A cycle in the class table is a front-end bug, not something
			// this read-only view should loop forever trying to resolve.
			return false
		}
		seen[c.InternalName] = true
		next, ok := classes.Lookup(c.Superclass)
		if !ok {
			return false
		}
		c = next
	}
	return false
}

// NativeObjectMarkerClass is the internal name transitively-extending
// classes are considered "native objects" by IsNativeObject.
const NativeObjectMarkerClass = "aurac/runtime/NativeObject"

// StructMarkerClass is the internal name transitively-extending classes are
// considered value "structs" by IsStruct.
const StructMarkerClass = "aurac/runtime/Struct"

// IsNativeObject reports whether c transitively extends
// NativeObjectMarkerClass (spec.md §4.3.6).
func IsNativeObject(classes ClassTable, c *Class) bool {
	return isMarked(classes, c, NativeObjectMarkerClass)
}

// IsStruct reports whether c transitively extends StructMarkerClass
// (spec.md §4.3.6).
func IsStruct(classes ClassTable, c *Class) bool {
	return isMarked(classes, c, StructMarkerClass)
}

// SuperclassChain returns c and each of its ancestors up to and including
// the root (the first class in the chain with an empty Superclass), nearest
// first. It is used by typemapper's recursive instance-layout builder
// (spec.md §4.3.3), which needs the chain root-first; reverse the result for
// that order.
func SuperclassChain(classes ClassTable, c *Class) []*Class {
	chain := []*Class{c}
	seen := map[string]bool{c.InternalName: true}
	for c.Superclass != "" {
		next, ok := classes.Lookup(c.Superclass)
		if !ok || seen[next.InternalName] {
			break
		}
		chain = append(chain, next)
		seen[next.InternalName] = true
		c = next
	}
	return chain
}
