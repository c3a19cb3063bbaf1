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

// Package trampoline is the Trampoline Model: a family of tagged linkage
// records representing every cross-translation-unit action (a call, a field
// access, a class reference, a native entry) as a value, deduplicated into
// an ordered set keyed by a mangled, injective symbol name. It corresponds
// to gapil/compiler's callExtern machinery and mangling subpackages in the
// teacher, collapsed into the flat tagged-sum-type shape spec.md §9
// prescribes in place of a class hierarchy.
package trampoline

import "github.com/ashleyj/aurac/managed"

// Kind is the fixed enum of trampoline variants (spec.md §4.4).
type Kind int

const (
	InvokeVirtual Kind = iota
	InvokeSpecial
	InvokeStatic
	InvokeInterface
	GetField
	PutField
	GetStatic
	PutStatic
	LdcClass
	Checkcast
	Instanceof
	New
	NewArray
	BridgeCall
	NativeCall
)

func (k Kind) String() string {
	switch k {
	case InvokeVirtual:
		return "invoke-virtual"
	case InvokeSpecial:
		return "invoke-special"
	case InvokeStatic:
		return "invoke-static"
	case InvokeInterface:
		return "invoke-interface"
	case GetField:
		return "get-field"
	case PutField:
		return "put-field"
	case GetStatic:
		return "get-static"
	case PutStatic:
		return "put-static"
	case LdcClass:
		return "ldc-class"
	case Checkcast:
		return "checkcast"
	case Instanceof:
		return "instanceof"
	case New:
		return "new"
	case NewArray:
		return "new-array"
	case BridgeCall:
		return "bridge-call"
	case NativeCall:
		return "native-call"
	default:
		return "unknown-trampoline-kind"
	}
}

// isInvoke reports whether k is one of the four invoke-method kinds.
func (k Kind) isInvoke() bool {
	switch k {
	case InvokeVirtual, InvokeSpecial, InvokeStatic, InvokeInterface:
		return true
	default:
		return false
	}
}

// isFieldAccess reports whether k is one of the four field-access kinds.
func (k Kind) isFieldAccess() bool {
	switch k {
	case GetField, PutField, GetStatic, PutStatic:
		return true
	default:
		return false
	}
}

// isBridge reports whether k is BridgeCall or NativeCall, the two kinds
// that share the native function-type projection and carry a free-standing
// Static flag rather than deriving staticness from the kind itself.
func (k Kind) isBridge() bool {
	return k == BridgeCall || k == NativeCall
}

// Trampoline is the common record: spec.md §3's abstract base
// (calling-class, target-class) plus every field any concrete variant can
// use. Which of MethodName/MethodDescriptor/FieldName/FieldDescriptor/
// Static are populated - and required to be - is determined by Kind; see
// validate. This flat shape is the "tagged sum type... shared tuple becomes
// the common payload" restructuring spec.md §9 calls for in place of a
// class hierarchy.
type Trampoline struct {
	Kind             Kind
	CallingClass     string
	TargetClass      string
	MethodName       string
	MethodDescriptor *managed.MethodDescriptor
	FieldName        string
	FieldDescriptor  *managed.Descriptor
	Static           bool
}

func (t Trampoline) methodDescriptorString() string {
	if t.MethodDescriptor == nil {
		return ""
	}
	return t.MethodDescriptor.String()
}

func (t Trampoline) fieldDescriptorString() string {
	if t.FieldDescriptor == nil {
		return ""
	}
	return t.FieldDescriptor.String()
}

// memberName is MethodName or FieldName, whichever this kind uses; "" (the
// ordering and mangling "null") for kinds that use neither.
func (t Trampoline) memberName() string {
	if t.Kind.isFieldAccess() {
		return t.FieldName
	}
	return t.MethodName
}

// memberDescriptor is MethodDescriptor.String() or FieldDescriptor.String(),
// whichever this kind uses; "" for kinds that use neither.
func (t Trampoline) memberDescriptor() string {
	if t.Kind.isFieldAccess() {
		return t.fieldDescriptorString()
	}
	return t.methodDescriptorString()
}
