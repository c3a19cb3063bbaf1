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

package trampoline

import (
	"github.com/ashleyj/aurac"
	"github.com/ashleyj/aurac/managed"
)

// NewInvoke builds an Invoke{Virtual,Special,Static,Interface} trampoline.
// kind must be one of the four invoke kinds; methodName and methodDesc must
// be non-empty. static should match what the kind already implies
// (InvokeStatic is static, the others are not) - it is still an explicit
// parameter because Trampoline carries Static uniformly for every kind.
func NewInvoke(kind Kind, callingClass, targetClass, methodName string, methodDesc *managed.MethodDescriptor, static bool) (t Trampoline, err error) {
	defer aurac.Guard(&err)
	t = Trampoline{
		Kind: kind, CallingClass: callingClass, TargetClass: targetClass,
		MethodName: methodName, MethodDescriptor: methodDesc, Static: static,
	}
	validate(t)
	return t, nil
}

// NewFieldAccess builds a GetField/PutField/GetStatic/PutStatic trampoline.
func NewFieldAccess(kind Kind, callingClass, targetClass, fieldName string, fieldDesc *managed.Descriptor) (t Trampoline, err error) {
	defer aurac.Guard(&err)
	t = Trampoline{
		Kind: kind, CallingClass: callingClass, TargetClass: targetClass,
		FieldName: fieldName, FieldDescriptor: fieldDesc,
		Static: kind == GetStatic || kind == PutStatic,
	}
	validate(t)
	return t, nil
}

// NewLdcClass builds a class-literal-reference trampoline.
func NewLdcClass(callingClass, targetClass string) (t Trampoline, err error) {
	return newClassRef(LdcClass, callingClass, targetClass)
}

// NewCheckcast builds a checkcast trampoline.
func NewCheckcast(callingClass, targetClass string) (t Trampoline, err error) {
	return newClassRef(Checkcast, callingClass, targetClass)
}

// NewInstanceof builds an instanceof trampoline.
func NewInstanceof(callingClass, targetClass string) (t Trampoline, err error) {
	return newClassRef(Instanceof, callingClass, targetClass)
}

// NewNew builds an object-allocation trampoline.
func NewNew(callingClass, targetClass string) (t Trampoline, err error) {
	return newClassRef(New, callingClass, targetClass)
}

// NewNewArray builds an array-allocation trampoline. targetClass is the
// element type's internal name for a reference array, or a primitive
// descriptor letter for a primitive array.
func NewNewArray(callingClass, targetClass string) (t Trampoline, err error) {
	return newClassRef(NewArray, callingClass, targetClass)
}

func newClassRef(kind Kind, callingClass, targetClass string) (t Trampoline, err error) {
	defer aurac.Guard(&err)
	t = Trampoline{Kind: kind, CallingClass: callingClass, TargetClass: targetClass}
	validate(t)
	return t, nil
}

// NewBridgeCall builds a trampoline for a call from managed code into a
// native/bridge method.
func NewBridgeCall(callingClass, targetClass, methodName string, methodDesc *managed.MethodDescriptor, static bool) (t Trampoline, err error) {
	return newBridge(BridgeCall, callingClass, targetClass, methodName, methodDesc, static)
}

// NewNativeCall builds a trampoline for a call from managed code into a
// JNI-style native entry point.
func NewNativeCall(callingClass, targetClass, methodName string, methodDesc *managed.MethodDescriptor, static bool) (t Trampoline, err error) {
	return newBridge(NativeCall, callingClass, targetClass, methodName, methodDesc, static)
}

func newBridge(kind Kind, callingClass, targetClass, methodName string, methodDesc *managed.MethodDescriptor, static bool) (t Trampoline, err error) {
	defer aurac.Guard(&err)
	t = Trampoline{
		Kind: kind, CallingClass: callingClass, TargetClass: targetClass,
		MethodName: methodName, MethodDescriptor: methodDesc, Static: static,
	}
	validate(t)
	return t, nil
}

// validate enforces that the fields required by t.Kind are non-empty. A
// violation means the driver handed this constructor a tuple missing what
// its own chosen kind demands (spec.md §4.4 "Failure modes"): it panics via
// aurac.FailKind, which the exported constructors recover with aurac.Guard
// and turn into a clean *aurac.Error{Kind: TrampolineMisuse} return instead
// of crashing the process.
func validate(t Trampoline) {
	if t.CallingClass == "" {
		aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline %s: calling-class is required", t.Kind)
	}
	if t.TargetClass == "" {
		aurac.FailKind(aurac.TrampolineMisuse, t.CallingClass, "trampoline %s: target-class is required", t.Kind)
	}
	switch {
	case t.Kind.isInvoke(), t.Kind.isBridge():
		if t.MethodName == "" {
			aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline %s: method-name is required", t.Kind)
		}
		if t.MethodDescriptor == nil {
			aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline %s: method-descriptor is required", t.Kind)
		}
		if t.FieldName != "" || t.FieldDescriptor != nil {
			aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline %s: field fields must not be set", t.Kind)
		}
	case t.Kind.isFieldAccess():
		if t.FieldName == "" {
			aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline %s: field-name is required", t.Kind)
		}
		if t.FieldDescriptor == nil {
			aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline %s: field-descriptor is required", t.Kind)
		}
		if t.MethodName != "" || t.MethodDescriptor != nil {
			aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline %s: method fields must not be set", t.Kind)
		}
		wantStatic := t.Kind == GetStatic || t.Kind == PutStatic
		if t.Static != wantStatic {
			aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline %s: static flag must be %t", t.Kind, wantStatic)
		}
	case t.Kind == LdcClass, t.Kind == Checkcast, t.Kind == Instanceof, t.Kind == New, t.Kind == NewArray:
		if t.MethodName != "" || t.MethodDescriptor != nil || t.FieldName != "" || t.FieldDescriptor != nil {
			aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline %s: member fields must not be set", t.Kind)
		}
	default:
		aurac.FailKind(aurac.TrampolineMisuse, t.TargetClass, "trampoline: unknown kind %d", int(t.Kind))
	}
}
