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

// envType is the fixed execution-environment record every compiled method
// receives a pointer to as its first parameter (spec.md §4.3.5's EnvPtr):
// "a fixed structure of pointer-sized slots plus one 32-bit slot". The
// concrete slots below (current thread, pending-exception) are the two
// pieces of per-call state a JNI-style native bridge always needs; their
// exact count is not fixed by spec.md, only the shape.
func (m *Mapper) envType() *ir.StructType {
	const name = "Env"
	if existing, ok := m.Types.LookupStruct(name); ok && existing.Kind() == ir.StructKind {
		return existing
	}
	return m.Types.Struct(name, false,
		ir.Field{Name: "thread", Type: m.ObjectPointer()},
		ir.Field{Name: "pendingException", Type: m.ObjectPointer()},
		ir.Field{Name: "flags", Type: m.Types.Int32},
	)
}

// EnvPtrType returns Pointer(Env), the type of every compiled method's
// implicit first parameter.
func (m *Mapper) EnvPtrType() ir.Type {
	return m.Types.Pointer(m.envType())
}

// MethodSignature builds the IR function signature for method, including
// its implicit leading parameters, per spec.md §4.3.5:
//
//	params = [EnvPtr]
//	       ++ [ObjectPtr if not static]             -- receiver
//	       ++ [ObjectPtr if static and native]      -- static-native class handle
//	       ++ [IR-type(Pi) for each declared parameter]
//	return = IR-type(R)
func (m *Mapper) MethodSignature(method managed.Method) ir.Signature {
	params := make([]ir.Type, 0, len(method.Descriptor.Params)+2)
	params = append(params, m.EnvPtrType())
	if !method.Static {
		params = append(params, m.ObjectPointer())
	} else if method.Native {
		params = append(params, m.ObjectPointer())
	}
	for _, p := range method.Descriptor.Params {
		params = append(params, m.LocalType(p))
	}
	return ir.Signature{
		Params: params,
		Return: m.LocalType(method.Descriptor.Return),
	}
}

// MethodSignatureType is MethodSignature, interned as a *ir.FunctionType.
func (m *Mapper) MethodSignatureType(method managed.Method) *ir.FunctionType {
	return m.Types.Function(m.MethodSignature(method))
}
