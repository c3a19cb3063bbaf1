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
	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/managed"
	"github.com/ashleyj/aurac/typemapper"
)

// FunctionType projects t's IR calling signature: the type a caller must use
// to reach t's linkage symbol. Invoke and bridge/native kinds reuse
// typemapper's method-signature rules (EnvPtr, then receiver/class-handle,
// then the descriptor's own parameters); the remaining kinds get the
// fixed shapes spec.md leaves to this core's discretion.
func FunctionType(m *typemapper.Mapper, t Trampoline) *ir.FunctionType {
	switch {
	case t.Kind.isInvoke():
		return m.MethodSignatureType(managed.Method{
			Name:       t.MethodName,
			Descriptor: t.MethodDescriptor,
			Static:     t.Static,
		})
	case t.Kind.isBridge():
		return bridgeSignature(m, t)
	case t.Kind.isFieldAccess():
		return fieldAccessSignature(m, t)
	default:
		return classRefSignature(m, t)
	}
}

func bridgeSignature(m *typemapper.Mapper, t Trampoline) *ir.FunctionType {
	// Bridge and native calls always pass the receiver/class handle, even
	// when Static is true - spec.md §4.4's explicit exception to the normal
	// static-method calling convention, since the native side still needs a
	// handle to call back into the owning class.
	params := []ir.Type{m.EnvPtrType(), m.ObjectPointer()}
	if t.MethodDescriptor != nil {
		for _, p := range t.MethodDescriptor.Params {
			params = append(params, m.LocalType(p))
		}
	}
	ret := m.Types.Void
	if t.MethodDescriptor != nil {
		ret = m.LocalType(t.MethodDescriptor.Return)
	}
	return m.Types.Function(ir.Signature{Params: params, Return: ret})
}

func fieldAccessSignature(m *typemapper.Mapper, t Trampoline) *ir.FunctionType {
	var fieldType ir.Type = m.Types.Void
	if t.FieldDescriptor != nil {
		fieldType = m.LocalType(t.FieldDescriptor)
	}
	params := []ir.Type{m.EnvPtrType()}
	if !t.Static {
		params = append(params, m.ObjectPointer())
	}
	switch t.Kind {
	case GetField, GetStatic:
		return m.Types.Function(ir.Signature{Params: params, Return: fieldType})
	case PutField, PutStatic:
		params = append(params, fieldType)
		return m.Types.Function(ir.Signature{Params: params, Return: m.Types.Void})
	default:
		return m.Types.Function(ir.Signature{Params: params, Return: m.Types.Void})
	}
}

// classRefSignature covers LdcClass, Checkcast, Instanceof, New and
// NewArray: the five kinds that reference a class without naming a member.
// None of these are prescribed by spec.md beyond "they exist and carry a
// target class"; the shapes below are the minimal ones a linker would need
// and are invented for this core, same spirit as typemapper's ClassHeader
// and Env.
func classRefSignature(m *typemapper.Mapper, t Trampoline) *ir.FunctionType {
	env := m.EnvPtrType()
	obj := m.ObjectPointer()
	switch t.Kind {
	case LdcClass:
		return m.Types.Function(ir.Signature{Params: []ir.Type{env}, Return: obj})
	case Checkcast:
		return m.Types.Function(ir.Signature{Params: []ir.Type{env, obj}, Return: obj})
	case Instanceof:
		return m.Types.Function(ir.Signature{Params: []ir.Type{env, obj}, Return: m.Types.Int32})
	case New:
		return m.Types.Function(ir.Signature{Params: []ir.Type{env}, Return: obj})
	case NewArray:
		return m.Types.Function(ir.Signature{Params: []ir.Type{env, m.Types.Int32}, Return: obj})
	default:
		return m.Types.Function(ir.Signature{Params: []ir.Type{env}, Return: m.Types.Void})
	}
}
