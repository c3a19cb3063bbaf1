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

// Package managed models the front end's read-only view of a class: type
// and method descriptors following the class-file grammar, and the
// (name, descriptor, flags) field records that make up a class. Nothing in
// this package touches a class file - the front end that parses bytecode is
// explicitly out of scope (spec.md §1) - it only parses the descriptor
// strings the front end is assumed to have already extracted.
package managed

import (
	"strings"

	"github.com/ashleyj/aurac"
)

// Kind discriminates the variants of a managed type descriptor.
type Kind int

const (
	Boolean Kind = iota
	Byte
	Short
	Char
	Int
	Long
	Float
	Double
	Void
	Reference
	Array
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "Z"
	case Byte:
		return "B"
	case Short:
		return "S"
	case Char:
		return "C"
	case Int:
		return "I"
	case Long:
		return "J"
	case Float:
		return "F"
	case Double:
		return "D"
	case Void:
		return "V"
	case Reference:
		return "L"
	case Array:
		return "["
	default:
		return "?"
	}
}

// Descriptor is a parsed managed type descriptor. ClassName is populated
// only for Reference, and is the internal name (package-separated by '/')
// with the leading 'L' and trailing ';' stripped - preserved rather than
// discarded, per spec.md §9's open-question resolution, so downstream code
// can resolve the referenced class without a second pass over the source
// string. Element is populated only for Array.
type Descriptor struct {
	Kind      Kind
	ClassName string
	Element   *Descriptor
}

// IsPrimitive reports whether d denotes one of the eight primitive types or
// void.
func (d *Descriptor) IsPrimitive() bool {
	switch d.Kind {
	case Reference, Array:
		return false
	default:
		return true
	}
}

// String reconstructs the descriptor's textual form. For every primitive
// kind and for Reference/Array this round-trips exactly to the input
// ParseDescriptor was given. This module has no mapping from an ir.Type back
// to a descriptor: typemapper only maps descriptors to IR types, and that
// mapping sends Z and B to the same i8 and S and C to the same i16.
func (d *Descriptor) String() string {
	switch d.Kind {
	case Reference:
		return "L" + d.ClassName + ";"
	case Array:
		return "[" + d.Element.String()
	default:
		return d.Kind.String()
	}
}

// ParseDescriptor parses a single type descriptor: one of the primitive
// letters, a reference "L<name>;", or an array "[<desc>". It reports
// *aurac.Error{Kind: MalformedDescriptor} if s is not exactly one well
// formed descriptor with nothing left over.
func ParseDescriptor(s string) (*Descriptor, error) {
	d, rest, err := parseDescriptorPrefix(s)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, aurac.Newf(aurac.MalformedDescriptor, "", "trailing data %q after descriptor in %q", rest, s)
	}
	return d, nil
}

func parseDescriptorPrefix(s string) (*Descriptor, string, error) {
	if s == "" {
		return nil, "", aurac.Newf(aurac.MalformedDescriptor, "", "empty descriptor")
	}
	switch s[0] {
	case 'Z':
		return &Descriptor{Kind: Boolean}, s[1:], nil
	case 'B':
		return &Descriptor{Kind: Byte}, s[1:], nil
	case 'S':
		return &Descriptor{Kind: Short}, s[1:], nil
	case 'C':
		return &Descriptor{Kind: Char}, s[1:], nil
	case 'I':
		return &Descriptor{Kind: Int}, s[1:], nil
	case 'J':
		return &Descriptor{Kind: Long}, s[1:], nil
	case 'F':
		return &Descriptor{Kind: Float}, s[1:], nil
	case 'D':
		return &Descriptor{Kind: Double}, s[1:], nil
	case 'V':
		return &Descriptor{Kind: Void}, s[1:], nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return nil, "", aurac.Newf(aurac.MalformedDescriptor, "", "unterminated reference descriptor %q", s)
		}
		name := s[1:end]
		if name == "" {
			return nil, "", aurac.Newf(aurac.MalformedDescriptor, "", "empty class name in descriptor %q", s)
		}
		return &Descriptor{Kind: Reference, ClassName: name}, s[end+1:], nil
	case '[':
		elem, rest, err := parseDescriptorPrefix(s[1:])
		if err != nil {
			return nil, "", err
		}
		return &Descriptor{Kind: Array, Element: elem}, rest, nil
	default:
		return nil, "", aurac.Newf(aurac.MalformedDescriptor, "", "unrecognized descriptor character %q in %q", s[0], s)
	}
}

// MethodDescriptor is a parsed method descriptor "(P0 P1 ...)R".
type MethodDescriptor struct {
	Params []*Descriptor
	Return *Descriptor
}

// String reconstructs the descriptor's textual form.
func (m *MethodDescriptor) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.Params {
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	b.WriteString(m.Return.String())
	return b.String()
}

// ParseMethodDescriptor parses a method descriptor "(params)ret".
func ParseMethodDescriptor(s string) (*MethodDescriptor, error) {
	if len(s) == 0 || s[0] != '(' {
		return nil, aurac.Newf(aurac.MalformedDescriptor, "", "method descriptor %q does not start with '('", s)
	}
	s = s[1:]
	var params []*Descriptor
	for len(s) > 0 && s[0] != ')' {
		d, rest, err := parseDescriptorPrefix(s)
		if err != nil {
			return nil, err
		}
		params = append(params, d)
		s = rest
	}
	if len(s) == 0 || s[0] != ')' {
		return nil, aurac.Newf(aurac.MalformedDescriptor, "", "method descriptor missing closing ')'")
	}
	s = s[1:]
	ret, rest, err := parseDescriptorPrefix(s)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, aurac.Newf(aurac.MalformedDescriptor, "", "trailing data %q after method descriptor return type", rest)
	}
	return &MethodDescriptor{Params: params, Return: ret}, nil
}
