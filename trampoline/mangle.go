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
	"strings"
)

// Mangle computes the linkage symbol name for t: a pure function of the
// trampoline tuple that is stable across runs, injective, and a valid
// linker symbol (spec.md §4.4). It plays the role gapil/compiler/mangling
// and its ia64 encoder play for the teacher's C++ name mangling, simplified
// to this core's flat tuple rather than a full nested-scope/template
// grammar.
//
// Encoding: each tuple component is escaped so it contains only
// '[A-Za-z0-9_]' - every literal '_' doubles to "__" and every other
// disallowed byte becomes "_XX" (its value in lowercase hex) - then joined
// with a literal '$'. Because escape() never emits an unescaped '$', the
// join points are unambiguous, and because escape() is a bijection on byte
// strings (the decoder, unneeded here, would simply not be ambiguous: a
// lone '_' is always immediately followed by either a second '_' or exactly
// two hex digits), two different tuples can never escape-and-join to the
// same string. This is what makes Mangle injective (spec.md §8 invariant
// 7): it is also the reason the package uses Mangle(t) directly as the
// Set's deduplication key instead of a second, independent hash.
func Mangle(t Trampoline) string {
	var b strings.Builder
	b.WriteString("_aurac_")
	b.WriteString(kindTag(t.Kind))
	writeComponent(&b, t.CallingClass)
	writeComponent(&b, t.TargetClass)
	writeComponent(&b, t.memberName())
	writeComponent(&b, t.memberDescriptor())
	if t.Static {
		b.WriteString("$s")
	} else {
		b.WriteString("$i")
	}
	return b.String()
}

func writeComponent(b *strings.Builder, s string) {
	b.WriteByte('$')
	b.WriteString(escape(s))
}

func kindTag(k Kind) string {
	switch k {
	case InvokeVirtual:
		return "iv"
	case InvokeSpecial:
		return "ip"
	case InvokeStatic:
		return "is"
	case InvokeInterface:
		return "ii"
	case GetField:
		return "gf"
	case PutField:
		return "pf"
	case GetStatic:
		return "gs"
	case PutStatic:
		return "ps"
	case LdcClass:
		return "lc"
	case Checkcast:
		return "cc"
	case Instanceof:
		return "io"
	case New:
		return "nw"
	case NewArray:
		return "na"
	case BridgeCall:
		return "bc"
	case NativeCall:
		return "nc"
	default:
		return "xx"
	}
}

const hexDigits = "0123456789abcdef"

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
			b.WriteString("__")
		case isSymbolSafe(c):
			b.WriteByte(c)
		default:
			b.WriteByte('_')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		}
	}
	return b.String()
}

func isSymbolSafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	default:
		return false
	}
}
