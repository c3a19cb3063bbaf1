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

// Compare imposes the total order of spec.md §4.4: by kind, then
// calling-class, then target-class, then member-name, then
// member-descriptor, all lexicographically, with the empty ("null") string
// sorting before any non-empty one - which is already Go's default string
// ordering, so no special-casing is needed. It returns a negative number if
// a sorts before b, zero if they are equal under this order, and a positive
// number otherwise.
func Compare(a, b Trampoline) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	if c := compareStrings(a.CallingClass, b.CallingClass); c != 0 {
		return c
	}
	if c := compareStrings(a.TargetClass, b.TargetClass); c != 0 {
		return c
	}
	if c := compareStrings(a.memberName(), b.memberName()); c != 0 {
		return c
	}
	return compareStrings(a.memberDescriptor(), b.memberDescriptor())
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts strictly before b under Compare.
func Less(a, b Trampoline) bool { return Compare(a, b) < 0 }

// Equal reports whether a and b are the same trampoline under the tuple
// equality of spec.md §3: same kind and same tuple fields. This is looser
// than Go's == on Trampoline values (which would also compare the
// MethodDescriptor/FieldDescriptor pointers by identity); Equal compares by
// descriptor string instead, matching "equality is by (kind,
// all-tuple-fields)" where the tuple fields are value-level, not pointers.
func Equal(a, b Trampoline) bool {
	return a.Kind == b.Kind &&
		a.CallingClass == b.CallingClass &&
		a.TargetClass == b.TargetClass &&
		a.memberName() == b.memberName() &&
		a.memberDescriptor() == b.memberDescriptor() &&
		a.Static == b.Static
}
