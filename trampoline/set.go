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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Set is the per-compilation set of spec.md §4.4: every trampoline a
// compilation unit has requested, deduplicated and ordered. Membership is
// keyed by Mangle(t), which is both how the set dedupes (two constructions
// of "the same" trampoline mangle identically) and the linkage name the
// backend ultimately emits for it - reusing one mechanism for both, per the
// spec's framing that the mangled name doubles as the set's key.
type Set struct {
	mangler Mangler
	byKey   map[string]Trampoline
}

// NewSet returns an empty Set using DefaultMangler.
func NewSet() *Set {
	return NewSetWithMangler(DefaultMangler)
}

// NewSetWithMangler returns an empty Set using m in place of DefaultMangler,
// the hook a Settings value (see the root config package) plugs a different
// naming scheme into without this package knowing about it.
func NewSetWithMangler(m Mangler) *Set {
	return &Set{mangler: m, byKey: make(map[string]Trampoline)}
}

// Add inserts t, returning its mangled symbol name. Adding the same
// trampoline (by mangled name) twice leaves the set unchanged (spec.md §8
// invariant 6) and returns the same name both times.
func (s *Set) Add(t Trampoline) string {
	key := s.mangler.Mangle(t)
	if _, ok := s.byKey[key]; !ok {
		s.byKey[key] = t
	}
	return key
}

// Len reports the number of distinct trampolines in the set.
func (s *Set) Len() int { return len(s.byKey) }

// Contains reports whether a trampoline equal to t (by Mangle) is in the
// set.
func (s *Set) Contains(t Trampoline) bool {
	_, ok := s.byKey[s.mangler.Mangle(t)]
	return ok
}

// Lookup returns the trampoline stored under the given mangled symbol name,
// if any.
func (s *Set) Lookup(symbol string) (Trampoline, bool) {
	t, ok := s.byKey[symbol]
	return t, ok
}

// Sorted returns every trampoline in the set in the total order of Compare,
// so a backend emitting trampolines from the set gets a build deterministic
// across runs regardless of insertion order. Two trampolines that Compare
// treats as equal but that differ in Static are ordered non-static first.
func (s *Set) Sorted() []Trampoline {
	out := maps.Values(s.byKey)
	slices.SortFunc(out, func(a, b Trampoline) int {
		if c := Compare(a, b); c != 0 || a.Static == b.Static {
			return c
		}
		if !a.Static {
			return -1
		}
		return 1
	})
	return out
}
