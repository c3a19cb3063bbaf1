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

// Mangler computes the linkage symbol for a Trampoline, mirroring
// gapil/compiler/mangling.Mangler's role as a pluggable naming scheme
// threaded through a Settings value rather than hardwired. DefaultMangler
// is the only implementation this module ships; it is the package-level
// Mangle function wrapped to satisfy the interface.
type Mangler interface {
	Mangle(t Trampoline) string
}

// ManglerFunc adapts a plain function to the Mangler interface.
type ManglerFunc func(t Trampoline) string

// Mangle implements Mangler.
func (f ManglerFunc) Mangle(t Trampoline) string { return f(t) }

// DefaultMangler is the injective escape-and-join scheme implemented by the
// package-level Mangle function.
var DefaultMangler Mangler = ManglerFunc(Mangle)
