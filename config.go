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

package aurac

import "github.com/ashleyj/aurac/trampoline"

// Settings describes the options used to drive one pass over a class table:
// the target to compute layouts for, whether to force packed emission for
// every structure (useful for diffing against a natural-layout dump), and
// which trampoline.Mangler to use for linkage names. Grounded on
// gapil/compiler's own Settings struct in the teacher. Only Mangler is read
// inside this module (by NewTrampolineSet); TargetTriple and EmitPacked are
// carried for callers and are not read by any package here.
type Settings struct {
	// TargetTriple is a target triple string in the form target.Parse
	// accepts.
	TargetTriple string

	// EmitPacked forces packed layout rules even where natural layout would
	// otherwise apply - a debugging aid for comparing the two layout
	// strategies side by side. Instance layouts are always packed (spec.md
	// §4.3.3), so in practice this only changes StaticLayout's
	// {header, statics} wrapper, the one structure with a natural/packed
	// choice to begin with.
	EmitPacked bool

	// Mangler names trampolines. A nil Mangler means trampoline.DefaultMangler.
	Mangler trampoline.Mangler
}

// mangler returns s.Mangler, or trampoline.DefaultMangler if unset.
func (s Settings) mangler() trampoline.Mangler {
	if s.Mangler != nil {
		return s.Mangler
	}
	return trampoline.DefaultMangler
}

// NewTrampolineSet returns a trampoline.Set configured with s's mangler.
func (s Settings) NewTrampolineSet() *trampoline.Set {
	return trampoline.NewSetWithMangler(s.mangler())
}
