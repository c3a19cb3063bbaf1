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
	"fmt"

	"github.com/ashleyj/aurac/ir"
)

// padField synthesizes a byte-pad field of type [n x i8], the way
// gapil/compiler/storagetypes.go inserts synthetic "__padding%d" array
// fields between real fields when building a packed storage type.
func (m *Mapper) padField(name string, n int) ir.Field {
	return ir.Field{Name: name, Type: m.Types.Array(m.Types.Int8, n)}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// packedLayout is the shared core of spec.md §4.3.3 and §4.3.4: given an
// optional leading field (the parent's instance layout, for §4.3.3; nil for
// a static layout, which has no parent chain) and a field list already
// sorted by SortFields, it produces the padded field list of a packed
// structure - one byte-pad field preceding any field whose natural offset
// would otherwise be misaligned, plus a final pad so the whole aggregate's
// size is a multiple of its own most-strict alignment - along with that
// alignment and total size.
func (m *Mapper) packedLayout(lead *ir.Field, sorted []MappedField) (fields []ir.Field, size, align int) {
	offset := 0
	align = 1

	if lead != nil {
		leadAlign := 1
		if len(sorted) > 0 {
			leadAlign = sorted[0].Alignment
		}
		leadSize := m.Engine.StoreSize(lead.Type)
		padded := roundUp(leadSize, leadAlign)
		fields = append(fields, *lead)
		if pad := padded - leadSize; pad > 0 {
			fields = append(fields, m.padField("__basepad", pad))
		}
		offset = padded
		if a := m.Engine.Alignment(lead.Type); a > align {
			align = a
		}
	}

	for i, f := range sorted {
		padded := roundUp(offset, f.Alignment)
		if pad := padded - offset; pad > 0 {
			fields = append(fields, m.padField(fmt.Sprintf("__pad%d", i), pad))
		}
		fields = append(fields, ir.Field{Name: f.Field.Name, Type: f.Type})
		offset = padded + m.Engine.StoreSize(f.Type)
		if f.Alignment > align {
			align = f.Alignment
		}
	}

	finalSize := roundUp(offset, align)
	if pad := finalSize - offset; pad > 0 {
		fields = append(fields, m.padField("__tailpad", pad))
	}
	return fields, finalSize, align
}
