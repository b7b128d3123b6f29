// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tidytable

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// A SortKey orders rows by one column. Build with [Asc] or [Desc]; chain
// [SortKey.Collate] for locale-aware string ordering.
type SortKey struct {
	name string
	desc bool
	lang string
}

// Asc sorts the named column smallest first.
func Asc(name string) SortKey { return SortKey{name: name} }

// Desc sorts the named column largest first.
func Desc(name string) SortKey { return SortKey{name: name, desc: true} }

// Collate makes a string key compare under the named BCP 47 locale
// ("da", "de-DE", ...) instead of byte order. Non-string columns ignore
// it.
func (k SortKey) Collate(lang string) SortKey {
	k.lang = lang
	return k
}

// Arrange returns the rows sorted by the given keys: earlier keys
// dominate, remaining ties keep their original order (the sort is
// stable), factor columns order by level, and missing cells sort last
// whatever the direction.
func (t *Table) Arrange(keys ...SortKey) (*Table, error) {
	type keyCol struct {
		col  Column
		desc bool
		coll *collate.Collator
	}
	kcs := make([]keyCol, len(keys))
	for i, k := range keys {
		j, err := t.colIndex(k.name)
		if err != nil {
			return nil, err
		}
		kc := keyCol{col: t.cols[j], desc: k.desc}
		if k.lang != "" && kc.col.Kind() == String {
			kc.coll = collate.New(language.Make(k.lang))
		}
		kcs[i] = kc
	}
	idx := make([]int, t.n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := idx[a], idx[b]
		for _, kc := range kcs {
			naA, naB := kc.col.IsNA(ra), kc.col.IsNA(rb)
			switch {
			case naA && naB:
				continue
			case naA:
				return false // missing sorts last, even descending
			case naB:
				return true
			}
			var cmp int
			if kc.coll != nil {
				sc := kc.col.(*column[string])
				cmp = kc.coll.CompareString(sc.data[ra], sc.data[rb])
			} else {
				cmp = compareCells(kc.col, ra, rb)
			}
			if kc.desc {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return t.takeRows(idx), nil
}
