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

import "golang.org/x/exp/slices"

// A Selection names a subset of a table's columns. Selections resolve in
// request order, so Select doubles as column reordering.
type Selection interface {
	resolve(t *Table) ([]int, error)
}

// Cols selects columns by name, in the given order.
func Cols(names ...string) Selection { return nameSel(names) }

type nameSel []string

func (s nameSel) resolve(t *Table) ([]int, error) {
	idx := make([]int, len(s))
	for i, name := range s {
		j, err := t.colIndex(name)
		if err != nil {
			return nil, err
		}
		idx[i] = j
	}
	return idx, nil
}

// At selects columns by 0-based position, in the given order.
func At(positions ...int) Selection { return posSel(positions) }

type posSel []int

func (s posSel) resolve(t *Table) ([]int, error) {
	idx := make([]int, len(s))
	for i, p := range s {
		if p < 0 || p >= len(t.cols) {
			return nil, &UnknownColumnError{Pos: p}
		}
		idx[i] = p
	}
	return idx, nil
}

// Match selects the columns whose name satisfies pred, in table order.
func Match(pred func(name string) bool) Selection { return matchSel{pred} }

type matchSel struct{ pred func(string) bool }

func (s matchSel) resolve(t *Table) ([]int, error) {
	var idx []int
	for i, name := range t.names {
		if s.pred(name) {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// Not selects the complement of sel, in table order.
func Not(sel Selection) Selection { return notSel{sel} }

type notSel struct{ sel Selection }

func (s notSel) resolve(t *Table) ([]int, error) {
	drop, err := s.sel.resolve(t)
	if err != nil {
		return nil, err
	}
	var idx []int
	for i := range t.cols {
		if !slices.Contains(drop, i) {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// Select returns a table containing exactly the requested columns in the
// requested order. A column requested twice is a [DuplicateNameError]; a
// name or position that does not exist is an [UnknownColumnError].
func (t *Table) Select(sels ...Selection) (*Table, error) {
	var idx []int
	for _, sel := range sels {
		part, err := sel.resolve(t)
		if err != nil {
			return nil, err
		}
		idx = append(idx, part...)
	}
	out := &Table{n: t.n}
	for _, i := range idx {
		if slices.Contains(out.names, t.names[i]) {
			return nil, &DuplicateNameError{Name: t.names[i]}
		}
		out.names = append(out.names, t.names[i])
		out.cols = append(out.cols, t.cols[i])
	}
	return out, nil
}

// Rename returns a table with the same columns where each newToOld entry
// renames the old column to the new name. Unnamed columns are retained
// untouched. A rename that collides with a retained or renamed column is
// a [DuplicateNameError].
func (t *Table) Rename(newToOld map[string]string) (*Table, error) {
	// Resolve every old name against the input first, so simultaneous
	// renames (including swaps) see a consistent table.
	out := t.clone()
	for newName, oldName := range newToOld {
		i, err := t.colIndex(oldName)
		if err != nil {
			return nil, err
		}
		out.names[i] = newName
	}
	seen := make(map[string]bool, len(out.names))
	for _, name := range out.names {
		if seen[name] {
			return nil, &DuplicateNameError{Name: name}
		}
		seen[name] = true
	}
	return out, nil
}
