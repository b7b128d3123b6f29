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
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// A factor is a string valued column with an attached ordered list of
// permitted levels. Sorting and display follow level order, not lexical
// order. Cells are stored as codes into the level list, which makes two
// superficially similar operations very different:
//
//   - [Table.ReorderLevels] permutes the level list and retargets the
//     stored codes, so every cell keeps its label and only ordering
//     changes.
//   - [Table.RelabelLevels] rewrites level text in place, which reassigns
//     the meaning of every cell currently stored under that level. It is
//     deliberately a separate, harder-to-misuse call.
type factorColumn struct {
	codes  []int // -1 marks a missing cell
	levels []string
}

// NewFactor returns a factor column over vals. When levels are given they
// fix the permitted level list and its order, and any value outside it
// becomes missing. Without explicit levels the distinct values are used in
// first-appearance order.
func NewFactor(vals []string, levels ...string) Column {
	if len(levels) == 0 {
		seen := map[string]bool{}
		for _, v := range vals {
			if !seen[v] {
				seen[v] = true
				levels = append(levels, v)
			}
		}
	}
	code := make(map[string]int, len(levels))
	for i, l := range levels {
		code[l] = i
	}
	c := &factorColumn{codes: make([]int, len(vals)), levels: slices.Clone(levels)}
	for i, v := range vals {
		if j, ok := code[v]; ok {
			c.codes[i] = j
		} else {
			c.codes[i] = -1
		}
	}
	return c
}

func (c *factorColumn) Len() int        { return len(c.codes) }
func (c *factorColumn) Kind() Kind      { return FactorKind }
func (c *factorColumn) IsNA(i int) bool { return c.codes[i] < 0 }

func (c *factorColumn) Value(i int) any {
	if c.codes[i] < 0 {
		return nil
	}
	return c.levels[c.codes[i]]
}

func (c *factorColumn) take(idx []int) Column {
	out := &factorColumn{codes: make([]int, len(idx)), levels: c.levels}
	for j, i := range idx {
		out.codes[j] = c.codes[i]
	}
	return out
}

// Levels returns the ordered level list of a factor column, or nil when
// the column is not a factor.
func Levels(c Column) []string {
	if f, ok := c.(*factorColumn); ok {
		return slices.Clone(f.levels)
	}
	return nil
}

// ReorderLevels returns a table where the factor column name has its level
// list permuted into the given order. Cell labels are unchanged; only the
// sort and display order of the levels moves. The new order must be a
// permutation of the existing levels.
func (t *Table) ReorderLevels(name string, levels []string) (*Table, error) {
	f, err := t.factorCol(name)
	if err != nil {
		return nil, err
	}
	if len(levels) != len(f.levels) {
		return nil, errors.Errorf("tidytable: reorder levels of %q: got %d levels, want %d", name, len(levels), len(f.levels))
	}
	newCode := make(map[string]int, len(levels))
	for i, l := range levels {
		newCode[l] = i
	}
	remap := make([]int, len(f.levels))
	for old, l := range f.levels {
		j, ok := newCode[l]
		if !ok {
			return nil, errors.Errorf("tidytable: reorder levels of %q: %q is not a permutation of the existing levels", name, levels)
		}
		remap[old] = j
	}
	out := &factorColumn{codes: make([]int, len(f.codes)), levels: slices.Clone(levels)}
	for i, code := range f.codes {
		if code < 0 {
			out.codes[i] = -1
		} else {
			out.codes[i] = remap[code]
		}
	}
	return t.withColumn(name, out)
}

// RelabelLevels returns a table where the factor column name has level
// text rewritten according to relabel, mapping old label to new label.
// Every cell stored under an old label now reads as the new label: this
// reassigns data meaning, not just presentation. Relabeling two old levels
// to the same new label merges them. Labels absent from relabel are kept.
func (t *Table) RelabelLevels(name string, relabel map[string]string) (*Table, error) {
	f, err := t.factorCol(name)
	if err != nil {
		return nil, err
	}
	for old := range relabel {
		if !slices.Contains(f.levels, old) {
			return nil, errors.Errorf("tidytable: relabel levels of %q: no level %q", name, old)
		}
	}
	// Rewrite labels, merging levels that collide after the rewrite.
	var levels []string
	index := map[string]int{}
	remap := make([]int, len(f.levels))
	for old, l := range f.levels {
		if to, ok := relabel[l]; ok {
			l = to
		}
		j, ok := index[l]
		if !ok {
			j = len(levels)
			index[l] = j
			levels = append(levels, l)
		}
		remap[old] = j
	}
	out := &factorColumn{codes: make([]int, len(f.codes)), levels: levels}
	for i, code := range f.codes {
		if code < 0 {
			out.codes[i] = -1
		} else {
			out.codes[i] = remap[code]
		}
	}
	return t.withColumn(name, out)
}

func (t *Table) factorCol(name string) (*factorColumn, error) {
	i, err := t.colIndex(name)
	if err != nil {
		return nil, err
	}
	f, ok := t.cols[i].(*factorColumn)
	if !ok {
		return nil, errors.Errorf("tidytable: column %q is %v, not a factor", name, t.cols[i].Kind())
	}
	return f, nil
}
