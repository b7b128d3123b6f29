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
	"encoding/binary"
	"math"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// A GroupedTable is a table paired with a partition of its row indices by
// the distinct value combinations of its grouping columns. Groups hold
// first-appearance order, the order every grouped verb reports results
// in. The partition is logical: rows are neither copied nor reordered by
// grouping itself.
type GroupedTable struct {
	t      *Table
	keys   []string
	groups [][]int // row indices per group, first-appearance order
	par    int     // max concurrent group evaluations; <=1 is sequential
}

// GroupBy partitions the table's rows by the distinct combinations of the
// key columns.
func (t *Table) GroupBy(keys ...string) (*GroupedTable, error) {
	if len(keys) == 0 {
		return nil, errors.New("tidytable: group by needs at least one key column")
	}
	return groupRows(t, keys, 1)
}

// GroupBy on a grouped table regroups by the new keys, replacing (not
// nesting) the prior grouping.
func (g *GroupedTable) GroupBy(keys ...string) (*GroupedTable, error) {
	if len(keys) == 0 {
		return nil, errors.New("tidytable: group by needs at least one key column")
	}
	return groupRows(g.t, keys, g.par)
}

func groupRows(t *Table, keys []string, par int) (*GroupedTable, error) {
	keyCols := make([]Column, len(keys))
	for i, k := range keys {
		j, err := t.colIndex(k)
		if err != nil {
			return nil, err
		}
		keyCols[i] = t.cols[j]
	}
	// With no keys every row encodes the same empty tuple, leaving one
	// root group; that shape is only produced internally, by Summarise
	// consuming its last key.
	g := &GroupedTable{t: t, keys: slices.Clone(keys), par: par}
	index := map[string]int{}
	var buf []byte
	for i := 0; i < t.n; i++ {
		buf = buf[:0]
		for _, c := range keyCols {
			buf = appendCellKey(buf, c, i)
		}
		gi, ok := index[string(buf)]
		if !ok {
			gi = len(g.groups)
			index[string(buf)] = gi
			g.groups = append(g.groups, nil)
		}
		g.groups[gi] = append(g.groups[gi], i)
	}
	return g, nil
}

// appendCellKey appends a canonical, collision-free encoding of cell i to
// buf: a presence byte, then fixed-width numerics or length-prefixed
// strings.
func appendCellKey(buf []byte, c Column, i int) []byte {
	if c.IsNA(i) {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	switch c := c.(type) {
	case *column[float64]:
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(c.data[i]))
	case *column[int64]:
		buf = binary.BigEndian.AppendUint64(buf, uint64(c.data[i]))
	case *column[string]:
		buf = binary.AppendUvarint(buf, uint64(len(c.data[i])))
		buf = append(buf, c.data[i]...)
	case *column[bool]:
		if c.data[i] {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case *factorColumn:
		buf = binary.AppendUvarint(buf, uint64(c.codes[i]))
	}
	return buf
}

// Keys returns the grouping column names.
func (g *GroupedTable) Keys() []string { return slices.Clone(g.keys) }

// NumGroups returns the number of distinct key combinations.
func (g *GroupedTable) NumGroups() int { return len(g.groups) }

// Len returns the underlying row count.
func (g *GroupedTable) Len() int { return g.t.Len() }

// Table returns the underlying table without dropping the grouping.
func (g *GroupedTable) Table() *Table { return g.t }

// Ungroup collapses the grouping and returns the plain table.
func (g *GroupedTable) Ungroup() *Table { return g.t }

// Parallel returns a grouped table whose verbs evaluate up to n groups
// concurrently. Groups are independent, and per-group results land in
// pre-assigned slots, so output ordering is identical to the sequential
// evaluation.
func (g *GroupedTable) Parallel(n int) *GroupedTable {
	out := *g
	out.par = n
	return &out
}

// apply runs fn once per group against that group's rows as a standalone
// table, sequentially or concurrently per [GroupedTable.Parallel]. fn
// must confine its writes to its own group index.
func (g *GroupedTable) apply(fn func(gi int, sub *Table) error) error {
	if g.par <= 1 {
		for gi, rows := range g.groups {
			if err := fn(gi, g.t.takeRows(rows)); err != nil {
				return err
			}
		}
		return nil
	}
	var eg errgroup.Group
	eg.SetLimit(g.par)
	for gi, rows := range g.groups {
		eg.Go(func() error {
			return fn(gi, g.t.takeRows(rows))
		})
	}
	return eg.Wait()
}

// Mutate evaluates the definitions once per group, so aggregates inside
// an expression are scoped to the group's rows, and writes the results
// back into the group's row positions. Row count and order are exactly
// those of the ungrouped mutate.
func (g *GroupedTable) Mutate(defs ...ColDef) (*GroupedTable, error) {
	if len(g.groups) == 0 {
		out, err := g.t.Mutate(defs...)
		if err != nil {
			return nil, err
		}
		return groupRows(out, g.keys, g.par)
	}
	perGroup := make([]*Table, len(g.groups))
	err := g.apply(func(gi int, sub *Table) error {
		out, err := sub.Mutate(defs...)
		perGroup[gi] = out
		return err
	})
	if err != nil {
		return nil, err
	}
	// Scatter each defined column back into full-length columns.
	rowGroup := make([]int, g.t.n)
	rowPos := make([]int, g.t.n)
	for gi, rows := range g.groups {
		for pos, i := range rows {
			rowGroup[i], rowPos[i] = gi, pos
		}
	}
	cur := g.t
	for _, def := range defs {
		cols := make([]Column, len(perGroup))
		for gi, sub := range perGroup {
			cols[gi] = sub.MustColumn(def.Name)
		}
		full, err := gatherGroups(def.Name, cols, rowGroup, rowPos)
		if err != nil {
			return nil, err
		}
		cur, err = cur.withColumn(def.Name, full)
		if err != nil {
			return nil, err
		}
	}
	return groupRows(cur, g.keys, g.par)
}

// gatherGroups assembles one full-length column from per-group pieces,
// promoting to a common kind when groups disagree (an all-int group next
// to a float group, say).
func gatherGroups(name string, cols []Column, rowGroup, rowPos []int) (Column, error) {
	kinds := make([]Kind, len(cols))
	for i, c := range cols {
		kinds[i] = c.Kind()
	}
	k, ok := unifyKinds(kinds)
	if !ok {
		return nil, &TypeUnificationError{Cols: []string{name}, Kinds: kinds}
	}
	if k == FactorKind {
		return gatherFactorGroups(cols, rowGroup, rowPos), nil
	}
	promoted := make([]Column, len(cols))
	for i, c := range cols {
		promoted[i], _ = promote(c, k)
	}
	b := newColBuilder(k, len(rowGroup))
	for i := range rowGroup {
		b.appendFrom(promoted[rowGroup[i]], rowPos[i])
	}
	return b.done(), nil
}

// gatherFactorGroups reassembles factor pieces. Groups that agree on the
// level list keep the factor kind; diverging level lists demote to a
// plain string column, since there is no canonical merged order.
func gatherFactorGroups(cols []Column, rowGroup, rowPos []int) Column {
	fs := make([]*factorColumn, len(cols))
	same := true
	for i, c := range cols {
		fs[i] = c.(*factorColumn)
		if !slices.Equal(fs[i].levels, fs[0].levels) {
			same = false
		}
	}
	if same {
		out := &factorColumn{codes: make([]int, len(rowGroup)), levels: slices.Clone(fs[0].levels)}
		for i := range rowGroup {
			out.codes[i] = fs[rowGroup[i]].codes[rowPos[i]]
		}
		return out
	}
	b := &builder[string]{kind: String, data: make([]string, 0, len(rowGroup))}
	for i := range rowGroup {
		f := fs[rowGroup[i]]
		if f.IsNA(rowPos[i]) {
			b.appendNA()
		} else {
			b.data = append(b.data, f.levels[f.codes[rowPos[i]]])
		}
	}
	return b.done()
}

// Filter keeps the rows whose predicates hold under per-group evaluation,
// preserving original row order across groups.
func (g *GroupedTable) Filter(preds ...Expr) (*GroupedTable, error) {
	perGroup := make([][]int, len(g.groups))
	err := g.apply(func(gi int, sub *Table) error {
		local, err := sub.filterMask(preds)
		if err != nil {
			return err
		}
		rows := g.groups[gi]
		keep := make([]int, len(local))
		for j, l := range local {
			keep[j] = rows[l]
		}
		perGroup[gi] = keep
		return nil
	})
	if err != nil {
		return nil, err
	}
	var keep []int
	for _, rows := range perGroup {
		keep = append(keep, rows...)
	}
	sort.Ints(keep)
	return groupRows(g.t.takeRows(keep), g.keys, g.par)
}

// Slice applies the position selection independently within each group
// and concatenates the results in group order. Positions beyond a
// group's size select nothing from that group, so Slice(0, 1) reads
// "up to the first two rows per group".
func (g *GroupedTable) Slice(positions ...int) (*GroupedTable, error) {
	for _, p := range positions {
		if p < 0 {
			return nil, errors.Errorf("tidytable: slice position %d out of range", p)
		}
	}
	var take []int
	for _, rows := range g.groups {
		for _, p := range positions {
			if p < len(rows) {
				take = append(take, rows[p])
			}
		}
	}
	return groupRows(g.t.takeRows(take), g.keys, g.par)
}
