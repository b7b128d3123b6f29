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
)

// Summarise collapses each group to a single row: the grouping key
// columns followed by one column per definition, groups in
// first-appearance order. Each definition must reduce to a single cell
// within its group or the call fails with [NonScalarAggregateError].
// Later definitions see earlier ones, broadcast across the group.
//
// Each Summarise consumes exactly the last grouping key. The result is
// again a GroupedTable whose Keys reports the keys still active, so a
// table grouped by (country, year) summarises to one grouped by
// (country); when no keys remain the result behaves as a single root
// group and [GroupedTable.Ungroup] yields the plain table.
func (g *GroupedTable) Summarise(defs ...ColDef) (*GroupedTable, error) {
	cells := make([][]Column, len(g.groups)) // per group, per def
	err := g.apply(func(gi int, sub *Table) error {
		cur := sub
		row := make([]Column, len(defs))
		for di, def := range defs {
			col, err := def.Expr.node.eval(cur)
			if err != nil {
				return errors.Wrapf(err, "summarise %q", def.Name)
			}
			if col.Len() != 1 {
				return &NonScalarAggregateError{Name: def.Name, Len: col.Len()}
			}
			if col.Kind() == kindNA {
				return errors.Errorf("tidytable: summarise %q would be untyped NA", def.Name)
			}
			row[di] = col
			// Broadcast the scalar over the group so later
			// definitions can reference it by name.
			bcol, err := fitColumn(def.Name, col, cur.n)
			if err != nil {
				return err
			}
			cur, err = cur.withColumn(def.Name, bcol)
			if err != nil {
				return err
			}
		}
		cells[gi] = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	// One output row per group: key cells from each group's first row,
	// then the summarised scalars.
	reps := make([]int, len(g.groups))
	for gi, rows := range g.groups {
		if len(rows) > 0 {
			reps[gi] = rows[0]
		}
	}
	out := &Table{n: len(g.groups)}
	for _, key := range g.keys {
		i, _ := g.t.colIndex(key)
		out.names = append(out.names, key)
		out.cols = append(out.cols, g.t.cols[i].take(reps))
	}
	zero := make([]int, len(g.groups)) // group i's scalar lives at cell 0
	pos := make([]int, len(g.groups))
	for gi := range pos {
		pos[gi] = gi
	}
	for di, def := range defs {
		group := make([]Column, len(g.groups))
		for gi := range g.groups {
			group[gi] = cells[gi][di]
		}
		col, err := gatherGroups(def.Name, group, pos, zero)
		if err != nil {
			return nil, err
		}
		out, err = out.withSummaryColumn(def.Name, col)
		if err != nil {
			return nil, err
		}
	}
	return groupRows(out, g.keys[:max(0, len(g.keys)-1)], g.par)
}

// withSummaryColumn appends a summarised column, rejecting collisions
// with the grouping keys.
func (t *Table) withSummaryColumn(name string, col Column) (*Table, error) {
	if _, err := t.colIndex(name); err == nil {
		return nil, &DuplicateNameError{Name: name}
	}
	return t.withColumn(name, col)
}

// Summarise on an ungrouped table treats every row as one group and
// returns a single-row table.
func (t *Table) Summarise(defs ...ColDef) (*Table, error) {
	g := &GroupedTable{t: t, par: 1}
	rows := make([]int, t.n)
	for i := range rows {
		rows[i] = i
	}
	g.groups = [][]int{rows}
	out, err := g.Summarise(defs...)
	if err != nil {
		return nil, err
	}
	return out.Ungroup(), nil
}
