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

// A Table is an ordered sequence of named, equal length, typed columns.
// Tables are immutable values: every verb returns a new Table and never
// writes through to its input.
//
// The zero Table has no columns and no rows.
type Table struct {
	names []string
	cols  []Column
	n     int
}

// A Builder constructs a Table column by column.
//
//	tab, err := new(tidytable.Builder).
//		Add("group", []string{"a", "b"}).
//		Add("Female", []float64{1, 2}).
//		Add("Male", []float64{3, 4}).
//		Done()
//
// Errors accumulate and surface from Done, so calls chain freely.
type Builder struct {
	t   Table
	err error
}

// Add appends a column. data may be a [Column], or one of []float64,
// []int, []int64, []string, []bool. The first column fixes the table's
// row count; later columns must match it.
func (b *Builder) Add(name string, data any) *Builder {
	if b.err != nil {
		return b
	}
	var col Column
	switch data := data.(type) {
	case Column:
		col = data
	case []float64:
		col = Floats(data)
	case []int:
		col = Ints(data)
	case []int64:
		col = Ints64(data)
	case []string:
		col = Strings(data)
	case []bool:
		col = Bools(data)
	default:
		b.err = errors.Errorf("tidytable: cannot build column %q from %T", name, data)
		return b
	}
	if slices.Contains(b.t.names, name) {
		b.err = &DuplicateNameError{Name: name}
		return b
	}
	if len(b.t.cols) > 0 && col.Len() != b.t.n {
		b.err = &LengthMismatchError{Col: name, Len: col.Len(), Want: b.t.n}
		return b
	}
	b.t.names = append(b.t.names, name)
	b.t.cols = append(b.t.cols, col)
	b.t.n = col.Len()
	return b
}

// Done returns the built table, or the first error from Add.
func (b *Builder) Done() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	t := b.t
	b.t = Table{}
	return &t, nil
}

// MustDone is Done for tables known to be well formed, typically literals
// in tests and examples. It panics on error.
func (b *Builder) MustDone() *Table {
	t, err := b.Done()
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the row count.
func (t *Table) Len() int { return t.n }

// Names returns the column names in table order.
func (t *Table) Names() []string { return slices.Clone(t.names) }

// Column returns the named column, or nil if no such column exists.
func (t *Table) Column(name string) Column {
	for i, n := range t.names {
		if n == name {
			return t.cols[i]
		}
	}
	return nil
}

// MustColumn is Column but panics on an unknown name.
func (t *Table) MustColumn(name string) Column {
	if c := t.Column(name); c != nil {
		return c
	}
	panic(&UnknownColumnError{Name: name})
}

func (t *Table) colIndex(name string) (int, error) {
	for i, n := range t.names {
		if n == name {
			return i, nil
		}
	}
	return -1, &UnknownColumnError{Name: name}
}

// withColumn returns a copy of t with the named column replaced, or
// appended when the name is new.
func (t *Table) withColumn(name string, col Column) (*Table, error) {
	if col.Len() != t.n && len(t.cols) > 0 {
		return nil, &LengthMismatchError{Col: name, Len: col.Len(), Want: t.n}
	}
	out := t.clone()
	if i, err := out.colIndex(name); err == nil {
		out.cols[i] = col
	} else {
		out.names = append(out.names, name)
		out.cols = append(out.cols, col)
	}
	out.n = col.Len()
	return out, nil
}

// clone copies the table header. Columns are immutable and shared.
func (t *Table) clone() *Table {
	return &Table{names: slices.Clone(t.names), cols: slices.Clone(t.cols), n: t.n}
}

// takeRows returns a table holding the rows at idx, in order.
func (t *Table) takeRows(idx []int) *Table {
	out := &Table{names: slices.Clone(t.names), cols: make([]Column, len(t.cols)), n: len(idx)}
	for i, c := range t.cols {
		out.cols[i] = c.take(idx)
	}
	return out
}

// Records returns the rows as name-to-value maps, missing cells as nil.
// Handy for tests and for row-oriented encoders.
func (t *Table) Records() []map[string]any {
	recs := make([]map[string]any, t.n)
	for i := 0; i < t.n; i++ {
		rec := make(map[string]any, len(t.cols))
		for j, name := range t.names {
			rec[name] = t.cols[j].Value(i)
		}
		recs[i] = rec
	}
	return recs
}

// Equal reports whether two tables have the same column names in the same
// order, the same kinds, and cell-for-cell equal data, treating missing
// cells as equal to each other. Factor columns must also agree on level
// order.
func (t *Table) Equal(o *Table) bool {
	if t.n != o.n || !slices.Equal(t.names, o.names) {
		return false
	}
	for j := range t.cols {
		a, b := t.cols[j], o.cols[j]
		if a.Kind() != b.Kind() {
			return false
		}
		if af, ok := a.(*factorColumn); ok {
			if !slices.Equal(af.levels, b.(*factorColumn).levels) {
				return false
			}
		}
		for i := 0; i < t.n; i++ {
			if a.IsNA(i) != b.IsNA(i) {
				return false
			}
			if !a.IsNA(i) && a.Value(i) != b.Value(i) {
				return false
			}
		}
	}
	return true
}

// WithRowID returns a copy of t with an integer column name prepended
// holding 0..Len()-1. Its main use is making pivot identities unique
// before [Table.PivotWider]; see [DuplicateIdentifierError].
func (t *Table) WithRowID(name string) (*Table, error) {
	if slices.Contains(t.names, name) {
		return nil, &DuplicateNameError{Name: name}
	}
	ids := make([]int64, t.n)
	for i := range ids {
		ids[i] = int64(i)
	}
	out := &Table{
		names: append([]string{name}, t.names...),
		cols:  append([]Column{Ints64(ids)}, t.cols...),
		n:     t.n,
	}
	return out, nil
}

// DropNA returns the rows with no missing cell in any of the named
// columns, or in any column at all when none are named. It is the
// standard pre-filter for verbs that would otherwise propagate or trip
// over missing values.
func (t *Table) DropNA(cols ...string) (*Table, error) {
	check := t.cols
	if len(cols) > 0 {
		check = make([]Column, len(cols))
		for i, name := range cols {
			j, err := t.colIndex(name)
			if err != nil {
				return nil, err
			}
			check[i] = t.cols[j]
		}
	}
	var keep []int
rows:
	for i := 0; i < t.n; i++ {
		for _, c := range check {
			if c.IsNA(i) {
				continue rows
			}
		}
		keep = append(keep, i)
	}
	return t.takeRows(keep), nil
}
