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
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// PivotLonger unpivots the source columns into key/value pairs: each
// original row emits one output row per source column, carrying every
// non-source column unchanged, the source column's name under key, and
// its cell under value.
//
//	wide := new(Builder).
//		Add("group", []string{"a", "b"}).
//		Add("Female", []float64{1, 2}).
//		Add("Male", []float64{3, 4}).
//		MustDone()
//	long, _ := wide.PivotLonger(Cols("Female", "Male"), "Sex", "N")
//	// group  Sex     N
//	// a      Female  1
//	// b      Female  2
//	// a      Male    3
//	// b      Male    4
//
// The output stacks whole source columns: all rows for the first source
// column, then all for the second, original row order within each. That
// ordering is part of the contract; downstream sorts and plots depend on
// it. Row count is exactly len(src) times the input row count, no cell is
// lost or aggregated, and [Table.PivotWider] inverts the operation.
//
// Source columns must share a kind or promote to one (Int with Float,
// factor with String); otherwise the call fails with
// [TypeUnificationError].
func (t *Table) PivotLonger(src Selection, key, value string) (*Table, error) {
	srcIdx, err := src.resolve(t)
	if err != nil {
		return nil, err
	}
	if len(srcIdx) == 0 {
		return nil, errors.New("tidytable: pivot longer needs at least 1 source column")
	}
	kinds := make([]Kind, len(srcIdx))
	names := make([]string, len(srcIdx))
	for i, j := range srcIdx {
		kinds[i] = t.cols[j].Kind()
		names[i] = t.names[j]
	}
	common, ok := unifyKinds(kinds)
	if !ok {
		return nil, &TypeUnificationError{Cols: names, Kinds: kinds}
	}
	if key == value {
		return nil, &DuplicateNameError{Name: key}
	}

	out := &Table{n: t.n * len(srcIdx)}
	// Non-source columns repeat once per source column.
	rep := make([]int, 0, out.n)
	for range srcIdx {
		for i := 0; i < t.n; i++ {
			rep = append(rep, i)
		}
	}
	for j, name := range t.names {
		if slices.Contains(srcIdx, j) {
			continue
		}
		if name == key || name == value {
			return nil, &DuplicateNameError{Name: name}
		}
		out.names = append(out.names, name)
		out.cols = append(out.cols, t.cols[j].take(rep))
	}
	keyCells := make([]string, 0, out.n)
	valueB := newColBuilder(common, out.n)
	for i, j := range srcIdx {
		col, _ := promote(t.cols[j], common)
		for r := 0; r < t.n; r++ {
			valueB.appendFrom(col, r)
			keyCells = append(keyCells, names[i])
		}
	}
	out.names = append(out.names, key, value)
	out.cols = append(out.cols, Strings(keyCells), valueB.done())
	return out, nil
}

// PivotWider spreads key/value pairs back out into one column per
// distinct key. Every column other than key and value forms the row
// identity: rows sharing an identity tuple merge into one output row,
// which must therefore see each key at most once — two rows with the
// same identity and the same key fail with [DuplicateIdentifierError]
// (make identities unique first with [Table.WithRowID] when that is the
// intent).
//
// Output rows follow first appearance of each identity; generated
// columns follow first appearance of each key value across the whole
// table. Identity/key cells with no source row are missing.
func (t *Table) PivotWider(key, value string) (*Table, error) {
	ki, err := t.colIndex(key)
	if err != nil {
		return nil, err
	}
	vi, err := t.colIndex(value)
	if err != nil {
		return nil, err
	}
	if key == value {
		return nil, &DuplicateNameError{Name: key}
	}
	keyCol, valCol := t.cols[ki], t.cols[vi]

	var idCols []Column
	var idNames []string
	for j := range t.cols {
		if j != ki && j != vi {
			idCols = append(idCols, t.cols[j])
			idNames = append(idNames, t.names[j])
		}
	}

	// Distinct key values in whole-table first-appearance order become
	// the generated columns.
	var kvals []string
	kslot := map[string]int{}
	for i := 0; i < t.n; i++ {
		if keyCol.IsNA(i) {
			return nil, errors.Errorf("tidytable: pivot wider key column %q has a missing value in row %d", key, i)
		}
		kv := cellString(keyCol, i)
		if _, ok := kslot[kv]; !ok {
			if slices.Contains(idNames, kv) {
				return nil, &DuplicateNameError{Name: kv}
			}
			kslot[kv] = len(kvals)
			kvals = append(kvals, kv)
		}
	}

	// Partition rows by identity tuple, first-appearance order.
	var reps []int         // first source row of each identity
	var cell [][]int       // identity x key -> source row, -1 when absent
	ident := map[string]int{}
	var buf []byte
	for i := 0; i < t.n; i++ {
		buf = buf[:0]
		for _, c := range idCols {
			buf = appendCellKey(buf, c, i)
		}
		gi, ok := ident[string(buf)]
		if !ok {
			gi = len(reps)
			ident[string(buf)] = gi
			reps = append(reps, i)
			row := make([]int, len(kvals))
			for k := range row {
				row[k] = -1
			}
			cell = append(cell, row)
		}
		slot := kslot[cellString(keyCol, i)]
		if cell[gi][slot] >= 0 {
			return nil, &DuplicateIdentifierError{
				Identity: identityString(idCols, i),
				Key:      kvals[slot],
			}
		}
		cell[gi][slot] = i
	}

	out := &Table{n: len(reps)}
	for j, c := range idCols {
		out.names = append(out.names, idNames[j])
		out.cols = append(out.cols, c.take(reps))
	}
	for slot, kv := range kvals {
		b := newColBuilder(columnKindForScalar(valCol), len(reps))
		src := mustPromote(valCol)
		for gi := range reps {
			if i := cell[gi][slot]; i >= 0 {
				b.appendFrom(src, i)
			} else {
				b.appendNA()
			}
		}
		out.names = append(out.names, kv)
		out.cols = append(out.cols, b.done())
	}
	return out, nil
}

// identityString formats an identity tuple for error reporting.
func identityString(idCols []Column, row int) string {
	parts := make([]string, len(idCols))
	for j, c := range idCols {
		parts[j] = cellString(c, row)
	}
	return strings.Join(parts, ", ")
}
