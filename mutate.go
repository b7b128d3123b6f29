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

import "github.com/pkg/errors"

// A ColDef names one column to compute, for [Table.Mutate] and
// [GroupedTable.Summarise].
type ColDef struct {
	Name string
	Expr Expr
}

// Def pairs a column name with the expression that computes it.
func Def(name string, e Expr) ColDef { return ColDef{Name: name, Expr: e} }

// Mutate returns a table extended (or overwritten) with one column per
// definition. Definitions evaluate left to right and each sees the
// columns defined before it in the same call:
//
//	tab.Mutate(
//		tidytable.Def("rate", tidytable.Col("deaths").Div(tidytable.Col("pop"))),
//		tidytable.Def("pct", tidytable.Col("rate").Mul(tidytable.Lit(100.0))),
//	)
//
// A result of length 1 broadcasts to every row; any other length that is
// not the row count is a [LengthMismatchError].
func (t *Table) Mutate(defs ...ColDef) (*Table, error) {
	cur := t
	for _, def := range defs {
		col, err := def.Expr.node.eval(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "mutate %q", def.Name)
		}
		col, err = fitColumn(def.Name, col, cur.n)
		if err != nil {
			return nil, err
		}
		cur, err = cur.withColumn(def.Name, col)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// fitColumn broadcasts a length-1 result to n rows and rejects any other
// length mismatch. Untyped NA results have no column kind to materialize.
func fitColumn(name string, col Column, n int) (Column, error) {
	if col.Kind() == kindNA {
		return nil, errors.Errorf("tidytable: column %q would be untyped NA; use a typed column with WithNA instead", name)
	}
	switch col.Len() {
	case n:
		return col, nil
	case 1:
		idx := make([]int, n)
		return col.take(idx), nil
	}
	return nil, &LengthMismatchError{Col: name, Len: col.Len(), Want: n}
}
