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

	"github.com/aclements/go-moremath/stats"
	"github.com/pkg/errors"
)

// Aggregates evaluate their argument against the whole evaluation context
// and reduce it to a single cell. Inside grouped verbs the context is one
// group's rows, so the same expression computes per-group aggregates with
// no extra machinery.
//
// A missing cell anywhere in the input makes the aggregate missing, per
// the propagation rule; drop rows first (see [Table.DropNA]) to aggregate
// over the present cells only.

// Sum reduces a numeric expression to its total. The sum of no rows is 0.
func Sum(e Expr) Expr { return Expr{aggNode{"sum", e.node}} }

// Mean reduces a numeric expression to its arithmetic mean.
func Mean(e Expr) Expr { return Expr{aggNode{"mean", e.node}} }

// GeoMean reduces a numeric expression to its geometric mean.
func GeoMean(e Expr) Expr { return Expr{aggNode{"geomean", e.node}} }

// Median reduces a numeric expression to its median.
func Median(e Expr) Expr { return Expr{aggNode{"median", e.node}} }

// Min reduces an orderable expression to its smallest value. Factors
// order by level, strings lexically.
func Min(e Expr) Expr { return Expr{aggNode{"min", e.node}} }

// Max is the counterpart of [Min].
func Max(e Expr) Expr { return Expr{aggNode{"max", e.node}} }

// First reduces an expression to its first cell; [Last] to its final one.
// On an empty context both are missing.
func First(e Expr) Expr { return Expr{aggNode{"first", e.node}} }

// Last reduces an expression to its final cell.
func Last(e Expr) Expr { return Expr{aggNode{"last", e.node}} }

// N is the row count of the evaluation context, which inside grouped
// verbs is the size of the current group.
func N() Expr { return Expr{nNode{}} }

type nNode struct{}

func (nNode) eval(t *Table) (Column, error) { return Ints([]int{t.Len()}), nil }

// IsNA tests cells for missingness. Unlike every comparison it never
// yields a missing result: missing cells map to true, present ones to
// false.
func IsNA(e Expr) Expr { return Expr{isNANode{e.node}} }

type isNANode struct{ arg exprNode }

func (n isNANode) eval(t *Table) (Column, error) {
	c, err := n.arg.eval(t)
	if err != nil {
		return nil, err
	}
	out := make([]bool, c.Len())
	for i := range out {
		out[i] = c.IsNA(i)
	}
	return Bools(out), nil
}

// Desc marks a ranking argument as descending. It is only meaningful
// directly under [MinRank].
func (e Expr) Desc() Expr { return Expr{descNode{e.node}} }

type descNode struct{ arg exprNode }

func (descNode) eval(*Table) (Column, error) {
	return nil, errors.New("tidytable: Desc is only meaningful inside a ranking function")
}

// MinRank ranks the rows of the evaluation context by the expression's
// values, ties sharing their smallest rank, missing cells ranking as
// missing. Wrap the argument in [Expr.Desc] to rank largest-first:
//
//	tab.Filter(tidytable.MinRank(tidytable.Col("score").Desc()).Le(tidytable.Lit(2)))
func MinRank(e Expr) Expr {
	n := e.node
	desc := false
	if d, ok := n.(descNode); ok {
		n, desc = d.arg, true
	}
	return Expr{minRankNode{arg: n, desc: desc}}
}

type minRankNode struct {
	arg  exprNode
	desc bool
}

func (n minRankNode) eval(t *Table) (Column, error) {
	c, err := n.arg.eval(t)
	if err != nil {
		return nil, err
	}
	switch c.Kind() {
	case Float, Int, String, FactorKind:
	default:
		return nil, errors.Errorf("tidytable: cannot rank a %v column", c.Kind())
	}
	// Order the present cells, then walk them assigning each tie run the
	// rank of its first member.
	var idx []int
	for i := 0; i < c.Len(); i++ {
		if !c.IsNA(i) {
			idx = append(idx, i)
		}
	}
	cmp := func(i, j int) int { return compareCells(c, i, j) }
	sort.SliceStable(idx, func(a, b int) bool {
		v := cmp(idx[a], idx[b])
		if n.desc {
			v = -v
		}
		return v < 0
	})
	out := &builder[int64]{kind: Int, data: make([]int64, c.Len())}
	rank := int64(0)
	for pos, i := range idx {
		if pos == 0 || cmp(i, idx[pos-1]) != 0 {
			rank = int64(pos + 1)
		}
		out.data[i] = rank
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNA(i) {
			out.na = append(out.na, i)
		}
	}
	return out.done(), nil
}

// compareCells orders two present cells of one column: numerics by value,
// strings lexically, factors by level order.
func compareCells(c Column, i, j int) int {
	switch c := c.(type) {
	case *column[float64], *column[int64]:
		a, b := floatAt(c, i), floatAt(c, j)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case *column[string]:
		switch {
		case c.data[i] < c.data[j]:
			return -1
		case c.data[i] > c.data[j]:
			return 1
		}
		return 0
	case *column[bool]:
		a, b := c.data[i], c.data[j]
		switch {
		case !a && b:
			return -1
		case a && !b:
			return 1
		}
		return 0
	case *factorColumn:
		return c.codes[i] - c.codes[j]
	}
	return 0
}

type aggNode struct {
	fn  string
	arg exprNode
}

func (n aggNode) eval(t *Table) (Column, error) {
	c, err := n.arg.eval(t)
	if err != nil {
		return nil, err
	}
	if c.Kind() == kindNA {
		return &naColumn{n: 1}, nil
	}
	switch n.fn {
	case "first", "last":
		b := newColBuilder(columnKindForScalar(c), 0)
		switch {
		case c.Len() == 0:
			b.appendNA()
		case n.fn == "first":
			b.appendFrom(mustPromote(c), 0)
		default:
			b.appendFrom(mustPromote(c), c.Len()-1)
		}
		return b.done(), nil
	case "min", "max":
		return aggBounds(n.fn, c)
	}
	// The remaining reductions are numeric.
	if !isNumeric(c.Kind()) {
		return nil, errors.Errorf("tidytable: %s over a %v column", n.fn, c.Kind())
	}
	xs, anyNA := floatCells(c)
	if anyNA {
		return naScalar(aggKind(n.fn, c.Kind())), nil
	}
	switch n.fn {
	case "sum":
		if c.Kind() == Int {
			var total int64
			for _, v := range c.(*column[int64]).data {
				total += v
			}
			return Ints64([]int64{total}), nil
		}
		var total float64
		for _, v := range xs {
			total += v
		}
		return Floats([]float64{total}), nil
	case "mean":
		if len(xs) == 0 {
			return naScalar(Float), nil
		}
		return Floats([]float64{stats.Mean(xs)}), nil
	case "geomean":
		if len(xs) == 0 {
			return naScalar(Float), nil
		}
		return Floats([]float64{stats.GeoMean(xs)}), nil
	case "median":
		if len(xs) == 0 {
			return naScalar(Float), nil
		}
		sort.Float64s(xs)
		m := len(xs) / 2
		if len(xs)%2 == 1 {
			return Floats([]float64{xs[m]}), nil
		}
		return Floats([]float64{(xs[m-1] + xs[m]) / 2}), nil
	}
	panic("tidytable: unknown aggregate " + n.fn)
}

// aggBounds handles min and max across every orderable kind. Numeric
// bounds come from the sample machinery; strings and factors walk.
func aggBounds(fn string, c Column) (Column, error) {
	if c.Len() == 0 {
		return naScalar(columnKindForScalar(c)), nil
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNA(i) {
			return naScalar(columnKindForScalar(c)), nil
		}
	}
	switch c.Kind() {
	case Int:
		// Stay in int64 so values beyond float64 precision keep exact.
		data := c.(*column[int64]).data
		v := data[0]
		for _, x := range data[1:] {
			if (fn == "min" && x < v) || (fn == "max" && x > v) {
				v = x
			}
		}
		return Ints64([]int64{v}), nil
	case Float:
		xs, _ := floatCells(c)
		min, max := stats.Sample{Xs: xs}.Bounds()
		v := min
		if fn == "max" {
			v = max
		}
		return Floats([]float64{v}), nil
	case String, FactorKind, Bool:
		best := 0
		for i := 1; i < c.Len(); i++ {
			cmp := compareCells(c, i, best)
			if (fn == "min" && cmp < 0) || (fn == "max" && cmp > 0) {
				best = i
			}
		}
		b := newColBuilder(columnKindForScalar(c), 1)
		b.appendFrom(mustPromote(c), best)
		return b.done(), nil
	}
	return nil, errors.Errorf("tidytable: %s over a %v column", fn, c.Kind())
}

// aggKind is the result kind of a numeric reduction over kind k.
func aggKind(fn string, k Kind) Kind {
	if fn == "sum" && k == Int {
		return Int
	}
	return Float
}

// columnKindForScalar maps a column to the kind its scalar reductions
// build: factors reduce to their string labels.
func columnKindForScalar(c Column) Kind {
	if c.Kind() == FactorKind {
		return String
	}
	return c.Kind()
}

func mustPromote(c Column) Column {
	p, ok := promote(c, columnKindForScalar(c))
	if !ok {
		panic("tidytable: promotion failed for " + c.Kind().String())
	}
	return p
}

func naScalar(k Kind) Column {
	b := newColBuilder(k, 1)
	b.appendNA()
	return b.done()
}

// floatCells reads the present numeric cells of c in order and reports
// whether any cell was missing.
func floatCells(c Column) (xs []float64, anyNA bool) {
	xs = make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.IsNA(i) {
			anyNA = true
			continue
		}
		xs = append(xs, floatAt(c, i))
	}
	return xs, anyNA
}
