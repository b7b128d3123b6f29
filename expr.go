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

// Expressions reference columns by an explicit builder rather than by
// bare-name capture, so there is never a question of which environment a
// name resolves in: [Col] reads from the table the verb is evaluating
// against, and inside grouped verbs that table is the current group's
// rows, which is what scopes aggregates per group.
//
//	tab.Filter(tidytable.Col("pop").Gt(tidytable.Lit(10)))
//	grouped.Mutate(tidytable.Def("share", tidytable.Col("value").Div(tidytable.Sum(tidytable.Col("value")))))
//
// Missing cells propagate: any arithmetic or comparison touching a
// missing operand yields a missing result. In particular Eq against [NA]
// is missing for every row, never true; use [IsNA] to test missingness.

// An Expr is a column-valued expression evaluated against a table.
// Expressions evaluate to a column of the table's length, or to a single
// cell which broadcasts.
type Expr struct {
	node exprNode
}

type exprNode interface {
	eval(t *Table) (Column, error)
}

// Col references the named column of the evaluation context.
func Col(name string) Expr { return Expr{colNode{name}} }

type colNode struct{ name string }

func (n colNode) eval(t *Table) (Column, error) {
	c := t.Column(n.name)
	if c == nil {
		return nil, &UnknownColumnError{Name: n.name}
	}
	return c, nil
}

// Lit is a single-cell literal. It accepts float64, int, int64, string or
// bool and broadcasts against whole columns.
func Lit(v any) Expr { return Expr{litNode{v}} }

type litNode struct{ v any }

func (n litNode) eval(*Table) (Column, error) {
	switch v := n.v.(type) {
	case float64:
		return Floats([]float64{v}), nil
	case int:
		return Ints([]int{v}), nil
	case int64:
		return Ints64([]int64{v}), nil
	case string:
		return Strings([]string{v}), nil
	case bool:
		return Bools([]bool{v}), nil
	}
	return nil, errors.Errorf("tidytable: no literal form for %T", n.v)
}

// NA is the missing-value literal. Comparing any column against NA yields
// missing for every row; [IsNA] is the test that actually detects missing
// cells.
var NA = Expr{naNode{}}

type naNode struct{}

func (naNode) eval(*Table) (Column, error) { return &naColumn{n: 1}, nil }

// naColumn backs the untyped NA literal. It never appears in a table.
type naColumn struct{ n int }

func (c *naColumn) Len() int             { return c.n }
func (c *naColumn) Kind() Kind           { return kindNA }
func (c *naColumn) IsNA(int) bool        { return true }
func (c *naColumn) Value(int) any        { return nil }
func (c *naColumn) take(idx []int) Column { return &naColumn{n: len(idx)} }

// Arithmetic. Int op Int stays Int except Div, which always yields Float;
// an Int and Float mix promotes to Float.

func (e Expr) Add(o Expr) Expr { return Expr{binNode{opAdd, e.node, o.node}} }
func (e Expr) Sub(o Expr) Expr { return Expr{binNode{opSub, e.node, o.node}} }
func (e Expr) Mul(o Expr) Expr { return Expr{binNode{opMul, e.node, o.node}} }
func (e Expr) Div(o Expr) Expr { return Expr{binNode{opDiv, e.node, o.node}} }

// Comparisons yield a boolean column with missing results wherever either
// operand is missing.

func (e Expr) Eq(o Expr) Expr { return Expr{binNode{opEq, e.node, o.node}} }
func (e Expr) Ne(o Expr) Expr { return Expr{binNode{opNe, e.node, o.node}} }
func (e Expr) Lt(o Expr) Expr { return Expr{binNode{opLt, e.node, o.node}} }
func (e Expr) Le(o Expr) Expr { return Expr{binNode{opLe, e.node, o.node}} }
func (e Expr) Gt(o Expr) Expr { return Expr{binNode{opGt, e.node, o.node}} }
func (e Expr) Ge(o Expr) Expr { return Expr{binNode{opGe, e.node, o.node}} }

// Logic follows three-valued semantics: false And missing is false,
// true Or missing is true, and missing otherwise stays missing.

func (e Expr) And(o Expr) Expr { return Expr{binNode{opAnd, e.node, o.node}} }
func (e Expr) Or(o Expr) Expr  { return Expr{binNode{opOr, e.node, o.node}} }

// Not negates a boolean expression; missing stays missing.
func (e Expr) Not() Expr { return Expr{notNode{e.node}} }

type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
	opEq
	opNe
	opLt
	opLe
	opGt
	opGe
	opAnd
	opOr
)

func (op binOp) String() string {
	return [...]string{"+", "-", "*", "/", "==", "!=", "<", "<=", ">", ">=", "and", "or"}[op]
}

type binNode struct {
	op   binOp
	l, r exprNode
}

func (n binNode) eval(t *Table) (Column, error) {
	l, err := n.l.eval(t)
	if err != nil {
		return nil, err
	}
	r, err := n.r.eval(t)
	if err != nil {
		return nil, err
	}
	if l.Len() != r.Len() && l.Len() != 1 && r.Len() != 1 {
		return nil, errors.Errorf("tidytable: operand lengths %d and %d for %v do not broadcast", l.Len(), r.Len(), n.op)
	}
	switch n.op {
	case opAdd, opSub, opMul, opDiv:
		return evalArith(n.op, l, r)
	case opAnd, opOr:
		return evalLogic(n.op, l, r)
	default:
		return evalCompare(n.op, l, r)
	}
}

type notNode struct{ arg exprNode }

func (n notNode) eval(t *Table) (Column, error) {
	c, err := n.arg.eval(t)
	if err != nil {
		return nil, err
	}
	if c.Kind() == kindNA {
		return c, nil
	}
	if c.Kind() != Bool {
		return nil, errors.Errorf("tidytable: not applied to %v column", c.Kind())
	}
	b := c.(*column[bool])
	out := &builder[bool]{kind: Bool, data: make([]bool, 0, b.Len())}
	for i := 0; i < b.Len(); i++ {
		if b.IsNA(i) {
			out.appendNA()
		} else {
			out.data = append(out.data, !b.data[i])
		}
	}
	return out.done(), nil
}

// broadcastLen picks the result length of a binary op after the
// broadcast check.
func broadcastLen(l, r Column) int {
	if l.Len() > r.Len() {
		return l.Len()
	}
	return r.Len()
}

// bcast maps a result row to a cell of an operand, folding length-1
// operands onto every row.
func bcast(c Column, i int) int {
	if c.Len() == 1 {
		return 0
	}
	return i
}

func isNumeric(k Kind) bool { return k == Float || k == Int }

func evalArith(op binOp, l, r Column) (Column, error) {
	n := broadcastLen(l, r)
	if l.Kind() == kindNA || r.Kind() == kindNA {
		return &naColumn{n: n}, nil
	}
	if !isNumeric(l.Kind()) || !isNumeric(r.Kind()) {
		return nil, errors.Errorf("tidytable: %v is not defined between %v and %v", op, l.Kind(), r.Kind())
	}
	if l.Kind() == Int && r.Kind() == Int && op != opDiv {
		li, ri := l.(*column[int64]), r.(*column[int64])
		out := &builder[int64]{kind: Int, data: make([]int64, 0, n)}
		for i := 0; i < n; i++ {
			il, ir := bcast(l, i), bcast(r, i)
			if l.IsNA(il) || r.IsNA(ir) {
				out.appendNA()
				continue
			}
			a, b := li.data[il], ri.data[ir]
			switch op {
			case opAdd:
				out.data = append(out.data, a+b)
			case opSub:
				out.data = append(out.data, a-b)
			case opMul:
				out.data = append(out.data, a*b)
			}
		}
		return out.done(), nil
	}
	out := &builder[float64]{kind: Float, data: make([]float64, 0, n)}
	for i := 0; i < n; i++ {
		il, ir := bcast(l, i), bcast(r, i)
		if l.IsNA(il) || r.IsNA(ir) {
			out.appendNA()
			continue
		}
		a, b := floatAt(l, il), floatAt(r, ir)
		switch op {
		case opAdd:
			out.data = append(out.data, a+b)
		case opSub:
			out.data = append(out.data, a-b)
		case opMul:
			out.data = append(out.data, a*b)
		case opDiv:
			out.data = append(out.data, a/b)
		}
	}
	return out.done(), nil
}

func evalCompare(op binOp, l, r Column) (Column, error) {
	n := broadcastLen(l, r)
	if l.Kind() == kindNA || r.Kind() == kindNA {
		return &naColumn{n: n}, nil
	}
	k, ok := unifyKinds([]Kind{l.Kind(), r.Kind()})
	if !ok {
		return nil, errors.Errorf("tidytable: %v is not defined between %v and %v", op, l.Kind(), r.Kind())
	}
	if k == Bool && op != opEq && op != opNe {
		return nil, errors.Errorf("tidytable: %v is not defined for bool columns", op)
	}
	if k == FactorKind {
		k = String
	}
	out := &builder[bool]{kind: Bool, data: make([]bool, 0, n)}
	for i := 0; i < n; i++ {
		il, ir := bcast(l, i), bcast(r, i)
		if l.IsNA(il) || r.IsNA(ir) {
			out.appendNA()
			continue
		}
		var c int
		switch k {
		case Float, Int:
			a, b := floatAt(l, il), floatAt(r, ir)
			switch {
			case a < b:
				c = -1
			case a > b:
				c = 1
			}
		case String:
			a, b := cellString(l, il), cellString(r, ir)
			switch {
			case a < b:
				c = -1
			case a > b:
				c = 1
			}
		case Bool:
			if l.(*column[bool]).data[il] != r.(*column[bool]).data[ir] {
				c = 1
			}
		}
		var v bool
		switch op {
		case opEq:
			v = c == 0
		case opNe:
			v = c != 0
		case opLt:
			v = c < 0
		case opLe:
			v = c <= 0
		case opGt:
			v = c > 0
		case opGe:
			v = c >= 0
		}
		out.data = append(out.data, v)
	}
	return out.done(), nil
}

func evalLogic(op binOp, l, r Column) (Column, error) {
	n := broadcastLen(l, r)
	for _, c := range []Column{l, r} {
		if c.Kind() != Bool && c.Kind() != kindNA {
			return nil, errors.Errorf("tidytable: %v applied to %v column", op, c.Kind())
		}
	}
	// tri reads a cell as three-valued: -1 missing, 0 false, 1 true.
	tri := func(c Column, i int) int {
		if c.Kind() == kindNA || c.IsNA(i) {
			return -1
		}
		if c.(*column[bool]).data[i] {
			return 1
		}
		return 0
	}
	out := &builder[bool]{kind: Bool, data: make([]bool, 0, n)}
	for i := 0; i < n; i++ {
		a, b := tri(l, bcast(l, i)), tri(r, bcast(r, i))
		var v int
		if op == opAnd {
			switch {
			case a == 0 || b == 0:
				v = 0
			case a == 1 && b == 1:
				v = 1
			default:
				v = -1
			}
		} else {
			switch {
			case a == 1 || b == 1:
				v = 1
			case a == 0 && b == 0:
				v = 0
			default:
				v = -1
			}
		}
		if v < 0 {
			out.appendNA()
		} else {
			out.data = append(out.data, v == 1)
		}
	}
	return out.done(), nil
}
