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
	"math"
	"strconv"

	"golang.org/x/exp/slices"
)

// Kind identifies the element type of a column.
type Kind int

const (
	Float Kind = iota
	Int
	String
	Bool
	// FactorKind is a string valued column with an attached ordered list
	// of permitted levels. See [NewFactor].
	FactorKind

	// kindNA is the kind of the untyped missing literal [NA]. It never
	// appears in a table column.
	kindNA Kind = -1
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case String:
		return "string"
	case Bool:
		return "bool"
	case FactorKind:
		return "factor"
	case kindNA:
		return "na"
	}
	return "invalid"
}

// Column is one table column's worth of typed cells. Columns are
// immutable; every verb that changes data produces fresh columns.
//
// Cells may hold the missing value. [Column.Value] boxes a cell, returning
// nil for missing cells; [Column.IsNA] is the explicit missingness test.
type Column interface {
	// Len returns the number of cells.
	Len() int
	// Kind reports the element type.
	Kind() Kind
	// IsNA reports whether cell i is missing.
	IsNA(i int) bool
	// Value returns cell i boxed (float64, int64, string or bool), or
	// nil when the cell is missing. Factor cells box their level label.
	Value(i int) any

	// take returns a new column holding the cells at idx, in order.
	take(idx []int) Column
}

// Validity bitmasks are packed bit fields, one bit per cell, set when the
// cell is present. A nil mask means every cell is present.

func setBit(bits []byte, i int) {
	bits[i/8] |= 1 << (i % 8)
}

func clearBit(bits []byte, i int) {
	bits[i/8] &^= 1 << (i % 8)
}

func getBit(bits []byte, i int) bool {
	return bits[i/8]&(1<<(i%8)) != 0
}

func newBits(n int) []byte {
	bits := make([]byte, (n+7)/8)
	for i := 0; i < n; i++ {
		setBit(bits, i)
	}
	return bits
}

// column is the concrete storage shared by the float, int, string and
// bool kinds.
type column[E float64 | int64 | string | bool] struct {
	kind  Kind
	data  []E
	valid []byte // nil when every cell is present
}

func (c *column[E]) Len() int   { return len(c.data) }
func (c *column[E]) Kind() Kind { return c.kind }

func (c *column[E]) IsNA(i int) bool {
	return c.valid != nil && !getBit(c.valid, i)
}

func (c *column[E]) Value(i int) any {
	if c.IsNA(i) {
		return nil
	}
	return c.data[i]
}

func (c *column[E]) take(idx []int) Column {
	out := &column[E]{kind: c.kind, data: make([]E, len(idx))}
	if c.valid != nil {
		out.valid = newBits(len(idx))
	}
	for j, i := range idx {
		out.data[j] = c.data[i]
		if c.IsNA(i) {
			clearBit(out.valid, j)
		}
	}
	return out
}

// Floats returns a float column. NaN cells are normalized to the missing
// value, so a float column never distinguishes NaN from NA.
func Floats(vals []float64) Column {
	c := &column[float64]{kind: Float, data: slices.Clone(vals)}
	for i, v := range vals {
		if math.IsNaN(v) {
			if c.valid == nil {
				c.valid = newBits(len(vals))
			}
			clearBit(c.valid, i)
			c.data[i] = 0
		}
	}
	return c
}

// Ints returns an integer column.
func Ints(vals []int) Column {
	data := make([]int64, len(vals))
	for i, v := range vals {
		data[i] = int64(v)
	}
	return &column[int64]{kind: Int, data: data}
}

// Ints64 returns an integer column from 64-bit values.
func Ints64(vals []int64) Column {
	return &column[int64]{kind: Int, data: slices.Clone(vals)}
}

// Strings returns a string column.
func Strings(vals []string) Column {
	return &column[string]{kind: String, data: slices.Clone(vals)}
}

// Bools returns a boolean column.
func Bools(vals []bool) Column {
	return &column[bool]{kind: Bool, data: slices.Clone(vals)}
}

// WithNA returns a copy of c with the cells at the given positions set to
// the missing value.
func WithNA(c Column, at ...int) Column {
	idx := make([]int, c.Len())
	for i := range idx {
		idx[i] = i
	}
	out := c.take(idx) // private copy
	for _, i := range at {
		switch c := out.(type) {
		case *column[float64]:
			c.setNA(i)
		case *column[int64]:
			c.setNA(i)
		case *column[string]:
			c.setNA(i)
		case *column[bool]:
			c.setNA(i)
		case *factorColumn:
			c.codes[i] = -1
		}
	}
	return out
}

func (c *column[E]) setNA(i int) {
	if c.valid == nil {
		c.valid = newBits(len(c.data))
	}
	clearBit(c.valid, i)
	var zero E
	c.data[i] = zero
}

// colBuilder accumulates cells for a new column. appendFrom requires the
// source column to already have the builder's kind; promote mismatched
// sources first.
type colBuilder interface {
	appendFrom(src Column, i int)
	appendNA()
	done() Column
}

type builder[E float64 | int64 | string | bool] struct {
	kind  Kind
	data  []E
	na    []int
}

func (b *builder[E]) appendFrom(src Column, i int) {
	c := src.(*column[E])
	if c.IsNA(i) {
		b.appendNA()
		return
	}
	b.data = append(b.data, c.data[i])
}

func (b *builder[E]) appendNA() {
	b.na = append(b.na, len(b.data))
	var zero E
	b.data = append(b.data, zero)
}

func (b *builder[E]) done() Column {
	c := &column[E]{kind: b.kind, data: b.data}
	if len(b.na) > 0 {
		c.valid = newBits(len(b.data))
		for _, i := range b.na {
			clearBit(c.valid, i)
		}
	}
	return c
}

func newColBuilder(k Kind, capacity int) colBuilder {
	switch k {
	case Float:
		return &builder[float64]{kind: Float, data: make([]float64, 0, capacity)}
	case Int:
		return &builder[int64]{kind: Int, data: make([]int64, 0, capacity)}
	case String:
		return &builder[string]{kind: String, data: make([]string, 0, capacity)}
	case Bool:
		return &builder[bool]{kind: Bool, data: make([]bool, 0, capacity)}
	}
	panic("tidytable: no builder for kind " + k.String())
}

// promote converts c to kind k if a lossless promotion exists: Int to
// Float, and factor to String. Columns already of kind k pass through.
func promote(c Column, k Kind) (Column, bool) {
	if c.Kind() == k {
		return c, true
	}
	switch {
	case c.Kind() == Int && k == Float:
		src := c.(*column[int64])
		out := &column[float64]{kind: Float, data: make([]float64, len(src.data)), valid: slices.Clone(src.valid)}
		for i, v := range src.data {
			out.data[i] = float64(v)
		}
		return out, true
	case c.Kind() == FactorKind && k == String:
		src := c.(*factorColumn)
		out := &builder[string]{kind: String, data: make([]string, 0, src.Len())}
		for i := 0; i < src.Len(); i++ {
			if src.IsNA(i) {
				out.appendNA()
			} else {
				out.data = append(out.data, src.levels[src.codes[i]])
			}
		}
		return out.done(), true
	}
	return nil, false
}

// unifyKinds finds the common kind a set of columns promotes to, shared by
// PivotLonger and the comparison kernels.
func unifyKinds(kinds []Kind) (Kind, bool) {
	k := kinds[0]
	for _, o := range kinds[1:] {
		switch {
		case o == k:
		case (o == Int && k == Float) || (o == Float && k == Int):
			k = Float
		case (o == FactorKind && k == String) || (o == String && k == FactorKind):
			k = String
		default:
			return 0, false
		}
	}
	return k, true
}

// cellString formats cell i of c the way Print does: level labels for
// factors, shortest float form, and "<NA>" for missing cells.
func cellString(c Column, i int) string {
	if c.IsNA(i) {
		return "<NA>"
	}
	switch c := c.(type) {
	case *column[float64]:
		return strconv.FormatFloat(c.data[i], 'g', -1, 64)
	case *column[int64]:
		return strconv.FormatInt(c.data[i], 10)
	case *column[string]:
		return c.data[i]
	case *column[bool]:
		return strconv.FormatBool(c.data[i])
	case *factorColumn:
		return c.levels[c.codes[i]]
	}
	return "?"
}

// floatAt reads a numeric cell as float64. Only valid for Float and Int
// columns with a present cell.
func floatAt(c Column, i int) float64 {
	switch c := c.(type) {
	case *column[float64]:
		return c.data[i]
	case *column[int64]:
		return float64(c.data[i])
	}
	panic("tidytable: floatAt on " + c.Kind().String() + " column")
}
