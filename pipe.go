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

// A Pipeline chains verbs left to right with a single error check at the
// end, standing in for the pipe operator of the tidy-data notation:
//
//	out, err := tidytable.Chain(tab).
//		Filter(tidytable.Col("year").Ge(tidytable.Lit(2000))).
//		GroupBy("country").
//		Summarise(tidytable.Def("total", tidytable.Sum(tidytable.Col("pop")))).
//		Ungroup().
//		Arrange(tidytable.Desc("total")).
//		Result()
//
// The first failing verb sticks; later verbs are skipped and Result
// reports it.
//
// A pipeline is either in the ungrouped or the grouped state. GroupBy
// moves it to grouped; Summarise consumes one grouping level; Ungroup
// returns to ungrouped. The grouped state admits only Filter, Mutate,
// Slice, Summarise, GroupBy and Ungroup — there are no other grouped
// transitions, so the rest of the verbs report an error when grouped.
type Pipeline struct {
	t   *Table
	g   *GroupedTable
	err error
}

// Chain starts a pipeline on t.
func Chain(t *Table) *Pipeline { return &Pipeline{t: t} }

func (p *Pipeline) fail(err error) *Pipeline {
	if p.err == nil {
		p.err = err
	}
	return p
}

// ungroupedOnly guards the verbs with no grouped transition.
func (p *Pipeline) ungroupedOnly(verb string) bool {
	if p.err != nil {
		return false
	}
	if p.g != nil {
		p.err = errors.Errorf("tidytable: %s is not defined on a grouped table; ungroup first", verb)
		return false
	}
	return true
}

func (p *Pipeline) Select(sels ...Selection) *Pipeline {
	if p.ungroupedOnly("select") {
		p.t, p.err = p.t.Select(sels...)
	}
	return p
}

func (p *Pipeline) Rename(newToOld map[string]string) *Pipeline {
	if p.ungroupedOnly("rename") {
		p.t, p.err = p.t.Rename(newToOld)
	}
	return p
}

func (p *Pipeline) Arrange(keys ...SortKey) *Pipeline {
	if p.ungroupedOnly("arrange") {
		p.t, p.err = p.t.Arrange(keys...)
	}
	return p
}

func (p *Pipeline) PivotLonger(src Selection, key, value string) *Pipeline {
	if p.ungroupedOnly("pivot longer") {
		p.t, p.err = p.t.PivotLonger(src, key, value)
	}
	return p
}

func (p *Pipeline) PivotWider(key, value string) *Pipeline {
	if p.ungroupedOnly("pivot wider") {
		p.t, p.err = p.t.PivotWider(key, value)
	}
	return p
}

func (p *Pipeline) DropNA(cols ...string) *Pipeline {
	if p.ungroupedOnly("drop na") {
		p.t, p.err = p.t.DropNA(cols...)
	}
	return p
}

func (p *Pipeline) Filter(preds ...Expr) *Pipeline {
	switch {
	case p.err != nil:
	case p.g != nil:
		p.g, p.err = p.g.Filter(preds...)
	default:
		p.t, p.err = p.t.Filter(preds...)
	}
	return p
}

func (p *Pipeline) Mutate(defs ...ColDef) *Pipeline {
	switch {
	case p.err != nil:
	case p.g != nil:
		p.g, p.err = p.g.Mutate(defs...)
	default:
		p.t, p.err = p.t.Mutate(defs...)
	}
	return p
}

func (p *Pipeline) Slice(positions ...int) *Pipeline {
	switch {
	case p.err != nil:
	case p.g != nil:
		p.g, p.err = p.g.Slice(positions...)
	default:
		p.t, p.err = p.t.Slice(positions...)
	}
	return p
}

// Head keeps the first n rows, or all rows when fewer.
func (p *Pipeline) Head(n int) *Pipeline {
	if p.ungroupedOnly("head") {
		p.t = p.t.Head(n)
	}
	return p
}

// Tail keeps the last n rows, or all rows when fewer.
func (p *Pipeline) Tail(n int) *Pipeline {
	if p.ungroupedOnly("tail") {
		p.t = p.t.Tail(n)
	}
	return p
}

// Parallel sets the worker count for subsequent grouped verbs. It is an
// error on an ungrouped pipeline.
func (p *Pipeline) Parallel(n int) *Pipeline {
	switch {
	case p.err != nil:
	case p.g == nil:
		p.err = errors.New("tidytable: parallel applies to a grouped table; group first")
	default:
		p.g = p.g.Parallel(n)
	}
	return p
}

// GroupBy groups the current rows; on an already grouped pipeline it
// replaces the grouping.
func (p *Pipeline) GroupBy(keys ...string) *Pipeline {
	switch {
	case p.err != nil:
	case p.g != nil:
		p.g, p.err = p.g.GroupBy(keys...)
	default:
		p.g, p.err = p.t.GroupBy(keys...)
		p.t = nil
	}
	return p
}

// Summarise aggregates. Grouped, it consumes the last grouping key and
// stays grouped over the remaining ones; ungrouped, it reduces the whole
// table to one row.
func (p *Pipeline) Summarise(defs ...ColDef) *Pipeline {
	switch {
	case p.err != nil:
	case p.g != nil:
		p.g, p.err = p.g.Summarise(defs...)
	default:
		p.t, p.err = p.t.Summarise(defs...)
	}
	return p
}

// Ungroup collapses an active grouping. On an ungrouped pipeline it is a
// no-op.
func (p *Pipeline) Ungroup() *Pipeline {
	if p.err == nil && p.g != nil {
		p.t, p.g = p.g.Ungroup(), nil
	}
	return p
}

// Result returns the pipeline's table or its first error. A grouping
// still active at this point is discarded; use [Pipeline.Grouped] to
// keep it.
func (p *Pipeline) Result() (*Table, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.g != nil {
		return p.g.Ungroup(), nil
	}
	return p.t, nil
}

// Grouped returns the pipeline's grouped table, or an error when the
// pipeline is not in the grouped state.
func (p *Pipeline) Grouped() (*GroupedTable, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.g == nil {
		return nil, errors.New("tidytable: pipeline is not grouped")
	}
	return p.g, nil
}
