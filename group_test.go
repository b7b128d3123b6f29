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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGroupBy(t *testing.T) {
	g, err := popTable(t).GroupBy("country")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := g.NumGroups(), 3; got != want {
		t.Errorf("NumGroups() = %v, want %v", got, want)
	}
	if d := cmp.Diff([]string{"country"}, g.Keys()); d != "" {
		t.Errorf("Keys() diff (-want, +got):\n%v", d)
	}
	if got, want := g.Len(), 6; got != want {
		t.Errorf("Len() = %v, want %v", got, want)
	}
}

func TestGroupByNoKeys(t *testing.T) {
	if _, err := popTable(t).GroupBy(); err == nil {
		t.Error("GroupBy() with no keys succeeded")
	}
}

func TestGroupByMissingIsAGroup(t *testing.T) {
	tab := new(Builder).
		Add("k", WithNA(Strings([]string{"a", "", "a", ""}), 1, 3)).
		Add("v", []float64{1, 2, 3, 4}).
		MustDone()
	g, err := tab.GroupBy("k")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := g.NumGroups(), 2; got != want {
		t.Errorf("NumGroups() = %v, want missing cells to form one group (%v)", got, want)
	}
}

func TestRegroupReplaces(t *testing.T) {
	g, err := popTable(t).GroupBy("country")
	if err != nil {
		t.Fatal(err)
	}
	g2, err := g.GroupBy("year")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"year"}, g2.Keys()); d != "" {
		t.Errorf("Keys() diff (-want, +got):\n%v", d)
	}
	if got, want := g2.NumGroups(), 2; got != want {
		t.Errorf("NumGroups() = %v, want %v", got, want)
	}
}

// A per-group mutate scopes aggregates to each group's rows: dividing by
// a sum divides by the group sum.
func TestGroupedMutateShares(t *testing.T) {
	tab := new(Builder).
		Add("g", []string{"a", "a", "b", "b"}).
		Add("v", []float64{1, 2, 1, 3}).
		MustDone()
	g, err := tab.GroupBy("g")
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Mutate(Def("share", Col("v").Div(Sum(Col("v")))))
	if err != nil {
		t.Fatal(err)
	}
	got := floatsOf(t, out.Ungroup(), "share")
	want := []float64{1.0 / 3, 2.0 / 3, 0.25, 0.75}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("share diff (-want, +got):\n%v", d)
	}
}

// Grouped mutate keeps row count and original row order.
func TestGroupedMutateRowOrder(t *testing.T) {
	tab := new(Builder).
		Add("g", []string{"b", "a", "b", "a"}).
		Add("v", []float64{1, 2, 3, 4}).
		MustDone()
	g, err := tab.GroupBy("g")
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Mutate(Def("total", Sum(Col("v"))))
	if err != nil {
		t.Fatal(err)
	}
	flat := out.Ungroup()
	if got, want := flat.Len(), 4; got != want {
		t.Fatalf("Len() = %v, want %v", got, want)
	}
	if d := cmp.Diff([]string{"b", "a", "b", "a"}, stringsOf(t, flat, "g")); d != "" {
		t.Errorf("row order diff (-want, +got):\n%v", d)
	}
	if d := cmp.Diff([]float64{4, 6, 4, 6}, floatsOf(t, flat, "total")); d != "" {
		t.Errorf("total diff (-want, +got):\n%v", d)
	}
}

// A factor flowing through a grouped mutate keeps its kind and its
// level order.
func TestGroupedMutateFactor(t *testing.T) {
	tab := new(Builder).
		Add("g", []string{"a", "a", "b"}).
		Add("f", NewFactor([]string{"low", "high", "low"}, "low", "mid", "high")).
		MustDone()
	g, err := tab.GroupBy("g")
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Mutate(Def("f2", Col("f")))
	if err != nil {
		t.Fatal(err)
	}
	flat := out.Ungroup()
	f2 := flat.MustColumn("f2")
	if got, want := f2.Kind(), FactorKind; got != want {
		t.Fatalf("Kind() = %v, want %v", got, want)
	}
	if d := cmp.Diff([]string{"low", "mid", "high"}, Levels(f2)); d != "" {
		t.Errorf("levels diff (-want, +got):\n%v", d)
	}
	if d := cmp.Diff([]string{"low", "high", "low"}, stringsOf(t, flat, "f2")); d != "" {
		t.Errorf("f2 diff (-want, +got):\n%v", d)
	}
}

// Mutating an empty grouped table behaves as the ungrouped mutate.
func TestGroupedMutateEmpty(t *testing.T) {
	tab := new(Builder).
		Add("g", []string{}).
		Add("v", []float64{}).
		MustDone()
	g, err := tab.GroupBy("g")
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Mutate(Def("w", Col("v")))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.Len(), 0; got != want {
		t.Errorf("Len() = %v, want %v", got, want)
	}
}

func TestGroupedFilter(t *testing.T) {
	tab := new(Builder).
		Add("g", []string{"a", "a", "b", "b"}).
		Add("v", []float64{1, 5, 2, 10}).
		MustDone()
	g, err := tab.GroupBy("g")
	if err != nil {
		t.Fatal(err)
	}
	// Keep rows above their group mean.
	out, err := g.Filter(Col("v").Gt(Mean(Col("v"))))
	if err != nil {
		t.Fatal(err)
	}
	flat := out.Ungroup()
	if d := cmp.Diff([]float64{5, 10}, floatsOf(t, flat, "v")); d != "" {
		t.Errorf("v diff (-want, +got):\n%v", d)
	}
}

func TestGroupedSlice(t *testing.T) {
	tab := new(Builder).
		Add("g", []string{"a", "a", "a", "b"}).
		Add("v", []int{1, 2, 3, 4}).
		MustDone()
	g, err := tab.GroupBy("g")
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Slice(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	flat := out.Ungroup()
	// Positions past a group's size select nothing from that group.
	if got, want := flat.Len(), 3; got != want {
		t.Fatalf("Len() = %v, want %v", got, want)
	}
	if _, err := g.Slice(-1); err == nil {
		t.Error("Slice(-1) succeeded")
	}
}

// Parallel evaluation must be indistinguishable from sequential.
func TestParallelMatchesSequential(t *testing.T) {
	n := 1000
	gs := make([]string, n)
	vs := make([]float64, n)
	for i := range gs {
		gs[i] = string(rune('a' + i%7))
		vs[i] = float64(i % 13)
	}
	tab := new(Builder).Add("g", gs).Add("v", vs).MustDone()

	g, err := tab.GroupBy("g")
	if err != nil {
		t.Fatal(err)
	}
	def := Def("share", Col("v").Div(Sum(Col("v"))))
	seq, err := g.Mutate(def)
	if err != nil {
		t.Fatal(err)
	}
	par, err := g.Parallel(8).Mutate(def)
	if err != nil {
		t.Fatal(err)
	}
	if !seq.Ungroup().Equal(par.Ungroup()) {
		t.Error("parallel grouped mutate differs from sequential")
	}

	seqSum, err := g.Summarise(Def("total", Sum(Col("v"))))
	if err != nil {
		t.Fatal(err)
	}
	parSum, err := g.Parallel(8).Summarise(Def("total", Sum(Col("v"))))
	if err != nil {
		t.Fatal(err)
	}
	if !seqSum.Ungroup().Equal(parSum.Ungroup()) {
		t.Error("parallel grouped summarise differs from sequential")
	}
}
