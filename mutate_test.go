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

func TestMutate(t *testing.T) {
	tab := new(Builder).
		Add("a", []float64{1, 2, 3}).
		Add("b", []float64{10, 20, 30}).
		MustDone()
	out, err := tab.Mutate(Def("sum", Col("a").Add(Col("b"))))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{11, 22, 33}, floatsOf(t, out, "sum")); d != "" {
		t.Errorf("sum diff (-want, +got):\n%v", d)
	}
}

// Definitions apply left to right, each seeing the columns the previous
// ones produced.
func TestMutateSequentialVisibility(t *testing.T) {
	tab := new(Builder).Add("x", []float64{2, 4}).MustDone()
	out, err := tab.Mutate(
		Def("double", Col("x").Mul(Lit(2.0))),
		Def("quad", Col("double").Mul(Lit(2.0))),
	)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{8, 16}, floatsOf(t, out, "quad")); d != "" {
		t.Errorf("quad diff (-want, +got):\n%v", d)
	}
}

func TestMutateReplacesExisting(t *testing.T) {
	tab := new(Builder).Add("x", []float64{1, 2}).MustDone()
	out, err := tab.Mutate(Def("x", Col("x").Mul(Lit(10.0))))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"x"}, out.Names()); d != "" {
		t.Errorf("Names() diff (-want, +got):\n%v", d)
	}
	if d := cmp.Diff([]float64{10, 20}, floatsOf(t, out, "x")); d != "" {
		t.Errorf("x diff (-want, +got):\n%v", d)
	}
}

func TestMutateBroadcastScalar(t *testing.T) {
	tab := popTable(t)
	out, err := tab.Mutate(Def("flag", Lit("checked")))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.MustColumn("flag").Len(), 6; got != want {
		t.Fatalf("flag len = %v, want %v", got, want)
	}
	if got, want := out.MustColumn("flag").Value(5), "checked"; got != want {
		t.Errorf("flag[5] = %v, want %v", got, want)
	}
}

func TestMutateMissingPropagates(t *testing.T) {
	tab := new(Builder).
		Add("a", WithNA(Floats([]float64{1, 2, 3}), 1)).
		MustDone()
	out, err := tab.Mutate(Def("b", Col("a").Add(Lit(1.0))))
	if err != nil {
		t.Fatal(err)
	}
	b := out.MustColumn("b")
	if !b.IsNA(1) {
		t.Error("b[1] is present, want arithmetic on missing to stay missing")
	}
	if got, want := b.Value(2), 4.0; got != want {
		t.Errorf("b[2] = %v, want %v", got, want)
	}
}

func TestMutateIntDivisionYieldsFloat(t *testing.T) {
	tab := new(Builder).Add("n", []int{1, 3}).MustDone()
	out, err := tab.Mutate(Def("half", Col("n").Div(Lit(2))))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.MustColumn("half").Kind(), Float; got != want {
		t.Fatalf("half kind = %v, want %v", got, want)
	}
	if d := cmp.Diff([]float64{0.5, 1.5}, floatsOf(t, out, "half")); d != "" {
		t.Errorf("half diff (-want, +got):\n%v", d)
	}
}

func TestMutateUntypedMissingRejected(t *testing.T) {
	if _, err := popTable(t).Mutate(Def("gap", NA)); err == nil {
		t.Error("defining a column as bare NA succeeded, want an error directing to WithNA")
	}
}

func floatsOf(t testing.TB, tab *Table, name string) []float64 {
	t.Helper()
	c := tab.MustColumn(name)
	out := make([]float64, c.Len())
	for i := range out {
		if c.IsNA(i) {
			t.Fatalf("%s[%d] is missing", name, i)
		}
		out[i] = c.Value(i).(float64)
	}
	return out
}
