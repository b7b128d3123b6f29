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
	stderrors "errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// popTable is the worked example shared by several tests: three
// countries over two years.
func popTable(t testing.TB) *Table {
	t.Helper()
	tab, err := new(Builder).
		Add("country", []string{"afg", "afg", "bra", "bra", "chn", "chn"}).
		Add("year", []int{1999, 2000, 1999, 2000, 1999, 2000}).
		Add("pop", []float64{19987071, 20595360, 172006362, 174504898, 1272915272, 1280428583}).
		Done()
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return tab
}

func TestBuilder(t *testing.T) {
	tab := popTable(t)
	if got, want := tab.Len(), 6; got != want {
		t.Errorf("Len() = %v, want %v", got, want)
	}
	if d := cmp.Diff([]string{"country", "year", "pop"}, tab.Names()); d != "" {
		t.Errorf("Names() diff (-want, +got):\n%v", d)
	}
	if got, want := tab.MustColumn("year").Kind(), Int; got != want {
		t.Errorf("year kind = %v, want %v", got, want)
	}
	if got, want := tab.MustColumn("pop").Kind(), Float; got != want {
		t.Errorf("pop kind = %v, want %v", got, want)
	}
}

func TestBuilderDuplicateName(t *testing.T) {
	_, err := new(Builder).
		Add("x", []int{1}).
		Add("x", []int{2}).
		Done()
	var dup *DuplicateNameError
	if !stderrors.As(err, &dup) {
		t.Fatalf("Done() err = %v, want DuplicateNameError", err)
	}
	if got, want := dup.Name, "x"; got != want {
		t.Errorf("dup.Name = %q, want %q", got, want)
	}
}

func TestBuilderLengthMismatch(t *testing.T) {
	_, err := new(Builder).
		Add("a", []int{1, 2, 3}).
		Add("b", []int{1, 2}).
		Done()
	var lm *LengthMismatchError
	if !stderrors.As(err, &lm) {
		t.Fatalf("Done() err = %v, want LengthMismatchError", err)
	}
	if lm.Col != "b" || lm.Len != 2 || lm.Want != 3 {
		t.Errorf("mismatch = %+v, want col b len 2 want 3", lm)
	}
}

func TestColumnLookup(t *testing.T) {
	tab := popTable(t)
	if c := tab.Column("nope"); c != nil {
		t.Errorf("Column(nope) = %v, want nil", c)
	}
	if got, want := tab.MustColumn("year").Value(1), int64(2000); got != want {
		t.Errorf("year[1] = %v, want %v", got, want)
	}
}

func TestRecordsAndEqual(t *testing.T) {
	tab := popTable(t)
	recs := tab.Records()
	if got, want := len(recs), 6; got != want {
		t.Fatalf("len(Records()) = %v, want %v", got, want)
	}
	if got, want := recs[2]["country"], "bra"; got != want {
		t.Errorf("records[2][country] = %v, want %v", got, want)
	}
	if !tab.Equal(popTable(t)) {
		t.Error("Equal() = false for identical tables")
	}
	other, err := tab.Mutate(Def("pop", Col("pop").Mul(Lit(2.0))))
	if err != nil {
		t.Fatal(err)
	}
	if tab.Equal(other) {
		t.Error("Equal() = true for different data")
	}
}

func TestEqualTreatsMissingAsEqual(t *testing.T) {
	a := new(Builder).Add("x", WithNA(Floats([]float64{1, 2}), 1)).MustDone()
	b := new(Builder).Add("x", WithNA(Floats([]float64{1, 99}), 1)).MustDone()
	if !a.Equal(b) {
		t.Error("Equal() = false, want missing cells to compare equal")
	}
}

func TestWithRowID(t *testing.T) {
	tab := popTable(t)
	out, err := tab.WithRowID("row")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"row", "country", "year", "pop"}, out.Names()); d != "" {
		t.Errorf("Names() diff (-want, +got):\n%v", d)
	}
	if got, want := out.MustColumn("row").Value(4), int64(4); got != want {
		t.Errorf("row[4] = %v, want %v", got, want)
	}
	if _, err := tab.WithRowID("pop"); err == nil {
		t.Error("WithRowID(pop) succeeded, want duplicate name error")
	}
}

func TestDropNA(t *testing.T) {
	tab := new(Builder).
		Add("a", WithNA(Floats([]float64{1, 2, 3}), 1)).
		Add("b", WithNA(Strings([]string{"x", "y", "z"}), 2)).
		MustDone()

	all, err := tab.DropNA()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := all.Len(), 1; got != want {
		t.Errorf("DropNA() rows = %v, want %v", got, want)
	}

	onA, err := tab.DropNA("a")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := onA.Len(), 2; got != want {
		t.Errorf("DropNA(a) rows = %v, want %v", got, want)
	}

	if _, err := tab.DropNA("nope"); err == nil {
		t.Error("DropNA(nope) succeeded, want unknown column error")
	}
}

func TestFloatsNormalizesNaN(t *testing.T) {
	c := Floats([]float64{1, math.NaN(), 3})
	if !c.IsNA(1) {
		t.Error("IsNA(1) = false, want NaN to load as missing")
	}
	if c.Value(1) != nil {
		t.Errorf("Value(1) = %v, want nil", c.Value(1))
	}
}
