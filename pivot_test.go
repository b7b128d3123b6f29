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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// PivotLonger stacks source columns whole: every row of the first
// source column, then every row of the second.
func TestPivotLongerOrder(t *testing.T) {
	wide := new(Builder).
		Add("group", []string{"a", "b"}).
		Add("Female", []float64{1, 2}).
		Add("Male", []float64{3, 4}).
		MustDone()
	long, err := wide.PivotLonger(Cols("Female", "Male"), "Sex", "N")
	if err != nil {
		t.Fatal(err)
	}
	want := new(Builder).
		Add("group", []string{"a", "b", "a", "b"}).
		Add("Sex", []string{"Female", "Female", "Male", "Male"}).
		Add("N", []float64{1, 2, 3, 4}).
		MustDone()
	if !long.Equal(want) {
		t.Errorf("PivotLonger mismatch\ngot:\n%v\nwant:\n%v", long, want)
	}
}

func TestPivotLongerRowCount(t *testing.T) {
	tab := new(Builder).
		Add("id", []int{1, 2, 3}).
		Add("q1", []float64{1, 2, 3}).
		Add("q2", []float64{4, 5, 6}).
		Add("q3", []float64{7, 8, 9}).
		Add("q4", []float64{0, 1, 2}).
		MustDone()
	long, err := tab.PivotLonger(Match(func(n string) bool { return n != "id" }), "quarter", "sales")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := long.Len(), 3*4; got != want {
		t.Errorf("Len() = %v, want rows times source columns = %v", got, want)
	}
}

func TestPivotLongerUnifiesIntWithFloat(t *testing.T) {
	tab := new(Builder).
		Add("a", []int{1, 2}).
		Add("b", []float64{0.5, 1.5}).
		MustDone()
	long, err := tab.PivotLonger(Cols("a", "b"), "key", "value")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := long.MustColumn("value").Kind(), Float; got != want {
		t.Errorf("value kind = %v, want %v", got, want)
	}
}

func TestPivotLongerTypeUnification(t *testing.T) {
	tab := new(Builder).
		Add("a", []int{1, 2}).
		Add("b", []string{"x", "y"}).
		MustDone()
	_, err := tab.PivotLonger(Cols("a", "b"), "key", "value")
	var tu *TypeUnificationError
	if !stderrors.As(err, &tu) {
		t.Fatalf("err = %v, want TypeUnificationError", err)
	}
	if d := cmp.Diff([]string{"a", "b"}, tu.Cols); d != "" {
		t.Errorf("Cols diff (-want, +got):\n%v", d)
	}
}

func TestPivotLongerNameCollisions(t *testing.T) {
	tab := new(Builder).
		Add("id", []int{1}).
		Add("x", []float64{1}).
		MustDone()
	if _, err := tab.PivotLonger(Cols("x"), "id", "value"); err == nil {
		t.Error("key colliding with a carried column succeeded")
	}
	if _, err := tab.PivotLonger(Cols("x"), "k", "k"); err == nil {
		t.Error("key == value succeeded")
	}
}

func TestPivotLongerEmptySource(t *testing.T) {
	if _, err := popTable(t).PivotLonger(Cols(), "k", "v"); err == nil {
		t.Error("empty source selection succeeded")
	}
}

func TestPivotWider(t *testing.T) {
	long := new(Builder).
		Add("country", []string{"afg", "afg", "bra", "bra"}).
		Add("kind", []string{"cases", "pop", "cases", "pop"}).
		Add("count", []float64{745, 19987071, 37737, 172006362}).
		MustDone()
	wide, err := long.PivotWider("kind", "count")
	if err != nil {
		t.Fatal(err)
	}
	want := new(Builder).
		Add("country", []string{"afg", "bra"}).
		Add("cases", []float64{745, 37737}).
		Add("pop", []float64{19987071, 172006362}).
		MustDone()
	if !wide.Equal(want) {
		t.Errorf("PivotWider mismatch\ngot:\n%v\nwant:\n%v", wide, want)
	}
}

func TestPivotWiderAbsentCellsMissing(t *testing.T) {
	long := new(Builder).
		Add("id", []string{"a", "a", "b"}).
		Add("k", []string{"x", "y", "x"}).
		Add("v", []float64{1, 2, 3}).
		MustDone()
	wide, err := long.PivotWider("k", "v")
	if err != nil {
		t.Fatal(err)
	}
	y := wide.MustColumn("y")
	if !y.IsNA(1) {
		t.Error("y[b] is present, want missing for the absent identity/key cell")
	}
}

func TestPivotWiderDuplicateIdentifier(t *testing.T) {
	long := new(Builder).
		Add("name", []string{"Phillip Woods", "Phillip Woods", "Phillip Woods"}).
		Add("key", []string{"age", "height", "age"}).
		Add("value", []float64{45, 186, 50}).
		MustDone()
	_, err := long.PivotWider("key", "value")
	var dup *DuplicateIdentifierError
	if !stderrors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateIdentifierError", err)
	}
	if got, want := dup.Key, "age"; got != want {
		t.Errorf("dup.Key = %q, want %q", got, want)
	}

	// The documented fix: disambiguate identities with a row id.
	withID, err := long.WithRowID("obs")
	if err != nil {
		t.Fatal(err)
	}
	wide, err := withID.PivotWider("key", "value")
	if err != nil {
		t.Fatalf("PivotWider after WithRowID: %v", err)
	}
	if got, want := wide.Len(), 3; got != want {
		t.Errorf("Len() = %v, want %v", got, want)
	}
}

func TestPivotWiderMissingKeyRejected(t *testing.T) {
	long := new(Builder).
		Add("id", []string{"a", "b"}).
		Add("k", WithNA(Strings([]string{"x", "y"}), 1)).
		Add("v", []float64{1, 2}).
		MustDone()
	if _, err := long.PivotWider("k", "v"); err == nil {
		t.Error("missing key cell succeeded")
	}
}

func TestPivotWiderKeyCollidesWithIdentity(t *testing.T) {
	long := new(Builder).
		Add("id", []string{"a"}).
		Add("k", []string{"id"}).
		Add("v", []float64{1}).
		MustDone()
	_, err := long.PivotWider("k", "v")
	var dup *DuplicateNameError
	if !stderrors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateNameError", err)
	}
}

// PivotWider inverts PivotLonger when identities are unique.
func TestPivotRoundTrip(t *testing.T) {
	wide := new(Builder).
		Add("group", []string{"a", "b", "c"}).
		Add("Female", []float64{1, 2, 5}).
		Add("Male", []float64{3, 4, 6}).
		MustDone()
	long, err := wide.PivotLonger(Cols("Female", "Male"), "Sex", "N")
	if err != nil {
		t.Fatal(err)
	}
	back, err := long.PivotWider("Sex", "N")
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(wide) {
		t.Errorf("round trip mismatch\ngot:\n%v\nwant:\n%v", back, wide)
	}
}
