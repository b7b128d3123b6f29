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

func TestArrange(t *testing.T) {
	tab := new(Builder).
		Add("name", []string{"b", "a", "c"}).
		Add("score", []float64{2, 3, 1}).
		MustDone()

	asc, err := tab.Arrange(Asc("score"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"c", "b", "a"}, stringsOf(t, asc, "name")); d != "" {
		t.Errorf("ascending diff (-want, +got):\n%v", d)
	}

	desc, err := tab.Arrange(Desc("score"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"a", "b", "c"}, stringsOf(t, desc, "name")); d != "" {
		t.Errorf("descending diff (-want, +got):\n%v", d)
	}
}

func TestArrangeMultipleKeys(t *testing.T) {
	tab := new(Builder).
		Add("grp", []string{"y", "x", "y", "x"}).
		Add("v", []int{1, 2, 3, 4}).
		MustDone()
	out, err := tab.Arrange(Asc("grp"), Desc("v"))
	if err != nil {
		t.Fatal(err)
	}
	got := make([]int64, out.Len())
	for i := range got {
		got[i] = out.MustColumn("v").Value(i).(int64)
	}
	if d := cmp.Diff([]int64{4, 2, 3, 1}, got); d != "" {
		t.Errorf("v diff (-want, +got):\n%v", d)
	}
}

// Missing cells sort to the end whichever direction the key runs.
func TestArrangeMissingLast(t *testing.T) {
	tab := new(Builder).
		Add("name", []string{"hole", "low", "high"}).
		Add("v", WithNA(Floats([]float64{0, 1, 9}), 0)).
		MustDone()
	for _, key := range []SortKey{Asc("v"), Desc("v")} {
		out, err := tab.Arrange(key)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := out.MustColumn("name").Value(2), "hole"; got != want {
			t.Errorf("last row = %v, want the missing one (%v)", got, want)
		}
	}
}

// Equal keys keep their input order.
func TestArrangeStable(t *testing.T) {
	tab := new(Builder).
		Add("k", []int{1, 1, 1}).
		Add("tag", []string{"first", "second", "third"}).
		MustDone()
	out, err := tab.Arrange(Asc("k"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"first", "second", "third"}, stringsOf(t, out, "tag")); d != "" {
		t.Errorf("tag diff (-want, +got):\n%v", d)
	}
}

func TestArrangeCollated(t *testing.T) {
	tab := new(Builder).
		Add("word", []string{"Zoo", "apple", "Mango"}).
		MustDone()
	out, err := tab.Arrange(Asc("word").Collate("en"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"apple", "Mango", "Zoo"}, stringsOf(t, out, "word")); d != "" {
		t.Errorf("collated diff (-want, +got):\n%v", d)
	}
}

func TestArrangeUnknownColumn(t *testing.T) {
	if _, err := popTable(t).Arrange(Asc("nope")); err == nil {
		t.Error("arranging by an unknown column succeeded")
	}
}
