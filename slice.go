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

// Slice returns the rows at the given 0-based positions, in the order
// requested. Positions may repeat; positions outside [0, Len) are an
// error.
func (t *Table) Slice(positions ...int) (*Table, error) {
	for _, p := range positions {
		if p < 0 || p >= t.n {
			return nil, errors.Errorf("tidytable: slice position %d out of range [0,%d)", p, t.n)
		}
	}
	return t.takeRows(positions), nil
}

// Head returns the first n rows, or every row when the table is shorter.
func (t *Table) Head(n int) *Table {
	if n > t.n {
		n = t.n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.takeRows(idx)
}

// Tail returns the final n rows, or every row when the table is shorter.
func (t *Table) Tail(n int) *Table {
	if n > t.n {
		n = t.n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = t.n - n + i
	}
	return t.takeRows(idx)
}
