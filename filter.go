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

// Filter returns the rows for which every predicate is true. Predicates
// evaluating to the missing value drop the row just as false does, even
// though missing is not false: Eq against [NA] keeps nothing, while
// [IsNA] keeps exactly the missing rows.
func (t *Table) Filter(preds ...Expr) (*Table, error) {
	keep, err := t.filterMask(preds)
	if err != nil {
		return nil, err
	}
	return t.takeRows(keep), nil
}

// filterMask evaluates the AND of preds over t and returns the indices of
// the strictly-true rows.
func (t *Table) filterMask(preds []Expr) ([]int, error) {
	pass := make([]bool, t.n)
	for i := range pass {
		pass[i] = true
	}
	for _, pred := range preds {
		c, err := pred.node.eval(t)
		if err != nil {
			return nil, err
		}
		if c.Kind() != Bool && c.Kind() != kindNA {
			return nil, errors.Errorf("tidytable: filter predicate is %v, not bool", c.Kind())
		}
		if c.Len() != t.n && c.Len() != 1 {
			return nil, &LengthMismatchError{Col: "filter predicate", Len: c.Len(), Want: t.n}
		}
		for i := range pass {
			j := bcast(c, i)
			if c.IsNA(j) || c.Value(j) != true {
				pass[i] = false
			}
		}
	}
	keep := make([]int, 0, t.n)
	for i, ok := range pass {
		if ok {
			keep = append(keep, i)
		}
	}
	return keep, nil
}
