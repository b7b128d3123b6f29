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
	"fmt"
	"strings"
)

// errors.go defines the error taxonomy shared by every verb. All errors
// are returned synchronously from the offending call; no verb produces a
// partial table. Callers that want a recovery policy (such as dropping
// offending rows) express it by pre-filtering, for example with
// [Table.DropNA], rather than by configuring the verb.

// UnknownColumnError reports a column name or position that does not exist
// in the table being operated on.
type UnknownColumnError struct {
	// Name is the missing column name, or empty when the lookup was
	// positional.
	Name string
	// Pos is the out-of-range position for positional lookups.
	Pos int
}

func (e *UnknownColumnError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("tidytable: unknown column %q", e.Name)
	}
	return fmt.Sprintf("tidytable: no column at position %d", e.Pos)
}

// DuplicateNameError reports that an operation would produce a table with
// two columns of the same name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("tidytable: duplicate column name %q", e.Name)
}

// LengthMismatchError reports a mutate expression whose result length is
// neither 1 (broadcast) nor the table's row count.
type LengthMismatchError struct {
	Col  string
	Len  int
	Want int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("tidytable: column %q has length %d, want %d or 1", e.Col, e.Len, e.Want)
}

// TypeUnificationError reports pivot source columns whose kinds cannot be
// promoted to a single common kind.
type TypeUnificationError struct {
	Cols  []string
	Kinds []Kind
}

func (e *TypeUnificationError) Error() string {
	parts := make([]string, len(e.Cols))
	for i, c := range e.Cols {
		parts[i] = fmt.Sprintf("%s (%v)", c, e.Kinds[i])
	}
	return "tidytable: cannot unify column types: " + strings.Join(parts, ", ")
}

// DuplicateIdentifierError reports two rows that share both the same
// identity-column values and the same key value during [Table.PivotWider].
// The standard fix is to add a unique row id to the identity set with
// [Table.WithRowID] before pivoting.
type DuplicateIdentifierError struct {
	// Identity is the formatted identity tuple shared by the rows.
	Identity string
	// Key is the duplicated key value within that identity.
	Key string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("tidytable: rows with identity (%s) have duplicate key %q", e.Identity, e.Key)
}

// NonScalarAggregateError reports a summarise expression that evaluated to
// more than one value for a group.
type NonScalarAggregateError struct {
	Name string
	Len  int
}

func (e *NonScalarAggregateError) Error() string {
	return fmt.Sprintf("tidytable: summarise expression %q produced %d values per group, want 1", e.Name, e.Len)
}
