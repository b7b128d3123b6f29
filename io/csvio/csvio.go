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

// Package csvio loads and stores tables as CSV with per-column type
// inference.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jschoeley/tidytable"
	"github.com/jschoeley/tidytable/internal/tabopts"
	"github.com/pkg/errors"
)

// Read parses CSV into a table. The first record names the columns
// unless [tidytable.NoHeader] is given, in which case they are named V1,
// V2, and so on. Empty cells and the literal NA are missing. Each
// column's kind is inferred from its present cells, trying int, then
// float, then bool, falling back to string.
func Read(r io.Reader, opts ...tidytable.Options) (*tidytable.Table, error) {
	var opt tabopts.Struct
	opt.Join(opts...)

	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "csvio: read")
	}
	if len(recs) == 0 {
		return new(tidytable.Builder).Done()
	}
	var names []string
	if opt.NoHeader {
		for i := range recs[0] {
			names = append(names, fmt.Sprintf("V%d", i+1))
		}
	} else {
		names = recs[0]
		recs = recs[1:]
	}

	b := new(tidytable.Builder)
	for j, name := range names {
		cells := make([]string, len(recs))
		var na []int
		for i, rec := range recs {
			cells[i] = rec[j]
			if rec[j] == "" || rec[j] == "NA" {
				na = append(na, i)
			}
		}
		b.Add(name, tidytable.WithNA(inferColumn(cells, na), na...))
	}
	return b.Done()
}

// inferColumn picks the narrowest kind every present cell parses as.
func inferColumn(cells []string, na []int) tidytable.Column {
	missing := make(map[int]bool, len(na))
	for _, i := range na {
		missing[i] = true
	}
	isInt, isFloat, isBool := true, true, true
	for i, s := range cells {
		if missing[i] {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			isFloat = false
		}
		if s != "true" && s != "false" && s != "TRUE" && s != "FALSE" {
			isBool = false
		}
	}
	switch {
	case isInt:
		vals := make([]int64, len(cells))
		for i, s := range cells {
			if !missing[i] {
				vals[i], _ = strconv.ParseInt(s, 10, 64)
			}
		}
		return tidytable.Ints64(vals)
	case isFloat:
		vals := make([]float64, len(cells))
		for i, s := range cells {
			if !missing[i] {
				vals[i], _ = strconv.ParseFloat(s, 64)
			}
		}
		return tidytable.Floats(vals)
	case isBool:
		vals := make([]bool, len(cells))
		for i, s := range cells {
			vals[i] = s == "true" || s == "TRUE"
		}
		return tidytable.Bools(vals)
	}
	return tidytable.Strings(cells)
}

// Write stores t as CSV, missing cells as NA. [tidytable.NoHeader]
// suppresses the header record and [tidytable.Comma] changes the
// delimiter.
func Write(w io.Writer, t *tidytable.Table, opts ...tidytable.Options) error {
	var opt tabopts.Struct
	opt.Join(opts...)

	cw := csv.NewWriter(w)
	if opt.Comma != 0 {
		cw.Comma = opt.Comma
	}
	names := t.Names()
	if !opt.NoHeader {
		if err := cw.Write(names); err != nil {
			return errors.Wrap(err, "csvio: write header")
		}
	}
	cols := make([]tidytable.Column, len(names))
	for j, name := range names {
		cols[j] = t.Column(name)
	}
	rec := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, c := range cols {
			rec[j] = formatCell(c, i)
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "csvio: write row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "csvio: flush")
}

func formatCell(c tidytable.Column, i int) string {
	switch v := c.Value(i).(type) {
	case nil:
		return "NA"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	}
	return ""
}
