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

// Package jsonio loads and stores tables as JSON arrays of row objects.
package jsonio

import (
	"io"
	"sort"

	"github.com/go-json-experiment/json"
	"github.com/jschoeley/tidytable"
	"github.com/pkg/errors"
)

// Marshal renders t as an array of row objects with sorted keys, one
// object per row and null for missing cells.
func Marshal(t *tidytable.Table) ([]byte, error) {
	data, err := json.Marshal(t.Records(), json.Deterministic(true))
	return data, errors.Wrap(err, "jsonio: marshal")
}

// Write streams the Marshal encoding of t to w.
func Write(w io.Writer, t *tidytable.Table) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "jsonio: write")
}

// Unmarshal parses an array of row objects into a table. Numbers become
// float columns, and columns are ordered by name since JSON objects
// carry no field order. Cells absent from a row, or null, are missing.
func Unmarshal(data []byte) (*tidytable.Table, error) {
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(err, "jsonio: unmarshal")
	}
	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	b := new(tidytable.Builder)
	for _, name := range names {
		col, err := buildColumn(name, rows)
		if err != nil {
			return nil, err
		}
		b.Add(name, col)
	}
	return b.Done()
}

// Read parses all of r as Unmarshal input.
func Read(r io.Reader) (*tidytable.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "jsonio: read")
	}
	return Unmarshal(data)
}

func buildColumn(name string, rows []map[string]any) (tidytable.Column, error) {
	isNum, isBool, isStr := true, true, true
	var na []int
	for i, row := range rows {
		v, ok := row[name]
		if !ok || v == nil {
			na = append(na, i)
			continue
		}
		switch v.(type) {
		case float64:
			isBool, isStr = false, false
		case bool:
			isNum, isStr = false, false
		case string:
			isNum, isBool = false, false
		default:
			return nil, errors.Errorf("jsonio: column %q: unsupported value %T", name, v)
		}
	}
	switch {
	case isNum:
		vals := make([]float64, len(rows))
		for i, row := range rows {
			if v, ok := row[name].(float64); ok {
				vals[i] = v
			}
		}
		return tidytable.WithNA(tidytable.Floats(vals), na...), nil
	case isBool:
		vals := make([]bool, len(rows))
		for i, row := range rows {
			if v, ok := row[name].(bool); ok {
				vals[i] = v
			}
		}
		return tidytable.WithNA(tidytable.Bools(vals), na...), nil
	case isStr:
		vals := make([]string, len(rows))
		for i, row := range rows {
			if v, ok := row[name].(string); ok {
				vals[i] = v
			}
		}
		return tidytable.WithNA(tidytable.Strings(vals), na...), nil
	}
	return nil, errors.Errorf("jsonio: column %q mixes value types", name)
}
