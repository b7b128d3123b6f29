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

// Package arrowio converts tables to and from Apache Arrow records.
//
// Missing cells map to Arrow null slots in both directions. Factor
// columns are exported as their string labels, since Arrow has no
// direct analogue of the code and level split.
package arrowio

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/jschoeley/tidytable"
	"github.com/pkg/errors"
)

// ToRecord copies t into a new Arrow record allocated from mem. A nil
// mem uses the Go allocator. The caller owns the record and must
// Release it.
func ToRecord(t *tidytable.Table, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	names := t.Names()
	fields := make([]arrow.Field, len(names))
	for j, name := range names {
		typ, err := arrowType(t.Column(name).Kind())
		if err != nil {
			return nil, errors.Wrapf(err, "arrowio: column %q", name)
		}
		fields[j] = arrow.Field{Name: name, Type: typ, Nullable: true}
	}
	rb := array.NewRecordBuilder(mem, arrow.NewSchema(fields, nil))
	defer rb.Release()

	for j, name := range names {
		col := t.Column(name)
		for i := 0; i < col.Len(); i++ {
			if col.IsNA(i) {
				rb.Field(j).AppendNull()
				continue
			}
			switch fb := rb.Field(j).(type) {
			case *array.Float64Builder:
				fb.Append(col.Value(i).(float64))
			case *array.Int64Builder:
				fb.Append(col.Value(i).(int64))
			case *array.StringBuilder:
				fb.Append(col.Value(i).(string))
			case *array.BooleanBuilder:
				fb.Append(col.Value(i).(bool))
			}
		}
	}
	return rb.NewRecord(), nil
}

func arrowType(k tidytable.Kind) (arrow.DataType, error) {
	switch k {
	case tidytable.Float:
		return arrow.PrimitiveTypes.Float64, nil
	case tidytable.Int:
		return arrow.PrimitiveTypes.Int64, nil
	case tidytable.String, tidytable.FactorKind:
		return arrow.BinaryTypes.String, nil
	case tidytable.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	}
	return nil, errors.Errorf("no arrow mapping for kind %v", k)
}

// FromRecord copies an Arrow record into a table. Supported field types
// are float64, int64, string and boolean. Null slots become missing
// cells.
func FromRecord(rec arrow.Record) (*tidytable.Table, error) {
	b := new(tidytable.Builder)
	for j, field := range rec.Schema().Fields() {
		col, err := fromArray(rec.Column(j))
		if err != nil {
			return nil, errors.Wrapf(err, "arrowio: column %q", field.Name)
		}
		b.Add(field.Name, col)
	}
	return b.Done()
}

func fromArray(arr arrow.Array) (tidytable.Column, error) {
	var na []int
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			na = append(na, i)
		}
	}
	switch arr := arr.(type) {
	case *array.Float64:
		vals := make([]float64, arr.Len())
		for i := range vals {
			if arr.IsValid(i) {
				vals[i] = arr.Value(i)
			}
		}
		return tidytable.WithNA(tidytable.Floats(vals), na...), nil
	case *array.Int64:
		vals := make([]int64, arr.Len())
		for i := range vals {
			if arr.IsValid(i) {
				vals[i] = arr.Value(i)
			}
		}
		return tidytable.WithNA(tidytable.Ints64(vals), na...), nil
	case *array.String:
		vals := make([]string, arr.Len())
		for i := range vals {
			if arr.IsValid(i) {
				vals[i] = arr.Value(i)
			}
		}
		return tidytable.WithNA(tidytable.Strings(vals), na...), nil
	case *array.Boolean:
		vals := make([]bool, arr.Len())
		for i := range vals {
			if arr.IsValid(i) {
				vals[i] = arr.Value(i)
			}
		}
		return tidytable.WithNA(tidytable.Bools(vals), na...), nil
	}
	return nil, errors.Errorf("unsupported arrow type %s", arr.DataType())
}
