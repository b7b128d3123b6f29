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

import "github.com/jschoeley/tidytable/internal/tabopts"

// Options configure Print and the io adapters. Each function takes a
// variadic list of options, where properties set in later options
// override the value of previously set properties.
type Options = tabopts.Options

// MaxRows limits how many rows Print and Fprint render before eliding
// the remainder.
func MaxRows(n int) Options {
	return &tabopts.Struct{MaxRows: n}
}

// Comma sets the CSV field delimiter for the csvio package.
func Comma(r rune) Options {
	return &tabopts.Struct{Comma: r}
}

// NoHeader marks CSV input as headerless for the csvio package, which
// then names columns V1, V2, and so on.
func NoHeader() Options {
	return &tabopts.Struct{NoHeader: true}
}
