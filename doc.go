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

// Package tidytable manipulates rectangular tables of typed, named,
// equal-length columns with a small fixed set of verbs: Filter, Select,
// Mutate, Arrange, Slice, Rename, the long/wide reshapers PivotLonger
// and PivotWider, and grouped split-apply-combine via GroupBy and
// Summarise. Verbs are pure (tables are immutable values), chain through
// [Chain], and reference columns through an explicit expression builder
// ([Col], [Lit]) rather than captured names.
//
// Every column kind carries a missing value, which propagates through
// arithmetic and comparisons but is distinct from false: filtering drops
// rows whose predicate is missing, and [IsNA] is the only expression
// that observes missingness directly.
//
// The io/csvio, io/jsonio and io/arrowio packages move tables in and out
// of CSV, row-oriented JSON and Apache Arrow records.
package tidytable
