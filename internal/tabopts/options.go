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

// Package tabopts is the common options type shared across tidytable
// packages.
package tabopts

import "github.com/jschoeley/tidytable/internal"

// Options is implemented by every tidytable option value.
type Options interface {
	// TableOptions is exported so related tidytable packages can
	// implement Options.
	TableOptions(internal.NotForPublicUse)
}

// Struct is the combination of all options in struct form. This is
// efficient to pass down the call stack and to query.
type Struct struct {
	MaxRows  int  // Printed row limit; 0 prints everything.
	Comma    rune // CSV field delimiter; 0 means ','.
	NoHeader bool // CSV data has no header row.
}

func (dst *Struct) TableOptions(internal.NotForPublicUse) {}

// Join folds srcs into dst, later options overriding earlier ones.
func (dst *Struct) Join(srcs ...Options) {
	for _, src := range srcs {
		switch src := src.(type) {
		case *Struct:
			if src.MaxRows != 0 {
				dst.MaxRows = src.MaxRows
			}
			if src.Comma != 0 {
				dst.Comma = src.Comma
			}
			if src.NoHeader {
				dst.NoHeader = true
			}
		}
	}
}
