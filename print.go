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
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jschoeley/tidytable/internal/tabopts"
)

// Fprint renders t as an aligned text table: names in a header row,
// string-like columns left aligned, numeric columns right aligned,
// missing cells as <NA>. [MaxRows] elides everything past the limit with
// a trailing count.
func Fprint(w io.Writer, t *Table, opts ...Options) error {
	var opt tabopts.Struct
	opt.Join(opts...)

	rows := t.n
	elided := 0
	if opt.MaxRows > 0 && rows > opt.MaxRows {
		elided = rows - opt.MaxRows
		rows = opt.MaxRows
	}

	cells := make([][]string, len(t.cols))
	widths := make([]int, len(t.cols))
	for j, c := range t.cols {
		cells[j] = make([]string, rows)
		widths[j] = utf8.RuneCountInString(t.names[j])
		for i := 0; i < rows; i++ {
			s := cellString(c, i)
			cells[j][i] = s
			if w := utf8.RuneCountInString(s); w > widths[j] {
				widths[j] = w
			}
		}
	}

	rightAlign := func(j int) bool {
		k := t.cols[j].Kind()
		return k == Float || k == Int
	}
	var b strings.Builder
	for j, name := range t.names {
		if j > 0 {
			b.WriteString("  ")
		}
		pad(&b, name, widths[j], rightAlign(j))
	}
	b.WriteByte('\n')
	for i := 0; i < rows; i++ {
		for j := range t.cols {
			if j > 0 {
				b.WriteString("  ")
			}
			pad(&b, cells[j][i], widths[j], rightAlign(j))
		}
		b.WriteByte('\n')
	}
	if elided > 0 {
		fmt.Fprintf(&b, "... %d more rows\n", elided)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// pad counts runes, not bytes, so multibyte cell values stay aligned.
func pad(b *strings.Builder, s string, width int, right bool) {
	fill := width - utf8.RuneCountInString(s)
	if right {
		b.WriteString(strings.Repeat(" ", fill))
		b.WriteString(s)
		return
	}
	b.WriteString(s)
	b.WriteString(strings.Repeat(" ", fill))
}

// Print renders t to standard output.
func Print(t *Table, opts ...Options) error {
	return Fprint(os.Stdout, t, opts...)
}

// String renders the whole table; see [Fprint]. Trailing padding is
// trimmed so output is stable for golden tests.
func (t *Table) String() string {
	var b strings.Builder
	Fprint(&b, t)
	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// String renders the underlying table with a grouping banner.
func (g *GroupedTable) String() string {
	return fmt.Sprintf("groups: %s (%d)\n%s", strings.Join(g.keys, ", "), len(g.groups), g.t.String())
}
