// Package tablemap parses pipe-delimited tables out of a document body,
// infers a semantic role for each column, and materializes each row as a
// node nested under the source document.
package tablemap

import (
	"strings"

	"github.com/latticekb/lattice/internal/patterns"
)

// Table is one discovered table: a header row plus zero or more data rows,
// all split into trimmed cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// FindTables scans body lines for a pipe-delimited row immediately followed
// by a separator row. On a match, the header and all subsequent conforming
// rows are consumed as one table. A non-table line ends the table, as does a
// row whose cell count differs from the header's by more than one.
func FindTables(body string) []Table {
	lines := strings.Split(body, "\n")

	var tables []Table

	for i := 0; i < len(lines)-1; i++ {
		if !patterns.IsTableRow(lines[i]) || !patterns.IsSeparatorRow(lines[i+1]) {
			continue
		}

		header := patterns.SplitCells(lines[i])
		table := Table{Header: header}

		j := i + 2
		for ; j < len(lines); j++ {
			if !patterns.IsTableRow(lines[j]) || patterns.IsSeparatorRow(lines[j]) {
				break
			}

			cells := patterns.SplitCells(lines[j])
			if diff := len(cells) - len(header); diff > 1 || diff < -1 {
				break
			}

			table.Rows = append(table.Rows, cells)
		}

		tables = append(tables, table)
		i = j - 1
	}

	return tables
}
