package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is stripped from the front of CSV exports before parsing.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvTable is a header-indexed view of a CSV export.
type csvTable struct {
	cols map[string]int
	rows [][]string
	// warnings collected while reading malformed rows
	warnings []string
}

// readCSV parses CSV data using the header row for column lookup. Column
// names are matched case-insensitively since exports vary in casing.
func readCSV(data []byte, required string) (*csvTable, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true // tolerate malformed exports
	// Ragged rows are warned about below rather than failing the parse.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("importer: failed to read CSV header: %w", err)
	}

	table := &csvTable{cols: make(map[string]int)}
	for i, col := range header {
		table.cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := table.cols[strings.ToLower(required)]; !ok {
		return nil, fmt.Errorf("importer: missing required column %q", required)
	}

	rowNum := 1
	for {
		rowNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			table.warnings = append(table.warnings,
				fmt.Sprintf("row %d: failed to parse: %v", rowNum, err))
			continue
		}
		if len(row) != len(header) {
			table.warnings = append(table.warnings,
				fmt.Sprintf("row %d: column count mismatch (expected %d, got %d)",
					rowNum, len(header), len(row)))
			continue
		}
		table.rows = append(table.rows, row)
	}
	return table, nil
}

// field returns the named column of a row, or "" if the column is absent.
func (t *csvTable) field(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok {
		return ""
	}
	return row[i]
}
