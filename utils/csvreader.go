package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

func ParseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseCSVWithHeader reads a CSV whose first row names the columns and
// returns one map per data row, keyed by lower-cased header. Punch log
// exports and bulk user sheets both come through here.
func ParseCSVWithHeader(r io.Reader) ([]map[string]string, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(header))
		for i, v := range row {
			if i >= len(header) {
				break
			}
			m[header[i]] = strings.TrimSpace(v)
		}
		out = append(out, m)
	}
	return out, nil
}
