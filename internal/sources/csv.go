package sources

import (
	"fmt"
	"strings"
)

// ParseCSV parses comma-separated text into the table shape. The first
// non-empty line becomes the header row. Quoted fields may contain commas;
// escaped quotes inside quoted fields are not supported. A lone quote simply
// toggles quoting, matching the web client this replaces.
func ParseCSV(input string) (TableData, error) {
	var data TableData
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitCSVLine(line)
		if data.Headers == nil {
			data.Headers = fields
			continue
		}
		data.Rows = append(data.Rows, fields)
	}
	if data.Headers == nil {
		return TableData{}, fmt.Errorf("no data rows found")
	}
	return data, nil
}

// splitCSVLine splits one line on commas outside quotes.
func splitCSVLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}
