package sources

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ImportXLSX reads the first sheet of an .xlsx workbook into the table shape.
// The first row becomes the header row.
func ImportXLSX(path string) (TableData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return TableData{}, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return TableData{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return TableData{}, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return TableData{}, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	data := TableData{Headers: rows[0]}
	for _, row := range rows[1:] {
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}
