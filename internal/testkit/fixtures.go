package testkit

import (
	"packetstruct/domain/structure"

	"github.com/xuri/excelize/v2"
)

// ExtendedColumns returns the header row of the extended dialect in
// column order.
func ExtendedColumns() []string {
	return []string{"Field Name", "Type", "Variable Name", "Count", "Gain", "Offset", "Min", "Max", "Concept", "Unit"}
}

// MinimalColumns returns the header row of the minimal dialect.
func MinimalColumns() []string {
	return []string{"Field Name", "Type", "Variable Name", "Count"}
}

// NewSheet builds a domain sheet from positional cell values. Short rows
// leave the remaining columns blank.
func NewSheet(name string, columns []string, rows ...[]string) structure.Sheet {
	sheet := structure.Sheet{Name: name, Columns: columns}
	for _, cells := range rows {
		row := make(structure.Row, len(columns))
		for i, col := range columns {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// TelemetryWorkbook returns a small extended-dialect workbook with two
// SID groups on one sheet, exercising carry-forward and numeric defaults.
func TelemetryWorkbook() *structure.Workbook {
	sheet := NewSheet("Housekeeping", ExtendedColumns(),
		[]string{"SID1: primary", "", "", "", "", "", "", "", "", ""},
		[]string{"Header", "uint16", "apid", "1", "", "", "0", "2047", "identifier", ""},
		[]string{"", "uint8", "seq_count", "1", "2", "10", "", "", "", "counts"},
		[]string{"SID2: thermal", "", "", "", "", "", "", "", "", ""},
		[]string{"Temperature", "int16", "temp_a", "1", "0.5", "-40", "-40", "85", "thermistor", "degC"},
	)
	return &structure.Workbook{Sheets: []structure.Sheet{sheet}}
}

// WriteWorkbookFile writes sheets to an .xlsx file at path using the
// sheet's column order for headers.
func WriteWorkbookFile(path string, sheets ...structure.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// The default first sheet is renamed instead of added.
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return err
			}
		}

		header := make([]interface{}, len(sheet.Columns))
		for j, col := range sheet.Columns {
			header[j] = col
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return err
		}

		for rowIdx, row := range sheet.Rows {
			cells := make([]interface{}, len(sheet.Columns))
			for j, col := range sheet.Columns {
				cells[j] = row[col]
			}
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.Name, cell, &cells); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
