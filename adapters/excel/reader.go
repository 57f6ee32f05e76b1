package excel

import (
	"fmt"
	"os"
	"strings"
	"time"

	"packetstruct/domain/structure"
	"packetstruct/internal"

	"github.com/xuri/excelize/v2"
)

// WorkbookReader reads .xlsx files into the domain workbook model
type WorkbookReader struct {
	logger *internal.Logger
}

// NewWorkbookReader creates a new workbook reader
func NewWorkbookReader() *WorkbookReader {
	return &WorkbookReader{logger: internal.NewDefaultLogger()}
}

// Read opens an Excel file and loads every sheet in workbook order. The
// first row of each sheet is the header row; remaining rows become cell
// maps keyed by those headers. All cell text is trimmed.
func (r *WorkbookReader) Read(path string) (*structure.Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("Excel file not found: %s", path)
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	wb := &structure.Workbook{}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
		sheet := processRows(sheetName, rows)
		r.logger.Debug("[WorkbookReader] sheet %q: %d columns, %d rows",
			sheet.Name, len(sheet.Columns), len(sheet.Rows))
		wb.Sheets = append(wb.Sheets, sheet)
	}

	openTime := time.Since(startTime)
	r.logger.Info("[WorkbookReader] Excel file read in %.2fms (%d sheets)",
		float64(openTime.Nanoseconds())/1e6, len(wb.Sheets))

	return wb, nil
}

// processRows converts raw string rows into one domain sheet. A sheet with
// no rows at all yields empty headers and no data rows.
func processRows(sheetName string, rows [][]string) structure.Sheet {
	sheet := structure.Sheet{Name: sheetName}
	if len(rows) == 0 {
		return sheet
	}

	headerRow := rows[0]
	sheet.Columns = make([]string, len(headerRow))
	for i, header := range headerRow {
		sheet.Columns[i] = strings.TrimSpace(header)
	}

	for i := 1; i < len(rows); i++ {
		row := make(structure.Row, len(sheet.Columns))
		for j, cell := range rows[i] {
			if j < len(sheet.Columns) {
				row[sheet.Columns[j]] = strings.TrimSpace(cell)
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}
