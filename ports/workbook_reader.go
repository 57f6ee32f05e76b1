package ports

import (
	"packetstruct/domain/structure"
)

// WorkbookReader loads an uploaded spreadsheet file into the domain
// workbook model, preserving sheet and row order
type WorkbookReader interface {
	Read(path string) (*structure.Workbook, error)
}
