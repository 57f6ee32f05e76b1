package structure

import (
	"fmt"
	"strings"
)

// SchemaError reports a sheet missing one or more required columns.
type SchemaError struct {
	Sheet   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns in sheet %q: %s", e.Sheet, strings.Join(e.Missing, ", "))
}

// ParseError reports a group label whose numeric identifier could not be
// parsed. It aborts the transcoding of the whole workbook.
type ParseError struct {
	Sheet string
	Label string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid group label %q in sheet %q: %v", e.Label, e.Sheet, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
