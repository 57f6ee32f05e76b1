// Package structure implements the spreadsheet-to-structure transcoding
// that turns uploaded packet layout sheets into ordered group documents.
//
// Each sheet is scanned once, top to bottom. Rows whose field-name cell
// contains the SID marker open a new group; all following rows accumulate
// into that group until the next marker or the end of the sheet. Group
// emission is deferred by one boundary: a completed group is appended when
// the next marker opens its successor, and the final group is appended at
// sheet end — even when it received no field rows.
package structure

// Transcoder drives the scanner and assembler across every sheet of a
// workbook. It is pure with respect to its input and performs no I/O.
type Transcoder struct {
	schema Schema
}

// NewTranscoder returns a transcoder for the given dialect schema.
func NewTranscoder(schema Schema) *Transcoder {
	return &Transcoder{schema: schema}
}

// Schema returns the dialect schema the transcoder validates against.
func (t *Transcoder) Schema() Schema {
	return t.schema
}

// Transcode produces the ordered group sequence for a whole workbook.
// Sheets are processed in workbook order, rows in sheet order; the
// carry-forward rules depend on that traversal. Any SchemaError or
// ParseError aborts the workbook with no partial result.
func (t *Transcoder) Transcode(wb *Workbook) (Structure, error) {
	var out Structure
	scanner := NewRowScanner(t.schema.FieldNameColumn)

	for _, sheet := range wb.Sheets {
		if err := t.schema.Validate(sheet); err != nil {
			return nil, err
		}

		asm := NewAssembler(t.schema, sheet.Name)
		active := NewGroup()
		label := DefaultGroupLabel
		open := false // true once a marker row has been seen

		for _, ev := range scanner.Scan(sheet.Rows) {
			if ev.IsGroupStart {
				if open {
					out = append(out, active)
					active = NewGroup()
				}
				label = ev.GroupLabel
				open = true
			}
			if err := asm.Assemble(active, sheet.Rows[ev.RowIndex], label); err != nil {
				return nil, err
			}
		}

		// Flush at sheet end, even when the group is empty.
		out = append(out, active)
	}

	return out, nil
}
