package structure

// scanState is the carry-forward state threaded through one sheet's row
// scan. It survives group boundaries: a blank field-name cell at the top
// of a new group still resolves to the last non-blank value on the sheet.
type scanState struct {
	lastFieldName string
}

// Assembler builds field records for one sheet. It owns the per-sheet
// carry-forward state; create a fresh Assembler per sheet.
type Assembler struct {
	schema    Schema
	sheetName string
	state     scanState
}

// NewAssembler returns an assembler for one sheet under the given schema.
func NewAssembler(schema Schema, sheetName string) *Assembler {
	return &Assembler{schema: schema, sheetName: sheetName}
}

// Assemble applies one row to the active group under the given group
// label. Rows whose variable-name cell is blank or repeats the header
// label are skipped entirely; they do not advance the carry-forward state.
// Metadata is refreshed on every qualifying row, so a malformed group
// label only surfaces as a ParseError once the group receives a field row.
func (a *Assembler) Assemble(g *Group, row Row, label string) error {
	variableName := row[a.schema.VariableNameColumn]
	if variableName == "" || variableName == a.schema.VariableNameColumn {
		return nil
	}

	number, err := ParseGroupNumber(label)
	if err != nil {
		return &ParseError{Sheet: a.sheetName, Label: label, Err: err}
	}

	if cell := row[a.schema.FieldNameColumn]; cell != "" {
		a.state.lastFieldName = cell
	}

	g.SetMetadata(Metadata{
		Info:      a.sheetName,
		FullName:  label,
		SID:       label,
		SIDNumber: number,
	})

	rec := make(FieldRecord, len(a.schema.Attributes))
	for _, attr := range a.schema.Attributes {
		rec[attr.Key] = resolve(attr, row[attr.Column], a.state)
	}
	g.Put(variableName, rec)
	return nil
}

// resolve returns the value for one attribute cell: the verbatim text when
// non-blank, the carried-forward field name for a blank field-name cell,
// and the attribute default otherwise.
func resolve(attr Attribute, raw string, prior scanState) any {
	if raw != "" {
		return raw
	}
	if attr.Key == "field_name" {
		return prior.lastFieldName
	}
	return attr.Default
}
