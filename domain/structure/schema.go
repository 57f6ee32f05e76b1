package structure

// Attribute describes one tracked spreadsheet column: the header label it
// is read from, the key it is stored under in a FieldRecord, and the value
// substituted when the cell is blank.
type Attribute struct {
	Column  string
	Key     string
	Default any
}

// Schema is the fixed set of recognized columns for one layout dialect.
// FieldNameColumn drives group-boundary detection and carry-forward;
// VariableNameColumn keys field records within a group.
type Schema struct {
	Name               string
	FieldNameColumn    string
	VariableNameColumn string
	Attributes         []Attribute
}

// The two observed layout dialects. Extended carries calibration columns
// (gain, offset, range, concept, unit); Minimal is the bare four-column
// layout used by older structure sheets.
const (
	DialectExtended = "extended"
	DialectMinimal  = "minimal"
)

// ExtendedSchema returns the ten-column dialect. Blank gain and offset
// cells resolve to numeric defaults.
func ExtendedSchema() Schema {
	return Schema{
		Name:               DialectExtended,
		FieldNameColumn:    "Field Name",
		VariableNameColumn: "Variable Name",
		Attributes: []Attribute{
			{Column: "Field Name", Key: "field_name", Default: ""},
			{Column: "Type", Key: "type", Default: ""},
			{Column: "Variable Name", Key: "variable_name", Default: ""},
			{Column: "Count", Key: "count", Default: ""},
			{Column: "Gain", Key: "gain", Default: 1},
			{Column: "Offset", Key: "offset", Default: 0},
			{Column: "Min", Key: "min", Default: ""},
			{Column: "Max", Key: "max", Default: ""},
			{Column: "Concept", Key: "concept", Default: ""},
			{Column: "Unit", Key: "unit", Default: ""},
		},
	}
}

// MinimalSchema returns the four-column dialect.
func MinimalSchema() Schema {
	return Schema{
		Name:               DialectMinimal,
		FieldNameColumn:    "Field Name",
		VariableNameColumn: "Variable Name",
		Attributes: []Attribute{
			{Column: "Field Name", Key: "field_name", Default: ""},
			{Column: "Type", Key: "type", Default: ""},
			{Column: "Variable Name", Key: "variable_name", Default: ""},
			{Column: "Count", Key: "count", Default: ""},
		},
	}
}

// SchemaForDialect resolves a configured dialect name to its schema.
// Unknown names fall back to the extended dialect.
func SchemaForDialect(dialect string) Schema {
	if dialect == DialectMinimal {
		return MinimalSchema()
	}
	return ExtendedSchema()
}

// RequiredColumns returns the header labels every sheet must carry.
func (s Schema) RequiredColumns() []string {
	cols := make([]string, 0, len(s.Attributes))
	for _, attr := range s.Attributes {
		cols = append(cols, attr.Column)
	}
	return cols
}

// Validate checks that a sheet carries every required column. It reports a
// SchemaError naming the sheet and the missing columns before any row is
// processed.
func (s Schema) Validate(sheet Sheet) error {
	present := make(map[string]bool, len(sheet.Columns))
	for _, col := range sheet.Columns {
		present[col] = true
	}

	var missing []string
	for _, col := range s.RequiredColumns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Sheet: sheet.Name, Missing: missing}
	}
	return nil
}
