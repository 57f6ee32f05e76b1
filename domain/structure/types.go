package structure

import (
	"encoding/json"
)

// Workbook is an ordered set of sheets read from one uploaded file.
// It is read-only input owned by the caller of the Transcoder.
type Workbook struct {
	Sheets []Sheet
}

// Sheet is one named table of rows. Columns holds the header labels in
// column order; every Row is keyed by those labels.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Row maps a column header to the trimmed cell text. Missing and blank
// cells are both the empty string.
type Row map[string]string

// Metadata identifies the packet layout a group of fields belongs to.
// Field names follow the wire format consumed by the parser service.
type Metadata struct {
	Info      string `json:"info"`
	FullName  string `json:"full_name"`
	SID       string `json:"SID"`
	SIDNumber int    `json:"SIDNumber"`
}

// FieldRecord is one resolved field row, keyed by attribute name
// (field_name, type, gain, ...). Values are the verbatim cell text or the
// attribute's default when the cell was blank.
type FieldRecord map[string]any

// Group is one packet layout: a metadata block plus field records keyed by
// variable name. Insertion order of variables is preserved.
type Group struct {
	Metadata *Metadata
	fields   map[string]FieldRecord
	order    []string
}

// NewGroup returns an empty group with no metadata attached.
func NewGroup() *Group {
	return &Group{fields: make(map[string]FieldRecord)}
}

// SetMetadata attaches or refreshes the group's metadata block.
func (g *Group) SetMetadata(m Metadata) {
	g.Metadata = &m
}

// Put inserts or overwrites the field record for a variable name.
func (g *Group) Put(variableName string, rec FieldRecord) {
	if _, ok := g.fields[variableName]; !ok {
		g.order = append(g.order, variableName)
	}
	g.fields[variableName] = rec
}

// Field returns the record stored under a variable name.
func (g *Group) Field(variableName string) (FieldRecord, bool) {
	rec, ok := g.fields[variableName]
	return rec, ok
}

// VariableNames returns the variable names in insertion order.
func (g *Group) VariableNames() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len reports the number of field records in the group.
func (g *Group) Len() int {
	return len(g.fields)
}

// MarshalJSON renders the group as one flat document: the metadata block
// under "metadata" plus one entry per variable name. An empty group with no
// metadata renders as {}.
func (g *Group) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(g.fields)+1)
	if g.Metadata != nil {
		doc["metadata"] = g.Metadata
	}
	for name, rec := range g.fields {
		doc[name] = rec
	}
	return json.Marshal(doc)
}

// Structure is the ordered sequence of groups transcoded from one
// workbook. Immutable once persisted.
type Structure []*Group

// Documents marshals every group to its flat JSON document, preserving
// group order.
func (s Structure) Documents() ([]json.RawMessage, error) {
	docs := make([]json.RawMessage, 0, len(s))
	for _, g := range s {
		raw, err := json.Marshal(g)
		if err != nil {
			return nil, err
		}
		docs = append(docs, raw)
	}
	return docs, nil
}
