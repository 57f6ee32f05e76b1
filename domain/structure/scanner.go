package structure

import (
	"strconv"
	"strings"
)

// Marker is the reserved substring that flags a row as the start of a new
// group. A row opens a group iff its field-name cell is non-empty and
// contains the marker.
const Marker = "SID"

// DefaultGroupLabel names the implicit first group of a sheet before any
// marker row has been seen.
const DefaultGroupLabel = "SID1"

// BoundaryEvent describes one scanned row: whether it opens a new group
// and, if so, the verbatim label text from its field-name cell.
type BoundaryEvent struct {
	RowIndex     int
	IsGroupStart bool
	GroupLabel   string
}

// RowScanner detects group boundaries over an ordered row sequence. It
// holds no state between sheets.
type RowScanner struct {
	fieldNameColumn string
}

// NewRowScanner returns a scanner keyed on the designated field-name
// column.
func NewRowScanner(fieldNameColumn string) *RowScanner {
	return &RowScanner{fieldNameColumn: fieldNameColumn}
}

// Scan produces one boundary event per row, in row order. A sheet with
// zero marker rows yields no group-start events; the caller treats the
// whole sheet as one implicit group.
func (s *RowScanner) Scan(rows []Row) []BoundaryEvent {
	events := make([]BoundaryEvent, 0, len(rows))
	for i, row := range rows {
		cell := row[s.fieldNameColumn]
		if cell != "" && strings.Contains(cell, Marker) {
			events = append(events, BoundaryEvent{RowIndex: i, IsGroupStart: true, GroupLabel: cell})
		} else {
			events = append(events, BoundaryEvent{RowIndex: i})
		}
	}
	return events
}

// ParseGroupNumber extracts the numeric group identifier from a label:
// the digits following the marker substring, before any ":"-delimited
// suffix. "SID12: housekeeping" parses to 12.
func ParseGroupNumber(label string) (int, error) {
	head := label
	if i := strings.Index(head, ":"); i >= 0 {
		head = head[:i]
	}
	digits := strings.TrimSpace(strings.ReplaceAll(head, Marker, ""))
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, err
	}
	return n, nil
}
