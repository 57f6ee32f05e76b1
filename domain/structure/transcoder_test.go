package structure_test

import (
	"encoding/json"
	"errors"
	"testing"

	"packetstruct/domain/structure"
	"packetstruct/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transcodeExtended(t *testing.T, sheets ...structure.Sheet) structure.Structure {
	t.Helper()
	tc := structure.NewTranscoder(structure.ExtendedSchema())
	st, err := tc.Transcode(&structure.Workbook{Sheets: sheets})
	require.NoError(t, err)
	return st
}

func TestTranscode_CarryForward(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"A", "uint8", "x", "1"},
		[]string{"", "uint8", "y", "1"},
	)
	st := transcodeExtended(t, sheet)

	require.Len(t, st, 1)
	rec, ok := st[0].Field("y")
	require.True(t, ok)
	assert.Equal(t, "A", rec["field_name"])
}

func TestTranscode_GroupBoundaries(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"SID1: primary"},
		[]string{"Header", "uint16", "apid", "1"},
		[]string{"SID2: thermal"},
		[]string{"Temperature", "int16", "temp_a", "1"},
	)
	st := transcodeExtended(t, sheet)

	require.Len(t, st, 2)

	_, ok := st[0].Field("apid")
	assert.True(t, ok, "first group should hold apid")
	_, ok = st[0].Field("temp_a")
	assert.False(t, ok, "first group should not hold temp_a")

	_, ok = st[1].Field("temp_a")
	assert.True(t, ok, "second group should hold temp_a")

	require.NotNil(t, st[0].Metadata)
	assert.Equal(t, "SID1: primary", st[0].Metadata.FullName)
	assert.Equal(t, 1, st[0].Metadata.SIDNumber)
	require.NotNil(t, st[1].Metadata)
	assert.Equal(t, 2, st[1].Metadata.SIDNumber)
}

func TestTranscode_ImplicitFirstGroup(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"Header", "uint16", "apid", "1"},
		[]string{"Length", "uint16", "pkt_len", "1"},
	)
	st := transcodeExtended(t, sheet)

	require.Len(t, st, 1)
	assert.Equal(t, 2, st[0].Len())
	require.NotNil(t, st[0].Metadata)
	assert.Equal(t, structure.DefaultGroupLabel, st[0].Metadata.SID)
	assert.Equal(t, 1, st[0].Metadata.SIDNumber)
	assert.Equal(t, "S", st[0].Metadata.Info)
}

func TestTranscode_HeaderRowSkipped(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"Field Name", "Type", "Variable Name", "Count"},
		[]string{"Header", "uint16", "apid", "1"},
		[]string{"", "", "", ""},
	)
	st := transcodeExtended(t, sheet)

	require.Len(t, st, 1)
	assert.Equal(t, 1, st[0].Len())
	assert.Equal(t, []string{"apid"}, st[0].VariableNames())
}

func TestTranscode_NumericDefaults(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"Header", "uint16", "apid", "1", "", "", "", "", "", ""},
		[]string{"Scaled", "int16", "temp", "1", "0.5", "-40", "", "", "", ""},
	)
	st := transcodeExtended(t, sheet)

	require.Len(t, st, 1)

	rec, ok := st[0].Field("apid")
	require.True(t, ok)
	assert.Equal(t, 1, rec["gain"])
	assert.Equal(t, 0, rec["offset"])
	assert.Equal(t, "", rec["min"])
	assert.Equal(t, "", rec["unit"])

	rec, ok = st[0].Field("temp")
	require.True(t, ok)
	assert.Equal(t, "0.5", rec["gain"])
	assert.Equal(t, "-40", rec["offset"])
}

func TestTranscode_MissingColumnRejected(t *testing.T) {
	columns := []string{"Field Name", "Type", "Variable Name", "Count", "Gain", "Offset", "Min", "Max", "Concept"}
	sheet := testkit.NewSheet("Payload", columns,
		[]string{"Header", "uint16", "apid", "1"},
	)

	tc := structure.NewTranscoder(structure.ExtendedSchema())
	_, err := tc.Transcode(&structure.Workbook{Sheets: []structure.Sheet{sheet}})

	var schemaErr *structure.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "Payload", schemaErr.Sheet)
	assert.Contains(t, schemaErr.Missing, "Unit")
}

func TestTranscode_MalformedLabelAborts(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"SIDX: broken"},
		[]string{"Header", "uint16", "apid", "1"},
	)

	tc := structure.NewTranscoder(structure.ExtendedSchema())
	_, err := tc.Transcode(&structure.Workbook{Sheets: []structure.Sheet{sheet}})

	var parseErr *structure.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "SIDX: broken", parseErr.Label)
}

func TestTranscode_MalformedLabelWithoutFieldRows(t *testing.T) {
	// The group id is only parsed once a group receives a field row, so a
	// malformed marker followed by nothing qualifying transcodes cleanly.
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"SIDX: broken"},
		[]string{"", "", "", ""},
	)
	st := transcodeExtended(t, sheet)

	require.Len(t, st, 1)
	assert.Equal(t, 0, st[0].Len())
	assert.Nil(t, st[0].Metadata)
}

func TestTranscode_EmptyTrailingGroup(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"Header", "uint16", "apid", "1"},
		[]string{"SID2: empty tail"},
	)
	st := transcodeExtended(t, sheet)

	require.Len(t, st, 2)
	assert.Equal(t, 1, st[0].Len())
	assert.Equal(t, 0, st[1].Len())

	raw, err := json.Marshal(st[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestTranscode_MinimalDialect(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.MinimalColumns(),
		[]string{"Header", "uint16", "apid", "1"},
	)

	tc := structure.NewTranscoder(structure.MinimalSchema())
	st, err := tc.Transcode(&structure.Workbook{Sheets: []structure.Sheet{sheet}})
	require.NoError(t, err)

	require.Len(t, st, 1)
	rec, ok := st[0].Field("apid")
	require.True(t, ok)
	assert.Len(t, rec, 4)
	assert.Equal(t, "Header", rec["field_name"])
	assert.NotContains(t, rec, "gain")

	// The same sheet fails extended validation.
	_, err = structure.NewTranscoder(structure.ExtendedSchema()).
		Transcode(&structure.Workbook{Sheets: []structure.Sheet{sheet}})
	var schemaErr *structure.SchemaError
	require.True(t, errors.As(err, &schemaErr))
}

func TestTranscode_SheetOrderPreserved(t *testing.T) {
	first := testkit.NewSheet("Alpha", testkit.ExtendedColumns(),
		[]string{"Header", "uint16", "a", "1"},
	)
	second := testkit.NewSheet("Beta", testkit.ExtendedColumns(),
		[]string{"Header", "uint16", "b", "1"},
	)
	st := transcodeExtended(t, first, second)

	require.Len(t, st, 2)
	assert.Equal(t, "Alpha", st[0].Metadata.Info)
	assert.Equal(t, "Beta", st[1].Metadata.Info)
}

func TestTranscode_DuplicateVariableOverwrites(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"First", "uint8", "x", "1"},
		[]string{"Second", "uint8", "x", "2"},
	)
	st := transcodeExtended(t, sheet)

	require.Len(t, st, 1)
	assert.Equal(t, 1, st[0].Len())
	rec, _ := st[0].Field("x")
	assert.Equal(t, "Second", rec["field_name"])
	assert.Equal(t, "2", rec["count"])
}

func TestGroupMarshalJSON_FlatDocument(t *testing.T) {
	st := transcodeExtended(t, testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"SID5: status"},
		[]string{"Header", "uint16", "apid", "1"},
	))

	require.Len(t, st, 1)
	raw, err := json.Marshal(st[0])
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "metadata")
	assert.Contains(t, doc, "apid")
	assert.Len(t, doc, 2)

	var meta structure.Metadata
	require.NoError(t, json.Unmarshal(doc["metadata"], &meta))
	assert.Equal(t, 5, meta.SIDNumber)
	assert.Equal(t, "SID5: status", meta.SID)
}
