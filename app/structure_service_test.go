package app_test

import (
	"context"
	"strings"
	"testing"

	"packetstruct/app"
	"packetstruct/domain/structure"
	apperrors "packetstruct/internal/errors"
	"packetstruct/internal/testkit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReader hands the service a pre-built workbook instead of reading a
// file from disk.
type stubReader struct {
	wb  *structure.Workbook
	err error
}

func (r *stubReader) Read(path string) (*structure.Workbook, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.wb, nil
}

type serviceFixture struct {
	service    *app.StructureService
	structures *testkit.InMemoryStructureRepository
	history    *testkit.InMemoryHistoryRepository
	notifier   *testkit.StubNotifier
}

func newFixture(wb *structure.Workbook) *serviceFixture {
	f := &serviceFixture{
		structures: testkit.NewInMemoryStructureRepository(),
		history:    testkit.NewInMemoryHistoryRepository(),
		notifier:   testkit.NewStubNotifier(),
	}
	f.service = app.NewStructureService(
		structure.NewTranscoder(structure.ExtendedSchema()),
		&stubReader{wb: wb},
		f.structures,
		f.history,
		f.notifier,
		"CCSDS_Structure",
	)
	return f
}

func TestUploadWorkbook_RoundTrip(t *testing.T) {
	wb := testkit.TelemetryWorkbook()
	f := newFixture(wb)

	collectionName, err := f.service.UploadWorkbook(context.Background(), "ignored.xlsx")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(collectionName, "CCSDS_Structure "))
	assert.Equal(t, 1, f.notifier.Calls())

	got, err := f.service.CurrentStructure(context.Background())
	require.NoError(t, err)

	st, err := structure.NewTranscoder(structure.ExtendedSchema()).Transcode(wb)
	require.NoError(t, err)
	want, err := st.Documents()
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.JSONEq(t, string(want[i]), string(got[i]))
	}
}

func TestUploadWorkbook_ExactlyOneCurrent(t *testing.T) {
	f := newFixture(testkit.TelemetryWorkbook())

	var last string
	for i := 0; i < 3; i++ {
		name, err := f.service.UploadWorkbook(context.Background(), "ignored.xlsx")
		require.NoError(t, err)
		last = name
	}

	entries, err := f.service.AllMetadata(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	currentCount := 0
	for _, e := range entries {
		if e.IsCurrent {
			currentCount++
			assert.Equal(t, last, e.CollectionName)
		}
	}
	assert.Equal(t, 1, currentCount)
}

func TestUploadWorkbook_MissingColumnPersistsNothing(t *testing.T) {
	sheet := testkit.NewSheet("Payload", testkit.MinimalColumns(),
		[]string{"Header", "uint16", "apid", "1"},
	)
	f := newFixture(&structure.Workbook{Sheets: []structure.Sheet{sheet}})

	_, err := f.service.UploadWorkbook(context.Background(), "ignored.xlsx")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSchemaError, apperrors.GetCode(err))

	assert.Empty(t, f.structures.Collections())
	_, err = f.service.AllMetadata(context.Background())
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
	assert.Equal(t, 0, f.notifier.Calls())
}

func TestUploadWorkbook_ParseErrorPersistsNothing(t *testing.T) {
	sheet := testkit.NewSheet("S", testkit.ExtendedColumns(),
		[]string{"SIDbad"},
		[]string{"Header", "uint16", "apid", "1"},
	)
	f := newFixture(&structure.Workbook{Sheets: []structure.Sheet{sheet}})

	_, err := f.service.UploadWorkbook(context.Background(), "ignored.xlsx")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeParseError, apperrors.GetCode(err))
	assert.Empty(t, f.structures.Collections())
}

func TestUploadWorkbook_NotifyFailureLeavesCommit(t *testing.T) {
	f := newFixture(testkit.TelemetryWorkbook())
	f.notifier.Err = context.DeadlineExceeded

	collectionName, err := f.service.UploadWorkbook(context.Background(), "ignored.xlsx")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeExternalService, apperrors.GetCode(err))

	// The structure change stays committed even though the request fails.
	docs, err := f.service.StructureByName(context.Background(), collectionName)
	require.NoError(t, err)
	assert.NotEmpty(t, docs)

	docs, err = f.service.CurrentStructure(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, docs)
}

func TestUploadWorkbook_ReaderError(t *testing.T) {
	f := &serviceFixture{
		structures: testkit.NewInMemoryStructureRepository(),
		history:    testkit.NewInMemoryHistoryRepository(),
		notifier:   testkit.NewStubNotifier(),
	}
	f.service = app.NewStructureService(
		structure.NewTranscoder(structure.ExtendedSchema()),
		&stubReader{err: assert.AnError},
		f.structures, f.history, f.notifier,
		"CCSDS_Structure",
	)

	_, err := f.service.UploadWorkbook(context.Background(), "corrupt.xlsx")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeParseError, apperrors.GetCode(err))
}

func TestChangeCurrent(t *testing.T) {
	f := newFixture(testkit.TelemetryWorkbook())

	_, err := f.service.UploadWorkbook(context.Background(), "ignored.xlsx")
	require.NoError(t, err)
	_, err = f.service.UploadWorkbook(context.Background(), "ignored.xlsx")
	require.NoError(t, err)

	entries, err := f.service.AllMetadata(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	first := entries[0]
	assert.False(t, first.IsCurrent)

	notifications := f.notifier.Calls()
	require.NoError(t, f.service.ChangeCurrent(context.Background(), first.ID.String()))
	assert.Equal(t, notifications+1, f.notifier.Calls())

	current, err := f.service.CurrentStructure(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, current)

	entries, err = f.service.AllMetadata(context.Background())
	require.NoError(t, err)
	assert.True(t, entries[0].IsCurrent)
	assert.False(t, entries[1].IsCurrent)
}

func TestChangeCurrent_InvalidID(t *testing.T) {
	f := newFixture(testkit.TelemetryWorkbook())

	err := f.service.ChangeCurrent(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))
	assert.Equal(t, 0, f.notifier.Calls())
}

func TestChangeCurrent_UnknownID(t *testing.T) {
	f := newFixture(testkit.TelemetryWorkbook())

	err := f.service.ChangeCurrent(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
	assert.Equal(t, 0, f.notifier.Calls())
}

func TestCurrentSummary(t *testing.T) {
	f := newFixture(testkit.TelemetryWorkbook())

	_, err := f.service.CurrentSummary(context.Background())
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))

	_, err = f.service.UploadWorkbook(context.Background(), "ignored.xlsx")
	require.NoError(t, err)

	summary, err := f.service.CurrentSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.GroupCount)
	assert.Equal(t, 3, summary.FieldCount)
}
