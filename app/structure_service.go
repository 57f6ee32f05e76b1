package app

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"packetstruct/domain/history"
	"packetstruct/domain/structure"
	"packetstruct/internal/errors"
	"packetstruct/ports"

	"github.com/google/uuid"
)

// collectionTimestampLayout has full date-time precision; collection name
// uniqueness relies on its granularity, which is acceptable for
// human-paced uploads.
const collectionTimestampLayout = "2006-01-02 15:04:05.000000"

// StructureService orchestrates the upload pipeline: read workbook,
// transcode, persist under a fresh collection, promote it in the history
// store, notify the parser service.
type StructureService struct {
	transcoder *structure.Transcoder
	reader     ports.WorkbookReader
	structures ports.StructureRepository
	history    ports.HistoryRepository
	notifier   ports.ParserNotifier
	baseName   string
	now        func() time.Time
}

// NewStructureService creates the upload orchestration service
func NewStructureService(
	transcoder *structure.Transcoder,
	reader ports.WorkbookReader,
	structures ports.StructureRepository,
	historyRepo ports.HistoryRepository,
	notifier ports.ParserNotifier,
	baseName string,
) *StructureService {
	return &StructureService{
		transcoder: transcoder,
		reader:     reader,
		structures: structures,
		history:    historyRepo,
		notifier:   notifier,
		baseName:   baseName,
		now:        time.Now,
	}
}

// UploadWorkbook processes one uploaded .xlsx file already spooled to
// disk. Nothing is persisted when reading or transcoding fails. A
// notification failure is surfaced as an upload failure even though the
// structure change is already committed.
func (s *StructureService) UploadWorkbook(ctx context.Context, path string) (string, error) {
	wb, err := s.reader.Read(path)
	if err != nil {
		return "", errors.WithCode(errors.CodeParseError, errors.Wrap(err, "failed to read workbook"))
	}

	st, err := s.transcoder.Transcode(wb)
	if err != nil {
		return "", classifyTranscodeError(err)
	}

	collectionName := fmt.Sprintf("%s %s", s.baseName, s.now().UTC().Format(collectionTimestampLayout))
	if err := s.structures.Save(ctx, collectionName, st); err != nil {
		return "", errors.Wrap(err, "failed to persist structure")
	}

	if _, err := s.history.RecordNewCurrent(ctx, collectionName); err != nil {
		return "", errors.Wrap(err, "failed to record new current structure")
	}

	log.Printf("[StructureService] Stored structure %q (%d groups, dialect %s)",
		collectionName, len(st), s.transcoder.Schema().Name)

	if err := s.notifier.NotifyStructureUpdate(ctx); err != nil {
		return collectionName, errors.Wrap(err, "structure stored but parser notification failed")
	}

	return collectionName, nil
}

// CurrentStructure returns the group documents of the collection marked
// current.
func (s *StructureService) CurrentStructure(ctx context.Context) ([]json.RawMessage, error) {
	entry, err := s.history.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	return s.structures.GetByCollection(ctx, entry.CollectionName)
}

// StructureByName returns the group documents of a named collection.
func (s *StructureService) StructureByName(ctx context.Context, collectionName string) ([]json.RawMessage, error) {
	return s.structures.GetByCollection(ctx, collectionName)
}

// AllMetadata returns every history entry in insertion order.
func (s *StructureService) AllMetadata(ctx context.Context) ([]*history.Entry, error) {
	return s.history.ListAll(ctx)
}

// ChangeCurrent promotes an existing history entry and notifies the
// parser service.
func (s *StructureService) ChangeCurrent(ctx context.Context, id string) error {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return errors.WithCode(errors.CodeValidationError, errors.Wrapf(err, "invalid structure id %q", id))
	}

	if err := s.history.SetCurrentByID(ctx, entryID); err != nil {
		return err
	}

	log.Printf("[StructureService] Current structure changed to entry %s", entryID)

	if err := s.notifier.NotifyStructureUpdate(ctx); err != nil {
		return errors.Wrap(err, "current structure changed but parser notification failed")
	}

	return nil
}

// CurrentSummary computes descriptive statistics over the current
// structure.
func (s *StructureService) CurrentSummary(ctx context.Context) (structure.Summary, error) {
	docs, err := s.CurrentStructure(ctx)
	if err != nil {
		return structure.Summary{}, err
	}

	summary, err := structure.SummarizeDocuments(docs)
	if err != nil {
		return structure.Summary{}, errors.Wrap(err, "failed to summarize current structure")
	}
	return summary, nil
}

// classifyTranscodeError maps domain transcoding failures onto the
// application error taxonomy.
func classifyTranscodeError(err error) error {
	var schemaErr *structure.SchemaError
	if stderrors.As(err, &schemaErr) {
		return errors.WithCode(errors.CodeSchemaError, err)
	}
	var parseErr *structure.ParseError
	if stderrors.As(err, &parseErr) {
		return errors.WithCode(errors.CodeParseError, err)
	}
	return errors.Wrap(err, "transcoding failed")
}
