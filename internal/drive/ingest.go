package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/csvio"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/service"
	"github.com/rs/zerolog/log"
)

// Source is the part of Drive the ingest flow reads from.
type Source interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	GetFile(ctx context.Context, fileID string) (*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// Importer loads one decoded file into the log book.
type Importer interface {
	Import(ctx context.Context, kind domain.Kind, format service.Format, r io.Reader) (service.ImportResult, error)
}

type IngestService struct {
	source   Source
	importer Importer
}

func NewIngestService(source Source, importer Importer) *IngestService {
	return &IngestService{
		source:   source,
		importer: importer,
	}
}

// IngestResult reports the outcome for one Drive file.
type IngestResult struct {
	FileID   string      `json:"file_id"`
	Name     string      `json:"name"`
	Kind     domain.Kind `json:"kind,omitempty"`
	Imported int         `json:"imported"`
	Rejected int         `json:"rejected"`
	Skipped  bool        `json:"skipped,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// IngestFile downloads a CSV or XLSX file and imports it as kind. An empty
// kind is inferred from the file name.
func (s *IngestService) IngestFile(ctx context.Context, fileID string, kind domain.Kind) (*IngestResult, error) {
	f, err := s.source.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !supportedFile(f.Name) {
		return nil, domain.NewValidationError("file", fmt.Sprintf("%s is not a csv or xlsx file", f.Name))
	}
	if kind == "" {
		var ok bool
		if kind, ok = csvio.KindFromFilename(f.Name); !ok {
			return nil, domain.NewValidationError("kind", fmt.Sprintf("cannot infer record kind from %q", f.Name))
		}
	}

	var buf bytes.Buffer
	if err := s.source.DownloadFile(ctx, f.ID, &buf); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	return s.importFile(ctx, f, kind, buf.Bytes())
}

func (s *IngestService) importFile(ctx context.Context, f *File, kind domain.Kind, data []byte) (*IngestResult, error) {
	res, err := s.importer.Import(ctx, kind, service.FormatFromFilename(f.Name), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", f.Name, err)
	}

	log.Info().
		Str("file_id", f.ID).
		Str("name", f.Name).
		Str("kind", string(kind)).
		Int("imported", res.Imported).
		Int("rejected", res.Rejected).
		Msg("drive file ingested")

	return &IngestResult{
		FileID:   f.ID,
		Name:     f.Name,
		Kind:     kind,
		Imported: res.Imported,
		Rejected: res.Rejected,
	}, nil
}

func supportedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	}
	return false
}
