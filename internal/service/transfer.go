package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/analytics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/csvio"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/metrics"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ParseFormat accepts csv or xlsx; an empty value means csv.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

// FormatFromFilename picks xlsx for Excel file names and csv otherwise.
func FormatFromFilename(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}
	return FormatCSV
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return contentTypeXLSX
	}
	return contentTypeCSV
}

type ExportRequest struct {
	Kind    domain.Kind
	IDs     []string
	Format  Format
	Archive bool
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
	ArchiveKey  string
}

type ImportResult struct {
	Imported int `json:"imported"`
	Rejected int `json:"rejected"`
}

// TransferService moves records in and out of the log book as CSV or XLSX
// files, optionally archiving exports to object storage.
type TransferService struct {
	inbound       *InboundService
	archive       storage.ObjectStorage
	archivePrefix string
	indexed       bool
	now           func() time.Time
}

// NewTransferService builds the service; archive may be nil.
func NewTransferService(inbound *InboundService, archive storage.ObjectStorage, archivePrefix string, indexedReconcile bool) *TransferService {
	return &TransferService{
		inbound:       inbound,
		archive:       archive,
		archivePrefix: strings.Trim(archivePrefix, "/"),
		indexed:       indexedReconcile,
		now:           time.Now,
	}
}

func (s *TransferService) ArchiveEnabled() bool { return s.archive != nil }

func (s *TransferService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if req.Format == "" {
		req.Format = FormatCSV
	}
	if req.Archive && s.archive == nil {
		return nil, domain.NewValidationError("archive", "is not configured")
	}

	header, rows, err := s.exportRows(ctx, req.Kind, req.IDs)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch req.Format {
	case FormatXLSX:
		err = csvio.WriteXLSX(&buf, string(req.Kind), header, rows)
	default:
		err = csvio.WriteCSV(&buf, header, rows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s export: %w", req.Kind, err)
	}

	res := &ExportResult{
		Filename:    fmt.Sprintf("%s_%s.%s", req.Kind, s.now().Format("20060102_150405"), req.Format),
		ContentType: req.Format.ContentType(),
		Data:        buf.Bytes(),
		Rows:        len(rows),
	}

	if req.Archive {
		key := path.Join(s.archivePrefix, string(req.Kind), res.Filename)
		if err := s.archive.UploadObject(ctx, key, res.Data, res.ContentType); err != nil {
			return nil, fmt.Errorf("failed to archive export: %w", err)
		}
		res.ArchiveKey = key
		log.Info().Str("key", key).Int("rows", res.Rows).Msg("archived export")
	}

	return res, nil
}

func (s *TransferService) exportRows(ctx context.Context, kind domain.Kind, ids []string) ([]string, [][]string, error) {
	switch kind {
	case domain.KindArrival:
		arrivals, err := s.inbound.Arrivals.Select(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		txs, err := s.inbound.Transactions.List(ctx, "")
		if err != nil {
			return nil, nil, err
		}
		views := analytics.ViewArrivals(arrivals, analytics.NewCalculator(txs, s.indexed))
		rows := make([][]string, 0, len(views))
		for _, v := range views {
			rows = append(rows, csvio.ArrivalRow(v))
		}
		return csvio.ArrivalExportHeader, rows, nil

	case domain.KindTransaction:
		txs, err := s.inbound.Transactions.Select(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]string, 0, len(txs))
		for _, t := range txs {
			rows = append(rows, csvio.TransactionRow(t))
		}
		return csvio.Labels(csvio.TransactionColumns), rows, nil

	case domain.KindVas:
		entries, err := s.inbound.Vas.Select(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]string, 0, len(entries))
		for _, v := range entries {
			rows = append(rows, csvio.VasRow(v))
		}
		return csvio.Labels(csvio.VasColumns), rows, nil
	}
	return nil, nil, domain.NewValidationError("kind", fmt.Sprintf("unknown record kind %q", kind))
}

// Import reads a CSV or XLSX file of one kind. Each row is independent: rows
// that are too sparse or fail validation are counted as rejected and the
// rest are inserted together. A file without a header and data rows imports
// nothing.
func (s *TransferService) Import(ctx context.Context, kind domain.Kind, format Format, r io.Reader) (ImportResult, error) {
	columns, err := importColumns(kind)
	if err != nil {
		return ImportResult{}, err
	}

	var dec *csvio.Decoded
	switch format {
	case FormatXLSX:
		dec, err = csvio.ReadXLSX(r, columns, csvio.DefaultMinFields)
	default:
		dec, err = csvio.ReadCSV(r, columns, csvio.DefaultMinFields)
	}
	if err != nil {
		return ImportResult{}, domain.NewValidationError("file", err.Error())
	}

	var res ImportResult
	switch kind {
	case domain.KindArrival:
		res, err = importRows(ctx, s.inbound.Arrivals, dec, csvio.ArrivalFromRow)
	case domain.KindTransaction:
		res, err = importRows(ctx, s.inbound.Transactions, dec, csvio.TransactionFromRow)
	case domain.KindVas:
		res, err = importRows(ctx, s.inbound.Vas, dec, csvio.VasFromRow)
	}
	if err != nil {
		return ImportResult{}, err
	}

	metrics.ImportRows.WithLabelValues(string(kind), "imported").Add(float64(res.Imported))
	metrics.ImportRows.WithLabelValues(string(kind), "rejected").Add(float64(res.Rejected))
	log.Info().Str("kind", string(kind)).Int("imported", res.Imported).Int("rejected", res.Rejected).Msg("import finished")

	return res, nil
}

func importColumns(kind domain.Kind) ([]csvio.Column, error) {
	switch kind {
	case domain.KindArrival:
		return csvio.ArrivalImportColumns, nil
	case domain.KindTransaction:
		return csvio.TransactionColumns, nil
	case domain.KindVas:
		return csvio.VasColumns, nil
	}
	return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown record kind %q", kind))
}

func importRows[T domain.Record, PT domain.Mutable[T], P domain.Patch[T]](
	ctx context.Context,
	svc *RecordService[T, PT, P],
	dec *csvio.Decoded,
	fromRow func([]string) T,
) (ImportResult, error) {
	res := ImportResult{Rejected: dec.Rejected}
	records := make([]T, 0, len(dec.Rows))
	for i, row := range dec.Rows {
		rec, err := svc.Prepare(fromRow(row))
		if err != nil {
			log.Debug().Err(err).Int("row", i+1).Str("kind", string(svc.Kind())).Msg("import row rejected")
			res.Rejected++
			continue
		}
		records = append(records, rec)
	}

	if err := svc.CreateMany(ctx, records); err != nil {
		return ImportResult{}, err
	}
	res.Imported = len(records)
	return res, nil
}

// ListArchive lists archived exports of kind, or of every kind when kind is
// empty.
func (s *TransferService) ListArchive(ctx context.Context, kind domain.Kind) ([]storage.ObjectInfo, error) {
	if s.archive == nil {
		return nil, domain.NewValidationError("archive", "is not configured")
	}
	prefix := s.archivePrefix
	if kind != "" {
		prefix = path.Join(prefix, string(kind))
	}
	if prefix != "" {
		prefix += "/"
	}
	return s.archive.ListObjects(ctx, prefix)
}

func (s *TransferService) DownloadArchive(ctx context.Context, key string, w io.Writer) error {
	if s.archive == nil {
		return domain.NewValidationError("archive", "is not configured")
	}
	return s.archive.DownloadObject(ctx, key, w)
}
