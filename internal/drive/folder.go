package drive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/csvio"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const downloadConcurrency = 4

// IngestFolder downloads every CSV and XLSX file of a Drive folder in
// parallel, then imports them one at a time in listing order. Files whose
// kind cannot be determined are skipped. A failed file is reported in its
// result and does not stop the others.
func (s *IngestService) IngestFolder(ctx context.Context, folderID string, kind domain.Kind) ([]*IngestResult, error) {
	files, err := s.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	type pending struct {
		file *File
		kind domain.Kind
		data []byte
		err  error
	}

	var queue []*pending
	results := make([]*IngestResult, 0, len(files))
	for _, f := range files {
		if f.MimeType == folderMimeType || !supportedFile(f.Name) {
			continue
		}
		k := kind
		if k == "" {
			var ok bool
			if k, ok = csvio.KindFromFilename(f.Name); !ok {
				log.Warn().Str("name", f.Name).Msg("drive: skipping file with unknown record kind")
				results = append(results, &IngestResult{FileID: f.ID, Name: f.Name, Skipped: true})
				continue
			}
		}
		queue = append(queue, &pending{file: f, kind: k})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)
	for _, p := range queue {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := s.source.DownloadFile(gctx, p.file.ID, &buf); err != nil {
				p.err = fmt.Errorf("failed to download %s: %w", p.file.Name, err)
				return nil
			}
			p.data = buf.Bytes()
			return nil
		})
	}
	_ = g.Wait()

	for _, p := range queue {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if p.err != nil {
			results = append(results, &IngestResult{FileID: p.file.ID, Name: p.file.Name, Kind: p.kind, Error: p.err.Error()})
			continue
		}
		res, err := s.importFile(ctx, p.file, p.kind, p.data)
		if err != nil {
			log.Warn().Err(err).Str("name", p.file.Name).Msg("drive: folder file import failed")
			results = append(results, &IngestResult{FileID: p.file.ID, Name: p.file.Name, Kind: p.kind, Error: err.Error()})
			continue
		}
		results = append(results, res)
	}

	return results, nil
}
