package drive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/service"
	"github.com/gorilla/mux"
)

type fakeDrive struct {
	files    []*File
	contents map[string]string
	broken   map[string]bool
}

func (f *fakeDrive) ListFiles(_ context.Context, _ string) ([]*File, error) {
	return f.files, nil
}

func (f *fakeDrive) GetFile(_ context.Context, fileID string) (*File, error) {
	for _, file := range f.files {
		if file.ID == fileID {
			return file, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDrive) DownloadFile(_ context.Context, fileID string, w io.Writer) error {
	if f.broken[fileID] {
		return errors.New("connection reset")
	}
	_, err := io.WriteString(w, f.contents[fileID])
	return err
}

func (f *fakeDrive) FindFolderByPath(_ context.Context, path string) (string, error) {
	return "folder-" + path, nil
}

type importCall struct {
	kind   domain.Kind
	format service.Format
	body   string
}

type recordingImporter struct {
	mu    sync.Mutex
	calls []importCall
}

func (r *recordingImporter) Import(_ context.Context, kind domain.Kind, format service.Format, rd io.Reader) (service.ImportResult, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return service.ImportResult{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, importCall{kind: kind, format: format, body: string(data)})
	return service.ImportResult{Imported: strings.Count(string(data), "\n") - 1}, nil
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		files: []*File{
			{ID: "1", Name: "arrivals_may.csv"},
			{ID: "2", Name: "Transaksi Mei.xlsx"},
			{ID: "3", Name: "notes.txt"},
			{ID: "4", Name: "misc.csv"},
			{ID: "5", Name: "vas_log.csv"},
			{ID: "6", Name: "archive", MimeType: folderMimeType},
		},
		contents: map[string]string{
			"1": "Date,Brand\n2024-05-01,Nike\n",
			"2": "xlsx-bytes\n",
			"4": "a,b\n1,2\n",
			"5": "Date,SKU\n",
		},
		broken: map[string]bool{"5": true},
	}
}

func TestIngestFile(t *testing.T) {
	src := newFakeDrive()
	imp := &recordingImporter{}
	svc := NewIngestService(src, imp)
	ctx := context.Background()

	res, err := svc.IngestFile(ctx, "1", "")
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if res.Kind != domain.KindArrival || res.Imported != 1 {
		t.Fatalf("result = %+v", res)
	}
	if imp.calls[0].format != service.FormatCSV || !strings.Contains(imp.calls[0].body, "Nike") {
		t.Fatalf("import call = %+v", imp.calls[0])
	}

	if _, err := svc.IngestFile(ctx, "3", ""); !domain.IsValidation(err) {
		t.Fatalf("txt file: err = %v, want validation error", err)
	}
	if _, err := svc.IngestFile(ctx, "4", ""); !domain.IsValidation(err) {
		t.Fatalf("unknown kind: err = %v, want validation error", err)
	}
	if res, err := svc.IngestFile(ctx, "4", domain.KindVas); err != nil || res.Kind != domain.KindVas {
		t.Fatalf("explicit kind = %+v, %v", res, err)
	}
}

func TestIngestFolder(t *testing.T) {
	src := newFakeDrive()
	imp := &recordingImporter{}
	svc := NewIngestService(src, imp)

	results, err := svc.IngestFolder(context.Background(), "folder", "")
	if err != nil {
		t.Fatalf("IngestFolder: %v", err)
	}

	byName := map[string]*IngestResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4 (%v)", len(results), byName)
	}
	if !byName["misc.csv"].Skipped {
		t.Fatalf("misc.csv not skipped: %+v", byName["misc.csv"])
	}
	if byName["vas_log.csv"].Error == "" {
		t.Fatalf("broken download not reported: %+v", byName["vas_log.csv"])
	}
	if r := byName["Transaksi Mei.xlsx"]; r.Kind != domain.KindTransaction || r.Error != "" {
		t.Fatalf("xlsx result = %+v", r)
	}

	if len(imp.calls) != 2 {
		t.Fatalf("imports = %d, want 2", len(imp.calls))
	}
	if imp.calls[0].kind != domain.KindArrival || imp.calls[1].format != service.FormatXLSX {
		t.Fatalf("import order = %+v", imp.calls)
	}
}

func TestHandler(t *testing.T) {
	src := newFakeDrive()
	h := NewHandler(src, NewIngestService(src, &recordingImporter{}), "default-folder")
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/drive/files", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var files []*File
	if err := json.Unmarshal(w.Body.Bytes(), &files); err != nil || len(files) != len(src.files) {
		t.Fatalf("files = %v, %v", files, err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/drive/ingest?fileId=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ingest status = %d body=%s", w.Code, w.Body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/drive/ingest?fileId=1&kind=pallets", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad kind status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/drive/ingest?fileId=3", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unsupported file status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/drive/ingest/folder", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "arrivals_may.csv") {
		t.Fatalf("folder ingest status = %d body=%s", w.Code, w.Body)
	}
}
