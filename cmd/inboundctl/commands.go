package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/config"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/csvio"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/drive"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/service"
	"github.com/andresuchdata/inbound-logbook/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func runMigrate(c *cli.Context) error {
	cfg := config.Load()
	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)

	dbCfg := cfg.Database
	if u := c.String("db-url"); u != "" {
		dbCfg.URL = u
	}
	dbCfg.Driver = c.String("driver")

	db, err := postgres.NewDB(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(c.Context, 2*time.Minute)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	v, err := db.MigrationVersion(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "schema version %d\n", v)
	return nil
}

func parseKindFlag(c *cli.Context) (domain.Kind, error) {
	raw := c.String("kind")
	if raw == "" {
		return "", nil
	}
	kind, ok := domain.ParseKind(raw)
	if !ok {
		return "", fmt.Errorf("unknown record kind %q", raw)
	}
	return kind, nil
}

// importFiles lists the files named on the command line followed by the
// CSV and XLSX files of --dir in name order.
func importFiles(c *cli.Context) ([]string, error) {
	files := c.Args().Slice()
	dir := c.String("dir")
	if dir == "" {
		return files, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".csv", ".CSV", ".xlsx", ".XLSX", ".xlsm":
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(found)
	return append(files, found...), nil
}

func runImport(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}
	kind, err := parseKindFlag(c)
	if err != nil {
		return err
	}
	files, err := importFiles(c)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to import")
	}

	var total service.ImportResult
	for _, name := range files {
		k := kind
		if k == "" {
			var ok bool
			if k, ok = csvio.KindFromFilename(name); !ok {
				return fmt.Errorf("cannot infer record kind from %q, pass --kind", name)
			}
		}
		format := service.FormatFromFilename(name)
		if raw := c.String("format"); raw != "" {
			f, ok := service.ParseFormat(raw)
			if !ok {
				return fmt.Errorf("unknown format %q", raw)
			}
			format = f
		}

		res, err := importFile(c.Context, a.Transfer, k, format, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s: %d imported, %d rejected (%s)\n", name, res.Imported, res.Rejected, k)
		total.Imported += res.Imported
		total.Rejected += res.Rejected
	}

	if len(files) > 1 {
		fmt.Fprintf(c.App.Writer, "total: %d imported, %d rejected\n", total.Imported, total.Rejected)
	}
	return nil
}

func importFile(ctx context.Context, transfer *service.TransferService, kind domain.Kind, format service.Format, name string) (service.ImportResult, error) {
	f, err := os.Open(name)
	if err != nil {
		return service.ImportResult{}, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	res, err := transfer.Import(ctx, kind, format, f)
	if err != nil {
		return res, fmt.Errorf("failed to import %s: %w", name, err)
	}
	return res, nil
}

func runExport(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}
	kind, err := parseKindFlag(c)
	if err != nil {
		return err
	}
	format, ok := service.ParseFormat(c.String("format"))
	if !ok {
		return fmt.Errorf("unknown format %q", c.String("format"))
	}

	res, err := a.Transfer.Export(c.Context, service.ExportRequest{
		Kind:    kind,
		IDs:     c.StringSlice("ids"),
		Format:  format,
		Archive: c.Bool("archive"),
	})
	if err != nil {
		return err
	}

	out := outputPath(c.String("out"), res.Filename)
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(c.App.Writer, "wrote %d rows to %s\n", res.Rows, out)
	if res.ArchiveKey != "" {
		fmt.Fprintf(c.App.Writer, "archived as %s\n", res.ArchiveKey)
	}
	return nil
}

// outputPath places filename inside out when out is an existing directory.
func outputPath(out, filename string) string {
	if out == "" {
		return filename
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, filename)
	}
	return out
}

func runDashboard(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}

	var v any
	switch section := c.String("section"); section {
	case "summary":
		v, err = a.Dashboard.Summary(c.Context)
	case "pending":
		v, err = a.Dashboard.Pending(c.Context)
	case "vas":
		v, err = a.Dashboard.Vas(c.Context)
	case "reconciled":
		v, err = a.Dashboard.Reconciled(c.Context)
	default:
		return fmt.Errorf("unknown dashboard section %q", section)
	}
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, v)
}

func runDriveIngest(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}
	kind, err := parseKindFlag(c)
	if err != nil {
		return err
	}

	driveService, err := drive.NewService(a.Config.Drive.CredentialsJSON)
	if err != nil {
		return err
	}
	ingest := drive.NewIngestService(driveService, a.Transfer)

	if id := c.String("file-id"); id != "" {
		res, err := ingest.IngestFile(c.Context, id, kind)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, res)
	}

	folderID := c.String("folder-id")
	if folderID == "" {
		folderID = a.Config.Drive.FolderID
	}
	if folderID == "" {
		return fmt.Errorf("either --file-id or --folder-id is required")
	}
	results, err := ingest.IngestFolder(c.Context, folderID, kind)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, results)
}

func runArchiveList(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}
	kind, err := parseKindFlag(c)
	if err != nil {
		return err
	}

	objects, err := a.Transfer.ListArchive(c.Context, kind)
	if err != nil {
		return err
	}
	for _, o := range objects {
		fmt.Fprintf(c.App.Writer, "%s\t%d\n", o.Key, o.Size)
	}
	return nil
}

func runArchiveDownload(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}

	key := c.String("key")
	out := outputPath(c.String("out"), filepath.Base(key))
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	if err := a.Transfer.DownloadArchive(c.Context, key, f); err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	fmt.Fprintf(c.App.Writer, "downloaded %s to %s\n", key, out)
	return nil
}

func runStatus(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}
	a.Store.Probe(c.Context)
	return printJSON(c.App.Writer, map[string]any{
		"online":  a.Store.Online(),
		"backend": a.Store.Backend(),
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
