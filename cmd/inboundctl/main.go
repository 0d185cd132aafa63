package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/app"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/config"
	"github.com/andresuchdata/inbound-logbook/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

type appKey struct{}

func newLocalDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "local-dir",
		Usage:   "Directory of the local record cache",
		EnvVars: []string{"STORE_LOCAL_DIR"},
	}
}

func newKindFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "kind",
		Aliases:  []string{"k"},
		Usage:    "Record kind: arrivals, transactions or vas",
		Required: required,
	}
}

func initApp(c *cli.Context) error {
	cfg := config.Load()
	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)
	if dir := c.String("local-dir"); dir != "" {
		cfg.Store.LocalDir = dir
	}

	ctx, cancel := context.WithTimeout(c.Context, 2*time.Minute)
	defer cancel()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	c.Context = context.WithValue(c.Context, appKey{}, a)
	return nil
}

func closeApp(c *cli.Context) error {
	if a, ok := c.Context.Value(appKey{}).(*app.App); ok && a != nil {
		return a.Close()
	}
	return nil
}

func appFrom(c *cli.Context) (*app.App, error) {
	a, ok := c.Context.Value(appKey{}).(*app.App)
	if !ok || a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "inboundctl",
		Usage: "Operate the inbound log book from the command line",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Apply database migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db-url",
						Usage:   "Database connection string",
						EnvVars: []string{"DATABASE_URL", "DB_URL"},
					},
					&cli.StringFlag{
						Name:  "driver",
						Usage: "SQL driver: pgx or postgres",
						Value: "pgx",
					},
				},
				Action: runMigrate,
			},
			{
				Name:      "import",
				Usage:     "Import CSV or XLSX files",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					newLocalDirFlag(),
					newKindFlag(false),
					&cli.StringFlag{
						Name:  "format",
						Usage: "csv or xlsx, inferred from the extension when empty",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Import every CSV and XLSX file of a directory",
					},
				},
				Before: initApp,
				After:  closeApp,
				Action: runImport,
			},
			{
				Name:  "export",
				Usage: "Export records as CSV or XLSX",
				Flags: []cli.Flag{
					newLocalDirFlag(),
					newKindFlag(true),
					&cli.StringFlag{
						Name:  "format",
						Usage: "csv or xlsx",
						Value: "csv",
					},
					&cli.StringSliceFlag{
						Name:  "ids",
						Usage: "Export only these record ids",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory or file",
						Value:   ".",
					},
					&cli.BoolFlag{
						Name:  "archive",
						Usage: "Also upload the export to the archive bucket",
					},
				},
				Before: initApp,
				After:  closeApp,
				Action: runExport,
			},
			{
				Name:  "dashboard",
				Usage: "Print dashboard data as JSON",
				Flags: []cli.Flag{
					newLocalDirFlag(),
					&cli.StringFlag{
						Name:  "section",
						Usage: "summary, pending, vas or reconciled",
						Value: "summary",
					},
				},
				Before: initApp,
				After:  closeApp,
				Action: runDashboard,
			},
			{
				Name:  "drive",
				Usage: "Google Drive ingestion",
				Subcommands: []*cli.Command{
					{
						Name:  "ingest",
						Usage: "Import a Drive file or every file of a Drive folder",
						Flags: []cli.Flag{
							newLocalDirFlag(),
							newKindFlag(false),
							&cli.StringFlag{
								Name:  "file-id",
								Usage: "Drive file id",
							},
							&cli.StringFlag{
								Name:    "folder-id",
								Usage:   "Drive folder id",
								EnvVars: []string{"DRIVE_FOLDER_ID"},
							},
						},
						Before: initApp,
						After:  closeApp,
						Action: runDriveIngest,
					},
				},
			},
			{
				Name:  "archive",
				Usage: "Browse archived exports",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List archived exports",
						Flags:  []cli.Flag{newLocalDirFlag(), newKindFlag(false)},
						Before: initApp,
						After:  closeApp,
						Action: runArchiveList,
					},
					{
						Name:  "download",
						Usage: "Download an archived export",
						Flags: []cli.Flag{
							newLocalDirFlag(),
							&cli.StringFlag{
								Name:     "key",
								Usage:    "Object key",
								Required: true,
							},
							&cli.StringFlag{
								Name:    "out",
								Aliases: []string{"o"},
								Usage:   "Output directory or file",
								Value:   ".",
							},
						},
						Before: initApp,
						After:  closeApp,
						Action: runArchiveDownload,
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Report which store backend is active",
				Flags:  []cli.Flag{newLocalDirFlag()},
				Before: initApp,
				After:  closeApp,
				Action: runStatus,
			},
		},
	}
}

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("inboundctl failed")
	}
}
