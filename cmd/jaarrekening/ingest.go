package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/JonMunkholm/jaarrekening/internal/core"
	"github.com/JonMunkholm/jaarrekening/internal/database"
)

// ingestCmd stores documents in a local SQLite database, the same way the
// upload endpoint does.
type ingestCmd struct {
	db      string
	company string
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "store annual accounts in a local SQLite database" }
func (*ingestCmd) Usage() string {
	return `jaarrekening ingest -company <name> [-db <path>] YEAR=FILE...

  Extracts each document and stores it as the company's record for that
  year, replacing earlier uploads. Every attempt is kept in the upload history.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.db, "db", "", "SQLite database file. Defaults to SQLITE_PATH.")
	f.StringVar(&c.company, "company", "", "Company the documents belong to.")
}

func (c *ingestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.company == "" {
		fmt.Fprintln(os.Stderr, "Error: -company is required")
		return subcommands.ExitUsageError
	}
	sources, err := parseSources(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	path := c.db
	if path == "" {
		path = cfg.Database.SQLitePath
	}
	store, err := database.OpenSQLite(ctx, path, true)
	if err != nil {
		return fail("Error opening %s: %v", path, err)
	}
	defer store.Close()

	service := core.NewService(store, cfg)
	ctx = core.WithClient(ctx, core.Client{UserAgent: "jaarrekening-cli"})

	status := subcommands.ExitSuccess
	for _, src := range sources {
		if err := ingestSource(ctx, service, c.company, src); err != nil {
			fmt.Fprintf(os.Stderr, "%d %s: %v\n", src.Year, src.Name, err)
			status = subcommands.ExitFailure
		}
	}
	return status
}

func ingestSource(ctx context.Context, service *core.Service, company string, src core.Source) error {
	rc, err := src.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	res, err := service.Ingest(ctx, core.IngestParams{
		Company:  company,
		Year:     src.Year,
		FileName: src.Name,
		Body:     rc,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%d %s: %d fields, quality %s, %d warnings\n",
		src.Year, src.Name, res.Upload.FieldsPopulated, res.Record.DataQuality, res.Upload.Warnings)
	return nil
}
