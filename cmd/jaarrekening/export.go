package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/JonMunkholm/jaarrekening/internal/export"
)

// exportCmd writes the extracted years as CSV, JSON or XLSX.
type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export extracted years as csv, json or xlsx" }
func (*exportCmd) Usage() string {
	return `jaarrekening export [-format csv|json|xlsx] [-o <file>] YEAR=FILE...

  Writes the records to -o, or to stdout for csv and json.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "csv", "Export format: csv, json or xlsx.")
	f.StringVar(&c.output, "o", "", "Output file. Required for xlsx.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := export.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if format == export.FormatXLSX && c.output == "" {
		fmt.Fprintln(os.Stderr, "Error: -o is required for xlsx")
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	records, err := loadRecords(ctx, cfg, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			return fail("Error creating %s: %v", c.output, err)
		}
		defer file.Close()
		w = file
	}
	if err := export.Write(w, format, records, time.Now()); err != nil {
		return fail("Error writing export: %v", err)
	}
	return subcommands.ExitSuccess
}
