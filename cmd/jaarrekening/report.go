package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/JonMunkholm/jaarrekening/internal/analysis"
)

// reportCmd prints the KPI and insight report for a set of years.
type reportCmd struct {
	company string
	raw     bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display KPIs, health score and insights" }
func (*reportCmd) Usage() string {
	return `jaarrekening report [-company <name>] [-raw] YEAR=FILE...

  Renders the analysis of the given years in the terminal.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "Company name shown in the report title.")
	f.BoolVar(&c.raw, "raw", false, "Print the Markdown source instead of rendering it.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	records, err := loadRecords(ctx, cfg, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	md := analysis.Report(c.company, records)
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, falling back to the source.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
