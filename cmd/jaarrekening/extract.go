package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// extractCmd prints the extracted records as JSON.
type extractCmd struct {
	query string
}

func (*extractCmd) Name() string     { return "extract" }
func (*extractCmd) Synopsis() string { return "extract financial fields from annual-account CSVs" }
func (*extractCmd) Usage() string {
	return `jaarrekening extract [-query <jsonpath>] YEAR=FILE...

  Prints one JSON record per fiscal year, in ascending year order.
  With -query, prints only the JSONPath result, for example
  -query '$[*].grossMargin'.
`
}

func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "query", "", "JSONPath expression evaluated over the array of records.")
}

func (c *extractCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	records, err := loadRecords(ctx, cfg, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := writeRecords(os.Stdout, records, c.query); err != nil {
		return fail("Error: %v", err)
	}
	return subcommands.ExitSuccess
}

// writeRecords encodes records, or the query result over them, as indented
// JSON.
func writeRecords(w io.Writer, records []*extract.YearRecord, query string) error {
	var out any = records
	if query != "" {
		v, err := queryRecords(records, query)
		if err != nil {
			return err
		}
		out = v
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// queryRecords evaluates a JSONPath over the records' JSON form.
func queryRecords(records []*extract.YearRecord, query string) (any, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	v, err := jsonpath.Get(query, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	return v, nil
}
