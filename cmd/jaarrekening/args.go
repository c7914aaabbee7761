package main

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/jaarrekening/internal/config"
	"github.com/JonMunkholm/jaarrekening/internal/core"
	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// leadingYear matches file names such as 2023.csv or 2023-acme.csv.
var leadingYear = regexp.MustCompile(`^(\d{4})\D`)

// parseSources turns YEAR=FILE arguments into sources. A bare FILE is
// accepted when its name starts with the year.
func parseSources(args []string) ([]core.Source, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no documents given, want YEAR=FILE")
	}
	sources := make([]core.Source, 0, len(args))
	for _, arg := range args {
		yearText, file, ok := strings.Cut(arg, "=")
		if !ok {
			file = arg
			m := leadingYear.FindStringSubmatch(filepath.Base(arg))
			if m == nil {
				return nil, fmt.Errorf("%q: cannot tell the year, use YEAR=FILE", arg)
			}
			yearText = m[1]
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearText))
		if err != nil {
			return nil, fmt.Errorf("%q: year %q is not a number", arg, yearText)
		}
		if file == "" {
			return nil, fmt.Errorf("%q: missing file", arg)
		}
		sources = append(sources, core.FileSource(year, file))
	}
	return sources, nil
}

// loadRecords extracts every document named in args, in ascending year
// order.
func loadRecords(ctx context.Context, cfg *config.Config, args []string) ([]*extract.YearRecord, error) {
	sources, err := parseSources(args)
	if err != nil {
		return nil, err
	}
	b := extract.NewBuilder(cfg.ExtractOptions()...)
	records, err := core.LoadYears(ctx, b, sources, core.LoadOptions{
		Parallel: cfg.Upload.Parallel,
		MaxSize:  cfg.Upload.MaxFileSize,
	})
	if err != nil {
		return nil, err
	}
	return core.SortedRecords(records), nil
}
