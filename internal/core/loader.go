package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
	"golang.org/x/sync/errgroup"
)

// emptyDocumentMessage is the record error for a document without text.
const emptyDocumentMessage = "Lege CSV"

// Source is one fiscal year's document waiting to be loaded.
type Source struct {
	Year int
	Name string
	Open func() (io.ReadCloser, error)
}

// FileSource reads the document for year from path.
func FileSource(year int, path string) Source {
	return Source{
		Year: year,
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// TextSource serves an in-memory document.
func TextSource(year int, name, text string) Source {
	return Source{
		Year: year,
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(text)), nil },
	}
}

// LoadOptions bounds a batch load.
type LoadOptions struct {
	// Parallel is the number of documents extracted at once (default 4).
	Parallel int
	// MaxSize is the per-document byte limit; 0 means unlimited.
	MaxSize int64
}

// LoadYears extracts every source concurrently and returns the records keyed
// by year. A document that cannot be read becomes a record with Error set
// and QualityError; only duplicate years and context cancellation fail the
// whole load.
func LoadYears(ctx context.Context, b *extract.Builder, sources []Source, opts LoadOptions) (map[int]*extract.YearRecord, error) {
	seen := make(map[int]bool, len(sources))
	for _, src := range sources {
		if err := ValidateYear(src.Year); err != nil {
			return nil, err
		}
		if seen[src.Year] {
			return nil, fmt.Errorf("%w: %d listed twice", ErrInvalidYear, src.Year)
		}
		seen[src.Year] = true
	}

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = 4
	}

	var (
		mu      sync.Mutex
		records = make(map[int]*extract.YearRecord, len(sources))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for _, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := LoadDocument(b, src, opts.MaxSize)
			mu.Lock()
			records[src.Year] = rec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadDocument reads and extracts a single source. It never fails: problems
// are reported on the returned record.
func LoadDocument(b *extract.Builder, src Source, maxSize int64) *extract.YearRecord {
	logger := slog.Default().With("year", src.Year, "file", src.Name)

	text, err := readSource(src, maxSize)
	if err != nil {
		logger.Warn("document could not be loaded", "error", err)
		return failedRecord(src.Year, err)
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("document is empty")
		return failedRecord(src.Year, ErrEmptyDocument)
	}

	rec := b.Build(extract.Document{Year: src.Year, Text: text})
	AssessQuality(rec)
	logger.Info("document loaded",
		"fields", len(rec.Populated()),
		"quality", rec.DataQuality,
		"warnings", len(rec.ValidationWarnings),
	)
	return rec
}

func readSource(src Source, maxSize int64) (string, error) {
	rc, err := src.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	text, _, err := ReadDocument(rc, src.Name, maxSize)
	return text, err
}

func failedRecord(year int, err error) *extract.YearRecord {
	rec := extract.NewYearRecord(year)
	if errors.Is(err, ErrEmptyDocument) {
		rec.Error = emptyDocumentMessage
	} else {
		rec.Error = err.Error()
	}
	rec.DataQuality = extract.QualityError
	return rec
}

// AssessQuality sets rec.DataQuality: error when loading failed, good when a
// headline figure (gross margin, total assets or equity) was found, low
// otherwise.
func AssessQuality(rec *extract.YearRecord) extract.Quality {
	switch {
	case rec.Error != "":
		rec.DataQuality = extract.QualityError
	case rec.Has(extract.GrossMargin) || rec.Has(extract.TotalAssets) || rec.Has(extract.Equity):
		rec.DataQuality = extract.QualityGood
	default:
		rec.DataQuality = extract.QualityLow
	}
	return rec.DataQuality
}

// SortedRecords returns the records in ascending year order.
func SortedRecords(records map[int]*extract.YearRecord) []*extract.YearRecord {
	out := make([]*extract.YearRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// ValidateYear checks that year is a plausible fiscal year.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidYear, year, MinYear, MaxYear)
	}
	return nil
}
