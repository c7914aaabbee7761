package core

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

const sampleCSV = `Omschrijving,Code,Boekjaar,Vorig boekjaar
Brutomarge,9900,"1.250.000,00","1.100.000,00"
Eigen vermogen,10/15,"640.000,00","600.000,00"
Totaal der activa,20/58,"1.900.000,00","1.800.000,00"
`

func TestLoadYears(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2022.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	sources := []Source{
		FileSource(2022, path),
		TextSource(2023, "2023.csv", sampleCSV),
		TextSource(2021, "2021.csv", "   \n"),
		{Year: 2020, Name: "missing.csv", Open: func() (io.ReadCloser, error) { return nil, os.ErrNotExist }},
	}

	records, err := LoadYears(context.Background(), extract.NewBuilder(), sources, LoadOptions{Parallel: 2})
	if err != nil {
		t.Fatalf("LoadYears() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	for _, year := range []int{2022, 2023} {
		rec := records[year]
		if rec.DataQuality != extract.QualityGood {
			t.Errorf("%d quality = %q, want good", year, rec.DataQuality)
		}
		if got, _ := rec.Get(extract.GrossMargin); got != 1_250_000 {
			t.Errorf("%d gross margin = %v, want 1250000", year, got)
		}
	}

	empty := records[2021]
	if empty.Error != "Lege CSV" || empty.DataQuality != extract.QualityError {
		t.Errorf("empty document = {%q %q}, want {Lege CSV error}", empty.Error, empty.DataQuality)
	}
	if missing := records[2020]; missing.Error == "" || missing.DataQuality != extract.QualityError {
		t.Errorf("unreadable document = {%q %q}, want an error record", missing.Error, missing.DataQuality)
	}

	sorted := SortedRecords(records)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Year >= sorted[i].Year {
			t.Fatalf("SortedRecords not ascending: %d before %d", sorted[i-1].Year, sorted[i].Year)
		}
	}
}

func TestLoadYears_RejectsBadYears(t *testing.T) {
	b := extract.NewBuilder()
	ctx := context.Background()

	_, err := LoadYears(ctx, b, []Source{TextSource(1850, "old.csv", sampleCSV)}, LoadOptions{})
	if !errors.Is(err, ErrInvalidYear) {
		t.Errorf("out of range: err = %v, want ErrInvalidYear", err)
	}

	_, err = LoadYears(ctx, b, []Source{
		TextSource(2023, "a.csv", sampleCSV),
		TextSource(2023, "b.csv", sampleCSV),
	}, LoadOptions{})
	if !errors.Is(err, ErrInvalidYear) {
		t.Errorf("duplicate: err = %v, want ErrInvalidYear", err)
	}
}

func TestLoadYears_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadYears(ctx, extract.NewBuilder(), []Source{TextSource(2023, "a.csv", sampleCSV)}, LoadOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAssessQuality(t *testing.T) {
	tests := []struct {
		name string
		rec  *extract.YearRecord
		want extract.Quality
	}{
		{"gross margin", &extract.YearRecord{GrossMargin: extract.Ptr(1)}, extract.QualityGood},
		{"total assets", &extract.YearRecord{TotalAssets: extract.Ptr(1)}, extract.QualityGood},
		{"equity", &extract.YearRecord{Equity: extract.Ptr(1)}, extract.QualityGood},
		{"only cash", &extract.YearRecord{Cash: extract.Ptr(1)}, extract.QualityLow},
		{"error wins", &extract.YearRecord{GrossMargin: extract.Ptr(1), Error: "boom"}, extract.QualityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssessQuality(tt.rec); got != tt.want {
				t.Errorf("AssessQuality() = %q, want %q", got, tt.want)
			}
		})
	}
}
