package core

import (
	"errors"
	"io"
	"time"

	"github.com/JonMunkholm/jaarrekening/internal/database"
	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

var (
	// ErrEmptyDocument is returned for a document with no text.
	ErrEmptyDocument = errors.New("empty document")

	// ErrUnsupportedFormat is returned for binary inputs other than XLSX.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrFileTooLarge is returned when a document exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidYear is returned for fiscal years outside MinYear..MaxYear.
	ErrInvalidYear = errors.New("invalid fiscal year")

	// ErrInvalidCompany is returned for company keys that fail NormalizeCompany.
	ErrInvalidCompany = errors.New("invalid company key")

	// ErrCompanyNotFound is returned when a company has no stored years.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrYearNotFound is returned when a company has no record for a year.
	ErrYearNotFound = errors.New("year not found")
)

// Fiscal years accepted for ingestion.
const (
	MinYear = 1900
	MaxYear = 2100
)

// IngestParams describes one uploaded document.
type IngestParams struct {
	Company  string
	Year     int
	FileName string
	Body     io.Reader
}

// IngestResult is what Ingest stored.
type IngestResult struct {
	Upload database.Upload     `json:"upload"`
	Record *extract.YearRecord `json:"record"`
	Stats  extract.Stats       `json:"stats"`
}

// Metrics receives ingestion events. *metrics.Metrics satisfies it.
type Metrics interface {
	DocumentProcessed(rec *extract.YearRecord, stats extract.Stats, elapsed time.Duration)
	UploadRejected(reason string)
}

type nopMetrics struct{}

func (nopMetrics) DocumentProcessed(*extract.YearRecord, extract.Stats, time.Duration) {}
func (nopMetrics) UploadRejected(string)                                            {}
