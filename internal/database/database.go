// Package database persists extracted year records and upload history.
//
// Two stores implement [Store]: PostgreSQL through pgx for the shared
// server deployment, and SQLite through modernc.org/sqlite for the CLI and
// single-user installs. Both keep the full record as JSON so new fields
// never require a schema change. Schema changes are embedded migrations
// applied with golang-migrate.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/jaarrekening/internal/config"
	"github.com/JonMunkholm/jaarrekening/internal/extract"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a company, year or upload does not exist.
var ErrNotFound = errors.New("record not found")

// Company summarises the fiscal years stored for one company.
type Company struct {
	Name      string    `json:"name"`
	Years     []int     `json:"years"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Upload is one entry of the ingestion history.
type Upload struct {
	ID              uuid.UUID       `json:"id"`
	Company         string          `json:"company"`
	Year            int             `json:"year"`
	FileName        string          `json:"fileName"`
	SizeBytes       int64           `json:"sizeBytes"`
	DataQuality     extract.Quality `json:"dataQuality"`
	FieldsPopulated int             `json:"fieldsPopulated"`
	Warnings        int             `json:"warnings"`
	Error           string          `json:"error,omitempty"`
	ClientIP        string          `json:"clientIp,omitempty"`
	UserAgent       string          `json:"userAgent,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Store is the persistence contract used by the service layer.
type Store interface {
	// SaveYear inserts or replaces the record for company and rec.Year.
	SaveYear(ctx context.Context, company string, rec *extract.YearRecord) error
	GetYear(ctx context.Context, company string, year int) (*extract.YearRecord, error)
	// ListYears returns the company's records in ascending year order.
	ListYears(ctx context.Context, company string) ([]*extract.YearRecord, error)
	ListCompanies(ctx context.Context) ([]Company, error)
	DeleteYear(ctx context.Context, company string, year int) error

	RecordUpload(ctx context.Context, u Upload) error
	// ListUploads returns the newest uploads first. An empty company lists all.
	ListUploads(ctx context.Context, company string, limit int) ([]Upload, error)
	// PruneUploads deletes history entries created before the cutoff.
	PruneUploads(ctx context.Context, before time.Time) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the store selected by cfg.Driver and, when configured,
// applies pending migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, cfg.MigrateOnStart)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}

// DefaultUploadLimit caps ListUploads when the caller passes no limit.
const DefaultUploadLimit = 50

func uploadLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return DefaultUploadLimit
	}
	return limit
}
