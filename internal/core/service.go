package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/JonMunkholm/jaarrekening/internal/analysis"
	"github.com/JonMunkholm/jaarrekening/internal/config"
	"github.com/JonMunkholm/jaarrekening/internal/database"
	"github.com/JonMunkholm/jaarrekening/internal/extract"
	"github.com/JonMunkholm/jaarrekening/internal/logging"
)

// Service provides the ingestion and query operations shared by the HTTP
// server and the CLI.
type Service struct {
	store   database.Store
	builder *extract.Builder
	limiter *UploadLimiter
	cache   *cache.Cache
	metrics Metrics

	// generations counts data changes per company. Analysis only caches a
	// result computed from a generation that is still current.
	generations sync.Map // company -> *atomic.Uint64

	maxFileSize int64
	timeout     time.Duration
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithMetrics reports ingestion events to m.
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithBuilder replaces the extractor built from configuration.
func WithBuilder(b *extract.Builder) ServiceOption {
	return func(s *Service) {
		if b != nil {
			s.builder = b
		}
	}
}

// NewService creates a Service backed by store. cfg must have been
// validated.
func NewService(store database.Store, cfg *config.Config, opts ...ServiceOption) *Service {
	s := &Service{
		store:       store,
		builder:     extract.NewBuilder(cfg.ExtractOptions()...),
		limiter:     NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		cache:       cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
		metrics:     nopMetrics{},
		maxFileSize: cfg.Upload.MaxFileSize,
		timeout:     cfg.Upload.Timeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Builder returns the extractor used for ingestion.
func (s *Service) Builder() *extract.Builder { return s.builder }

var companyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,99}$`)

// NormalizeCompany lowercases and trims a company key and checks that it is
// safe for URLs and file names.
func NormalizeCompany(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if !companyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCompany, name)
	}
	return key, nil
}

// Ingest extracts one uploaded document and stores it as the company's
// record for the year, replacing any earlier upload. Every document that
// reaches the extractor is recorded in the upload history, failures
// included.
func (s *Service) Ingest(ctx context.Context, p IngestParams) (*IngestResult, error) {
	company, err := NormalizeCompany(p.Company)
	if err != nil {
		return nil, err
	}
	if err := ValidateYear(p.Year); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.metrics.UploadRejected("busy")
		return nil, err
	}
	defer s.limiter.Release()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger := logging.ForDocument(ctx, company, p.Year).With("file", p.FileName)
	start := time.Now()
	client := ClientFromContext(ctx)
	upload := database.Upload{
		ID:        uuid.New(),
		Company:   company,
		Year:      p.Year,
		FileName:  p.FileName,
		ClientIP:  client.IP,
		UserAgent: client.UserAgent,
	}

	text, size, err := ReadDocument(p.Body, p.FileName, s.maxFileSize)
	upload.SizeBytes = size
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyDocument
	}
	if err != nil {
		s.metrics.UploadRejected(rejectReason(err))
		logger.Warn("document rejected", "error", err, "bytes", size)
		upload.DataQuality = extract.QualityError
		upload.Error = err.Error()
		upload.CreatedAt = time.Now().UTC()
		if herr := s.store.RecordUpload(ctx, upload); herr != nil {
			logger.Error("failed to record upload", "error", herr)
		}
		return nil, err
	}

	rec, stats := s.builder.BuildWithStats(extract.Document{Year: p.Year, Text: text})
	AssessQuality(rec)
	s.metrics.DocumentProcessed(rec, stats, time.Since(start))

	if err := s.store.SaveYear(ctx, company, rec); err != nil {
		err = fmt.Errorf("save %s %d: %w", company, p.Year, err)
		logger.Error("failed to save record", "error", err)
		upload.DataQuality = extract.QualityError
		upload.Error = err.Error()
		upload.CreatedAt = time.Now().UTC()
		if herr := s.store.RecordUpload(ctx, upload); herr != nil {
			logger.Error("failed to record upload", "error", herr)
		}
		return nil, err
	}
	s.invalidate(company)

	upload.DataQuality = rec.DataQuality
	upload.FieldsPopulated = len(rec.Populated())
	upload.Warnings = len(rec.ValidationWarnings)
	upload.CreatedAt = time.Now().UTC()
	if err := s.store.RecordUpload(ctx, upload); err != nil {
		logger.Error("failed to record upload", "error", err)
	}

	logger.Info("document ingested",
		"upload_id", upload.ID,
		"bytes", size,
		"fields", upload.FieldsPopulated,
		"quality", rec.DataQuality,
		"warnings", upload.Warnings,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &IngestResult{Upload: upload, Record: rec, Stats: stats}, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrEmptyDocument):
		return "empty"
	default:
		return "unreadable"
	}
}

// Extract runs the extractor on a document without storing anything.
func (s *Service) Extract(ctx context.Context, year int, fileName string, body io.Reader) (*extract.YearRecord, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}
	text, _, err := ReadDocument(body, fileName, s.maxFileSize)
	if err != nil {
		s.metrics.UploadRejected(rejectReason(err))
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		s.metrics.UploadRejected(rejectReason(ErrEmptyDocument))
		return nil, ErrEmptyDocument
	}

	start := time.Now()
	rec, stats := s.builder.BuildWithStats(extract.Document{Year: year, Text: text})
	AssessQuality(rec)
	s.metrics.DocumentProcessed(rec, stats, time.Since(start))

	logging.FromContext(ctx).Debug("document extracted", "year", year, "fields", len(rec.Populated()))
	return rec, nil
}

// Years returns a company's records in ascending year order.
func (s *Service) Years(ctx context.Context, company string) ([]*extract.YearRecord, error) {
	key, err := NormalizeCompany(company)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListYears(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("list years for %s: %w", key, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, key)
	}
	return records, nil
}

// Year returns one stored record.
func (s *Service) Year(ctx context.Context, company string, year int) (*extract.YearRecord, error) {
	key, err := NormalizeCompany(company)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.GetYear(ctx, key, year)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s %d", ErrYearNotFound, key, year)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", key, year, err)
	}
	return rec, nil
}

// Companies lists every company with stored years.
func (s *Service) Companies(ctx context.Context) ([]database.Company, error) {
	companies, err := s.store.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	if companies == nil {
		companies = []database.Company{}
	}
	return companies, nil
}

// Analysis returns the derived KPIs, health score and insights for a
// company. Results are cached until the company's data changes.
func (s *Service) Analysis(ctx context.Context, company string) (*analysis.Analysis, error) {
	key, err := NormalizeCompany(company)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*analysis.Analysis), nil
	}

	gen := s.generation(key)
	seen := gen.Load()
	records, err := s.Years(ctx, key)
	if err != nil {
		return nil, err
	}
	a := analysis.Analyze(records)
	if gen.Load() == seen {
		s.cache.SetDefault(key, &a)
		// A change that landed after the check must not leave this entry behind.
		if gen.Load() != seen {
			s.cache.Delete(key)
		}
	}
	return &a, nil
}

func (s *Service) generation(company string) *atomic.Uint64 {
	v, _ := s.generations.LoadOrStore(company, new(atomic.Uint64))
	return v.(*atomic.Uint64)
}

// invalidate drops the cached analysis after the company's data changed.
func (s *Service) invalidate(company string) {
	s.generation(company).Add(1)
	s.cache.Delete(company)
}

// DeleteYear removes a stored record.
func (s *Service) DeleteYear(ctx context.Context, company string, year int) error {
	key, err := NormalizeCompany(company)
	if err != nil {
		return err
	}
	err = s.store.DeleteYear(ctx, key, year)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrYearNotFound, key, year)
	}
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", key, year, err)
	}
	s.invalidate(key)
	logging.ForDocument(ctx, key, year).Info("year deleted")
	return nil
}

// History returns the newest upload history entries. An empty company lists
// uploads for every company.
func (s *Service) History(ctx context.Context, company string, limit int) ([]database.Upload, error) {
	key := ""
	if company != "" {
		var err error
		if key, err = NormalizeCompany(company); err != nil {
			return nil, err
		}
	}
	uploads, err := s.store.ListUploads(ctx, key, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return uploads, nil
}

// Ping checks the store connection.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// LimiterStatus reports upload slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
