package extract

import (
	"log/slog"
	"math"
	"strings"
)

// minCells is the shortest row that can carry a label, code and value.
const minCells = 3

// Document is the raw text of one fiscal year's export.
type Document struct {
	Year int
	Text string
}

// Stats counts what happened while building one record.
type Stats struct {
	Rows         int
	CodeMatches  int
	StrategyHits map[string]int
	Unresolved   int
	TooSmall     int
	Replaced     int
	Kept         int
	TextMatches  int
}

// Builder turns documents into YearRecords.
type Builder struct {
	codes      *CodeTable
	norm       Normalizer
	strategies []Strategy
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithScale sets the monetary unit convention.
func WithScale(s Scale) Option {
	return func(b *Builder) { b.norm.Scale = s }
}

// WithCodes replaces the accounting-code catalogue.
func WithCodes(t *CodeTable) Option {
	return func(b *Builder) {
		if t != nil {
			b.codes = t
		}
	}
}

// WithStrategies replaces the value resolution order.
func WithStrategies(s ...Strategy) Option {
	return func(b *Builder) { b.strategies = append([]Strategy(nil), s...) }
}

// WithLogger sets the logger used for extraction diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder returns a Builder using DefaultCodes, DefaultStrategies and
// ScaleUnits unless overridden.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		codes:      DefaultCodes,
		strategies: DefaultStrategies(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Scale returns the configured unit convention.
func (b *Builder) Scale() Scale { return b.norm.Scale }

// Codes returns the configured catalogue.
func (b *Builder) Codes() *CodeTable { return b.codes }

// Extract builds a record with the default configuration.
func Extract(year int, text string) *YearRecord {
	return NewBuilder().Build(Document{Year: year, Text: text})
}

// Build extracts one document.
func (b *Builder) Build(doc Document) *YearRecord {
	rec, _ := b.BuildWithStats(doc)
	return rec
}

// docState is the per-document memory threaded through one pass.
type docState struct {
	columns columnResolver
	stats   Stats
}

// BuildWithStats extracts one document and reports extraction counters.
func (b *Builder) BuildWithStats(doc Document) (*YearRecord, Stats) {
	logger := b.logger.With("year", doc.Year)
	rec := NewYearRecord(doc.Year)
	st := &docState{
		columns: newColumnResolver(),
		stats:   Stats{StrategyHits: make(map[string]int)},
	}

	for _, line := range SplitLines(doc.Text) {
		row := SplitLine(line)
		if len(row) < minCells {
			continue
		}
		st.stats.Rows++

		lower := strings.ToLower(line)
		st.columns.observe(row, lower)
		b.extractCode(rec, row, st, logger)

		for _, f := range applyTextRules(rec, row, lower, b.norm) {
			st.stats.TextMatches++
			logger.Debug("field filled from label", "field", f.String())
		}
	}

	rec.Validate()

	logger.Debug("record extracted",
		"fields", len(rec.Populated()),
		"warnings", len(rec.ValidationWarnings),
		"code_matches", st.stats.CodeMatches,
	)
	return rec, st.stats
}

// extractCode handles the first code cell of a row. Later cells on the same
// row are never considered, whether or not a value was found.
func (b *Builder) extractCode(rec *YearRecord, row []string, st *docState, logger *slog.Logger) {
	for j, cell := range row {
		field, ok := b.codes.Lookup(strings.TrimSpace(cell))
		if !ok {
			continue
		}
		st.stats.CodeMatches++

		column, _ := st.columns.column()
		v, via, found := resolveValue(b.strategies, Candidate{
			Row:       row,
			CodeIndex: j,
			Column:    column,
			Normalize: b.normalizeFor(field),
		})

		switch {
		case !found:
			st.stats.Unresolved++
		case math.Abs(v) < minWritable:
			st.stats.TooSmall++
			if field.headline() {
				logger.Warn("value too small, skipped", "field", field.String(), "value", v, "code", cell)
			}
		default:
			st.stats.StrategyHits[via]++
			switch mergeValue(rec, field, v) {
			case MergeSet:
				logger.Debug("field set", "field", field.String(), "value", v, "code", cell, "strategy", via)
			case MergeReplaced:
				st.stats.Replaced++
				logger.Debug("field replaced", "field", field.String(), "value", v, "code", cell, "strategy", via)
			case MergeKept:
				st.stats.Kept++
			}
		}
		return
	}
}

// normalizeFor parses code-row cells with the amount separator rules and
// scales only when the target field is monetary.
func (b *Builder) normalizeFor(f Field) func(string) (float64, bool) {
	return func(s string) (float64, bool) {
		v, ok := parseNumber(s, true)
		if !ok {
			return 0, false
		}
		if f.Monetary() {
			v = b.norm.Scale.apply(v)
		}
		return v, true
	}
}
