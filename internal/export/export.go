// Package export writes a company's year records as JSON, CSV or an XLSX
// workbook for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/jaarrekening/internal/analysis"
	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// Format is an export file type.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts json, csv or xlsx in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want json, csv or xlsx)", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// FileName returns the download name for a company export.
func FileName(company string, f Format, now time.Time) string {
	if company == "" {
		company = "jaarrekening"
	}
	return fmt.Sprintf("%s-financiele-data-%s.%s", company, now.Format("20060102"), f)
}

// Columns are the record fields written to tabular exports, after the year.
var Columns = []extract.Field{
	extract.GrossMargin,
	extract.OperatingProfit,
	extract.NetProfit,
	extract.TotalAssets,
	extract.Equity,
	extract.CurrentAssets,
	extract.CurrentLiabilities,
}

const yearHeader = "Jaar"

func header() []string {
	h := []string{yearHeader}
	for _, f := range Columns {
		h = append(h, analysis.ShortLabel(f))
	}
	return h
}

// amount renders a value with two decimals. Unknown and zero amounts are
// left blank.
func amount(v *float64) string {
	if v == nil || *v == 0 {
		return ""
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

// Write writes records (ascending) in format f.
func Write(w io.Writer, f Format, records []*extract.YearRecord, now time.Time) error {
	switch f {
	case FormatJSON:
		return JSON(w, records, now)
	case FormatCSV:
		return CSV(w, records)
	case FormatXLSX:
		return XLSX(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

type jsonDocument struct {
	ExportDate string                         `json:"exportDate"`
	Years      map[string]*extract.YearRecord `json:"years"`
}

// JSON writes {exportDate, years} with years keyed by fiscal year.
func JSON(w io.Writer, records []*extract.YearRecord, now time.Time) error {
	doc := jsonDocument{
		ExportDate: now.UTC().Format(time.RFC3339),
		Years:      make(map[string]*extract.YearRecord, len(records)),
	}
	for _, r := range records {
		doc.Years[strconv.Itoa(r.Year)] = r
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV writes a BOM, the header and one row per year. The BOM makes Excel
// open the file as UTF-8.
func CSV(w io.Writer, records []*extract.YearRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header()); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{strconv.Itoa(r.Year)}
		for _, f := range Columns {
			row = append(row, amount(r.Value(f)))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %d: %w", r.Year, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
