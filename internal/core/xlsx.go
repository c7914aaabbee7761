package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetText flattens the first sheet of an XLSX workbook into the
// comma-separated text the extractor reads.
//
// Numeric cells are written without grouping and with a decimal comma, the
// way the NBB CSV export writes them, so the amount rules apply unchanged.
func SpreadsheetText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: cannot open spreadsheet: %v", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrEmptyDocument
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	for r, row := range rows {
		record := make([]string, len(row))
		for c, raw := range row {
			record[c] = cellText(f, sheet, c+1, r+1, raw)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write row %d: %w", r+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// cellText renders numeric cells in Belgian notation and leaves text as is.
func cellText(f *excelize.File, sheet string, col, row int, raw string) string {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	switch typ, _ := f.GetCellType(sheet, axis); typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
	default:
		return raw
	}
}
