package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/jaarrekening/internal/analysis"
	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// Sheet names of the XLSX export.
const (
	SheetRecords = "Jaarrekening"
	SheetKPI     = "KPI"
)

type kpiColumn struct {
	label string
	value func(analysis.KPIs) *float64
}

var kpiColumns = []kpiColumn{
	{"Brutomarge %", func(k analysis.KPIs) *float64 { return k.GrossMarginPct }},
	{"Bedrijfsmarge %", func(k analysis.KPIs) *float64 { return k.OperatingMarginPct }},
	{"Netto marge %", func(k analysis.KPIs) *float64 { return k.NetMarginPct }},
	{"ROA %", func(k analysis.KPIs) *float64 { return k.ROA }},
	{"ROE %", func(k analysis.KPIs) *float64 { return k.ROE }},
	{"Huidige ratio", func(k analysis.KPIs) *float64 { return k.CurrentRatio }},
	{"Quick ratio", func(k analysis.KPIs) *float64 { return k.QuickRatio }},
	{"Werkkapitaal", func(k analysis.KPIs) *float64 { return k.WorkingCapital }},
	{"Schuld/Eigen vermogen", func(k analysis.KPIs) *float64 { return k.DebtToEquity }},
	{"Eigen vermogen ratio %", func(k analysis.KPIs) *float64 { return k.EquityRatio }},
	{"Schuldratio %", func(k analysis.KPIs) *float64 { return k.DebtRatio }},
	{"Rentedekking", func(k analysis.KPIs) *float64 { return k.InterestCoverage }},
	{"Asset turnover", func(k analysis.KPIs) *float64 { return k.AssetTurnover }},
	{"Voorraaddagen", func(k analysis.KPIs) *float64 { return k.InventoryDays }},
	{"DSO", func(k analysis.KPIs) *float64 { return k.DSO }},
}

// XLSX writes a workbook with the headline figures on one sheet and the
// ratios on a second.
func XLSX(w io.Writer, records []*extract.YearRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRecords); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetKPI); err != nil {
		return err
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRecordsSheet(f, records, headerStyle, amountStyle); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetRecords, err)
	}
	if err := writeKPISheet(f, records, headerStyle, amountStyle); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetKPI, err)
	}

	_, err = f.WriteTo(w)
	return err
}

func writeRecordsSheet(f *excelize.File, records []*extract.YearRecord, headerStyle, amountStyle int) error {
	h := header()
	row := make([]any, len(h))
	for i, v := range h {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetRecords, "A1", &row); err != nil {
		return err
	}

	for i, r := range records {
		values := []any{r.Year}
		for _, field := range Columns {
			values = append(values, cellValue(r.Value(field)))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetRecords, cell, &values); err != nil {
			return err
		}
	}
	return styleSheet(f, SheetRecords, len(h), len(records)+1, headerStyle, amountStyle)
}

func writeKPISheet(f *excelize.File, records []*extract.YearRecord, headerStyle, amountStyle int) error {
	row := []any{yearHeader}
	for _, c := range kpiColumns {
		row = append(row, c.label)
	}
	if err := f.SetSheetRow(SheetKPI, "A1", &row); err != nil {
		return err
	}

	for i, r := range records {
		k := analysis.ComputeKPIs(r)
		values := []any{r.Year}
		for _, c := range kpiColumns {
			values = append(values, cellValue(c.value(k)))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetKPI, cell, &values); err != nil {
			return err
		}
	}
	return styleSheet(f, SheetKPI, len(row), len(records)+1, headerStyle, amountStyle)
}

// cellValue leaves unknown values as empty cells.
func cellValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func styleSheet(f *excelize.File, sheet string, cols, rows, headerStyle, amountStyle int) error {
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", last, 18); err != nil {
		return err
	}
	if rows < 2 || cols < 2 {
		return nil
	}
	return f.SetCellStyle(sheet, "B2", fmt.Sprintf("%s%d", last, rows), amountStyle)
}
