package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

var reportFields = []extract.Field{
	extract.GrossMargin,
	extract.OperatingProfit,
	extract.NetProfit,
	extract.TotalAssets,
	extract.Equity,
	extract.CurrentAssets,
	extract.CurrentLiabilities,
}

type kpiRow struct {
	label  string
	format func(*float64) string
	value  func(KPIs) *float64
}

var kpiRows = []kpiRow{
	{"Netto winstmarge", FormatPercent, func(k KPIs) *float64 { return k.NetMarginPct }},
	{"Bedrijfsmarge", FormatPercent, func(k KPIs) *float64 { return k.OperatingMarginPct }},
	{"ROA", FormatPercent, func(k KPIs) *float64 { return k.ROA }},
	{"ROE", FormatPercent, func(k KPIs) *float64 { return k.ROE }},
	{"Huidige ratio", FormatRatio, func(k KPIs) *float64 { return k.CurrentRatio }},
	{"Quick ratio", FormatRatio, func(k KPIs) *float64 { return k.QuickRatio }},
	{"Werkkapitaal", FormatEUR, func(k KPIs) *float64 { return k.WorkingCapital }},
	{"Schuld/Eigen vermogen", FormatRatio, func(k KPIs) *float64 { return k.DebtToEquity }},
	{"Eigen vermogen ratio", FormatPercent, func(k KPIs) *float64 { return k.EquityRatio }},
	{"Rentedekking", FormatRatio, func(k KPIs) *float64 { return k.InterestCoverage }},
	{"Asset turnover", FormatRatio, func(k KPIs) *float64 { return k.AssetTurnover }},
	{"DSO (dagen)", FormatRatio, func(k KPIs) *float64 { return k.DSO }},
}

// WriteReport renders a markdown report for company over records (ascending).
func WriteReport(w io.Writer, company string, records []*extract.YearRecord) error {
	a := Analyze(records)
	var b strings.Builder

	title := "Jaarrekening analyse"
	if company != "" {
		title += ": " + company
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if len(records) == 0 {
		b.WriteString("Geen jaren geladen.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("## Kerncijfers\n\n")
	writeHeader(&b, "", a.Years)
	for _, f := range reportFields {
		cells := make([]string, len(records))
		for i, r := range records {
			cells[i] = FormatEUR(r.Value(f))
		}
		writeRow(&b, ShortLabel(f), cells)
	}

	b.WriteString("\n## Ratio's\n\n")
	writeHeader(&b, "", a.Years)
	for _, row := range kpiRows {
		cells := make([]string, len(a.KPIs))
		for i, k := range a.KPIs {
			cells[i] = row.format(row.value(k))
		}
		writeRow(&b, row.label, cells)
	}

	if a.Health != nil {
		h := a.Health
		fmt.Fprintf(&b, "\n## Financiële gezondheid (%d)\n\n", h.Year)
		fmt.Fprintf(&b, "**%d/%d** (%s)\n\n", h.Score, h.Max, h.Status)
		for _, f := range h.Factors {
			fmt.Fprintf(&b, "- **%s** %d/%d: %s\n", f.Name, f.Score, f.Max, f.Text)
		}
	}

	if len(a.Comparisons) > 0 {
		b.WriteString("\n## Jaar op jaar\n\n")
		for _, c := range a.Comparisons {
			fmt.Fprintf(&b, "### %d → %d\n\n", c.From, c.To)
			for _, ch := range c.Changes {
				fmt.Fprintf(&b, "- %s: %s\n", ch.Label, signedPercent(ch.ChangePct))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Inzichten\n\n")
	for _, in := range a.Insights {
		fmt.Fprintf(&b, "- %s **%s**: %s\n", kindMarker(in.Kind), in.Title, in.Text)
		if in.Recommendation != "" {
			fmt.Fprintf(&b, "  - *Aanbeveling:* %s\n", in.Recommendation)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Report is WriteReport into a string.
func Report(company string, records []*extract.YearRecord) string {
	var b strings.Builder
	_ = WriteReport(&b, company, records)
	return b.String()
}

func writeHeader(b *strings.Builder, first string, years []int) {
	b.WriteString("| " + first + " |")
	for _, y := range years {
		fmt.Fprintf(b, " %d |", y)
	}
	b.WriteString("\n|---|")
	for range years {
		b.WriteString("---:|")
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, label string, cells []string) {
	b.WriteString("| " + label + " |")
	for _, c := range cells {
		b.WriteString(" " + c + " |")
	}
	b.WriteString("\n")
}

func kindMarker(k Kind) string {
	switch k {
	case KindPositive:
		return "[+]"
	case KindNegative:
		return "[-]"
	case KindWarning:
		return "[!]"
	default:
		return "[i]"
	}
}
