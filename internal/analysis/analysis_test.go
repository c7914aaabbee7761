package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

var p = extract.Ptr

// sampleYear is a healthy mid-sized company.
func sampleYear(year int) *extract.YearRecord {
	return &extract.YearRecord{
		Year:               year,
		GrossMargin:        p(1_000_000),
		PersonnelCosts:     p(500_000),
		OperatingProfit:    p(150_000),
		FinancialCosts:     p(-30_000),
		NetProfit:          p(100_000),
		TotalAssets:        p(2_000_000),
		Equity:             p(800_000),
		TotalLiabilities:   p(1_200_000),
		CurrentAssets:      p(600_000),
		CurrentLiabilities: p(300_000),
		Inventory:          p(150_000),
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1.234.567 EUR", FormatEUR(p(1_234_567.4)))
	assert.Equal(t, "-2.500 EUR", FormatEUR(p(-2_500)))
	assert.Equal(t, "0 EUR", FormatEUR(p(0)))
	assert.Equal(t, "N/A", FormatEUR(nil))

	assert.Equal(t, "12.4%", FormatPercent(p(12.36)))
	assert.Equal(t, "N/A", FormatPercent(nil))
	assert.Equal(t, "1.50", FormatRatio(p(1.5)))

	assert.Equal(t, "+25.0%", signedPercent(25))
	assert.Equal(t, "-3.5%", signedPercent(-3.5))
}

func TestComputeKPIs(t *testing.T) {
	k := ComputeKPIs(sampleYear(2023))

	assert.Equal(t, 2023, k.Year)
	require.NotNil(t, k.GrossMarginPct)
	assert.InDelta(t, 66.6667, *k.GrossMarginPct, 1e-4)
	assert.InDelta(t, 15, *k.OperatingMarginPct, 1e-9)
	assert.InDelta(t, 10, *k.NetMarginPct, 1e-9)
	assert.InDelta(t, 5, *k.ROA, 1e-9)
	assert.InDelta(t, 12.5, *k.ROE, 1e-9)
	assert.InDelta(t, 2, *k.CurrentRatio, 1e-9)
	assert.InDelta(t, 1.5, *k.QuickRatio, 1e-9)
	assert.InDelta(t, 300_000, *k.WorkingCapital, 1e-9)
	assert.InDelta(t, 1.5, *k.DebtToEquity, 1e-9)
	assert.InDelta(t, 40, *k.EquityRatio, 1e-9)
	assert.InDelta(t, 60, *k.DebtRatio, 1e-9)
	assert.InDelta(t, 5, *k.InterestCoverage, 1e-9)
	assert.InDelta(t, 0.5, *k.AssetTurnover, 1e-9)

	assert.Nil(t, k.DSO, "no trade receivables")
	assert.Nil(t, k.InventoryDays, "no cost of goods sold")
	assert.Nil(t, k.CashMonths)
	assert.Nil(t, k.RevenuePerEmployee)
}

func TestComputeKPIsEstimatedOCF(t *testing.T) {
	k := ComputeKPIs(sampleYear(2023))
	require.NotNil(t, k.EstimatedOCF, "missing depreciation counts as zero")
	assert.InDelta(t, 100_000, *k.EstimatedOCF, 1e-9)

	r := sampleYear(2023)
	r.Depreciation = p(40_000)
	k = ComputeKPIs(r)
	require.NotNil(t, k.EstimatedOCF)
	assert.InDelta(t, 140_000, *k.EstimatedOCF, 1e-9)

	r.NetProfit = nil
	assert.Nil(t, ComputeKPIs(r).EstimatedOCF)
}

func TestComputeKPIsZeroDenominators(t *testing.T) {
	r := &extract.YearRecord{
		Year:               2023,
		GrossMargin:        p(0),
		NetProfit:          p(10_000),
		CurrentAssets:      p(100_000),
		CurrentLiabilities: p(0),
		Employees:          p(0),
	}
	k := ComputeKPIs(r)
	assert.Nil(t, k.NetMarginPct)
	assert.Nil(t, k.CurrentRatio)
	assert.Nil(t, k.WorkingCapital)
	assert.Nil(t, k.RevenuePerEmployee)
}

func TestComputeHealth(t *testing.T) {
	t.Run("no records", func(t *testing.T) {
		_, ok := ComputeHealth(nil)
		assert.False(t, ok)
	})

	t.Run("single year has no growth score", func(t *testing.T) {
		h, ok := ComputeHealth([]*extract.YearRecord{sampleYear(2023)})
		require.True(t, ok)
		require.Len(t, h.Factors, 4)

		assert.Equal(t, 20, h.Factors[0].Score, h.Factors[0].Text)
		assert.Equal(t, 20, h.Factors[1].Score, h.Factors[1].Text)
		assert.Equal(t, 20, h.Factors[2].Score, h.Factors[2].Text)
		assert.Equal(t, 0, h.Factors[3].Score)
		assert.Equal(t, "Niet genoeg jaren voor groei analyse", h.Factors[3].Text)

		assert.Equal(t, 60, h.Score)
		assert.Equal(t, 100, h.Max)
		assert.Equal(t, "Goed", h.Status)
	})

	t.Run("growth lifts the score", func(t *testing.T) {
		prev := sampleYear(2022)
		prev.GrossMargin = p(800_000)
		h, ok := ComputeHealth([]*extract.YearRecord{prev, sampleYear(2023)})
		require.True(t, ok)

		assert.Equal(t, 25, h.Factors[3].Score)
		assert.Equal(t, RatingExcellent, h.Factors[3].Rating)
		assert.Equal(t, 85, h.Score)
		assert.Equal(t, "Uitstekend", h.Status)
	})

	t.Run("loss scores zero profitability", func(t *testing.T) {
		r := sampleYear(2023)
		r.NetProfit = p(-50_000)
		h, _ := ComputeHealth([]*extract.YearRecord{r})
		assert.Equal(t, 0, h.Factors[0].Score)
		assert.Equal(t, RatingPoor, h.Factors[0].Rating)
	})

	t.Run("missing liquidity data", func(t *testing.T) {
		r := sampleYear(2023)
		r.CurrentLiabilities = nil
		h, _ := ComputeHealth([]*extract.YearRecord{r})
		assert.Equal(t, 0, h.Factors[1].Score)
		assert.Equal(t, "Geen data beschikbaar", h.Factors[1].Text)
	})
}

func TestHealthStatus(t *testing.T) {
	assert.Equal(t, "Uitstekend", HealthStatus(80))
	assert.Equal(t, "Goed", HealthStatus(79.9))
	assert.Equal(t, "Redelijk", HealthStatus(40))
	assert.Equal(t, "Zorgwekkend", HealthStatus(39))
}

func TestCompare(t *testing.T) {
	prev := sampleYear(2022)
	prev.GrossMargin = p(800_000)
	prev.NetProfit = p(-100_000)
	prev.Equity = nil
	cur := sampleYear(2023)
	cur.NetProfit = p(50_000)

	c := Compare(prev, cur)
	assert.Equal(t, 2022, c.From)
	assert.Equal(t, 2023, c.To)

	byField := map[string]Change{}
	for _, ch := range c.Changes {
		byField[ch.Field] = ch
	}
	assert.InDelta(t, 25, byField[extract.GrossMargin.String()].ChangePct, 1e-9)
	assert.InDelta(t, 150, byField[extract.NetProfit.String()].ChangePct, 1e-9, "loss turning into profit is positive")
	assert.Equal(t, "Netto Winst", byField[extract.NetProfit.String()].Label)
	assert.NotContains(t, byField, extract.Equity.String())
}

func TestCompareAllNewestFirst(t *testing.T) {
	years := []*extract.YearRecord{sampleYear(2021), sampleYear(2022), sampleYear(2023)}
	all := CompareAll(years)
	require.Len(t, all, 2)
	assert.Equal(t, 2023, all[0].To)
	assert.Equal(t, 2022, all[1].To)

	empty := CompareAll([]*extract.YearRecord{extract.NewYearRecord(2022), extract.NewYearRecord(2023)})
	assert.Empty(t, empty)
}

func titles(in []Insight) []string {
	out := make([]string, len(in))
	for i, x := range in {
		out[i] = x.Title
	}
	return out
}

func findInsight(in []Insight, title string) (Insight, bool) {
	for _, x := range in {
		if x.Title == title {
			return x, true
		}
	}
	return Insight{}, false
}

func TestInsightsNeedTwoYears(t *testing.T) {
	in := Insights([]*extract.YearRecord{sampleYear(2023)})
	require.NotEmpty(t, in)
	last := in[len(in)-1]
	assert.Equal(t, KindInfo, last.Kind)
	assert.Equal(t, notEnoughYears, last.Text)
}

func TestQualityWarningsComeFirst(t *testing.T) {
	low := extract.NewYearRecord(2022)
	low.DataQuality = extract.QualityLow
	low.ValidationWarnings = []string{"Balans klopt niet"}
	failed := extract.NewYearRecord(2023)
	failed.DataQuality = extract.QualityError
	failed.Error = "Lege CSV"

	in := Insights([]*extract.YearRecord{low, failed})
	require.GreaterOrEqual(t, len(in), 3)
	assert.Equal(t, "Balans klopt niet", in[0].Text)
	assert.Equal(t, lowQualityMessage, in[1].Text)
	assert.Equal(t, "Fout bij laden: Lege CSV", in[2].Text)
	assert.Equal(t, "Data kwaliteit (2023)", in[2].Title)
}

func TestInsightsTwoYears(t *testing.T) {
	prev := sampleYear(2022)
	prev.GrossMargin = p(800_000)
	in := Insights([]*extract.YearRecord{prev, sampleYear(2023)})

	gm, ok := findInsight(in, "Brutomarge Verandering (2022 → 2023)")
	require.True(t, ok, titles(in))
	assert.Equal(t, KindPositive, gm.Kind)
	assert.Equal(t, "+25.0% verandering (800.000 EUR → 1.000.000 EUR)", gm.Text)

	eq, ok := findInsight(in, "Eigen Vermogen Ratio (2023)")
	require.True(t, ok)
	assert.Equal(t, "40.0% (Matig financiële positie)", eq.Text)

	cr, ok := findInsight(in, "Huidige Ratio (2023)")
	require.True(t, ok)
	assert.Equal(t, "2.00 (Goed)", cr.Text)

	growth, ok := findInsight(in, "Sterke Groei")
	require.True(t, ok)
	assert.NotEmpty(t, growth.Recommendation)

	_, ok = findInsight(in, "Liquiditeitswaarschuwing")
	assert.False(t, ok)
}

func TestInsightsWarnings(t *testing.T) {
	prev := sampleYear(2022)
	cur := sampleYear(2023)
	cur.CurrentAssets = p(200_000)
	cur.TotalLiabilities = p(2_000_000)

	in := Insights([]*extract.YearRecord{prev, cur})

	liq, ok := findInsight(in, "Liquiditeitswaarschuwing")
	require.True(t, ok, titles(in))
	assert.Equal(t, KindNegative, liq.Kind)
	assert.Contains(t, liq.Text, "0.67")

	wc, ok := findInsight(in, "Werkkapitaal (2023)")
	require.True(t, ok)
	assert.Equal(t, KindNegative, wc.Kind)
	assert.Equal(t, "-100.000 EUR (Negatief)", wc.Text)
	assert.True(t, strings.HasPrefix(wc.Recommendation, "Negatief werkkapitaal"))

	debt, ok := findInsight(in, "Hoge Schuldpositie")
	require.True(t, ok)
	assert.Equal(t, "Schuld/Eigen Vermogen ratio is 2.50.", debt.Text)
}

func TestInsightsThreeYearSummary(t *testing.T) {
	a, b, c := sampleYear(2021), sampleYear(2022), sampleYear(2023)
	a.GrossMargin = p(800_000)
	b.GrossMargin = p(900_000)

	in := Insights([]*extract.YearRecord{a, b, c})
	_, ok := findInsight(in, "Uitstekende Financiële Prestaties")
	assert.True(t, ok, titles(in))

	c.NetProfit = p(-1)
	in = Insights([]*extract.YearRecord{a, b, c})
	_, ok = findInsight(in, "Uitstekende Financiële Prestaties")
	assert.False(t, ok)
}

func TestAnalyze(t *testing.T) {
	a := Analyze([]*extract.YearRecord{sampleYear(2022), sampleYear(2023)})
	assert.Equal(t, []int{2022, 2023}, a.Years)
	assert.Len(t, a.KPIs, 2)
	require.NotNil(t, a.Health)
	assert.Equal(t, 2023, a.Health.Year)
	assert.Len(t, a.Comparisons, 1)

	latest, ok := a.Latest()
	require.True(t, ok)
	assert.Equal(t, 2023, latest.Year)

	empty := Analyze(nil)
	assert.Nil(t, empty.Health)
	assert.NotNil(t, empty.Comparisons)
	_, ok = empty.Latest()
	assert.False(t, ok)
}

func TestReport(t *testing.T) {
	out := Report("acme", []*extract.YearRecord{sampleYear(2022), sampleYear(2023)})

	assert.Contains(t, out, "# Jaarrekening analyse: acme")
	assert.Contains(t, out, "|  | 2022 | 2023 |")
	assert.Contains(t, out, "| Brutomarge | 1.000.000 EUR | 1.000.000 EUR |")
	assert.Contains(t, out, "| Huidige ratio | 2.00 | 2.00 |")
	assert.Contains(t, out, "## Financiële gezondheid (2023)")
	assert.Contains(t, out, "## Inzichten")

	assert.Contains(t, Report("", nil), "Geen jaren geladen.")
}
