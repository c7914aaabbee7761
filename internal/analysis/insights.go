package analysis

import (
	"fmt"
	"math"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// Kind classifies an insight for display.
type Kind string

const (
	KindPositive Kind = "positive"
	KindWarning  Kind = "warning"
	KindNegative Kind = "negative"
	KindInfo     Kind = "info"
)

// Insight is one observation about the company's figures.
type Insight struct {
	Kind           Kind   `json:"kind"`
	Title          string `json:"title"`
	Text           string `json:"text"`
	Recommendation string `json:"recommendation,omitempty"`
}

const (
	lowQualityMessage = "Weinig data geëxtraheerd - controleer CSV bestand"
	notEnoughYears    = "Niet genoeg data voor inzichten. Minimaal 2 jaren nodig."
)

// QualityWarnings lists validation warnings, low extraction yield and load
// errors per year (ascending input).
func QualityWarnings(years []*extract.YearRecord) []Insight {
	var out []Insight
	for _, r := range years {
		title := fmt.Sprintf("Data kwaliteit (%d)", r.Year)
		for _, w := range r.ValidationWarnings {
			out = append(out, Insight{Kind: KindWarning, Title: title, Text: w})
		}
		if r.DataQuality == extract.QualityLow {
			out = append(out, Insight{Kind: KindWarning, Title: title, Text: lowQualityMessage})
		}
		if r.Error != "" {
			out = append(out, Insight{Kind: KindWarning, Title: title, Text: "Fout bij laden: " + r.Error})
		}
	}
	return out
}

// Insights produces quality warnings followed by the financial observations
// for years (ascending). At least two years are needed for the latter.
func Insights(years []*extract.YearRecord) []Insight {
	out := QualityWarnings(years)
	if len(years) < 2 {
		return append(out, Insight{Kind: KindInfo, Title: "Inzichten", Text: notEnoughYears})
	}

	b := &insightBuilder{years: years}
	b.grossMarginChanges()
	b.netProfitChange()
	b.netMargin()
	b.equityRatio()
	b.currentRatio()
	b.assetGrowth()
	b.workingCapital()
	b.marginTrend()
	b.liquidityWarning()
	b.growthProfile()
	b.debtPosition()
	b.returnOnEquity()
	b.assetEfficiency()
	b.productivity()
	b.cashPosition()
	b.inventory()
	b.summary()
	return append(out, b.out...)
}

type insightBuilder struct {
	years []*extract.YearRecord
	out   []Insight
}

func (b *insightBuilder) add(kind Kind, title, text, rec string) {
	b.out = append(b.out, Insight{Kind: kind, Title: title, Text: text, Recommendation: rec})
}

func (b *insightBuilder) latest() *extract.YearRecord { return b.years[len(b.years)-1] }
func (b *insightBuilder) previous() *extract.YearRecord { return b.years[len(b.years)-2] }

func trendKind(change float64) Kind {
	switch {
	case change > 0:
		return KindPositive
	case change < 0:
		return KindNegative
	default:
		return KindInfo
	}
}

func (b *insightBuilder) grossMarginChanges() {
	for i := 1; i < len(b.years); i++ {
		prev, cur := b.years[i-1], b.years[i]
		p, okP := nz(prev, extract.GrossMargin)
		c, okC := nz(cur, extract.GrossMargin)
		if !okP || !okC {
			continue
		}
		change := (c - p) / p * 100
		b.add(trendKind(change),
			fmt.Sprintf("Brutomarge Verandering (%d → %d)", prev.Year, cur.Year),
			fmt.Sprintf("%s verandering (%s → %s)", signedPercent(change), FormatEUR(&p), FormatEUR(&c)),
			"")
	}
}

func (b *insightBuilder) netProfitChange() {
	prev, cur := b.previous(), b.latest()
	p, okP := nz(prev, extract.NetProfit)
	c, okC := nz(cur, extract.NetProfit)
	if !okP || !okC {
		return
	}
	change := (c - p) / math.Abs(p) * 100
	b.add(trendKind(change),
		fmt.Sprintf("Netto Winst Verandering (%d → %d)", prev.Year, cur.Year),
		fmt.Sprintf("%s (%s → %s)", signedPercent(change), FormatEUR(&p), FormatEUR(&c)),
		"")
}

func (b *insightBuilder) netMargin() {
	cur := b.latest()
	gm, okG := nz(cur, extract.GrossMargin)
	np, okN := nz(cur, extract.NetProfit)
	if !okG || !okN {
		return
	}
	b.add(KindInfo, fmt.Sprintf("Netto Winstmarge (%d)", cur.Year), fixed(np/gm*100, 1)+"%", "")
}

func (b *insightBuilder) equityRatio() {
	cur := b.latest()
	ta, okT := nz(cur, extract.TotalAssets)
	eq, okE := nz(cur, extract.Equity)
	if !okT || !okE {
		return
	}
	ratio := eq / ta * 100
	health, kind := "Zwak", KindNegative
	switch {
	case ratio > 50:
		health, kind = "Sterk", KindPositive
	case ratio > 30:
		health, kind = "Matig", KindInfo
	}
	b.add(kind, fmt.Sprintf("Eigen Vermogen Ratio (%d)", cur.Year),
		fmt.Sprintf("%s%% (%s financiële positie)", fixed(ratio, 1), health), "")
}

func liquidityLabel(ratio float64) (string, Kind) {
	switch {
	case ratio > 2:
		return "Uitstekend", KindPositive
	case ratio > 1.5:
		return "Goed", KindPositive
	case ratio > 1:
		return "Voldoende", KindInfo
	default:
		return "Zorgwekkend", KindNegative
	}
}

func (b *insightBuilder) currentRatio() {
	cur := b.latest()
	ca, okA := nz(cur, extract.CurrentAssets)
	cl, okL := nz(cur, extract.CurrentLiabilities)
	if !okA || !okL {
		return
	}
	ratio := ca / cl
	label, kind := liquidityLabel(ratio)
	b.add(kind, fmt.Sprintf("Huidige Ratio (%d)", cur.Year), fmt.Sprintf("%s (%s)", fixed(ratio, 2), label), "")
}

func (b *insightBuilder) assetGrowth() {
	prev, cur := b.previous(), b.latest()
	p, okP := nz(prev, extract.TotalAssets)
	c, okC := nz(cur, extract.TotalAssets)
	if !okP || !okC {
		return
	}
	g := (c - p) / p * 100
	b.add(KindInfo, fmt.Sprintf("Totale Activa Groei (%d → %d)", prev.Year, cur.Year), signedPercent(g), "")
}

func (b *insightBuilder) workingCapital() {
	cur := b.latest()
	ca, okA := nz(cur, extract.CurrentAssets)
	cl, okL := nz(cur, extract.CurrentLiabilities)
	if !okA || !okL {
		return
	}
	wc := ca - cl
	trend, kind := "Positief", KindPositive
	if wc <= 0 {
		trend, kind = "Negatief", KindNegative
	}
	var rec string
	switch {
	case wc < 0:
		rec = "Negatief werkkapitaal kan liquiditeitsproblemen veroorzaken. Overweeg om voorraden te verminderen of leveranciersbetalingen te verlengen."
	case wc < cl*0.2:
		if kind == KindPositive {
			kind = KindWarning
		}
		rec = "Werkkapitaal is laag. Overweeg om liquiditeitsbuffer te verhogen."
	}
	b.add(kind, fmt.Sprintf("Werkkapitaal (%d)", cur.Year), fmt.Sprintf("%s (%s)", FormatEUR(&wc), trend), rec)
}

func (b *insightBuilder) marginTrend() {
	if len(b.years) < 3 {
		return
	}
	recent := b.years[len(b.years)-3:]
	var margins []float64
	for _, r := range recent {
		gm, okG := nz(r, extract.GrossMargin)
		np, okN := nz(r, extract.NetProfit)
		if okG && okN {
			margins = append(margins, np/gm*100)
		}
	}
	if len(margins) < 2 {
		return
	}
	trend := margins[len(margins)-1] - margins[0]
	switch {
	case trend < -5:
		b.add(KindNegative, "Dalende Winstgevendheid",
			fmt.Sprintf("Netto winstmarge daalde met %s%% over de laatste %d jaren.", fixed(math.Abs(trend), 1), len(recent)),
			"Analyseer kostenstructuur en overweeg kostenbesparende maatregelen of prijsaanpassingen.")
	case trend > 5:
		b.add(KindPositive, "Stijgende Winstgevendheid",
			fmt.Sprintf("Netto winstmarge steeg met %s%% over de laatste %d jaren.", fixed(trend, 1), len(recent)),
			"Goede trend! Blijf focussen op efficiëntie en kostenbeheersing.")
	}
}

func (b *insightBuilder) liquidityWarning() {
	cur := b.latest()
	ca, okA := nz(cur, extract.CurrentAssets)
	cl, okL := nz(cur, extract.CurrentLiabilities)
	if !okA || !okL || ca/cl >= 1 {
		return
	}
	b.add(KindNegative, "Liquiditeitswaarschuwing",
		fmt.Sprintf("Huidige ratio is %s (onder 1.0).", fixed(ca/cl, 2)),
		"Bedrijf heeft mogelijk moeite met het betalen van kortlopende schulden. Overweeg dringend: verhoging liquiditeit, verlenging betalingstermijnen, of herfinanciering.")
}

func (b *insightBuilder) growthProfile() {
	var rates []float64
	for i := 1; i < len(b.years); i++ {
		p, okP := nz(b.years[i-1], extract.GrossMargin)
		c, okC := nz(b.years[i], extract.GrossMargin)
		if okP && okC {
			rates = append(rates, (c-p)/p*100)
		}
	}
	if len(rates) == 0 {
		return
	}

	var sum float64
	for _, r := range rates {
		sum += r
	}
	avg := sum / float64(len(rates))
	var variance float64
	for _, r := range rates {
		variance += (r - avg) * (r - avg)
	}
	volatility := math.Sqrt(variance / float64(len(rates)))

	switch {
	case avg > 10:
		b.add(KindPositive, "Sterke Groei",
			fmt.Sprintf("Gemiddelde brutomarge groei van %s%% per jaar.", fixed(avg, 1)),
			"Blijf investeren in groei en overweeg uitbreiding.")
	case avg < -5:
		b.add(KindNegative, "Krimp",
			fmt.Sprintf("Gemiddelde brutomarge daling van %s%% per jaar.", fixed(math.Abs(avg), 1)),
			"Analyseer marktomstandigheden en overweeg strategische aanpassingen.")
	}
	if volatility > 20 {
		b.add(KindWarning, "Hoge Volatiliteit",
			fmt.Sprintf("Brutomarge vertoont grote schommelingen (%s%% standaarddeviatie).", fixed(volatility, 1)),
			"Overweeg risicobeheer en stabilisatie van inkomstenstromen.")
	}
}

func (b *insightBuilder) debtPosition() {
	cur := b.latest()
	eq, okE := nz(cur, extract.Equity)
	tl, okL := nz(cur, extract.TotalLiabilities)
	if !okE || !okL {
		return
	}
	ratio := tl / eq
	switch {
	case ratio > 2:
		b.add(KindNegative, "Hoge Schuldpositie",
			fmt.Sprintf("Schuld/Eigen Vermogen ratio is %s.", fixed(ratio, 2)),
			"Hoge schuld kan risicovol zijn. Overweeg schuldafbouw of herfinanciering.")
	case ratio < 0.5:
		b.add(KindPositive, "Lage Schuldpositie",
			fmt.Sprintf("Schuld/Eigen Vermogen ratio is %s.", fixed(ratio, 2)),
			"Lage schuld geeft ruimte voor strategische investeringen.")
	}
}

func (b *insightBuilder) returnOnEquity() {
	cur := b.latest()
	np, okN := nz(cur, extract.NetProfit)
	eq, okE := nz(cur, extract.Equity)
	if !okN || !okE {
		return
	}
	roe := np / eq * 100
	switch {
	case roe > 15:
		b.add(KindPositive, "Uitstekend Rendement op Eigen Vermogen",
			fmt.Sprintf("ROE is %s%%.", fixed(roe, 1)),
			"Zeer efficiënt gebruik van eigen vermogen.")
	case roe > 0 && roe < 5:
		b.add(KindWarning, "Laag Rendement op Eigen Vermogen",
			fmt.Sprintf("ROE is %s%%.", fixed(roe, 1)),
			"Overweeg manieren om rendement te verbeteren door efficiëntie of groei.")
	}
}

func (b *insightBuilder) assetEfficiency() {
	cur := b.latest()
	gm, okG := nz(cur, extract.GrossMargin)
	ta, okT := nz(cur, extract.TotalAssets)
	if !okG || !okT {
		return
	}
	turnover := gm / ta
	switch {
	case turnover < 0.5:
		b.add(KindWarning, "Lage Asset Efficiëntie",
			fmt.Sprintf("Asset Turnover is %s.", fixed(turnover, 2)),
			"Activa worden niet optimaal gebruikt. Overweeg activa te verkopen of omzet per activa te verhogen.")
	case turnover > 1.5:
		b.add(KindPositive, "Hoge Asset Efficiëntie",
			fmt.Sprintf("Asset Turnover is %s.", fixed(turnover, 2)),
			"Activa worden efficiënt gebruikt om omzet te genereren.")
	}
}

func perEmployee(r *extract.YearRecord) (float64, bool) {
	gm, okG := nz(r, extract.GrossMargin)
	emp, okE := r.Get(extract.Employees)
	if !okG || !okE || emp <= 0 {
		return 0, false
	}
	return gm / emp, true
}

func (b *insightBuilder) productivity() {
	c, okC := perEmployee(b.latest())
	p, okP := perEmployee(b.previous())
	if !okC || !okP {
		return
	}
	change := (c - p) / p * 100
	switch {
	case change > 10:
		b.add(KindPositive, "Verbeterde Productiviteit",
			fmt.Sprintf("Omzet per werknemer steeg met %s%%.", fixed(change, 1)),
			"Goede trend in personeelsefficiëntie.")
	case change < -10:
		b.add(KindWarning, "Dalende Productiviteit",
			fmt.Sprintf("Omzet per werknemer daalde met %s%%.", fixed(math.Abs(change), 1)),
			"Analyseer personeelsstructuur en overweeg training of optimalisatie.")
	}
}

func (b *insightBuilder) cashPosition() {
	cur := b.latest()
	cash, okC := cur.Get(extract.Cash)
	gm, okG := nz(cur, extract.GrossMargin)
	if !okC || !okG {
		return
	}
	months := cash / (gm / 12)
	switch {
	case months < 1:
		b.add(KindNegative, "Kritieke Cash Positie",
			"Liquide middelen dekt minder dan 1 maand operationele kosten.",
			"Zeer lage cash buffer. Overweeg dringend cash management verbetering.")
	case months > 6:
		b.add(KindPositive, "Sterke Cash Positie",
			fmt.Sprintf("Liquide middelen dekt %s maanden operationele kosten.", fixed(months, 1)),
			"Hoge cash buffer geeft ruimte voor investeringen of groei.")
	}
}

func (b *insightBuilder) inventory() {
	cur := b.latest()
	inv, okI := nz(cur, extract.Inventory)
	cogs, okC := nz(cur, extract.CostOfGoodsSold)
	if !okI || !okC {
		return
	}
	days := 365 / (cogs / inv)
	switch {
	case days > 120:
		b.add(KindWarning, "Trage Voorraad Omloop",
			fmt.Sprintf("Voorraad staat gemiddeld %s dagen op de plank.", fixed(days, 0)),
			"Overweeg voorraadoptimalisatie om kapitaal vrij te maken.")
	case days < 30:
		b.add(KindPositive, "Snelle Voorraad Omloop",
			fmt.Sprintf("Voorraad wordt gemiddeld elke %s dagen verkocht.", fixed(days, 0)),
			"Efficiënt voorraadbeheer.")
	}
}

// summary praises three profitable years with rising gross margin.
func (b *insightBuilder) summary() {
	if len(b.years) < 3 {
		return
	}
	recent := b.years[len(b.years)-3:]
	for _, r := range recent {
		if np, ok := r.Get(extract.NetProfit); !ok || np <= 0 {
			return
		}
	}
	for i := 1; i < len(recent); i++ {
		p, okP := nz(recent[i-1], extract.GrossMargin)
		c, okC := nz(recent[i], extract.GrossMargin)
		if !okP || !okC || c <= p {
			return
		}
	}
	b.add(KindPositive, "Uitstekende Financiële Prestaties",
		fmt.Sprintf("Winstgevend in alle laatste %d jaren, met consistente groei in brutomarge.", len(recent)),
		"Blijf focussen op duurzame groei en efficiëntieverbetering.")
}
