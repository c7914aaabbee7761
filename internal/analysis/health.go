package analysis

import (
	"fmt"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// Factor ratings.
const (
	RatingExcellent = "excellent"
	RatingGood      = "good"
	RatingFair      = "fair"
	RatingPoor      = "poor"
)

const factorMax = 25

// Factor is one quarter of the health score.
type Factor struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Max    int    `json:"max"`
	Rating string `json:"rating"`
	Text   string `json:"text"`
}

// Health scores the most recent year on profitability, liquidity, solvency
// and growth, 25 points each.
type Health struct {
	Year    int      `json:"year"`
	Score   int      `json:"score"`
	Max     int      `json:"max"`
	Status  string   `json:"status"`
	Factors []Factor `json:"factors"`
}

// Percentage returns the score as a share of the maximum.
func (h Health) Percentage() float64 {
	if h.Max == 0 {
		return 0
	}
	return float64(h.Score) / float64(h.Max) * 100
}

// HealthStatus labels a percentage score.
func HealthStatus(pct float64) string {
	switch {
	case pct >= 80:
		return "Uitstekend"
	case pct >= 60:
		return "Goed"
	case pct >= 40:
		return "Redelijk"
	default:
		return "Zorgwekkend"
	}
}

// tier picks the score for v against descending thresholds; below the last
// threshold the floor score applies.
func tier(v float64, thresholds [3]float64, floor int) (int, string, string) {
	switch {
	case v > thresholds[0]:
		return 25, RatingExcellent, "Uitstekend"
	case v > thresholds[1]:
		return 20, RatingGood, "Goed"
	case v > thresholds[2]:
		return 15, RatingFair, "Redelijk"
	default:
		return floor, RatingPoor, "Zorgwekkend"
	}
}

// ComputeHealth scores the last record of years (ascending). It reports
// false when there are no records.
func ComputeHealth(years []*extract.YearRecord) (Health, bool) {
	if len(years) == 0 {
		return Health{}, false
	}
	cur := years[len(years)-1]
	var prev *extract.YearRecord
	if len(years) >= 2 {
		prev = years[len(years)-2]
	}

	h := Health{Year: cur.Year}
	for _, f := range []Factor{
		profitability(cur),
		liquidity(cur),
		solvency(cur),
		growth(cur, prev),
	} {
		f.Max = factorMax
		h.Score += f.Score
		h.Max += f.Max
		h.Factors = append(h.Factors, f)
	}
	h.Status = HealthStatus(h.Percentage())
	return h, true
}

func profitability(r *extract.YearRecord) Factor {
	f := Factor{Name: "Winstgevendheid"}
	np, ok := r.Get(extract.NetProfit)
	if !ok || np <= 0 {
		f.Rating, f.Text = RatingPoor, "Geen winst (Zorgwekkend)"
		return f
	}
	var margin float64
	if gm, ok := nz(r, extract.GrossMargin); ok {
		margin = np / gm * 100
	}
	var label string
	f.Score, f.Rating, label = tier(margin, [3]float64{10, 5, 0}, 0)
	f.Text = fmt.Sprintf("Netto marge: %s%% (%s)", fixed(margin, 1), label)
	return f
}

func liquidity(r *extract.YearRecord) Factor {
	f := Factor{Name: "Liquiditeit"}
	ca, okA := nz(r, extract.CurrentAssets)
	cl, okL := nz(r, extract.CurrentLiabilities)
	if !okA || !okL {
		f.Rating, f.Text = RatingPoor, "Geen data beschikbaar"
		return f
	}
	ratio := ca / cl
	var label string
	f.Score, f.Rating, label = tier(ratio, [3]float64{2, 1.5, 1}, 5)
	f.Text = fmt.Sprintf("Huidige ratio: %s (%s)", fixed(ratio, 2), label)
	return f
}

func solvency(r *extract.YearRecord) Factor {
	f := Factor{Name: "Solvabiliteit"}
	eq, okE := nz(r, extract.Equity)
	ta, okT := nz(r, extract.TotalAssets)
	if !okE || !okT {
		f.Rating, f.Text = RatingPoor, "Geen data beschikbaar"
		return f
	}
	ratio := eq / ta * 100
	var label string
	f.Score, f.Rating, label = tier(ratio, [3]float64{50, 30, 20}, 5)
	f.Text = fmt.Sprintf("Eigen vermogen ratio: %s%% (%s)", fixed(ratio, 1), label)
	return f
}

func growth(cur, prev *extract.YearRecord) Factor {
	f := Factor{Name: "Groei"}
	if prev == nil {
		f.Rating, f.Text = RatingPoor, "Niet genoeg jaren voor groei analyse"
		return f
	}
	gm, okC := nz(cur, extract.GrossMargin)
	pgm, okP := nz(prev, extract.GrossMargin)
	if !okC || !okP {
		f.Rating, f.Text = RatingPoor, "Geen groei data beschikbaar"
		return f
	}
	g := (gm - pgm) / pgm * 100
	var label string
	f.Score, f.Rating, label = tier(g, [3]float64{10, 5, 0}, 5)
	f.Text = fmt.Sprintf("Brutomarge groei: %s (%s)", signedPercent(g), label)
	return f
}
