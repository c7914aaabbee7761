package analysis

import (
	"math"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// comparedFields are the headline figures shown year over year.
var comparedFields = []extract.Field{
	extract.GrossMargin,
	extract.OperatingProfit,
	extract.NetProfit,
	extract.TotalAssets,
	extract.Equity,
}

// shortLabels are the dashboard names of the headline figures.
var shortLabels = map[extract.Field]string{
	extract.GrossMargin:        "Brutomarge",
	extract.OperatingProfit:    "Bedrijfswinst",
	extract.NetProfit:          "Netto Winst",
	extract.TotalAssets:        "Totale Activa",
	extract.Equity:             "Eigen Vermogen",
	extract.CurrentAssets:      "Vlottende Activa",
	extract.CurrentLiabilities: "Vlottende Passiva",
}

// ShortLabel returns the dashboard name of f, falling back to its official
// label.
func ShortLabel(f extract.Field) string {
	if l, ok := shortLabels[f]; ok {
		return l
	}
	return f.Label()
}

// Change is the movement of one figure between two years.
type Change struct {
	Field     string  `json:"field"`
	Label     string  `json:"label"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	ChangePct float64 `json:"changePct"`
}

// Comparison lists the changes from one year to the next.
type Comparison struct {
	From    int      `json:"from"`
	To      int      `json:"to"`
	Changes []Change `json:"changes"`
}

// Compare computes headline changes from prev to cur. Figures missing or
// zero in either year are skipped. The change is relative to the absolute
// previous value so a loss shrinking reads as an improvement.
func Compare(prev, cur *extract.YearRecord) Comparison {
	c := Comparison{From: prev.Year, To: cur.Year}
	for _, f := range comparedFields {
		p, okP := nz(prev, f)
		v, okC := nz(cur, f)
		if !okP || !okC {
			continue
		}
		c.Changes = append(c.Changes, Change{
			Field:     f.String(),
			Label:     ShortLabel(f),
			Previous:  p,
			Current:   v,
			ChangePct: round((v - p) / math.Abs(p) * 100),
		})
	}
	return c
}

// CompareAll compares every consecutive pair of years (ascending input),
// newest pair first. Pairs without any comparable figure are omitted.
func CompareAll(years []*extract.YearRecord) []Comparison {
	var out []Comparison
	for i := len(years) - 1; i > 0; i-- {
		if c := Compare(years[i-1], years[i]); len(c.Changes) > 0 {
			out = append(out, c)
		}
	}
	return out
}
