package analysis

import "github.com/JonMunkholm/jaarrekening/internal/extract"

// Analysis bundles everything derived from a company's year records.
type Analysis struct {
	Years       []int        `json:"years"`
	KPIs        []KPIs       `json:"kpis"`
	Health      *Health      `json:"health,omitempty"`
	Comparisons []Comparison `json:"comparisons"`
	Insights    []Insight    `json:"insights"`
}

// Analyze runs every derivation over records, which must be sorted by
// ascending year.
func Analyze(records []*extract.YearRecord) Analysis {
	a := Analysis{
		Years:       make([]int, 0, len(records)),
		KPIs:        make([]KPIs, 0, len(records)),
		Comparisons: CompareAll(records),
		Insights:    Insights(records),
	}
	for _, r := range records {
		a.Years = append(a.Years, r.Year)
		a.KPIs = append(a.KPIs, ComputeKPIs(r))
	}
	if h, ok := ComputeHealth(records); ok {
		a.Health = &h
	}
	if a.Comparisons == nil {
		a.Comparisons = []Comparison{}
	}
	return a
}

// Latest returns the KPIs of the most recent year.
func (a Analysis) Latest() (KPIs, bool) {
	if len(a.KPIs) == 0 {
		return KPIs{}, false
	}
	return a.KPIs[len(a.KPIs)-1], true
}
