package extract

import "strings"

// textRule fills a field from a row whose text contains a Dutch label.
type textRule struct {
	needle   string
	also     string
	field    Field
	monetary bool
	accept   func(v float64) bool
}

func positive(v float64) bool { return v > 0 }

var textRules = []textRule{
	{needle: "totaal van de activa", field: TotalAssets, monetary: true, accept: func(v float64) bool { return v > 1_000_000 }},
	{needle: "eigen vermogen", field: Equity, monetary: true, accept: positive},
	{needle: "vlottende activa", field: CurrentAssets, monetary: true, accept: positive},
	{needle: "voorraden", also: "30", field: Inventory, monetary: true, accept: positive},
	{needle: "liquide middelen", field: Cash, monetary: true, accept: positive},
	{needle: "leveranciers", field: TradePayables, monetary: true, accept: positive},
	{needle: "gemiddeld aantal werknemers", field: Employees, accept: func(v float64) bool { return v > 0 && v < 1000 }},
}

// matches reports whether the rule applies to a lowercased line.
func (tr textRule) matches(lower string) bool {
	if !strings.Contains(lower, tr.needle) {
		return false
	}
	return tr.also == "" || strings.Contains(lower, tr.also)
}

// applyTextRules fills still-empty fields from label matches. It returns the
// fields it set.
func applyTextRules(r *YearRecord, row []string, lower string, n Normalizer) []Field {
	var set []Field
	for _, rule := range textRules {
		if r.Has(rule.field) || !rule.matches(lower) {
			continue
		}
		for _, cell := range row {
			v, ok := n.Normalize(cell, rule.monetary)
			if ok && rule.accept(v) {
				r.set(rule.field, v)
				set = append(set, rule.field)
				break
			}
		}
	}
	return set
}
