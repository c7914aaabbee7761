package extract

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Validation tolerances and plausibility bounds.
const (
	balanceTolerance     = 0.01
	compositionTolerance = 0.05
	profitToMarginLimit  = 1.5
	currentRatioCeiling  = 10
	minPlausibleAssets   = 10_000
	maxPlausibleAssets   = 10_000_000_000
)

var dutch = message.NewPrinter(language.Dutch)

// FormatAmount renders v as whole euro with Belgian grouping, e.g. "1.234.567".
func FormatAmount(v float64) string {
	return dutch.Sprintf("%d", int64(math.Round(v)))
}

// Validate runs the consistency checks on r and returns warnings in check
// order. It does not modify r.
func Validate(r *YearRecord) []string {
	var warnings []string

	totalAssets, hasAssets := r.Get(TotalAssets)

	// Balance: assets equal liabilities plus equity.
	if liabilities, ok := r.Get(TotalLiabilities); ok && hasAssets {
		if equity, ok := r.Get(Equity); ok {
			sum := liabilities + equity
			if math.Abs(totalAssets-sum) > totalAssets*balanceTolerance {
				warnings = append(warnings, dutch.Sprintf(
					"Balans klopt niet: Activa (%s) ≠ Passiva + Eigen Vermogen (%s)",
					FormatAmount(totalAssets), FormatAmount(sum)))
			}
		}
	}

	// Composition: current plus fixed assets make up total assets.
	if current, ok := r.Get(CurrentAssets); ok && hasAssets && totalAssets > 0 {
		if fixed, ok := r.Get(FixedAssets); ok {
			sum := current + fixed
			if math.Abs(totalAssets-sum) > totalAssets*compositionTolerance {
				warnings = append(warnings, dutch.Sprintf(
					"Activa samenstelling klopt niet: Totaal (%s) ≠ Vlottende (%s) + Vaste (%s)",
					FormatAmount(totalAssets), FormatAmount(current), FormatAmount(fixed)))
			}
		}
	}

	// Net profit cannot plausibly dwarf gross margin.
	if margin, ok := r.Get(GrossMargin); ok {
		if profit, ok := r.Get(NetProfit); ok && math.Abs(profit) > math.Abs(margin)*profitToMarginLimit {
			warnings = append(warnings, dutch.Sprintf(
				"Netto winst (%s) lijkt te groot t.o.v. brutomarge (%s)",
				FormatAmount(profit), FormatAmount(margin)))
		}
	}

	// Current ratio sanity.
	if current, ok := r.Get(CurrentAssets); ok {
		if debts, ok := r.Get(CurrentLiabilities); ok && debts != 0 {
			ratio := current / debts
			if ratio < 0 {
				warnings = append(warnings, dutch.Sprintf("Negatieve current ratio gedetecteerd (%.2f)", ratio))
			}
			if ratio > currentRatioCeiling {
				warnings = append(warnings, dutch.Sprintf("Zeer hoge current ratio (%.2f) - controleer data", ratio))
			}
		}
	}

	// Magnitude: a scale error shows up as absurd totals.
	if hasAssets {
		if totalAssets < minPlausibleAssets {
			warnings = append(warnings, dutch.Sprintf(
				"Totale activa lijkt te klein (%s) - mogelijk verkeerde schaal", FormatAmount(totalAssets)))
		}
		if totalAssets > maxPlausibleAssets {
			warnings = append(warnings, dutch.Sprintf(
				"Totale activa lijkt te groot (%s) - mogelijk verkeerde schaal", FormatAmount(totalAssets)))
		}
	}

	return warnings
}
