package analysis

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// eur formats whole euros the Belgian way: "1.234.567 EUR".
var eur = money.NewFormatter(0, ",", ".", money.EUR, "1 $")

// FormatEUR renders an amount rounded to whole euros, or "N/A" for nil.
func FormatEUR(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return eur.Format(decimal.NewFromFloat(*v).Round(0).IntPart())
}

// FormatPercent renders a percentage with one decimal, or "N/A" for nil.
func FormatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return decimal.NewFromFloat(*v).StringFixed(1) + "%"
}

// FormatRatio renders a ratio with two decimals, or "N/A" for nil.
func FormatRatio(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

func signedPercent(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(1) + "%"
	if v > 0 {
		return "+" + s
	}
	return s
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// round keeps ratios stable in JSON output.
func round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}

func ptr(v float64) *float64 {
	r := round(v)
	return &r
}
