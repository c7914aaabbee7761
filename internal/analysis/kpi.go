// Package analysis derives ratios, a health score and written insights from
// extracted year records.
//
// Ratios follow the conventions of Belgian abridged accounts: the income
// statement starts at gross margin (code 9900), so margins are expressed
// against gross margin rather than revenue. A figure that is unknown or zero
// counts as missing for every ratio that uses it, and a ratio whose inputs
// are missing is nil.
package analysis

import (
	"math"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// KPIs are the ratios computed for one fiscal year. Percentages are in
// percent (12.5 means 12.5%).
type KPIs struct {
	Year int `json:"year"`

	GrossMarginPct     *float64 `json:"grossMarginPct"`
	OperatingMarginPct *float64 `json:"operatingMarginPct"`
	NetMarginPct       *float64 `json:"netMarginPct"`
	ROA                *float64 `json:"roa"`
	ROE                *float64 `json:"roe"`

	CurrentRatio   *float64 `json:"currentRatio"`
	QuickRatio     *float64 `json:"quickRatio"`
	WorkingCapital *float64 `json:"workingCapital"`
	CashMonths     *float64 `json:"cashMonths"`
	EstimatedOCF   *float64 `json:"estimatedOperatingCashFlow"`

	DebtToEquity     *float64 `json:"debtToEquity"`
	EquityRatio      *float64 `json:"equityRatio"`
	DebtRatio        *float64 `json:"debtRatio"`
	InterestCoverage *float64 `json:"interestCoverage"`

	AssetTurnover      *float64 `json:"assetTurnover"`
	InventoryTurnover  *float64 `json:"inventoryTurnover"`
	InventoryDays      *float64 `json:"inventoryDays"`
	DSO                *float64 `json:"daysSalesOutstanding"`
	RevenuePerEmployee *float64 `json:"grossMarginPerEmployee"`
}

// nz returns a field's value when it is known and non-zero.
func nz(r *extract.YearRecord, f extract.Field) (float64, bool) {
	v, ok := r.Get(f)
	return v, ok && v != 0
}

// ComputeKPIs derives all ratios for one record.
func ComputeKPIs(r *extract.YearRecord) KPIs {
	k := KPIs{Year: r.Year}

	gm, hasGM := nz(r, extract.GrossMargin)
	op, hasOp := r.Get(extract.OperatingProfit)
	np, hasNP := r.Get(extract.NetProfit)
	ta, hasTA := nz(r, extract.TotalAssets)
	eq, hasEq := nz(r, extract.Equity)
	ca, hasCA := nz(r, extract.CurrentAssets)
	cl, hasCL := nz(r, extract.CurrentLiabilities)
	tl, hasTL := nz(r, extract.TotalLiabilities)
	inv, hasInv := nz(r, extract.Inventory)

	if hasGM {
		personnel, _ := r.Get(extract.PersonnelCosts)
		if d := gm + personnel; d != 0 {
			k.GrossMarginPct = ptr(gm / d * 100)
		}
		if hasOp {
			k.OperatingMarginPct = ptr(op / gm * 100)
		}
		if hasNP {
			k.NetMarginPct = ptr(np / gm * 100)
		}
	}
	if hasTA && hasNP {
		k.ROA = ptr(np / ta * 100)
	}
	if hasEq && hasNP {
		k.ROE = ptr(np / eq * 100)
	}

	if hasCA && hasCL {
		k.CurrentRatio = ptr(ca / cl)
		k.WorkingCapital = ptr(ca - cl)
		if hasInv {
			k.QuickRatio = ptr((ca - inv) / cl)
		}
	}
	if cash, ok := r.Get(extract.Cash); ok && hasGM {
		k.CashMonths = ptr(cash / (gm / 12))
	}
	if hasNP {
		// Missing depreciation counts as zero.
		dep, _ := r.Get(extract.Depreciation)
		k.EstimatedOCF = ptr(np + dep)
	}

	if hasEq && hasTL {
		k.DebtToEquity = ptr(tl / eq)
	}
	if hasTA && hasEq {
		k.EquityRatio = ptr(eq / ta * 100)
	}
	if hasTA && hasTL {
		k.DebtRatio = ptr(tl / ta * 100)
	}
	if opNZ, ok := nz(r, extract.OperatingProfit); ok {
		if fc, ok := nz(r, extract.FinancialCosts); ok {
			k.InterestCoverage = ptr(opNZ / math.Abs(fc))
		}
	}

	if hasGM && hasTA {
		k.AssetTurnover = ptr(gm / ta)
	}
	if cogs, ok := nz(r, extract.CostOfGoodsSold); ok && hasInv {
		turnover := cogs / inv
		k.InventoryTurnover = ptr(turnover)
		k.InventoryDays = ptr(365 / turnover)
	}
	if tr, ok := nz(r, extract.TradeReceivables); ok && hasGM {
		k.DSO = ptr(tr / gm * 365)
	}
	if emp, ok := r.Get(extract.Employees); ok && emp > 0 && hasGM {
		k.RevenuePerEmployee = ptr(gm / emp)
	}
	return k
}
