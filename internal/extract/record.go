package extract

import (
	"fmt"
	"strings"
)

// Field identifies one numeric line item of a YearRecord.
type Field int

// Income statement.
const (
	Revenue Field = iota
	CostOfGoodsSold
	GrossMargin
	PersonnelCosts
	Depreciation
	InventoryWriteDowns
	IncomeProvisions
	OtherCosts
	RestructuringCosts
	NonRecurringCosts
	OperatingProfit
	FinancialIncome
	FinancialCosts
	ProfitBeforeTax
	DeferredTax
	Taxes
	NetProfit
	TaxFreeReserves
	ProfitToDistribute

	// Balance sheet, assets.
	TotalAssets
	StartupCosts
	FixedAssets
	IntangibleAssets
	TangibleAssets
	FinancialFixedAssets
	CurrentAssets
	LongTermReceivables
	Inventory
	WorkInProgress
	Receivables
	TradeReceivables
	OtherReceivables
	Investments
	Cash

	// Balance sheet, equity and liabilities.
	Equity
	Capital
	CapitalAvailable
	CapitalUnavailable
	RevaluationReserves
	Reserves
	UnavailableReserves
	AvailableReserves
	RetainedEarnings
	CapitalSubsidies
	Provisions
	TotalLiabilities
	LongTermDebt
	FinancialDebt
	BankDebt
	CurrentLiabilities
	ShortTermFinancialDebt
	TradePayables
	TaxPayables
	SalaryPayables
	Prepayments
	OtherPayables

	// Social balance.
	Employees
	EmployeeCosts

	fieldCount
)

type fieldKind uint8

const (
	kindMonetary fieldKind = 1 << iota
	kindTotal
	kindHeadline
)

type fieldInfo struct {
	name  string
	label string
	kind  fieldKind
	slot  func(*YearRecord) **float64
}

var fieldTable = [fieldCount]fieldInfo{
	Revenue:             {"revenue", "Omzet", kindMonetary, func(r *YearRecord) **float64 { return &r.Revenue }},
	CostOfGoodsSold:     {"costOfGoodsSold", "Handelsgoederen en grondstoffen", kindMonetary, func(r *YearRecord) **float64 { return &r.CostOfGoodsSold }},
	GrossMargin:         {"grossMargin", "Brutomarge", kindMonetary | kindHeadline, func(r *YearRecord) **float64 { return &r.GrossMargin }},
	PersonnelCosts:      {"personnelCosts", "Bezoldigingen en sociale lasten", kindMonetary, func(r *YearRecord) **float64 { return &r.PersonnelCosts }},
	Depreciation:        {"depreciation", "Afschrijvingen", kindMonetary, func(r *YearRecord) **float64 { return &r.Depreciation }},
	InventoryWriteDowns: {"inventoryWriteDowns", "Waardeverminderingen voorraden", kindMonetary, func(r *YearRecord) **float64 { return &r.InventoryWriteDowns }},
	IncomeProvisions:    {"incomeProvisions", "Voorzieningen voor risico's en kosten", kindMonetary, func(r *YearRecord) **float64 { return &r.IncomeProvisions }},
	OtherCosts:          {"otherCosts", "Andere bedrijfskosten", kindMonetary, func(r *YearRecord) **float64 { return &r.OtherCosts }},
	RestructuringCosts:  {"restructuringCosts", "Herstructureringskosten", kindMonetary, func(r *YearRecord) **float64 { return &r.RestructuringCosts }},
	NonRecurringCosts:   {"nonRecurringCosts", "Niet-recurrente bedrijfskosten", kindMonetary, func(r *YearRecord) **float64 { return &r.NonRecurringCosts }},
	OperatingProfit:     {"operatingProfit", "Bedrijfswinst", kindMonetary | kindHeadline, func(r *YearRecord) **float64 { return &r.OperatingProfit }},
	FinancialIncome:     {"financialIncome", "Financiële opbrengsten", kindMonetary, func(r *YearRecord) **float64 { return &r.FinancialIncome }},
	FinancialCosts:      {"financialCosts", "Financiële kosten", kindMonetary, func(r *YearRecord) **float64 { return &r.FinancialCosts }},
	ProfitBeforeTax:     {"profitBeforeTax", "Winst vóór belasting", kindMonetary, func(r *YearRecord) **float64 { return &r.ProfitBeforeTax }},
	DeferredTax:         {"deferredTax", "Uitgestelde belastingen", kindMonetary, func(r *YearRecord) **float64 { return &r.DeferredTax }},
	Taxes:               {"taxes", "Belastingen op het resultaat", kindMonetary, func(r *YearRecord) **float64 { return &r.Taxes }},
	NetProfit:           {"netProfit", "Winst van het boekjaar", kindMonetary | kindHeadline, func(r *YearRecord) **float64 { return &r.NetProfit }},
	TaxFreeReserves:     {"taxFreeReserves", "Belastingvrije reserves", kindMonetary, func(r *YearRecord) **float64 { return &r.TaxFreeReserves }},
	ProfitToDistribute:  {"profitToDistribute", "Te bestemmen winst", kindMonetary, func(r *YearRecord) **float64 { return &r.ProfitToDistribute }},

	TotalAssets:          {"totalAssets", "Totaal van de activa", kindMonetary | kindTotal | kindHeadline, func(r *YearRecord) **float64 { return &r.TotalAssets }},
	StartupCosts:         {"startupCosts", "Oprichtingskosten", kindMonetary, func(r *YearRecord) **float64 { return &r.StartupCosts }},
	FixedAssets:          {"fixedAssets", "Vaste activa", kindMonetary, func(r *YearRecord) **float64 { return &r.FixedAssets }},
	IntangibleAssets:     {"intangibleAssets", "Immateriële vaste activa", kindMonetary, func(r *YearRecord) **float64 { return &r.IntangibleAssets }},
	TangibleAssets:       {"tangibleAssets", "Materiële vaste activa", kindMonetary, func(r *YearRecord) **float64 { return &r.TangibleAssets }},
	FinancialFixedAssets: {"financialFixedAssets", "Financiële vaste activa", kindMonetary, func(r *YearRecord) **float64 { return &r.FinancialFixedAssets }},
	CurrentAssets:        {"currentAssets", "Vlottende activa", kindMonetary | kindTotal, func(r *YearRecord) **float64 { return &r.CurrentAssets }},
	LongTermReceivables:  {"longTermReceivables", "Vorderingen op meer dan één jaar", kindMonetary, func(r *YearRecord) **float64 { return &r.LongTermReceivables }},
	Inventory:            {"inventory", "Voorraden", kindMonetary, func(r *YearRecord) **float64 { return &r.Inventory }},
	WorkInProgress:       {"workInProgress", "Bestellingen in uitvoering", kindMonetary, func(r *YearRecord) **float64 { return &r.WorkInProgress }},
	Receivables:          {"receivables", "Vorderingen op ten hoogste één jaar", kindMonetary, func(r *YearRecord) **float64 { return &r.Receivables }},
	TradeReceivables:     {"tradeReceivables", "Handelsvorderingen", kindMonetary, func(r *YearRecord) **float64 { return &r.TradeReceivables }},
	OtherReceivables:     {"otherReceivables", "Overige vorderingen", kindMonetary, func(r *YearRecord) **float64 { return &r.OtherReceivables }},
	Investments:          {"investments", "Geldbeleggingen", kindMonetary, func(r *YearRecord) **float64 { return &r.Investments }},
	Cash:                 {"cash", "Liquide middelen", kindMonetary, func(r *YearRecord) **float64 { return &r.Cash }},

	Equity:                 {"equity", "Eigen vermogen", kindMonetary | kindTotal | kindHeadline, func(r *YearRecord) **float64 { return &r.Equity }},
	Capital:                {"capital", "Kapitaal", kindMonetary, func(r *YearRecord) **float64 { return &r.Capital }},
	CapitalAvailable:       {"capitalAvailable", "Beschikbaar kapitaal", kindMonetary, func(r *YearRecord) **float64 { return &r.CapitalAvailable }},
	CapitalUnavailable:     {"capitalUnavailable", "Onbeschikbaar kapitaal", kindMonetary, func(r *YearRecord) **float64 { return &r.CapitalUnavailable }},
	RevaluationReserves:    {"revaluationReserves", "Herwaarderingsmeerwaarden", kindMonetary, func(r *YearRecord) **float64 { return &r.RevaluationReserves }},
	Reserves:               {"reserves", "Reserves", kindMonetary, func(r *YearRecord) **float64 { return &r.Reserves }},
	UnavailableReserves:    {"unavailableReserves", "Onbeschikbare reserves", kindMonetary, func(r *YearRecord) **float64 { return &r.UnavailableReserves }},
	AvailableReserves:      {"availableReserves", "Beschikbare reserves", kindMonetary, func(r *YearRecord) **float64 { return &r.AvailableReserves }},
	RetainedEarnings:       {"retainedEarnings", "Overgedragen winst", kindMonetary, func(r *YearRecord) **float64 { return &r.RetainedEarnings }},
	CapitalSubsidies:       {"capitalSubsidies", "Kapitaalsubsidies", kindMonetary, func(r *YearRecord) **float64 { return &r.CapitalSubsidies }},
	Provisions:             {"provisions", "Voorzieningen en uitgestelde belastingen", kindMonetary, func(r *YearRecord) **float64 { return &r.Provisions }},
	TotalLiabilities:       {"totalLiabilities", "Schulden", kindMonetary | kindTotal, func(r *YearRecord) **float64 { return &r.TotalLiabilities }},
	LongTermDebt:           {"longTermDebt", "Schulden op meer dan één jaar", kindMonetary, func(r *YearRecord) **float64 { return &r.LongTermDebt }},
	FinancialDebt:          {"financialDebt", "Financiële schulden", kindMonetary, func(r *YearRecord) **float64 { return &r.FinancialDebt }},
	BankDebt:               {"bankDebt", "Kredietinstellingen", kindMonetary, func(r *YearRecord) **float64 { return &r.BankDebt }},
	CurrentLiabilities:     {"currentLiabilities", "Schulden op ten hoogste één jaar", kindMonetary | kindTotal, func(r *YearRecord) **float64 { return &r.CurrentLiabilities }},
	ShortTermFinancialDebt: {"shortTermFinancialDebt", "Financiële schulden op korte termijn", kindMonetary, func(r *YearRecord) **float64 { return &r.ShortTermFinancialDebt }},
	TradePayables:          {"tradePayables", "Leveranciers", kindMonetary, func(r *YearRecord) **float64 { return &r.TradePayables }},
	TaxPayables:            {"taxPayables", "Belastingen", kindMonetary, func(r *YearRecord) **float64 { return &r.TaxPayables }},
	SalaryPayables:         {"salaryPayables", "Bezoldigingen en sociale lasten te betalen", kindMonetary, func(r *YearRecord) **float64 { return &r.SalaryPayables }},
	Prepayments:            {"prepayments", "Ontvangen vooruitbetalingen", kindMonetary, func(r *YearRecord) **float64 { return &r.Prepayments }},
	OtherPayables:          {"otherPayables", "Overige schulden", kindMonetary, func(r *YearRecord) **float64 { return &r.OtherPayables }},

	Employees:     {"employees", "Gemiddeld aantal werknemers", 0, func(r *YearRecord) **float64 { return &r.Employees }},
	EmployeeCosts: {"employeeCosts", "Personeelskosten", 0, func(r *YearRecord) **float64 { return &r.EmployeeCosts }},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		m[fieldTable[f].name] = f
	}
	return m
}()

// String returns the JSON name of the field, e.g. "grossMargin".
func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldTable[f].name
}

// Label returns the Dutch display label.
func (f Field) Label() string {
	if !f.Valid() {
		return f.String()
	}
	return fieldTable[f].label
}

// Valid reports whether f is part of the record schema.
func (f Field) Valid() bool { return f >= 0 && f < fieldCount }

// Monetary reports whether values of f are amounts subject to scaling.
func (f Field) Monetary() bool { return f.Valid() && fieldTable[f].kind&kindMonetary != 0 }

// IsTotal reports whether f is a balance-sheet aggregate where the larger
// candidate always wins.
func (f Field) IsTotal() bool { return f.Valid() && fieldTable[f].kind&kindTotal != 0 }

func (f Field) headline() bool { return f.Valid() && fieldTable[f].kind&kindHeadline != 0 }

// ParseField resolves a JSON field name.
func ParseField(name string) (Field, bool) {
	f, ok := fieldsByName[strings.TrimSpace(name)]
	return f, ok
}

// Fields returns every field in schema order.
func Fields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// Quality classifies how usable a loaded record is.
type Quality string

const (
	QualityGood  Quality = "good"
	QualityLow   Quality = "low"
	QualityError Quality = "error"
)

// YearRecord is the extracted financial statement of one fiscal year.
// A nil field means the value was not found in the source.
type YearRecord struct {
	Year int `json:"year"`

	Revenue             *float64 `json:"revenue"`
	CostOfGoodsSold     *float64 `json:"costOfGoodsSold"`
	GrossMargin         *float64 `json:"grossMargin"`
	PersonnelCosts      *float64 `json:"personnelCosts"`
	Depreciation        *float64 `json:"depreciation"`
	InventoryWriteDowns *float64 `json:"inventoryWriteDowns"`
	IncomeProvisions    *float64 `json:"incomeProvisions"`
	OtherCosts          *float64 `json:"otherCosts"`
	RestructuringCosts  *float64 `json:"restructuringCosts"`
	NonRecurringCosts   *float64 `json:"nonRecurringCosts"`
	OperatingProfit     *float64 `json:"operatingProfit"`
	FinancialIncome     *float64 `json:"financialIncome"`
	FinancialCosts      *float64 `json:"financialCosts"`
	ProfitBeforeTax     *float64 `json:"profitBeforeTax"`
	DeferredTax         *float64 `json:"deferredTax"`
	Taxes               *float64 `json:"taxes"`
	NetProfit           *float64 `json:"netProfit"`
	TaxFreeReserves     *float64 `json:"taxFreeReserves"`
	ProfitToDistribute  *float64 `json:"profitToDistribute"`

	TotalAssets          *float64 `json:"totalAssets"`
	StartupCosts         *float64 `json:"startupCosts"`
	FixedAssets          *float64 `json:"fixedAssets"`
	IntangibleAssets     *float64 `json:"intangibleAssets"`
	TangibleAssets       *float64 `json:"tangibleAssets"`
	FinancialFixedAssets *float64 `json:"financialFixedAssets"`
	CurrentAssets        *float64 `json:"currentAssets"`
	LongTermReceivables  *float64 `json:"longTermReceivables"`
	Inventory            *float64 `json:"inventory"`
	WorkInProgress       *float64 `json:"workInProgress"`
	Receivables          *float64 `json:"receivables"`
	TradeReceivables     *float64 `json:"tradeReceivables"`
	OtherReceivables     *float64 `json:"otherReceivables"`
	Investments          *float64 `json:"investments"`
	Cash                 *float64 `json:"cash"`

	Equity                 *float64 `json:"equity"`
	Capital                *float64 `json:"capital"`
	CapitalAvailable       *float64 `json:"capitalAvailable"`
	CapitalUnavailable     *float64 `json:"capitalUnavailable"`
	RevaluationReserves    *float64 `json:"revaluationReserves"`
	Reserves               *float64 `json:"reserves"`
	UnavailableReserves    *float64 `json:"unavailableReserves"`
	AvailableReserves      *float64 `json:"availableReserves"`
	RetainedEarnings       *float64 `json:"retainedEarnings"`
	CapitalSubsidies       *float64 `json:"capitalSubsidies"`
	Provisions             *float64 `json:"provisions"`
	TotalLiabilities       *float64 `json:"totalLiabilities"`
	LongTermDebt           *float64 `json:"longTermDebt"`
	FinancialDebt          *float64 `json:"financialDebt"`
	BankDebt               *float64 `json:"bankDebt"`
	CurrentLiabilities     *float64 `json:"currentLiabilities"`
	ShortTermFinancialDebt *float64 `json:"shortTermFinancialDebt"`
	TradePayables          *float64 `json:"tradePayables"`
	TaxPayables            *float64 `json:"taxPayables"`
	SalaryPayables         *float64 `json:"salaryPayables"`
	Prepayments            *float64 `json:"prepayments"`
	OtherPayables          *float64 `json:"otherPayables"`

	Employees     *float64 `json:"employees"`
	EmployeeCosts *float64 `json:"employeeCosts"`

	ValidationWarnings []string `json:"validationWarnings,omitempty"`
	DataQuality        Quality  `json:"dataQuality,omitempty"`
	Error              string   `json:"error,omitempty"`
}

// NewYearRecord returns a record for year with every field unknown.
func NewYearRecord(year int) *YearRecord {
	return &YearRecord{Year: year}
}

// Get returns the value of f and whether it is known.
func (r *YearRecord) Get(f Field) (float64, bool) {
	if r == nil || !f.Valid() {
		return 0, false
	}
	p := *fieldTable[f].slot(r)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Value returns the value of f or nil.
func (r *YearRecord) Value(f Field) *float64 {
	if r == nil || !f.Valid() {
		return nil
	}
	return *fieldTable[f].slot(r)
}

// Has reports whether f is known.
func (r *YearRecord) Has(f Field) bool {
	_, ok := r.Get(f)
	return ok
}

// set stores v unconditionally. Callers go through the conflict policy.
func (r *YearRecord) set(f Field, v float64) {
	*fieldTable[f].slot(r) = &v
}

// Populated returns the known fields in schema order.
func (r *YearRecord) Populated() []Field {
	var out []Field
	for f := Field(0); f < fieldCount; f++ {
		if r.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Validate runs the consistency checks and attaches any warnings.
func (r *YearRecord) Validate() []string {
	warnings := Validate(r)
	if len(warnings) > 0 {
		r.ValidationWarnings = warnings
	} else {
		r.ValidationWarnings = nil
	}
	return warnings
}

// Ptr returns a pointer to v, for building records by hand.
func Ptr(v float64) *float64 { return &v }
