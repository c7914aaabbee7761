package extract

// DefaultCodesVersion is the catalogue used when none is configured.
const DefaultCodesVersion = "nbb-2024"

// DefaultCodes covers the full and abridged NBB schemas.
var DefaultCodes = MustCodeTable(DefaultCodesVersion, []CodeEntry{
	// Resultatenrekening
	{"70", Revenue},
	{"60/61", CostOfGoodsSold},
	{"9900", GrossMargin},
	{"62", PersonnelCosts},
	{"630", Depreciation},
	{"631/4", InventoryWriteDowns},
	{"635/8", IncomeProvisions},
	{"640/8", OtherCosts},
	{"649", RestructuringCosts},
	{"66A", NonRecurringCosts},
	{"9901", OperatingProfit},
	{"75", FinancialIncome},
	{"75/76B", FinancialIncome},
	{"65", FinancialCosts},
	{"65/66B", FinancialCosts},
	{"9903", ProfitBeforeTax},
	{"67/77", Taxes},
	{"9904", NetProfit},
	{"9905", ProfitToDistribute},
	{"9906", ProfitToDistribute},

	// Activa
	{"20", StartupCosts},
	{"20/58", TotalAssets},
	{"21/28", FixedAssets},
	{"21", IntangibleAssets},
	{"22/27", TangibleAssets},
	{"28", FinancialFixedAssets},
	{"29/58", CurrentAssets},
	{"29", LongTermReceivables},
	{"30/36", Inventory},
	{"37", WorkInProgress},
	{"40/41", Receivables},
	{"40", TradeReceivables},
	{"41", OtherReceivables},
	{"50/53", Investments},
	{"54/58", Cash},

	// Passiva
	{"10/15", Equity},
	{"10/11", Capital},
	{"110", CapitalAvailable},
	{"111", CapitalUnavailable},
	{"12", RevaluationReserves},
	{"13", Reserves},
	{"130/1", UnavailableReserves},
	{"132", TaxFreeReserves},
	{"133", AvailableReserves},
	{"14", RetainedEarnings},
	{"15", CapitalSubsidies},
	{"16", Provisions},
	{"17/49", TotalLiabilities},
	{"17", LongTermDebt},
	{"170/4", FinancialDebt},
	{"172/3", BankDebt},
	{"42/48", CurrentLiabilities},
	{"43", ShortTermFinancialDebt},
	{"44", TradePayables},
	{"45", TaxPayables},
	{"454/9", SalaryPayables},
	{"46", Prepayments},
	{"47/48", OtherPayables},

	// Sociale balans
	{"100", Employees},
	{"102", EmployeeCosts},
})

func init() {
	RegisterCodes(DefaultCodes)
}
