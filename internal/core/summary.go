package core

import "time"

// TagAmount is an amount aggregated under a normalized tag.
type TagAmount struct {
	Tag    string
	Amount Money
}

// WalletSummary is the fixed-shape per-wallet report record: totals over
// whatever transaction set the caller filtered to.
type WalletSummary struct {
	Income           Money
	Expenses         Money
	NetChange        Money // Income - Expenses, transfers included on both sides
	TransactionCount int   // entries that touched the wallet, malformed ones excluded
	TransfersIn      int
	TransfersOut     int
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year     int
	Month    time.Month
	Income   Money
	Expenses Money
	ByTag    []TagAmount // expense breakdown, sorted by tag
}

// AssetSlice is one physical-form bucket of the portfolio composition
// view: cash, bank, crypto and so on.
type AssetSlice struct {
	Form    PhysicalForm
	Total   Money
	Wallets int
}
