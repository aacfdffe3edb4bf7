package services

import (
	"context"
	"fmt"
	"time"

	"moneta/internal/core"
	"moneta/internal/ledger"
	"moneta/internal/storage"
)

// ReportService runs the ledger engine over stored snapshots. Every method
// that replays history also returns the IDs of transactions skipped as
// malformed, so callers can surface data problems instead of hiding them.
type ReportService struct {
	storage *storage.SQLiteRepository
	loc     *time.Location
}

func NewReportService(storage *storage.SQLiteRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		storage: storage,
		loc:     loc,
	}
}

func (s *ReportService) snapshot(ctx context.Context) ([]core.Wallet, []core.Transaction, error) {
	wallets, err := s.storage.ListWallets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list wallets: %w", err)
	}
	txs, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}
	return wallets, txs, nil
}

// Balances returns per-wallet balances. A nil cutoff means current balances;
// otherwise history is replayed up to and including the cutoff instant.
func (s *ReportService) Balances(ctx context.Context, cutoff *time.Time) (map[string]core.Money, []string, error) {
	wallets, txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	balances, skipped := ledger.BalancesAt(wallets, txs, cutoff)
	return balances, skipped, nil
}

// WalletSummary computes income, expenses and transfer totals for one wallet
// over a period.
func (s *ReportService) WalletSummary(ctx context.Context, walletID string, p core.Period) (core.WalletSummary, []string, error) {
	if err := p.Validate(); err != nil {
		return core.WalletSummary{}, nil, err
	}
	if _, err := s.storage.GetWallet(ctx, walletID); err != nil {
		return core.WalletSummary{}, nil, fmt.Errorf("load wallet: %w", err)
	}
	txs, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return core.WalletSummary{}, nil, fmt.Errorf("list transactions: %w", err)
	}
	summary, skipped := ledger.Summarize(ledger.FilterByPeriod(txs, p, s.loc), walletID)
	return summary, skipped, nil
}

// TagBreakdown aggregates amounts per normalized tag over a period,
// restricted to one transaction type.
func (s *ReportService) TagBreakdown(ctx context.Context, p core.Period, typeFilter core.TransactionType) (map[string]core.Money, []string, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	txs, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}
	buckets, skipped := ledger.AggregateByTag(ledger.FilterByPeriod(txs, p, s.loc), typeFilter)
	return buckets, skipped, nil
}

// MonthlyOverviews returns income/expense totals and tag breakdowns for every
// month of a year that has at least one dated entry.
func (s *ReportService) MonthlyOverviews(ctx context.Context, year int) ([]core.MonthOverview, []string, error) {
	txs, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}
	overviews, skipped := ledger.MonthlyOverviews(txs, year, s.loc)
	return overviews, skipped, nil
}

// MonthOverview returns the overview for a single month. A month with no
// dated entries yields zero totals rather than an error.
func (s *ReportService) MonthOverview(ctx context.Context, year int, month time.Month) (core.MonthOverview, []string, error) {
	if err := core.MonthPeriod(year, month).Validate(); err != nil {
		return core.MonthOverview{}, nil, err
	}
	overviews, skipped, err := s.MonthlyOverviews(ctx, year)
	if err != nil {
		return core.MonthOverview{}, nil, err
	}
	for _, o := range overviews {
		if o.Month == month {
			return o, skipped, nil
		}
	}
	return core.MonthOverview{Year: year, Month: month}, skipped, nil
}

// Portfolio groups physical wallets by form at the cutoff instant (nil for
// now). Zero balances are hidden; negative physical balances are excluded
// from the composition.
func (s *ReportService) Portfolio(ctx context.Context, cutoff *time.Time) ([]core.AssetSlice, []string, error) {
	wallets, txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	balances, skipped := ledger.BalancesAt(wallets, txs, cutoff)
	return ledger.Composition(wallets, balances), skipped, nil
}

// BudgetBalances returns current balances for logical wallets only.
// Negative balances are kept; an overspent budget is information.
func (s *ReportService) BudgetBalances(ctx context.Context) (map[string]core.Money, []string, error) {
	wallets, txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	balances, skipped := ledger.BalancesAt(wallets, txs, nil)
	return ledger.BudgetBalances(wallets, balances), skipped, nil
}
