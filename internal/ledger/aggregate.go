package ledger

import (
	"sort"
	"time"

	"moneta/internal/core"
)

// FilterByRange keeps the transactions whose date falls inside the
// inclusive [start, end] range. Undated transactions are always dropped.
//
// Range filtering feeds reporting totals and is deliberately different
// from reconstruction's cutoff filter: a report covers money that moved
// during the period, a balance covers everything up to an instant.
func FilterByRange(txs []core.Transaction, start, end time.Time) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.TransactionDate == nil {
			continue
		}
		d := *t.TransactionDate
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterByPeriod resolves the period in loc and range-filters. An
// all-time period returns the dated input unfiltered; undated entries are
// still excluded, since they cannot participate in any time-based report.
func FilterByPeriod(txs []core.Transaction, p core.Period, loc *time.Location) []core.Transaction {
	start, end, bounded := p.Bounds(loc)
	if !bounded {
		out := make([]core.Transaction, 0, len(txs))
		for _, t := range txs {
			if t.TransactionDate != nil {
				out = append(out, t)
			}
		}
		return out
	}
	return FilterByRange(txs, start, end)
}

// AggregateByTag groups the transactions of the given type into tag
// buckets and returns the ids of malformed entries it skipped.
//
// Each transaction contributes its full amount exactly once, to its first
// tag; untagged transactions land in core.UntaggedBucket. The bucket sums
// therefore conserve the input: they add up to the total amount of the
// well-formed transactions of that type.
func AggregateByTag(txs []core.Transaction, typeFilter core.TransactionType) (map[string]core.Money, []string) {
	buckets := make(map[string]core.Money)
	var skipped []string
	for _, t := range txs {
		if t.Type != typeFilter {
			continue
		}
		if err := t.Validate(); err != nil {
			skipped = append(skipped, t.ID)
			continue
		}
		bucket := core.UntaggedBucket
		if tags := core.NormalizeTags(t.Tags); len(tags) > 0 {
			bucket = tags[0]
		}
		buckets[bucket] = buckets[bucket].Add(t.Amount)
	}
	return buckets, skipped
}

// AggregateByType totals amounts per transaction type, skipping malformed
// entries.
func AggregateByType(txs []core.Transaction) (map[core.TransactionType]core.Money, []string) {
	totals := make(map[core.TransactionType]core.Money, 3)
	var skipped []string
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			skipped = append(skipped, t.ID)
			continue
		}
		totals[t.Type] = totals[t.Type].Add(t.Amount)
	}
	return totals, skipped
}

// MonthlyOverviews builds one overview per month of the year that saw at
// least one dated income or expense, sorted chronologically. Transfers
// move money between wallets without changing the overall position, so
// they do not appear in overviews.
func MonthlyOverviews(txs []core.Transaction, year int, loc *time.Location) ([]core.MonthOverview, []string) {
	if loc == nil {
		loc = time.Local
	}
	yearTxs := FilterByPeriod(txs, core.YearPeriod(year), loc)

	byMonth := make(map[time.Month][]core.Transaction, 12)
	var skipped []string
	for _, t := range yearTxs {
		if err := t.Validate(); err != nil {
			skipped = append(skipped, t.ID)
			continue
		}
		if t.Type == core.Transfer {
			continue
		}
		m := t.TransactionDate.In(loc).Month()
		byMonth[m] = append(byMonth[m], t)
	}

	months := make([]time.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	overviews := make([]core.MonthOverview, 0, len(months))
	for _, m := range months {
		group := byMonth[m]
		ov := core.MonthOverview{Year: year, Month: m}
		for _, t := range group {
			switch t.Type {
			case core.Income:
				ov.Income = ov.Income.Add(t.Amount)
			case core.Expense:
				ov.Expenses = ov.Expenses.Add(t.Amount)
			}
		}
		expensesByTag, _ := AggregateByTag(group, core.Expense)
		ov.ByTag = sortedTagAmounts(expensesByTag)
		overviews = append(overviews, ov)
	}
	return overviews, skipped
}

func sortedTagAmounts(buckets map[string]core.Money) []core.TagAmount {
	out := make([]core.TagAmount, 0, len(buckets))
	for tag, amount := range buckets {
		out = append(out, core.TagAmount{Tag: tag, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
