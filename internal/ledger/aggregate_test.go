package ledger

import (
	"testing"
	"time"

	"moneta/internal/core"
)

func tagged(tx core.Transaction, tags ...string) core.Transaction {
	tx.Tags = tags
	return tx
}

func TestFilterByRange(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 999000000, time.UTC)

	atStart := start
	atEnd := end
	before := start.Add(-time.Millisecond)
	after := end.Add(time.Microsecond)

	txs := []core.Transaction{
		dated(income("in-start", "a", 1), &atStart),
		dated(income("in-end", "a", 1), &atEnd),
		dated(income("before", "a", 1), &before),
		dated(income("after", "a", 1), &after),
		income("undated", "a", 1),
	}

	got := FilterByRange(txs, start, end)
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	if got[0].ID != "in-start" || got[1].ID != "in-end" {
		t.Fatalf("got %s,%s", got[0].ID, got[1].ID)
	}
}

func TestFilterByPeriod(t *testing.T) {
	utc := time.UTC
	txs := []core.Transaction{
		dated(income("jan", "a", 1), date(2025, time.January, 15)),
		dated(income("feb", "a", 1), date(2025, time.February, 15)),
		dated(income("prev-year", "a", 1), date(2024, time.December, 31)),
		income("undated", "a", 1),
	}

	if got := FilterByPeriod(txs, core.MonthPeriod(2025, time.January), utc); len(got) != 1 || got[0].ID != "jan" {
		t.Fatalf("month filter: got %v", got)
	}
	if got := FilterByPeriod(txs, core.YearPeriod(2025), utc); len(got) != 2 {
		t.Fatalf("year filter: got %d, want 2", len(got))
	}
	// All-time keeps every dated transaction; undated ones are out of
	// every time-based report.
	if got := FilterByPeriod(txs, core.AllTimePeriod(), utc); len(got) != 3 {
		t.Fatalf("all-time filter: got %d, want 3", len(got))
	}
}

func TestAggregateByTag(t *testing.T) {
	txs := []core.Transaction{
		tagged(expense("e1", "a", 1000), "Food"),
		tagged(expense("e2", "a", 2000), "food"),
		expense("e3", "a", 500), // no tags -> untagged bucket
		tagged(income("i1", "a", 9999), "food"),
	}

	buckets, skipped := AggregateByTag(txs, core.Expense)
	if len(skipped) != 0 {
		t.Fatalf("skipped %v", skipped)
	}
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets: %v", len(buckets), buckets)
	}
	if buckets["food"].Cents != 3000 {
		t.Fatalf("food: got %d, want 3000", buckets["food"].Cents)
	}
	if buckets[core.UntaggedBucket].Cents != 500 {
		t.Fatalf("untagged: got %d, want 500", buckets[core.UntaggedBucket].Cents)
	}
}

// Bucket sums must add up to the total amount of well-formed transactions
// of the filtered type, whatever the tagging looks like.
func TestTagConservation(t *testing.T) {
	txs := []core.Transaction{
		tagged(expense("e1", "a", 101), "rent"),
		tagged(expense("e2", "a", 202), "rent", "home"), // multi-tag counts once
		expense("e3", "a", 303),
		tagged(expense("e4", "a", 404), "  ", ""),
		tagged(income("i1", "a", 111), "salary"),
		{ID: "bad", Type: "dividend", Amount: core.CentsOf(999), WalletID: "a"},
	}

	buckets, skipped := AggregateByTag(txs, core.Expense)
	var bucketTotal, inputTotal core.Money
	for _, amount := range buckets {
		bucketTotal = bucketTotal.Add(amount)
	}
	for _, tx := range txs {
		if tx.Type == core.Expense && tx.Validate() == nil {
			inputTotal = inputTotal.Add(tx.Amount)
		}
	}
	if bucketTotal != inputTotal {
		t.Fatalf("buckets sum to %d, input sums to %d", bucketTotal.Cents, inputTotal.Cents)
	}
	if len(skipped) != 0 {
		t.Fatalf("the malformed transaction is not of the filtered type: skipped %v", skipped)
	}
}

func TestAggregateByType(t *testing.T) {
	txs := []core.Transaction{
		income("i1", "a", 100),
		income("i2", "a", 200),
		expense("e1", "a", 50),
		transfer("t1", "a", "b", 25),
		transfer("self", "a", "a", 999),
	}
	totals, skipped := AggregateByType(txs)
	if totals[core.Income].Cents != 300 || totals[core.Expense].Cents != 50 || totals[core.Transfer].Cents != 25 {
		t.Fatalf("got %v", totals)
	}
	if len(skipped) != 1 || skipped[0] != "self" {
		t.Fatalf("skipped: got %v", skipped)
	}
}

func TestMonthlyOverviews(t *testing.T) {
	utc := time.UTC
	txs := []core.Transaction{
		dated(tagged(expense("e1", "a", 1000), "food"), date(2025, time.January, 5)),
		dated(tagged(expense("e2", "a", 500), "bills"), date(2025, time.January, 20)),
		dated(income("i1", "a", 9000), date(2025, time.January, 1)),
		dated(expense("e3", "a", 700), date(2025, time.March, 3)),
		dated(transfer("t1", "a", "b", 123), date(2025, time.March, 4)), // transfers stay out
		dated(income("other-year", "a", 1), date(2024, time.July, 1)),
	}

	overviews, skipped := MonthlyOverviews(txs, 2025, utc)
	if len(skipped) != 0 {
		t.Fatalf("skipped %v", skipped)
	}
	if len(overviews) != 2 {
		t.Fatalf("got %d overviews, want 2", len(overviews))
	}

	jan := overviews[0]
	if jan.Month != time.January || jan.Income.Cents != 9000 || jan.Expenses.Cents != 1500 {
		t.Fatalf("january: %+v", jan)
	}
	if len(jan.ByTag) != 2 || jan.ByTag[0].Tag != "bills" || jan.ByTag[1].Tag != "food" {
		t.Fatalf("january tags: %+v", jan.ByTag)
	}

	mar := overviews[1]
	if mar.Month != time.March || mar.Expenses.Cents != 700 || !mar.Income.IsZero() {
		t.Fatalf("march: %+v", mar)
	}
}
