package google

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"moneta/internal/core"
)

// Row layout: key (YYYY-MM) | income | expenses | net | tag breakdown.
// Amounts are rendered as decimal strings so the sheet stays readable;
// the breakdown is "tag=amount" pairs joined with "; ".

func overviewToRow(ov core.MonthOverview) []any {
	return []any{
		monthKey(ov.Year, ov.Month),
		ov.Income.String(),
		ov.Expenses.String(),
		ov.Income.Sub(ov.Expenses).String(),
		tagsToCell(ov.ByTag),
	}
}

func rowToOverview(row []any) (core.MonthOverview, error) {
	if len(row) < 4 {
		return core.MonthOverview{}, fmt.Errorf("unexpected row shape: %v", row)
	}
	key := strings.TrimSpace(cellString(row[0]))
	year, month, err := parseMonthKey(key)
	if err != nil {
		return core.MonthOverview{}, err
	}

	income, err := parseAmountCell(cellString(row[1]))
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("income cell: %w", err)
	}
	expenses, err := parseAmountCell(cellString(row[2]))
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("expenses cell: %w", err)
	}

	ov := core.MonthOverview{Year: year, Month: month, Income: income, Expenses: expenses}
	if len(row) >= 5 {
		ov.ByTag = cellToTags(cellString(row[4]))
	}
	return ov, nil
}

func tagsToCell(tags []core.TagAmount) string {
	parts := make([]string, 0, len(tags))
	for _, ta := range tags {
		parts = append(parts, ta.Tag+"="+ta.Amount.String())
	}
	return strings.Join(parts, "; ")
}

func cellToTags(cell string) []core.TagAmount {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	var out []core.TagAmount
	for _, part := range strings.Split(cell, ";") {
		tag, amount, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		m, err := parseAmountCell(amount)
		if err != nil {
			continue
		}
		out = append(out, core.TagAmount{Tag: strings.TrimSpace(tag), Amount: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

func parseMonthKey(key string) (int, time.Month, error) {
	y, m, found := strings.Cut(key, "-")
	if !found {
		return 0, 0, fmt.Errorf("unexpected month key %q", key)
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected month key %q", key)
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("unexpected month key %q", key)
	}
	return year, time.Month(month), nil
}

// parseAmountCell reads a signed decimal cell back into cents.
func parseAmountCell(s string) (core.Money, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	if negative {
		cents = -cents
	}
	return core.CentsOf(cents), nil
}

func cellString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
