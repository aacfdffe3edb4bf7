package google

import (
	"testing"
	"time"

	"moneta/internal/core"
)

func TestOverviewRowRoundTrip(t *testing.T) {
	ov := core.MonthOverview{
		Year:     2025,
		Month:    time.March,
		Income:   core.CentsOf(90000),
		Expenses: core.CentsOf(15500),
		ByTag: []core.TagAmount{
			{Tag: "bills", Amount: core.CentsOf(5500)},
			{Tag: "food", Amount: core.CentsOf(10000)},
		},
	}

	row := overviewToRow(ov)
	if row[0] != "2025-03" {
		t.Fatalf("key cell: got %v", row[0])
	}
	if row[3] != "745.00" {
		t.Fatalf("net cell: got %v", row[3])
	}

	back, err := rowToOverview(row)
	if err != nil {
		t.Fatalf("rowToOverview: %v", err)
	}
	if back.Year != 2025 || back.Month != time.March {
		t.Fatalf("month: got %d-%d", back.Year, back.Month)
	}
	if back.Income != ov.Income || back.Expenses != ov.Expenses {
		t.Fatalf("amounts: got %+v", back)
	}
	if len(back.ByTag) != 2 || back.ByTag[0].Tag != "bills" || back.ByTag[1].Amount.Cents != 10000 {
		t.Fatalf("tags: got %+v", back.ByTag)
	}
}

func TestRowToOverviewRejectsGarbage(t *testing.T) {
	cases := [][]any{
		{},
		{"2025-03"},
		{"not-a-key", "1.00", "2.00", "-1.00"},
		{"2025-13", "1.00", "2.00", "-1.00"},
		{"2025-03", "xx", "2.00", "-1.00"},
	}
	for i, row := range cases {
		if _, err := rowToOverview(row); err == nil {
			t.Fatalf("case %d: expected error for %v", i, row)
		}
	}
}

func TestParseAmountCellSigned(t *testing.T) {
	m, err := parseAmountCell("-12.34")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Cents != -1234 {
		t.Fatalf("got %d, want -1234", m.Cents)
	}
}
