package ledger

import (
	"testing"

	"moneta/internal/core"
)

func TestIncludeInComposition(t *testing.T) {
	physical := core.Wallet{ID: "p", Name: "Cash", Type: core.Physical, PhysicalForm: core.FormCash}
	logical := core.Wallet{ID: "l", Name: "Food budget", Type: core.Logical}

	cases := []struct {
		wallet  core.Wallet
		balance int64
		want    bool
	}{
		{physical, 100, true},
		{physical, 0, false},  // zero is always hidden
		{physical, -50, false}, // a negative asset makes no sense in composition
		{logical, 100, true},
		{logical, 0, false},
		{logical, -50, true}, // overspent budget stays visible
	}
	for i, tc := range cases {
		if got := IncludeInComposition(tc.wallet, core.CentsOf(tc.balance)); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestComposition(t *testing.T) {
	wallets := []core.Wallet{
		{ID: "cash1", Name: "Wallet", Type: core.Physical, PhysicalForm: core.FormCash},
		{ID: "cash2", Name: "Drawer", Type: core.Physical, PhysicalForm: core.FormCash},
		{ID: "bank1", Name: "Checking", Type: core.Physical, PhysicalForm: core.FormBank},
		{ID: "empty", Name: "Old account", Type: core.Physical, PhysicalForm: core.FormBank},
		{ID: "neg", Name: "Overdrawn", Type: core.Physical, PhysicalForm: core.FormBank},
		{ID: "budget", Name: "Groceries", Type: core.Logical},
		{ID: "silent", Name: "No history", Type: core.Physical, PhysicalForm: core.FormCrypto},
	}
	balances := map[string]core.Money{
		"cash1":  core.CentsOf(1000),
		"cash2":  core.CentsOf(500),
		"bank1":  core.CentsOf(20000),
		"empty":  core.CentsOf(0),
		"neg":    core.CentsOf(-300),
		"budget": core.CentsOf(750),
		// "silent" never had a qualifying transaction: no entry at all
	}

	slices := Composition(wallets, balances)
	if len(slices) != 2 {
		t.Fatalf("got %d slices: %+v", len(slices), slices)
	}
	if slices[0].Form != core.FormBank || slices[0].Total.Cents != 20000 || slices[0].Wallets != 1 {
		t.Fatalf("bank slice: %+v", slices[0])
	}
	if slices[1].Form != core.FormCash || slices[1].Total.Cents != 1500 || slices[1].Wallets != 2 {
		t.Fatalf("cash slice: %+v", slices[1])
	}
}

func TestBudgetBalances(t *testing.T) {
	wallets := []core.Wallet{
		{ID: "food", Name: "Food", Type: core.Logical},
		{ID: "trips", Name: "Trips", Type: core.Logical},
		{ID: "done", Name: "Paid off", Type: core.Logical},
		{ID: "cash", Name: "Cash", Type: core.Physical, PhysicalForm: core.FormCash},
	}
	balances := map[string]core.Money{
		"food":  core.CentsOf(-1200), // overspent, must survive
		"trips": core.CentsOf(4000),
		"done":  core.CentsOf(0),
		"cash":  core.CentsOf(99),
	}

	got := BudgetBalances(wallets, balances)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got["food"].Cents != -1200 {
		t.Fatalf("overspent budget dropped: %v", got)
	}
	if _, ok := got["cash"]; ok {
		t.Fatalf("physical wallet leaked into budget view")
	}
}
