package ledger

import (
	"sort"

	"moneta/internal/core"
)

// IncludeInComposition is the presentation policy for composition views,
// applied here rather than in a renderer so every consumer agrees:
// wallets whose reconstructed balance is exactly zero are hidden, and a
// physical wallet that went negative is hidden too (a real-world holding
// cannot meaningfully be below zero in an asset view). Logical budget
// wallets keep their negative balances; overspending is information.
func IncludeInComposition(w core.Wallet, balance core.Money) bool {
	if balance.IsZero() {
		return false
	}
	if w.IsPhysical() && balance.IsNegative() {
		return false
	}
	return true
}

// Composition groups the physical wallets present in balances into asset
// slices by physical form, sorted by form name. Wallets without a
// balance entry had no qualifying transactions and stay out.
func Composition(wallets []core.Wallet, balances map[string]core.Money) []core.AssetSlice {
	type slice struct {
		total   core.Money
		wallets int
	}
	byForm := make(map[core.PhysicalForm]*slice)
	for _, w := range wallets {
		if !w.IsPhysical() {
			continue
		}
		balance, ok := balances[w.ID]
		if !ok || !IncludeInComposition(w, balance) {
			continue
		}
		form := w.PhysicalForm
		if form == "" {
			form = "other"
		}
		s := byForm[form]
		if s == nil {
			s = &slice{}
			byForm[form] = s
		}
		s.total = s.total.Add(balance)
		s.wallets++
	}

	out := make([]core.AssetSlice, 0, len(byForm))
	for form, s := range byForm {
		out = append(out, core.AssetSlice{Form: form, Total: s.total, Wallets: s.wallets})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Form < out[j].Form })
	return out
}

// BudgetBalances returns the logical wallets' balances for budget views,
// negative ones included. Zero balances are filtered like everywhere else
// in composition.
func BudgetBalances(wallets []core.Wallet, balances map[string]core.Money) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, w := range wallets {
		if w.IsPhysical() {
			continue
		}
		balance, ok := balances[w.ID]
		if !ok || !IncludeInComposition(w, balance) {
			continue
		}
		out[w.ID] = balance
	}
	return out
}
