package ledger

import (
	"sort"
	"time"

	"moneta/internal/core"
)

// BalancesAt reconstructs every wallet's balance as of the cutoff instant
// and returns it keyed by wallet id, together with the ids of transactions
// that could not be fully applied during replay: malformed entries and
// entries referencing wallets absent from the snapshot.
//
// A nil cutoff means "all time": the cached wallet balances are returned
// as-is, with no replay. The cached balance is ground truth for the
// current total, so the shortcut is exact.
//
// With a cutoff, the balance is rebuilt from zero by replaying every
// qualifying transaction in chronological order. Qualifying means a
// non-nil TransactionDate at or before the cutoff, inclusive; undated
// transactions never qualify. Same-instant transactions replay in their
// original insertion order, so the result is deterministic.
//
// A wallet appears in the result only if at least one qualifying
// transaction touched it, even when the wallet record itself was created
// after the cutoff, since transaction dates are user-edited and may
// predate the wallet. A wallet with no qualifying transactions is absent
// from the map, which is distinct from being present with a zero balance.
func BalancesAt(wallets []core.Wallet, txs []core.Transaction, cutoff *time.Time) (map[string]core.Money, []string) {
	if cutoff == nil {
		balances := make(map[string]core.Money, len(wallets))
		for _, w := range wallets {
			balances[w.ID] = w.Balance
		}
		return balances, nil
	}

	known := make(map[string]struct{}, len(wallets))
	for _, w := range wallets {
		known[w.ID] = struct{}{}
	}

	var skipped []string
	replayable := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.TransactionDate == nil || t.TransactionDate.After(*cutoff) {
			continue
		}
		if err := t.Validate(); err != nil {
			skipped = append(skipped, t.ID)
			continue
		}
		replayable = append(replayable, t)
	}

	// Stable sort keeps the slice's insertion order as the tie-break for
	// identical instants.
	sort.SliceStable(replayable, func(i, j int) bool {
		return replayable[i].TransactionDate.Before(*replayable[j].TransactionDate)
	})

	working := make(map[string]core.Money, len(wallets))
	touched := make(map[string]struct{}, len(wallets))
	apply := func(walletID string, delta core.Money) bool {
		// Contributions to wallets missing from the snapshot are dropped;
		// partial results beat a failed report, but the caller gets the id.
		if _, ok := known[walletID]; !ok {
			return false
		}
		working[walletID] = working[walletID].Add(delta)
		touched[walletID] = struct{}{}
		return true
	}

	for _, t := range replayable {
		complete := true
		switch t.Type {
		case core.Income:
			for _, id := range TargetWallets(t) {
				complete = apply(id, t.Amount) && complete
			}
		case core.Expense:
			for _, id := range TargetWallets(t) {
				complete = apply(id, t.Amount.Neg()) && complete
			}
		case core.Transfer:
			// Conservation: the destination gains exactly what the
			// source loses.
			complete = apply(t.SourceWalletID, t.Amount.Neg()) && complete
			complete = apply(t.DestinationWalletID, t.Amount) && complete
		}
		if !complete {
			skipped = append(skipped, t.ID)
		}
	}

	balances := make(map[string]core.Money, len(touched))
	for id := range touched {
		balances[id] = working[id]
	}
	return balances, skipped
}

// TargetWallets lists the wallets an income/expense entry applies to:
// the primary wallet plus the affected list, deduplicated so a wallet
// repeated across both fields is counted once.
func TargetWallets(t core.Transaction) []string {
	if len(t.AffectedWalletIDs) == 0 {
		if t.WalletID == "" {
			return nil
		}
		return []string{t.WalletID}
	}
	ids := make([]string, 0, len(t.AffectedWalletIDs)+1)
	seen := make(map[string]struct{}, len(t.AffectedWalletIDs)+1)
	if t.WalletID != "" {
		ids = append(ids, t.WalletID)
		seen[t.WalletID] = struct{}{}
	}
	for _, id := range t.AffectedWalletIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
