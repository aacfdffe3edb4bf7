// Package ledger is the balance reconstruction and aggregation engine.
//
// Every function here is pure: it consumes immutable wallet/transaction
// snapshots and returns plain maps or record values. Nothing is cached,
// nothing is mutated, and repeated calls with the same input return the
// same output, so concurrent use needs no coordination.
//
// Malformed transactions never abort a computation. Set-level functions
// skip them and report the skipped ids to the caller.
package ledger

import (
	"moneta/internal/core"
)

const (
	// None means the transaction is not a transfer touching the wallet,
	// including transfers between two entirely unrelated wallets. It is a
	// normal answer, not an error.
	None Direction = iota
	Incoming
	Outgoing
)

// Direction is a wallet's side of a transfer.
type Direction int

func (d Direction) String() string {
	switch d {
	case Incoming:
		return "incoming"
	case Outgoing:
		return "outgoing"
	default:
		return "none"
	}
}

// TransferDirection resolves which side of a transfer the wallet is on.
// Transfers are matched exclusively through their source/destination
// fields; the legacy WalletID field never participates.
func TransferDirection(t core.Transaction, walletID string) Direction {
	if t.Type != core.Transfer {
		return None
	}
	switch walletID {
	case t.DestinationWalletID:
		return Incoming
	case t.SourceWalletID:
		return Outgoing
	default:
		return None
	}
}

// EffectiveAmount is the signed contribution of a transaction to the
// wallet's balance: positive for income and incoming transfers, negative
// for expenses and outgoing transfers, zero for unrelated or malformed
// entries.
func EffectiveAmount(t core.Transaction, walletID string) core.Money {
	if t.Validate() != nil {
		return core.Money{}
	}
	switch t.Type {
	case core.Income:
		if t.TouchesWallet(walletID) {
			return t.Amount
		}
	case core.Expense:
		if t.TouchesWallet(walletID) {
			return t.Amount.Neg()
		}
	case core.Transfer:
		switch TransferDirection(t, walletID) {
		case Incoming:
			return t.Amount
		case Outgoing:
			return t.Amount.Neg()
		}
	}
	return core.Money{}
}

// Income sums income entries targeting the wallet plus transfers into it.
// An empty transaction set, or one with no matching entries, sums to zero.
// Malformed entries contribute nothing; callers that need the skipped ids
// use Summarize, which applies the same rules and reports them.
func Income(txs []core.Transaction, walletID string) core.Money {
	var total core.Money
	for _, t := range txs {
		if t.Validate() != nil {
			continue
		}
		switch {
		case t.Type == core.Income && t.TouchesWallet(walletID):
			total = total.Add(t.Amount)
		case TransferDirection(t, walletID) == Incoming:
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Expenses sums expense entries targeting the wallet plus transfers out
// of it. Malformed entries are skipped the same way as in Income.
func Expenses(txs []core.Transaction, walletID string) core.Money {
	var total core.Money
	for _, t := range txs {
		if t.Validate() != nil {
			continue
		}
		switch {
		case t.Type == core.Expense && t.TouchesWallet(walletID):
			total = total.Add(t.Amount)
		case TransferDirection(t, walletID) == Outgoing:
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Summarize computes the wallet's summary record over the given set and
// returns the ids of malformed transactions it had to skip.
//
// The invariant Income(T,w) - Expenses(T,w) == Summarize(T,w).NetChange
// holds because all three apply the same membership and skipping rules.
func Summarize(txs []core.Transaction, walletID string) (core.WalletSummary, []string) {
	var s core.WalletSummary
	var skipped []string
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			skipped = append(skipped, t.ID)
			continue
		}
		switch t.Type {
		case core.Income:
			if t.TouchesWallet(walletID) {
				s.Income = s.Income.Add(t.Amount)
				s.TransactionCount++
			}
		case core.Expense:
			if t.TouchesWallet(walletID) {
				s.Expenses = s.Expenses.Add(t.Amount)
				s.TransactionCount++
			}
		case core.Transfer:
			switch TransferDirection(t, walletID) {
			case Incoming:
				s.Income = s.Income.Add(t.Amount)
				s.TransfersIn++
				s.TransactionCount++
			case Outgoing:
				s.Expenses = s.Expenses.Add(t.Amount)
				s.TransfersOut++
				s.TransactionCount++
			}
		}
	}
	s.NetChange = s.Income.Sub(s.Expenses)
	return s, skipped
}
