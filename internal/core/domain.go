package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Physical WalletType = "physical"
	Logical  WalletType = "logical"
)

// Common physical forms. PhysicalForm is open-ended; these are the values
// the portfolio view groups by out of the box.
const (
	FormCash       PhysicalForm = "cash"
	FormBank       PhysicalForm = "bank"
	FormCrypto     PhysicalForm = "crypto"
	FormInvestment PhysicalForm = "investment"
)

type (
	// TransactionType is a closed set: income, expense, transfer.
	// Switches over it carry a default arm that treats the value as
	// malformed rather than silently ignoring it.
	TransactionType string

	WalletType string

	PhysicalForm string

	Wallet struct {
		ID             string
		Name           string
		Type           WalletType
		PhysicalForm   PhysicalForm // meaningful for physical wallets only
		InitialBalance Money
		// Balance is the cached current total, maintained by the
		// repository layer. All-time balance queries trust it; any
		// point-in-time query recomputes from the transaction history.
		Balance   Money
		CreatedAt time.Time
	}

	Transaction struct {
		ID     string
		Type   TransactionType
		Amount Money // magnitude, never signed

		// WalletID is the primary wallet for income/expense entries.
		// AffectedWalletIDs lists further wallets the same entry touches;
		// the full amount applies to each of them (a duplicate, not a
		// split), so per-wallet totals stay exact in cents.
		WalletID          string
		AffectedWalletIDs []string

		// Set for transfers only, and must differ from each other.
		SourceWalletID      string
		DestinationWalletID string

		Tags []string // normalized: trimmed, lower-cased, deduplicated

		// TransactionDate is when the entry occurred, as entered by the
		// user. It is editable and may legitimately predate the wallet
		// record itself. A nil date excludes the entry from every
		// time-based computation.
		TransactionDate *time.Time
		CreatedAt       time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidWalletType  = errors.New("invalid wallet type")
	ErrMissingWallet      = errors.New("missing wallet reference")
	ErrSameTransferWallet = errors.New("transfer source and destination are the same wallet")
	ErrEmptyName          = errors.New("empty wallet name")
)

// TouchesWallet reports whether a non-transfer transaction targets the
// wallet, via the primary reference or the affected list. Transfers are
// matched through their source/destination fields only, never through
// this method.
func (t Transaction) TouchesWallet(walletID string) bool {
	if t.Type == Transfer {
		return false
	}
	if t.WalletID == walletID {
		return true
	}
	for _, id := range t.AffectedWalletIDs {
		if id == walletID {
			return true
		}
	}
	return false
}

// Validate checks structural soundness. The ledger engine applies the same
// checks to decide whether an entry is replayable; a failing entry is
// skipped and reported, never fatal.
func (t Transaction) Validate() error {
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	switch t.Type {
	case Income, Expense:
		if t.WalletID == "" && len(t.AffectedWalletIDs) == 0 {
			return ErrMissingWallet
		}
	case Transfer:
		if t.SourceWalletID == "" || t.DestinationWalletID == "" {
			return ErrMissingWallet
		}
		if t.SourceWalletID == t.DestinationWalletID {
			return ErrSameTransferWallet
		}
	default:
		return ErrInvalidType
	}
	return nil
}

func (w Wallet) Validate() error {
	if len(strings.TrimSpace(w.Name)) == 0 {
		return ErrEmptyName
	}
	if len(w.Name) > 100 {
		return errors.New("wallet name too long (max 100 characters)")
	}
	switch w.Type {
	case Physical, Logical:
	default:
		return ErrInvalidWalletType
	}
	return nil
}

// IsPhysical reports whether the wallet represents a real-world holding,
// as opposed to a logical budget bucket.
func (w Wallet) IsPhysical() bool {
	return w.Type == Physical
}
