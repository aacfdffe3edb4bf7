package http

import (
	"fmt"
	"sort"
	"time"

	"moneta/internal/core"
)

// Wire records for the JSON API. Amounts travel as decimal strings
// ("12.34") so clients never see raw cents and never touch floats.
type (
	walletRecord struct {
		ID             string    `json:"id"`
		Name           string    `json:"name"`
		Type           string    `json:"type"`
		PhysicalForm   string    `json:"physical_form,omitempty"`
		InitialBalance string    `json:"initial_balance"`
		Balance        string    `json:"balance"`
		CreatedAt      time.Time `json:"created_at"`
	}

	createWalletRequest struct {
		Name           string `json:"name"`
		Type           string `json:"type"`
		PhysicalForm   string `json:"physical_form"`
		InitialBalance string `json:"initial_balance"`
	}

	transactionRecord struct {
		ID                  string     `json:"id"`
		Type                string     `json:"type"`
		Amount              string     `json:"amount"`
		WalletID            string     `json:"wallet_id,omitempty"`
		AffectedWalletIDs   []string   `json:"affected_wallet_ids,omitempty"`
		SourceWalletID      string     `json:"source_wallet_id,omitempty"`
		DestinationWalletID string     `json:"destination_wallet_id,omitempty"`
		Tags                []string   `json:"tags,omitempty"`
		TransactionDate     *time.Time `json:"transaction_date,omitempty"`
		CreatedAt           time.Time  `json:"created_at"`
	}

	createTransactionRequest struct {
		Type                string   `json:"type"`
		Amount              string   `json:"amount"`
		WalletID            string   `json:"wallet_id"`
		AffectedWalletIDs   []string `json:"affected_wallet_ids"`
		SourceWalletID      string   `json:"source_wallet_id"`
		DestinationWalletID string   `json:"destination_wallet_id"`
		Tags                []string `json:"tags"`
		TransactionDate     string   `json:"transaction_date"` // RFC 3339, empty for undated
	}

	balanceRecord struct {
		WalletID string `json:"wallet_id"`
		Balance  string `json:"balance"`
	}

	balancesResponse struct {
		At       *time.Time      `json:"at,omitempty"`
		Balances []balanceRecord `json:"balances"`
		Skipped  []string        `json:"skipped_transaction_ids,omitempty"`
	}

	summaryResponse struct {
		WalletID         string   `json:"wallet_id"`
		Period           string   `json:"period"`
		Income           string   `json:"income"`
		Expenses         string   `json:"expenses"`
		NetChange        string   `json:"net_change"`
		TransactionCount int      `json:"transaction_count"`
		TransfersIn      int      `json:"transfers_in"`
		TransfersOut     int      `json:"transfers_out"`
		Skipped          []string `json:"skipped_transaction_ids,omitempty"`
	}

	tagAmountRecord struct {
		Tag    string `json:"tag"`
		Amount string `json:"amount"`
	}

	tagsResponse struct {
		Period  string            `json:"period"`
		Type    string            `json:"type"`
		ByTag   []tagAmountRecord `json:"by_tag"`
		Skipped []string          `json:"skipped_transaction_ids,omitempty"`
	}

	monthRecord struct {
		Year     int               `json:"year"`
		Month    int               `json:"month"`
		Income   string            `json:"income"`
		Expenses string            `json:"expenses"`
		ByTag    []tagAmountRecord `json:"by_tag,omitempty"`
	}

	monthsResponse struct {
		Year    int           `json:"year"`
		Months  []monthRecord `json:"months"`
		Skipped []string      `json:"skipped_transaction_ids,omitempty"`
	}

	assetSliceRecord struct {
		Form    string `json:"form"`
		Total   string `json:"total"`
		Wallets int    `json:"wallets"`
	}

	portfolioResponse struct {
		At      *time.Time         `json:"at,omitempty"`
		Slices  []assetSliceRecord `json:"slices"`
		Skipped []string           `json:"skipped_transaction_ids,omitempty"`
	}
)

func toWalletRecord(w core.Wallet) walletRecord {
	return walletRecord{
		ID:             w.ID,
		Name:           w.Name,
		Type:           string(w.Type),
		PhysicalForm:   string(w.PhysicalForm),
		InitialBalance: w.InitialBalance.String(),
		Balance:        w.Balance.String(),
		CreatedAt:      w.CreatedAt,
	}
}

func toTransactionRecord(t core.Transaction) transactionRecord {
	return transactionRecord{
		ID:                  t.ID,
		Type:                string(t.Type),
		Amount:              t.Amount.String(),
		WalletID:            t.WalletID,
		AffectedWalletIDs:   t.AffectedWalletIDs,
		SourceWalletID:      t.SourceWalletID,
		DestinationWalletID: t.DestinationWalletID,
		Tags:                t.Tags,
		TransactionDate:     t.TransactionDate,
		CreatedAt:           t.CreatedAt,
	}
}

func (req createWalletRequest) toWallet() (core.Wallet, error) {
	w := core.Wallet{
		Name:         sanitizeInput(req.Name),
		Type:         core.WalletType(sanitizeInput(req.Type)),
		PhysicalForm: core.PhysicalForm(core.NormalizeTag(req.PhysicalForm)),
	}
	if v := sanitizeInput(req.InitialBalance); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			return core.Wallet{}, fmt.Errorf("initial_balance: %w", err)
		}
		w.InitialBalance = core.CentsOf(cents)
	}
	return w, nil
}

func (req createTransactionRequest) toTransaction() (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(sanitizeInput(req.Amount))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount: %w", err)
	}

	t := core.Transaction{
		Type:                core.TransactionType(sanitizeInput(req.Type)),
		Amount:              core.CentsOf(cents),
		WalletID:            sanitizeInput(req.WalletID),
		SourceWalletID:      sanitizeInput(req.SourceWalletID),
		DestinationWalletID: sanitizeInput(req.DestinationWalletID),
		Tags:                req.Tags,
	}
	for _, id := range req.AffectedWalletIDs {
		if id = sanitizeInput(id); id != "" {
			t.AffectedWalletIDs = append(t.AffectedWalletIDs, id)
		}
	}
	if v := sanitizeInput(req.TransactionDate); v != "" {
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("transaction_date: expected RFC 3339: %w", err)
		}
		t.TransactionDate = &at
	}
	return t, nil
}

func toBalanceRecords(balances map[string]core.Money) []balanceRecord {
	records := make([]balanceRecord, 0, len(balances))
	for id, amount := range balances {
		records = append(records, balanceRecord{WalletID: id, Balance: amount.String()})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].WalletID < records[j].WalletID })
	return records
}

func toTagAmountRecords(buckets map[string]core.Money) []tagAmountRecord {
	records := make([]tagAmountRecord, 0, len(buckets))
	for tag, amount := range buckets {
		records = append(records, tagAmountRecord{Tag: tag, Amount: amount.String()})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Tag < records[j].Tag })
	return records
}

func toMonthRecord(ov core.MonthOverview) monthRecord {
	rec := monthRecord{
		Year:     ov.Year,
		Month:    int(ov.Month),
		Income:   ov.Income.String(),
		Expenses: ov.Expenses.String(),
	}
	for _, ta := range ov.ByTag {
		rec.ByTag = append(rec.ByTag, tagAmountRecord{Tag: ta.Tag, Amount: ta.Amount.String()})
	}
	return rec
}
