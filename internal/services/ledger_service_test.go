package services

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"moneta/internal/core"
	"moneta/internal/storage"
)

func newTestLedgerService(t *testing.T) *LedgerService {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "moneta.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("close repository: %v", err)
		}
	})

	return NewLedgerService(repo, nil)
}

func createWallet(t *testing.T, svc *LedgerService, name string, wt core.WalletType, initialCents int64) core.Wallet {
	t.Helper()

	w, err := svc.CreateWallet(context.Background(), core.Wallet{
		Name:           name,
		Type:           wt,
		PhysicalForm:   core.FormBank,
		InitialBalance: core.CentsOf(initialCents),
	})
	if err != nil {
		t.Fatalf("create wallet %q: %v", name, err)
	}
	return w
}

func TestCreateWallet_OpeningBalance(t *testing.T) {
	svc := newTestLedgerService(t)
	ctx := context.Background()

	w := createWallet(t, svc, "checking", core.Physical, 10000)

	if w.ID == "" {
		t.Fatal("expected generated wallet ID")
	}
	if w.Balance.Cents != 10000 {
		t.Errorf("cached balance = %d cents, want 10000", w.Balance.Cents)
	}

	txs, err := svc.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1 opening entry", len(txs))
	}
	opening := txs[0]
	if opening.Type != core.Income || opening.Amount.Cents != 10000 {
		t.Errorf("opening entry = %s %d cents, want income 10000", opening.Type, opening.Amount.Cents)
	}
	if !reflect.DeepEqual(opening.Tags, []string{OpeningBalanceTag}) {
		t.Errorf("opening tags = %v, want [%q]", opening.Tags, OpeningBalanceTag)
	}
	if opening.TransactionDate == nil {
		t.Error("opening entry must be dated so historical replay sees it")
	}
}

func TestCreateWallet_ZeroInitialBalance(t *testing.T) {
	svc := newTestLedgerService(t)

	createWallet(t, svc, "empty", core.Logical, 0)

	txs, err := svc.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("got %d transactions, want none for a zero opening balance", len(txs))
	}
}

func TestRecordTransaction_UpdatesCachedBalances(t *testing.T) {
	svc := newTestLedgerService(t)
	ctx := context.Background()

	checking := createWallet(t, svc, "checking", core.Physical, 10000)
	savings := createWallet(t, svc, "savings", core.Physical, 0)

	when := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	if _, err := svc.RecordTransaction(ctx, core.Transaction{
		Type:            core.Expense,
		Amount:          core.CentsOf(2550),
		WalletID:        checking.ID,
		Tags:            []string{"food"},
		TransactionDate: &when,
	}); err != nil {
		t.Fatalf("record expense: %v", err)
	}

	if _, err := svc.RecordTransaction(ctx, core.Transaction{
		Type:                core.Transfer,
		Amount:              core.CentsOf(3000),
		SourceWalletID:      checking.ID,
		DestinationWalletID: savings.ID,
		TransactionDate:     &when,
	}); err != nil {
		t.Fatalf("record transfer: %v", err)
	}

	got, err := svc.GetWallet(ctx, checking.ID)
	if err != nil {
		t.Fatalf("get checking: %v", err)
	}
	if got.Balance.Cents != 10000-2550-3000 {
		t.Errorf("checking balance = %d cents, want %d", got.Balance.Cents, 10000-2550-3000)
	}

	got, err = svc.GetWallet(ctx, savings.ID)
	if err != nil {
		t.Fatalf("get savings: %v", err)
	}
	if got.Balance.Cents != 3000 {
		t.Errorf("savings balance = %d cents, want 3000", got.Balance.Cents)
	}
}

func TestRecordTransaction_AffectedWalletsDuplicateAmount(t *testing.T) {
	svc := newTestLedgerService(t)
	ctx := context.Background()

	physical := createWallet(t, svc, "bank", core.Physical, 0)
	budget := createWallet(t, svc, "groceries", core.Logical, 0)

	if _, err := svc.RecordTransaction(ctx, core.Transaction{
		Type:              core.Expense,
		Amount:            core.CentsOf(1500),
		WalletID:          physical.ID,
		AffectedWalletIDs: []string{budget.ID},
	}); err != nil {
		t.Fatalf("record expense: %v", err)
	}

	for _, id := range []string{physical.ID, budget.ID} {
		w, err := svc.GetWallet(ctx, id)
		if err != nil {
			t.Fatalf("get wallet: %v", err)
		}
		if w.Balance.Cents != -1500 {
			t.Errorf("wallet %s balance = %d cents, want -1500 (full amount per wallet)", w.Name, w.Balance.Cents)
		}
	}
}

func TestRecordTransaction_NormalizesTags(t *testing.T) {
	svc := newTestLedgerService(t)

	w := createWallet(t, svc, "cash", core.Physical, 0)

	tx, err := svc.RecordTransaction(context.Background(), core.Transaction{
		Type:     core.Expense,
		Amount:   core.CentsOf(500),
		WalletID: w.ID,
		Tags:     []string{" Food ", "food", "RENT", ""},
	})
	if err != nil {
		t.Fatalf("record transaction: %v", err)
	}

	want := []string{"food", "rent"}
	if !reflect.DeepEqual(tx.Tags, want) {
		t.Errorf("tags = %v, want %v", tx.Tags, want)
	}
}

func TestRecordTransaction_Invalid(t *testing.T) {
	svc := newTestLedgerService(t)
	ctx := context.Background()

	w := createWallet(t, svc, "cash", core.Physical, 0)

	_, err := svc.RecordTransaction(ctx, core.Transaction{
		Type:                core.Transfer,
		Amount:              core.CentsOf(100),
		SourceWalletID:      w.ID,
		DestinationWalletID: w.ID,
	})
	if !errors.Is(err, core.ErrSameTransferWallet) {
		t.Fatalf("err = %v, want ErrSameTransferWallet", err)
	}

	_, err = svc.RecordTransaction(ctx, core.Transaction{
		Type:     core.Income,
		Amount:   core.CentsOf(100),
		WalletID: "ghost",
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unknown wallet", err)
	}

	txs, err := svc.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("invalid entry was persisted: %v", txs)
	}
}

func TestDeleteTransaction_ReversesCachedBalances(t *testing.T) {
	svc := newTestLedgerService(t)
	ctx := context.Background()

	w := createWallet(t, svc, "checking", core.Physical, 0)

	tx, err := svc.RecordTransaction(ctx, core.Transaction{
		Type:     core.Income,
		Amount:   core.CentsOf(4200),
		WalletID: w.ID,
	})
	if err != nil {
		t.Fatalf("record income: %v", err)
	}

	if err := svc.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}

	got, err := svc.GetWallet(ctx, w.ID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if got.Balance.Cents != 0 {
		t.Errorf("balance after delete = %d cents, want 0", got.Balance.Cents)
	}

	if _, err := svc.GetTransaction(ctx, tx.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get deleted transaction err = %v, want ErrNotFound", err)
	}
}
