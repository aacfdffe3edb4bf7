package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"moneta/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "moneta.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestWalletRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	w := core.Wallet{
		ID:           "w1",
		Name:         "Checking",
		Type:         core.Physical,
		PhysicalForm: core.FormBank,
		Balance:      core.CentsOf(1000),
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.CreateWallet(ctx, w); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetWallet(ctx, "w1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Checking" || got.Type != core.Physical || got.Balance.Cents != 1000 {
		t.Fatalf("got %+v", got)
	}

	if err := repo.AdjustWalletBalance(ctx, "w1", -250); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	got, _ = repo.GetWallet(ctx, "w1")
	if got.Balance.Cents != 750 {
		t.Fatalf("balance after adjust: got %d", got.Balance.Cents)
	}

	if err := repo.AdjustWalletBalance(ctx, "nope", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	when := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	tx := core.Transaction{
		ID:                "t1",
		Type:              core.Expense,
		Amount:            core.CentsOf(1234),
		WalletID:          "w1",
		AffectedWalletIDs: []string{"w2"},
		Tags:              []string{"food"},
		TransactionDate:   &when,
		CreatedAt:         time.Now(),
	}
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetTransaction(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Type != core.Expense || got.Amount.Cents != 1234 || got.WalletID != "w1" {
		t.Fatalf("got %+v", got)
	}
	if got.TransactionDate == nil || !got.TransactionDate.Equal(when) {
		t.Fatalf("transaction date: got %v", got.TransactionDate)
	}
	if len(got.AffectedWalletIDs) != 1 || got.AffectedWalletIDs[0] != "w2" {
		t.Fatalf("affected wallets: got %v", got.AffectedWalletIDs)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "food" {
		t.Fatalf("tags: got %v", got.Tags)
	}

	// Undated transactions keep a nil date through the round trip.
	undated := core.Transaction{ID: "t2", Type: core.Income, Amount: core.CentsOf(1), WalletID: "w1", CreatedAt: time.Now()}
	if err := repo.CreateTransaction(ctx, undated); err != nil {
		t.Fatalf("create undated: %v", err)
	}
	got, _ = repo.GetTransaction(ctx, "t2")
	if got.TransactionDate != nil {
		t.Fatalf("expected nil date, got %v", got.TransactionDate)
	}
}

func TestListTransactionsInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	same := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"first", "second", "third"} {
		tx := core.Transaction{ID: id, Type: core.Income, Amount: core.CentsOf(1), WalletID: "w", TransactionDate: &same, CreatedAt: time.Now()}
		if err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 3 || txs[0].ID != "first" || txs[1].ID != "second" || txs[2].ID != "third" {
		t.Fatalf("insertion order lost: %v", []string{txs[0].ID, txs[1].ID, txs[2].ID})
	}
}

func TestSoftDeleteTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := core.Transaction{ID: "t1", Type: core.Income, Amount: core.CentsOf(100), WalletID: "w1", CreatedAt: time.Now()}
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SoftDeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.SoftDeleteTransaction(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete must be ErrNotFound, got %v", err)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("deleted transaction still listed: %v", txs)
	}
}
