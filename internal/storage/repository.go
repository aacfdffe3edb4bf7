// Package storage is the persistence collaborator: it materializes
// immutable wallet/transaction snapshots for the ledger engine and keeps
// the cached wallet balances that back all-time queries.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"moneta/internal/core"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateWallet(ctx context.Context, w core.Wallet) error {
	if err := w.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (id, name, wallet_type, physical_form, initial_balance_cents, balance_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, string(w.Type), string(w.PhysicalForm),
		w.InitialBalance.Cents, w.Balance.Cents, formatTime(w.CreatedAt))
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}

	slog.InfoContext(ctx, "Wallet saved",
		"wallet_id", w.ID,
		"name", w.Name,
		"wallet_type", string(w.Type))
	return nil
}

func (r *SQLiteRepository) GetWallet(ctx context.Context, id string) (core.Wallet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, wallet_type, physical_form, initial_balance_cents, balance_cents, created_at
		FROM wallets WHERE id = ? AND deleted_at IS NULL`, id)
	return scanWallet(row)
}

// ListWallets returns the live wallet snapshot, oldest first.
func (r *SQLiteRepository) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, wallet_type, physical_form, initial_balance_cents, balance_cents, created_at
		FROM wallets WHERE deleted_at IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []core.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// AdjustWalletBalance moves the cached balance by deltaCents. The service
// layer calls this after persisting a transaction so all-time queries can
// skip replay.
func (r *SQLiteRepository) AdjustWalletBalance(ctx context.Context, walletID string, deltaCents int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wallets SET balance_cents = balance_cents + ?
		WHERE id = ? AND deleted_at IS NULL`, deltaCents, walletID)
	if err != nil {
		return fmt.Errorf("adjust wallet balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust wallet balance: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteWallet(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wallets SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	affected, err := json.Marshal(emptyAsList(t.AffectedWalletIDs))
	if err != nil {
		return fmt.Errorf("marshal affected wallets: %w", err)
	}
	tags, err := json.Marshal(emptyAsList(t.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, tx_type, amount_cents, wallet_id, affected_wallet_ids,
			 source_wallet_id, destination_wallet_id, tags, transaction_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.Amount.Cents, t.WalletID, string(affected),
		t.SourceWalletID, t.DestinationWalletID, string(tags),
		formatNullableTime(t.TransactionDate), formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"transaction_type", string(t.Type),
		"amount_cents", t.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tx_type, amount_cents, wallet_id, affected_wallet_ids,
		       source_wallet_id, destination_wallet_id, tags, transaction_date, created_at
		FROM transactions WHERE id = ? AND deleted_at IS NULL`, id)
	return scanTransaction(row)
}

// ListTransactions returns the live transaction snapshot in insertion
// order, which is the ordering the replay tie-break depends on.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tx_type, amount_cents, wallet_id, affected_wallet_ids,
		       source_wallet_id, destination_wallet_id, tags, transaction_date, created_at
		FROM transactions WHERE deleted_at IS NULL ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// SoftDeleteTransaction hides a transaction from all snapshots. Replacing
// a transaction is delete + recreate; records are never updated in place.
func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction soft deleted", "transaction_id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (core.Wallet, error) {
	var (
		w         core.Wallet
		wType     string
		form      string
		initial   int64
		balance   int64
		createdAt string
	)
	err := row.Scan(&w.ID, &w.Name, &wType, &form, &initial, &balance, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wallet{}, ErrNotFound
	}
	if err != nil {
		return core.Wallet{}, fmt.Errorf("scan wallet: %w", err)
	}
	w.Type = core.WalletType(wType)
	w.PhysicalForm = core.PhysicalForm(form)
	w.InitialBalance = core.CentsOf(initial)
	w.Balance = core.CentsOf(balance)
	w.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return core.Wallet{}, fmt.Errorf("scan wallet created_at: %w", err)
	}
	return w, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		txType    string
		amount    int64
		affected  string
		tags      string
		txDate    sql.NullString
		createdAt string
	)
	err := row.Scan(&t.ID, &txType, &amount, &t.WalletID, &affected,
		&t.SourceWalletID, &t.DestinationWalletID, &tags, &txDate, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Type = core.TransactionType(txType)
	t.Amount = core.CentsOf(amount)
	if err := json.Unmarshal([]byte(affected), &t.AffectedWalletIDs); err != nil {
		return core.Transaction{}, fmt.Errorf("unmarshal affected wallets: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return core.Transaction{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	if len(t.AffectedWalletIDs) == 0 {
		t.AffectedWalletIDs = nil
	}
	if len(t.Tags) == 0 {
		t.Tags = nil
	}
	if txDate.Valid {
		parsed, err := parseTime(txDate.String)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("scan transaction_date: %w", err)
		}
		t.TransactionDate = &parsed
	}
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan created_at: %w", err)
	}
	return t, nil
}

func emptyAsList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
