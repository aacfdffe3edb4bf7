package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/ledger"
	applog "moneta/internal/log"
	"moneta/internal/storage"
)

// OpeningBalanceTag marks the synthetic income entry recorded when a wallet
// is created with a nonzero initial balance. Storing the opening amount as a
// regular transaction keeps point-in-time reconstruction consistent with the
// cached balance: replay starts from zero and still accounts for every cent.
const OpeningBalanceTag = "opening balance"

// LedgerService orchestrates wallet and transaction writes across SQLite and
// AMQP. Writes land in SQLite first; the change message is published
// best-effort so a broker outage never fails the request.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateWallet persists a new wallet. A nonzero initial balance is recorded
// as an opening income transaction dated at creation time.
func (s *LedgerService) CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	w.Balance = w.InitialBalance

	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	if err := w.InitialBalance.Validate(); err != nil {
		return core.Wallet{}, fmt.Errorf("initial balance: %w", err)
	}

	if err := s.storage.CreateWallet(ctx, w); err != nil {
		return core.Wallet{}, fmt.Errorf("save wallet: %w", err)
	}

	if !w.InitialBalance.IsZero() {
		openedAt := w.CreatedAt
		opening := core.Transaction{
			ID:              uuid.NewString(),
			Type:            core.Income,
			Amount:          w.InitialBalance,
			WalletID:        w.ID,
			Tags:            []string{OpeningBalanceTag},
			TransactionDate: &openedAt,
			CreatedAt:       w.CreatedAt,
		}
		if err := s.storage.CreateTransaction(ctx, opening); err != nil {
			return core.Wallet{}, fmt.Errorf("save opening balance: %w", err)
		}
		s.publishChange(ctx, opening, amqp.ChangeCreated)
	}

	return w, nil
}

func (s *LedgerService) GetWallet(ctx context.Context, id string) (core.Wallet, error) {
	return s.storage.GetWallet(ctx, id)
}

func (s *LedgerService) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	return s.storage.ListWallets(ctx)
}

func (s *LedgerService) DeleteWallet(ctx context.Context, id string) error {
	return s.storage.DeleteWallet(ctx, id)
}

// RecordTransaction validates, persists and publishes a ledger entry, and
// keeps the cached wallet balances in step.
func (s *LedgerService) RecordTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.Tags = core.NormalizeTags(t.Tags)

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	// Referenced wallets must exist before anything is written, so a bad
	// reference cannot leave cached balances half-applied.
	if err := s.checkWalletRefs(ctx, t); err != nil {
		return core.Transaction{}, err
	}

	if err := s.storage.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.applyToCachedBalances(ctx, t, 1); err != nil {
		return core.Transaction{}, fmt.Errorf("update cached balances: %w", err)
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogTransactionCreated(ctx, t.ID, string(t.Type), t.Amount.Cents, t.WalletID)

	s.publishChange(ctx, t, amqp.ChangeCreated)

	return t, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

// DeleteTransaction soft deletes an entry and reverses its effect on the
// cached balances.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	t, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	if err := s.storage.SoftDeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}

	if err := s.applyToCachedBalances(ctx, t, -1); err != nil {
		return fmt.Errorf("update cached balances: %w", err)
	}

	s.publishChange(ctx, t, amqp.ChangeDeleted)

	return nil
}

// checkWalletRefs verifies every wallet the entry references.
func (s *LedgerService) checkWalletRefs(ctx context.Context, t core.Transaction) error {
	var ids []string
	switch t.Type {
	case core.Transfer:
		ids = []string{t.SourceWalletID, t.DestinationWalletID}
	default:
		ids = ledger.TargetWallets(t)
	}
	for _, id := range ids {
		if _, err := s.storage.GetWallet(ctx, id); err != nil {
			return fmt.Errorf("wallet %s: %w", id, err)
		}
	}
	return nil
}

// applyToCachedBalances adjusts every wallet the entry touches by its signed
// effect. sign is +1 on create and -1 on delete.
func (s *LedgerService) applyToCachedBalances(ctx context.Context, t core.Transaction, sign int64) error {
	adjust := func(walletID string, deltaCents int64) error {
		if err := s.storage.AdjustWalletBalance(ctx, walletID, deltaCents); err != nil {
			return fmt.Errorf("wallet %s: %w", walletID, err)
		}
		return nil
	}

	switch t.Type {
	case core.Income:
		for _, id := range ledger.TargetWallets(t) {
			if err := adjust(id, sign*t.Amount.Cents); err != nil {
				return err
			}
		}
	case core.Expense:
		for _, id := range ledger.TargetWallets(t) {
			if err := adjust(id, -sign*t.Amount.Cents); err != nil {
				return err
			}
		}
	case core.Transfer:
		if err := adjust(t.SourceWalletID, -sign*t.Amount.Cents); err != nil {
			return err
		}
		if err := adjust(t.DestinationWalletID, sign*t.Amount.Cents); err != nil {
			return err
		}
	default:
		return core.ErrInvalidType
	}

	return nil
}

func (s *LedgerService) publishChange(ctx context.Context, t core.Transaction, change string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping change message",
			"transaction_id", t.ID)
		return
	}

	year, month := 0, 0
	if t.TransactionDate != nil {
		year, month = t.TransactionDate.Year(), int(t.TransactionDate.Month())
	}

	msg := amqp.NewLedgerChangeMessage(t.ID, change, year, month)
	if err := s.amqpClient.PublishLedgerChange(ctx, msg); err != nil {
		// Don't fail the request - the write is already durable locally
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx,
			"Failed to publish change message", err, applog.ComponentAMQP, applog.OpSync,
			applog.NewFields().WithTransaction(t.ID, string(t.Type), t.Amount.Cents, t.WalletID))
	}
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
