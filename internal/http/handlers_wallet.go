package http

import (
	"errors"
	"log/slog"
	"net/http"

	"moneta/internal/core"
	"moneta/internal/storage"
)

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	wallet, err := req.toWallet()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.CreateWallet(r.Context(), wallet)
	if err != nil {
		if isValidationError(err) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Wallet create error", "error", err, "name", wallet.Name)
		writeError(w, r, http.StatusInternalServerError, "failed to create wallet")
		return
	}

	// An opening balance lands as a dated transaction.
	if !created.InitialBalance.IsZero() {
		s.monthsCache.Delete(s.monthsCacheKey(created.CreatedAt.Year()))
	}

	writeJSON(w, r, http.StatusCreated, toWalletRecord(created))
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.ledger.ListWallets(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Wallet list error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to list wallets")
		return
	}

	records := make([]walletRecord, 0, len(wallets))
	for _, wallet := range wallets {
		records = append(records, toWalletRecord(wallet))
	}
	writeJSON(w, r, http.StatusOK, records)
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.ledger.GetWallet(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "wallet not found")
			return
		}
		slog.ErrorContext(r.Context(), "Wallet get error", "error", err, "id", r.PathValue("id"))
		writeError(w, r, http.StatusInternalServerError, "failed to load wallet")
		return
	}
	writeJSON(w, r, http.StatusOK, toWalletRecord(wallet))
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteWallet(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "wallet not found")
			return
		}
		slog.ErrorContext(r.Context(), "Wallet delete error", "error", err, "id", r.PathValue("id"))
		writeError(w, r, http.StatusInternalServerError, "failed to delete wallet")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWalletSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	walletID := r.PathValue("id")
	summary, skipped, err := s.reports.WalletSummary(r.Context(), walletID, period)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "wallet not found")
			return
		}
		if errors.Is(err, core.ErrInvalidPeriod) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Wallet summary error",
			"error", err, "wallet_id", walletID, "period", period.String())
		writeError(w, r, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	writeJSON(w, r, http.StatusOK, summaryResponse{
		WalletID:         walletID,
		Period:           period.String(),
		Income:           summary.Income.String(),
		Expenses:         summary.Expenses.String(),
		NetChange:        summary.NetChange.String(),
		TransactionCount: summary.TransactionCount,
		TransfersIn:      summary.TransfersIn,
		TransfersOut:     summary.TransfersOut,
		Skipped:          skipped,
	})
}

// isValidationError reports whether the error comes from domain
// validation rather than infrastructure.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidWalletType) ||
		errors.Is(err, core.ErrMissingWallet) ||
		errors.Is(err, core.ErrSameTransferWallet) ||
		errors.Is(err, core.ErrEmptyName)
}
