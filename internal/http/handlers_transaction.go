package http

import (
	"errors"
	"log/slog"
	"net/http"

	"moneta/internal/storage"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := req.toTransaction()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.RecordTransaction(r.Context(), tx)
	if err != nil {
		if isValidationError(err) || errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Transaction create error",
			"error", err, "type", string(tx.Type), "amount_cents", tx.Amount.Cents)
		writeError(w, r, http.StatusInternalServerError, "failed to record transaction")
		return
	}

	s.invalidateMonths(created)
	writeJSON(w, r, http.StatusCreated, toTransactionRecord(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	records := make([]transactionRecord, 0, len(txs))
	for _, tx := range txs {
		records = append(records, toTransactionRecord(tx))
	}
	writeJSON(w, r, http.StatusOK, records)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Transaction get error", "error", err, "id", r.PathValue("id"))
		writeError(w, r, http.StatusInternalServerError, "failed to load transaction")
		return
	}
	writeJSON(w, r, http.StatusOK, toTransactionRecord(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Load first so the cache invalidation knows the affected year.
	tx, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Transaction load error", "error", err, "id", id)
		writeError(w, r, http.StatusInternalServerError, "failed to load transaction")
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
		writeError(w, r, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateMonths(tx)
	w.WriteHeader(http.StatusNoContent)
}
