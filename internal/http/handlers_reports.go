package http

import (
	"log/slog"
	"net/http"
	"strings"

	"moneta/internal/core"
)

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	cutoff, err := parseCutoffParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	balances, skipped, err := s.reports.Balances(r.Context(), cutoff)
	if err != nil {
		slog.ErrorContext(r.Context(), "Balances error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to compute balances")
		return
	}

	writeJSON(w, r, http.StatusOK, balancesResponse{
		At:       cutoff,
		Balances: toBalanceRecords(balances),
		Skipped:  skipped,
	})
}

func (s *Server) handleTagBreakdown(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	typeFilter := core.Expense
	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		typeFilter = core.TransactionType(v)
		if typeFilter != core.Income && typeFilter != core.Expense {
			writeError(w, r, http.StatusBadRequest, "type must be income or expense")
			return
		}
	}

	buckets, skipped, err := s.reports.TagBreakdown(r.Context(), period, typeFilter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Tag breakdown error",
			"error", err, "period", period.String(), "type", string(typeFilter))
		writeError(w, r, http.StatusInternalServerError, "failed to compute tag breakdown")
		return
	}

	writeJSON(w, r, http.StatusOK, tagsResponse{
		Period:  period.String(),
		Type:    string(typeFilter),
		ByTag:   toTagAmountRecords(buckets),
		Skipped: skipped,
	})
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.monthlyOverviews(r.Context(), year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly overviews error", "error", err, "year", year)
		writeError(w, r, http.StatusInternalServerError, "failed to compute monthly overviews")
		return
	}

	months := make([]monthRecord, 0, len(result.overviews))
	for _, ov := range result.overviews {
		months = append(months, toMonthRecord(ov))
	}
	writeJSON(w, r, http.StatusOK, monthsResponse{
		Year:    year,
		Months:  months,
		Skipped: result.skipped,
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	cutoff, err := parseCutoffParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	slices, skipped, err := s.reports.Portfolio(r.Context(), cutoff)
	if err != nil {
		slog.ErrorContext(r.Context(), "Portfolio error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to compute portfolio")
		return
	}

	records := make([]assetSliceRecord, 0, len(slices))
	for _, slice := range slices {
		records = append(records, assetSliceRecord{
			Form:    string(slice.Form),
			Total:   slice.Total.String(),
			Wallets: slice.Wallets,
		})
	}
	writeJSON(w, r, http.StatusOK, portfolioResponse{
		At:      cutoff,
		Slices:  records,
		Skipped: skipped,
	})
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	balances, skipped, err := s.reports.BudgetBalances(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget balances error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to compute budget balances")
		return
	}

	writeJSON(w, r, http.StatusOK, balancesResponse{
		Balances: toBalanceRecords(balances),
		Skipped:  skipped,
	})
}
