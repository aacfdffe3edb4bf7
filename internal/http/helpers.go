package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moneta/internal/core"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response",
			"error", err, "url", r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// decodeJSON reads a request body into dst, rejecting unknown fields so
// typos surface as 400s instead of silently-dropped data.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parsePeriodParam reads the "period" query parameter ("all", "2025",
// "2025-03"). Missing means all time.
func parsePeriodParam(r *http.Request) (core.Period, error) {
	v := strings.TrimSpace(r.URL.Query().Get("period"))
	if v == "" {
		return core.AllTimePeriod(), nil
	}
	return core.ParsePeriod(v)
}

// parseCutoffParam reads the optional "at" query parameter as RFC 3339.
// Nil means now.
func parseCutoffParam(r *http.Request) (*time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get("at"))
	if v == "" {
		return nil, nil
	}
	at, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid cutoff %q: expected RFC 3339", v)
	}
	return &at, nil
}

// parseYearParam reads the "year" query parameter, defaulting to the
// current year.
func parseYearParam(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("year"))
	if v == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", v)
	}
	return year, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// clientIP extracts the caller address, trusting proxy headers first.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
