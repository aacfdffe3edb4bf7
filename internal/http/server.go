package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"moneta/internal/cache"
	"moneta/internal/core"
	applog "moneta/internal/log"
	"moneta/internal/middleware/trace"
	"moneta/internal/services"
)

// monthsResult is what the per-year report cache stores: the computed
// overviews plus the malformed-entry ids surfaced during the replay.
type monthsResult struct {
	overviews []core.MonthOverview
	skipped   []string
}

type Server struct {
	http.Server

	ledger  *services.LedgerService
	reports *services.ReportService

	rateLimiter *rateLimiter
	tracer      *trace.Middleware

	// Month overviews are the only cached report: they replay the whole
	// history and are hit hardest by dashboards. Keyed by year,
	// invalidated on any write dated in that year.
	monthsCache  *cache.LRUCache[monthsResult]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, ledger *services.LedgerService, reports *services.ReportService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		ledger:       ledger,
		reports:      reports,
		rateLimiter:  newRateLimiter(),
		tracer:       trace.NewMiddleware(clientIP),
		monthsCache:  cache.NewLRUCache[monthsResult](50, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.monthsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/wallets", s.handleCreateWallet)
	mux.HandleFunc("GET /api/wallets", s.handleListWallets)
	mux.HandleFunc("GET /api/wallets/{id}", s.handleGetWallet)
	mux.HandleFunc("DELETE /api/wallets/{id}", s.handleDeleteWallet)
	mux.HandleFunc("GET /api/wallets/{id}/summary", s.handleWalletSummary)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/balances", s.handleBalances)
	mux.HandleFunc("GET /api/reports/tags", s.handleTagBreakdown)
	mux.HandleFunc("GET /api/reports/months", s.handleMonths)
	mux.HandleFunc("GET /api/reports/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /api/reports/budgets", s.handleBudgets)

	// Request flow: trace assigns the request ID, then a component logger
	// carrying that ID is attached for the handlers and services below.
	appLogger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	withLogger := applog.Middleware(appLogger)
	withRequestID := applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(withLogger(withRequestID(s.withAPIHeaders(mux)))),
	}

	return s
}

// withAPIHeaders applies rate limiting to writes and baseline security
// headers to everything.
func (s *Server) withAPIHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			ip := clientIP(r)
			if !s.rateLimiter.allow(ip) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", ip, "method", r.Method, "url", r.URL.Path,
					"rejected_total", s.rateLimiter.rejectedTotal())
				w.Header().Set("Retry-After", "60")
				writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) monthsCacheKey(year int) string {
	return strconv.Itoa(year)
}

// invalidateMonths drops the cached overviews for the year a write landed
// in. Undated entries never appear in month overviews, so they skip this.
func (s *Server) invalidateMonths(t core.Transaction) {
	if t.TransactionDate == nil {
		return
	}
	s.monthsCache.Delete(s.monthsCacheKey(t.TransactionDate.Year()))
}

func (s *Server) monthlyOverviews(ctx context.Context, year int) (monthsResult, error) {
	key := s.monthsCacheKey(year)
	if cached, found := s.monthsCache.Get(key); found {
		slog.DebugContext(ctx, "Months cache hit", "year", year)
		return cached, nil
	}

	overviews, skipped, err := s.reports.MonthlyOverviews(ctx, year)
	if err != nil {
		return monthsResult{}, err
	}

	result := monthsResult{overviews: overviews, skipped: skipped}
	s.monthsCache.Set(key, result)
	return result, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
