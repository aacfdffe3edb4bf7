package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/services"
	"moneta/internal/sheets"
)

// ExportWorker keeps the external month-overview export in step with the
// ledger. It reacts to change messages from AMQP and recomputes the affected
// month from scratch, so a lost or reordered message can only delay an
// export, never corrupt it.
type ExportWorker struct {
	reports   *services.ReportService
	writer    sheets.OverviewWriter
	batchSize int
}

func NewExportWorker(reports *services.ReportService, writer sheets.OverviewWriter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 12
	}
	return &ExportWorker{
		reports:   reports,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleChangeMessage processes a single ledger change message from AMQP.
func (w *ExportWorker) HandleChangeMessage(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"transaction_id", msg.TransactionID,
		"change", msg.Change,
		"year", msg.Year,
		"month", msg.Month)

	// An undated entry is invisible to month overviews, so there is
	// nothing to recompute.
	if !msg.Dated() {
		slog.InfoContext(ctx, "Change is undated, no overview affected",
			"transaction_id", msg.TransactionID)
		return nil
	}

	return w.exportMonth(ctx, msg.Year, time.Month(msg.Month))
}

// exportMonth recomputes one month overview from the full history and
// upserts it in the export target.
func (w *ExportWorker) exportMonth(ctx context.Context, year int, month time.Month) error {
	overview, skipped, err := w.reports.MonthOverview(ctx, year, month)
	if err != nil {
		return fmt.Errorf("compute overview %04d-%02d: %w", year, int(month), err)
	}
	if len(skipped) > 0 {
		slog.WarnContext(ctx, "Skipped malformed transactions during export",
			"year", year, "month", int(month), "skipped", skipped)
	}

	if err := w.writer.WriteMonthOverview(ctx, overview); err != nil {
		return fmt.Errorf("write overview %04d-%02d: %w", year, int(month), err)
	}

	slog.InfoContext(ctx, "Exported month overview",
		"year", year,
		"month", int(month),
		"income_cents", overview.Income.Cents,
		"expenses_cents", overview.Expenses.Cents)

	return nil
}

// StartupExportCheck re-exports the most recent months with activity. It
// recovers from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	now := time.Now()

	months, err := w.recentMonths(ctx, now.Year())
	if err != nil {
		return fmt.Errorf("startup export check: %w", err)
	}
	if len(months) == 0 {
		slog.InfoContext(ctx, "No months with activity found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Re-exporting recent months on startup", "count", len(months))

	errorCount := 0
	for _, m := range months {
		if err := w.exportMonth(ctx, m.Year, m.Month); err != nil {
			slog.ErrorContext(ctx, "Failed to export month during startup",
				"year", m.Year, "month", int(m.Month), "error", err)
			errorCount++
		}
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(months),
		"errors", errorCount)

	if errorCount == len(months) {
		return fmt.Errorf("startup export: all %d months failed", errorCount)
	}
	return nil
}

// PeriodicExport refreshes the current and previous month. It is cheap
// enough to run on a timer as a safety net behind the message flow.
func (w *ExportWorker) PeriodicExport(ctx context.Context) error {
	now := time.Now()
	prev := now.AddDate(0, -1, 0)

	if err := w.exportMonth(ctx, prev.Year(), prev.Month()); err != nil {
		return err
	}
	return w.exportMonth(ctx, now.Year(), now.Month())
}

// recentMonths returns up to batchSize year+month pairs with activity,
// newest first, looking at the current and previous year.
func (w *ExportWorker) recentMonths(ctx context.Context, year int) ([]core.MonthOverview, error) {
	var months []core.MonthOverview
	for _, y := range []int{year, year - 1} {
		overviews, _, err := w.reports.MonthlyOverviews(ctx, y)
		if err != nil {
			return nil, fmt.Errorf("overviews for %d: %w", y, err)
		}
		months = append(months, overviews...)
	}

	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})

	if len(months) > w.batchSize {
		months = months[:w.batchSize]
	}
	return months, nil
}
