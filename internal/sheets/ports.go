package sheets

import (
	"context"
	"time"

	"moneta/internal/core"
)

// Ports for outbound report export adapters.
type (
	// OverviewWriter upserts one month-overview row in the export target.
	// Writing the same month twice replaces the row; export is therefore
	// idempotent and safe to retry.
	OverviewWriter interface {
		WriteMonthOverview(ctx context.Context, ov core.MonthOverview) error
	}

	// OverviewReader reads back an exported month overview.
	OverviewReader interface {
		ReadMonthOverview(ctx context.Context, year int, month time.Month) (core.MonthOverview, error)
	}
)
