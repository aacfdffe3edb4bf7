// Package google exports month overviews to a Google Sheets spreadsheet.
//
// The sheet layout is one row per month: key (YYYY-MM), income, expenses,
// net, and the expense tag breakdown as "tag=amount" pairs. Writes are
// keyed upserts, so re-exporting a month replaces its row.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"moneta/internal/core"
	ports "moneta/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var (
	_ ports.OverviewWriter = (*Client)(nil)
	_ ports.OverviewReader = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SHEET_NAME (default "Overview"), plus one of
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS for auth.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Overview"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// WriteMonthOverview upserts the row for the overview's month.
func (c *Client) WriteMonthOverview(ctx context.Context, ov core.MonthOverview) error {
	key := monthKey(ov.Year, ov.Month)
	row := overviewToRow(ov)

	rowIndex, err := c.findRow(ctx, key)
	if err != nil {
		return fmt.Errorf("find row for %s: %w", key, err)
	}

	vr := &gsheet.ValueRange{Values: [][]any{row}}
	if rowIndex > 0 {
		rng := fmt.Sprintf("%s!A%d", c.sheetName, rowIndex)
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update row: %w", err)
		}
	} else {
		rng := fmt.Sprintf("%s!A:A", c.sheetName)
		_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
			ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	slog.InfoContext(ctx, "Month overview exported",
		"sheets_ref", key,
		"income_cents", ov.Income.Cents,
		"expenses_cents", ov.Expenses.Cents)
	return nil
}

// ReadMonthOverview loads a previously exported row.
func (c *Client) ReadMonthOverview(ctx context.Context, year int, month time.Month) (core.MonthOverview, error) {
	key := monthKey(year, month)
	rowIndex, err := c.findRow(ctx, key)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("find row for %s: %w", key, err)
	}
	if rowIndex == 0 {
		return core.MonthOverview{}, fmt.Errorf("month %s not exported", key)
	}

	rng := fmt.Sprintf("%s!A%d:E%d", c.sheetName, rowIndex, rowIndex)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("get row: %w", err)
	}
	if len(resp.Values) == 0 {
		return core.MonthOverview{}, fmt.Errorf("month %s not exported", key)
	}
	return rowToOverview(resp.Values[0])
}

// findRow returns the 1-based row whose first column equals key, or 0.
func (c *Client) findRow(ctx context.Context, key string) (int, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read key column: %w", err)
	}
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if cell, ok := row[0].(string); ok && strings.TrimSpace(cell) == key {
			return i + 1, nil
		}
	}
	return 0, nil
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
