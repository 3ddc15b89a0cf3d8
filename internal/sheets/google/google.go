package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chickenkeeper/internal/amqp"
	applog "chickenkeeper/internal/log"
	ports "chickenkeeper/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client appends ledger entries to a Google Sheets spreadsheet using a
// service account.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ ports.LedgerWriter = (*Client)(nil)

// New creates a Sheets client authenticated with a service account
// credentials file.
func New(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsFile(credentialsFile),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created",
		applog.FieldComponent, applog.ComponentSheets,
		"spreadsheet_id", spreadsheetID,
		applog.FieldSheetRef, sheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append writes the ledger entry as one row at the bottom of the sheet.
// Columns: Date, Kind, Eggs sold, Price per dozen, Amount, Category.
func (c *Client) Append(ctx context.Context, entry amqp.LedgerEntryMessage) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row by reading the key column first.
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get sheet dimensions for %s: %w", c.sheetName, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:F%d", c.sheetName, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{rowValues(entry)}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", dataRange, err)
	}

	return dataRange, nil
}

// rowValues shapes the entry into sheet columns. Income rows carry the egg
// figures and the derived total in the Amount column; expense rows carry the
// amount and category.
func rowValues(entry amqp.LedgerEntryMessage) []any {
	date := entry.Date.Format("2006-01-02")
	switch entry.Kind {
	case amqp.KindIncome:
		return []any{date, string(entry.Kind), entry.EggsSold, entry.PricePerDozen, entry.Total, ""}
	default:
		return []any{date, string(entry.Kind), "", "", entry.Amount, entry.Category}
	}
}
