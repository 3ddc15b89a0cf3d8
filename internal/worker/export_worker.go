package worker

import (
	"context"
	"fmt"
	"log/slog"

	"chickenkeeper/internal/amqp"
	applog "chickenkeeper/internal/log"
	"chickenkeeper/internal/sheets"
)

// ExportWorker appends ledger entries received over AMQP to the export sheet.
// Messages are self-contained, so the worker never reads the tracker's store.
type ExportWorker struct {
	writer sheets.LedgerWriter
}

func NewExportWorker(writer sheets.LedgerWriter) *ExportWorker {
	return &ExportWorker{writer: writer}
}

// HandleLedgerEntry processes a single ledger entry message from AMQP.
func (w *ExportWorker) HandleLedgerEntry(ctx context.Context, msg *amqp.LedgerEntryMessage) error {
	slog.InfoContext(ctx, "Processing ledger entry",
		applog.FieldComponent, applog.ComponentExporter,
		"kind", msg.Kind,
		applog.FieldRecordID, msg.ID)

	if w.writer == nil {
		slog.WarnContext(ctx, "No ledger writer configured, skipping export",
			applog.FieldComponent, applog.ComponentExporter,
			applog.FieldRecordID, msg.ID)
		return nil
	}

	rowRef, err := w.writer.Append(ctx, *msg)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to export ledger entry",
			applog.FieldComponent, applog.ComponentExporter,
			"kind", msg.Kind,
			applog.FieldRecordID, msg.ID,
			applog.FieldError, err)
		return fmt.Errorf("append ledger entry: %w", err)
	}

	slog.InfoContext(ctx, "Exported ledger entry",
		applog.FieldComponent, applog.ComponentExporter,
		"kind", msg.Kind,
		applog.FieldRecordID, msg.ID,
		applog.FieldSheetRef, rowRef)

	return nil
}
