package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"chickenkeeper/internal/amqp"
	"chickenkeeper/internal/core"
	"chickenkeeper/internal/sheets/memory"
)

func TestExportWorker_HandleLedgerEntry(t *testing.T) {
	store := memory.New()
	w := NewExportWorker(store)

	income := core.Income{
		ID:            core.NewID(),
		Date:          time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EggsSold:      24,
		PricePerDozen: 6.00,
	}
	msg := amqp.NewIncomeMessage(income)

	if err := w.HandleLedgerEntry(context.Background(), msg); err != nil {
		t.Fatalf("HandleLedgerEntry() error = %v", err)
	}

	entries := store.Entries()
	if len(entries) != 1 {
		t.Fatalf("appended %d entries, want 1", len(entries))
	}
	if entries[0].Total != 12.00 {
		t.Errorf("Total = %v, want 12.00", entries[0].Total)
	}
}

func TestExportWorker_NilWriterSkips(t *testing.T) {
	w := NewExportWorker(nil)
	msg := amqp.NewExpenseMessage(core.Expense{
		ID:       core.NewID(),
		Date:     time.Now(),
		Amount:   5,
		Category: core.CategoryFeed,
	})
	if err := w.HandleLedgerEntry(context.Background(), msg); err != nil {
		t.Fatalf("HandleLedgerEntry() with nil writer error = %v, want nil", err)
	}
}

type failingWriter struct{}

func (failingWriter) Append(context.Context, amqp.LedgerEntryMessage) (string, error) {
	return "", errors.New("sheet unavailable")
}

func TestExportWorker_WriterErrorSurfaces(t *testing.T) {
	w := NewExportWorker(failingWriter{})
	msg := amqp.NewExpenseMessage(core.Expense{
		ID:       core.NewID(),
		Date:     time.Now(),
		Amount:   5,
		Category: core.CategoryFeed,
	})
	if err := w.HandleLedgerEntry(context.Background(), msg); err == nil {
		t.Fatal("HandleLedgerEntry() error = nil, want writer error")
	}
}
