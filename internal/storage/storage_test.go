package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"chickenkeeper/internal/core"
	applog "chickenkeeper/internal/log"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "chickenkeeper.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_ReminderRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := []core.Reminder{
		{
			ID:       "r1",
			Title:    "Morning feeding",
			Type:     core.TypeFeed,
			Due:      time.Date(2026, 4, 2, 7, 30, 0, 0, time.UTC),
			Repeat:   core.RepeatDaily,
			Notes:    "layer pellets",
			Priority: core.PriorityHigh,
		},
		{
			ID:        "r2",
			Title:     "Vaccinate new hens",
			Type:      core.TypeVaccine,
			Due:       time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
			Repeat:    core.RepeatNone,
			Priority:  core.PriorityMedium,
			Completed: true,
		},
	}

	if err := s.SaveReminders(ctx, want); err != nil {
		t.Fatalf("SaveReminders() error = %v", err)
	}

	got, res := s.LoadReminders(ctx)
	if res.Status != LoadOK {
		t.Fatalf("LoadReminders() status = %v, want LoadOK", res.Status)
	}
	if len(got) != len(want) {
		t.Fatalf("LoadReminders() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Title != want[i].Title ||
			got[i].Type != want[i].Type || got[i].Repeat != want[i].Repeat ||
			got[i].Priority != want[i].Priority || got[i].Completed != want[i].Completed ||
			!got[i].Due.Equal(want[i].Due) {
			t.Errorf("reminder %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSQLiteStore_IncomeAndExpenseRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	incomes := []core.Income{
		{ID: "i1", Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), EggsSold: 36, PricePerDozen: 5},
	}
	expenses := []core.Expense{
		{ID: "e1", Date: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), Amount: 12.5, Category: core.CategoryBedding},
	}

	if err := s.SaveIncomes(ctx, incomes); err != nil {
		t.Fatalf("SaveIncomes() error = %v", err)
	}
	if err := s.SaveExpenses(ctx, expenses); err != nil {
		t.Fatalf("SaveExpenses() error = %v", err)
	}

	gotIn, res := s.LoadIncomes(ctx)
	if res.Status != LoadOK || len(gotIn) != 1 {
		t.Fatalf("LoadIncomes() = (%d records, %v)", len(gotIn), res.Status)
	}
	if gotIn[0].EggsSold != 36 || gotIn[0].PricePerDozen != 5 {
		t.Errorf("income = %+v, want eggs 36 price 5", gotIn[0])
	}

	gotEx, res := s.LoadExpenses(ctx)
	if res.Status != LoadOK || len(gotEx) != 1 {
		t.Fatalf("LoadExpenses() = (%d records, %v)", len(gotEx), res.Status)
	}
	if gotEx[0].Category != core.CategoryBedding || gotEx[0].Amount != 12.5 {
		t.Errorf("expense = %+v, want Bedding 12.5", gotEx[0])
	}
}

func TestSQLiteStore_SaveOverwritesSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveExpenses(ctx, []core.Expense{{ID: "e1", Date: time.Now(), Amount: 1, Category: core.CategoryFeed}}); err != nil {
		t.Fatalf("SaveExpenses() error = %v", err)
	}
	if err := s.SaveExpenses(ctx, nil); err != nil {
		t.Fatalf("SaveExpenses(nil) error = %v", err)
	}

	got, res := s.LoadExpenses(ctx)
	if res.Status != LoadOK {
		t.Fatalf("LoadExpenses() status = %v, want LoadOK", res.Status)
	}
	if len(got) != 0 {
		t.Errorf("LoadExpenses() len = %d, want 0 after overwrite", len(got))
	}
}

func TestSQLiteStore_MissingSlotIsEmpty(t *testing.T) {
	s := newTestStore(t)

	got, res := s.LoadReminders(context.Background())
	if res.Status != LoadEmpty {
		t.Errorf("LoadReminders() status = %v, want LoadEmpty", res.Status)
	}
	if len(got) != 0 {
		t.Errorf("LoadReminders() len = %d, want 0", len(got))
	}
}

// slotRecorder captures log records so the corrupt-slot test can assert
// which slot was reported.
type slotRecorder struct {
	attrs []map[string]any
}

func (h *slotRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *slotRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := map[string]any{}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	h.attrs = append(h.attrs, attrs)
	return nil
}

func (h *slotRecorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *slotRecorder) WithGroup(string) slog.Handler { return h }

func TestSQLiteStore_CorruptSlotDegradesToEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recorder := &slotRecorder{}
	prev := slog.Default()
	slog.SetDefault(slog.New(recorder))
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (name, payload, updated_at) VALUES (?, ?, ?)`,
		SlotIncomes, `{"not": "a collection`, "2026-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("plant corrupt payload: %v", err)
	}

	got, res := s.LoadIncomes(ctx)
	if res.Status != LoadCorrupt {
		t.Fatalf("LoadIncomes() status = %v, want LoadCorrupt", res.Status)
	}
	if res.Reason == "" {
		t.Error("LoadCorrupt result missing reason")
	}
	if len(got) != 0 {
		t.Errorf("LoadIncomes() len = %d, want empty collection on corrupt blob", len(got))
	}

	var logged bool
	for _, attrs := range recorder.attrs {
		if attrs[applog.FieldSlot] == SlotIncomes && attrs[applog.FieldComponent] == applog.ComponentStorage {
			logged = true
		}
	}
	if !logged {
		t.Error("corrupt slot was not reported with slot and component fields")
	}
}
