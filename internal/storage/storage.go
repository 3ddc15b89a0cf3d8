// Package storage persists each record collection as a field-named JSON
// blob in a named SQLite slot. Decode problems never fail the caller: the
// collection degrades to empty and the outcome is reported through
// LoadResult so startup can at least log what happened.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"chickenkeeper/internal/core"
	applog "chickenkeeper/internal/log"

	_ "modernc.org/sqlite"
)

// Slot names. One durable slot per collection.
const (
	SlotReminders = "reminders"
	SlotIncomes   = "incomes"
	SlotExpenses  = "expenses"
)

type LoadStatus int

const (
	// LoadOK means the slot held a well-formed collection.
	LoadOK LoadStatus = iota
	// LoadEmpty means the slot has never been written.
	LoadEmpty
	// LoadCorrupt means the slot existed but could not be decoded; the
	// collection was reset to empty.
	LoadCorrupt
)

// LoadResult is the tagged outcome of a slot read. Reason is set only for
// LoadCorrupt.
type LoadResult struct {
	Status LoadStatus
	Reason string
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReminders implements store.Persister.
func (s *SQLiteStore) SaveReminders(ctx context.Context, reminders []core.Reminder) error {
	return s.saveSlot(ctx, SlotReminders, reminders)
}

// SaveIncomes implements store.Persister.
func (s *SQLiteStore) SaveIncomes(ctx context.Context, incomes []core.Income) error {
	return s.saveSlot(ctx, SlotIncomes, incomes)
}

// SaveExpenses implements store.Persister.
func (s *SQLiteStore) SaveExpenses(ctx context.Context, expenses []core.Expense) error {
	return s.saveSlot(ctx, SlotExpenses, expenses)
}

// LoadReminders reads the reminder slot. The slice is always usable; the
// result tells the caller whether the data was present, absent or reset.
func (s *SQLiteStore) LoadReminders(ctx context.Context) ([]core.Reminder, LoadResult) {
	var reminders []core.Reminder
	res := s.loadSlot(ctx, SlotReminders, &reminders)
	if res.Status != LoadOK {
		return nil, res
	}
	return reminders, res
}

func (s *SQLiteStore) LoadIncomes(ctx context.Context) ([]core.Income, LoadResult) {
	var incomes []core.Income
	res := s.loadSlot(ctx, SlotIncomes, &incomes)
	if res.Status != LoadOK {
		return nil, res
	}
	return incomes, res
}

func (s *SQLiteStore) LoadExpenses(ctx context.Context) ([]core.Expense, LoadResult) {
	var expenses []core.Expense
	res := s.loadSlot(ctx, SlotExpenses, &expenses)
	if res.Status != LoadOK {
		return nil, res
	}
	return expenses, res
}

func (s *SQLiteStore) saveSlot(ctx context.Context, slot string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO slots (name, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		slot, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}

	slog.DebugContext(ctx, "Collection persisted",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldSlot, slot,
		"bytes", len(payload))
	return nil
}

// loadSlot decodes a slot into dest. Any failure past "slot is absent"
// reports LoadCorrupt rather than an error; the stored blob stays in
// place for manual inspection.
func (s *SQLiteStore) loadSlot(ctx context.Context, slot string, dest any) LoadResult {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE name = ?`, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return LoadResult{Status: LoadEmpty}
	}
	if err != nil {
		slog.WarnContext(ctx, "Slot read failed, treating as corrupt",
			applog.FieldComponent, applog.ComponentStorage,
			applog.FieldSlot, slot,
			applog.FieldError, err)
		return LoadResult{Status: LoadCorrupt, Reason: err.Error()}
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		slog.WarnContext(ctx, "Slot payload undecodable, resetting collection to empty",
			applog.FieldComponent, applog.ComponentStorage,
			applog.FieldSlot, slot,
			applog.FieldError, err)
		return LoadResult{Status: LoadCorrupt, Reason: err.Error()}
	}

	return LoadResult{Status: LoadOK}
}
