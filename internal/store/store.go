// Package store holds the three in-memory record collections and pushes
// every mutation through the persistence port before returning.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"chickenkeeper/internal/core"
	applog "chickenkeeper/internal/log"
)

var ErrNotFound = errors.New("record not found")

// Persister is the outbound port the ledger writes through. Each call
// receives the full collection; the adapter owns serialization.
type Persister interface {
	SaveReminders(ctx context.Context, reminders []core.Reminder) error
	SaveIncomes(ctx context.Context, incomes []core.Income) error
	SaveExpenses(ctx context.Context, expenses []core.Expense) error
}

// Ledger owns the reminder, income and expense collections. Mutations are
// write-through: the affected collection is fully persisted before the
// call returns, so callers observe durability on return. The mutex exists
// because the HTTP layer makes calls concurrent; the original design was
// single-owner.
type Ledger struct {
	mu        sync.Mutex
	persister Persister

	reminders []core.Reminder
	incomes   []core.Income
	expenses  []core.Expense
}

// NewLedger seeds a ledger with previously loaded collections.
func NewLedger(p Persister, reminders []core.Reminder, incomes []core.Income, expenses []core.Expense) *Ledger {
	return &Ledger{
		persister: p,
		reminders: reminders,
		incomes:   incomes,
		expenses:  expenses,
	}
}

// AddReminder prepends so the newest reminder shows first in activity
// views. Order never affects aggregation.
func (l *Ledger) AddReminder(ctx context.Context, r core.Reminder) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reminders = append([]core.Reminder{r}, l.reminders...)
	if err := l.persister.SaveReminders(ctx, l.reminders); err != nil {
		return fmt.Errorf("persist reminders: %w", err)
	}
	slog.DebugContext(ctx, "Reminder recorded",
		applog.FieldComponent, applog.ComponentStore,
		applog.FieldRecordID, r.ID,
		applog.FieldCount, len(l.reminders))
	return nil
}

// SetReminderCompleted replaces the completion flag of the reminder with
// the given id in place.
func (l *Ledger) SetReminderCompleted(ctx context.Context, id string, completed bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.reminders {
		if l.reminders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}

	l.reminders[idx].Completed = completed
	if err := l.persister.SaveReminders(ctx, l.reminders); err != nil {
		return fmt.Errorf("persist reminders: %w", err)
	}
	return nil
}

func (l *Ledger) AddIncome(ctx context.Context, in core.Income) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.incomes = append(l.incomes, in)
	if err := l.persister.SaveIncomes(ctx, l.incomes); err != nil {
		return fmt.Errorf("persist incomes: %w", err)
	}
	slog.DebugContext(ctx, "Income recorded",
		applog.FieldComponent, applog.ComponentStore,
		applog.FieldRecordID, in.ID,
		applog.FieldCount, len(l.incomes))
	return nil
}

func (l *Ledger) AddExpense(ctx context.Context, e core.Expense) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expenses = append(l.expenses, e)
	if err := l.persister.SaveExpenses(ctx, l.expenses); err != nil {
		return fmt.Errorf("persist expenses: %w", err)
	}
	slog.DebugContext(ctx, "Expense recorded",
		applog.FieldComponent, applog.ComponentStore,
		applog.FieldRecordID, e.ID,
		applog.FieldCount, len(l.expenses))
	return nil
}

// Reminders returns a snapshot copy; callers may not mutate stored state.
func (l *Ledger) Reminders() []core.Reminder {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]core.Reminder, len(l.reminders))
	copy(out, l.reminders)
	return out
}

func (l *Ledger) Incomes() []core.Income {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]core.Income, len(l.incomes))
	copy(out, l.incomes)
	return out
}

func (l *Ledger) Expenses() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]core.Expense, len(l.expenses))
	copy(out, l.expenses)
	return out
}
