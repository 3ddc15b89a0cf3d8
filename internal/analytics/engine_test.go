package analytics

import (
	"math"
	"testing"
	"time"

	"chickenkeeper/internal/core"
)

// sliceSource feeds fixed collections to the engine.
type sliceSource struct {
	reminders []core.Reminder
	incomes   []core.Income
	expenses  []core.Expense
}

func (s sliceSource) Reminders() []core.Reminder { return s.reminders }
func (s sliceSource) Incomes() []core.Income     { return s.incomes }
func (s sliceSource) Expenses() []core.Expense   { return s.expenses }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Wednesday mid-month so the surrounding week stays inside the month.
var now = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

func TestEngine_MonthlyScenario(t *testing.T) {
	// Two current-month sales and one expense: income 15 + 12 = 27,
	// profit 17, average dozen price 27 / (60/12) = 5.40.
	e := NewEngine(sliceSource{
		incomes: []core.Income{
			{ID: "i1", Date: time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), EggsSold: 36, PricePerDozen: 5.00},
			{ID: "i2", Date: time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC), EggsSold: 24, PricePerDozen: 6.00},
		},
		expenses: []core.Expense{
			{ID: "e1", Date: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), Amount: 10.00, Category: core.CategoryFeed},
		},
	})

	if got := e.MonthlyProfit(now); !almostEqual(got, 17.00) {
		t.Errorf("MonthlyProfit() = %v, want 17.00", got)
	}
	if got := e.AverageDozenPrice(now); !almostEqual(got, 5.40) {
		t.Errorf("AverageDozenPrice() = %v, want 5.40", got)
	}
}

func TestEngine_WeeklyMetrics(t *testing.T) {
	// Week of 2026-04-13 (Mon) through 2026-04-19 (Sun).
	inWeek := time.Date(2026, 4, 14, 9, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2026, 4, 8, 9, 0, 0, 0, time.UTC)

	e := NewEngine(sliceSource{
		incomes: []core.Income{
			{ID: "i1", Date: inWeek, EggsSold: 24, PricePerDozen: 6},   // total 12
			{ID: "i2", Date: lastWeek, EggsSold: 48, PricePerDozen: 5}, // outside window
		},
		expenses: []core.Expense{
			{ID: "e1", Date: inWeek, Amount: 4.5, Category: core.CategoryUtilities},
			{ID: "e2", Date: lastWeek, Amount: 100, Category: core.CategoryFeed},
		},
	})

	if got := e.WeeklyProfit(now); !almostEqual(got, 7.5) {
		t.Errorf("WeeklyProfit() = %v, want 7.5", got)
	}
	if got := e.WeeklyEggsLaid(now); got != 24 {
		t.Errorf("WeeklyEggsLaid() = %d, want 24", got)
	}
}

func TestEngine_ProfitLinearity(t *testing.T) {
	date := time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC)
	base := sliceSource{
		incomes: []core.Income{
			{ID: "i1", Date: date, EggsSold: 36, PricePerDozen: 5},
		},
	}

	before := NewEngine(base).WeeklyProfit(now)

	// Adding an expense of amount a drops profit by exactly a.
	withExpense := base
	withExpense.expenses = []core.Expense{
		{ID: "e1", Date: date, Amount: 3.25, Category: core.CategoryOther},
	}
	after := NewEngine(withExpense).WeeklyProfit(now)
	if !almostEqual(before-after, 3.25) {
		t.Errorf("expense of 3.25 changed profit by %v, want 3.25", before-after)
	}

	// Adding income with total t raises profit by exactly t.
	withIncome := base
	withIncome.incomes = append([]core.Income{}, base.incomes...)
	extra := core.Income{ID: "i2", Date: date, EggsSold: 18, PricePerDozen: 4} // total 6
	withIncome.incomes = append(withIncome.incomes, extra)
	after = NewEngine(withIncome).WeeklyProfit(now)
	if !almostEqual(after-before, extra.Total()) {
		t.Errorf("income with total %v changed profit by %v", extra.Total(), after-before)
	}
}

func TestEngine_EmptyWindowsYieldZero(t *testing.T) {
	e := NewEngine(sliceSource{})

	if got := e.WeeklyProfit(now); got != 0 {
		t.Errorf("WeeklyProfit() = %v, want 0", got)
	}
	if got := e.MonthlyProfit(now); got != 0 {
		t.Errorf("MonthlyProfit() = %v, want 0", got)
	}
	if got := e.WeeklyEggsLaid(now); got != 0 {
		t.Errorf("WeeklyEggsLaid() = %d, want 0", got)
	}
}

func TestEngine_AverageDozenPriceGuards(t *testing.T) {
	tests := []struct {
		name    string
		incomes []core.Income
		want    float64
	}{
		{
			name: "no current-month entries despite past data",
			incomes: []core.Income{
				{ID: "i1", Date: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), EggsSold: 36, PricePerDozen: 9},
			},
			want: 0,
		},
		{
			name: "entries present but zero eggs sold",
			incomes: []core.Income{
				{ID: "i1", Date: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), EggsSold: 0, PricePerDozen: 7},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(sliceSource{incomes: tt.incomes})
			if got := e.AverageDozenPrice(now); got != tt.want {
				t.Errorf("AverageDozenPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_MonthlyPerformanceShape(t *testing.T) {
	e := NewEngine(sliceSource{
		incomes: []core.Income{
			// Last nanosecond of the oldest bucket's month.
			{ID: "i1", Date: time.Date(2025, 11, 30, 23, 59, 59, 999999999, time.UTC), EggsSold: 12, PricePerDozen: 5},
			{ID: "i2", Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), EggsSold: 24, PricePerDozen: 6},
		},
		expenses: []core.Expense{
			{ID: "e1", Date: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), Amount: 8, Category: core.CategoryFeed},
		},
	})

	series := e.MonthlyPerformance(now)
	if len(series) != 6 {
		t.Fatalf("MonthlyPerformance() len = %d, want 6", len(series))
	}

	// Oldest first, ending with the current month.
	if series[0].Year != 2025 || series[0].Month != time.November {
		t.Errorf("first bucket = %d-%v, want 2025-November", series[0].Year, series[0].Month)
	}
	if series[5].Year != 2026 || series[5].Month != time.April {
		t.Errorf("last bucket = %d-%v, want 2026-April", series[5].Year, series[5].Month)
	}
	if series[0].Label != "Nov" {
		t.Errorf("first bucket label = %q, want Nov", series[0].Label)
	}

	// Last-day record lands in its bucket, not the next.
	if !almostEqual(series[0].Income, 5) {
		t.Errorf("November income = %v, want 5 (last-instant record included)", series[0].Income)
	}
	if !almostEqual(series[2].Expenses, 8) {
		t.Errorf("January expenses = %v, want 8", series[2].Expenses)
	}
	if !almostEqual(series[5].Profit, 12) {
		t.Errorf("April profit = %v, want 12", series[5].Profit)
	}
}

func TestEngine_ExpenseBreakdown(t *testing.T) {
	e := NewEngine(sliceSource{
		expenses: []core.Expense{
			{ID: "e1", Date: now, Amount: 20, Category: core.CategoryFeed},
			{ID: "e2", Date: now.AddDate(0, -4, 0), Amount: 15, Category: core.CategoryBedding},
			{ID: "e3", Date: now, Amount: 5, Category: core.CategoryFeed},
		},
	})

	got := e.ExpenseBreakdown()
	want := []CategoryTotal{
		{Category: core.CategoryFeed, Total: 25},
		{Category: core.CategoryBedding, Total: 15},
	}

	if len(got) != len(want) {
		t.Fatalf("ExpenseBreakdown() len = %d, want %d (absent categories omitted)", len(got), len(want))
	}
	for i := range want {
		if got[i].Category != want[i].Category || !almostEqual(got[i].Total, want[i].Total) {
			t.Errorf("breakdown[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestEngine_ReminderStats(t *testing.T) {
	today := time.Date(2026, 4, 15, 8, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	e := NewEngine(sliceSource{
		reminders: []core.Reminder{
			{ID: "a", Title: "feed", Due: today, Completed: true},
			{ID: "b", Title: "water", Due: today},
			{ID: "c", Title: "clean", Due: yesterday, Completed: true},
		},
	})

	if got := e.TodayTaskCount(now); got != 2 {
		t.Errorf("TodayTaskCount() = %d, want 2", got)
	}
	if got := e.TodayCompletedCount(now); got != 1 {
		t.Errorf("TodayCompletedCount() = %d, want 1", got)
	}

	counts := e.ReminderCounts()
	if counts.Total != 3 || counts.Completed != 2 || counts.Pending != 1 {
		t.Errorf("ReminderCounts() = %+v, want {3 2 1}", counts)
	}

	recent := e.RecentReminders(2)
	if len(recent) != 2 {
		t.Fatalf("RecentReminders(2) len = %d", len(recent))
	}
	if recent[0].Due.Before(recent[1].Due) {
		t.Error("RecentReminders() not ordered most recent first")
	}
}
