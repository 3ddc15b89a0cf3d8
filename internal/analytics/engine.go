// Package analytics computes every derived metric and chart series the
// presentation layer shows. All operations are pure reads over ledger
// snapshots plus a wall-clock reference; nothing is cached or mutated, so
// there is no invalidation state to get wrong. At household data volumes
// full recomputation per call is cheap.
package analytics

import (
	"sort"
	"time"

	"chickenkeeper/internal/core"
	"chickenkeeper/internal/period"
)

// Source supplies read-only snapshots of the three collections.
type Source interface {
	Reminders() []core.Reminder
	Incomes() []core.Income
	Expenses() []core.Expense
}

// MonthBucket is one column of the six-month performance series.
type MonthBucket struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Label    string     `json:"label"`
	Income   float64    `json:"income"`
	Expenses float64    `json:"expenses"`
	Profit   float64    `json:"profit"`
}

// CategoryTotal is one segment of the expense breakdown.
type CategoryTotal struct {
	Category core.ExpenseCategory `json:"category"`
	Total    float64              `json:"total"`
}

// ReminderCounts summarizes the reminder collection for the stats header.
type ReminderCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// WeeklyProfit is current-week income totals minus current-week expense
// amounts. An empty window yields 0.
func (e *Engine) WeeklyProfit(now time.Time) float64 {
	var income, spent float64
	for _, in := range e.src.Incomes() {
		if period.SameWeek(in.Date, now) {
			income += in.Total()
		}
	}
	for _, ex := range e.src.Expenses() {
		if period.SameWeek(ex.Date, now) {
			spent += ex.Amount
		}
	}
	return income - spent
}

// WeeklyEggsLaid sums eggs sold across current-week income entries.
func (e *Engine) WeeklyEggsLaid(now time.Time) int {
	eggs := 0
	for _, in := range e.src.Incomes() {
		if period.SameWeek(in.Date, now) {
			eggs += in.EggsSold
		}
	}
	return eggs
}

// MonthlyProfit windows by the current calendar month.
func (e *Engine) MonthlyProfit(now time.Time) float64 {
	var income, spent float64
	for _, in := range e.src.Incomes() {
		if period.SameMonth(in.Date, now) {
			income += in.Total()
		}
	}
	for _, ex := range e.src.Expenses() {
		if period.SameMonth(ex.Date, now) {
			spent += ex.Amount
		}
	}
	return income - spent
}

// AverageDozenPrice is current-month income divided by dozens sold.
// Returns 0 with no current-month entries, and also when entries exist
// but sold zero eggs, which would otherwise divide by zero.
func (e *Engine) AverageDozenPrice(now time.Time) float64 {
	var totalIncome float64
	totalEggs := 0
	entries := 0
	for _, in := range e.src.Incomes() {
		if period.SameMonth(in.Date, now) {
			entries++
			totalEggs += in.EggsSold
			totalIncome += in.Total()
		}
	}
	if entries == 0 || totalEggs == 0 {
		return 0
	}
	return totalIncome / (float64(totalEggs) / 12.0)
}

// MonthlyPerformance returns exactly six buckets, oldest first, ending
// with the current month. Window boundaries come from period.MonthRange so
// last-day records are never excluded.
func (e *Engine) MonthlyPerformance(now time.Time) []MonthBucket {
	incomes := e.src.Incomes()
	expenses := e.src.Expenses()

	buckets := make([]MonthBucket, 0, 6)
	for monthsAgo := 5; monthsAgo >= 0; monthsAgo-- {
		start, end := period.MonthRange(monthsAgo, now)

		var income, spent float64
		for _, in := range incomes {
			if !in.Date.Before(start) && !in.Date.After(end) {
				income += in.Total()
			}
		}
		for _, ex := range expenses {
			if !ex.Date.Before(start) && !ex.Date.After(end) {
				spent += ex.Amount
			}
		}

		buckets = append(buckets, MonthBucket{
			Year:     start.Year(),
			Month:    start.Month(),
			Label:    start.Format("Jan"),
			Income:   income,
			Expenses: spent,
			Profit:   income - spent,
		})
	}
	return buckets
}

// ExpenseBreakdown groups the entire expense collection by category in
// declaration order. Categories with no expenses are omitted.
func (e *Engine) ExpenseBreakdown() []CategoryTotal {
	totals := make(map[core.ExpenseCategory]float64)
	seen := make(map[core.ExpenseCategory]bool)
	for _, ex := range e.src.Expenses() {
		totals[ex.Category] += ex.Amount
		seen[ex.Category] = true
	}

	out := make([]CategoryTotal, 0, len(seen))
	for _, cat := range core.ExpenseCategories {
		if seen[cat] {
			out = append(out, CategoryTotal{Category: cat, Total: totals[cat]})
		}
	}
	return out
}

// TodayTaskCount counts reminders due on now's calendar day.
func (e *Engine) TodayTaskCount(now time.Time) int {
	n := 0
	for _, r := range e.src.Reminders() {
		if sameDay(r.Due, now) {
			n++
		}
	}
	return n
}

// TodayCompletedCount counts today's reminders already marked done.
func (e *Engine) TodayCompletedCount(now time.Time) int {
	n := 0
	for _, r := range e.src.Reminders() {
		if sameDay(r.Due, now) && r.Completed {
			n++
		}
	}
	return n
}

func (e *Engine) ReminderCounts() ReminderCounts {
	var c ReminderCounts
	for _, r := range e.src.Reminders() {
		c.Total++
		if r.Completed {
			c.Completed++
		}
	}
	c.Pending = c.Total - c.Completed
	return c
}

// RecentReminders returns up to n reminders, most recent due date first,
// for the activity feed.
func (e *Engine) RecentReminders(n int) []core.Reminder {
	reminders := append([]core.Reminder(nil), e.src.Reminders()...)
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].Due.After(reminders[j].Due)
	})
	if len(reminders) > n {
		reminders = reminders[:n]
	}
	return reminders
}

func sameDay(t, now time.Time) bool {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	return ty == ny && tm == nm && td == nd
}
