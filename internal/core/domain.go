package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TypeFeed    ReminderType = "Feed"
	TypeWater   ReminderType = "Water"
	TypeClean   ReminderType = "Clean"
	TypeHealth  ReminderType = "Health"
	TypeVaccine ReminderType = "Vaccine"
)

const (
	RepeatNone    RepeatOption = "None"
	RepeatDaily   RepeatOption = "Daily"
	RepeatWeekly  RepeatOption = "Weekly"
	RepeatMonthly RepeatOption = "Monthly"
)

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

const (
	CategoryFeed       ExpenseCategory = "Feed"
	CategoryBedding    ExpenseCategory = "Bedding"
	CategoryHealthcare ExpenseCategory = "Healthcare"
	CategoryUtilities  ExpenseCategory = "Utilities"
	CategoryOther      ExpenseCategory = "Other"
)

type (
	// ReminderType classifies a flock care task. Values are the display
	// strings and double as the persisted encoding.
	ReminderType string

	RepeatOption string

	Priority string

	ExpenseCategory string

	// Reminder is a stored care task with a due time and completion flag.
	// The repeat policy is recorded but never expanded into future
	// occurrences; no scheduler consumes it.
	Reminder struct {
		ID        string       `json:"id"`
		Title     string       `json:"title"`
		Type      ReminderType `json:"type"`
		Due       time.Time    `json:"due"`
		Repeat    RepeatOption `json:"repeat"`
		Notes     string       `json:"notes"`
		Priority  Priority     `json:"priority"`
		Completed bool         `json:"completed"`
	}

	// Income records one egg sale. The monetary total is always derived
	// via Total, never stored, so persisted data cannot drift from the
	// formula.
	Income struct {
		ID            string    `json:"id"`
		Date          time.Time `json:"date"`
		EggsSold      int       `json:"eggsSold"`
		PricePerDozen float64   `json:"pricePerDozen"`
	}

	Expense struct {
		ID       string          `json:"id"`
		Date     time.Time       `json:"date"`
		Amount   float64         `json:"amount"`
		Category ExpenseCategory `json:"category"`
	}
)

// Declaration-order enumerations. The expense order fixes the breakdown
// and pie slice ordering so identical data always renders identically.
var (
	ReminderTypes     = []ReminderType{TypeFeed, TypeWater, TypeClean, TypeHealth, TypeVaccine}
	RepeatOptions     = []RepeatOption{RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly}
	Priorities        = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
	ExpenseCategories = []ExpenseCategory{CategoryFeed, CategoryBedding, CategoryHealthcare, CategoryUtilities, CategoryOther}
)

var (
	ErrEmptyTitle      = errors.New("empty title")
	ErrInvalidType     = errors.New("invalid reminder type")
	ErrInvalidRepeat   = errors.New("invalid repeat option")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidCategory = errors.New("invalid expense category")
	ErrNegativeEggs    = errors.New("eggs sold cannot be negative")
	ErrNegativePrice   = errors.New("price per dozen cannot be negative")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrZeroDate        = errors.New("date cannot be zero")
)

// NewID returns a fresh opaque record identity.
func NewID() string {
	return uuid.NewString()
}

func (t ReminderType) Valid() bool {
	switch t {
	case TypeFeed, TypeWater, TypeClean, TypeHealth, TypeVaccine:
		return true
	}
	return false
}

func (r RepeatOption) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryFeed, CategoryBedding, CategoryHealthcare, CategoryUtilities, CategoryOther:
		return true
	}
	return false
}

// Validate is the form-boundary check. The store itself accepts any record
// it is handed; callers creating records are expected to validate first.
func (r Reminder) Validate() error {
	if len(strings.TrimSpace(r.Title)) == 0 {
		return ErrEmptyTitle
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if !r.Repeat.Valid() {
		return ErrInvalidRepeat
	}
	if !r.Priority.Valid() {
		return ErrInvalidPriority
	}
	if r.Due.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (i Income) Validate() error {
	if i.Date.IsZero() {
		return ErrZeroDate
	}
	if i.EggsSold < 0 {
		return ErrNegativeEggs
	}
	if i.PricePerDozen < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Total derives the sale value: (eggs sold / 12) * price per dozen.
func (i Income) Total() float64 {
	return (float64(i.EggsSold) / 12.0) * i.PricePerDozen
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if e.Amount < 0 {
		return ErrNegativeAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
