package amqp

import (
	"encoding/json"
	"time"

	"chickenkeeper/internal/core"
)

type EntryKind string

const (
	KindIncome  EntryKind = "income"
	KindExpense EntryKind = "expense"
)

// LedgerEntryMessage carries everything the exporter needs to append one
// spreadsheet row, so the worker never has to reach back into the store.
type LedgerEntryMessage struct {
	Kind          EntryKind `json:"kind"`
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	EggsSold      int       `json:"eggsSold,omitempty"`
	PricePerDozen float64   `json:"pricePerDozen,omitempty"`
	Total         float64   `json:"total,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	Category      string    `json:"category,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewIncomeMessage builds an export message for a recorded sale. The
// derived total is included so the spreadsheet row needs no formula.
func NewIncomeMessage(in core.Income) *LedgerEntryMessage {
	return &LedgerEntryMessage{
		Kind:          KindIncome,
		ID:            in.ID,
		Date:          in.Date,
		EggsSold:      in.EggsSold,
		PricePerDozen: in.PricePerDozen,
		Total:         in.Total(),
		Timestamp:     time.Now(),
	}
}

func NewExpenseMessage(e core.Expense) *LedgerEntryMessage {
	return &LedgerEntryMessage{
		Kind:      KindExpense,
		ID:        e.ID,
		Date:      e.Date,
		Amount:    e.Amount,
		Category:  string(e.Category),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEntryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEntryMessageFromJSON creates a message from JSON bytes
func LedgerEntryMessageFromJSON(data []byte) (*LedgerEntryMessage, error) {
	var msg LedgerEntryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
