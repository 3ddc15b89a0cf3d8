package http

import (
	"errors"
	"log/slog"
	"net/http"

	"chickenkeeper/internal/amqp"
	"chickenkeeper/internal/core"
	applog "chickenkeeper/internal/log"
)

type createIncomeRequest struct {
	Date          string  `json:"date"`
	EggsSold      int     `json:"eggsSold"`
	PricePerDozen float64 `json:"pricePerDozen"`
}

type incomeResponse struct {
	core.Income
	Total float64 `json:"total"`
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req createIncomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	in := core.Income{
		ID:            core.NewID(),
		Date:          date,
		EggsSold:      req.EggsSold,
		PricePerDozen: req.PricePerDozen,
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.ledger.AddIncome(r.Context(), in); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save income",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldError, err,
			applog.FieldEggsSold, in.EggsSold)
		writeError(w, http.StatusInternalServerError, errors.New("error saving income"))
		return
	}

	s.publishEntry(r, amqp.NewIncomeMessage(in))

	writeJSON(w, http.StatusCreated, incomeResponse{Income: in, Total: in.Total()})
}

type createExpenseRequest struct {
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	e := core.Expense{
		ID:       core.NewID(),
		Date:     date,
		Amount:   req.Amount,
		Category: core.ExpenseCategory(sanitizeInput(req.Category)),
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.ledger.AddExpense(r.Context(), e); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save expense",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldError, err,
			applog.FieldCategory, e.Category,
			applog.FieldAmount, e.Amount)
		writeError(w, http.StatusInternalServerError, errors.New("error saving expense"))
		return
	}

	s.publishEntry(r, amqp.NewExpenseMessage(e))

	writeJSON(w, http.StatusCreated, e)
}

// publishEntry hands a ledger entry to the export queue. Export is best
// effort; a publish failure never fails the request.
func (s *Server) publishEntry(r *http.Request, msg *amqp.LedgerEntryMessage) {
	if s.publisher == nil {
		slog.DebugContext(r.Context(), "Export publisher not configured, skipping",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldRecordID, msg.ID)
		return
	}
	if err := s.publisher.PublishLedgerEntry(r.Context(), msg); err != nil {
		slog.WarnContext(r.Context(), "Failed to publish ledger entry",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldError, err,
			"kind", msg.Kind,
			applog.FieldRecordID, msg.ID)
	}
}
