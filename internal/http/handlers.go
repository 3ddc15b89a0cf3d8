package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chickenkeeper/internal/analytics"
	"chickenkeeper/internal/chart"
	"chickenkeeper/internal/core"
	applog "chickenkeeper/internal/log"
	"chickenkeeper/internal/store"
)

type createReminderRequest struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Due      string `json:"due"`
	Repeat   string `json:"repeat"`
	Notes    string `json:"notes"`
	Priority string `json:"priority"`
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.Reminders())
	case http.MethodPost:
		s.createReminder(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createReminder(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	due, err := time.Parse(time.RFC3339, strings.TrimSpace(req.Due))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, errors.New("due must be RFC 3339"))
		return
	}

	// Repeat and priority fall back to the defaults a fresh reminder form
	// would carry.
	repeat := core.RepeatOption(sanitizeInput(req.Repeat))
	if repeat == "" {
		repeat = core.RepeatNone
	}
	priority := core.Priority(sanitizeInput(req.Priority))
	if priority == "" {
		priority = core.PriorityMedium
	}

	rem := core.Reminder{
		ID:       core.NewID(),
		Title:    sanitizeInput(req.Title),
		Type:     core.ReminderType(sanitizeInput(req.Type)),
		Due:      due,
		Repeat:   repeat,
		Notes:    sanitizeInput(req.Notes),
		Priority: priority,
	}
	if err := rem.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.ledger.AddReminder(r.Context(), rem); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save reminder",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldError, err,
			applog.FieldTitle, rem.Title,
			"type", rem.Type)
		writeError(w, http.StatusInternalServerError, errors.New("error saving reminder"))
		return
	}

	writeJSON(w, http.StatusCreated, rem)
}

type completeReminderRequest struct {
	Completed *bool `json:"completed"`
}

func (s *Server) handleReminderComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	id, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/reminders/"), "/complete")
	if !ok || id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	// An empty body means "mark done"; a body that is present but does not
	// decode is a client error, not an implicit completion.
	completed := true
	var req completeReminderRequest
	switch err := decodeJSON(r, &req); {
	case errors.Is(err, io.EOF):
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	case req.Completed != nil:
		completed = *req.Completed
	}

	if err := s.ledger.SetReminderCompleted(r.Context(), id, completed); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update reminder",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldError, err,
			applog.FieldRecordID, id)
		writeError(w, http.StatusInternalServerError, errors.New("error updating reminder"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "completed": completed})
}

type summaryResponse struct {
	WeeklyProfit      float64                  `json:"weeklyProfit"`
	WeeklyEggsLaid    int                      `json:"weeklyEggsLaid"`
	MonthlyProfit     float64                  `json:"monthlyProfit"`
	AverageDozenPrice float64                  `json:"averageDozenPrice"`
	TodayTasks        int                      `json:"todayTasks"`
	TodayCompleted    int                      `json:"todayCompleted"`
	Reminders         analytics.ReminderCounts `json:"reminders"`
	RecentReminders   []core.Reminder          `json:"recentReminders"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, summaryResponse{
		WeeklyProfit:      s.engine.WeeklyProfit(now),
		WeeklyEggsLaid:    s.engine.WeeklyEggsLaid(now),
		MonthlyProfit:     s.engine.MonthlyProfit(now),
		AverageDozenPrice: s.engine.AverageDozenPrice(now),
		TodayTasks:        s.engine.TodayTaskCount(now),
		TodayCompleted:    s.engine.TodayCompletedCount(now),
		Reminders:         s.engine.ReminderCounts(),
		RecentReminders:   s.engine.RecentReminders(3),
	})
}

type performanceResponse struct {
	Series []analytics.MonthBucket `json:"series"`
	Bars   []chart.BarGroup        `json:"bars"`
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	series := s.engine.MonthlyPerformance(time.Now())
	writeJSON(w, http.StatusOK, performanceResponse{
		Series: series,
		Bars:   chart.BarGroups(series),
	})
}

type breakdownResponse struct {
	Categories []analytics.CategoryTotal `json:"categories"`
	Slices     []chart.PieSlice          `json:"slices"`
}

func (s *Server) handleExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	breakdown := s.engine.ExpenseBreakdown()
	writeJSON(w, http.StatusOK, breakdownResponse{
		Categories: breakdown,
		Slices:     chart.PieSlices(breakdown),
	})
}

const weatherCacheKey = "current"

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("weather lookup not configured"))
		return
	}

	if report, ok := s.weatherCache.Get(weatherCacheKey); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.weather.Current(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Weather lookup failed",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldError, err)
		writeError(w, http.StatusBadGateway, errors.New("weather lookup failed"))
		return
	}

	s.weatherCache.Set(weatherCacheKey, *report)
	writeJSON(w, http.StatusOK, *report)
}
