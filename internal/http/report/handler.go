package report

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/npereira/centavo/internal/http/middleware"
	"github.com/npereira/centavo/internal/http/respond"
	"github.com/npereira/centavo/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/categories", h.categories)
	r.Get("/monthly", h.monthly)
	r.Get("/weekly", h.weekly)
	r.Get("/daily", h.daily)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, report.ErrUnknownPeriod):
		respond.Error(w, http.StatusBadRequest, "unknown period")
	default:
		slog.Error("report handler failure", "error", err)
		respond.ErrorDetails(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

type summaryResponse struct {
	Total int64 `json:"total"`
	Count int   `json:"count"`
}

// summary takes either a named period or an explicit from/to range.
// A named period wins when both are present.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := middleware.UserID(r.Context())

	if p := q.Get("period"); p != "" {
		s, err := h.svc.PeriodSummary(r.Context(), userID, report.Period(p))
		if err != nil {
			writeError(w, err)
			return
		}

		respond.JSON(w, http.StatusOK, summaryResponse{Total: s.Total, Count: s.Count})
		return
	}

	from, err := time.Parse(time.DateOnly, q.Get("from"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}

	to, err := time.Parse(time.DateOnly, q.Get("to"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}

	if to.Before(from) {
		respond.Error(w, http.StatusBadRequest, "to precedes from")
		return
	}

	s, err := h.svc.Summary(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{Total: s.Total, Count: s.Count})
}

type sectionResponse struct {
	Section string `json:"section"`
	Total   int64  `json:"total"`
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.Sections(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]sectionResponse, 0, len(totals))
	for _, t := range totals {
		responses = append(responses, sectionResponse{Section: t.Section, Total: t.Total})
	}

	respond.JSON(w, http.StatusOK, responses)
}

type bucketResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Total int64  `json:"total"`
}

func toBuckets(buckets []report.Bucket) []bucketResponse {
	responses := make([]bucketResponse, 0, len(buckets))
	for _, b := range buckets {
		responses = append(responses, bucketResponse{Key: b.Key, Label: b.Label, Total: b.Total})
	}

	return responses
}

// anchorFrom reads an optional anchor date; absent means now.
func anchorFrom(q string) (time.Time, error) {
	if q == "" {
		return time.Now(), nil
	}

	return time.Parse(time.DateOnly, q)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	anchor, err := anchorFrom(q.Get("anchor"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "anchor must be YYYY-MM-DD")
		return
	}

	months, _ := strconv.Atoi(q.Get("months"))

	buckets, err := h.svc.MonthlyBuckets(r.Context(), middleware.UserID(r.Context()), months, anchor)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBuckets(buckets))
}

func (h *Handler) weekly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	anchor, err := anchorFrom(q.Get("anchor"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "anchor must be YYYY-MM-DD")
		return
	}

	weeks, _ := strconv.Atoi(q.Get("weeks"))

	buckets, err := h.svc.WeeklyBuckets(r.Context(), middleware.UserID(r.Context()), weeks, anchor)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBuckets(buckets))
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	anchor, err := anchorFrom(q.Get("anchor"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "anchor must be YYYY-MM-DD")
		return
	}

	days, _ := strconv.Atoi(q.Get("days"))

	buckets, err := h.svc.DailyBuckets(r.Context(), middleware.UserID(r.Context()), days, anchor)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBuckets(buckets))
}
