package entry

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/npereira/centavo/internal/http/middleware"
	"github.com/npereira/centavo/internal/http/respond"
	"github.com/npereira/centavo/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError

	switch {
	case errors.As(err, &vErr):
		respond.Error(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ledger.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "entry not found")
	case errors.Is(err, ledger.ErrUserNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
	default:
		slog.Error("entry handler failure", "error", err)
		respond.ErrorDetails(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

type createRequest struct {
	Section     string  `json:"section"`
	Amount      int64   `json:"amount"`
	Date        string  `json:"date"`
	PaymentMode string  `json:"payment_mode"`
	Note        *string `json:"note,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil && req.Date != "" {
		respond.Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	e, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), ledger.CreateParams{
		Section:     req.Section,
		Amount:      req.Amount,
		Date:        date,
		PaymentMode: req.PaymentMode,
		Note:        req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ledger.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("section"); s != "" {
		filter.Section = &s
	}

	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}

		filter.From = &t
	}

	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}

		filter.To = &t
	}

	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	entries, err := h.svc.List(r.Context(), middleware.UserID(r.Context()), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(entries))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	e, err := h.svc.Get(r.Context(), id, middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

type updateRequest struct {
	Section     *string `json:"section,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
	Date        *string `json:"date,omitempty"`
	PaymentMode *string `json:"payment_mode,omitempty"`
	Note        *string `json:"note,omitempty"`
	Target      *int64  `json:"target,omitempty"`
}

// update patches one entry; when a target is included the response is the
// whole refreshed section so the caller sees the propagated value on
// every row.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := ledger.UpdateParams{
		Section:     req.Section,
		Amount:      req.Amount,
		PaymentMode: req.PaymentMode,
		Note:        req.Note,
		Target:      req.Target,
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		params.Date = &date
	}

	entries, err := h.svc.Update(r.Context(), id, middleware.UserID(r.Context()), params)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(entries))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
