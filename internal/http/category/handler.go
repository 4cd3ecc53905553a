package category

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/npereira/centavo/internal/category"
	"github.com/npereira/centavo/internal/http/middleware"
	"github.com/npereira/centavo/internal/http/respond"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *category.ValidationError

	switch {
	case errors.As(err, &vErr):
		respond.Error(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, category.ErrReservedLabel):
		respond.Error(w, http.StatusBadRequest, "label is reserved")
	case errors.Is(err, category.ErrLabelTaken):
		respond.Error(w, http.StatusBadRequest, "label already exists")
	case errors.Is(err, category.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "category not found")
	default:
		slog.Error("category handler failure", "error", err)
		respond.ErrorDetails(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	Icon        string    `json:"icon,omitempty"`
	IconColor   string    `json:"icon_color,omitempty"`
	IconLibrary string    `json:"icon_library,omitempty"`
	Target      *int64    `json:"target,omitempty"`
	Origin      string    `json:"origin"`
}

func toResponse(c *category.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Label:       c.Label,
		Icon:        c.Icon,
		IconColor:   c.IconColor,
		IconLibrary: c.IconLibrary,
		Target:      c.Target,
		Origin:      string(c.Origin),
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, toResponse(c))
	}

	respond.JSON(w, http.StatusOK, responses)
}

type createRequest struct {
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	IconColor   string `json:"icon_color"`
	IconLibrary string `json:"icon_library"`
	Target      *int64 `json:"target,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), category.CreateParams{
		Label:       req.Label,
		Icon:        req.Icon,
		IconColor:   req.IconColor,
		IconLibrary: req.IconLibrary,
		Target:      req.Target,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

type updateRequest struct {
	Label       *string `json:"label,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	IconColor   *string `json:"icon_color,omitempty"`
	IconLibrary *string `json:"icon_library,omitempty"`
	Target      *int64  `json:"target,omitempty"`
}

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

	c, err := h.svc.Update(r.Context(), id, middleware.UserID(r.Context()), category.UpdateParams{
		Label:       req.Label,
		Icon:        req.Icon,
		IconColor:   req.IconColor,
		IconLibrary: req.IconLibrary,
		Target:      req.Target,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

type deleteResponse struct {
	DeletedEntriesCount int64 `json:"deletedEntriesCount"`
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	count, err := h.svc.DeleteCascade(r.Context(), id, middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, deleteResponse{DeletedEntriesCount: count})
}
