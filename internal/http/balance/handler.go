package balance

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/npereira/centavo/internal/http/middleware"
	"github.com/npereira/centavo/internal/http/respond"
	"github.com/npereira/centavo/internal/ledger"
	"github.com/npereira/centavo/internal/user"
)

type Handler struct {
	users  *user.Service
	ledger *ledger.Service
}

func NewHandler(users *user.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{users: users, ledger: ledgerSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Post("/deposit", h.deposit)
	r.Post("/withdraw", h.withdraw)
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError

	switch {
	case errors.As(err, &vErr):
		respond.Error(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ledger.ErrUserNotFound), errors.Is(err, user.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
	default:
		slog.Error("balance handler failure", "error", err)
		respond.ErrorDetails(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, balanceResponse{Balance: u.Balance})
}

type depositRequest struct {
	Amount      int64  `json:"amount"`
	PaymentMode string `json:"payment_mode"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newBalance, err := h.ledger.Deposit(r.Context(), middleware.UserID(r.Context()), req.Amount, req.PaymentMode)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, balanceResponse{Balance: newBalance})
}

type withdrawRequest struct {
	Amount int64 `json:"amount"`
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newBalance, err := h.ledger.Withdraw(r.Context(), middleware.UserID(r.Context()), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, balanceResponse{Balance: newBalance})
}
