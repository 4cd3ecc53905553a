package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/npereira/centavo/internal/auth"
	"github.com/npereira/centavo/internal/http/middleware"
	"github.com/npereira/centavo/internal/http/respond"
	"github.com/npereira/centavo/internal/user"
)

const maxPhotoSize = 5 << 20

type Handler struct {
	svc       *user.Service
	uploadDir string
	baseURL   string
}

func NewHandler(svc *user.Service, uploadDir, baseURL string) *Handler {
	return &Handler{svc: svc, uploadDir: uploadDir, baseURL: baseURL}
}

// AuthRoutes are the unauthenticated entry points.
func (h *Handler) AuthRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
}

// Routes cover the authenticated profile surface.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.profile)
	r.Patch("/", h.update)
	r.Post("/photo", h.uploadPhoto)
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Balance   int64     `json:"balance"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User   userResponse  `json:"user"`
	Tokens tokenResponse `json:"tokens"`
}

func (h *Handler) toResponse(u *user.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Name:      u.Name,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}
	if u.PhotoPath != nil {
		resp.PhotoURL = fmt.Sprintf("%s/uploads/%s", h.baseURL, filepath.Base(*u.PhotoPath))
	}

	return resp
}

// writeError maps domain failures onto the status-code conventions:
// validation and duplicates are 400, bad credentials 401, rejected
// tokens 403, everything unexpected 500.
func writeError(w http.ResponseWriter, err error) {
	var vErr *user.ValidationError

	switch {
	case errors.As(err, &vErr):
		respond.Error(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, user.ErrEmailTaken):
		respond.Error(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, user.ErrPhoneTaken):
		respond.Error(w, http.StatusBadRequest, "Phone number already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrTokenExpired):
		respond.Error(w, http.StatusForbidden, "refresh token expired")
	case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, user.ErrRefreshMismatch):
		respond.Error(w, http.StatusForbidden, "invalid refresh token")
	case errors.Is(err, user.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
	default:
		slog.Error("user handler failure", "error", err)
		respond.ErrorDetails(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, pair, err := h.svc.Register(r.Context(), user.RegisterParams{
		Email:    req.Email,
		Phone:    req.Phone,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, authResponse{
		User:   h.toResponse(u),
		Tokens: tokenResponse{AccessToken: pair.Access, RefreshToken: pair.Refresh},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, pair, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, authResponse{
		User:   h.toResponse(u),
		Tokens: tokenResponse{AccessToken: pair.Access, RefreshToken: pair.Refresh},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken == "" {
		respond.Error(w, http.StatusUnauthorized, "refresh token required")
		return
	}

	access, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"access_token": access})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(u))
}

type updateRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), middleware.UserID(r.Context()), user.UpdateParams{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(u))
}

func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "photo field is required")
		return
	}
	defer file.Close()

	current, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	name := uuid.NewString() + filepath.Ext(header.Filename)
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		slog.Error("creating upload file", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to store photo")

		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		slog.Error("writing upload file", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to store photo")

		return
	}

	if err := h.svc.SetPhoto(r.Context(), userID, path); err != nil {
		os.Remove(path)
		writeError(w, err)

		return
	}

	// Best effort; a stale file is not worth failing the request over.
	if current.PhotoPath != nil {
		if err := os.Remove(*current.PhotoPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("removing previous photo", "error", err)
		}
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"photo_url": fmt.Sprintf("%s/uploads/%s", h.baseURL, name),
	})
}
