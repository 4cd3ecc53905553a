package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/npereira/centavo/internal/http/middleware"
	"github.com/npereira/centavo/internal/http/respond"
	"github.com/npereira/centavo/internal/importer"
	"github.com/npereira/centavo/internal/ledger"
)

type Handler struct {
	importSvc *importer.Service
	ledgerSvc *ledger.Service
}

func NewHandler(importSvc *importer.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		ledgerSvc: ledgerSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type entryResponse struct {
	ID          string    `json:"id"`
	Section     string    `json:"section"`
	Amount      int64     `json:"amount"`
	Date        string    `json:"date"`
	PaymentMode string    `json:"payment_mode,omitempty"`
	Note        *string   `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type importSuccessResponse struct {
	Imported int             `json:"imported"`
	Entries  []entryResponse `json:"entries"`
}

type createParamsDTO struct {
	Section     string  `json:"section"`
	Amount      int64   `json:"amount"`
	Date        string  `json:"date"`
	PaymentMode string  `json:"payment_mode"`
	Note        *string `json:"note,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO `json:"incoming"`
	Existing entryResponse   `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatStatement
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.ledgerSvc.ImportBatch(r.Context(), middleware.UserID(r.Context()), params)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toEntryResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	params := make([]ledger.CreateParams, 0, len(req.Params))

	for _, p := range req.Params {
		date, err := time.Parse(time.DateOnly, p.Date)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		params = append(params, ledger.CreateParams{
			Section:     p.Section,
			Amount:      p.Amount,
			Date:        date,
			PaymentMode: p.PaymentMode,
			Note:        p.Note,
		})
	}

	entries, err := h.ledgerSvc.CreateBatch(r.Context(), middleware.UserID(r.Context()), params)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(entries))
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError

	switch {
	case errors.As(err, &vErr):
		respond.Error(w, http.StatusBadRequest, vErr.Error())
	default:
		slog.Error("import handler failure", "error", err)
		respond.ErrorDetails(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

func toSuccessResponse(entries []*ledger.Entry) importSuccessResponse {
	responses := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toEntryResponse(e))
	}

	return importSuccessResponse{
		Imported: len(entries),
		Entries:  responses,
	}
}

func toEntryResponse(e *ledger.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID.String(),
		Section:     e.Section,
		Amount:      e.Amount,
		Date:        e.Date.Format(time.DateOnly),
		PaymentMode: e.PaymentMode,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}
}

func toParamsDTO(p ledger.CreateParams) createParamsDTO {
	return createParamsDTO{
		Section:     p.Section,
		Amount:      p.Amount,
		Date:        p.Date.Format(time.DateOnly),
		PaymentMode: p.PaymentMode,
		Note:        p.Note,
	}
}
