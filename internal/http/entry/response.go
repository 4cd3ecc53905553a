package entry

import (
	"time"

	"github.com/google/uuid"

	"github.com/npereira/centavo/internal/ledger"
)

type entryResponse struct {
	ID          uuid.UUID `json:"id"`
	Section     string    `json:"section"`
	Amount      int64     `json:"amount"`
	Date        string    `json:"date"`
	PaymentMode string    `json:"payment_mode,omitempty"`
	Note        *string   `json:"note,omitempty"`
	Target      *int64    `json:"target,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(e *ledger.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Section:     e.Section,
		Amount:      e.Amount,
		Date:        e.Date.Format(time.DateOnly),
		PaymentMode: e.PaymentMode,
		Note:        e.Note,
		Target:      e.Target,
		CreatedAt:   e.CreatedAt,
	}
}

func toResponseList(entries []*ledger.Entry) []entryResponse {
	responses := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toResponse(e))
	}

	return responses
}
