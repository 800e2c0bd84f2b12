package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RealNoorMuhammad/nfcpay/internal/card"
	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
)

// DepositHandler drives the card deposit flow, including the scripted
// first-attempt failure and its retry.
type DepositHandler struct {
	deposits *card.Service
}

func NewDepositHandler(deposits *card.Service) *DepositHandler {
	return &DepositHandler{deposits: deposits}
}

type depositRequest struct {
	card.Details
	Amount decimal.Decimal `json:"amount"`
}

// Create validates the form, opens a deposit session and submits the first
// attempt. Under the fail-first policy that attempt ends with a retryable
// network error carrying the session id.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-body", "invalid request body")
		return
	}

	id, err := h.deposits.CreateSession(req.Details, req.Amount)
	if err != nil {
		h.respondError(w, r, id, err)
		return
	}

	result, err := h.deposits.Submit(r.Context(), id)
	if err != nil {
		h.respondError(w, r, id, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

// Retry re-submits a pending deposit session.
func (h *DepositHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(requestParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "validation", "invalid deposit id")
		return
	}

	result, err := h.deposits.Submit(r.Context(), id)
	if err != nil {
		h.respondError(w, r, id, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

// Cancel discards a pending deposit session (the modal was dismissed).
func (h *DepositHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(requestParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "validation", "invalid deposit id")
		return
	}
	h.deposits.Cancel(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DepositHandler) respondError(w http.ResponseWriter, r *http.Request, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, domain.ErrNetworkUnavailable):
		// Scripted transient failure: surface the retry affordance.
		RespondJSON(w, http.StatusBadGateway, map[string]any{
			"deposit_id": id,
			"error":      err.Error(),
			"retryable":  true,
		})
	case errors.Is(err, card.ErrSessionNotFound):
		RespondError(w, r, http.StatusNotFound, "deposit-not-found", err.Error())
	case errors.Is(err, card.ErrNotVisa),
		errors.Is(err, card.ErrCardLength),
		errors.Is(err, card.ErrLuhnCheck),
		errors.Is(err, card.ErrMissingName),
		errors.Is(err, card.ErrInvalidExpiry),
		errors.Is(err, card.ErrCardExpired),
		errors.Is(err, card.ErrInvalidCVV):
		RespondError(w, r, http.StatusBadRequest, "card-validation", err.Error())
	default:
		respondDomainError(w, r, err)
	}
}
