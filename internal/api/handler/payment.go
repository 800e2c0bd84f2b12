package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RealNoorMuhammad/nfcpay/internal/service"
)

// PaymentHandler drives the pay and send flows through the orchestrator.
type PaymentHandler struct {
	orch *service.Orchestrator
}

func NewPaymentHandler(orch *service.Orchestrator) *PaymentHandler {
	return &PaymentHandler{orch: orch}
}

type payRequest struct {
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
}

type sendRequest struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
}

// Pay commits an NFC payment to a merchant.
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-body", "invalid request body")
		return
	}

	result, err := h.orch.Pay(r.Context(), strings.TrimSpace(req.Merchant), req.Amount)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

// Send commits an outgoing transfer to a recipient.
func (h *PaymentHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-body", "invalid request body")
		return
	}

	result, err := h.orch.Send(r.Context(), strings.TrimSpace(req.Recipient), req.Amount)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}
