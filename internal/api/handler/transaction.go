package handler

import (
	"net/http"

	"github.com/RealNoorMuhammad/nfcpay/internal/journal"
)

// TransactionHandler exposes the journal.
type TransactionHandler struct {
	journal *journal.Journal
}

func NewTransactionHandler(j *journal.Journal) *TransactionHandler {
	return &TransactionHandler{journal: j}
}

// List returns all recorded transactions, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]any{
		"transactions": h.journal.List(),
	})
}

// Clear empties the journal. There is no partial deletion.
func (h *TransactionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.Clear(r.Context()); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
