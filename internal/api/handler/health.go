package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
)

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	store storage.Store
}

func NewHealthHandler(store storage.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Live always reports OK – if the process is up, it's live.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready checks the backing store.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		RespondError(w, r, http.StatusServiceUnavailable, "store-unavailable", "storage unavailable")
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
