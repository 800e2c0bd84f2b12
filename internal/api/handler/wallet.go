package handler

import (
	"net/http"

	"github.com/RealNoorMuhammad/nfcpay/internal/ledger"
	"github.com/RealNoorMuhammad/nfcpay/internal/walletext"
)

// WalletHandler exposes the ledger balance and the read-only external wallet.
type WalletHandler struct {
	ledger *ledger.Ledger
	wallet walletext.Provider
}

func NewWalletHandler(l *ledger.Ledger, wallet walletext.Provider) *WalletHandler {
	if wallet == nil {
		wallet = walletext.Disabled{}
	}
	return &WalletHandler{ledger: l, wallet: wallet}
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]any{
		"balance": h.ledger.Balance(),
	})
}

// Reset sets the balance back to 0.00.
func (h *WalletHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Reset(r.Context()); err != nil {
		respondDomainError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]any{
		"balance": h.ledger.Balance(),
	})
}

// External reports the browser-extension wallet balance. It is informational
// only and never touches the ledger.
func (h *WalletHandler) External(w http.ResponseWriter, r *http.Request) {
	info, err := h.wallet.Info(r.Context())
	if err != nil {
		RespondError(w, r, http.StatusBadGateway, "wallet-unavailable", err.Error())
		return
	}
	RespondJSON(w, http.StatusOK, info)
}
