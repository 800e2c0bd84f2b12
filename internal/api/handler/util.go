package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/RealNoorMuhammad/nfcpay/internal/api/problem"
	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes an RFC 7807 error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

func requestParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// respondDomainError maps core errors onto HTTP problems. Every rejected
// request produces a user-visible message.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		RespondError(w, r, http.StatusUnprocessableEntity, "insufficient-balance",
			"Insufficient balance. Please add money to your account.")
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountExceedsCap),
		errors.Is(err, domain.ErrMissingRecipient):
		RespondError(w, r, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		RespondError(w, r, http.StatusRequestTimeout, "request-canceled",
			"the request was canceled before processing completed")
	default:
		RespondError(w, r, http.StatusInternalServerError, "internal-server-error", err.Error())
	}
}
