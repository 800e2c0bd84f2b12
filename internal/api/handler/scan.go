package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/RealNoorMuhammad/nfcpay/internal/observability"
	"github.com/RealNoorMuhammad/nfcpay/internal/scanner"
)

// ScanHandler exposes the scan/input collaborator: either simulate a tag tap
// or parse manually entered tag data.
type ScanHandler struct {
	scanner scanner.Scanner
	timeout time.Duration
}

func NewScanHandler(s scanner.Scanner, timeout time.Duration) *ScanHandler {
	return &ScanHandler{scanner: s, timeout: timeout}
}

type scanRequest struct {
	// Tag carries raw tag data for manual entry; empty means hardware scan.
	Tag string `json:"tag"`
}

// Scan yields a {merchant, amount} payload. The caller then submits it to
// the pay flow; a scan by itself moves no money.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondError(w, r, http.StatusBadRequest, "invalid-body", "invalid request body")
			return
		}
	}

	if req.Tag != "" {
		payload, err := scanner.ParseTag(req.Tag)
		if err != nil {
			observability.IncrementScan("parse_error")
			RespondError(w, r, http.StatusBadRequest, "invalid-tag", err.Error())
			return
		}
		observability.IncrementScan("parsed")
		RespondJSON(w, http.StatusOK, payload)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	payload, err := h.scanner.Scan(ctx)
	if err != nil {
		if errors.Is(err, scanner.ErrScanTimeout) {
			observability.IncrementScan("timeout")
			RespondError(w, r, http.StatusGatewayTimeout, "scan-timeout", err.Error())
			return
		}
		observability.IncrementScan("error")
		respondDomainError(w, r, err)
		return
	}

	observability.IncrementScan("ok")
	RespondJSON(w, http.StatusOK, payload)
}
