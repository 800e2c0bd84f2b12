package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RealNoorMuhammad/nfcpay/internal/api"
	"github.com/RealNoorMuhammad/nfcpay/internal/card"
	"github.com/RealNoorMuhammad/nfcpay/internal/config"
	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
	"github.com/RealNoorMuhammad/nfcpay/internal/gateway"
	"github.com/RealNoorMuhammad/nfcpay/internal/journal"
	"github.com/RealNoorMuhammad/nfcpay/internal/ledger"
	"github.com/RealNoorMuhammad/nfcpay/internal/scanner"
	"github.com/RealNoorMuhammad/nfcpay/internal/service"
	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
	"github.com/RealNoorMuhammad/nfcpay/internal/walletext"
)

// newTestServer assembles the full HTTP surface on an in-memory store with
// zero simulated latency.
func newTestServer(t *testing.T, failFirst bool) (*httptest.Server, *ledger.Ledger, *journal.Journal) {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		ScanTimeout:        time.Second,
		ScanMerchant:       "Test Merchant",
		ScanAmount:         decimal.RequireFromString("25.50"),
		MaxAmount:          decimal.NewFromInt(10000),
		DepositFailFirst:   failFirst,
		SessionTTL:         15 * time.Minute,
		PublicRateLimitRPS: 1000,
	}

	store := storage.NewMemoryStore()
	l, err := ledger.Open(ctx, store)
	require.NoError(t, err)
	j, err := journal.Open(ctx, store)
	require.NoError(t, err)

	gw := gateway.NewSimulated(0, 0, 0)
	orch := service.NewOrchestrator(l, j, gw, cfg.MaxAmount, zap.NewNop())
	deposits := card.NewService(orch, gw, cfg.MaxAmount, cfg.DepositFailFirst, cfg.SessionTTL)
	scan := scanner.NewSimulated(0, cfg.ScanMerchant, cfg.ScanAmount)

	router := api.NewRouter(cfg, zap.NewNop(), store, l, j, orch, deposits, scan, walletext.Disabled{}, nil)
	srv := httptest.NewServer(router.Routes())
	t.Cleanup(srv.Close)
	return srv, l, j
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func validCardBody(amount string) map[string]any {
	return map[string]any{
		"card_number":     "4111 1111 1111 1111",
		"cardholder_name": "Jordan Smith",
		"expiry":          "12/30",
		"cvv":             "123",
		"amount":          json.RawMessage(amount),
	}
}

type resultBody struct {
	Transaction domain.Transaction `json:"transaction"`
	Balance     decimal.Decimal    `json:"balance"`
}

func TestGetBalance_StartsAtZero(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/v1/wallet/balance")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Balance decimal.Decimal `json:"balance"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "0.00", body.Balance.StringFixed(2))
}

func TestDeposit_FailsOnceThenRetrySucceeds(t *testing.T) {
	srv, l, j := newTestServer(t, true)

	resp := postJSON(t, srv.URL+"/v1/deposits", validCardBody("100"))
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var failure struct {
		DepositID string `json:"deposit_id"`
		Error     string `json:"error"`
		Retryable bool   `json:"retryable"`
	}
	decodeBody(t, resp, &failure)
	require.NotEmpty(t, failure.DepositID)
	assert.True(t, failure.Retryable)
	assert.Equal(t, "0.00", l.Balance().StringFixed(2))
	assert.Equal(t, 0, j.Len())

	retry, err := http.Post(srv.URL+"/v1/deposits/"+failure.DepositID+"/retry", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, retry.StatusCode)

	var res resultBody
	decodeBody(t, retry, &res)
	assert.Equal(t, "100.00", res.Balance.StringFixed(2))
	assert.Equal(t, domain.TypeAdd, res.Transaction.Type)
	assert.Equal(t, "Visa Card", res.Transaction.Merchant)
	assert.Equal(t, 1, j.Len())
}

func TestDeposit_RejectsInvalidCard(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	body := validCardBody("100")
	body["card_number"] = "5500005555555559"

	resp := postJSON(t, srv.URL+"/v1/deposits", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
}

func TestDeposit_RetryUnknownSession(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	resp, err := http.Post(srv.URL+"/v1/deposits/1b671a64-40d5-491e-99b0-da01ff1f3341/retry", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPay_FullFlow(t *testing.T) {
	srv, l, j := newTestServer(t, false)

	// Fund the wallet first.
	resp := postJSON(t, srv.URL+"/v1/deposits", validCardBody("100"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/v1/payments/pay", map[string]any{
		"merchant": "Coffee Shop",
		"amount":   json.RawMessage("25.50"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var res resultBody
	decodeBody(t, resp, &res)
	assert.Equal(t, "74.50", res.Balance.StringFixed(2))
	assert.Equal(t, domain.TypePayment, res.Transaction.Type)
	assert.Equal(t, "74.50", l.Balance().StringFixed(2))
	require.Equal(t, 2, j.Len())

	// Newest first: the payment precedes the deposit.
	list := j.List()
	assert.Equal(t, "Coffee Shop", list[0].Merchant)
	assert.Equal(t, "Visa Card", list[1].Merchant)
}

func TestPay_InsufficientBalance(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	resp := postJSON(t, srv.URL+"/v1/payments/pay", map[string]any{
		"merchant": "Coffee Shop",
		"amount":   json.RawMessage("50"),
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

	var prob struct {
		Type   string `json:"type"`
		Status int    `json:"status"`
		Detail string `json:"detail"`
	}
	decodeBody(t, resp, &prob)
	assert.Equal(t, http.StatusUnprocessableEntity, prob.Status)
	assert.Contains(t, prob.Detail, "Insufficient balance")
}

func TestSend_RequiresRecipient(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	resp := postJSON(t, srv.URL+"/v1/payments/send", map[string]any{
		"recipient": "  ",
		"amount":    json.RawMessage("5"),
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScan_SimulatedTap(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	resp := postJSON(t, srv.URL+"/v1/scan", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Merchant string          `json:"merchant"`
		Amount   decimal.Decimal `json:"amount"`
	}
	decodeBody(t, resp, &payload)
	assert.Equal(t, "Test Merchant", payload.Merchant)
	assert.Equal(t, "25.50", payload.Amount.StringFixed(2))
}

func TestScan_ManualTag(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	resp := postJSON(t, srv.URL+"/v1/scan", map[string]any{
		"tag": "Book Store|12.99",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Merchant string          `json:"merchant"`
		Amount   decimal.Decimal `json:"amount"`
	}
	decodeBody(t, resp, &payload)
	assert.Equal(t, "Book Store", payload.Merchant)

	bad := postJSON(t, srv.URL+"/v1/scan", map[string]any{"tag": "garbage"})
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestTransactions_ListAndClear(t *testing.T) {
	srv, _, j := newTestServer(t, false)

	resp := postJSON(t, srv.URL+"/v1/deposits", validCardBody("20"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	listResp, err := http.Get(srv.URL + "/v1/transactions")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var body struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	decodeBody(t, listResp, &body)
	require.Len(t, body.Transactions, 1)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/transactions", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
	assert.Equal(t, 0, j.Len())
}

func TestWalletReset(t *testing.T) {
	srv, l, _ := newTestServer(t, false)

	resp := postJSON(t, srv.URL+"/v1/deposits", validCardBody("30"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	require.Equal(t, "30.00", l.Balance().StringFixed(2))

	reset, err := http.Post(srv.URL+"/v1/wallet/reset", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, reset.StatusCode)

	var body struct {
		Balance decimal.Decimal `json:"balance"`
	}
	decodeBody(t, reset, &body)
	assert.Equal(t, "0.00", body.Balance.StringFixed(2))
}

func TestWalletExternal_Disabled(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/v1/wallet/external")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info walletext.Info
	decodeBody(t, resp, &info)
	assert.Equal(t, walletext.StatusNone, info.Status)
	assert.Nil(t, info.Balance)
}

func TestDeposit_CancelDiscardsSession(t *testing.T) {
	srv, l, _ := newTestServer(t, true)

	resp := postJSON(t, srv.URL+"/v1/deposits", validCardBody("100"))
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var failure struct {
		DepositID string `json:"deposit_id"`
	}
	decodeBody(t, resp, &failure)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/deposits/"+failure.DepositID, nil)
	require.NoError(t, err)
	cancelResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	cancelResp.Body.Close()
	require.Equal(t, http.StatusNoContent, cancelResp.StatusCode)

	retry, err := http.Post(srv.URL+"/v1/deposits/"+failure.DepositID+"/retry", "application/json", nil)
	require.NoError(t, err)
	defer retry.Body.Close()
	assert.Equal(t, http.StatusNotFound, retry.StatusCode)
	assert.Equal(t, "0.00", l.Balance().StringFixed(2))
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, false)

	for _, path := range []string{"/healthz/live", "/healthz/ready"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, fmt.Sprintf("GET %s", path))
	}
}
