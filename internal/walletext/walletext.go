// Package walletext surfaces a read-only balance from a browser-extension
// style crypto wallet. It is display-only: nothing here can reach the ledger
// or the journal.
package walletext

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Status describes the capability level of the external wallet.
type Status string

const (
	// StatusNone: no wallet is installed or configured.
	StatusNone Status = "none"
	// StatusDisconnected: a wallet endpoint exists but no account is linked.
	StatusDisconnected Status = "disconnected"
	// StatusConnected: an account is linked and a balance is available.
	StatusConnected Status = "connected"
)

// Info is the display-only view of the external wallet.
type Info struct {
	Status  Status           `json:"status"`
	Address string           `json:"address,omitempty"`
	Balance *decimal.Decimal `json:"balance,omitempty"` // SOL
}

// Provider supplies the informational wallet balance.
type Provider interface {
	Info(ctx context.Context) (Info, error)
}

// Disabled is the "not present" variant.
type Disabled struct{}

func (Disabled) Info(context.Context) (Info, error) {
	return Info{Status: StatusNone}, nil
}

var lamportsPerSOL = decimal.NewFromInt(1_000_000_000)

// SolanaProvider reads an account balance over Solana JSON-RPC.
type SolanaProvider struct {
	client  *resty.Client
	address string
}

func NewSolanaProvider(rpcURL, address string) *SolanaProvider {
	client := resty.New().
		SetBaseURL(rpcURL).
		SetTimeout(5 * time.Second)
	return &SolanaProvider{client: client, address: address}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcBalanceResponse struct {
	Result struct {
		Value int64 `json:"value"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Info fetches the lamport balance and converts it to SOL. An empty address
// means the wallet exists but is not connected.
func (p *SolanaProvider) Info(ctx context.Context) (Info, error) {
	if p.address == "" {
		return Info{Status: StatusDisconnected}, nil
	}

	var out rpcBalanceResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(rpcRequest{
			JSONRPC: "2.0",
			ID:      1,
			Method:  "getBalance",
			Params:  []any{p.address},
		}).
		SetResult(&out).
		Post("")
	if err != nil {
		return Info{}, fmt.Errorf("wallet rpc: %w", err)
	}
	if resp.IsError() {
		return Info{}, fmt.Errorf("wallet rpc: unexpected status %s", resp.Status())
	}
	if out.Error != nil {
		return Info{}, fmt.Errorf("wallet rpc: %s", out.Error.Message)
	}

	sol := decimal.NewFromInt(out.Result.Value).Div(lamportsPerSOL)
	return Info{Status: StatusConnected, Address: p.address, Balance: &sol}, nil
}
