// Package gateway simulates the processing round-trip of a real payment
// network. Nothing settles anywhere; the gateway only supplies latency.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
)

// Gateway models the external processor consulted during the Processing
// phase. A nil error means the round-trip completed; a context error means
// the request was abandoned before completion and nothing may be committed.
type Gateway interface {
	Process(ctx context.Context, flow domain.Flow) error
}

// Simulated waits a fixed, per-flow delay to emulate a processing round-trip.
// The delays mirror the original demo: 2.5s for NFC pay, 2s for send, 1.5s
// for card deposits.
type Simulated struct {
	delays map[domain.Flow]time.Duration
}

func NewSimulated(pay, send, deposit time.Duration) *Simulated {
	return &Simulated{
		delays: map[domain.Flow]time.Duration{
			domain.FlowPay:     pay,
			domain.FlowSend:    send,
			domain.FlowDeposit: deposit,
		},
	}
}

// Process blocks for the flow's configured delay. Cancelling ctx aborts the
// wait immediately.
func (g *Simulated) Process(ctx context.Context, flow domain.Flow) error {
	timer := time.NewTimer(g.delays[flow])
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("processing canceled: %w", ctx.Err())
	}
}
