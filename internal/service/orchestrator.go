// Package service contains the payment orchestrator: the state machine that
// sequences validation, simulated processing latency, and the atomic
// ledger-plus-journal commit for every money movement.
package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
	"github.com/RealNoorMuhammad/nfcpay/internal/gateway"
	"github.com/RealNoorMuhammad/nfcpay/internal/journal"
	"github.com/RealNoorMuhammad/nfcpay/internal/ledger"
	"github.com/RealNoorMuhammad/nfcpay/internal/observability"
)

// Result reports a committed transfer: the journaled transaction and the
// balance after the mutation.
type Result struct {
	Transaction domain.Transaction `json:"transaction"`
	Balance     decimal.Decimal    `json:"balance"`
}

// Orchestrator runs transfer requests through
// Idle -> Validating -> Processing -> Committing -> Succeeded/Failed -> Idle.
// It is stateless across requests, so independent flows may overlap; the
// ledger's debit serializes the authoritative check-and-mutate.
type Orchestrator struct {
	ledger    *ledger.Ledger
	journal   *journal.Journal
	gateway   gateway.Gateway
	notifier  Notifier
	maxAmount decimal.Decimal
	logger    *zap.Logger
}

func NewOrchestrator(l *ledger.Ledger, j *journal.Journal, gw gateway.Gateway, maxAmount decimal.Decimal, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		ledger:    l,
		journal:   j,
		gateway:   gw,
		notifier:  NopNotifier{},
		maxAmount: maxAmount,
		logger:    logger,
	}
}

// WithNotifier subscribes a notifier to per-request state events.
func (o *Orchestrator) WithNotifier(n Notifier) *Orchestrator {
	if n != nil {
		o.notifier = n
	}
	return o
}

// Pay executes an incoming NFC payment request against a merchant.
func (o *Orchestrator) Pay(ctx context.Context, merchant string, amount decimal.Decimal) (*Result, error) {
	return o.execute(ctx, domain.FlowPay, merchant, amount)
}

// Send executes an outgoing transfer to a named recipient.
func (o *Orchestrator) Send(ctx context.Context, recipient string, amount decimal.Decimal) (*Result, error) {
	return o.execute(ctx, domain.FlowSend, recipient, amount)
}

// Deposit credits the wallet from an external source. Deposits skip the
// balance pre-flight since they only increase the balance.
func (o *Orchestrator) Deposit(ctx context.Context, source string, amount decimal.Decimal) (*Result, error) {
	return o.execute(ctx, domain.FlowDeposit, source, amount)
}

func (o *Orchestrator) execute(ctx context.Context, flow domain.Flow, merchant string, amount decimal.Decimal) (*Result, error) {
	r := newRun(flow, merchant, amount, o.notifier)

	r.to(StateValidating)
	if merchant == "" {
		r.fail(domain.ErrMissingRecipient.Error())
		observability.IncrementPayment(string(flow), "rejected")
		return nil, domain.ErrMissingRecipient
	}
	if err := domain.ValidateAmount(amount, o.maxAmount); err != nil {
		r.fail(err.Error())
		observability.IncrementPayment(string(flow), "rejected")
		return nil, err
	}
	if flow.Outgoing() && amount.GreaterThan(o.ledger.Balance()) {
		r.fail(domain.ErrInsufficientBalance.Error())
		observability.IncrementPayment(string(flow), "insufficient_balance")
		return nil, domain.ErrInsufficientBalance
	}

	// The request is now the pending transfer; the simulated round-trip is
	// the suspension point. Cancellation here leaves no partial effects.
	r.to(StateProcessing)
	if err := o.gateway.Process(ctx, flow); err != nil {
		r.fail(err.Error())
		observability.IncrementPayment(string(flow), "canceled")
		return nil, err
	}

	r.to(StateCommitting)
	result, err := o.commit(ctx, flow, merchant, amount)
	if err != nil {
		r.fail(err.Error())
		if err == domain.ErrInsufficientBalance {
			observability.IncrementPayment(string(flow), "insufficient_balance")
		} else {
			observability.IncrementPayment(string(flow), "error")
		}
		return nil, err
	}

	r.succeed(result.Transaction.ID)
	observability.IncrementPayment(string(flow), "succeeded")
	o.logger.Info("transfer committed",
		zap.String("flow", string(flow)),
		zap.String("transaction_id", result.Transaction.ID),
		zap.String("merchant", merchant),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("balance", result.Balance.StringFixed(2)),
	)
	return result, nil
}

// commit performs the single ledger mutation plus journal append. The debit
// re-checks the balance authoritatively: a concurrent transfer may have
// depleted it since validation.
func (o *Orchestrator) commit(ctx context.Context, flow domain.Flow, merchant string, amount decimal.Decimal) (*Result, error) {
	typ := domain.TypeAdd
	if flow.Outgoing() {
		typ = domain.TypePayment

		ok, err := o.ledger.Debit(ctx, amount)
		if err != nil {
			return nil, fmt.Errorf("debit: %w", err)
		}
		if !ok {
			return nil, domain.ErrInsufficientBalance
		}
	} else {
		if _, err := o.ledger.Credit(ctx, amount); err != nil {
			return nil, fmt.Errorf("credit: %w", err)
		}
	}

	tx, err := o.journal.Append(ctx, merchant, amount, typ)
	if err != nil {
		// The balance already moved; undo it so the ledger and journal stay
		// consistent with each other.
		o.compensate(ctx, flow, amount)
		return nil, fmt.Errorf("journal append: %w", err)
	}

	return &Result{Transaction: tx, Balance: o.ledger.Balance()}, nil
}

func (o *Orchestrator) compensate(ctx context.Context, flow domain.Flow, amount decimal.Decimal) {
	var err error
	if flow.Outgoing() {
		_, err = o.ledger.Credit(ctx, amount)
	} else {
		_, err = o.ledger.Debit(ctx, amount)
	}
	if err != nil {
		o.logger.Error("compensating ledger mutation failed",
			zap.String("flow", string(flow)),
			zap.String("amount", amount.StringFixed(2)),
			zap.Error(err),
		)
	}
}
