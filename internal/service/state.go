package service

import (
	"github.com/shopspring/decimal"

	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
)

// State is a phase of one transfer request's lifecycle.
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateProcessing State = "PROCESSING"
	StateCommitting State = "COMMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

var paymentTransitions = map[State]map[State]struct{}{
	StateIdle: {
		StateValidating: {},
	},
	StateValidating: {
		StateProcessing: {},
		StateFailed:     {},
	},
	StateProcessing: {
		StateCommitting: {},
		StateFailed:     {},
	},
	StateCommitting: {
		StateSucceeded: {},
		StateFailed:    {},
	},
	StateSucceeded: {
		StateIdle: {},
	},
	StateFailed: {
		StateIdle: {},
	},
}

func canTransition(current, next State) bool {
	nextStates, ok := paymentTransitions[current]
	if !ok {
		return false
	}
	_, ok = nextStates[next]
	return ok
}

// Event describes one state transition of an in-flight transfer request.
// Events are informational; subscribers cannot influence the outcome.
type Event struct {
	Flow          domain.Flow     `json:"flow"`
	State         State           `json:"state"`
	Merchant      string          `json:"merchant"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}

// Notifier receives transfer state events, e.g. for a websocket feed.
type Notifier interface {
	PaymentEvent(Event)
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) PaymentEvent(Event) {}

// run tracks the state of a single transfer request and publishes each
// transition. Invalid transitions indicate a programming error and panic.
type run struct {
	flow     domain.Flow
	merchant string
	amount   decimal.Decimal
	state    State
	notifier Notifier
}

func newRun(flow domain.Flow, merchant string, amount decimal.Decimal, notifier Notifier) *run {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &run{flow: flow, merchant: merchant, amount: amount, state: StateIdle, notifier: notifier}
}

func (r *run) to(next State) {
	r.emit(next, "", "")
}

func (r *run) fail(reason string) {
	r.emit(StateFailed, "", reason)
	r.emit(StateIdle, "", "")
}

func (r *run) succeed(transactionID string) {
	r.emit(StateSucceeded, transactionID, "")
	r.emit(StateIdle, "", "")
}

func (r *run) emit(next State, transactionID, reason string) {
	if !canTransition(r.state, next) {
		panic("invalid payment state transition: " + string(r.state) + " -> " + string(next))
	}
	r.state = next
	r.notifier.PaymentEvent(Event{
		Flow:          r.flow,
		State:         next,
		Merchant:      r.merchant,
		Amount:        r.amount,
		TransactionID: transactionID,
		Reason:        reason,
	})
}
