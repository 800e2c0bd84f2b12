package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a completed money movement.
type TransactionType string

const (
	// TypePayment records money leaving the wallet (NFC pay or send).
	TypePayment TransactionType = "payment"
	// TypeAdd records money entering the wallet (card deposit).
	TypeAdd TransactionType = "add"
)

// Flow identifies which user flow produced a transfer request. Pay and send
// are outgoing; deposit is incoming.
type Flow string

const (
	FlowPay     Flow = "pay"
	FlowSend    Flow = "send"
	FlowDeposit Flow = "deposit"
)

// Outgoing reports whether the flow debits the wallet balance.
func (f Flow) Outgoing() bool {
	return f == FlowPay || f == FlowSend
}

// Transaction is the immutable record of one completed money movement.
// Fields never change once the record has been appended to the journal.
type Transaction struct {
	ID        string          `json:"id"`
	Merchant  string          `json:"merchant"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
}
