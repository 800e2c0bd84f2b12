// Package scanner is the scan/input collaborator: it yields a
// {merchant, amount} payload after a bounded delay, or fails with a
// human-readable reason. The core treats any failure as "no transfer request".
package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrScanTimeout mirrors the original demo's 30s NFC read timeout message.
	ErrScanTimeout = errors.New("scan timed out, hold the tag closer to the device and try again")
	// ErrEmptyTag is returned for blank tag data.
	ErrEmptyTag = errors.New("tag contains no data")
	// ErrTagAmount is returned when the tag carries no positive amount.
	ErrTagAmount = errors.New("invalid amount in tag data, amount must be greater than 0")
)

// Payload is the scan result handed to the payment flow.
type Payload struct {
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
}

// Scanner produces one payload per scan attempt.
type Scanner interface {
	Scan(ctx context.Context) (Payload, error)
}

// Simulated emulates tapping a tag: after a fixed delay it yields a canned
// merchant and amount, standing in for real NFC hardware.
type Simulated struct {
	delay    time.Duration
	merchant string
	amount   decimal.Decimal
}

func NewSimulated(delay time.Duration, merchant string, amount decimal.Decimal) *Simulated {
	return &Simulated{delay: delay, merchant: merchant, amount: amount}
}

func (s *Simulated) Scan(ctx context.Context) (Payload, error) {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return Payload{Merchant: s.merchant, Amount: s.amount}, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Payload{}, ErrScanTimeout
		}
		return Payload{}, ctx.Err()
	}
}

// tagRecord is the JSON form a tag may carry.
type tagRecord struct {
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
}

// ParseTag decodes manually entered or scanned tag text. Two formats are
// accepted: a JSON object {"merchant": ..., "amount": ...}, or the plain
// "merchant|amount" form. The amount must parse to a positive number.
func ParseTag(text string) (Payload, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Payload{}, ErrEmptyTag
	}

	var rec tagRecord
	if err := json.Unmarshal([]byte(text), &rec); err == nil {
		return payloadFrom(rec.Merchant, rec.Amount)
	}

	parts := strings.SplitN(text, "|", 2)
	if len(parts) == 2 {
		amount, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return Payload{}, ErrTagAmount
		}
		return payloadFrom(strings.TrimSpace(parts[0]), amount)
	}

	return Payload{}, ErrTagAmount
}

func payloadFrom(merchant string, amount decimal.Decimal) (Payload, error) {
	if merchant == "" {
		merchant = "Unknown Merchant"
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Payload{}, ErrTagAmount
	}
	return Payload{Merchant: merchant, Amount: amount}, nil
}
