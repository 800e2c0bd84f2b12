package domain

import "errors"

var (
	// ErrInsufficientBalance is returned when an outgoing transfer would take
	// the balance below zero, at pre-flight validation or at commit.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount covers missing, non-numeric and non-positive amounts.
	ErrInvalidAmount = errors.New("amount must be greater than 0")

	// ErrAmountExceedsCap is returned when an amount is above the configured
	// per-transfer maximum.
	ErrAmountExceedsCap = errors.New("amount exceeds the maximum allowed")

	// ErrMissingRecipient is returned when a transfer request carries no
	// counterparty label.
	ErrMissingRecipient = errors.New("recipient is required")

	// ErrNetworkUnavailable is the scripted transient failure injected into
	// the first submission of a card deposit session.
	ErrNetworkUnavailable = errors.New("network error, please check your connection and try again")
)
