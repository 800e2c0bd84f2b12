// Package card validates the mock Visa form and owns deposit sessions,
// including the scripted first-attempt network failure.
package card

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotVisa       = errors.New("visa cards must start with 4")
	ErrCardLength    = errors.New("card number must be 13-19 digits")
	ErrLuhnCheck     = errors.New("invalid card number")
	ErrMissingName   = errors.New("cardholder name is required")
	ErrInvalidExpiry = errors.New("expiry must be in MM/YY format")
	ErrCardExpired   = errors.New("card has expired")
	ErrInvalidCVV    = errors.New("cvv must be 3 digits")
)

var digitsOnly = regexp.MustCompile(`^\d{13,19}$`)

// Details is the card form payload after input masking.
type Details struct {
	Number         string `json:"card_number"`
	CardholderName string `json:"cardholder_name"`
	Expiry         string `json:"expiry"` // MM/YY
	CVV            string `json:"cvv"`
}

// Validate runs the same local checks as the original form: Visa prefix,
// length, Luhn checksum, cardholder presence, expiry, CVV.
func (d Details) Validate(now time.Time) error {
	number := strings.ReplaceAll(d.Number, " ", "")
	if !strings.HasPrefix(number, "4") {
		return ErrNotVisa
	}
	if !digitsOnly.MatchString(number) {
		return ErrCardLength
	}
	if !luhnValid(number) {
		return ErrLuhnCheck
	}
	if strings.TrimSpace(d.CardholderName) == "" {
		return ErrMissingName
	}
	if err := validateExpiry(d.Expiry, now); err != nil {
		return err
	}
	if len(d.CVV) != 3 || strings.IndexFunc(d.CVV, notDigit) >= 0 {
		return ErrInvalidCVV
	}
	return nil
}

// FormatNumber groups a digit string into blocks of four for display.
func FormatNumber(number string) string {
	cleaned := strings.ReplaceAll(number, " ", "")
	var chunks []string
	for len(cleaned) > 4 {
		chunks = append(chunks, cleaned[:4])
		cleaned = cleaned[4:]
	}
	if cleaned != "" {
		chunks = append(chunks, cleaned)
	}
	return strings.Join(chunks, " ")
}

func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

func validateExpiry(expiry string, now time.Time) error {
	parts := strings.SplitN(expiry, "/", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return ErrInvalidExpiry
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return ErrInvalidExpiry
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return ErrInvalidExpiry
	}
	year += 2000

	// Valid through the last instant of the expiry month.
	endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.Before(endOfMonth) {
		return ErrCardExpired
	}
	return nil
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}
