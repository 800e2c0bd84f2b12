package card

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func validDetails() Details {
	return Details{
		Number:         "4111 1111 1111 1111",
		CardholderName: "Jordan Smith",
		Expiry:         "12/28",
		CVV:            "123",
	}
}

func TestDetailsValidate(t *testing.T) {
	assert.NoError(t, validDetails().Validate(testNow))
}

func TestDetailsValidate_RejectsNonVisa(t *testing.T) {
	d := validDetails()
	d.Number = "5500005555555559" // mastercard prefix
	assert.ErrorIs(t, d.Validate(testNow), ErrNotVisa)
}

func TestDetailsValidate_RejectsBadLength(t *testing.T) {
	d := validDetails()
	d.Number = "411111111111" // 12 digits
	assert.ErrorIs(t, d.Validate(testNow), ErrCardLength)

	d.Number = "41111111111111111111" // 20 digits
	assert.ErrorIs(t, d.Validate(testNow), ErrCardLength)
}

func TestDetailsValidate_RejectsLuhnFailure(t *testing.T) {
	d := validDetails()
	d.Number = "4111111111111112"
	assert.ErrorIs(t, d.Validate(testNow), ErrLuhnCheck)
}

func TestDetailsValidate_RejectsMissingName(t *testing.T) {
	d := validDetails()
	d.CardholderName = "   "
	assert.ErrorIs(t, d.Validate(testNow), ErrMissingName)
}

func TestDetailsValidate_Expiry(t *testing.T) {
	d := validDetails()

	d.Expiry = "13/28"
	assert.ErrorIs(t, d.Validate(testNow), ErrInvalidExpiry)

	d.Expiry = "1/28"
	assert.ErrorIs(t, d.Validate(testNow), ErrInvalidExpiry)

	d.Expiry = "0228" // missing separator
	assert.ErrorIs(t, d.Validate(testNow), ErrInvalidExpiry)

	d.Expiry = "02/26" // before March 2026
	assert.ErrorIs(t, d.Validate(testNow), ErrCardExpired)

	// Valid through the last instant of the expiry month.
	d.Expiry = "03/26"
	assert.NoError(t, d.Validate(testNow))
}

func TestDetailsValidate_RejectsBadCVV(t *testing.T) {
	d := validDetails()

	d.CVV = "12"
	assert.ErrorIs(t, d.Validate(testNow), ErrInvalidCVV)

	d.CVV = "12a"
	assert.ErrorIs(t, d.Validate(testNow), ErrInvalidCVV)

	d.CVV = "1234"
	assert.ErrorIs(t, d.Validate(testNow), ErrInvalidCVV)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", FormatNumber("4111111111111111"))
	assert.Equal(t, "4111 111", FormatNumber("4111111"))
	assert.Equal(t, "4111", FormatNumber("4111"))
	assert.Equal(t, "", FormatNumber(""))
}

func TestLuhnValid(t *testing.T) {
	assert.True(t, luhnValid("4111111111111111"))
	assert.True(t, luhnValid("4242424242424242"))
	assert.False(t, luhnValid("4111111111111112"))
}
