// Package domain holds the errors and event contract shared by every
// domain package.
package domain

import "errors"

var (
	// ErrProfileNotFound is returned when a referral profile cannot be found.
	ErrProfileNotFound = errors.New("referral profile not found")

	// ErrCompanyNotFound is returned when a company cannot be found.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrPaymentNotFound is returned when a payment cannot be found.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrInvalidAmount is returned when a monetary input is non-positive or malformed.
	ErrInvalidAmount = errors.New("amount must be a positive decimal")

	// ErrInvalidFee is returned when a fee is negative or exceeds the payment amount.
	ErrInvalidFee = errors.New("fee must be non-negative and not exceed the amount")

	// ErrInvalidCurrencyCode is returned when a currency code is not a
	// well-formed ISO 4217 code (3 uppercase letters).
	ErrInvalidCurrencyCode = errors.New("invalid currency code")

	// ErrInvalidTransition is returned when a payment transition is not
	// allowed from the current status. The payment is left unchanged.
	ErrInvalidTransition = errors.New("invalid payment status transition")

	// ErrConflict is returned when a write collided with another in-flight
	// transition on the same entity. Transitions are idempotent, so the
	// caller may safely retry the whole operation.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrSelfReferral is returned when a user tries to link their own
	// referral code.
	ErrSelfReferral = errors.New("users cannot refer themselves")

	// ErrInvalidLevel is returned when a commission level is not positive.
	ErrInvalidLevel = errors.New("commission level must be positive")

	// ErrEmptyRateTable is returned when a distribution is requested with no rates.
	ErrEmptyRateTable = errors.New("rate table must contain at least one rate")
)

// Event is the marker interface implemented by all domain events.
type Event interface {
	Type() string
}
