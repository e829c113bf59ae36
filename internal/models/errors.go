package models

import "errors"

// Domain errors surfaced by the ledger and redemption cores. The HTTP layer
// maps these onto status codes: validation 400, authorization 403, not
// found 404, conflict 409.
var (
	// ErrEventNotFound is returned when a referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrNoQuota is returned when the event has no ticket quota configured.
	ErrNoQuota = errors.New("event has no ticket quota")

	// ErrSoldOut is returned when no tickets remain.
	ErrSoldOut = errors.New("tickets sold out")

	// ErrQuantityExceedsRemaining is returned when the requested quantity
	// is larger than the remaining quota.
	ErrQuantityExceedsRemaining = errors.New("quantity exceeds remaining tickets")

	// ErrQuantityTooLarge is returned when the quantity exceeds the
	// per-purchase hard cap.
	ErrQuantityTooLarge = errors.New("quantity too large")

	// ErrInvalidPrice is returned when the event's configured unit price
	// is not positive.
	ErrInvalidPrice = errors.New("invalid event price")

	// ErrAmountPriceMismatch is returned when quantity is omitted and the
	// paid amount is not an exact multiple of the unit price.
	ErrAmountPriceMismatch = errors.New("amount is not a multiple of the ticket price")

	// ErrInvalidAmount is returned for non-positive ledger amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrTicketNotFound is returned when the scanned ticket id is unknown.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrNotAPurchase is returned when the ledger row is not a ticket
	// purchase.
	ErrNotAPurchase = errors.New("not a ticket purchase")

	// ErrTicketHasNoEvent is returned when a purchase row carries no event
	// reference.
	ErrTicketHasNoEvent = errors.New("ticket has no event")

	// ErrNotYourEvent is returned when a promoter touches a ticket whose
	// event belongs to another promoter.
	ErrNotYourEvent = errors.New("event belongs to another promoter")

	// ErrWrongEvent is returned by ticket verification when the ticket's
	// event differs from the one selected in the scanner.
	ErrWrongEvent = errors.New("ticket belongs to a different event")

	// ErrForbiddenRole is returned when the caller's role is not allowed
	// to perform the operation.
	ErrForbiddenRole = errors.New("role not allowed")
)
