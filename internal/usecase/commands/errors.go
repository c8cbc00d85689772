package commands

import "palmgrove-bookings/internal/pkg/errs"

var (
	ErrInvalidInput           = errs.New("invalid input")
	ErrBookingNotFound        = errs.New("booking not found")
	ErrRateUnavailable        = errs.New("resource rate unavailable")
	ErrCouponRejected         = errs.New("coupon rejected")
	ErrDuplicateSubmission    = errs.New("duplicate submission with different parameters")
	ErrIdempotencyInProgress  = errs.New("request is already being processed")
	ErrIdempotencyKeyRequired = errs.New("idempotency key required")
	ErrBookingNotPayable      = errs.New("booking is not payable")
	ErrSessionNotFound        = errs.New("payment session not found")
	ErrSignatureInvalid       = errs.New("callback signature invalid")
	ErrGatewayUnavailable     = errs.New("payment gateway unavailable")
	ErrAmountMismatch         = errs.New("charge amount does not match quoted total")

	// Error markers for categorization
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)
