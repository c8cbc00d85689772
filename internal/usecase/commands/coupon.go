package commands

import (
	"context"
	"log/slog"

	"palmgrove-bookings/internal/domain/booking"
	"palmgrove-bookings/internal/domain/coupon"
	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/pkg/clock"
	"palmgrove-bookings/internal/pkg/errs"
)

var errCouponNotFound = errs.New("coupon not found")

// CouponValidator checks one coupon code against one quote and booking
// context. The result is advisory: it never mutates the quote; the booking
// orchestrator decides whether to fold the discount in.
type CouponValidator interface {
	Validate(ctx context.Context, code string, quote pricing.Quote, category booking.Category, contactID string) (coupon.Application, error)
}

type couponValidatorImpl struct {
	couponRepo CouponRepository
	ledger     UsageLedger
	clock      clock.Clock
}

func NewCouponValidator(couponRepo CouponRepository, ledger UsageLedger, clock clock.Clock) CouponValidator {
	return &couponValidatorImpl{
		couponRepo: couponRepo,
		ledger:     ledger,
		clock:      clock,
	}
}

// Validate runs the eligibility checks in a fixed order, short-circuiting on
// the first failure. Rejections come back inside the Application; the error
// return is reserved for infrastructure failures.
func (v *couponValidatorImpl) Validate(
	ctx context.Context,
	code string,
	quote pricing.Quote,
	category booking.Category,
	contactID string,
) (coupon.Application, error) {
	normalized, err := coupon.NewCode(code)
	if err != nil {
		return coupon.Rejected(code, err), nil
	}

	entity, err := v.couponRepo.FindByCode(ctx, normalized.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return coupon.Rejected(normalized.String(), errCouponNotFound), nil
		}
		return coupon.Application{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	usageCount, err := v.ledger.UsageCount(ctx, normalized.String(), contactID)
	if err != nil {
		// A dead ledger should not take checkout down with it; treat the
		// count as zero and log. Worst case a contact exceeds the cap by
		// the ledger's downtime.
		slog.Warn("usage ledger unavailable, assuming zero usage",
			"coupon_code", normalized.String(), "error", err)
		usageCount = 0
	}

	scope := coupon.Scope(category.String())
	if eligErr := entity.CheckEligibility(v.clock.Now(), scope, quote.Subtotal, usageCount); eligErr != nil {
		return coupon.Rejected(normalized.String(), eligErr), nil
	}

	discount := entity.DiscountFor(quote.Subtotal)
	return coupon.Accepted(entity, discount), nil
}
