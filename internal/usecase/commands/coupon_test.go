//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"palmgrove-bookings/internal/domain/booking"
	"palmgrove-bookings/internal/domain/coupon"
	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/pkg/clock"
	"palmgrove-bookings/internal/pkg/errs"
	"palmgrove-bookings/internal/usecase/commands"
	"palmgrove-bookings/tests/common/builder"
	commandsmock "palmgrove-bookings/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testContactID = "asha@example.com"

var checkoutTime = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func newValidator(t *testing.T) (commands.CouponValidator, *commandsmock.MockCouponRepository, *commandsmock.MockUsageLedger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	couponRepo := commandsmock.NewMockCouponRepository(ctrl)
	ledger := commandsmock.NewMockUsageLedger(ctrl)
	validator := commands.NewCouponValidator(couponRepo, ledger, clock.NewMockClock(checkoutTime))
	return validator, couponRepo, ledger
}

func quoteOf(subtotal pricing.Money) pricing.Quote {
	return pricing.Quote{
		Items: []pricing.LineItem{
			{Kind: pricing.KindStayNight, UnitPrice: subtotal / 2, Multiplier: 2, Subtotal: subtotal},
		},
		Subtotal:   subtotal,
		FinalTotal: subtotal,
	}
}

func TestCouponValidator_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed code is rejected without hitting the repository", func(t *testing.T) {
		validator, _, _ := newValidator(t)

		app, err := validator.Validate(ctx, "has space", quoteOf(9100), booking.CategoryRoom, testContactID)
		require.NoError(t, err)
		assert.False(t, app.Accepted)
		assert.ErrorIs(t, app.Reason, coupon.ErrInvalidCouponCode)
	})

	t.Run("unknown code is a rejection, not an error", func(t *testing.T) {
		validator, couponRepo, _ := newValidator(t)
		couponRepo.EXPECT().FindByCode(gomock.Any(), "NOSUCH").
			Return(nil, infra.WrapRepoErr("coupon not found", errors.New("no rows"), infra.KindNotFound))

		app, err := validator.Validate(ctx, "nosuch", quoteOf(9100), booking.CategoryRoom, testContactID)
		require.NoError(t, err)
		assert.False(t, app.Accepted)
		assert.EqualError(t, app.Reason, "coupon not found")
	})

	t.Run("repository failure surfaces as an error", func(t *testing.T) {
		validator, couponRepo, _ := newValidator(t)
		couponRepo.EXPECT().FindByCode(gomock.Any(), "SAVE10").
			Return(nil, infra.WrapRepoErr("query failed", errors.New("connection reset")))

		_, err := validator.Validate(ctx, "SAVE10", quoteOf(9100), booking.CategoryRoom, testContactID)
		assert.True(t, errs.Is(err, commands.ErrDatabaseOperationFailed))
	})

	t.Run("accepted coupon carries the capped discount", func(t *testing.T) {
		validator, couponRepo, ledger := newValidator(t)
		entity, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)

		couponRepo.EXPECT().FindByCode(gomock.Any(), "SAVE10").Return(entity, nil)
		ledger.EXPECT().UsageCount(gomock.Any(), "SAVE10", testContactID).Return(0, nil)

		app, err := validator.Validate(ctx, "  save10 ", quoteOf(9100), booking.CategoryRoom, testContactID)
		require.NoError(t, err)
		assert.True(t, app.Accepted)
		// 10% of 9100 is 910, capped at 500.
		assert.Equal(t, pricing.Money(500), app.DiscountAmount)
		assert.Equal(t, "SAVE10", app.Code)
	})

	t.Run("ledger outage degrades to zero usage instead of failing checkout", func(t *testing.T) {
		validator, couponRepo, ledger := newValidator(t)
		entity, err := builder.NewCouponBuilder().WithMaxUses(1).BuildDomain()
		require.NoError(t, err)

		couponRepo.EXPECT().FindByCode(gomock.Any(), "SAVE10").Return(entity, nil)
		ledger.EXPECT().UsageCount(gomock.Any(), "SAVE10", testContactID).
			Return(0, errors.New("redis: connection refused"))

		app, err := validator.Validate(ctx, "SAVE10", quoteOf(9100), booking.CategoryRoom, testContactID)
		require.NoError(t, err)
		assert.True(t, app.Accepted)
	})

	t.Run("usage cap rejects the code for this contact", func(t *testing.T) {
		validator, couponRepo, ledger := newValidator(t)
		entity, err := builder.NewCouponBuilder().WithMaxUses(3).BuildDomain()
		require.NoError(t, err)

		couponRepo.EXPECT().FindByCode(gomock.Any(), "SAVE10").Return(entity, nil)
		ledger.EXPECT().UsageCount(gomock.Any(), "SAVE10", testContactID).Return(3, nil)

		app, err := validator.Validate(ctx, "SAVE10", quoteOf(9100), booking.CategoryRoom, testContactID)
		require.NoError(t, err)
		assert.False(t, app.Accepted)
		assert.ErrorIs(t, app.Reason, coupon.ErrUsageLimitReached)
	})

	t.Run("scope mismatch rejects before the discount is computed", func(t *testing.T) {
		validator, couponRepo, ledger := newValidator(t)
		entity, err := builder.NewCouponBuilder().WithScopes(coupon.ScopeYoga).BuildDomain()
		require.NoError(t, err)

		couponRepo.EXPECT().FindByCode(gomock.Any(), "SAVE10").Return(entity, nil)
		ledger.EXPECT().UsageCount(gomock.Any(), "SAVE10", testContactID).Return(0, nil)

		app, err := validator.Validate(ctx, "SAVE10", quoteOf(9100), booking.CategoryRoom, testContactID)
		require.NoError(t, err)
		assert.False(t, app.Accepted)
		assert.ErrorIs(t, app.Reason, coupon.ErrScopeMismatch)
	})

	t.Run("subtotal below minimum order rejects", func(t *testing.T) {
		validator, couponRepo, ledger := newValidator(t)
		entity, err := builder.NewCouponBuilder().WithCode("MIN20000").WithMinOrderValue(20000).BuildDomain()
		require.NoError(t, err)

		couponRepo.EXPECT().FindByCode(gomock.Any(), "MIN20000").Return(entity, nil)
		ledger.EXPECT().UsageCount(gomock.Any(), "MIN20000", testContactID).Return(0, nil)

		app, err := validator.Validate(ctx, "MIN20000", quoteOf(9100), booking.CategoryRoom, testContactID)
		require.NoError(t, err)
		assert.False(t, app.Accepted)
		assert.ErrorIs(t, app.Reason, coupon.ErrBelowMinOrder)
	})
}
