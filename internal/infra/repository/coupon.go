package repository

import (
	"context"
	"errors"
	"time"

	"palmgrove-bookings/internal/domain/coupon"
	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(dbtx db.DBTX) *CouponRepository {
	return &CouponRepository{db: dbtx}
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var (
		id                uuid.UUID
		scopes            []string
		minOrderValue     int64
		maxUsesPerContact int
		percentOff        *float64
		percentCap        *int64
		flatAmount        *int64
		validFrom         *time.Time
		validTo           *time.Time
		enabled           bool
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, scopes, min_order_value, max_uses_per_contact,
		       percent_off, percent_cap, flat_amount, valid_from, valid_to, enabled
		FROM coupons WHERE code = $1`, code,
	).Scan(
		&id, &scopes, &minOrderValue, &maxUsesPerContact,
		&percentOff, &percentCap, &flatAmount, &validFrom, &validTo, &enabled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}

	rule, err := buildRule(percentOff, percentCap, flatAmount)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid coupon rule", err)
	}

	scopeList := make([]coupon.Scope, len(scopes))
	for i, s := range scopes {
		scopeList[i] = coupon.Scope(s)
	}

	entity, err := coupon.NewCoupon(
		id, code, scopeList,
		pricing.Money(minOrderValue), maxUsesPerContact,
		rule, validFrom, validTo, enabled,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to reconstruct coupon", err)
	}
	return entity, nil
}

func buildRule(percentOff *float64, percentCap, flatAmount *int64) (coupon.Rule, error) {
	if percentOff != nil {
		var capAmount pricing.Money
		if percentCap != nil {
			capAmount = pricing.Money(*percentCap)
		}
		return coupon.NewPercentageRule(*percentOff, capAmount)
	}
	if flatAmount != nil {
		return coupon.NewFlatRule(pricing.Money(*flatAmount))
	}
	return coupon.Rule{}, errors.New("coupon has neither percentage nor flat rule")
}
