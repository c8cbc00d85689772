package builder

import (
	"time"

	"palmgrove-bookings/internal/domain/coupon"
	"palmgrove-bookings/internal/domain/pricing"

	"github.com/google/uuid"
)

// CouponBuilder assembles an enabled 10%-capped coupon valid through 2026.
type CouponBuilder struct {
	id                uuid.UUID
	code              string
	scopes            []coupon.Scope
	minOrderValue     pricing.Money
	maxUsesPerContact int
	rule              coupon.Rule
	validFrom         *time.Time
	validTo           *time.Time
	enabled           bool
}

func NewCouponBuilder() *CouponBuilder {
	validFrom := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	validTo := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	rule, _ := coupon.NewPercentageRule(10, 500)
	return &CouponBuilder{
		id:                uuid.New(),
		code:              "SAVE10",
		scopes:            []coupon.Scope{coupon.ScopeAll},
		minOrderValue:     0,
		maxUsesPerContact: 3,
		rule:              rule,
		validFrom:         &validFrom,
		validTo:           &validTo,
		enabled:           true,
	}
}

func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.code = code
	return b
}

func (b *CouponBuilder) WithScopes(scopes ...coupon.Scope) *CouponBuilder {
	b.scopes = scopes
	return b
}

func (b *CouponBuilder) WithMinOrderValue(v pricing.Money) *CouponBuilder {
	b.minOrderValue = v
	return b
}

func (b *CouponBuilder) WithMaxUses(n int) *CouponBuilder {
	b.maxUsesPerContact = n
	return b
}

func (b *CouponBuilder) WithFlatRule(amount pricing.Money) *CouponBuilder {
	rule, _ := coupon.NewFlatRule(amount)
	b.rule = rule
	return b
}

func (b *CouponBuilder) WithPercentageRule(percent float64, cap pricing.Money) *CouponBuilder {
	rule, _ := coupon.NewPercentageRule(percent, cap)
	b.rule = rule
	return b
}

func (b *CouponBuilder) WithWindow(from, to *time.Time) *CouponBuilder {
	b.validFrom = from
	b.validTo = to
	return b
}

func (b *CouponBuilder) Disabled() *CouponBuilder {
	b.enabled = false
	return b
}

func (b *CouponBuilder) BuildDomain() (*coupon.Coupon, error) {
	return coupon.NewCoupon(
		b.id, b.code, b.scopes,
		b.minOrderValue, b.maxUsesPerContact,
		b.rule, b.validFrom, b.validTo, b.enabled,
	)
}
