package coupon

import (
	"errors"
	"time"

	"palmgrove-bookings/internal/domain/pricing"

	"github.com/google/uuid"
)

// Rejection reasons, one per eligibility check. The validator short-circuits
// on the first failure so callers always get a single, specific reason.
var (
	ErrDisabled          = errors.New("coupon is disabled")
	ErrNotYetActive      = errors.New("coupon is not yet active")
	ErrExpired           = errors.New("coupon has expired")
	ErrScopeMismatch     = errors.New("coupon does not apply to this booking category")
	ErrBelowMinOrder     = errors.New("order value below minimum")
	ErrUsageLimitReached = errors.New("coupon usage limit reached for this contact")
)

// Coupon is read-only to the booking core; the admin collaborator owns
// creation and edits.
type Coupon struct {
	id                uuid.UUID
	code              Code
	scopes            []Scope
	minOrderValue     pricing.Money
	maxUsesPerContact int
	rule              Rule
	validFrom         *time.Time
	validTo           *time.Time
	enabled           bool
	createdAt         time.Time
	updatedAt         time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	scopes []Scope,
	minOrderValue pricing.Money,
	maxUsesPerContact int,
	rule Rule,
	validFrom, validTo *time.Time,
	enabled bool,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	if maxUsesPerContact <= 0 {
		maxUsesPerContact = 1
	}
	return &Coupon{
		id:                id,
		code:              couponCode,
		scopes:            scopes,
		minOrderValue:     minOrderValue,
		maxUsesPerContact: maxUsesPerContact,
		rule:              rule,
		validFrom:         validFrom,
		validTo:           validTo,
		enabled:           enabled,
	}, nil
}

// CheckEligibility runs the checks in a fixed order and stops at the first
// failure. usageCount is this contact's prior redemptions of the code,
// supplied by the usage ledger.
func (c *Coupon) CheckEligibility(now time.Time, category Scope, subtotal pricing.Money, usageCount int) error {
	if !c.enabled {
		return ErrDisabled
	}
	if c.validFrom != nil && now.Before(*c.validFrom) {
		return ErrNotYetActive
	}
	if c.validTo != nil && now.After(*c.validTo) {
		return ErrExpired
	}
	if !c.AppliesTo(category) {
		return ErrScopeMismatch
	}
	if subtotal < c.minOrderValue {
		return ErrBelowMinOrder
	}
	if usageCount >= c.maxUsesPerContact {
		return ErrUsageLimitReached
	}
	return nil
}

func (c *Coupon) AppliesTo(category Scope) bool {
	if len(c.scopes) == 0 {
		return true
	}
	for _, s := range c.scopes {
		if s == ScopeAll || s == category {
			return true
		}
	}
	return false
}

// DiscountFor never mutates the coupon and never exceeds the subtotal.
func (c *Coupon) DiscountFor(subtotal pricing.Money) pricing.Money {
	return c.rule.DiscountFor(subtotal)
}

func (c *Coupon) ID() uuid.UUID                { return c.id }
func (c *Coupon) Code() Code                   { return c.code }
func (c *Coupon) Scopes() []Scope              { return c.scopes }
func (c *Coupon) MinOrderValue() pricing.Money { return c.minOrderValue }
func (c *Coupon) MaxUsesPerContact() int       { return c.maxUsesPerContact }
func (c *Coupon) Rule() Rule                   { return c.rule }
func (c *Coupon) ValidFrom() *time.Time        { return c.validFrom }
func (c *Coupon) ValidTo() *time.Time          { return c.validTo }
func (c *Coupon) Enabled() bool                { return c.enabled }
func (c *Coupon) CreatedAt() time.Time         { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time         { return c.updatedAt }

// Application is the outcome of validating one coupon against one quote:
// either an accepted discount with a snapshot of the coupon, or a rejection
// reason. Advisory only; the caller decides whether to fold it into a quote.
type Application struct {
	Accepted       bool
	DiscountAmount pricing.Money
	Reason         error
	CouponID       *uuid.UUID
	Code           string
}

func Accepted(c *Coupon, discount pricing.Money) Application {
	id := c.ID()
	return Application{
		Accepted:       true,
		DiscountAmount: discount,
		CouponID:       &id,
		Code:           c.Code().String(),
	}
}

func Rejected(code string, reason error) Application {
	return Application{
		Accepted: false,
		Reason:   reason,
		Code:     code,
	}
}
