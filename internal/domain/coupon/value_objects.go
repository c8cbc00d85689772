package coupon

import (
	"errors"
	"regexp"
	"strings"

	"palmgrove-bookings/internal/domain/pricing"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountAmount  = errors.New("discount amount cannot be negative")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

// Scope is one booking category a coupon may discount. ScopeAll short-circuits
// the category check.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeRoom      Scope = "room"
	ScopeYoga      Scope = "yoga"
	ScopeTransport Scope = "transport"
	ScopeAdventure Scope = "adventure"
	ScopeMixed     Scope = "mixed-service"
)

// Rule is either percentage-with-cap or flat-amount, never both.
type Rule struct {
	percentOff float64
	cap        pricing.Money
	flatAmount pricing.Money
	isPercent  bool
}

func NewPercentageRule(percentOff float64, cap pricing.Money) (Rule, error) {
	if percentOff <= 0 || percentOff > 100 {
		return Rule{}, ErrInvalidDiscountPercent
	}
	if cap < 0 {
		return Rule{}, ErrInvalidDiscountAmount
	}
	return Rule{percentOff: percentOff, cap: cap, isPercent: true}, nil
}

func NewFlatRule(amount pricing.Money) (Rule, error) {
	if amount <= 0 {
		return Rule{}, ErrInvalidDiscountAmount
	}
	return Rule{flatAmount: amount}, nil
}

func (r Rule) IsPercentage() bool {
	return r.isPercent
}

func (r Rule) PercentOff() float64 {
	return r.percentOff
}

func (r Rule) Cap() pricing.Money {
	return r.cap
}

func (r Rule) FlatAmount() pricing.Money {
	return r.flatAmount
}

// DiscountFor computes the discount against a subtotal: percentage rules are
// capped, flat rules never exceed the subtotal.
func (r Rule) DiscountFor(subtotal pricing.Money) pricing.Money {
	if subtotal <= 0 {
		return 0
	}
	if r.isPercent {
		discount := pricing.Money(float64(subtotal) * r.percentOff / 100.0)
		if r.cap > 0 && discount > r.cap {
			discount = r.cap
		}
		if discount > subtotal {
			discount = subtotal
		}
		return discount
	}
	if r.flatAmount > subtotal {
		return subtotal
	}
	return r.flatAmount
}
