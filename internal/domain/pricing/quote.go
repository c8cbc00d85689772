package pricing

// LineItem is one priced component of a quote. Immutable once computed.
type LineItem struct {
	Kind       Kind  `json:"kind"`
	UnitPrice  Money `json:"unit_price"`
	Multiplier int64 `json:"multiplier"`
	Subtotal   Money `json:"subtotal"`
}

// AppliedCoupon records the discount actually folded into a quote, with
// enough of the coupon snapshotted for receipts.
type AppliedCoupon struct {
	Code           string `json:"code"`
	DiscountAmount Money  `json:"discount_amount"`
}

// Quote is a value object: recomputing it from the same cart and date range
// always produces the same numbers, and applying a discount produces a new
// quote rather than mutating this one.
type Quote struct {
	Items      []LineItem     `json:"items"`
	Subtotal   Money          `json:"subtotal"`
	Applied    *AppliedCoupon `json:"applied_coupon,omitempty"`
	FinalTotal Money          `json:"final_total"`
}

// WithDiscount returns a copy of q with the coupon folded in. The final
// total is floored at zero, never negative.
func (q Quote) WithDiscount(code string, amount Money) Quote {
	if amount < 0 {
		amount = 0
	}
	if amount > q.Subtotal {
		amount = q.Subtotal
	}
	items := make([]LineItem, len(q.Items))
	copy(items, q.Items)
	return Quote{
		Items:      items,
		Subtotal:   q.Subtotal,
		Applied:    &AppliedCoupon{Code: code, DiscountAmount: amount},
		FinalTotal: q.Subtotal - amount,
	}
}

func (q Quote) Discount() Money {
	if q.Applied == nil {
		return 0
	}
	return q.Applied.DiscountAmount
}
