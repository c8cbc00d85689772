package pricing

import (
	"fmt"
	"sort"
)

// Engine turns a cart and a stay window into an itemized quote. Pure
// function of its inputs: no I/O, no clock, no randomness.
type Engine struct {
	childAgeThreshold int
}

func NewEngine(childAgeThreshold int) *Engine {
	if childAgeThreshold < 0 {
		childAgeThreshold = 0
	}
	return &Engine{childAgeThreshold: childAgeThreshold}
}

// Quote prices every selection and returns the itemized total. Line items
// come back in kind-declaration order so identical inputs yield
// byte-identical output.
func (e *Engine) Quote(cart Cart, stay DateRange) (Quote, error) {
	if len(cart.Selections) == 0 {
		return Quote{}, ErrEmptyCart
	}
	if cart.Adults < 0 {
		return Quote{}, fmt.Errorf("%w: negative adult count", ErrInvalidSelection)
	}

	nights := stay.Nights()
	if nights <= 0 {
		return Quote{}, ErrInvalidDateRange
	}
	headCount := e.billableHeadCount(cart)

	items := make([]LineItem, 0, len(cart.Selections))
	for _, sel := range cart.Selections {
		item, err := e.priceSelection(sel, cart, nights, headCount)
		if err != nil {
			return Quote{}, err
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return kindRank[items[i].Kind] < kindRank[items[j].Kind]
	})

	var subtotal Money
	for _, it := range items {
		subtotal += it.Subtotal
	}

	return Quote{
		Items:      items,
		Subtotal:   subtotal,
		FinalTotal: subtotal,
	}, nil
}

func (e *Engine) priceSelection(sel Selection, cart Cart, nights, headCount int) (LineItem, error) {
	if !sel.Kind.IsValid() {
		return LineItem{}, fmt.Errorf("%w: %q", ErrUnknownServiceKind, sel.Kind)
	}
	if sel.UnitPrice < 0 {
		return LineItem{}, fmt.Errorf("%w: negative unit price for %s", ErrInvalidSelection, sel.Kind)
	}

	var multiplier int64
	switch sel.Kind {
	case KindStayNight:
		multiplier = int64(nights)

	case KindMealPlan, KindBreakfastPlan:
		// Rate is per billable head per day; children under the age
		// threshold ride free.
		multiplier = int64(headCount) * int64(nights)

	case KindAirportPickup, KindAirportDrop:
		// Flat fee, additive when both legs are selected.
		multiplier = 1

	case KindBikeRental, KindVehicleRental:
		count := sel.Count
		if count <= 0 {
			return LineItem{}, fmt.Errorf("%w: %s needs a positive count", ErrInvalidSelection, sel.Kind)
		}
		days := sel.Days
		if days <= 0 {
			days = nights
		}
		multiplier = int64(count) * int64(days)

	case KindYogaProgram, KindYogaSingleSession:
		if sel.Count <= 0 {
			return LineItem{}, fmt.Errorf("%w: %s needs at least one participant", ErrInvalidSelection, sel.Kind)
		}
		multiplier = int64(sel.Count)

	case KindSightseeing, KindSurfing:
		if headCount <= 0 {
			return LineItem{}, fmt.Errorf("%w: %s needs at least one participant", ErrInvalidSelection, sel.Kind)
		}
		multiplier = int64(headCount)

	case KindGenericAddOn:
		count := sel.Count
		if count <= 0 {
			count = 1
		}
		multiplier = int64(count)
	}

	return LineItem{
		Kind:       sel.Kind,
		UnitPrice:  sel.UnitPrice,
		Multiplier: multiplier,
		Subtotal:   sel.UnitPrice * Money(multiplier),
	}, nil
}

func (e *Engine) billableHeadCount(cart Cart) int {
	count := cart.Adults
	for _, age := range cart.ChildAges {
		if age >= e.childAgeThreshold {
			count++
		}
	}
	return count
}
