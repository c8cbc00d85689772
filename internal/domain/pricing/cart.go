package pricing

import "errors"

var (
	ErrEmptyCart          = errors.New("cart has no selections")
	ErrUnknownServiceKind = errors.New("unknown service kind")
	ErrInvalidSelection   = errors.New("invalid selection")
)

// Kind identifies one sellable service. The declaration order below is the
// canonical line-item order of every quote.
type Kind string

const (
	KindStayNight         Kind = "stay-night"
	KindMealPlan          Kind = "meal-plan"
	KindBreakfastPlan     Kind = "breakfast-plan"
	KindAirportPickup     Kind = "airport-pickup"
	KindAirportDrop       Kind = "airport-drop"
	KindBikeRental        Kind = "bike-rental"
	KindYogaProgram       Kind = "yoga-program"
	KindYogaSingleSession Kind = "yoga-single-session"
	KindSightseeing       Kind = "sightseeing"
	KindSurfing           Kind = "surfing"
	KindVehicleRental     Kind = "vehicle-rental"
	KindGenericAddOn      Kind = "generic-add-on"
)

var kindOrder = []Kind{
	KindStayNight,
	KindMealPlan,
	KindBreakfastPlan,
	KindAirportPickup,
	KindAirportDrop,
	KindBikeRental,
	KindYogaProgram,
	KindYogaSingleSession,
	KindSightseeing,
	KindSurfing,
	KindVehicleRental,
	KindGenericAddOn,
}

var kindRank = func() map[Kind]int {
	m := make(map[Kind]int, len(kindOrder))
	for i, k := range kindOrder {
		m[k] = i
	}
	return m
}()

func (k Kind) IsValid() bool {
	_, ok := kindRank[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

// Selection is one service the guest picked, priced by the availability
// collaborator. Count is kind-specific: bikes or vehicles for rentals,
// participants for yoga, units for generic add-ons. Days overrides the stay
// length for rentals when set.
type Selection struct {
	Kind      Kind
	UnitPrice Money
	Count     int
	Days      int
}

// Cart is the full checkout selection. Adults and ChildAges describe the
// party once; per-person services derive their head count from them.
type Cart struct {
	Adults     int
	ChildAges  []int
	Selections []Selection
}

func (c Cart) HasKind(k Kind) bool {
	for _, s := range c.Selections {
		if s.Kind == k {
			return true
		}
	}
	return false
}
