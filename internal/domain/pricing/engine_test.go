//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"palmgrove-bookings/internal/domain/pricing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoNightStay(t *testing.T) pricing.DateRange {
	t.Helper()
	checkIn := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	stay, err := pricing.NewDateRange(checkIn, checkIn.Add(48*time.Hour))
	require.NoError(t, err)
	return stay
}

func TestEngineQuote(t *testing.T) {
	engine := pricing.NewEngine(6)

	t.Run("two nights with meals and airport pickup", func(t *testing.T) {
		cart := pricing.Cart{
			Adults: 2,
			Selections: []pricing.Selection{
				{Kind: pricing.KindStayNight, UnitPrice: 3500},
				{Kind: pricing.KindMealPlan, UnitPrice: 150},
				{Kind: pricing.KindAirportPickup, UnitPrice: 1500},
			},
		}

		quote, err := engine.Quote(cart, twoNightStay(t))
		require.NoError(t, err)

		expected := []pricing.LineItem{
			{Kind: pricing.KindStayNight, UnitPrice: 3500, Multiplier: 2, Subtotal: 7000},
			{Kind: pricing.KindMealPlan, UnitPrice: 150, Multiplier: 4, Subtotal: 600},
			{Kind: pricing.KindAirportPickup, UnitPrice: 1500, Multiplier: 1, Subtotal: 1500},
		}
		if diff := cmp.Diff(expected, quote.Items); diff != "" {
			t.Errorf("line items mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, pricing.Money(9100), quote.Subtotal)
		assert.Equal(t, pricing.Money(9100), quote.FinalTotal)
		assert.Nil(t, quote.Applied)
	})

	t.Run("deterministic ordering regardless of selection order", func(t *testing.T) {
		forward := pricing.Cart{
			Adults: 2,
			Selections: []pricing.Selection{
				{Kind: pricing.KindStayNight, UnitPrice: 3500},
				{Kind: pricing.KindAirportPickup, UnitPrice: 1500},
				{Kind: pricing.KindSurfing, UnitPrice: 800},
			},
		}
		reversed := pricing.Cart{
			Adults: 2,
			Selections: []pricing.Selection{
				{Kind: pricing.KindSurfing, UnitPrice: 800},
				{Kind: pricing.KindAirportPickup, UnitPrice: 1500},
				{Kind: pricing.KindStayNight, UnitPrice: 3500},
			},
		}

		first, err := engine.Quote(forward, twoNightStay(t))
		require.NoError(t, err)
		second, err := engine.Quote(reversed, twoNightStay(t))
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("quotes differ by input order (-first +second):\n%s", diff)
		}
	})

	t.Run("children below the age threshold are not billed for meals", func(t *testing.T) {
		cart := pricing.Cart{
			Adults:    2,
			ChildAges: []int{4, 9},
			Selections: []pricing.Selection{
				{Kind: pricing.KindMealPlan, UnitPrice: 150},
			},
		}

		quote, err := engine.Quote(cart, twoNightStay(t))
		require.NoError(t, err)

		// 2 adults + the 9-year-old, the 4-year-old rides free.
		assert.Equal(t, int64(3*2), quote.Items[0].Multiplier)
		assert.Equal(t, pricing.Money(900), quote.Subtotal)
	})

	t.Run("rental count and days multiply", func(t *testing.T) {
		cart := pricing.Cart{
			Adults: 1,
			Selections: []pricing.Selection{
				{Kind: pricing.KindBikeRental, UnitPrice: 400, Count: 2, Days: 3},
			},
		}

		quote, err := engine.Quote(cart, twoNightStay(t))
		require.NoError(t, err)
		assert.Equal(t, pricing.Money(2400), quote.Subtotal)
	})

	t.Run("rental days default to the stay length", func(t *testing.T) {
		cart := pricing.Cart{
			Adults: 1,
			Selections: []pricing.Selection{
				{Kind: pricing.KindVehicleRental, UnitPrice: 1000, Count: 1},
			},
		}

		quote, err := engine.Quote(cart, twoNightStay(t))
		require.NoError(t, err)
		assert.Equal(t, pricing.Money(2000), quote.Subtotal)
	})

	t.Run("both airport legs are additive flat fees", func(t *testing.T) {
		cart := pricing.Cart{
			Adults: 1,
			Selections: []pricing.Selection{
				{Kind: pricing.KindAirportPickup, UnitPrice: 1500},
				{Kind: pricing.KindAirportDrop, UnitPrice: 1500},
			},
		}

		quote, err := engine.Quote(cart, twoNightStay(t))
		require.NoError(t, err)
		assert.Equal(t, pricing.Money(3000), quote.Subtotal)
	})

	t.Run("empty cart", func(t *testing.T) {
		_, err := engine.Quote(pricing.Cart{Adults: 1}, twoNightStay(t))
		assert.ErrorIs(t, err, pricing.ErrEmptyCart)
	})

	t.Run("zero-length stay", func(t *testing.T) {
		cart := pricing.Cart{
			Adults:     1,
			Selections: []pricing.Selection{{Kind: pricing.KindStayNight, UnitPrice: 3500}},
		}
		_, err := engine.Quote(cart, pricing.DateRange{})
		assert.ErrorIs(t, err, pricing.ErrInvalidDateRange)
	})

	t.Run("unknown service kind", func(t *testing.T) {
		cart := pricing.Cart{
			Adults:     1,
			Selections: []pricing.Selection{{Kind: pricing.Kind("helicopter"), UnitPrice: 100}},
		}
		_, err := engine.Quote(cart, twoNightStay(t))
		assert.ErrorIs(t, err, pricing.ErrUnknownServiceKind)
	})

	t.Run("negative unit price", func(t *testing.T) {
		cart := pricing.Cart{
			Adults:     1,
			Selections: []pricing.Selection{{Kind: pricing.KindStayNight, UnitPrice: -1}},
		}
		_, err := engine.Quote(cart, twoNightStay(t))
		assert.ErrorIs(t, err, pricing.ErrInvalidSelection)
	})

	t.Run("yoga needs a participant count", func(t *testing.T) {
		cart := pricing.Cart{
			Adults:     1,
			Selections: []pricing.Selection{{Kind: pricing.KindYogaProgram, UnitPrice: 2000}},
		}
		_, err := engine.Quote(cart, twoNightStay(t))
		assert.ErrorIs(t, err, pricing.ErrInvalidSelection)
	})
}

func TestDateRangeNights(t *testing.T) {
	base := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	t.Run("partial day rounds up", func(t *testing.T) {
		stay, err := pricing.NewDateRange(base, base.Add(30*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, stay.Nights())
	})

	t.Run("exact days do not round", func(t *testing.T) {
		stay, err := pricing.NewDateRange(base, base.Add(72*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 3, stay.Nights())
	})

	t.Run("reversed range is rejected", func(t *testing.T) {
		_, err := pricing.NewDateRange(base, base.Add(-time.Hour))
		assert.ErrorIs(t, err, pricing.ErrInvalidDateRange)
	})

	t.Run("zero-length range is rejected", func(t *testing.T) {
		_, err := pricing.NewDateRange(base, base)
		assert.ErrorIs(t, err, pricing.ErrInvalidDateRange)
	})
}

func TestQuoteWithDiscount(t *testing.T) {
	quote := pricing.Quote{
		Items: []pricing.LineItem{
			{Kind: pricing.KindStayNight, UnitPrice: 3500, Multiplier: 2, Subtotal: 7000},
		},
		Subtotal:   7000,
		FinalTotal: 7000,
	}

	t.Run("discount reduces the final total", func(t *testing.T) {
		discounted := quote.WithDiscount("SAVE10", 500)
		assert.Equal(t, pricing.Money(6500), discounted.FinalTotal)
		assert.Equal(t, pricing.Money(500), discounted.Discount())
		require.NotNil(t, discounted.Applied)
		assert.Equal(t, "SAVE10", discounted.Applied.Code)

		// The source quote is untouched.
		assert.Equal(t, pricing.Money(7000), quote.FinalTotal)
		assert.Nil(t, quote.Applied)
	})

	t.Run("discount larger than subtotal floors at zero", func(t *testing.T) {
		discounted := quote.WithDiscount("BIGLY", 99999)
		assert.Equal(t, pricing.Money(0), discounted.FinalTotal)
		assert.Equal(t, pricing.Money(7000), discounted.Discount())
	})

	t.Run("negative discount is ignored", func(t *testing.T) {
		discounted := quote.WithDiscount("NEG", -100)
		assert.Equal(t, pricing.Money(7000), discounted.FinalTotal)
		assert.Equal(t, pricing.Money(0), discounted.Discount())
	})
}
