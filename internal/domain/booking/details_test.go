//go:build unit

package booking_test

import (
	"testing"

	"palmgrove-bookings/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailsEnvelope(t *testing.T) {
	t.Run("each variant survives the storage round trip", func(t *testing.T) {
		variants := []booking.Details{
			booking.RoomDetails{RoomID: uuid.New(), RoomName: "Sea View Cottage", Adults: 2, Children: 1},
			booking.YogaDetails{ProgramID: uuid.New(), SessionType: "morning", Participants: 4},
			booking.TransportDetails{Pickup: true, Drop: false, FlightNumber: "6E-204"},
			booking.ServiceDetails{Description: "surf lessons", Activities: []string{"surfing"}},
		}

		for _, original := range variants {
			raw, err := booking.MarshalDetails(original)
			require.NoError(t, err)

			restored, err := booking.UnmarshalDetails(raw)
			require.NoError(t, err)
			assert.Equal(t, original, restored)
		}
	})

	t.Run("nil details cannot be marshalled", func(t *testing.T) {
		_, err := booking.MarshalDetails(nil)
		assert.ErrorIs(t, err, booking.ErrDetailsMismatch)
	})

	t.Run("unknown envelope kind is rejected", func(t *testing.T) {
		_, err := booking.UnmarshalDetails([]byte(`{"kind":"spa","data":{}}`))
		assert.Error(t, err)
	})

	t.Run("malformed payload is rejected", func(t *testing.T) {
		_, err := booking.UnmarshalDetails([]byte(`not json`))
		assert.Error(t, err)
	})
}
