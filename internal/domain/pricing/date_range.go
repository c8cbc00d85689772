package pricing

import (
	"errors"
	"time"
)

var ErrInvalidDateRange = errors.New("check-out must be after check-in")

// DateRange is the stay window. A zero-or-negative duration is an input
// error, never clamped.
type DateRange struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	if !checkOut.After(checkIn) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{checkIn: checkIn, checkOut: checkOut}, nil
}

func (d DateRange) CheckIn() time.Time {
	return d.checkIn
}

func (d DateRange) CheckOut() time.Time {
	return d.checkOut
}

// Nights is ceil(duration / 24h), so a late check-out still bills the night.
func (d DateRange) Nights() int {
	dur := d.checkOut.Sub(d.checkIn)
	if dur <= 0 {
		return 0
	}
	nights := int(dur / (24 * time.Hour))
	if dur%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

func (d DateRange) IsZero() bool {
	return d.checkIn.IsZero() && d.checkOut.IsZero()
}
