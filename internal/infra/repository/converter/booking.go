package converter

import (
	"encoding/json"
	"time"

	"palmgrove-bookings/internal/domain/booking"
	"palmgrove-bookings/internal/domain/pricing"

	"github.com/google/uuid"
)

// BookingRow mirrors the bookings table. The quote and details columns are
// JSONB snapshots; the quote is written once at creation and never updated.
type BookingRow struct {
	ID                  uuid.UUID
	Category            string
	Details             []byte
	GuestName           string
	GuestEmail          string
	GuestPhone          string
	GuestAddress        string
	CheckIn             time.Time
	CheckOut            time.Time
	Quote               []byte
	Status              string
	PaymentStatus       string
	PaymentRef          string
	NeedsReconciliation bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func BookingToRow(b *booking.Booking) (BookingRow, error) {
	detailsJSON, err := booking.MarshalDetails(b.Details())
	if err != nil {
		return BookingRow{}, err
	}
	quoteJSON, err := json.Marshal(b.Quote())
	if err != nil {
		return BookingRow{}, err
	}

	contact := b.Contact()
	return BookingRow{
		ID:                  b.ID(),
		Category:            b.Category().String(),
		Details:             detailsJSON,
		GuestName:           contact.Name(),
		GuestEmail:          contact.Email(),
		GuestPhone:          contact.Phone(),
		GuestAddress:        contact.Address(),
		CheckIn:             b.DateRange().CheckIn(),
		CheckOut:            b.DateRange().CheckOut(),
		Quote:               quoteJSON,
		Status:              b.Status().String(),
		PaymentStatus:       b.PaymentStatus().String(),
		PaymentRef:          b.PaymentRef(),
		NeedsReconciliation: b.NeedsReconciliation(),
		CreatedAt:           b.CreatedAt(),
		UpdatedAt:           b.UpdatedAt(),
	}, nil
}

func BookingFromRow(row BookingRow) (*booking.Booking, error) {
	details, err := booking.UnmarshalDetails(row.Details)
	if err != nil {
		return nil, err
	}

	var quote pricing.Quote
	if err := json.Unmarshal(row.Quote, &quote); err != nil {
		return nil, err
	}

	contact, err := booking.NewGuestContact(row.GuestName, row.GuestEmail, row.GuestPhone, row.GuestAddress)
	if err != nil {
		return nil, err
	}

	dateRange, err := pricing.NewDateRange(row.CheckIn, row.CheckOut)
	if err != nil {
		return nil, err
	}

	return booking.Reconstruct(
		row.ID,
		booking.Category(row.Category),
		details,
		contact,
		dateRange,
		quote,
		booking.Status(row.Status),
		booking.PaymentStatus(row.PaymentStatus),
		row.PaymentRef,
		row.NeedsReconciliation,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}
