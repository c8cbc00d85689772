package builder

import (
	"time"

	"palmgrove-bookings/internal/domain/booking"
	"palmgrove-bookings/internal/domain/pricing"
	reqdto "palmgrove-bookings/internal/handler/dto/request"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/google/uuid"
)

// BookingBuilder assembles a valid room booking and lets tests mutate one
// dimension at a time.
type BookingBuilder struct {
	category  booking.Category
	details   booking.Details
	guestName string
	email     string
	phone     string
	address   string
	checkIn   time.Time
	checkOut  time.Time
	quote     pricing.Quote
	now       time.Time
}

func NewBookingBuilder() *BookingBuilder {
	checkIn := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		category: booking.CategoryRoom,
		details: booking.RoomDetails{
			RoomID:   uuid.New(),
			RoomName: "Sea View Cottage",
			Adults:   2,
		},
		guestName: "Asha Nair",
		email:     "asha@example.com",
		phone:     "+919800000001",
		address:   "Kochi",
		checkIn:   checkIn,
		checkOut:  checkIn.Add(48 * time.Hour),
		quote: pricing.Quote{
			Items: []pricing.LineItem{
				{Kind: pricing.KindStayNight, UnitPrice: 3500, Multiplier: 2, Subtotal: 7000},
			},
			Subtotal:   7000,
			FinalTotal: 7000,
		},
		now: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) WithCategory(category booking.Category) *BookingBuilder {
	b.category = category
	return b
}

func (b *BookingBuilder) WithDetails(details booking.Details) *BookingBuilder {
	b.details = details
	return b
}

func (b *BookingBuilder) WithGuestName(name string) *BookingBuilder {
	b.guestName = name
	return b
}

func (b *BookingBuilder) WithEmail(email string) *BookingBuilder {
	b.email = email
	return b
}

func (b *BookingBuilder) WithPhone(phone string) *BookingBuilder {
	b.phone = phone
	return b
}

func (b *BookingBuilder) WithQuote(quote pricing.Quote) *BookingBuilder {
	b.quote = quote
	return b
}

func (b *BookingBuilder) WithStay(checkIn, checkOut time.Time) *BookingBuilder {
	b.checkIn = checkIn
	b.checkOut = checkOut
	return b
}

func (b *BookingBuilder) WithCreatedAt(now time.Time) *BookingBuilder {
	b.now = now
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	contact, err := booking.NewGuestContact(b.guestName, b.email, b.phone, b.address)
	if err != nil {
		return nil, err
	}
	stay, err := pricing.NewDateRange(b.checkIn, b.checkOut)
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(b.category, b.details, contact, stay, b.quote, b.now)
}

// BuildView assembles the read model the handler layer serves, mirroring
// what the read side would return for a freshly created booking.
func (b *BookingBuilder) BuildView() *queries.BookingView {
	details, _ := booking.MarshalDetails(b.details)
	return &queries.BookingView{
		ID:            uuid.New(),
		Category:      b.category.String(),
		Details:       details,
		GuestName:     b.guestName,
		GuestEmail:    b.email,
		GuestPhone:    b.phone,
		CheckIn:       b.checkIn,
		CheckOut:      b.checkOut,
		Quote:         b.quote,
		Status:        booking.StatusPending.String(),
		PaymentStatus: booking.PaymentPending.String(),
		CreatedAt:     b.now,
		UpdatedAt:     b.now,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:            uuid.New(),
		Category:      b.category.String(),
		CheckIn:       b.checkIn,
		CheckOut:      b.checkOut,
		FinalTotal:    b.quote.FinalTotal,
		Status:        booking.StatusPending.String(),
		PaymentStatus: booking.PaymentPending.String(),
		CreatedAt:     b.now,
	}
}

// BuildCreateRequestDTO assembles a valid creation payload for handler tests.
func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	roomID := uuid.New()
	return reqdto.CreateBookingRequest{
		GuestName:  b.guestName,
		GuestEmail: b.email,
		GuestPhone: b.phone,
		CheckIn:    b.checkIn,
		CheckOut:   b.checkOut,
		Adults:     2,
		Selections: []reqdto.SelectionRequest{
			{Kind: pricing.KindStayNight.String(), ResourceID: &roomID},
		},
		Room: &reqdto.RoomRequest{RoomID: roomID, RoomName: "Sea View Cottage"},
	}
}
