package response

import (
	"encoding/json"
	"time"

	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/usecase/commands"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/google/uuid"
)

type LineItemResponse struct {
	Kind       string `json:"kind"`
	UnitPrice  int64  `json:"unitPrice"`
	Multiplier int64  `json:"multiplier"`
	Subtotal   int64  `json:"subtotal"`
}

type CouponOutcomeResponse struct {
	Code           string `json:"code"`
	Applied        bool   `json:"applied"`
	DiscountAmount int64  `json:"discountAmount,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

type QuoteResponse struct {
	Items      []LineItemResponse     `json:"items"`
	Subtotal   int64                  `json:"subtotal"`
	Discount   int64                  `json:"discount"`
	FinalTotal int64                  `json:"finalTotal"`
	Coupon     *CouponOutcomeResponse `json:"coupon,omitempty"`
}

type BookingResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Category            string          `json:"category"`
	Details             json.RawMessage `json:"details"`
	GuestName           string          `json:"guestName"`
	GuestEmail          string          `json:"guestEmail"`
	GuestPhone          string          `json:"guestPhone"`
	CheckIn             time.Time       `json:"checkIn"`
	CheckOut            time.Time       `json:"checkOut"`
	Quote               QuoteResponse   `json:"quote"`
	Status              string          `json:"status"`
	PaymentStatus       string          `json:"paymentStatus"`
	PaymentRef          *string         `json:"paymentRef,omitempty"`
	NeedsReconciliation bool            `json:"needsReconciliation"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

type BookingListResponse struct {
	ID            uuid.UUID `json:"id"`
	Category      string    `json:"category"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	FinalTotal    int64     `json:"finalTotal"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

func fromQuote(q pricing.Quote) QuoteResponse {
	items := make([]LineItemResponse, len(q.Items))
	for i, item := range q.Items {
		items[i] = LineItemResponse{
			Kind:       item.Kind.String(),
			UnitPrice:  item.UnitPrice.Int64(),
			Multiplier: item.Multiplier,
			Subtotal:   item.Subtotal.Int64(),
		}
	}
	return QuoteResponse{
		Items:      items,
		Subtotal:   q.Subtotal.Int64(),
		Discount:   q.Discount().Int64(),
		FinalTotal: q.FinalTotal.Int64(),
	}
}

func fromCouponOutcome(outcome *commands.CouponOutcome) *CouponOutcomeResponse {
	if outcome == nil {
		return nil
	}
	return &CouponOutcomeResponse{
		Code:           outcome.Code,
		Applied:        outcome.Applied,
		DiscountAmount: outcome.DiscountAmount.Int64(),
		Reason:         outcome.Reason,
	}
}

func FromQuoteResult(result *commands.QuoteResult) *QuoteResponse {
	resp := fromQuote(result.Quote)
	resp.Coupon = fromCouponOutcome(result.Coupon)
	return &resp
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:                  view.ID,
		Category:            view.Category,
		Details:             view.Details,
		GuestName:           view.GuestName,
		GuestEmail:          view.GuestEmail,
		GuestPhone:          view.GuestPhone,
		CheckIn:             view.CheckIn,
		CheckOut:            view.CheckOut,
		Quote:               fromQuote(view.Quote),
		Status:              view.Status,
		PaymentStatus:       view.PaymentStatus,
		PaymentRef:          view.PaymentRef,
		NeedsReconciliation: view.NeedsReconciliation,
		CreatedAt:           view.CreatedAt,
		UpdatedAt:           view.UpdatedAt,
	}
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:            item.ID,
		Category:      item.Category,
		CheckIn:       item.CheckIn,
		CheckOut:      item.CheckOut,
		FinalTotal:    item.FinalTotal.Int64(),
		Status:        item.Status,
		PaymentStatus: item.PaymentStatus,
		CreatedAt:     item.CreatedAt,
	}
}
