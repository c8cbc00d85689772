package queries

import (
	"context"

	"github.com/google/uuid"
)

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByContact(ctx context.Context, contactID string) ([]*BookingListItem, error)
	GetSessionByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentSessionView, error)
}

type BookingViewRepo interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByContactID(ctx context.Context, contactID string) ([]*BookingListItem, error)
	FindSessionViewByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentSessionView, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.repo.FindViewByID(ctx, id)
}

func (q *bookingQueriesImpl) ListByContact(ctx context.Context, contactID string) ([]*BookingListItem, error) {
	return q.repo.FindByContactID(ctx, contactID)
}

func (q *bookingQueriesImpl) GetSessionByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentSessionView, error) {
	return q.repo.FindSessionViewByBookingID(ctx, bookingID)
}
