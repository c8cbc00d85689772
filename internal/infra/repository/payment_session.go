package repository

import (
	"context"
	"errors"
	"time"

	"palmgrove-bookings/internal/domain/payment"
	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, booking_id, gateway_order_id, amount, currency, status, payment_id, created_at, updated_at`

type PaymentSessionRepository struct {
	db db.DBTX
}

func NewPaymentSessionRepository(dbtx db.DBTX) *PaymentSessionRepository {
	return &PaymentSessionRepository{db: dbtx}
}

func (r *PaymentSessionRepository) Create(ctx context.Context, tx db.DBTX, s *payment.Session) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO payment_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID(), s.BookingID(), s.GatewayOrderID(), s.Amount().Int64(), s.Currency(),
		s.Status().String(), s.PaymentID(), s.CreatedAt(), s.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment session", err)
	}
	return nil
}

func (r *PaymentSessionRepository) FindByGatewayOrderID(ctx context.Context, dbtx db.DBTX, orderID string) (*payment.Session, error) {
	return r.findOne(ctx, dbtx,
		`SELECT `+sessionColumns+` FROM payment_sessions WHERE gateway_order_id = $1`, orderID)
}

func (r *PaymentSessionRepository) FindByGatewayOrderIDForUpdate(ctx context.Context, tx db.DBTX, orderID string) (*payment.Session, error) {
	return r.findOne(ctx, tx,
		`SELECT `+sessionColumns+` FROM payment_sessions WHERE gateway_order_id = $1 FOR UPDATE`, orderID)
}

func (r *PaymentSessionRepository) FindOpenByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*payment.Session, error) {
	return r.findOne(ctx, dbtx, `
		SELECT `+sessionColumns+` FROM payment_sessions
		WHERE booking_id = $1 AND status = 'created'
		ORDER BY created_at DESC
		LIMIT 1`, bookingID)
}

func (r *PaymentSessionRepository) findOne(ctx context.Context, dbtx db.DBTX, sql string, arg any) (*payment.Session, error) {
	var (
		id             uuid.UUID
		bookingID      uuid.UUID
		gatewayOrderID string
		amount         int64
		currency       string
		status         string
		paymentID      string
		createdAt      time.Time
		updatedAt      time.Time
	)
	err := dbtx.QueryRow(ctx, sql, arg).Scan(
		&id, &bookingID, &gatewayOrderID, &amount, &currency, &status, &paymentID, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("payment session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment session", err)
	}

	return payment.ReconstructSession(
		id, bookingID, gatewayOrderID,
		pricing.Money(amount), currency,
		payment.SessionStatus(status), paymentID,
		createdAt, updatedAt,
	), nil
}

func (r *PaymentSessionRepository) UpdateState(ctx context.Context, tx db.DBTX, s *payment.Session) error {
	tag, err := tx.Exec(ctx, `
		UPDATE payment_sessions
		SET status = $2, payment_id = $3, updated_at = $4
		WHERE id = $1`,
		s.ID(), s.Status().String(), s.PaymentID(), s.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment session not found", nil, infra.KindNotFound)
	}
	return nil
}
