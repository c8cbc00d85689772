package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"palmgrove-bookings/internal/domain/booking"
	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/infra/db"
	"palmgrove-bookings/internal/infra/repository/converter"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, category, details, guest_name, guest_email, guest_phone, guest_address,
	check_in, check_out, quote, status, payment_status, payment_ref, needs_reconciliation,
	created_at, updated_at`

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	row, err := converter.BookingToRow(b)
	if err != nil {
		return infra.WrapRepoErr("failed to convert booking", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		row.ID, row.Category, row.Details, row.GuestName, row.GuestEmail, row.GuestPhone,
		row.GuestAddress, row.CheckIn, row.CheckOut, row.Quote, row.Status, row.PaymentStatus,
		row.PaymentRef, row.NeedsReconciliation, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, dbtx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, tx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookingRepository) findOne(ctx context.Context, dbtx db.DBTX, sql string, id uuid.UUID) (*booking.Booking, error) {
	var row converter.BookingRow
	err := dbtx.QueryRow(ctx, sql, id).Scan(
		&row.ID, &row.Category, &row.Details, &row.GuestName, &row.GuestEmail, &row.GuestPhone,
		&row.GuestAddress, &row.CheckIn, &row.CheckOut, &row.Quote, &row.Status, &row.PaymentStatus,
		&row.PaymentRef, &row.NeedsReconciliation, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	entity, err := converter.BookingFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to reconstruct booking", err)
	}
	return entity, nil
}

func (r *BookingRepository) UpdateState(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $2, payment_status = $3, payment_ref = $4,
		    needs_reconciliation = $5, updated_at = $6
		WHERE id = $1`,
		b.ID(), b.Status().String(), b.PaymentStatus().String(), b.PaymentRef(),
		b.NeedsReconciliation(), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// CancelExpiredPending only touches rows still pending on both axes, so a
// concurrently applied payment is never overwritten.
func (r *BookingRepository) CancelExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET status = 'cancelled', updated_at = now()
		WHERE status = 'pending' AND payment_status IN ('pending', 'failed') AND created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to cancel expired bookings", err)
	}
	return tag.RowsAffected(), nil
}

// --- read side ---

func (r *BookingRepository) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view       queries.BookingView
		quoteJSON  []byte
		paymentRef string
		phone      string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, category, details, guest_name, guest_email, guest_phone,
		       check_in, check_out, quote, status, payment_status, payment_ref,
		       needs_reconciliation, created_at, updated_at
		FROM bookings WHERE id = $1`, id,
	).Scan(
		&view.ID, &view.Category, &view.Details, &view.GuestName, &view.GuestEmail, &phone,
		&view.CheckIn, &view.CheckOut, &quoteJSON, &view.Status, &view.PaymentStatus, &paymentRef,
		&view.NeedsReconciliation, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}

	view.GuestPhone = phone
	if paymentRef != "" {
		view.PaymentRef = &paymentRef
	}
	if err := json.Unmarshal(quoteJSON, &view.Quote); err != nil {
		return nil, infra.WrapRepoErr("failed to decode quote snapshot", err)
	}
	return &view, nil
}

func (r *BookingRepository) FindByContactID(ctx context.Context, contactID string) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, category, check_in, check_out, (quote->>'final_total')::bigint,
		       status, payment_status, created_at
		FROM bookings
		WHERE guest_email = $1 OR guest_phone = $1
		ORDER BY created_at DESC`, contactID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.Category, &item.CheckIn, &item.CheckOut, &item.FinalTotal,
			&item.Status, &item.PaymentStatus, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking list", err)
	}
	return result, nil
}

func (r *BookingRepository) FindSessionViewByBookingID(ctx context.Context, bookingID uuid.UUID) (*queries.PaymentSessionView, error) {
	var (
		view      queries.PaymentSessionView
		paymentID string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, booking_id, gateway_order_id, amount, currency, status, payment_id, created_at
		FROM payment_sessions
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, bookingID,
	).Scan(
		&view.ID, &view.BookingID, &view.GatewayOrderID, &view.Amount, &view.Currency,
		&view.Status, &paymentID, &view.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("payment session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment session view", err)
	}
	if paymentID != "" {
		view.PaymentID = &paymentID
	}
	return &view, nil
}
