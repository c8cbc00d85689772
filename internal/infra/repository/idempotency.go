package repository

import (
	"context"
	"errors"
	"time"

	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/infra/db"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

// TryInsert claims the key with ON CONFLICT DO NOTHING; the returned bool
// says whether this request won the claim.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID, contactID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO idempotency_keys (key, contact_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, contact_id) DO NOTHING`,
		key, contactID, endpoint, requestHash, expiresAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID, contactID string) (*queries.IdempotencyKeyView, error) {
	var (
		view            queries.IdempotencyKeyView
		resultBookingID *uuid.UUID
	)
	err := r.db.QueryRow(ctx, `
		SELECT key, contact_id, endpoint, request_hash, status, result_booking_id, expires_at, created_at
		FROM idempotency_keys
		WHERE key = $1 AND contact_id = $2`,
		key, contactID,
	).Scan(
		&view.Key, &view.ContactID, &view.Endpoint, &view.RequestHash,
		&view.Status, &resultBookingID, &view.ExpiresAt, &view.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	view.ResultBookingID = resultBookingID
	return &view, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, contactID string, resultBookingID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed', result_booking_id = $3
		WHERE key = $1 AND contact_id = $2`,
		key, contactID, resultBookingID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

// Delete releases a claim whose request failed. Only processing rows are
// removed; a completed row is the replay record and must stay.
func (r *IdempotencyRepository) Delete(ctx context.Context, key uuid.UUID, contactID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE key = $1 AND contact_id = $2 AND status = 'processing'`,
		key, contactID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to delete idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE expires_at < now()`)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
