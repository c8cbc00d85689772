package repository

import (
	"context"
	"time"

	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/infra/db"
)

// NotificationRepository enqueues outbound notification jobs for a delivery
// worker. Dispatch itself is out of scope; this core only writes job rows.
type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
		VALUES ($1, $2, $3, $4, 'queued')`,
		kind, topic, payload, runAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
