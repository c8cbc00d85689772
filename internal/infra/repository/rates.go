package repository

import (
	"context"
	"errors"

	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RateRepository is the availability collaborator's read surface: current
// unit prices per service kind, optionally per backing resource (a specific
// room, a yoga program). An absent row means the service is not bookable.
type RateRepository struct {
	db db.DBTX
}

func NewRateRepository(dbtx db.DBTX) *RateRepository {
	return &RateRepository{db: dbtx}
}

func (r *RateRepository) PriceSelection(ctx context.Context, kind pricing.Kind, resourceID *uuid.UUID, _ pricing.DateRange) (pricing.Money, error) {
	var rate int64
	var err error
	if resourceID != nil {
		err = r.db.QueryRow(ctx, `
			SELECT rate FROM service_rates
			WHERE kind = $1 AND resource_id = $2 AND active`,
			kind.String(), *resourceID,
		).Scan(&rate)
	} else {
		err = r.db.QueryRow(ctx, `
			SELECT rate FROM service_rates
			WHERE kind = $1 AND resource_id IS NULL AND active`,
			kind.String(),
		).Scan(&rate)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, infra.WrapRepoErr("no active rate for service", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to look up service rate", err)
	}
	return pricing.Money(rate), nil
}
