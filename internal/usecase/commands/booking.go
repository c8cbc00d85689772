package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"palmgrove-bookings/internal/domain/booking"
	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/infra/db"
	"palmgrove-bookings/internal/pkg/clock"
	"palmgrove-bookings/internal/pkg/config"
	"palmgrove-bookings/internal/pkg/errs"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const createBookingEndpoint = "POST /bookings"

// idempotencyNamespace seeds derived keys when the client does not supply
// an Idempotency-Key header.
var idempotencyNamespace = uuid.MustParse("b8f7a3e2-4c1d-4f5a-9e6b-2d8c7f0a1b3c")

type SelectionInput struct {
	Kind       string     `json:"kind"`
	ResourceID *uuid.UUID `json:"resource_id,omitempty"`
	Count      int        `json:"count,omitempty"`
	Days       int        `json:"days,omitempty"`
}

type RoomInput struct {
	RoomID   uuid.UUID `json:"room_id"`
	RoomName string    `json:"room_name"`
}

type YogaInput struct {
	ProgramID    uuid.UUID `json:"program_id"`
	SessionType  string    `json:"session_type"`
	Participants int       `json:"participants"`
}

type TransportInput struct {
	FlightNumber string `json:"flight_number,omitempty"`
}

type ServiceInput struct {
	Description string   `json:"description"`
	Activities  []string `json:"activities,omitempty"`
}

type CreateBookingParams struct {
	GuestName     string           `json:"guest_name"`
	GuestEmail    string           `json:"guest_email"`
	GuestPhone    string           `json:"guest_phone"`
	GuestAddress  string           `json:"guest_address"`
	CheckIn       time.Time        `json:"check_in"`
	CheckOut      time.Time        `json:"check_out"`
	Adults        int              `json:"adults"`
	ChildAges     []int            `json:"child_ages,omitempty"`
	Selections    []SelectionInput `json:"selections"`
	CouponCode    *string          `json:"coupon_code,omitempty"`
	RequireCoupon bool             `json:"require_coupon,omitempty"`
	Room          *RoomInput       `json:"room,omitempty"`
	Yoga          *YogaInput       `json:"yoga,omitempty"`
	Transport     *TransportInput  `json:"transport,omitempty"`
	Service       *ServiceInput    `json:"service,omitempty"`
}

// CouponOutcome surfaces what happened to the submitted coupon code; a
// rejection is not an error unless the caller required the coupon.
type CouponOutcome struct {
	Code           string        `json:"code"`
	Applied        bool          `json:"applied"`
	DiscountAmount pricing.Money `json:"discount_amount"`
	Reason         string        `json:"reason,omitempty"`
}

type QuoteResult struct {
	Quote  pricing.Quote  `json:"quote"`
	Coupon *CouponOutcome `json:"coupon,omitempty"`
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	Coupon     *CouponOutcome
	IsReplayed bool
}

type BookingCommands interface {
	Quote(ctx context.Context, params CreateBookingParams) (*QuoteResult, error)
	CreateBooking(ctx context.Context, params CreateBookingParams, idempotencyKey *uuid.UUID) (*CreateBookingResult, error)
	Cancel(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
	// MarkPaid and MarkFailed run inside the caller's transaction; only the
	// payment adapter calls them, after signature verification.
	MarkPaid(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, paymentRef string) (*booking.Booking, error)
	MarkFailed(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, reason string) (*booking.Booking, error)
}

type bookingCommandsImpl struct {
	bookingRepo      BookingRepository
	idempotencyRepo  IdempotencyRepository
	notificationRepo NotificationRepository
	rates            RateProvider
	validator        CouponValidator
	ledger           UsageLedger
	engine           *pricing.Engine
	bookingQueries   queries.BookingQueries
	pool             db.Beginner
	clock            clock.Clock
	cfg              config.BookingConfig
}

func NewBookingCommands(
	bookingRepo BookingRepository,
	idempotencyRepo IdempotencyRepository,
	notificationRepo NotificationRepository,
	rates RateProvider,
	validator CouponValidator,
	ledger UsageLedger,
	engine *pricing.Engine,
	bookingQueries queries.BookingQueries,
	pool db.Beginner,
	clock clock.Clock,
	cfg config.BookingConfig,
) BookingCommands {
	return &bookingCommandsImpl{
		bookingRepo:      bookingRepo,
		idempotencyRepo:  idempotencyRepo,
		notificationRepo: notificationRepo,
		rates:            rates,
		validator:        validator,
		ledger:           ledger,
		engine:           engine,
		bookingQueries:   bookingQueries,
		pool:             pool,
		clock:            clock,
		cfg:              cfg,
	}
}

// Quote prices a cart without persisting anything. This is the re-quote the
// client sees before confirming; the booking created later freezes its own
// quote computed from the same inputs.
func (b *bookingCommandsImpl) Quote(ctx context.Context, params CreateBookingParams) (*QuoteResult, error) {
	contact, stay, cart, err := b.validateInputs(ctx, params)
	if err != nil {
		return nil, err
	}

	quote, err := b.engine.Quote(cart, stay)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInput)
	}

	quote, outcome, err := b.applyCoupon(ctx, params, quote, contact)
	if err != nil {
		return nil, err
	}

	return &QuoteResult{Quote: quote, Coupon: outcome}, nil
}

func (b *bookingCommandsImpl) CreateBooking(
	ctx context.Context,
	params CreateBookingParams,
	idempotencyKey *uuid.UUID,
) (*CreateBookingResult, error) {
	contact, stay, cart, err := b.validateInputs(ctx, params)
	if err != nil {
		return nil, err
	}

	key := b.resolveIdempotencyKey(idempotencyKey, contact.ContactID(), params)
	requestHash := calculateRequestHash(params)

	replayed, err := b.claimIdempotencyKey(ctx, key, contact.ContactID(), requestHash)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	quote, err := b.engine.Quote(cart, stay)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInput)
	}

	quote, outcome, err := b.applyCoupon(ctx, params, quote, contact)
	if err != nil {
		return nil, err
	}

	category, details, err := buildDetails(params, cart)
	if err != nil {
		return nil, err
	}

	entity, err := booking.NewBooking(category, details, contact, stay, quote, b.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInput)
	}

	view, err := b.persistBooking(ctx, entity, key, contact.ContactID())
	if err != nil {
		b.releaseIdempotencyClaim(ctx, key, contact.ContactID())
		return nil, err
	}

	if outcome != nil && outcome.Applied {
		if recErr := b.ledger.RecordUse(ctx, outcome.Code, contact.ContactID()); recErr != nil {
			slog.Warn("failed to record coupon usage", "coupon_code", outcome.Code, "error", recErr)
		}
	}

	return &CreateBookingResult{Booking: view, Coupon: outcome, IsReplayed: false}, nil
}

func (b *bookingCommandsImpl) Cancel(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !isTxClosed(rollbackErr) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	entity, err := b.bookingRepo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := entity.Cancel(b.clock.Now()); err != nil {
		return nil, err
	}

	if err := b.bookingRepo.UpdateState(ctx, tx, entity); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return b.bookingQueries.GetByID(ctx, id)
}

// MarkPaid transitions payment status pending→paid under the booking row
// lock. A booking already paid is returned as-is so duplicate verified
// callbacks collapse to a no-op with no second notification.
func (b *bookingCommandsImpl) MarkPaid(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, paymentRef string) (*booking.Booking, error) {
	entity, err := b.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := entity.MarkPaid(paymentRef, b.clock.Now()); err != nil {
		if errs.Is(err, booking.ErrAlreadyPaid) {
			return entity, nil
		}
		return nil, err
	}

	if err := b.bookingRepo.UpdateState(ctx, tx, entity); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if entity.NeedsReconciliation() {
		// The guest cancelled; a confirmation email would be a lie. The
		// flag surfaces the booking for a manual refund instead.
		slog.Warn("payment landed on cancelled booking, flagged for manual refund",
			"booking_id", entity.ID(), "payment_ref", paymentRef)
		return entity, nil
	}

	b.enqueueConfirmation(ctx, tx, entity)
	return entity, nil
}

func (b *bookingCommandsImpl) MarkFailed(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, reason string) (*booking.Booking, error) {
	entity, err := b.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := entity.MarkFailed(b.clock.Now()); err != nil {
		if errs.Is(err, booking.ErrAlreadyPaid) {
			// A failure report racing a completed payment loses.
			return entity, nil
		}
		return nil, err
	}

	if err := b.bookingRepo.UpdateState(ctx, tx, entity); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	slog.Info("payment attempt failed, booking stays retryable",
		"booking_id", entity.ID(), "reason", reason)
	return entity, nil
}

func (b *bookingCommandsImpl) validateInputs(
	ctx context.Context,
	params CreateBookingParams,
) (booking.GuestContact, pricing.DateRange, pricing.Cart, error) {
	contact, err := booking.NewGuestContact(params.GuestName, params.GuestEmail, params.GuestPhone, params.GuestAddress)
	if err != nil {
		return booking.GuestContact{}, pricing.DateRange{}, pricing.Cart{}, errs.Mark(err, ErrInvalidInput)
	}

	stay, err := pricing.NewDateRange(params.CheckIn, params.CheckOut)
	if err != nil {
		return booking.GuestContact{}, pricing.DateRange{}, pricing.Cart{}, errs.Mark(err, ErrInvalidInput)
	}

	cart, err := b.priceCart(ctx, params, stay)
	if err != nil {
		return booking.GuestContact{}, pricing.DateRange{}, pricing.Cart{}, err
	}

	return contact, stay, cart, nil
}

// priceCart resolves every selection's unit price through the availability
// collaborator. The engine itself never does I/O.
func (b *bookingCommandsImpl) priceCart(ctx context.Context, params CreateBookingParams, stay pricing.DateRange) (pricing.Cart, error) {
	if len(params.Selections) == 0 {
		return pricing.Cart{}, errs.Mark(pricing.ErrEmptyCart, ErrInvalidInput)
	}

	cart := pricing.Cart{
		Adults:     params.Adults,
		ChildAges:  params.ChildAges,
		Selections: make([]pricing.Selection, 0, len(params.Selections)),
	}

	for _, sel := range params.Selections {
		kind := pricing.Kind(sel.Kind)
		if !kind.IsValid() {
			return pricing.Cart{}, errs.Mark(
				fmt.Errorf("%w: %q", pricing.ErrUnknownServiceKind, sel.Kind), ErrInvalidInput)
		}

		rate, err := b.rates.PriceSelection(ctx, kind, sel.ResourceID, stay)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return pricing.Cart{}, ErrRateUnavailable
			}
			return pricing.Cart{}, errs.Mark(err, ErrRateUnavailable)
		}

		cart.Selections = append(cart.Selections, pricing.Selection{
			Kind:      kind,
			UnitPrice: rate,
			Count:     sel.Count,
			Days:      sel.Days,
		})
	}

	return cart, nil
}

func (b *bookingCommandsImpl) applyCoupon(
	ctx context.Context,
	params CreateBookingParams,
	quote pricing.Quote,
	contact booking.GuestContact,
) (pricing.Quote, *CouponOutcome, error) {
	if params.CouponCode == nil || *params.CouponCode == "" {
		return quote, nil, nil
	}

	category := deriveCategory(params.Selections)
	application, err := b.validator.Validate(ctx, *params.CouponCode, quote, category, contact.ContactID())
	if err != nil {
		return pricing.Quote{}, nil, err
	}

	if !application.Accepted {
		outcome := &CouponOutcome{Code: application.Code, Reason: application.Reason.Error()}
		if params.RequireCoupon {
			return pricing.Quote{}, nil, errs.Mark(application.Reason, ErrCouponRejected)
		}
		// Checkout proceeds without the discount.
		return quote, outcome, nil
	}

	discounted := quote.WithDiscount(application.Code, application.DiscountAmount)
	outcome := &CouponOutcome{
		Code:           application.Code,
		Applied:        true,
		DiscountAmount: discounted.Discount(),
	}
	return discounted, outcome, nil
}

// claimIdempotencyKey returns the prior result when this key already
// completed, conflicts when the payload differs, and nil when the claim is
// fresh and the caller should proceed.
func (b *bookingCommandsImpl) claimIdempotencyKey(
	ctx context.Context,
	key uuid.UUID,
	contactID, requestHash string,
) (*CreateBookingResult, error) {
	expiresAt := b.clock.Now().Add(b.cfg.IdempotencyWindow)

	inserted, err := b.idempotencyRepo.TryInsert(ctx, key, contactID, createBookingEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if inserted {
		return nil, nil
	}

	existing, err := b.idempotencyRepo.Get(ctx, key, contactID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateSubmission
		}
		if existing.ResultBookingID == nil {
			return nil, errs.Mark(errs.New("completed key missing result booking id"), ErrIdempotencyCheckFailed)
		}
		view, err := b.bookingQueries.GetByID(ctx, *existing.ResultBookingID)
		if err != nil {
			return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		return &CreateBookingResult{Booking: view, IsReplayed: true}, nil

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateSubmission
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.Mark(errs.New("invalid idempotency key status"), ErrIdempotencyCheckFailed)
	}
}

func (b *bookingCommandsImpl) persistBooking(
	ctx context.Context,
	entity *booking.Booking,
	key uuid.UUID,
	contactID string,
) (*queries.BookingView, error) {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !isTxClosed(rollbackErr) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if err := b.bookingRepo.Create(ctx, tx, entity); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := b.idempotencyRepo.MarkCompleted(ctx, tx, key, contactID, entity.ID()); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Read-after-write: serve the response from the read side.
	view, err := b.bookingQueries.GetByID(ctx, entity.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

// releaseIdempotencyClaim frees a claimed key after a failed create; left
// in place it would answer retries with in-progress until the key expires.
func (b *bookingCommandsImpl) releaseIdempotencyClaim(ctx context.Context, key uuid.UUID, contactID string) {
	if err := b.idempotencyRepo.Delete(ctx, key, contactID); err != nil {
		slog.Warn("failed to release idempotency claim", "key", key, "error", err)
	}
}

func (b *bookingCommandsImpl) enqueueConfirmation(ctx context.Context, tx db.DBTX, entity *booking.Booking) {
	payload, err := json.Marshal(map[string]any{
		"booking_id": entity.ID(),
		"email":      entity.Contact().Email(),
		"type":       "booking_confirmed",
	})
	if err != nil {
		slog.Warn("failed to marshal confirmation payload", "booking_id", entity.ID(), "error", err)
		return
	}

	// Fire-and-forget: a failed enqueue never rolls back the payment.
	if err := b.notificationRepo.CreateJob(ctx, tx, "email", "booking_confirmed", payload, b.clock.Now()); err != nil {
		slog.Warn("failed to enqueue confirmation notification", "booking_id", entity.ID(), "error", err)
	}
}

// resolveIdempotencyKey prefers the client-supplied key and otherwise
// derives one from (contact, request fingerprint, hour bucket) so a
// double-submitted create collapses onto one booking.
func (b *bookingCommandsImpl) resolveIdempotencyKey(supplied *uuid.UUID, contactID string, params CreateBookingParams) uuid.UUID {
	if supplied != nil && *supplied != uuid.Nil {
		return *supplied
	}
	bucket := b.clock.Now().Truncate(time.Hour).UTC().Format(time.RFC3339)
	seed := contactID + "|" + calculateRequestHash(params) + "|" + bucket
	return uuid.NewSHA1(idempotencyNamespace, []byte(seed))
}

func calculateRequestHash(params CreateBookingParams) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// deriveCategory maps cart composition to the booking category tag.
func deriveCategory(selections []SelectionInput) booking.Category {
	hasStay := false
	hasYoga := false
	hasTransport := false
	hasAdventure := false
	for _, sel := range selections {
		switch pricing.Kind(sel.Kind) {
		case pricing.KindStayNight, pricing.KindMealPlan, pricing.KindBreakfastPlan:
			hasStay = true
		case pricing.KindYogaProgram, pricing.KindYogaSingleSession:
			hasYoga = true
		case pricing.KindAirportPickup, pricing.KindAirportDrop, pricing.KindVehicleRental:
			hasTransport = true
		case pricing.KindBikeRental, pricing.KindSightseeing, pricing.KindSurfing:
			hasAdventure = true
		}
	}

	switch {
	case hasStay:
		return booking.CategoryRoom
	case hasYoga && !hasTransport && !hasAdventure:
		return booking.CategoryYoga
	case hasTransport && !hasYoga && !hasAdventure:
		return booking.CategoryTransport
	case hasAdventure && !hasYoga && !hasTransport:
		return booking.CategoryAdventure
	default:
		return booking.CategoryMixed
	}
}

// buildDetails picks the variant matching the derived category. The room
// variant needs the room block; the rest degrade to a service description
// when their block is absent.
func buildDetails(params CreateBookingParams, cart pricing.Cart) (booking.Category, booking.Details, error) {
	category := deriveCategory(params.Selections)

	switch category {
	case booking.CategoryRoom:
		if params.Room == nil {
			return "", nil, errs.Mark(errs.New("room details required for a stay booking"), ErrInvalidInput)
		}
		return category, booking.RoomDetails{
			RoomID:   params.Room.RoomID,
			RoomName: params.Room.RoomName,
			Adults:   cart.Adults,
			Children: len(cart.ChildAges),
		}, nil

	case booking.CategoryYoga:
		if params.Yoga == nil {
			return "", nil, errs.Mark(errs.New("yoga details required for a yoga booking"), ErrInvalidInput)
		}
		return category, booking.YogaDetails{
			ProgramID:    params.Yoga.ProgramID,
			SessionType:  params.Yoga.SessionType,
			Participants: params.Yoga.Participants,
		}, nil

	case booking.CategoryTransport:
		details := booking.TransportDetails{}
		if params.Transport != nil {
			details.FlightNumber = params.Transport.FlightNumber
		}
		details.Pickup = cart.HasKind(pricing.KindAirportPickup)
		details.Drop = cart.HasKind(pricing.KindAirportDrop)
		return category, details, nil

	default:
		details := booking.ServiceDetails{}
		if params.Service != nil {
			details.Description = params.Service.Description
			details.Activities = params.Service.Activities
		} else {
			for _, sel := range params.Selections {
				details.Activities = append(details.Activities, sel.Kind)
			}
			details.Description = "service booking"
		}
		return category, details, nil
	}
}

func isTxClosed(err error) bool {
	return errors.Is(err, pgx.ErrTxClosed)
}
