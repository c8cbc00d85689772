package commands

import (
	"context"
	"log/slog"

	"palmgrove-bookings/internal/domain/payment"
	"palmgrove-bookings/internal/infra"
	"palmgrove-bookings/internal/infra/db"
	"palmgrove-bookings/internal/pkg/clock"
	"palmgrove-bookings/internal/pkg/config"
	"palmgrove-bookings/internal/pkg/errs"
	"palmgrove-bookings/internal/usecase/queries"

	"github.com/google/uuid"
)

// CallbackParams is the asynchronous payment result as delivered by the
// gateway webhook. Nothing in it is trusted until the signature verifies.
type CallbackParams struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

type CallbackResult struct {
	BookingID     uuid.UUID `json:"booking_id"`
	PaymentStatus string    `json:"payment_status"`
	BookingStatus string    `json:"booking_status"`
	Replayed      bool      `json:"replayed"`
}

type PaymentCommands interface {
	OpenSession(ctx context.Context, bookingID uuid.UUID) (*queries.PaymentSessionView, error)
	HandleCallback(ctx context.Context, params CallbackParams) (*CallbackResult, error)
}

type paymentCommandsImpl struct {
	sessionRepo PaymentSessionRepository
	bookings    BookingCommands
	bookingRepo BookingRepository
	gateway     GatewayClient
	verifier    SignatureVerifier
	pool        db.Beginner
	clock       clock.Clock
	cfg         config.GatewayConfig
}

func NewPaymentCommands(
	sessionRepo PaymentSessionRepository,
	bookings BookingCommands,
	bookingRepo BookingRepository,
	gateway GatewayClient,
	verifier SignatureVerifier,
	pool db.Beginner,
	clock clock.Clock,
	cfg config.GatewayConfig,
) PaymentCommands {
	return &paymentCommandsImpl{
		sessionRepo: sessionRepo,
		bookings:    bookings,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		verifier:    verifier,
		pool:        pool,
		clock:       clock,
		cfg:         cfg,
	}
}

// OpenSession creates a gateway order for exactly the booking's frozen
// quoted total. Re-requesting a session for a booking that already has an
// open one returns the existing session instead of double-ordering. A
// gateway timeout leaves the booking pending; the caller retries later.
func (p *paymentCommandsImpl) OpenSession(ctx context.Context, bookingID uuid.UUID) (*queries.PaymentSessionView, error) {
	entity, err := p.bookingRepo.FindByID(ctx, p.pool, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if !entity.IsPayable() {
		return nil, ErrBookingNotPayable
	}

	if existing, err := p.sessionRepo.FindOpenByBookingID(ctx, p.pool, bookingID); err == nil && existing != nil {
		return sessionView(existing), nil
	} else if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	amount := entity.Quote().FinalTotal

	orderID, err := p.gateway.CreateOrder(ctx, amount, p.cfg.Currency, entity.ID().String())
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayUnavailable)
	}

	session, err := payment.NewSession(entity, orderID, amount, p.cfg.Currency, p.clock.Now())
	if err != nil {
		if errs.Is(err, payment.ErrAmountMismatch) {
			// Fatal: never let a mismatched amount reach checkout.
			return nil, errs.Mark(err, ErrAmountMismatch)
		}
		return nil, ErrBookingNotPayable
	}

	if err := p.sessionRepo.Create(ctx, p.pool, session); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return sessionView(session), nil
}

// HandleCallback is the single trusted entry point for payment results. The
// signature check decides everything: a valid signature routes to markPaid,
// anything else to markFailed. Duplicate callbacks for an already-captured
// session are acknowledged without side effects.
func (p *paymentCommandsImpl) HandleCallback(ctx context.Context, params CallbackParams) (*CallbackResult, error) {
	if params.GatewayOrderID == "" || params.PaymentID == "" {
		return nil, errs.Mark(errs.New("callback missing order or payment id"), ErrInvalidInput)
	}

	if !p.verifier.Verify(params.GatewayOrderID, params.PaymentID, params.Signature) {
		return p.rejectForgedCallback(ctx, params)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !isTxClosed(rollbackErr) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	session, err := p.sessionRepo.FindByGatewayOrderIDForUpdate(ctx, tx, params.GatewayOrderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if session.Status() != payment.SessionCreated {
		// First verified callback already closed this session.
		current, err := p.bookingRepo.FindByID(ctx, tx, session.BookingID())
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return &CallbackResult{
			BookingID:     current.ID(),
			PaymentStatus: current.PaymentStatus().String(),
			BookingStatus: current.Status().String(),
			Replayed:      true,
		}, nil
	}

	if err := session.Capture(params.PaymentID, p.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := p.sessionRepo.UpdateState(ctx, tx, session); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entity, err := p.bookings.MarkPaid(ctx, tx, session.BookingID(), params.PaymentID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &CallbackResult{
		BookingID:     entity.ID(),
		PaymentStatus: entity.PaymentStatus().String(),
		BookingStatus: entity.Status().String(),
	}, nil
}

// rejectForgedCallback logs the security event and records the failure on
// the session's booking. It never touches markPaid.
func (p *paymentCommandsImpl) rejectForgedCallback(ctx context.Context, params CallbackParams) (*CallbackResult, error) {
	slog.Warn("payment callback signature mismatch",
		"gateway_order_id", params.GatewayOrderID,
		"payment_id", params.PaymentID,
	)

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !isTxClosed(rollbackErr) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	session, err := p.sessionRepo.FindByGatewayOrderIDForUpdate(ctx, tx, params.GatewayOrderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSignatureInvalid
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if session.Status() == payment.SessionCreated {
		if err := session.Fail(p.clock.Now()); err == nil {
			if err := p.sessionRepo.UpdateState(ctx, tx, session); err != nil {
				return nil, errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}
		if _, err := p.bookings.MarkFailed(ctx, tx, session.BookingID(), "callback signature invalid"); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	return nil, ErrSignatureInvalid
}

func sessionView(s *payment.Session) *queries.PaymentSessionView {
	view := &queries.PaymentSessionView{
		ID:             s.ID(),
		BookingID:      s.BookingID(),
		GatewayOrderID: s.GatewayOrderID(),
		Amount:         s.Amount(),
		Currency:       s.Currency(),
		Status:         s.Status().String(),
		CreatedAt:      s.CreatedAt(),
	}
	if pid := s.PaymentID(); pid != "" {
		view.PaymentID = &pid
	}
	return view
}
