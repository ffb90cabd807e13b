package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	assetserrors "scootal/internal/assets/errors"
	"scootal/internal/availability"
	bookingserrors "scootal/internal/bookings/errors"
	"scootal/internal/bookings/repository"
	"scootal/internal/bookings/validator"
	"scootal/internal/events"
	"scootal/internal/ledger"
	"scootal/pkg/config"
	apperrors "scootal/pkg/errors"
	"scootal/pkg/model"
)

type BookingService interface {
	Request(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Accept(ctx context.Context, id string, actorID string) error
	Reject(ctx context.Context, id string, actorID string) error
	VerifyReturn(ctx context.Context, id string, code string) error
	ForceComplete(ctx context.Context, id string, actorID string) error
	ExpireStale(ctx context.Context) (int, error)
}

// AssetFinder is the slice of the asset repository the state machine needs.
type AssetFinder interface {
	FindByID(ctx context.Context, id string) (*model.Asset, error)
}

// Payments is the payout orchestration surface used around transitions.
type Payments interface {
	Authorize(ctx context.Context, booking *model.Booking) error
	IsCaptured(ctx context.Context, bookingID string) (bool, error)
	Refund(ctx context.Context, bookingID string) error
}

// EventPublisher emits life-cycle events after committed transitions.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) error
}

type bookingService struct {
	repo      repository.BookingRepository
	assets    AssetFinder
	ledger    ledger.Ledger
	payments  Payments
	events    EventPublisher
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	assets AssetFinder,
	ledger ledger.Ledger,
	payments Payments,
	events EventPublisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		assets:    assets,
		ledger:    ledger,
		payments:  payments,
		events:    events,
		validator: validator,
		cfg:       cfg,
	}
}

// Request claims the asset, creates the requested booking, and authorizes the
// renter's payment. A failed authorization leaves no partial state: the
// booking is rolled to rejected and the claim is released.
func (s *bookingService) Request(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking request validation failed", map[string]any{"error": err.Error()})
	}

	asset, err := s.assets.FindByID(ctx, req.AssetID)
	if err != nil {
		return nil, s.translateAssetError(err, req.AssetID)
	}

	if !asset.Confirmed || !availability.SupportsWindow(asset, req.StartTime, req.DurationClass) {
		return nil, apperrors.Conflict("Asset is not available for the requested window")
	}

	if err := s.ledger.TryClaim(ctx, req.AssetID); err != nil {
		if errors.Is(err, ledger.ErrAlreadyClaimed) {
			return nil, apperrors.Conflict("Asset is already booked")
		}
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Asset", req.AssetID)
		}
		return nil, apperrors.Internal("Failed to claim asset", err)
	}

	code, err := generateConfirmationCode()
	if err != nil {
		s.releaseClaim(ctx, req.AssetID)
		return nil, apperrors.Internal("Failed to generate confirmation code", err)
	}

	booking := &model.Booking{
		AssetID:          req.AssetID,
		RenterID:         req.RenterID,
		OwnerID:          asset.OwnerID,
		StartTime:        req.StartTime,
		EndTime:          req.StartTime.Add(req.DurationClass.Duration()),
		DurationClass:    req.DurationClass,
		Price:            model.NewQuote(asset.PriceCents(req.DurationClass)),
		ConfirmationCode: code,
		Status:           model.StatusRequested,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.releaseClaim(ctx, req.AssetID)
		s.cfg.Log.Error("Failed to create booking", "asset_id", req.AssetID, "error", err)
		return nil, err
	}

	if err := s.payments.Authorize(ctx, booking); err != nil {
		s.rollbackRequest(ctx, booking)
		s.cfg.Log.Warn("Payment authorization failed, booking rolled back",
			"booking_id", booking.ID,
			"asset_id", booking.AssetID,
			"error", err,
		)
		return nil, err
	}

	s.publish(ctx, events.TypeBookingRequested, booking)
	s.cfg.Log.Info("Booking requested",
		"booking_id", booking.ID,
		"asset_id", booking.AssetID,
		"renter_id", booking.RenterID,
		"total_cents", booking.Price.TotalCents,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateBookingError(err, id)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Accept moves a requested booking with a captured payment straight to active
// and hardens the asset hold, both writes in one transaction. A concurrent
// transition aborts with a conflict and no partial state.
func (s *bookingService) Accept(ctx context.Context, id string, actorID string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.OwnerID != actorID {
		return apperrors.Forbidden("Only the owner may accept a booking")
	}
	if booking.Status != model.StatusRequested {
		return apperrors.Conflict(fmt.Sprintf("Booking cannot be accepted from status %q", booking.Status))
	}

	captured, err := s.payments.IsCaptured(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to check payment status", err)
	}
	if !captured {
		return apperrors.PaymentRequired("Payment has not been captured yet")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.TransitionStatus(sessCtx, id, model.StatusRequested, model.StatusActive); err != nil {
			return s.translateBookingError(err, id)
		}
		if err := s.ledger.Activate(sessCtx, booking.AssetID); err != nil {
			if errors.Is(err, ledger.ErrAlreadyClaimed) {
				return apperrors.Conflict("Asset hold changed underneath the booking")
			}
			return apperrors.Internal("Failed to activate asset hold", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to accept booking", "booking_id", id, "error", err)
		return err
	}

	booking.Status = model.StatusActive
	s.publish(ctx, events.TypeBookingAccepted, booking)
	s.cfg.Log.Info("Booking accepted", "booking_id", id, "asset_id", booking.AssetID)
	return nil
}

// Reject declines a requested booking, releasing the asset in the same
// transaction and refunding any capture that already landed.
func (s *bookingService) Reject(ctx context.Context, id string, actorID string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.OwnerID != actorID {
		return apperrors.Forbidden("Only the owner may reject a booking")
	}
	if booking.Status != model.StatusRequested {
		return apperrors.Conflict(fmt.Sprintf("Booking cannot be rejected from status %q", booking.Status))
	}

	if err := s.rejectAndRelease(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to reject booking", "booking_id", id, "error", err)
		return err
	}

	s.refundIfCaptured(ctx, booking)

	booking.Status = model.StatusRejected
	s.publish(ctx, events.TypeBookingRejected, booking)
	s.cfg.Log.Info("Booking rejected", "booking_id", id, "asset_id", booking.AssetID)
	return nil
}

// VerifyReturn completes an active booking when the renter presents the
// matching confirmation code. Mismatches burn an attempt; the counter bounds
// guessing.
func (s *bookingService) VerifyReturn(ctx context.Context, id string, code string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusActive {
		return apperrors.Conflict(fmt.Sprintf("Booking cannot be returned from status %q", booking.Status))
	}

	if booking.CodeAttempts >= s.cfg.MaxCodeAttempts {
		return apperrors.Forbidden("Confirmation code attempts exhausted")
	}

	if subtle.ConstantTimeCompare([]byte(booking.ConfirmationCode), []byte(code)) != 1 {
		attempts, incErr := s.repo.IncrementCodeAttempts(ctx, id)
		if incErr != nil {
			s.cfg.Log.Error("Failed to record code attempt", "booking_id", id, "error", incErr)
		}
		if attempts >= s.cfg.MaxCodeAttempts {
			return apperrors.Forbidden("Confirmation code attempts exhausted")
		}
		return apperrors.InvalidInput("Confirmation code does not match")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Complete(sessCtx, id); err != nil {
			return s.translateBookingError(err, id)
		}
		if err := s.ledger.Release(sessCtx, booking.AssetID); err != nil {
			return apperrors.Internal("Failed to release asset", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to complete booking", "booking_id", id, "error", err)
		return err
	}

	booking.Status = model.StatusCompleted
	s.publish(ctx, events.TypeBookingCompleted, booking)
	s.cfg.Log.Info("Booking completed", "booking_id", id, "asset_id", booking.AssetID)
	return nil
}

// ForceComplete lets the owner close out an active booking without the
// confirmation code, covering a renter who exhausted the attempt counter or
// walked away with the code lost. The owner vouching for the physical return
// replaces the code check.
func (s *bookingService) ForceComplete(ctx context.Context, id string, actorID string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.OwnerID != actorID {
		return apperrors.Forbidden("Only the owner may force-complete a booking")
	}
	if booking.Status != model.StatusActive {
		return apperrors.Conflict(fmt.Sprintf("Booking cannot be force-completed from status %q", booking.Status))
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Complete(sessCtx, id); err != nil {
			return s.translateBookingError(err, id)
		}
		if err := s.ledger.Release(sessCtx, booking.AssetID); err != nil {
			return apperrors.Internal("Failed to release asset", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to force-complete booking", "booking_id", id, "error", err)
		return err
	}

	booking.Status = model.StatusCompleted
	s.publish(ctx, events.TypeBookingCompleted, booking)
	s.cfg.Log.Info("Booking force-completed by owner",
		"booking_id", id,
		"asset_id", booking.AssetID,
		"owner_id", actorID,
	)
	return nil
}

// ExpireStale auto-rejects requested bookings older than the configured TTL,
// releasing their claims and refunding captures. Returns how many expired.
func (s *bookingService) ExpireStale(ctx context.Context) (int, error) {
	const batchSize = 100

	cutoff := nowUTC().Add(-s.cfg.BookingRequestTTL)
	stale, err := s.repo.FindStaleRequested(ctx, cutoff, batchSize)
	if err != nil {
		return 0, apperrors.Internal("Failed to find stale bookings", err)
	}

	expired := 0
	for _, booking := range stale {
		if err := s.rejectAndRelease(ctx, booking); err != nil {
			// Lost to a concurrent transition; skip, not an error.
			if appErr, ok := err.(*apperrors.AppError); ok && appErr.Code == apperrors.CodeConflict {
				continue
			}
			s.cfg.Log.Error("Failed to expire booking", "booking_id", booking.ID, "error", err)
			continue
		}

		s.refundIfCaptured(ctx, booking)

		booking.Status = model.StatusRejected
		s.publish(ctx, events.TypeBookingRejected, booking)
		expired++
		s.cfg.Log.Info("Stale booking expired",
			"booking_id", booking.ID,
			"asset_id", booking.AssetID,
			"requested_at", booking.CreatedAt,
		)
	}

	return expired, nil
}

// --- Helpers ---

func (s *bookingService) rejectAndRelease(ctx context.Context, booking *model.Booking) error {
	return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.TransitionStatus(sessCtx, booking.ID, model.StatusRequested, model.StatusRejected); err != nil {
			return s.translateBookingError(err, booking.ID)
		}
		if err := s.ledger.Release(sessCtx, booking.AssetID); err != nil {
			return apperrors.Internal("Failed to release asset", err)
		}
		return nil
	})
}

// rollbackRequest undoes a freshly created booking after a failed
// authorization.
func (s *bookingService) rollbackRequest(ctx context.Context, booking *model.Booking) {
	if err := s.rejectAndRelease(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to roll back booking after authorization failure",
			"booking_id", booking.ID,
			"asset_id", booking.AssetID,
			"error", err,
		)
	}
}

func (s *bookingService) refundIfCaptured(ctx context.Context, booking *model.Booking) {
	captured, err := s.payments.IsCaptured(ctx, booking.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to check capture before refund", "booking_id", booking.ID, "error", err)
		return
	}
	if !captured {
		return
	}
	if err := s.payments.Refund(ctx, booking.ID); err != nil {
		s.cfg.Log.Error("Failed to refund rejected booking", "booking_id", booking.ID, "error", err)
	}
}

func (s *bookingService) releaseClaim(ctx context.Context, assetID string) {
	if err := s.ledger.Release(ctx, assetID); err != nil {
		s.cfg.Log.Error("Failed to release claim", "asset_id", assetID, "error", err)
	}
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishBookingEvent(ctx, eventType, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) translateBookingError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	if errors.Is(err, bookingserrors.ErrInvalidTransition) {
		return apperrors.Conflict("Booking was modified by a concurrent transition")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access booking", err)
}

func (s *bookingService) translateAssetError(err error, id string) error {
	if errors.Is(err, assetserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Asset", id)
	}
	if errors.Is(err, assetserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid asset ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to retrieve asset", err)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// generateConfirmationCode draws a uniform 6-digit code from crypto/rand.
func generateConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
