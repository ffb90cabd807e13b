package service

import (
	"context"
	"errors"

	paymentserrors "scootal/internal/payments/errors"
	"scootal/internal/payments/processor"
	"scootal/internal/payments/repository"
	"scootal/pkg/config"
	apperrors "scootal/pkg/errors"
	"scootal/pkg/model"
)

// ProviderDirectory resolves an owner to their payout account.
type ProviderDirectory interface {
	AccountFor(ctx context.Context, ownerID string) (accountID string, onboarded bool, err error)
}

type PayoutOrchestrator interface {
	Authorize(ctx context.Context, booking *model.Booking) error
	ConfirmCapture(ctx context.Context, intentID string, outcome string) error
	IsCaptured(ctx context.Context, bookingID string) (bool, error)
	Refund(ctx context.Context, bookingID string) error
}

type payoutOrchestrator struct {
	repo      repository.PaymentRepository
	processor processor.Processor
	providers ProviderDirectory
	cfg       *config.Config
}

func NewPayoutOrchestrator(
	repo repository.PaymentRepository,
	proc processor.Processor,
	providers ProviderDirectory,
	cfg *config.Config,
) PayoutOrchestrator {
	return &payoutOrchestrator{
		repo:      repo,
		processor: proc,
		providers: providers,
		cfg:       cfg,
	}
}

// Authorize opens the split payment for a requested booking. The owner must
// have a finished payout account; a missing or half-onboarded provider is a
// terminal refusal, not something to retry.
func (o *payoutOrchestrator) Authorize(ctx context.Context, booking *model.Booking) error {
	accountID, onboarded, err := o.providers.AccountFor(ctx, booking.OwnerID)
	if err != nil {
		if errors.Is(err, paymentserrors.ErrProviderNotOnboarded) {
			return apperrors.PaymentRequired("Owner has not completed payout onboarding")
		}
		return apperrors.Internal("Failed to resolve payout account", err)
	}
	if !onboarded {
		return apperrors.PaymentRequired("Owner has not completed payout onboarding")
	}

	fee := model.PlatformFeeCents(booking.Price.TotalCents)
	intentID, err := o.processor.CreateSplitIntent(ctx, booking.Price.TotalCents, fee, accountID, booking.ID)
	if err != nil {
		o.cfg.Log.Warn("Split payment authorization failed",
			"booking_id", booking.ID,
			"retryable", apperrors.IsRetryable(err),
			"error", err,
		)
		return err
	}

	record := &model.PaymentRecord{
		BookingID:        booking.ID,
		IntentID:         intentID,
		AmountCents:      booking.Price.TotalCents,
		PlatformFeeCents: fee,
		Status:           model.PaymentCreated,
	}
	if err := o.repo.Create(ctx, record); err != nil {
		// The intent exists but we lost its record; refund so nothing
		// dangles on the processor side.
		if refundErr := o.processor.RefundIntent(ctx, intentID); refundErr != nil {
			o.cfg.Log.Error("Failed to void orphaned intent", "intent_id", intentID, "error", refundErr)
		}
		return apperrors.Internal("Failed to persist payment record", err)
	}

	o.cfg.Log.Info("Payment authorized",
		"booking_id", booking.ID,
		"intent_id", intentID,
		"amount_cents", record.AmountCents,
		"platform_fee_cents", record.PlatformFeeCents,
	)
	return nil
}

// ConfirmCapture settles the record for an intent. Keyed by intent ID and
// guarded on the created status, so redelivered confirmations are no-ops.
func (o *payoutOrchestrator) ConfirmCapture(ctx context.Context, intentID string, outcome string) error {
	err := o.repo.Settle(ctx, intentID, outcome)
	if err != nil {
		if errors.Is(err, paymentserrors.ErrAlreadySettled) {
			o.cfg.Log.Debug("Duplicate capture confirmation ignored", "intent_id", intentID)
			return nil
		}
		if errors.Is(err, paymentserrors.ErrRecordNotFound) {
			return apperrors.NotFound("Payment record")
		}
		return apperrors.Internal("Failed to settle payment record", err)
	}

	o.cfg.Log.Info("Payment settled", "intent_id", intentID, "outcome", outcome)
	return nil
}

func (o *payoutOrchestrator) IsCaptured(ctx context.Context, bookingID string) (bool, error) {
	record, err := o.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, paymentserrors.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.Status == model.PaymentCaptured && !record.Refunded, nil
}

// Refund returns a captured payment in full and flags the record.
func (o *payoutOrchestrator) Refund(ctx context.Context, bookingID string) error {
	record, err := o.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, paymentserrors.ErrRecordNotFound) {
			return apperrors.NotFound("Payment record")
		}
		return apperrors.Internal("Failed to find payment record", err)
	}

	if record.Status != model.PaymentCaptured || record.Refunded {
		return apperrors.Conflict("Payment is not refundable")
	}

	if err := o.processor.RefundIntent(ctx, record.IntentID); err != nil {
		return err
	}

	if err := o.repo.MarkRefunded(ctx, record.IntentID); err != nil {
		o.cfg.Log.Error("Refund issued but record not flagged", "intent_id", record.IntentID, "error", err)
		return apperrors.Internal("Failed to flag refunded record", err)
	}

	o.cfg.Log.Info("Payment refunded", "booking_id", bookingID, "intent_id", record.IntentID)
	return nil
}
