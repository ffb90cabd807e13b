package service

import (
	"context"
	"testing"
	"time"

	bookingserrors "scootal/internal/bookings/errors"
	"scootal/internal/bookings/validator"
	"scootal/internal/ledger"
	"scootal/pkg/config"
	mongotx "scootal/pkg/db/mongo"
	apperrors "scootal/pkg/errors"
	"scootal/pkg/logger"
	"scootal/pkg/model"
)

const (
	testAssetID   = "507f1f77bcf86cd799439011"
	testBookingID = "64a1f77bcf86cd7994390123"
)

// Mock repository for testing
type mockBookingRepository struct {
	createFunc              func(ctx context.Context, booking *model.Booking) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc             func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	countFunc               func(ctx context.Context) (int64, error)
	transitionStatusFunc    func(ctx context.Context, id string, from, to string) error
	completeFunc            func(ctx context.Context, id string) error
	incrementAttemptsFunc   func(ctx context.Context, id string) (int, error)
	findStaleRequestedFunc  func(ctx context.Context, olderThan time.Time, limit int) ([]*model.Booking, error)
	executeTransactionFunc  func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = testBookingID
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) TransitionStatus(ctx context.Context, id string, from, to string) error {
	if m.transitionStatusFunc != nil {
		return m.transitionStatusFunc(ctx, id, from, to)
	}
	return nil
}

func (m *mockBookingRepository) Complete(ctx context.Context, id string) error {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) IncrementCodeAttempts(ctx context.Context, id string) (int, error) {
	if m.incrementAttemptsFunc != nil {
		return m.incrementAttemptsFunc(ctx, id)
	}
	return 1, nil
}

func (m *mockBookingRepository) FindStaleRequested(ctx context.Context, olderThan time.Time, limit int) ([]*model.Booking, error) {
	if m.findStaleRequestedFunc != nil {
		return m.findStaleRequestedFunc(ctx, olderThan, limit)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	return fn(nil)
}

type mockAssetFinder struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Asset, error)
}

func (m *mockAssetFinder) FindByID(ctx context.Context, id string) (*model.Asset, error) {
	return m.findByIDFunc(ctx, id)
}

type mockLedger struct {
	tryClaimFunc func(ctx context.Context, assetID string) error
	activateFunc func(ctx context.Context, assetID string) error
	releaseFunc  func(ctx context.Context, assetID string) error

	claims   int
	releases int
}

func (m *mockLedger) TryClaim(ctx context.Context, assetID string) error {
	m.claims++
	if m.tryClaimFunc != nil {
		return m.tryClaimFunc(ctx, assetID)
	}
	return nil
}

func (m *mockLedger) Activate(ctx context.Context, assetID string) error {
	if m.activateFunc != nil {
		return m.activateFunc(ctx, assetID)
	}
	return nil
}

func (m *mockLedger) Release(ctx context.Context, assetID string) error {
	m.releases++
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, assetID)
	}
	return nil
}

type mockPayments struct {
	authorizeFunc  func(ctx context.Context, booking *model.Booking) error
	isCapturedFunc func(ctx context.Context, bookingID string) (bool, error)
	refundFunc     func(ctx context.Context, bookingID string) error

	refunds int
}

func (m *mockPayments) Authorize(ctx context.Context, booking *model.Booking) error {
	if m.authorizeFunc != nil {
		return m.authorizeFunc(ctx, booking)
	}
	return nil
}

func (m *mockPayments) IsCaptured(ctx context.Context, bookingID string) (bool, error) {
	if m.isCapturedFunc != nil {
		return m.isCapturedFunc(ctx, bookingID)
	}
	return false, nil
}

func (m *mockPayments) Refund(ctx context.Context, bookingID string) error {
	m.refunds++
	if m.refundFunc != nil {
		return m.refundFunc(ctx, bookingID)
	}
	return nil
}

type mockPublisher struct {
	events []string
}

func (m *mockPublisher) PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) error {
	m.events = append(m.events, eventType)
	return nil
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})

	return &config.Config{
		Log:               log,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		MaxCodeAttempts:   5,
		BookingRequestTTL: 24 * time.Hour,
		DefaultTimeZone:   "UTC",
	}
}

func alwaysOpen() model.WeeklyAvailability {
	av := model.WeeklyAvailability{}
	for _, day := range model.Weekdays {
		av[day] = model.DayWindow{Open: true, OpenTime: "00:00", CloseTime: "23:59"}
	}
	return av
}

func confirmedAsset() *model.Asset {
	return &model.Asset{
		ID:                testAssetID,
		OwnerID:           "owner-1",
		Name:              "City Cruiser",
		AllowSixHour:      true,
		AllowFullDay:      true,
		SixHourPriceCents: 600,
		FullDayPriceCents: 2000,
		Availability:      alwaysOpen(),
		TimeZone:          "UTC",
		Exclusivity:       model.ExclusivityNone,
		Confirmed:         true,
	}
}

func newTestService(
	repo *mockBookingRepository,
	assets *mockAssetFinder,
	lg *mockLedger,
	payments *mockPayments,
	publisher *mockPublisher,
) *bookingService {
	cfg := testConfig()
	svc := &bookingService{
		repo:      repo,
		assets:    assets,
		ledger:    lg,
		payments:  payments,
		validator: validator.NewBookingValidator(cfg.Log),
		cfg:       cfg,
	}
	if publisher != nil {
		svc.events = publisher
	}
	return svc
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		AssetID:       testAssetID,
		RenterID:      "renter-1",
		StartTime:     time.Now().UTC().Add(2 * time.Hour),
		DurationClass: model.SixHour,
	}
}

func TestRequest_QuotesSplitPricing(t *testing.T) {
	repo := &mockBookingRepository{}
	assets := &mockAssetFinder{findByIDFunc: func(ctx context.Context, id string) (*model.Asset, error) {
		return confirmedAsset(), nil
	}}
	lg := &mockLedger{}
	payments := &mockPayments{}
	publisher := &mockPublisher{}

	svc := newTestService(repo, assets, lg, payments, publisher)

	req := validRequest()
	booking, err := svc.Request(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusRequested {
		t.Errorf("expected status requested, got %q", booking.Status)
	}
	if booking.Price.BaseCents != 600 {
		t.Errorf("expected base 600, got %d", booking.Price.BaseCents)
	}
	if booking.Price.UnlockFeeCents != 100 {
		t.Errorf("expected unlock fee 100, got %d", booking.Price.UnlockFeeCents)
	}
	if booking.Price.FeesAndTaxesCents != 90 {
		t.Errorf("expected fees 90, got %d", booking.Price.FeesAndTaxesCents)
	}
	if booking.Price.TotalCents != 790 {
		t.Errorf("expected total 790, got %d", booking.Price.TotalCents)
	}
	if got := booking.EndTime.Sub(booking.StartTime); got != 6*time.Hour {
		t.Errorf("expected 6h window, got %v", got)
	}
	if len(booking.ConfirmationCode) != 6 {
		t.Errorf("expected 6-digit confirmation code, got %q", booking.ConfirmationCode)
	}
	if lg.claims != 1 {
		t.Errorf("expected exactly one claim, got %d", lg.claims)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "booking.requested" {
		t.Errorf("expected booking.requested event, got %v", publisher.events)
	}
}

func TestRequest_AssetAlreadyClaimed(t *testing.T) {
	createCalled := false
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			createCalled = true
			return nil
		},
	}
	assets := &mockAssetFinder{findByIDFunc: func(ctx context.Context, id string) (*model.Asset, error) {
		return confirmedAsset(), nil
	}}
	lg := &mockLedger{tryClaimFunc: func(ctx context.Context, assetID string) error {
		return ledger.ErrAlreadyClaimed
	}}

	svc := newTestService(repo, assets, lg, &mockPayments{}, nil)

	_, err := svc.Request(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
	if createCalled {
		t.Error("booking must not be created when the claim is lost")
	}
}

func TestRequest_UnavailableWindow(t *testing.T) {
	asset := confirmedAsset()
	for _, day := range model.Weekdays {
		asset.Availability[day] = model.DayWindow{Open: false}
	}
	assets := &mockAssetFinder{findByIDFunc: func(ctx context.Context, id string) (*model.Asset, error) {
		return asset, nil
	}}
	lg := &mockLedger{}

	svc := newTestService(&mockBookingRepository{}, assets, lg, &mockPayments{}, nil)

	_, err := svc.Request(context.Background(), validRequest())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
	if lg.claims != 0 {
		t.Error("closed calendars must be rejected before touching the ledger")
	}
}

func TestRequest_UnconfirmedAsset(t *testing.T) {
	asset := confirmedAsset()
	asset.Confirmed = false
	assets := &mockAssetFinder{findByIDFunc: func(ctx context.Context, id string) (*model.Asset, error) {
		return asset, nil
	}}

	svc := newTestService(&mockBookingRepository{}, assets, &mockLedger{}, &mockPayments{}, nil)

	_, err := svc.Request(context.Background(), validRequest())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict for unconfirmed asset, got %v", err)
	}
}

func TestRequest_AuthorizationFailureRollsBack(t *testing.T) {
	var transitioned []string
	repo := &mockBookingRepository{
		transitionStatusFunc: func(ctx context.Context, id string, from, to string) error {
			transitioned = append(transitioned, from+"->"+to)
			return nil
		},
	}
	assets := &mockAssetFinder{findByIDFunc: func(ctx context.Context, id string) (*model.Asset, error) {
		return confirmedAsset(), nil
	}}
	lg := &mockLedger{}
	payments := &mockPayments{
		authorizeFunc: func(ctx context.Context, booking *model.Booking) error {
			return apperrors.PaymentRequired("Owner has no payout account")
		},
	}

	svc := newTestService(repo, assets, lg, payments, nil)

	_, err := svc.Request(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodePaymentRequired {
		t.Errorf("expected payment required, got %v", err)
	}
	if len(transitioned) != 1 || transitioned[0] != "requested->rejected" {
		t.Errorf("expected rollback to rejected, got %v", transitioned)
	}
	if lg.releases != 1 {
		t.Errorf("expected claim released on rollback, got %d releases", lg.releases)
	}
}

func TestAccept_RequiresCapturedPayment(t *testing.T) {
	transitioned := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return requestedBooking(), nil
		},
		transitionStatusFunc: func(ctx context.Context, id string, from, to string) error {
			transitioned = true
			return nil
		},
	}
	payments := &mockPayments{isCapturedFunc: func(ctx context.Context, bookingID string) (bool, error) {
		return false, nil
	}}

	svc := newTestService(repo, nil, &mockLedger{}, payments, nil)

	err := svc.Accept(context.Background(), testBookingID, "owner-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodePaymentRequired {
		t.Errorf("expected payment required, got %v", err)
	}
	if transitioned {
		t.Error("booking must not transition before the payment is captured")
	}
}

func TestAccept_Success(t *testing.T) {
	var transitioned []string
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return requestedBooking(), nil
		},
		transitionStatusFunc: func(ctx context.Context, id string, from, to string) error {
			transitioned = append(transitioned, from+"->"+to)
			return nil
		},
	}
	activated := false
	lg := &mockLedger{activateFunc: func(ctx context.Context, assetID string) error {
		activated = true
		return nil
	}}
	payments := &mockPayments{isCapturedFunc: func(ctx context.Context, bookingID string) (bool, error) {
		return true, nil
	}}
	publisher := &mockPublisher{}

	svc := newTestService(repo, nil, lg, payments, publisher)

	if err := svc.Accept(context.Background(), testBookingID, "owner-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transitioned) != 1 || transitioned[0] != "requested->active" {
		t.Errorf("expected requested->active, got %v", transitioned)
	}
	if !activated {
		t.Error("expected the claim hardened to active")
	}
	if len(publisher.events) != 1 || publisher.events[0] != "booking.accepted" {
		t.Errorf("expected booking.accepted event, got %v", publisher.events)
	}
}

func TestAccept_OnlyOwner(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return requestedBooking(), nil
		},
	}
	svc := newTestService(repo, nil, &mockLedger{}, &mockPayments{}, nil)

	err := svc.Accept(context.Background(), testBookingID, "someone-else")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestAccept_ConcurrentTransitionConflicts(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return requestedBooking(), nil
		},
		transitionStatusFunc: func(ctx context.Context, id string, from, to string) error {
			return bookingserrors.ErrInvalidTransition
		},
	}
	payments := &mockPayments{isCapturedFunc: func(ctx context.Context, bookingID string) (bool, error) {
		return true, nil
	}}

	svc := newTestService(repo, nil, &mockLedger{}, payments, nil)

	err := svc.Accept(context.Background(), testBookingID, "owner-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestReject_RefundsCapturedPayment(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return requestedBooking(), nil
		},
	}
	lg := &mockLedger{}
	payments := &mockPayments{isCapturedFunc: func(ctx context.Context, bookingID string) (bool, error) {
		return true, nil
	}}
	publisher := &mockPublisher{}

	svc := newTestService(repo, nil, lg, payments, publisher)

	if err := svc.Reject(context.Background(), testBookingID, "owner-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lg.releases != 1 {
		t.Errorf("expected release, got %d", lg.releases)
	}
	if payments.refunds != 1 {
		t.Errorf("expected refund of the captured payment, got %d", payments.refunds)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "booking.rejected" {
		t.Errorf("expected booking.rejected event, got %v", publisher.events)
	}
}

func TestVerifyReturn_CompletesOnMatch(t *testing.T) {
	completed := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return activeBooking("483920"), nil
		},
		completeFunc: func(ctx context.Context, id string) error {
			completed = true
			return nil
		},
	}
	lg := &mockLedger{}
	publisher := &mockPublisher{}

	svc := newTestService(repo, nil, lg, &mockPayments{}, publisher)

	if err := svc.VerifyReturn(context.Background(), testBookingID, "483920"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !completed {
		t.Error("expected the booking completed")
	}
	if lg.releases != 1 {
		t.Errorf("expected release, got %d", lg.releases)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "booking.completed" {
		t.Errorf("expected booking.completed event, got %v", publisher.events)
	}
}

func TestVerifyReturn_MismatchBurnsAttempt(t *testing.T) {
	incremented := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return activeBooking("483920"), nil
		},
		incrementAttemptsFunc: func(ctx context.Context, id string) (int, error) {
			incremented = true
			return 1, nil
		},
	}
	svc := newTestService(repo, nil, &mockLedger{}, &mockPayments{}, nil)

	err := svc.VerifyReturn(context.Background(), testBookingID, "000000")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %v", err)
	}
	if !incremented {
		t.Error("expected the attempt counter incremented")
	}
}

func TestVerifyReturn_AttemptsExhausted(t *testing.T) {
	booking := activeBooking("483920")
	booking.CodeAttempts = 5
	incremented := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		incrementAttemptsFunc: func(ctx context.Context, id string) (int, error) {
			incremented = true
			return 6, nil
		},
	}
	svc := newTestService(repo, nil, &mockLedger{}, &mockPayments{}, nil)

	err := svc.VerifyReturn(context.Background(), testBookingID, "483920")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
	if incremented {
		t.Error("exhausted bookings must not burn further attempts")
	}
}

func TestVerifyReturn_LastMismatchLocksOut(t *testing.T) {
	booking := activeBooking("483920")
	booking.CodeAttempts = 4
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		incrementAttemptsFunc: func(ctx context.Context, id string) (int, error) {
			return 5, nil
		},
	}
	svc := newTestService(repo, nil, &mockLedger{}, &mockPayments{}, nil)

	err := svc.VerifyReturn(context.Background(), testBookingID, "000000")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden on the last burned attempt, got %v", err)
	}
}

func TestVerifyReturn_RequiresActiveBooking(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return requestedBooking(), nil
		},
	}
	svc := newTestService(repo, nil, &mockLedger{}, &mockPayments{}, nil)

	err := svc.VerifyReturn(context.Background(), testBookingID, "483920")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestForceComplete_UnwedgesExhaustedBooking(t *testing.T) {
	booking := activeBooking("483920")
	booking.CodeAttempts = 5
	completed := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		completeFunc: func(ctx context.Context, id string) error {
			completed = true
			return nil
		},
	}
	lg := &mockLedger{}
	publisher := &mockPublisher{}
	svc := newTestService(repo, nil, lg, &mockPayments{}, publisher)

	// With the counter at the cap even the correct code is refused and the
	// booking is not rejectable, so the owner path is the only exit.
	err := svc.VerifyReturn(context.Background(), testBookingID, "483920")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden for the exhausted counter, got %v", err)
	}
	err = svc.Reject(context.Background(), testBookingID, "owner-1")
	appErr = apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict rejecting an active booking, got %v", err)
	}

	if err := svc.ForceComplete(context.Background(), testBookingID, "owner-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !completed {
		t.Error("expected the booking completed")
	}
	if lg.releases != 1 {
		t.Errorf("expected the claim released, got %d releases", lg.releases)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "booking.completed" {
		t.Errorf("expected a booking.completed event, got %v", publisher.events)
	}
}

func TestForceComplete_OnlyOwner(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return activeBooking("483920"), nil
		},
	}
	lg := &mockLedger{}
	svc := newTestService(repo, nil, lg, &mockPayments{}, nil)

	err := svc.ForceComplete(context.Background(), testBookingID, "renter-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
	if lg.releases != 0 {
		t.Errorf("expected no release, got %d", lg.releases)
	}
}

func TestForceComplete_RequiresActiveBooking(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return requestedBooking(), nil
		},
	}
	svc := newTestService(repo, nil, &mockLedger{}, &mockPayments{}, nil)

	err := svc.ForceComplete(context.Background(), testBookingID, "owner-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestExpireStale_SkipsConcurrentLosses(t *testing.T) {
	first := requestedBooking()
	first.ID = "64a1f77bcf86cd7994390001"
	second := requestedBooking()
	second.ID = "64a1f77bcf86cd7994390002"

	repo := &mockBookingRepository{
		findStaleRequestedFunc: func(ctx context.Context, olderThan time.Time, limit int) ([]*model.Booking, error) {
			return []*model.Booking{first, second}, nil
		},
		transitionStatusFunc: func(ctx context.Context, id string, from, to string) error {
			if id == second.ID {
				return bookingserrors.ErrInvalidTransition
			}
			return nil
		},
	}
	lg := &mockLedger{}
	publisher := &mockPublisher{}

	svc := newTestService(repo, nil, lg, &mockPayments{}, publisher)

	expired, err := svc.ExpireStale(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 1 {
		t.Errorf("expected 1 expired, got %d", expired)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "booking.rejected" {
		t.Errorf("expected one booking.rejected event, got %v", publisher.events)
	}
}

func requestedBooking() *model.Booking {
	start := time.Now().UTC().Add(2 * time.Hour)
	return &model.Booking{
		ID:               testBookingID,
		AssetID:          testAssetID,
		RenterID:         "renter-1",
		OwnerID:          "owner-1",
		StartTime:        start,
		EndTime:          start.Add(6 * time.Hour),
		DurationClass:    model.SixHour,
		Price:            model.NewQuote(600),
		ConfirmationCode: "483920",
		Status:           model.StatusRequested,
	}
}

func activeBooking(code string) *model.Booking {
	b := requestedBooking()
	b.ConfirmationCode = code
	b.Status = model.StatusActive
	return b
}
