package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	paymentserrors "scootal/internal/payments/errors"
	"scootal/pkg/config"
	"scootal/pkg/model"
)

const (
	CollectionName = "PaymentRecords"
)

type mongoPaymentRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type PaymentRepository interface {
	Create(ctx context.Context, record *model.PaymentRecord) error
	FindByBookingID(ctx context.Context, bookingID string) (*model.PaymentRecord, error)
	FindByIntentID(ctx context.Context, intentID string) (*model.PaymentRecord, error)
	Settle(ctx context.Context, intentID string, outcome string) error
	MarkRefunded(ctx context.Context, intentID string) error
}

func NewMongoPaymentRepository(cfg *config.Config) PaymentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPaymentRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPaymentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPaymentRepository) Create(ctx context.Context, record *model.PaymentRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPaymentRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.PaymentRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var record model.PaymentRecord
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, paymentserrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find payment record by booking: %w", err)
	}

	return &record, nil
}

func (r *mongoPaymentRepository) FindByIntentID(ctx context.Context, intentID string) (*model.PaymentRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var record model.PaymentRecord
	err := r.collection.FindOne(ctx, bson.M{"intent_id": intentID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, paymentserrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find payment record by intent: %w", err)
	}

	return &record, nil
}

// Settle advances created -> captured/failed. The filter pins the created
// status, so a redelivered confirmation matches nothing and surfaces as
// ErrAlreadySettled for the caller to swallow.
func (r *mongoPaymentRepository) Settle(ctx context.Context, intentID string, outcome string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if outcome != model.PaymentCaptured && outcome != model.PaymentFailed {
		return fmt.Errorf("invalid settlement outcome: %s", outcome)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"intent_id": intentID, "status": model.PaymentCreated},
		bson.M{"$set": bson.M{
			"status":     outcome,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to settle payment record: %w", err)
	}

	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"intent_id": intentID})
		if err != nil {
			return fmt.Errorf("failed to check payment record existence: %w", err)
		}
		if count == 0 {
			return paymentserrors.ErrRecordNotFound
		}
		return paymentserrors.ErrAlreadySettled
	}
	return nil
}

func (r *mongoPaymentRepository) MarkRefunded(ctx context.Context, intentID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"intent_id": intentID},
		bson.M{"$set": bson.M{
			"refunded":   true,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment refunded: %w", err)
	}
	if result.MatchedCount == 0 {
		return paymentserrors.ErrRecordNotFound
	}
	return nil
}
