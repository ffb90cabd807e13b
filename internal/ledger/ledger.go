package ledger

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"scootal/pkg/config"
	"scootal/pkg/model"
)

const CollectionName = "Scooters"

// Ledger serializes exclusive holds on assets. Every mutation is a single
// conditional update on the asset document, so exactly one concurrent caller
// can move exclusivity off "none".
type Ledger interface {
	TryClaim(ctx context.Context, assetID string) error
	Activate(ctx context.Context, assetID string) error
	Release(ctx context.Context, assetID string) error
}

type mongoLedger struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLedger(cfg *config.Config) Ledger {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLedger{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (l *mongoLedger) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// TryClaim moves exclusivity none -> claimed. The filter carries the expected
// state, so a concurrent winner leaves every other caller with a zero match.
func (l *mongoLedger) TryClaim(ctx context.Context, assetID string) error {
	return l.compareAndSet(ctx, assetID, model.ExclusivityNone, model.ExclusivityClaimed)
}

// Activate moves exclusivity claimed -> active.
func (l *mongoLedger) Activate(ctx context.Context, assetID string) error {
	return l.compareAndSet(ctx, assetID, model.ExclusivityClaimed, model.ExclusivityActive)
}

// Release sets exclusivity back to none unconditionally. Releasing an
// already-free asset is a no-op, so callers can release in every failure path.
func (l *mongoLedger) Release(ctx context.Context, assetID string) error {
	ctx, cancel := l.withTimeout(ctx, l.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(assetID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, assetID)
	}

	result, err := l.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"exclusivity": model.ExclusivityNone}},
	)
	if err != nil {
		return fmt.Errorf("failed to release asset: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (l *mongoLedger) compareAndSet(ctx context.Context, assetID, from, to string) error {
	ctx, cancel := l.withTimeout(ctx, l.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(assetID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, assetID)
	}

	result, err := l.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "exclusivity": from},
		bson.M{"$set": bson.M{"exclusivity": to}},
	)
	if err != nil {
		return fmt.Errorf("failed to update exclusivity: %w", err)
	}

	if result.MatchedCount == 0 {
		// Distinguish a missing asset from a lost race.
		count, err := l.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return fmt.Errorf("failed to check asset existence: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyClaimed
	}

	return nil
}
