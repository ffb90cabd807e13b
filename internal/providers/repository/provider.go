package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	paymentserrors "scootal/internal/payments/errors"
	"scootal/pkg/config"
	"scootal/pkg/model"
)

const (
	CollectionName = "Providers"
)

type mongoProviderRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type ProviderRepository interface {
	Create(ctx context.Context, provider *model.Provider) error
	FindByOwnerID(ctx context.Context, ownerID string) (*model.Provider, error)
	FindByAccountID(ctx context.Context, accountID string) (*model.Provider, error)
	MarkOnboarded(ctx context.Context, accountID string) error
}

func NewMongoProviderRepository(cfg *config.Config) ProviderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProviderRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoProviderRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Create inserts the provider keyed by owner ID, so an owner holds at most
// one payout account.
func (r *mongoProviderRepository) Create(ctx context.Context, provider *model.Provider) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	provider.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.collection.InsertOne(ctx, provider)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *mongoProviderRepository) FindByOwnerID(ctx context.Context, ownerID string) (*model.Provider, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var provider model.Provider
	err := r.collection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&provider)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, paymentserrors.ErrProviderNotOnboarded
		}
		return nil, fmt.Errorf("failed to find provider by owner: %w", err)
	}

	return &provider, nil
}

func (r *mongoProviderRepository) FindByAccountID(ctx context.Context, accountID string) (*model.Provider, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var provider model.Provider
	err := r.collection.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&provider)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, paymentserrors.ErrProviderNotOnboarded
		}
		return nil, fmt.Errorf("failed to find provider by account: %w", err)
	}

	return &provider, nil
}

func (r *mongoProviderRepository) MarkOnboarded(ctx context.Context, accountID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"account_id": accountID},
		bson.M{"$set": bson.M{
			"onboarded":  true,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark provider onboarded: %w", err)
	}
	if result.MatchedCount == 0 {
		return paymentserrors.ErrProviderNotOnboarded
	}
	return nil
}
