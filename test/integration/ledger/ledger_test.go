package integrationtests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"scootal/internal/ledger"
	"scootal/pkg/model"
	"scootal/test/integration/testutil"
)

func seedAsset(t *testing.T, helper *testutil.MongoHelper, exclusivity string) string {
	t.Helper()

	id := primitive.NewObjectID()
	_, err := helper.Database.Collection(ledger.CollectionName).InsertOne(context.Background(), bson.M{
		"_id":         id,
		"owner_id":    "owner-1",
		"name":        "City Cruiser",
		"exclusivity": exclusivity,
		"confirmed":   true,
	})
	if err != nil {
		t.Fatalf("failed to seed asset: %v", err)
	}
	return id.Hex()
}

func assetExclusivity(t *testing.T, helper *testutil.MongoHelper, id string) string {
	t.Helper()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		t.Fatalf("bad asset id %s: %v", id, err)
	}

	var doc struct {
		Exclusivity string `bson:"exclusivity"`
	}
	err = helper.Database.Collection(ledger.CollectionName).
		FindOne(context.Background(), bson.M{"_id": objectID}).
		Decode(&doc)
	if err != nil {
		t.Fatalf("failed to read asset %s: %v", id, err)
	}
	return doc.Exclusivity
}

func TestTryClaim_ConcurrentRequestsSingleWinner(t *testing.T) {
	helper := testutil.NewMongoHelper(t)
	defer helper.Close(t)
	helper.DropCollection(t, ledger.CollectionName)

	assetID := seedAsset(t, helper, model.ExclusivityNone)
	lg := ledger.NewMongoLedger(helper.Cfg)

	const renters = 16
	results := make([]error, renters)
	var wg sync.WaitGroup
	wg.Add(renters)

	for i := 0; i < renters; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = lg.TryClaim(context.Background(), assetID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ledger.ErrAlreadyClaimed):
		default:
			t.Errorf("renter %d: unexpected error: %v", i, err)
		}
	}

	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
	if got := assetExclusivity(t, helper, assetID); got != model.ExclusivityClaimed {
		t.Errorf("expected exclusivity claimed, got %q", got)
	}
}

func TestClaimLifecycle(t *testing.T) {
	helper := testutil.NewMongoHelper(t)
	defer helper.Close(t)
	helper.DropCollection(t, ledger.CollectionName)

	assetID := seedAsset(t, helper, model.ExclusivityNone)
	lg := ledger.NewMongoLedger(helper.Cfg)
	ctx := context.Background()

	if err := lg.TryClaim(ctx, assetID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := lg.Activate(ctx, assetID); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if got := assetExclusivity(t, helper, assetID); got != model.ExclusivityActive {
		t.Errorf("expected active, got %q", got)
	}

	if err := lg.Release(ctx, assetID); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if got := assetExclusivity(t, helper, assetID); got != model.ExclusivityNone {
		t.Errorf("expected none after release, got %q", got)
	}

	// The freed asset is claimable again.
	if err := lg.TryClaim(ctx, assetID); err != nil {
		t.Errorf("reclaim after release failed: %v", err)
	}
}

func TestActivate_RequiresClaimedState(t *testing.T) {
	helper := testutil.NewMongoHelper(t)
	defer helper.Close(t)
	helper.DropCollection(t, ledger.CollectionName)

	assetID := seedAsset(t, helper, model.ExclusivityNone)
	lg := ledger.NewMongoLedger(helper.Cfg)

	err := lg.Activate(context.Background(), assetID)
	if !errors.Is(err, ledger.ErrAlreadyClaimed) {
		t.Errorf("expected ErrAlreadyClaimed for unclaimed asset, got %v", err)
	}
}

func TestRelease_Idempotent(t *testing.T) {
	helper := testutil.NewMongoHelper(t)
	defer helper.Close(t)
	helper.DropCollection(t, ledger.CollectionName)

	assetID := seedAsset(t, helper, model.ExclusivityNone)
	lg := ledger.NewMongoLedger(helper.Cfg)
	ctx := context.Background()

	if err := lg.Release(ctx, assetID); err != nil {
		t.Errorf("first release failed: %v", err)
	}
	if err := lg.Release(ctx, assetID); err != nil {
		t.Errorf("repeated release failed: %v", err)
	}
}

func TestTryClaim_UnknownAsset(t *testing.T) {
	helper := testutil.NewMongoHelper(t)
	defer helper.Close(t)
	helper.DropCollection(t, ledger.CollectionName)

	lg := ledger.NewMongoLedger(helper.Cfg)

	err := lg.TryClaim(context.Background(), primitive.NewObjectID().Hex())
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
