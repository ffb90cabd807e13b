package service

import (
	"context"

	"scootal/internal/payments/processor"
	"scootal/pkg/config"
	apperrors "scootal/pkg/errors"
	"scootal/pkg/model"
)

// AssetFeaturer applies the promotional flag once the charge lands.
type AssetFeaturer interface {
	GetByID(ctx context.Context, id string) (*model.Asset, error)
	SetFeatured(ctx context.Context, id string) error
}

// FeatureEscrow gates the promotional flag behind a flat platform charge.
// The asset is checked before the charge so a missing or already-featured
// listing never incurs a charge-refund cycle; the charge settles before the
// flag flips, so a failed payment never leaves a featured listing behind.
type FeatureEscrow struct {
	processor processor.Processor
	assets    AssetFeaturer
	cfg       *config.Config
}

func NewFeatureEscrow(proc processor.Processor, assets AssetFeaturer, cfg *config.Config) *FeatureEscrow {
	return &FeatureEscrow{
		processor: proc,
		assets:    assets,
		cfg:       cfg,
	}
}

func (e *FeatureEscrow) PurchaseFeature(ctx context.Context, assetID string) error {
	asset, err := e.assets.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if asset.Featured {
		return apperrors.Conflict("Asset is already featured")
	}

	intentID, err := e.processor.CreateFlatCharge(ctx, model.FeatureFeeCents, assetID)
	if err != nil {
		e.cfg.Log.Warn("Feature charge failed, flag untouched", "asset_id", assetID, "error", err)
		return err
	}

	if err := e.assets.SetFeatured(ctx, assetID); err != nil {
		// Charge captured but the flag did not flip; refund it.
		if refundErr := e.processor.RefundIntent(ctx, intentID); refundErr != nil {
			e.cfg.Log.Error("Failed to refund feature charge", "asset_id", assetID, "intent_id", intentID, "error", refundErr)
		}
		return err
	}

	e.cfg.Log.Info("Feature purchased", "asset_id", assetID, "intent_id", intentID)
	return nil
}
