package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"scootal/internal/assets/repository"
	"scootal/internal/assets/validator"
	"scootal/internal/availability"
	assetserrors "scootal/internal/assets/errors"
	"scootal/pkg/config"
	apperrors "scootal/pkg/errors"
	"scootal/pkg/model"
)

type AssetService interface {
	Create(ctx context.Context, asset *model.Asset) error
	GetByID(ctx context.Context, id string) (*model.Asset, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Asset, int64, error)
	ListBiddable(ctx context.Context, start time.Time, class model.DurationClass, limit int, offset int64) ([]*model.Asset, error)
	UpdateAvailability(ctx context.Context, id string, actorID string, av model.WeeklyAvailability) error
	SetFeatured(ctx context.Context, id string) error
}

type assetService struct {
	repo      repository.AssetRepository
	validator *validator.AssetValidator
	cfg       *config.Config
}

func NewAssetService(
	repo repository.AssetRepository,
	validator *validator.AssetValidator,
	cfg *config.Config,
) AssetService {
	return &assetService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *assetService) Create(ctx context.Context, asset *model.Asset) error {
	s.applyDefaults(asset)

	if err := s.validator.Validate(asset); err != nil {
		s.cfg.Log.Warn("Asset validation failed", "error", err)
		return apperrors.Validation("Asset validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		s.cfg.Log.Error("Failed to create asset", "error", err)
		return apperrors.Internal("Failed to create asset", err)
	}

	s.cfg.Log.Info("Asset created successfully",
		"id", asset.ID,
		"owner_id", asset.OwnerID,
	)
	return nil
}

func (s *assetService) GetByID(ctx context.Context, id string) (*model.Asset, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Asset ID cannot be empty")
	}

	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, assetserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Asset", id)
		}
		if errors.Is(err, assetserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid asset ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve asset", err)
	}

	return asset, nil
}

func (s *assetService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Asset, int64, error) {
	var count int64
	var assets []*model.Asset
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count assets", "error", errCount)
			errCount = apperrors.Internal("Failed to count assets", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		assets, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list assets", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve assets", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return assets, count, nil
}

// ListBiddable returns confirmed, unclaimed assets that can serve a rental of
// the given class starting at the given instant. The store filter narrows on
// flags; the calendar match runs here because it needs the asset's zone.
// Pagination applies after the calendar filter so pages stay full and offsets
// stay stable.
func (s *assetService) ListBiddable(ctx context.Context, start time.Time, class model.DurationClass, limit int, offset int64) ([]*model.Asset, error) {
	if !class.Valid() {
		return nil, apperrors.InvalidInput("duration_class must be one of: 6h, 24h")
	}

	candidates, err := s.repo.FindBiddable(ctx, class)
	if err != nil {
		s.cfg.Log.Error("Failed to list biddable assets", "error", err)
		return nil, apperrors.Internal("Failed to retrieve biddable assets", err)
	}

	biddable := make([]*model.Asset, 0, len(candidates))
	for _, asset := range candidates {
		if availability.SupportsWindow(asset, start, class) {
			biddable = append(biddable, asset)
		}
	}

	s.cfg.Log.Debug("Biddable search completed",
		"class", class,
		"start", start,
		"candidates", len(candidates),
		"biddable", len(biddable),
	)
	return paginate(biddable, limit, offset), nil
}

func paginate(assets []*model.Asset, limit int, offset int64) []*model.Asset {
	if offset >= int64(len(assets)) {
		return []*model.Asset{}
	}
	end := offset + int64(limit)
	if end > int64(len(assets)) {
		end = int64(len(assets))
	}
	return assets[offset:end]
}

func (s *assetService) UpdateAvailability(ctx context.Context, id string, actorID string, av model.WeeklyAvailability) error {
	if id == "" {
		return apperrors.InvalidInput("Asset ID cannot be empty")
	}
	if actorID == "" {
		return apperrors.Unauthorized("Actor identity is required")
	}

	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if asset.OwnerID != actorID {
		return apperrors.Forbidden("Only the owner may edit availability")
	}

	if err := s.validator.ValidateAvailability(av); err != nil {
		s.cfg.Log.Warn("Availability validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid availability calendar", map[string]any{"error": err.Error()})
	}

	if err := s.repo.UpdateAvailability(ctx, id, av); err != nil {
		if errors.Is(err, assetserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Asset", id)
		}
		s.cfg.Log.Error("Failed to update availability", "id", id, "error", err)
		return apperrors.Internal("Failed to update availability", err)
	}

	s.cfg.Log.Info("Asset availability updated", "id", id)
	return nil
}

func (s *assetService) SetFeatured(ctx context.Context, id string) error {
	err := s.repo.SetFeatured(ctx, id)
	if err != nil {
		if errors.Is(err, assetserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Asset", id)
		}
		if errors.Is(err, assetserrors.ErrAlreadyFeatured) {
			return apperrors.Conflict("Asset is already featured")
		}
		if errors.Is(err, assetserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid asset ID format")
		}
		s.cfg.Log.Error("Failed to set featured flag", "id", id, "error", err)
		return apperrors.Internal("Failed to feature asset", err)
	}

	s.cfg.Log.Info("Asset featured", "id", id)
	return nil
}

func (s *assetService) applyDefaults(asset *model.Asset) {
	if asset.Exclusivity == "" {
		asset.Exclusivity = model.ExclusivityNone
	}
	if asset.TimeZone == "" {
		asset.TimeZone = s.cfg.DefaultTimeZone
	}
}
