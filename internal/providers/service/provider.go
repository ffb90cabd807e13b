package service

import (
	"context"
	"errors"

	paymentserrors "scootal/internal/payments/errors"
	"scootal/internal/payments/processor"
	"scootal/internal/providers/repository"
	"scootal/pkg/config"
	apperrors "scootal/pkg/errors"
	"scootal/pkg/model"
)

type ProviderService interface {
	Onboard(ctx context.Context, ownerID, email string) (string, error)
	MarkOnboarded(ctx context.Context, accountID string) error
	AccountFor(ctx context.Context, ownerID string) (string, bool, error)
	Get(ctx context.Context, ownerID string) (*model.Provider, error)
}

type providerService struct {
	repo      repository.ProviderRepository
	processor processor.Processor
	cfg       *config.Config
}

func NewProviderService(
	repo repository.ProviderRepository,
	proc processor.Processor,
	cfg *config.Config,
) ProviderService {
	return &providerService{
		repo:      repo,
		processor: proc,
		cfg:       cfg,
	}
}

// Onboard returns a hosted onboarding URL for the owner, reusing their
// existing payout account when one is already on file.
func (s *providerService) Onboard(ctx context.Context, ownerID, email string) (string, error) {
	if ownerID == "" {
		return "", apperrors.Unauthorized("Actor identity is required")
	}
	if email == "" {
		return "", apperrors.InvalidInput("Email is required")
	}

	provider, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil && !errors.Is(err, paymentserrors.ErrProviderNotOnboarded) {
		return "", apperrors.Internal("Failed to look up provider", err)
	}

	if provider == nil {
		accountID, err := s.processor.CreateExpressAccount(ctx, email)
		if err != nil {
			s.cfg.Log.Error("Failed to create payout account", "owner_id", ownerID, "error", err)
			return "", err
		}

		provider = &model.Provider{
			OwnerID:   ownerID,
			AccountID: accountID,
			Email:     email,
		}
		if err := s.repo.Create(ctx, provider); err != nil {
			s.cfg.Log.Error("Failed to persist provider", "owner_id", ownerID, "error", err)
			return "", apperrors.Internal("Failed to persist provider", err)
		}

		s.cfg.Log.Info("Payout account created", "owner_id", ownerID, "account_id", accountID)
	}

	url, err := s.processor.AccountOnboardingLink(ctx, provider.AccountID)
	if err != nil {
		s.cfg.Log.Error("Failed to create onboarding link", "account_id", provider.AccountID, "error", err)
		return "", err
	}

	return url, nil
}

// MarkOnboarded records account readiness, arriving via the processor's
// account.updated callback.
func (s *providerService) MarkOnboarded(ctx context.Context, accountID string) error {
	if err := s.repo.MarkOnboarded(ctx, accountID); err != nil {
		if errors.Is(err, paymentserrors.ErrProviderNotOnboarded) {
			return apperrors.NotFound("Provider")
		}
		return apperrors.Internal("Failed to mark provider onboarded", err)
	}
	return nil
}

// AccountFor resolves an owner to their payout account for authorization.
func (s *providerService) AccountFor(ctx context.Context, ownerID string) (string, bool, error) {
	provider, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return "", false, err
	}
	return provider.AccountID, provider.Onboarded, nil
}

func (s *providerService) Get(ctx context.Context, ownerID string) (*model.Provider, error) {
	provider, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, paymentserrors.ErrProviderNotOnboarded) {
			return nil, apperrors.NotFound("Provider")
		}
		return nil, apperrors.Internal("Failed to retrieve provider", err)
	}
	return provider, nil
}
