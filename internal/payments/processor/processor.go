package processor

import "context"

// Processor is the payment-provider surface the reservation core consumes.
// The concrete implementation is Stripe; tests substitute function-field
// fakes.
type Processor interface {
	// CreateSplitIntent opens a payment for the booking total, routing the
	// owner's share to their connected account and retaining the platform
	// fee. Returns the provider's intent ID.
	CreateSplitIntent(ctx context.Context, amountCents, feeCents int64, destinationAccount, bookingID string) (string, error)

	// CreateFlatCharge runs a non-split platform charge, confirmed
	// immediately. Used for the promotional flag purchase.
	CreateFlatCharge(ctx context.Context, amountCents int64, assetID string) (string, error)

	// RefundIntent refunds a captured intent in full.
	RefundIntent(ctx context.Context, intentID string) error

	// CreateExpressAccount provisions a payout sub-account for an owner.
	CreateExpressAccount(ctx context.Context, email string) (string, error)

	// AccountOnboardingLink returns a hosted onboarding URL for the account.
	AccountOnboardingLink(ctx context.Context, accountID string) (string, error)

	// AccountReady reports whether the account can both charge and receive
	// transfers.
	AccountReady(ctx context.Context, accountID string) (bool, error)
}
