package processor

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"

	"scootal/pkg/config"
	apperrors "scootal/pkg/errors"
)

type stripeProcessor struct {
	sc  *stripe.Client
	cfg *config.Config
}

func NewStripeProcessor(cfg *config.Config) Processor {
	return &stripeProcessor{
		sc:  stripe.NewClient(cfg.StripeSecretKey),
		cfg: cfg,
	}
}

func (p *stripeProcessor) CreateSplitIntent(ctx context.Context, amountCents, feeCents int64, destinationAccount, bookingID string) (string, error) {
	intent, err := p.sc.V1PaymentIntents.Create(ctx, &stripe.PaymentIntentCreateParams{
		Amount:               stripe.Int64(amountCents),
		Currency:             stripe.String(string(stripe.CurrencyUSD)),
		ApplicationFeeAmount: stripe.Int64(feeCents),
		TransferData: &stripe.PaymentIntentCreateTransferDataParams{
			Destination: stripe.String(destinationAccount),
		},
		Metadata: map[string]string{"booking_id": bookingID},
	})
	if err != nil {
		return "", translateStripeError("Failed to open split payment", err)
	}
	return intent.ID, nil
}

func (p *stripeProcessor) CreateFlatCharge(ctx context.Context, amountCents int64, assetID string) (string, error) {
	intent, err := p.sc.V1PaymentIntents.Create(ctx, &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Confirm:  stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
		Metadata: map[string]string{"asset_id": assetID},
	})
	if err != nil {
		return "", translateStripeError("Failed to charge feature fee", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return "", apperrors.PaymentDeclined("Feature charge did not succeed", nil)
	}
	return intent.ID, nil
}

func (p *stripeProcessor) RefundIntent(ctx context.Context, intentID string) error {
	_, err := p.sc.V1Refunds.Create(ctx, &stripe.RefundCreateParams{
		PaymentIntent: stripe.String(intentID),
	})
	if err != nil {
		return translateStripeError("Failed to refund payment", err)
	}
	return nil
}

func (p *stripeProcessor) CreateExpressAccount(ctx context.Context, email string) (string, error) {
	acc, err := p.sc.V1Accounts.Create(ctx, &stripe.AccountCreateParams{
		Type:  stripe.String("express"),
		Email: stripe.String(email),
		Capabilities: &stripe.AccountCreateCapabilitiesParams{
			CardPayments: &stripe.AccountCreateCapabilitiesCardPaymentsParams{
				Requested: stripe.Bool(true),
			},
			Transfers: &stripe.AccountCreateCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	})
	if err != nil {
		return "", translateStripeError("Failed to create payout account", err)
	}
	return acc.ID, nil
}

func (p *stripeProcessor) AccountOnboardingLink(ctx context.Context, accountID string) (string, error) {
	link, err := p.sc.V1AccountLinks.Create(ctx, &stripe.AccountLinkCreateParams{
		Account:    stripe.String(accountID),
		Type:       stripe.String("account_onboarding"),
		ReturnURL:  stripe.String(p.cfg.OnboardingReturnURL),
		RefreshURL: stripe.String(p.cfg.OnboardingRefreshURL),
	})
	if err != nil {
		return "", translateStripeError("Failed to create onboarding link", err)
	}
	return link.URL, nil
}

func (p *stripeProcessor) AccountReady(ctx context.Context, accountID string) (bool, error) {
	acc, err := p.sc.V1Accounts.GetByID(ctx, accountID, nil)
	if err != nil {
		return false, translateStripeError("Failed to retrieve payout account", err)
	}
	return acc.ChargesEnabled && acc.DetailsSubmitted, nil
}

// translateStripeError maps the processor's error taxonomy onto ours: card
// declines are terminal, infrastructure failures are retryable.
func translateStripeError(message string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard:
			return apperrors.PaymentDeclined(message, err)
		case stripe.ErrorTypeAPI:
			return apperrors.Transient(message, err)
		}
	}
	return apperrors.Internal(message, err)
}
